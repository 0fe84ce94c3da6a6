package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CellString приводит значение ячейки к строке. nil — пустая строка.
func CellString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case time.Time:
		return FormatDateUA(s)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// IsTruthy трактует значение ячейки как булев флаг таблицы:
// истинны bool true и строки "TRUE"/"true"/"1" (чекбоксы приходят строками).
func IsTruthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		s := strings.TrimSpace(b)
		return s == "TRUE" || s == "true" || s == "1"
	default:
		return false
	}
}

// IsEmptyCell сообщает, пуста ли ячейка (nil или пустая/пробельная строка).
func IsEmptyCell(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// CellAmount разбирает сумму из ячейки. Второе значение false —
// сумма отсутствует или не числовая.
func CellAmount(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		// В выгрузках встречаются запятые как десятичный разделитель
		s = strings.ReplaceAll(s, ",", ".")
		s = strings.ReplaceAll(s, " ", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
