package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// freeFormLayouts — запасные форматы разбора дат, когда строка не похожа
// на "ДД.ММ.ГГГГ". Порядок важен: сначала ISO, затем варианты со слешами.
var freeFormLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	time.RFC1123,
}

// MidnightTimestamp нормализует дату к timestamp локальной полуночи (мс).
// Принимает time.Time или строку ("ДД.ММ.ГГГГ", ISO и т.п.).
// Второе возвращаемое значение false — дату распознать не удалось;
// вызывающий обязан трактовать это как "исключить из рассмотрения",
// а не как ошибку.
func MidnightTimestamp(input any) (int64, bool) {
	var t time.Time

	switch v := input.(type) {
	case nil:
		return 0, false
	case time.Time:
		if v.IsZero() {
			return 0, false
		}
		t = v
	case *time.Time:
		if v == nil || v.IsZero() {
			return 0, false
		}
		t = *v
	case string:
		clean := strings.TrimSpace(v)
		if clean == "" {
			return 0, false
		}
		parsed, ok := parseDateString(clean)
		if !ok {
			return 0, false
		}
		t = parsed
	default:
		return 0, false
	}

	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
	return midnight.UnixMilli(), true
}

// parseDateString разбирает строку с датой. Сначала европейский формат
// "ДД.ММ.ГГГГ" (самый частый в таблицах), потом свободные форматы.
func parseDateString(s string) (time.Time, bool) {
	if strings.Contains(s, ".") {
		parts := strings.Split(s, ".")
		if len(parts) == 3 {
			day, errD := strconv.Atoi(strings.TrimSpace(parts[0]))
			month, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
			year, errY := strconv.Atoi(strings.TrimSpace(parts[2]))
			if errD == nil && errM == nil && errY == nil &&
				month >= 1 && month <= 12 && day >= 1 && day <= 31 {
				t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
				// time.Date нормализует 31.02 в март — отвергаем такие даты
				if t.Day() == day && t.Month() == time.Month(month) {
					return t, true
				}
			}
		}
	}

	for _, layout := range freeFormLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// CompareDates сравнивает две даты с точностью до календарного дня.
// Если хотя бы одну дату не удалось распознать — возвращает false и
// никогда не паникует. Поддерживаются операторы >, <, >=, <= и
// синонимы равенства =, ==, ===.
func CompareDates(date1 any, operator string, date2 any) bool {
	t1, ok1 := MidnightTimestamp(date1)
	t2, ok2 := MidnightTimestamp(date2)
	if !ok1 || !ok2 {
		return false
	}

	switch operator {
	case ">":
		return t1 > t2
	case "<":
		return t1 < t2
	case ">=":
		return t1 >= t2
	case "<=":
		return t1 <= t2
	case "=", "==", "===":
		return t1 == t2
	default:
		return false
	}
}

// FormatDateUA форматирует дату для отображения пользователю ("ДД.ММ.ГГГГ").
// Для пустых или нераспознанных значений возвращает локализованную заглушку.
func FormatDateUA(input any) string {
	ts, ok := MidnightTimestamp(input)
	if !ok {
		if s, isStr := input.(string); isStr && strings.TrimSpace(s) != "" {
			// Нераспознанную, но непустую строку показываем как есть
			return s
		}
		return "Не вказано"
	}
	t := time.UnixMilli(ts)
	return fmt.Sprintf("%02d.%02d.%04d", t.Day(), int(t.Month()), t.Year())
}
