package tasks

import (
	appcfg "github.com/chenko-bud/google-sheets-notifications/internal/config"
)

// Логические поля листа задач.
const (
	FieldDescription = "DESCRIPTION"
	FieldDecision    = "DECISION"
	FieldResponsible = "RESPONSIBLE"
	FieldDueDate     = "DUE_DATE"
	FieldStatus      = "STATUS"
	FieldID          = "ID"
)

// RegisterConfig — раскладка листа задач.
type RegisterConfig struct {
	SheetName    string
	Columns      map[string]int
	DataStartRow int
}

// DefaultConfig — раскладка листа задач по умолчанию.
func DefaultConfig() RegisterConfig {
	return RegisterConfig{
		SheetName: "Завдання",
		Columns: map[string]int{
			FieldDescription: 1, // A - Завдання
			FieldDecision:    4, // D - Рішення
			FieldResponsible: 5, // E - Відповідальний
			FieldDueDate:     6, // F - Дата виконання
			FieldStatus:      7, // G - Статус
			FieldID:          8, // H - ID
		},
		DataStartRow: 11,
	}
}

// MergeConfig применяет разреженное переопределение к базовой раскладке.
func MergeConfig(base RegisterConfig, override appcfg.RegisterOverride) RegisterConfig {
	merged := base
	merged.Columns = make(map[string]int, len(base.Columns))
	for k, v := range base.Columns {
		merged.Columns[k] = v
	}
	for k, v := range override.Columns {
		if v > 0 {
			merged.Columns[k] = v
		}
	}
	if override.SheetName != "" {
		merged.SheetName = override.SheetName
	}
	if override.DataStartRow != 0 {
		merged.DataStartRow = override.DataStartRow
	}
	return merged
}

// MaxColumn возвращает самую правую задействованную колонку листа.
func (c RegisterConfig) MaxColumn() int {
	max := 0
	for _, col := range c.Columns {
		if col > max {
			max = col
		}
	}
	return max
}
