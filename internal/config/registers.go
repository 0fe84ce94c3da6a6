package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RegisterOverride — разреженное переопределение конфигурации одного реестра.
// Нулевые значения означают "оставить значение по умолчанию".
type RegisterOverride struct {
	SheetName            string         `yaml:"sheet_name"`
	Columns              map[string]int `yaml:"columns"`
	ToggleApprovedColumn int            `yaml:"toggle_approved_column"`
	TogglePaidColumn     int            `yaml:"toggle_paid_column"`
	IDColumn             int            `yaml:"id_column"`
	DataStartRow         int            `yaml:"data_start_row"`
}

// DateCellOverride — адрес ячейки с датой фильтрации реестра.
type DateCellOverride struct {
	SheetName string `yaml:"sheet_name"`
	Row       int    `yaml:"row"`
	Column    int    `yaml:"column"`
}

// RegisterOverrides — содержимое необязательного YAML-файла с
// переопределениями карт колонок для конкретных таблиц.
type RegisterOverrides struct {
	Source   RegisterOverride  `yaml:"source"`
	Target   RegisterOverride  `yaml:"target"`
	Tasks    RegisterOverride  `yaml:"tasks"`
	DateCell *DateCellOverride `yaml:"date_cell"`
}

// LoadRegisterOverrides читает YAML с переопределениями. Пустой путь —
// пустые переопределения, это не ошибка.
func LoadRegisterOverrides(path string) (*RegisterOverrides, error) {
	overrides := &RegisterOverrides{}
	if path == "" {
		return overrides, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать файл переопределений %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, overrides); err != nil {
		return nil, fmt.Errorf("не удалось разобрать YAML %s: %w", path, err)
	}
	return overrides, nil
}
