package payments

import (
	appcfg "github.com/chenko-bud/google-sheets-notifications/internal/config"
)

// Логические поля реестра оплат. Карты колонок связывают поле с его
// позицией (1-based) на конкретном листе.
const (
	FieldPlanPaymentDate = "PLAN_PAYMENT_DATE"
	FieldOrganization    = "ORGANIZATION"
	FieldContractor      = "CONTRACTOR"
	FieldProject         = "PROJECT"
	FieldNomenclature    = "NOMENCLATURE"
	FieldContract        = "CONTRACT"
	FieldInvoice         = "INVOICE"
	FieldPurpose         = "PURPOSE"
	FieldDepartment      = "DEPARTMENT"
	FieldResponsible     = "RESPONSIBLE"
	FieldAmount          = "AMOUNT"
	FieldCurrency        = "CURRENCY"
)

// RegisterConfig описывает раскладку одного реестра: лист, карта колонок,
// служебные колонки и первая строка данных.
type RegisterConfig struct {
	SheetName            string
	Columns              map[string]int
	ToggleApprovedColumn int // -1 — колонки нет
	TogglePaidColumn     int // -1 — колонки нет
	IDColumn             int // -1 — колонки нет
	DataStartRow         int
}

// DateCell — адрес ячейки с датой фильтрации на листе реестра.
type DateCell struct {
	SheetName string
	Row       int
	Column    int
}

// DefaultSourceConfig — раскладка исходного свода заявок (широкая выгрузка).
func DefaultSourceConfig() RegisterConfig {
	return RegisterConfig{
		SheetName: "Свод заявок",
		Columns: map[string]int{
			FieldPlanPaymentDate: 25, // Y - Планова дата оплати
			FieldOrganization:    26, // Z - Організація
			FieldContractor:      27, // AA - Контрагент
			FieldProject:         28, // AB - Проект
			FieldNomenclature:    29, // AC - Номенклатура
			FieldContract:        35, // AI - Договір
			FieldInvoice:         36, // AJ - Рахунок
			FieldPurpose:         37, // AK - Призначення
			FieldDepartment:      38, // AL - Підрозділ
			FieldResponsible:     43, // AQ - Відповідальний
			FieldAmount:          33, // AG - Сума
			FieldCurrency:        34, // AH - Валюта
		},
		ToggleApprovedColumn: -1,
		TogglePaidColumn:     -1,
		IDColumn:             -1,
		DataStartRow:         2,
	}
}

// DefaultTargetConfig — раскладка целевого реестра оплат.
func DefaultTargetConfig() RegisterConfig {
	return RegisterConfig{
		SheetName: "Реєстр",
		Columns: map[string]int{
			FieldPlanPaymentDate: 1,  // A
			FieldOrganization:    2,  // B
			FieldContractor:      3,  // C
			FieldProject:         4,  // D
			FieldNomenclature:    5,  // E
			FieldContract:        6,  // F
			FieldInvoice:         7,  // G
			FieldPurpose:         8,  // H
			FieldDepartment:      9,  // I
			FieldResponsible:     10, // J
			FieldAmount:          11, // K
			FieldCurrency:        12, // L
		},
		ToggleApprovedColumn: 13, // M - Позначка затвердження
		TogglePaidColumn:     14, // N - Позначка оплати
		IDColumn:             15, // O - ID сповіщення
		DataStartRow:         7,
	}
}

// DefaultDateCell — ячейка даты фильтрации по умолчанию (Реєстр!C2).
func DefaultDateCell() DateCell {
	return DateCell{SheetName: "Реєстр", Row: 2, Column: 3}
}

// MergeConfig применяет разреженное переопределение к базовой конфигурации.
// Применяется один раз при конструировании сервиса.
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
	if override.ToggleApprovedColumn != 0 {
		merged.ToggleApprovedColumn = override.ToggleApprovedColumn
	}
	if override.TogglePaidColumn != 0 {
		merged.TogglePaidColumn = override.TogglePaidColumn
	}
	if override.IDColumn != 0 {
		merged.IDColumn = override.IDColumn
	}
	if override.DataStartRow != 0 {
		merged.DataStartRow = override.DataStartRow
	}
	return merged
}

// MergeDateCell применяет переопределение адреса ячейки даты.
func MergeDateCell(base DateCell, override *appcfg.DateCellOverride) DateCell {
	if override == nil {
		return base
	}
	merged := base
	if override.SheetName != "" {
		merged.SheetName = override.SheetName
	}
	if override.Row > 0 {
		merged.Row = override.Row
	}
	if override.Column > 0 {
		merged.Column = override.Column
	}
	return merged
}

// MaxColumn возвращает самую правую задействованную колонку реестра.
func (c RegisterConfig) MaxColumn() int {
	max := 0
	for _, col := range c.Columns {
		if col > max {
			max = col
		}
	}
	for _, col := range []int{c.ToggleApprovedColumn, c.TogglePaidColumn, c.IDColumn} {
		if col > max {
			max = col
		}
	}
	return max
}
