package models

// EditEvent — уведомление платформы таблиц об изменении ячейки.
// Приходит POST-запросом на /events/edit.
type EditEvent struct {
	Spreadsheet string `json:"spreadsheet"`
	SheetName   string `json:"sheet"`
	Row         int    `json:"row"`
	Col         int    `json:"col"`
	Value       string `json:"value"`
}
