package models

// Payment — строка реестра оплат, собранная из ячеек по карте колонок.
// PlanPaymentDate и Amount намеренно остаются "сырыми" значениями ячеек:
// парсинг дат и сумм выполняется утилитами на границе сравнения.
type Payment struct {
	PlanPaymentDate any
	Organization    string
	Contractor      string
	Project         string
	Nomenclature    string
	Contract        string
	Invoice         string
	Purpose         string
	Department      string
	Responsible     string
	Amount          any
	Currency        string
	Approved        bool
	Paid            bool
	ID              string // с префиксом состояния 'U'/'N'
}

// Task — строка листа задач.
type Task struct {
	Description string
	Decision    string
	Responsible string
	DueDate     any
	Status      string
	ID          string // с префиксом состояния 'U'/'N'
}
