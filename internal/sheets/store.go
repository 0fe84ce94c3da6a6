// Пакет sheets — граница табличного хранилища. Ядро бота работает только
// со значениями ячеек по координатам (строка/колонка с 1), не завися от
// форматирования и конкретной платформы таблиц.
package sheets

// Store — доступ на чтение/запись к прямоугольным диапазонам листов.
// Все координаты 1-based, как в табличных редакторах.
type Store interface {
	// ReadRange возвращает прямоугольник значений numRows x numCols,
	// начиная с (row, col). Пустые ячейки — пустые строки.
	ReadRange(sheet string, row, col, numRows, numCols int) ([][]any, error)
	// WriteRange записывает прямоугольник значений, начиная с (row, col).
	WriteRange(sheet string, row, col int, values [][]any) error
	// SetCell записывает одно значение.
	SetCell(sheet string, row, col int, value any) error
	// AppendRow дописывает строку после последней занятой.
	AppendRow(sheet string, values []any) error
	// LastRow возвращает номер последней непустой строки листа (0 — лист пуст).
	LastRow(sheet string) (int, error)
	// RemoveRows удаляет count строк, начиная со строки row.
	RemoveRows(sheet string, row, count int) error
	// InsertRows вставляет count пустых строк перед строкой row.
	InsertRows(sheet string, row, count int) error
	// Save сбрасывает накопленные изменения в постоянное хранилище.
	Save() error
}
