package sheets

import (
	"fmt"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
)

// ExcelStore — реализация Store поверх xlsx-книги (excelize).
// Одна книга — одно хранилище (реестр оплат, задачи, users, logs).
type ExcelStore struct {
	path string
	file *excelize.File
	mu   sync.Mutex
}

// OpenExcelStore открывает книгу по пути. Если файла нет — создает новую
// пустую книгу, чтобы первый запуск не падал на отсутствующем файле.
func OpenExcelStore(path string) (*ExcelStore, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		f := excelize.NewFile()
		if err := f.SaveAs(path); err != nil {
			return nil, fmt.Errorf("не удалось создать книгу %s: %w", path, err)
		}
		return &ExcelStore{path: path, file: f}, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть книгу %s: %w", path, err)
	}
	return &ExcelStore{path: path, file: f}, nil
}

// NewExcelStore оборачивает уже открытый excelize.File (используется в тестах).
func NewExcelStore(f *excelize.File) *ExcelStore {
	return &ExcelStore{file: f}
}

// ensureSheet создает лист, если его еще нет.
func (s *ExcelStore) ensureSheet(sheet string) error {
	idx, err := s.file.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if idx == -1 {
		if _, err := s.file.NewSheet(sheet); err != nil {
			return fmt.Errorf("не удалось создать лист %q: %w", sheet, err)
		}
	}
	return nil
}

func (s *ExcelStore) ReadRange(sheet string, row, col, numRows, numCols int) ([][]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if numRows <= 0 || numCols <= 0 {
		return nil, nil
	}

	values := make([][]any, numRows)
	for r := 0; r < numRows; r++ {
		values[r] = make([]any, numCols)
		for c := 0; c < numCols; c++ {
			cell, err := excelize.CoordinatesToCellName(col+c, row+r)
			if err != nil {
				return nil, err
			}
			v, err := s.file.GetCellValue(sheet, cell)
			if err != nil {
				return nil, fmt.Errorf("чтение %s!%s: %w", sheet, cell, err)
			}
			values[r][c] = v
		}
	}
	return values, nil
}

func (s *ExcelStore) WriteRange(sheet string, row, col int, values [][]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSheet(sheet); err != nil {
		return err
	}
	for r, rowValues := range values {
		for c, v := range rowValues {
			cell, err := excelize.CoordinatesToCellName(col+c, row+r)
			if err != nil {
				return err
			}
			if err := s.file.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("запись %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}

func (s *ExcelStore) SetCell(sheet string, row, col int, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSheet(sheet); err != nil {
		return err
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return s.file.SetCellValue(sheet, cell, value)
}

func (s *ExcelStore) AppendRow(sheet string, values []any) error {
	last, err := s.LastRow(sheet)
	if err != nil {
		return err
	}
	return s.WriteRange(sheet, last+1, 1, [][]any{values})
}

func (s *ExcelStore) LastRow(sheet string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.file.GetRows(sheet)
	if err != nil {
		return 0, fmt.Errorf("чтение листа %q: %w", sheet, err)
	}
	// GetRows может вернуть хвост полностью пустых строк — ищем последнюю непустую
	for i := len(rows) - 1; i >= 0; i-- {
		for _, v := range rows[i] {
			if v != "" {
				return i + 1, nil
			}
		}
	}
	return 0, nil
}

func (s *ExcelStore) RemoveRows(sheet string, row, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < count; i++ {
		if err := s.file.RemoveRow(sheet, row); err != nil {
			return fmt.Errorf("удаление строки %d листа %q: %w", row, sheet, err)
		}
	}
	return nil
}

func (s *ExcelStore) InsertRows(sheet string, row, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if count <= 0 {
		return nil
	}
	if err := s.ensureSheet(sheet); err != nil {
		return err
	}
	if err := s.file.InsertRows(sheet, row, count); err != nil {
		return fmt.Errorf("вставка %d строк в лист %q: %w", count, sheet, err)
	}
	return nil
}

// Save сохраняет книгу на диск.
func (s *ExcelStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return s.file.Save()
	}
	return s.file.SaveAs(s.path)
}
