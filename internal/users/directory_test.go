package users

import (
	"fmt"
	"testing"

	"github.com/chenko-bud/google-sheets-notifications/internal/botlog"
	"github.com/chenko-bud/google-sheets-notifications/internal/constants"
	"github.com/chenko-bud/google-sheets-notifications/internal/models"
)

// fakeStore — табличное хранилище в памяти для тестов справочника.
type fakeStore struct {
	rows  [][]any
	saves int
}

func (f *fakeStore) ReadRange(sheet string, row, col, numRows, numCols int) ([][]any, error) {
	result := make([][]any, numRows)
	for i := 0; i < numRows; i++ {
		line := make([]any, numCols)
		for j := 0; j < numCols; j++ {
			r, c := row-1+i, col-1+j
			if r < len(f.rows) && c < len(f.rows[r]) {
				line[j] = f.rows[r][c]
			} else {
				line[j] = ""
			}
		}
		result[i] = line
	}
	return result, nil
}

func (f *fakeStore) WriteRange(sheet string, row, col int, values [][]any) error {
	for i, line := range values {
		for j, v := range line {
			if err := f.SetCell(sheet, row+i, col+j, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *fakeStore) SetCell(sheet string, row, col int, value any) error {
	for len(f.rows) < row {
		f.rows = append(f.rows, nil)
	}
	for len(f.rows[row-1]) < col {
		f.rows[row-1] = append(f.rows[row-1], "")
	}
	f.rows[row-1][col-1] = value
	return nil
}

func (f *fakeStore) AppendRow(sheet string, values []any) error {
	f.rows = append(f.rows, values)
	return nil
}

func (f *fakeStore) LastRow(sheet string) (int, error) { return len(f.rows), nil }

func (f *fakeStore) RemoveRows(sheet string, row, count int) error {
	f.rows = append(f.rows[:row-1], f.rows[row-1+count:]...)
	return nil
}

func (f *fakeStore) InsertRows(sheet string, row, count int) error {
	blank := make([][]any, count)
	f.rows = append(f.rows[:row-1], append(blank, f.rows[row-1:]...)...)
	return nil
}

func (f *fakeStore) Save() error {
	f.saves++
	return nil
}

func newTestDirectory() (*Directory, *fakeStore) {
	store := &fakeStore{rows: [][]any{
		{"ПІБ", "Посада", "Служба", "chat_id", "", "", "", "", ""},
		{"Іван Петренко", "Інженер", "Будівництво", "100", "TRUE", "TRUE", "FALSE", "TRUE", "FALSE"},
		{"Іван Петренко-Іванов", "Прораб", "Будівництво", "200", "FALSE", "FALSE", "TRUE", "FALSE", "TRUE"},
		{"Марія Коваль", "Бухгалтер", "Фінанси", "300", "TRUE", "FALSE", "FALSE", "FALSE", "FALSE"},
	}}
	return NewDirectory(store, botlog.New(nil, 4)), store
}

func TestFindByChatID(t *testing.T) {
	dir, _ := newTestDirectory()

	user, err := dir.FindByChatID("300")
	if err != nil {
		t.Fatalf("FindByChatID: %v", err)
	}
	if user == nil || user.FullName != "Марія Коваль" {
		t.Fatalf("user = %+v", user)
	}
	if user.Row != 4 {
		t.Errorf("Row = %d, want 4", user.Row)
	}
	if !user.Settings.PaymentsNotifications || user.Settings.UnpaidNotifications {
		t.Errorf("настройки разобраны неверно: %+v", user.Settings)
	}

	missing, err := dir.FindByChatID("999")
	if err != nil {
		t.Fatalf("FindByChatID(999): %v", err)
	}
	if missing != nil {
		t.Errorf("незнакомый chat_id должен давать nil, получили %+v", missing)
	}
}

func TestFindByName_SubstringMatch(t *testing.T) {
	dir, _ := newTestDirectory()

	// Сокращенное имя из реестра находит полное ПІБ
	user, err := dir.FindByName("Петренко")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if user == nil {
		t.Fatal("пользователь не найден по подстроке")
	}
	// Обе строки содержат "Петренко": побеждает первая по порядку листа
	if user.FullName != "Іван Петренко" {
		t.Errorf("FullName = %q, want первая подходящая строка", user.FullName)
	}

	hyphenated, err := dir.FindByName("Петренко-Іванов")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if hyphenated == nil || hyphenated.ChatID != "200" {
		t.Errorf("более длинный запрос должен находить вторую строку: %+v", hyphenated)
	}
}

func TestFindByName_CaseInsensitive(t *testing.T) {
	dir, _ := newTestDirectory()
	user, err := dir.FindByName("марія коваль")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if user == nil || user.ChatID != "300" {
		t.Errorf("поиск должен игнорировать регистр: %+v", user)
	}
}

func TestFindByName_Empty(t *testing.T) {
	dir, _ := newTestDirectory()
	user, err := dir.FindByName("   ")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if user != nil {
		t.Errorf("пустой запрос не должен ничего находить: %+v", user)
	}
}

func TestAll(t *testing.T) {
	dir, _ := newTestDirectory()
	all, err := dir.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3 (без заголовка)", len(all))
	}
}

func TestToggleSetting(t *testing.T) {
	dir, store := newTestDirectory()

	user, err := dir.FindByChatID("100")
	if err != nil || user == nil {
		t.Fatalf("FindByChatID: %v, %v", user, err)
	}
	if !user.Settings.PaymentsNotifications {
		t.Fatal("исходное значение настройки должно быть true")
	}

	if err := dir.ToggleSetting(user, constants.SETTING_PAYMENTS_NOTIFICATIONS); err != nil {
		t.Fatalf("ToggleSetting: %v", err)
	}
	if user.Settings.PaymentsNotifications {
		t.Error("объект пользователя должен отразить новое значение")
	}
	if got := fmt.Sprintf("%v", store.rows[1][4]); got != "false" {
		t.Errorf("в листе = %v, want false", store.rows[1][4])
	}
	if store.saves == 0 {
		t.Error("переключение настройки должно сохранять книгу")
	}

	// Повторное переключение возвращает исходное значение
	if err := dir.ToggleSetting(user, constants.SETTING_PAYMENTS_NOTIFICATIONS); err != nil {
		t.Fatalf("ToggleSetting: %v", err)
	}
	if !user.Settings.PaymentsNotifications {
		t.Error("повторное переключение должно вернуть true")
	}
}

func TestToggleSetting_UnknownKey(t *testing.T) {
	dir, _ := newTestDirectory()
	user := &models.User{FullName: "Іван", Row: 2}
	if err := dir.ToggleSetting(user, "nope"); err == nil {
		t.Error("неизвестный ключ должен давать ошибку")
	}
}
