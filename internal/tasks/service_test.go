package tasks

import (
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/chenko-bud/google-sheets-notifications/internal/botlog"
	appcfg "github.com/chenko-bud/google-sheets-notifications/internal/config"
	"github.com/chenko-bud/google-sheets-notifications/internal/constants"
	"github.com/chenko-bud/google-sheets-notifications/internal/models"
	"github.com/chenko-bud/google-sheets-notifications/internal/sheets"
	"github.com/chenko-bud/google-sheets-notifications/internal/users"
)

// fakeStore — табличное хранилище в памяти, один лист.
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

// fakeMessenger записывает отправленные сообщения.
type fakeMessenger struct {
	sent    []sentMessage
	deleted []int
	sendErr error
}

type sentMessage struct {
	chatID   string
	text     string
	keyboard *tgbotapi.InlineKeyboardMarkup
}

func (m *fakeMessenger) SendHTML(chatID, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	if m.sendErr != nil {
		return tgbotapi.Message{}, m.sendErr
	}
	m.sent = append(m.sent, sentMessage{chatID: chatID, text: text, keyboard: keyboard})
	return tgbotapi.Message{MessageID: len(m.sent)}, nil
}

func (m *fakeMessenger) EditHTML(chatID string, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	return nil
}

func (m *fakeMessenger) DeleteMessage(chatID string, messageID int) bool {
	m.deleted = append(m.deleted, messageID)
	return true
}

// Компактная раскладка листа задач для тестов.
func testOverrides() *appcfg.RegisterOverrides {
	return &appcfg.RegisterOverrides{
		Tasks: appcfg.RegisterOverride{
			Columns: map[string]int{
				FieldDescription: 1,
				FieldDecision:    2,
				FieldResponsible: 3,
				FieldDueDate:     4,
				FieldStatus:      5,
				FieldID:          6,
			},
			DataStartRow: 2,
		},
	}
}

func testUsersStore() *fakeStore {
	return &fakeStore{rows: [][]any{
		{"ПІБ", "Посада", "Служба", "chat_id", "", "", "", "", ""},
		{"Іван Петренко", "Інженер", "Будівництво", "100", "TRUE", "TRUE", "TRUE", "TRUE", "FALSE"},
		{"Марія Коваль", "Бухгалтер", "Фінанси", "200", "TRUE", "TRUE", "FALSE", "FALSE", "TRUE"},
	}}
}

func newTestService(taskRows [][]any) (*Service, *fakeStore, *fakeMessenger) {
	store := &fakeStore{rows: taskRows}
	messenger := &fakeMessenger{}
	logger := botlog.New(nil, 4)
	dir := users.NewDirectory(testUsersStore(), logger)
	svc := NewService(store, dir, messenger, logger, sheets.NewLockRegistry(), testOverrides())
	return svc, store, messenger
}

var testNow = time.Date(2026, 6, 5, 12, 0, 0, 0, time.Local)

func editEvent(row int, value string) models.EditEvent {
	return models.EditEvent{
		Spreadsheet: "tasks",
		SheetName:   "Завдання",
		Row:         row,
		Col:         5,
		Value:       value,
	}
}

func TestTaskFromRow(t *testing.T) {
	cfg := MergeConfig(DefaultConfig(), testOverrides().Tasks)
	row := []any{"Закрити акти", "Підготувати документи", "Іван Петренко", "10.06.2026", "В роботі", "Uabc"}
	task := TaskFromRow(row, cfg)

	if task.Description != "Закрити акти" || task.Decision != "Підготувати документи" {
		t.Errorf("task = %+v", task)
	}
	if task.Responsible != "Іван Петренко" || task.Status != "В роботі" || task.ID != "Uabc" {
		t.Errorf("task = %+v", task)
	}
}

func TestProcessTaskEdit_NotifiesAndMarks(t *testing.T) {
	svc, store, messenger := newTestService([][]any{
		{"Завдання", "Рішення", "Відповідальний", "Дата", "Статус", "ID"},
		{"Закрити акти", "", "Петренко", "10.06.2026", "В роботі", ""},
	})

	if err := svc.ProcessTaskEdit(editEvent(2, "В роботі"), testNow); err != nil {
		t.Fatalf("ProcessTaskEdit: %v", err)
	}

	if len(messenger.sent) != 1 {
		t.Fatalf("отправлено %d сообщений, want 1", len(messenger.sent))
	}
	sent := messenger.sent[0]
	if sent.chatID != "100" {
		t.Errorf("chatID = %q, want 100", sent.chatID)
	}
	if !strings.Contains(sent.text, constants.MSG_NEW_TASK) {
		t.Errorf("текст без заголовка нового завдання:\n%s", sent.text)
	}
	if sent.keyboard == nil {
		t.Error("уведомление должно нести кнопку завершения")
	}

	id, _ := store.rows[1][5].(string)
	if !strings.HasPrefix(id, constants.NOTIFIED_ID_PREFIX) {
		t.Errorf("ID после отправки должен иметь префикс N: %q", id)
	}
	if store.saves == 0 {
		t.Error("книга должна быть сохранена")
	}
}

func TestProcessTaskEdit_SkipsAlreadyNotified(t *testing.T) {
	svc, _, messenger := newTestService([][]any{
		{"Завдання", "Рішення", "Відповідальний", "Дата", "Статус", "ID"},
		{"Закрити акти", "", "Петренко", "10.06.2026", "В роботі", "Nabc"},
	})

	if err := svc.ProcessTaskEdit(editEvent(2, "В роботі"), testNow); err != nil {
		t.Fatalf("ProcessTaskEdit: %v", err)
	}
	if len(messenger.sent) != 0 {
		t.Errorf("повторное уведомление не должно отправляться: %d", len(messenger.sent))
	}
}

func TestProcessTaskEdit_IgnoresOtherEdits(t *testing.T) {
	svc, _, messenger := newTestService([][]any{
		{"Завдання", "Рішення", "Відповідальний", "Дата", "Статус", "ID"},
		{"Закрити акти", "", "Петренко", "10.06.2026", "В роботі", ""},
	})

	// Другой лист
	ev := editEvent(2, "В роботі")
	ev.SheetName = "Інший лист"
	if err := svc.ProcessTaskEdit(ev, testNow); err != nil {
		t.Fatalf("ProcessTaskEdit: %v", err)
	}
	// Другая колонка
	ev = editEvent(2, "В роботі")
	ev.Col = 1
	if err := svc.ProcessTaskEdit(ev, testNow); err != nil {
		t.Fatalf("ProcessTaskEdit: %v", err)
	}
	// Другой статус
	if err := svc.ProcessTaskEdit(editEvent(2, "Перенесено"), testNow); err != nil {
		t.Fatalf("ProcessTaskEdit: %v", err)
	}

	if len(messenger.sent) != 0 {
		t.Errorf("ни одна правка не должна была дать уведомление: %d", len(messenger.sent))
	}
}

func TestProcessTaskEdit_NotificationsDisabled(t *testing.T) {
	// У Марії вимкнено сповіщення про нові завдання
	svc, _, messenger := newTestService([][]any{
		{"Завдання", "Рішення", "Відповідальний", "Дата", "Статус", "ID"},
		{"Закрити акти", "", "Коваль", "10.06.2026", "В роботі", ""},
	})

	if err := svc.ProcessTaskEdit(editEvent(2, "В роботі"), testNow); err != nil {
		t.Fatalf("ProcessTaskEdit: %v", err)
	}
	if len(messenger.sent) != 0 {
		t.Errorf("уведомление при выключенной настройке: %d", len(messenger.sent))
	}
}

// emptyReadStore имитирует чтение за пределами заполненной области.
type emptyReadStore struct{ *fakeStore }

func (emptyReadStore) ReadRange(string, int, int, int, int) ([][]any, error) {
	return nil, nil
}

func TestProcessTaskEdit_MissingRow(t *testing.T) {
	logger := botlog.New(nil, 4)
	dir := users.NewDirectory(testUsersStore(), logger)
	svc := NewService(emptyReadStore{&fakeStore{}}, dir, &fakeMessenger{}, logger,
		sheets.NewLockRegistry(), testOverrides())

	err := svc.ProcessTaskEdit(editEvent(99, "В роботі"), testNow)
	if err == nil {
		t.Fatal("отсутствующая строка должна давать ошибку")
	}
	if strings.Contains(err.Error(), "%!w") {
		t.Errorf("нулевая ошибка попала в wrap: %q", err.Error())
	}
}

func TestInProgressForUser_FiltersAndSorts(t *testing.T) {
	svc, _, _ := newTestService([][]any{
		{"Завдання", "Рішення", "Відповідальний", "Дата", "Статус", "ID"},
		{"Пізня", "", "Петренко", "10.06.2026", "В роботі", "N1"},
		{"Рання", "", "Петренко", "01.06.2026", "В роботі", "N2"},
		{"Виконана", "", "Петренко", "02.06.2026", "Виконано", "N3"},
		{"Чужа", "", "Коваль", "02.06.2026", "В роботі", "N4"},
		{"Без дати", "", "Петренко", "", "В роботі", "N5"},
	})

	user := models.User{FullName: "Іван Петренко", ChatID: "100"}
	got, err := svc.InProgressForUser(user)
	if err != nil {
		t.Fatalf("InProgressForUser: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("len(got) = %d, want 3", len(got))
	}
	if got[0].Description != "Рання" || got[1].Description != "Пізня" {
		t.Errorf("сортировка по дате нарушена: %q, %q", got[0].Description, got[1].Description)
	}
	if got[2].Description != "Без дати" {
		t.Errorf("задачи без даты должны идти в конце: %q", got[2].Description)
	}
}

func TestNotifyAll_HonorsModeSettings(t *testing.T) {
	// Ранкові: у Петренка ввімкнено, у Коваль — ні. Вечірні — навпаки.
	rows := [][]any{
		{"Завдання", "Рішення", "Відповідальний", "Дата", "Статус", "ID"},
		{"Задача Івана", "", "Петренко", "10.06.2026", "В роботі", "N1"},
		{"Задача Марії", "", "Коваль", "10.06.2026", "В роботі", "N2"},
	}

	svc, _, messenger := newTestService(rows)
	if err := svc.NotifyAll(constants.TASKS_MODE_MORNING, testNow); err != nil {
		t.Fatalf("NotifyAll: %v", err)
	}
	if len(messenger.sent) != 1 || messenger.sent[0].chatID != "100" {
		t.Fatalf("утром должен получить только Петренко: %+v", messenger.sent)
	}

	svc, _, messenger = newTestService(rows)
	if err := svc.NotifyAll(constants.TASKS_MODE_EVENING, testNow); err != nil {
		t.Fatalf("NotifyAll: %v", err)
	}
	if len(messenger.sent) != 1 || messenger.sent[0].chatID != "200" {
		t.Fatalf("вечером должна получить только Коваль: %+v", messenger.sent)
	}
}

func TestMarkCompleted(t *testing.T) {
	svc, store, messenger := newTestService([][]any{
		{"Завдання", "Рішення", "Відповідальний", "Дата", "Статус", "ID"},
		{"Закрити акти", "", "Петренко", "10.06.2026", "В роботі", "Nabc123"},
	})

	user := models.User{FullName: "Іван Петренко", ChatID: "100"}
	if err := svc.MarkCompleted(user, "abc123", 42); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}

	if got, _ := store.rows[1][4].(string); got != constants.TASK_STATUS_COMPLETED {
		t.Errorf("статус = %q, want %q", got, constants.TASK_STATUS_COMPLETED)
	}
	if len(messenger.deleted) != 1 || messenger.deleted[0] != 42 {
		t.Errorf("исходное сообщение должно быть удалено: %v", messenger.deleted)
	}
	if store.saves == 0 {
		t.Error("книга должна быть сохранена")
	}
}

func TestMarkCompleted_UnknownToken(t *testing.T) {
	svc, _, _ := newTestService([][]any{
		{"Завдання", "Рішення", "Відповідальний", "Дата", "Статус", "ID"},
		{"Закрити акти", "", "Петренко", "10.06.2026", "В роботі", "Nabc123"},
	})

	user := models.User{FullName: "Іван Петренко", ChatID: "100"}
	if err := svc.MarkCompleted(user, "missing", 42); err == nil {
		t.Error("незнакомый токен должен давать ошибку")
	}
}

func TestMarkCompleted_EmptyToken(t *testing.T) {
	// Пустой токен содержится в любом ID, без отдельной проверки он бы
	// закрыл первую попавшуюся задачу.
	svc, store, messenger := newTestService([][]any{
		{"Завдання", "Рішення", "Відповідальний", "Дата", "Статус", "ID"},
		{"Закрити акти", "", "Петренко", "10.06.2026", "В роботі", "Nabc123"},
		{"Оновити договір", "", "Петренко", "11.06.2026", "В роботі", "Ndef456"},
	})

	user := models.User{FullName: "Іван Петренко", ChatID: "100"}
	if err := svc.MarkCompleted(user, "", 42); err == nil {
		t.Error("пустой токен должен давать ошибку")
	}
	if err := svc.MarkCompleted(user, "  ", 42); err == nil {
		t.Error("токен из пробелов должен давать ошибку")
	}

	for i := 1; i <= 2; i++ {
		if got, _ := store.rows[i][4].(string); got != constants.TASK_STATUS_IN_PROGRESS {
			t.Errorf("строка %d: статус = %q, want %q", i, got, constants.TASK_STATUS_IN_PROGRESS)
		}
	}
	if len(messenger.deleted) != 0 {
		t.Errorf("сообщения не должны удаляться: %v", messenger.deleted)
	}
}

func TestAssignIDs(t *testing.T) {
	svc, store, _ := newTestService([][]any{
		{"Завдання", "Рішення", "Відповідальний", "Дата", "Статус", "ID"},
		{"Є ID", "", "Петренко", "", "В роботі", "Nkeep"},
		{"Без ID", "", "Петренко", "", "В роботі", ""},
		{"", "", "", "", "", ""}, // пустая строка остается без ID
	})

	if err := svc.AssignIDs(); err != nil {
		t.Fatalf("AssignIDs: %v", err)
	}

	if got, _ := store.rows[1][5].(string); got != "Nkeep" {
		t.Errorf("существующий ID затерт: %q", got)
	}
	fresh, _ := store.rows[2][5].(string)
	if !strings.HasPrefix(fresh, constants.UNNOTIFIED_ID_PREFIX) || len(fresh) < 10 {
		t.Errorf("строка без ID должна получить свежий U-идентификатор: %q", fresh)
	}
	if got, _ := store.rows[3][5].(string); got != "" {
		t.Errorf("строка без описания должна остаться без ID: %q", got)
	}
}
