package tasks

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/chenko-bud/google-sheets-notifications/internal/botlog"
	appcfg "github.com/chenko-bud/google-sheets-notifications/internal/config"
	"github.com/chenko-bud/google-sheets-notifications/internal/constants"
	"github.com/chenko-bud/google-sheets-notifications/internal/formatters"
	"github.com/chenko-bud/google-sheets-notifications/internal/models"
	"github.com/chenko-bud/google-sheets-notifications/internal/sheets"
	"github.com/chenko-bud/google-sheets-notifications/internal/telegram_api"
	"github.com/chenko-bud/google-sheets-notifications/internal/users"
	"github.com/chenko-bud/google-sheets-notifications/internal/utils"
)

// Service — операции над листом задач: реакция на правки, напоминания,
// завершение задач из Telegram, раздача идентификаторов.
type Service struct {
	store     sheets.Store
	config    RegisterConfig
	dir       *users.Directory
	messenger telegram_api.Messenger
	log       *botlog.Logger
	locks     *sheets.LockRegistry
}

// NewService собирает сервис задач. overrides может быть nil.
func NewService(
	store sheets.Store,
	dir *users.Directory,
	messenger telegram_api.Messenger,
	log *botlog.Logger,
	locks *sheets.LockRegistry,
	overrides *appcfg.RegisterOverrides,
) *Service {
	cfg := DefaultConfig()
	if overrides != nil {
		cfg = MergeConfig(cfg, overrides.Tasks)
	}
	return &Service{
		store:     store,
		config:    cfg,
		dir:       dir,
		messenger: messenger,
		log:       log,
		locks:     locks,
	}
}

func (s *Service) registerKey() string {
	return "tasks:" + s.config.SheetName
}

func cellAt(row []any, col int) any {
	if col < 1 || col > len(row) {
		return nil
	}
	return row[col-1]
}

// TaskFromRow собирает задачу из строки листа по карте колонок.
func TaskFromRow(row []any, cfg RegisterConfig) models.Task {
	return models.Task{
		Description: utils.CellString(cellAt(row, cfg.Columns[FieldDescription])),
		Decision:    utils.CellString(cellAt(row, cfg.Columns[FieldDecision])),
		Responsible: utils.CellString(cellAt(row, cfg.Columns[FieldResponsible])),
		DueDate:     cellAt(row, cfg.Columns[FieldDueDate]),
		Status:      strings.TrimSpace(utils.CellString(cellAt(row, cfg.Columns[FieldStatus]))),
		ID:          strings.TrimSpace(utils.CellString(cellAt(row, cfg.Columns[FieldID]))),
	}
}

func isInProgress(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), constants.TASK_STATUS_IN_PROGRESS)
}

// readRows читает все строки данных листа задач.
func (s *Service) readRows() ([][]any, error) {
	last, err := s.store.LastRow(s.config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("лист %q: %w", s.config.SheetName, err)
	}
	if last < s.config.DataStartRow {
		return nil, nil
	}
	return s.store.ReadRange(s.config.SheetName, s.config.DataStartRow, 1, last-s.config.DataStartRow+1, s.config.MaxColumn())
}

// ProcessTaskEdit обрабатывает правку листа задач: перевод статуса в
// "В роботі". Задаче без ID выдается свежий идентификатор с префиксом U;
// задача с префиксом N уже уведомлялась — no-op. После успешной отправки
// уведомления ответственному ID переводится в состояние N (токен без
// изменений).
func (s *Service) ProcessTaskEdit(ev models.EditEvent, now time.Time) error {
	if ev.SheetName != s.config.SheetName {
		return nil
	}
	if ev.Col != s.config.Columns[FieldStatus] {
		return nil
	}
	if !strings.EqualFold(strings.TrimSpace(ev.Value), constants.TASK_STATUS_IN_PROGRESS) {
		return nil
	}

	lock := s.locks.Lock(s.registerKey())
	lock.Lock()
	defer lock.Unlock()

	rows, err := s.store.ReadRange(s.config.SheetName, ev.Row, 1, 1, s.config.MaxColumn())
	if err != nil {
		return fmt.Errorf("чтение строки %d листа задач: %w", ev.Row, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("строка %d листа задач не найдена", ev.Row)
	}
	task := TaskFromRow(rows[0], s.config)

	if task.ID == "" {
		task.ID = utils.GenerateID(constants.UNNOTIFIED_ID_PREFIX)
		if err := s.store.SetCell(s.config.SheetName, ev.Row, s.config.Columns[FieldID], task.ID); err != nil {
			return fmt.Errorf("запись ID задачи: %w", err)
		}
		if err := s.store.Save(); err != nil {
			return err
		}
	}
	if strings.HasPrefix(task.ID, constants.NOTIFIED_ID_PREFIX) {
		// Уже отправляли уведомление по этой задаче
		return nil
	}

	if strings.TrimSpace(task.Responsible) == "" {
		s.log.Debug("ProcessTaskEdit", fmt.Sprintf("Не вказано відповідального для завдання з ID %q", task.ID))
		return nil
	}
	user, err := s.dir.FindByName(task.Responsible)
	if err != nil {
		return err
	}
	if user == nil {
		s.log.Debug("ProcessTaskEdit",
			fmt.Sprintf("Користувача %q не знайдено для завдання з ID %q", task.Responsible, task.ID))
		return nil
	}
	if user.ChatID == "" || !user.Settings.NewTasksNotifications {
		s.log.Debug("ProcessTaskEdit",
			fmt.Sprintf("Сповіщення про нові завдання вимкнено для користувача %q", user.FullName), user.ChatID)
		return nil
	}
	if task.Description == "" && task.Decision == "" {
		s.log.Debug("ProcessTaskEdit",
			fmt.Sprintf("Не вказано опис або рішення для завдання з ID %q", task.ID), user.ChatID)
		return nil
	}

	message := formatters.FormatTaskMessage(constants.MSG_NEW_TASK, task, now)
	if _, err := s.messenger.SendHTML(user.ChatID, message, taskKeyboard(task.ID)); err != nil {
		return fmt.Errorf("уведомление о новой задаче: %w", err)
	}

	// Переход U -> N: токен сохраняется, меняется только префикс
	notifiedID := constants.NOTIFIED_ID_PREFIX + task.ID[1:]
	if err := s.store.SetCell(s.config.SheetName, ev.Row, s.config.Columns[FieldID], notifiedID); err != nil {
		return fmt.Errorf("пометка задачи как отправленной: %w", err)
	}
	if err := s.store.Save(); err != nil {
		return err
	}

	s.log.Debug("ProcessTaskEdit",
		fmt.Sprintf("Відправлено завдання з ID %q користувачу %q", task.ID, user.FullName), user.ChatID)
	return nil
}

// taskKeyboard — кнопка завершения задачи. Токен — ID без префикса состояния.
func taskKeyboard(taskID string) *tgbotapi.InlineKeyboardMarkup {
	if strings.TrimSpace(taskID) == "" {
		return nil
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Відмітити як виконане ✅", constants.CALLBACK_COMPLETE_TASK+":"+taskID[1:]),
		),
	)
	return &kb
}

// InProgressForUser возвращает задачи пользователя в статусе "В роботі",
// отсортированные по возрастанию даты выполнения.
func (s *Service) InProgressForUser(user models.User) ([]models.Task, error) {
	rows, err := s.readRows()
	if err != nil {
		return nil, err
	}

	fullName := strings.ToLower(strings.TrimSpace(user.FullName))
	var result []models.Task
	for _, row := range rows {
		task := TaskFromRow(row, s.config)
		rowUser := strings.ToLower(strings.TrimSpace(task.Responsible))
		if rowUser == "" || !strings.Contains(fullName, rowUser) {
			continue
		}
		if !isInProgress(task.Status) {
			continue
		}
		if task.Description == "" && task.Decision == "" {
			continue
		}
		result = append(result, task)
	}

	sortTasksByDueDate(result)
	return result, nil
}

func sortTasksByDueDate(tasksData []models.Task) {
	sort.SliceStable(tasksData, func(a, b int) bool {
		tsA, okA := utils.MidnightTimestamp(tasksData[a].DueDate)
		tsB, okB := utils.MidnightTimestamp(tasksData[b].DueDate)
		if !okA {
			return false
		}
		if !okB {
			return true
		}
		return tsA < tsB
	})
}

// NotifyUserTasks отправляет пользователю его задачи в работе
// (кнопка главного меню).
func (s *Service) NotifyUserTasks(user models.User, now time.Time) error {
	userTasks, err := s.InProgressForUser(user)
	if err != nil {
		return err
	}
	message := formatters.FormatTasksMessage(constants.MSG_TASKS_IN_WORK, userTasks, constants.MSG_ALL_TASKS_DONE, now)
	if _, err := s.messenger.SendHTML(user.ChatID, message, nil); err != nil {
		return err
	}
	s.log.Debug("NotifyUserTasks",
		fmt.Sprintf("Завдання в кількості %d відправлено користувачу: %s", len(userTasks), user.FullName), user.ChatID)
	return nil
}

// NotifyAll — утренняя/вечерняя рассылка напоминаний о задачах в работе.
// Задачи группируются по разрешенному ответственному; учитываются настройки
// morning/evening у каждого пользователя. Сбой одного пользователя не
// прерывает рассылку остальным.
func (s *Service) NotifyAll(mode string, now time.Time) error {
	rows, err := s.readRows()
	if err != nil {
		return err
	}

	type bucket struct {
		user  models.User
		tasks []models.Task
	}
	byChat := make(map[string]*bucket)
	order := []string{}

	for _, row := range rows {
		task := TaskFromRow(row, s.config)
		if task.Description == "" && task.Decision == "" {
			continue
		}
		if !isInProgress(task.Status) {
			continue
		}
		if strings.TrimSpace(task.Responsible) == "" {
			continue
		}

		user, err := s.dir.FindByName(task.Responsible)
		if err != nil {
			return err
		}
		if user == nil || user.ChatID == "" {
			continue
		}
		if mode == constants.TASKS_MODE_MORNING && !user.Settings.MorningTasksNotifications {
			continue
		}
		if mode == constants.TASKS_MODE_EVENING && !user.Settings.EveningTasksNotifications {
			continue
		}

		b, ok := byChat[user.ChatID]
		if !ok {
			b = &bucket{user: *user}
			byChat[user.ChatID] = b
			order = append(order, user.ChatID)
		}
		b.tasks = append(b.tasks, task)
	}

	for _, chatID := range order {
		b := byChat[chatID]
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.log.Error("NotifyAll", fmt.Sprintf("Паника при обработке пользователя: %v", r), chatID)
				}
			}()

			sortTasksByDueDate(b.tasks)
			message := formatters.FormatTasksMessage(constants.MSG_TASKS_REMINDER, b.tasks, constants.MSG_ALL_TASKS_DONE, now)
			if _, err := s.messenger.SendHTML(chatID, message, nil); err != nil {
				s.log.Error("NotifyAll", fmt.Sprintf("Ошибка отправки: %v", err), chatID)
				return
			}
			s.log.Debug("NotifyAll",
				fmt.Sprintf("Повідомлення про завдання в роботі відправлено користувачу %s", b.user.FullName), chatID)
		}()
	}
	return nil
}

// MarkCompleted ставит задаче статус "Виконано" по токену callback-кнопки и
// удаляет исходное сообщение. Действие инициировано пользователем, поэтому
// промах по токену — ошибка.
func (s *Service) MarkCompleted(user models.User, token string, messageID int) error {
	token = strings.TrimSpace(token)
	if token == "" {
		// Пустой токен "входит" в любой ID, поиском пользоваться нельзя
		return fmt.Errorf("порожній токен завдання")
	}

	lock := s.locks.Lock(s.registerKey())
	lock.Lock()
	defer lock.Unlock()

	s.log.Debug("MarkCompleted",
		fmt.Sprintf("Користувач %s відмічає завдання %s як виконане", user.FullName, token), user.ChatID)

	rows, err := s.readRows()
	if err != nil {
		return err
	}

	for i, row := range rows {
		id := strings.TrimSpace(utils.CellString(cellAt(row, s.config.Columns[FieldID])))
		if id == "" || !strings.Contains(id, token) {
			continue
		}

		sheetRow := s.config.DataStartRow + i
		if err := s.store.SetCell(s.config.SheetName, sheetRow, s.config.Columns[FieldStatus], constants.TASK_STATUS_COMPLETED); err != nil {
			return fmt.Errorf("запись статуса задачи: %w", err)
		}
		if err := s.store.Save(); err != nil {
			return err
		}

		s.messenger.DeleteMessage(user.ChatID, messageID)
		return nil
	}

	s.log.Error("MarkCompleted", fmt.Sprintf("Завдання з ID %q не знайдено", token), user.ChatID)
	return fmt.Errorf("завдання не знайдено")
}

// AssignIDs раздает идентификаторы с префиксом U существующим задачам без ID.
// Строки без описания получают пустой ID.
func (s *Service) AssignIDs() error {
	lock := s.locks.Lock(s.registerKey())
	lock.Lock()
	defer lock.Unlock()

	rows, err := s.readRows()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	idColumn := s.config.Columns[FieldID]
	ids := make([][]any, len(rows))
	for i, row := range rows {
		switch {
		case utils.IsEmptyCell(cellAt(row, s.config.Columns[FieldDescription])):
			ids[i] = []any{""}
		case strings.TrimSpace(utils.CellString(cellAt(row, idColumn))) != "":
			ids[i] = []any{strings.TrimSpace(utils.CellString(cellAt(row, idColumn)))}
		default:
			ids[i] = []any{utils.GenerateID(constants.UNNOTIFIED_ID_PREFIX)}
		}
	}

	if err := s.store.WriteRange(s.config.SheetName, s.config.DataStartRow, idColumn, ids); err != nil {
		return fmt.Errorf("запись идентификаторов задач: %w", err)
	}
	return s.store.Save()
}
