package payments

import (
	"fmt"
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

// Service — операции над реестром оплат: импорт заявок из свода,
// рассылки о неоплаченных, затвердження и реакция на правки листа.
type Service struct {
	store     sheets.Store
	source    RegisterConfig
	target    RegisterConfig
	dateCell  DateCell
	dir       *users.Directory
	messenger telegram_api.Messenger
	log       *botlog.Logger
	appConfig *appcfg.Config
	locks     *sheets.LockRegistry
}

// NewService собирает сервис оплат. overrides может быть nil.
func NewService(
	store sheets.Store,
	dir *users.Directory,
	messenger telegram_api.Messenger,
	log *botlog.Logger,
	appConfig *appcfg.Config,
	locks *sheets.LockRegistry,
	overrides *appcfg.RegisterOverrides,
) *Service {
	src := DefaultSourceConfig()
	tgt := DefaultTargetConfig()
	cell := DefaultDateCell()
	if overrides != nil {
		src = MergeConfig(src, overrides.Source)
		tgt = MergeConfig(tgt, overrides.Target)
		cell = MergeDateCell(cell, overrides.DateCell)
	}
	return &Service{
		store:     store,
		source:    src,
		target:    tgt,
		dateCell:  cell,
		dir:       dir,
		messenger: messenger,
		log:       log,
		appConfig: appConfig,
		locks:     locks,
	}
}

func (s *Service) registerKey() string {
	return "payments:" + s.target.SheetName
}

// readRows читает все строки данных реестра (от первой строки данных до
// последней непустой). Пустой реестр — nil без ошибки.
func (s *Service) readRows(cfg RegisterConfig) ([][]any, error) {
	last, err := s.store.LastRow(cfg.SheetName)
	if err != nil {
		return nil, fmt.Errorf("лист %q: %w", cfg.SheetName, err)
	}
	if last < cfg.DataStartRow {
		return nil, nil
	}
	return s.store.ReadRange(cfg.SheetName, cfg.DataStartRow, 1, last-cfg.DataStartRow+1, cfg.MaxColumn())
}

// SetTodayDate записывает сегодняшнюю дату в ячейку даты фильтрации.
func (s *Service) SetTodayDate(now time.Time) error {
	if err := s.store.SetCell(s.dateCell.SheetName, s.dateCell.Row, s.dateCell.Column, utils.FormatDateUA(now)); err != nil {
		return err
	}
	return s.store.Save()
}

// ImportApplications выполняет реконсиляцию: переносит заявки свода за дату
// фильтрации в реестр, не дублируя уже существующие строки и не сбрасывая их
// состояние. Вся операция read-modify-write идет под замком реестра.
func (s *Service) ImportApplications(now time.Time) error {
	lock := s.locks.Lock(s.registerKey())
	lock.Lock()
	defer lock.Unlock()

	rawDate, err := s.store.ReadRange(s.dateCell.SheetName, s.dateCell.Row, s.dateCell.Column, 1, 1)
	if err != nil {
		return fmt.Errorf("чтение ячейки даты: %w", err)
	}
	if len(rawDate) == 0 || utils.IsEmptyCell(rawDate[0][0]) {
		s.log.Debug("ImportApplications", "Ячейка даты фильтрации пуста, импорт пропущен")
		return nil
	}
	filterDate := now
	if ts, ok := utils.MidnightTimestamp(rawDate[0][0]); ok {
		filterDate = time.UnixMilli(ts)
	}

	sourceRows, err := s.readRows(s.source)
	if err != nil {
		return fmt.Errorf("чтение свода заявок: %w", err)
	}
	targetRows, err := s.readRows(s.target)
	if err != nil {
		return fmt.Errorf("чтение реестра: %w", err)
	}

	newRows, created := Reconcile(sourceRows, targetRows, filterDate, s.source, s.target)

	// Полная замена области данных реестра: удалить и записать заново
	if len(targetRows) > 0 {
		if err := s.store.RemoveRows(s.target.SheetName, s.target.DataStartRow, len(targetRows)); err != nil {
			return fmt.Errorf("очистка реестра: %w", err)
		}
	}
	if len(newRows) > 0 {
		if err := s.store.InsertRows(s.target.SheetName, s.target.DataStartRow, len(newRows)); err != nil {
			return fmt.Errorf("вставка строк реестра: %w", err)
		}
		if err := s.store.WriteRange(s.target.SheetName, s.target.DataStartRow, 1, newRows); err != nil {
			return fmt.Errorf("запись реестра: %w", err)
		}
	}
	if err := s.store.Save(); err != nil {
		return fmt.Errorf("сохранение реестра: %w", err)
	}

	s.log.Info("ImportApplications",
		fmt.Sprintf("Реконсиляция за %s: строк в реестре %d, новых %d", utils.FormatDateUA(filterDate), len(newRows), created))
	return nil
}

// ProcessPaymentEdit обрабатывает событие правки листа: установку флага
// "Позначка оплати". Уведомляет ответственного об осуществленной оплате.
func (s *Service) ProcessPaymentEdit(ev models.EditEvent) error {
	if ev.SheetName != s.target.SheetName {
		return nil
	}
	if ev.Col != s.target.TogglePaidColumn {
		return nil
	}
	if !utils.IsTruthy(ev.Value) {
		s.log.Debug("ProcessPaymentEdit",
			fmt.Sprintf("Рядок %d: прапорець \"Оплачено\" не встановлено, пропускаємо", ev.Row))
		return nil
	}

	rows, err := s.store.ReadRange(s.target.SheetName, ev.Row, 1, 1, s.target.MaxColumn())
	if err != nil {
		return fmt.Errorf("чтение строки %d реестра: %w", ev.Row, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("строка %d реестра не найдена", ev.Row)
	}
	row := rows[0]

	if _, ok := utils.CellAmount(cellAt(row, s.target.Columns[FieldAmount])); !ok {
		s.log.Debug("ProcessPaymentEdit", fmt.Sprintf("Рядок %d: відсутня сума, пропускаємо", ev.Row))
		return nil
	}
	responsible := utils.CellString(cellAt(row, s.target.Columns[FieldResponsible]))
	if strings.TrimSpace(responsible) == "" {
		s.log.Debug("ProcessPaymentEdit", fmt.Sprintf("Рядок %d: відсутній відповідальний, пропускаємо", ev.Row))
		return nil
	}

	user, err := s.dir.FindByName(responsible)
	if err != nil {
		return err
	}
	if user == nil {
		s.log.Debug("ProcessPaymentEdit", fmt.Sprintf("Користувач з ім'ям %q не знайдений", responsible))
		return nil
	}
	if user.ChatID == "" || !user.Settings.PaymentsNotifications {
		s.log.Debug("ProcessPaymentEdit",
			fmt.Sprintf("Сповіщення про оплати вимкнено для користувача %q", user.FullName), user.ChatID)
		return nil
	}

	payment := PaymentFromRow(row, s.target)
	message := formatters.FormatPaymentMessage(constants.MSG_PAYMENT_DONE, payment)
	if _, err := s.messenger.SendHTML(user.ChatID, message, nil); err != nil {
		return fmt.Errorf("уведомление об оплате для %s: %w", user.FullName, err)
	}

	s.log.Debug("ProcessPaymentEdit",
		fmt.Sprintf("Рядок %d: повідомлення про оплату відправлено користувачу %s", ev.Row, user.FullName),
		user.ChatID)
	return nil
}

// UnpaidForUser возвращает просроченные неоплаченные заявки пользователя.
// Ответственный в реестре заполняется сокращенным именем, поэтому
// сопоставление — вхождение значения ячейки в полное имя пользователя.
func (s *Service) UnpaidForUser(user models.User, now time.Time) ([]models.Payment, error) {
	rows, err := s.readRows(s.target)
	if err != nil {
		return nil, err
	}

	fullName := strings.ToLower(strings.TrimSpace(user.FullName))
	var result []models.Payment
	for _, row := range rows {
		date := cellAt(row, s.target.Columns[FieldPlanPaymentDate])
		if utils.IsEmptyCell(date) {
			continue
		}
		if s.target.TogglePaidColumn > 0 && utils.IsTruthy(cellAt(row, s.target.TogglePaidColumn)) {
			continue
		}
		rowUser := strings.ToLower(strings.TrimSpace(utils.CellString(cellAt(row, s.target.Columns[FieldResponsible]))))
		if rowUser == "" || !strings.Contains(fullName, rowUser) {
			continue
		}
		if utils.CompareDates(date, ">", now) {
			continue
		}
		if _, ok := utils.CellAmount(cellAt(row, s.target.Columns[FieldAmount])); !ok {
			continue
		}
		result = append(result, PaymentFromRow(row, s.target))
	}
	return result, nil
}

// NotifyUnpaidUser отправляет пользователю его просроченные оплаты
// (и подтверждение "все оплачено", если таких нет).
func (s *Service) NotifyUnpaidUser(user models.User, now time.Time) error {
	unpaid, err := s.UnpaidForUser(user, now)
	if err != nil {
		return err
	}
	message := formatters.FormatPaymentsMessage(constants.MSG_UNPAID_TITLE, unpaid, constants.MSG_ALL_PAID)
	if _, err := s.messenger.SendHTML(user.ChatID, message, nil); err != nil {
		return err
	}
	s.log.Debug("NotifyUnpaidUser",
		fmt.Sprintf("Повідомлення про несплачені рядки відправлено користувачу %s", user.FullName), user.ChatID)
	return nil
}

// NotifyUnpaidAll — ежедневная рассылка просроченных оплат. Сбой обработки
// одного пользователя логируется и не прерывает рассылку остальным.
func (s *Service) NotifyUnpaidAll(now time.Time) error {
	rows, err := s.readRows(s.target)
	if err != nil {
		return err
	}

	byUser, err := AggregateUnpaidByUser(rows, now, s.target, s.dir.FindByName)
	if err != nil {
		return err
	}

	for chatID, bucket := range byUser {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.log.Error("NotifyUnpaidAll", fmt.Sprintf("Паника при обработке пользователя: %v", r), chatID)
				}
			}()

			message := formatters.FormatPaymentsMessage(constants.MSG_UNPAID_TITLE, bucket.Payments, constants.MSG_ALL_PAID)
			if _, err := s.messenger.SendHTML(chatID, message, nil); err != nil {
				s.log.Error("NotifyUnpaidAll", fmt.Sprintf("Ошибка отправки: %v", err), chatID)
				return
			}
			s.log.Debug("NotifyUnpaidAll",
				fmt.Sprintf("Повідомлення про несплачені рядки відправлено користувачу %s", bucket.User.FullName),
				chatID)
		}()
	}
	return nil
}

// approveKeyboard — кнопка затвердження для одной заявки.
func approveKeyboard(token string) *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Затвердити ✅", constants.CALLBACK_APPROVE_PAYMENT+":"+token),
		),
	)
	return &kb
}

// NotifyApprovers рассылает затверджувачам незатвержденные заявки: по одному
// сообщению на заявку с кнопкой затвердження. После успешной доставки ID
// строки переводится из состояния U в N; повторный проход по строке с
// префиксом N — no-op.
func (s *Service) NotifyApprovers(now time.Time) error {
	lock := s.locks.Lock(s.registerKey())
	lock.Lock()
	defer lock.Unlock()

	allUsers, err := s.dir.All()
	if err != nil {
		return err
	}
	var approvers []models.User
	for _, u := range allUsers {
		if u.ChatID != "" && s.appConfig.IsApprover(u.FullName) {
			approvers = append(approvers, u)
		}
	}
	if len(approvers) == 0 {
		s.log.Debug("NotifyApprovers", "Список затверджувачів порожній, розсилка пропущена")
		return nil
	}

	rows, err := s.readRows(s.target)
	if err != nil {
		return err
	}
	items := UnapprovedItems(rows, s.target)

	changed := false
	for _, item := range items {
		if strings.HasPrefix(item.Payment.ID, constants.NOTIFIED_ID_PREFIX) {
			continue // уже уведомляли
		}

		message := formatters.FormatPaymentMessage(constants.MSG_APPROVE_TITLE, item.Payment)
		delivered := false
		for _, approver := range approvers {
			if _, err := s.messenger.SendHTML(approver.ChatID, message, approveKeyboard(item.Token)); err != nil {
				s.log.Error("NotifyApprovers", fmt.Sprintf("Ошибка отправки заявки %s: %v", item.Token, err), approver.ChatID)
				continue
			}
			delivered = true
		}
		if delivered {
			newID := constants.NOTIFIED_ID_PREFIX + item.Token
			if err := s.store.SetCell(s.target.SheetName, item.Row, s.target.IDColumn, newID); err != nil {
				s.log.Error("NotifyApprovers", fmt.Sprintf("Не удалось пометить заявку %s как отправленную: %v", item.Token, err))
				continue
			}
			changed = true
		}
	}

	if changed {
		if err := s.store.Save(); err != nil {
			return fmt.Errorf("сохранение реестра: %w", err)
		}
	}
	return nil
}

// NotifyApproverUser отправляет одному затверджувачу список его заявок
// (кнопка главного меню). Состояние ID не меняется.
func (s *Service) NotifyApproverUser(user models.User) error {
	if !s.appConfig.IsApprover(user.FullName) {
		return fmt.Errorf("користувач %s не входить до списку затверджувачів", user.FullName)
	}

	rows, err := s.readRows(s.target)
	if err != nil {
		return err
	}
	items := UnapprovedItems(rows, s.target)
	if len(items) == 0 {
		_, err := s.messenger.SendHTML(user.ChatID, "<b>Всі заявки затверджені! ✅</b>", nil)
		return err
	}

	for _, item := range items {
		message := formatters.FormatPaymentMessage(constants.MSG_APPROVE_TITLE, item.Payment)
		if _, err := s.messenger.SendHTML(user.ChatID, message, approveKeyboard(item.Token)); err != nil {
			return err
		}
	}
	return nil
}

// ApprovePayment ставит позначку затвердження по токену callback-кнопки.
// Заявка ищется по вхождению токена в ID строки (токен — ID без префикса).
// Действие инициировано пользователем, поэтому промах — ошибка, а не скип.
func (s *Service) ApprovePayment(token string, user models.User) (*models.Payment, error) {
	lock := s.locks.Lock(s.registerKey())
	lock.Lock()
	defer lock.Unlock()

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("порожній токен заявки")
	}

	rows, err := s.readRows(s.target)
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		id := strings.TrimSpace(utils.CellString(cellAt(row, s.target.IDColumn)))
		if id == "" || !strings.Contains(id, token) {
			continue
		}

		sheetRow := s.target.DataStartRow + i
		if err := s.store.SetCell(s.target.SheetName, sheetRow, s.target.ToggleApprovedColumn, true); err != nil {
			return nil, fmt.Errorf("запись позначки затвердження: %w", err)
		}
		if err := s.store.Save(); err != nil {
			return nil, fmt.Errorf("сохранение реестра: %w", err)
		}

		payment := PaymentFromRow(row, s.target)
		payment.Approved = true
		s.log.Info("ApprovePayment",
			fmt.Sprintf("Заявка %s затверджена користувачем %s", token, user.FullName), user.ChatID)
		return &payment, nil
	}

	s.log.Error("ApprovePayment", fmt.Sprintf("Заявка з токеном %q не знайдена", token), user.ChatID)
	return nil, fmt.Errorf("заявка не знайдена")
}
