// Пакет users — справочник пользователей бота поверх листа users.
package users

import (
	"fmt"
	"strings"

	"github.com/chenko-bud/google-sheets-notifications/internal/botlog"
	"github.com/chenko-bud/google-sheets-notifications/internal/models"
	"github.com/chenko-bud/google-sheets-notifications/internal/sheets"
	"github.com/chenko-bud/google-sheets-notifications/internal/utils"
)

const SheetName = "users"

// Колонки листа users (1-based). Первая строка — заголовок.
const (
	colFullName = 1
	colPosition = 2
	colService  = 3
	colChatID   = 4

	colPaymentsNotifications     = 5
	colUnpaidNotifications       = 6
	colNewTasksNotifications     = 7
	colMorningTasksNotifications = 8
	colEveningTasksNotifications = 9

	totalColumns = 9
)

// Directory резолвит пользователей по chat_id и по имени и хранит их
// настройки уведомлений. Состояние не кэшируется: каждый вызов читает
// актуальное содержимое листа.
type Directory struct {
	store sheets.Store
	log   *botlog.Logger
}

// NewDirectory создает справочник над листом users указанного хранилища.
func NewDirectory(store sheets.Store, log *botlog.Logger) *Directory {
	return &Directory{store: store, log: log}
}

// rows возвращает все строки листа users, включая заголовок.
func (d *Directory) rows() ([][]any, error) {
	last, err := d.store.LastRow(SheetName)
	if err != nil {
		return nil, fmt.Errorf("не удалось определить размер листа users: %w", err)
	}
	if last == 0 {
		return nil, nil
	}
	return d.store.ReadRange(SheetName, 1, 1, last, totalColumns)
}

func parseUser(row []any, rowNum int) models.User {
	return models.User{
		FullName: utils.CellString(row[colFullName-1]),
		Position: utils.CellString(row[colPosition-1]),
		Service:  utils.CellString(row[colService-1]),
		ChatID:   strings.TrimSpace(utils.CellString(row[colChatID-1])),
		Row:      rowNum,
		Settings: models.UserSettings{
			PaymentsNotifications:     utils.IsTruthy(row[colPaymentsNotifications-1]),
			UnpaidNotifications:       utils.IsTruthy(row[colUnpaidNotifications-1]),
			NewTasksNotifications:     utils.IsTruthy(row[colNewTasksNotifications-1]),
			MorningTasksNotifications: utils.IsTruthy(row[colMorningTasksNotifications-1]),
			EveningTasksNotifications: utils.IsTruthy(row[colEveningTasksNotifications-1]),
		},
	}
}

// FindByChatID ищет пользователя по точному совпадению chat_id.
// Возвращает nil, если пользователь не найден.
func (d *Directory) FindByChatID(chatID string) (*models.User, error) {
	rows, err := d.rows()
	if err != nil {
		return nil, err
	}
	want := strings.TrimSpace(chatID)
	for i, row := range rows {
		if i == 0 {
			continue // заголовок
		}
		if strings.TrimSpace(utils.CellString(row[colChatID-1])) == want {
			u := parseUser(row, i+1)
			return &u, nil
		}
	}
	return nil, nil
}

// FindByName ищет пользователя по ВХОЖДЕНИЮ подстроки в ПІБ без учета
// регистра. Возвращается первая подходящая строка. Это намеренно не точное
// совпадение: колонка "Відповідальний" реестров заполняется сокращенными
// именами. Если имена двух пользователей являются подстроками друг друга,
// выбор определяется только порядком строк листа.
func (d *Directory) FindByName(name string) (*models.User, error) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return nil, nil
	}

	rows, err := d.rows()
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		fullName := strings.ToLower(strings.TrimSpace(utils.CellString(row[colFullName-1])))
		if strings.Contains(fullName, query) {
			u := parseUser(row, i+1)
			return &u, nil
		}
	}
	return nil, nil
}

// All возвращает всех зарегистрированных пользователей (без заголовка).
func (d *Directory) All() ([]models.User, error) {
	rows, err := d.rows()
	if err != nil {
		return nil, err
	}
	var result []models.User
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if utils.IsEmptyCell(row[colFullName-1]) {
			continue
		}
		result = append(result, parseUser(row, i+1))
	}
	return result, nil
}

var settingColumns = map[string]int{
	"paymentsNotifications":     colPaymentsNotifications,
	"unpaidNotifications":       colUnpaidNotifications,
	"newTasksNotifications":     colNewTasksNotifications,
	"morningTasksNotifications": colMorningTasksNotifications,
	"eveningTasksNotifications": colEveningTasksNotifications,
}

// ToggleSetting инвертирует настройку пользователя, сохраняет новое значение
// в лист и мутирует переданный объект. Перерисовку меню делает вызывающий.
func (d *Directory) ToggleSetting(user *models.User, settingKey string) error {
	col, ok := settingColumns[settingKey]
	if !ok {
		return fmt.Errorf("неизвестная настройка %q", settingKey)
	}
	if user.Row < 2 {
		return fmt.Errorf("у пользователя %s не заполнен номер строки листа users", user.FullName)
	}

	newValue := !user.Setting(settingKey)
	if err := d.store.SetCell(SheetName, user.Row, col, newValue); err != nil {
		return fmt.Errorf("не удалось сохранить настройку %s: %w", settingKey, err)
	}
	if err := d.store.Save(); err != nil {
		return fmt.Errorf("не удалось сохранить настройку %s: %w", settingKey, err)
	}
	user.SetSetting(settingKey, newValue)

	d.log.Debug("ToggleSetting",
		fmt.Sprintf("Оновлено опцію %s для користувача %s на %v", settingKey, user.FullName, newValue),
		user.ChatID)
	return nil
}
