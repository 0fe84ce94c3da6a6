package models

// UserSettings — флаги подписок пользователя на уведомления.
// Хранятся в листе users как TRUE/FALSE рядом с данными пользователя.
type UserSettings struct {
	PaymentsNotifications     bool
	UnpaidNotifications       bool
	NewTasksNotifications     bool
	MorningTasksNotifications bool
	EveningTasksNotifications bool
}

// User — запись справочника пользователей (лист users).
type User struct {
	FullName string
	Position string
	Service  string
	ChatID   string
	Row      int // номер строки в листе users (1-based), нужен для записи настроек
	Settings UserSettings
}

// Setting возвращает значение флага по его ключу из constants.SETTING_*.
func (u *User) Setting(key string) bool {
	switch key {
	case "paymentsNotifications":
		return u.Settings.PaymentsNotifications
	case "unpaidNotifications":
		return u.Settings.UnpaidNotifications
	case "newTasksNotifications":
		return u.Settings.NewTasksNotifications
	case "morningTasksNotifications":
		return u.Settings.MorningTasksNotifications
	case "eveningTasksNotifications":
		return u.Settings.EveningTasksNotifications
	}
	return false
}

// SetSetting устанавливает значение флага по ключу. Возвращает false для
// неизвестного ключа.
func (u *User) SetSetting(key string, value bool) bool {
	switch key {
	case "paymentsNotifications":
		u.Settings.PaymentsNotifications = value
	case "unpaidNotifications":
		u.Settings.UnpaidNotifications = value
	case "newTasksNotifications":
		u.Settings.NewTasksNotifications = value
	case "morningTasksNotifications":
		u.Settings.MorningTasksNotifications = value
	case "eveningTasksNotifications":
		u.Settings.EveningTasksNotifications = value
	default:
		return false
	}
	return true
}
