package constants

// Префиксы состояния идентификаторов строк.
// Первый символ ID строки реестра кодирует статус уведомления:
// 'U' — уведомление еще не отправлялось, 'N' — уже отправлено.
const (
	UNNOTIFIED_ID_PREFIX = "U"
	NOTIFIED_ID_PREFIX   = "N"
)

// TELEGRAM_LIMIT — максимальная длина одного сообщения Telegram.
const TELEGRAM_LIMIT = 4096

// Callback-команды инлайн-кнопок. Формат callback_data: "команда:полезная_нагрузка",
// разбор — по первому двоеточию.
const (
	CALLBACK_CHANGE_OPTION   = "change_option"
	CALLBACK_APPROVE_PAYMENT = "approve_payment"
	CALLBACK_COMPLETE_TASK   = "complete_task"
)

// Кнопки главного меню (reply-клавиатура).
const (
	BTN_MY_PROCESSING_TASKS    = "⏳ Мої завдання в роботі"
	BTN_MY_UNPAID_APPLICATIONS = "💳 Мої неоплачені заявки"
	BTN_APPLICATIONS_APPROVE   = "✅ Заявки на затвердження"
	BTN_SETTINGS               = "⚙️ Налаштування"
)

// Ключи настроек уведомлений пользователя. Совпадают с колонками листа users.
const (
	SETTING_PAYMENTS_NOTIFICATIONS      = "paymentsNotifications"
	SETTING_UNPAID_NOTIFICATIONS        = "unpaidNotifications"
	SETTING_NEW_TASKS_NOTIFICATIONS     = "newTasksNotifications"
	SETTING_MORNING_TASKS_NOTIFICATIONS = "morningTasksNotifications"
	SETTING_EVENING_TASKS_NOTIFICATIONS = "eveningTasksNotifications"
)

// OptionLabel — подписи кнопки настройки в двух состояниях.
type OptionLabel struct {
	ID       string
	Enabled  string
	Disabled string
}

// OPTIONS_KEYBOARD_BUTTONS — порядок и подписи кнопок меню настроек.
var OPTIONS_KEYBOARD_BUTTONS = []OptionLabel{
	{
		ID:       SETTING_PAYMENTS_NOTIFICATIONS,
		Enabled:  "✅ Отримувати сповіщення про оплати (ввімкнено)",
		Disabled: "❌ Отримувати сповіщення про оплати (вимкнено)",
	},
	{
		ID:       SETTING_UNPAID_NOTIFICATIONS,
		Enabled:  "✅ Отримувати сповіщення про несплачені заявки (ввімкнено)",
		Disabled: "❌ Отримувати сповіщення про несплачені заявки (вимкнено)",
	},
	{
		ID:       SETTING_NEW_TASKS_NOTIFICATIONS,
		Enabled:  "✅ Отримувати сповіщення про нові завдання (ввімкнено)",
		Disabled: "❌ Отримувати сповіщення про нові завдання (вимкнено)",
	},
	{
		ID:       SETTING_MORNING_TASKS_NOTIFICATIONS,
		Enabled:  "✅ Отримувати ранкові сповіщення про завдання (ввімкнено)",
		Disabled: "❌ Отримувати ранкові сповіщення про завдання (вимкнено)",
	},
	{
		ID:       SETTING_EVENING_TASKS_NOTIFICATIONS,
		Enabled:  "✅ Отримувати вечірні сповіщення про завдання (ввімкнено)",
		Disabled: "❌ Отримувати вечірні сповіщення про завдання (вимкнено)",
	},
}

// Статусы задач (значения колонки "Статус" листа задач).
const (
	TASK_STATUS_IN_PROGRESS = "В роботі"
	TASK_STATUS_COMPLETED   = "Виконано"
	TASK_STATUS_POSTPONED   = "Перенесено"
)

// Режимы рассылки напоминаний о задачах.
const (
	TASKS_MODE_MORNING = "morning"
	TASKS_MODE_EVENING = "evening"
)

// Тексты сообщений бота.
const (
	MSG_MAIN_MENU       = "Головне меню: оберіть потрібний розділ 👇"
	MSG_OPTIONS_MENU    = "Налаштування сповіщень: оберіть потрібний параметр 👇"
	MSG_NOT_SPECIFIED   = "Не вказано"
	MSG_LIST_TRUNCATED  = "<i>Далі список обрізано через ліміт Telegram</i>\n"
	MSG_ALL_PAID        = "Всі оплати виконані вчасно! ✅"
	MSG_ALL_TASKS_DONE  = "Всі завдання виконані! ✅"
	MSG_UNPAID_TITLE    = "⏰ Протерміновані оплати:"
	MSG_TASKS_REMINDER  = "⏳ Нагадування про завдання в роботі:"
	MSG_TASKS_IN_WORK   = "⏳ Завдання в роботі:"
	MSG_PAYMENT_DONE    = "💰 Оплату здійснено!"
	MSG_NEW_TASK        = "😮‍💨 Вам призначено нове завдання:"
	MSG_APPROVE_TITLE   = "🔎 Заявка очікує затвердження:"
	MSG_APPROVED_TITLE  = "✅ Заявку затверджено:"
	MSG_TASK_DONE_TOAST = "Завдання відмічено як виконане ✅"
	MSG_UNKNOWN_COMMAND = "Невідома команда. Скористайтеся меню 👇"
	// MSG_UNREGISTERED форматируется с chat_id пользователя.
	MSG_UNREGISTERED = "Вас не знайдено у довіднику користувачів. Зверніться до адміністратора та повідомте свій chat_id: <code>%s</code>"
)
