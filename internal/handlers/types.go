package handlers

import (
	"github.com/chenko-bud/google-sheets-notifications/internal/botlog"
	"github.com/chenko-bud/google-sheets-notifications/internal/config"
	"github.com/chenko-bud/google-sheets-notifications/internal/payments"
	"github.com/chenko-bud/google-sheets-notifications/internal/session"
	"github.com/chenko-bud/google-sheets-notifications/internal/tasks"
	"github.com/chenko-bud/google-sheets-notifications/internal/telegram_api"
	"github.com/chenko-bud/google-sheets-notifications/internal/users"
)

// HandlerDependencies содержит все зависимости, необходимые для обработчиков.
type HandlerDependencies struct {
	Config         *config.Config
	BotClient      *telegram_api.BotClient
	Directory      *users.Directory
	Payments       *payments.Service
	Tasks          *tasks.Service
	SessionManager *session.SessionManager
	Log            *botlog.Logger
}

// BotHandler инкапсулирует логику обработки сообщений и коллбэков.
type BotHandler struct {
	Deps HandlerDependencies
}

// NewBotHandler создает новый экземпляр BotHandler.
func NewBotHandler(deps HandlerDependencies) *BotHandler {
	if deps.Config == nil || deps.BotClient == nil || deps.Directory == nil ||
		deps.Payments == nil || deps.Tasks == nil || deps.SessionManager == nil {
		// Критическая ошибка конфигурации, приложение не сможет работать корректно
		panic("Не все зависимости для BotHandler были предоставлены.")
	}
	return &BotHandler{Deps: deps}
}
