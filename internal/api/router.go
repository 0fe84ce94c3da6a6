package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/chenko-bud/google-sheets-notifications/internal/botlog"
	"github.com/chenko-bud/google-sheets-notifications/internal/config"
	"github.com/chenko-bud/google-sheets-notifications/internal/payments"
	"github.com/chenko-bud/google-sheets-notifications/internal/tasks"
)

// ApiDependencies содержит зависимости для обработчиков API.
type ApiDependencies struct {
	Config    *config.Config
	SecretKey string
	Payments  *payments.Service
	Tasks     *tasks.Service
	Log       *botlog.Logger
}

// SetupRoutes настраивает все маршруты для API.
// Таблицы отправляют сюда webhook о правке ячейки; триггерные маршруты
// позволяют запустить любую рассылку вручную, вне расписания.
func SetupRoutes(r *chi.Mux, deps ApiDependencies) {
	r.Get("/healthz", HealthHandler)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(deps.SecretKey))

		r.Post("/api/events/edit", EditEventHandler(deps))

		r.Route("/api/triggers", func(r chi.Router) {
			r.Post("/applications", ImportApplicationsHandler(deps))
			r.Post("/unpaid", NotifyUnpaidHandler(deps))
			r.Post("/approvals", NotifyApproversHandler(deps))
			r.Post("/tasks-morning", NotifyTasksHandler(deps, true))
			r.Post("/tasks-evening", NotifyTasksHandler(deps, false))
			r.Post("/assign-task-ids", AssignTaskIDsHandler(deps))
		})
	})
}
