package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/chenko-bud/google-sheets-notifications/internal/constants"
	"github.com/chenko-bud/google-sheets-notifications/internal/models"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// HealthHandler — проверка живости для оркестратора.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// EditEventHandler принимает событие правки ячейки и раздает его сервисам.
// Каждый сервис сам проверяет, относится ли правка к его листу, поэтому
// событие передается обоим.
func EditEventHandler(deps ApiDependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ev models.EditEvent
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			respondError(w, http.StatusBadRequest, "некорректное тело запроса")
			return
		}
		if ev.SheetName == "" || ev.Row < 1 || ev.Col < 1 {
			respondError(w, http.StatusBadRequest, "не заполнены sheet/row/col")
			return
		}

		deps.Log.Debug("EditEventHandler",
			fmt.Sprintf("Правка: spreadsheet=%q sheet=%q row=%d col=%d value=%q",
				ev.Spreadsheet, ev.SheetName, ev.Row, ev.Col, ev.Value))

		if err := deps.Payments.ProcessPaymentEdit(ev); err != nil {
			deps.Log.Error("EditEventHandler", fmt.Sprintf("Ошибка обработки правки оплат: %v", err))
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := deps.Tasks.ProcessTaskEdit(ev, time.Now()); err != nil {
			deps.Log.Error("EditEventHandler", fmt.Sprintf("Ошибка обработки правки задач: %v", err))
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ImportApplicationsHandler запускает перенос заявок из свода в реестр.
func ImportApplicationsHandler(deps ApiDependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		if err := deps.Payments.SetTodayDate(now); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := deps.Payments.ImportApplications(now); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// NotifyUnpaidHandler запускает рассылку о просроченных оплатах.
func NotifyUnpaidHandler(deps ApiDependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Payments.NotifyUnpaidAll(time.Now()); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// NotifyApproversHandler запускает рассылку заявок затверджувачам.
func NotifyApproversHandler(deps ApiDependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Payments.NotifyApprovers(time.Now()); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// AssignTaskIDsHandler раздает идентификаторы задачам без ID (разовый
// бэкофис-запуск после ручного наполнения листа).
func AssignTaskIDsHandler(deps ApiDependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Tasks.AssignIDs(); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// NotifyTasksHandler запускает утреннюю либо вечернюю рассылку задач.
func NotifyTasksHandler(deps ApiDependencies, morning bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode := constants.TASKS_MODE_EVENING
		if morning {
			mode = constants.TASKS_MODE_MORNING
		}
		if err := deps.Tasks.NotifyAll(mode, time.Now()); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
