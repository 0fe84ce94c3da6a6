package scheduler

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/chenko-bud/google-sheets-notifications/internal/botlog"
	"github.com/chenko-bud/google-sheets-notifications/internal/constants"
	"github.com/chenko-bud/google-sheets-notifications/internal/payments"
	"github.com/chenko-bud/google-sheets-notifications/internal/tasks"
)

// Scheduler — расписание регулярных рассылок. Все времена в Europe/Kiev:
// именно по этому времени живут таблицы и их пользователи.
type Scheduler struct {
	cron     *cron.Cron
	payments *payments.Service
	tasks    *tasks.Service
	log      *botlog.Logger
}

// New создает планировщик с киевской таймзоной.
func New(paymentsService *payments.Service, tasksService *tasks.Service, logger *botlog.Logger) (*Scheduler, error) {
	location, err := time.LoadLocation("Europe/Kiev")
	if err != nil {
		return nil, fmt.Errorf("таймзона Europe/Kiev недоступна: %w", err)
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(location)),
		payments: paymentsService,
		tasks:    tasksService,
		log:      logger,
	}, nil
}

// Start регистрирует задания и запускает планировщик:
//   - 07:00 — дата фильтра и перенос заявок в реестр;
//   - 08:00 — ранкові нагадування про завдання;
//   - 17:00 — вечірні нагадування про завдання;
//   - 18:00 — просроченные оплаты и заявки затверджувачам.
func (s *Scheduler) Start() error {
	jobs := []struct {
		spec string
		name string
		run  func() error
	}{
		{"0 7 * * *", "ImportApplications", func() error {
			now := time.Now()
			if err := s.payments.SetTodayDate(now); err != nil {
				return err
			}
			return s.payments.ImportApplications(now)
		}},
		{"0 8 * * *", "MorningTasks", func() error {
			return s.tasks.NotifyAll(constants.TASKS_MODE_MORNING, time.Now())
		}},
		{"0 17 * * *", "EveningTasks", func() error {
			return s.tasks.NotifyAll(constants.TASKS_MODE_EVENING, time.Now())
		}},
		{"0 18 * * *", "UnpaidAndApprovals", func() error {
			if err := s.payments.NotifyUnpaidAll(time.Now()); err != nil {
				return err
			}
			return s.payments.NotifyApprovers(time.Now())
		}},
	}

	for _, job := range jobs {
		job := job
		if _, err := s.cron.AddFunc(job.spec, func() {
			if err := job.run(); err != nil {
				s.log.Error("Scheduler", fmt.Sprintf("Задание %s завершилось ошибкой: %v", job.name, err))
			}
		}); err != nil {
			return fmt.Errorf("регистрация задания %s: %w", job.name, err)
		}
	}

	s.cron.Start()
	log.Println("Планировщик рассылок запущен.")
	return nil
}

// Stop останавливает планировщик и дожидается завершения текущих заданий.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
