package main

import (
	"log"
	"net/http"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/chenko-bud/google-sheets-notifications/internal/api"
	"github.com/chenko-bud/google-sheets-notifications/internal/botlog"
	"github.com/chenko-bud/google-sheets-notifications/internal/config"
	"github.com/chenko-bud/google-sheets-notifications/internal/handlers"
	"github.com/chenko-bud/google-sheets-notifications/internal/payments"
	"github.com/chenko-bud/google-sheets-notifications/internal/scheduler"
	"github.com/chenko-bud/google-sheets-notifications/internal/session"
	"github.com/chenko-bud/google-sheets-notifications/internal/sheets"
	"github.com/chenko-bud/google-sheets-notifications/internal/tasks"
	"github.com/chenko-bud/google-sheets-notifications/internal/telegram_api"
	"github.com/chenko-bud/google-sheets-notifications/internal/users"
)

func main() {
	// --- Блок инициализации ---
	if err := godotenv.Load(); err != nil {
		log.Println("Предупреждение: не удалось загрузить файл .env. Переменные окружения должны быть установлены иным способом.")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Критическая ошибка: не удалось загрузить конфигурацию: %v", err)
	}

	overrides, err := config.LoadRegisterOverrides(cfg.RegistersConfigPath)
	if err != nil {
		log.Fatalf("Критическая ошибка: не удалось загрузить переопределения реестров: %v", err)
	}

	paymentsStore, err := sheets.OpenExcelStore(cfg.PaymentsWorkbook)
	if err != nil {
		log.Fatalf("Критическая ошибка: книга оплат: %v", err)
	}
	tasksStore, err := sheets.OpenExcelStore(cfg.TasksWorkbook)
	if err != nil {
		log.Fatalf("Критическая ошибка: книга задач: %v", err)
	}
	usersStore, err := sheets.OpenExcelStore(cfg.UsersWorkbook)
	if err != nil {
		log.Fatalf("Критическая ошибка: книга пользователей: %v", err)
	}
	logsStore, err := sheets.OpenExcelStore(cfg.LogsWorkbook)
	if err != nil {
		log.Fatalf("Критическая ошибка: книга логов: %v", err)
	}

	logger := botlog.New(logsStore, cfg.LogLevelValue())
	locks := sheets.NewLockRegistry()
	directory := users.NewDirectory(usersStore, logger)

	if err := telegram_api.InitBot(cfg.TelegramToken, cfg.AppEnv == "dev"); err != nil {
		log.Fatalf("Критическая ошибка: не удалось инициализировать Telegram бота: %v", err)
	}
	if telegram_api.Client == nil || telegram_api.Client.GetAPI() == nil {
		log.Fatalf("Критическая ошибка: Telegram API клиент не был корректно инициализирован.")
	}
	botAPI := telegram_api.Client.GetAPI()

	paymentsService := payments.NewService(paymentsStore, directory, telegram_api.Client, logger, cfg, locks, overrides)
	tasksService := tasks.NewService(tasksStore, directory, telegram_api.Client, logger, locks, overrides)
	sessionManager := session.NewSessionManager()

	botHandler := handlers.NewBotHandler(handlers.HandlerDependencies{
		Config:         cfg,
		BotClient:      telegram_api.Client,
		Directory:      directory,
		Payments:       paymentsService,
		Tasks:          tasksService,
		SessionManager: sessionManager,
		Log:            logger,
	})

	// --- Настройка роутера и Middleware ---
	apiRouter := chi.NewRouter()
	apiRouter.Use(middleware.Logger)
	apiRouter.Use(middleware.Recoverer)
	apiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Api-Secret"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	api.SetupRoutes(apiRouter, api.ApiDependencies{
		Config:    cfg,
		SecretKey: cfg.APISecret,
		Payments:  paymentsService,
		Tasks:     tasksService,
		Log:       logger,
	})

	go func() {
		log.Printf("Запуск HTTP-сервера на порту %s", cfg.Port)
		if err := http.ListenAndServe(":"+cfg.Port, apiRouter); err != nil {
			log.Fatalf("КРИТИЧЕСКАЯ ОШИБКА: не удалось запустить HTTP-сервер: %v", err)
		}
	}()

	// --- Планировщик рассылок ---
	cronScheduler, err := scheduler.New(paymentsService, tasksService, logger)
	if err != nil {
		log.Fatalf("Критическая ошибка: не удалось создать планировщик: %v", err)
	}
	if err := cronScheduler.Start(); err != nil {
		log.Fatalf("Критическая ошибка: не удалось запустить планировщик: %v", err)
	}
	defer cronScheduler.Stop()

	// --- Запуск самого бота ---
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := botAPI.GetUpdatesChan(u)

	log.Println("Бот и API-сервер запущены и готовы к работе...")

	for update := range updates {
		if update.Message != nil {
			go botHandler.HandleMessage(update)
		} else if update.CallbackQuery != nil {
			go botHandler.HandleCallback(update)
		}
	}
}
