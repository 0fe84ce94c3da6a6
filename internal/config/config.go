package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	TelegramToken string
	AppEnv        string
	BotUsername   string
	Port          string
	APISecret     string

	// Пути к книгам-хранилищам
	PaymentsWorkbook string
	TasksWorkbook    string
	UsersWorkbook    string
	LogsWorkbook     string

	// Полные имена пользователей, которым доступно затверждение заявок
	ApproverUsers []string

	LogLevel string

	// Необязательный YAML с переопределениями карт колонок реестров
	RegistersConfigPath string
}

// requiredKeys — ключи, без которых запуск невозможен.
var requiredKeys = []string{
	"TELEGRAM_APITOKEN",
	"PAYMENTS_WORKBOOK",
	"TASKS_WORKBOOK",
	"USERS_WORKBOOK",
	"LOGS_WORKBOOK",
}

// LoadConfig загружает конфигурацию из переменных окружения.
// Отсутствие обязательного ключа — фатальная ошибка конфигурации.
func LoadConfig() (*Config, error) {
	var missing []string
	for _, key := range requiredKeys {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("не настроены обязательные переменные окружения: %s", strings.Join(missing, ", "))
	}

	cfg := &Config{
		TelegramToken:       os.Getenv("TELEGRAM_APITOKEN"),
		AppEnv:              os.Getenv("ENV"),
		BotUsername:         os.Getenv("BOT_USERNAME"),
		Port:                os.Getenv("PORT"),
		APISecret:           os.Getenv("API_SECRET"),
		PaymentsWorkbook:    os.Getenv("PAYMENTS_WORKBOOK"),
		TasksWorkbook:       os.Getenv("TASKS_WORKBOOK"),
		UsersWorkbook:       os.Getenv("USERS_WORKBOOK"),
		LogsWorkbook:        os.Getenv("LOGS_WORKBOOK"),
		LogLevel:            os.Getenv("LOG_LEVEL"),
		RegistersConfigPath: os.Getenv("REGISTERS_CONFIG"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.BotUsername == "" {
		log.Println("Предупреждение: BOT_USERNAME не установлен.")
	}
	if cfg.APISecret == "" {
		log.Println("Предупреждение: API_SECRET не установлен. Входящие HTTP-события не будут проверяться.")
	}

	for _, name := range strings.Split(os.Getenv("APPROVER_USERS"), ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			cfg.ApproverUsers = append(cfg.ApproverUsers, name)
		}
	}
	if len(cfg.ApproverUsers) == 0 {
		log.Println("Предупреждение: APPROVER_USERS не установлен. Заявки на затвердження никому не рассылаются.")
	}

	log.Println("Конфигурация загружена.")
	return cfg, nil
}

// IsApprover сообщает, входит ли пользователь в список затверджувачей.
func (c *Config) IsApprover(fullName string) bool {
	for _, name := range c.ApproverUsers {
		if strings.EqualFold(strings.TrimSpace(fullName), name) {
			return true
		}
	}
	return false
}

// LogLevelValue переводит текстовый уровень в числовой для botlog.
func (c *Config) LogLevelValue() int {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return 1
	case "info":
		return 2
	case "error":
		return 3
	case "none":
		return 4
	default:
		return 2
	}
}
