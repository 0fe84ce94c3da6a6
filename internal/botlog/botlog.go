// Пакет botlog пишет журнал работы бота в лист logs табличного хранилища
// и дублирует записи в стандартный лог процесса.
package botlog

import (
	"log"
	"sync"
	"time"

	"github.com/chenko-bud/google-sheets-notifications/internal/sheets"
)

// Уровни логирования. Запись попадает в лист, если ее уровень не ниже
// настроенного.
const (
	LevelDebug = 1
	LevelInfo  = 2
	LevelError = 3
	LevelNone  = 4
)

const logsSheetName = "logs"

// Logger пишет строки вида (timestamp, function_name, log_type, payload, chat_id).
type Logger struct {
	store sheets.Store
	level int
	mu    sync.Mutex
}

// New создает логгер. store может быть nil — тогда записи идут только
// в стандартный лог.
func New(store sheets.Store, level int) *Logger {
	if level < LevelDebug || level > LevelNone {
		level = LevelInfo
	}
	return &Logger{store: store, level: level}
}

func (l *Logger) add(functionName, logType, payload, chatID string) {
	log.Printf("[%s] %s: %s (chatID=%s)", logType, functionName, payload, chatID)

	if l.store == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	err := l.store.AppendRow(logsSheetName, []any{
		time.Now().Format(time.RFC3339),
		functionName,
		logType,
		payload,
		chatID,
	})
	if err != nil {
		// Падение записи лога не должно ронять обработку — только стандартный лог
		log.Printf("botlog: не удалось записать строку лога: %v", err)
		return
	}
	// Книгу логов больше никто не сохраняет, сбрасываем сразу
	if err := l.store.Save(); err != nil {
		log.Printf("botlog: не удалось сохранить книгу логов: %v", err)
	}
}

// Debug добавляет отладочную запись.
func (l *Logger) Debug(functionName, payload string, chatID ...string) {
	if l.level <= LevelDebug {
		l.add(functionName, "DEBUG", payload, firstOrEmpty(chatID))
	}
}

// Info добавляет информационную запись.
func (l *Logger) Info(functionName, payload string, chatID ...string) {
	if l.level <= LevelInfo {
		l.add(functionName, "INFO", payload, firstOrEmpty(chatID))
	}
}

// Error добавляет запись об ошибке.
func (l *Logger) Error(functionName, payload string, chatID ...string) {
	if l.level <= LevelError {
		l.add(functionName, "ERROR", payload, firstOrEmpty(chatID))
	}
}

func firstOrEmpty(ids []string) string {
	if len(ids) > 0 {
		return ids[0]
	}
	return ""
}
