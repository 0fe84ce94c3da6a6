package session

import (
	"sync"
)

// SessionManager хранит эфемерное состояние диалогов: идентификатор
// сообщения с меню настроек на чат и кэш уже удаленных сообщений.
// Кэш удаленных сообщений избавляет от повторных запросов к Telegram API
// для сообщений, которые уже удалены.
type SessionManager struct {
	settingsMenus     map[string]int // Ключ: chatID, значение: messageID меню настроек
	settingsMenuMutex sync.RWMutex

	deletedMessages      map[string]map[int]bool // Ключ1: chatID, Ключ2: messageID
	deletedMessagesMutex sync.RWMutex
}

// NewSessionManager создает и возвращает новый экземпляр SessionManager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		settingsMenus:   make(map[string]int),
		deletedMessages: make(map[string]map[int]bool),
	}
}

// SetSettingsMenu запоминает messageID текущего меню настроек в чате.
func (sm *SessionManager) SetSettingsMenu(chatID string, messageID int) {
	sm.settingsMenuMutex.Lock()
	defer sm.settingsMenuMutex.Unlock()
	sm.settingsMenus[chatID] = messageID
}

// SettingsMenu возвращает messageID меню настроек в чате, если оно открыто.
func (sm *SessionManager) SettingsMenu(chatID string) (int, bool) {
	sm.settingsMenuMutex.RLock()
	defer sm.settingsMenuMutex.RUnlock()
	id, ok := sm.settingsMenus[chatID]
	return id, ok
}

// ClearSettingsMenu забывает меню настроек чата.
func (sm *SessionManager) ClearSettingsMenu(chatID string) {
	sm.settingsMenuMutex.Lock()
	defer sm.settingsMenuMutex.Unlock()
	delete(sm.settingsMenus, chatID)
}

// MarkMessageDeleted помечает сообщение чата как удаленное.
func (sm *SessionManager) MarkMessageDeleted(chatID string, messageID int) {
	sm.deletedMessagesMutex.Lock()
	defer sm.deletedMessagesMutex.Unlock()
	if sm.deletedMessages[chatID] == nil {
		sm.deletedMessages[chatID] = make(map[int]bool)
	}
	sm.deletedMessages[chatID][messageID] = true
}

// IsMessageDeleted сообщает, помечено ли сообщение как удаленное.
func (sm *SessionManager) IsMessageDeleted(chatID string, messageID int) bool {
	sm.deletedMessagesMutex.RLock()
	defer sm.deletedMessagesMutex.RUnlock()
	return sm.deletedMessages[chatID][messageID]
}
