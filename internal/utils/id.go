package utils

import "github.com/google/uuid"

// GenerateID генерирует уникальный идентификатор строки реестра:
// односимвольный префикс состояния плюс свежий UUID.
func GenerateID(prefix string) string {
	return prefix + uuid.NewString()
}
