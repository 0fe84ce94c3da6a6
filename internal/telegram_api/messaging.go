package telegram_api

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
)

// Messenger — граница обмена сообщениями, через которую сервисы отправляют
// уведомления. chat_id передается строкой: именно так он хранится в листе
// users. Ошибки доставки возвращаются вызывающему и не проглатываются.
type Messenger interface {
	SendHTML(chatID, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	EditHTML(chatID string, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error
	DeleteMessage(chatID string, messageID int) bool
}

func parseChatID(chatID string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(chatID), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректный chat_id %q: %w", chatID, err)
	}
	return id, nil
}

// SendHTML отправляет HTML-сообщение, опционально с инлайн-клавиатурой.
func (bc *BotClient) SendHTML(chatID, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	id, err := parseChatID(chatID)
	if err != nil {
		return tgbotapi.Message{}, err
	}

	msg := tgbotapi.NewMessage(id, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if keyboard != nil {
		msg.ReplyMarkup = keyboard
	}
	sent, err := bc.Send(msg)
	if err != nil {
		return tgbotapi.Message{}, fmt.Errorf("ошибка отправки сообщения в чат %s: %w", chatID, err)
	}
	return sent, nil
}

// EditHTML редактирует текст и клавиатуру существующего сообщения.
// "message is not modified" не считается ошибкой.
func (bc *BotClient) EditHTML(chatID string, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	id, err := parseChatID(chatID)
	if err != nil {
		return err
	}

	var editConfig tgbotapi.EditMessageTextConfig
	if keyboard != nil {
		editConfig = tgbotapi.NewEditMessageTextAndMarkup(id, messageID, text, *keyboard)
	} else {
		editConfig = tgbotapi.NewEditMessageText(id, messageID, text)
	}
	editConfig.ParseMode = tgbotapi.ModeHTML

	if _, err := bc.Request(editConfig); err != nil {
		if strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		return fmt.Errorf("ошибка редактирования сообщения %d в чате %s: %w", messageID, chatID, err)
	}
	return nil
}

// DeleteMessage удаляет сообщение. Возвращает false, если удалить не удалось.
func (bc *BotClient) DeleteMessage(chatID string, messageID int) bool {
	id, err := parseChatID(chatID)
	if err != nil || messageID == 0 {
		return false
	}

	deleteConfig := tgbotapi.NewDeleteMessage(id, messageID)
	response, err := bc.Request(deleteConfig)
	if err != nil {
		log.Printf("DeleteMessage: ChatID=%s, MessageID=%d, ошибка: %v", chatID, messageID, err)
		return false
	}
	if !response.Ok {
		if response.Description != "Bad Request: message to delete not found" &&
			!strings.Contains(response.Description, "MESSAGE_ID_INVALID") {
			log.Printf("DeleteMessage: Telegram API не смог удалить сообщение %d для chatID %s: %s", messageID, chatID, response.Description)
		}
		return false
	}
	return true
}

// AnswerCallback отвечает на callback query, чтобы у пользователя пропали "часики".
func (bc *BotClient) AnswerCallback(queryID, text string) {
	callbackAns := tgbotapi.NewCallback(queryID, text)
	if _, err := bc.Request(callbackAns); err != nil {
		log.Printf("Ошибка ответа на CallbackQuery ID %s: %v. Продолжаем.", queryID, err)
	}
}
