package handlers

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/chenko-bud/google-sheets-notifications/internal/constants"
)

// HandleMessage обрабатывает входящие сообщения от Telegram.
func (bh *BotHandler) HandleMessage(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("HandleMessage: паника при обработке обновления: %v", r)
		}
	}()

	if update.Message == nil {
		return
	}

	message := update.Message
	chatID := strconv.FormatInt(message.Chat.ID, 10)
	text := strings.TrimSpace(message.Text)

	log.Printf("HandleMessage: ChatID=%s, Text='%s'", chatID, text)

	user, err := bh.Deps.Directory.FindByChatID(chatID)
	if err != nil {
		bh.Deps.Log.Error("HandleMessage", fmt.Sprintf("Ошибка чтения справочника пользователей: %v", err), chatID)
		return
	}
	if user == nil {
		// Пользователь сам сообщает chat_id администратору, бот его не регистрирует
		bh.sendHTML(chatID, fmt.Sprintf(constants.MSG_UNREGISTERED, chatID), nil)
		return
	}

	if message.IsCommand() {
		switch message.Command() {
		case "start":
			bh.sendMainMenu(*user)
		default:
			bh.sendHTML(chatID, constants.MSG_UNKNOWN_COMMAND, nil)
		}
		return
	}

	switch text {
	case constants.BTN_MY_PROCESSING_TASKS:
		if err := bh.Deps.Tasks.NotifyUserTasks(*user, time.Now()); err != nil {
			bh.Deps.Log.Error("HandleMessage", fmt.Sprintf("Ошибка отправки задач: %v", err), chatID)
		}

	case constants.BTN_MY_UNPAID_APPLICATIONS:
		if err := bh.Deps.Payments.NotifyUnpaidUser(*user, time.Now()); err != nil {
			bh.Deps.Log.Error("HandleMessage", fmt.Sprintf("Ошибка отправки неоплаченных заявок: %v", err), chatID)
		}

	case constants.BTN_APPLICATIONS_APPROVE:
		if !bh.Deps.Config.IsApprover(user.FullName) {
			bh.sendHTML(chatID, constants.MSG_UNKNOWN_COMMAND, nil)
			return
		}
		if err := bh.Deps.Payments.NotifyApproverUser(*user); err != nil {
			bh.Deps.Log.Error("HandleMessage", fmt.Sprintf("Ошибка отправки заявок на затвердження: %v", err), chatID)
		}

	case constants.BTN_SETTINGS:
		bh.sendOptionsMenu(*user)

	default:
		bh.sendHTML(chatID, constants.MSG_UNKNOWN_COMMAND, nil)
	}
}
