package handlers

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/chenko-bud/google-sheets-notifications/internal/constants"
	"github.com/chenko-bud/google-sheets-notifications/internal/formatters"
	"github.com/chenko-bud/google-sheets-notifications/internal/models"
)

// HandleCallback обрабатывает входящие callback query от Telegram.
// Формат callback_data: "команда:полезная_нагрузка", разбор по первому
// двоеточию.
func (bh *BotHandler) HandleCallback(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("HandleCallback: паника при обработке обновления: %v", r)
		}
	}()

	query := update.CallbackQuery
	if query == nil || query.Message == nil {
		log.Println("HandleCallback: получен пустой CallbackQuery.")
		return
	}

	chatID := strconv.FormatInt(query.Message.Chat.ID, 10)
	messageID := query.Message.MessageID
	data := query.Data

	log.Printf("HandleCallback: ChatID=%s, MessageID=%d, Data='%s'", chatID, messageID, data)

	user, err := bh.Deps.Directory.FindByChatID(chatID)
	if err != nil || user == nil {
		bh.Deps.Log.Error("HandleCallback", fmt.Sprintf("Пользователь не найден для callback %q: %v", data, err), chatID)
		bh.Deps.BotClient.AnswerCallback(query.ID, "")
		return
	}

	command, payload := data, ""
	if idx := strings.Index(data, ":"); idx >= 0 {
		command, payload = data[:idx], data[idx+1:]
	}

	switch command {
	case constants.CALLBACK_CHANGE_OPTION:
		bh.handleChangeOption(*user, payload, messageID)
		bh.Deps.BotClient.AnswerCallback(query.ID, "")

	case constants.CALLBACK_APPROVE_PAYMENT:
		bh.handleApprovePayment(*user, payload, messageID)
		bh.Deps.BotClient.AnswerCallback(query.ID, "")

	case constants.CALLBACK_COMPLETE_TASK:
		if err := bh.Deps.Tasks.MarkCompleted(*user, payload, messageID); err != nil {
			bh.Deps.BotClient.AnswerCallback(query.ID, "")
			return
		}
		bh.Deps.SessionManager.MarkMessageDeleted(chatID, messageID)
		bh.Deps.BotClient.AnswerCallback(query.ID, constants.MSG_TASK_DONE_TOAST)

	default:
		log.Printf("HandleCallback: неизвестная команда %q", command)
		bh.Deps.BotClient.AnswerCallback(query.ID, "")
	}
}

// handleChangeOption переключает настройку и перерисовывает меню настроек
// прямо в исходном сообщении.
func (bh *BotHandler) handleChangeOption(user models.User, settingKey string, messageID int) {
	if err := bh.Deps.Directory.ToggleSetting(&user, settingKey); err != nil {
		bh.Deps.Log.Error("handleChangeOption",
			fmt.Sprintf("Ошибка переключения настройки %q: %v", settingKey, err), user.ChatID)
		return
	}

	keyboard := optionsKeyboard(user)
	if err := bh.Deps.BotClient.EditHTML(user.ChatID, messageID, constants.MSG_OPTIONS_MENU, keyboard); err != nil {
		bh.Deps.Log.Error("handleChangeOption", fmt.Sprintf("Ошибка обновления меню настроек: %v", err), user.ChatID)
	}
}

// handleApprovePayment ставит позначку затвердження и заменяет исходное
// сообщение подтверждением без кнопки.
func (bh *BotHandler) handleApprovePayment(user models.User, token string, messageID int) {
	if !bh.Deps.Config.IsApprover(user.FullName) {
		bh.Deps.Log.Error("handleApprovePayment",
			fmt.Sprintf("Користувач %s не входить до списку затверджувачів", user.FullName), user.ChatID)
		return
	}

	payment, err := bh.Deps.Payments.ApprovePayment(token, user)
	if err != nil {
		bh.Deps.Log.Error("handleApprovePayment", fmt.Sprintf("Ошибка затвердження заявки: %v", err), user.ChatID)
		return
	}

	message := formatters.FormatPaymentMessage(constants.MSG_APPROVED_TITLE, *payment)
	if err := bh.Deps.BotClient.EditHTML(user.ChatID, messageID, message, nil); err != nil {
		bh.Deps.Log.Error("handleApprovePayment", fmt.Sprintf("Ошибка обновления сообщения: %v", err), user.ChatID)
	}
}

