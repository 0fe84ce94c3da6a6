package handlers

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/chenko-bud/google-sheets-notifications/internal/constants"
	"github.com/chenko-bud/google-sheets-notifications/internal/models"
)

func (bh *BotHandler) sendHTML(chatID, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	if _, err := bh.Deps.BotClient.SendHTML(chatID, text, keyboard); err != nil {
		bh.Deps.Log.Error("sendHTML", fmt.Sprintf("Ошибка отправки сообщения: %v", err), chatID)
	}
}

// sendMainMenu отправляет главное меню (reply-клавиатура). Затверджувачам
// добавляется отдельный ряд с заявками на затвердження.
func (bh *BotHandler) sendMainMenu(user models.User) {
	id, err := strconv.ParseInt(user.ChatID, 10, 64)
	if err != nil {
		bh.Deps.Log.Error("sendMainMenu", fmt.Sprintf("Некорректный chat_id %q: %v", user.ChatID, err))
		return
	}

	rows := [][]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(constants.BTN_MY_PROCESSING_TASKS)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(constants.BTN_MY_UNPAID_APPLICATIONS)),
	}
	if bh.Deps.Config.IsApprover(user.FullName) {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(constants.BTN_APPLICATIONS_APPROVE)))
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(constants.BTN_SETTINGS)))

	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true

	msg := tgbotapi.NewMessage(id, constants.MSG_MAIN_MENU)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = keyboard
	if _, err := bh.Deps.BotClient.Send(msg); err != nil {
		bh.Deps.Log.Error("sendMainMenu", fmt.Sprintf("Ошибка отправки главного меню: %v", err), user.ChatID)
	}
}

// optionsKeyboard собирает инлайн-клавиатуру настроек: подпись каждой кнопки
// отражает текущее состояние флага пользователя.
func optionsKeyboard(user models.User) *tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(constants.OPTIONS_KEYBOARD_BUTTONS))
	for _, opt := range constants.OPTIONS_KEYBOARD_BUTTONS {
		label := opt.Disabled
		if user.Setting(opt.ID) {
			label = opt.Enabled
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, constants.CALLBACK_CHANGE_OPTION+":"+opt.ID),
		))
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &keyboard
}

// sendOptionsMenu отправляет меню настроек. Предыдущее меню в этом чате
// удаляется, чтобы не оставлять устаревшие клавиатуры.
func (bh *BotHandler) sendOptionsMenu(user models.User) {
	if prevID, ok := bh.Deps.SessionManager.SettingsMenu(user.ChatID); ok {
		if !bh.Deps.SessionManager.IsMessageDeleted(user.ChatID, prevID) {
			if bh.Deps.BotClient.DeleteMessage(user.ChatID, prevID) {
				bh.Deps.SessionManager.MarkMessageDeleted(user.ChatID, prevID)
			}
		}
		bh.Deps.SessionManager.ClearSettingsMenu(user.ChatID)
	}

	sent, err := bh.Deps.BotClient.SendHTML(user.ChatID, constants.MSG_OPTIONS_MENU, optionsKeyboard(user))
	if err != nil {
		bh.Deps.Log.Error("sendOptionsMenu", fmt.Sprintf("Ошибка отправки меню настроек: %v", err), user.ChatID)
		return
	}
	bh.Deps.SessionManager.SetSettingsMenu(user.ChatID, sent.MessageID)
}
