// Пакет formatters собирает HTML-тексты уведомлений для Telegram.
// Списки ограничиваются лимитом длины сообщения: блоки, не влезающие в
// лимит, заменяются единственной пометкой об обрезке.
package formatters

import (
	"fmt"
	"strings"
	"time"

	"github.com/chenko-bud/google-sheets-notifications/internal/constants"
	"github.com/chenko-bud/google-sheets-notifications/internal/models"
	"github.com/chenko-bud/google-sheets-notifications/internal/utils"
)

const separator = "_______________________________________\n"

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func amountString(v any) string {
	s := strings.TrimSpace(utils.CellString(v))
	if s == "" {
		return "0"
	}
	return s
}

// paymentBlock — один блок платежа внутри сообщения.
func paymentBlock(p models.Payment) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 <b>Дата оплати:</b> %s\n", utils.FormatDateUA(p.PlanPaymentDate)))
	b.WriteString(fmt.Sprintf("📋 <b>Контрагент:</b> %s\n", orDefault(p.Contractor, constants.MSG_NOT_SPECIFIED)))
	b.WriteString(fmt.Sprintf("💵 <b>Сума:</b> %s %s\n", amountString(p.Amount), orDefault(p.Currency, "UAH")))
	b.WriteString(fmt.Sprintf("📝 <b>Призначення:</b> %s", orDefault(p.Purpose, constants.MSG_NOT_SPECIFIED)))
	return b.String()
}

// FormatPaymentMessage форматирует одиночное уведомление о платеже.
func FormatPaymentMessage(title string, p models.Payment) string {
	return fmt.Sprintf("<b>%s</b>\n\n%s", title, paymentBlock(p))
}

// FormatPaymentsMessage форматирует список платежей одним сообщением.
// Пустой список — только emptyText без заголовка.
func FormatPaymentsMessage(title string, paymentsData []models.Payment, emptyText string) string {
	blocks := make([]string, 0, len(paymentsData))
	for i, p := range paymentsData {
		blocks = append(blocks, fmt.Sprintf("%d.\n%s\n", i+1, paymentBlock(p)))
	}
	return joinLimited(title, blocks, emptyText)
}

// taskBlock — один блок задачи. Просроченные задачи получают пометку.
func taskBlock(t models.Task, now time.Time) string {
	var b strings.Builder
	if t.Description != "" {
		b.WriteString(fmt.Sprintf("📋 <b>Завдання:</b> %s\n", t.Description))
	}
	if t.Decision != "" {
		b.WriteString(fmt.Sprintf("💵 %s\n", t.Decision))
	}
	overdue := utils.CompareDates(t.DueDate, "<", now)
	if utils.IsEmptyCell(t.DueDate) {
		b.WriteString(fmt.Sprintf("📅 <b>Виконати до:</b> %s", constants.MSG_NOT_SPECIFIED))
	} else {
		b.WriteString(fmt.Sprintf("📅 <b>Виконати до:</b> %s", utils.FormatDateUA(t.DueDate)))
	}
	if overdue {
		b.WriteString("\n ⚠️ <i>(Протерміновано)</i>")
	}
	return b.String()
}

// FormatTaskMessage форматирует одиночное уведомление о задаче.
func FormatTaskMessage(title string, t models.Task, now time.Time) string {
	return fmt.Sprintf("<b>%s</b>\n\n%s", title, taskBlock(t, now))
}

// FormatTasksMessage форматирует список задач одним сообщением.
func FormatTasksMessage(title string, tasksData []models.Task, emptyText string, now time.Time) string {
	blocks := make([]string, 0, len(tasksData))
	for i, t := range tasksData {
		blocks = append(blocks, fmt.Sprintf("%d.\n%s\n", i+1, taskBlock(t, now)))
	}
	return joinLimited(title, blocks, emptyText)
}

// joinLimited склеивает заголовок и блоки с разделителем между ними,
// следя за лимитом Telegram. Как только очередной блок не помещается,
// добавляется единственная пометка об обрезке и добавление прекращается.
func joinLimited(title string, blocks []string, emptyText string) string {
	if len(blocks) == 0 {
		return fmt.Sprintf("<b>%s</b>", emptyText)
	}

	var message strings.Builder
	message.WriteString(fmt.Sprintf("<b>%s</b>\n\n", title))
	currentLength := message.Len()

	// Резервируем место под пометку об обрезке, чтобы итог не вышел за лимит
	budget := constants.TELEGRAM_LIMIT - len(constants.MSG_LIST_TRUNCATED)
	for i, block := range blocks {
		item := block
		if i < len(blocks)-1 {
			item += separator
		}
		if currentLength+len(item) > budget {
			message.WriteString(constants.MSG_LIST_TRUNCATED)
			break
		}
		message.WriteString(item)
		currentLength += len(item)
	}

	return message.String()
}
