package payments

import (
	"sort"
	"strings"

	"github.com/chenko-bud/google-sheets-notifications/internal/models"
	"github.com/chenko-bud/google-sheets-notifications/internal/utils"
)

// UserResolver резолвит ответственного по имени (нечеткое вхождение,
// см. users.Directory.FindByName).
type UserResolver func(name string) (*models.User, error)

// UserPayments — пачка просроченных оплат одного пользователя.
type UserPayments struct {
	User     models.User
	Payments []models.Payment
}

// PaymentFromRow собирает платеж из строки реестра по карте колонок.
func PaymentFromRow(row []any, cfg RegisterConfig) models.Payment {
	p := models.Payment{
		PlanPaymentDate: cellAt(row, cfg.Columns[FieldPlanPaymentDate]),
		Organization:    utils.CellString(cellAt(row, cfg.Columns[FieldOrganization])),
		Contractor:      utils.CellString(cellAt(row, cfg.Columns[FieldContractor])),
		Project:         utils.CellString(cellAt(row, cfg.Columns[FieldProject])),
		Nomenclature:    utils.CellString(cellAt(row, cfg.Columns[FieldNomenclature])),
		Contract:        utils.CellString(cellAt(row, cfg.Columns[FieldContract])),
		Invoice:         utils.CellString(cellAt(row, cfg.Columns[FieldInvoice])),
		Department:      utils.CellString(cellAt(row, cfg.Columns[FieldDepartment])),
		Responsible:     utils.CellString(cellAt(row, cfg.Columns[FieldResponsible])),
		Amount:          cellAt(row, cfg.Columns[FieldAmount]),
		Currency:        utils.CellString(cellAt(row, cfg.Columns[FieldCurrency])),
	}
	p.Purpose = PurposeText(
		p.Project,
		utils.CellString(cellAt(row, cfg.Columns[FieldPurpose])),
		p.Nomenclature,
	)
	if cfg.ToggleApprovedColumn > 0 {
		p.Approved = utils.IsTruthy(cellAt(row, cfg.ToggleApprovedColumn))
	}
	if cfg.TogglePaidColumn > 0 {
		p.Paid = utils.IsTruthy(cellAt(row, cfg.TogglePaidColumn))
	}
	if cfg.IDColumn > 0 {
		p.ID = strings.TrimSpace(utils.CellString(cellAt(row, cfg.IDColumn)))
	}
	return p
}

// PurposeText выводит текст назначения платежа. Приоритет: метка проекта и
// поле призначення (оба присутствуют — конкатенируются через разделитель),
// номенклатура — только когда оба пусты.
func PurposeText(project, purpose, nomenclature string) string {
	var parts []string
	if strings.TrimSpace(project) != "" {
		parts = append(parts, "Проект: "+strings.TrimSpace(project))
	}
	if strings.TrimSpace(purpose) != "" {
		parts = append(parts, strings.TrimSpace(purpose))
	}
	if len(parts) == 0 && strings.TrimSpace(nomenclature) != "" {
		parts = append(parts, strings.TrimSpace(nomenclature))
	}
	return strings.Join(parts, ", ")
}

// AggregateUnpaidByUser группирует неоплаченные просроченные заявки по
// пользователям. Исключаются строки без даты, оплаченные (bool true либо
// строка "TRUE"), с датой позже today, без суммы, с неразрешимым
// ответственным, а также пользователи с выключенными unpaid-уведомлениями
// или без chat_id.
func AggregateUnpaidByUser(rows [][]any, today any, cfg RegisterConfig, resolve UserResolver) (map[string]*UserPayments, error) {
	result := make(map[string]*UserPayments)

	for _, row := range rows {
		date := cellAt(row, cfg.Columns[FieldPlanPaymentDate])
		if utils.IsEmptyCell(date) {
			continue
		}
		if cfg.TogglePaidColumn > 0 && utils.IsTruthy(cellAt(row, cfg.TogglePaidColumn)) {
			continue
		}
		if utils.CompareDates(date, ">", today) {
			continue
		}
		if _, ok := utils.CellAmount(cellAt(row, cfg.Columns[FieldAmount])); !ok {
			continue
		}

		responsible := utils.CellString(cellAt(row, cfg.Columns[FieldResponsible]))
		if strings.TrimSpace(responsible) == "" {
			continue
		}
		user, err := resolve(responsible)
		if err != nil {
			return nil, err
		}
		if user == nil || user.ChatID == "" || !user.Settings.UnpaidNotifications {
			continue
		}

		bucket, ok := result[user.ChatID]
		if !ok {
			bucket = &UserPayments{User: *user}
			result[user.ChatID] = bucket
		}
		bucket.Payments = append(bucket.Payments, PaymentFromRow(row, cfg))
	}

	return result, nil
}

// ApprovalItem — незатвержденная заявка с токеном callback-кнопки.
// Токен — ID строки без односимвольного префикса состояния.
type ApprovalItem struct {
	Payment models.Payment
	Row     int // номер строки листа (1-based)
	Token   string
}

// UnapprovedItems отбирает незатвержденные заявки с заполненной суммой и
// сортирует их по возрастанию даты оплаты. Рассылается только пользователям
// из фиксированного списка затверджувачей (проверяет вызывающий).
func UnapprovedItems(rows [][]any, cfg RegisterConfig) []ApprovalItem {
	var items []ApprovalItem
	for i, row := range rows {
		if cfg.ToggleApprovedColumn > 0 && utils.IsTruthy(cellAt(row, cfg.ToggleApprovedColumn)) {
			continue
		}
		if _, ok := utils.CellAmount(cellAt(row, cfg.Columns[FieldAmount])); !ok {
			continue
		}
		p := PaymentFromRow(row, cfg)
		if p.ID == "" {
			continue
		}
		items = append(items, ApprovalItem{
			Payment: p,
			Row:     cfg.DataStartRow + i,
			Token:   p.ID[1:],
		})
	}

	sort.SliceStable(items, func(a, b int) bool {
		tsA, okA := utils.MidnightTimestamp(items[a].Payment.PlanPaymentDate)
		tsB, okB := utils.MidnightTimestamp(items[b].Payment.PlanPaymentDate)
		if !okA {
			return false
		}
		if !okB {
			return true
		}
		return tsA < tsB
	})
	return items
}
