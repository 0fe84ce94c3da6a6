package payments

import (
	"strings"
	"time"

	"github.com/chenko-bud/google-sheets-notifications/internal/constants"
	"github.com/chenko-bud/google-sheets-notifications/internal/utils"
)

// cellAt возвращает значение строки в колонке col (1-based).
// Выход за границы строки — пустая ячейка, а не паника: хвостовые пустые
// ячейки хранилище может обрезать.
func cellAt(row []any, col int) any {
	if col < 1 || col > len(row) {
		return nil
	}
	return row[col-1]
}

// Reconcile переносит строки свода заявок в целевой реестр за дату filterDate,
// сохраняя состояние уже существующих строк реестра.
//
// Контракт:
//  1. Строки источника без даты, с нечисловой или неположительной суммой,
//     либо с датой, не равной filterDate (по календарному дню), пропускаются.
//  2. Для каждой отобранной строки ищется существующая строка реестра с той же
//     датой и теми же значениями всех остальных сопоставленных полей. Найденная
//     строка переиспользуется как есть — флаги затвердження/оплати и ID
//     сохраняются, дубликат не создается.
//  3. Без совпадения собирается новая строка: сопоставленные поля копируются
//     по картам колонок, флаги ставятся в false, генерируется свежий ID
//     с префиксом "не уведомлено".
//  4. Новое содержимое реестра: существующие строки без строк за filterDate и
//     без строк с пустой датой; блок за filterDate вставляется перед первой
//     оставшейся строкой с более ранней датой, иначе после последней строки с
//     более поздней датой, иначе в самое начало. Итоговый порядок — убывающий
//     по дате лишь в смысле этого правила вставки, не полная сортировка.
//
// Возвращает новое содержимое реестра и число созданных строк.
// Вызовы для одного реестра должны сериализоваться вызывающим (см. Service).
func Reconcile(sourceRows, targetRows [][]any, filterDate time.Time, src, dst RegisterConfig) ([][]any, int) {
	filterTS, ok := utils.MidnightTimestamp(filterDate)
	if !ok {
		return targetRows, 0
	}

	width := dst.MaxColumn()
	srcDateCol := src.Columns[FieldPlanPaymentDate]
	dstDateCol := dst.Columns[FieldPlanPaymentDate]

	// 1. Отбор строк источника
	var candidates [][]any
	for _, row := range sourceRows {
		date := cellAt(row, srcDateCol)
		if utils.IsEmptyCell(date) {
			continue
		}
		ts, ok := utils.MidnightTimestamp(date)
		if !ok || ts != filterTS {
			continue
		}
		amount, ok := utils.CellAmount(cellAt(row, src.Columns[FieldAmount]))
		if !ok || amount <= 0 {
			continue
		}
		candidates = append(candidates, row)
	}

	// 2-3. Сопоставление с существующими строками либо синтез новых
	usedTargets := make(map[int]bool)
	created := 0
	reconciled := make([][]any, 0, len(candidates))
	for _, srcRow := range candidates {
		matchIdx := findMatchingTarget(srcRow, targetRows, usedTargets, filterTS, src, dst)
		if matchIdx >= 0 {
			usedTargets[matchIdx] = true
			reconciled = append(reconciled, padRow(targetRows[matchIdx], width))
			continue
		}

		newRow := make([]any, width)
		for i := range newRow {
			newRow[i] = ""
		}
		for field, dstCol := range dst.Columns {
			if srcCol, mapped := src.Columns[field]; mapped {
				newRow[dstCol-1] = cellAt(srcRow, srcCol)
			}
		}
		if dst.ToggleApprovedColumn > 0 {
			newRow[dst.ToggleApprovedColumn-1] = false
		}
		if dst.TogglePaidColumn > 0 {
			newRow[dst.TogglePaidColumn-1] = false
		}
		if dst.IDColumn > 0 {
			newRow[dst.IDColumn-1] = utils.GenerateID(constants.UNNOTIFIED_ID_PREFIX)
		}
		reconciled = append(reconciled, newRow)
		created++
	}

	// 4. Сборка нового содержимого: убираем строки за filterDate (полная
	// замена) и строки без даты (резерв/мусор)
	var remaining [][]any
	for _, row := range targetRows {
		date := cellAt(row, dstDateCol)
		if utils.IsEmptyCell(date) {
			continue
		}
		ts, ok := utils.MidnightTimestamp(date)
		if !ok {
			continue
		}
		if ts == filterTS {
			continue
		}
		remaining = append(remaining, padRow(row, width))
	}

	insertAt := insertPosition(remaining, filterTS, dstDateCol)

	result := make([][]any, 0, len(remaining)+len(reconciled))
	result = append(result, remaining[:insertAt]...)
	result = append(result, reconciled...)
	result = append(result, remaining[insertAt:]...)
	return result, created
}

// findMatchingTarget ищет строку реестра, совпадающую с исходной по дате и
// по значениям всех остальных сопоставленных полей. Возвращает -1, если
// совпадения нет. Уже переиспользованные строки второй раз не отдаются.
func findMatchingTarget(srcRow []any, targetRows [][]any, used map[int]bool, filterTS int64, src, dst RegisterConfig) int {
	for i, tgtRow := range targetRows {
		if used[i] {
			continue
		}
		ts, ok := utils.MidnightTimestamp(cellAt(tgtRow, dst.Columns[FieldPlanPaymentDate]))
		if !ok || ts != filterTS {
			continue
		}

		matched := true
		for field, dstCol := range dst.Columns {
			if field == FieldPlanPaymentDate {
				continue
			}
			srcCol, mapped := src.Columns[field]
			if !mapped {
				continue
			}
			if !cellsEqual(cellAt(srcRow, srcCol), cellAt(tgtRow, dstCol)) {
				matched = false
				break
			}
		}
		if matched {
			return i
		}
	}
	return -1
}

// cellsEqual сравнивает значения ячеек как нормализованные строки: одно и то
// же значение может прийти числом из события и строкой из хранилища.
func cellsEqual(a, b any) bool {
	if utils.IsEmptyCell(a) && utils.IsEmptyCell(b) {
		return true
	}
	return strings.TrimSpace(utils.CellString(a)) == strings.TrimSpace(utils.CellString(b))
}

// insertPosition определяет позицию вставки блока за filterTS:
// перед первой строкой с более ранней датой, иначе после последней строки
// с более поздней датой, иначе в начало.
func insertPosition(remaining [][]any, filterTS int64, dateCol int) int {
	for i, row := range remaining {
		ts, ok := utils.MidnightTimestamp(cellAt(row, dateCol))
		if ok && ts < filterTS {
			return i
		}
	}
	lastLater := -1
	for i, row := range remaining {
		ts, ok := utils.MidnightTimestamp(cellAt(row, dateCol))
		if ok && ts > filterTS {
			lastLater = i
		}
	}
	if lastLater >= 0 {
		return lastLater + 1
	}
	return 0
}

// padRow дополняет строку пустыми ячейками до ширины width.
func padRow(row []any, width int) []any {
	if len(row) >= width {
		return row
	}
	padded := make([]any, width)
	copy(padded, row)
	for i := len(row); i < width; i++ {
		padded[i] = ""
	}
	return padded
}
