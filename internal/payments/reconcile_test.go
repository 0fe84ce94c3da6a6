package payments

import (
	"strings"
	"testing"
	"time"

	"github.com/chenko-bud/google-sheets-notifications/internal/utils"
)

// Компактные раскладки для тестов: читать проще, чем широкий боевой свод.
func testSourceConfig() RegisterConfig {
	return RegisterConfig{
		SheetName: "Свод заявок",
		Columns: map[string]int{
			FieldPlanPaymentDate: 1,
			FieldAmount:          2,
			FieldResponsible:     3,
			FieldPurpose:         4,
		},
		ToggleApprovedColumn: -1,
		TogglePaidColumn:     -1,
		IDColumn:             -1,
		DataStartRow:         2,
	}
}

func testTargetConfig() RegisterConfig {
	return RegisterConfig{
		SheetName: "Реєстр",
		Columns: map[string]int{
			FieldPlanPaymentDate: 1,
			FieldAmount:          2,
			FieldResponsible:     3,
			FieldPurpose:         4,
		},
		ToggleApprovedColumn: 5,
		TogglePaidColumn:     6,
		IDColumn:             7,
		DataStartRow:         2,
	}
}

var june1 = time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local)

func TestReconcile_CreatesRowWithFlagsAndID(t *testing.T) {
	source := [][]any{
		{"01.06.2026", "500", "Іван Петренко", "Оплата рахунку"},
	}

	result, created := Reconcile(source, nil, june1, testSourceConfig(), testTargetConfig())

	if created != 1 {
		t.Fatalf("created = %d, want 1", created)
	}
	if len(result) != 1 {
		t.Fatalf("len(result) = %d, want 1", len(result))
	}
	row := result[0]
	if got := utils.CellString(row[0]); got != "01.06.2026" {
		t.Errorf("дата = %q, want %q", got, "01.06.2026")
	}
	if got := utils.CellString(row[1]); got != "500" {
		t.Errorf("сумма = %q, want %q", got, "500")
	}
	if got := utils.CellString(row[2]); got != "Іван Петренко" {
		t.Errorf("ответственный = %q", got)
	}
	if row[4] != false || row[5] != false {
		t.Errorf("флаги новой строки должны быть false: %v, %v", row[4], row[5])
	}
	id := utils.CellString(row[6])
	if !strings.HasPrefix(id, "U") || len(id) < 10 {
		t.Errorf("ID новой строки должен начинаться с U: %q", id)
	}
}

func TestReconcile_SkipRules(t *testing.T) {
	source := [][]any{
		{"", "500", "Іван", ""},           // нет даты
		{"02.06.2026", "500", "Іван", ""}, // другая дата
		{"01.06.2026", "", "Іван", ""},    // нет суммы
		{"01.06.2026", "0", "Іван", ""},   // неположительная сумма
		{"01.06.2026", "-5", "Іван", ""},
		{"01.06.2026", "n/a", "Іван", ""}, // нечисловая сумма
	}

	result, created := Reconcile(source, nil, june1, testSourceConfig(), testTargetConfig())
	if created != 0 || len(result) != 0 {
		t.Errorf("ни одна строка не должна пройти отбор: created=%d, len=%d", created, len(result))
	}
}

func TestReconcile_PreservesExistingState(t *testing.T) {
	source := [][]any{
		{"01.06.2026", "500", "Іван Петренко", "Оплата рахунку"},
	}
	target := [][]any{
		{"01.06.2026", "500", "Іван Петренко", "Оплата рахунку", true, "TRUE", "Nabc123"},
	}

	result, created := Reconcile(source, target, june1, testSourceConfig(), testTargetConfig())

	if created != 0 {
		t.Fatalf("created = %d, want 0: строка уже существует", created)
	}
	if len(result) != 1 {
		t.Fatalf("len(result) = %d, want 1", len(result))
	}
	row := result[0]
	if row[4] != true {
		t.Errorf("позначка затвердження потеряна: %v", row[4])
	}
	if utils.CellString(row[5]) != "TRUE" {
		t.Errorf("позначка оплати потеряна: %v", row[5])
	}
	if utils.CellString(row[6]) != "Nabc123" {
		t.Errorf("ID потерян: %v", row[6])
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	source := [][]any{
		{"01.06.2026", "500", "Іван", "A"},
		{"01.06.2026", "700", "Марія", "B"},
	}

	first, created1 := Reconcile(source, nil, june1, testSourceConfig(), testTargetConfig())
	if created1 != 2 {
		t.Fatalf("первый прогон: created = %d, want 2", created1)
	}

	second, created2 := Reconcile(source, first, june1, testSourceConfig(), testTargetConfig())
	if created2 != 0 {
		t.Fatalf("повторный прогон: created = %d, want 0", created2)
	}
	if len(second) != len(first) {
		t.Fatalf("повторный прогон изменил число строк: %d != %d", len(second), len(first))
	}
	for i := range first {
		if utils.CellString(second[i][6]) != utils.CellString(first[i][6]) {
			t.Errorf("строка %d: ID изменился между прогонами", i)
		}
	}
}

func TestReconcile_RemovesDatelessRows(t *testing.T) {
	target := [][]any{
		{"", "", "", "", "", "", ""}, // резервная пустая строка
		{"31.05.2026", "100", "Іван", "X", false, false, "Uold1"},
	}

	result, _ := Reconcile(nil, target, june1, testSourceConfig(), testTargetConfig())
	if len(result) != 1 {
		t.Fatalf("len(result) = %d, want 1: строки без даты выбрасываются", len(result))
	}
	if utils.CellString(result[0][0]) != "31.05.2026" {
		t.Errorf("осталась не та строка: %v", result[0])
	}
}

func TestReconcile_InsertsBeforeEarlierDates(t *testing.T) {
	source := [][]any{
		{"01.06.2026", "500", "Іван", "нове"},
	}
	target := [][]any{
		{"03.06.2026", "100", "А", "пізніше", false, false, "U1"},
		{"02.06.2026", "200", "Б", "пізніше", false, false, "U2"},
		{"30.05.2026", "300", "В", "раніше", false, false, "U3"},
	}

	result, created := Reconcile(source, target, june1, testSourceConfig(), testTargetConfig())
	if created != 1 {
		t.Fatalf("created = %d, want 1", created)
	}
	got := make([]string, len(result))
	for i, row := range result {
		got[i] = utils.CellString(row[0])
	}
	want := []string{"03.06.2026", "02.06.2026", "01.06.2026", "30.05.2026"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("порядок дат = %v, want %v", got, want)
		}
	}
}

func TestReconcile_InsertsAfterLaterDatesWhenNoEarlier(t *testing.T) {
	source := [][]any{
		{"01.06.2026", "500", "Іван", ""},
	}
	target := [][]any{
		{"02.06.2026", "100", "А", "", false, false, "U1"},
	}

	result, _ := Reconcile(source, target, june1, testSourceConfig(), testTargetConfig())
	if len(result) != 2 {
		t.Fatalf("len(result) = %d, want 2", len(result))
	}
	if utils.CellString(result[1][0]) != "01.06.2026" {
		t.Errorf("блок за дату должен встать после более поздних строк: %v", result)
	}
}

func TestReconcile_MatchRequiresAllMappedFields(t *testing.T) {
	source := [][]any{
		{"01.06.2026", "500", "Іван", "призначення"},
	}
	// Та же дата и сумма, но другой ответственный: это другая заявка
	target := [][]any{
		{"01.06.2026", "500", "Петро", "призначення", true, true, "Nxyz"},
	}

	result, created := Reconcile(source, target, june1, testSourceConfig(), testTargetConfig())
	if created != 1 {
		t.Fatalf("created = %d, want 1: частичное совпадение не считается", created)
	}
	if len(result) != 1 {
		// Старая строка за filterDate замещается новым блоком
		t.Fatalf("len(result) = %d, want 1", len(result))
	}
	if utils.CellString(result[0][2]) != "Іван" {
		t.Errorf("в реестре должна остаться строка источника: %v", result[0])
	}
}
