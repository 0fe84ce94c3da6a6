package utils

import (
	"testing"
	"time"
)

func TestMidnightTimestamp_EquivalentForms(t *testing.T) {
	want := time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local).UnixMilli()

	inputs := []any{
		"01.06.2026",
		" 01.06.2026 ",
		"2026-06-01",
		"2026/06/01",
		time.Date(2026, 6, 1, 15, 42, 7, 0, time.Local),
	}
	for _, input := range inputs {
		got, ok := MidnightTimestamp(input)
		if !ok {
			t.Errorf("MidnightTimestamp(%v): ok=false", input)
			continue
		}
		if got != want {
			t.Errorf("MidnightTimestamp(%v) = %d, want %d", input, got, want)
		}
	}
}

func TestMidnightTimestamp_Invalid(t *testing.T) {
	inputs := []any{
		nil,
		"",
		"   ",
		"не дата",
		"31.02.2026", // несуществующий день не нормализуется в март
		"01.13.2026",
		42,
		time.Time{},
	}
	for _, input := range inputs {
		if _, ok := MidnightTimestamp(input); ok {
			t.Errorf("MidnightTimestamp(%v): ожидали ok=false", input)
		}
	}
}

func TestMidnightTimestamp_StripsTimeOfDay(t *testing.T) {
	morning, ok1 := MidnightTimestamp(time.Date(2026, 6, 1, 8, 0, 0, 0, time.Local))
	evening, ok2 := MidnightTimestamp(time.Date(2026, 6, 1, 23, 59, 59, 0, time.Local))
	if !ok1 || !ok2 {
		t.Fatal("ok=false для валидных дат")
	}
	if morning != evening {
		t.Errorf("полночь должна совпадать: %d != %d", morning, evening)
	}
}

func TestCompareDates(t *testing.T) {
	tests := []struct {
		a    any
		op   string
		b    any
		want bool
	}{
		{"01.06.2026", "<", "02.06.2026", true},
		{"02.06.2026", ">", "01.06.2026", true},
		{"01.06.2026", "=", "2026-06-01", true},
		{"01.06.2026", "==", "01.06.2026", true},
		{"01.06.2026", "===", "01.06.2026", true},
		{"01.06.2026", ">=", "01.06.2026", true},
		{"01.06.2026", "<=", "31.05.2026", false},
		{"01.06.2026", "<", "01.06.2026", false},
		{"01.06.2026", "!", "01.06.2026", false},
	}
	for _, tc := range tests {
		if got := CompareDates(tc.a, tc.op, tc.b); got != tc.want {
			t.Errorf("CompareDates(%v, %q, %v) = %v, want %v", tc.a, tc.op, tc.b, got, tc.want)
		}
	}
}

func TestCompareDates_UnparseableNeverPanics(t *testing.T) {
	if CompareDates(nil, ">", "01.06.2026") {
		t.Error("сравнение с nil должно давать false")
	}
	if CompareDates("мусор", "<", "01.06.2026") {
		t.Error("сравнение с мусором должно давать false")
	}
	if CompareDates("01.06.2026", "=", "") {
		t.Error("сравнение с пустой строкой должно давать false")
	}
}

func TestFormatDateUA(t *testing.T) {
	tests := []struct {
		input any
		want  string
	}{
		{"01.06.2026", "01.06.2026"},
		{"2026-06-01", "01.06.2026"},
		{time.Date(2026, 1, 5, 10, 0, 0, 0, time.Local), "05.01.2026"},
		{nil, "Не вказано"},
		{"", "Не вказано"},
		{"завтра", "завтра"}, // непустая нераспознанная строка показывается как есть
	}
	for _, tc := range tests {
		if got := FormatDateUA(tc.input); got != tc.want {
			t.Errorf("FormatDateUA(%v) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
