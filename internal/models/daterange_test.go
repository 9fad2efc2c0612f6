package models

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2024-01-07"); err != nil {
		t.Errorf("ParseDate() error = %v", err)
	}
	for _, bad := range []string{"", "07/01/2024", "2024-13-01", "2024-01-07T00:00:00Z"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) should fail", bad)
		}
	}
}

func TestDay_NormalisesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	in := time.Date(2024, 3, 5, 23, 59, 0, 0, loc)
	got := Day(in)
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Day() = %v, want %v", got, want)
	}
}

func TestLastNDays(t *testing.T) {
	r := LastNDays(day("2024-01-07"), 7)
	if FormatDate(r.Start) != "2024-01-01" || FormatDate(r.End) != "2024-01-07" {
		t.Errorf("LastNDays(7) = %s", r)
	}
	if r.Days() != 7 {
		t.Errorf("Days() = %d, want 7", r.Days())
	}
	if got := LastNDays(day("2024-01-07"), 0); got.Days() != 1 {
		t.Errorf("LastNDays(0) should cover one day, got %d", got.Days())
	}
}

func TestDateRange_Valid(t *testing.T) {
	if !(DateRange{Start: day("2024-01-01"), End: day("2024-01-01")}).Valid() {
		t.Error("single-day range should be valid")
	}
	inverted := DateRange{Start: day("2024-01-02"), End: day("2024-01-01")}
	if inverted.Valid() {
		t.Error("start after end should be invalid")
	}
	if inverted.Days() != 0 {
		t.Errorf("invalid range Days() = %d, want 0", inverted.Days())
	}
}

func TestDateRange_Clamp(t *testing.T) {
	bounds := DateBounds{Min: day("2024-01-03"), Max: day("2024-01-20")}

	tests := []struct {
		name      string
		in        DateRange
		wantStart string
		wantEnd   string
	}{
		{"Inside", DateRange{day("2024-01-05"), day("2024-01-10")}, "2024-01-05", "2024-01-10"},
		{"StartBeforeMin", DateRange{day("2023-12-30"), day("2024-01-05")}, "2024-01-03", "2024-01-05"},
		{"EndAfterMax", DateRange{day("2024-01-15"), day("2024-02-01")}, "2024-01-15", "2024-01-20"},
		{"Covering", DateRange{day("2023-01-01"), day("2025-01-01")}, "2024-01-03", "2024-01-20"},
		{"EntirelyAfter", DateRange{day("2024-03-01"), day("2024-03-07")}, "2024-01-20", "2024-01-20"},
		{"EntirelyBefore", DateRange{day("2023-03-01"), day("2023-03-07")}, "2024-01-03", "2024-01-03"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Clamp(bounds)
			if FormatDate(got.Start) != tt.wantStart || FormatDate(got.End) != tt.wantEnd {
				t.Errorf("Clamp() = %s, want %s → %s", got, tt.wantStart, tt.wantEnd)
			}
			if !got.Valid() {
				t.Errorf("Clamp() produced invalid range %s", got)
			}
		})
	}

	r := DateRange{day("2020-01-01"), day("2030-01-01")}
	if !r.Clamp(DateBounds{}).Equal(r) {
		t.Error("zero bounds should leave the range untouched")
	}
}

func TestDateBounds_Contains(t *testing.T) {
	b := DateBounds{Min: day("2024-01-03"), Max: day("2024-01-20")}
	if !b.Contains(day("2024-01-03")) || !b.Contains(day("2024-01-20")) {
		t.Error("bounds should be inclusive")
	}
	if b.Contains(day("2024-01-21")) {
		t.Error("day after max should be outside")
	}
	if !(DateBounds{}).Contains(day("1999-01-01")) {
		t.Error("zero bounds contain everything")
	}
}

func TestPreset_Resolve(t *testing.T) {
	now := time.Date(2024, 3, 15, 13, 30, 0, 0, time.UTC)

	tests := []struct {
		preset    Preset
		wantStart string
		wantEnd   string
	}{
		{PresetToday, "2024-03-15", "2024-03-15"},
		{PresetYesterday, "2024-03-14", "2024-03-14"},
		{PresetLast7Days, "2024-03-09", "2024-03-15"},
		{PresetLast30Days, "2024-02-15", "2024-03-15"},
		{PresetThisMonth, "2024-03-01", "2024-03-31"},
		{PresetLastMonth, "2024-02-01", "2024-02-29"},
		{PresetCustom, "2024-03-15", "2024-03-15"},
	}
	for _, tt := range tests {
		t.Run(tt.preset.String(), func(t *testing.T) {
			got := tt.preset.Resolve(now)
			if FormatDate(got.Start) != tt.wantStart || FormatDate(got.End) != tt.wantEnd {
				t.Errorf("Resolve() = %s, want %s → %s", got, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestPreset_LastMonthInJanuary(t *testing.T) {
	got := PresetLastMonth.Resolve(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	if FormatDate(got.Start) != "2023-12-01" || FormatDate(got.End) != "2023-12-31" {
		t.Errorf("Resolve() = %s, want December 2023", got)
	}
}

func TestPreset_Next(t *testing.T) {
	seen := map[Preset]bool{}
	p := PresetCustom
	for range Presets() {
		p = p.Next()
		if p == PresetCustom {
			t.Fatal("Next() should never return Custom")
		}
		seen[p] = true
	}
	if len(seen) != len(Presets()) {
		t.Errorf("Next() visited %d presets, want %d", len(seen), len(Presets()))
	}
	if PresetLastMonth.Next() != PresetToday {
		t.Error("Next() should wrap from Last Month to Today")
	}
	if Preset(99).String() != "Unknown" {
		t.Error("unknown preset should render as Unknown")
	}
}
