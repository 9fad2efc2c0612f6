package models

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for all dates exchanged with the backend.
const DateLayout = "2006-01-02"

// Day returns the calendar day of t as midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange normalises both ends to calendar days.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: Day(start), End: Day(end)}
}

// LastNDays returns the n-day window ending on end (inclusive).
func LastNDays(end time.Time, n int) DateRange {
	if n < 1 {
		n = 1
	}
	end = Day(end)
	return DateRange{Start: end.AddDate(0, 0, -(n - 1)), End: end}
}

// Valid reports whether Start <= End.
func (r DateRange) Valid() bool {
	return !r.Start.After(r.End)
}

// Days returns the number of days covered, counting both ends.
func (r DateRange) Days() int {
	if !r.Valid() {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Equal reports whether both ranges cover the same days.
func (r DateRange) Equal(other DateRange) bool {
	return r.Start.Equal(other.Start) && r.End.Equal(other.End)
}

// Clamp pulls both ends into bounds, keeping Start <= End.
func (r DateRange) Clamp(b DateBounds) DateRange {
	if b.IsZero() {
		return r
	}
	out := r
	if out.Start.Before(b.Min) {
		out.Start = b.Min
	}
	if out.Start.After(b.Max) {
		out.Start = b.Max
	}
	if out.End.After(b.Max) {
		out.End = b.Max
	}
	if out.End.Before(b.Min) {
		out.End = b.Min
	}
	if out.Start.After(out.End) {
		out.Start = out.End
	}
	return out
}

func (r DateRange) String() string {
	return FormatDate(r.Start) + " → " + FormatDate(r.End)
}

// DateBounds is the server-reported window of available data.
type DateBounds struct {
	Min time.Time
	Max time.Time
}

// IsZero reports whether no bounds are known.
func (b DateBounds) IsZero() bool {
	return b.Min.IsZero() && b.Max.IsZero()
}

// Contains reports whether day t lies within the bounds.
func (b DateBounds) Contains(t time.Time) bool {
	if b.IsZero() {
		return true
	}
	return !t.Before(b.Min) && !t.After(b.Max)
}

// Preset is a named date range relative to today.
type Preset int

const (
	// PresetCustom means the range was entered by hand.
	PresetCustom Preset = iota
	// PresetToday covers only today.
	PresetToday
	// PresetYesterday covers only yesterday.
	PresetYesterday
	// PresetLast7Days covers today and the six days before it.
	PresetLast7Days
	// PresetLast30Days covers today and the 29 days before it.
	PresetLast30Days
	// PresetThisMonth covers the current calendar month.
	PresetThisMonth
	// PresetLastMonth covers the previous calendar month.
	PresetLastMonth

	presetCount
)

// Presets lists the selectable presets in display order.
func Presets() []Preset {
	return []Preset{
		PresetToday, PresetYesterday, PresetLast7Days,
		PresetLast30Days, PresetThisMonth, PresetLastMonth,
	}
}

// String returns the display name for a preset.
func (p Preset) String() string {
	switch p {
	case PresetCustom:
		return "Custom"
	case PresetToday:
		return "Today"
	case PresetYesterday:
		return "Yesterday"
	case PresetLast7Days:
		return "Last 7 Days"
	case PresetLast30Days:
		return "Last 30 Days"
	case PresetThisMonth:
		return "This Month"
	case PresetLastMonth:
		return "Last Month"
	default:
		return "Unknown"
	}
}

// Next cycles through the named presets, skipping Custom.
func (p Preset) Next() Preset {
	next := (p + 1) % presetCount
	if next == PresetCustom {
		next = PresetToday
	}
	return next
}

// Resolve returns the range the preset denotes on the given day.
// Custom resolves to today only.
func (p Preset) Resolve(now time.Time) DateRange {
	today := Day(now)
	switch p {
	case PresetYesterday:
		y := today.AddDate(0, 0, -1)
		return DateRange{Start: y, End: y}
	case PresetLast7Days:
		return LastNDays(today, 7)
	case PresetLast30Days:
		return LastNDays(today, 30)
	case PresetThisMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return DateRange{Start: first, End: first.AddDate(0, 1, -1)}
	case PresetLastMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
		return DateRange{Start: first, End: first.AddDate(0, 1, -1)}
	default:
		return DateRange{Start: today, End: today}
	}
}
