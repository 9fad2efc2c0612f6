// Package models defines data structures and domain types.
package models

import (
	"time"

	"github.com/samber/lo"
)

// AllModels is the model filter sentinel meaning "no filter".
const AllModels ModelFilter = "all"

// ModelFilter is either AllModels or one server-provided model name.
type ModelFilter string

// IsAll reports whether the filter selects every model.
func (f ModelFilter) IsAll() bool {
	return f == "" || f == AllModels
}

// String returns the query value for the filter.
func (f ModelFilter) String() string {
	if f.IsAll() {
		return string(AllModels)
	}
	return string(f)
}

// Filter is the immutable snapshot handed to a data load.
type Filter struct {
	Range DateRange
	Model ModelFilter
}

// Equal reports whether two filters select the same data.
func (f Filter) Equal(other Filter) bool {
	return f.Range.Equal(other.Range) && f.Model.String() == other.Model.String()
}

// String returns a compact description such as "2024-01-01 → 2024-01-07 · all".
func (f Filter) String() string {
	return f.Range.String() + " · " + f.Model.String()
}

// UsageSummary holds the aggregate counters for a filter window.
type UsageSummary struct {
	TotalRequests         int64
	TotalPromptTokens     int64
	TotalCompletionTokens int64
	TotalTokens           int64
	TotalCost             float64
	AvgCostPerRequest     float64
}

// ModelUsageRow is the per-model breakdown.
type ModelUsageRow struct {
	Model             string
	Requests          int64
	PromptTokens      int64
	CompletionTokens  int64
	TotalTokens       int64
	TotalCost         float64
	AvgCostPerRequest float64
	CostPer1KTokens   float64
}

// DailyUsageRow is the per-day breakdown.
type DailyUsageRow struct {
	Date             time.Time
	Requests         int64
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
	TotalCost        float64
}

// HighCostRecord is a single flagged request.
type HighCostRecord struct {
	ID               string
	Model            string
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
	Cost             float64
	Timestamp        string
}

// UsageReport is everything the token-data endpoint returns for one filter.
// Models and Daily keep the server's order.
type UsageReport struct {
	Summary UsageSummary
	Models  []ModelUsageRow
	Daily   []DailyUsageRow
}

// IsEmpty reports whether the report has no per-model rows. Daily rows alone
// do not count as data.
func (r UsageReport) IsEmpty() bool {
	return len(r.Models) == 0
}

// Reconcile returns a copy of the report whose summary token counters are
// derived from the per-model rows, so that the rendered total always equals
// the sum of prompt and completion tokens across Models. It also reports
// whether the server's own totals disagreed.
func Reconcile(r UsageReport) (UsageReport, bool) {
	prompt := lo.SumBy(r.Models, func(row ModelUsageRow) int64 { return row.PromptTokens })
	completion := lo.SumBy(r.Models, func(row ModelUsageRow) int64 { return row.CompletionTokens })

	mismatch := r.Summary.TotalPromptTokens != prompt ||
		r.Summary.TotalCompletionTokens != completion ||
		r.Summary.TotalTokens != prompt+completion

	out := r
	out.Summary.TotalPromptTokens = prompt
	out.Summary.TotalCompletionTokens = completion
	out.Summary.TotalTokens = prompt + completion
	return out, mismatch
}
