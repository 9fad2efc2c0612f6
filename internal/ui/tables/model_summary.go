package tables

import (
	"github.com/charmbracelet/bubbles/table"

	"github.com/j-veylop/llm-dashboard-tui/internal/format"
	"github.com/j-veylop/llm-dashboard-tui/internal/models"
)

// ModelSummary is the per-model usage table.
type ModelSummary struct {
	base
}

// NewModelSummary creates an empty model summary table.
func NewModelSummary() *ModelSummary {
	return &ModelSummary{base: newBase([]column{
		{title: "Model", width: 16, flex: true},
		{title: "Requests", width: 9},
		{title: "Prompt", width: 11},
		{title: "Completion", width: 11},
		{title: "Total", width: 11},
		{title: "Total Cost", width: 11},
		{title: "Avg Cost/Req", width: 12},
		{title: "Cost/1K", width: 10},
	})}
}

// Rebuild replaces every row with one row per record, in input order.
func (t *ModelSummary) Rebuild(records []models.ModelUsageRow) {
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, table.Row{
			format.ModelLabel(r.Model),
			format.Int(r.Requests),
			format.Int(r.PromptTokens),
			format.Int(r.CompletionTokens),
			format.Int(r.TotalTokens),
			format.Currency(r.TotalCost),
			format.Currency(r.AvgCostPerRequest),
			format.CostPer1K(r.CostPer1KTokens),
		})
	}
	t.setRows(rows)
}
