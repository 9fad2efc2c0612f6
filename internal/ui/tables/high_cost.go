package tables

import (
	"github.com/charmbracelet/bubbles/table"

	"github.com/j-veylop/llm-dashboard-tui/internal/format"
	"github.com/j-veylop/llm-dashboard-tui/internal/models"
)

// HighCost lists the most expensive individual requests.
type HighCost struct {
	base
}

// NewHighCost creates an empty high-cost records table.
func NewHighCost() *HighCost {
	return &HighCost{base: newBase([]column{
		{title: "ID", width: 8, flex: true},
		{title: "Model", width: 16, flex: true},
		{title: "Prompt", width: 10},
		{title: "Completion", width: 10},
		{title: "Total", width: 10},
		{title: "Cost", width: 9},
		{title: "Datetime", width: 19},
	})}
}

// Rebuild replaces every row with one row per record, keeping server order.
func (t *HighCost) Rebuild(records []models.HighCostRecord) {
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, table.Row{
			r.ID,
			format.ModelLabel(r.Model),
			format.Int(r.PromptTokens),
			format.Int(r.CompletionTokens),
			format.Int(r.TotalTokens),
			format.Currency(r.Cost),
			r.Timestamp,
		})
	}
	t.setRows(rows)
}
