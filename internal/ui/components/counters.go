package components

import (
	"github.com/j-veylop/llm-dashboard-tui/internal/format"
	"github.com/j-veylop/llm-dashboard-tui/internal/models"
)

// Counter is one labelled summary figure.
type Counter struct {
	Label string
	Value string
}

// SummaryCounters returns the four headline counters in display order.
func SummaryCounters(s models.UsageSummary) []Counter {
	return []Counter{
		{Label: "Total Requests", Value: format.Int(s.TotalRequests)},
		{Label: "Total Tokens", Value: format.Int(s.TotalTokens)},
		{Label: "Total Cost", Value: format.Currency(s.TotalCost)},
		{Label: "Avg Cost/Request", Value: format.Currency(s.AvgCostPerRequest)},
	}
}
