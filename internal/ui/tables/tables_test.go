package tables

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-veylop/llm-dashboard-tui/internal/models"
)

func TestModelSummary_Rebuild(t *testing.T) {
	tbl := NewModelSummary()
	assert.Equal(t, 0, tbl.Len())

	tbl.Rebuild([]models.ModelUsageRow{
		{
			Model: "openai/gpt-4", Requests: 1234567, PromptTokens: 1000, CompletionTokens: 234,
			TotalTokens: 1234, TotalCost: 12.3456, AvgCostPerRequest: 0.01, CostPer1KTokens: 0.0001234,
		},
		{Model: "local-model", Requests: 1},
	})

	want := [][]string{
		{"gpt-4", "1,234,567", "1,000", "234", "1,234", "$12.35", "$0.01", "$0.000123"},
		{"local-model", "1", "0", "0", "0", "$0.00", "$0.00", "$0.000000"},
	}
	if diff := cmp.Diff(want, tbl.Rows()); diff != "" {
		t.Errorf("Rows() mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, tbl.Headers(), 8)
}

func TestModelSummary_RebuildReplaces(t *testing.T) {
	tbl := NewModelSummary()
	tbl.Rebuild([]models.ModelUsageRow{{Model: "a"}, {Model: "b"}})
	tbl.Rebuild([]models.ModelUsageRow{{Model: "c"}})

	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, "c", tbl.Rows()[0][0])

	tbl.Rebuild(nil)
	assert.Equal(t, 0, tbl.Len())
	assert.Contains(t, tbl.View(), "No records")
}

func TestHighCost_KeepsServerOrder(t *testing.T) {
	tbl := NewHighCost()
	tbl.Rebuild([]models.HighCostRecord{
		{ID: "7", Model: "anthropic/claude-3", Cost: 0.5, Timestamp: "2024-01-02 10:00:00"},
		{ID: "3", Model: "openai/gpt-4", Cost: 2.25, TotalTokens: 4000, Timestamp: "2024-01-01 09:00:00"},
	})

	rows := tbl.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"7", "claude-3", "0", "0", "0", "$0.50", "2024-01-02 10:00:00"}, rows[0])
	assert.Equal(t, "3", rows[1][0])
	assert.Equal(t, "4,000", rows[1][4])
	assert.Equal(t, "$2.25", rows[1][5])
}

func TestTable_RowsAreCopies(t *testing.T) {
	tbl := NewHighCost()
	tbl.Rebuild([]models.HighCostRecord{{ID: "1"}})
	tbl.Rows()[0][0] = "mutated"
	assert.Equal(t, "1", tbl.Rows()[0][0])
}

func TestTable_FocusAndSize(t *testing.T) {
	tbl := NewModelSummary()
	tbl.Rebuild([]models.ModelUsageRow{{Model: "a"}, {Model: "b"}})

	assert.False(t, tbl.Focused())
	tbl.Focus()
	assert.True(t, tbl.Focused())
	_ = tbl.Update(tea.KeyMsg{Type: tea.KeyDown})
	tbl.Blur()
	assert.False(t, tbl.Focused())

	tbl.SetSize(140, 12)
	assert.Contains(t, tbl.View(), "Model")

	tbl.Clear()
	assert.Equal(t, 0, tbl.Len())
}
