package records

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/llm-dashboard-tui/internal/app"
	"github.com/j-veylop/llm-dashboard-tui/internal/models"
)

func loadedState(t *testing.T) *app.State {
	t.Helper()
	state := app.NewState(nil)
	seq, _ := state.BeginLoad(context.Background(), models.Filter{Model: models.AllModels})
	state.ApplyUsage(seq, models.UsageReport{
		Models: []models.ModelUsageRow{
			{Model: "openai/gpt-4", Requests: 2, PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15, TotalCost: 1},
			{Model: "local-model", Requests: 1},
		},
	})
	state.ApplyHighCost(seq, []models.HighCostRecord{
		{ID: "r1", Model: "openai/gpt-4", Cost: 0.5, Timestamp: "2024-01-01 10:00:00"},
		{ID: "r2", Model: "local-model", Cost: 0.25, Timestamp: "2024-01-02 11:00:00"},
	})
	return state
}

func TestNew(t *testing.T) {
	state := app.NewState(nil)
	m := New(state)
	if m.Init() != nil {
		t.Error("Init should return nil")
	}
	if !state.Models.Focused() || state.HighCosts.Focused() {
		t.Error("the model summary should start focused")
	}
}

func TestSwitchFocus(t *testing.T) {
	state := loadedState(t)
	m := New(state)
	m.SetSize(120, 40)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if state.Models.Focused() || !state.HighCosts.Focused() {
		t.Fatal("tab should move focus to the high-cost table")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if !state.Models.Focused() {
		t.Fatal("shift+tab should move focus back")
	}
}

func TestView(t *testing.T) {
	m := New(loadedState(t))
	m.SetSize(140, 40)

	view := m.View()
	for _, want := range []string{
		"Model Summary (2)", "High-Cost Records (2)",
		"gpt-4", "local-model", "r1", "2024-01-02 11:00:00", "$0.50", "Cost/1K",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestView_Empty(t *testing.T) {
	m := New(app.NewState(nil))
	m.SetSize(100, 30)
	view := m.View()
	if !strings.Contains(view, "No records") {
		t.Error("empty tables should show a placeholder")
	}
	if !strings.Contains(view, "Model Summary (0)") {
		t.Error("empty summary should show a zero count")
	}
}

func TestUpdate_IgnoresNonKeys(t *testing.T) {
	m := New(app.NewState(nil))
	if _, cmd := m.Update(app.DataRenderedMsg{}); cmd != nil {
		t.Error("non-key messages should not produce commands")
	}
	if len(m.ShortHelp()) == 0 || len(m.FullHelp()) == 0 {
		t.Error("help bindings should not be empty")
	}
}
