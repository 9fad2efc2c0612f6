package dashboard

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-veylop/llm-dashboard-tui/internal/app"
	"github.com/j-veylop/llm-dashboard-tui/internal/filter"
	"github.com/j-veylop/llm-dashboard-tui/internal/models"
	"github.com/j-veylop/llm-dashboard-tui/internal/ui/charts"
)

type fakeSource struct{}

func (fakeSource) FetchDateRange(context.Context) (models.DateBounds, error) {
	start, _ := models.ParseDate("2024-01-01")
	end, _ := models.ParseDate("2024-01-31")
	return models.DateBounds{Min: start, Max: end}, nil
}

func (fakeSource) FetchModelList(context.Context) ([]string, error) {
	return []string{"openai/gpt-4", "local-model"}, nil
}

func newReadyState(t *testing.T) *app.State {
	t.Helper()
	now := func() time.Time { return time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC) }
	ctrl := filter.New(filter.WithClock(now))
	require.NoError(t, ctrl.Initialize(context.Background(), fakeSource{}))
	state := app.NewState(ctrl)
	state.SetLoading("filter", false)
	return state
}

func pressKey(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNew(t *testing.T) {
	m := New(app.NewState(nil), nil)
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() == nil {
		t.Error("Init returned nil")
	}
	if m.CapturingInput() {
		t.Error("a fresh dashboard should not capture input")
	}
}

func TestView_LoadingFilters(t *testing.T) {
	m := New(app.NewState(nil), nil)
	m.SetSize(100, 30)
	if view := m.View(); !strings.Contains(view, "Loading filters...") {
		t.Errorf("View() should show the filter spinner, got %q", view)
	}
}

func TestView_EmptyDashboard(t *testing.T) {
	m := New(newReadyState(t), nil)
	m.SetSize(160, 200)

	view := m.View()
	for _, want := range []string{
		"Total Requests", "Total Tokens", "Total Cost", "Avg Cost/Request",
		"$0.00", "not loaded", "2024-01-25 → 2024-01-31 · all",
	} {
		assert.Contains(t, view, want)
	}
	for _, id := range charts.IDs() {
		assert.Contains(t, view, id.Title())
	}
}

func TestView_AfterLoad(t *testing.T) {
	state := newReadyState(t)
	m := New(state, nil)
	m.SetSize(160, 200)

	f, err := state.Filter.Apply()
	require.NoError(t, err)
	seq, _ := state.BeginLoad(context.Background(), f)
	require.True(t, state.ApplyUsage(seq, models.UsageReport{
		Summary: models.UsageSummary{TotalRequests: 3, TotalCost: 12.3456, AvgCostPerRequest: 4.1152},
		Models: []models.ModelUsageRow{
			{Model: "openai/gpt-4", Requests: 3, PromptTokens: 1000, CompletionTokens: 234, TotalCost: 12.3456},
		},
	}))

	m.Update(app.DataRenderedMsg{Seq: seq})
	view := m.View()
	assert.Contains(t, view, "$12.35")
	assert.Contains(t, view, "1,234", "total tokens are the reconciled sum")
	assert.Contains(t, view, "gpt-4")
	assert.NotContains(t, view, "openai/gpt-4")
	assert.NotContains(t, view, "not loaded")
	assert.Contains(t, view, "updated")
}

func TestKeys_CycleAndApply(t *testing.T) {
	state := newReadyState(t)
	m := New(state, nil)
	m.SetSize(160, 60)

	f, err := state.Filter.Apply()
	require.NoError(t, err)
	state.BeginLoad(context.Background(), f)

	_, cmd := m.Update(pressKey("m"))
	assert.Nil(t, cmd)
	assert.Equal(t, "openai/gpt-4", state.Filter.Pending().Model.String())
	assert.Contains(t, m.View(), "pending")

	_, cmd = m.Update(pressKey("p"))
	assert.Nil(t, cmd)
	assert.Equal(t, models.PresetToday, state.Filter.Preset())

	_, cmd = m.Update(pressKey("a"))
	require.NotNil(t, cmd)
	_, ok := cmd().(app.ApplyFilterMsg)
	assert.True(t, ok, "a should request an apply")

	_, cmd = m.Update(pressKey("enter"))
	require.NotNil(t, cmd)
	_, ok = cmd().(app.ApplyFilterMsg)
	assert.True(t, ok, "enter should request an apply")
}

func TestKeys_Uninitialized(t *testing.T) {
	m := New(app.NewState(nil), nil)

	_, cmd := m.Update(pressKey("m"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(app.AddNotificationMsg)
	require.True(t, ok)
	assert.Equal(t, app.NotificationError, msg.Type)

	_, cmd = m.Update(pressKey("f"))
	assert.Nil(t, cmd, "the form cannot open before the filter is initialized")
	assert.False(t, m.CapturingInput())
}

func TestFilterForm_OpenAndCancel(t *testing.T) {
	state := newReadyState(t)
	m := New(state, nil)
	m.SetSize(120, 40)
	before := state.Filter.Pending()

	m.Update(pressKey("f"))
	require.True(t, m.CapturingInput())
	assert.Contains(t, m.View(), "Date range")

	_, cmd := m.Update(pressKey("esc"))
	assert.Nil(t, cmd)
	assert.False(t, m.CapturingInput())
	assert.True(t, before.Equal(state.Filter.Pending()), "cancel leaves the pending filter untouched")
}

func TestFilterForm_CommitCustomRange(t *testing.T) {
	state := newReadyState(t)
	ff := NewFilterForm(state.Filter)

	assert.Equal(t, "2024-01-25", ff.start)
	assert.Equal(t, "2024-01-31", ff.end)
	assert.Equal(t, "all", ff.model)

	ff.preset = models.PresetCustom
	ff.start = "2023-12-01"
	ff.end = "2024-01-10"
	ff.model = "local-model"
	require.NoError(t, ff.commit())

	pending := state.Filter.Pending()
	assert.Equal(t, "2024-01-01 → 2024-01-10 · local-model", pending.String(), "range is clamped to the bounds")
	assert.Equal(t, models.PresetCustom, state.Filter.Preset())
}

func TestFilterForm_CommitPreset(t *testing.T) {
	state := newReadyState(t)
	ff := NewFilterForm(state.Filter)

	ff.preset = models.PresetYesterday
	require.NoError(t, ff.commit())
	assert.Equal(t, "2024-01-30 → 2024-01-30 · all", state.Filter.Pending().String())
	assert.Equal(t, models.PresetYesterday, state.Filter.Preset())
}

func TestFilterForm_Validation(t *testing.T) {
	state := newReadyState(t)
	ff := NewFilterForm(state.Filter)

	assert.Error(t, validateDate("01/02/2024"))
	assert.NoError(t, validateDate("2024-01-02"))

	ff.start = "2024-01-10"
	assert.Error(t, ff.validateEnd("2024-01-09"))
	assert.NoError(t, ff.validateEnd("2024-01-10"))

	ff.preset = models.PresetCustom
	ff.model = "unknown"
	assert.Error(t, ff.commit())
}

func TestHelp(t *testing.T) {
	m := New(app.NewState(nil), nil)
	if len(m.ShortHelp()) == 0 || len(m.FullHelp()) == 0 {
		t.Error("help bindings should not be empty")
	}
}
