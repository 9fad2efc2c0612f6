package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/llm-dashboard-tui/internal/ui/charts"
	"github.com/j-veylop/llm-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/llm-dashboard-tui/internal/ui/styles"
)

const (
	filterBarHeight = 4
	chartHeight     = 10
	// Two charts per row from this width on.
	wideLayoutWidth = 120
)

// View renders the dashboard component.
func (m *Model) View() string {
	if m.state.Loading.Filter {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	bar := m.renderFilterBar()
	if m.form != nil {
		form := styles.ModalContentStyle.Render(m.form.View())
		return lipgloss.JoinVertical(lipgloss.Left, bar, form)
	}

	m.refresh()
	return lipgloss.JoinVertical(lipgloss.Left, bar, m.viewport.View())
}

// refresh re-renders the scrollable body from the current state.
func (m *Model) refresh() {
	if m.width == 0 {
		return
	}
	m.viewport.SetContent(m.renderBody())
}

func (m *Model) renderBody() string {
	sections := []string{m.renderCounters()}
	if m.state.TotalsMismatch() {
		sections = append(sections, styles.WarningTextStyle.Render(
			"  Server totals disagreed with the per-model rows; totals were recomputed."))
	}
	sections = append(sections, "", m.renderCharts())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderFilterBar shows the applied filter and any pending edits.
func (m *Model) renderFilterBar() string {
	pending := m.state.Filter.Pending()
	preset := m.state.Filter.Preset()

	label := styles.CounterLabelStyle.Render("Filter ")
	line := label + styles.CounterValueStyle.Render(pending.String()) +
		styles.HelpStyle.Render(" ("+preset.String()+")")

	applied, ok := m.state.Applied()
	switch {
	case !ok:
		line += "  " + styles.PendingStyle.Render("not loaded")
	case !applied.Equal(pending):
		line += "  " + styles.PendingStyle.Render("pending · press a to apply")
	}

	if last := m.state.GetLastUpdated(); !last.IsZero() {
		line += styles.HelpStyle.Render("  updated " + humanize.Time(last))
	}

	return styles.FilterBarStyle.Width(max(m.width-2, 20)).Render(line)
}

func (m *Model) renderCounters() string {
	counters := components.SummaryCounters(m.state.Summary())

	width := max((m.width-len(counters)*3)/len(counters), 14)
	cards := make([]string, 0, len(counters))
	for _, c := range counters {
		cards = append(cards, styles.CounterStyle.Width(width).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				styles.CounterLabelStyle.Render(c.Label),
				styles.CounterValueStyle.Render(c.Value),
			),
		))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m *Model) renderCharts() string {
	ids := charts.IDs()
	perRow := 1
	if m.width >= wideLayoutWidth {
		perRow = 2
	}
	cardWidth := max(m.width/perRow-2, 30)
	innerWidth := max(cardWidth-6, 20)

	var rows []string
	for i := 0; i < len(ids); i += perRow {
		var cards []string
		for _, id := range ids[i:min(i+perRow, len(ids))] {
			body := m.state.Charts.Render(id, innerWidth, chartHeight)
			cards = append(cards, styles.CardStyle.Width(cardWidth).Render(body))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return strings.Join(rows, "\n")
}
