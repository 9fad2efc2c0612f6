package charts

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/j-veylop/llm-dashboard-tui/internal/format"
	"github.com/j-veylop/llm-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/llm-dashboard-tui/internal/ui/styles"
)

// Render draws a chart with its title and legend inside width x height cells.
func (r *Registry) Render(id ChartID, width, height int) string {
	c, ok := r.Get(id)
	if !ok {
		return styles.ErrorTextStyle.Render("unknown chart")
	}
	return RenderChart(c, width, height)
}

// RenderChart draws a chart snapshot.
func RenderChart(c Chart, width, height int) string {
	title := styles.CardTitleStyle.Render(c.Title)
	if c.Empty() {
		return lipgloss.JoinVertical(lipgloss.Left, title, styles.HelpStyle.Render(components.NoData))
	}

	series := lo.Map(c.Datasets, func(ds Dataset, _ int) components.Series {
		return components.Series{Name: ds.Label, Values: ds.Values, Color: ds.Color}
	})

	var body string
	switch c.Kind {
	case KindGroupedBar:
		body = components.RenderHBarChart(c.Labels, series, width, format.Compact)
	case KindBar:
		body = components.RenderHBarChart(c.Labels, series, width, valueFormatter(c.ID))
	case KindPie:
		body = components.RenderShareBars(c.Labels, c.Datasets[0].Values,
			[]lipgloss.Color{styles.PromptColor, styles.CompletionColor}, width, format.Number)
	case KindStackedBar:
		body = components.RenderStackedBarChart(c.Labels, series, width, height)
	case KindLine:
		caption := c.Labels[0] + " → " + c.Labels[len(c.Labels)-1]
		body = components.RenderLineChart(series, max(width-10, 10), height, caption)
	}

	parts := []string{title}
	if len(c.Datasets) > 1 || c.Kind == KindStackedBar {
		parts = append(parts, legend(c.Datasets))
	}
	parts = append(parts, body)
	return strings.Join(parts, "\n")
}

func legend(datasets []Dataset) string {
	return components.RenderLegend(lo.Map(datasets, func(ds Dataset, _ int) components.LegendItem {
		return components.LegendItem{Label: ds.Label, Color: ds.Color}
	}))
}

func valueFormatter(id ChartID) components.ValueFormatter {
	switch id {
	case CostByModel:
		return format.Currency
	case CostPer1KByModel:
		return format.CostPer1K
	default:
		return format.Compact
	}
}
