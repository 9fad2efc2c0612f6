// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/llm-dashboard-tui/internal/ui/styles"
)

// NoData is the placeholder drawn for charts without data.
const NoData = "No data available"

// Series is one named sequence of values.
type Series struct {
	Name   string
	Values []float64
	Color  lipgloss.Color
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}

// ValueFormatter renders a value next to a bar.
type ValueFormatter func(float64) string

func noData() string {
	return styles.HelpStyle.Render(NoData)
}

func maxOf(values ...[]float64) float64 {
	m := 0.0
	for _, vs := range values {
		for _, v := range vs {
			if v > m {
				m = v
			}
		}
	}
	return m
}

func sanitize(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[i] = v
		}
	}
	return out
}

// RenderLineChart draws one or more series as an ASCII line chart.
func RenderLineChart(series []Series, width, height int, caption string) string {
	var data [][]float64
	var colors []asciigraph.AnsiColor
	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		data = append(data, sanitize(s.Values))
		colors = append(colors, asciigraphColor(len(colors)))
	}
	if len(data) == 0 {
		return noData()
	}

	// Ensure minimum dimensions
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	// A single point cannot be drawn as a line.
	for i := range data {
		if len(data[i]) == 1 {
			data[i] = append(data[i], data[i][0])
		}
	}

	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
	)
}

func asciigraphColor(i int) asciigraph.AnsiColor {
	palette := []asciigraph.AnsiColor{asciigraph.Blue, asciigraph.Red, asciigraph.Green, asciigraph.Yellow}
	return palette[i%len(palette)]
}

// RenderHBarChart draws labelled horizontal bars. With several series each
// label gets one bar per series, grouped under the label.
func RenderHBarChart(labels []string, series []Series, width int, format ValueFormatter) string {
	if len(labels) == 0 || len(series) == 0 {
		return noData()
	}
	if format == nil {
		format = func(v float64) string { return fmt.Sprintf("%.1f", v) }
	}

	maxVal := 0.0
	for _, s := range series {
		maxVal = math.Max(maxVal, maxOf(sanitize(s.Values)))
	}
	if maxVal == 0 {
		maxVal = 1
	}

	labelWidth := 0
	for _, l := range labels {
		labelWidth = max(labelWidth, lipgloss.Width(l))
	}
	labelWidth = min(labelWidth, 24)

	barWidth := max(width-labelWidth-14, 10)

	labelStyle := lipgloss.NewStyle().Width(labelWidth).Align(lipgloss.Right).Foreground(styles.TextSecondary)
	trackStyle := lipgloss.NewStyle().Foreground(styles.BgLight)

	var lines []string
	for i, label := range labels {
		label = ansi.Truncate(label, labelWidth, "…")
		for j, s := range series {
			v := 0.0
			if i < len(s.Values) {
				v = sanitize(s.Values[i : i+1])[0]
			}
			barLen := int(v / maxVal * float64(barWidth))
			if barLen < 1 && v > 0 {
				barLen = 1
			}
			barLen = max(barLen, 0)

			prefix := strings.Repeat(" ", labelWidth)
			if j == 0 {
				prefix = labelStyle.Render(label)
			}

			bar := lipgloss.NewStyle().Foreground(s.Color).Render(strings.Repeat("█", barLen))
			track := trackStyle.Render(strings.Repeat("░", barWidth-barLen))
			lines = append(lines, fmt.Sprintf("%s │%s%s %s", prefix, bar, track, format(v)))
		}
	}

	return strings.Join(lines, "\n")
}

// RenderStackedBarChart draws vertical bars where each label stacks one value
// per series.
func RenderStackedBarChart(labels []string, series []Series, width, height int) string {
	if len(labels) == 0 || len(series) == 0 {
		return noData()
	}
	if height < 4 {
		height = 4
	}

	totals := make([]float64, len(labels))
	for _, s := range series {
		vals := sanitize(s.Values)
		for i := range totals {
			if i < len(vals) {
				totals[i] += vals[i]
			}
		}
	}
	maxVal := maxOf(totals)
	if maxVal == 0 {
		maxVal = 1
	}

	barWidth := max((width-8)/len(labels)-1, 1)
	barWidth = min(barWidth, 6)

	axisStyle := lipgloss.NewStyle().Foreground(styles.Subtle)
	labelStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
	chart := barchart.New(min(width, len(labels)*(barWidth+1)+2), height,
		barchart.WithStyles(axisStyle, labelStyle),
	)
	chart.SetBarWidth(barWidth)
	chart.SetBarGap(1)
	chart.SetMax(maxVal)

	for i, label := range labels {
		values := make([]barchart.BarValue, 0, len(series))
		for _, s := range series {
			v := 0.0
			if i < len(s.Values) {
				v = sanitize(s.Values[i : i+1])[0]
			}
			values = append(values, barchart.BarValue{
				Name:  s.Name,
				Value: v,
				Style: lipgloss.NewStyle().Foreground(s.Color),
			})
		}
		chart.Push(barchart.BarData{Label: fitLabel(label, barWidth), Values: values})
	}

	chart.Draw()
	return chart.View()
}

// fitLabel keeps the tail of a label, which for dates is the day.
func fitLabel(label string, width int) string {
	if len(label) <= width {
		return label
	}
	return label[len(label)-width:]
}

// RenderShareBars draws each labelled value as a share of the total, the
// terminal rendition of a pie chart.
func RenderShareBars(labels []string, values []float64, colors []lipgloss.Color, width int, format ValueFormatter) string {
	values = sanitize(values)
	total := 0.0
	for _, v := range values {
		total += v
	}
	if len(labels) == 0 || total == 0 {
		return noData()
	}
	if format == nil {
		format = func(v float64) string { return fmt.Sprintf("%.0f", v) }
	}

	labelWidth := 0
	for _, l := range labels {
		labelWidth = max(labelWidth, lipgloss.Width(l))
	}
	barWidth := max(width-labelWidth-22, 10)

	var lines []string
	for i, label := range labels {
		v := 0.0
		if i < len(values) {
			v = values[i]
		}
		share := v / total

		color := styles.Primary
		if i < len(colors) {
			color = colors[i]
		}
		bar := progress.New(
			progress.WithSolidFill(string(color)),
			progress.WithWidth(barWidth),
			progress.WithoutPercentage(),
		)

		name := lipgloss.NewStyle().Width(labelWidth).Foreground(color).Render(label)
		lines = append(lines, fmt.Sprintf("%s %s %5.1f%%  %s",
			name, bar.ViewAs(share), share*100, styles.HelpStyle.Render(format(v))))
	}
	return strings.Join(lines, "\n")
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	var parts []string
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}
