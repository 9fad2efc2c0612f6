package charts

import (
	"errors"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/j-veylop/llm-dashboard-tui/internal/format"
	"github.com/j-veylop/llm-dashboard-tui/internal/models"
	"github.com/j-veylop/llm-dashboard-tui/internal/ui/styles"
)

// Dataset labels shared by the token charts.
const (
	PromptLabel     = "Prompt Tokens"
	CompletionLabel = "Completion Tokens"
)

// Populate maps a usage report onto all seven charts. A report without model
// rows leaves every chart empty, daily rows included.
func (r *Registry) Populate(report models.UsageReport) error {
	if report.IsEmpty() {
		report = models.UsageReport{}
	}
	modelLabels := lo.Map(report.Models, func(row models.ModelUsageRow, _ int) string {
		return format.ModelLabel(row.Model)
	})
	modelSeries := func(label string, color lipgloss.Color, pick func(models.ModelUsageRow) float64) []Dataset {
		if len(report.Models) == 0 {
			return nil
		}
		return []Dataset{{
			Label: label,
			Color: color,
			Values: lo.Map(report.Models, func(row models.ModelUsageRow, _ int) float64 {
				return pick(row)
			}),
		}}
	}

	dayLabels := lo.Map(report.Daily, func(row models.DailyUsageRow, _ int) string {
		return models.FormatDate(row.Date)
	})
	daySeries := func(label string, color lipgloss.Color, pick func(models.DailyUsageRow) float64) []Dataset {
		if len(report.Daily) == 0 {
			return nil
		}
		return []Dataset{{
			Label: label,
			Color: color,
			Values: lo.Map(report.Daily, func(row models.DailyUsageRow, _ int) float64 {
				return pick(row)
			}),
		}}
	}

	tokensByModel := append(
		modelSeries(PromptLabel, styles.PromptColor, func(m models.ModelUsageRow) float64 { return float64(m.PromptTokens) }),
		modelSeries(CompletionLabel, styles.CompletionColor, func(m models.ModelUsageRow) float64 { return float64(m.CompletionTokens) })...,
	)
	dailyTokens := append(
		daySeries(PromptLabel, styles.PromptColor, func(d models.DailyUsageRow) float64 { return float64(d.PromptTokens) }),
		daySeries(CompletionLabel, styles.CompletionColor, func(d models.DailyUsageRow) float64 { return float64(d.CompletionTokens) })...,
	)

	var distLabels []string
	var distribution []Dataset
	if len(report.Models) > 0 {
		distLabels = []string{PromptLabel, CompletionLabel}
		distribution = []Dataset{{
			Label:  "Tokens",
			Values: []float64{float64(report.Summary.TotalPromptTokens), float64(report.Summary.TotalCompletionTokens)},
		}}
	}

	return errors.Join(
		r.Replace(TokensByModel, modelLabels, tokensByModel),
		r.Replace(CostByModel, modelLabels, modelSeries("Total Cost ($)", styles.CostColor,
			func(m models.ModelUsageRow) float64 { return m.TotalCost })),
		r.Replace(TokenDistribution, distLabels, distribution),
		r.Replace(CostPer1KByModel, modelLabels, modelSeries("Cost per 1K Tokens ($)", styles.RateColor,
			func(m models.ModelUsageRow) float64 { return m.CostPer1KTokens })),
		r.Replace(DailyTokens, dayLabels, dailyTokens),
		r.Replace(DailyCost, dayLabels, daySeries("Total Cost ($)", styles.CostColor,
			func(d models.DailyUsageRow) float64 { return d.TotalCost })),
		r.Replace(DailyRequests, dayLabels, daySeries("Number of Requests", styles.RequestsColor,
			func(d models.DailyUsageRow) float64 { return float64(d.Requests) })),
	)
}
