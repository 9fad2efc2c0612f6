package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/j-veylop/llm-dashboard-tui/internal/api"
	"github.com/j-veylop/llm-dashboard-tui/internal/filter"
	"github.com/j-veylop/llm-dashboard-tui/internal/logger"
	"github.com/j-veylop/llm-dashboard-tui/internal/models"
	"github.com/j-veylop/llm-dashboard-tui/internal/services"
	"github.com/j-veylop/llm-dashboard-tui/internal/ui/charts"
	"github.com/j-veylop/llm-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/llm-dashboard-tui/internal/ui/styles"
	"github.com/j-veylop/llm-dashboard-tui/internal/ui/tables"
)

const alertTitle = "LLM Usage Dashboard"

// usageSource is the part of the API client the summary needs.
type usageSource interface {
	filter.Source
	FetchUsage(ctx context.Context, f models.Filter) (models.UsageReport, error)
	FetchHighCostRecords(ctx context.Context, f models.Filter) ([]models.HighCostRecord, error)
}

type summaryOptions struct {
	start       string
	end         string
	model       string
	width       int
	alert       bool
	defaultDays int
	now         func() time.Time
}

func newSummaryCommand(envFile *string) *cobra.Command {
	opts := summaryOptions{width: 100}

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Load usage once and print counters, charts and tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*envFile)
			if err != nil {
				return err
			}
			logger.SetOutput(io.Discard, cfg.LogLevel)

			mgr, err := services.NewManager(cfg, services.WithoutWatcher())
			if err != nil {
				return err
			}
			defer mgr.Close()

			opts.defaultDays = cfg.DefaultRangeDays
			f, report, err := runSummary(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), mgr.Client(), opts)
			if err != nil {
				if opts.alert {
					if alertErr := mgr.Alert(alertTitle, api.UserMessage(err)); alertErr != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "Warning: desktop alert failed: %v\n", alertErr)
					}
				}
				return err
			}
			mgr.CheckCostAlert(f, report.Summary.TotalCost)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.start, "start", "", "first day to include (YYYY-MM-DD)")
	flags.StringVar(&opts.end, "end", "", "last day to include (YYYY-MM-DD)")
	flags.StringVar(&opts.model, "model", "", "restrict to one model (default all)")
	flags.IntVar(&opts.width, "width", opts.width, "output width in columns")
	flags.BoolVar(&opts.alert, "alert", false, "raise a desktop alert when loading fails")
	return cmd
}

// runSummary performs initialize, load and high-cost fetch once and writes the
// rendered result to out. Filter initialization failures are reported to
// errOut and the defaults are used, matching the interactive dashboard.
func runSummary(ctx context.Context, out, errOut io.Writer, src usageSource, opts summaryOptions) (models.Filter, models.UsageReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	ctrlOpts := []filter.Option{filter.WithDefaultDays(opts.defaultDays)}
	if opts.now != nil {
		ctrlOpts = append(ctrlOpts, filter.WithClock(opts.now))
	}
	ctrl := filter.New(ctrlOpts...)
	if err := ctrl.Initialize(ctx, src); err != nil {
		fmt.Fprintf(errOut, "Failed to load date range. Using default values. %s\n", api.UserMessage(err))
	}

	f, err := applyFlags(ctrl, opts)
	if err != nil {
		return models.Filter{}, models.UsageReport{}, err
	}

	report, err := src.FetchUsage(ctx, f)
	if err != nil {
		return f, models.UsageReport{}, err
	}
	report, _ = models.Reconcile(report)

	records, err := src.FetchHighCostRecords(ctx, f)
	if err != nil {
		return f, report, err
	}

	registry := charts.NewRegistry()
	if err := registry.Populate(report); err != nil {
		return f, report, err
	}

	width := max(opts.width, 40)
	writeSummary(out, f, report, records, registry, width)
	return f, report, nil
}

func applyFlags(ctrl *filter.Controller, opts summaryOptions) (models.Filter, error) {
	if opts.start != "" || opts.end != "" {
		r := ctrl.Pending().Range
		if opts.start != "" {
			d, err := models.ParseDate(opts.start)
			if err != nil {
				return models.Filter{}, err
			}
			r.Start = d
		}
		if opts.end != "" {
			d, err := models.ParseDate(opts.end)
			if err != nil {
				return models.Filter{}, err
			}
			r.End = d
		}
		if err := ctrl.SetRange(r); err != nil {
			return models.Filter{}, err
		}
	}
	if opts.model != "" {
		if err := ctrl.SetModel(models.ModelFilter(opts.model)); err != nil {
			return models.Filter{}, err
		}
	}
	return ctrl.Apply()
}

func writeSummary(out io.Writer, f models.Filter, report models.UsageReport, records []models.HighCostRecord, registry *charts.Registry, width int) {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("LLM Usage · " + f.String()))
	b.WriteString("\n")

	var counters []string
	for _, c := range components.SummaryCounters(report.Summary) {
		counters = append(counters, styles.CounterLabelStyle.Render(c.Label+": ")+styles.CounterValueStyle.Render(c.Value))
	}
	b.WriteString(strings.Join(counters, "   "))
	b.WriteString("\n\n")

	for _, id := range charts.IDs() {
		b.WriteString(registry.Render(id, width, 10))
		b.WriteString("\n\n")
	}

	summary := tables.NewModelSummary()
	summary.Rebuild(report.Models)
	b.WriteString(renderTable("Model Summary", summary.Headers(), summary.Rows()))
	b.WriteString("\n\n")

	highCost := tables.NewHighCost()
	highCost.Rebuild(records)
	b.WriteString(renderTable("High-Cost Records", highCost.Headers(), highCost.Rows()))
	b.WriteString("\n")

	fmt.Fprint(out, b.String())
}

func renderTable(title string, headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Subtle)).
		Headers(headers...).
		Rows(rows...)

	body := t.String()
	if len(rows) == 0 {
		body += "\n" + styles.HelpStyle.Render("No records")
	}
	return styles.CardTitleStyle.Render(title) + "\n" + body
}
