package info

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/llm-dashboard-tui/internal/format"
	"github.com/j-veylop/llm-dashboard-tui/internal/ui/styles"
	"github.com/j-veylop/llm-dashboard-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderDebugCard(),
		m.renderAboutCard(),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration, backend diagnostics and build information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 90)
}

func (m *Model) renderConfigCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"))

	cfg := m.config()
	if cfg == nil {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	} else {
		alert := "disabled"
		if cfg.CostAlertThreshold > 0 {
			alert = format.Currency(cfg.CostAlertThreshold)
		}
		envFile := cfg.EnvFile
		if envFile == "" {
			envFile = "(environment only)"
		}
		rows = append(rows,
			m.renderRow("API URL", cfg.APIBaseURL),
			m.renderRow("HTTP Timeout", cfg.HTTPTimeout.String()),
			m.renderRow("Default Range", fmt.Sprintf("%d days", cfg.DefaultRangeDays)),
			m.renderRow("Error Toasts", cfg.NotificationDuration.String()),
			m.renderRow("Cost Alert", alert),
			m.renderRow("Log Level", cfg.LogLevel),
			m.renderRow("Log File", cfg.LogFile),
			m.renderRow("Env File", envFile),
		)
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderDebugCard shows what the backend reports about its data store.
func (m *Model) renderDebugCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Backend"))

	info, err := m.state.DebugInfo()
	switch {
	case m.state.Loading.Debug:
		rows = append(rows, styles.HelpStyle.Render("Fetching debug info..."))
	case err != nil:
		rows = append(rows, styles.ErrorTextStyle.Render(err.Error()))
	case info == nil:
		rows = append(rows, styles.HelpStyle.Render("No debug info yet"))
	default:
		exists := styles.ErrorTextStyle.Render("missing")
		if info.DBExists {
			exists = styles.SuccessTextStyle.Render("present")
		}
		rows = append(rows,
			m.renderRow("Database", info.DBPath),
			m.renderRow("Database File", exists),
			m.renderRow("Tables", strings.Join(info.Tables, ", ")),
			m.renderRow("Records", format.Int(info.ChunkRecordCount)),
			m.renderRow("Date Span", info.ChunkMinDate+" → "+info.ChunkMaxDate),
		)
		if len(info.SampleDates) > 0 {
			rows = append(rows, m.renderRow("Sample Dates", strings.Join(info.SampleDates, ", ")))
		}
		for _, dt := range info.DateParsingTests {
			mark := styles.SuccessTextStyle.Render("✓")
			if !dt.Success {
				mark = styles.ErrorTextStyle.Render("✗")
			}
			rows = append(rows, fmt.Sprintf("  %s %s → %s", mark, dt.Original, dt.Parsed))
		}
	}

	rows = append(rows, "", styles.HelpStyle.Render("Press 'r' to refetch"))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(16).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func (m *Model) renderAboutCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("About "+version.AppName))

	rows = append(rows,
		m.renderRow("Version", version.GetVersion()),
		m.renderRow("Build Date", version.GetDate()),
		m.renderRow("Git Commit", version.GetCommit()),
		m.renderRow("Go Version", runtime.Version()),
		m.renderRow("Platform", version.Platform()),
	)

	if last := m.state.GetLastUpdated(); !last.IsZero() {
		rows = append(rows, "", fmt.Sprintf("Last load: %s",
			styles.InfoTextStyle.Render(last.Format("2006-01-02 15:04:05"))))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
