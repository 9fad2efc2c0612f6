package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/llm-dashboard-tui/internal/api"
	"github.com/j-veylop/llm-dashboard-tui/internal/filter"
	"github.com/j-veylop/llm-dashboard-tui/internal/models"
	"github.com/j-veylop/llm-dashboard-tui/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second
)

// DataSource is everything the dashboard reads from the backend.
// *api.Client satisfies it.
type DataSource interface {
	filter.Source
	FetchUsage(ctx context.Context, f models.Filter) (models.UsageReport, error)
	FetchHighCostRecords(ctx context.Context, f models.Filter) ([]models.HighCostRecord, error)
	FetchDebugInfo(ctx context.Context) (api.DebugInfo, error)
}

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// initFilterCmd loads the server's date bounds and model list into ctrl.
func initFilterCmd(ctrl *filter.Controller, src DataSource) tea.Cmd {
	return func() tea.Msg {
		err := ctrl.Initialize(context.Background(), src)
		return FilterInitializedMsg{Err: err}
	}
}

// loadUsageCmd fetches the token data for one load.
func loadUsageCmd(ctx context.Context, src DataSource, seq uint64, f models.Filter) tea.Cmd {
	return func() tea.Msg {
		report, err := src.FetchUsage(ctx, f)
		return UsageLoadedMsg{Seq: seq, Filter: f, Report: report, Err: err}
	}
}

// loadHighCostCmd fetches the high-cost records for one load.
func loadHighCostCmd(ctx context.Context, src DataSource, seq uint64, f models.Filter) tea.Cmd {
	return func() tea.Msg {
		records, err := src.FetchHighCostRecords(ctx, f)
		return HighCostLoadedMsg{Seq: seq, Filter: f, Records: records, Err: err}
	}
}

// loadDebugInfoCmd fetches the server's diagnostic report.
func loadDebugInfoCmd(src DataSource) tea.Cmd {
	return func() tea.Msg {
		info, err := src.FetchDebugInfo(context.Background())
		if err != nil {
			return DebugInfoLoadedMsg{Err: err}
		}
		return DebugInfoLoadedMsg{Info: &info}
	}
}

// dataRenderedCmd tells the tabs to refresh their views.
func dataRenderedCmd(seq uint64) tea.Cmd {
	return func() tea.Msg {
		return DataRenderedMsg{Seq: seq}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

func notifyCmd(t NotificationType, message string, d time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     t,
			Message:  message,
			Duration: d,
		}
	}
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string, d time.Duration) tea.Cmd {
	return notifyCmd(NotificationError, message, d)
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return notifyCmd(NotificationWarning, message, DefaultNotificationDuration)
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return notifyCmd(NotificationInfo, message, QuickNotificationDuration)
}

// Commands provides a public interface to the command functions for tabs.
type Commands struct {
	errorDuration time.Duration
}

// NewCommands creates a new Commands instance. Error toasts stay up for
// errorDuration, or LongNotificationDuration when it is not positive.
func NewCommands(errorDuration time.Duration) *Commands {
	if errorDuration <= 0 {
		errorDuration = LongNotificationDuration
	}
	return &Commands{errorDuration: errorDuration}
}

// ApplyFilter returns a command that loads the pending filter.
func (c *Commands) ApplyFilter() tea.Cmd {
	return func() tea.Msg { return ApplyFilterMsg{} }
}

// Reload returns a command that reloads the applied filter.
func (c *Commands) Reload() tea.Cmd {
	return func() tea.Msg { return ReloadMsg{} }
}

// RefreshDebugInfo returns a command that refetches server debug info.
func (c *Commands) RefreshDebugInfo() tea.Cmd {
	return func() tea.Msg { return RefreshDebugInfoMsg{} }
}

// NotifyError returns a command that adds an error notification.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message, c.errorDuration)
}
