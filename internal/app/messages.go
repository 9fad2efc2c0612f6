package app

import (
	"time"

	"github.com/j-veylop/llm-dashboard-tui/internal/api"
	"github.com/j-veylop/llm-dashboard-tui/internal/models"
	"github.com/j-veylop/llm-dashboard-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// FilterInitializedMsg reports that the filter controller finished loading
// server bounds and models. Err is set when it fell back to defaults.
type FilterInitializedMsg struct {
	Err error
}

// ApplyFilterMsg asks the application to load data for the pending filter.
type ApplyFilterMsg struct{}

// ReloadMsg asks the application to load the last applied filter again.
type ReloadMsg struct{}

// LoadStartedMsg is emitted when a new data load begins.
type LoadStartedMsg struct {
	Seq    uint64
	Filter models.Filter
}

// UsageLoadedMsg carries the token-data response of load Seq.
type UsageLoadedMsg struct {
	Seq    uint64
	Filter models.Filter
	Report models.UsageReport
	Err    error
}

// HighCostLoadedMsg carries the high-cost records of load Seq.
type HighCostLoadedMsg struct {
	Seq     uint64
	Filter  models.Filter
	Records []models.HighCostRecord
	Err     error
}

// DataRenderedMsg tells tabs that the state holds new data to display.
type DataRenderedMsg struct {
	Seq uint64
}

// RefreshDebugInfoMsg asks the application to fetch server debug info.
type RefreshDebugInfoMsg struct{}

// DebugInfoLoadedMsg carries the server debug info.
type DebugInfoLoadedMsg struct {
	Info *api.DebugInfo
	Err  error
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}
