// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/j-veylop/llm-dashboard-tui/internal/api"
	"github.com/j-veylop/llm-dashboard-tui/internal/filter"
	"github.com/j-veylop/llm-dashboard-tui/internal/logger"
	"github.com/j-veylop/llm-dashboard-tui/internal/models"
	"github.com/j-veylop/llm-dashboard-tui/internal/ui/charts"
	"github.com/j-veylop/llm-dashboard-tui/internal/ui/tables"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Filter   bool
	Usage    bool
	HighCost bool
	Debug    bool
}

// State is shared between the application model and its tabs. The filter
// controller, chart registry and tables are owned here and handed to the
// tabs explicitly.
type State struct {
	mu sync.RWMutex

	Filter    *filter.Controller
	Charts    *charts.Registry
	Models    *tables.ModelSummary
	HighCosts *tables.HighCost

	report     models.UsageReport
	records    []models.HighCostRecord
	applied    models.Filter
	hasApplied bool
	mismatch   bool

	loadSeq uint64
	loadCtx context.Context
	cancel  context.CancelFunc

	debugInfo *api.DebugInfo
	debugErr  error

	Loading     LoadingState
	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates the shared state around a filter controller.
func NewState(ctrl *filter.Controller) *State {
	if ctrl == nil {
		ctrl = filter.New()
	}
	return &State{
		Filter:        ctrl,
		Charts:        charts.NewRegistry(),
		Models:        tables.NewModelSummary(),
		HighCosts:     tables.NewHighCost(),
		records:       []models.HighCostRecord{},
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Filter: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "filter":
		s.Loading.Filter = loading
	case "usage":
		s.Loading.Usage = loading
	case "highcost":
		s.Loading.HighCost = loading
	case "debug":
		s.Loading.Debug = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Filter ||
		s.Loading.Usage ||
		s.Loading.HighCost ||
		s.Loading.Debug
}

// BeginLoad starts a data load for f. Any load still in flight is cancelled,
// and the summary, charts and tables are cleared so stale numbers are never
// shown while the new load runs. The returned sequence number identifies the
// load; results carrying an older number must be dropped.
func (s *State) BeginLoad(parent context.Context, f models.Filter) (uint64, context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.loadCtx = ctx
	s.loadSeq++

	s.applied = f
	s.hasApplied = true
	s.report = models.UsageReport{}
	s.records = []models.HighCostRecord{}
	s.mismatch = false
	s.Charts.Clear()
	s.Models.Clear()
	s.HighCosts.Clear()

	s.Loading.Usage = true
	s.Loading.HighCost = false

	return s.loadSeq, ctx
}

// IsCurrent reports whether seq identifies the most recent load.
func (s *State) IsCurrent(seq uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return seq == s.loadSeq
}

// LoadContext returns the context of load seq while it is current.
func (s *State) LoadContext(seq uint64) (context.Context, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if seq != s.loadSeq || s.loadCtx == nil {
		return nil, false
	}
	return s.loadCtx, true
}

// CurrentSeq returns the sequence number of the most recent load.
func (s *State) CurrentSeq() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadSeq
}

// ApplyUsage renders a usage report for load seq. Stale results are ignored
// and false is returned.
func (s *State) ApplyUsage(seq uint64, report models.UsageReport) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.loadSeq {
		return false
	}

	reconciled, mismatch := models.Reconcile(report)
	if mismatch {
		logger.Warn("Server totals disagree with per-model rows",
			"server_total", report.Summary.TotalTokens,
			"rows_total", reconciled.Summary.TotalTokens)
	}

	s.report = reconciled
	s.mismatch = mismatch
	if err := s.Charts.Populate(reconciled); err != nil {
		logger.Error("Failed to populate charts", "error", err)
	}
	s.Models.Rebuild(reconciled.Models)

	s.Loading.Usage = false
	s.Loading.HighCost = true
	s.LastUpdated = time.Now()
	return true
}

// ApplyHighCost renders the high-cost records for load seq and completes it.
func (s *State) ApplyHighCost(seq uint64, records []models.HighCostRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.loadSeq {
		return false
	}

	s.records = append([]models.HighCostRecord{}, records...)
	s.HighCosts.Rebuild(s.records)
	s.finishLocked()
	return true
}

// FailLoad ends load seq without touching what is already rendered.
func (s *State) FailLoad(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.loadSeq {
		return false
	}
	s.finishLocked()
	return true
}

func (s *State) finishLocked() {
	s.Loading.Usage = false
	s.Loading.HighCost = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.loadCtx = nil
}

// CancelLoad aborts any load in flight.
func (s *State) CancelLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadSeq++
	s.finishLocked()
}

// Summary returns the rendered summary counters.
func (s *State) Summary() models.UsageSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report.Summary
}

// Report returns the rendered usage report.
func (s *State) Report() models.UsageReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// Records returns a copy of the rendered high-cost records.
func (s *State) Records() []models.HighCostRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.HighCostRecord{}, s.records...)
}

// Applied returns the filter of the most recent load, if any.
func (s *State) Applied() (models.Filter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.applied, s.hasApplied
}

// TotalsMismatch reports whether the server's token totals for the current
// report disagreed with its per-model rows.
func (s *State) TotalsMismatch() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mismatch
}

// SetDebugInfo stores the result of the last debug-info fetch.
func (s *State) SetDebugInfo(info *api.DebugInfo, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debugInfo = info
	s.debugErr = err
	s.Loading.Debug = false
}

// DebugInfo returns the last fetched debug info and error.
func (s *State) DebugInfo() (*api.DebugInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.debugInfo, s.debugErr
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	notification := Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.notifications = append(s.notifications, notification)

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}

	return active
}

// DismissNotifications removes every notification except the loading one.
func (s *State) DismissNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]Notification, 0, 1)
	for _, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			kept = append(kept, n)
		}
	}
	s.notifications = kept
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  0,
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// GetLastUpdated returns the last time the state was updated.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}
