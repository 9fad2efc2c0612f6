// Package services provides service orchestration for the TUI.
package services

import (
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/llm-dashboard-tui/internal/api"
	"github.com/j-veylop/llm-dashboard-tui/internal/config"
	"github.com/j-veylop/llm-dashboard-tui/internal/format"
	"github.com/j-veylop/llm-dashboard-tui/internal/logger"
	"github.com/j-veylop/llm-dashboard-tui/internal/models"
)

type (
	// ConfigChangedEvent is emitted after the .env file was reloaded and the
	// API client rebuilt from it.
	ConfigChangedEvent struct {
		Config *config.Config
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}

	// CostAlertEvent is emitted when a loaded filter exceeds the cost threshold.
	CostAlertEvent struct {
		Filter    models.Filter
		Cost      float64
		Threshold float64
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (ConfigChangedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()         {}
func (CostAlertEvent) isServiceEvent()     {}

// Notifier delivers desktop notifications.
type Notifier func(title, message string) error

func beeepNotify(title, message string) error {
	return beeep.Notify(title, message, "")
}

func beeepAlert(title, message string) error {
	return beeep.Alert(title, message, "")
}

// Option configures a Manager.
type Option func(*Manager)

// WithNotifier replaces the desktop notification backend.
func WithNotifier(notify, alert Notifier) Option {
	return func(m *Manager) {
		if notify != nil {
			m.notify = notify
		}
		if alert != nil {
			m.alert = alert
		}
	}
}

// WithoutWatcher disables live reloading of the .env file.
func WithoutWatcher() Option {
	return func(m *Manager) {
		m.watch = false
	}
}

// Manager owns the API client, the config watcher and notifications.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	client      *api.Client
	watcher     *config.Watcher
	watch       bool
	subscribers []chan ServiceEvent
	alerted     map[string]struct{}
	notify      Notifier
	alert       Notifier
	closeOnce   sync.Once
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config, opts ...Option) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	m := &Manager{
		cfg:     cfg,
		client:  newClient(cfg),
		watch:   true,
		alerted: make(map[string]struct{}),
		notify:  beeepNotify,
		alert:   beeepAlert,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.watch && cfg.EnvFile != "" {
		w, err := config.Watch(cfg.EnvFile, m.applyConfig, func(err error) {
			m.broadcast(ErrorEvent{Service: "config", Error: err})
		})
		if err != nil {
			// Running without live reload is fine.
			logger.Warn("Config watcher disabled", "path", cfg.EnvFile, "error", err)
		} else {
			m.watcher = w
		}
	}

	return m, nil
}

func newClient(cfg *config.Config) *api.Client {
	return api.New(cfg.APIBaseURL, api.WithTimeout(cfg.HTTPTimeout))
}

// applyConfig swaps in a reloaded configuration.
func (m *Manager) applyConfig(cfg *config.Config) {
	m.mu.Lock()
	m.cfg = cfg
	m.client = newClient(cfg)
	m.alerted = make(map[string]struct{})
	m.mu.Unlock()

	logger.Info("Configuration reloaded", "api_url", cfg.APIBaseURL)
	m.broadcast(ConfigChangedEvent{Config: cfg})
}

// Client returns the API client for the current configuration.
func (m *Manager) Client() *api.Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client
}

// Config returns the current configuration.
func (m *Manager) Config() *config.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// Watching reports whether the .env file is being watched.
func (m *Manager) Watching() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.watcher != nil
}

// CheckCostAlert sends a desktop notification the first time a filter's
// total cost exceeds the configured threshold. It reports whether one was sent.
func (m *Manager) CheckCostAlert(f models.Filter, cost float64) bool {
	m.mu.Lock()
	threshold := m.cfg.CostAlertThreshold
	key := f.String()
	_, seen := m.alerted[key]
	if threshold <= 0 || cost <= threshold || seen {
		m.mu.Unlock()
		return false
	}
	m.alerted[key] = struct{}{}
	notify := m.notify
	m.mu.Unlock()

	title := "LLM cost alert"
	body := fmt.Sprintf("%s spent %s (threshold %s)",
		f.String(), format.Currency(cost), format.Currency(threshold))
	if err := notify(title, body); err != nil {
		logger.Warn("Desktop notification failed", "error", err)
	}

	m.broadcast(CostAlertEvent{Filter: f, Cost: cost, Threshold: threshold})
	return true
}

// Alert raises a blocking desktop alert, used when no in-app banner exists.
func (m *Manager) Alert(title, message string) error {
	m.mu.RLock()
	alert := m.alert
	m.mu.RUnlock()
	return alert(title, message)
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel. It yields
// nil once the channel is closed.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Close stops the watcher and closes every subscriber channel.
func (m *Manager) Close() error {
	var err error
	m.closeOnce.Do(func() {
		if m.watcher != nil {
			err = m.watcher.Close()
		}

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()
	})
	return err
}
