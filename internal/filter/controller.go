// Package filter holds the pending date range and model selection for the
// dashboard and turns them into immutable filters on apply.
package filter

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/j-veylop/llm-dashboard-tui/internal/logger"
	"github.com/j-veylop/llm-dashboard-tui/internal/models"
)

// FallbackDays is the window used when the server bounds cannot be loaded.
const FallbackDays = 7

// ErrUninitialized is returned by Apply before Initialize has run.
var ErrUninitialized = errors.New("filter controller is not initialized")

// State is the controller lifecycle.
type State int

const (
	Uninitialized State = iota
	Ready
)

func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "uninitialized"
}

// Source provides the server-side options the controller starts from.
// *api.Client satisfies it.
type Source interface {
	FetchDateRange(ctx context.Context) (models.DateBounds, error)
	FetchModelList(ctx context.Context) ([]string, error)
}

// Controller tracks the user's pending filter edits. Edits never touch the
// network; Apply hands a snapshot to the caller to load.
type Controller struct {
	mu sync.RWMutex

	state       State
	bounds      models.DateBounds
	modelList   []string
	pending     models.Filter
	preset      models.Preset
	defaultDays int
	now         func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the controller's notion of today.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithDefaultDays sets the length of the initial range.
func WithDefaultDays(days int) Option {
	return func(c *Controller) {
		if days > 0 {
			c.defaultDays = days
		}
	}
}

// New creates an uninitialized controller.
func New(opts ...Option) *Controller {
	c := &Controller{
		defaultDays: FallbackDays,
		now:         time.Now,
		modelList:   []string{},
		pending:     models.Filter{Model: models.AllModels},
		preset:      models.PresetCustom,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize loads bounds and models concurrently and sets the default
// selection. On failure it falls back to the last seven days ending today
// with only "all" selectable; the controller is Ready either way and the
// error is returned for display.
func (c *Controller) Initialize(ctx context.Context, src Source) error {
	var bounds models.DateBounds
	var list []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bounds, err = src.FetchDateRange(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		list, err = src.FetchModelList(gctx)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = Ready
	c.preset = models.PresetCustom
	c.pending.Model = models.AllModels

	if err != nil {
		logger.Warn("Filter initialization failed, using defaults", "error", err)
		c.bounds = models.DateBounds{}
		c.modelList = []string{}
		c.pending.Range = models.LastNDays(c.now(), FallbackDays)
		return fmt.Errorf("failed to load filter options: %w", err)
	}

	c.bounds = bounds
	c.modelList = dedupe(list)
	c.pending.Range = models.LastNDays(bounds.Max, c.defaultDays).Clamp(bounds)
	logger.Info("Filter initialized",
		"range", c.pending.Range.String(),
		"models", len(c.modelList))
	return nil
}

func dedupe(list []string) []string {
	out := make([]string, 0, len(list))
	for _, m := range list {
		if m == "" || m == string(models.AllModels) || slices.Contains(out, m) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Pending returns the current, not yet applied, selection.
func (c *Controller) Pending() models.Filter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pending
}

// Preset returns the preset the pending range came from, or PresetCustom.
func (c *Controller) Preset() models.Preset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.preset
}

// Bounds returns the server's available date window; zero when unknown.
func (c *Controller) Bounds() models.DateBounds {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bounds
}

// Models returns the selectable model filters with "all" first.
func (c *Controller) Models() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.modelList)+1)
	out = append(out, string(models.AllModels))
	return append(out, c.modelList...)
}

// SetRange replaces the pending range, clamped to the server bounds.
func (c *Controller) SetRange(r models.DateRange) error {
	r = models.NewDateRange(r.Start, r.End)
	if !r.Valid() {
		return fmt.Errorf("start date %s is after end date %s",
			models.FormatDate(r.Start), models.FormatDate(r.End))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Ready {
		return ErrUninitialized
	}
	c.pending.Range = r.Clamp(c.bounds)
	c.preset = models.PresetCustom
	return nil
}

// SetPreset resolves a named range against today and selects it.
func (c *Controller) SetPreset(p models.Preset) error {
	if p == models.PresetCustom {
		return fmt.Errorf("custom is not a selectable preset")
	}
	if err := c.SetRange(p.Resolve(c.now())); err != nil {
		return err
	}
	c.mu.Lock()
	c.preset = p
	c.mu.Unlock()
	return nil
}

// CyclePreset selects the preset after the current one.
func (c *Controller) CyclePreset() (models.Preset, error) {
	next := c.Preset().Next()
	return next, c.SetPreset(next)
}

// SetModel selects "all" or one of the server-provided models.
func (c *Controller) SetModel(m models.ModelFilter) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Ready {
		return ErrUninitialized
	}
	if !m.IsAll() && !slices.Contains(c.modelList, string(m)) {
		return fmt.Errorf("unknown model %q", string(m))
	}
	if m.IsAll() {
		m = models.AllModels
	}
	c.pending.Model = m
	return nil
}

// CycleModel selects the next entry of Models, wrapping to "all".
func (c *Controller) CycleModel() (models.ModelFilter, error) {
	options := c.Models()
	current := c.Pending().Model.String()
	idx := slices.Index(options, current)
	next := models.ModelFilter(options[(idx+1)%len(options)])
	return next, c.SetModel(next)
}

// Apply returns the pending selection as the filter to load.
func (c *Controller) Apply() (models.Filter, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != Ready {
		return models.Filter{}, ErrUninitialized
	}
	return c.pending, nil
}
