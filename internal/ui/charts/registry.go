// Package charts owns the dashboard's chart instances and the data bound to them.
package charts

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// ChartID addresses one chart in the registry.
type ChartID int

const (
	// TokensByModel is a grouped bar of prompt and completion tokens per model.
	TokensByModel ChartID = iota
	// CostByModel is a bar of total cost per model.
	CostByModel
	// TokenDistribution splits all tokens into prompt and completion shares.
	TokenDistribution
	// CostPer1KByModel is a bar of cost per thousand tokens per model.
	CostPer1KByModel
	// DailyTokens stacks prompt and completion tokens per day.
	DailyTokens
	// DailyCost is a line of total cost per day.
	DailyCost
	// DailyRequests is a line of request count per day.
	DailyRequests

	chartCount
)

// IDs lists every chart in display order.
func IDs() []ChartID {
	ids := make([]ChartID, 0, chartCount)
	for id := ChartID(0); id < chartCount; id++ {
		ids = append(ids, id)
	}
	return ids
}

func (id ChartID) valid() bool {
	return id >= 0 && id < chartCount
}

// Kind is the visual form of a chart.
type Kind int

const (
	KindGroupedBar Kind = iota
	KindBar
	KindPie
	KindStackedBar
	KindLine
)

func (k Kind) String() string {
	switch k {
	case KindGroupedBar:
		return "grouped-bar"
	case KindBar:
		return "bar"
	case KindPie:
		return "pie"
	case KindStackedBar:
		return "stacked-bar"
	case KindLine:
		return "line"
	default:
		return "unknown"
	}
}

// Dataset is one named value sequence aligned with a chart's labels.
type Dataset struct {
	Label  string
	Values []float64
	Color  lipgloss.Color
}

// Chart is a snapshot of one chart's definition and data.
type Chart struct {
	ID       ChartID
	Title    string
	Kind     Kind
	Labels   []string
	Datasets []Dataset
}

// Empty reports whether the chart has nothing to draw.
func (c Chart) Empty() bool {
	return len(c.Labels) == 0 || len(c.Datasets) == 0
}

var definitions = [chartCount]struct {
	title string
	kind  Kind
}{
	TokensByModel:     {"Token Usage by Model", KindGroupedBar},
	CostByModel:       {"Cost by Model", KindBar},
	TokenDistribution: {"Token Distribution", KindPie},
	CostPer1KByModel:  {"Cost per 1K Tokens", KindBar},
	DailyTokens:       {"Daily Token Usage", KindStackedBar},
	DailyCost:         {"Daily Cost", KindLine},
	DailyRequests:     {"Daily Requests", KindLine},
}

// Title returns the chart's display title.
func (id ChartID) Title() string {
	if !id.valid() {
		return fmt.Sprintf("chart(%d)", int(id))
	}
	return definitions[id].title
}

// Registry holds the seven dashboard charts. Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	charts [chartCount]Chart
}

// NewRegistry creates a registry with every chart empty.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Clear()
	return r
}

// Replace swaps a chart's labels and datasets in one step. Every dataset
// must carry exactly one value per label.
func (r *Registry) Replace(id ChartID, labels []string, datasets []Dataset) error {
	if !id.valid() {
		return fmt.Errorf("unknown chart %d", int(id))
	}
	for _, ds := range datasets {
		if len(ds.Values) != len(labels) {
			return fmt.Errorf("%s: dataset %q has %d values for %d labels",
				id.Title(), ds.Label, len(ds.Values), len(labels))
		}
	}

	next := Chart{
		ID:       id,
		Title:    definitions[id].title,
		Kind:     definitions[id].kind,
		Labels:   append([]string{}, labels...),
		Datasets: make([]Dataset, 0, len(datasets)),
	}
	// No labels means no data; keep the chart fully empty.
	if len(labels) > 0 {
		for _, ds := range datasets {
			ds.Values = append([]float64{}, ds.Values...)
			next.Datasets = append(next.Datasets, ds)
		}
	}

	r.mu.Lock()
	r.charts[id] = next
	r.mu.Unlock()
	return nil
}

// Clear empties every chart.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := ChartID(0); id < chartCount; id++ {
		r.charts[id] = Chart{
			ID:       id,
			Title:    definitions[id].title,
			Kind:     definitions[id].kind,
			Labels:   []string{},
			Datasets: []Dataset{},
		}
	}
}

// Get returns a copy of the chart.
func (r *Registry) Get(id ChartID) (Chart, bool) {
	if !id.valid() {
		return Chart{}, false
	}
	r.mu.RLock()
	c := r.charts[id]
	r.mu.RUnlock()

	out := c
	out.Labels = append([]string{}, c.Labels...)
	out.Datasets = make([]Dataset, len(c.Datasets))
	for i, ds := range c.Datasets {
		ds.Values = append([]float64{}, ds.Values...)
		out.Datasets[i] = ds
	}
	return out, true
}
