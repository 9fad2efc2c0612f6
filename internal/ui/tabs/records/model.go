// Package records provides the tab holding the per-model summary table and
// the high-cost record table.
package records

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/llm-dashboard-tui/internal/app"
	"github.com/j-veylop/llm-dashboard-tui/internal/ui/styles"
)

type pane int

const (
	paneModels pane = iota
	paneHighCost
)

// chrome is the vertical space taken by both card borders and titles.
const chrome = 10

type keyMap struct {
	SwitchFocus key.Binding
	Up          key.Binding
	Down        key.Binding
	Top         key.Binding
	Bottom      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		SwitchFocus: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch table"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first row"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last row"),
		),
	}
}

// Model represents the records tab state.
type Model struct {
	state  *app.State
	keys   keyMap
	focus  pane
	width  int
	height int
}

// New creates a records tab with the model summary focused.
func New(state *app.State) *Model {
	m := &Model{
		state: state,
		keys:  defaultKeyMap(),
	}
	m.setFocus(paneModels)
	return m
}

// Init initializes the tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the records tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if key.Matches(keyMsg, m.keys.SwitchFocus) {
		m.setFocus(1 - m.focus)
		return m, nil
	}

	if m.focus == paneModels {
		return m, m.state.Models.Update(keyMsg)
	}
	return m, m.state.HighCosts.Update(keyMsg)
}

func (m *Model) setFocus(p pane) {
	m.focus = p
	if p == paneModels {
		m.state.Models.Focus()
		m.state.HighCosts.Blur()
	} else {
		m.state.HighCosts.Focus()
		m.state.Models.Blur()
	}
}

// SetSize splits the available height between both tables.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	inner := max(width-6, 40)
	tableHeight := max((height-chrome)/2, 3)
	m.state.Models.SetSize(inner, tableHeight)
	m.state.HighCosts.SetSize(inner, tableHeight)
}

// View renders both tables, highlighting the focused one.
func (m *Model) View() string {
	models := m.renderCard(
		fmt.Sprintf("Model Summary (%d)", m.state.Models.Len()),
		m.state.Models.View(),
		m.focus == paneModels,
	)
	highCost := m.renderCard(
		fmt.Sprintf("High-Cost Records (%d)", m.state.HighCosts.Len()),
		m.state.HighCosts.View(),
		m.focus == paneHighCost,
	)
	return lipgloss.JoinVertical(lipgloss.Left, models, highCost)
}

func (m *Model) renderCard(title, body string, focused bool) string {
	border := styles.BlurredBorderStyle
	if focused {
		border = styles.FocusedBorderStyle
	}
	return border.Width(max(m.width-4, 40)).Render(
		lipgloss.JoinVertical(lipgloss.Left, styles.CardTitleStyle.Render(title), body),
	)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.SwitchFocus, m.keys.Up, m.keys.Down}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.SwitchFocus},
		{m.keys.Up, m.keys.Down, m.keys.Top, m.keys.Bottom},
	}
}
