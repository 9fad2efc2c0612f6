// Package dashboard provides the main dashboard tab: the filter bar, summary
// counters and the seven usage charts.
package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/llm-dashboard-tui/internal/api"
	"github.com/j-veylop/llm-dashboard-tui/internal/app"
	"github.com/j-veylop/llm-dashboard-tui/internal/ui/components"
)

// keyMap defines the key bindings specific to the dashboard tab.
type keyMap struct {
	OpenFilter  key.Binding
	CyclePreset key.Binding
	CycleModel  key.Binding
	Apply       key.Binding
	ScrollDown  key.Binding
	ScrollUp    key.Binding
	Top         key.Binding
	Bottom      key.Binding
}

// defaultKeyMap returns the default key bindings for the dashboard tab.
func defaultKeyMap() keyMap {
	return keyMap{
		OpenFilter: key.NewBinding(
			key.WithKeys("f", "/"),
			key.WithHelp("f", "edit filter"),
		),
		CyclePreset: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "next preset"),
		),
		CycleModel: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "next model"),
		),
		Apply: key.NewBinding(
			key.WithKeys("a", "enter"),
			key.WithHelp("a/enter", "apply filter"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("j", "down", "pgdown"),
			key.WithHelp("j", "scroll down"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("k", "up", "pgup"),
			key.WithHelp("k", "scroll up"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
	}
}

// Model represents the dashboard tab state.
type Model struct {
	state    *app.State
	commands *app.Commands
	keys     keyMap
	spinner  components.LoadingSpinner
	viewport viewport.Model
	form     *FilterForm
	width    int
	height   int
}

// New creates a new dashboard model.
func New(state *app.State, cmds *app.Commands) *Model {
	if cmds == nil {
		cmds = app.NewCommands(0)
	}
	return &Model{
		state:    state,
		commands: cmds,
		keys:     defaultKeyMap(),
		spinner:  components.NewSpinner("Loading filters..."),
		viewport: viewport.New(0, 0),
	}
}

// Init starts the spinner.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick()
}

// CapturingInput reports whether the filter form owns the keyboard.
func (m *Model) CapturingInput() bool {
	return m.form != nil
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	if m.form != nil {
		if _, isTick := msg.(spinner.TickMsg); !isTick {
			return m, m.updateForm(msg)
		}
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.LoadStartedMsg, app.DataRenderedMsg, app.FilterInitializedMsg:
		m.refresh()
		if _, started := msg.(app.LoadStartedMsg); started {
			m.viewport.GotoTop()
		}

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	cmd := m.form.Update(msg)
	if !m.form.Completed {
		return cmd
	}

	form := m.form
	m.form = nil
	m.refresh()

	switch {
	case form.Cancelled:
		return nil
	case form.Err != nil:
		return m.commands.NotifyError(api.UserMessage(form.Err))
	default:
		return m.commands.ApplyFilter()
	}
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.OpenFilter):
		return m.openForm()

	case key.Matches(msg, m.keys.CyclePreset):
		if _, err := m.state.Filter.CyclePreset(); err != nil {
			return m.commands.NotifyError(err.Error())
		}
		m.refresh()

	case key.Matches(msg, m.keys.CycleModel):
		if _, err := m.state.Filter.CycleModel(); err != nil {
			return m.commands.NotifyError(err.Error())
		}
		m.refresh()

	case key.Matches(msg, m.keys.Apply):
		return m.commands.ApplyFilter()

	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()

	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()

	case key.Matches(msg, m.keys.ScrollDown, m.keys.ScrollUp):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) openForm() tea.Cmd {
	if m.state.Loading.Filter {
		return nil
	}
	m.form = NewFilterForm(m.state.Filter)
	return m.form.Init()
}

// SetSize sets the available size for the dashboard.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-filterBarHeight, 0)
	m.refresh()
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.OpenFilter,
		m.keys.CyclePreset,
		m.keys.CycleModel,
		m.keys.Apply,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.OpenFilter, m.keys.Apply},
		{m.keys.CyclePreset, m.keys.CycleModel},
		{m.keys.ScrollDown, m.keys.ScrollUp, m.keys.Top, m.keys.Bottom},
	}
}
