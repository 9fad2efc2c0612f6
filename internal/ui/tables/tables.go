// Package tables renders the per-model summary and high-cost record tables.
package tables

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/llm-dashboard-tui/internal/ui/styles"
)

// column describes a table column; flex columns absorb spare width.
type column struct {
	title string
	width int
	flex  bool
}

// base wraps a bubbles table with the rows it was last rebuilt from.
type base struct {
	columns []column
	table   table.Model
	rows    []table.Row
}

func newBase(columns []column) base {
	t := table.New(
		table.WithColumns(toColumns(columns, 0)),
		table.WithFocused(false),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Subtle).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.TextPrimary).
		Background(styles.BgAccent).
		Bold(true)
	t.SetStyles(s)

	return base{columns: columns, table: t, rows: []table.Row{}}
}

func toColumns(columns []column, width int) []table.Column {
	fixed := 0
	flexCount := 0
	for _, c := range columns {
		fixed += c.width + 2
		if c.flex {
			flexCount++
		}
	}
	extra := 0
	if flexCount > 0 && width > fixed {
		extra = (width - fixed) / flexCount
	}

	out := make([]table.Column, len(columns))
	for i, c := range columns {
		w := c.width
		if c.flex {
			w += min(extra, 30)
		}
		out[i] = table.Column{Title: c.title, Width: w}
	}
	return out
}

func (b *base) setRows(rows []table.Row) {
	b.rows = rows
	b.table.SetRows(rows)
	b.table.GotoTop()
}

// Rows returns the rendered cells of every row in display order.
func (b *base) Rows() [][]string {
	out := make([][]string, len(b.rows))
	for i, r := range b.rows {
		out[i] = append([]string{}, r...)
	}
	return out
}

// Len returns the number of rows.
func (b *base) Len() int {
	return len(b.rows)
}

// Headers returns the column titles.
func (b *base) Headers() []string {
	out := make([]string, len(b.columns))
	for i, c := range b.columns {
		out[i] = c.title
	}
	return out
}

// Clear removes every row.
func (b *base) Clear() {
	b.setRows([]table.Row{})
}

// SetSize fits the table into the given area.
func (b *base) SetSize(width, height int) {
	b.table.SetColumns(toColumns(b.columns, width))
	b.table.SetWidth(width)
	b.table.SetHeight(max(height, 3))
}

// Focus lets the table receive navigation keys.
func (b *base) Focus() { b.table.Focus() }

// Blur stops the table from receiving navigation keys.
func (b *base) Blur() { b.table.Blur() }

// Focused reports whether the table has focus.
func (b *base) Focused() bool { return b.table.Focused() }

// Update forwards a message to the underlying table.
func (b *base) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	b.table, cmd = b.table.Update(msg)
	return cmd
}

// View renders the table, or a placeholder when it has no rows.
func (b *base) View() string {
	if len(b.rows) == 0 {
		return b.table.View() + "\n" + styles.HelpStyle.Render("No records")
	}
	return b.table.View()
}
