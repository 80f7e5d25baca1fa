// Package records is the tabular view shared by orders, customers,
// products, users, deliveries and the warehouse queue.
package records

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oox/furniture-console/internal/keys"
	"github.com/oox/furniture-console/internal/model"
	"github.com/oox/furniture-console/internal/poll"
	"github.com/oox/furniture-console/internal/theme"
)

// Kind names a record collection.
type Kind string

const (
	KindOrders     Kind = "orders"
	KindCustomers  Kind = "customers"
	KindProducts   Kind = "products"
	KindUsers      Kind = "users"
	KindDeliveries Kind = "deliveries"
	KindWarehouse  Kind = "warehouse"
)

// Record is one table row. Value carries the underlying model value for
// row actions.
type Record struct {
	ID    model.ID
	Label string
	Cells []string
	Value any
}

// Action is a row action offered by a collection.
type Action struct {
	Name    string
	Binding key.Binding
}

// Spec describes a collection.
type Spec struct {
	Kind      Kind
	Title     string
	Columns   []table.Column
	Actions   []Action
	CanCreate bool
	CanDelete bool
}

// CloseMsg signals the parent to leave the view.
type CloseMsg struct{ Kind Kind }

// NewMsg asks the parent to open the create form.
type NewMsg struct{ Kind Kind }

// DeleteMsg asks the parent to delete a record.
type DeleteMsg struct {
	Kind   Kind
	Record Record
}

// ActionMsg asks the parent to run a row action.
type ActionMsg struct {
	Kind   Kind
	Action string
	Record Record
}

// Model is the records table.
type Model struct {
	spec     Spec
	keys     *keys.KeyMap
	table    table.Model
	records  []Record
	snapshot poll.Snapshot[[]Record]
	width    int
	height   int
}

// New creates an empty records view.
func New(k *keys.KeyMap, width, height int) Model {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(max(1, height-4)),
		table.WithWidth(width),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.ColorBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(theme.ColorWhite).
		Background(theme.ColorBlue).
		Bold(true)
	t.SetStyles(s)

	return Model{keys: k, table: t, width: width, height: height}
}

// Open switches the view to a collection and clears stale rows.
func (m *Model) Open(spec Spec) {
	m.spec = spec
	m.records = nil
	m.snapshot = poll.Snapshot[[]Record]{Loading: true}
	m.table.SetRows(nil)
	m.table.SetColumns(m.fitColumns())
	m.table.SetCursor(0)
}

// Kind returns the open collection.
func (m Model) Kind() Kind { return m.spec.Kind }

// SetSnapshot updates rows from a poll snapshot.
func (m *Model) SetSnapshot(s poll.Snapshot[[]Record]) {
	m.snapshot = s
	if !s.HasData {
		return
	}
	m.records = s.Data
	rows := make([]table.Row, len(s.Data))
	for i, r := range s.Data {
		rows[i] = table.Row(r.Cells)
	}
	m.table.SetRows(rows)
	// An empty table leaves the cursor at -1.
	if c := m.table.Cursor(); c < 0 || c >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

// Selected returns the record under the cursor.
func (m Model) Selected() (Record, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.records) {
		return Record{}, false
	}
	return m.records[i], true
}

// Init returns nil.
func (m Model) Init() tea.Cmd { return nil }

// Update handles keys for the table.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	kind := m.spec.Kind
	switch {
	case key.Matches(kmsg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{Kind: kind} }

	case key.Matches(kmsg, m.keys.New):
		if m.spec.CanCreate {
			return m, func() tea.Msg { return NewMsg{Kind: kind} }
		}
		return m, nil

	case key.Matches(kmsg, m.keys.Delete):
		if r, ok := m.Selected(); ok && m.spec.CanDelete {
			return m, func() tea.Msg { return DeleteMsg{Kind: kind, Record: r} }
		}
		return m, nil
	}

	for _, a := range m.spec.Actions {
		if key.Matches(kmsg, a.Binding) {
			r, ok := m.Selected()
			if !ok {
				return m, nil
			}
			name := a.Name
			return m, func() tea.Msg { return ActionMsg{Kind: kind, Action: name, Record: r} }
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table with a title and status line.
func (m Model) View() string {
	title := theme.TitleStyle.Render(fmt.Sprintf("%s (%d)", m.spec.Title, len(m.records)))

	var status string
	switch {
	case m.snapshot.Err != nil:
		status = lipgloss.NewStyle().Foreground(theme.ColorYellow).
			Render("⚠ could not refresh: " + m.snapshot.Err.Error())
	case m.snapshot.Loading:
		status = theme.HelpStyle.Render("Loading...")
	case !m.snapshot.FetchedAt.IsZero():
		status = theme.HelpStyle.Render("Updated " + m.snapshot.FetchedAt.Local().Format("15:04:05"))
	}

	body := m.table.View()
	if len(m.records) == 0 && !m.snapshot.Loading {
		body = theme.HelpStyle.Render("No records.")
	}

	return lipgloss.NewStyle().Padding(0, 1).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, body, "", status, theme.HelpStyle.Render(m.hints())),
	)
}

func (m Model) hints() string {
	var hints []string
	if m.spec.CanCreate {
		hints = append(hints, m.keys.New.Help().Key+" new")
	}
	if m.spec.CanDelete {
		hints = append(hints, m.keys.Delete.Help().Key+" delete")
	}
	for _, a := range m.spec.Actions {
		hints = append(hints, a.Binding.Help().Key+" "+a.Binding.Help().Desc)
	}
	hints = append(hints, "r refresh", "esc back")
	return strings.Join(hints, " | ")
}

// fitColumns stretches the last column over the remaining width.
func (m Model) fitColumns() []table.Column {
	cols := append([]table.Column(nil), m.spec.Columns...)
	if len(cols) == 0 {
		return cols
	}
	used := 0
	for _, c := range cols {
		used += c.Width + 2
	}
	if spare := m.width - 4 - used; spare > 0 {
		cols[len(cols)-1].Width += spare
	}
	return cols
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetWidth(width - 2)
	m.table.SetHeight(max(1, height-5))
	if len(m.spec.Columns) > 0 {
		m.table.SetColumns(m.fitColumns())
	}
}
