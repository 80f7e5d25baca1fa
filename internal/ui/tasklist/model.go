package tasklist

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oox/furniture-console/internal/keys"
	"github.com/oox/furniture-console/internal/model"
	"github.com/oox/furniture-console/internal/theme"
)

// SelectedTaskMsg is sent when a user selects a task to view details.
type SelectedTaskMsg struct {
	TaskID model.ID
}

// FilterChangedMsg is sent when the status filter changes. An empty
// Status means all statuses.
type FilterChangedMsg struct {
	Status model.TaskStatus
}

// filters is the cycle order of the status filter; "" shows everything.
var filters = append([]model.TaskStatus{""}, model.TaskStatuses...)

// Model is the task list view component.
type Model struct {
	list      list.Model
	keys      *keys.KeyMap
	tasks     []model.Task
	filterIdx int
	loading   bool
	err       error
	width     int
	height    int
}

// New creates a new task list model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Tasks"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = theme.HeaderStyle
	l.DisableQuitKeybindings()

	return Model{
		list:   l,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Select):
			item, ok := m.list.SelectedItem().(TaskItem)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return SelectedTaskMsg{TaskID: item.Task.ID}
			}

		case key.Matches(msg, m.keys.NextFilter):
			return m.cycleFilter(1)

		case key.Matches(msg, m.keys.PrevFilter):
			return m.cycleFilter(-1)
		}
	}

	// Delegate to list model for navigation and fuzzy filtering
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) cycleFilter(step int) (Model, tea.Cmd) {
	m.filterIdx = (m.filterIdx + step + len(filters)) % len(filters)
	status := filters[m.filterIdx]
	cmd := m.refreshItems()
	return m, tea.Batch(cmd, func() tea.Msg {
		return FilterChangedMsg{Status: status}
	})
}

// Status returns the active status filter.
func (m Model) Status() model.TaskStatus {
	return filters[m.filterIdx]
}

// Filtering reports whether the fuzzy filter input owns the keyboard.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// SetTasks replaces the tasks shown, keeping the status filter.
func (m *Model) SetTasks(tasks []model.Task) tea.Cmd {
	m.tasks = tasks
	return m.refreshItems()
}

// SetPollState records whether a load is in flight and the last error.
func (m *Model) SetPollState(loading bool, err error) {
	m.loading = loading
	m.err = err
}

func (m *Model) refreshItems() tea.Cmd {
	visible := Visible(m.tasks, m.Status())
	items := make([]list.Item, len(visible))
	for i, t := range visible {
		items[i] = TaskItem{Task: t}
	}
	m.list.Title = m.title()
	return m.list.SetItems(items)
}

func (m Model) title() string {
	if s := m.Status(); s != "" {
		return fmt.Sprintf("Tasks: %s", s)
	}
	return "Tasks"
}

// Visible filters tasks by status and orders them by priority, then
// deadline, then creation time.
func Visible(tasks []model.Task, status model.TaskStatus) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if status == "" || t.Status == status {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		switch {
		case a.Deadline != nil && b.Deadline != nil && !a.Deadline.Equal(*b.Deadline):
			return a.Deadline.Before(*b.Deadline)
		case a.Deadline != nil && b.Deadline == nil:
			return true
		case a.Deadline == nil && b.Deadline != nil:
			return false
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return out
}

// View renders the task list view.
func (m Model) View() string {
	var banner string
	switch {
	case m.err != nil:
		banner = lipgloss.NewStyle().
			Foreground(theme.ColorYellow).
			Padding(0, 1).
			Render("⚠ could not refresh tasks: " + m.err.Error())
	case m.loading:
		banner = theme.HelpStyle.Padding(0, 1).Render("Loading tasks...")
	}

	if len(m.list.Items()) == 0 && m.list.FilterState() == list.Unfiltered {
		return lipgloss.JoinVertical(lipgloss.Left, banner, m.renderEmptyState())
	}
	if banner == "" {
		return m.list.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, banner, m.list.View())
}

// renderEmptyState shows guidance text when no tasks are available.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height-1).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.loading {
		return style.Render("")
	}
	if m.Status() != "" {
		return style.Render(fmt.Sprintf("No %s tasks.\nPress tab to change the filter.", m.Status()))
	}
	return style.Render("No tasks assigned.\n\nPress r to refresh.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
