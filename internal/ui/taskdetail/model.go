package taskdetail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oox/furniture-console/internal/keys"
	"github.com/oox/furniture-console/internal/model"
	"github.com/oox/furniture-console/internal/theme"
	"github.com/oox/furniture-console/internal/ui/tasklist"
	"github.com/oox/furniture-console/internal/warehouse"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// ActionMsg asks the parent to perform a task action.
type ActionMsg struct {
	TaskID model.ID
	Action model.TaskAction
	Reason string
}

// DeleteMsg asks the parent to delete the task.
type DeleteMsg struct {
	TaskID model.ID
	Title  string
}

// Permissions says which action groups the signed-in role may use.
type Permissions struct {
	Work   bool // start, pause, resume, complete
	Review bool // approve, reject
	Delete bool
}

// Allows reports whether action is permitted at all for the role.
func (p Permissions) Allows(action model.TaskAction) bool {
	switch action {
	case model.ActionApprove, model.ActionReject:
		return p.Review
	default:
		return p.Work
	}
}

// Model is the task detail view component.
type Model struct {
	task      *model.Task
	viewport  viewport.Model
	keys      *keys.KeyMap
	perms     Permissions
	busy      bool
	rejecting bool
	reason    textinput.Model
	now       func() time.Time
	width     int
	height    int
}

// New creates a new detail view model.
func New(keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	ti := textinput.New()
	ti.Placeholder = "why is the work rejected? (optional)"
	ti.Prompt = "Reason: "
	ti.CharLimit = 500
	ti.Width = width - 12

	return Model{
		viewport: vp,
		keys:     keys,
		reason:   ti,
		now:      time.Now,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.rejecting {
		return m.updateReason(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(msg, m.keys.Start):
			return m, m.action(model.ActionStart)
		case key.Matches(msg, m.keys.Pause):
			return m, m.action(model.ActionPause)
		case key.Matches(msg, m.keys.Resume):
			return m, m.action(model.ActionResume)
		case key.Matches(msg, m.keys.Complete):
			return m, m.action(model.ActionComplete)
		case key.Matches(msg, m.keys.Approve):
			return m, m.action(model.ActionApprove)

		case key.Matches(msg, m.keys.Reject):
			if m.canRun(model.ActionReject) {
				m.rejecting = true
				m.reason.Reset()
				cmd := m.reason.Focus()
				return m, cmd
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if m.task != nil && m.perms.Delete && !m.busy {
				t := *m.task
				return m, func() tea.Msg { return DeleteMsg{TaskID: t.ID, Title: t.Title} }
			}
			return m, nil
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updateReason(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			m.rejecting = false
			m.reason.Blur()
			return m, nil
		case "enter":
			m.rejecting = false
			m.reason.Blur()
			reason := strings.TrimSpace(m.reason.Value())
			id := m.task.ID
			return m, func() tea.Msg {
				return ActionMsg{TaskID: id, Action: model.ActionReject, Reason: reason}
			}
		}
	}
	var cmd tea.Cmd
	m.reason, cmd = m.reason.Update(msg)
	return m, cmd
}

// action emits an ActionMsg when the action is offered for the task.
func (m Model) action(a model.TaskAction) tea.Cmd {
	if !m.canRun(a) {
		return nil
	}
	id := m.task.ID
	return func() tea.Msg { return ActionMsg{TaskID: id, Action: a} }
}

func (m Model) canRun(a model.TaskAction) bool {
	if m.task == nil || m.busy {
		return false
	}
	for _, allowed := range m.Actions() {
		if allowed == a {
			return true
		}
	}
	return false
}

// Actions lists the actions offered for the current task and role.
func (m Model) Actions() []model.TaskAction {
	if m.task == nil {
		return nil
	}
	var out []model.TaskAction
	for _, a := range warehouse.AllowedActions(m.task.Status) {
		if m.perms.Allows(a) {
			out = append(out, a)
		}
	}
	return out
}

// View renders the detail view.
func (m Model) View() string {
	if m.task == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("Task is no longer available")
	}

	footer := m.renderActions()
	if m.rejecting {
		footer = m.reason.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m Model) renderActions() string {
	if m.busy {
		return theme.HelpStyle.Render("Working...")
	}
	actions := m.Actions()
	if len(actions) == 0 && !m.perms.Delete {
		return theme.HelpStyle.Render("No actions available")
	}
	var hints []string
	for _, a := range actions {
		hints = append(hints, m.bindingFor(a).Help().Key+" "+string(a))
	}
	if m.perms.Delete {
		hints = append(hints, m.keys.Delete.Help().Key+" delete")
	}
	return theme.HelpStyle.Render(strings.Join(hints, " | "))
}

func (m Model) bindingFor(a model.TaskAction) key.Binding {
	switch a {
	case model.ActionStart:
		return m.keys.Start
	case model.ActionPause:
		return m.keys.Pause
	case model.ActionResume:
		return m.keys.Resume
	case model.ActionComplete:
		return m.keys.Complete
	case model.ActionApprove:
		return m.keys.Approve
	default:
		return m.keys.Reject
	}
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.task == nil {
		return ""
	}

	task := m.task
	var sections []string

	// Title
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(task.Title))

	// Badges line: status + priority + running
	statusBadge := theme.StatusStyle(task.Status).Render(string(task.Status))
	priBadge := theme.PriorityStyle(task.Priority).Render(strings.ToUpper(string(task.Priority)))
	badges := []string{statusBadge, "  ", priBadge}
	if task.IsRunning {
		badges = append(badges, "  ", lipgloss.NewStyle().Foreground(theme.ColorGreen).Render("▶ running"))
	}
	if task.IsOverdue(m.now()) {
		badges = append(badges, "  ", theme.OverdueStyle.Render("OVERDUE"))
	}
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, badges...))
	sections = append(sections, "")

	// Metadata table
	meta := func(label, value string) {
		if value == "" {
			return
		}
		sections = append(sections, fmt.Sprintf(
			"%s %s",
			theme.LabelStyle.Render(fmt.Sprintf("%-10s", label+":")),
			theme.ValueStyle.Render(value),
		))
	}

	if task.OrderNumber != "" {
		meta("Order", "#"+task.OrderNumber)
	} else if task.OrderID != "" {
		meta("Order", task.OrderID.String())
	}
	meta("Worker", task.AssignedToName)
	if task.EstimatedDuration > 0 {
		meta("Estimate", (time.Duration(task.EstimatedDuration) * time.Minute).String())
	}
	meta("Elapsed", tasklist.FormatElapsed(task.TimeElapsed))
	if task.Progress > 0 {
		meta("Progress", fmt.Sprintf("%d%%", task.Progress))
	}
	if task.Deadline != nil {
		meta("Deadline", task.Deadline.Local().Format("2006-01-02 15:04"))
	}
	if !task.CreatedAt.IsZero() {
		meta("Created", task.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	// Separator
	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(0, min(m.width-4, 80))))
	sections = append(sections, "", separator, "")

	descHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)
	sections = append(sections, descHeaderStyle.Render("Description"))

	body := task.Description
	if body == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No description")
	}
	sections = append(sections, lipgloss.NewStyle().Width(max(20, m.width-4)).Render(body))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetTask updates the task being displayed. A nil task shows the
// "no longer available" state. The scroll position is kept when the
// same task is refreshed.
func (m *Model) SetTask(task *model.Task) {
	same := m.task != nil && task != nil && m.task.ID == task.ID
	m.task = task
	m.viewport.SetContent(m.renderContent())
	if !same {
		m.rejecting = false
		m.viewport.GotoTop()
	}
}

// TaskID returns the displayed task's ID.
func (m Model) TaskID() model.ID {
	if m.task == nil {
		return ""
	}
	return m.task.ID
}

// SetPermissions sets what the signed-in role may do.
func (m *Model) SetPermissions(p Permissions) {
	m.perms = p
}

// SetBusy disables the action keys while an action is outstanding.
func (m *Model) SetBusy(busy bool) {
	m.busy = busy
}

// Editing reports whether the reject reason input owns the keyboard.
func (m Model) Editing() bool {
	return m.rejecting
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.reason.Width = width - 12
	m.viewport.SetContent(m.renderContent())
}
