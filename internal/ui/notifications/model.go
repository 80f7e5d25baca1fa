// Package notifications renders the notification panel.
package notifications

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oox/furniture-console/internal/keys"
	"github.com/oox/furniture-console/internal/model"
	"github.com/oox/furniture-console/internal/notify"
	"github.com/oox/furniture-console/internal/theme"
)

// CloseMsg signals the parent to close the panel.
type CloseMsg struct{}

// MarkReadMsg asks the parent to mark one notification read.
type MarkReadMsg struct{ ID model.ID }

// MarkAllReadMsg asks the parent to mark every unread notification read.
type MarkAllReadMsg struct{}

// OpenTaskMsg asks the parent to show the task a notification is about.
type OpenTaskMsg struct{ TaskID model.ID }

// Model is the notification panel.
type Model struct {
	keys        *keys.KeyMap
	items       []model.Notification
	selectedIdx int
	width       int
	height      int
}

// New creates a notification panel.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{keys: k, width: width, height: height}
}

// SetNotifications replaces the list, newest first.
func (m *Model) SetNotifications(items []model.Notification) {
	m.items = items
	if m.selectedIdx >= len(items) {
		m.selectedIdx = max(0, len(items)-1)
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(kmsg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(kmsg, m.keys.Down):
		if len(m.items) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.items)
		}

	case key.Matches(kmsg, m.keys.Up):
		if len(m.items) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.items) - 1
			}
		}

	case key.Matches(kmsg, m.keys.MarkRead):
		if n, ok := m.selected(); ok && !n.IsRead {
			return m, func() tea.Msg { return MarkReadMsg{ID: n.ID} }
		}

	case key.Matches(kmsg, m.keys.MarkAllRead):
		if notify.UnreadCount(m.items) > 0 {
			return m, func() tea.Msg { return MarkAllReadMsg{} }
		}

	case key.Matches(kmsg, m.keys.Select):
		if n, ok := m.selected(); ok && n.TaskID != "" {
			return m, func() tea.Msg { return OpenTaskMsg{TaskID: n.TaskID} }
		}
	}
	return m, nil
}

func (m Model) selected() (model.Notification, bool) {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.items) {
		return model.Notification{}, false
	}
	return m.items[m.selectedIdx], true
}

// View renders the panel.
func (m Model) View() string {
	var b strings.Builder

	unread := notify.UnreadCount(m.items)
	b.WriteString(theme.TitleStyle.Render(fmt.Sprintf("Notifications (%d unread)", unread)))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(theme.HelpStyle.Render("Nothing yet. Task and stock alerts will show up here."))
	}

	now := time.Now()
	for i, n := range m.items {
		icon := theme.NotificationStyle(n.Type).Render(theme.NotificationIcon(n.Type))
		line := fmt.Sprintf("%s %s", icon, n.Message)
		if n.IsUrgent() {
			line += theme.OverdueStyle.Render(" [" + string(n.Priority) + "]")
		}
		if !n.CreatedAt.IsZero() {
			line += theme.DimmedStyle.Render("  " + age(now.Sub(n.CreatedAt)))
		}
		if n.IsRead {
			line = theme.DimmedStyle.Render(line)
		} else {
			line = lipgloss.NewStyle().Bold(true).Render("• ") + line
		}

		if i == m.selectedIdx {
			b.WriteString(theme.SelectedItemStyle.Render(line))
		} else {
			b.WriteString(theme.ListItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func age(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
