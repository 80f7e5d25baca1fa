// Package toast shows transient messages published on the event bus.
package toast

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oox/furniture-console/internal/events"
	"github.com/oox/furniture-console/internal/theme"
)

// MaxVisible is how many toasts are stacked at once; older ones are
// dropped first.
const MaxVisible = 3

type toastMsg events.Toast

type expireMsg struct{ id string }

// Model is the toast stack.
type Model struct {
	ch     <-chan events.Toast
	cancel func()
	toasts []events.Toast
	width  int
}

// New subscribes to toasts on bus.
func New(bus *events.Bus, width int) Model {
	ch, cancel := bus.Toast.Subscribe(16)
	return Model{ch: ch, cancel: cancel, width: width}
}

// Init starts listening.
func (m Model) Init() tea.Cmd {
	return m.wait()
}

func (m Model) wait() tea.Cmd {
	ch := m.ch
	return func() tea.Msg {
		t, ok := <-ch
		if !ok {
			return nil
		}
		return toastMsg(t)
	}
}

// Update handles toast and expiry messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case toastMsg:
		t := events.Toast(msg)
		m.toasts = append(m.toasts, t)
		if len(m.toasts) > MaxVisible {
			m.toasts = m.toasts[len(m.toasts)-MaxVisible:]
		}
		d := t.Duration
		if d <= 0 {
			d = events.DefaultToastDuration
		}
		expire := tea.Tick(d, func(time.Time) tea.Msg { return expireMsg{id: t.ID} })
		return m, tea.Batch(expire, m.wait())

	case expireMsg:
		m.Dismiss(msg.id)
	}
	return m, nil
}

// Dismiss removes a toast before it expires.
func (m *Model) Dismiss(id string) {
	kept := m.toasts[:0:0]
	for _, t := range m.toasts {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

// Len is the number of visible toasts.
func (m Model) Len() int { return len(m.toasts) }

// View renders the stack, newest last, or "" when empty.
func (m Model) View() string {
	if len(m.toasts) == 0 {
		return ""
	}
	lines := make([]string, len(m.toasts))
	for i, t := range m.toasts {
		icon := theme.NotificationStyle(t.Type).Render(theme.NotificationIcon(t.Type))
		lines[i] = lipgloss.NewStyle().
			Padding(0, 1).
			Width(m.width).
			MaxWidth(m.width).
			Render(icon + " " + t.Message)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// SetWidth updates the rendering width.
func (m *Model) SetWidth(width int) {
	m.width = width
}

// Close unsubscribes from the bus.
func (m Model) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}
