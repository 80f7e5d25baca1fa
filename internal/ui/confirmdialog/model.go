// Package confirmdialog shows confirm requests from the event bus as a
// modal and publishes the answer.
package confirmdialog

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/oox/furniture-console/internal/events"
	"github.com/oox/furniture-console/internal/theme"
)

type openMsg events.ConfirmOpen

type closedMsg events.ConfirmClosed

// formBindings keeps the confirm value on the heap so huh's pointer stays
// valid across model copies.
type formBindings struct {
	value bool
}

// Model is the confirm modal. It subscribes to the bus when created; call
// Close to unsubscribe.
type Model struct {
	bus     *events.Bus
	opens   <-chan events.ConfirmOpen
	closes  <-chan events.ConfirmClosed
	cancel  func()
	current *events.ConfirmOpen
	form    *huh.Form
	fb      *formBindings
	width   int
	height  int
}

// New subscribes to confirm requests on bus.
func New(bus *events.Bus, width, height int) Model {
	opens, cancelOpen := bus.ConfirmOpen.Subscribe(8)
	closes, cancelClose := bus.ConfirmClosed.Subscribe(8)
	return Model{
		bus:    bus,
		opens:  opens,
		closes: closes,
		cancel: func() {
			cancelOpen()
			cancelClose()
		},
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Init starts listening for requests.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitOpen(), m.waitClose())
}

func (m Model) waitOpen() tea.Cmd {
	ch := m.opens
	return func() tea.Msg {
		req, ok := <-ch
		if !ok {
			return nil
		}
		return openMsg(req)
	}
}

func (m Model) waitClose() tea.Cmd {
	ch := m.closes
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return closedMsg(c)
	}
}

// Active reports whether a dialog is on screen.
func (m Model) Active() bool {
	return m.current != nil
}

// Update handles bus messages at any time and keys while active.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case openMsg:
		req := events.ConfirmOpen(msg)
		m.current = &req
		m.fb.value = false
		m.form = m.buildForm(req)
		return m, tea.Batch(m.form.Init(), m.waitOpen())

	case closedMsg:
		if m.current != nil && m.current.ID == msg.ID {
			m.current = nil
			m.form = nil
		}
		return m, m.waitClose()
	}

	if m.current == nil || m.form == nil {
		return m, nil
	}

	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		return m.answer(false)
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		return m.answer(m.fb.value)
	case huh.StateAborted:
		return m.answer(false)
	}
	return m, cmd
}

// answer publishes the result and closes the dialog.
func (m Model) answer(result bool) (Model, tea.Cmd) {
	id := m.current.ID
	bus := m.bus
	m.current = nil
	m.form = nil
	return m, func() tea.Msg {
		bus.ConfirmAnswered.Publish(events.ConfirmAnswered{ID: id, Result: result})
		return nil
	}
}

func (m Model) buildForm(req events.ConfirmOpen) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(req.Title).
				Description(req.Message).
				Affirmative(req.ConfirmText).
				Negative(req.CancelText).
				Value(&m.fb.value),
		),
	).WithWidth(m.boxWidth() - 4).WithShowHelp(false)
}

// View renders the modal box, or "" when inactive.
func (m Model) View() string {
	if m.current == nil || m.form == nil {
		return ""
	}
	return lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.VariantColor(m.current.Variant)).
		Width(m.boxWidth()).
		Render(m.form.View() + "\n" + theme.HelpStyle.Render("←/→ choose | enter confirm | esc cancel"))
}

func (m Model) boxWidth() int {
	return max(30, min(m.width-8, 70))
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Close unsubscribes from the bus.
func (m Model) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}
