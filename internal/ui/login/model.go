// Package login is the sign-in screen.
package login

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/oox/furniture-console/internal/model"
	"github.com/oox/furniture-console/internal/theme"
	"github.com/oox/furniture-console/internal/validate"
)

// SubmitMsg carries the entered credentials.
type SubmitMsg struct {
	Credentials model.Credentials
}

// QuitMsg is sent when the user aborts the sign-in.
type QuitMsg struct{}

type formBindings struct {
	username string
	password string
}

// Model is the login form.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	server  string
	err     string
	pending bool
	width   int
	height  int
}

// New creates the login screen for the given backend URL.
func New(server string, width, height int) Model {
	return Model{fb: &formBindings{}, server: server, width: width, height: height}
}

// Start shows an empty form, keeping the last username.
func (m *Model) Start() tea.Cmd {
	m.fb.password = ""
	m.pending = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&m.fb.username).
				Validate(validate.Var("Username", "required")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validate.Var("Password", "required")),
		),
	).WithWidth(min(60, max(30, m.width-8))).WithShowHelp(false)
	return m.form.Init()
}

// Failed reopens the form with an error message.
func (m *Model) Failed(err error) tea.Cmd {
	m.err = err.Error()
	return m.Start()
}

// Pending reports whether credentials were submitted and no answer has
// arrived yet.
func (m Model) Pending() bool { return m.pending }

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.pending {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.pending = true
		m.err = ""
		creds := model.Credentials{Username: m.fb.username, Password: m.fb.password}
		return m, func() tea.Msg { return SubmitMsg{Credentials: creds} }
	case huh.StateAborted:
		return m, func() tea.Msg { return QuitMsg{} }
	}
	return m, cmd
}

// View renders the centered sign-in box.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	sections := []string{
		theme.TitleStyle.Render("OOX Furniture: sign in"),
		theme.HelpStyle.Render(m.server),
		"",
	}
	if m.err != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.ColorRed).Render(m.err), "")
	}
	if m.pending {
		sections = append(sections, theme.HelpStyle.Render("Signing in..."))
	} else {
		sections = append(sections, m.form.View())
	}

	box := theme.DetailPanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
