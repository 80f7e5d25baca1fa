package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oox/furniture-console/internal/auth"
	"github.com/oox/furniture-console/internal/keys"
	"github.com/oox/furniture-console/internal/model"
	"github.com/oox/furniture-console/internal/theme"
)

// Model is the help overlay view. Besides the key bindings it lists what
// the signed-in role may do, so a missing action is explained.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	user   *model.User
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// SetUser sets the signed-in user; nil clears it.
func (m *Model) SetUser(u *model.User) {
	m.user = u
}

// View renders the help overlay.
func (m Model) View() string {
	title := theme.TitleStyle.Render("Keyboard Shortcuts")

	m.help.Width = m.width - 4
	m.help.ShowAll = true
	sections := []string{title, m.help.View(m.keys)}

	if m.user != nil {
		sections = append(sections, "", m.renderRole())
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

func (m Model) renderRole() string {
	perms := auth.Permissions(m.user.Role)
	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = string(p)
	}

	header := fmt.Sprintf("Signed in as %s (%s)", m.user.DisplayName(), m.user.Role)
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render(header),
		theme.HelpStyle.Width(m.width-8).Render(strings.Join(names, ", ")),
	)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
