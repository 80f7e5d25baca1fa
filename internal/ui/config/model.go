package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/oox/furniture-console/internal/model"
	"github.com/oox/furniture-console/internal/theme"
)

// ConfigDoneMsg signals the settings view should close without saving.
type ConfigDoneMsg struct{}

// ConfigSavedMsg reports the result of writing the configuration file.
type ConfigSavedMsg struct {
	Config *model.AppConfig
	Err    error
}

// SaveFunc writes the configuration.
type SaveFunc func(cfg *model.AppConfig) error

// formBindings holds the editable settings as strings for huh.
type formBindings struct {
	baseURL   string
	timeout   string
	tasks     string
	orders    string
	records   string
	updates   string
	dashboard string
	desktop   bool
	toast     string
	logLevel  string
}

// Model is the settings view.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	cfg    *model.AppConfig
	save   SaveFunc
	width  int
	height int
}

// New creates the settings view. save is called with the edited copy.
func New(save SaveFunc, width, height int) Model {
	return Model{fb: &formBindings{}, save: save, width: width, height: height}
}

// Start loads cfg into the form.
func (m *Model) Start(cfg *model.AppConfig) tea.Cmd {
	m.cfg = cfg
	*m.fb = formBindings{
		baseURL:   cfg.API.BaseURL,
		timeout:   strconv.Itoa(cfg.API.TimeoutSec),
		tasks:     strconv.Itoa(cfg.Polling.TasksIntervalSec),
		orders:    strconv.Itoa(cfg.Polling.OrdersIntervalSec),
		records:   strconv.Itoa(cfg.Polling.RecordsIntervalSec),
		updates:   strconv.Itoa(cfg.Polling.UpdatesIntervalSec),
		dashboard: strconv.Itoa(cfg.Polling.DashboardIntervalSec),
		desktop:   cfg.Notifications.Desktop,
		toast:     strconv.Itoa(cfg.Notifications.ToastSec),
		logLevel:  cfg.Log.Level,
	}
	m.form = m.buildForm()
	return m.form.Init()
}

func (m *Model) buildForm() *huh.Form {
	seconds := func(title string, v *string) huh.Field {
		return huh.NewInput().
			Title(title).
			Description("seconds, 0 disables automatic refresh").
			Value(v).
			Validate(validateSeconds)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend URL").
				Value(&m.fb.baseURL).
				Validate(validateURL),
			huh.NewInput().
				Title("Request timeout").
				Description("seconds").
				Value(&m.fb.timeout).
				Validate(validateSeconds),
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("debug", "debug"),
					huh.NewOption("info", "info"),
					huh.NewOption("warn", "warn"),
					huh.NewOption("error", "error"),
				).
				Value(&m.fb.logLevel),
		).Title("Connection"),
		huh.NewGroup(
			seconds("Tasks refresh", &m.fb.tasks),
			seconds("Orders refresh", &m.fb.orders),
			seconds("Records refresh", &m.fb.records),
			seconds("Live updates", &m.fb.updates),
			seconds("Dashboard refresh", &m.fb.dashboard),
		).Title("Polling"),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Desktop notifications").
				Description("Show urgent alerts outside the terminal").
				Value(&m.fb.desktop),
			huh.NewInput().
				Title("Toast duration").
				Description("seconds").
				Value(&m.fb.toast).
				Validate(validateSeconds),
		).Title("Notifications"),
	).WithWidth(m.formWidth())
}

// Update handles messages for the settings form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		cfg := m.Edited()
		save := m.save
		m.form = nil
		return m, func() tea.Msg {
			return ConfigSavedMsg{Config: cfg, Err: save(cfg)}
		}
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return ConfigDoneMsg{} }
	}
	return m, cmd
}

// Edited returns a copy of the configuration with the form values applied.
func (m Model) Edited() *model.AppConfig {
	cfg := *m.cfg
	fb := m.fb
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(fb.baseURL), "/")
	cfg.API.TimeoutSec = atoi(fb.timeout)
	cfg.Polling.TasksIntervalSec = atoi(fb.tasks)
	cfg.Polling.OrdersIntervalSec = atoi(fb.orders)
	cfg.Polling.RecordsIntervalSec = atoi(fb.records)
	cfg.Polling.UpdatesIntervalSec = atoi(fb.updates)
	cfg.Polling.DashboardIntervalSec = atoi(fb.dashboard)
	cfg.Notifications.Desktop = fb.desktop
	cfg.Notifications.ToastSec = atoi(fb.toast)
	cfg.Log.Level = fb.logLevel
	return &cfg
}

// View renders the settings form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.TitleStyle.Render("Settings"),
		theme.HelpStyle.Render("Changes apply on the next start."),
		"",
		m.form.View(),
	)
	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func validateURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("backend URL is required")
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid URL format")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must use http or https")
	}
	return nil
}

func validateSeconds(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fmt.Errorf("must be a whole number of seconds")
	}
	return nil
}
