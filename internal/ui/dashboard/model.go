// Package dashboard renders the analytics overview.
package dashboard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oox/furniture-console/internal/analytics"
	"github.com/oox/furniture-console/internal/model"
	"github.com/oox/furniture-console/internal/poll"
	"github.com/oox/furniture-console/internal/theme"
	"github.com/oox/furniture-console/internal/ui/tasklist"
)

// Data is one dashboard snapshot. Summary is nil for roles that cannot
// see the warehouse queue.
type Data struct {
	Report  *analytics.Report
	Summary *model.WarehouseSummary
}

// Model is the dashboard view.
type Model struct {
	snapshot poll.Snapshot[Data]
	width    int
	height   int
}

// New creates the dashboard.
func New(width, height int) Model {
	return Model{width: width, height: height}
}

// SetSnapshot replaces the displayed data.
func (m *Model) SetSnapshot(s poll.Snapshot[Data]) {
	m.snapshot = s
}

// Update is a no-op; the dashboard has no keys of its own.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

var cardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.ColorBorder).
	Padding(0, 1).
	Width(18)

// View renders the dashboard.
func (m Model) View() string {
	s := m.snapshot
	if !s.HasData {
		msg := "Loading dashboard..."
		if s.Err != nil {
			msg = "Could not load dashboard: " + s.Err.Error()
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.HelpStyle.Render(msg))
	}

	r := s.Data.Report
	sections := []string{theme.TitleStyle.Render("Dashboard")}

	cards := []string{
		card("Orders", fmt.Sprintf("%d", r.Orders), theme.ColorBlue),
		card("Revenue", money(r.Revenue), theme.ColorGreen),
		card("Open revenue", money(r.OpenRevenue), theme.ColorYellow),
		card("Tasks", fmt.Sprintf("%d", r.Tasks), theme.ColorMagenta),
		card("Overdue tasks", fmt.Sprintf("%d", r.OverdueTasks), theme.ColorRed),
	}
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, cards...))

	if sum := s.Data.Summary; sum != nil {
		sections = append(sections, "", heading("Warehouse queue"), urgencyLine(sum))
	}

	left := []string{heading("Orders by status")}
	for _, sc := range r.OrdersByStatus {
		left = append(left, fmt.Sprintf("%s %d",
			theme.OrderStatusStyle(sc.Status).Render(fmt.Sprintf("%-14s", sc.Status)), sc.Count))
	}
	left = append(left, "", heading("Tasks by status"))
	for _, sc := range r.TasksByStatus {
		left = append(left, fmt.Sprintf("%s %d",
			theme.StatusStyle(model.TaskStatus(sc.Status)).Render(fmt.Sprintf("%-12s", sc.Status)), sc.Count))
	}

	right := []string{heading("Worker time")}
	if len(r.Workers) == 0 {
		right = append(right, theme.HelpStyle.Render("no assigned tasks"))
	}
	for _, w := range r.Workers {
		name := w.Worker
		if name == "" {
			name = w.WorkerID
		}
		right = append(right, fmt.Sprintf("%-16s %3d tasks  %s", truncate(name, 16), w.Tasks, tasklist.FormatElapsed(w.Seconds)))
	}
	right = append(right, "", heading("Top products"))
	for _, p := range r.TopProducts {
		right = append(right, fmt.Sprintf("%-24s %d", truncate(p.Product, 24), p.Quantity))
	}

	columns := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(36).Render(lipgloss.JoinVertical(lipgloss.Left, left...)),
		lipgloss.JoinVertical(lipgloss.Left, right...),
	)
	sections = append(sections, "", columns, "")

	footer := "Generated " + r.GeneratedAt.Local().Format("15:04:05")
	if s.Err != nil {
		footer += "  ⚠ refresh failed: " + s.Err.Error()
	}
	sections = append(sections, theme.HelpStyle.Render(footer))

	return lipgloss.NewStyle().Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func card(label, value string, color lipgloss.AdaptiveColor) string {
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		theme.LabelStyle.Render(label),
		lipgloss.NewStyle().Bold(true).Foreground(color).Render(value),
	))
}

func heading(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render(s)
}

func urgencyLine(sum *model.WarehouseSummary) string {
	buckets := []struct {
		name  string
		style lipgloss.Style
	}{
		{model.UrgencyOverdue, theme.OverdueStyle},
		{model.UrgencyUrgent, lipgloss.NewStyle().Foreground(theme.ColorOrange)},
		{model.UrgencySoon, lipgloss.NewStyle().Foreground(theme.ColorYellow)},
		{model.UrgencyNormal, lipgloss.NewStyle().Foreground(theme.ColorGreen)},
	}
	parts := make([]string, len(buckets))
	for i, b := range buckets {
		parts[i] = b.style.Render(fmt.Sprintf("%s %d", b.name, sum.Count(b.name)))
	}
	return strings.Join(parts, "   ") + theme.HelpStyle.Render(fmt.Sprintf("   (%d orders)", sum.TotalOrders))
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
