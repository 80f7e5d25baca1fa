package tasklist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oox/furniture-console/internal/model"
	"github.com/oox/furniture-console/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string {
	return i.Task.Title + " " + i.Task.OrderNumber + " " + i.Task.AssignedToName
}

// Title returns the task title for the list.
func (i TaskItem) Title() string { return i.Task.Title }

// Description returns a short summary line for the list.
func (i TaskItem) Description() string {
	parts := []string{
		string(i.Task.Status),
		i.Task.OrderNumber,
		relativeTime(i.Task.CreatedAt, time.Now()),
	}
	return strings.Join(parts, " | ")
}

// ItemDelegate implements list.ItemDelegate for rendering task rows.
type ItemDelegate struct {
	// now is the clock used for overdue and age markers.
	now func() time.Time
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single list item line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	fmt.Fprint(w, d.renderLine(ti.Task, index == m.Index()))
}

func (d ItemDelegate) renderLine(t model.Task, isSelected bool) string {
	now := time.Now()
	if d.now != nil {
		now = d.now()
	}

	// Running marker
	prefix := "○"
	if t.IsRunning {
		prefix = lipgloss.NewStyle().Foreground(theme.ColorGreen).Render("▶")
	} else if t.Status.IsTerminal() {
		prefix = "✓"
	}

	statusBadge := theme.StatusStyle(t.Status).Render(string(t.Status))
	priBadge := theme.PriorityStyle(t.Priority).Render(priorityLabel(t.Priority))

	order := ""
	if t.OrderNumber != "" {
		order = lipgloss.NewStyle().Foreground(theme.ColorBlue).Render(" #" + t.OrderNumber)
	}

	worker := ""
	if t.AssignedToName != "" {
		worker = lipgloss.NewStyle().Foreground(theme.ColorMagenta).Render(" @" + t.AssignedToName)
	}

	elapsed := ""
	if t.TimeElapsed > 0 {
		elapsed = theme.DimmedStyle.Render(" " + FormatElapsed(t.TimeElapsed))
	}

	deadline := ""
	switch {
	case t.IsOverdue(now):
		deadline = theme.OverdueStyle.Render(" OVERDUE")
	case t.Deadline != nil && !t.Status.IsTerminal():
		deadline = theme.DeadlineStyle.Render(" due " + t.Deadline.Format("Jan 02"))
	}

	age := theme.DimmedStyle.Render("  " + relativeTime(t.CreatedAt, now))

	line := fmt.Sprintf(
		"%s %s %s %s%s%s%s%s%s",
		prefix, statusBadge, priBadge, t.Title,
		order, worker, elapsed, deadline, age,
	)

	if t.Status == model.TaskApproved {
		line = theme.DimmedStyle.Render(line)
	}

	if isSelected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// FormatElapsed renders tracked seconds as 1h05m or 4m12s.
func FormatElapsed(sec int64) string {
	d := time.Duration(sec) * time.Second
	h := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, mins)
	}
	return fmt.Sprintf("%dm%02ds", mins, int(d.Seconds())%60)
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return fmt.Sprintf("%dw ago", int(d.Hours()/24/7))
	}
}

// priorityLabel returns a short label for the given priority level.
func priorityLabel(p model.TaskPriority) string {
	switch p {
	case model.TaskPriorityCritical:
		return "CRIT"
	case model.TaskPriorityHigh:
		return "HIGH"
	case model.TaskPriorityMedium:
		return "MED"
	case model.TaskPriorityLow:
		return "LOW"
	default:
		return "?"
	}
}
