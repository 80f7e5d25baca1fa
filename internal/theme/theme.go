package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/oox/furniture-console/internal/events"
	"github.com/oox/furniture-console/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// ErrorBarStyle replaces StatusBarStyle while the session is unusable.
var ErrorBarStyle = StatusBarStyle.
	Bold(true).
	Background(ColorRed)

// DetailPanelStyle wraps the detail view content area.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// BorderStyle provides a standard rounded border for panels.
var BorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// DimmedStyle renders finished work.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// OverdueStyle flags tasks and orders past their deadline.
var OverdueStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// DeadlineStyle renders deadlines that are not yet due.
var DeadlineStyle = lipgloss.NewStyle().
	Foreground(ColorOrange)

// TitleStyle is used for view titles inside the content area.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	MarginBottom(1)

// LabelStyle and ValueStyle render key/value metadata lines.
var (
	LabelStyle = lipgloss.NewStyle().Foreground(ColorGray)
	ValueStyle = lipgloss.NewStyle().Foreground(ColorWhite)
)

// StatusStyle returns a color-coded style for the given task status.
func StatusStyle(status model.TaskStatus) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch status {
	case model.TaskAssigned:
		return base.Foreground(ColorBlue)
	case model.TaskStarted:
		return base.Foreground(ColorYellow)
	case model.TaskPaused:
		return base.Foreground(ColorOrange)
	case model.TaskCompleted:
		return base.Foreground(ColorMagenta)
	case model.TaskApproved:
		return base.Foreground(ColorGreen)
	case model.TaskRejected:
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}

// OrderStatusStyle returns a color-coded style for an order or delivery status.
func OrderStatusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch status {
	case model.OrderStatusNew, model.DeliveryPending:
		return base.Foreground(ColorBlue)
	case model.OrderStatusConfirmed, model.DeliveryScheduled:
		return base.Foreground(ColorMagenta)
	case model.OrderStatusInProduction, model.DeliveryInTransit:
		return base.Foreground(ColorYellow)
	case model.OrderStatusReady:
		return base.Foreground(ColorOrange)
	case model.OrderStatusDelivered:
		return base.Foreground(ColorGreen)
	case model.OrderStatusCancelled:
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}

// PriorityStyle returns a color-coded style for the given task priority.
func PriorityStyle(priority model.TaskPriority) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch priority {
	case model.TaskPriorityCritical:
		return base.Foreground(ColorRed)
	case model.TaskPriorityHigh:
		return base.Foreground(ColorOrange)
	case model.TaskPriorityMedium:
		return base.Foreground(ColorYellow)
	case model.TaskPriorityLow:
		return base.Foreground(ColorBlue)
	default:
		return base.Foreground(ColorGray)
	}
}

// NotificationStyle returns the accent for a notification or toast type.
func NotificationStyle(typ model.NotificationType) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch typ {
	case model.NotificationSuccess:
		return base.Foreground(ColorGreen)
	case model.NotificationError:
		return base.Foreground(ColorRed)
	case model.NotificationWarning:
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorBlue)
	}
}

// NotificationIcon is the one-character marker shown before a notification.
func NotificationIcon(typ model.NotificationType) string {
	switch typ {
	case model.NotificationSuccess:
		return "✓"
	case model.NotificationError:
		return "✗"
	case model.NotificationWarning:
		return "!"
	default:
		return "i"
	}
}

// VariantColor is the border color of a confirm dialog.
func VariantColor(v events.Variant) lipgloss.AdaptiveColor {
	switch v {
	case events.VariantDanger:
		return ColorRed
	case events.VariantWarning:
		return ColorYellow
	default:
		return ColorBlue
	}
}
