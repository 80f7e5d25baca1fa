package model

import "time"

// NotificationType controls how a notification is styled.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
)

// NotificationPriority is set only on notifications that deserve
// escalation to the desktop.
type NotificationPriority string

const (
	NotificationPriorityNone     NotificationPriority = ""
	NotificationPriorityHigh     NotificationPriority = "high"
	NotificationPriorityCritical NotificationPriority = "critical"
)

// Notification is an event surfaced to the user, either produced locally
// by an action or delivered by the updates feed.
type Notification struct {
	ID        ID                   `json:"id"`
	Message   string               `json:"message"`
	Type      NotificationType     `json:"type"`
	Priority  NotificationPriority `json:"priority,omitempty"`
	IsRead    bool                 `json:"is_read"`
	CreatedAt time.Time            `json:"created_at"`

	// TaskID links the notification to a task when the backend provides one.
	TaskID ID `json:"task_id,omitempty"`

	// Local marks notifications created on this client; they have no
	// server-side record to update.
	Local bool `json:"-"`
}

// IsUrgent reports whether the notification should reach the desktop.
func (n Notification) IsUrgent() bool {
	return n.Priority == NotificationPriorityHigh ||
		n.Priority == NotificationPriorityCritical
}

// StockAlert reports a material whose stock dropped below its minimum.
type StockAlert struct {
	ID           ID      `json:"id"`
	MaterialName string  `json:"material_name"`
	CurrentStock float64 `json:"current_stock"`
	MinimumStock float64 `json:"minimum_stock"`
	Unit         string  `json:"unit"`
}

// Updates is the delta returned by the updates feed since the last check.
type Updates struct {
	HasUpdates    bool           `json:"has_updates"`
	Notifications []Notification `json:"notifications"`
	TaskUpdates   []TaskUpdate   `json:"task_updates"`
	StockAlerts   []StockAlert   `json:"stock_alerts"`
	ServerTime    *time.Time     `json:"server_time,omitempty"`
}
