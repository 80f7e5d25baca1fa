package model

import "time"

// TaskStatus is the server-side status of a warehouse task.
type TaskStatus string

const (
	TaskAssigned  TaskStatus = "assigned"
	TaskStarted   TaskStatus = "started"
	TaskPaused    TaskStatus = "paused"
	TaskCompleted TaskStatus = "completed"
	TaskApproved  TaskStatus = "approved"
	TaskRejected  TaskStatus = "rejected"
)

// TaskStatuses lists every status in lifecycle order.
var TaskStatuses = []TaskStatus{
	TaskAssigned, TaskStarted, TaskPaused,
	TaskCompleted, TaskApproved, TaskRejected,
}

// IsTerminal reports whether the status ends a work cycle.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskCompleted || s == TaskApproved || s == TaskRejected
}

// TaskPriority is the urgency assigned by the supervisor.
type TaskPriority string

const (
	TaskPriorityLow      TaskPriority = "low"
	TaskPriorityMedium   TaskPriority = "medium"
	TaskPriorityHigh     TaskPriority = "high"
	TaskPriorityCritical TaskPriority = "critical"
)

// Rank orders priorities with critical first (lower rank = more urgent).
func (p TaskPriority) Rank() int {
	switch p {
	case TaskPriorityCritical:
		return 1
	case TaskPriorityHigh:
		return 2
	case TaskPriorityMedium:
		return 3
	case TaskPriorityLow:
		return 4
	default:
		return 5
	}
}

// TaskAction is a discrete operation a worker or supervisor performs on a task.
type TaskAction string

const (
	ActionStart    TaskAction = "start"
	ActionPause    TaskAction = "pause"
	ActionResume   TaskAction = "resume"
	ActionComplete TaskAction = "complete"
	ActionApprove  TaskAction = "approve"
	ActionReject   TaskAction = "reject"
)

// TaskActions lists every action in the order they are offered in the UI.
var TaskActions = []TaskAction{
	ActionStart, ActionPause, ActionResume,
	ActionComplete, ActionApprove, ActionReject,
}

// Task is a unit of warehouse work assigned to a worker within an order.
type Task struct {
	ID                ID           `json:"id"`
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	Status            TaskStatus   `json:"status"`
	Priority          TaskPriority `json:"priority"`
	AssignedTo        ID           `json:"assigned_to"`
	AssignedToName    string       `json:"assigned_to_name,omitempty"`
	OrderID           ID           `json:"order"`
	OrderNumber       string       `json:"order_number,omitempty"`
	EstimatedDuration int          `json:"estimated_duration"` // minutes
	Deadline          *time.Time   `json:"deadline,omitempty"`
	TimeElapsed       int64        `json:"time_elapsed"` // seconds
	Progress          int          `json:"progress_percentage"`
	IsRunning         bool         `json:"is_running"`
	CanStart          bool         `json:"can_start"`
	CanPause          bool         `json:"can_pause"`
	CanComplete       bool         `json:"can_complete"`
	CreatedAt         time.Time    `json:"created_at"`
}

// IsOverdue reports whether the deadline has passed on unfinished work.
func (t Task) IsOverdue(now time.Time) bool {
	return t.Deadline != nil && t.Deadline.Before(now) && !t.Status.IsTerminal()
}

// TaskActionResult is the backend reply to a task action.
// Capability flags are pointers because the backend omits them on some
// transitions, and an absent flag must not be confused with false.
type TaskActionResult struct {
	Success     bool       `json:"success"`
	NewStatus   TaskStatus `json:"new_status,omitempty"`
	TimeElapsed *int64     `json:"time_elapsed,omitempty"`
	CanStart    *bool      `json:"can_start,omitempty"`
	CanPause    *bool      `json:"can_pause,omitempty"`
	CanComplete *bool      `json:"can_complete,omitempty"`
	Message     string     `json:"message,omitempty"`
}

// TaskUpdate is an incremental change to a task reported by the updates feed.
type TaskUpdate struct {
	TaskID      ID         `json:"task_id"`
	Status      TaskStatus `json:"status"`
	TimeElapsed *int64     `json:"time_elapsed,omitempty"`
	IsRunning   *bool      `json:"is_running,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskInput is the payload for creating or updating a task.
type TaskInput struct {
	Title             string       `json:"title" validate:"required,min=3,max=200"`
	Description       string       `json:"description" validate:"max=2000"`
	Priority          TaskPriority `json:"priority" validate:"required,oneof=low medium high critical"`
	AssignedTo        ID           `json:"assigned_to" validate:"required"`
	OrderID           ID           `json:"order" validate:"required"`
	EstimatedDuration int          `json:"estimated_duration" validate:"gte=0,lte=10080"`
	Deadline          *time.Time   `json:"deadline,omitempty"`
}
