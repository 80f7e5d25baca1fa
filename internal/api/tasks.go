package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/oox/furniture-console/internal/model"
)

// TaskFilter narrows a task listing. Empty fields are not sent.
type TaskFilter struct {
	Status   model.TaskStatus
	OrderID  model.ID
	WorkerID model.ID
}

func (f TaskFilter) query() string {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.OrderID != "" {
		q.Set("order", f.OrderID.String())
	}
	if f.WorkerID != "" {
		q.Set("assigned_to", f.WorkerID.String())
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// ListTasks returns tasks matching the filter.
func (c *Client) ListTasks(ctx context.Context, f TaskFilter) ([]model.Task, error) {
	var out list[model.Task]
	if err := c.Get(ctx, "/api/tasks/"+f.query(), &out); err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return out.Items, nil
}

// GetTask returns a single task.
func (c *Client) GetTask(ctx context.Context, id model.ID) (*model.Task, error) {
	var t model.Task
	if err := c.Get(ctx, taskPath(id), &t); err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	return &t, nil
}

// CreateTask assigns a new task to a worker within an order.
func (c *Client) CreateTask(ctx context.Context, in model.TaskInput) (*model.Task, error) {
	var t model.Task
	if err := c.Post(ctx, "/api/tasks/", in, &t); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	return &t, nil
}

// UpdateTask applies a partial update to a task.
func (c *Client) UpdateTask(ctx context.Context, id model.ID, in model.TaskInput) (*model.Task, error) {
	var t model.Task
	if err := c.Patch(ctx, taskPath(id), in, &t); err != nil {
		return nil, fmt.Errorf("updating task %s: %w", id, err)
	}
	return &t, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id model.ID) error {
	if err := c.Delete(ctx, taskPath(id)); err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	return nil
}

type taskActionRequest struct {
	Action model.TaskAction `json:"action"`
	Reason string           `json:"reason,omitempty"`
}

// PerformTaskAction sends a worker or supervisor action for a task.
func (c *Client) PerformTaskAction(
	ctx context.Context,
	id model.ID,
	action model.TaskAction,
	reason string,
) (*model.TaskActionResult, error) {
	var res model.TaskActionResult
	req := taskActionRequest{Action: action, Reason: reason}
	if err := c.Post(ctx, taskPath(id)+"action/", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func taskPath(id model.ID) string {
	return "/api/tasks/" + url.PathEscape(id.String()) + "/"
}
