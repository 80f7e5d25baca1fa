package warehouse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/oox/furniture-console/internal/confirm"
	"github.com/oox/furniture-console/internal/events"
	"github.com/oox/furniture-console/internal/model"
	"github.com/oox/furniture-console/internal/notify"
)

// ErrActionInProgress is returned when an action is requested while
// another one is still waiting for the backend.
var ErrActionInProgress = errors.New("another task action is in progress")

// TaskAPI is the subset of the backend client used for task mutations.
type TaskAPI interface {
	PerformTaskAction(ctx context.Context, id model.ID, action model.TaskAction, reason string) (*model.TaskActionResult, error)
	CreateTask(ctx context.Context, in model.TaskInput) (*model.Task, error)
	DeleteTask(ctx context.Context, id model.ID) error
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, opts confirm.Options) (bool, error)
}

// Result is the outcome of a task action.
type Result struct {
	Success bool
	Status  model.TaskStatus
	Err     error
}

// Actions performs task mutations against the backend and records their
// outcome in the store.
type Actions struct {
	api     TaskAPI
	store   *Store
	confirm Confirmer
	logger  *slog.Logger

	busy atomic.Bool
}

// NewActions wires the action service. logger may be nil.
func NewActions(api TaskAPI, store *Store, confirmer Confirmer, logger *slog.Logger) *Actions {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Actions{api: api, store: store, confirm: confirmer, logger: logger}
}

// Busy reports whether an action is waiting for the backend.
func (a *Actions) Busy() bool { return a.busy.Load() }

// Perform sends action for the task. On success the cached task is updated
// optimistically and a success notification is added; on failure the task
// is left untouched and an error notification is added. Nothing is retried.
func (a *Actions) Perform(ctx context.Context, taskID model.ID, action model.TaskAction, reason string) Result {
	if !a.busy.CompareAndSwap(false, true) {
		return Result{Err: ErrActionInProgress}
	}
	defer a.busy.Store(false)

	if _, ok := OptimisticStatus(action); !ok {
		err := fmt.Errorf("unknown task action %q", action)
		a.store.Dispatch(AddNotification{Notification: notify.Error(err.Error())})
		return Result{Err: err}
	}

	res, err := a.api.PerformTaskAction(ctx, taskID, action, reason)
	if err != nil {
		a.logger.Warn("task action failed",
			"task_id", taskID, "action", action, "error", err)
		n := notify.Error(fmt.Sprintf("Failed to %s task: %s", action, err))
		n.TaskID = taskID
		a.store.Dispatch(AddNotification{Notification: n})
		return Result{Err: err}
	}

	st := a.store.Dispatch(ApplyTaskAction{TaskID: taskID, Action: action, Result: *res})
	n := notify.Success(SuccessMessage(action))
	n.TaskID = taskID
	a.store.Dispatch(AddNotification{Notification: n})

	a.logger.Info("task action applied", "task_id", taskID, "action", action)

	status, _ := OptimisticStatus(action)
	if t, ok := st.Task(taskID); ok {
		status = t.Status
	}
	return Result{Success: true, Status: status}
}

// Delete asks for confirmation, deletes the task and drops it from the
// cache. It reports whether the task was deleted.
func (a *Actions) Delete(ctx context.Context, taskID model.ID) (bool, error) {
	title := "this task"
	if t, ok := a.store.State().Task(taskID); ok {
		title = fmt.Sprintf("%q", t.Title)
	}

	ok, err := a.confirm.Confirm(ctx, confirm.Options{
		Title:       "Delete task",
		Message:     fmt.Sprintf("Delete %s? This cannot be undone.", title),
		ConfirmText: "Delete",
		Variant:     events.VariantDanger,
	})
	if err != nil || !ok {
		return false, err
	}

	if err := a.api.DeleteTask(ctx, taskID); err != nil {
		a.store.Dispatch(AddNotification{
			Notification: notify.Error(fmt.Sprintf("Failed to delete task: %s", err)),
		})
		return false, fmt.Errorf("deleting task %s: %w", taskID, err)
	}

	a.store.Dispatch(RemoveTask{ID: taskID})
	a.store.Dispatch(AddNotification{Notification: notify.Success("Task deleted successfully")})
	a.logger.Info("task deleted", "task_id", taskID)
	return true, nil
}

// Assign creates a task for an order and caches it.
func (a *Actions) Assign(ctx context.Context, in model.TaskInput) (*model.Task, error) {
	task, err := a.api.CreateTask(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("assigning task: %w", err)
	}
	a.store.Dispatch(UpsertTask{Task: *task})
	a.store.Dispatch(AddNotification{
		Notification: notify.Success(fmt.Sprintf("Task %q assigned", task.Title)),
	})
	return task, nil
}
