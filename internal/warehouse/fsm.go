package warehouse

import (
	"errors"
	"fmt"

	"github.com/oox/furniture-console/internal/model"
)

// ErrInvalidTransition is returned when an action does not apply to a
// task's current status.
var ErrInvalidTransition = errors.New("invalid task transition")

// transitions is the client-visible lifecycle. The target of reject is a
// placeholder; the backend decides where a rejected task goes.
var transitions = map[model.TaskStatus]map[model.TaskAction]model.TaskStatus{
	model.TaskAssigned: {
		model.ActionStart: model.TaskStarted,
	},
	model.TaskStarted: {
		model.ActionPause:    model.TaskPaused,
		model.ActionComplete: model.TaskCompleted,
	},
	model.TaskPaused: {
		model.ActionResume:   model.TaskStarted,
		model.ActionComplete: model.TaskCompleted,
	},
	model.TaskCompleted: {
		model.ActionApprove: model.TaskApproved,
		model.ActionReject:  model.TaskRejected,
	},
}

// optimistic maps a successful action to the status shown before the next
// poll confirms it.
var optimistic = map[model.TaskAction]model.TaskStatus{
	model.ActionStart:    model.TaskStarted,
	model.ActionPause:    model.TaskPaused,
	model.ActionResume:   model.TaskStarted,
	model.ActionComplete: model.TaskCompleted,
	model.ActionApprove:  model.TaskApproved,
	model.ActionReject:   model.TaskRejected,
}

// pastTense is used for the fixed success messages.
var pastTense = map[model.TaskAction]string{
	model.ActionStart:    "started",
	model.ActionPause:    "paused",
	model.ActionResume:   "resumed",
	model.ActionComplete: "completed",
	model.ActionApprove:  "approved",
	model.ActionReject:   "rejected",
}

// Transition returns the status reached by applying action to from.
func Transition(from model.TaskStatus, action model.TaskAction) (model.TaskStatus, error) {
	to, ok := transitions[from][action]
	if !ok {
		return from, fmt.Errorf("%w: cannot %s a %s task", ErrInvalidTransition, action, from)
	}
	return to, nil
}

// AllowedActions lists the actions valid from status, in menu order.
func AllowedActions(status model.TaskStatus) []model.TaskAction {
	var out []model.TaskAction
	for _, a := range model.TaskActions {
		if _, ok := transitions[status][a]; ok {
			out = append(out, a)
		}
	}
	return out
}

// OptimisticStatus returns the status to show after action succeeds.
func OptimisticStatus(action model.TaskAction) (model.TaskStatus, bool) {
	s, ok := optimistic[action]
	return s, ok
}

// SuccessMessage is the notification text for a successful action.
func SuccessMessage(action model.TaskAction) string {
	verb, ok := pastTense[action]
	if !ok {
		verb = string(action) + "ed"
	}
	return fmt.Sprintf("Task %s successfully", verb)
}
