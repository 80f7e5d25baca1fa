// Package warehouse owns the console's shared state: the cached task list
// and the notification list. State changes only through Store.Dispatch.
package warehouse

import (
	"sync"

	"github.com/oox/furniture-console/internal/model"
	"github.com/oox/furniture-console/internal/notify"
)

// State is an immutable snapshot of the shared state.
type State struct {
	Tasks         []model.Task
	Notifications []model.Notification
}

// Task looks up a cached task by id.
func (s State) Task(id model.ID) (model.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// UnreadCount counts unread notifications.
func (s State) UnreadCount() int { return notify.UnreadCount(s.Notifications) }

// Action is a state change understood by Reduce.
type Action interface {
	isAction()
}

// SetTasks replaces the cached task list.
type SetTasks struct{ Tasks []model.Task }

// UpsertTask inserts or replaces one task.
type UpsertTask struct{ Task model.Task }

// RemoveTask drops a task from the cache.
type RemoveTask struct{ ID model.ID }

// ApplyTaskAction records a successful task action.
type ApplyTaskAction struct {
	TaskID model.ID
	Action model.TaskAction
	Result model.TaskActionResult
}

// ApplyTaskUpdates merges updates reported by the updates feed.
type ApplyTaskUpdates struct{ Updates []model.TaskUpdate }

// AddNotification prepends a notification.
type AddNotification struct{ Notification model.Notification }

// MarkNotificationRead marks one notification read.
type MarkNotificationRead struct{ ID model.ID }

// MarkNotificationsRead marks a chosen set of notifications read.
type MarkNotificationsRead struct{ IDs []model.ID }

// Reset drops everything, e.g. after sign-out.
type Reset struct{}

func (SetTasks) isAction()              {}
func (UpsertTask) isAction()            {}
func (RemoveTask) isAction()            {}
func (ApplyTaskAction) isAction()       {}
func (ApplyTaskUpdates) isAction()      {}
func (AddNotification) isAction()       {}
func (MarkNotificationRead) isAction()  {}
func (MarkNotificationsRead) isAction() {}
func (Reset) isAction()                 {}

// Reduce returns the state after applying a. It never modifies s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetTasks:
		s.Tasks = append([]model.Task(nil), a.Tasks...)
	case UpsertTask:
		s.Tasks = upsert(s.Tasks, a.Task)
	case RemoveTask:
		s.Tasks = mapTasks(s.Tasks, func(t model.Task) (model.Task, bool) {
			return t, t.ID != a.ID
		})
	case ApplyTaskAction:
		s.Tasks = mapTasks(s.Tasks, func(t model.Task) (model.Task, bool) {
			if t.ID == a.TaskID {
				t = applyAction(t, a.Action, a.Result)
			}
			return t, true
		})
	case ApplyTaskUpdates:
		byID := make(map[model.ID]model.TaskUpdate, len(a.Updates))
		for _, u := range a.Updates {
			byID[u.TaskID] = u
		}
		s.Tasks = mapTasks(s.Tasks, func(t model.Task) (model.Task, bool) {
			if u, ok := byID[t.ID]; ok {
				if u.Status != "" {
					t.Status = u.Status
				}
				if u.TimeElapsed != nil {
					t.TimeElapsed = *u.TimeElapsed
				}
				if u.IsRunning != nil {
					t.IsRunning = *u.IsRunning
				}
			}
			return t, true
		})
	case AddNotification:
		s.Notifications = notify.Prepend(s.Notifications, a.Notification)
	case MarkNotificationRead:
		s.Notifications = notify.MarkRead(s.Notifications, a.ID)
	case MarkNotificationsRead:
		s.Notifications = notify.MarkManyRead(s.Notifications, a.IDs)
	case Reset:
		s = State{}
	}
	return s
}

func applyAction(t model.Task, action model.TaskAction, res model.TaskActionResult) model.Task {
	if status, ok := OptimisticStatus(action); ok {
		t.Status = status
	}
	if action == model.ActionReject && res.NewStatus != "" {
		t.Status = res.NewStatus
	}
	t.IsRunning = action == model.ActionStart || action == model.ActionResume
	t.CanStart = flag(res.CanStart)
	t.CanPause = flag(res.CanPause)
	t.CanComplete = flag(res.CanComplete)
	if res.TimeElapsed != nil {
		t.TimeElapsed = *res.TimeElapsed
	}
	return t
}

func flag(b *bool) bool { return b != nil && *b }

func mapTasks(in []model.Task, fn func(model.Task) (model.Task, bool)) []model.Task {
	out := make([]model.Task, 0, len(in))
	for _, t := range in {
		if t, keep := fn(t); keep {
			out = append(out, t)
		}
	}
	return out
}

func upsert(in []model.Task, task model.Task) []model.Task {
	out := make([]model.Task, 0, len(in)+1)
	found := false
	for _, t := range in {
		if t.ID == task.ID {
			t, found = task, true
		}
		out = append(out, t)
	}
	if !found {
		out = append(out, task)
	}
	return out
}

// Store serializes dispatches and publishes every new state.
type Store struct {
	mu    sync.Mutex
	state State
	subs  map[int]chan State
	next  int
}

// NewStore creates a store seeded with initial.
func NewStore(initial State) *Store {
	return &Store{state: initial, subs: make(map[int]chan State)}
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies a to the current state.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, a)
	for _, ch := range s.subs {
		offerLatest(ch, s.state)
	}
	return s.state
}

// Subscribe returns a channel that always holds the latest state and a
// func that cancels the subscription.
func (s *Store) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	ch := make(chan State, 1)
	ch <- s.state
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

// offerLatest replaces whatever the subscriber has not read yet.
func offerLatest(ch chan State, st State) {
	select {
	case ch <- st:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- st:
	default:
	}
}
