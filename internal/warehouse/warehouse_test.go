package warehouse

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oox/furniture-console/internal/api"
	"github.com/oox/furniture-console/internal/confirm"
	"github.com/oox/furniture-console/internal/model"
	"github.com/oox/furniture-console/internal/notify"
)

type fakeTaskAPI struct {
	mu      sync.Mutex
	calls   []model.TaskAction
	fail    map[model.TaskAction]error
	results map[model.TaskAction]model.TaskActionResult
	block   chan struct{}
	deleted []model.ID
}

func (f *fakeTaskAPI) PerformTaskAction(ctx context.Context, id model.ID, action model.TaskAction, reason string) (*model.TaskActionResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, action)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if err := f.fail[action]; err != nil {
		return nil, err
	}
	res := f.results[action]
	res.Success = true
	return &res, nil
}

func (f *fakeTaskAPI) CreateTask(ctx context.Context, in model.TaskInput) (*model.Task, error) {
	return &model.Task{ID: "99", Title: in.Title, Status: model.TaskAssigned, OrderID: in.OrderID}, nil
}

func (f *fakeTaskAPI) DeleteTask(ctx context.Context, id model.ID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeConfirmer struct {
	answer bool
	asked  []confirm.Options
}

func (f *fakeConfirmer) Confirm(ctx context.Context, opts confirm.Options) (bool, error) {
	f.asked = append(f.asked, opts)
	return f.answer, nil
}

func boolPtr(b bool) *bool { return &b }

func int64Ptr(n int64) *int64 { return &n }

func seededStore(status model.TaskStatus) *Store {
	return NewStore(State{Tasks: []model.Task{
		{ID: "1", Title: "Assemble wardrobe", Status: status, CanStart: true},
		{ID: "2", Title: "Paint shelf", Status: model.TaskAssigned},
	}})
}

func TestStartPauseCompleteScenario(t *testing.T) {
	store := seededStore(model.TaskAssigned)
	fake := &fakeTaskAPI{results: map[model.TaskAction]model.TaskActionResult{
		model.ActionStart: {CanPause: boolPtr(true), CanComplete: boolPtr(true)},
	}}
	actions := NewActions(fake, store, &fakeConfirmer{}, nil)
	ctx := context.Background()

	res := actions.Perform(ctx, "1", model.ActionStart, "")
	require.True(t, res.Success)
	task, _ := store.State().Task("1")
	assert.Equal(t, model.TaskStarted, task.Status)
	assert.True(t, task.IsRunning)
	assert.True(t, task.CanPause)
	assert.False(t, task.CanStart, "absent flag defaults to false")

	require.True(t, actions.Perform(ctx, "1", model.ActionPause, "").Success)
	task, _ = store.State().Task("1")
	assert.False(t, task.IsRunning)

	res = actions.Perform(ctx, "1", model.ActionComplete, "")
	require.True(t, res.Success)
	assert.Equal(t, model.TaskCompleted, res.Status)

	st := store.State()
	task, _ = st.Task("1")
	assert.Equal(t, model.TaskCompleted, task.Status)
	require.Len(t, st.Notifications, 3)
	for _, n := range st.Notifications {
		assert.Equal(t, model.NotificationSuccess, n.Type)
	}
	assert.Equal(t, "Task completed successfully", st.Notifications[0].Message)
	assert.Equal(t, "Task paused successfully", st.Notifications[1].Message)
	assert.Equal(t, "Task started successfully", st.Notifications[2].Message)

	other, _ := st.Task("2")
	assert.Equal(t, model.TaskAssigned, other.Status)
}

func TestFailedActionLeavesTaskUnchanged(t *testing.T) {
	for _, action := range []model.TaskAction{model.ActionStart, model.ActionPause, model.ActionResume, model.ActionComplete} {
		t.Run(string(action), func(t *testing.T) {
			store := seededStore(model.TaskStarted)
			before, _ := store.State().Task("1")
			boom := errors.New("Task is locked by another worker")
			fake := &fakeTaskAPI{fail: map[model.TaskAction]error{action: boom}}

			res := NewActions(fake, store, &fakeConfirmer{}, nil).Perform(context.Background(), "1", action, "")

			assert.False(t, res.Success)
			assert.ErrorIs(t, res.Err, boom)
			after, _ := store.State().Task("1")
			assert.Equal(t, before, after)

			st := store.State()
			require.Len(t, st.Notifications, 1)
			assert.Equal(t, model.NotificationError, st.Notifications[0].Type)
			assert.Contains(t, st.Notifications[0].Message, boom.Error())
		})
	}
}

func TestOptimisticStatusTable(t *testing.T) {
	tests := []struct {
		action model.TaskAction
		want   model.TaskStatus
	}{
		{model.ActionStart, model.TaskStarted},
		{model.ActionPause, model.TaskPaused},
		{model.ActionResume, model.TaskStarted},
		{model.ActionComplete, model.TaskCompleted},
		{model.ActionApprove, model.TaskApproved},
	}
	for _, tt := range tests {
		got, ok := OptimisticStatus(tt.action)
		require.True(t, ok)
		assert.Equal(t, tt.want, got, tt.action)
	}

	_, ok := OptimisticStatus("archive")
	assert.False(t, ok)
}

func TestRejectUsesServerStatus(t *testing.T) {
	store := seededStore(model.TaskCompleted)
	fake := &fakeTaskAPI{results: map[model.TaskAction]model.TaskActionResult{
		model.ActionReject: {NewStatus: model.TaskAssigned, CanStart: boolPtr(true)},
	}}

	res := NewActions(fake, store, &fakeConfirmer{}, nil).Perform(context.Background(), "1", model.ActionReject, "edges not sanded")
	require.True(t, res.Success)
	assert.Equal(t, model.TaskAssigned, res.Status)
	task, _ := store.State().Task("1")
	assert.True(t, task.CanStart)
}

func TestConcurrentActionIsRejected(t *testing.T) {
	store := seededStore(model.TaskAssigned)
	fake := &fakeTaskAPI{block: make(chan struct{})}
	actions := NewActions(fake, store, &fakeConfirmer{}, nil)

	done := make(chan Result, 1)
	go func() { done <- actions.Perform(context.Background(), "1", model.ActionStart, "") }()
	require.Eventually(t, actions.Busy, time.Second, 5*time.Millisecond)

	res := actions.Perform(context.Background(), "2", model.ActionStart, "")
	assert.ErrorIs(t, res.Err, ErrActionInProgress)

	close(fake.block)
	assert.True(t, (<-done).Success)
	assert.Len(t, fake.calls, 1)
	assert.False(t, actions.Busy())
}

func TestTransitionTable(t *testing.T) {
	to, err := Transition(model.TaskPaused, model.ActionComplete)
	require.NoError(t, err)
	assert.Equal(t, model.TaskCompleted, to)

	_, err = Transition(model.TaskAssigned, model.ActionPause)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	assert.Equal(t, []model.TaskAction{model.ActionPause, model.ActionComplete}, AllowedActions(model.TaskStarted))
	assert.Equal(t, []model.TaskAction{model.ActionApprove, model.ActionReject}, AllowedActions(model.TaskCompleted))
	assert.Empty(t, AllowedActions(model.TaskApproved))
}

func TestDeleteAsksFirst(t *testing.T) {
	store := seededStore(model.TaskAssigned)
	fake := &fakeTaskAPI{}
	confirmer := &fakeConfirmer{answer: false}
	actions := NewActions(fake, store, confirmer, nil)

	deleted, err := actions.Delete(context.Background(), "1")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Empty(t, fake.deleted)
	require.Len(t, confirmer.asked, 1)
	assert.Contains(t, confirmer.asked[0].Message, "Assemble wardrobe")

	confirmer.answer = true
	deleted, err = actions.Delete(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, deleted)
	_, ok := store.State().Task("1")
	assert.False(t, ok)
	assert.Equal(t, []model.ID{"1"}, fake.deleted)
}

func TestAssignCachesTask(t *testing.T) {
	store := NewStore(State{})
	actions := NewActions(&fakeTaskAPI{}, store, &fakeConfirmer{}, nil)

	task, err := actions.Assign(context.Background(), model.TaskInput{Title: "Cut panels", OrderID: "5"})
	require.NoError(t, err)
	cached, ok := store.State().Task(task.ID)
	require.True(t, ok)
	assert.Equal(t, "Cut panels", cached.Title)
}

func TestNotificationCapThroughStore(t *testing.T) {
	store := NewStore(State{})
	for i := 0; i < 25; i++ {
		st := store.Dispatch(AddNotification{Notification: model.Notification{ID: model.ID(fmt.Sprint(i))}})
		require.LessOrEqual(t, len(st.Notifications), notify.MaxItems)
		assert.Equal(t, model.ID(fmt.Sprint(i)), st.Notifications[0].ID)
	}
}

func TestApplyTaskUpdates(t *testing.T) {
	s := State{Tasks: []model.Task{{ID: "1", Status: model.TaskAssigned}, {ID: "2", Status: model.TaskStarted}}}
	out := Reduce(s, ApplyTaskUpdates{Updates: []model.TaskUpdate{
		{TaskID: "2", Status: model.TaskPaused, TimeElapsed: int64Ptr(300), IsRunning: boolPtr(false)},
		{TaskID: "unknown", Status: model.TaskStarted},
	}})

	assert.Equal(t, model.TaskStarted, s.Tasks[1].Status, "input untouched")
	assert.Equal(t, model.TaskPaused, out.Tasks[1].Status)
	assert.Equal(t, int64(300), out.Tasks[1].TimeElapsed)
	assert.Len(t, out.Tasks, 2)
}

func TestStatusOnlyUpdateKeepsTimer(t *testing.T) {
	s := State{Tasks: []model.Task{{ID: "1", Status: model.TaskStarted, TimeElapsed: 540, IsRunning: true}}}
	out := Reduce(s, ApplyTaskUpdates{Updates: []model.TaskUpdate{{TaskID: "1", Status: model.TaskCompleted}}})

	assert.Equal(t, model.TaskCompleted, out.Tasks[0].Status)
	assert.Equal(t, int64(540), out.Tasks[0].TimeElapsed)
	assert.True(t, out.Tasks[0].IsRunning)

	out = Reduce(out, ApplyTaskUpdates{Updates: []model.TaskUpdate{{TaskID: "1", IsRunning: boolPtr(false)}}})
	assert.Equal(t, model.TaskCompleted, out.Tasks[0].Status)
	assert.Equal(t, int64(540), out.Tasks[0].TimeElapsed)
	assert.False(t, out.Tasks[0].IsRunning)
}

func TestResetClearsState(t *testing.T) {
	s := State{
		Tasks:         []model.Task{{ID: "1"}},
		Notifications: []model.Notification{notify.Info("hi")},
	}
	out := Reduce(s, Reset{})
	assert.Empty(t, out.Tasks)
	assert.Empty(t, out.Notifications)
	assert.Len(t, s.Tasks, 1, "input untouched")
}

func TestStoreSubscribeSeesLatest(t *testing.T) {
	store := NewStore(State{})
	ch, cancel := store.Subscribe()
	defer cancel()

	<-ch
	store.Dispatch(AddNotification{Notification: notify.Info("one")})
	store.Dispatch(AddNotification{Notification: notify.Info("two")})

	st := <-ch
	require.Len(t, st.Notifications, 2)
	assert.Equal(t, "two", st.Notifications[0].Message)
}

type fakeNotificationAPI struct {
	single  []model.ID
	bulk    [][]model.ID
	bulkErr error
	during  func()
}

func (f *fakeNotificationAPI) MarkNotificationRead(ctx context.Context, id model.ID) error {
	f.single = append(f.single, id)
	return nil
}

func (f *fakeNotificationAPI) MarkNotificationsRead(ctx context.Context, ids []model.ID) (*api.MarkAllResult, error) {
	f.bulk = append(f.bulk, ids)
	if f.during != nil {
		f.during()
	}
	if f.bulkErr != nil {
		return nil, f.bulkErr
	}
	return &api.MarkAllResult{Updated: 1}, nil
}

func TestMarkAllReadMarksChosenSet(t *testing.T) {
	store := NewStore(State{})
	store.Dispatch(AddNotification{Notification: model.Notification{ID: "10", Message: "Order #10 ready"}})
	store.Dispatch(AddNotification{Notification: notify.Warning("Low stock: oak")})

	fake := &fakeNotificationAPI{}
	fake.during = func() {
		store.Dispatch(AddNotification{Notification: model.Notification{ID: "11", Message: "arrived mid-call"}})
	}
	svc := NewNotifications(fake, store)

	n, err := svc.MarkAllRead(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, [][]model.ID{{"10"}}, fake.bulk, "local notifications skip the server")

	st := store.State()
	assert.Equal(t, 1, st.UnreadCount())
	assert.Equal(t, model.ID("11"), st.Notifications[0].ID)
	assert.False(t, st.Notifications[0].IsRead)
}

func TestMarkAllReadFailureKeepsUnread(t *testing.T) {
	store := NewStore(State{})
	store.Dispatch(AddNotification{Notification: model.Notification{ID: "10"}})
	svc := NewNotifications(&fakeNotificationAPI{bulkErr: errors.New("offline")}, store)

	_, err := svc.MarkAllRead(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, store.State().UnreadCount())
}

func TestMarkReadIsIdempotent(t *testing.T) {
	store := NewStore(State{})
	store.Dispatch(AddNotification{Notification: model.Notification{ID: "10"}})
	fake := &fakeNotificationAPI{}
	svc := NewNotifications(fake, store)

	require.NoError(t, svc.MarkRead(context.Background(), "10"))
	once := store.State()
	require.NoError(t, svc.MarkRead(context.Background(), "10"))
	require.NoError(t, svc.MarkRead(context.Background(), "missing"))

	assert.Equal(t, once, store.State())
	assert.Equal(t, []model.ID{"10"}, fake.single)
}
