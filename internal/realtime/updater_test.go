package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oox/furniture-console/internal/confirm"
	"github.com/oox/furniture-console/internal/events"
	"github.com/oox/furniture-console/internal/model"
	"github.com/oox/furniture-console/internal/warehouse"
)

type fakeUpdatesAPI struct {
	mu      sync.Mutex
	since   []time.Time
	replies []reply
}

type reply struct {
	updates *model.Updates
	err     error
}

func (f *fakeUpdatesAPI) GetRealTimeUpdates(ctx context.Context, since time.Time) (*model.Updates, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.since = append(f.since, since)
	if len(f.replies) == 0 {
		return &model.Updates{}, nil
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r.updates, r.err
}

func (f *fakeUpdatesAPI) calls() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time(nil), f.since...)
}

type fakeNotifier struct {
	mu   sync.Mutex
	seen []model.Notification
}

func (f *fakeNotifier) Notify(ctx context.Context, n model.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, n)
}

type steppedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *steppedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

func ptr[T any](v T) *T { return &v }

func newUpdater(api UpdatesAPI, store *warehouse.Store, n Notifier, clock *steppedClock) *Updater {
	return New(Config{API: api, Store: store, Notifier: n, Interval: 0, Now: clock.Now})
}

func TestNoUpdatesLeavesStoreAndAdvancesLastCheck(t *testing.T) {
	store := warehouse.NewStore(warehouse.State{})
	before := store.State()
	api := &fakeUpdatesAPI{replies: []reply{{updates: &model.Updates{HasUpdates: false}}}}
	clock := &steppedClock{now: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}
	u := newUpdater(api, store, nil, clock)
	t.Cleanup(u.Close)

	assert.True(t, u.LastCheck().IsZero())
	u.Mount(context.Background())
	require.Eventually(t, func() bool { return !u.LastCheck().IsZero() }, time.Second, 5*time.Millisecond)

	assert.Equal(t, before, store.State())
	assert.Equal(t, time.Date(2025, 6, 1, 8, 1, 0, 0, time.UTC), u.LastCheck())
	assert.True(t, api.calls()[0].IsZero(), "first check has no since")
}

func TestFailedCheckStillAdvancesLastCheck(t *testing.T) {
	store := warehouse.NewStore(warehouse.State{})
	api := &fakeUpdatesAPI{replies: []reply{
		{updates: &model.Updates{}},
		{err: errors.New("gateway timeout")},
		{updates: &model.Updates{}},
	}}
	clock := &steppedClock{now: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}
	u := newUpdater(api, store, nil, clock)
	t.Cleanup(u.Close)

	u.Mount(context.Background())
	require.Eventually(t, func() bool { return len(api.calls()) == 1 }, time.Second, 5*time.Millisecond)

	u.Refresh()
	require.Eventually(t, func() bool { return u.Source().Snapshot().Err != nil }, time.Second, 5*time.Millisecond)
	u.Refresh()
	require.Eventually(t, func() bool { return len(api.calls()) == 3 }, time.Second, 5*time.Millisecond)

	calls := api.calls()
	assert.Equal(t, time.Date(2025, 6, 1, 8, 1, 0, 0, time.UTC), calls[1])
	assert.Equal(t, time.Date(2025, 6, 1, 8, 2, 0, 0, time.UTC), calls[2], "failed window is skipped")
}

func TestUpdatesFanOut(t *testing.T) {
	store := warehouse.NewStore(warehouse.State{Tasks: []model.Task{{ID: "4", Status: model.TaskAssigned}}})
	api := &fakeUpdatesAPI{replies: []reply{{updates: &model.Updates{
		HasUpdates: true,
		Notifications: []model.Notification{
			{ID: "31", Message: "Order #12 is overdue", Type: model.NotificationError, Priority: model.NotificationPriorityCritical},
			{ID: "32", Message: "Task approved", Type: model.NotificationInfo},
		},
		StockAlerts: []model.StockAlert{{ID: "7", MaterialName: "Oak plank", CurrentStock: 2.5, MinimumStock: 10, Unit: "m²"}},
		TaskUpdates: []model.TaskUpdate{{TaskID: "4", Status: model.TaskStarted, IsRunning: ptr(true), TimeElapsed: ptr[int64](60)}},
	}}}}
	notifier := &fakeNotifier{}
	u := newUpdater(api, store, notifier, &steppedClock{})
	t.Cleanup(u.Close)

	u.Mount(context.Background())
	require.Eventually(t, func() bool { return len(store.State().Notifications) == 3 }, time.Second, 5*time.Millisecond)

	st := store.State()
	stock := st.Notifications[0]
	assert.Equal(t, model.ID("stock-7"), stock.ID)
	assert.Equal(t, model.NotificationWarning, stock.Type)
	assert.Equal(t, model.NotificationPriorityHigh, stock.Priority)
	assert.Equal(t, "Low stock: Oak plank has 2.5 m² left", stock.Message)
	assert.Equal(t, model.ID("32"), st.Notifications[1].ID)
	assert.Equal(t, model.ID("31"), st.Notifications[2].ID)

	require.Eventually(t, func() bool {
		task, _ := store.State().Task("4")
		return task.Status == model.TaskStarted
	}, time.Second, 5*time.Millisecond)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.Len(t, notifier.seen, 1)
	assert.Equal(t, model.ID("31"), notifier.seen[0].ID)
}

func TestStopAndStartUpdates(t *testing.T) {
	store := warehouse.NewStore(warehouse.State{})
	u := New(Config{API: &fakeUpdatesAPI{}, Store: store, Interval: time.Hour})
	t.Cleanup(u.Close)
	u.Mount(context.Background())

	u.StopUpdates()
	u.StopUpdates()
	assert.False(t, u.poller.IsPolling())
	u.StartUpdates()
	assert.True(t, u.poller.IsPolling())
}

func TestPermissionPromptOutlivesFetch(t *testing.T) {
	bus := events.NewBus()
	opens, stopOpens := bus.ConfirmOpen.Subscribe(4)
	t.Cleanup(stopOpens)
	broker := confirm.NewBroker(bus)
	t.Cleanup(broker.Close)

	sender := &recordingSender{}
	gate := NewGate(true, func(ctx context.Context) (bool, error) {
		return broker.Confirm(ctx, confirm.Options{Title: "Desktop notifications"})
	}, WithSender(sender.send))

	store := warehouse.NewStore(warehouse.State{})
	api := &fakeUpdatesAPI{replies: []reply{{updates: &model.Updates{
		HasUpdates:    true,
		Notifications: []model.Notification{urgent("Order #12 is overdue")},
	}}}}
	u := newUpdater(api, store, gate, &steppedClock{})
	t.Cleanup(u.Close)
	u.Mount(context.Background())

	var open events.ConfirmOpen
	select {
	case open = <-opens:
	case <-time.After(time.Second):
		t.Fatal("permission dialog never opened")
	}

	// The fetch is over before the user answers.
	require.Eventually(t, func() bool { return u.Source().Snapshot().HasData }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, 1, broker.Pending())

	bus.ConfirmAnswered.Publish(events.ConfirmAnswered{ID: open.ID, Result: true})

	require.Eventually(t, func() bool { return gate.Permission() == PermissionGranted }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return sender.count() == 1 }, time.Second, 5*time.Millisecond)
}
