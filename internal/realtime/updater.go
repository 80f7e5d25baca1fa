// Package realtime polls the backend's updates feed and fans the deltas
// into the shared warehouse state.
package realtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/oox/furniture-console/internal/model"
	"github.com/oox/furniture-console/internal/poll"
	"github.com/oox/furniture-console/internal/warehouse"
)

// UpdatesAPI fetches the delta since a point in time. A zero since asks
// for everything.
type UpdatesAPI interface {
	GetRealTimeUpdates(ctx context.Context, since time.Time) (*model.Updates, error)
}

// Notifier escalates urgent notifications outside the terminal.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification)
}

// Updater keeps lastCheck and applies each delta to the store.
type Updater struct {
	api      UpdatesAPI
	store    *warehouse.Store
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time

	poller *poll.Poller[*model.Updates]

	mu        sync.Mutex
	lastCheck time.Time
	// mounted outlives a single fetch. Permission prompts started by the
	// notifier wait on the user and must not end with the fetch.
	mounted context.Context
}

// Config holds the Updater's collaborators.
type Config struct {
	API      UpdatesAPI
	Store    *warehouse.Store
	Notifier Notifier // optional
	Logger   *slog.Logger
	Interval time.Duration
	// Now overrides the clock in tests.
	Now         func() time.Time
	PollOptions []poll.Option
}

// New creates an Updater. Call Mount to start it.
func New(cfg Config) *Updater {
	u := &Updater{
		api:      cfg.API,
		store:    cfg.Store,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
		now:      cfg.Now,
	}
	if u.logger == nil {
		u.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if u.now == nil {
		u.now = time.Now
	}
	opts := append([]poll.Option{poll.WithLogger(u.logger)}, cfg.PollOptions...)
	u.poller = poll.New("updates", u.fetch, cfg.Interval, opts...)
	return u
}

// Source exposes the underlying poll state for status display.
func (u *Updater) Source() poll.Source[*model.Updates] { return u.poller }

// Mount performs the first check and starts polling.
func (u *Updater) Mount(ctx context.Context) {
	u.mu.Lock()
	u.mounted = ctx
	u.mu.Unlock()
	u.poller.Mount(ctx)
}

func (u *Updater) mountedContext() context.Context {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.mounted == nil {
		return context.Background()
	}
	return u.mounted
}

// Refresh checks for updates now.
func (u *Updater) Refresh() { u.poller.Refresh() }

// StopUpdates pauses polling.
func (u *Updater) StopUpdates() { u.poller.StopPolling() }

// StartUpdates resumes polling.
func (u *Updater) StartUpdates() { u.poller.StartPolling() }

// Close stops polling and discards in-flight results.
func (u *Updater) Close() { u.poller.Close() }

// LastCheck returns the start time of the latest attempt, or zero before
// the first one.
func (u *Updater) LastCheck() time.Time {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.lastCheck
}

// fetch advances lastCheck to the attempt's start whether or not the call
// succeeds, so a failed window is skipped rather than retried.
func (u *Updater) fetch(ctx context.Context) (*model.Updates, error) {
	u.mu.Lock()
	since := u.lastCheck
	u.mu.Unlock()

	started := u.now()
	updates, err := u.api.GetRealTimeUpdates(ctx, since)

	u.mu.Lock()
	u.lastCheck = started
	u.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("checking for updates: %w", err)
	}
	if ctx.Err() == nil {
		u.apply(u.mountedContext(), updates)
	}
	return updates, nil
}

func (u *Updater) apply(ctx context.Context, updates *model.Updates) {
	if updates == nil || !updates.HasUpdates {
		return
	}

	for _, n := range updates.Notifications {
		u.store.Dispatch(warehouse.AddNotification{Notification: n})
		if n.IsUrgent() && u.notifier != nil {
			u.notifier.Notify(ctx, n)
		}
	}

	for _, alert := range updates.StockAlerts {
		u.store.Dispatch(warehouse.AddNotification{Notification: StockNotification(alert, u.now())})
	}

	if len(updates.TaskUpdates) > 0 {
		u.store.Dispatch(warehouse.ApplyTaskUpdates{Updates: updates.TaskUpdates})
	}

	u.logger.Debug("updates applied",
		"notifications", len(updates.Notifications),
		"stock_alerts", len(updates.StockAlerts),
		"task_updates", len(updates.TaskUpdates))
}

// StockNotification turns a low-stock alert into a warning notification.
func StockNotification(alert model.StockAlert, at time.Time) model.Notification {
	return model.Notification{
		ID:        model.ID("stock-" + alert.ID.String()),
		Type:      model.NotificationWarning,
		Priority:  model.NotificationPriorityHigh,
		Message:   fmt.Sprintf("Low stock: %s has %s %s left", alert.MaterialName, quantity(alert.CurrentStock), alert.Unit),
		CreatedAt: at,
		Local:     true,
	}
}

func quantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
