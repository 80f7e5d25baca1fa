package app

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oox/furniture-console/internal/api"
	"github.com/oox/furniture-console/internal/auth"
	"github.com/oox/furniture-console/internal/model"
	"github.com/oox/furniture-console/internal/poll"
	"github.com/oox/furniture-console/internal/realtime"
	"github.com/oox/furniture-console/internal/ui/dashboard"
	"github.com/oox/furniture-console/internal/ui/records"
	"github.com/oox/furniture-console/internal/warehouse"
)

// Poller names used to route snapshot messages.
const (
	sourceTasks     = "tasks"
	sourceUpdates   = "updates"
	sourceDashboard = "dashboard"
)

// stateMsg carries a new warehouse state to the views.
type stateMsg warehouse.State

// waitForState returns a command that delivers the next store state.
func waitForState(ch <-chan warehouse.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return nil
		}
		return stateMsg(st)
	}
}

// taskQuery is the task filter shared between the view and the fetch
// goroutine.
type taskQuery struct {
	mu     sync.Mutex
	filter api.TaskFilter
}

func (q *taskQuery) get() api.TaskFilter {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.filter
}

func (q *taskQuery) setStatus(s model.TaskStatus) api.TaskFilter {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.filter.Status = s
	return q.filter
}

// session holds everything that lives only while a user is signed in.
// Source names carry the session id so snapshots from an earlier session
// are not routed to this one.
type session struct {
	id     int
	ctx    context.Context
	cancel context.CancelFunc

	query     *taskQuery
	tasks     *poll.Poller[[]model.Task]
	tasksCh   <-chan poll.Snapshot[[]model.Task]
	updates   *realtime.Updater
	updatesCh <-chan poll.Snapshot[*model.Updates]

	records     *poll.Poller[[]records.Record]
	recordsCh   <-chan poll.Snapshot[[]records.Record]
	recordsName string
	recordsGen  int

	dashboard   *poll.Poller[dashboard.Data]
	dashboardCh <-chan poll.Snapshot[dashboard.Data]
}

func (s *session) name(base string) string {
	return base + "#" + strconv.Itoa(s.id)
}

// close stops every poller of the session.
func (s *session) close() {
	if s == nil {
		return
	}
	if s.tasks != nil {
		s.tasks.Close()
	}
	if s.updates != nil {
		s.updates.Close()
	}
	s.closeRecords()
	s.closeDashboard()
	s.cancel()
}

func (s *session) closeRecords() {
	if s == nil || s.records == nil {
		return
	}
	s.records.Close()
	s.records = nil
	s.recordsName = ""
}

func (s *session) closeDashboard() {
	if s == nil || s.dashboard == nil {
		return
	}
	s.dashboard.Close()
	s.dashboard = nil
}

// startSession mounts the pollers for the signed-in user and returns the
// commands listening to them. Workers only see their own tasks.
func (m *Model) startSession(user *model.User) tea.Cmd {
	m.sess.close()
	m.sessions++

	ctx, cancel := context.WithCancel(context.Background())
	s := &session{id: m.sessions, ctx: ctx, cancel: cancel, query: &taskQuery{}}
	if user.Role == model.RoleWarehouseWorker {
		s.query.filter.WorkerID = user.ID
	}
	s.query.filter.Status = m.taskList.Status()
	m.sess = s

	var cmds []tea.Cmd

	var notifier realtime.Notifier
	if m.gate != nil {
		notifier = m.gate
	}
	s.updates = realtime.New(realtime.Config{
		API:      m.client,
		Store:    m.store,
		Notifier: notifier,
		Logger:   m.logger,
		Interval: model.Interval(m.cfg.Polling.UpdatesIntervalSec),
	})
	s.updatesCh = s.updates.Source().Subscribe()
	cmds = append(cmds, poll.Listen(s.name(sourceUpdates), s.updatesCh))
	s.updates.Mount(ctx)

	if auth.Can(user.Role, auth.ViewTasks) {
		s.tasks = m.newTaskPoller(s.query)
		s.tasks.SetDeps(s.query.get())
		s.tasksCh = s.tasks.Subscribe()
		cmds = append(cmds, poll.Listen(s.name(sourceTasks), s.tasksCh))
		s.tasks.Mount(ctx)
	}

	return tea.Batch(cmds...)
}

// newTaskPoller builds the task list poller. Each successful fetch
// replaces the cached tasks in the store.
func (m *Model) newTaskPoller(q *taskQuery) *poll.Poller[[]model.Task] {
	client := m.client
	store := m.store
	fetch := func(ctx context.Context) ([]model.Task, error) {
		tasks, err := client.ListTasks(ctx, q.get())
		if err != nil {
			return nil, err
		}
		if ctx.Err() == nil {
			store.Dispatch(warehouse.SetTasks{Tasks: tasks})
		}
		return tasks, nil
	}
	return poll.New(m.sess.name(sourceTasks), fetch,
		model.Interval(m.cfg.Polling.TasksIntervalSec),
		poll.WithLogger(m.logger))
}

// openRecords replaces the records poller with one for kind.
func (m *Model) openRecords(kind records.Kind) tea.Cmd {
	s := m.sess
	s.closeRecords()
	s.recordsGen++

	name := s.name("records:"+string(kind)) + "." + strconv.Itoa(s.recordsGen)
	s.records = poll.New(name, recordsFetch(kind, m.client),
		recordsInterval(kind, m.cfg),
		poll.WithLogger(m.logger))
	s.recordsName = name
	s.recordsCh = s.records.Subscribe()
	s.records.Mount(s.ctx)
	return poll.Listen(name, s.recordsCh)
}

// openDashboard mounts the dashboard poller. The analytics database is
// reloaded from fresh order and task lists on every refresh.
func (m *Model) openDashboard() tea.Cmd {
	s := m.sess
	if s.dashboard != nil {
		s.dashboard.Refresh()
		return nil
	}

	client := m.client
	db := m.analytics
	withSummary := auth.Can(m.session.Role(), auth.ViewWarehouse)
	now := m.now

	fetch := func(ctx context.Context) (dashboard.Data, error) {
		orders, err := client.ListOrders(ctx, "")
		if err != nil {
			return dashboard.Data{}, err
		}
		tasks, err := client.ListTasks(ctx, api.TaskFilter{})
		if err != nil {
			return dashboard.Data{}, err
		}
		if err := db.Load(ctx, orders, tasks); err != nil {
			return dashboard.Data{}, fmt.Errorf("loading analytics: %w", err)
		}
		report, err := db.Report(ctx, now())
		if err != nil {
			return dashboard.Data{}, fmt.Errorf("building report: %w", err)
		}

		data := dashboard.Data{Report: report}
		if withSummary {
			summary, err := client.GetWarehouseSummary(ctx)
			if err != nil {
				return dashboard.Data{}, err
			}
			data.Summary = summary
		}
		return data, nil
	}

	s.dashboard = poll.New(s.name(sourceDashboard), fetch,
		model.Interval(m.cfg.Polling.DashboardIntervalSec),
		poll.WithLogger(m.logger))
	s.dashboardCh = s.dashboard.Subscribe()
	s.dashboard.Mount(s.ctx)
	return poll.Listen(s.name(sourceDashboard), s.dashboardCh)
}

// refreshAll refetches every mounted source.
func (m *Model) refreshAll() {
	s := m.sess
	if s == nil {
		return
	}
	if s.updates != nil {
		s.updates.Refresh()
	}
	if s.tasks != nil {
		s.tasks.Refresh()
	}
	if s.records != nil {
		s.records.Refresh()
	}
	if s.dashboard != nil {
		s.dashboard.Refresh()
	}
}

// pollStatus summarizes the updates feed for the header.
func pollStatus(snap poll.Snapshot[*model.Updates], now time.Time) string {
	switch {
	case snap.Err != nil:
		return "⚠ offline"
	case snap.Loading && !snap.HasData:
		return "connecting"
	case snap.FetchedAt.IsZero():
		return ""
	case now.Sub(snap.FetchedAt) < time.Minute:
		return "live"
	default:
		return "updated " + snap.FetchedAt.Local().Format("15:04")
	}
}
