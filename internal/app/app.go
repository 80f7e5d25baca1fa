package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oox/furniture-console/internal/analytics"
	"github.com/oox/furniture-console/internal/api"
	"github.com/oox/furniture-console/internal/auth"
	"github.com/oox/furniture-console/internal/events"
	"github.com/oox/furniture-console/internal/keys"
	"github.com/oox/furniture-console/internal/model"
	"github.com/oox/furniture-console/internal/poll"
	"github.com/oox/furniture-console/internal/realtime"
	"github.com/oox/furniture-console/internal/ui"
	"github.com/oox/furniture-console/internal/ui/command"
	configview "github.com/oox/furniture-console/internal/ui/config"
	"github.com/oox/furniture-console/internal/ui/confirmdialog"
	"github.com/oox/furniture-console/internal/ui/dashboard"
	"github.com/oox/furniture-console/internal/ui/entityform"
	helpview "github.com/oox/furniture-console/internal/ui/help"
	"github.com/oox/furniture-console/internal/ui/login"
	"github.com/oox/furniture-console/internal/ui/notifications"
	"github.com/oox/furniture-console/internal/ui/records"
	"github.com/oox/furniture-console/internal/ui/taskdetail"
	"github.com/oox/furniture-console/internal/ui/tasklist"
	"github.com/oox/furniture-console/internal/ui/toast"
	"github.com/oox/furniture-console/internal/warehouse"
)

// signedInMsg starts the session for user.
type signedInMsg struct {
	user *model.User
}

// loginFailedMsg reports a rejected sign-in.
type loginFailedMsg struct {
	err error
}

// needLoginMsg opens the sign-in form.
type needLoginMsg struct{}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewDashboard
	ViewTasks
	ViewDetail
	ViewNotifications
	ViewRecords
	ViewForm
	ViewSettings
	ViewHelp
	ViewCommand
)

// Deps are the services the root model drives.
type Deps struct {
	Config        *model.AppConfig
	ConfigPath    string
	Client        *api.Client
	Session       *auth.Session
	Store         *warehouse.Store
	Actions       *warehouse.Actions
	Notifications *warehouse.Notifications
	Confirm       warehouse.Confirmer
	Gate          *realtime.Gate
	Bus           *events.Bus
	Analytics     *analytics.DB
	Logger        *slog.Logger
}

// Model is the root Bubble Tea model that manages view routing, layout
// and the signed-in session.
type Model struct {
	currentView  ViewState
	previousView ViewState
	detailReturn ViewState
	formReturn   ViewState
	layout       ui.Layout
	keys         *keys.KeyMap

	cfg           *model.AppConfig
	client        *api.Client
	session       *auth.Session
	store         *warehouse.Store
	actions       *warehouse.Actions
	notifications *warehouse.Notifications
	confirm       warehouse.Confirmer
	gate          *realtime.Gate
	bus           *events.Bus
	analytics     *analytics.DB
	logger        *slog.Logger
	now           func() time.Time

	stateCh   <-chan warehouse.State
	stopState func()

	sess     *session
	sessions int

	loginView        login.Model
	dashboardView    dashboard.Model
	taskList         tasklist.Model
	taskDetail       taskdetail.Model
	notificationList notifications.Model
	recordsView      records.Model
	formView         entityform.Model
	settings         configview.Model
	helpView         helpview.Model
	commandView      command.Model
	confirmDialog    confirmdialog.Model
	toasts           toast.Model

	detailID       model.ID
	unread         int
	updates        poll.Snapshot[*model.Updates]
	sessionExpired bool
	ready          bool
}

// New creates the root model. The session may already be restored; the
// pollers start once the program runs.
func New(d Deps) Model {
	k := keys.DefaultKeyMap()
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	stateCh, stopState := d.Store.Subscribe()
	cfgPath := d.ConfigPath

	return Model{
		currentView:   ViewLogin,
		keys:          k,
		cfg:           d.Config,
		client:        d.Client,
		session:       d.Session,
		store:         d.Store,
		actions:       d.Actions,
		notifications: d.Notifications,
		confirm:       d.Confirm,
		gate:          d.Gate,
		bus:           d.Bus,
		analytics:     d.Analytics,
		logger:        logger,
		now:           time.Now,
		stateCh:       stateCh,
		stopState:     stopState,

		loginView:        login.New(d.Client.BaseURL(), 80, 24),
		dashboardView:    dashboard.New(80, 24),
		taskList:         tasklist.New(k, 80, 24),
		taskDetail:       taskdetail.New(k, 80, 24),
		notificationList: notifications.New(k, 80, 24),
		recordsView:      records.New(k, 80, 24),
		formView:         entityform.New(80, 24),
		settings: configview.New(func(cfg *model.AppConfig) error {
			return model.SaveConfig(cfgPath, cfg)
		}, 80, 24),
		helpView:      helpview.New(k, 80, 24),
		commandView:   command.New(80, 24),
		confirmDialog: confirmdialog.New(d.Bus, 80, 24),
		toasts:        toast.New(d.Bus, 80),
	}
}

// Init starts listening to the store and the event bus, and either resumes
// the restored session or asks the user to sign in.
func (m Model) Init() tea.Cmd {
	start := func() tea.Msg { return needLoginMsg{} }
	if u := m.session.User(); u != nil {
		start = func() tea.Msg { return signedInMsg{user: u} }
	}
	return tea.Batch(
		waitForState(m.stateCh),
		m.confirmDialog.Init(),
		m.toasts.Init(),
		start,
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Toasts and the confirm dialog sit above every view. The dialog is
	// modal: while it is open it receives all keys.
	var cmd tea.Cmd
	m.toasts, cmd = m.toasts.Update(msg)
	cmds = append(cmds, cmd)
	if _, isKey := msg.(tea.KeyMsg); !isKey || m.confirmDialog.Active() {
		m.confirmDialog, cmd = m.confirmDialog.Update(msg)
		cmds = append(cmds, cmd)
		if isKey {
			return m, tea.Batch(cmds...)
		}
	}

	next, cmd := m.handle(msg)
	cmds = append(cmds, cmd)
	return next, tea.Batch(cmds...)
}

func (m Model) handle(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.loginView.SetSize(w, h)
		m.dashboardView.SetSize(w, h)
		m.taskList.SetSize(w, h)
		m.taskDetail.SetSize(w, h)
		m.notificationList.SetSize(w, h)
		m.recordsView.SetSize(w, h)
		m.formView.SetSize(w, h)
		m.settings.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		m.confirmDialog.SetSize(w, h)
		m.toasts.SetWidth(w)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case stateMsg:
		st := warehouse.State(msg)
		m.unread = st.UnreadCount()
		m.notificationList.SetNotifications(st.Notifications)
		m.syncDetail(st)
		cmd := m.taskList.SetTasks(st.Tasks)
		return m, tea.Batch(cmd, waitForState(m.stateCh))

	case needLoginMsg:
		m.currentView = ViewLogin
		cmd := m.loginView.Start()
		return m, cmd

	case login.SubmitMsg:
		sess := m.session
		creds := msg.Credentials
		return m, func() tea.Msg {
			user, err := sess.Login(context.Background(), creds)
			if err != nil {
				return loginFailedMsg{err: err}
			}
			return signedInMsg{user: user}
		}

	case loginFailedMsg:
		m.logger.Warn("sign-in failed", "error", msg.err)
		cmd := m.loginView.Failed(msg.err)
		return m, cmd

	case login.QuitMsg:
		return m.quit()

	case signedInMsg:
		return m.signIn(msg.user)

	case poll.SnapshotMsg[*model.Updates]:
		s := m.sess
		if s == nil || msg.Source != s.name(sourceUpdates) {
			return m, nil
		}
		m.updates = msg.Snapshot
		m.noteAuth(msg.Snapshot.Err)
		return m, poll.Listen(msg.Source, s.updatesCh)

	case poll.SnapshotMsg[[]model.Task]:
		s := m.sess
		if s == nil || msg.Source != s.name(sourceTasks) {
			return m, nil
		}
		m.taskList.SetPollState(msg.Snapshot.Loading, msg.Snapshot.Err)
		m.noteAuth(msg.Snapshot.Err)
		return m, poll.Listen(msg.Source, s.tasksCh)

	case poll.SnapshotMsg[[]records.Record]:
		s := m.sess
		if s == nil || msg.Source != s.recordsName {
			return m, nil
		}
		m.recordsView.SetSnapshot(msg.Snapshot)
		m.noteAuth(msg.Snapshot.Err)
		return m, poll.Listen(msg.Source, s.recordsCh)

	case poll.SnapshotMsg[dashboard.Data]:
		s := m.sess
		if s == nil || s.dashboard == nil || msg.Source != s.name(sourceDashboard) {
			return m, nil
		}
		m.dashboardView.SetSnapshot(msg.Snapshot)
		m.noteAuth(msg.Snapshot.Err)
		return m, poll.Listen(msg.Source, s.dashboardCh)

	case tasklist.SelectedTaskMsg:
		return m.openTask(msg.TaskID)

	case tasklist.FilterChangedMsg:
		if s := m.sess; s != nil && s.tasks != nil {
			s.tasks.SetDeps(s.query.setStatus(msg.Status))
		}
		return m, nil

	case taskdetail.BackMsg:
		m.detailID = ""
		m.currentView = m.detailReturn
		return m, nil

	case taskdetail.ActionMsg:
		if m.actions.Busy() {
			m.toast(model.NotificationWarning, "Please wait for the previous action to finish")
			return m, nil
		}
		m.taskDetail.SetBusy(true)
		return m, m.performTask(msg.TaskID, msg.Action, msg.Reason)

	case taskdetail.DeleteMsg:
		return m, m.deleteTask(msg.TaskID)

	case taskActionResultMsg:
		return m.handleTaskResult(msg)

	case taskDeletedMsg:
		switch {
		case msg.err != nil:
			m.noteAuth(msg.err)
			m.toast(model.NotificationError, msg.err.Error())
		case msg.deleted:
			m.toast(model.NotificationSuccess, "Task deleted")
			if m.currentView == ViewDetail && m.detailID == msg.taskID {
				m.detailID = ""
				m.currentView = m.detailReturn
			}
		}
		return m, nil

	case taskLoadedMsg:
		if msg.err != nil {
			m.noteAuth(msg.err)
			m.toast(model.NotificationError, "Could not load task: "+msg.err.Error())
		}
		return m, nil

	case notifications.CloseMsg:
		return m.goHome()

	case notifications.MarkReadMsg:
		return m, m.markRead(msg.ID)

	case notifications.MarkAllReadMsg:
		return m, m.markAllRead()

	case notifications.OpenTaskMsg:
		return m.openTask(msg.TaskID)

	case notificationsMarkedMsg:
		switch {
		case msg.err != nil:
			m.noteAuth(msg.err)
			m.toast(model.NotificationError, msg.err.Error())
		case msg.all && msg.count > 0:
			m.toast(model.NotificationInfo, fmt.Sprintf("Marked %d notifications read", msg.count))
		}
		return m, nil

	case records.CloseMsg:
		return m.goHome()

	case records.NewMsg:
		if msg.Kind == records.KindOrders {
			return m, m.loadOrderFormOptions()
		}
		if kind, ok := formKindFor[msg.Kind]; ok {
			return m.openForm(kind, entityform.Options{})
		}
		return m, nil

	case records.DeleteMsg:
		return m, m.deleteRecord(msg.Kind, msg.Record)

	case records.ActionMsg:
		return m.recordAction(msg)

	case recordDeletedMsg:
		switch {
		case msg.err != nil:
			m.noteAuth(msg.err)
			m.toast(model.NotificationError, "Failed to delete "+msg.label+": "+msg.err.Error())
		case msg.deleted:
			m.toast(model.NotificationSuccess, "Deleted "+msg.label)
			m.refreshRecords()
		}
		return m, nil

	case deliveryUpdatedMsg:
		switch {
		case msg.err != nil:
			m.noteAuth(msg.err)
			m.toast(model.NotificationError, msg.err.Error())
		case msg.status != "":
			m.toast(model.NotificationSuccess, fmt.Sprintf("Delivery of %s: %s", msg.label, msg.status))
			m.refreshRecords()
		}
		return m, nil

	case imageSavedMsg:
		if msg.err != nil {
			m.noteAuth(msg.err)
			m.toast(model.NotificationError, msg.err.Error())
			return m, nil
		}
		m.toast(model.NotificationInfo, "Image saved to "+msg.path)
		return m, nil

	case formOptionsMsg:
		if msg.err != nil {
			m.noteAuth(msg.err)
			m.toast(model.NotificationError, msg.err.Error())
			return m, nil
		}
		return m.openForm(msg.kind, msg.opts)

	case entityform.SubmitMsg:
		return m, m.submitForm(msg.Kind, msg.Value)

	case entityform.CancelMsg:
		m.currentView = m.formReturn
		return m, nil

	case formResultMsg:
		if msg.err != nil {
			m.noteAuth(msg.err)
			cmd := m.formView.Reopen(msg.err)
			return m, cmd
		}
		m.logger.Info("record created", "form", msg.kind)
		m.toast(model.NotificationSuccess, msg.message)
		m.currentView = m.formReturn
		m.refreshRecords()
		return m, nil

	case configview.ConfigSavedMsg:
		m.currentView = m.previousView
		if msg.Err != nil {
			m.toast(model.NotificationError, msg.Err.Error())
			return m, nil
		}
		m.toast(model.NotificationSuccess, "Settings saved; changes apply on the next start")
		return m, nil

	case configview.ConfigDoneMsg:
		m.currentView = m.previousView
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m.executeCommand(string(msg))

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.currentView == ViewLogin {
			break
		}

		if (m.currentView == ViewCommand || m.currentView == ViewHelp) && key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil
		}

		if m.typing() {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.onScreen() {
				return m.quit()
			}

		case key.Matches(msg, m.keys.Help):
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case key.Matches(msg, m.keys.Command):
			m.previousView = m.currentView
			m.currentView = ViewCommand
			cmd := m.commandView.Focus()
			return m, cmd

		case key.Matches(msg, m.keys.Refresh):
			if m.onScreen() || m.currentView == ViewDetail {
				m.refreshAll()
				return m, nil
			}

		case key.Matches(msg, m.keys.Tasks):
			if m.session.Can(auth.ViewTasks) {
				return m.showScreen(ViewTasks)
			}

		case key.Matches(msg, m.keys.Notifications):
			return m.showScreen(ViewNotifications)

		case key.Matches(msg, m.keys.Dashboard):
			if m.session.Can(auth.ViewDashboard) {
				return m.showScreen(ViewDashboard)
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewDashboard:
		m.dashboardView, cmd = m.dashboardView.Update(msg)
	case ViewTasks:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewDetail:
		m.taskDetail, cmd = m.taskDetail.Update(msg)
	case ViewNotifications:
		m.notificationList, cmd = m.notificationList.Update(msg)
	case ViewRecords:
		m.recordsView, cmd = m.recordsView.Update(msg)
	case ViewForm:
		m.formView, cmd = m.formView.Update(msg)
	case ViewSettings:
		m.settings, cmd = m.settings.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// typing reports whether the active view owns printable keys.
func (m Model) typing() bool {
	switch m.currentView {
	case ViewLogin, ViewForm, ViewSettings, ViewCommand:
		return true
	case ViewDetail:
		return m.taskDetail.Editing()
	case ViewTasks:
		return m.taskList.Filtering()
	}
	return false
}

// onScreen reports whether a top-level screen is showing.
func (m Model) onScreen() bool {
	switch m.currentView {
	case ViewDashboard, ViewTasks, ViewNotifications, ViewRecords:
		return true
	}
	return false
}

// signIn prepares the views for user and starts the session.
func (m Model) signIn(user *model.User) (tea.Model, tea.Cmd) {
	m.sessionExpired = false
	m.helpView.SetUser(user)
	m.commandView.SetCommands(availableCommands(user.Role))
	m.taskDetail.SetPermissions(taskPermissions(user.Role))

	start := m.startSession(user)
	next, cmd := m.goHome()
	return next, tea.Batch(start, cmd)
}

func taskPermissions(role model.Role) taskdetail.Permissions {
	return taskdetail.Permissions{
		Work:   auth.Can(role, auth.WorkTasks),
		Review: auth.Can(role, auth.ReviewTasks),
		Delete: auth.Can(role, auth.DeleteTasks),
	}
}

// homeView is the first screen for the signed-in role.
func homeView(role model.Role) (ViewState, records.Kind) {
	switch {
	case auth.Can(role, auth.ViewDashboard):
		return ViewDashboard, ""
	case auth.Can(role, auth.ViewTasks):
		return ViewTasks, ""
	case auth.Can(role, auth.ViewDeliveries):
		return ViewRecords, records.KindDeliveries
	}
	return ViewNotifications, ""
}

func (m Model) goHome() (Model, tea.Cmd) {
	v, kind := homeView(m.session.Role())
	if v == ViewRecords {
		return m.showRecords(kind)
	}
	return m.showScreen(v)
}

// showScreen switches to a top-level screen and stops the pollers of
// screens that are no longer visible.
func (m Model) showScreen(v ViewState) (Model, tea.Cmd) {
	var cmd tea.Cmd
	if v != ViewRecords {
		m.sess.closeRecords()
	}
	if v == ViewDashboard {
		cmd = m.openDashboard()
	} else {
		m.sess.closeDashboard()
	}
	m.detailID = ""
	m.currentView = v
	return m, cmd
}

// showRecords opens a record collection.
func (m Model) showRecords(kind records.Kind) (Model, tea.Cmd) {
	role := m.session.Role()
	if perm, ok := recordPermission[kind]; !ok || !auth.Can(role, perm) {
		m.toast(model.NotificationWarning, "You do not have access to "+string(kind))
		return m, nil
	}
	m.sess.closeDashboard()
	m.recordsView.Open(recordSpec(kind, role, m.keys))
	cmd := m.openRecords(kind)
	m.detailID = ""
	m.currentView = ViewRecords
	return m, cmd
}

// recordAction runs a row action from a records table.
func (m Model) recordAction(msg records.ActionMsg) (Model, tea.Cmd) {
	switch msg.Action {
	case actionAssign:
		return m, m.loadAssignOptions(msg.Record.ID)
	case actionAdvance:
		if o, ok := msg.Record.Value.(model.Order); ok {
			return m, m.advanceDelivery(o)
		}
	case actionImage:
		if p, ok := msg.Record.Value.(model.Product); ok {
			return m, m.saveProductImage(p)
		}
	}
	return m, nil
}

func (m *Model) refreshRecords() {
	if m.sess != nil && m.sess.records != nil {
		m.sess.records.Refresh()
	}
}

// openForm shows a create form.
func (m Model) openForm(kind entityform.Kind, opts entityform.Options) (Model, tea.Cmd) {
	if m.currentView != ViewForm {
		m.formReturn = m.currentView
	}
	m.currentView = ViewForm
	cmd := m.formView.Start(kind, opts)
	return m, cmd
}

// logout ends the session and returns to the sign-in form.
func (m Model) logout() (Model, tea.Cmd) {
	m.sess.close()
	m.sess = nil
	if err := m.session.Logout(); err != nil {
		m.logger.Warn("sign-out", "error", err)
	}
	m.store.Dispatch(warehouse.Reset{})
	m.unread = 0
	m.detailID = ""
	m.updates = poll.Snapshot[*model.Updates]{}
	m.sessionExpired = false
	m.helpView.SetUser(nil)
	m.currentView = ViewLogin
	cmd := m.loginView.Start()
	return m, cmd
}

// quit stops every poller and exits the program.
func (m Model) quit() (Model, tea.Cmd) {
	m.sess.close()
	m.sess = nil
	m.stopState()
	m.confirmDialog.Close()
	m.toasts.Close()
	return m, tea.Quit
}

// noteAuth flags an expired session. The views keep their data.
func (m *Model) noteAuth(err error) {
	if api.IsAuthError(err) && !m.sessionExpired {
		m.sessionExpired = true
		m.logger.Warn("session expired", "error", err)
	}
}

func (m Model) toast(typ model.NotificationType, message string) {
	m.bus.ShowToast(typ, message, model.Interval(m.cfg.Notifications.ToastSec))
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	headerTitle := "OOX Furniture"
	if m.unread > 0 {
		headerTitle = fmt.Sprintf("OOX Furniture [%d new]", m.unread)
	}
	header := m.layout.RenderHeader(headerTitle, m.headerStatus())

	content := m.renderContent()
	if m.confirmDialog.Active() {
		content = m.layout.Overlay(m.confirmDialog.View())
	}

	var statusBar string
	if m.sessionExpired {
		statusBar = m.layout.RenderErrorBar("Session expired: run :logout and sign in again")
	} else {
		statusBar = m.layout.RenderStatusBar(m.keyHints())
	}

	layout := m.layout
	if m.toasts.Len() > 0 {
		statusBar = lipgloss.JoinVertical(lipgloss.Left, m.toasts.View(), statusBar)
		layout.StatusBarHeight = lipgloss.Height(statusBar)
	}

	return layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewTasks:
		return m.taskList.View()
	case ViewDetail:
		return m.taskDetail.View()
	case ViewNotifications:
		return m.notificationList.View()
	case ViewRecords:
		return m.recordsView.View()
	case ViewForm:
		return m.formView.View()
	case ViewSettings:
		return m.settings.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// headerStatus shows who is signed in and the state of the updates feed.
func (m Model) headerStatus() string {
	u := m.session.User()
	if u == nil {
		return "not signed in"
	}
	status := fmt.Sprintf("%s (%s)", u.DisplayName(), u.Role)
	if s := pollStatus(m.updates, m.now()); s != "" {
		status += " · " + s
	}
	return status
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewLogin:
		return "enter sign in | esc quit"
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | tab complete | esc back"
	case ViewDetail:
		if m.taskDetail.Editing() {
			return "enter reject | esc cancel"
		}
		return "esc back | j/k scroll | r refresh"
	case ViewNotifications:
		return "m mark read | M mark all read | enter open task | esc back"
	case ViewRecords:
		return ": command | ? help | q quit"
	case ViewForm, ViewSettings:
		return "enter next | shift+tab previous | esc cancel"
	case ViewTasks:
		return "enter open | tab filter | / search | r refresh | : command | ? help | q quit"
	default:
		return "T tasks | N notifications | r refresh | : command | ? help | q quit"
	}
}
