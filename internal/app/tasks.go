package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oox/furniture-console/internal/model"
	"github.com/oox/furniture-console/internal/warehouse"
)

// taskActionResultMsg is sent after a task action completes.
type taskActionResultMsg struct {
	taskID model.ID
	action model.TaskAction
	result warehouse.Result
}

// taskDeletedMsg is sent after a delete was confirmed or declined.
type taskDeletedMsg struct {
	taskID  model.ID
	deleted bool
	err     error
}

// taskLoadedMsg carries a task fetched for a notification link.
type taskLoadedMsg struct {
	taskID model.ID
	err    error
}

// performTask runs an action through the action service.
func (m *Model) performTask(id model.ID, action model.TaskAction, reason string) tea.Cmd {
	actions := m.actions
	ctx := m.sess.ctx
	return func() tea.Msg {
		res := actions.Perform(ctx, id, action, reason)
		return taskActionResultMsg{taskID: id, action: action, result: res}
	}
}

// deleteTask asks for confirmation and deletes the task.
func (m *Model) deleteTask(id model.ID) tea.Cmd {
	actions := m.actions
	ctx := m.sess.ctx
	return func() tea.Msg {
		ok, err := actions.Delete(ctx, id)
		return taskDeletedMsg{taskID: id, deleted: ok, err: err}
	}
}

// loadTask fetches a task that is not in the cached list and caches it.
func (m *Model) loadTask(id model.ID) tea.Cmd {
	client := m.client
	store := m.store
	ctx := m.sess.ctx
	return func() tea.Msg {
		task, err := client.GetTask(ctx, id)
		if err != nil {
			return taskLoadedMsg{taskID: id, err: err}
		}
		store.Dispatch(warehouse.UpsertTask{Task: *task})
		return taskLoadedMsg{taskID: id}
	}
}

// handleTaskResult updates the detail view and shows a toast.
func (m Model) handleTaskResult(msg taskActionResultMsg) (Model, tea.Cmd) {
	m.taskDetail.SetBusy(false)
	res := msg.result
	switch {
	case res.Success:
		m.toast(model.NotificationSuccess, warehouse.SuccessMessage(msg.action))
	case errors.Is(res.Err, warehouse.ErrActionInProgress):
		m.toast(model.NotificationWarning, "Please wait for the previous action to finish")
	case errors.Is(res.Err, context.Canceled):
	default:
		m.toast(model.NotificationError, "Failed to "+string(msg.action)+" task: "+res.Err.Error())
	}
	m.noteAuth(res.Err)
	return m, nil
}

// openTask shows the detail view for id, fetching the task when it is not
// in the cached list.
func (m Model) openTask(id model.ID) (Model, tea.Cmd) {
	if m.currentView != ViewDetail {
		m.detailReturn = m.currentView
	}
	m.currentView = ViewDetail
	m.detailID = id
	m.taskDetail.SetBusy(m.actions.Busy())

	if t, ok := m.store.State().Task(id); ok {
		m.taskDetail.SetTask(&t)
		return m, nil
	}
	m.taskDetail.SetTask(nil)
	return m, m.loadTask(id)
}

// syncDetail shows the cached copy of the open task.
func (m *Model) syncDetail(st warehouse.State) {
	if m.detailID == "" {
		return
	}
	if t, ok := st.Task(m.detailID); ok {
		m.taskDetail.SetTask(&t)
		return
	}
	m.taskDetail.SetTask(nil)
}
