package tasklist

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oox/furniture-console/internal/keys"
	"github.com/oox/furniture-console/internal/model"
)

func TestVisibleFiltersAndOrders(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	soon := now.Add(time.Hour)
	later := now.Add(48 * time.Hour)

	tasks := []model.Task{
		{ID: "1", Status: model.TaskAssigned, Priority: model.TaskPriorityLow, CreatedAt: now},
		{ID: "2", Status: model.TaskStarted, Priority: model.TaskPriorityCritical, CreatedAt: now},
		{ID: "3", Status: model.TaskAssigned, Priority: model.TaskPriorityHigh, Deadline: &later},
		{ID: "4", Status: model.TaskAssigned, Priority: model.TaskPriorityHigh, Deadline: &soon},
		{ID: "5", Status: model.TaskAssigned, Priority: model.TaskPriorityHigh},
	}

	tests := []struct {
		name   string
		status model.TaskStatus
		want   []model.ID
	}{
		{"all", "", []model.ID{"2", "4", "3", "5", "1"}},
		{"assigned only", model.TaskAssigned, []model.ID{"4", "3", "5", "1"}},
		{"nothing matches", model.TaskRejected, []model.ID{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Visible(tasks, tt.status)
			ids := make([]model.ID, len(got))
			for i, task := range got {
				ids[i] = task.ID
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestCycleFilterAnnouncesStatus(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetTasks([]model.Task{
		{ID: "1", Status: model.TaskAssigned},
		{ID: "2", Status: model.TaskStarted},
	})

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, model.TaskAssigned, m.Status())
	assert.Len(t, m.list.Items(), 1)

	require.NotNil(t, cmd)
	var changed *FilterChangedMsg
	for _, msg := range collect(cmd) {
		if fc, ok := msg.(FilterChangedMsg); ok {
			changed = &fc
		}
	}
	require.NotNil(t, changed)
	assert.Equal(t, model.TaskAssigned, changed.Status)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, model.TaskStatus(""), m.Status())
	assert.Len(t, m.list.Items(), 2)
}

func TestSelectEmitsTaskID(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetTasks([]model.Task{{ID: "42", Status: model.TaskAssigned, Title: "Sand legs"}})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, SelectedTaskMsg{TaskID: "42"}, cmd())
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "0m45s", FormatElapsed(45))
	assert.Equal(t, "4m12s", FormatElapsed(252))
	assert.Equal(t, "1h05m", FormatElapsed(3900))
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "", relativeTime(time.Time{}, now))
	assert.Equal(t, "just now", relativeTime(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", relativeTime(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", relativeTime(now.Add(-3*time.Hour), now))
	assert.Equal(t, "2d ago", relativeTime(now.Add(-50*time.Hour), now))
	assert.Equal(t, "2w ago", relativeTime(now.Add(-15*24*time.Hour), now))
}

// collect runs cmd and flattens batches.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, collect(c)...)
	}
	return out
}
