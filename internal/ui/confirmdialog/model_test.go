package confirmdialog

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oox/furniture-console/internal/events"
)

func open(t *testing.T, m Model, bus *events.Bus, req events.ConfirmOpen) Model {
	t.Helper()
	require.Equal(t, 1, bus.ConfirmOpen.Publish(req))
	m, _ = m.Update(m.waitOpen()())
	require.True(t, m.Active())
	return m
}

// settle feeds msg to m, then feeds back whatever its commands produce
// right away. Commands that wait on the bus or on a timer are dropped.
func settle(m Model, msg tea.Msg) Model {
	queue := []tea.Msg{msg}
	for i := 0; len(queue) > 0 && i < 50; i++ {
		var cmd tea.Cmd
		m, cmd = m.Update(queue[0])
		queue = append(queue[1:], run(cmd)...)
	}
	return m
}

func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	out := make(chan tea.Msg, 1)
	go func() { out <- cmd() }()

	select {
	case msg := <-out:
		switch msg := msg.(type) {
		case nil:
			return nil
		case tea.BatchMsg:
			var msgs []tea.Msg
			for _, c := range msg {
				msgs = append(msgs, run(c)...)
			}
			return msgs
		}
		return []tea.Msg{msg}
	case <-time.After(20 * time.Millisecond):
		return nil
	}
}

func TestChoiceAnswersByID(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want bool
	}{
		{name: "confirm button", keys: []tea.KeyMsg{{Type: tea.KeyLeft}, {Type: tea.KeyEnter}}, want: true},
		{name: "accept shortcut", keys: []tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune("y")}}, want: true},
		{name: "cancel button", keys: []tea.KeyMsg{{Type: tea.KeyEnter}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := events.NewBus()
			answers, cancel := bus.ConfirmAnswered.Subscribe(1)
			defer cancel()

			m := New(bus, 80, 24)
			defer m.Close()
			m = open(t, m, bus, events.ConfirmOpen{ID: "c7", Title: "Delete order?", ConfirmText: "Delete", CancelText: "Keep"})

			for _, k := range tt.keys {
				m = settle(m, k)
			}
			assert.False(t, m.Active())

			select {
			case got := <-answers:
				assert.Equal(t, events.ConfirmAnswered{ID: "c7", Result: tt.want}, got)
			case <-time.After(time.Second):
				t.Fatal("no answer published")
			}
		})
	}
}

func TestSubscribesOnCreate(t *testing.T) {
	bus := events.NewBus()
	m := New(bus, 80, 24)
	assert.True(t, bus.ConfirmOpen.HasSubscribers())

	m.Close()
	assert.False(t, bus.ConfirmOpen.HasSubscribers())
	assert.False(t, bus.ConfirmClosed.HasSubscribers())
}

func TestEscAnswersFalse(t *testing.T) {
	bus := events.NewBus()
	answers, cancel := bus.ConfirmAnswered.Subscribe(1)
	defer cancel()

	m := New(bus, 80, 24)
	defer m.Close()
	m = open(t, m, bus, events.ConfirmOpen{
		ID: "c1", Title: "Delete?", Message: "Gone for good", ConfirmText: "Delete", CancelText: "Keep",
		Variant: events.VariantDanger,
	})
	assert.Contains(t, m.View(), "Delete?")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.Active())
	assert.Empty(t, m.View())

	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, events.ConfirmAnswered{ID: "c1", Result: false}, <-answers)
}

func TestClosedDropsMatchingDialog(t *testing.T) {
	bus := events.NewBus()
	m := New(bus, 80, 24)
	defer m.Close()
	m = open(t, m, bus, events.ConfirmOpen{ID: "c1", Title: "Sure?", ConfirmText: "Yes", CancelText: "No"})

	bus.ConfirmClosed.Publish(events.ConfirmClosed{ID: "other"})
	m, _ = m.Update(m.waitClose()())
	assert.True(t, m.Active(), "close for another id is ignored")

	bus.ConfirmClosed.Publish(events.ConfirmClosed{ID: "c1"})
	m, _ = m.Update(m.waitClose()())
	assert.False(t, m.Active())
}

func TestKeysIgnoredWhenInactive(t *testing.T) {
	m := New(events.NewBus(), 80, 24)
	defer m.Close()

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.Active())
	assert.Nil(t, cmd)
}
