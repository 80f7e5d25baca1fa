package poll

import tea "github.com/charmbracelet/bubbletea"

// SnapshotMsg is a tea.Msg carrying a snapshot from a named source.
type SnapshotMsg[T any] struct {
	Source   string
	Snapshot Snapshot[T]
}

// Listen returns a tea.Cmd that waits for the next snapshot on ch. Call it
// again after handling the message to keep listening. It yields nil once
// the channel is closed.
func Listen[T any](source string, ch <-chan Snapshot[T]) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return SnapshotMsg[T]{Source: source, Snapshot: s}
	}
}
