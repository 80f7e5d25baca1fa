package notify

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oox/furniture-console/internal/model"
)

func numbered(n int) model.Notification {
	return model.Notification{ID: model.ID(fmt.Sprintf("n%d", n)), Message: fmt.Sprintf("event %d", n)}
}

func TestPrependKeepsNewestTen(t *testing.T) {
	var list []model.Notification
	for i := 1; i <= 15; i++ {
		list = Prepend(list, numbered(i))
		assert.LessOrEqual(t, len(list), MaxItems)
	}

	require.Len(t, list, MaxItems)
	for i, n := range list {
		assert.Equal(t, model.ID(fmt.Sprintf("n%d", 15-i)), n.ID)
	}
}

func TestPrependDoesNotMutateInput(t *testing.T) {
	list := []model.Notification{numbered(1), numbered(2)}
	out := Prepend(list, numbered(3))

	assert.Equal(t, model.ID("n1"), list[0].ID)
	assert.Equal(t, []model.ID{"n3", "n1", "n2"}, ids(out))
}

func TestMarkRead(t *testing.T) {
	tests := []struct {
		name   string
		id     model.ID
		unread int
	}{
		{name: "known id", id: "n2", unread: 2},
		{name: "unknown id", id: "missing", unread: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := []model.Notification{numbered(1), numbered(2), numbered(3)}

			once := MarkRead(list, tt.id)
			twice := MarkRead(once, tt.id)

			assert.Equal(t, tt.unread, UnreadCount(once))
			assert.Equal(t, once, twice)
			assert.Equal(t, 3, UnreadCount(list), "input untouched")
		})
	}
}

func TestUnreadIDs(t *testing.T) {
	list := []model.Notification{numbered(1), numbered(2), numbered(3)}
	list[1].IsRead = true

	assert.Equal(t, []model.ID{"n1", "n3"}, UnreadIDs(list))
	assert.Zero(t, UnreadCount(MarkManyRead(list, UnreadIDs(list))))
}

func TestConstructorsAreLocal(t *testing.T) {
	a := Success("Task started successfully")
	b := Error("Failed to pause task: boom")

	assert.NotEqual(t, a.ID, b.ID)
	assert.True(t, a.Local)
	assert.Equal(t, model.NotificationSuccess, a.Type)
	assert.Equal(t, model.NotificationError, b.Type)
	assert.False(t, a.IsRead)
	assert.Equal(t, model.NotificationWarning, Warning("low").Type)
	assert.Equal(t, model.NotificationInfo, Info("fyi").Type)
}

func ids(list []model.Notification) []model.ID {
	out := make([]model.ID, 0, len(list))
	for _, n := range list {
		out = append(out, n.ID)
	}
	return out
}
