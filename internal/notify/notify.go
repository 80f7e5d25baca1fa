// Package notify holds the pure operations on the in-memory notification
// list: newest first, capped at MaxItems.
package notify

import (
	"time"

	"github.com/google/uuid"

	"github.com/oox/furniture-console/internal/model"
)

// MaxItems is the number of notifications kept.
const MaxItems = 10

// Prepend returns a new list with n in front, truncated to MaxItems.
// The input slice is not modified.
func Prepend(list []model.Notification, n model.Notification) []model.Notification {
	size := len(list) + 1
	if size > MaxItems {
		size = MaxItems
	}
	out := make([]model.Notification, 0, size)
	out = append(out, n)
	for _, existing := range list {
		if len(out) == MaxItems {
			break
		}
		out = append(out, existing)
	}
	return out
}

// MarkRead returns a copy of list with the notification id marked read.
// Unknown ids leave the list unchanged.
func MarkRead(list []model.Notification, id model.ID) []model.Notification {
	return MarkManyRead(list, []model.ID{id})
}

// MarkManyRead marks every listed id as read.
func MarkManyRead(list []model.Notification, ids []model.ID) []model.Notification {
	want := make(map[model.ID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]model.Notification, len(list))
	copy(out, list)
	for i := range out {
		if _, ok := want[out[i].ID]; ok {
			out[i].IsRead = true
		}
	}
	return out
}

// UnreadIDs lists the ids of unread notifications in list order.
func UnreadIDs(list []model.Notification) []model.ID {
	var ids []model.ID
	for _, n := range list {
		if !n.IsRead {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// UnreadCount counts unread notifications.
func UnreadCount(list []model.Notification) int {
	count := 0
	for _, n := range list {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// New builds a local notification.
func New(typ model.NotificationType, message string) model.Notification {
	return model.Notification{
		ID:        model.ID(uuid.NewString()),
		Message:   message,
		Type:      typ,
		CreatedAt: time.Now(),
		Local:     true,
	}
}

func Success(message string) model.Notification { return New(model.NotificationSuccess, message) }
func Error(message string) model.Notification   { return New(model.NotificationError, message) }
func Info(message string) model.Notification    { return New(model.NotificationInfo, message) }
func Warning(message string) model.Notification { return New(model.NotificationWarning, message) }
