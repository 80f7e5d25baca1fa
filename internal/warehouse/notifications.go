package warehouse

import (
	"context"
	"fmt"

	"github.com/oox/furniture-console/internal/api"
	"github.com/oox/furniture-console/internal/model"
	"github.com/oox/furniture-console/internal/notify"
)

// NotificationAPI is the subset of the backend client used for read
// tracking.
type NotificationAPI interface {
	MarkNotificationRead(ctx context.Context, id model.ID) error
	MarkNotificationsRead(ctx context.Context, ids []model.ID) (*api.MarkAllResult, error)
}

// Notifications keeps read state in sync with the backend.
type Notifications struct {
	api   NotificationAPI
	store *Store
}

// NewNotifications wires the read-tracking service.
func NewNotifications(api NotificationAPI, store *Store) *Notifications {
	return &Notifications{api: api, store: store}
}

// MarkRead marks one notification read on the backend, then locally.
// Unknown ids are ignored.
func (n *Notifications) MarkRead(ctx context.Context, id model.ID) error {
	var found *model.Notification
	for _, item := range n.store.State().Notifications {
		if item.ID == id {
			found = &item
			break
		}
	}
	if found == nil || found.IsRead {
		return nil
	}

	if !found.Local {
		if err := n.api.MarkNotificationRead(ctx, id); err != nil {
			return fmt.Errorf("marking notification %s read: %w", id, err)
		}
	}
	n.store.Dispatch(MarkNotificationRead{ID: id})
	return nil
}

// MarkAllRead picks the currently unread notifications, marks them read on
// the backend in one call and then marks exactly that set locally. Items
// that arrive during the call stay unread. It returns how many were marked.
func (n *Notifications) MarkAllRead(ctx context.Context) (int, error) {
	list := n.store.State().Notifications
	chosen := notify.UnreadIDs(list)
	if len(chosen) == 0 {
		return 0, nil
	}

	local := make(map[model.ID]bool, len(list))
	for _, item := range list {
		local[item.ID] = item.Local
	}
	var remote []model.ID
	for _, id := range chosen {
		if !local[id] {
			remote = append(remote, id)
		}
	}

	if len(remote) > 0 {
		if _, err := n.api.MarkNotificationsRead(ctx, remote); err != nil {
			return 0, err
		}
	}
	n.store.Dispatch(MarkNotificationsRead{IDs: chosen})
	return len(chosen), nil
}
