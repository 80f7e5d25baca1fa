package api

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/oox/furniture-console/internal/model"
)

// SinceLayout is the ISO 8601 layout sent in the since parameter.
const SinceLayout = "2006-01-02T15:04:05.000Z07:00"

// GetRealTimeUpdates returns notifications, task updates and stock alerts
// created after since. A zero since asks for everything.
func (c *Client) GetRealTimeUpdates(ctx context.Context, since time.Time) (*model.Updates, error) {
	path := "/api/warehouse/updates/"
	if !since.IsZero() {
		path += "?since=" + url.QueryEscape(since.UTC().Format(SinceLayout))
	}

	var u model.Updates
	if err := c.Get(ctx, path, &u); err != nil {
		return nil, fmt.Errorf("fetching updates: %w", err)
	}
	return &u, nil
}

// MarkNotificationRead marks one notification read on the server.
func (c *Client) MarkNotificationRead(ctx context.Context, id model.ID) error {
	path := "/api/notifications/" + url.PathEscape(id.String()) + "/read/"
	if err := c.Post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("marking notification %s read: %w", id, err)
	}
	return nil
}

type markAllRequest struct {
	IDs []model.ID `json:"ids"`
}

// MarkAllResult reports how many notifications the server updated.
type MarkAllResult struct {
	Updated int `json:"updated"`
}

// MarkNotificationsRead marks the given notifications read in one call.
func (c *Client) MarkNotificationsRead(ctx context.Context, ids []model.ID) (*MarkAllResult, error) {
	var res MarkAllResult
	if err := c.Post(ctx, "/api/notifications/mark-all-read/", markAllRequest{IDs: ids}, &res); err != nil {
		return nil, fmt.Errorf("marking notifications read: %w", err)
	}
	return &res, nil
}
