package api

import (
	"context"
	"net/http"
	"net/url"

	"mesadoc.org/internal/notify"
)

// UnseenNotifications fetches the notifications not yet acknowledged,
// most-recent-first as sorted by the server.
func (c *Client) UnseenNotifications(ctx context.Context) ([]notify.Notification, error) {
	q := url.Values{}
	q.Set("leido", "false")
	var items []notify.Notification
	if err := c.do(ctx, http.MethodGet, "/notificaciones", q, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// UnreadCount fetches the authoritative unread counter.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var resp struct {
		Count int `json:"total"`
	}
	if err := c.do(ctx, http.MethodGet, "/notificaciones/unread-count", nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// MarkNotificationRead acknowledges a single notification.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/notificaciones/"+url.PathEscape(id)+"/read", nil, nil, nil)
}

// MarkAllNotificationsRead acknowledges every pending notification.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/notificaciones/read-all", nil, nil, nil)
}
