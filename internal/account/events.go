package account

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cuenta-app/cuenta/internal/logging"
	"github.com/cuenta-app/cuenta/internal/urls"
)

// DefaultHandshakeTimeout bounds the websocket upgrade
const DefaultHandshakeTimeout = 5 * time.Second

// EventsURL returns the websocket URL of the event stream for userID
func (c *Client) EventsURL(userID string) string {
	base := c.BaseURL
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + urls.UserEvents(userID)
}

// WatchProfile subscribes to profile events for userID.
// The returned channel is closed when ctx is done or the stream ends.
// A profile_updated event also invalidates the profile cache.
func (c *Client) WatchProfile(ctx context.Context, userID string) (<-chan ProfileEvent, error) {
	if userID == "" {
		return nil, NewValidationError("user id is required")
	}

	header := http.Header{}
	if c.Token != "" {
		header.Set("Authorization", "Bearer "+c.Token)
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: DefaultHandshakeTimeout,
	}

	target := c.EventsURL(userID)
	conn, resp, err := dialer.DialContext(ctx, target, header)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusUnauthorized {
				return nil, NewAuthError("event stream rejected the token")
			}
			return nil, NewHTTPError(resp.StatusCode, "event stream handshake failed")
		}
		return nil, NewNetworkError("event stream unavailable", err)
	}

	logging.LogConnection(target, "event_stream_opened")

	events := make(chan ProfileEvent, 8)

	// Unblock ReadJSON when the caller goes away
	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
		}
		_ = conn.Close()
	}()

	go func() {
		defer close(events)
		defer close(stop)

		for {
			var ev ProfileEvent
			if err := conn.ReadJSON(&ev); err != nil {
				if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logging.Warn("Event stream closed", zap.String("url", target), zap.Error(err))
				}
				logging.LogConnection(target, "event_stream_closed")
				return
			}

			if ev.Type == EventProfileUpdated {
				c.InvalidateCache()
			}

			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}
