package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cuenta-app/cuenta/internal/account"
	"github.com/cuenta-app/cuenta/internal/logging"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	// Events buffered per subscriber before new ones are dropped
	subscriberBuffer = 16
)

type subscriber struct {
	userID string
	send   chan account.ProfileEvent
}

// Hub fans profile events out to the websocket subscribers of each user
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[*subscriber]struct{}
	closed bool
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*subscriber]struct{})}
}

// subscribe registers a subscriber for userID. The returned func unregisters it.
func (h *Hub) subscribe(userID string) (*subscriber, func()) {
	sub := &subscriber{userID: userID, send: make(chan account.ProfileEvent, subscriberBuffer)}

	h.mu.Lock()
	if h.closed {
		close(sub.send)
		h.mu.Unlock()
		return sub, func() {}
	}
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*subscriber]struct{})
	}
	h.subs[userID][sub] = struct{}{}
	h.mu.Unlock()

	return sub, func() { h.remove(sub) }
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.subs[sub.userID]
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, sub.userID)
	}
	close(sub.send)
}

// Publish delivers ev to every subscriber of ev.UserID without blocking.
// Slow subscribers miss events rather than stall the publisher.
func (h *Hub) Publish(ev account.ProfileEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[ev.UserID] {
		select {
		case sub.send <- ev:
		default:
			logging.Warn("Dropping event for slow subscriber",
				zap.String("user_id", ev.UserID),
				zap.String("type", string(ev.Type)))
		}
	}
}

// Subscribers returns the number of open streams for userID
func (h *Hub) Subscribers(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[userID])
}

// Close ends every stream
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for userID, set := range h.subs {
		for sub := range set {
			close(sub.send)
		}
		delete(h.subs, userID)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The CLI is not a browser; there is no origin to check
	CheckOrigin: func(r *http.Request) bool { return true },
}

// serveEvents upgrades the request and streams events for userID until
// either side goes away
func (h *Hub) serveEvents(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response
		logging.Warn("Event stream upgrade failed", zap.String("remote_addr", r.RemoteAddr), zap.Error(err))
		return
	}

	remoteAddr := r.RemoteAddr
	logging.LogConnection(remoteAddr, "event_stream_opened")

	sub, unsubscribe := h.subscribe(userID)
	defer unsubscribe()

	// Reader: handles pongs and notices the client closing
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		conn.SetReadLimit(maxMessageSize)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			logging.LogWebSocketMessage(remoteAddr, "received", msgType, data)
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
		logging.LogConnection(remoteAddr, "event_stream_closed")
	}()

	for {
		select {
		case ev, ok := <-sub.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				logging.Warn("Failed to write event", zap.String("remote_addr", remoteAddr), zap.Error(err))
				return
			}
			logging.Debug("Event sent",
				zap.String("remote_addr", remoteAddr),
				zap.String("type", string(ev.Type)))

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-readDone:
			return
		}
	}
}
