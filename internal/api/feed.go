package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/phrazzld/novatasks-api/internal/authz"
	"github.com/phrazzld/novatasks-api/internal/domain"
	"github.com/phrazzld/novatasks-api/internal/events"
	"github.com/phrazzld/novatasks-api/internal/platform/logger"
)

const (
	feedWriteWait  = 10 * time.Second
	feedPongWait   = 60 * time.Second
	feedPingPeriod = (feedPongWait * 9) / 10
	feedSendBuffer = 16
	feedReadLimit  = 512
)

// FeedHub streams task events over WebSocket connections.
//
// Each connection only receives events for tasks its caller may read, as
// decided by authz.Permit. A connection whose send buffer is full is dropped
// rather than blocking the publisher.
type FeedHub struct {
	upgrader websocket.Upgrader
	origins  []string
	logger   *slog.Logger

	mu      sync.Mutex
	clients map[*feedClient]struct{}
	closed  bool
}

type feedClient struct {
	conn   *websocket.Conn
	caller domain.Caller
	send   chan []byte
}

var _ events.EventHandler = (*FeedHub)(nil)

// NewFeedHub creates a hub accepting upgrades from the given browser origins.
// Requests without an Origin header and same-host origins are always accepted.
func NewFeedHub(allowedOrigins []string, logger *slog.Logger) *FeedHub {
	if logger == nil {
		logger = slog.Default()
	}
	h := &FeedHub{
		origins: allowedOrigins,
		logger:  logger.With("component", "feed_hub"),
		clients: make(map[*feedClient]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *FeedHub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.origins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	u, err := url.Parse(origin)
	return err == nil && strings.EqualFold(u.Host, r.Host)
}

// ServeHTTP upgrades an authenticated request and serves the connection
// until the peer goes away or the hub is closed.
func (h *FeedHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		log.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &feedClient{
		conn:   conn,
		caller: caller,
		send:   make(chan []byte, feedSendBuffer),
	}
	if !h.register(client) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(feedWriteWait))
		_ = conn.Close()
		return
	}

	log.Info("feed connection opened", "user_id", caller.ID, "admin", caller.IsAdmin())

	go h.writePump(client)
	h.readPump(client, log)

	log.Info("feed connection closed", "user_id", caller.ID)
}

// HandleEvent implements events.EventHandler by fanning the event out to
// every connection allowed to read the task.
func (h *FeedHub) HandleEvent(ctx context.Context, event *events.TaskEvent) error {
	payload, err := json.Marshal(FeedMessage{
		Type:      string(event.Type),
		Task:      newTaskResponse(&event.Task),
		ActorID:   event.ActorID,
		CreatedAt: event.CreatedAt,
	})
	if err != nil {
		return err
	}

	var slow []*feedClient
	delivered := 0

	h.mu.Lock()
	for client := range h.clients {
		if authz.Permit(client.caller, &event.Task, authz.ActionRead) == authz.Deny {
			continue
		}
		select {
		case client.send <- payload:
			delivered++
		default:
			slow = append(slow, client)
		}
	}
	h.mu.Unlock()

	log := logger.FromContextOrDefault(ctx, h.logger)
	for _, client := range slow {
		log.Warn("dropping slow feed connection", "user_id", client.caller.ID)
		h.unregister(client)
	}
	log.Debug("task event broadcast",
		"event_type", event.Type,
		"task_id", event.Task.ID,
		"delivered", delivered)

	return nil
}

// ConnectionCount returns the number of open feed connections.
func (h *FeedHub) ConnectionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and refuses new ones.
func (h *FeedHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}

func (h *FeedHub) register(client *feedClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[client] = struct{}{}
	return true
}

// unregister removes client and closes its send channel, which stops its
// writer. Safe to call more than once.
func (h *FeedHub) unregister(client *feedClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

// writePump is the only goroutine writing to the connection.
func (h *FeedHub) writePump(client *feedClient) {
	ticker := time.NewTicker(feedPingPeriod)
	defer func() {
		ticker.Stop()
		_ = client.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if !ok {
				_ = client.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.unregister(client)
				return
			}
		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.unregister(client)
				return
			}
		}
	}
}

// readPump discards client frames and keeps the read deadline alive with pongs.
// It returns when the connection fails or closes.
func (h *FeedHub) readPump(client *feedClient, log *slog.Logger) {
	defer h.unregister(client)

	client.conn.SetReadLimit(feedReadLimit)
	_ = client.conn.SetReadDeadline(time.Now().Add(feedPongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(feedPongWait))
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("feed connection read error", "error", err)
			}
			return
		}
	}
}
