package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// sendQueueSize bounds the per-connection event buffer. A peer that falls
// further behind than this loses frames.
const sendQueueSize = 16

// Hub fans turn-state events out to connected websocket clients. The
// browser uses the Submitting -> Settled cycle per session to drive its
// typing indicator and input gating.
type Hub struct {
	allowedOrigin string
	isDev         bool

	mu    sync.RWMutex
	conns map[*websocket.Conn]chan []byte
}

// NewHub creates an empty hub.
func NewHub(allowedOrigin string, isDev bool) *Hub {
	return &Hub{
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
		conns:         make(map[*websocket.Conn]chan []byte),
	}
}

// Notify implements Notifier. Each connection writes on its own
// goroutine, so a stalled peer never delays the turn that is settling;
// it just misses events. The chat endpoints remain the source of truth
// for transcript state.
func (h *Hub) Notify(ev TurnEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		slog.Warn("Failed to marshal turn event", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.conns {
		select {
		case ch <- payload:
		default:
			slog.Debug("Dropping turn event for slow websocket client")
		}
	}
}

// ServeHTTP upgrades the connection and holds it open until the client
// goes away. Clients only receive; inbound frames are discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "bye"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr)
		}
	}()

	h.register(ws)
	defer h.unregister(ws)

	slog.Info("Chat event stream connected", "ip", r.RemoteAddr)

	ctx := r.Context()
	for {
		if _, _, err := ws.Read(ctx); err != nil {
			return
		}
	}
}

// register adds the connection and starts its writer. The writer drains
// the send queue until the queue is closed or a write fails; after a
// failure the queue keeps absorbing (and dropping) events until the read
// loop notices the dead peer and unregisters it.
func (h *Hub) register(c *websocket.Conn) {
	ch := make(chan []byte, sendQueueSize)

	h.mu.Lock()
	h.conns[c] = ch
	h.mu.Unlock()

	go func() {
		for payload := range ch {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			err := c.Write(ctx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				slog.Debug("WebSocket write failed", "error", err)
				return
			}
		}
	}()
}

func (h *Hub) unregister(c *websocket.Conn) {
	h.mu.Lock()
	ch, ok := h.conns[c]
	delete(h.conns, c)
	h.mu.Unlock()
	// Notify sends while holding mu, so nothing can write to ch anymore.
	if ok {
		close(ch)
	}
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	if h.isDev || h.allowedOrigin == "" {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || strings.HasPrefix(origin, h.allowedOrigin)
}
