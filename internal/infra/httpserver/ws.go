package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Origin checks are handled by the CORS middleware in front.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// GET /v1/{tenant}/feed?since=<seq>
// Streams job change events for the tenant. The optional since parameter
// replays buffered events first so reconnecting clients can catch up;
// duplicates across reconnects are expected and harmless.
func (r *Router) handleFeed(w http.ResponseWriter, req *http.Request) {
	tenant := chi.URLParam(req, "tenant")
	since, _ := strconv.ParseInt(req.URL.Query().Get("since"), 10, 64)

	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.log.Warn("websocket upgrade failed", "tenant", tenant, "error", err)
		return
	}
	defer conn.Close()

	sub := r.hub.Subscribe(tenant)
	defer r.hub.Unsubscribe(sub)

	// Backlog before live events; Publish keeps sequence numbers
	// monotonic, so clients de-duplicate on seq.
	for _, event := range r.hub.Since(tenant, since) {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(event); err != nil {
			return
		}
	}

	// Drain client frames to observe close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event := <-sub.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
