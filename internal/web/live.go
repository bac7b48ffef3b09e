package web

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sweeney/sensor-gateway/internal/record"
)

// The page is served from the gateway itself, so the upgrader's default
// same-origin check is the right policy for /live.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// liveWriteTimeout bounds each client write. A client that stops reading
// hits the deadline and is dropped instead of stalling the broadcast.
const liveWriteTimeout = time.Second

// liveHub fans accepted records out to connected WebSocket clients. Slow or
// broken clients are dropped rather than ever blocking ingestion.
type liveHub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func newLiveHub() *liveHub {
	return &liveHub{conns: make(map[*websocket.Conn]struct{})}
}

func (h *liveHub) add(c *websocket.Conn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
}

func (h *liveHub) remove(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
	c.Close()
}

// broadcast sends the record to every connected client, dropping clients
// whose writes fail.
func (h *liveHub) broadcast(r record.Record) {
	payload, err := formatLive(r)
	if err != nil {
		log.Printf("live: format record: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		c.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			delete(h.conns, c)
			c.Close()
		}
	}
}

// clientCount returns the number of connected clients.
func (h *liveHub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *liveHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		c.Close()
		delete(h.conns, c)
	}
}

func formatLive(r record.Record) ([]byte, error) {
	return json.Marshal(r)
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return
	}
	s.live.add(c)

	// Read loop only to observe the close; clients never send data.
	go func() {
		defer s.live.remove(c)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
