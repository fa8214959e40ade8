// Package stream pushes finished traffic models to subscribed WebSocket
// clients, grounded on dxcluster_websocket.go's upgrader and per-connection
// write-mutex pattern.
package stream

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/flate"

	"github.com/cwsl/rhythmic/internal/model"
)

// Hub broadcasts assembled traffic models to all connected WebSocket clients.
type Hub struct {
	clients   map[*websocket.Conn]*sync.Mutex
	clientsMu sync.RWMutex
	upgrader  websocket.Upgrader
	logger    *log.Logger
}

// NewHub creates a Hub whose upgrader negotiates permessage-deflate; each
// upgraded connection then sets a klauspost/compress flate level, since a
// TrafficModel's JSON (especially energy_distribution and many coefficients)
// benefits from compression over slow links.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*sync.Mutex),
		upgrader: websocket.Upgrader{
			ReadBufferSize:    1024,
			WriteBufferSize:   1024,
			EnableCompression: true,
			CheckOrigin:       func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// HandleWebSocket upgrades the request and registers the connection as a
// subscriber of future Broadcast calls.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logf("stream: upgrade failed: %v", err)
		return
	}
	conn.EnableWriteCompression(true)
	conn.SetCompressionLevel(flate.BestSpeed)

	h.clientsMu.Lock()
	h.clients[conn] = &sync.Mutex{}
	h.clientsMu.Unlock()

	go h.readLoop(conn)
}

// readLoop drains and discards client frames until the connection closes,
// at which point the client is deregistered.
func (h *Hub) readLoop(conn *websocket.Conn) {
	defer func() {
		h.clientsMu.Lock()
		delete(h.clients, conn)
		h.clientsMu.Unlock()
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast sends the traffic model to every connected subscriber.
func (h *Hub) Broadcast(runID string, m model.TrafficModel) {
	payload, err := json.Marshal(struct {
		RunID string             `json:"run_id"`
		Model model.TrafficModel `json:"model"`
	}{RunID: runID, Model: m})
	if err != nil {
		h.logf("stream: marshal failed: %v", err)
		return
	}

	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	for conn, mu := range h.clients {
		mu.Lock()
		err := conn.WriteMessage(websocket.TextMessage, payload)
		mu.Unlock()
		if err != nil {
			h.logf("stream: write failed: %v", err)
		}
	}
}

func (h *Hub) logf(format string, args ...any) {
	if h.logger == nil {
		return
	}
	h.logger.Printf(format, args...)
}
