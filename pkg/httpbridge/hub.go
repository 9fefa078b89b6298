package httpbridge

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// TraceEventKind discriminates the streamed event variants.
type TraceEventKind string

const (
	TraceAccessed TraceEventKind = "accessed"
	TraceRendered TraceEventKind = "rendered"
	TraceLink     TraceEventKind = "link"
)

// TraceEvent is one resolver event as sent to trace subscribers.
type TraceEvent struct {
	Kind   TraceEventKind `json:"kind"`
	ResID  string         `json:"resid,omitempty"`
	Caller string         `json:"caller,omitempty"`
	Callee string         `json:"callee,omitempty"`
	Time   time.Time      `json:"time"`
}

// TraceHub manages WebSocket subscribers to the live event stream. It
// implements the reporter interfaces, so attaching it to a chain is
// all the wiring needed.
type TraceHub struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
}

// NewTraceHub creates a trace hub with no subscribers.
func NewTraceHub() *TraceHub {
	return &TraceHub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// The trace stream is a development tool.
				return true
			},
		},
	}
}

// HandleWebSocket upgrades the request and keeps the subscription open
// until the client disconnects.
func (h *TraceHub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// Accessed implements report.Reporter.
func (h *TraceHub) Accessed(id string) {
	h.broadcast(TraceEvent{Kind: TraceAccessed, ResID: id, Time: time.Now()})
}

// Rendered implements report.Reporter.
func (h *TraceHub) Rendered(id string) {
	h.broadcast(TraceEvent{Kind: TraceRendered, ResID: id, Time: time.Now()})
}

// Edge implements report.EdgeReporter.
func (h *TraceHub) Edge(caller, callee string) {
	h.broadcast(TraceEvent{Kind: TraceLink, Caller: caller, Callee: callee, Time: time.Now()})
}

func (h *TraceHub) broadcast(ev TraceEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			h.mu.Lock()
			delete(h.clients, client)
			h.mu.Unlock()
			client.Close()
		}
	}
}

// ClientCount returns the number of connected subscribers.
func (h *TraceHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close drops all subscribers.
func (h *TraceHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}
