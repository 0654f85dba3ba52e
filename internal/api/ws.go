package api

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// hub fans simulation updates out to connected websocket clients.
type hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	log     *zap.Logger
}

func newHub(log *zap.Logger) *hub {
	return &hub{
		clients: make(map[*websocket.Conn]bool),
		log:     log,
	}
}

func (h *hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[conn] {
		delete(h.clients, conn)
		_ = conn.Close()
	}
}

// broadcast pushes one JSON frame to every client. Clients that fail to
// take the write are dropped.
func (h *hub) broadcast(v interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(v); err != nil {
			h.log.Warn("websocket write failed, dropping client", zap.Error(err))
			delete(h.clients, conn)
			_ = conn.Close()
		}
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	s.log.Info("websocket client connected", zap.String("remote", conn.RemoteAddr().String()))

	// Send the current round before joining the hub, so a fresh client
	// renders immediately and the conn only ever has one writer at a time.
	if snap, ok := s.sim.Snapshot(); ok {
		_ = conn.WriteJSON(roundUpdate{
			Type:  "round_update",
			Round: snap.Round,
			Graph: snap.Graph,
			Stats: snap.Stats,
		})
	}

	s.hub.add(conn)
	defer s.hub.remove(conn)

	// Inbound frames are ignored, the read loop only notices disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
