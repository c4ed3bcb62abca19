package server

import (
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type wsMsg struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

func snapshotMsg(identity, doc string) wsMsg {
	return wsMsg{Type: "snapshot", Data: map[string]string{"identity": identity, "doc": doc}}
}

// hubClient wraps one overlay connection. The websocket package allows a
// single concurrent writer per conn, and overlapping uploads broadcast from
// separate request goroutines, so every write goes through the mutex.
type hubClient struct {
	id   string
	conn *websocket.Conn

	writeMu sync.Mutex
}

func (c *hubClient) write(msg wsMsg) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(msg)
}

// Hub tracks connected overlay clients per identity and pushes each
// accepted snapshot to them so overlays update without polling.
type Hub struct {
	mu      sync.Mutex
	clients map[string]map[string]*hubClient // identity -> client id -> client
}

func NewHub() *Hub {
	return &Hub{clients: map[string]map[string]*hubClient{}}
}

func (h *Hub) add(identity string, conn *websocket.Conn) *hubClient {
	cl := &hubClient{id: uuid.NewString(), conn: conn}
	h.mu.Lock()
	if h.clients[identity] == nil {
		h.clients[identity] = map[string]*hubClient{}
	}
	h.clients[identity][cl.id] = cl
	n := len(h.clients[identity])
	h.mu.Unlock()
	log.Printf("hub: overlay connected identity=%s client=%s (count=%d)", identity, cl.id, n)
	return cl
}

func (h *Hub) remove(identity, id string) {
	h.mu.Lock()
	if conns := h.clients[identity]; conns != nil {
		delete(conns, id)
		if len(conns) == 0 {
			delete(h.clients, identity)
		}
	}
	h.mu.Unlock()
	log.Printf("hub: overlay disconnected identity=%s client=%s", identity, id)
}

// Broadcast pushes a snapshot to every overlay client of an identity.
// Write errors only drop the one client; the read loop cleans it up.
func (h *Hub) Broadcast(identity, doc string) {
	h.mu.Lock()
	clients := make([]*hubClient, 0, len(h.clients[identity]))
	for _, cl := range h.clients[identity] {
		clients = append(clients, cl)
	}
	h.mu.Unlock()
	msg := snapshotMsg(identity, doc)
	for _, cl := range clients {
		if err := cl.write(msg); err != nil {
			log.Printf("hub: write identity=%s client=%s: %v", identity, cl.id, err)
		}
	}
}
