package gateway

import (
	"log/slog"
	"sync"

	"github.com/typeracehq/typerace/internal/model"
)

// Hub tracks all connected clients and their room-channel memberships.
// A connection joins a room channel on successful join/create and leaves
// it on leave/destroy; room-scoped broadcasts go only to channel
// members, lobby-scoped broadcasts go to everyone.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	rooms   map[model.RoomID]map[*Client]bool
	logger  *slog.Logger
}

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		rooms:   make(map[model.RoomID]map[*Client]bool),
		logger:  logger.With(slog.String("component", "hub")),
	}
}

// Register adds a connected client
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client connected",
		slog.String("user_id", string(client.identity.UserID)),
		slog.Int("total_clients", total))
}

// Unregister removes a client and drops all of its room memberships
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	for roomID, members := range h.rooms {
		if members[client] {
			delete(members, client)
			if len(members) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
	total := len(h.clients)
	close(client.send)
	h.mu.Unlock()

	h.logger.Info("client disconnected",
		slog.String("user_id", string(client.identity.UserID)),
		slog.Int("total_clients", total))
}

// Subscribe adds a client to a room channel
func (h *Hub) Subscribe(client *Client, roomID model.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[*Client]bool)
		h.rooms[roomID] = members
	}
	members[client] = true
}

// Unsubscribe removes a client from a room channel
func (h *Hub) Unsubscribe(client *Client, roomID model.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[roomID]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// CloseRoom drops a room channel entirely. Clients stay connected; they
// are simply no longer room members.
func (h *Hub) CloseRoom(roomID model.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, roomID)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomClientCount returns the number of channel members for a room
func (h *Hub) RoomClientCount(roomID model.RoomID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// SendTo delivers a message to a single client
func (h *Hub) SendTo(client *Client, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	h.deliver(client, message)
}

// BroadcastAll delivers a message to every connected client
func (h *Hub) BroadcastAll(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		h.deliver(client, message)
	}
}

// BroadcastOthers delivers a message to every client except the sender
func (h *Hub) BroadcastOthers(sender *Client, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if client != sender {
			h.deliver(client, message)
		}
	}
}

// BroadcastRoom delivers a message to every member of a room channel
func (h *Hub) BroadcastRoom(roomID model.RoomID, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[roomID] {
		h.deliver(client, message)
	}
}

// deliver enqueues a message without blocking; callers hold h.mu
func (h *Hub) deliver(client *Client, message []byte) {
	select {
	case client.send <- message:
	default:
		h.logger.Warn("message dropped - client buffer full",
			slog.String("user_id", string(client.identity.UserID)))
	}
}
