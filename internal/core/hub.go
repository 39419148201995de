package core

import "sync"

// Hub is the broadcast transport: it tracks which client sits in which room
// and fans events out to room members. A client belongs to at most one room
// at a time; joining a new room implicitly leaves the previous one, so
// repeated join/leave cycles can never stack memberships.
type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room
	membership map[*Client]string
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		membership: make(map[*Client]string),
	}
}

// Join subscribes the client to the room with the given key, leaving its
// current room first if it has one.
func (h *Hub) Join(c *Client, key string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.membership[c]; ok {
		if current == key {
			return
		}
		h.removeLocked(c, current)
	}

	r, ok := h.rooms[key]
	if !ok {
		r = NewRoom(key)
		h.rooms[key] = r
	}
	r.AddClient(c)
	h.membership[c] = key
}

// Leave removes the client from its current room, if any.
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.membership[c]; ok {
		h.removeLocked(c, current)
	}
}

// RoomOf returns the key of the room the client currently sits in.
func (h *Hub) RoomOf(c *Client) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	key, ok := h.membership[c]
	return key, ok
}

// Broadcast fans an event out to every client currently in the room.
func (h *Hub) Broadcast(key string, event *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if r, ok := h.rooms[key]; ok {
		r.Broadcast(event)
	}
}

func (h *Hub) removeLocked(c *Client, key string) {
	delete(h.membership, c)
	if r, ok := h.rooms[key]; ok {
		r.RemoveClient(c)
		if r.Empty() {
			delete(h.rooms, key)
		}
	}
}
