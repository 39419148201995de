package core

import "github.com/stackingup/chat-server/internal/store"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventChats delivers the list of peers the user has conversations with.
	EventChats EventKind = iota
	// EventHistory delivers message history to a client upon joining a room.
	EventHistory
	// EventMessage notifies room members about a new chat message.
	EventMessage
	// EventError notifies a client about a domain error.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind     EventKind
	Room     string
	PeerIDs  []int64          // for EventChats
	Message  *store.Message   // for EventMessage
	Messages []*store.Message // for EventHistory, newest first
	Error    *CoreError       // for EventError
}
