package proto

import (
	"encoding/json"
	"time"
)

// Inbound is the envelope for events coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

const (
	InboundTypeJoin    = "join"
	InboundTypeMessage = "message"
	InboundTypeLeave   = "leave"

	OutboundTypeError   = "error"
	OutboundTypeChats   = "chats"
	OutboundTypeJoin    = "join"
	OutboundTypeMessage = "message"
)

// JoinData requests a conversation with another user.
type JoinData struct {
	PeerID int64 `json:"peerId"`
}

// MessageData is a chat message from the client.
type MessageData struct {
	Text string `json:"text"`
}

// Outbound is the envelope for notifications sent to the client.
type Outbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// ErrorData carries a short human-readable reason for an error notice.
type ErrorData struct {
	Message string `json:"message"`
}

// ChatsData lists the peers the user has existing conversations with.
type ChatsData struct {
	PeerIDs []int64 `json:"peerIds"`
}

// Message is the wire form of a stored chat message.
type Message struct {
	Text     string    `json:"text"`
	Datetime time.Time `json:"datetime"`
	Room     string    `json:"room"`
	User     int64     `json:"user"`
}

// JoinReply delivers history, newest first, when a room is joined.
type JoinReply struct {
	Room     string    `json:"room"`
	Messages []Message `json:"messages"`
}
