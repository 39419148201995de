package store

import (
	"context"
	"time"
)

// SystemUserID authors placeholder messages that seed a freshly created room
// so it shows up in conversation lists before anyone has written anything.
const SystemUserID int64 = 0

// DefaultHistoryLimit caps how many messages a single history fetch returns.
const DefaultHistoryLimit = 200

// User is an account known to the chat service. Accounts back the peer
// directory: a join request is only honored for an existing user row.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Message is a persisted chat message. Records are append-only: once written
// they are never updated or deleted.
type Message struct {
	ID       int64
	Room     string
	User     int64 // author id; SystemUserID for placeholder messages
	Text     string
	Datetime time.Time
}

// UserStore handles account persistence and peer existence checks.
type UserStore interface {
	// CreateUser creates a new user with a hashed password.
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id int64) (*User, error)

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// UserExists reports whether an account with the given id exists.
	UserExists(ctx context.Context, id int64) (bool, error)
}

// MessageStore is the append-only chat log.
type MessageStore interface {
	// AppendMessage persists a message, assigning its id and server-side
	// timestamp. This is the only write path; there is no update or delete.
	AppendMessage(ctx context.Context, msg *Message) error

	// RecentByRoom returns up to limit most recent messages for the room,
	// newest first. Limits outside (0, DefaultHistoryLimit] are clamped to
	// DefaultHistoryLimit. An unknown room yields an empty slice, not an error.
	RecentByRoom(ctx context.Context, roomKey string, limit int) ([]*Message, error)

	// RoomsInvolving returns every distinct room key that encodes userID as
	// one of its two participants. The match is structural over the key
	// encoding (first or second token), never a free-text scan.
	RoomsInvolving(ctx context.Context, userID int64) ([]string, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}
