package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stackingup/chat-server/internal/room"
	"github.com/stackingup/chat-server/internal/store"
)

// ErrUserNotFound is returned when a lookup matches no account.
var ErrUserNotFound = errors.New("user not found")

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	room     TEXT NOT NULL,
	user     INTEGER NOT NULL,
	text     TEXT NOT NULL,
	datetime DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_room_datetime ON messages (room, datetime);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store and ensures the schema exists.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// NewWithSetup creates a new SQLite store and runs an extra setup function
// after the schema is applied. Useful for tests that seed fixture rows.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	s, err := New(dbPath)
	if err != nil {
		return nil, err
	}
	if setup != nil {
		if err := setup(s.db); err != nil {
			s.db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== UserStore implementation ====

// CreateUser creates a new user with a hashed password.
func (s *SQLiteStore) CreateUser(ctx context.Context, username, passwordHash string) (*store.User, error) {
	query := `
		INSERT INTO users (username, password_hash)
		VALUES (?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, username, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.GetUserByID(ctx, id)
}

// GetUserByID retrieves a user by ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*store.User, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE id = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetUserByUsername retrieves a user by username.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*store.User, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, username))
}

// UserExists reports whether an account with the given id exists.
func (s *SQLiteStore) UserExists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("query user exists: %w", err)
	}
	return exists, nil
}

func (s *SQLiteStore) scanUser(row *sql.Row) (*store.User, error) {
	var user store.User
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

// ==== MessageStore implementation ====

// AppendMessage persists a message, assigning its id and timestamp.
func (s *SQLiteStore) AppendMessage(ctx context.Context, msg *store.Message) error {
	query := `
		INSERT INTO messages (room, user, text, datetime)
		VALUES (?, ?, ?, ?)
	`
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, query, msg.Room, msg.User, msg.Text, now)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	msg.ID = id
	msg.Datetime = now
	return nil
}

// RecentByRoom returns up to limit most recent messages for the room, newest first.
func (s *SQLiteStore) RecentByRoom(ctx context.Context, roomKey string, limit int) ([]*store.Message, error) {
	if limit <= 0 || limit > store.DefaultHistoryLimit {
		limit = store.DefaultHistoryLimit
	}

	query := `
		SELECT id, room, user, text, datetime
		FROM messages
		WHERE room = ?
		ORDER BY datetime DESC, id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, roomKey, limit)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := []*store.Message{}
	for rows.Next() {
		var msg store.Message
		if err := rows.Scan(&msg.ID, &msg.Room, &msg.User, &msg.Text, &msg.Datetime); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, &msg)
	}

	return messages, rows.Err()
}

// RoomsInvolving returns every distinct room key with userID as a participant.
// The room key encoding sorts the pair ascending around the separator, so a
// participant appears either as the "<id>-" prefix or the "-<id>" suffix —
// both matched exactly, never as a free substring.
func (s *SQLiteStore) RoomsInvolving(ctx context.Context, userID int64) ([]string, error) {
	query := `
		SELECT DISTINCT room
		FROM messages
		WHERE room LIKE ? OR room LIKE ?
		ORDER BY room
	`
	prefix := fmt.Sprintf("%d%s%%", userID, room.Separator)
	suffix := fmt.Sprintf("%%%s%d", room.Separator, userID)

	rows, err := s.db.QueryContext(ctx, query, prefix, suffix)
	if err != nil {
		return nil, fmt.Errorf("query rooms: %w", err)
	}
	defer rows.Close()

	rooms := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, key)
	}

	return rooms, rows.Err()
}
