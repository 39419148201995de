package core

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/stackingup/chat-server/internal/store/sqlite"
)

// newTestStore builds an in-memory store seeded with accounts at fixed ids.
func newTestStore(t *testing.T, userIDs ...int64) *sqlite.SQLiteStore {
	t.Helper()

	s, err := sqlite.NewWithSetup(":memory:", func(db *sql.DB) error {
		for _, id := range userIDs {
			if _, err := db.Exec(
				`INSERT INTO users (id, username, password_hash) VALUES (?, ?, '')`,
				id, fmt.Sprintf("user%d", id),
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestSession(t *testing.T, hub *Hub, st *sqlite.SQLiteStore, clientID string, userID int64) (*Session, *Client) {
	t.Helper()

	client := NewClient(clientID, userID)
	session := NewSession(client, hub, st, st, zerolog.Nop(), 2*time.Second)
	t.Cleanup(session.Close)
	return session, client
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func mustNoEvent(t *testing.T, ch <-chan *Event) {
	t.Helper()

	select {
	case ev := <-ch:
		t.Fatalf("expected no event, got %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}
