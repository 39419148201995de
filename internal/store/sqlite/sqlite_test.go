package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stackingup/chat-server/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAppendAssignsIDAndTimestamp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	msg := &store.Message{Room: "3-4", User: 3, Text: "hi"}
	if err := s.AppendMessage(ctx, msg); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}

	if msg.ID == 0 {
		t.Error("expected store-assigned id, got 0")
	}
	if msg.Datetime.IsZero() {
		t.Error("expected store-assigned timestamp, got zero")
	}
}

func TestRecentByRoomCapsAndOrders(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const total = 250
	for i := 0; i < total; i++ {
		msg := &store.Message{Room: "1-2", User: 1, Text: fmt.Sprintf("msg %d", i)}
		if err := s.AppendMessage(ctx, msg); err != nil {
			t.Fatalf("AppendMessage %d: %v", i, err)
		}
	}
	// Another room's messages must not leak into the result.
	other := &store.Message{Room: "1-3", User: 1, Text: "elsewhere"}
	if err := s.AppendMessage(ctx, other); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}

	messages, err := s.RecentByRoom(ctx, "1-2", 200)
	if err != nil {
		t.Fatalf("RecentByRoom: %v", err)
	}

	if len(messages) != 200 {
		t.Fatalf("expected 200 messages, got %d", len(messages))
	}
	// Newest first: the most recent append is "msg 249", the window ends at "msg 50".
	if messages[0].Text != "msg 249" {
		t.Errorf("expected newest message first, got %q", messages[0].Text)
	}
	if messages[199].Text != "msg 50" {
		t.Errorf("expected window to end at msg 50, got %q", messages[199].Text)
	}
	for i := 1; i < len(messages); i++ {
		if messages[i].ID >= messages[i-1].ID {
			t.Fatalf("messages out of order at index %d: id %d after %d", i, messages[i].ID, messages[i-1].ID)
		}
	}
}

func TestRecentByRoomEmptyRoom(t *testing.T) {
	s := newTestStore(t)

	messages, err := s.RecentByRoom(context.Background(), "8-9", 200)
	if err != nil {
		t.Fatalf("RecentByRoom: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("expected no messages for unknown room, got %d", len(messages))
	}
}

func TestRecentByRoomClampsLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := s.AppendMessage(ctx, &store.Message{Room: "1-2", User: 2, Text: "x"}); err != nil {
			t.Fatalf("AppendMessage: %v", err)
		}
	}

	for _, limit := range []int{0, -1, 100000} {
		messages, err := s.RecentByRoom(ctx, "1-2", limit)
		if err != nil {
			t.Fatalf("RecentByRoom(limit=%d): %v", limit, err)
		}
		if len(messages) != 5 {
			t.Errorf("RecentByRoom(limit=%d) returned %d messages, want 5", limit, len(messages))
		}
	}
}

func TestRoomsInvolving(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seed := []struct {
		room string
		user int64
	}{
		{"5-7", 5},
		{"5-7", 7},
		{"5-9", 5},
		{"7-9", 7},
		{"1-12", 12},
		{"15-25", 15},
	}
	for _, m := range seed {
		if err := s.AppendMessage(ctx, &store.Message{Room: m.room, User: m.user, Text: "hello"}); err != nil {
			t.Fatalf("AppendMessage: %v", err)
		}
	}

	tests := []struct {
		user int64
		want []string
	}{
		{5, []string{"5-7", "5-9"}},
		{7, []string{"5-7", "7-9"}},
		{9, []string{"5-9", "7-9"}},
		// User 1 shares digits with 12 and 15; only "1-12" truly involves them.
		{1, []string{"1-12"}},
		{12, []string{"1-12"}},
		{2, []string{}},
	}

	for _, tt := range tests {
		rooms, err := s.RoomsInvolving(ctx, tt.user)
		if err != nil {
			t.Fatalf("RoomsInvolving(%d): %v", tt.user, err)
		}
		if len(rooms) != len(tt.want) {
			t.Errorf("RoomsInvolving(%d) = %v, want %v", tt.user, rooms, tt.want)
			continue
		}
		for i := range rooms {
			if rooms[i] != tt.want[i] {
				t.Errorf("RoomsInvolving(%d) = %v, want %v", tt.user, rooms, tt.want)
				break
			}
		}
	}
}

func TestUserExists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	exists, err := s.UserExists(ctx, user.ID)
	if err != nil {
		t.Fatalf("UserExists: %v", err)
	}
	if !exists {
		t.Errorf("expected user %d to exist", user.ID)
	}

	exists, err = s.UserExists(ctx, user.ID+100)
	if err != nil {
		t.Fatalf("UserExists: %v", err)
	}
	if exists {
		t.Error("expected missing user to not exist")
	}
}

func TestGetUserByUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, "bob", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	user, err := s.GetUserByUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if user.ID != created.ID || user.Username != "bob" {
		t.Errorf("unexpected user: %+v", user)
	}

	if _, err := s.GetUserByUsername(ctx, "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
