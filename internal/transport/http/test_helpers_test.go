package http

import (
	"database/sql"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/stackingup/chat-server/internal/auth"
	"github.com/stackingup/chat-server/internal/config"
	"github.com/stackingup/chat-server/internal/core"
	"github.com/stackingup/chat-server/internal/store/sqlite"
)

// startTestServer boots the full HTTP stack over an in-memory store seeded
// with accounts at the given ids.
func startTestServer(t *testing.T, userIDs ...int64) (*httptest.Server, *auth.JWTConfig) {
	t.Helper()

	st, err := sqlite.NewWithSetup(":memory:", func(db *sql.DB) error {
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
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	jwtConfig := &auth.JWTConfig{
		Secret: []byte("test-secret"),
		Issuer: "test",
		TTL:    time.Hour,
	}

	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.ReadHeaderTimeout = time.Second
	cfg.StoreTimeout = 2 * time.Second

	logger := zerolog.Nop()
	server := NewServer(
		core.NewHub(),
		auth.NewVerifier(jwtConfig),
		auth.NewService(st, jwtConfig),
		st,
		&cfg,
		&logger,
	)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, jwtConfig
}
