package core

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/stackingup/chat-server/internal/room"
	"github.com/stackingup/chat-server/internal/store"
)

// PlaceholderText seeds a freshly created room so it appears in both
// participants' conversation lists before any real message exists.
const PlaceholderText = "New Chat"

// PeerDirectory confirms that a candidate peer id denotes a real account.
type PeerDirectory interface {
	UserExists(ctx context.Context, id int64) (bool, error)
}

// ErrSessionClosed is returned by handlers when the connection must be torn
// down (auth or peer-existence failures are terminal for the connection).
var ErrSessionClosed = errors.New("session closed")

// Session is the per-connection controller. Its handlers are invoked
// sequentially by the connection's read loop, so the session itself needs no
// locking: the hub guards the only shared state.
type Session struct {
	client   *Client
	hub      *Hub
	messages store.MessageStore
	peers    PeerDirectory
	log      zerolog.Logger

	// storeTimeout bounds every store call so a hung query stalls only this
	// connection's processing.
	storeTimeout time.Duration

	// roomKey is the currently-joined room, empty while idle.
	roomKey string
}

// NewSession creates the controller for one authenticated connection.
func NewSession(client *Client, hub *Hub, messages store.MessageStore, peers PeerDirectory, logger zerolog.Logger, storeTimeout time.Duration) *Session {
	return &Session{
		client:       client,
		hub:          hub,
		messages:     messages,
		peers:        peers,
		log:          logger.With().Str("client_id", client.ID).Int64("user_id", client.UserID).Logger(),
		storeTimeout: storeTimeout,
	}
}

// Start runs the post-handshake work: deliver the caller's conversation list.
func (s *Session) Start(ctx context.Context) {
	s.sendChats(ctx)
}

// HandleJoin processes a join request for the given peer. A non-nil return
// means the connection must be closed; recoverable problems are reported to
// the client and nil is returned.
func (s *Session) HandleJoin(ctx context.Context, peerID int64) error {
	if peerID == s.client.UserID {
		s.client.Send(&Event{Kind: EventError, Error: coreError(ErrCodeBadRequest, "Cannot chat with yourself")})
		return nil
	}

	exists, err := s.exists(ctx, peerID)
	if err != nil {
		s.log.Error().Err(err).Int64("peer_id", peerID).Msg("peer lookup failed")
		s.client.Send(&Event{Kind: EventError, Error: coreError(ErrCodeUnexpected, "Unexpected error on chat service")})
		return ErrSessionClosed
	}
	if !exists {
		s.client.Send(&Event{Kind: EventError, Error: coreError(ErrCodePeerNotFound, "Peer does not exist")})
		return ErrSessionClosed
	}

	key, err := room.Key(s.client.UserID, peerID)
	if err != nil {
		s.client.Send(&Event{Kind: EventError, Error: coreError(ErrCodeBadRequest, "Invalid peer")})
		return nil
	}

	// Replaces any previous membership: a session owns at most one room.
	s.hub.Join(s.client, key)
	s.roomKey = key
	s.log.Info().Str("room", key).Msg("joined room")

	history, err := s.recent(ctx, key)
	if err != nil {
		// Join still succeeds; the client just gets no history.
		s.log.Error().Err(err).Str("room", key).Msg("history fetch failed")
		history = nil
	} else if len(history) == 0 {
		placeholder := &store.Message{Room: key, User: store.SystemUserID, Text: PlaceholderText}
		if err := s.append(ctx, placeholder); err != nil {
			s.log.Error().Err(err).Str("room", key).Msg("placeholder append failed")
		} else {
			history = []*store.Message{placeholder}
			// The new room must show up in the caller's own conversation list.
			s.sendChats(ctx)
		}
	}

	s.client.Send(&Event{Kind: EventHistory, Room: key, Messages: history})
	return nil
}

// HandleMessage persists a message in the current room and broadcasts the
// stored record to all room members.
func (s *Session) HandleMessage(ctx context.Context, text string) {
	if s.roomKey == "" {
		s.client.Send(&Event{Kind: EventError, Error: coreError(ErrCodeNotInRoom, "Join a chat before sending messages")})
		return
	}
	if text == "" {
		s.client.Send(&Event{Kind: EventError, Error: coreError(ErrCodeBadRequest, "Message text is required")})
		return
	}

	msg := &store.Message{Room: s.roomKey, User: s.client.UserID, Text: text}
	if err := s.append(ctx, msg); err != nil {
		s.log.Error().Err(err).Str("room", s.roomKey).Msg("message append failed")
		return
	}

	s.hub.Broadcast(s.roomKey, &Event{Kind: EventMessage, Room: s.roomKey, Message: msg})
}

// HandleLeave tears down the current room membership. A leave while idle is
// a no-op, so the teardown fires at most once per membership.
func (s *Session) HandleLeave() {
	if s.roomKey == "" {
		return
	}
	s.hub.Leave(s.client)
	s.log.Info().Str("room", s.roomKey).Msg("left room")
	s.roomKey = ""
}

// Close releases all bindings held by the session. Safe to call repeatedly.
func (s *Session) Close() {
	s.hub.Leave(s.client)
	s.roomKey = ""
}

// sendChats derives the peer list from the caller's distinct rooms and
// unicasts it. A malformed room key skips that entry only.
func (s *Session) sendChats(ctx context.Context) {
	opCtx, cancel := s.storeCtx(ctx)
	defer cancel()

	rooms, err := s.messages.RoomsInvolving(opCtx, s.client.UserID)
	if err != nil {
		s.log.Error().Err(err).Msg("conversation list fetch failed")
		return
	}

	peerIDs := make([]int64, 0, len(rooms))
	for _, key := range rooms {
		peerID, err := room.OtherParticipant(key, s.client.UserID)
		if err != nil {
			s.log.Warn().Err(err).Str("room", key).Msg("skipping unparseable room key")
			continue
		}
		peerIDs = append(peerIDs, peerID)
	}

	s.client.Send(&Event{Kind: EventChats, PeerIDs: peerIDs})
}

func (s *Session) exists(ctx context.Context, id int64) (bool, error) {
	opCtx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.peers.UserExists(opCtx, id)
}

func (s *Session) recent(ctx context.Context, key string) ([]*store.Message, error) {
	opCtx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.messages.RecentByRoom(opCtx, key, store.DefaultHistoryLimit)
}

func (s *Session) append(ctx context.Context, msg *store.Message) error {
	opCtx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.messages.AppendMessage(opCtx, msg)
}

func (s *Session) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}
