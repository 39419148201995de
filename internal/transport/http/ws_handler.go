package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stackingup/chat-server/internal/auth"
	"github.com/stackingup/chat-server/internal/core"
	"github.com/stackingup/chat-server/internal/proto"
	"github.com/stackingup/chat-server/internal/store"
)

// credentialCookie is the cookie carrying the signed credential on the
// websocket upgrade request.
const credentialCookie = "authToken"

// WSHandler upgrades HTTP connections, authenticates them, and bridges them
// to a per-connection core.Session.
type WSHandler struct {
	hub            *core.Hub
	verifier       *auth.Verifier
	store          store.Store
	log            *zerolog.Logger
	originPatterns []string
	storeTimeout   time.Duration
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, verifier *auth.Verifier, st store.Store, logger *zerolog.Logger, originPatterns []string, storeTimeout time.Duration) stdhttp.Handler {
	return &WSHandler{
		hub:            hub,
		verifier:       verifier,
		store:          st,
		log:            logger,
		originPatterns: originPatterns,
		storeTimeout:   storeTimeout,
	}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	// The credential travels as a cookie on the upgrade request.
	var rawToken string
	if cookie, err := r.Cookie(credentialCookie); err == nil {
		rawToken = cookie.Value
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	identity, err := h.verifier.Verify(rawToken)
	if err != nil {
		h.rejectHandshake(ctx, conn, err)
		return
	}

	client := core.NewClient(uuid.NewString(), identity.UserID)
	session := core.NewSession(client, h.hub, h.store, h.store, *h.log, h.storeTimeout)
	defer session.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	session.Start(ctx)

	go func() {
		errCh <- h.readLoop(ctx, conn, session, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	// The read loop can return with a notice still queued (a fatal join
	// error, for example) that the cancelled write loop never delivered.
	h.flushEvents(conn, client)

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, core.ErrSessionClosed) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = "internal error"
			h.log.Warn().Err(err).Str("client_id", client.ID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

// rejectHandshake emits exactly one error notice for a failed handshake and
// closes the connection.
func (h *WSHandler) rejectHandshake(ctx context.Context, conn *websocket.Conn, err error) {
	var msg string
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		msg = "User not logged in"
	case errors.Is(err, auth.ErrInvalidCredential):
		msg = "Invalid credentials"
	default:
		h.log.Error().Err(err).Msg("credential verification failed")
		msg = "Unexpected error on chat service"
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_ = wsjson.Write(writeCtx, conn, proto.Outbound{
		Type: proto.OutboundTypeError,
		Data: proto.ErrorData{Message: msg},
	})
	conn.Close(websocket.StatusPolicyViolation, "authentication failed")
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, session *core.Session, client *core.Client) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		if err := h.dispatch(ctx, conn, session, inbound); err != nil {
			if !errors.Is(err, core.ErrSessionClosed) {
				h.log.Warn().Err(err).Str("client_id", client.ID).Msg("failed to handle inbound event")
			}
			return err
		}
	}
}

// dispatch maps one inbound envelope onto the session state machine.
func (h *WSHandler) dispatch(ctx context.Context, conn *websocket.Conn, session *core.Session, inbound proto.Inbound) error {
	switch inbound.Type {
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := unmarshalData(inbound.Data, &join); err != nil {
			return h.writeBadRequest(ctx, conn, "invalid join payload")
		}
		return session.HandleJoin(ctx, join.PeerID)
	case proto.InboundTypeMessage:
		var msg proto.MessageData
		if err := unmarshalData(inbound.Data, &msg); err != nil {
			return h.writeBadRequest(ctx, conn, "invalid message payload")
		}
		session.HandleMessage(ctx, msg.Text)
		return nil
	case proto.InboundTypeLeave:
		session.HandleLeave()
		return nil
	default:
		return h.writeBadRequest(ctx, conn, "unknown event type")
	}
}

func (h *WSHandler) writeBadRequest(ctx context.Context, conn *websocket.Conn, msg string) error {
	return wsjson.Write(ctx, conn, proto.Outbound{
		Type: proto.OutboundTypeError,
		Data: proto.ErrorData{Message: msg},
	})
}

// flushEvents writes out whatever is left on the client channel once both
// loops have stopped. At that point nothing else reads the channel.
func (h *WSHandler) flushEvents(conn *websocket.Conn, client *core.Client) {
	for {
		select {
		case event := <-client.Events:
			writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := wsjson.Write(writeCtx, conn, outboundFromEvent(event))
			cancel()
			if err != nil {
				return
			}
		default:
			return
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
