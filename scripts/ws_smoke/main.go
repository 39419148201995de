// Command ws_smoke connects to a running chat server with a signed token,
// joins a peer, sends one message, and prints everything it receives.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/stackingup/chat-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:4200/ws", "WebSocket address")
	token := flag.String("token", "", "authToken credential")
	peer := flag.Int64("peer", 0, "peer user id to join")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	opts := &websocket.DialOptions{}
	if *token != "" {
		header := http.Header{}
		header.Set("Cookie", "authToken="+*token)
		opts.HTTPHeader = header
	}

	conn, _, err := websocket.Dial(ctx, *addr, opts)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(typ string, data any) error {
		var payload json.RawMessage
		if data != nil {
			raw, err := json.Marshal(data)
			if err != nil {
				return fmt.Errorf("marshal %s: %w", typ, err)
			}
			payload = raw
		}
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
			return fmt.Errorf("send %s: %w", typ, err)
		}
		return nil
	}

	if *peer != 0 {
		if err := send(proto.InboundTypeJoin, proto.JoinData{PeerID: *peer}); err != nil {
			return err
		}
		if err := send(proto.InboundTypeMessage, proto.MessageData{Text: *text}); err != nil {
			return err
		}
	}

	for {
		var outbound struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			return fmt.Errorf("read: %w", err)
		}
		fmt.Printf("Received outbound: type=%s data=%s\n", outbound.Type, outbound.Data)
	}
}
