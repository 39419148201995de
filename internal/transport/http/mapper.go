package http

import (
	"encoding/json"
	"errors"

	"github.com/stackingup/chat-server/internal/core"
	"github.com/stackingup/chat-server/internal/proto"
	"github.com/stackingup/chat-server/internal/store"
)

func unmarshalData(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return errors.New("missing data")
	}
	return json.Unmarshal(data, v)
}

func wireMessage(msg *store.Message) proto.Message {
	return proto.Message{
		Text:     msg.Text,
		Datetime: msg.Datetime,
		Room:     msg.Room,
		User:     msg.User,
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventChats:
		peerIDs := event.PeerIDs
		if peerIDs == nil {
			peerIDs = []int64{}
		}
		return proto.Outbound{
			Type: proto.OutboundTypeChats,
			Data: proto.ChatsData{PeerIDs: peerIDs},
		}
	case core.EventHistory:
		messages := make([]proto.Message, 0, len(event.Messages))
		for _, msg := range event.Messages {
			messages = append(messages, wireMessage(msg))
		}
		return proto.Outbound{
			Type: proto.OutboundTypeJoin,
			Data: proto.JoinReply{Room: event.Room, Messages: messages},
		}
	case core.EventMessage:
		return proto.Outbound{
			Type: proto.OutboundTypeMessage,
			Data: wireMessage(event.Message),
		}
	case core.EventError:
		msg := "Unexpected error on chat service"
		if event.Error != nil {
			msg = event.Error.Message
		}
		return proto.Outbound{
			Type: proto.OutboundTypeError,
			Data: proto.ErrorData{Message: msg},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeError, Data: proto.ErrorData{Message: "unknown event"}}
	}
}
