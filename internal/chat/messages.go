package chat

import (
	"github.com/chatwire/chatwire/internal/database"
	"github.com/chatwire/chatwire/internal/types"
)

// ClientMessage is the inbound event union. Exactly one field is set per
// frame; the read pump dispatches on whichever is non-nil.
type ClientMessage struct {
	Join    *JoinRoom     `json:"join-room,omitempty"`
	Leave   *LeaveRoom    `json:"leave-room,omitempty"`
	Group   *GroupSend    `json:"group-message,omitempty"`
	Private *PrivateSend  `json:"private-message,omitempty"`
	Typing  *TypingSignal `json:"typing,omitempty"`
}

type JoinRoom struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

type LeaveRoom struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

type GroupSend struct {
	FromUser string `json:"from_user"`
	Room     string `json:"room"`
	Message  string `json:"message"`
}

type PrivateSend struct {
	FromUser string `json:"from_user"`
	ToUser   string `json:"to_user"`
	Message  string `json:"message"`
}

type TypingSignal struct {
	Username string `json:"username"`
	Room     string `json:"room,omitempty"`
	ToUser   string `json:"to_user,omitempty"`
	IsTyping bool   `json:"isTyping"`
}

// ServerMessage is the outbound event union.
type ServerMessage struct {
	RoomHistory *RoomHistory          `json:"room-history,omitempty"`
	Group       *types.GroupMessage   `json:"group-message,omitempty"`
	Private     *types.PrivateMessage `json:"private-message,omitempty"`
	UserJoined  *RoomEvent            `json:"user-joined-room,omitempty"`
	UserLeft    *RoomEvent            `json:"user-left,omitempty"`
	RoomUsers   *RoomUsers            `json:"room-users,omitempty"`
	UserTyping  *UserTyping           `json:"user-typing,omitempty"`
	Error       *MessageError         `json:"message-error,omitempty"`

	// skipClient excludes the originating connection from a room broadcast.
	skipClient *Client
}

type RoomHistory struct {
	Room     string               `json:"room"`
	Messages []types.GroupMessage `json:"messages"`
}

type RoomEvent struct {
	Username string `json:"username"`
	Room     string `json:"room"`
	Message  string `json:"message"`
}

type RoomUsers struct {
	Room  string   `json:"room"`
	Users []string `json:"users"`
}

type UserTyping struct {
	Username string `json:"username"`
	Room     string `json:"room,omitempty"`
	IsTyping bool   `json:"isTyping"`
}

type MessageError struct {
	Message string `json:"message"`
}

func userJoinedMsg(username, room string, skip *Client) *ServerMessage {
	return &ServerMessage{
		UserJoined: &RoomEvent{
			Username: username,
			Room:     room,
			Message:  username + " joined the room",
		},
		skipClient: skip,
	}
}

func userLeftMsg(username, room, text string) *ServerMessage {
	return &ServerMessage{
		UserLeft: &RoomEvent{
			Username: username,
			Room:     room,
			Message:  text,
		},
	}
}

func errorMsg(text string) *ServerMessage {
	return &ServerMessage{
		Error: &MessageError{Message: text},
	}
}

func groupMessageView(msg database.GroupMessage) *ServerMessage {
	return &ServerMessage{
		Group: &types.GroupMessage{
			Id:       msg.ExternalId,
			FromUser: msg.FromUser,
			Room:     msg.Room,
			Message:  msg.Body,
			DateSent: types.FormatDateSent(msg.SentAt),
			SentAt:   msg.SentAt,
		},
	}
}

func privateMessageView(msg database.PrivateMessage) *ServerMessage {
	return &ServerMessage{
		Private: &types.PrivateMessage{
			Id:       msg.ExternalId,
			FromUser: msg.FromUser,
			ToUser:   msg.ToUser,
			Message:  msg.Body,
			DateSent: types.FormatDateSent(msg.SentAt),
			SentAt:   msg.SentAt,
		},
	}
}

func roomHistoryMsg(room string, msgs []database.GroupMessage) *ServerMessage {
	history := make([]types.GroupMessage, len(msgs))
	for i, msg := range msgs {
		history[i] = types.GroupMessage{
			Id:       msg.ExternalId,
			FromUser: msg.FromUser,
			Room:     msg.Room,
			Message:  msg.Body,
			DateSent: types.FormatDateSent(msg.SentAt),
			SentAt:   msg.SentAt,
		}
	}

	return &ServerMessage{
		RoomHistory: &RoomHistory{
			Room:     room,
			Messages: history,
		},
	}
}
