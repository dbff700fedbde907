package hub

import (
	"time"

	"hckrchat/internal/store"
)

// Event is one outbound transport event. The wire encoding is the
// transport's concern; the hub only decides type, payload, and audience.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Outbound event types.
const (
	EventLoadMessages  = "load_messages"
	EventUserJoined    = "user_joined"
	EventUserLeft      = "user_left"
	EventUserList      = "user_list"
	EventMessage       = "message"
	EventSystemMessage = "system_message"
	EventNickChange    = "nick_change"
	EventTypingUpdate  = "typing_update"
	EventError         = "error"
)

// MessagePayload is the wire shape of a chat message. Type is set only
// for action messages.
type MessagePayload struct {
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type,omitempty"`
}

type loadMessagesData struct {
	Messages []MessagePayload `json:"messages"`
}

type userEventData struct {
	Username string `json:"username"`
}

type userListData struct {
	Users []string `json:"users"`
}

type systemMessageData struct {
	Message string `json:"message"`
}

type nickChangeData struct {
	OldNick string `json:"old_nick"`
	NewNick string `json:"new_nick"`
}

type typingUpdateData struct {
	TypingUsers []string `json:"typing_users"`
}

type errorData struct {
	Message string `json:"message"`
}

func messagePayload(msg store.Message) MessagePayload {
	p := MessagePayload{
		Username:  msg.Username,
		Message:   msg.Text,
		Timestamp: msg.Timestamp,
	}
	if msg.Kind == store.KindAction {
		p.Type = string(store.KindAction)
	}
	return p
}
