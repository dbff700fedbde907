// Package hub implements the broadcast coordinator: the engine that wires
// transport events to the session registry, typing tracker, command
// interpreter, and message store, and emits ordered outbound events.
package hub

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"hckrchat/internal/command"
	"hckrchat/internal/metrics"
	"hckrchat/internal/session"
	"hckrchat/internal/store"
)

// Sender delivers one outbound event to a single connection. Delivery is
// best-effort; a slow or dead peer must not block the caller.
type Sender interface {
	Send(Event) error
}

// MessageStore is the durable append-only log the hub writes chat
// messages to and replays history from.
type MessageStore interface {
	Append(ctx context.Context, username, text string, kind store.Kind) (store.Message, error)
	Recent(ctx context.Context, limit int) ([]store.Message, error)
}

// Hub coordinates sessions, typing state, commands, and broadcasts.
//
// A single mutex serializes every event dispatch. That is what makes the
// ordering guarantee hold: outbound events are observed by all clients in
// the order the hub processed their causes, and a store append is ordered
// with the broadcast that announces it.
type Hub struct {
	mu       sync.Mutex
	conns    map[string]Sender
	sessions *session.Registry
	typing   *session.Tracker
	store    MessageStore
	metrics  *metrics.Metrics

	maxMessageLength int
	historyLimit     int
}

// New creates a hub around the given message store.
func New(messageStore MessageStore, m *metrics.Metrics, maxMessageLength, historyLimit int) *Hub {
	return &Hub{
		conns:            make(map[string]Sender),
		sessions:         session.NewRegistry(),
		typing:           session.NewTracker(),
		store:            messageStore,
		metrics:          m,
		maxMessageLength: maxMessageLength,
		historyLimit:     historyLimit,
	}
}

// HandleConnect registers a newly opened connection. The connection has no
// session until it joins.
func (h *Hub) HandleConnect(connID string, sender Sender) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.conns[connID] = sender
	h.metrics.ActiveConnections.Inc()
	slog.Debug("client connected", "conn", connID)
}

// HandleDisconnect tears down all state for a closed connection. If a
// session existed, the departure and the pruned typing list are broadcast.
func (h *Hub) HandleDisconnect(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.conns[connID]; exists {
		delete(h.conns, connID)
		h.metrics.ActiveConnections.Dec()
	}

	sess := h.sessions.Leave(connID)
	h.typing.Purge(connID)
	if sess == nil {
		slog.Debug("client disconnected", "conn", connID)
		return
	}

	h.metrics.ActiveSessions.Dec()
	h.broadcast(Event{Type: EventUserLeft, Data: userEventData{Username: sess.DisplayName}})
	h.broadcast(Event{Type: EventTypingUpdate, Data: typingUpdateData{TypingUsers: h.typing.Names(h.sessions)}})
	slog.Info("user left", "conn", connID, "username", sess.DisplayName)
}

// HandleJoin creates a session for the connection, replays recent history
// to the joiner, and announces the join and the new presence list.
func (h *Hub) HandleJoin(ctx context.Context, connID, username string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.conns[connID]; !exists {
		return
	}

	rejoin := false
	if _, ok := h.sessions.Name(connID); ok {
		rejoin = true
	}

	sess, err := h.sessions.Join(connID, username)
	if err != nil {
		h.unicastError(connID, errUsernameRequired, "validation")
		return
	}
	if !rejoin {
		h.metrics.ActiveSessions.Inc()
	}

	// History replay failure does not abort the join; the session already
	// exists and presence must stay consistent across clients.
	history, err := h.store.Recent(ctx, h.historyLimit)
	if err != nil {
		slog.Error("history replay failed", "conn", connID, "error", err)
		h.unicastError(connID, errHistoryFailed, "storage")
	} else {
		payloads := make([]MessagePayload, 0, len(history))
		for _, msg := range history {
			payloads = append(payloads, messagePayload(msg))
		}
		h.unicast(connID, Event{Type: EventLoadMessages, Data: loadMessagesData{Messages: payloads}})
	}

	h.broadcast(Event{Type: EventUserJoined, Data: userEventData{Username: sess.DisplayName}})
	h.broadcast(Event{Type: EventUserList, Data: userListData{Users: h.sessions.DisplayNames()}})
	slog.Info("user joined", "conn", connID, "username", sess.DisplayName)
}

// HandleMessage processes one inbound chat message from a connection.
func (h *Hub) HandleMessage(ctx context.Context, connID, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	username, ok := h.sessions.Name(connID)
	if !ok {
		h.unicastError(connID, errNotConnected, "not_connected")
		return
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	if utf8.RuneCountInString(text) > h.maxMessageLength {
		h.unicastError(connID, fmt.Sprintf(errMessageTooLong, h.maxMessageLength), "validation")
		return
	}

	if strings.HasPrefix(text, "/") {
		h.runCommand(ctx, connID, username, text)
		return
	}

	msg, err := h.store.Append(ctx, username, text, store.KindNormal)
	if err != nil {
		// Never broadcast a message that was not durably stored.
		slog.Error("message append failed", "conn", connID, "error", err)
		h.unicastError(connID, errStoreFailed, "storage")
		return
	}
	h.metrics.MessagesTotal.WithLabelValues(string(store.KindNormal)).Inc()
	h.broadcast(Event{Type: EventMessage, Data: messagePayload(msg)})
}

// HandleTyping updates the typing set for a joined connection and
// broadcasts the recomputed typing list. No-op for sessionless connections.
func (h *Hub) HandleTyping(connID string, isTyping bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions.Name(connID); !ok {
		return
	}

	h.typing.Set(connID, isTyping)
	h.broadcast(Event{Type: EventTypingUpdate, Data: typingUpdateData{TypingUsers: h.typing.Names(h.sessions)}})
}

// runCommand dispatches a parsed slash-command. Command traffic is never
// stored as a normal chat message.
func (h *Hub) runCommand(ctx context.Context, connID, username, text string) {
	cmd := command.Parse(text)

	switch cmd.Kind {
	case command.KindHelp:
		h.metrics.CommandsTotal.WithLabelValues(cmd.Name).Inc()
		h.unicast(connID, Event{Type: EventSystemMessage, Data: systemMessageData{Message: command.HelpText}})

	case command.KindUsers:
		h.metrics.CommandsTotal.WithLabelValues(cmd.Name).Inc()
		reply := command.UsersReply(h.sessions.DisplayNames())
		h.unicast(connID, Event{Type: EventSystemMessage, Data: systemMessageData{Message: reply}})

	case command.KindNick:
		h.metrics.CommandsTotal.WithLabelValues(cmd.Name).Inc()
		if cmd.Args == "" {
			h.unicast(connID, Event{Type: EventSystemMessage, Data: systemMessageData{Message: command.UsageNick}})
			return
		}
		oldName, newName, err := h.sessions.Rename(connID, cmd.Args)
		if err != nil {
			h.unicastError(connID, errNotConnected, "not_connected")
			return
		}
		slog.Info("user renamed", "conn", connID, "old", oldName, "new", newName)
		h.broadcast(Event{Type: EventNickChange, Data: nickChangeData{OldNick: oldName, NewNick: newName}})

	case command.KindMe:
		h.metrics.CommandsTotal.WithLabelValues(cmd.Name).Inc()
		if cmd.Args == "" {
			h.unicast(connID, Event{Type: EventSystemMessage, Data: systemMessageData{Message: command.UsageMe}})
			return
		}
		msg, err := h.store.Append(ctx, username, cmd.Args, store.KindAction)
		if err != nil {
			slog.Error("action append failed", "conn", connID, "error", err)
			h.unicastError(connID, errStoreFailed, "storage")
			return
		}
		h.metrics.MessagesTotal.WithLabelValues(string(store.KindAction)).Inc()
		h.broadcast(Event{Type: EventMessage, Data: messagePayload(msg)})

	default:
		h.metrics.CommandsTotal.WithLabelValues("unknown").Inc()
		h.unicast(connID, Event{Type: EventSystemMessage, Data: systemMessageData{Message: cmd.Unknown()}})
	}
}

// unicast delivers an event to exactly one connection.
func (h *Hub) unicast(connID string, ev Event) {
	sender, exists := h.conns[connID]
	if !exists {
		return
	}
	if err := sender.Send(ev); err != nil {
		slog.Debug("unicast dropped", "conn", connID, "event", ev.Type, "error", err)
	}
	h.metrics.EventsTotal.WithLabelValues(ev.Type).Inc()
}

// broadcast delivers an event to every currently joined connection.
// Fire-and-forget: a failed send is logged and skipped.
func (h *Hub) broadcast(ev Event) {
	for _, connID := range h.sessions.ConnIDs() {
		sender, exists := h.conns[connID]
		if !exists {
			continue
		}
		if err := sender.Send(ev); err != nil {
			slog.Debug("broadcast send dropped", "conn", connID, "event", ev.Type, "error", err)
		}
	}
	h.metrics.EventsTotal.WithLabelValues(ev.Type).Inc()
}

func (h *Hub) unicastError(connID, message, class string) {
	h.metrics.ErrorsTotal.WithLabelValues(class).Inc()
	h.unicast(connID, Event{Type: EventError, Data: errorData{Message: message}})
}
