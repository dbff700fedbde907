package session

import (
	"sync"
)

// Session is the live association between a connection and a display name.
// The connection ID is immutable; the display name changes via Rename.
type Session struct {
	ConnID      string
	DisplayName string
}

// Registry is the authoritative mapping of connection ID to session.
// Iteration order is join order, which is what presence lists show.
// Display names are not deduplicated; two sessions may share a name.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	order    []string
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Join creates (or, for a repeat join on the same connection, replaces) the
// session for connID. A repeat join keeps the connection's original position
// in the presence order.
func (r *Registry) Join(connID, displayName string) (*Session, error) {
	if displayName == "" {
		return nil, ErrUsernameRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[connID]; !exists {
		r.order = append(r.order, connID)
	}
	sess := &Session{ConnID: connID, DisplayName: displayName}
	r.sessions[connID] = sess
	return sess, nil
}

// Rename changes the display name for connID and returns the old and new
// names. No uniqueness check is performed.
func (r *Registry) Rename(connID, newName string) (string, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, exists := r.sessions[connID]
	if !exists {
		return "", "", ErrNoSession
	}
	old := sess.DisplayName
	sess.DisplayName = newName
	return old, newName, nil
}

// Leave removes and returns the session for connID, or nil if none existed.
// Disconnecting without ever joining is a valid no-op.
func (r *Registry) Leave(connID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, exists := r.sessions[connID]
	if !exists {
		return nil
	}
	delete(r.sessions, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return sess
}

// Name returns the display name for connID, if a session exists.
func (r *Registry) Name(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, exists := r.sessions[connID]
	if !exists {
		return "", false
	}
	return sess.DisplayName, true
}

// DisplayNames returns all display names in join order.
func (r *Registry) DisplayNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.order))
	for _, id := range r.order {
		names = append(names, r.sessions[id].DisplayName)
	}
	return names
}

// ConnIDs returns the connection IDs of all active sessions in join order.
func (r *Registry) ConnIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Len returns the number of active sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
