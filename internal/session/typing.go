package session

import "sync"

// Tracker is the set of connections currently signaling "typing".
// Entries must be purged on disconnect so the set never outlives a session.
type Tracker struct {
	mu     sync.RWMutex
	typing map[string]struct{}
}

// NewTracker creates an empty typing tracker.
func NewTracker() *Tracker {
	return &Tracker{
		typing: make(map[string]struct{}),
	}
}

// Set adds or removes connID from the typing set.
func (t *Tracker) Set(connID string, isTyping bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if isTyping {
		t.typing[connID] = struct{}{}
	} else {
		delete(t.typing, connID)
	}
}

// Purge removes connID regardless of prior state. No-op if absent.
func (t *Tracker) Purge(connID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.typing, connID)
}

// Names resolves the typing set through the registry, in registry join
// order. Connections with no session are silently dropped: disconnect
// cleanup may race typing updates, and a stale ID must never surface.
func (t *Tracker) Names(reg *Registry) []string {
	t.mu.RLock()
	ids := make(map[string]struct{}, len(t.typing))
	for id := range t.typing {
		ids[id] = struct{}{}
	}
	t.mu.RUnlock()

	reg.mu.RLock()
	defer reg.mu.RUnlock()

	names := make([]string, 0, len(ids))
	for _, id := range reg.order {
		if _, ok := ids[id]; ok {
			names = append(names, reg.sessions[id].DisplayName)
		}
	}
	return names
}
