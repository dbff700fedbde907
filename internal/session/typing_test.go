package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTracker_SetAndPurge(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	tr := NewTracker()

	_, err := r.Join("conn-1", "alice")
	req.NoError(err)

	tr.Set("conn-1", true)
	req.Equal([]string{"alice"}, tr.Names(r))

	tr.Set("conn-1", false)
	req.Empty(tr.Names(r))

	tr.Set("conn-1", true)
	tr.Purge("conn-1")
	req.Empty(tr.Names(r))

	// Purging an absent entry is a no-op.
	tr.Purge("conn-2")
}

func TestTracker_NamesFollowRegistryOrder(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	tr := NewTracker()

	_, err := r.Join("conn-1", "alice")
	req.NoError(err)
	_, err = r.Join("conn-2", "bob")
	req.NoError(err)
	_, err = r.Join("conn-3", "carol")
	req.NoError(err)

	tr.Set("conn-3", true)
	tr.Set("conn-1", true)

	req.Equal([]string{"alice", "carol"}, tr.Names(r))
}

func TestTracker_DropsStaleEntries(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	tr := NewTracker()

	_, err := r.Join("conn-1", "alice")
	req.NoError(err)

	// A typing entry whose session is gone must never surface.
	tr.Set("conn-1", true)
	tr.Set("conn-ghost", true)
	r.Leave("conn-1")

	req.Empty(tr.Names(r))
}
