package app

import (
	"testing"

	"github.com/dkeye/Presence/internal/core"
	"github.com/dkeye/Presence/internal/domain"
	"github.com/stretchr/testify/assert"
)

func bindSession(r *Registry, sid core.SessionID) core.MemberSession {
	sess := core.NewMemberSession(domain.NewPeer(domain.PeerID(sid), false))
	r.Bind(sid, sess, nil)
	return sess
}

func TestRegistryGroupLifecycle(t *testing.T) {
	r := NewRegistry()
	bindSession(r, "a")

	// Bound but unjoined.
	_, _, ok := r.GroupOf("a")
	assert.False(t, ok)

	assert.True(t, r.UpdateGroup("a", "room1"))
	key, _, ok := r.GroupOf("a")
	assert.True(t, ok)
	assert.Equal(t, domain.GroupKey("room1"), key)

	r.RemoveGroup("a")
	_, _, ok = r.GroupOf("a")
	assert.False(t, ok)

	// Session stays bound after its group is cleared.
	_, ok = r.GetSession("a")
	assert.True(t, ok)
}

func TestRegistryUpdateGroupUnbound(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.UpdateGroup("ghost", "room1"))
	r.RemoveGroup("ghost") // must not panic
}

func TestRegistryMembersOfGroup(t *testing.T) {
	r := NewRegistry()
	bindSession(r, "a")
	bindSession(r, "b")
	bindSession(r, "c")
	r.UpdateGroup("a", "room1")
	r.UpdateGroup("b", "room1")
	r.UpdateGroup("c", "room2")

	members := r.MembersOfGroup("room1")
	got := make([]core.SessionID, 0, len(members))
	for _, m := range members {
		got = append(got, m.SID)
	}
	assert.ElementsMatch(t, []core.SessionID{"a", "b"}, got)

	assert.Len(t, r.AllSessions(), 3)

	r.Unbind("b")
	assert.Len(t, r.MembersOfGroup("room1"), 1)
	assert.Len(t, r.AllSessions(), 2)
}

func TestRegistryCancel(t *testing.T) {
	r := NewRegistry()
	canceled := false
	sess := core.NewMemberSession(domain.NewPeer("a", false))
	r.Bind("a", sess, func() { canceled = true })

	assert.True(t, r.Cancel("a"))
	assert.True(t, canceled)
	assert.False(t, r.Cancel("ghost"))
}
