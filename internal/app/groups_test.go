package app

import (
	"testing"

	"github.com/dkeye/Presence/internal/core"
	"github.com/dkeye/Presence/internal/domain"
	"github.com/stretchr/testify/assert"
)

func sids(n int) []core.SessionID {
	out := make([]core.SessionID, n)
	for i := range out {
		out[i] = core.SessionID(domain.NewAutoKey())
	}
	return out
}

func TestGroupCountsRefresh(t *testing.T) {
	g := NewGroupCounts()

	assert.Equal(t, 0, g.MemberCount("room1"))

	g.Refresh("room1", sids(3))
	assert.Equal(t, 3, g.MemberCount("room1"))

	g.Refresh("room1", sids(2))
	assert.Equal(t, 2, g.MemberCount("room1"))
}

func TestGroupCountsPrunesEmpty(t *testing.T) {
	g := NewGroupCounts()
	g.Refresh("room1", sids(2))
	g.Refresh("room1", nil)

	assert.Equal(t, 0, g.MemberCount("room1"))
	assert.Empty(t, g.ActiveAutoGroups())
}

func TestActiveAutoGroupsOrderedFullestFirst(t *testing.T) {
	g := NewGroupCounts()
	a := domain.NewAutoKey()
	b := domain.NewAutoKey()
	c := domain.NewAutoKey()
	g.Refresh(a, sids(1))
	g.Refresh(b, sids(3))
	g.Refresh(c, sids(2))
	// Explicit keys never enter the pool.
	g.Refresh("room1", sids(4))

	assert.Equal(t, []domain.GroupKey{b, c, a}, g.ActiveAutoGroups())
}
