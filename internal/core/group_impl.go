package core

import (
	"sync"

	"github.com/dkeye/Presence/internal/domain"
	"github.com/rs/zerolog/log"
)

// GroupSet is the in-memory GroupTransport. Members are kept in join order
// so rosters stay stable across events. A group with no members is removed
// from the set immediately.
type GroupSet struct {
	mu     sync.RWMutex
	groups map[domain.GroupKey][]SessionID
}

func NewGroupSet() *GroupSet {
	return &GroupSet{groups: make(map[domain.GroupKey][]SessionID)}
}

func (g *GroupSet) Join(key domain.GroupKey, sid SessionID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	members := g.groups[key]
	for _, m := range members {
		if m == sid {
			return
		}
	}
	g.groups[key] = append(members, sid)
	log.Info().Str("module", "core.groups").Str("sid", string(sid)).Str("group", string(key)).Msg("member added")
}

func (g *GroupSet) Leave(key domain.GroupKey, sid SessionID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	members := g.groups[key]
	for i, m := range members {
		if m == sid {
			members = append(members[:i], members[i+1:]...)
			break
		}
	}
	if len(members) == 0 {
		delete(g.groups, key)
	} else {
		g.groups[key] = members
	}
	log.Info().Str("module", "core.groups").Str("sid", string(sid)).Str("group", string(key)).Msg("member removed")
}

func (g *GroupSet) MembersOf(key domain.GroupKey) []SessionID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	members := g.groups[key]
	out := make([]SessionID, len(members))
	copy(out, members)
	return out
}

func (g *GroupSet) List() []GroupInfo {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]GroupInfo, 0, len(g.groups))
	for key, members := range g.groups {
		out = append(out, GroupInfo{
			Key:         key,
			MemberCount: len(members),
			Auto:        domain.IsAutoKey(key),
		})
	}
	return out
}
