package app

import (
	"sort"
	"sync"

	"github.com/dkeye/Presence/internal/core"
	"github.com/dkeye/Presence/internal/domain"
)

// GroupCounts caches the member count per group key. Counts are never
// adjusted speculatively; Refresh sets them from the transport's membership
// snapshot, so the cache can only lag inside the per-key critical section.
type GroupCounts struct {
	mu     sync.RWMutex
	counts map[domain.GroupKey]int
}

func NewGroupCounts() *GroupCounts {
	return &GroupCounts{counts: make(map[domain.GroupKey]int)}
}

// MemberCount returns 0 for unknown keys.
func (g *GroupCounts) MemberCount(key domain.GroupKey) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.counts[key]
}

// Refresh records the ground-truth membership for key. A group with no
// members is dropped immediately, so no zero-count entry ever lingers.
func (g *GroupCounts) Refresh(key domain.GroupKey, members []core.SessionID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(members) == 0 {
		delete(g.counts, key)
		return
	}
	g.counts[key] = len(members)
}

// ActiveAutoGroups lists matchmaker-owned groups, fullest first. Explicit
// client keys are not pooled for reuse and never appear here.
func (g *GroupCounts) ActiveAutoGroups() []domain.GroupKey {
	g.mu.RLock()
	type kc struct {
		key   domain.GroupKey
		count int
	}
	pool := make([]kc, 0, len(g.counts))
	for key, count := range g.counts {
		if domain.IsAutoKey(key) {
			pool = append(pool, kc{key: key, count: count})
		}
	}
	g.mu.RUnlock()

	sort.SliceStable(pool, func(i, j int) bool { return pool[i].count > pool[j].count })

	out := make([]domain.GroupKey, len(pool))
	for i, p := range pool {
		out[i] = p.key
	}
	return out
}
