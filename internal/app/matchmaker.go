package app

import (
	"github.com/dkeye/Presence/internal/domain"
	"github.com/rs/zerolog/log"
)

// Matchmaker picks a group for a joining session.
type Matchmaker struct {
	Counts   *GroupCounts
	Capacity int
}

func NewMatchmaker(counts *GroupCounts) *Matchmaker {
	return &Matchmaker{Counts: counts, Capacity: domain.DefaultGroupCapacity}
}

// ChooseGroup returns the requested key verbatim when present; explicit keys
// name private rooms and are not capacity checked. With no preference it
// packs the fullest under-capacity auto group, minting a fresh key only when
// every auto group is full. Fullest-first packing keeps the number of live
// groups low so players actually meet each other.
func (m *Matchmaker) ChooseGroup(requested domain.GroupKey) domain.GroupKey {
	if requested != "" {
		return requested
	}
	for _, key := range m.Counts.ActiveAutoGroups() {
		if m.Counts.MemberCount(key) < m.Capacity {
			return key
		}
	}
	key := domain.NewAutoKey()
	log.Info().Str("module", "app.matchmaker").Str("group", string(key)).Msg("minted auto group")
	return key
}
