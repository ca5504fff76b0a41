package app

import (
	"encoding/json"
	"time"

	"github.com/dkeye/Presence/internal/core"
	"github.com/dkeye/Presence/internal/domain"
	"github.com/rs/zerolog/log"
)

// Yaw is the reduced rotation relayed to peers: only Y survives, pitch and
// roll are dropped.
type Yaw struct {
	Y float64 `json:"y"`
}

// UpdateEvent is the normalized state record fanned out to the audience.
type UpdateEvent struct {
	Type      string          `json:"type"`
	ID        core.SessionID  `json:"id"`
	Position  domain.Vector3  `json:"position"`
	Rotation  Yaw             `json:"rotation"`
	Accessory json.RawMessage `json:"accessory,omitempty"`
	Area      json.RawMessage `json:"area,omitempty"`
	State     json.RawMessage `json:"state,omitempty"`
	Metaneno  bool            `json:"metaneno"`
	UpdatedAt int64           `json:"updatedAt"`
}

// Relay routes state updates to their audience: the sender's group, or every
// bound session when the sender is trusted. It reads membership, never
// mutates it.
type Relay struct {
	Registry *Registry

	now func() time.Time
}

func NewRelay(reg *Registry) *Relay {
	return &Relay{Registry: reg, now: time.Now}
}

// Broadcast serializes st once and TrySends it to each audience member.
// UpdatedAt is stamped here, at emit time.
func (r *Relay) Broadcast(from core.SessionID, peer *domain.Peer, st domain.PlayerState) core.PublishResult {
	ev := UpdateEvent{
		Type:      "updated",
		ID:        from,
		Position:  st.Position,
		Rotation:  Yaw{Y: st.Rotation.Y},
		Accessory: st.Accessory,
		Area:      st.Area,
		State:     st.State,
		Metaneno:  peer.Trusted,
		UpdatedAt: r.now().UnixMilli(),
	}
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("marshal update")
		return core.PublishResult{}
	}

	var audience []regSnap
	if peer.Trusted {
		audience = r.Registry.AllSessions()
	} else {
		key, _, ok := r.Registry.GroupOf(from)
		if !ok {
			return core.PublishResult{}
		}
		audience = r.Registry.MembersOfGroup(key)
	}

	res := core.PublishResult{}
	for _, snap := range audience {
		if snap.SID == from {
			continue
		}
		sig := snap.Session.Signal()
		if sig == nil {
			continue
		}
		if err := sig.TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, snap.SID)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "app.relay").Str("from", string(from)).Bool("trusted", peer.Trusted).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}
