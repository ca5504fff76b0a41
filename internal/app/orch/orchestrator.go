// Package orch glues registry, matchmaking, group transport and relay into
// the connection lifecycle: join, leave, update, disconnect.
package orch

import (
	"github.com/dkeye/Presence/internal/app"
	"github.com/dkeye/Presence/internal/core"
	"github.com/dkeye/Presence/internal/domain"
	"github.com/rs/zerolog/log"
)

// Orchestrator handles lifecycle events delivered by the signal adapter.
// Invalid operations are dropped silently; the only thing a peer ever sees
// is success.
type Orchestrator struct {
	Registry *app.Registry
	Counts   *app.GroupCounts
	Groups   core.GroupManager
	Match    *app.Matchmaker
	Relay    *app.Relay
	Policy   app.Policy

	// Keys serializes "read members -> mutate membership -> refresh counts"
	// per group key, so two concurrent joiners cannot both act on a stale
	// pre-join count.
	Keys *app.KeyMutex
}

// Join resolves a group for sid, adds it and returns the post-join roster.
// No-op when the requested key is malformed or sid is already in a group.
func (o *Orchestrator) Join(sid core.SessionID, requested domain.GroupKey) (domain.GroupKey, []core.SessionID, bool) {
	if !domain.ValidKey(requested) {
		log.Warn().Str("module", "orch").Str("sid", string(sid)).Str("key", string(requested)).Msg("join dropped: bad key")
		return "", nil, false
	}
	if _, _, ok := o.Registry.GroupOf(sid); ok {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Msg("join dropped: already joined")
		return "", nil, false
	}

	key := o.Match.ChooseGroup(requested)

	o.Keys.Lock(string(key))
	o.Groups.Join(key, sid)
	members := o.Groups.MembersOf(key)
	o.Counts.Refresh(key, members)
	o.Keys.Unlock(string(key))

	o.Registry.UpdateGroup(sid, key)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("group", string(key)).Int("members", len(members)).Msg("joined group")
	return key, members, true
}

// Leave removes sid from its group and returns the remaining roster. Safe to
// call for Unjoined sessions, so the disconnect path reuses it verbatim.
func (o *Orchestrator) Leave(sid core.SessionID) (domain.GroupKey, []core.SessionID, bool) {
	key, _, ok := o.Registry.GroupOf(sid)
	if !ok {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Msg("leave dropped: not in a group")
		return "", nil, false
	}

	o.Keys.Lock(string(key))
	o.Groups.Leave(key, sid)
	members := o.Groups.MembersOf(key)
	o.Counts.Refresh(key, members)
	o.Keys.Unlock(string(key))

	o.Registry.RemoveGroup(sid)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("group", string(key)).Int("members", len(members)).Msg("left group")
	return key, members, true
}

// OnUpdate relays a state update from sid. Unjoined senders are dropped,
// trusted or not. Slow receivers are handed to the policy.
func (o *Orchestrator) OnUpdate(sid core.SessionID, st domain.PlayerState) {
	_, sess, ok := o.Registry.GroupOf(sid)
	if !ok {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Msg("update dropped: not in a group")
		return
	}

	res := o.Relay.Broadcast(sid, sess.Meta(), st)
	if o.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch o.Policy.OnBackPressure(slow) {
		case app.KickMember:
			o.KickBySID(slow)
		case app.DropFrame, app.NoAction:
		}
	}
}

// OnDisconnect is leave plus unbind. A disconnect without a prior join just
// unbinds.
func (o *Orchestrator) OnDisconnect(sid core.SessionID) (domain.GroupKey, []core.SessionID, bool) {
	key, members, ok := o.Leave(sid)
	o.Registry.Unbind(sid)
	return key, members, ok
}

// KickBySID cancels the session's connection context; the adapter's pump
// teardown then drives the normal disconnect path, including the leaved
// broadcast.
func (o *Orchestrator) KickBySID(sid core.SessionID) {
	if o.Registry.Cancel(sid) {
		log.Info().Str("module", "orch").Str("sid", string(sid)).Msg("kicked session")
	}
}
