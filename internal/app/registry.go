package app

import (
	"context"
	"sync"

	"github.com/dkeye/Presence/internal/core"
	"github.com/dkeye/Presence/internal/domain"
	"github.com/rs/zerolog/log"
)

type sessionEntry struct {
	Group   domain.GroupKey
	Session core.MemberSession
	Cancel  context.CancelFunc
}

// Registry tracks every bound session and its (at most one) group
// membership. It is the side-table the lifecycle handlers consult for the
// Joined/Unjoined guard.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[core.SessionID]*sessionEntry)}
}

func (r *Registry) Bind(sid core.SessionID, sess core.MemberSession, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sid] = &sessionEntry{Session: sess, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("bound session")
}

func (r *Registry) Unbind(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbind session")
}

func (r *Registry) GetSession(sid core.SessionID) (core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok {
		return e.Session, true
	}
	return nil, false
}

// GroupOf returns the current group of sid. ok is false when sid is not
// bound or has no group, i.e. the session is Unjoined.
func (r *Registry) GroupOf(sid core.SessionID) (domain.GroupKey, core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.sessions[sid]
	if !ok || entry.Group == "" {
		return "", nil, false
	}
	return entry.Group, entry.Session, true
}

func (r *Registry) UpdateGroup(sid core.SessionID, key domain.GroupKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[sid]
	if !ok {
		return false
	}
	entry.Group = key
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("group", string(key)).Msg("updated group")
	return true
}

func (r *Registry) RemoveGroup(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.sessions[sid]; ok {
		entry.Group = ""
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("removed group association")
}

type regSnap struct {
	SID     core.SessionID
	Session core.MemberSession
}

func (r *Registry) MembersOfGroup(key domain.GroupKey) []regSnap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]regSnap, 0, len(r.sessions))
	for sid, e := range r.sessions {
		if e.Group == key {
			out = append(out, regSnap{SID: sid, Session: e.Session})
		}
	}
	return out
}

// AllSessions snapshots every bound session, joined or not. Trusted senders
// broadcast to this set.
func (r *Registry) AllSessions() []regSnap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]regSnap, 0, len(r.sessions))
	for sid, e := range r.sessions {
		out = append(out, regSnap{SID: sid, Session: e.Session})
	}
	return out
}

func (r *Registry) Cancel(sid core.SessionID) bool {
	r.mu.RLock()
	e, ok := r.sessions[sid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("canceled session")
	return true
}
