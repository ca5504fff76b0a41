package core

import "github.com/dkeye/Presence/internal/domain"

type SessionID string

// MemberSession binds domain.Peer and its transport endpoint.
// This is what a group stores and fans out to.
type MemberSession interface {
	Meta() *domain.Peer
	Signal() SignalConnection
	UpdateSignal(SignalConnection) MemberSession
}
