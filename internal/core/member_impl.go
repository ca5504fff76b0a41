package core

import "github.com/dkeye/Presence/internal/domain"

// memberSession implements MemberSession by pairing meta + transport.
type memberSession struct {
	meta *domain.Peer
	sig  SignalConnection
}

func NewMemberSession(meta *domain.Peer) MemberSession {
	return &memberSession{meta: meta}
}

func (m *memberSession) Meta() *domain.Peer       { return m.meta }
func (m *memberSession) Signal() SignalConnection { return m.sig }

func (m *memberSession) UpdateSignal(sig SignalConnection) MemberSession {
	m.sig = sig
	return m
}
