package domain

type PeerID string

// Peer is the per-connection context, populated once at connection setup.
// Trusted comes from the credential check in the HTTP layer; a trusted peer's
// updates are broadcast globally instead of group-scoped.
type Peer struct {
	ID      PeerID `json:"id"`
	Trusted bool   `json:"trusted"`
}

// NewPeer avoids raw literals in adapters and keeps construction obvious.
func NewPeer(id PeerID, trusted bool) *Peer {
	return &Peer{ID: id, Trusted: trusted}
}
