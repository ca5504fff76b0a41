package signal

import (
	"encoding/json"

	"github.com/dkeye/Presence/internal/core"
	"github.com/dkeye/Presence/internal/domain"
	"github.com/rs/zerolog/log"
)

// rosterEvent carries the full post-change member list. Joiner and bystanders
// get the same content.
type rosterEvent struct {
	Type    string           `json:"type"`
	Members []core.SessionID `json:"members"`
}

func (ctl *Controller) handleJoin(
	sid core.SessionID,
	conn *WsConn,
	data []byte,
) {
	type joinPayload struct {
		Type  string `json:"type"`
		Group string `json:"group,omitempty"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad join payload")
		return
	}

	key, members, ok := ctl.Orch.Join(sid, domain.GroupKey(p.Group))
	if !ok {
		// Guard failures stay off the wire.
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("group", string(key)).Msg("join")

	resp := rosterEvent{Type: "joined", Members: members}
	ctl.sendJSON(conn, resp)
	ctl.broadcastTo(members, sid, resp)
}

// handleLeave removes the session from its group; the connection stays up.
func (ctl *Controller) handleLeave(
	sid core.SessionID,
	conn *WsConn,
) {
	key, members, ok := ctl.Orch.Leave(sid)
	if !ok {
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("group", string(key)).Msg("leave")

	// The leaver gets a bare ack; remaining members get the new roster.
	ctl.sendJSON(conn, map[string]any{"type": "leaved"})
	ctl.broadcastTo(members, sid, rosterEvent{Type: "leaved", Members: members})
}

// handleDisconnect runs the same leave path with the socket already gone, so
// no self-ack is attempted.
func (ctl *Controller) handleDisconnect(sid core.SessionID) {
	ctl.limiter.Forget(sid)
	_, members, ok := ctl.Orch.OnDisconnect(sid)
	if !ok {
		return
	}
	ctl.broadcastTo(members, sid, rosterEvent{Type: "leaved", Members: members})
}

func (ctl *Controller) handlePing(conn *WsConn) {
	ctl.sendJSON(conn, map[string]any{"type": "pong"})
}
