package signal

import (
	"encoding/json"

	"github.com/dkeye/Presence/internal/core"
	"github.com/dkeye/Presence/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *Controller) handleUpdate(sid core.SessionID, data []byte) {
	if !ctl.limiter.Allow(sid) {
		log.Debug().Str("module", "signal").Str("sid", string(sid)).Msg("update rate limited")
		return
	}

	var p struct {
		Type string `json:"type"`
		domain.PlayerState
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad update payload")
		return
	}

	ctl.Orch.OnUpdate(sid, p.PlayerState)
}
