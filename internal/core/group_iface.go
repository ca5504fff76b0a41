package core

import (
	"github.com/dkeye/Presence/internal/domain"
)

// PublishResult reports delivery stats/backpressure to the orchestrator.
type PublishResult struct {
	SentTo  int
	Dropped []SessionID
}

// GroupTransport is the narrow membership primitive the lifecycle core
// needs. Any framework's native room/broadcast-group abstraction could
// satisfy it.
type GroupTransport interface {
	Join(key domain.GroupKey, sid SessionID)
	Leave(key domain.GroupKey, sid SessionID)
	MembersOf(key domain.GroupKey) []SessionID
}

// GroupInfo is a read-only view for APIs.
type GroupInfo struct {
	Key         domain.GroupKey `json:"key"`
	MemberCount int             `json:"member_count"`
	Auto        bool            `json:"auto"`
}

// GroupManager adds the administrative surface on top of the transport
// primitive.
type GroupManager interface {
	GroupTransport
	List() []GroupInfo
}
