package app

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/Presence/internal/core"
	"github.com/dkeye/Presence/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	fail   bool
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("backpressure")
	}
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() {}

func (f *fakeConn) received() []core.Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]core.Frame, len(f.frames))
	copy(out, f.frames)
	return out
}

func bindPeer(r *Registry, sid core.SessionID, trusted bool, key domain.GroupKey) *fakeConn {
	conn := &fakeConn{}
	sess := core.NewMemberSession(domain.NewPeer(domain.PeerID(sid), trusted)).UpdateSignal(conn)
	r.Bind(sid, sess, nil)
	if key != "" {
		r.UpdateGroup(sid, key)
	}
	return conn
}

func testState() domain.PlayerState {
	return domain.PlayerState{
		Position:  domain.Vector3{X: 1, Y: 2, Z: 3},
		Rotation:  domain.Vector3{X: 0.5, Y: 1.5, Z: 2.5},
		Accessory: json.RawMessage(`{"hat":"crown"}`),
		Area:      json.RawMessage(`"meadow"`),
		State:     json.RawMessage(`"walking"`),
	}
}

func TestRelayGroupScopedBroadcast(t *testing.T) {
	reg := NewRegistry()
	relay := NewRelay(reg)
	stamp := time.UnixMilli(1700000000000)
	relay.now = func() time.Time { return stamp }

	bindPeer(reg, "x", false, "gggg")
	connY := bindPeer(reg, "y", false, "gggg")
	connZ := bindPeer(reg, "z", false, "gggg")
	connOther := bindPeer(reg, "w", false, "hhhh")

	sess, _ := reg.GetSession("x")
	res := relay.Broadcast("x", sess.Meta(), testState())

	assert.Equal(t, 2, res.SentTo)
	assert.Empty(t, res.Dropped)
	assert.Empty(t, connOther.received(), "unrelated group must not receive")

	for _, conn := range []*fakeConn{connY, connZ} {
		frames := conn.received()
		require.Len(t, frames, 1)

		var ev UpdateEvent
		require.NoError(t, json.Unmarshal(frames[0], &ev))
		assert.Equal(t, "updated", ev.Type)
		assert.Equal(t, core.SessionID("x"), ev.ID)
		assert.Equal(t, domain.Vector3{X: 1, Y: 2, Z: 3}, ev.Position)
		assert.Equal(t, Yaw{Y: 1.5}, ev.Rotation, "only yaw is relayed")
		assert.JSONEq(t, `{"hat":"crown"}`, string(ev.Accessory))
		assert.False(t, ev.Metaneno)
		assert.Equal(t, stamp.UnixMilli(), ev.UpdatedAt)
	}
}

func TestRelayTrustedBroadcastsGlobally(t *testing.T) {
	reg := NewRegistry()
	relay := NewRelay(reg)

	bindPeer(reg, "w", true, "hhhh")
	receivers := []*fakeConn{
		bindPeer(reg, "y", false, "gggg"),
		bindPeer(reg, "z", false, "gggg"),
		bindPeer(reg, "u", false, ""), // bound, not joined anywhere
	}

	sess, _ := reg.GetSession("w")
	res := relay.Broadcast("w", sess.Meta(), testState())

	assert.Equal(t, 3, res.SentTo)
	for _, conn := range receivers {
		frames := conn.received()
		require.Len(t, frames, 1)
		var ev UpdateEvent
		require.NoError(t, json.Unmarshal(frames[0], &ev))
		assert.True(t, ev.Metaneno)
		assert.Equal(t, core.SessionID("w"), ev.ID)
	}
}

func TestRelaySenderExcluded(t *testing.T) {
	reg := NewRegistry()
	relay := NewRelay(reg)

	connX := bindPeer(reg, "x", false, "gggg")
	bindPeer(reg, "y", false, "gggg")

	sess, _ := reg.GetSession("x")
	relay.Broadcast("x", sess.Meta(), testState())
	assert.Empty(t, connX.received())
}

func TestRelayUnjoinedSenderIsNoop(t *testing.T) {
	reg := NewRegistry()
	relay := NewRelay(reg)

	bindPeer(reg, "x", false, "")
	connY := bindPeer(reg, "y", false, "gggg")

	sess, _ := reg.GetSession("x")
	res := relay.Broadcast("x", sess.Meta(), testState())

	assert.Equal(t, 0, res.SentTo)
	assert.Empty(t, connY.received())
}

func TestRelayReportsDropped(t *testing.T) {
	reg := NewRegistry()
	relay := NewRelay(reg)

	bindPeer(reg, "x", false, "gggg")
	slow := bindPeer(reg, "y", false, "gggg")
	slow.fail = true

	sess, _ := reg.GetSession("x")
	res := relay.Broadcast("x", sess.Meta(), testState())

	assert.Equal(t, 0, res.SentTo)
	assert.Equal(t, []core.SessionID{"y"}, res.Dropped)
}
