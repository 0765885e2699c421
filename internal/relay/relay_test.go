package relay

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vj7harsh/SmallWorld/internal/room"
)

// newTestRelay wires a relay without running the loop; tests drive
// handleMessage directly, which is how Run invokes it.
func newTestRelay() *Relay {
	return New(room.NewStore())
}

func addClient(r *Relay) *Client {
	c := NewClient(nil)
	r.clients[c] = session{}
	return c
}

// drainState pops one queued state broadcast off the client, failing if none
// is pending.
func drainState(t *testing.T, c *Client) stateMessage {
	t.Helper()
	select {
	case data := <-c.send:
		var st stateMessage
		require.NoError(t, json.Unmarshal(data, &st))
		require.Equal(t, "state", st.Type)
		return st
	default:
		t.Fatal("expected a queued state message")
		return stateMessage{}
	}
}

func assertNoMessage(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected message: %s", data)
	default:
	}
}

func TestJoinBroadcastsState(t *testing.T) {
	r := newTestRelay()
	alice := addClient(r)

	r.handleMessage(alice, []byte(`{"type":"join","roomId":"g1","playerName":"alice"}`))

	assert.Equal(t, session{roomID: "g1", player: "alice"}, r.clients[alice])
	st := drainState(t, alice)
	require.Len(t, st.Players, 1)
	assert.Equal(t, "alice", st.Players[0].Name)
	assert.Equal(t, "alice", st.Host)
	assert.False(t, st.Started)
}

func TestJoinFansOutToRoomOnly(t *testing.T) {
	r := newTestRelay()
	alice := addClient(r)
	bob := addClient(r)
	outsider := addClient(r)

	r.handleMessage(alice, []byte(`{"type":"join","roomId":"g1","playerName":"alice"}`))
	r.handleMessage(outsider, []byte(`{"type":"join","roomId":"g2","playerName":"zed"}`))
	drainState(t, alice)
	drainState(t, outsider)

	r.handleMessage(bob, []byte(`{"type":"join","roomId":"g1","playerName":"bob"}`))

	st := drainState(t, alice)
	assert.Len(t, st.Players, 2)
	st = drainState(t, bob)
	assert.Len(t, st.Players, 2)
	assertNoMessage(t, outsider)
}

func TestRejoinStillBroadcasts(t *testing.T) {
	r := newTestRelay()
	alice := addClient(r)
	r.handleMessage(alice, []byte(`{"type":"join","roomId":"g1","playerName":"alice"}`))
	drainState(t, alice)

	// same name from a fresh connection: the store is unchanged but the new
	// connection still gets the current state
	again := addClient(r)
	r.handleMessage(again, []byte(`{"type":"join","roomId":"g1","playerName":"alice"}`))
	st := drainState(t, again)
	assert.Len(t, st.Players, 1)
}

func TestNonHostConfigIsSilentlyIgnored(t *testing.T) {
	r := newTestRelay()
	alice := addClient(r)
	bob := addClient(r)
	r.handleMessage(alice, []byte(`{"type":"join","roomId":"g1","playerName":"alice"}`))
	r.handleMessage(bob, []byte(`{"type":"join","roomId":"g1","playerName":"bob"}`))
	drainState(t, alice)
	drainState(t, alice)
	drainState(t, bob)

	r.handleMessage(bob, []byte(`{"type":"set_config","roomId":"g1","playerName":"bob","map":{"radius":10}}`))
	assertNoMessage(t, alice)
	assertNoMessage(t, bob)

	r.handleMessage(alice, []byte(`{"type":"set_config","roomId":"g1","playerName":"alice","map":{"radius":10}}`))
	st := drainState(t, bob)
	assert.JSONEq(t, `{"radius":10}`, string(st.Map))
}

func TestSetRaceBroadcasts(t *testing.T) {
	r := newTestRelay()
	alice := addClient(r)
	r.handleMessage(alice, []byte(`{"type":"join","roomId":"g1","playerName":"alice"}`))
	drainState(t, alice)

	r.handleMessage(alice, []byte(`{"type":"set_race","roomId":"g1","playerName":"alice","race":"elves"}`))
	st := drainState(t, alice)
	assert.Equal(t, "elves", st.Players[0].Race)
}

func TestStartFromNonHostIsIgnored(t *testing.T) {
	r := newTestRelay()
	alice := addClient(r)
	bob := addClient(r)
	r.handleMessage(alice, []byte(`{"type":"join","roomId":"g1","playerName":"alice"}`))
	r.handleMessage(bob, []byte(`{"type":"join","roomId":"g1","playerName":"bob"}`))
	drainState(t, alice)
	drainState(t, alice)
	drainState(t, bob)

	r.handleMessage(bob, []byte(`{"type":"start","roomId":"g1","playerName":"bob"}`))
	assertNoMessage(t, alice)

	r.handleMessage(alice, []byte(`{"type":"start","roomId":"g1","playerName":"alice"}`))
	st := drainState(t, alice)
	assert.True(t, st.Started)
}

func TestMalformedInputIsDropped(t *testing.T) {
	r := newTestRelay()
	alice := addClient(r)

	frames := [][]byte{
		[]byte(`not json at all`),
		[]byte(`{"type":42}`),
		[]byte(`{"noType":"here"}`),
		[]byte(`{"type":"teleport","roomId":"g1"}`),
		[]byte(`{"type":"join","roomId":"g1"}`),
		[]byte(`{"type":"join","playerName":"alice"}`),
		[]byte(`{"type":"set_config","roomId":"g1"}`),
	}
	for _, frame := range frames {
		r.handleMessage(alice, frame)
	}

	assertNoMessage(t, alice)
	// connection stays registered with no room association
	assert.Equal(t, session{}, r.clients[alice])
}
