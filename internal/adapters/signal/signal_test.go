package signal

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkeye/Parley/internal/app"
	"github.com/dkeye/Parley/internal/config"
	"github.com/dkeye/Parley/internal/domain"
	"github.com/dkeye/Parley/internal/protocol"
)

// Dispatch tests drive frames straight into the controller. The send
// channel stands in for the write pump, so no socket is involved.

func newTestController() *Controller {
	engine := &app.Engine{
		Registry: app.NewRegistry(),
		Rooms:    app.NewRoomManager(),
		Policy:   app.DropPolicy{},
	}
	return NewController(engine, &config.Config{SendBuffer: 32})
}

func testConn(ctl *Controller, id domain.ConnectionID) *WsSignalConn {
	conn := newWsSignalConn(nil, ctl.Cfg.SendBuffer)
	ctl.Engine.Connect(id, conn)
	return conn
}

func frame(t *testing.T, typ string, payload any) []byte {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	b, err := json.Marshal(protocol.Envelope{Type: typ, Data: data})
	require.NoError(t, err)
	return b
}

// drain decodes every frame the controller enqueued so far.
func drain(t *testing.T, c *WsSignalConn) []protocol.Envelope {
	t.Helper()
	var out []protocol.Envelope
	for {
		select {
		case data := <-c.send:
			var env protocol.Envelope
			require.NoError(t, json.Unmarshal(data, &env))
			out = append(out, env)
		default:
			return out
		}
	}
}

func typesOf(envs []protocol.Envelope) []string {
	var out []string
	for _, env := range envs {
		out = append(out, env.Type)
	}
	return out
}

func TestDispatch_BadJSONReportsError(t *testing.T) {
	req := require.New(t)
	ctl := newTestController()
	conn := testConn(ctl, "conn-a")

	ctl.dispatch("conn-a", conn, []byte("{not json"))

	envs := drain(t, conn)
	req.Equal([]string{protocol.EventError}, typesOf(envs))
}

func TestDispatch_UnknownTypeReportsError(t *testing.T) {
	req := require.New(t)
	ctl := newTestController()
	conn := testConn(ctl, "conn-a")

	ctl.dispatch("conn-a", conn, frame(t, "warp_drive", struct{}{}))

	envs := drain(t, conn)
	req.Equal([]string{protocol.EventError}, typesOf(envs))
	var errEv protocol.ErrorEvent
	req.NoError(json.Unmarshal(envs[0].Data, &errEv))
	req.Equal("unknown event type", errEv.Message)
}

func TestDispatch_ValidatorRejectsRelayWithoutTarget(t *testing.T) {
	req := require.New(t)
	ctl := newTestController()
	conn := testConn(ctl, "conn-a")

	ctl.dispatch("conn-a", conn, frame(t, protocol.EventSignalingOffer, map[string]any{
		"offer": map[string]string{"sdp": "v=0"},
	}))

	envs := drain(t, conn)
	req.Equal([]string{protocol.EventError}, typesOf(envs))
}

func TestDispatch_PingPong(t *testing.T) {
	req := require.New(t)
	ctl := newTestController()
	conn := testConn(ctl, "conn-a")

	ctl.dispatch("conn-a", conn, frame(t, protocol.EventPing, struct{}{}))

	envs := drain(t, conn)
	req.Equal([]string{protocol.EventPong}, typesOf(envs))
}

func TestDispatch_CreateThenJoinFlow(t *testing.T) {
	req := require.New(t)
	ctl := newTestController()
	creator := testConn(ctl, "conn-a")
	joiner := testConn(ctl, "conn-b")

	ctl.dispatch("conn-a", creator, frame(t, protocol.EventCreateRoom, protocol.CreateRoomRequest{Username: "alice"}))
	envs := drain(t, creator)
	req.Equal([]string{protocol.EventRoomCreated}, typesOf(envs))
	var created protocol.RoomCreated
	req.NoError(json.Unmarshal(envs[0].Data, &created))
	req.Len(string(created.RoomID), 6)

	ctl.dispatch("conn-b", joiner, frame(t, protocol.EventJoinRoom, protocol.JoinRoomRequest{
		RoomID:   string(created.RoomID),
		Username: "bob",
	}))

	envs = drain(t, joiner)
	req.Equal([]string{protocol.EventRoomJoined}, typesOf(envs))
	var joined protocol.RoomJoined
	req.NoError(json.Unmarshal(envs[0].Data, &joined))
	req.Equal(created.RoomID, joined.RoomID)
	req.Empty(joined.Messages)
	req.Equal([]string{"bob"}, joined.Users)
	req.False(joined.VideoCallActive)

	// the creator never joined the room, so it hears nothing about bob
	req.Empty(drain(t, creator))
}

func TestDispatch_NameTakenSurfacesAsErrorEvent(t *testing.T) {
	req := require.New(t)
	ctl := newTestController()
	alice := testConn(ctl, "conn-a")
	impostor := testConn(ctl, "conn-b")

	ctl.dispatch("conn-a", alice, frame(t, protocol.EventJoinRoom, protocol.JoinRoomRequest{RoomID: "ROOM", Username: "bob"}))
	drain(t, alice)
	ctl.dispatch("conn-b", impostor, frame(t, protocol.EventJoinRoom, protocol.JoinRoomRequest{RoomID: "ROOM", Username: "Bob"}))

	envs := drain(t, impostor)
	req.Equal([]string{protocol.EventError}, typesOf(envs))
	var errEv protocol.ErrorEvent
	req.NoError(json.Unmarshal(envs[0].Data, &errEv))
	req.Equal("username already taken in this room", errEv.Message)
	// alice saw no membership change
	req.Empty(drain(t, alice))
}

func TestDispatch_RelayReachesOnlyTheTarget(t *testing.T) {
	req := require.New(t)
	ctl := newTestController()
	caller := testConn(ctl, "conn-a")
	callee := testConn(ctl, "conn-b")
	bystander := testConn(ctl, "conn-c")

	ctl.dispatch("conn-a", caller, frame(t, protocol.EventSignalingOffer, map[string]any{
		"target_peer": "conn-b",
		"offer":       map[string]string{"sdp": "v=0"},
	}))

	envs := drain(t, callee)
	req.Equal([]string{protocol.EventSignalingOffer}, typesOf(envs))
	var fwd protocol.SignalingOffer
	req.NoError(json.Unmarshal(envs[0].Data, &fwd))
	req.Equal(domain.ConnectionID("conn-a"), fwd.PeerID)
	req.Empty(drain(t, caller))
	req.Empty(drain(t, bystander))
}

func TestDispatch_FanoutOrderMatchesHistory(t *testing.T) {
	req := require.New(t)
	ctl := newTestController()
	alice := testConn(ctl, "conn-a")
	bob := testConn(ctl, "conn-b")
	ctl.dispatch("conn-a", alice, frame(t, protocol.EventJoinRoom, protocol.JoinRoomRequest{RoomID: "ROOM", Username: "alice"}))
	ctl.dispatch("conn-b", bob, frame(t, protocol.EventJoinRoom, protocol.JoinRoomRequest{RoomID: "ROOM", Username: "bob"}))
	drain(t, alice)
	drain(t, bob)

	for i := 0; i < 5; i++ {
		ctl.dispatch("conn-a", alice, frame(t, protocol.EventSendMessage, protocol.SendMessageRequest{
			RoomID:  "ROOM",
			Message: fmt.Sprintf("msg-%d", i),
		}))
	}

	room, ok := ctl.Engine.Rooms.Get("ROOM")
	req.True(ok)
	var wantTexts []string
	for _, msg := range room.History() {
		if msg.Kind == domain.MessageText {
			wantTexts = append(wantTexts, msg.Text)
		}
	}
	req.Len(wantTexts, 5)

	for _, conn := range []*WsSignalConn{alice, bob} {
		var gotTexts []string
		for _, env := range drain(t, conn) {
			if env.Type != protocol.EventNewMessage {
				continue
			}
			var msg domain.Message
			req.NoError(json.Unmarshal(env.Data, &msg))
			gotTexts = append(gotTexts, msg.Text)
		}
		req.Equal(wantTexts, gotTexts)
	}
}
