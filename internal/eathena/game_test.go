package eathena

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/mana/mana-sub005/internal/game"
	"github.com/mana/mana-sub005/internal/protocol"
)

func TestGameHandler_LoginSuccess(t *testing.T) {
	env := newTestEnv()
	h := NewGameHandler(env.state, env.sent)
	env.state.Session.CharacterID = 150001
	env.state.Session.Map = "new_1-1.gat"

	m := serverMessage(SMsgMapLoginSuccess)
	m.WriteUint32(123456)
	m.WriteCoordinates(100, 200, protocol.DirectionDown|protocol.DirectionLeft)
	m.WriteUint16(0)
	env.dispatch(t, h, m)

	if env.state.Session.Stage != StageGame {
		t.Errorf("expected stage %v, got %v", StageGame, env.state.Session.Stage)
	}
	player := env.state.Beings.Player()
	want := &game.Being{
		ID:        150001,
		X:         100,
		Y:         200,
		DestX:     100,
		DestY:     200,
		Direction: protocol.DirectionDown | protocol.DirectionLeft,
	}
	if diff := deep.Equal(player, want); diff != nil {
		t.Errorf("unexpected player: %v", diff)
	}
	if diff := deep.Equal(env.sent.ids(), []uint16{CMsgMapLoaded}); diff != nil {
		t.Errorf("unexpected messages sent: %v", diff)
	}
}

func TestGameHandler_Warp(t *testing.T) {
	env := newTestEnv()
	h := NewGameHandler(env.state, env.sent)
	env.state.Beings.SetPlayer(1)
	env.state.Beings.Ensure(2)

	m := serverMessage(SMsgPlayerWarp)
	m.WriteString("new_2-1.gat", 16)
	m.WriteUint16(30)
	m.WriteUint16(40)
	env.dispatch(t, h, m)

	if env.state.Beings.Len() != 1 {
		t.Errorf("expected only the player to remain, got %d beings", env.state.Beings.Len())
	}
	if p := env.state.Beings.Player(); p.X != 30 || p.Y != 40 {
		t.Errorf("unexpected player position %d,%d", p.X, p.Y)
	}
	if env.state.Session.Map != "new_2-1.gat" {
		t.Errorf("unexpected map %s", env.state.Session.Map)
	}
	events := env.state.Events.Drain()
	if len(events) != 1 || events[0].Kind != game.EventMapChanged {
		t.Errorf("unexpected events: %v", events)
	}
	if diff := deep.Equal(env.sent.ids(), []uint16{CMsgMapLoaded}); diff != nil {
		t.Errorf("unexpected messages sent: %v", diff)
	}
}

func TestGameHandler_ConnectionProblem(t *testing.T) {
	env := newTestEnv()
	h := NewGameHandler(env.state, env.sent)

	m := serverMessage(SMsgConnectionProblem)
	m.WriteUint8(2)
	ping := serverMessage(SMsgServerPing)
	ping.WriteUint32(99)
	env.dispatch(t, h, ping, m)

	if env.state.Session.Stage != StageRefused {
		t.Fatalf("expected stage %v, got %v", StageRefused, env.state.Session.Stage)
	}
	events := env.state.Events.Drain()
	want := []game.Event{{Kind: game.EventError, Text: "This Account Is Already Logged In"}}
	if diff := deep.Equal(events, want); diff != nil {
		t.Errorf("unexpected events: %v", diff)
	}
}

func TestGameHandler_Requests(t *testing.T) {
	env := newTestEnv()
	h := NewGameHandler(env.state, env.sent)
	env.state.Session = Session{AccountID: 1, CharacterID: 2, SessionID1: 3, SessionID2: 4, Sex: 1}

	if err := h.Connect(); err != nil {
		t.Fatalf("Connect() returned an unexpected error: %v", err)
	}
	want := []byte{
		0x72, 0x00,
		0x01, 0x00, 0x00, 0x00,
		0x02, 0x00, 0x00, 0x00,
		0x03, 0x00, 0x00, 0x00,
		0x04, 0x00, 0x00, 0x00,
		0x01,
	}
	if diff := deep.Equal(env.sent.last(t).Bytes(), want); diff != nil {
		t.Errorf("unexpected CMSG_MAP_SERVER_CONNECT: %v", diff)
	}

	_ = h.Ping(7)
	_ = h.Quit()
	if diff := deep.Equal(env.sent.ids(), []uint16{CMsgMapServerConnect, CMsgClientPing, CMsgClientQuit}); diff != nil {
		t.Errorf("unexpected messages sent: %v", diff)
	}
	if env.sent.last(t).Len() != 4 {
		t.Errorf("expected a 4 byte CMSG_CLIENT_QUIT")
	}
}
