package eathena

import (
	"fmt"

	"github.com/mana/mana-sub005/internal/game"
	"github.com/mana/mana-sub005/internal/protocol"
)

// ConnectionProblem is the reason a map server gives for dropping the
// player.
type ConnectionProblem struct {
	Code uint8
}

func (e *ConnectionProblem) Error() string {
	switch e.Code {
	case 0:
		return "authentication failed"
	case 1:
		return "no servers available"
	case 2:
		return "this account is already logged in"
	case 3:
		return "speed hack detected"
	case 8:
		return "duplicated login"
	default:
		return fmt.Sprintf("unknown connection error %d", e.Code)
	}
}

// GameHandler talks to the map server about the session itself.
type GameHandler struct {
	state *State
	link  Sender
}

func NewGameHandler(state *State, link Sender) *GameHandler {
	return &GameHandler{state: state, link: link}
}

func (h *GameHandler) MessageIDs() []uint16 {
	return []uint16{
		SMsgMapLoginSuccess,
		SMsgServerPing,
		SMsgConnectionProblem,
		SMsgPlayerWarp,
		SMsgWhoAnswer,
		SMsgQuitAck,
	}
}

func (h *GameHandler) Handle(msg *protocol.MessageIn) error {
	switch msg.ID() {
	case SMsgMapLoginSuccess:
		return h.handleLoginSuccess(msg)
	case SMsgServerPing:
		tick := msg.ReadUint32()
		h.state.Logger.Debugf("server tick %d", tick)
	case SMsgConnectionProblem:
		code := msg.ReadUint8()
		if msg.Err() == nil {
			h.state.refuse(&ConnectionProblem{Code: code})
		}
	case SMsgPlayerWarp:
		return h.handleWarp(msg)
	case SMsgWhoAnswer:
		online := msg.ReadUint32()
		if msg.Err() == nil {
			h.state.Events.Push(game.Event{
				Kind: game.EventNotice,
				Text: fmt.Sprintf("Online users: %d", online),
			})
		}
	case SMsgQuitAck:
		if msg.ReadUint16() != 0 {
			h.state.Events.Push(game.Event{Kind: game.EventNotice, Text: "Unable to quit now."})
		}
	}
	return nil
}

func (h *GameHandler) handleLoginSuccess(msg *protocol.MessageIn) error {
	msg.ReadUint32()
	x, y, direction := msg.ReadCoordinates()
	msg.Skip(2)
	if err := msg.Err(); err != nil {
		return err
	}

	player := h.state.Beings.SetPlayer(h.state.Session.CharacterID)
	player.X, player.Y = x, y
	player.DestX, player.DestY = x, y
	player.Direction = direction
	h.state.Session.Stage = StageGame
	h.state.Logger.Infof("spawned on %s at %d,%d", h.state.Session.Map, x, y)

	return h.MapLoaded()
}

func (h *GameHandler) handleWarp(msg *protocol.MessageIn) error {
	mapName := msg.ReadString(16)
	x := msg.ReadUint16()
	y := msg.ReadUint16()
	if err := msg.Err(); err != nil {
		return err
	}

	h.state.Session.Map = mapName
	h.state.Beings.Clear()
	if player := h.state.Beings.Player(); player != nil {
		player.X, player.Y = x, y
		player.DestX, player.DestY = x, y
	}
	h.state.Events.Push(game.Event{Kind: game.EventMapChanged, Text: mapName})
	return h.MapLoaded()
}

// Connect identifies the session and character to a freshly connected map
// server.
func (h *GameHandler) Connect() error {
	s := h.state.Session
	msg := protocol.NewMessageOut(Profile, CMsgMapServerConnect)
	msg.WriteUint32(s.AccountID)
	msg.WriteUint32(s.CharacterID)
	msg.WriteUint32(s.SessionID1)
	msg.WriteUint32(s.SessionID2)
	msg.WriteUint8(s.Sex)
	return h.link.Send(msg)
}

// MapLoaded tells the map server the client is ready to receive the map.
func (h *GameHandler) MapLoaded() error {
	return h.link.Send(protocol.NewMessageOut(Profile, CMsgMapLoaded))
}

func (h *GameHandler) Ping(tick uint32) error {
	msg := protocol.NewMessageOut(Profile, CMsgClientPing)
	msg.WriteUint32(tick)
	return h.link.Send(msg)
}

func (h *GameHandler) Quit() error {
	msg := protocol.NewMessageOut(Profile, CMsgClientQuit)
	msg.WriteUint16(0)
	return h.link.Send(msg)
}
