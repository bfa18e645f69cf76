package manaserv

import (
	"github.com/mana/mana-sub005/internal/game"
	"github.com/mana/mana-sub005/internal/protocol"
)

// GameHandler follows the player's connection to the game server.
type GameHandler struct {
	state *State
	link  Sender
}

func NewGameHandler(state *State, link Sender) *GameHandler {
	return &GameHandler{state: state, link: link}
}

func (h *GameHandler) MessageIDs() []uint16 {
	return []uint16{GPMsgConnectResponse, GPMsgPlayerMapChange, GPMsgDisconnectResponse}
}

func (h *GameHandler) Handle(msg *protocol.MessageIn) error {
	switch msg.ID() {
	case GPMsgConnectResponse:
		code := msg.ReadUint8()
		if err := msg.Err(); err != nil {
			return err
		}
		if code != errOK {
			h.state.refuse(&ServerError{Code: code})
			return nil
		}
		h.state.Session.Stage = StageGame

	case GPMsgPlayerMapChange:
		name := msg.ReadString(-1)
		x := msg.ReadUint16()
		y := msg.ReadUint16()
		if err := msg.Err(); err != nil {
			return err
		}
		h.state.Session.Map = name
		h.state.Beings.Clear()
		if p := h.state.Beings.Player(); p != nil {
			p.X, p.Y = x, y
			p.DestX, p.DestY = x, y
		}
		h.state.Events.Push(game.Event{Kind: game.EventMapChanged, Text: name})

	case GPMsgDisconnectResponse:
		code := msg.ReadUint8()
		if code != errOK {
			h.state.Logger.Warnf("disconnect refused: %v", &ServerError{Code: code})
		}
	}
	return nil
}

// Connect presents the account server's token to the game server.
func (h *GameHandler) Connect() error {
	msg := protocol.NewMessageOut(Profile, PGMsgConnect)
	writeToken(msg, h.state.Session.Token)
	return h.link.Send(msg)
}

// Disconnect leaves the game without going back to the account server.
func (h *GameHandler) Disconnect() error {
	msg := protocol.NewMessageOut(Profile, PGMsgDisconnect)
	msg.WriteUint8(0)
	return h.link.Send(msg)
}
