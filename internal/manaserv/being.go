package manaserv

import (
	"github.com/mana/mana-sub005/internal/protocol"
)

// Object types in GPMSG_BEING_ENTER.
const (
	objectItem = iota
	objectActor
	objectNPC
	objectMonster
	objectCharacter
)

// Flags of one entry in GPMSG_BEINGS_MOVE.
const (
	movingPosition    = 1
	movingDestination = 2
)

// BeingHandler tracks the beings in sight of the player.
type BeingHandler struct {
	state *State
	link  Sender
}

func NewBeingHandler(state *State, link Sender) *BeingHandler {
	return &BeingHandler{state: state, link: link}
}

func (h *BeingHandler) MessageIDs() []uint16 {
	return []uint16{GPMsgBeingEnter, GPMsgBeingLeave, GPMsgBeingsMove}
}

func (h *BeingHandler) Handle(msg *protocol.MessageIn) error {
	switch msg.ID() {
	case GPMsgBeingEnter:
		return h.handleEnter(msg)
	case GPMsgBeingLeave:
		id := uint32(msg.ReadUint16())
		if err := msg.Err(); err != nil {
			return err
		}
		h.state.Beings.Remove(id)
	case GPMsgBeingsMove:
		return h.handleMove(msg)
	}
	return nil
}

func (h *BeingHandler) handleEnter(msg *protocol.MessageIn) error {
	kind := msg.ReadUint8()
	id := uint32(msg.ReadUint16())
	// Current action.
	msg.ReadUint8()
	x := msg.ReadUint16()
	y := msg.ReadUint16()
	direction := Profile.Directions.Logical(msg.ReadUint8())

	var name string
	var job uint16
	switch kind {
	case objectCharacter:
		name = msg.ReadString(-1)
		// Hair style, hair color and gender.
		msg.Skip(3)
	case objectMonster, objectNPC:
		job = msg.ReadUint16()
	default:
		h.state.Logger.Debugf("ignoring object %d of type %d", id, kind)
		return msg.Err()
	}
	if err := msg.Err(); err != nil {
		return err
	}

	being := h.state.Beings.Ensure(id)
	if kind == objectCharacter && h.state.Beings.Player() == nil && name == h.state.Session.CharacterName {
		being = h.state.Beings.SetPlayer(id)
	}
	being.Name = name
	being.Job = job
	being.X, being.Y = x, y
	being.DestX, being.DestY = x, y
	being.Direction = direction
	return nil
}

// handleMove reads entries until the message runs out and applies them
// once all were read. An entry for an unknown being is skipped.
func (h *BeingHandler) handleMove(msg *protocol.MessageIn) error {
	type move struct {
		id           uint32
		flags        uint8
		x, y, dx, dy uint16
	}
	var moves []move
	for msg.Remaining() > 0 && msg.Err() == nil {
		m := move{id: uint32(msg.ReadUint16()), flags: msg.ReadUint8()}
		if m.flags&movingPosition != 0 {
			m.x = msg.ReadUint16()
			m.y = msg.ReadUint16()
		}
		if m.flags&movingDestination != 0 {
			m.dx = msg.ReadUint16()
			m.dy = msg.ReadUint16()
		}
		moves = append(moves, m)
	}
	if err := msg.Err(); err != nil {
		return err
	}

	for _, m := range moves {
		being, ok := h.state.Beings.Get(m.id)
		if !ok {
			continue
		}
		if m.flags&movingPosition != 0 {
			being.X, being.Y = m.x, m.y
		}
		if m.flags&movingDestination != 0 {
			being.DestX, being.DestY = m.dx, m.dy
		}
	}
	return nil
}

// Walk asks the server to move the player to x, y.
func (h *BeingHandler) Walk(x, y uint16) error {
	msg := protocol.NewMessageOut(Profile, PGMsgWalk)
	msg.WriteUint16(x)
	msg.WriteUint16(y)
	if err := h.link.Send(msg); err != nil {
		return err
	}
	if p := h.state.Beings.Player(); p != nil {
		p.DestX, p.DestY = x, y
	}
	return nil
}
