package eathena

import (
	"strconv"
	"time"

	"github.com/mana/mana-sub005/internal/core/cache"
	"github.com/mana/mana-sub005/internal/protocol"
)

// A name is requested at most once per nameRequestTTL for the same being.
const nameRequestTTL = 5 * time.Second

// BeingHandler keeps the beings in sight up to date.
type BeingHandler struct {
	state *State
	link  Sender
	// Outstanding name requests, keyed by being id.
	nameRequests *cache.Cache
}

func NewBeingHandler(state *State, link Sender) *BeingHandler {
	return &BeingHandler{
		state:        state,
		link:         link,
		nameRequests: cache.New(nameRequestTTL),
	}
}

func (h *BeingHandler) MessageIDs() []uint16 {
	return []uint16{
		SMsgBeingVisible,
		SMsgBeingMove,
		SMsgBeingMove2,
		SMsgBeingRemove,
		SMsgPlayerStop,
		SMsgWalkResponse,
		SMsgBeingNameResponse,
		SMsgBeingChangeDirection,
	}
}

func (h *BeingHandler) Handle(msg *protocol.MessageIn) error {
	beings := h.state.Beings

	switch msg.ID() {
	case SMsgBeingVisible, SMsgBeingMove:
		id := msg.ReadUint32()
		speed := msg.ReadUint16()
		msg.Skip(6)
		job := msg.ReadUint16()

		var x, y, destX, destY uint16
		var direction uint8
		if msg.ID() == SMsgBeingVisible {
			msg.Skip(30)
			x, y, direction = msg.ReadCoordinates()
			destX, destY = x, y
			msg.Skip(5)
		} else {
			msg.Skip(34)
			x, y, destX, destY = msg.ReadCoordinatePair()
			msg.Skip(5)
		}
		if err := msg.Err(); err != nil {
			return err
		}

		_, known := beings.Get(id)
		being := beings.Ensure(id)
		being.Speed = speed
		being.Job = job
		being.X, being.Y = x, y
		being.DestX, being.DestY = destX, destY
		if msg.ID() == SMsgBeingVisible {
			being.Direction = direction
		}
		if !known && being.Name == "" {
			return h.RequestName(id)
		}

	case SMsgBeingMove2:
		id := msg.ReadUint32()
		x, y, destX, destY := msg.ReadCoordinatePair()
		msg.Skip(5)
		if err := msg.Err(); err != nil {
			return err
		}
		if being, ok := beings.Get(id); ok {
			being.X, being.Y = x, y
			being.DestX, being.DestY = destX, destY
		}

	case SMsgBeingRemove:
		id := msg.ReadUint32()
		// 1 means the being died rather than left sight.
		msg.ReadUint8()
		if msg.Err() == nil {
			beings.Remove(id)
			h.nameRequests.Delete(nameKey(id))
		}

	case SMsgPlayerStop:
		id := msg.ReadUint32()
		x := msg.ReadUint16()
		y := msg.ReadUint16()
		if msg.Err() != nil {
			return nil
		}
		if being, ok := beings.Get(id); ok {
			being.X, being.Y = x, y
			being.DestX, being.DestY = x, y
		}

	case SMsgWalkResponse:
		msg.ReadUint32()
		x, y, destX, destY := msg.ReadCoordinatePair()
		msg.Skip(1)
		if msg.Err() != nil {
			return nil
		}
		if player := beings.Player(); player != nil {
			player.X, player.Y = x, y
			player.DestX, player.DestY = destX, destY
		}

	case SMsgBeingNameResponse:
		id := msg.ReadUint32()
		name := msg.ReadString(24)
		if msg.Err() != nil {
			return nil
		}
		h.nameRequests.Delete(nameKey(id))
		if being, ok := beings.Get(id); ok {
			being.Name = name
		}

	case SMsgBeingChangeDirection:
		id := msg.ReadUint32()
		msg.Skip(2)
		direction := Profile.Directions.Logical(msg.ReadUint8())
		if msg.Err() != nil {
			return nil
		}
		if being, ok := beings.Get(id); ok {
			being.Direction = direction
		}
	}
	return nil
}

// Walk asks the server to move the player to x, y facing direction.
func (h *BeingHandler) Walk(x, y uint16, direction uint8) error {
	msg := protocol.NewMessageOut(Profile, CMsgPlayerChangeDest)
	msg.WriteCoordinates(x, y, direction)
	return h.link.Send(msg)
}

// RequestName asks for the name of a being unless a request for it is
// already outstanding.
func (h *BeingHandler) RequestName(id uint32) error {
	if !h.nameRequests.PutIfAbsent(nameKey(id), true) {
		return nil
	}
	msg := protocol.NewMessageOut(Profile, CMsgNameRequest)
	msg.WriteUint32(id)
	return h.link.Send(msg)
}

func nameKey(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}
