package eathena

import (
	"github.com/mana/mana-sub005/internal/game"
	"github.com/mana/mana-sub005/internal/protocol"
)

// AdminHandler sends GM commands.
type AdminHandler struct {
	state *State
	link  Sender
}

func NewAdminHandler(state *State, link Sender) *AdminHandler {
	return &AdminHandler{state: state, link: link}
}

func (h *AdminHandler) MessageIDs() []uint16 {
	return []uint16{SMsgAdminKickAck}
}

func (h *AdminHandler) Handle(msg *protocol.MessageIn) error {
	id := msg.ReadUint32()
	if msg.Err() != nil {
		return nil
	}
	text := "Kick succeeded."
	if id == 0 {
		text = "Kick failed."
	}
	h.state.Events.Push(game.Event{Kind: game.EventNotice, SourceID: id, Text: text})
	return nil
}

// Announce broadcasts text to every player.
func (h *AdminHandler) Announce(text string) error {
	msg := protocol.NewMessageOut(Profile, CMsgAdminAnnounce)
	msg.WriteUint16(0)
	msg.WriteString(text, len(text))
	msg.FixLength()
	return h.link.Send(msg)
}

// Kick disconnects the player with the given being id.
func (h *AdminHandler) Kick(id uint32) error {
	msg := protocol.NewMessageOut(Profile, CMsgAdminKick)
	msg.WriteUint32(id)
	return h.link.Send(msg)
}
