package manaserv

import (
	"github.com/mana/mana-sub005/internal/game"
	"github.com/mana/mana-sub005/internal/npc"
	"github.com/mana/mana-sub005/internal/protocol"
)

// NPCHandler drives the NPC dialog from game server messages and sends the
// user's answers back.
type NPCHandler struct {
	state  *State
	link   Sender
	Dialog *npc.Dialog
}

func NewNPCHandler(state *State, link Sender) *NPCHandler {
	h := &NPCHandler{state: state, link: link}
	h.Dialog = npc.NewDialog(h)
	return h
}

func (h *NPCHandler) MessageIDs() []uint16 {
	return []uint16{
		GPMsgNPCChoice,
		GPMsgNPCMessage,
		GPMsgNPCError,
		GPMsgNPCClose,
		GPMsgNPCNumber,
		GPMsgNPCString,
	}
}

func (h *NPCHandler) Handle(msg *protocol.MessageIn) error {
	npcID := uint32(msg.ReadUint16())
	if err := msg.Err(); err != nil {
		return err
	}
	// Messages for an NPC other than the one being talked to are dropped;
	// the server does not expect a close for them.
	if !h.Dialog.Open(npcID) {
		h.state.Logger.Debugf("ignoring NPC %d, talking to %d", npcID, h.Dialog.NPC())
		return nil
	}

	switch msg.ID() {
	case GPMsgNPCChoice:
		var choices []string
		for msg.Remaining() > 0 {
			choices = append(choices, msg.ReadString(-1))
		}
		if err := msg.Err(); err != nil {
			return err
		}
		h.Dialog.ChooseFrom(choices)

	case GPMsgNPCMessage:
		h.Dialog.AddText(msg.ReadString(msg.Remaining()))
		h.Dialog.ShowNext()

	case GPMsgNPCError:
		h.Dialog.End()
		h.state.Events.Push(game.Event{Kind: game.EventNotice, SourceID: npcID, Text: "You cannot talk to this NPC now."})

	case GPMsgNPCClose:
		h.Dialog.ShowClose()

	case GPMsgNPCNumber:
		min := int32(msg.ReadUint32())
		max := int32(msg.ReadUint32())
		def := int32(msg.ReadUint32())
		if err := msg.Err(); err != nil {
			return err
		}
		h.Dialog.AskInteger(min, max, def)

	case GPMsgNPCString:
		h.Dialog.AskString()
	}
	return nil
}

func (h *NPCHandler) Talk(npcID uint32) error {
	return h.sendID(PGMsgNPCTalk, npcID)
}

func (h *NPCHandler) NextDialog(npcID uint32) error {
	return h.sendID(PGMsgNPCTalkNext, npcID)
}

// CloseDialog acknowledges the last page the same way as reading on.
func (h *NPCHandler) CloseDialog(npcID uint32) error {
	return h.sendID(PGMsgNPCTalkNext, npcID)
}

func (h *NPCHandler) ListInput(npcID uint32, choice uint8) error {
	msg := protocol.NewMessageOut(Profile, PGMsgNPCSelect)
	msg.WriteUint16(uint16(npcID))
	msg.WriteUint8(choice)
	return h.link.Send(msg)
}

func (h *NPCHandler) IntegerInput(npcID uint32, value int32) error {
	msg := protocol.NewMessageOut(Profile, PGMsgNPCNumber)
	msg.WriteUint16(uint16(npcID))
	msg.WriteUint32(uint32(value))
	return h.link.Send(msg)
}

func (h *NPCHandler) StringInput(npcID uint32, value string) error {
	msg := protocol.NewMessageOut(Profile, PGMsgNPCString)
	msg.WriteUint16(uint16(npcID))
	msg.WriteString(value, -1)
	return h.link.Send(msg)
}

func (h *NPCHandler) sendID(id uint16, npcID uint32) error {
	msg := protocol.NewMessageOut(Profile, id)
	msg.WriteUint16(uint16(npcID))
	return h.link.Send(msg)
}
