package eathena

import (
	"math"
	"strings"

	"github.com/mana/mana-sub005/internal/npc"
	"github.com/mana/mana-sub005/internal/protocol"
)

// NPCHandler drives the NPC dialog from map server messages and sends the
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
		SMsgNPCMessage,
		SMsgNPCNext,
		SMsgNPCClose,
		SMsgNPCChoice,
		SMsgNPCIntInput,
		SMsgNPCStrInput,
	}
}

func (h *NPCHandler) Handle(msg *protocol.MessageIn) error {
	variable := msg.ID() == SMsgNPCMessage || msg.ID() == SMsgNPCChoice
	if variable {
		msg.ReadUint16()
	}
	npcID := msg.ReadUint32()
	if err := msg.Err(); err != nil {
		return err
	}

	// A script on another NPC is talking to us while a dialog is open;
	// tell that NPC we are done with it.
	if !h.Dialog.Open(npcID) {
		h.state.Logger.Debugf("closing dialog of NPC %d, talking to %d", npcID, h.Dialog.NPC())
		return h.CloseDialog(npcID)
	}

	switch msg.ID() {
	case SMsgNPCMessage:
		text := msg.ReadString(msg.Remaining())
		h.Dialog.AddText(text)
	case SMsgNPCNext:
		h.Dialog.ShowNext()
	case SMsgNPCClose:
		h.Dialog.ShowClose()
	case SMsgNPCChoice:
		h.Dialog.ChooseFrom(splitChoices(msg.ReadString(msg.Remaining())))
	case SMsgNPCIntInput:
		h.Dialog.AskInteger(0, math.MaxInt32, 0)
	case SMsgNPCStrInput:
		h.Dialog.AskString()
	}
	return nil
}

// splitChoices splits a colon separated choice list, dropping empty entries.
func splitChoices(s string) []string {
	var choices []string
	for _, c := range strings.Split(s, ":") {
		if c != "" {
			choices = append(choices, c)
		}
	}
	return choices
}

func (h *NPCHandler) Talk(npcID uint32) error {
	msg := protocol.NewMessageOut(Profile, CMsgNPCTalk)
	msg.WriteUint32(npcID)
	msg.WriteUint8(0)
	return h.link.Send(msg)
}

func (h *NPCHandler) NextDialog(npcID uint32) error {
	msg := protocol.NewMessageOut(Profile, CMsgNPCNextRequest)
	msg.WriteUint32(npcID)
	return h.link.Send(msg)
}

func (h *NPCHandler) CloseDialog(npcID uint32) error {
	msg := protocol.NewMessageOut(Profile, CMsgNPCClose)
	msg.WriteUint32(npcID)
	return h.link.Send(msg)
}

func (h *NPCHandler) ListInput(npcID uint32, choice uint8) error {
	msg := protocol.NewMessageOut(Profile, CMsgNPCListChoice)
	msg.WriteUint32(npcID)
	msg.WriteUint8(choice)
	return h.link.Send(msg)
}

func (h *NPCHandler) IntegerInput(npcID uint32, value int32) error {
	msg := protocol.NewMessageOut(Profile, CMsgNPCIntResponse)
	msg.WriteUint32(npcID)
	msg.WriteUint32(uint32(value))
	return h.link.Send(msg)
}

func (h *NPCHandler) StringInput(npcID uint32, value string) error {
	msg := protocol.NewMessageOut(Profile, CMsgNPCStrResponse)
	msg.WriteUint16(0)
	msg.WriteUint32(npcID)
	msg.WriteString(value, len(value))
	msg.WriteUint8(0)
	msg.FixLength()
	return h.link.Send(msg)
}
