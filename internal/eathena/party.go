package eathena

import (
	"errors"
	"fmt"

	"github.com/mana/mana-sub005/internal/game"
	"github.com/mana/mana-sub005/internal/protocol"
)

// Size of one member entry in SMSG_PARTY_INFO.
const partyMemberEntrySize = 46

// PartyHandler keeps the player's party up to date.
type PartyHandler struct {
	state *State
	link  Sender
	// Party id of the last invitation received.
	invitedBy uint32
}

func NewPartyHandler(state *State, link Sender) *PartyHandler {
	return &PartyHandler{state: state, link: link}
}

func (h *PartyHandler) MessageIDs() []uint16 {
	return []uint16{
		SMsgPartyCreate,
		SMsgPartyInfo,
		SMsgPartyInviteResponse,
		SMsgPartyInvited,
		SMsgPartyLeave,
		SMsgPartyMessage,
	}
}

func (h *PartyHandler) Handle(msg *protocol.MessageIn) error {
	party := h.state.Party

	switch msg.ID() {
	case SMsgPartyCreate:
		failed := msg.ReadUint8()
		if msg.Err() != nil {
			return nil
		}
		text := "Party successfully created."
		if failed != 0 {
			text = "Could not create party."
		}
		h.state.Events.Push(game.Event{Kind: game.EventNotice, Text: text})

	case SMsgPartyInfo:
		length := int(msg.ReadUint16())
		name := msg.ReadString(24)
		count := (length - 28) / partyMemberEntrySize
		members := make([]game.PartyMember, 0, count)
		for i := 0; i < count; i++ {
			var m game.PartyMember
			m.ID = msg.ReadUint32()
			m.Name = msg.ReadString(24)
			m.Map = msg.ReadString(16)
			m.Leader = msg.ReadUint8() == 0
			m.Online = msg.ReadUint8() == 0
			members = append(members, m)
		}
		if err := msg.Err(); err != nil {
			return err
		}
		party.Leave()
		party.Name = name
		for _, m := range members {
			party.SetMember(m)
		}

	case SMsgPartyInviteResponse:
		nick := msg.ReadString(24)
		status := msg.ReadUint8()
		if msg.Err() != nil {
			return nil
		}
		var text string
		switch status {
		case 0:
			text = fmt.Sprintf("%s is already a member of a party.", nick)
		case 1:
			text = fmt.Sprintf("%s refused your invitation.", nick)
		case 2:
			text = fmt.Sprintf("%s is now a member of your party.", nick)
		default:
			text = fmt.Sprintf("Unknown invite response for %s.", nick)
		}
		h.state.Events.Push(game.Event{Kind: game.EventNotice, Text: text})

	case SMsgPartyInvited:
		id := msg.ReadUint32()
		name := msg.ReadString(24)
		if msg.Err() != nil {
			return nil
		}
		h.invitedBy = id
		h.state.Events.Push(game.Event{
			Kind:     game.EventPartyInvite,
			Source:   name,
			SourceID: id,
			Text:     fmt.Sprintf("You have been invited to join %s.", name),
		})

	case SMsgPartyLeave:
		id := msg.ReadUint32()
		nick := msg.ReadString(24)
		msg.ReadUint8()
		if msg.Err() != nil {
			return nil
		}
		if player := h.state.Beings.Player(); player != nil && player.ID == id {
			party.Leave()
			h.state.Events.Push(game.Event{Kind: game.EventNotice, Text: "You have left the party."})
			return nil
		}
		party.RemoveMember(id)
		h.state.Events.Push(game.Event{Kind: game.EventNotice, Text: fmt.Sprintf("%s has left your party.", nick)})

	case SMsgPartyMessage:
		msg.ReadUint16()
		id := msg.ReadUint32()
		text := msg.ReadString(msg.Remaining())
		if msg.Err() != nil {
			return nil
		}
		var sender string
		if m, ok := party.Member(id); ok {
			sender = m.Name
		}
		h.state.Events.Push(game.Event{Kind: game.EventParty, Source: sender, SourceID: id, Text: text})
		h.state.logChat(channelParty, sender, text)
	}
	return nil
}

func (h *PartyHandler) Create(name string) error {
	msg := protocol.NewMessageOut(Profile, CMsgPartyCreate)
	msg.WriteString(name, 24)
	return h.link.Send(msg)
}

// Invite invites the player with the given being id.
func (h *PartyHandler) Invite(id uint32) error {
	if !h.state.Party.InParty() {
		return errors.New("not in a party")
	}
	msg := protocol.NewMessageOut(Profile, CMsgPartyInvite)
	msg.WriteUint32(id)
	return h.link.Send(msg)
}

// RespondInvite answers the last invitation.
func (h *PartyHandler) RespondInvite(accept bool) error {
	if h.invitedBy == 0 {
		return errors.New("no pending party invitation")
	}
	msg := protocol.NewMessageOut(Profile, CMsgPartyReplyInvite)
	msg.WriteUint32(h.invitedBy)
	if accept {
		msg.WriteUint32(1)
	} else {
		msg.WriteUint32(0)
	}
	h.invitedBy = 0
	return h.link.Send(msg)
}

func (h *PartyHandler) Leave() error {
	return h.link.Send(protocol.NewMessageOut(Profile, CMsgPartyLeave))
}

// Message says text to the party.
func (h *PartyHandler) Message(text string) error {
	msg := protocol.NewMessageOut(Profile, CMsgPartyMessage)
	msg.WriteUint16(0)
	msg.WriteString(text, len(text))
	msg.FixLength()
	return h.link.Send(msg)
}
