package eathena

import (
	"fmt"

	"github.com/mana/mana-sub005/internal/protocol"
)

const (
	// Size of one character entry in SMSG_CHAR_LOGIN.
	characterEntrySize = 106
	// Protocol version sent with CMSG_CHAR_SERVER_CONNECT.
	charProtocolVersion = 1
)

// CharLoginError is a refusal from the character server.
type CharLoginError struct {
	Code uint8
}

func (e *CharLoginError) Error() string {
	switch e.Code {
	case 0:
		return "access denied"
	case 1:
		return "cannot use this id"
	default:
		return fmt.Sprintf("unknown failure to select character (%d)", e.Code)
	}
}

// CharHandler talks to the character server.
type CharHandler struct {
	state *State
	link  Sender
}

func NewCharHandler(state *State, link Sender) *CharHandler {
	return &CharHandler{state: state, link: link}
}

func (h *CharHandler) MessageIDs() []uint16 {
	return []uint16{SMsgCharLogin, SMsgCharLoginError, SMsgCharMapInfo}
}

func (h *CharHandler) Handle(msg *protocol.MessageIn) error {
	switch msg.ID() {
	case SMsgCharLogin:
		h.handleCharLogin(msg)
	case SMsgCharLoginError:
		code := msg.ReadUint8()
		if msg.Err() == nil {
			h.state.refuse(&CharLoginError{Code: code})
		}
	case SMsgCharMapInfo:
		h.handleMapInfo(msg)
	}
	return nil
}

func (h *CharHandler) handleCharLogin(msg *protocol.MessageIn) {
	length := int(msg.ReadUint16())
	msg.Skip(20)

	count := (length - msg.Pos() - 2) / characterEntrySize
	characters := make([]Character, 0, count)
	for i := 0; i < count; i++ {
		characters = append(characters, readCharacter(msg))
	}
	if msg.Err() != nil {
		return
	}

	h.state.Session.Characters = characters
	h.state.Session.Stage = StageCharSelect
	h.state.Logger.Infof("%d characters available", len(characters))
}

func readCharacter(msg *protocol.MessageIn) Character {
	var c Character
	c.ID = msg.ReadUint32()
	c.Exp = msg.ReadUint32()
	c.Money = msg.ReadUint32()
	c.JobExp = msg.ReadUint32()
	c.JobLevel = msg.ReadUint32()
	// Equipment looks, option, karma, manner and status points.
	msg.Skip(8 + 12 + 2)
	c.HP = msg.ReadUint16()
	c.MaxHP = msg.ReadUint16()
	c.MP = msg.ReadUint16()
	c.MaxMP = msg.ReadUint16()
	// Speed and race.
	msg.Skip(4)
	c.HairStyle = msg.ReadUint16()
	// Weapon.
	msg.Skip(2)
	c.Level = msg.ReadUint16()
	// Skill points and the remaining looks.
	msg.Skip(2 + 8)
	c.HairColor = msg.ReadUint16()
	msg.Skip(2)
	c.Name = msg.ReadString(24)
	// Base stats.
	msg.Skip(6)
	c.Slot = msg.ReadUint8()
	msg.Skip(1)
	return c
}

func (h *CharHandler) handleMapInfo(msg *protocol.MessageIn) {
	s := &h.state.Session
	characterID := msg.ReadUint32()
	mapName := msg.ReadString(16)
	host := ipString(msg.ReadUint32())
	port := msg.ReadUint16()
	if msg.Err() != nil {
		return
	}

	s.CharacterID = characterID
	s.Map = mapName
	s.MapHost = host
	s.MapPort = port
	s.Stage = StageMapConnect
	h.state.Logger.Infof("character %d is on %s, map server %s:%d", characterID, mapName, host, port)
}

// Connect identifies the session to a freshly connected character server.
func (h *CharHandler) Connect() error {
	s := h.state.Session
	msg := protocol.NewMessageOut(Profile, CMsgCharServerConnect)
	msg.WriteUint32(s.AccountID)
	msg.WriteUint32(s.SessionID1)
	msg.WriteUint32(s.SessionID2)
	msg.WriteUint16(charProtocolVersion)
	msg.WriteUint8(s.Sex)
	return h.link.Send(msg)
}

// SelectCharacter asks to play the character in slot.
func (h *CharHandler) SelectCharacter(slot uint8) error {
	found := false
	for _, c := range h.state.Session.Characters {
		if c.Slot == slot {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("no character in slot %d", slot)
	}

	msg := protocol.NewMessageOut(Profile, CMsgCharSelect)
	msg.WriteUint8(slot)
	return h.link.Send(msg)
}
