package manaserv

import (
	"fmt"

	"github.com/mana/mana-sub005/internal/protocol"
)

// Version reported in PAMSG_LOGIN.
const clientVersion = 0

// AccountHandler talks to the account server.
type AccountHandler struct {
	state *State
	link  Sender
}

func NewAccountHandler(state *State, link Sender) *AccountHandler {
	return &AccountHandler{state: state, link: link}
}

func (h *AccountHandler) MessageIDs() []uint16 {
	return []uint16{
		APMsgLoginResponse,
		APMsgLogoutResponse,
		APMsgCharInfo,
		APMsgCharSelectResponse,
	}
}

func (h *AccountHandler) Handle(msg *protocol.MessageIn) error {
	session := &h.state.Session

	switch msg.ID() {
	case APMsgLoginResponse:
		code := msg.ReadUint8()
		if err := msg.Err(); err != nil {
			return err
		}
		if code != errOK {
			h.state.refuse(&ServerError{Code: code})
			return nil
		}
		session.Stage = StageCharSelect

	case APMsgLogoutResponse:
		code := msg.ReadUint8()
		if code != errOK {
			h.state.Logger.Warnf("logout refused: %v", &ServerError{Code: code})
		}

	case APMsgCharInfo:
		var c Character
		c.Slot = msg.ReadUint8()
		c.Name = msg.ReadString(-1)
		c.Gender = msg.ReadUint8()
		c.HairStyle = msg.ReadUint8()
		c.HairColor = msg.ReadUint8()
		c.Level = msg.ReadUint16()
		c.Money = msg.ReadUint32()
		if err := msg.Err(); err != nil {
			return err
		}
		h.setCharacter(c)

	case APMsgCharSelectResponse:
		code := msg.ReadUint8()
		if code != errOK {
			if msg.Err() == nil {
				h.state.refuse(&ServerError{Code: code})
			}
			return msg.Err()
		}
		token := readToken(msg)
		gameHost := msg.ReadString(-1)
		gamePort := msg.ReadUint16()
		chatHost := msg.ReadString(-1)
		chatPort := msg.ReadUint16()
		if err := msg.Err(); err != nil {
			return err
		}
		session.Token = token
		session.GameHost, session.GamePort = gameHost, gamePort
		session.ChatHost, session.ChatPort = chatHost, chatPort
		session.Stage = StageGameConnect
		h.state.Logger.Infof("game server %s:%d, chat server %s:%d", gameHost, gamePort, chatHost, chatPort)
	}
	return nil
}

// setCharacter adds c, replacing whatever was in its slot.
func (h *AccountHandler) setCharacter(c Character) {
	chars := h.state.Session.Characters
	for i := range chars {
		if chars[i].Slot == c.Slot {
			chars[i] = c
			return
		}
	}
	h.state.Session.Characters = append(chars, c)
}

// Login starts a new session.
func (h *AccountHandler) Login(username, password string) error {
	h.state.Session = Session{}

	msg := protocol.NewMessageOut(Profile, PAMsgLogin)
	msg.WriteUint32(clientVersion)
	msg.WriteString(username, -1)
	msg.WriteString(password, -1)
	return h.link.Send(msg)
}

func (h *AccountHandler) Logout() error {
	return h.link.Send(protocol.NewMessageOut(Profile, PAMsgLogout))
}

// SelectCharacter plays the character in slot.
func (h *AccountHandler) SelectCharacter(slot uint8) error {
	for _, c := range h.state.Session.Characters {
		if c.Slot != slot {
			continue
		}
		msg := protocol.NewMessageOut(Profile, PAMsgCharSelect)
		msg.WriteUint8(slot)
		if err := h.link.Send(msg); err != nil {
			return err
		}
		h.state.Session.CharacterName = c.Name
		return nil
	}
	return fmt.Errorf("no character in slot %d", slot)
}
