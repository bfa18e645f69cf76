package eathena

import (
	"fmt"

	"github.com/mana/mana-sub005/internal/game"
	"github.com/mana/mana-sub005/internal/protocol"
)

const (
	// Size of one world entry in SMSG_LOGIN_DATA.
	worldEntrySize = 32
	// Client flags sent with CMSG_LOGIN_REGISTER.
	loginFlags = 0x03
)

// LoginError is a refusal from the login server.
type LoginError struct {
	Code uint8
	// Until is the end of a temporary ban.
	Until string
}

func (e *LoginError) Error() string {
	switch e.Code {
	case 0:
		return "unregistered id"
	case 1:
		return "wrong password"
	case 2:
		return "account expired"
	case 3:
		return "rejected from server"
	case 4:
		return "you have been permanently banned from the game"
	case 6:
		return fmt.Sprintf("you have been temporarily banned from the game until %s", e.Until)
	case 9:
		return "this user name is already taken"
	default:
		return fmt.Sprintf("unknown login error %d", e.Code)
	}
}

// LoginHandler talks to the login server.
type LoginHandler struct {
	state *State
	link  Sender
}

func NewLoginHandler(state *State, link Sender) *LoginHandler {
	return &LoginHandler{state: state, link: link}
}

func (h *LoginHandler) MessageIDs() []uint16 {
	return []uint16{SMsgServerVersionResponse, SMsgLoginData, SMsgLoginError}
}

func (h *LoginHandler) Handle(msg *protocol.MessageIn) error {
	switch msg.ID() {
	case SMsgServerVersionResponse:
		h.handleVersion(msg)
	case SMsgLoginData:
		h.handleLoginData(msg)
	case SMsgLoginError:
		code := msg.ReadUint8()
		until := msg.ReadString(20)
		if msg.Err() == nil {
			h.state.refuse(&LoginError{Code: code, Until: until})
		}
	}
	return nil
}

func (h *LoginHandler) handleVersion(msg *protocol.MessageIn) {
	// The first byte is the server's feature flags.
	msg.Skip(1)
	version := msg.ReadUint32()
	msg.Skip(3)
	if msg.Err() != nil {
		return
	}
	h.state.Session.ServerVersion = version
	h.state.Logger.Infof("login server version %d", version)
}

func (h *LoginHandler) handleLoginData(msg *protocol.MessageIn) {
	length := int(msg.ReadUint16())
	sessionID1 := msg.ReadUint32()
	accountID := msg.ReadUint32()
	sessionID2 := msg.ReadUint32()
	// Old IP address and last login time.
	msg.Skip(4 + 24)
	msg.Skip(2)
	sex := msg.ReadUint8()

	count := (length - msg.Pos() - 2) / worldEntrySize
	var worlds []World
	for i := 0; i < count && msg.Err() == nil; i++ {
		var w World
		w.Host = ipString(msg.ReadUint32())
		w.Port = msg.ReadUint16()
		w.Name = msg.ReadString(20)
		w.Users = msg.ReadUint16()
		msg.Skip(4)
		worlds = append(worlds, w)
	}
	if msg.Err() != nil {
		return
	}

	s := &h.state.Session
	s.SessionID1 = sessionID1
	s.AccountID = accountID
	s.SessionID2 = sessionID2
	s.Sex = sex
	s.Worlds = worlds
	s.Stage = StageWorldSelect
	h.state.Logger.Infof("logged in as account %d, %d worlds available", s.AccountID, len(s.Worlds))
}

// RequestVersion asks the login server for its version.
func (h *LoginHandler) RequestVersion() error {
	return h.link.Send(protocol.NewMessageOut(Profile, CMsgServerVersionRequest))
}

// Login sends the account credentials.
func (h *LoginHandler) Login(username, password string) error {
	h.state.Session = Session{Stage: StageLogin}
	msg := protocol.NewMessageOut(Profile, CMsgLoginRegister)
	msg.WriteUint32(0)
	msg.WriteString(username, 24)
	msg.WriteString(password, 24)
	msg.WriteUint8(loginFlags)
	return h.link.Send(msg)
}

// SelectWorld picks the character server to connect to next.
func (h *LoginHandler) SelectWorld(index int) (World, error) {
	worlds := h.state.Session.Worlds
	if index < 0 || index >= len(worlds) {
		err := fmt.Errorf("world %d not offered, %d available", index, len(worlds))
		h.state.Events.Push(game.Event{Kind: game.EventError, Text: userMessage(err)})
		return World{}, err
	}
	return worlds[index], nil
}
