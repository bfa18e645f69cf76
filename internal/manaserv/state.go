package manaserv

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mana/mana-sub005/internal/game"
	"github.com/mana/mana-sub005/internal/protocol"
)

// Length of the token the account server hands out for the game and chat
// servers.
const tokenLength = 32

type Sender interface {
	Send(m *protocol.MessageOut) error
}

// ChatLogger persists chat lines. data.ChatLog implements it.
type ChatLogger interface {
	Append(channel, sender, message string) error
}

// Stage of the login handshake.
type Stage int

const (
	StageLogin Stage = iota
	// StageCharSelect means the account server accepted the login and is
	// sending the character slots.
	StageCharSelect
	// StageGameConnect means the account server sent the game and chat
	// server addresses along with the token to present to them.
	StageGameConnect
	StageGame
	// StageRefused means a server refused the login; see Session.Err.
	StageRefused
)

func (s Stage) String() string {
	switch s {
	case StageLogin:
		return "login"
	case StageCharSelect:
		return "character select"
	case StageGameConnect:
		return "game connect"
	case StageGame:
		return "game"
	case StageRefused:
		return "refused"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

type Character struct {
	Slot      uint8
	Name      string
	Gender    uint8
	HairStyle uint8
	HairColor uint8
	Level     uint16
	Money     uint32
}

type Session struct {
	Stage Stage
	Err   error

	Characters []Character
	// CharacterName is the name of the selected character, used to spot
	// the player among the beings entering the map.
	CharacterName string

	Token    []byte
	GameHost string
	GamePort uint16
	ChatHost string
	ChatPort uint16

	ChatConnected bool
	Map           string
}

// State is shared by every manaserv handler of one client.
type State struct {
	Logger  *logrus.Logger
	Session Session
	Beings  *game.Beings
	Events  game.Events
	// ChatLog may be nil.
	ChatLog ChatLogger
}

func NewState(logger *logrus.Logger) *State {
	return &State{
		Logger: logger,
		Beings: game.NewBeings(),
	}
}

// ServerError is an error code returned in a response message.
type ServerError struct {
	Code uint8
}

func (e *ServerError) Error() string {
	switch e.Code {
	case errFailure:
		return "unknown failure"
	case errNoLogin:
		return "no account with this name and password"
	case errNoCharacterSelected:
		return "no character selected"
	case errInsufficientRights:
		return "insufficient rights"
	case errInvalidArgument:
		return "invalid argument"
	case errServerFull:
		return "server is full"
	case errTimeOut:
		return "connection timed out"
	case errLimitReached:
		return "limit reached"
	case errAdministrativeLogoff:
		return "logged out by an administrator"
	case loginInvalidVersion:
		return "client version is too old"
	case loginBanned:
		return "account is banned"
	case loginInvalidTime:
		return "login attempt too soon after the previous one"
	default:
		return fmt.Sprintf("unknown error %d", e.Code)
	}
}

func (s *State) refuse(err error) {
	s.Session.Stage = StageRefused
	s.Session.Err = err
	s.Events.Push(game.Event{Kind: game.EventError, Text: userMessage(err)})
	s.Logger.Warnf("server refused login: %v", err)
}

func (s *State) logChat(channel, sender, message string) {
	if s.ChatLog == nil {
		return
	}
	if err := s.ChatLog.Append(channel, sender, message); err != nil {
		s.Logger.Errorf("error writing chat log: %v", err)
	}
}

func userMessage(err error) string {
	return cases.Title(language.English).String(err.Error())
}

// readToken reads the fixed size login token. It may contain NUL bytes so it
// is not read as a string.
func readToken(msg *protocol.MessageIn) []byte {
	token := make([]byte, tokenLength)
	for i := range token {
		token[i] = msg.ReadUint8()
	}
	return token
}

func writeToken(msg *protocol.MessageOut, token []byte) {
	for i := 0; i < tokenLength; i++ {
		var b byte
		if i < len(token) {
			b = token[i]
		}
		msg.WriteUint8(b)
	}
}
