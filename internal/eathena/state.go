package eathena

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mana/mana-sub005/internal/game"
	"github.com/mana/mana-sub005/internal/protocol"
)

// Sender queues messages on a server link. network.Connection implements it.
type Sender interface {
	Send(m *protocol.MessageOut) error
}

// ChatLogger persists chat lines. data.ChatLog implements it.
type ChatLogger interface {
	Append(channel, sender, message string) error
}

// Stage of the login handshake, advanced by handlers and acted upon by the
// client.
type Stage int

const (
	StageLogin Stage = iota
	// StageWorldSelect means the login server sent the world list.
	StageWorldSelect
	// StageCharSelect means the character server sent the character slots.
	StageCharSelect
	// StageMapConnect means the character server sent the map server address.
	StageMapConnect
	// StageGame means the map server accepted the player.
	StageGame
	// StageRefused means a server refused the login; see Session.Err.
	StageRefused
)

func (s Stage) String() string {
	switch s {
	case StageLogin:
		return "login"
	case StageWorldSelect:
		return "world select"
	case StageCharSelect:
		return "character select"
	case StageMapConnect:
		return "map connect"
	case StageGame:
		return "game"
	case StageRefused:
		return "refused"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// World is a character server offered by the login server.
type World struct {
	Name  string
	Host  string
	Port  uint16
	Users uint16
}

func (w World) String() string {
	return fmt.Sprintf("%s (%s:%d, %d online)", w.Name, w.Host, w.Port, w.Users)
}

// Character is one character slot on a character server.
type Character struct {
	ID        uint32
	Name      string
	Slot      uint8
	Level     uint16
	Exp       uint32
	Money     uint32
	JobExp    uint32
	JobLevel  uint32
	HP, MaxHP uint16
	MP, MaxMP uint16
	HairStyle uint16
	HairColor uint16
}

// Session is what the servers told the client during the handshake.
type Session struct {
	Stage Stage
	// Err is set with StageRefused.
	Err error

	ServerVersion uint32
	AccountID     uint32
	SessionID1    uint32
	SessionID2    uint32
	Sex           uint8

	Worlds     []World
	Characters []Character

	CharacterID uint32
	Map         string
	MapHost     string
	MapPort     uint16
}

// State is shared by every eAthena handler of one client.
type State struct {
	Logger    *logrus.Logger
	Session   Session
	Beings    *game.Beings
	Inventory *game.Inventory
	Party     *game.Party
	Trade     game.Trade
	Events    game.Events
	// ChatLog may be nil.
	ChatLog ChatLogger
}

func NewState(logger *logrus.Logger) *State {
	return &State{
		Logger:    logger,
		Beings:    game.NewBeings(),
		Inventory: game.NewInventory(),
		Party:     game.NewParty(),
	}
}

// refuse ends the handshake with err and tells the user.
func (s *State) refuse(err error) {
	s.Session.Stage = StageRefused
	s.Session.Err = err
	s.Events.Push(game.Event{Kind: game.EventError, Text: userMessage(err)})
	s.Logger.Warnf("server refused login: %v", err)
}

// logChat records a chat line when a chat log is configured.
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

// ipString formats an address sent as four bytes in network order.
func ipString(ip uint32) string {
	return fmt.Sprintf("%d.%d.%d.%d", byte(ip), byte(ip>>8), byte(ip>>16), byte(ip>>24))
}
