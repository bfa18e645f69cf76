package eathena

import (
	"fmt"
	"strings"

	"github.com/mana/mana-sub005/internal/game"
	"github.com/mana/mana-sub005/internal/protocol"
)

// Chat log channels.
const (
	channelChat         = "chat"
	channelWhisper      = "whisper"
	channelParty        = "party"
	channelAnnouncement = "announcement"
)

// WhisperError is the reason a whisper was not delivered.
type WhisperError struct {
	Code uint8
}

func (e *WhisperError) Error() string {
	switch e.Code {
	case 1:
		return "whisper could not be sent, user is offline"
	case 2:
		return "whisper could not be sent, ignored by user"
	default:
		return fmt.Sprintf("whisper could not be sent (%d)", e.Code)
	}
}

// ChatHandler relays chat between the map server and the UI.
type ChatHandler struct {
	state *State
	link  Sender
	// PlayerName prefixes outgoing chat the way the server expects.
	PlayerName string
}

func NewChatHandler(state *State, link Sender) *ChatHandler {
	return &ChatHandler{state: state, link: link}
}

func (h *ChatHandler) MessageIDs() []uint16 {
	return []uint16{
		SMsgBeingChat,
		SMsgPlayerChat,
		SMsgWhisper,
		SMsgWhisperResponse,
		SMsgGMChat,
	}
}

func (h *ChatHandler) Handle(msg *protocol.MessageIn) error {
	switch msg.ID() {
	case SMsgBeingChat:
		msg.ReadUint16()
		id := msg.ReadUint32()
		text := msg.ReadString(msg.Remaining())
		if msg.Err() != nil {
			return nil
		}
		sender, line := splitChatLine(text)
		h.push(game.Event{Kind: game.EventChat, Source: sender, SourceID: id, Text: line}, channelChat)

	case SMsgPlayerChat:
		msg.ReadUint16()
		text := msg.ReadString(msg.Remaining())
		if msg.Err() != nil {
			return nil
		}
		sender, line := splitChatLine(text)
		h.push(game.Event{Kind: game.EventChat, Source: sender, Text: line}, channelChat)

	case SMsgWhisper:
		msg.ReadUint16()
		nick := msg.ReadString(24)
		text := msg.ReadString(msg.Remaining())
		if msg.Err() != nil {
			return nil
		}
		h.push(game.Event{Kind: game.EventWhisper, Source: nick, Text: text}, channelWhisper)

	case SMsgWhisperResponse:
		code := msg.ReadUint8()
		if msg.Err() != nil || code == 0 {
			return nil
		}
		err := &WhisperError{Code: code}
		h.state.Events.Push(game.Event{Kind: game.EventError, Text: userMessage(err)})

	case SMsgGMChat:
		msg.ReadUint16()
		text := msg.ReadString(msg.Remaining())
		if msg.Err() != nil {
			return nil
		}
		h.push(game.Event{Kind: game.EventAnnouncement, Text: text}, channelAnnouncement)
	}
	return nil
}

func (h *ChatHandler) push(event game.Event, channel string) {
	h.state.Events.Push(event)
	h.state.logChat(channel, event.Source, event.Text)
}

// splitChatLine splits "name : text" as servers format public chat.
func splitChatLine(s string) (sender, text string) {
	if i := strings.Index(s, " : "); i >= 0 {
		return s[:i], s[i+3:]
	}
	return "", s
}

// Talk says text in public chat.
func (h *ChatHandler) Talk(text string) error {
	line := h.PlayerName + " : " + text
	msg := protocol.NewMessageOut(Profile, CMsgChatMessage)
	msg.WriteUint16(0)
	msg.WriteString(line, len(line))
	msg.WriteUint8(0)
	msg.FixLength()
	return h.link.Send(msg)
}

// Whisper sends text to nick only.
func (h *ChatHandler) Whisper(nick, text string) error {
	msg := protocol.NewMessageOut(Profile, CMsgChatWhisper)
	msg.WriteUint16(0)
	msg.WriteString(nick, 24)
	msg.WriteString(text, len(text))
	msg.FixLength()
	return h.link.Send(msg)
}
