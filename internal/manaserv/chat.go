package manaserv

import (
	"github.com/mana/mana-sub005/internal/game"
	"github.com/mana/mana-sub005/internal/protocol"
)

const (
	channelChat         = "chat"
	channelWhisper      = "whisper"
	channelAnnouncement = "announcement"
)

// ChatHandler relays chat over two links: public chat goes through the game
// server while whispers and announcements use the chat server. Register it
// with the dispatchers of both.
type ChatHandler struct {
	state *State
	game  Sender
	chat  Sender
}

func NewChatHandler(state *State, gameLink, chatLink Sender) *ChatHandler {
	return &ChatHandler{state: state, game: gameLink, chat: chatLink}
}

func (h *ChatHandler) MessageIDs() []uint16 {
	return []uint16{GPMsgSay, CPMsgConnectResponse, CPMsgPrivMsg, CPMsgAnnouncement}
}

func (h *ChatHandler) Handle(msg *protocol.MessageIn) error {
	switch msg.ID() {
	case GPMsgSay:
		id := uint32(msg.ReadUint16())
		text := msg.ReadString(-1)
		if err := msg.Err(); err != nil {
			return err
		}
		// Id 0 is the server itself.
		if id == 0 {
			h.push(game.Event{Kind: game.EventAnnouncement, Text: text}, channelAnnouncement)
			return nil
		}
		var name string
		if being, ok := h.state.Beings.Get(id); ok {
			name = being.Name
		}
		h.push(game.Event{Kind: game.EventChat, Source: name, SourceID: id, Text: text}, channelChat)

	case CPMsgConnectResponse:
		code := msg.ReadUint8()
		if err := msg.Err(); err != nil {
			return err
		}
		if code != errOK {
			err := &ServerError{Code: code}
			h.state.Logger.Warnf("chat server refused connection: %v", err)
			h.state.Events.Push(game.Event{Kind: game.EventError, Text: userMessage(err)})
			return nil
		}
		h.state.Session.ChatConnected = true

	case CPMsgPrivMsg:
		nick := msg.ReadString(-1)
		text := msg.ReadString(-1)
		if err := msg.Err(); err != nil {
			return err
		}
		h.push(game.Event{Kind: game.EventWhisper, Source: nick, Text: text}, channelWhisper)

	case CPMsgAnnouncement:
		text := msg.ReadString(-1)
		if err := msg.Err(); err != nil {
			return err
		}
		h.push(game.Event{Kind: game.EventAnnouncement, Text: text}, channelAnnouncement)
	}
	return nil
}

func (h *ChatHandler) push(event game.Event, channel string) {
	h.state.Events.Push(event)
	h.state.logChat(channel, event.Source, event.Text)
}

// Connect presents the account server's token to the chat server.
func (h *ChatHandler) Connect() error {
	msg := protocol.NewMessageOut(Profile, PCMsgConnect)
	writeToken(msg, h.state.Session.Token)
	return h.chat.Send(msg)
}

// Talk says text in public chat.
func (h *ChatHandler) Talk(text string) error {
	msg := protocol.NewMessageOut(Profile, PGMsgSay)
	msg.WriteString(text, -1)
	return h.game.Send(msg)
}

// Whisper sends text to nick only.
func (h *ChatHandler) Whisper(nick, text string) error {
	msg := protocol.NewMessageOut(Profile, PCMsgPrivMsg)
	msg.WriteString(nick, -1)
	msg.WriteString(text, -1)
	return h.chat.Send(msg)
}
