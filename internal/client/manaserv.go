package client

import (
	"github.com/mana/mana-sub005/internal/game"
	"github.com/mana/mana-sub005/internal/manaserv"
)

// Manaserv is a session with a manaserv account, game and chat server.
type Manaserv struct {
	client *Client
	State  *manaserv.State

	AccountLink *Link
	GameLink    *Link
	ChatLink    *Link

	Account *manaserv.AccountHandler
	Game    *manaserv.GameHandler
	Being   *manaserv.BeingHandler
	NPC     *manaserv.NPCHandler
	Chat    *manaserv.ChatHandler

	handled  manaserv.Stage
	selected bool
}

func newManaserv(c *Client) (*Manaserv, error) {
	s := &Manaserv{
		client:  c,
		State:   manaserv.NewState(c.Logger),
		handled: -1,
	}
	if c.chatLog != nil {
		s.State.ChatLog = c.chatLog
	}

	s.AccountLink = c.newLink("account", manaserv.Profile)
	s.GameLink = c.newLink("game", manaserv.Profile)
	s.ChatLink = c.newLink("chat", manaserv.Profile)

	s.Account = manaserv.NewAccountHandler(s.State, s.AccountLink)
	s.Game = manaserv.NewGameHandler(s.State, s.GameLink)
	s.Being = manaserv.NewBeingHandler(s.State, s.GameLink)
	s.NPC = manaserv.NewNPCHandler(s.State, s.GameLink)
	s.Chat = manaserv.NewChatHandler(s.State, s.GameLink, s.ChatLink)

	if err := s.AccountLink.register(s.Account); err != nil {
		return nil, err
	}
	if err := s.GameLink.register(s.Game, s.Being, s.NPC, s.Chat); err != nil {
		return nil, err
	}
	if err := s.ChatLink.register(s.Chat); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Manaserv) Identifier() string { return manaserv.Profile.Name }

func (s *Manaserv) Stage() string { return s.State.Session.Stage.String() }

func (s *Manaserv) InGame() bool { return s.State.Session.Stage == manaserv.StageGame }

func (s *Manaserv) Events() *game.Events { return &s.State.Events }

func (s *Manaserv) Start() error {
	cfg := s.client.Config
	if err := s.client.connect(s.AccountLink, cfg.LoginServer.Host, uint16(cfg.LoginServer.Port)); err != nil {
		return err
	}
	s.handled = manaserv.StageLogin
	s.selected = false
	return s.Account.Login(cfg.Account.Username, cfg.Account.Password)
}

func (s *Manaserv) Advance() error {
	session := &s.State.Session

	if session.Stage == manaserv.StageRefused {
		return session.Err
	}
	if err := s.checkLinks(); err != nil {
		return err
	}

	// Character slots keep arriving after the login response, so selection
	// waits for the configured slot rather than for a stage change.
	if session.Stage == manaserv.StageCharSelect && !s.selected {
		slot := uint8(s.client.Config.Account.CharacterSlot)
		for _, c := range session.Characters {
			if c.Slot == slot {
				s.selected = true
				return s.Account.SelectCharacter(slot)
			}
		}
	}

	if session.Stage == s.handled {
		return nil
	}
	s.handled = session.Stage

	switch session.Stage {
	case manaserv.StageGameConnect:
		s.AccountLink.Disconnect()
		if err := s.client.connect(s.GameLink, session.GameHost, session.GamePort); err != nil {
			return err
		}
		if err := s.client.connect(s.ChatLink, session.ChatHost, session.ChatPort); err != nil {
			return err
		}
		if err := s.Game.Connect(); err != nil {
			return err
		}
		return s.Chat.Connect()

	case manaserv.StageGame:
		s.client.Logger.Infof("[%s] entered the game as %s", s.Identifier(), session.CharacterName)
	}
	return nil
}

// checkLinks fails once a link the session depends on is in error. A lost
// chat server only costs whispers and is logged by the connection.
func (s *Manaserv) checkLinks() error {
	switch s.State.Session.Stage {
	case manaserv.StageLogin, manaserv.StageCharSelect:
		return checkLink(s.AccountLink)
	case manaserv.StageGameConnect, manaserv.StageGame:
		return checkLink(s.GameLink)
	}
	return nil
}
