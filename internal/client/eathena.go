package client

import (
	"fmt"

	"github.com/mana/mana-sub005/internal/eathena"
	"github.com/mana/mana-sub005/internal/game"
	"github.com/mana/mana-sub005/internal/network"
)

// eAthena char and map servers send the account id, unframed, as soon as a
// client connects.
const accountIDPreamble = 4

// EAthena is a session with an eAthena login, character and map server.
type EAthena struct {
	client *Client
	State  *eathena.State

	LoginLink *Link
	CharLink  *Link
	MapLink   *Link

	Login     *eathena.LoginHandler
	Char      *eathena.CharHandler
	Game      *eathena.GameHandler
	Being     *eathena.BeingHandler
	NPC       *eathena.NPCHandler
	Chat      *eathena.ChatHandler
	Inventory *eathena.InventoryHandler
	Trade     *eathena.TradeHandler
	Party     *eathena.PartyHandler
	Admin     *eathena.AdminHandler

	// Stage the handshake last acted upon.
	handled eathena.Stage
}

func newEAthena(c *Client) (*EAthena, error) {
	s := &EAthena{
		client:  c,
		State:   eathena.NewState(c.Logger),
		handled: -1,
	}
	if c.chatLog != nil {
		s.State.ChatLog = c.chatLog
	}

	s.LoginLink = c.newLink("login", eathena.Profile)
	s.CharLink = c.newLink("char", eathena.Profile)
	s.MapLink = c.newLink("map", eathena.Profile)

	s.Login = eathena.NewLoginHandler(s.State, s.LoginLink)
	s.Char = eathena.NewCharHandler(s.State, s.CharLink)
	s.Game = eathena.NewGameHandler(s.State, s.MapLink)
	s.Being = eathena.NewBeingHandler(s.State, s.MapLink)
	s.NPC = eathena.NewNPCHandler(s.State, s.MapLink)
	s.Chat = eathena.NewChatHandler(s.State, s.MapLink)
	s.Inventory = eathena.NewInventoryHandler(s.State, s.MapLink)
	s.Trade = eathena.NewTradeHandler(s.State, s.MapLink)
	s.Party = eathena.NewPartyHandler(s.State, s.MapLink)
	s.Admin = eathena.NewAdminHandler(s.State, s.MapLink)

	if err := s.LoginLink.register(s.Login); err != nil {
		return nil, err
	}
	if err := s.CharLink.register(s.Char); err != nil {
		return nil, err
	}
	err := s.MapLink.register(s.Game, s.Being, s.NPC, s.Chat, s.Inventory, s.Trade, s.Party, s.Admin)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *EAthena) Identifier() string { return eathena.Profile.Name }

func (s *EAthena) Stage() string { return s.State.Session.Stage.String() }

func (s *EAthena) InGame() bool { return s.State.Session.Stage == eathena.StageGame }

func (s *EAthena) Events() *game.Events { return &s.State.Events }

func (s *EAthena) Start() error {
	cfg := s.client.Config
	if err := s.client.connect(s.LoginLink, cfg.LoginServer.Host, uint16(cfg.LoginServer.Port)); err != nil {
		return err
	}
	if err := s.Login.RequestVersion(); err != nil {
		return err
	}
	s.handled = eathena.StageLogin
	return s.Login.Login(cfg.Account.Username, cfg.Account.Password)
}

func (s *EAthena) Advance() error {
	session := &s.State.Session

	if session.Stage == eathena.StageRefused {
		return session.Err
	}
	if err := s.checkLinks(); err != nil {
		return err
	}
	if session.Stage == s.handled {
		return nil
	}
	s.handled = session.Stage

	switch session.Stage {
	case eathena.StageWorldSelect:
		world, err := s.Login.SelectWorld(s.client.Config.Account.World)
		if err != nil {
			return err
		}
		s.client.Logger.Infof("[%s] joining world %v", s.Identifier(), world)
		s.LoginLink.Disconnect()
		if err := s.client.connect(s.CharLink, world.Host, world.Port); err != nil {
			return err
		}
		s.CharLink.SkipInbound(accountIDPreamble)
		return s.Char.Connect()

	case eathena.StageCharSelect:
		return s.Char.SelectCharacter(uint8(s.client.Config.Account.CharacterSlot))

	case eathena.StageMapConnect:
		for _, c := range session.Characters {
			if c.ID == session.CharacterID {
				s.Chat.PlayerName = c.Name
			}
		}
		s.CharLink.Disconnect()
		if err := s.client.connect(s.MapLink, session.MapHost, session.MapPort); err != nil {
			return err
		}
		s.MapLink.SkipInbound(accountIDPreamble)
		return s.Game.Connect()

	case eathena.StageGame:
		s.client.Logger.Infof("[%s] entered %s as %s", s.Identifier(), session.Map, s.Chat.PlayerName)
	}
	return nil
}

// checkLinks fails once the link the handshake depends on is lost. The
// login server closing its connection once it sent the world list is
// expected.
func (s *EAthena) checkLinks() error {
	switch s.State.Session.Stage {
	case eathena.StageLogin:
		return checkLink(s.LoginLink)
	case eathena.StageCharSelect:
		return checkLink(s.CharLink)
	case eathena.StageMapConnect, eathena.StageGame:
		if err := checkLink(s.MapLink); err != nil {
			return err
		}
		if s.State.Session.Stage == eathena.StageGame && s.MapLink.State() == network.Disconnected {
			return fmt.Errorf("%s link: server closed the connection", s.MapLink.Name())
		}
	}
	return nil
}
