// Package client ties connections, dispatchers and a protocol family's
// handler set together into a game session: it walks the login handshake
// and keeps every server link serviced from a single main loop.
package client

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mana/mana-sub005/internal/core"
	"github.com/mana/mana-sub005/internal/game"
	"github.com/mana/mana-sub005/internal/network"
	"github.com/mana/mana-sub005/internal/protocol"
)

// ChatLogger persists chat lines. data.ChatLog implements it.
type ChatLogger interface {
	Append(channel, sender, message string) error
}

// Link is one server connection and the dispatcher routing its messages.
type Link struct {
	*network.Connection
	Dispatcher *network.Dispatcher
}

// family walks the handshake of one protocol family.
type family interface {
	Identifier() string
	// Start connects to the login server and sends the credentials.
	Start() error
	// Advance acts on the handshake stage after messages were dispatched.
	Advance() error
	Stage() string
	InGame() bool
	Events() *game.Events
}

// Client is a session with one game server. It is not safe for concurrent
// use; Run drives it from the calling goroutine.
type Client struct {
	Config *core.Config
	Logger *logrus.Logger

	// Exactly one of these is set, matching Config.Protocol.
	EAthena  *EAthena
	Manaserv *Manaserv

	links   []*Link
	family  family
	chatLog ChatLogger
	netOpts []network.Option
	onEvent func(game.Event)
}

// Option configures a Client.
type Option func(*Client)

// WithChatLog persists every chat line the client sees.
func WithChatLog(log ChatLogger) Option {
	return func(c *Client) {
		c.chatLog = log
	}
}

// WithEventHandler hands every event to fn at the end of each tick instead of
// queueing it for Events.
func WithEventHandler(fn func(game.Event)) Option {
	return func(c *Client) {
		c.onEvent = fn
	}
}

// WithConnectionOptions adds options to every connection the client opens.
func WithConnectionOptions(opt ...network.Option) Option {
	return func(c *Client) {
		c.netOpts = append(c.netOpts, opt...)
	}
}

// New wires the links and handlers for the configured protocol family.
// Nothing is connected until Start.
func New(cfg *core.Config, logger *logrus.Logger, opt ...Option) (*Client, error) {
	c := &Client{Config: cfg, Logger: logger}
	for _, o := range opt {
		o(c)
	}

	var err error
	switch cfg.Protocol {
	case core.ProtocolEAthena:
		c.EAthena, err = newEAthena(c)
		c.family = c.EAthena
	case core.ProtocolManaserv:
		c.Manaserv, err = newManaserv(c)
		c.family = c.Manaserv
	default:
		return nil, fmt.Errorf("unknown protocol %q", cfg.Protocol)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// newLink creates an idle connection for the named server along with its
// dispatcher.
func (c *Client) newLink(name string, p *protocol.Profile) *Link {
	opts := []network.Option{
		network.WithLogger(c.Logger),
		network.WithConnectTimeout(c.Config.Network.ConnectTimeout),
		network.WithReadBufferSize(c.Config.Network.ReadBufferSize),
		network.WithPacketLogging(c.Config.Debugging.PacketLoggingEnabled),
	}
	conn := network.NewConnection(name, p, append(opts, c.netOpts...)...)

	link := &Link{
		Connection: conn,
		Dispatcher: network.NewDispatcher(p, conn, c.Logger),
	}
	c.links = append(c.links, link)
	return link
}

// register adds handlers to the link's dispatcher.
func (l *Link) register(handlers ...network.Handler) error {
	for _, h := range handlers {
		if err := l.Dispatcher.Register(h); err != nil {
			return fmt.Errorf("setting up %s link: %w", l.Name(), err)
		}
	}
	return nil
}

// Start begins the login handshake.
func (c *Client) Start() error {
	c.Logger.Infof("[%s] logging in to %s as %s", c.family.Identifier(), c.Config.LoginAddress(), c.Config.Account.Username)
	return c.family.Start()
}

// Tick dispatches everything received on every link, moves the handshake
// along and flushes everything queued. An error means the session is over.
func (c *Client) Tick() error {
	for _, link := range c.links {
		if err := c.service(link); err != nil {
			return err
		}
	}
	if err := c.family.Advance(); err != nil {
		return err
	}
	if c.onEvent != nil {
		for _, e := range c.family.Events().Drain() {
			c.onEvent(e)
		}
	}
	for _, link := range c.links {
		link.Flush()
	}
	return nil
}

// service dispatches the link's inbound messages. A panic in a handler ends
// the session rather than the process.
func (c *Client) service(link *Link) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.Logger.Errorf("[%s] error while dispatching: %v, trace: %s", link.Name(), r, debug.Stack())
			err = fmt.Errorf("%s link: %v", link.Name(), r)
		}
	}()

	if _, err := link.Dispatcher.DispatchAll(); err != nil {
		return fmt.Errorf("%s link: %w", link.Name(), err)
	}
	return nil
}

// Run ticks at the configured interval until ctx is cancelled or the
// session ends, then closes every link.
func (c *Client) Run(ctx context.Context) error {
	defer c.Close()

	ticker := time.NewTicker(c.Config.Network.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.Logger.Infof("[%s] shutting down", c.family.Identifier())
			return nil
		case <-ticker.C:
			if err := c.Tick(); err != nil {
				return err
			}
		}
	}
}

// Close disconnects every link.
func (c *Client) Close() {
	for _, link := range c.links {
		link.Disconnect()
	}
}

// Stage describes how far the handshake got.
func (c *Client) Stage() string { return c.family.Stage() }

// InGame reports whether the player has entered the map.
func (c *Client) InGame() bool { return c.family.InGame() }

// Events drains the notifications queued for the UI.
func (c *Client) Events() []game.Event { return c.family.Events().Drain() }

// Links returns every server link, connected or not.
func (c *Client) Links() []*Link { return c.links }

// checkLink fails when the link went into the Error state.
func checkLink(link *Link) error {
	if link.State() == network.Error {
		return fmt.Errorf("%s link: %s", link.Name(), link.ErrorMessage())
	}
	return nil
}

// connect opens link to host:port.
func (c *Client) connect(link *Link, host string, port uint16) error {
	if err := link.Connect(host, port); err != nil {
		return fmt.Errorf("connecting %s link: %w", link.Name(), err)
	}
	return nil
}
