// Package network implements the transport side of the client: a
// Connection per server link that frames inbound data on a worker goroutine,
// and a Dispatcher that routes framed messages to feature handlers on the
// main loop.
package network

import (
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mana/mana-sub005/internal/core/debug"
	"github.com/mana/mana-sub005/internal/protocol"
)

var (
	// ErrAlreadyConnected is returned by Connect while a previous connection
	// is still open or being opened.
	ErrAlreadyConnected = errors.New("connection already open")
	// ErrNotConnected is returned by Send when there is no open connection
	// (or one being opened) to queue the message for.
	ErrNotConnected = errors.New("not connected")

	errStaleSession = errors.New("session replaced")
)

// State of a Connection.
type State int

const (
	Idle State = iota
	Connecting
	Connected
	// Disconnected means the server closed the connection.
	Disconnected
	// Error means connecting failed or the transport failed mid-session.
	// The reason is available from ErrorMessage.
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// session is the lifetime of one Connect call.
type session struct {
	address string
	cancel  context.CancelFunc
	done    chan struct{}
}

// Connection owns the transport for one server link.
//
// The worker goroutines only move bytes: reads are appended to the framer,
// queued messages are written out. Framing, decoding and handling all happen
// on the caller's goroutine through Next. The framer and the outbound queue
// are the only state shared with the worker and both sit behind mu.
type Connection struct {
	name    string
	profile *protocol.Profile
	opts    options
	logger  *logrus.Logger

	mu       sync.Mutex
	state    State
	errMsg   string
	framer   Framer
	outbound [][]byte
	session  *session

	wake chan struct{}
}

// NewConnection returns an idle connection for the named link.
func NewConnection(name string, p *protocol.Profile, opt ...Option) *Connection {
	opts := buildOptions(opt)
	return &Connection{
		name:    name,
		profile: p,
		opts:    opts,
		logger:  opts.logger,
		framer:  NewFramer(p),
		wake:    make(chan struct{}, 1),
	}
}

func (c *Connection) Name() string                { return c.name }
func (c *Connection) Profile() *protocol.Profile { return c.profile }

// State returns the current connection state.
func (c *Connection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ErrorMessage returns the reason for the Error state.
func (c *Connection) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Connect starts opening the transport and returns immediately. Progress is
// observed through State: Connecting, then Connected or Error.
func (c *Connection) Connect(host string, port uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return ErrAlreadyConnected
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		address: net.JoinHostPort(host, strconv.Itoa(int(port))),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	c.session = s
	c.state = Connecting
	c.errMsg = ""
	c.framer.Reset()

	c.logger.Infof("[%s] connecting to %s", c.name, s.address)
	go c.run(ctx, s)
	return nil
}

// Disconnect closes the transport, discards anything buffered in either
// direction and returns to Idle. It waits for the worker to exit, which the
// closed transport guarantees happens promptly.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	s := c.session
	c.session = nil
	c.state = Idle
	c.errMsg = ""
	c.framer.Reset()
	c.outbound = nil
	c.mu.Unlock()

	if s == nil {
		return
	}
	s.cancel()
	<-s.done
	c.logger.Infof("[%s] disconnected from %s", c.name, s.address)
}

// Send appends a finished message to the outbound queue. Messages are
// written in the order they were sent once Flush is called.
func (c *Connection) Send(m *protocol.MessageOut) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return ErrNotConnected
	}
	if err := m.Err(); err != nil {
		return err
	}
	if c.opts.packetLogging {
		c.logger.Debug(debug.FormatPacket(debug.PrintPacketParams{
			Link:      c.name,
			Profile:   c.profile,
			Direction: debug.Sent,
			ID:        m.ID(),
			Data:      m.Bytes(),
		}))
	}
	c.outbound = append(c.outbound, m.Bytes())
	return nil
}

// Flush asks the worker to write everything queued. It never blocks and is a
// no-op when nothing is queued.
func (c *Connection) Flush() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued messages not yet handed to the
// transport.
func (c *Connection) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.outbound)
}

// Next returns the next complete inbound message. ok is false when no
// complete message is buffered yet. Framing errors other than a single
// malformed packet put the connection into the Error state.
func (c *Connection) Next() (protocol.RawMessage, bool, error) {
	c.mu.Lock()
	msg, ok, err := c.framer.Next()
	c.mu.Unlock()

	if err != nil {
		if !errors.Is(err, protocol.ErrMalformedMessage) {
			c.fail(err)
		}
		return protocol.RawMessage{}, false, err
	}
	if ok && c.opts.packetLogging {
		c.logger.Debug(debug.FormatPacket(debug.PrintPacketParams{
			Link:      c.name,
			Profile:   c.profile,
			Direction: debug.Received,
			ID:        msg.ID,
			Data:      msg.Payload,
		}))
	}
	return msg, ok, nil
}

// SkipInbound discards the next n units of raw inbound data, for servers
// that send an unframed preamble on connect.
func (c *Connection) SkipInbound(n int) {
	c.mu.Lock()
	c.framer.Skip(n)
	c.mu.Unlock()
}

// run dials and then services the transport until it fails or the session
// is cancelled.
func (c *Connection) run(ctx context.Context, s *session) {
	defer close(s.done)

	dialCtx, cancelDial := context.WithTimeout(ctx, c.opts.connectTimeout)
	conn, err := c.opts.dial(dialCtx, c.profile.Network, s.address)
	cancelDial()
	if err != nil {
		if ctx.Err() == nil {
			c.end(s, Error, pkgerrors.Wrapf(err, "connecting to %s", s.address))
		}
		return
	}

	c.mu.Lock()
	if c.session != s {
		c.mu.Unlock()
		_ = conn.Close()
		return
	}
	c.state = Connected
	c.mu.Unlock()

	c.logger.Infof("[%s] connected to %s", c.name, s.address)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return c.readLoop(s, conn)
	})
	group.Go(func() error {
		return c.writeLoop(gctx, s, conn)
	})
	group.Go(func() error {
		<-gctx.Done()
		return conn.Close()
	})
	// Anything queued while connecting goes out now.
	c.Flush()

	err = group.Wait()
	if ctx.Err() != nil {
		return
	}
	if errors.Is(err, io.EOF) {
		c.end(s, Disconnected, err)
		return
	}
	c.end(s, Error, err)
}

// readLoop feeds the framer for as long as s is the current session. A
// failed session can be replaced before its worker exits.
func (c *Connection) readLoop(s *session, conn net.Conn) error {
	buffer := make([]byte, c.opts.readBufferSize)
	for {
		n, err := conn.Read(buffer)
		if n > 0 {
			c.mu.Lock()
			current := c.session == s
			if current {
				c.framer.Append(buffer[:n])
			}
			c.mu.Unlock()
			if !current {
				return errStaleSession
			}
		}
		if err != nil {
			return err
		}
	}
}

// writeLoop writes the outbound queue whenever Flush wakes it. A wake meant
// for a newer session is passed on along with its queue.
func (c *Connection) writeLoop(ctx context.Context, s *session, conn net.Conn) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.wake:
		}

		c.mu.Lock()
		if c.session != s {
			c.mu.Unlock()
			c.Flush()
			return errStaleSession
		}
		pending := c.outbound
		c.outbound = nil
		c.mu.Unlock()

		for _, data := range pending {
			if err := transmit(conn, data); err != nil {
				return err
			}
		}
	}
}

// transmit writes data to the transport until all of it has been accepted.
// Each call is one Write per attempt, so packet transports see one datagram
// per message.
func transmit(w io.Writer, data []byte) error {
	for sent := 0; sent < len(data); {
		n, err := w.Write(data[sent:])
		if err != nil {
			return pkgerrors.Wrap(err, "write failed")
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		sent += n
	}
	return nil
}

// end moves the connection out of a live state if s is still current.
func (c *Connection) end(s *session, state State, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != s {
		return
	}
	c.session = nil
	c.state = state
	if state == Error {
		c.errMsg = err.Error()
		c.logger.Warnf("[%s] connection error: %s", c.name, c.errMsg)
	} else {
		c.logger.Infof("[%s] server closed the connection", c.name)
	}
}

// fail tears down the current session after an unrecoverable framing error.
func (c *Connection) fail(err error) {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()

	if s == nil {
		return
	}
	c.end(s, Error, err)
	s.cancel()
}
