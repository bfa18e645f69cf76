package network

import (
	"errors"
	"fmt"

	"github.com/mana/mana-sub005/internal/protocol"
)

var (
	// ErrUnknownMessageLength is returned by a stream framer when the next
	// message id is missing from the length table. The stream cannot be
	// resynchronised after this.
	ErrUnknownMessageLength = errors.New("unknown message length")
	// ErrInvalidMessageLength is returned by a stream framer when a variable
	// message declares a length shorter than its own header.
	ErrInvalidMessageLength = errors.New("invalid message length")
)

// Framer turns data read from the transport into complete messages.
//
// Append is called by the connection worker, Next by the main loop; the
// connection serializes both, so implementations need no locking.
type Framer interface {
	// Append adds the bytes produced by one transport read.
	Append(p []byte)
	// Next removes and returns the next complete message. ok is false when
	// only a partial message (or nothing) is buffered.
	Next() (msg protocol.RawMessage, ok bool, err error)
	// Skip discards the next n units of raw input before any further
	// framing: bytes for a stream, whole packets for a packet transport.
	Skip(n int)
	// Buffered returns the number of bytes held.
	Buffered() int
	// Reset discards everything held.
	Reset()
}

// NewFramer returns the framer matching the profile's framing mode.
func NewFramer(p *protocol.Profile) Framer {
	if p.Framing == protocol.PacketFraming {
		return NewPacketFramer(p)
	}
	return NewStreamFramer(p)
}

// StreamFramer frames a continuous byte stream using a length table.
// The buffer always holds zero or more complete messages followed by at most
// one partial message prefix.
type StreamFramer struct {
	profile *protocol.Profile
	buf     []byte
	skip    int
}

func NewStreamFramer(p *protocol.Profile) *StreamFramer {
	return &StreamFramer{profile: p}
}

func (f *StreamFramer) Append(p []byte) {
	if f.skip > 0 {
		n := f.skip
		if n > len(p) {
			n = len(p)
		}
		f.skip -= n
		p = p[n:]
	}
	f.buf = append(f.buf, p...)
}

func (f *StreamFramer) Next() (protocol.RawMessage, bool, error) {
	if len(f.buf) < 2 {
		return protocol.RawMessage{}, false, nil
	}

	order := f.profile.Order
	id := order.Uint16(f.buf)

	size, ok := f.profile.Lengths.MessageLength(id)
	if !ok || size == 0 {
		return protocol.RawMessage{}, false, fmt.Errorf("%w: 0x%04X", ErrUnknownMessageLength, id)
	}
	if size == protocol.VariableLength {
		if len(f.buf) < 4 {
			return protocol.RawMessage{}, false, nil
		}
		size = int(order.Uint16(f.buf[2:]))
		if size < 4 {
			return protocol.RawMessage{}, false, fmt.Errorf("%w: 0x%04X declares %d bytes", ErrInvalidMessageLength, id, size)
		}
	}
	if len(f.buf) < size {
		return protocol.RawMessage{}, false, nil
	}

	payload := make([]byte, size-2)
	copy(payload, f.buf[2:size])
	f.consume(size)

	return protocol.RawMessage{ID: id, Payload: payload}, true, nil
}

// consume drops n bytes from the head of the buffer, compacting it so the
// backing array does not grow without bound.
func (f *StreamFramer) consume(n int) {
	remaining := copy(f.buf, f.buf[n:])
	f.buf = f.buf[:remaining]
}

func (f *StreamFramer) Skip(n int) {
	if n <= len(f.buf) {
		f.consume(n)
		return
	}
	f.skip += n - len(f.buf)
	f.buf = f.buf[:0]
}

func (f *StreamFramer) Buffered() int { return len(f.buf) }

func (f *StreamFramer) Reset() {
	f.buf = f.buf[:0]
	f.skip = 0
}

// PacketFramer treats every transport read as exactly one message.
type PacketFramer struct {
	profile *protocol.Profile
	packets [][]byte
	skip    int
}

func NewPacketFramer(p *protocol.Profile) *PacketFramer {
	return &PacketFramer{profile: p}
}

func (f *PacketFramer) Append(p []byte) {
	if f.skip > 0 {
		f.skip--
		return
	}
	packet := make([]byte, len(p))
	copy(packet, p)
	f.packets = append(f.packets, packet)
}

// Next returns ErrMalformedMessage for a packet too short to carry an id.
// The packet is dropped and framing can continue.
func (f *PacketFramer) Next() (protocol.RawMessage, bool, error) {
	if len(f.packets) == 0 {
		return protocol.RawMessage{}, false, nil
	}
	packet := f.packets[0]
	f.packets[0] = nil
	f.packets = f.packets[1:]

	if len(packet) < 2 {
		return protocol.RawMessage{}, false, fmt.Errorf("%w: %d byte packet", protocol.ErrMalformedMessage, len(packet))
	}
	id := f.profile.Order.Uint16(packet)
	return protocol.RawMessage{ID: id, Payload: packet[2:]}, true, nil
}

// Skip drops the next n packets.
func (f *PacketFramer) Skip(n int) {
	for n > 0 && len(f.packets) > 0 {
		f.packets = f.packets[1:]
		n--
	}
	f.skip += n
}

func (f *PacketFramer) Buffered() int {
	total := 0
	for _, p := range f.packets {
		total += len(p)
	}
	return total
}

func (f *PacketFramer) Reset() {
	f.packets = nil
	f.skip = 0
}
