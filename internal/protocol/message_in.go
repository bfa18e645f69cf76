package protocol

import (
	"encoding/binary"
	"fmt"
)

// MessageIn is a read cursor over the payload of a received message.
//
// Reads never panic. Reading past the end returns 0 (or "" for strings),
// records ErrMalformedMessage and still advances the position, so a handler
// can decode a whole message and check Err once at the end.
type MessageIn struct {
	id    uint16
	data  []byte
	pos   int
	order binary.ByteOrder
	dirs  *DirectionTable
	err   error
}

// NewMessageIn returns a cursor over msg.Payload decoding with p's byte
// order and direction table.
func NewMessageIn(p *Profile, msg RawMessage) *MessageIn {
	return &MessageIn{
		id:    msg.ID,
		data:  msg.Payload,
		order: p.Order,
		dirs:  p.Directions,
	}
}

// ID returns the message type id.
func (m *MessageIn) ID() uint16 { return m.id }

// Len returns the payload length.
func (m *MessageIn) Len() int { return len(m.data) }

// Pos returns the current read position within the payload.
func (m *MessageIn) Pos() int { return m.pos }

// Remaining returns the number of unread payload bytes.
func (m *MessageIn) Remaining() int {
	if m.pos >= len(m.data) {
		return 0
	}
	return len(m.data) - m.pos
}

// Err returns the first decode error, if any.
func (m *MessageIn) Err() error { return m.err }

// take returns the next n bytes, or nil if fewer remain. The position is
// always advanced by n.
func (m *MessageIn) take(n int) []byte {
	start := m.pos
	m.pos += n
	if start+n > len(m.data) {
		m.fail(n, start)
		return nil
	}
	return m.data[start : start+n]
}

func (m *MessageIn) fail(n, at int) {
	if m.err == nil {
		m.err = fmt.Errorf("%w: 0x%04X: reading %d bytes at offset %d of %d",
			ErrMalformedMessage, m.id, n, at, len(m.data))
	}
}

func (m *MessageIn) ReadUint8() uint8 {
	b := m.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (m *MessageIn) ReadUint16() uint16 {
	b := m.take(2)
	if b == nil {
		return 0
	}
	return m.order.Uint16(b)
}

func (m *MessageIn) ReadUint32() uint32 {
	b := m.take(4)
	if b == nil {
		return 0
	}
	return m.order.Uint32(b)
}

// Skip advances the cursor by n bytes.
func (m *MessageIn) Skip(n int) {
	m.take(n)
}

// ReadString reads a string of exactly length bytes, or a u16 length prefix
// followed by that many bytes when length is negative. The returned string
// stops at the first NUL but the full declared width is consumed.
//
// A declared length that runs past the end exhausts the cursor.
func (m *MessageIn) ReadString(length int) string {
	if length < 0 {
		length = int(m.ReadUint16())
		if m.err != nil {
			return ""
		}
	}
	if m.pos+length > len(m.data) {
		m.fail(length, m.pos)
		m.pos = len(m.data)
		return ""
	}
	b := m.data[m.pos : m.pos+length]
	m.pos += length
	return string(truncateAtNul(b))
}

// ReadCoordinates decodes a packed 3-byte position: 10 bits of x, 10 bits of
// y and a 4 bit wire direction translated to a logical direction.
func (m *MessageIn) ReadCoordinates() (x, y uint16, direction uint8) {
	b := m.take(3)
	if b == nil {
		return 0, 0, 0
	}
	x = (uint16(b[0])<<8 | uint16(b[1]&0xc0)) >> 6
	y = (uint16(b[1]&0x3f)<<8 | uint16(b[2]&0xf0)) >> 4
	direction = m.dirs.Logical(b[2] & 0x0f)
	return x, y, direction
}

// ReadCoordinatePair decodes a packed 5-byte source and destination pair,
// 10 bits per component.
func (m *MessageIn) ReadCoordinatePair() (srcX, srcY, dstX, dstY uint16) {
	b := m.take(5)
	if b == nil {
		return 0, 0, 0, 0
	}
	srcX = (uint16(b[0])<<8 | uint16(b[1])) >> 6
	srcY = (uint16(b[1]&0x3f)<<8 | uint16(b[2])) >> 4
	dstX = (uint16(b[2]&0x0f)<<8 | uint16(b[3])) >> 2
	dstY = uint16(b[3]&0x03)<<8 | uint16(b[4])
	return srcX, srcY, dstX, dstY
}
