package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
)

const defaultMessageCapacity = 32

// MessageOut builds one outgoing message in a buffer it owns. The message id
// is written when the builder is created; the finished bytes are handed to a
// connection with Send, which appends them to its outbound queue.
type MessageOut struct {
	id    uint16
	buf   []byte
	order binary.ByteOrder
	dirs  *DirectionTable
	err   error
}

// NewMessageOut starts a message of type id encoded with p's byte order.
func NewMessageOut(p *Profile, id uint16) *MessageOut {
	m := &MessageOut{
		id:    id,
		buf:   make([]byte, 0, defaultMessageCapacity),
		order: p.Order,
		dirs:  p.Directions,
	}
	m.WriteUint16(id)
	return m
}

// ID returns the message type id.
func (m *MessageOut) ID() uint16 { return m.id }

// Len returns the number of bytes written so far, id included.
func (m *MessageOut) Len() int { return len(m.buf) }

// Bytes returns the encoded message.
func (m *MessageOut) Bytes() []byte { return m.buf }

// Err returns the first encode error, if any.
func (m *MessageOut) Err() error { return m.err }

func (m *MessageOut) tooLong(what string, n int) {
	if m.err == nil {
		m.err = fmt.Errorf("%w: 0x%04X %s is %d bytes", ErrMessageTooLong, m.id, what, n)
	}
}

func (m *MessageOut) String() string {
	return fmt.Sprintf("0x%04X (%d bytes)", m.id, len(m.buf))
}

func (m *MessageOut) WriteUint8(v uint8) {
	m.buf = append(m.buf, v)
}

func (m *MessageOut) WriteUint16(v uint16) {
	var b [2]byte
	m.order.PutUint16(b[:], v)
	m.buf = append(m.buf, b[:]...)
}

func (m *MessageOut) WriteUint32(v uint32) {
	var b [4]byte
	m.order.PutUint32(b[:], v)
	m.buf = append(m.buf, b[:]...)
}

// WriteString writes s with a u16 length prefix when length is negative.
// Otherwise exactly length bytes are written: s truncated or zero padded.
// A prefixed string longer than a u16 records ErrMessageTooLong and is
// truncated to fit.
func (m *MessageOut) WriteString(s string, length int) {
	if length < 0 {
		if len(s) > math.MaxUint16 {
			m.tooLong("string", len(s))
			s = s[:math.MaxUint16]
		}
		m.WriteUint16(uint16(len(s)))
		m.buf = append(m.buf, s...)
		return
	}
	if len(s) > length {
		s = s[:length]
	}
	m.buf = append(m.buf, s...)
	for i := len(s); i < length; i++ {
		m.buf = append(m.buf, 0)
	}
}

// WriteCoordinates packs x, y (10 bits each) and a logical direction into
// three bytes; the inverse of MessageIn.ReadCoordinates. Directions without
// a wire value are written as 0.
func (m *MessageOut) WriteCoordinates(x, y uint16, direction uint8) {
	wire, _ := m.dirs.Wire(direction)
	m.buf = append(m.buf,
		byte(x>>2),
		byte(x<<6)|byte(y>>4)&0x3f,
		byte(y<<4)|wire&0x0f,
	)
}

// WriteCoordinatePair packs a source and destination position into five
// bytes; the inverse of MessageIn.ReadCoordinatePair.
func (m *MessageOut) WriteCoordinatePair(srcX, srcY, dstX, dstY uint16) {
	m.buf = append(m.buf,
		byte(srcX>>2),
		byte(srcX<<6)|byte(srcY>>4)&0x3f,
		byte(srcY<<4)|byte(dstX>>6)&0x0f,
		byte(dstX<<2)|byte(dstY>>8)&0x03,
		byte(dstY),
	)
}

// FixLength stores the total message length in the u16 that follows the id,
// as variable length stream messages require. Callers reserve the field by
// writing a zero u16 right after creating the message.
func (m *MessageOut) FixLength() {
	if len(m.buf) < 4 {
		return
	}
	if len(m.buf) > math.MaxUint16 {
		m.tooLong("message", len(m.buf))
		return
	}
	m.order.PutUint16(m.buf[2:4], uint16(len(m.buf)))
}
