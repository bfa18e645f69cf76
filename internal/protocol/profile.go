// Package protocol implements the wire codec shared by every server protocol
// family the client speaks: the read cursor over a received message, the
// builder for outgoing messages and the Profile that captures the handful of
// ways the families differ from each other.
package protocol

import (
	"encoding/binary"
	"fmt"
)

// Framing identifies how message boundaries are found in the inbound data.
type Framing int

const (
	// StreamFraming is used by transports that deliver a continuous byte
	// stream. Message sizes come from a per-id length table, with variable
	// messages carrying their own u16 length right after the id.
	StreamFraming Framing = iota
	// PacketFraming is used by transports that preserve packet boundaries;
	// every packet read from the transport is exactly one message.
	PacketFraming
)

func (f Framing) String() string {
	switch f {
	case StreamFraming:
		return "stream"
	case PacketFraming:
		return "packet"
	default:
		return "unknown"
	}
}

// VariableLength marks a message id in a LengthTable whose size is read from
// the u16 that follows the id on the wire.
const VariableLength = -1

// LengthTable reports the on-wire size (id included) of a message id.
type LengthTable interface {
	MessageLength(id uint16) (int, bool)
}

// Lengths is a LengthTable backed by a map.
type Lengths map[uint16]int

func (l Lengths) MessageLength(id uint16) (int, bool) {
	n, ok := l[id]
	return n, ok
}

// Profile captures everything that differs between protocol families. Both
// the codec and the framers are parameterized by it.
type Profile struct {
	// Name is used for logging and configuration lookups.
	Name string
	// Order is the byte order of every multi-byte integer on the wire.
	Order binary.ByteOrder
	// Framing selects the framer used for inbound data.
	Framing Framing
	// Network is the transport network passed to the dialer ("tcp", "udp").
	Network string
	// Lengths is required for StreamFraming profiles.
	Lengths LengthTable
	// Directions maps the wire direction encoding to logical directions.
	Directions *DirectionTable
	// Names labels message ids in logs and dumps. Optional.
	Names map[uint16]string
}

// MessageName returns the catalog name of id, or its hex value.
func (p *Profile) MessageName(id uint16) string {
	if name, ok := p.Names[id]; ok {
		return name
	}
	return fmt.Sprintf("0x%04X", id)
}
