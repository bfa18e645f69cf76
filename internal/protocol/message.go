package protocol

import (
	"errors"
	"fmt"
)

// ErrMalformedMessage is reported when a message is shorter than what its
// reader tried to consume. Only the offending message is dropped.
var ErrMalformedMessage = errors.New("malformed message")

// ErrMessageTooLong is recorded by a MessageOut whose string or total length
// does not fit its u16 length field. Such a message cannot be sent.
var ErrMessageTooLong = errors.New("message too long")

// RawMessage is one framed message: its type id and every byte after it.
type RawMessage struct {
	ID      uint16
	Payload []byte
}

func (m RawMessage) String() string {
	return fmt.Sprintf("0x%04X (%d bytes)", m.ID, len(m.Payload))
}

// truncateAtNul returns the prefix of b before the first NUL byte.
func truncateAtNul(b []byte) []byte {
	for i, c := range b {
		if c == 0 {
			return b[:i]
		}
	}
	return b
}
