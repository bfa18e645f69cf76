package network

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mana/mana-sub005/internal/protocol"
)

var streamProfile = &protocol.Profile{
	Name:    "test-stream",
	Order:   binary.LittleEndian,
	Framing: protocol.StreamFraming,
	Network: "tcp",
	Lengths: protocol.Lengths{
		0x0001: 6,
		0x0002: protocol.VariableLength,
		0x0003: 2,
	},
	Directions: protocol.LegacyDirections,
}

var packetProfile = &protocol.Profile{
	Name:       "test-packet",
	Order:      binary.BigEndian,
	Framing:    protocol.PacketFraming,
	Network:    "udp",
	Directions: protocol.ManaservDirections,
}

// streamData is three messages back to back: a fixed 6 byte message, a
// variable message of 7 bytes and an id-only message.
var streamData = []byte{
	0x01, 0x00, 0xAA, 0xBB, 0xCC, 0xDD,
	0x02, 0x00, 0x07, 0x00, 'a', 'b', 'c',
	0x03, 0x00,
}

var streamMessages = []protocol.RawMessage{
	{ID: 0x0001, Payload: []byte{0xAA, 0xBB, 0xCC, 0xDD}},
	{ID: 0x0002, Payload: []byte{0x07, 0x00, 'a', 'b', 'c'}},
	{ID: 0x0003, Payload: []byte{}},
}

func drain(t *testing.T, f Framer) []protocol.RawMessage {
	t.Helper()
	var messages []protocol.RawMessage
	for {
		msg, ok, err := f.Next()
		if err != nil {
			t.Fatalf("Next() returned an unexpected error: %v", err)
		}
		if !ok {
			return messages
		}
		messages = append(messages, msg)
	}
}

func TestStreamFramer_AllAtOnce(t *testing.T) {
	f := NewStreamFramer(streamProfile)
	f.Append(streamData)

	if diff := cmp.Diff(streamMessages, drain(t, f)); diff != "" {
		t.Fatalf("unexpected messages; diff:\n%s", diff)
	}
	if f.Buffered() != 0 {
		t.Errorf("expected an empty buffer, got %d bytes", f.Buffered())
	}
}

func TestStreamFramer_ByteByByte(t *testing.T) {
	f := NewStreamFramer(streamProfile)

	var got []protocol.RawMessage
	for _, b := range streamData {
		f.Append([]byte{b})
		got = append(got, drain(t, f)...)
	}

	if diff := cmp.Diff(streamMessages, got); diff != "" {
		t.Fatalf("unexpected messages; diff:\n%s", diff)
	}
}

func TestStreamFramer_PartialMessageIsLeftAlone(t *testing.T) {
	f := NewStreamFramer(streamProfile)
	// The first message and 3 of the 7 bytes of the second.
	f.Append(streamData[:9])

	got := drain(t, f)
	if diff := cmp.Diff(streamMessages[:1], got); diff != "" {
		t.Fatalf("unexpected messages; diff:\n%s", diff)
	}

	for i := 0; i < 3; i++ {
		if msg, ok, err := f.Next(); ok || err != nil {
			t.Fatalf("Next() = %v, %v, %v on a partial message", msg, ok, err)
		}
	}
	if f.Buffered() != 3 {
		t.Fatalf("expected 3 buffered bytes, got %d", f.Buffered())
	}

	f.Append(streamData[9:])
	if diff := cmp.Diff(streamMessages[1:], drain(t, f)); diff != "" {
		t.Fatalf("unexpected messages after completion; diff:\n%s", diff)
	}
}

func TestStreamFramer_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{
			name: "id missing from the length table",
			data: []byte{0xFF, 0xFF, 0x00, 0x00},
			want: ErrUnknownMessageLength,
		},
		{
			name: "variable length shorter than its header",
			data: []byte{0x02, 0x00, 0x03, 0x00},
			want: ErrInvalidMessageLength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewStreamFramer(streamProfile)
			f.Append(tt.data)
			if _, _, err := f.Next(); !errors.Is(err, tt.want) {
				t.Errorf("expected error %v, got %v", tt.want, err)
			}
		})
	}
}

func TestStreamFramer_Skip(t *testing.T) {
	preamble := []byte{0x01, 0x02, 0x03, 0x04}

	t.Run("before data arrives", func(t *testing.T) {
		f := NewStreamFramer(streamProfile)
		f.Skip(len(preamble))
		f.Append(preamble[:1])
		f.Append(append(preamble[1:], streamData...))

		if diff := cmp.Diff(streamMessages, drain(t, f)); diff != "" {
			t.Fatalf("unexpected messages; diff:\n%s", diff)
		}
	})

	t.Run("after data arrives", func(t *testing.T) {
		f := NewStreamFramer(streamProfile)
		f.Append(append(append([]byte{}, preamble...), streamData...))
		f.Skip(len(preamble))

		if diff := cmp.Diff(streamMessages, drain(t, f)); diff != "" {
			t.Fatalf("unexpected messages; diff:\n%s", diff)
		}
	})
}

func TestPacketFramer(t *testing.T) {
	f := NewPacketFramer(packetProfile)
	f.Append([]byte{0x02, 0xA1, 'h', 'i'})
	f.Append([]byte{0x00, 0x10})

	want := []protocol.RawMessage{
		{ID: 0x02A1, Payload: []byte{'h', 'i'}},
		{ID: 0x0010, Payload: []byte{}},
	}
	if diff := cmp.Diff(want, drain(t, f)); diff != "" {
		t.Fatalf("unexpected messages; diff:\n%s", diff)
	}
}

func TestPacketFramer_ShortPacketIsDropped(t *testing.T) {
	f := NewPacketFramer(packetProfile)
	f.Append([]byte{0x02})
	f.Append([]byte{0x00, 0x10})

	if _, _, err := f.Next(); !errors.Is(err, protocol.ErrMalformedMessage) {
		t.Fatalf("expected ErrMalformedMessage, got %v", err)
	}
	msg, ok, err := f.Next()
	if err != nil || !ok {
		t.Fatalf("Next() = %v, %v after a dropped packet", ok, err)
	}
	if msg.ID != 0x0010 {
		t.Errorf("expected id 0x0010, got 0x%04X", msg.ID)
	}
}

func TestPacketFramer_Skip(t *testing.T) {
	f := NewPacketFramer(packetProfile)
	f.Append([]byte{0x00, 0x01})
	f.Skip(2)
	f.Append([]byte{0x00, 0x02})
	f.Append([]byte{0x00, 0x03})

	got := drain(t, f)
	if len(got) != 1 || got[0].ID != 0x0003 {
		t.Fatalf("expected only message 0x0003, got %v", got)
	}
}
