package protocol

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var (
	littleEndianProfile = &Profile{
		Name:       "le",
		Order:      binary.LittleEndian,
		Directions: LegacyDirections,
	}
	bigEndianProfile = &Profile{
		Name:       "be",
		Order:      binary.BigEndian,
		Directions: ManaservDirections,
	}
	testProfiles = []*Profile{littleEndianProfile, bigEndianProfile}
)

// reader turns a finished MessageOut back into a cursor, as if it had been
// framed off the wire.
func reader(p *Profile, out *MessageOut) *MessageIn {
	return NewMessageIn(p, RawMessage{ID: out.ID(), Payload: out.Bytes()[2:]})
}

func TestMessageOut_WritesID(t *testing.T) {
	tests := []struct {
		profile *Profile
		want    []byte
	}{
		{littleEndianProfile, []byte{0x34, 0x12}},
		{bigEndianProfile, []byte{0x12, 0x34}},
	}
	for _, tt := range tests {
		t.Run(tt.profile.Name, func(t *testing.T) {
			out := NewMessageOut(tt.profile, 0x1234)
			if diff := cmp.Diff(tt.want, out.Bytes()); diff != "" {
				t.Errorf("NewMessageOut() bytes mismatch; diff:\n%s", diff)
			}
		})
	}
}

func TestIntegerRoundTrip(t *testing.T) {
	values32 := []uint32{0, 1, 0x7f, 0x80, 0xff, 0x1234, 0xffff, 0x10000, 0xdeadbeef, 0xffffffff}
	for _, p := range testProfiles {
		t.Run(p.Name, func(t *testing.T) {
			for v := 0; v <= 0xff; v++ {
				out := NewMessageOut(p, 1)
				out.WriteUint8(uint8(v))
				if got := reader(p, out).ReadUint8(); got != uint8(v) {
					t.Fatalf("ReadUint8() = %d, want %d", got, v)
				}
			}
			for _, v := range values32 {
				out := NewMessageOut(p, 1)
				out.WriteUint16(uint16(v))
				out.WriteUint32(v)
				in := reader(p, out)
				if got := in.ReadUint16(); got != uint16(v) {
					t.Errorf("ReadUint16() = %#x, want %#x", got, uint16(v))
				}
				if got := in.ReadUint32(); got != v {
					t.Errorf("ReadUint32() = %#x, want %#x", got, v)
				}
				if in.Err() != nil || in.Remaining() != 0 {
					t.Errorf("unexpected cursor state: err=%v remaining=%d", in.Err(), in.Remaining())
				}
			}
		})
	}
}

func TestByteOrder(t *testing.T) {
	le := NewMessageOut(littleEndianProfile, 0)
	le.WriteUint32(0x01020304)
	if diff := cmp.Diff([]byte{0, 0, 4, 3, 2, 1}, le.Bytes()); diff != "" {
		t.Errorf("little endian encoding mismatch; diff:\n%s", diff)
	}

	be := NewMessageOut(bigEndianProfile, 0)
	be.WriteUint32(0x01020304)
	if diff := cmp.Diff([]byte{0, 0, 1, 2, 3, 4}, be.Bytes()); diff != "" {
		t.Errorf("big endian encoding mismatch; diff:\n%s", diff)
	}
}

func TestStringRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		length int
		want   string
	}{
		{name: "prefixed empty", value: "", length: -1, want: ""},
		{name: "prefixed", value: "Hello", length: -1, want: "Hello"},
		{name: "fixed padded", value: "player", length: 24, want: "player"},
		{name: "fixed exact", value: "abcd", length: 4, want: "abcd"},
		{name: "fixed truncated", value: "abcdefgh", length: 4, want: "abcd"},
		{name: "embedded nul", value: "ab\x00cd", length: 8, want: "ab"},
	}
	for _, p := range testProfiles {
		for _, tt := range tests {
			t.Run(p.Name+"/"+tt.name, func(t *testing.T) {
				out := NewMessageOut(p, 7)
				out.WriteString(tt.value, tt.length)
				out.WriteUint8(0xAA)

				in := reader(p, out)
				if got := in.ReadString(tt.length); got != tt.want {
					t.Errorf("ReadString() = %q, want %q", got, tt.want)
				}
				// The full declared width must have been consumed.
				if got := in.ReadUint8(); got != 0xAA {
					t.Errorf("trailing byte = %#x, want 0xAA", got)
				}
				if in.Err() != nil {
					t.Errorf("unexpected error: %v", in.Err())
				}
			})
		}
	}
}

func TestMessageIn_ReadPastEnd(t *testing.T) {
	in := NewMessageIn(littleEndianProfile, RawMessage{ID: 9, Payload: []byte{0x01}})

	if got := in.ReadUint16(); got != 0 {
		t.Errorf("ReadUint16() past end = %d, want 0", got)
	}
	if !errors.Is(in.Err(), ErrMalformedMessage) {
		t.Fatalf("Err() = %v, want ErrMalformedMessage", in.Err())
	}
	if in.Pos() != 2 {
		t.Errorf("Pos() = %d, want 2 (position still advances)", in.Pos())
	}
	if in.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", in.Remaining())
	}
	// Further reads keep failing instead of returning garbage.
	if got := in.ReadUint8(); got != 0 {
		t.Errorf("ReadUint8() after exhaustion = %d, want 0", got)
	}
}

func TestMessageIn_StringOverrunExhaustsCursor(t *testing.T) {
	// Prefix claims 10 bytes, only 3 follow.
	in := NewMessageIn(littleEndianProfile, RawMessage{ID: 9, Payload: []byte{10, 0, 'a', 'b', 'c'}})

	if got := in.ReadString(-1); got != "" {
		t.Errorf("ReadString() = %q, want empty", got)
	}
	if !errors.Is(in.Err(), ErrMalformedMessage) {
		t.Fatalf("Err() = %v, want ErrMalformedMessage", in.Err())
	}
	if in.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", in.Remaining())
	}
}

func TestWriteCoordinates_WireBytes(t *testing.T) {
	out := NewMessageOut(littleEndianProfile, 0x0085)
	// Logical 6 (down and left) is wire direction 3.
	out.WriteCoordinates(100, 200, DirectionDown|DirectionLeft)

	want := []byte{0x85, 0x00, 0x19, 0x0C, 0x83}
	if diff := cmp.Diff(want, out.Bytes()); diff != "" {
		t.Errorf("WriteCoordinates() bytes mismatch; diff:\n%s", diff)
	}
}

func TestCoordinatesRoundTrip(t *testing.T) {
	directions := []uint8{1, 2, 3, 4, 6, 8, 9, 12}
	positions := [][2]uint16{{0, 0}, {1, 1}, {100, 200}, {1023, 0}, {0, 1023}, {1023, 1023}, {513, 257}}

	for _, pos := range positions {
		for _, dir := range directions {
			out := NewMessageOut(littleEndianProfile, 1)
			out.WriteCoordinates(pos[0], pos[1], dir)
			x, y, d := reader(littleEndianProfile, out).ReadCoordinates()
			if x != pos[0] || y != pos[1] || d != dir {
				t.Errorf("round trip (%d,%d,%d) = (%d,%d,%d)", pos[0], pos[1], dir, x, y, d)
			}
		}
	}
}

func TestCoordinatePairRoundTrip(t *testing.T) {
	tests := [][4]uint16{
		{0, 0, 0, 0},
		{100, 200, 101, 199},
		{1023, 1023, 1023, 1023},
		{1, 2, 3, 4},
		{512, 256, 128, 64},
	}
	for _, tt := range tests {
		out := NewMessageOut(littleEndianProfile, 1)
		out.WriteCoordinatePair(tt[0], tt[1], tt[2], tt[3])
		if out.Len() != 2+5 {
			t.Fatalf("WriteCoordinatePair() wrote %d bytes, want 5", out.Len()-2)
		}
		sx, sy, dx, dy := reader(littleEndianProfile, out).ReadCoordinatePair()
		if got := [4]uint16{sx, sy, dx, dy}; got != tt {
			t.Errorf("round trip %v = %v", tt, got)
		}
	}
}

func TestLegacyDirections(t *testing.T) {
	wantLogical := []uint8{1, 3, 2, 6, 4, 12, 8, 9}
	for wire, want := range wantLogical {
		if got := LegacyDirections.Logical(uint8(wire)); got != want {
			t.Errorf("Logical(%d) = %d, want %d", wire, got, want)
		}
		back, ok := LegacyDirections.Wire(want)
		if !ok || back != uint8(wire) {
			t.Errorf("Wire(%d) = %d, %v; want %d", want, back, ok, wire)
		}
	}

	// Wire 8 is an alias for right; wire 9 is not a direction at all.
	if got := LegacyDirections.Logical(8); got != DirectionRight {
		t.Errorf("Logical(8) = %d, want %d", got, DirectionRight)
	}
	if got := LegacyDirections.Logical(9); got != 0 {
		t.Errorf("Logical(9) = %d, want 0", got)
	}
	if w, _ := LegacyDirections.Wire(DirectionRight); w != 6 {
		t.Errorf("Wire(right) = %d, want 6", w)
	}
}

func TestMessageOut_FixLength(t *testing.T) {
	out := NewMessageOut(littleEndianProfile, 0x008c)
	out.WriteUint16(0)
	out.WriteString("hi\x00", 3)
	out.FixLength()

	want := []byte{0x8c, 0x00, 0x07, 0x00, 'h', 'i', 0}
	if diff := cmp.Diff(want, out.Bytes()); diff != "" {
		t.Errorf("FixLength() mismatch; diff:\n%s", diff)
	}
}

func TestMessageOut_TooLong(t *testing.T) {
	long := strings.Repeat("a", 70000)

	prefixed := NewMessageOut(bigEndianProfile, 0x02A0)
	prefixed.WriteString(long, -1)
	if !errors.Is(prefixed.Err(), ErrMessageTooLong) {
		t.Errorf("expected ErrMessageTooLong for a prefixed string, got %v", prefixed.Err())
	}
	if got := reader(bigEndianProfile, prefixed).ReadString(-1); len(got) != 65535 {
		t.Errorf("expected the string to be cut to 65535 bytes, got %d", len(got))
	}

	variable := NewMessageOut(littleEndianProfile, 0x008c)
	variable.WriteUint16(0)
	variable.WriteString(long, len(long))
	variable.FixLength()
	if !errors.Is(variable.Err(), ErrMessageTooLong) {
		t.Errorf("expected ErrMessageTooLong from FixLength, got %v", variable.Err())
	}

	fits := NewMessageOut(littleEndianProfile, 0x008c)
	fits.WriteUint16(0)
	fits.WriteString("hi", -1)
	fits.FixLength()
	if fits.Err() != nil {
		t.Errorf("unexpected error %v", fits.Err())
	}
}
