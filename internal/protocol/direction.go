package protocol

// Logical directions are an 8-way bitmask; diagonals are the OR of two axes.
const (
	DirectionUp    uint8 = 1
	DirectionLeft  uint8 = 2
	DirectionDown  uint8 = 4
	DirectionRight uint8 = 8
)

// DirectionTable converts between a family's wire direction values and the
// logical bitmask directions used by the rest of the client.
type DirectionTable struct {
	toLogical map[uint8]uint8
	toWire    map[uint8]uint8
}

// NewDirectionTable builds a table where wire value i maps to logical[i].
// The reverse mapping is derived from it, first occurrence wins.
func NewDirectionTable(logical []uint8) *DirectionTable {
	t := &DirectionTable{
		toLogical: make(map[uint8]uint8, len(logical)),
		toWire:    make(map[uint8]uint8, len(logical)),
	}
	for wire, dir := range logical {
		t.toLogical[uint8(wire)] = dir
		if _, ok := t.toWire[dir]; !ok {
			t.toWire[dir] = uint8(wire)
		}
	}
	return t
}

// withAlias adds a decode-only mapping that does not affect encoding.
func (t *DirectionTable) withAlias(wire, logical uint8) *DirectionTable {
	t.toLogical[wire] = logical
	return t
}

// Logical returns the logical direction for a wire value, or 0 when the wire
// value is not part of the table.
func (t *DirectionTable) Logical(wire uint8) uint8 {
	return t.toLogical[wire]
}

// Wire returns the wire value for a logical direction.
func (t *DirectionTable) Wire(logical uint8) (uint8, bool) {
	w, ok := t.toWire[logical]
	return w, ok
}

// LegacyDirections is the eAthena direction table. Wire values 0..7 run
// clockwise starting at up; the server has also been seen sending 8, which
// decodes to right and is never produced when encoding.
var LegacyDirections = NewDirectionTable([]uint8{
	DirectionUp,
	DirectionUp | DirectionLeft,
	DirectionLeft,
	DirectionDown | DirectionLeft,
	DirectionDown,
	DirectionDown | DirectionRight,
	DirectionRight,
	DirectionUp | DirectionRight,
}).withAlias(8, DirectionRight)

// ManaservDirections is the 4-way table used by manaserv. Wire value 0 is
// unused.
var ManaservDirections = NewDirectionTable([]uint8{
	0,
	DirectionUp,
	DirectionDown,
	DirectionLeft,
	DirectionRight,
})
