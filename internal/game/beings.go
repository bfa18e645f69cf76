// Package game holds the client side view of the world that handlers keep
// up to date. Nothing here is safe for concurrent use; it is only touched
// from the main loop.
package game

import "sort"

// Being is anything with a position on the map: players, monsters, NPCs.
type Being struct {
	ID        uint32
	Name      string
	Job       uint16
	Speed     uint16
	X, Y      uint16
	DestX     uint16
	DestY     uint16
	Direction uint8
}

// Moving reports whether the being has a destination different from its
// position.
func (b *Being) Moving() bool {
	return b.X != b.DestX || b.Y != b.DestY
}

// Beings is the set of beings in sight, including the local player.
type Beings struct {
	beings map[uint32]*Being
	player uint32
}

func NewBeings() *Beings {
	return &Beings{beings: make(map[uint32]*Being)}
}

// Get returns the being with the given id.
func (b *Beings) Get(id uint32) (*Being, bool) {
	being, ok := b.beings[id]
	return being, ok
}

// Ensure returns the being with the given id, adding it if it is unknown.
func (b *Beings) Ensure(id uint32) *Being {
	being, ok := b.beings[id]
	if !ok {
		being = &Being{ID: id}
		b.beings[id] = being
	}
	return being
}

// Remove forgets a being. The local player is never removed.
func (b *Beings) Remove(id uint32) {
	if id == b.player && id != 0 {
		return
	}
	delete(b.beings, id)
}

// Clear forgets every being but the local player, as when changing maps.
func (b *Beings) Clear() {
	for id := range b.beings {
		if id != b.player {
			delete(b.beings, id)
		}
	}
}

func (b *Beings) Len() int { return len(b.beings) }

// All returns the beings ordered by id.
func (b *Beings) All() []*Being {
	all := make([]*Being, 0, len(b.beings))
	for _, being := range b.beings {
		all = append(all, being)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

// SetPlayer marks id as the local player.
func (b *Beings) SetPlayer(id uint32) *Being {
	b.player = id
	return b.Ensure(id)
}

// Player returns the local player, or nil before SetPlayer.
func (b *Beings) Player() *Being {
	if b.player == 0 {
		return nil
	}
	return b.beings[b.player]
}
