package game

import "sort"

// Item is one inventory slot.
type Item struct {
	Index      uint16
	ItemID     uint16
	Amount     uint16
	EquipType  uint16
	Identified bool
}

type Inventory struct {
	items map[uint16]Item
}

func NewInventory() *Inventory {
	return &Inventory{items: make(map[uint16]Item)}
}

func (inv *Inventory) Set(item Item) {
	inv.items[item.Index] = item
}

func (inv *Inventory) Get(index uint16) (Item, bool) {
	item, ok := inv.items[index]
	return item, ok
}

// Remove takes amount from the slot, emptying it when nothing is left.
func (inv *Inventory) Remove(index, amount uint16) {
	item, ok := inv.items[index]
	if !ok {
		return
	}
	if amount >= item.Amount {
		delete(inv.items, index)
		return
	}
	item.Amount -= amount
	inv.items[index] = item
}

// SetAmount updates a slot's amount, emptying it at zero.
func (inv *Inventory) SetAmount(index, amount uint16) {
	item, ok := inv.items[index]
	if !ok {
		return
	}
	if amount == 0 {
		delete(inv.items, index)
		return
	}
	item.Amount = amount
	inv.items[index] = item
}

func (inv *Inventory) Clear() {
	inv.items = make(map[uint16]Item)
}

func (inv *Inventory) Len() int { return len(inv.items) }

// Items returns every slot ordered by index.
func (inv *Inventory) Items() []Item {
	items := make([]Item, 0, len(inv.items))
	for _, item := range inv.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Index < items[j].Index })
	return items
}
