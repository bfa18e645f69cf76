package eathena

import (
	"fmt"

	"github.com/mana/mana-sub005/internal/game"
	"github.com/mana/mana-sub005/internal/protocol"
)

const (
	// Size of one entry in SMSG_PLAYER_INVENTORY.
	inventoryEntrySize = 18
	// Inventory indices on the wire start here.
	inventoryOffset = 2
)

// InventoryHandler keeps the player's inventory up to date.
type InventoryHandler struct {
	state *State
	link  Sender
}

func NewInventoryHandler(state *State, link Sender) *InventoryHandler {
	return &InventoryHandler{state: state, link: link}
}

func (h *InventoryHandler) MessageIDs() []uint16 {
	return []uint16{
		SMsgPlayerInventory,
		SMsgPlayerInventoryAdd,
		SMsgPlayerInventoryRemove,
		SMsgPlayerInventoryUse,
		SMsgItemUseResponse,
	}
}

func (h *InventoryHandler) Handle(msg *protocol.MessageIn) error {
	inv := h.state.Inventory

	switch msg.ID() {
	case SMsgPlayerInventory:
		length := int(msg.ReadUint16())
		count := (length - 4) / inventoryEntrySize
		items := make([]game.Item, 0, count)
		for i := 0; i < count; i++ {
			var item game.Item
			item.Index = msg.ReadUint16() - inventoryOffset
			item.ItemID = msg.ReadUint16()
			msg.ReadUint8()
			item.Identified = msg.ReadUint8() != 0
			item.Amount = msg.ReadUint16()
			item.EquipType = msg.ReadUint16()
			// Cards.
			msg.Skip(8)
			items = append(items, item)
		}
		if err := msg.Err(); err != nil {
			return err
		}
		inv.Clear()
		for _, item := range items {
			inv.Set(item)
		}

	case SMsgPlayerInventoryAdd:
		var item game.Item
		item.Index = msg.ReadUint16() - inventoryOffset
		amount := msg.ReadUint16()
		item.ItemID = msg.ReadUint16()
		item.Identified = msg.ReadUint8() != 0
		// Attribute, refine and cards.
		msg.Skip(2 + 8)
		item.EquipType = msg.ReadUint16()
		msg.ReadUint8()
		failed := msg.ReadUint8()
		if err := msg.Err(); err != nil {
			return err
		}
		if failed != 0 {
			h.state.Events.Push(game.Event{Kind: game.EventNotice, Text: "Unable to pick up item."})
			return nil
		}
		if existing, ok := inv.Get(item.Index); ok && existing.ItemID == item.ItemID {
			item.Amount = existing.Amount + amount
		} else {
			item.Amount = amount
		}
		inv.Set(item)

	case SMsgPlayerInventoryRemove:
		index := msg.ReadUint16() - inventoryOffset
		amount := msg.ReadUint16()
		if msg.Err() == nil {
			inv.Remove(index, amount)
		}

	case SMsgPlayerInventoryUse:
		index := msg.ReadUint16() - inventoryOffset
		msg.ReadUint16()
		msg.ReadUint32()
		amount := msg.ReadUint16()
		msg.ReadUint8()
		if msg.Err() == nil {
			inv.SetAmount(index, amount)
		}

	case SMsgItemUseResponse:
		index := msg.ReadUint16() - inventoryOffset
		amount := msg.ReadUint16()
		success := msg.ReadUint8()
		if msg.Err() != nil {
			return nil
		}
		if success == 0 {
			h.state.Events.Push(game.Event{Kind: game.EventNotice, Text: "Failed to use item."})
			return nil
		}
		inv.SetAmount(index, amount)
	}
	return nil
}

// Use uses the item at index on the player.
func (h *InventoryHandler) Use(index uint16) error {
	if _, ok := h.state.Inventory.Get(index); !ok {
		return fmt.Errorf("no item at index %d", index)
	}
	msg := protocol.NewMessageOut(Profile, CMsgPlayerInventoryUse)
	msg.WriteUint16(index + inventoryOffset)
	msg.WriteUint32(h.state.Session.AccountID)
	return h.link.Send(msg)
}

// Drop drops amount of the item at index.
func (h *InventoryHandler) Drop(index, amount uint16) error {
	item, ok := h.state.Inventory.Get(index)
	if !ok {
		return fmt.Errorf("no item at index %d", index)
	}
	if amount > item.Amount {
		amount = item.Amount
	}
	msg := protocol.NewMessageOut(Profile, CMsgPlayerInventoryDrop)
	msg.WriteUint16(index + inventoryOffset)
	msg.WriteUint16(amount)
	return h.link.Send(msg)
}
