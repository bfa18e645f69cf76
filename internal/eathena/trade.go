package eathena

import (
	"errors"

	"github.com/mana/mana-sub005/internal/game"
	"github.com/mana/mana-sub005/internal/protocol"
)

// Trade response codes.
const (
	tradeTooFar    = 0
	tradeNoSuchPC  = 1
	tradeCancelled = 2
	tradeAccepted  = 3
	tradeBusy      = 4
)

// ErrNoTrade is returned by trade actions while no trade is open.
var ErrNoTrade = errors.New("no trade in progress")

// TradeHandler follows a trade between the player and someone else.
type TradeHandler struct {
	state *State
	link  Sender
}

func NewTradeHandler(state *State, link Sender) *TradeHandler {
	return &TradeHandler{state: state, link: link}
}

func (h *TradeHandler) MessageIDs() []uint16 {
	return []uint16{
		SMsgTradeRequest,
		SMsgTradeResponse,
		SMsgTradeItemAdd,
		SMsgTradeItemAddResponse,
		SMsgTradeOK,
		SMsgTradeCancel,
		SMsgTradeComplete,
	}
}

func (h *TradeHandler) Handle(msg *protocol.MessageIn) error {
	trade := &h.state.Trade

	switch msg.ID() {
	case SMsgTradeRequest:
		name := msg.ReadString(24)
		if msg.Err() != nil {
			return nil
		}
		if trade.State != game.TradeNone {
			// Busy; turn the new request down.
			return h.respond(false)
		}
		trade.State = game.TradeRequested
		trade.Partner = name
		h.state.Events.Push(game.Event{Kind: game.EventTradeRequest, Source: name, Text: name + " wants to trade with you."})

	case SMsgTradeResponse:
		code := msg.ReadUint8()
		if msg.Err() != nil {
			return nil
		}
		h.handleResponse(code)

	case SMsgTradeItemAdd:
		amount := msg.ReadUint32()
		itemID := msg.ReadUint16()
		// Identified, attribute, refine and cards.
		msg.Skip(3 + 8)
		if msg.Err() != nil {
			return nil
		}
		if itemID == 0 {
			// Money is sent as item 0; it has no slot.
			return nil
		}
		trade.Received = append(trade.Received, game.TradeItem{ItemID: itemID, Amount: amount})

	case SMsgTradeItemAddResponse:
		index := msg.ReadUint16() - inventoryOffset
		failed := msg.ReadUint8()
		if msg.Err() != nil {
			return nil
		}
		if failed != 0 {
			h.state.Events.Push(game.Event{Kind: game.EventNotice, Text: "Failed adding item to trade."})
			return nil
		}
		trade.Offered = append(trade.Offered, index)

	case SMsgTradeOK:
		who := msg.ReadUint8()
		if msg.Err() != nil {
			return nil
		}
		if who == 0 {
			trade.LocalOK = true
		} else {
			trade.PartnerOK = true
		}
		trade.State = game.TradeLocked

	case SMsgTradeCancel:
		trade.Reset()
		h.state.Events.Push(game.Event{Kind: game.EventNotice, Text: "Trade cancelled."})

	case SMsgTradeComplete:
		msg.ReadUint8()
		trade.Reset()
		h.state.Events.Push(game.Event{Kind: game.EventNotice, Text: "Trade completed."})
	}
	return nil
}

func (h *TradeHandler) handleResponse(code uint8) {
	trade := &h.state.Trade
	var text string
	switch code {
	case tradeTooFar:
		text = "Trading isn't possible. Trade partner is too far away."
	case tradeNoSuchPC:
		text = "Trading isn't possible. Character doesn't exist."
	case tradeCancelled:
		text = "Trade cancelled due to an unknown reason."
	case tradeAccepted:
		trade.State = game.TradeOpen
		h.state.Events.Push(game.Event{Kind: game.EventNotice, Text: "Trade accepted."})
		return
	case tradeBusy:
		text = "Trade partner is busy."
	default:
		text = "Unhandled trade cancel packet."
	}
	trade.Reset()
	h.state.Events.Push(game.Event{Kind: game.EventNotice, Text: text})
}

// Request asks the being with id to trade.
func (h *TradeHandler) Request(id uint32) error {
	if h.state.Trade.State != game.TradeNone {
		return errors.New("already trading")
	}
	msg := protocol.NewMessageOut(Profile, CMsgTradeRequest)
	msg.WriteUint32(id)
	if err := h.link.Send(msg); err != nil {
		return err
	}
	h.state.Trade.State = game.TradeRequested
	return nil
}

// Respond answers a trade request.
func (h *TradeHandler) Respond(accept bool) error {
	if h.state.Trade.State != game.TradeRequested {
		return ErrNoTrade
	}
	if err := h.respond(accept); err != nil {
		return err
	}
	if !accept {
		h.state.Trade.Reset()
	}
	return nil
}

func (h *TradeHandler) respond(accept bool) error {
	msg := protocol.NewMessageOut(Profile, CMsgTradeResponse)
	if accept {
		msg.WriteUint8(tradeAccepted)
	} else {
		msg.WriteUint8(tradeBusy)
	}
	return h.link.Send(msg)
}

// AddItem offers amount of the inventory item at index.
func (h *TradeHandler) AddItem(index uint16, amount uint32) error {
	if h.state.Trade.State != game.TradeOpen {
		return ErrNoTrade
	}
	msg := protocol.NewMessageOut(Profile, CMsgTradeItemAddRequest)
	msg.WriteUint16(index + inventoryOffset)
	msg.WriteUint32(amount)
	return h.link.Send(msg)
}

// Lock confirms the player's offer.
func (h *TradeHandler) Lock() error {
	if h.state.Trade.State != game.TradeOpen {
		return ErrNoTrade
	}
	return h.link.Send(protocol.NewMessageOut(Profile, CMsgTradeAddComplete))
}

// Accept completes a trade both sides locked.
func (h *TradeHandler) Accept() error {
	if h.state.Trade.State != game.TradeLocked {
		return ErrNoTrade
	}
	return h.link.Send(protocol.NewMessageOut(Profile, CMsgTradeOK))
}

func (h *TradeHandler) Cancel() error {
	if h.state.Trade.State == game.TradeNone {
		return ErrNoTrade
	}
	return h.link.Send(protocol.NewMessageOut(Profile, CMsgTradeCancelRequest))
}
