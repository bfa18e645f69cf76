package game

// TradeState is the progress of a trade with another player.
type TradeState int

const (
	TradeNone TradeState = iota
	// TradeRequested means a request is waiting for an answer, in either
	// direction.
	TradeRequested
	TradeOpen
	// TradeLocked means one side confirmed its offer.
	TradeLocked
)

type TradeItem struct {
	ItemID uint16
	Amount uint32
}

// Trade tracks the one trade a player can have open.
type Trade struct {
	State   TradeState
	Partner string
	// Received is what the other side has put up.
	Received []TradeItem
	// Offered holds inventory indices put up by the local player.
	Offered   []uint16
	LocalOK   bool
	PartnerOK bool
}

func (t *Trade) Reset() {
	*t = Trade{}
}
