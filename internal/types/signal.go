package types

// Signal is a per-bar trading decision emitted by a strategy.
type Signal string

const (
	// SignalBuy tells the engine to open a position.
	SignalBuy Signal = "buy"
	// SignalSell tells the engine to close the position.
	SignalSell Signal = "sell"
	// SignalHold tells the engine to take no action.
	SignalHold Signal = "hold"
)
