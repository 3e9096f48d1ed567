package types

// Trade is one closed round trip. Immutable once recorded.
type Trade struct {
	// BuyIndex is the bar index the position was opened at.
	BuyIndex int `yaml:"buy_index"`
	// SellIndex is the bar index the position was closed at.
	SellIndex int `yaml:"sell_index"`
	// BuyPrice is the close price at BuyIndex.
	BuyPrice float64 `yaml:"buy_price"`
	// SellPrice is the close price at SellIndex.
	SellPrice float64 `yaml:"sell_price"`
	// ReturnPct is (SellPrice - BuyPrice) / BuyPrice * 100.
	ReturnPct float64 `yaml:"return_pct"`
}

// IsWin reports whether the trade closed with a positive return.
func (t Trade) IsWin() bool {
	return t.ReturnPct > 0
}
