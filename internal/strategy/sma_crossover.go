package strategy

import (
	"fmt"

	"github.com/rxtech-lab/argo-quant/internal/indicator"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// SMACrossover emits BUY on a golden cross (short SMA crossing above the
// long SMA) and SELL on a death cross.
type SMACrossover struct {
	shortWindow int
	longWindow  int

	// Cached SMA values aligned to data indices: shortSMA[i] and
	// longSMA[i] correspond to data index longWindow-1+i.
	shortSMA []float64
	longSMA  []float64
}

// NewSMACrossover creates an SMA crossover strategy with the given
// short/long windows. The short window must be positive and strictly
// smaller than the long window.
func NewSMACrossover(shortWindow, longWindow int) (*SMACrossover, error) {
	if shortWindow <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "short window must be positive, got %d", shortWindow)
	}

	if longWindow <= shortWindow {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "long window must exceed short window, got %d/%d", shortWindow, longWindow)
	}

	return &SMACrossover{
		shortWindow: shortWindow,
		longWindow:  longWindow,
		shortSMA:    nil,
		longSMA:     nil,
	}, nil
}

// Name returns the strategy display name.
func (s *SMACrossover) Name() string {
	return fmt.Sprintf("SMA Crossover (%d/%d)", s.shortWindow, s.longWindow)
}

// Init precomputes both SMA series and aligns them to a common start.
func (s *SMACrossover) Init(series *types.PriceSeries) error {
	rawShort := indicator.SMA(series.Close, s.shortWindow)
	rawLong := indicator.SMA(series.Close, s.longWindow)

	// rawShort starts at data index shortWindow-1, rawLong at
	// longWindow-1. Trim the short series from the front so both start
	// at longWindow-1, then truncate to the common length.
	offset := s.longWindow - s.shortWindow
	if offset < len(rawShort) {
		s.shortSMA = rawShort[offset:]
	} else {
		s.shortSMA = nil
	}

	s.longSMA = rawLong

	minLen := min(len(s.shortSMA), len(s.longSMA))
	s.shortSMA = s.shortSMA[:minLen]
	s.longSMA = s.longSMA[:minLen]

	return nil
}

// WarmupPeriod returns the number of bars needed before signals are
// meaningful: the long window, plus the extra bar Evaluate keeps for
// crossover detection.
func (s *SMACrossover) WarmupPeriod() int {
	return s.longWindow
}

// Evaluate returns BUY on a golden cross at index, SELL on a death
// cross, and HOLD otherwise (including anywhere the aligned SMA pair is
// unavailable).
func (s *SMACrossover) Evaluate(_ *types.PriceSeries, index int) types.Signal {
	if index < s.longWindow {
		return types.SignalHold
	}

	smaIdx := index - s.longWindow

	// Crossover detection needs the previous aligned point too.
	if smaIdx == 0 || smaIdx >= len(s.shortSMA) {
		return types.SignalHold
	}

	prevShort := s.shortSMA[smaIdx-1]
	prevLong := s.longSMA[smaIdx-1]
	currShort := s.shortSMA[smaIdx]
	currLong := s.longSMA[smaIdx]

	if prevShort <= prevLong && currShort > currLong {
		return types.SignalBuy
	}

	if prevShort >= prevLong && currShort < currLong {
		return types.SignalSell
	}

	return types.SignalHold
}
