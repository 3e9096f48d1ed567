package strategy

import (
	"fmt"

	"github.com/rxtech-lab/argo-quant/internal/indicator"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// RSIThreshold emits BUY when the RSI drops to the oversold threshold or
// below, and SELL when it reaches the overbought threshold or above.
type RSIThreshold struct {
	period     int
	oversold   float64
	overbought float64

	// Cached RSI values: rsi[i] corresponds to data index period+i, so
	// Evaluate reads them with a one-bar lag.
	rsi []float64
}

// NewRSIThreshold creates an RSI threshold strategy. The oversold
// threshold must be below the overbought threshold.
func NewRSIThreshold(period int, oversold, overbought float64) (*RSIThreshold, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be positive, got %d", period)
	}

	if oversold >= overbought {
		return nil, errors.Newf(errors.ErrCodeInvalidThreshold, "oversold threshold %.1f must be below overbought threshold %.1f", oversold, overbought)
	}

	return &RSIThreshold{
		period:     period,
		oversold:   oversold,
		overbought: overbought,
		rsi:        nil,
	}, nil
}

// Name returns the strategy display name.
func (r *RSIThreshold) Name() string {
	return fmt.Sprintf("RSI (%d, %.0f/%.0f)", r.period, r.oversold, r.overbought)
}

// Init precomputes the RSI series once.
func (r *RSIThreshold) Init(series *types.PriceSeries) error {
	r.rsi = indicator.RSI(series.Close, r.period)

	return nil
}

// WarmupPeriod returns the RSI lookback period.
func (r *RSIThreshold) WarmupPeriod() int {
	return r.period
}

// Evaluate maps the bar index onto the cached RSI series (value index =
// index - period - 1, a one-bar lag) and compares against the
// thresholds. Indices outside the cached range yield HOLD.
func (r *RSIThreshold) Evaluate(_ *types.PriceSeries, index int) types.Signal {
	if index <= r.period {
		return types.SignalHold
	}

	rsiIdx := index - r.period - 1
	if rsiIdx >= len(r.rsi) {
		return types.SignalHold
	}

	value := r.rsi[rsiIdx]

	if value <= r.oversold {
		return types.SignalBuy
	}

	if value >= r.overbought {
		return types.SignalSell
	}

	return types.SignalHold
}
