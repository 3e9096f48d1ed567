// Package strategy contains the signal-generating strategy state
// machines evaluated by the backtest engine.
package strategy

import "github.com/rxtech-lab/argo-quant/internal/types"

// Strategy turns precomputed indicator state into per-bar signals.
//
// Init is called once before a run to precompute indicators; Evaluate
// must then be a pure function of that precomputed state and the index,
// so the same series replays to identical signals.
type Strategy interface {
	// Name returns the strategy display name.
	Name() string
	// Init precomputes indicator state for the given series.
	Init(series *types.PriceSeries) error
	// WarmupPeriod returns the minimum number of bars required before
	// the strategy produces meaningful signals.
	WarmupPeriod() int
	// Evaluate returns the signal at the given bar index.
	Evaluate(series *types.PriceSeries, index int) types.Signal
}
