// Package config loads and validates the macro allocation configuration:
// scoring weights, regime thresholds, per-regime allocation tables and
// backtest settings. Missing values fall back to documented defaults
// rather than producing errors.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SupportedVersionConstraint is the config schema versions this build
// accepts.
const SupportedVersionConstraint = "^1.0"

// Default scoring weights. Inflation and risk enter the composite as
// (100 - score), so their weights are still positive.
const (
	DefaultGrowthWeight    = 0.25
	DefaultInflationWeight = 0.20
	DefaultLiquidityWeight = 0.20
	DefaultSentimentWeight = 0.15
	DefaultRiskWeight      = 0.20
)

// Default regime thresholds.
const (
	DefaultOverheatingGrowthMin    = 45.0
	DefaultOverheatingInflationMin = 65.0
	DefaultExpansionGrowthMin      = 60.0
	DefaultExpansionInflationMax   = 65.0
	DefaultRecessionGrowthFloor    = 25.0
)

// DefaultInitialCapital is used when the backtest section omits one.
const DefaultInitialCapital = 10000.0

// DefaultBenchmark is the buy-and-hold comparison ticker.
const DefaultBenchmark = "SPY"

// ScoringWeights weights the five category scores into the composite.
// Nil fields fall back to the package defaults.
type ScoringWeights struct {
	Growth    *float64 `yaml:"growth" json:"growth,omitempty" jsonschema:"minimum=0,maximum=1" validate:"omitempty,gte=0,lte=1"`
	Inflation *float64 `yaml:"inflation" json:"inflation,omitempty" jsonschema:"minimum=0,maximum=1" validate:"omitempty,gte=0,lte=1"`
	Liquidity *float64 `yaml:"liquidity" json:"liquidity,omitempty" jsonschema:"minimum=0,maximum=1" validate:"omitempty,gte=0,lte=1"`
	Sentiment *float64 `yaml:"sentiment" json:"sentiment,omitempty" jsonschema:"minimum=0,maximum=1" validate:"omitempty,gte=0,lte=1"`
	Risk      *float64 `yaml:"risk" json:"risk,omitempty" jsonschema:"minimum=0,maximum=1" validate:"omitempty,gte=0,lte=1"`
}

// GrowthWeight returns the configured growth weight or the default.
func (w ScoringWeights) GrowthWeight() float64 { return valueOr(w.Growth, DefaultGrowthWeight) }

// InflationWeight returns the configured inflation weight or the default.
func (w ScoringWeights) InflationWeight() float64 {
	return valueOr(w.Inflation, DefaultInflationWeight)
}

// LiquidityWeight returns the configured liquidity weight or the default.
func (w ScoringWeights) LiquidityWeight() float64 {
	return valueOr(w.Liquidity, DefaultLiquidityWeight)
}

// SentimentWeight returns the configured sentiment weight or the default.
func (w ScoringWeights) SentimentWeight() float64 {
	return valueOr(w.Sentiment, DefaultSentimentWeight)
}

// RiskWeight returns the configured risk weight or the default.
func (w ScoringWeights) RiskWeight() float64 { return valueOr(w.Risk, DefaultRiskWeight) }

// RegimeThresholds drives regime classification. Nil fields fall back
// to the package defaults.
type RegimeThresholds struct {
	Overheating OverheatingThresholds `yaml:"overheating" json:"overheating,omitempty"`
	Expansion   ExpansionThresholds   `yaml:"expansion" json:"expansion,omitempty"`
	Slowdown    SlowdownThresholds    `yaml:"slowdown" json:"slowdown,omitempty"`
}

// OverheatingThresholds: growth at or above CompositeMin together with
// inflation at or above InflationMin classifies as Overheating.
type OverheatingThresholds struct {
	CompositeMin *float64 `yaml:"composite_min" json:"composite_min,omitempty" validate:"omitempty,gte=0,lte=100"`
	InflationMin *float64 `yaml:"inflation_min" json:"inflation_min,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// GrowthMin returns the configured growth threshold or the default.
func (t OverheatingThresholds) GrowthMin() float64 {
	return valueOr(t.CompositeMin, DefaultOverheatingGrowthMin)
}

// InflationFloor returns the configured inflation threshold or the default.
func (t OverheatingThresholds) InflationFloor() float64 {
	return valueOr(t.InflationMin, DefaultOverheatingInflationMin)
}

// ExpansionThresholds: growth at or above CompositeMin with inflation
// strictly below InflationMax classifies as Expansion.
type ExpansionThresholds struct {
	CompositeMin *float64 `yaml:"composite_min" json:"composite_min,omitempty" validate:"omitempty,gte=0,lte=100"`
	InflationMax *float64 `yaml:"inflation_max" json:"inflation_max,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// GrowthMin returns the configured growth threshold or the default.
func (t ExpansionThresholds) GrowthMin() float64 {
	return valueOr(t.CompositeMin, DefaultExpansionGrowthMin)
}

// InflationCeiling returns the configured inflation ceiling or the default.
func (t ExpansionThresholds) InflationCeiling() float64 {
	return valueOr(t.InflationMax, DefaultExpansionInflationMax)
}

// SlowdownThresholds: growth below CompositeMin classifies as Recession
// (together with the fixed risk floor); everything else that matched no
// earlier regime is Slowdown.
type SlowdownThresholds struct {
	CompositeMin *float64 `yaml:"composite_min" json:"composite_min,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// GrowthFloor returns the configured recession growth floor or the default.
func (t SlowdownThresholds) GrowthFloor() float64 {
	return valueOr(t.CompositeMin, DefaultRecessionGrowthFloor)
}

// BacktestConfig holds the macro backtest settings.
type BacktestConfig struct {
	// StartDate and EndDate bound the simulated window.
	StartDate optional.Option[time.Time] `yaml:"-" json:"start_date,omitempty"`
	EndDate   optional.Option[time.Time] `yaml:"-" json:"end_date,omitempty"`

	InitialCapital *float64 `yaml:"initial_capital" json:"initial_capital,omitempty" validate:"omitempty,gt=0"`
	// Benchmark is the buy-and-hold comparison ticker.
	Benchmark string `yaml:"benchmark" json:"benchmark,omitempty"`
	// RebalanceFrequencies lists the cadences to simulate.
	RebalanceFrequencies []types.RebalanceFrequency `yaml:"rebalance_frequencies" json:"rebalance_frequencies,omitempty" validate:"omitempty,dive,oneof=m q a"`
}

// Capital returns the configured initial capital or the default.
func (b BacktestConfig) Capital() float64 { return valueOr(b.InitialCapital, DefaultInitialCapital) }

// BenchmarkTicker returns the configured benchmark or the default.
func (b BacktestConfig) BenchmarkTicker() string {
	if b.Benchmark == "" {
		return DefaultBenchmark
	}

	return b.Benchmark
}

// Frequencies returns the configured cadences, defaulting to all three.
func (b BacktestConfig) Frequencies() []types.RebalanceFrequency {
	if len(b.RebalanceFrequencies) == 0 {
		return []types.RebalanceFrequency{types.RebalanceMonthly, types.RebalanceQuarterly, types.RebalanceAnnually}
	}

	return b.RebalanceFrequencies
}

// UnmarshalYAML implements custom unmarshaling so dates written as
// YYYY-MM-DD strings land in optional.Option fields.
func (b *BacktestConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type plain struct {
		StartDate            string                     `yaml:"start_date"`
		EndDate              string                     `yaml:"end_date"`
		InitialCapital       *float64                   `yaml:"initial_capital"`
		Benchmark            string                     `yaml:"benchmark"`
		RebalanceFrequencies []types.RebalanceFrequency `yaml:"rebalance_frequencies"`
	}

	var p plain
	if err := unmarshal(&p); err != nil {
		return err
	}

	b.InitialCapital = p.InitialCapital
	b.Benchmark = p.Benchmark
	b.RebalanceFrequencies = p.RebalanceFrequencies
	b.StartDate = optional.None[time.Time]()
	b.EndDate = optional.None[time.Time]()

	if p.StartDate != "" {
		t, err := time.Parse("2006-01-02", p.StartDate)
		if err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid start_date %q", p.StartDate)
		}

		b.StartDate = optional.Some(t)
	}

	if p.EndDate != "" {
		t, err := time.Parse("2006-01-02", p.EndDate)
		if err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid end_date %q", p.EndDate)
		}

		b.EndDate = optional.Some(t)
	}

	return nil
}

// Config is the top-level configuration document.
type Config struct {
	// Version is the config schema version, checked against
	// SupportedVersionConstraint.
	Version string `yaml:"version" json:"version" jsonschema:"title=Version,description=Config schema version" validate:"required"`

	ScoringWeights   ScoringWeights   `yaml:"scoring_weights" json:"scoring_weights,omitempty"`
	RegimeThresholds RegimeThresholds `yaml:"regime_thresholds" json:"regime_thresholds,omitempty"`

	// Allocations maps lowercase regime names to weight tables.
	Allocations map[string]types.Allocation `yaml:"allocation" json:"allocation,omitempty"`

	Backtest BacktestConfig `yaml:"backtest" json:"backtest,omitempty"`

	// AssetTickers maps asset keys (stocks, gold, ...) to tickers.
	AssetTickers map[string]string `yaml:"asset_tickers" json:"asset_tickers,omitempty"`
}

// AllocationFor looks up the allocation table for a regime. A regime
// with no configured table yields an all-zero allocation, not an error.
func (c *Config) AllocationFor(regime types.Regime) types.Allocation {
	alloc, ok := c.Allocations[strings.ToLower(string(regime))]
	if !ok {
		return types.Allocation{Stocks: 0, Gold: 0, Metals: 0, Bonds: 0, Cash: 0}
	}

	return alloc
}

// Validate checks struct constraints, the schema version and the
// allocation weight budget.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "config validation failed", err)
	}

	version, err := semver.NewVersion(c.Version)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid config version %q", c.Version)
	}

	constraint, err := semver.NewConstraint(SupportedVersionConstraint)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid version constraint", err)
	}

	if !constraint.Check(version) {
		return errors.Newf(errors.ErrCodeUnsupportedVersion, "config version %s does not satisfy %s", c.Version, SupportedVersionConstraint)
	}

	for regime, alloc := range c.Allocations {
		if alloc.Total() > 100 {
			return errors.Newf(errors.ErrCodeInvalidConfiguration, "allocation for %s sums to %.1f, exceeding 100", regime, alloc.Total())
		}
	}

	return nil
}

// Load parses a YAML config document and validates it.
func Load(data []byte) (*Config, error) {
	config := Default()

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config YAML", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadFile reads and parses a YAML config file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
	}

	return Load(data)
}

// Default returns a config populated with the documented defaults and
// the standard four-regime allocation tables.
func Default() *Config {
	return &Config{
		Version:          "1.0.0",
		ScoringWeights:   ScoringWeights{Growth: nil, Inflation: nil, Liquidity: nil, Sentiment: nil, Risk: nil},
		RegimeThresholds: RegimeThresholds{
			Overheating: OverheatingThresholds{CompositeMin: nil, InflationMin: nil},
			Expansion:   ExpansionThresholds{CompositeMin: nil, InflationMax: nil},
			Slowdown:    SlowdownThresholds{CompositeMin: nil},
		},
		Allocations: map[string]types.Allocation{
			"expansion":   {Stocks: 70, Gold: 5, Metals: 5, Bonds: 10, Cash: 10},
			"overheating": {Stocks: 30, Gold: 25, Metals: 15, Bonds: 10, Cash: 20},
			"slowdown":    {Stocks: 30, Gold: 20, Metals: 5, Bonds: 30, Cash: 15},
			"recession":   {Stocks: 15, Gold: 25, Metals: 5, Bonds: 40, Cash: 15},
		},
		Backtest: BacktestConfig{
			StartDate:            optional.None[time.Time](),
			EndDate:              optional.None[time.Time](),
			InitialCapital:       nil,
			Benchmark:            "",
			RebalanceFrequencies: nil,
		},
		AssetTickers: map[string]string{
			"stocks": "SPY",
			"gold":   "GLD",
			"metals": "DBB",
			"bonds":  "TLT",
			"cash":   "BIL",
		},
	}
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}

	return *v
}
