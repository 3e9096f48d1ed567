// Package macro scores macroeconomic conditions, classifies the current
// regime and backtests regime-driven asset allocations.
package macro

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/config"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/types"
)

// FRED series identifiers consumed by the scorer, grouped by category.
const (
	SeriesUnemployment         = "UNRATE"
	SeriesPayrolls             = "PAYEMS"
	SeriesIndustrialProduction = "INDPRO"

	SeriesCPI     = "CPIAUCSL"
	SeriesCoreCPI = "CPILFESL"
	SeriesPCE     = "PCEPI"

	SeriesRealM2   = "M2REAL"
	SeriesM2       = "WM2NS"
	SeriesFedFunds = "FEDFUNDS"

	SeriesConsumerSentiment = "UMCSENT"

	SeriesYieldSpread     = "T10Y2Y"
	SeriesHighYieldSpread = "BAMLH0A0HYM2"
)

// AllSeriesIDs lists every series the scorer can consume, in category
// order (growth, inflation, liquidity, sentiment, risk).
var AllSeriesIDs = []string{
	SeriesUnemployment, SeriesPayrolls, SeriesIndustrialProduction,
	SeriesCPI, SeriesCoreCPI, SeriesPCE,
	SeriesRealM2, SeriesM2, SeriesFedFunds,
	SeriesConsumerSentiment,
	SeriesYieldSpread, SeriesHighYieldSpread,
}

const (
	// neutralScore is the baseline every category starts from; a series
	// that is absent simply leaves the score closer to neutral.
	neutralScore = 50.0

	// recessionRiskMin: a risk score at or above this classifies as
	// Recession regardless of growth.
	recessionRiskMin = 70.0

	// inflationTargetPct is the annualized inflation rate treated as
	// neutral.
	inflationTargetPct = 2.0

	// nearZero guards percentage-change denominators.
	nearZero = 1e-12
)

// Scorer converts economic series and a sentiment reading into category
// scores, a composite, a regime and an allocation. It holds no state
// between calls: every evaluation recomputes from its inputs, so the
// same formulas serve both live analysis and backtesting.
type Scorer struct {
	cfg *config.Config
	log *logger.Logger
}

// NewScorer creates a scorer using the given configuration's weights,
// thresholds and allocation tables.
func NewScorer(cfg *config.Config, log *logger.Logger) *Scorer {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Scorer{
		cfg: cfg,
		log: log,
	}
}

// accessor abstracts where in a series a score evaluation reads from:
// the latest observation (live) or a fixed index (backtest).
type accessor struct {
	// value returns the observation the evaluation is anchored at.
	value func(series *types.EconomicSeries) float64
	// delta returns the change from the previous observation.
	delta func(series *types.EconomicSeries) float64
}

func latestAccessor() accessor {
	return accessor{
		value: func(series *types.EconomicSeries) float64 {
			if series == nil || series.Len() == 0 {
				return 0
			}

			return series.Values[series.Len()-1]
		},
		delta: func(series *types.EconomicSeries) float64 {
			if series == nil || series.Len() < 2 {
				return 0
			}

			n := series.Len()

			return series.Values[n-1] - series.Values[n-2]
		},
	}
}

func indexAccessor(index int) accessor {
	return accessor{
		value: func(series *types.EconomicSeries) float64 {
			if series == nil || index < 0 || index >= series.Len() {
				return 0
			}

			return series.Values[index]
		},
		delta: func(series *types.EconomicSeries) float64 {
			if series == nil || index < 1 || index >= series.Len() {
				return 0
			}

			return series.Values[index] - series.Values[index-1]
		},
	}
}

// ComputeScores scores the latest observations of the given series plus
// an optional sentiment snapshot. Missing series are skipped silently.
func (s *Scorer) ComputeScores(data map[string]*types.EconomicSeries, sentiment optional.Option[types.SentimentSnapshot]) types.MacroScores {
	return s.computeScores(data, latestAccessor(), sentiment)
}

// ComputeScoresAt scores the series at a fixed historical index, used by
// the macro backtester. The fear/greed term is permanently absent here
// because sentiment snapshots are not indexed by month; only consumer
// sentiment contributes. This live/backtest asymmetry is intentional.
func (s *Scorer) ComputeScoresAt(data map[string]*types.EconomicSeries, index int) types.MacroScores {
	return s.computeScores(data, indexAccessor(index), optional.None[types.SentimentSnapshot]())
}

func (s *Scorer) computeScores(data map[string]*types.EconomicSeries, acc accessor, sentiment optional.Option[types.SentimentSnapshot]) types.MacroScores {
	return types.MacroScores{
		Growth:    s.growthScore(data, acc),
		Inflation: s.inflationScore(data, acc),
		Liquidity: s.liquidityScore(data, acc),
		Sentiment: s.sentimentScore(data, acc, sentiment),
		Risk:      s.riskScore(data, acc),
		Composite: 0,
	}
}

// growthScore: falling and low unemployment, growing payrolls and
// growing industrial production all add score.
func (s *Scorer) growthScore(data map[string]*types.EconomicSeries, acc accessor) float64 {
	score := neutralScore

	if series := present(data, SeriesUnemployment); series != nil {
		roc := acc.delta(series)
		level := acc.value(series)
		// A falling unemployment rate is good (+10 per -0.1pp).
		score += -roc * 100
		// A low level is good: below 4% earns a bonus, above 6% a penalty.
		score += (5.0 - level) * 5
	}

	if series := present(data, SeriesPayrolls); series != nil {
		// Normalized against a healthy ~200k/month of job growth.
		score += acc.delta(series) / 200 * 10
	}

	if series := present(data, SeriesIndustrialProduction); series != nil {
		score += acc.delta(series) * 5
	}

	return Clamp(score)
}

// inflationScore: annualized month-over-month change of each price
// index against the 2% target, weighted 10/8/7.
func (s *Scorer) inflationScore(data map[string]*types.EconomicSeries, acc accessor) float64 {
	score := neutralScore

	apply := func(id string, weight float64) {
		series := present(data, id)
		if series == nil {
			return
		}

		base := acc.value(series)
		if math.Abs(base) < nearZero {
			return
		}

		pctChg := acc.delta(series) / base * 100 * 12
		score += (pctChg - inflationTargetPct) * weight
	}

	apply(SeriesCPI, 10)
	apply(SeriesCoreCPI, 8)
	apply(SeriesPCE, 7)

	return Clamp(score)
}

// liquidityScore: money supply growth adds score; a fed funds rate
// below 3% adds, above subtracts.
func (s *Scorer) liquidityScore(data map[string]*types.EconomicSeries, acc accessor) float64 {
	score := neutralScore

	applyMoney := func(id string, weight float64) {
		series := present(data, id)
		if series == nil {
			return
		}

		base := acc.value(series)
		if math.Abs(base) < nearZero {
			return
		}

		pctChg := acc.delta(series) / base * 100
		score += pctChg * weight
	}

	applyMoney(SeriesRealM2, 30)
	applyMoney(SeriesM2, 20)

	if series := present(data, SeriesFedFunds); series != nil {
		rate := acc.value(series)
		// Lower rates mean more liquidity: 0% maxes out, 6%+ bottoms out.
		score += (3.0 - rate) * 5
	}

	return Clamp(score)
}

// sentimentScore blends the fear/greed score with normalized consumer
// sentiment: both present takes the mean, one present uses it alone.
func (s *Scorer) sentimentScore(data map[string]*types.EconomicSeries, acc accessor, sentiment optional.Option[types.SentimentSnapshot]) float64 {
	score := neutralScore
	haveFng := false

	if sentiment.IsSome() {
		score = sentiment.Unwrap().Score
		haveFng = true
	}

	if series := present(data, SeriesConsumerSentiment); series != nil {
		// UMCSENT typically prints 50-110; rescale to 0-100.
		normalized := Clamp((acc.value(series) - 50) * (100.0 / 60.0))
		if haveFng {
			score = (score + normalized) / 2
		} else {
			score = normalized
		}
	}

	return Clamp(score)
}

// riskScore: an inverted yield curve and elevated high-yield spreads
// both add risk.
func (s *Scorer) riskScore(data map[string]*types.EconomicSeries, acc accessor) float64 {
	score := neutralScore

	if series := present(data, SeriesYieldSpread); series != nil {
		// Negative 10y-2y spread signals recession risk: +2.0 spread
		// subtracts 20, -0.5 adds 5.
		score += -acc.value(series) * 10
	}

	if series := present(data, SeriesHighYieldSpread); series != nil {
		// Normal high-yield spreads sit near 3-4%; above that is stress.
		score += (acc.value(series) - 4.0) * 8
	}

	return Clamp(score)
}

// ComputeComposite folds the category scores into one weighted figure.
// Inflation and risk contribute inverted, since high values of either
// are undesirable.
func (s *Scorer) ComputeComposite(scores types.MacroScores) float64 {
	weights := s.cfg.ScoringWeights

	return scores.Growth*weights.GrowthWeight() +
		(100-scores.Inflation)*weights.InflationWeight() +
		scores.Liquidity*weights.LiquidityWeight() +
		scores.Sentiment*weights.SentimentWeight() +
		(100-scores.Risk)*weights.RiskWeight()
}

// DetectRegime classifies scores into a regime, evaluated in fixed
// priority order: Overheating, then Expansion, then Recession, with
// Slowdown as the default.
func (s *Scorer) DetectRegime(scores types.MacroScores) types.Regime {
	thresholds := s.cfg.RegimeThresholds

	if scores.Growth >= thresholds.Overheating.GrowthMin() && scores.Inflation >= thresholds.Overheating.InflationFloor() {
		return types.RegimeOverheating
	}

	if scores.Growth >= thresholds.Expansion.GrowthMin() && scores.Inflation < thresholds.Expansion.InflationCeiling() {
		return types.RegimeExpansion
	}

	if scores.Growth < thresholds.Slowdown.GrowthFloor() || scores.Risk >= recessionRiskMin {
		return types.RegimeRecession
	}

	return types.RegimeSlowdown
}

// AllocationFor looks up the configured allocation for a regime. An
// unconfigured regime yields an all-zero allocation.
func (s *Scorer) AllocationFor(regime types.Regime) types.Allocation {
	return s.cfg.AllocationFor(regime)
}

// Clamp clamps a score to the [0, 100] range.
func Clamp(value float64) float64 {
	return math.Max(0, math.Min(100, value))
}

// present returns the series when it exists and is non-nil. Absent
// series are skipped silently by every scoring rule.
func present(data map[string]*types.EconomicSeries, id string) *types.EconomicSeries {
	return data[id]
}
