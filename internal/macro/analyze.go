package macro

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/rxtech-lab/argo-quant/pkg/marketdata"
	"go.uber.org/zap"
)

// defaultLookbackYears is how much history an analysis pulls per series.
// Scoring only reads the last two observations, but the longer window
// survives sparse series and revisions.
const defaultLookbackYears = 5

// Analysis is one full live macro evaluation: the scores, the detected
// regime and the allocation it maps to.
type Analysis struct {
	// ID uniquely identifies this analysis run.
	ID string `yaml:"id" json:"id"`
	// GeneratedAt is when the analysis was produced.
	GeneratedAt time.Time `yaml:"generated_at" json:"generated_at"`

	Scores types.MacroScores `yaml:"scores" json:"scores"`
	Regime types.Regime      `yaml:"regime" json:"regime"`
	Alloc  types.Allocation  `yaml:"allocation" json:"allocation"`

	// SeriesUsed lists the series that were actually fetched; absent
	// series degrade the scores toward neutral rather than failing.
	SeriesUsed []string `yaml:"series_used" json:"series_used"`
	// SentimentIncluded reports whether a fear/greed reading entered the
	// sentiment score.
	SentimentIncluded bool `yaml:"sentiment_included" json:"sentiment_included"`
}

// Analyzer runs live macro analyses: it fetches the current economic
// series and sentiment snapshot, scores them and classifies the regime.
type Analyzer struct {
	scorer    *Scorer
	economic  marketdata.EconomicProvider
	sentiment marketdata.SentimentProvider
	log       *logger.Logger
}

// NewAnalyzer wires a scorer to its data providers. The sentiment
// provider may be nil; the analysis then runs without a fear/greed term.
func NewAnalyzer(scorer *Scorer, economic marketdata.EconomicProvider, sentiment marketdata.SentimentProvider, log *logger.Logger) *Analyzer {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Analyzer{
		scorer:    scorer,
		economic:  economic,
		sentiment: sentiment,
		log:       log,
	}
}

// Analyze fetches every scoring input and produces a full analysis. A
// series that fails to fetch is logged and skipped; the analysis fails
// only when no series could be fetched at all.
func (a *Analyzer) Analyze(ctx context.Context) (*Analysis, error) {
	now := time.Now().UTC()
	start := now.AddDate(-defaultLookbackYears, 0, 0)

	data := make(map[string]*types.EconomicSeries)
	used := make([]string, 0, len(AllSeriesIDs))

	for _, id := range AllSeriesIDs {
		series, err := a.economic.GetSeries(ctx, id, start, now, "m")
		if err != nil {
			a.log.Warn("Skipping series", zap.String("series_id", id), zap.Error(err))
			continue
		}

		if series.Len() == 0 {
			a.log.Warn("Series returned no observations", zap.String("series_id", id))
			continue
		}

		data[id] = series
		used = append(used, id)
	}

	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeMacroAnalysisFailed, "no economic series could be fetched")
	}

	sentiment := optional.None[types.SentimentSnapshot]()

	if a.sentiment != nil {
		snapshot, err := a.sentiment.GetSnapshot(ctx)
		if err != nil {
			a.log.Warn("Skipping fear and greed", zap.Error(err))
		} else {
			sentiment = optional.Some(*snapshot)
		}
	}

	scores := a.scorer.ComputeScores(data, sentiment)
	scores.Composite = a.scorer.ComputeComposite(scores)
	regime := a.scorer.DetectRegime(scores)

	analysis := &Analysis{
		ID:                uuid.NewString(),
		GeneratedAt:       now,
		Scores:            scores,
		Regime:            regime,
		Alloc:             a.scorer.AllocationFor(regime),
		SeriesUsed:        used,
		SentimentIncluded: sentiment.IsSome(),
	}

	a.log.Info("Macro analysis complete",
		zap.String("id", analysis.ID),
		zap.String("regime", string(regime)),
		zap.Float64("composite", scores.Composite),
		zap.Int("series_used", len(used)),
	)

	return analysis, nil
}
