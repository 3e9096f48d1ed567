package types

import "time"

// EconomicSeries holds one named macroeconomic time series as parallel
// date/value slices, ascending by date. Missing observations are dropped
// at load time rather than null-filled, so the series may be sparse.
type EconomicSeries struct {
	// SeriesID is the provider identifier, e.g. "UNRATE" or "FEDFUNDS".
	SeriesID string

	Dates  []time.Time
	Values []float64
}

// Len returns the number of observations.
func (e *EconomicSeries) Len() int {
	return len(e.Values)
}

// SentimentSnapshot is the current fear & greed reading plus optional
// historical observations.
type SentimentSnapshot struct {
	// Score is the current index value in [0, 100].
	Score float64
	// Rating is the categorical label, e.g. "Fear" or "Extreme Greed".
	Rating string

	PreviousClose float64
	PreviousWeek  float64
	PreviousMonth float64
	PreviousYear  float64

	// Historical observations, parallel slices. May be empty.
	Timestamps []time.Time
	Scores     []float64
	Ratings    []string
}
