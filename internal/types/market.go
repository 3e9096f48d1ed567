package types

import "time"

// MarketData represents a single OHLCV bar.
type MarketData struct {
	// Time is the bar timestamp.
	Time time.Time `csv:"time"`
	// Open is the opening price.
	Open float64 `csv:"open"`
	// High is the highest price.
	High float64 `csv:"high"`
	// Low is the lowest price.
	Low float64 `csv:"low"`
	// Close is the closing price.
	Close float64 `csv:"close"`
	// Volume is the traded volume.
	Volume float64 `csv:"volume"`
}

// PriceSeries holds the full historical series for one instrument as
// parallel slices. All slices have equal length and are chronologically
// ordered; the series is read-only to the analysis packages.
type PriceSeries struct {
	// Ticker is the instrument symbol, e.g. "SPY".
	Ticker string
	// Currency is the quote currency, e.g. "USD".
	Currency string
	// ExchangeName is the listing exchange, e.g. "NYSE".
	ExchangeName string
	// InstrumentType is the instrument class, e.g. "ETF".
	InstrumentType string

	Timestamps []time.Time
	Open       []float64
	High       []float64
	Low        []float64
	Close      []float64
	Volume     []float64
}

// Len returns the number of bars in the series.
func (p *PriceSeries) Len() int {
	return len(p.Close)
}

// Bar returns the i-th bar of the series.
func (p *PriceSeries) Bar(i int) MarketData {
	return MarketData{
		Time:   p.Timestamps[i],
		Open:   p.Open[i],
		High:   p.High[i],
		Low:    p.Low[i],
		Close:  p.Close[i],
		Volume: p.Volume[i],
	}
}

// NewPriceSeriesFromBars builds a PriceSeries from a slice of bars.
func NewPriceSeriesFromBars(ticker string, bars []MarketData) *PriceSeries {
	series := &PriceSeries{
		Ticker:     ticker,
		Timestamps: make([]time.Time, 0, len(bars)),
		Open:       make([]float64, 0, len(bars)),
		High:       make([]float64, 0, len(bars)),
		Low:        make([]float64, 0, len(bars)),
		Close:      make([]float64, 0, len(bars)),
		Volume:     make([]float64, 0, len(bars)),
	}

	for _, bar := range bars {
		series.Timestamps = append(series.Timestamps, bar.Time)
		series.Open = append(series.Open, bar.Open)
		series.High = append(series.High, bar.High)
		series.Low = append(series.Low, bar.Low)
		series.Close = append(series.Close, bar.Close)
		series.Volume = append(series.Volume, bar.Volume)
	}

	return series
}

// MonthlyReturns converts close prices into period-over-period returns
// (0.01 = 1%). The result has one fewer entry than the series; a bar
// with a non-positive previous close contributes a zero return.
func (p *PriceSeries) MonthlyReturns() []float64 {
	if p.Len() < 2 {
		return nil
	}

	returns := make([]float64, 0, p.Len()-1)

	for i := 1; i < p.Len(); i++ {
		if p.Close[i-1] > 0 {
			returns = append(returns, (p.Close[i]-p.Close[i-1])/p.Close[i-1])
		} else {
			returns = append(returns, 0)
		}
	}

	return returns
}

// ReturnDates returns the timestamps matching MonthlyReturns. The first
// bar is skipped since returns start from the second observation.
func (p *PriceSeries) ReturnDates() []time.Time {
	if len(p.Timestamps) < 2 {
		return nil
	}

	dates := make([]time.Time, 0, len(p.Timestamps)-1)
	dates = append(dates, p.Timestamps[1:]...)

	return dates
}
