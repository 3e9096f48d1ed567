package marketdata

import (
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// csvDateLayouts are tried in order when parsing the time column.
var csvDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type csvBar struct {
	Time   string  `csv:"time"`
	Open   float64 `csv:"open"`
	High   float64 `csv:"high"`
	Low    float64 `csv:"low"`
	Close  float64 `csv:"close"`
	Volume float64 `csv:"volume"`
}

// LoadPriceSeriesCSV reads an OHLCV CSV file into a PriceSeries. The
// file must carry a header with time, open, high, low, close and volume
// columns.
func LoadPriceSeriesCSV(path, ticker string) (*types.PriceSeries, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to open %s", path)
	}
	defer file.Close()

	var rows []*csvBar
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeParseFailed, err, "failed to parse %s", path)
	}

	bars := make([]types.MarketData, 0, len(rows))

	for _, row := range rows {
		ts, err := parseCSVTime(row.Time)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeParseFailed, err, "bad time %q in %s", row.Time, path)
		}

		bars = append(bars, types.MarketData{
			Time:   ts,
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
		})
	}

	return types.NewPriceSeriesFromBars(ticker, bars), nil
}

// WritePriceSeriesCSV writes a PriceSeries to an OHLCV CSV file.
func WritePriceSeriesCSV(path string, series *types.PriceSeries) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeUnexpectedState, err, "failed to create %s", path)
	}
	defer file.Close()

	rows := make([]*csvBar, 0, series.Len())

	for i := 0; i < series.Len(); i++ {
		bar := series.Bar(i)
		rows = append(rows, &csvBar{
			Time:   bar.Time.UTC().Format(time.RFC3339),
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: bar.Volume,
		})
	}

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return errors.Wrapf(errors.ErrCodeParseFailed, err, "failed to write %s", path)
	}

	return nil
}

func parseCSVTime(value string) (time.Time, error) {
	var lastErr error

	for _, layout := range csvDateLayouts {
		ts, err := time.Parse(layout, value)
		if err == nil {
			return ts.UTC(), nil
		}

		lastErr = err
	}

	return time.Time{}, lastErr
}
