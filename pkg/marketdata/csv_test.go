package marketdata

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/stretchr/testify/suite"
)

type CSVTestSuite struct {
	suite.Suite
}

func TestCSVSuite(t *testing.T) {
	suite.Run(t, new(CSVTestSuite))
}

func (suite *CSVTestSuite) TestRoundTrip() {
	dir := suite.T().TempDir()
	path := filepath.Join(dir, "bars.csv")

	original := types.NewPriceSeriesFromBars("TEST", []types.MarketData{
		{Time: time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC), Open: 100, High: 102, Low: 99, Close: 101, Volume: 5000},
		{Time: time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC), Open: 101, High: 104, Low: 100, Close: 103, Volume: 6000},
	})

	suite.Require().NoError(WritePriceSeriesCSV(path, original))

	loaded, err := LoadPriceSeriesCSV(path, "TEST")
	suite.Require().NoError(err)

	suite.Equal("TEST", loaded.Ticker)
	suite.Equal(original.Close, loaded.Close)
	suite.Equal(original.Open, loaded.Open)
	suite.Equal(original.Volume, loaded.Volume)
	suite.True(original.Timestamps[0].Equal(loaded.Timestamps[0]))
}

func (suite *CSVTestSuite) TestLoadDateOnlyFormat() {
	dir := suite.T().TempDir()
	path := filepath.Join(dir, "bars.csv")

	csvDoc := "time,open,high,low,close,volume\n" +
		"2024-01-02,100,102,99,101,5000\n" +
		"2024-01-03,101,104,100,103,6000\n"

	suite.Require().NoError(os.WriteFile(path, []byte(csvDoc), 0644))

	loaded, err := LoadPriceSeriesCSV(path, "TEST")
	suite.Require().NoError(err)

	suite.Equal(2, loaded.Len())
	suite.Equal([]float64{101, 103}, loaded.Close)
	suite.Equal(time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC), loaded.Timestamps[0])
}

func (suite *CSVTestSuite) TestLoadMissingFile() {
	_, err := LoadPriceSeriesCSV("/nonexistent/bars.csv", "TEST")
	suite.Error(err)
}

func (suite *CSVTestSuite) TestLoadBadTimestamp() {
	dir := suite.T().TempDir()
	path := filepath.Join(dir, "bars.csv")

	csvDoc := "time,open,high,low,close,volume\n" +
		"yesterday,100,102,99,101,5000\n"

	suite.Require().NoError(os.WriteFile(path, []byte(csvDoc), 0644))

	_, err := LoadPriceSeriesCSV(path, "TEST")
	suite.Error(err)
}
