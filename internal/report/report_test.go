package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"dca-oilgas/internal/services"
)

func fitted(stream services.Stream, qi, annual float64) services.StreamFit {
	return services.StreamFit{
		Result: services.FitResult{Stream: stream, Status: services.FitStatusFitted, Qi: qi, AnnualizedDecline: annual, B: 1.2},
		Series: services.ConditionedSeries{Stream: stream, Points: []services.SeriesPoint{
			{DaysOnline: 0, Rate: qi}, {DaysOnline: 31, Rate: qi * 0.9},
		}},
		Fitted: []float64{qi, qi * 0.91},
	}
}

func TestTitle(t *testing.T) {
	r := services.FitResult{Qi: 3131, AnnualizedDecline: 0.6789}
	assert.Equal(t, "W1 Qi=101 Di=67", Title("W1", r))
}

func TestBuild(t *testing.T) {
	sums := []services.WellSummary{
		{WellID: "A", Oil: fitted(services.StreamOil, 3100, 0.5), Water: fitted(services.StreamWater, 310, 0.2)},
		{WellID: "B", Oil: services.StreamFit{Result: services.SentinelResult(services.StreamOil, 1)},
			Water: services.StreamFit{Result: services.SentinelResult(services.StreamWater, 0)}},
		{WellID: "C", Oil: services.StreamFit{Result: services.FitResult{Stream: services.StreamOil, Status: services.FitStatusDiverged}},
			Water: fitted(services.StreamWater, 62, 0.1)},
	}
	rep := Build(sums)

	require.Len(t, rep.Pages, 3)
	assert.Equal(t, "A Qi=100 Di=50", rep.Pages[0].Title)
	assert.Equal(t, services.StreamWater, rep.Pages[1].Stream)
	assert.Equal(t, "C", rep.Pages[2].WellID)

	// histogram: A (fitted) + B (sentinel), C diverged dilewati
	assert.Equal(t, []float64{50, 100}, rep.Decline.Values)
	assert.Equal(t, []float64{100, 3}, rep.Rate.Values)
	require.Len(t, rep.Decline.Bins, BinCount)
	total := 0
	for _, b := range rep.Decline.Bins {
		total += b.Count
	}
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, rep.Decline.Bins[0].Count)
	assert.Equal(t, 1, rep.Decline.Bins[BinCount-1].Count)
}

func TestHistogramDegenerateRange(t *testing.T) {
	h := NewHistogram("x", []float64{7, 7, 7}, 5)
	require.Len(t, h.Bins, 5)
	assert.InDelta(t, 6.5, h.Bins[0].Lo, 1e-12)
	assert.InDelta(t, 7.5, h.Bins[4].Hi, 1e-12)
	assert.Equal(t, 3, h.Bins[2].Count)

	empty := NewHistogram("x", nil, 5)
	assert.Empty(t, empty.Bins)
}

func TestHistogramMaxLandsInLastBin(t *testing.T) {
	h := NewHistogram("x", []float64{0, 1, 2, 3, 4, 5, 10}, 5)
	assert.Equal(t, []int{2, 2, 2, 0, 1}, counts(h))
}

func counts(h Histogram) []int {
	out := make([]int, len(h.Bins))
	for i, b := range h.Bins {
		out[i] = b.Count
	}
	return out
}

func TestWriteWorkbook(t *testing.T) {
	rep := Build([]services.WellSummary{
		{WellID: "A", Oil: fitted(services.StreamOil, 3100, 0.5), Water: fitted(services.StreamWater, 310, 0.2)},
	})
	path := filepath.Join(t.TempDir(), "Auto_Forecast.xlsx")
	require.NoError(t, WriteWorkbook(path, rep))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{SheetSummary, SheetSeries, SheetHistograms}, f.GetSheetList())

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, "A Qi=100 Di=50", summary[1][2])

	series, err := f.GetRows(SheetSeries)
	require.NoError(t, err)
	assert.Len(t, series, 1+4)

	hist, err := f.GetRows(SheetHistograms)
	require.NoError(t, err)
	assert.Len(t, hist, 1+2*BinCount)
}
