package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func syntheticSeries(m DeclineModel, qi, di float64, n, step int) ConditionedSeries {
	cs := ConditionedSeries{WellID: "SYN", Stream: StreamOil}
	for i := 0; i < n; i++ {
		d := i * step
		cs.Points = append(cs.Points, SeriesPoint{DaysOnline: d, Rate: m.Rate(float64(d), qi, di)})
	}
	return cs
}

func TestFitRecoversHyperbolicParameters(t *testing.T) {
	m := NewHyperbolic(DefaultB)
	cs := syntheticSeries(m, 1000, 0.01, 24, 30)
	b := DefaultPolicy().Oil.Bounds(1000)

	qi, di, st, err := NewCurveFitter(0).Fit(m, cs.Days(), cs.Rates(), b)
	require.NoError(t, err)
	assert.InEpsilon(t, 1000, qi, 0.02)
	assert.InEpsilon(t, 0.01, di, 0.05)
	assert.Greater(t, st.Iterations, 0)
}

func TestFitStaysInsideBounds(t *testing.T) {
	m := NewHyperbolic(DefaultB)
	// data naik: optimum tanpa bounds di luar kotak
	days := []float64{0, 30, 60, 90}
	rates := []float64{100, 200, 300, 400}
	b := FitBounds{QiMin: 75, QiMax: 110, DiMin: 0.0001, DiMax: 100}

	qi, di, _, err := NewCurveFitter(0).Fit(m, days, rates, b)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, qi, b.QiMin)
	assert.LessOrEqual(t, qi, b.QiMax)
	assert.GreaterOrEqual(t, di, b.DiMin)
	assert.LessOrEqual(t, di, b.DiMax)
}

func TestFitDeterministic(t *testing.T) {
	m := NewHyperbolic(DefaultB)
	cs := syntheticSeries(m, 640, 0.03, 10, 31)
	cs.Points[3].Rate *= 1.1
	b := DefaultPolicy().Water.Bounds(640)

	f := NewCurveFitter(0)
	q1, d1, _, err1 := f.Fit(m, cs.Days(), cs.Rates(), b)
	q2, d2, _, err2 := f.Fit(m, cs.Days(), cs.Rates(), b)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, q1, q2)
	assert.Equal(t, d1, d2)
}

func TestFitRejectsDegenerateBounds(t *testing.T) {
	m := NewHyperbolic(DefaultB)
	days, rates := []float64{0, 30}, []float64{10, 9}

	cases := map[string]FitBounds{
		"zero qi estimate": DefaultPolicy().Oil.Bounds(0),
		"inverted":         {QiMin: 10, QiMax: 5, DiMin: 0.1, DiMax: 1},
		"non-positive di":  {QiMin: 1, QiMax: 5, DiMin: 0, DiMax: 1},
	}
	for name, b := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, _, err := NewCurveFitter(0).Fit(m, days, rates, b)
			assert.True(t, errors.Is(err, ErrFitDivergence), "got %v", err)
		})
	}
}

func TestFitIterationCapIsDivergence(t *testing.T) {
	m := NewHyperbolic(DefaultB)
	cs := syntheticSeries(m, 1000, 0.01, 12, 30)
	_, _, _, err := NewCurveFitter(1).Fit(m, cs.Days(), cs.Rates(), DefaultPolicy().Oil.Bounds(1000))
	assert.True(t, errors.Is(err, ErrFitDivergence), "got %v", err)
}

func TestTrimForFit(t *testing.T) {
	oil := DefaultPolicy().Oil
	water := DefaultPolicy().Water

	short := syntheticSeries(NewHyperbolic(DefaultB), 100, 0.01, 12, 30)
	assert.Equal(t, 12, TrimForFit(short, oil).Len())

	long := syntheticSeries(NewHyperbolic(DefaultB), 100, 0.01, 25, 30)
	trimmed := TrimForFit(long, oil)
	require.Equal(t, 12, trimmed.Len())
	assert.Equal(t, long.Points[13], trimmed.Points[0])

	assert.Equal(t, 5, TrimForFit(long, water).Len())
}
