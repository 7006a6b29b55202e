package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForecastFromLastDay(t *testing.T) {
	m := NewHyperbolic(DefaultB)
	r := FitResult{Qi: 1000, DiInstantaneous: 0.01}
	pts := Forecast(m, r, 300, 90, 30)
	require.Len(t, pts, 4)
	assert.Equal(t, 300, pts[0].DaysOnline)
	assert.Equal(t, 390, pts[3].DaysOnline)
	assert.InDelta(t, m.Rate(300, 1000, 0.01), pts[0].Rate, 1e-9)
}

func TestForecastBoundsPointCount(t *testing.T) {
	m := NewHyperbolic(DefaultB)
	r := FitResult{Qi: 1000, DiInstantaneous: 0.01}

	pts := Forecast(m, r, 0, 2_000_000_000, 1)
	assert.LessOrEqual(t, len(pts), MaxForecastPoints)
	assert.LessOrEqual(t, pts[len(pts)-1].DaysOnline, MaxForecastDays)

	assert.Len(t, Forecast(m, r, 10, -1, 30), 1, "horizon negatif = titik awal saja")
}
