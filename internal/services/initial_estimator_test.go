package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateInitialRateUsesFirstWindow(t *testing.T) {
	cs := ConditionedSeries{Points: []SeriesPoint{
		{DaysOnline: 120, Rate: 5000}, // di luar window 4 titik pertama
		{DaysOnline: 0, Rate: 700},
		{DaysOnline: 30, Rate: 1200},
		{DaysOnline: 60, Rate: 1100},
		{DaysOnline: 90, Rate: 900},
	}}
	qi, err := EstimateInitialRate(cs, 4)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, qi)
}

func TestEstimateInitialRateShortWindow(t *testing.T) {
	cs := ConditionedSeries{Points: []SeriesPoint{{DaysOnline: 0, Rate: 10}, {DaysOnline: 30, Rate: 20}}}
	qi, err := EstimateInitialRate(cs, 4)
	require.NoError(t, err)
	assert.Equal(t, 20.0, qi)
}

func TestEstimateInitialRateInsufficient(t *testing.T) {
	_, err := EstimateInitialRate(ConditionedSeries{Points: []SeriesPoint{{Rate: 10}}}, 4)
	assert.True(t, errors.Is(err, ErrInsufficientData))
}
