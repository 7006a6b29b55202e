package economic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dca-oilgas/internal/services"
)

func TestParseRateDecline(t *testing.T) {
	e, err := ParseRateDecline("1500 X B/D 6 EXP B/1.2 65.0")
	require.NoError(t, err)
	assert.Equal(t, "1500", e.Rate)
	assert.Equal(t, []string{"X", "B/D", "6", "EXP"}, e.Body)
	assert.Equal(t, "B/1.2", e.Shape)
	assert.Equal(t, "65.0", e.Decline)
	assert.Empty(t, e.Suffix)
	assert.Equal(t, "1500 X B/D 6 EXP B/1.2 65.0", e.String())
}

func TestParseRateDeclineKeepsSuffixAndPrefix(t *testing.T) {
	e, err := ParseRateDecline("LEGACY  820   X B/D 6 EXP B/1.2 40 TO LIFE")
	require.NoError(t, err)
	assert.Equal(t, []string{"LEGACY"}, e.Prefix)
	assert.Equal(t, []string{"TO", "LIFE"}, e.Suffix)

	out := e.Apply(services.FitResult{Qi: 3100, AnnualizedDecline: 0.4567, B: 1.2}).String()
	assert.Equal(t, "LEGACY 100 X B/D 6 EXP B/1.2 45.7 TO LIFE", out)
}

func TestParseRateDeclineRejectsUnknownFormat(t *testing.T) {
	for _, s := range []string{"", "1500 B/D 6 EXP B/1.2 65", "1500 X B/D 6 EXP"} {
		_, err := ParseRateDecline(s)
		assert.True(t, errors.Is(err, ErrTemplateFormat), "%q", s)
	}
}

func TestRateDeclineShapeFollowsB(t *testing.T) {
	e, err := ParseRateDecline("10 X B/D 6 EXP B/1.2 10")
	require.NoError(t, err)
	out := e.Apply(services.FitResult{Qi: 310, AnnualizedDecline: 0.5, B: 0.9})
	assert.Equal(t, "10 X B/D 6 EXP B/0.9 50.0", out.String())
}

func TestParseGOR(t *testing.T) {
	e, err := ParseGOR("1.25 1.30 M/B 12 MO LIN TIME")
	require.NoError(t, err)
	assert.Equal(t, "1.25", e.Start)
	assert.Equal(t, "1.30", e.End)

	out := e.Apply(services.GORSummary{Average: 0.8765}).String()
	assert.Equal(t, "0.88 0.88 M/B 12 MO LIN TIME", out)

	_, err = ParseGOR("1.2 1.3 B/M")
	assert.True(t, errors.Is(err, ErrTemplateFormat))
}

func TestTokens(t *testing.T) {
	assert.Equal(t, "3", RateToken(services.SentinelQi))
	assert.Equal(t, "100.0", DeclineToken(services.SentinelAnnualized))
	assert.Equal(t, "0.00", GORToken(0.01/1000))
	assert.Equal(t, "B/1.2", ShapeToken(1.2))
	assert.Equal(t, "32", RateToken(999.9))
}
