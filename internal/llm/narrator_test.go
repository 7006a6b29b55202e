package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dca-oilgas/internal/services"
)

type fakeChat struct {
	got  openai.ChatCompletionRequest
	resp openai.ChatCompletionResponse
	err  error
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.got = req
	return f.resp, f.err
}

func summary() services.WellSummary {
	return services.WellSummary{
		WellID:      "W7",
		FirstOnline: time.Date(2018, 4, 1, 0, 0, 0, 0, time.UTC),
		Oil: services.StreamFit{Result: services.FitResult{
			Stream: services.StreamOil, Status: services.FitStatusFitted, Qi: 3100, DiInstantaneous: 0.01,
			AnnualizedDecline: 0.65, B: 1.2, Points: 30, FitPoints: 15, Correlation: 0.98,
		}},
		Water: services.StreamFit{Result: services.SentinelResult(services.StreamWater, 1)},
		GOR:   services.GORSummary{Floor: true},
	}
}

func TestPrompt(t *testing.T) {
	p := Prompt(summary())
	assert.Contains(t, p, "Well W7, first online 2018-04.")
	assert.Contains(t, p, "annual decline 65.0%")
	assert.Contains(t, p, "(100.0/day)")
	assert.Contains(t, p, "WATER: only 1 points")
	assert.Contains(t, p, "floor value used")
}

func TestCommentary(t *testing.T) {
	fake := &fakeChat{resp: openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{
		{Message: openai.ChatCompletionMessage{Content: "  Steep early decline.  "}},
	}}}
	n := NewWithAPI(fake, "", 0)

	out, err := n.Commentary(context.Background(), summary())
	require.NoError(t, err)
	assert.Equal(t, "Steep early decline.", out)
	assert.Equal(t, "gpt-4o-mini", fake.got.Model)
	require.Len(t, fake.got.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, fake.got.Messages[0].Role)
}

func TestCommentaryErrors(t *testing.T) {
	n := NewWithAPI(&fakeChat{err: errors.New("boom")}, "m", time.Second)
	_, err := n.Commentary(context.Background(), summary())
	require.Error(t, err)

	n = NewWithAPI(&fakeChat{}, "m", time.Second)
	_, err = n.Commentary(context.Background(), summary())
	require.Error(t, err)

	_, err = NewOpenAI(" ", "", "", 0)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
