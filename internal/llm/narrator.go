// internal/llm/narrator.go
// Narasi singkat hasil DCA satu sumur untuk engineer (opsional, butuh OpenAI)
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"dca-oilgas/internal/services"
)

var ErrNotConfigured = errors.New("llm not configured")

// Narrator menerjemahkan WellSummary menjadi komentar naratif.
type Narrator interface {
	Commentary(ctx context.Context, ws services.WellSummary) (string, error)
	Model() string
}

// ChatAPI = subset client go-openai yang dipakai (memudahkan fake di test).
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type OpenAINarrator struct {
	api     ChatAPI
	model   string
	timeout time.Duration
}

func NewOpenAI(apiKey, baseURL, model string, timeout time.Duration) (*OpenAINarrator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	cfg := openai.DefaultConfig(apiKey)
	if base := strings.TrimSpace(baseURL); base != "" {
		cfg.BaseURL = base
	}
	return NewWithAPI(openai.NewClientWithConfig(cfg), model, timeout), nil
}

func NewWithAPI(api ChatAPI, model string, timeout time.Duration) *OpenAINarrator {
	if model == "" {
		model = "gpt-4o-mini"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAINarrator{api: api, model: model, timeout: timeout}
}

func (n *OpenAINarrator) Model() string { return n.model }

const systemPrompt = `You are a petroleum reservoir engineer. Comment on a single well's decline-curve fit in at most 5 sentences.
Mention initial rate, annual decline, fit quality and any stream that fell back to default values or failed to fit.
Use only the numbers given. Do not invent data.`

func (n *OpenAINarrator) Commentary(ctx context.Context, ws services.WellSummary) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: n.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: Prompt(ws)},
		},
		Temperature: 0.2,
	}

	var cancel context.CancelFunc
	if _, ok := ctx.Deadline(); !ok {
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	resp, err := n.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Prompt merangkum hasil fit jadi teks ringkas (tanpa deret lengkap).
func Prompt(ws services.WellSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Well %s, first online %s.\n", ws.WellID, ws.FirstOnline.Format("2006-01"))
	for _, f := range ws.Fits() {
		switch f.Status {
		case services.FitStatusFitted:
			fmt.Fprintf(&b, "%s: fitted hyperbolic b=%.2f, qi=%.1f/month (%.1f/day), di=%.5f/day, annual decline %.1f%%, %d of %d points used, correlation %.3f.\n",
				f.Stream, f.B, f.Qi, f.Qi/services.DaysPerMonth, f.DiInstantaneous, f.AnnualizedDecline*100, f.FitPoints, f.Points, f.Correlation)
		case services.FitStatusSentinel:
			fmt.Fprintf(&b, "%s: only %d points, default values used (no fit).\n", f.Stream, f.Points)
		default:
			fmt.Fprintf(&b, "%s: fit failed (%s).\n", f.Stream, f.Error)
		}
	}
	if ws.GOR.Floor {
		fmt.Fprintf(&b, "GOR: no gas data, floor value used.\n")
	} else {
		fmt.Fprintf(&b, "GOR: average %.2f M/B over last %d points.\n", ws.GOR.Average, ws.GOR.Points)
	}
	return b.String()
}
