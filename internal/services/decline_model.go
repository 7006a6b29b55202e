// internal/services/decline_model.go
// Model decline parametrik (hyperbolic & exponential), fungsi murni

package services

import "math"

// DefaultB: shape factor hyperbolic, tetap (tidak ikut di-fit).
const DefaultB = 1.2

type DeclineModel interface {
	Name() string
	Rate(t, qi, di float64) float64
}

// HyperbolicModel: q(t) = qi / (1 + b*di*t)^(1/b)
type HyperbolicModel struct {
	B float64
}

func NewHyperbolic(b float64) HyperbolicModel {
	if b <= 0 || math.IsNaN(b) {
		b = DefaultB
	}
	return HyperbolicModel{B: b}
}

func (m HyperbolicModel) Name() string { return "hyperbolic" }

func (m HyperbolicModel) Rate(t, qi, di float64) float64 {
	return qi / math.Pow(1+m.B*di*t, 1/m.B)
}

// ExponentialModel: q(t) = qi * exp(-di*t)
type ExponentialModel struct{}

func (ExponentialModel) Name() string { return "exponential" }

func (ExponentialModel) Rate(t, qi, di float64) float64 {
	return qi * math.Exp(-di*t)
}

// Rates mengevaluasi model untuk seluruh t.
func Rates(m DeclineModel, t []float64, qi, di float64) []float64 {
	out := make([]float64, len(t))
	for i, x := range t {
		out[i] = m.Rate(x, qi, di)
	}
	return out
}
