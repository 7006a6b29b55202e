// internal/services/curve_fitter.go
// Fitting nonlinear least-squares dengan bounds (qi, di), b tetap

package services

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// DefaultMaxIterations = batas iterasi solver per fit.
const DefaultMaxIterations = 5000

type FitBounds struct {
	QiMin float64 `json:"qi_min"`
	QiMax float64 `json:"qi_max"`
	DiMin float64 `json:"di_min"`
	DiMax float64 `json:"di_max"`
}

// Validate menolak bounds yang degenerate (mis. estimasi qi = 0).
func (b FitBounds) Validate() error {
	for _, v := range []float64{b.QiMin, b.QiMax, b.DiMin, b.DiMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite bound %v: %w", b, ErrFitDivergence)
		}
	}
	if b.QiMin <= 0 || b.DiMin <= 0 {
		return fmt.Errorf("non-positive lower bound qi=%g di=%g: %w", b.QiMin, b.DiMin, ErrFitDivergence)
	}
	if b.QiMin > b.QiMax || b.DiMin > b.DiMax {
		return fmt.Errorf("inverted bounds %+v: %w", b, ErrFitDivergence)
	}
	return nil
}

type FitStats struct {
	SSR         float64
	Iterations  int
	Evaluations int
}

// CurveFitter meminimalkan SSR model terhadap data pada ruang parameter
// yang ditransformasi (logistic untuk qi, log-logistic untuk di), sehingga
// solver tanpa bounds selalu berada di dalam kotak bounds.
type CurveFitter struct {
	MaxIterations int
}

func NewCurveFitter(maxIter int) *CurveFitter {
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	return &CurveFitter{MaxIterations: maxIter}
}

// TrimForFit: ambil porsi terbaru deret bila titik > TrimMinPoints.
func TrimForFit(series ConditionedSeries, p StreamPolicy) ConditionedSeries {
	n := series.Len()
	if n > p.TrimMinPoints {
		return series.Tail(int(float64(n) * p.TrimRatio))
	}
	return series.Tail(n)
}

func (f *CurveFitter) Fit(m DeclineModel, days, rates []float64, b FitBounds) (qi, di float64, st FitStats, err error) {
	if err = b.Validate(); err != nil {
		return 0, 0, st, err
	}
	if len(days) != len(rates) || len(days) == 0 {
		return 0, 0, st, fmt.Errorf("fit input mismatch (%d days, %d rates): %w", len(days), len(rates), ErrFitDivergence)
	}

	qiMap := linearMap(b.QiMin, b.QiMax)
	diMap := logMap(b.DiMin, b.DiMax)

	// skala objective supaya toleransi konvergensi tidak tergantung besaran rate
	ref := (b.QiMin + b.QiMax) / 2
	norm := float64(len(days)) * ref * ref

	ssr := func(q, d float64) float64 {
		var s float64
		for i, t := range days {
			r := rates[i] - m.Rate(t, q, d)
			s += r * r
		}
		return s
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			v := ssr(qiMap(x[0]), diMap(x[1])) / norm
			if math.IsNaN(v) {
				return math.Inf(1)
			}
			return v
		},
	}
	settings := &optimize.Settings{
		MajorIterations: f.MaxIterations,
		FuncEvaluations: 4 * f.MaxIterations,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-14,
			Relative:   1e-10,
			Iterations: 50,
		},
	}

	res, err := optimize.Minimize(problem, []float64{0, 0}, settings, &optimize.NelderMead{})
	if err != nil {
		return 0, 0, st, fmt.Errorf("solver: %v: %w", err, ErrFitDivergence)
	}
	if res == nil {
		return 0, 0, st, fmt.Errorf("solver returned no result: %w", ErrFitDivergence)
	}
	switch res.Status {
	case optimize.Success, optimize.FunctionConvergence, optimize.MethodConverge,
		optimize.FunctionThreshold, optimize.GradientThreshold, optimize.StepConvergence:
	default:
		return 0, 0, st, fmt.Errorf("solver status %v after %d iterations: %w", res.Status, res.Stats.MajorIterations, ErrFitDivergence)
	}

	qi, di = qiMap(res.X[0]), diMap(res.X[1])
	st = FitStats{
		SSR:         ssr(qi, di),
		Iterations:  res.Stats.MajorIterations,
		Evaluations: res.Stats.FuncEvaluations,
	}
	if math.IsNaN(st.SSR) || math.IsInf(st.SSR, 0) || math.IsNaN(qi) || math.IsNaN(di) {
		return 0, 0, st, fmt.Errorf("non-finite fit (qi=%g di=%g): %w", qi, di, ErrFitDivergence)
	}
	return qi, di, st, nil
}

func logistic(z float64) float64 { return 1 / (1 + math.Exp(-z)) }

func linearMap(lo, hi float64) func(float64) float64 {
	return func(z float64) float64 {
		return math.Min(math.Max(lo+(hi-lo)*logistic(z), lo), hi)
	}
}

func logMap(lo, hi float64) func(float64) float64 {
	llo, lhi := math.Log(lo), math.Log(hi)
	return func(z float64) float64 {
		v := math.Exp(llo + (lhi-llo)*logistic(z))
		// jaga pembulatan di tepi kotak
		return math.Min(math.Max(v, lo), hi)
	}
}
