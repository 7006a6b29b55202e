// internal/services/well_processor.go
// Orkestrasi per sumur: conditioning -> estimasi qi -> fit -> konversi decline

package services

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"dca-oilgas/internal/metrics"
)

// WellProcessor tidak menyimpan state antar sumur; aman dipakai paralel.
type WellProcessor struct {
	Policy    Policy
	Model     DeclineModel
	Fitter    *CurveFitter
	Converter DeclineRateConverter
	Log       *zap.Logger
}

func NewWellProcessor(p Policy, maxIter int, log *zap.Logger) *WellProcessor {
	if log == nil {
		log = zap.NewNop()
	}
	return &WellProcessor{
		Policy:    p,
		Model:     NewHyperbolic(p.B),
		Fitter:    NewCurveFitter(maxIter),
		Converter: NewDeclineRateConverter(p.B),
		Log:       log,
	}
}

// Process menjalankan OIL -> GOR -> WATER untuk satu sumur.
func (wp *WellProcessor) Process(wellID string, records []ProductionRecord) WellSummary {
	first := FirstOnline(records)
	ws := WellSummary{WellID: wellID, FirstOnline: first}

	oil := Condition(records, StreamOil, first)
	oil.WellID = wellID
	ws.Oil = wp.fitStream(oil)

	gor := ConditionGOR(records, first)
	gor.WellID = wellID
	ws.GOR = wp.SummarizeGOR(gor)

	water := Condition(records, StreamWater, first)
	water.WellID = wellID
	ws.Water = wp.fitStream(water)

	metrics.WellsProcessed.Inc()
	return ws
}

func (wp *WellProcessor) fitStream(series ConditionedSeries) StreamFit {
	log := wp.Log.With(zap.String("well_id", series.WellID), zap.String("stream", string(series.Stream)))
	out := StreamFit{Series: series}

	if series.Len() < wp.Policy.MinPoints {
		log.Info("insufficient data, using sentinel", zap.Int("points", series.Len()))
		out.Result = SentinelResult(series.Stream, series.Len())
		out.Result.B = wp.Converter.B
		metrics.FitOutcomes.WithLabelValues(string(series.Stream), string(FitStatusSentinel)).Inc()
		return out
	}

	qiEst, err := EstimateInitialRate(series, wp.Policy.EstimateWindow)
	if errors.Is(err, ErrInsufficientData) {
		log.Info("insufficient data, using sentinel", zap.Error(err))
		out.Result = SentinelResult(series.Stream, series.Len())
		out.Result.B = wp.Converter.B
		metrics.FitOutcomes.WithLabelValues(string(series.Stream), string(FitStatusSentinel)).Inc()
		return out
	}

	sp := wp.Policy.ForStream(series.Stream)
	trimmed := TrimForFit(series, sp)
	bounds := sp.Bounds(qiEst)

	res := FitResult{
		Stream:     series.Stream,
		B:          wp.Converter.B,
		Points:     series.Len(),
		FitPoints:  trimmed.Len(),
		QiEstimate: qiEst,
		Bounds:     bounds,
	}

	start := time.Now()
	qi, di, st, err := wp.Fitter.Fit(wp.Model, trimmed.Days(), trimmed.Rates(), bounds)
	metrics.FitDuration.WithLabelValues(string(series.Stream)).Observe(time.Since(start).Seconds())
	if err != nil {
		log.Warn("curve fit failed", zap.Error(err), zap.Float64("qi_estimate", qiEst))
		res.Status = FitStatusDiverged
		res.Err = err
		res.Error = err.Error()
		out.Result = res
		metrics.FitOutcomes.WithLabelValues(string(series.Stream), string(FitStatusDiverged)).Inc()
		return out
	}

	res.Status = FitStatusFitted
	res.Qi = qi
	res.DiInstantaneous = di
	res.AnnualizedDecline = wp.Converter.ToAnnualized(qi, di)
	res.SSR = st.SSR
	res.Iterations = st.Iterations

	out.Fitted = Rates(wp.Model, series.Days(), qi, di)
	out.Variance = VarianceSeries(series, out.Fitted)
	if r, err := PearsonCorrelation(series.Rates(), out.Fitted); err == nil {
		res.Correlation = r
	}
	out.Result = res

	log.Debug("curve fitted",
		zap.Float64("qi", qi),
		zap.Float64("di", di),
		zap.Float64("annualized", res.AnnualizedDecline),
		zap.Int("iterations", st.Iterations))
	metrics.FitOutcomes.WithLabelValues(string(series.Stream), string(FitStatusFitted)).Inc()
	return out
}

// SummarizeGOR: rata-rata GOR pada window terakhir (atau floor bila tidak ada data gas).
func (wp *WellProcessor) SummarizeGOR(series ConditionedSeries) GORSummary {
	g := wp.Policy.GOR
	if series.Len() == 0 {
		return GORSummary{
			Average: g.Floor / g.Scale,
			Shifted: (g.Floor + g.Offset) / g.Scale,
			Floor:   true,
		}
	}
	window := series.Tail(g.Window)
	mean := stat.Mean(window.Rates(), nil)
	return GORSummary{
		Average: mean / g.Scale,
		Shifted: (mean + g.Offset) / g.Scale,
		Points:  window.Len(),
	}
}
