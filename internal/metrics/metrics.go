// internal/metrics/metrics.go
// Kolektor Prometheus untuk pipeline DCA

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WellsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dca",
		Name:      "wells_processed_total",
		Help:      "Jumlah sumur yang selesai diproses WellProcessor.",
	})

	FitOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dca",
		Name:      "fit_outcomes_total",
		Help:      "Hasil fit per stream (fitted|sentinel|diverged).",
	}, []string{"stream", "status"})

	FitDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dca",
		Name:      "fit_duration_seconds",
		Help:      "Durasi satu curve fit.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
	}, []string{"stream"})

	TemplateWarnings = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dca",
		Name:      "template_warnings_total",
		Help:      "Baris model ekonomi yang tidak ditemukan / tidak bisa di-parse.",
	}, []string{"keyword"})

	Runs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dca",
		Name:      "population_runs_total",
		Help:      "Jumlah population run per trigger (api|worker|cli).",
	}, []string{"trigger"})
)
