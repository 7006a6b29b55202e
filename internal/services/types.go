// internal/services/types.go
// Tipe data inti pipeline decline-curve analysis (DCA)

package services

import (
	"database/sql"
	"time"
)

// Stream adalah aliran fluida yang dilacak per sumur.
type Stream string

const (
	StreamOil   Stream = "OIL"
	StreamGas   Stream = "GAS"
	StreamWater Stream = "WATER"
	StreamGOR   Stream = "GAS/OIL"
)

// ProductionRecord = satu observasi produksi (nilai null disimpan sebagai Valid=false).
type ProductionRecord struct {
	WellID string
	Date   time.Time
	Oil    sql.NullFloat64
	Gas    sql.NullFloat64
	Water  sql.NullFloat64
}

// Value mengambil nilai stream secara eksplisit by name (bukan posisi kolom).
func (r ProductionRecord) Value(s Stream) sql.NullFloat64 {
	switch s {
	case StreamOil:
		return r.Oil
	case StreamGas:
		return r.Gas
	case StreamWater:
		return r.Water
	}
	return sql.NullFloat64{}
}

type SeriesPoint struct {
	Date       time.Time `json:"date"`
	DaysOnline int       `json:"days_online"`
	Rate       float64   `json:"rate"`
}

// ConditionedSeries: deret bersih (rate > 0) dengan sumbu waktu hari sejak first online.
type ConditionedSeries struct {
	WellID      string        `json:"well_id"`
	Stream      Stream        `json:"stream"`
	FirstOnline time.Time     `json:"first_online"`
	Points      []SeriesPoint `json:"points"`
}

func (s ConditionedSeries) Len() int { return len(s.Points) }

func (s ConditionedSeries) Days() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = float64(p.DaysOnline)
	}
	return out
}

func (s ConditionedSeries) Rates() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Rate
	}
	return out
}

// Tail mengembalikan n titik terakhir (paling baru). n >= Len -> salinan utuh.
func (s ConditionedSeries) Tail(n int) ConditionedSeries {
	out := s
	if n < 0 {
		n = 0
	}
	if n >= len(s.Points) {
		out.Points = append([]SeriesPoint(nil), s.Points...)
		return out
	}
	out.Points = append([]SeriesPoint(nil), s.Points[len(s.Points)-n:]...)
	return out
}

type FitStatus string

const (
	FitStatusFitted   FitStatus = "fitted"
	FitStatusSentinel FitStatus = "sentinel"
	FitStatusDiverged FitStatus = "diverged"
)

// Nilai fallback saat data < 2 titik: tidak ada fitting sama sekali.
const (
	SentinelQi         = 100.0
	SentinelDi         = 1.0
	SentinelAnnualized = 1.0
)

type FitResult struct {
	Stream            Stream    `json:"stream"`
	Qi                float64   `json:"qi"`
	DiInstantaneous   float64   `json:"di_instantaneous"`
	AnnualizedDecline float64   `json:"annualized_decline"`
	B                 float64   `json:"b"`
	Status            FitStatus `json:"status"`
	Err               error     `json:"-"`
	Error             string    `json:"error,omitempty"`

	Points      int       `json:"points"`
	FitPoints   int       `json:"fit_points"`
	QiEstimate  float64   `json:"qi_estimate,omitempty"`
	Bounds      FitBounds `json:"bounds"`
	SSR         float64   `json:"ssr,omitempty"`
	Iterations  int       `json:"iterations,omitempty"`
	Correlation float64   `json:"correlation,omitempty"`
}

// SentinelResult membentuk FitResult fallback (100, 1, 1).
func SentinelResult(stream Stream, points int) FitResult {
	return FitResult{
		Stream:            stream,
		Qi:                SentinelQi,
		DiInstantaneous:   SentinelDi,
		AnnualizedDecline: SentinelAnnualized,
		Status:            FitStatusSentinel,
		Points:            points,
	}
}

// StreamFit = hasil fit + deret lengkap + kurva fitted (untuk plotting/report).
type StreamFit struct {
	Result   FitResult         `json:"result"`
	Series   ConditionedSeries `json:"series"`
	Fitted   []float64         `json:"fitted,omitempty"`
	Variance []Variance        `json:"variance,omitempty"`
}

type GORSummary struct {
	Average float64 `json:"average"`
	Shifted float64 `json:"shifted"`
	Points  int     `json:"points"`
	Floor   bool    `json:"floor"`
}

type WellSummary struct {
	WellID      string     `json:"well_id"`
	FirstOnline time.Time  `json:"first_online"`
	Oil         StreamFit  `json:"oil"`
	Water       StreamFit  `json:"water"`
	GOR         GORSummary `json:"gor"`
}

// Fits mengembalikan hasil per stream yang di-fit (oil, water).
func (w WellSummary) Fits() []FitResult {
	return []FitResult{w.Oil.Result, w.Water.Result}
}

func (w WellSummary) HasSentinel() bool {
	for _, f := range w.Fits() {
		if f.Status == FitStatusSentinel {
			return true
		}
	}
	return false
}

func (w WellSummary) HasFailure() bool {
	for _, f := range w.Fits() {
		if f.Status == FitStatusDiverged {
			return true
		}
	}
	return false
}
