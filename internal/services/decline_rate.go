// internal/services/decline_rate.go
// Konversi decline instantaneous -> annual effective decline

package services

import "math"

// DaysPerYear = horizon konversi decline tahunan.
const DaysPerYear = 365.0

// DaysPerMonth dipakai model ekonomi untuk token rate (qi/31).
const DaysPerMonth = 31.0

type DeclineRateConverter struct {
	B float64
}

func NewDeclineRateConverter(b float64) DeclineRateConverter {
	if b <= 0 || math.IsNaN(b) {
		b = DefaultB
	}
	return DeclineRateConverter{B: b}
}

// ToAnnualized = (qi - q(365)) / qi untuk trajektori hyperbolic.
// qi saling meniadakan, jadi dihitung sebagai 1 - (1+b*di*365)^(-1/b) lewat log1p/expm1
// supaya stabil saat di -> 0 dan tidak pernah membagi dengan qi.
func (c DeclineRateConverter) ToAnnualized(qi, di float64) float64 {
	if di <= 0 || math.IsNaN(di) {
		return 0
	}
	d := -math.Expm1(-math.Log1p(c.B*di*DaysPerYear) / c.B)
	return clamp01(d)
}

// FromAnnualized adalah kebalikan ToAnnualized (annual effective -> di per hari).
func (c DeclineRateConverter) FromAnnualized(annual float64) float64 {
	if annual <= 0 || math.IsNaN(annual) {
		return 0
	}
	if annual >= 1 {
		return math.Inf(1)
	}
	// (1 - annual)^(-b) = 1 + b*di*365
	return math.Expm1(-c.B*math.Log1p(-annual)) / (c.B * DaysPerYear)
}

// MonthlyRate mengubah qi ke token rate model ekonomi.
func MonthlyRate(qi float64) float64 {
	return qi / DaysPerMonth
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
