// internal/services/production_service.go
// Perbandingan aktual vs forecast (kurva decline) per titik

package services

type Variance struct {
	DaysOnline int     `json:"days_online"`
	Value      float64 `json:"value"`   // actual - forecast
	DeltaP     float64 `json:"delta_p"` // % variance
}

// Batas proyeksi: 50 tahun, jumlah titik per stream.
const (
	MaxForecastDays   = 50 * 365
	MaxForecastPoints = 5000
)

// VarianceSeries menghitung selisih aktual vs forecast (array sejajar).
func VarianceSeries(series ConditionedSeries, forecast []float64) []Variance {
	n := min(series.Len(), len(forecast))
	out := make([]Variance, 0, n)
	for i := 0; i < n; i++ {
		a := series.Points[i].Rate
		f := forecast[i]
		d := a - f
		var p float64
		if f != 0 {
			p = d / f * 100.0
		}
		out = append(out, Variance{
			DaysOnline: series.Points[i].DaysOnline,
			Value:      d,
			DeltaP:     p,
		})
	}
	return out
}

// Forecast memproyeksikan rate bulanan ke depan dari hasil fit (horizon dalam hari).
func Forecast(m DeclineModel, r FitResult, fromDay, horizonDays, stepDays int) []SeriesPoint {
	if stepDays <= 0 {
		stepDays = 30
	}
	horizonDays = min(max(horizonDays, 0), MaxForecastDays)
	if horizonDays/stepDays+1 > MaxForecastPoints {
		stepDays = horizonDays/(MaxForecastPoints-1) + 1
	}
	out := make([]SeriesPoint, 0, horizonDays/stepDays+1)
	for d := fromDay; d <= fromDay+horizonDays; d += stepDays {
		out = append(out, SeriesPoint{DaysOnline: d, Rate: m.Rate(float64(d), r.Qi, r.DiInstantaneous)})
	}
	return out
}
