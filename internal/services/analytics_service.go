// internal/services/analytics_service.go
// Analitik kualitas fit: korelasi aktual vs fitted & outlier residual (z-score)

package services

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

type Anomaly struct {
	WellID     string  `json:"well_id"`
	Stream     Stream  `json:"stream"`
	DaysOnline int     `json:"days_online"`
	Residual   float64 `json:"residual"`
	ZScore     float64 `json:"z_score"`
}

// ResidualAnomalies menandai titik dengan residual |z| >= minZ (mean & stddev populasi).
func ResidualAnomalies(sf StreamFit, minZ float64) ([]Anomaly, error) {
	if len(sf.Fitted) == 0 || len(sf.Fitted) != sf.Series.Len() {
		return nil, errors.New("no fitted curve")
	}
	res := make([]float64, sf.Series.Len())
	for i, p := range sf.Series.Points {
		res[i] = p.Rate - sf.Fitted[i]
	}
	mean, std := stat.PopMeanStdDev(res, nil)
	if std == 0 || math.IsNaN(std) {
		return []Anomaly{}, nil
	}

	var out []Anomaly
	for i, p := range sf.Series.Points {
		z := (res[i] - mean) / std
		if math.Abs(z) >= minZ {
			out = append(out, Anomaly{
				WellID:     sf.Series.WellID,
				Stream:     sf.Series.Stream,
				DaysOnline: p.DaysOnline,
				Residual:   res[i],
				ZScore:     z,
			})
		}
	}
	return out, nil
}

// PearsonCorrelation antara aktual dan fitted (berdasarkan index sejajar).
func PearsonCorrelation(a, b []float64) (float64, error) {
	n := min(len(a), len(b))
	if n < 2 {
		return 0, errors.New("insufficient points for correlation")
	}
	r := stat.Correlation(a[:n], b[:n], nil)
	if math.IsNaN(r) {
		// salah satu deret konstan
		return 0, nil
	}
	return r, nil
}
