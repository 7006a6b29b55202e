// internal/services/initial_estimator.go
// Estimasi qi awal: rate maksimum di N periode pertama

package services

import (
	"fmt"
	"sort"
)

// EstimateInitialRate mengurutkan deret by waktu lalu mengambil max rate
// dari firstN titik pertama. Hasilnya jangkar bounds qi, bukan tebakan awal.
func EstimateInitialRate(series ConditionedSeries, firstN int) (float64, error) {
	if series.Len() < 2 {
		return 0, fmt.Errorf("%s %s: %d points: %w", series.WellID, series.Stream, series.Len(), ErrInsufficientData)
	}
	if firstN <= 0 {
		firstN = 1
	}
	pts := append([]SeriesPoint(nil), series.Points...)
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].DaysOnline < pts[j].DaysOnline })
	if firstN > len(pts) {
		firstN = len(pts)
	}
	best := pts[0].Rate
	for _, p := range pts[1:firstN] {
		if p.Rate > best {
			best = p.Rate
		}
	}
	return best, nil
}
