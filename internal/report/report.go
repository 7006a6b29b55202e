// internal/report/report.go
// Data laporan forecast: halaman per sumur (actual vs fitted) + histogram populasi
package report

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"dca-oilgas/internal/services"
)

const BinCount = 5

type Page struct {
	WellID string             `json:"well_id"`
	Stream services.Stream    `json:"stream"`
	Title  string             `json:"title"`
	Status services.FitStatus `json:"status"`
	Days   []float64          `json:"days"`
	Actual []float64          `json:"actual"`
	Fitted []float64          `json:"fitted"`
}

type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

type Histogram struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
	Bins   []Bin     `json:"bins"`
}

type Report struct {
	Pages   []Page    `json:"pages"`
	Decline Histogram `json:"decline"`
	Rate    Histogram `json:"rate"`
}

// Title: "<well> Qi=<qi/31> Di=<annual%>", keduanya dipotong ke integer.
func Title(wellID string, r services.FitResult) string {
	return fmt.Sprintf("%s Qi=%d Di=%d", wellID, int(r.Qi/services.DaysPerMonth), int(r.AnnualizedDecline*100))
}

// Build menyusun laporan dari ringkasan sumur. Halaman hanya untuk stream yang
// berhasil di-fit; histogram memakai hasil oil semua sumur kecuali yang diverged.
func Build(summaries []services.WellSummary) Report {
	var (
		rep      Report
		declines []float64
		rates    []float64
	)
	for _, ws := range summaries {
		for _, sf := range []services.StreamFit{ws.Oil, ws.Water} {
			if sf.Result.Status != services.FitStatusFitted {
				continue
			}
			rep.Pages = append(rep.Pages, Page{
				WellID: ws.WellID,
				Stream: sf.Result.Stream,
				Title:  Title(ws.WellID, sf.Result),
				Status: sf.Result.Status,
				Days:   sf.Series.Days(),
				Actual: sf.Series.Rates(),
				Fitted: append([]float64(nil), sf.Fitted...),
			})
		}
		if ws.Oil.Result.Status == services.FitStatusDiverged {
			continue
		}
		declines = append(declines, ws.Oil.Result.AnnualizedDecline*100)
		rates = append(rates, math.Trunc(ws.Oil.Result.Qi/services.DaysPerMonth))
	}
	rep.Decline = NewHistogram("oil annualized decline (%)", declines, BinCount)
	rep.Rate = NewHistogram("oil initial rate (qi/31)", rates, BinCount)
	return rep
}

// NewHistogram membagi rentang [min, max] menjadi n bin sama lebar.
// Rentang nol (semua nilai sama) dilebarkan ±0.5.
func NewHistogram(name string, values []float64, n int) Histogram {
	h := Histogram{Name: name, Values: append([]float64(nil), values...)}
	if len(values) == 0 || n < 1 {
		return h
	}
	x := append([]float64(nil), values...)
	sort.Float64s(x)

	lo, hi := x[0], x[len(x)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	dividers := floats.Span(make([]float64, n+1), lo, hi)
	// stat.Histogram butuh divider terakhir > max
	dividers[n] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, x, nil)
	h.Bins = make([]Bin, n)
	for i := range h.Bins {
		h.Bins[i] = Bin{Lo: dividers[i], Hi: dividers[i+1], Count: int(counts[i])}
	}
	h.Bins[n-1].Hi = hi
	return h
}
