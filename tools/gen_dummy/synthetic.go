// [FILE] tools/gen_dummy/synthetic.go
package main

import (
	"database/sql"
	"fmt"
	"math/rand/v2"
	"time"

	"dca-oilgas/internal/economic"
	"dca-oilgas/internal/services"
)

// synthetic membuat produksi bulanan mengikuti kurva hyperbolic + noise, dan
// template ekonomi (START, OIL, GAS/OIL, WTR) per sumur.
func synthetic(nWells, nMonths int, seed uint64) ([]services.ProductionRecord, []economic.Row) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	m := services.NewHyperbolic(services.DefaultB)
	base := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)

	var (
		recs []services.ProductionRecord
		rows []economic.Row
	)
	for w := 0; w < nWells; w++ {
		id := fmt.Sprintf("WELL-%04d", w+1)
		start := base.AddDate(0, rng.IntN(24), 0)
		qi := 300 + rng.Float64()*2700 // bbl/bulan
		di := 0.002 + rng.Float64()*0.02
		gor := 0.4 + rng.Float64()*1.6 // Mcf/bbl
		wcut := 0.05 + rng.Float64()*0.5

		for i := 0; i < nMonths; i++ {
			d := start.AddDate(0, i, 0)
			t := d.Sub(start).Hours() / 24
			q := m.Rate(t, qi, di) * (1 + 0.05*rng.NormFloat64())
			if q < 0 {
				q = 0
			}
			rec := services.ProductionRecord{
				WellID: id,
				Date:   d,
				Oil:    sql.NullFloat64{Float64: q, Valid: true},
				Gas:    sql.NullFloat64{Float64: q * gor * (1 + 0.03*rng.NormFloat64()), Valid: true},
				Water:  sql.NullFloat64{Float64: q * wcut * (1 + 0.1*rng.NormFloat64()), Valid: true},
			}
			// sesekali bulan shut-in / data bolong
			if rng.IntN(40) == 0 {
				rec.Oil.Valid, rec.Gas.Valid = false, false
			}
			recs = append(recs, rec)
		}

		seq := len(rows)
		rows = append(rows,
			economic.Row{Seq: seq, PropNum: id, Qualifier: "CASHFLOW", Keyword: "START", Expression: "01/2000"},
			economic.Row{Seq: seq + 1, PropNum: id, Qualifier: "CASHFLOW", Keyword: "OIL", Expression: "1 X B/D 6 EXP B/1.2 1.0"},
			economic.Row{Seq: seq + 2, PropNum: id, Qualifier: "CASHFLOW", Keyword: "GAS/OIL", Expression: "1.00 1.00 M/B 12 MO LIN TIME"},
			economic.Row{Seq: seq + 3, PropNum: id, Qualifier: "CASHFLOW", Keyword: "WTR", Expression: "1 X B/D 6 EXP B/1.2 1.0"},
		)
	}
	return recs, rows
}
