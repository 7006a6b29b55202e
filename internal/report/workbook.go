// internal/report/workbook.go
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary    = "Summary"
	SheetSeries     = "Series"
	SheetHistograms = "Histograms"
)

// sheetWriter menulis baris berurutan; error pertama disimpan, sisanya no-op.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	next  int
	err   error
}

func (w *sheetWriter) row(vals ...any) {
	if w.err != nil {
		return
	}
	w.next++
	cell, err := excelize.CoordinatesToCellName(1, w.next)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(w.sheet, cell, &vals)
}

// WriteWorkbook menulis laporan ke xlsx: ringkasan halaman, deret per titik, bin histogram.
func WriteWorkbook(path string, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}
	for _, s := range []string{SheetSeries, SheetHistograms} {
		if _, err := f.NewSheet(s); err != nil {
			return err
		}
	}

	summary := &sheetWriter{f: f, sheet: SheetSummary}
	summary.row("WELL", "STREAM", "TITLE", "STATUS", "POINTS")
	for _, p := range r.Pages {
		summary.row(p.WellID, string(p.Stream), p.Title, string(p.Status), len(p.Days))
	}

	series := &sheetWriter{f: f, sheet: SheetSeries}
	series.row("WELL", "STREAM", "DAYS_ONLINE", "ACTUAL", "FITTED")
	for _, p := range r.Pages {
		for i := range p.Days {
			var fitted any
			if i < len(p.Fitted) {
				fitted = p.Fitted[i]
			}
			series.row(p.WellID, string(p.Stream), p.Days[i], p.Actual[i], fitted)
		}
	}

	hist := &sheetWriter{f: f, sheet: SheetHistograms}
	hist.row("HISTOGRAM", "LO", "HI", "COUNT")
	for _, h := range []Histogram{r.Decline, r.Rate} {
		for _, b := range h.Bins {
			hist.row(h.Name, b.Lo, b.Hi, b.Count)
		}
	}

	for _, w := range []*sheetWriter{summary, series, hist} {
		if w.err != nil {
			return fmt.Errorf("write sheet %s: %w", w.sheet, w.err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report %s: %w", path, err)
	}
	return nil
}
