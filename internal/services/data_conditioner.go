// internal/services/data_conditioner.go
// Filter null/nol + normalisasi waktu (days online) untuk satu sumur/stream

package services

import (
	"sort"
	"time"
)

const hoursPerDay = 24

// FirstOnline = tanggal minimum dari SELURUH record sumur (belum difilter),
// dipakai bersama oleh semua stream sumur tsb.
func FirstOnline(records []ProductionRecord) time.Time {
	var first time.Time
	for i, r := range records {
		if i == 0 || r.Date.Before(first) {
			first = r.Date
		}
	}
	return first
}

// sortedByDate: salinan record, urut tanggal (stabil).
func sortedByDate(records []ProductionRecord) []ProductionRecord {
	out := append([]ProductionRecord(nil), records...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func daysBetween(from, to time.Time) int {
	d := int(to.Sub(from).Hours() / hoursPerDay)
	if d < 0 {
		return 0
	}
	return d
}

// Condition membangun ConditionedSeries untuk OIL/GAS/WATER.
func Condition(records []ProductionRecord, stream Stream, firstOnline time.Time) ConditionedSeries {
	cs := ConditionedSeries{Stream: stream, FirstOnline: firstOnline}
	for _, r := range sortedByDate(records) {
		if cs.WellID == "" {
			cs.WellID = r.WellID
		}
		v := r.Value(stream)
		if !v.Valid || !(v.Float64 > 0) {
			continue
		}
		cs.Points = append(cs.Points, SeriesPoint{
			Date:       r.Date,
			DaysOnline: daysBetween(firstOnline, r.Date),
			Rate:       v.Float64,
		})
	}
	return cs
}

// ConditionGOR: GOR = gas*1000/oil, hanya pada baris oil > 0 dan gas > 0.
func ConditionGOR(records []ProductionRecord, firstOnline time.Time) ConditionedSeries {
	cs := ConditionedSeries{Stream: StreamGOR, FirstOnline: firstOnline}
	for _, r := range sortedByDate(records) {
		if cs.WellID == "" {
			cs.WellID = r.WellID
		}
		if !r.Oil.Valid || !(r.Oil.Float64 > 0) || !r.Gas.Valid || !(r.Gas.Float64 > 0) {
			continue
		}
		cs.Points = append(cs.Points, SeriesPoint{
			Date:       r.Date,
			DaysOnline: daysBetween(firstOnline, r.Date),
			Rate:       r.Gas.Float64 * 1000 / r.Oil.Float64,
		})
	}
	return cs
}
