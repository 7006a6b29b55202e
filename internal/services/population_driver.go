// internal/services/population_driver.go
// Menjalankan WellProcessor untuk seluruh sumur lewat worker pool

package services

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dca-oilgas/internal/util"
)

// RecordSource: sumber data produksi per sumur (repo MySQL, workbook, dsb).
type RecordSource interface {
	WellIDs(ctx context.Context) ([]string, error)
	Records(ctx context.Context, wellID string) ([]ProductionRecord, error)
}

// RecordSet = RecordSource in-memory, dikelompokkan per sumur.
type RecordSet struct {
	order []string
	byID  map[string][]ProductionRecord
}

func NewRecordSet(records []ProductionRecord) *RecordSet {
	rs := &RecordSet{byID: map[string][]ProductionRecord{}}
	for _, r := range records {
		if _, ok := rs.byID[r.WellID]; !ok {
			rs.order = append(rs.order, r.WellID)
		}
		rs.byID[r.WellID] = append(rs.byID[r.WellID], r)
	}
	return rs
}

func (rs *RecordSet) WellIDs(context.Context) ([]string, error) {
	return append([]string(nil), rs.order...), nil
}

func (rs *RecordSet) Records(_ context.Context, wellID string) ([]ProductionRecord, error) {
	recs, ok := rs.byID[wellID]
	if !ok {
		return nil, util.NotFound("well " + wellID)
	}
	return recs, nil
}

type Tally struct {
	Wells         int `json:"wells"`
	FittedStreams int `json:"fitted_streams"`
	SentinelWells int `json:"sentinel_wells"`
	FailedWells   int `json:"failed_wells"`
	Warnings      int `json:"warnings"`
}

type WellError struct {
	WellID string `json:"well_id"`
	Error  string `json:"error"`
}

type PopulationResult struct {
	RunID      string        `json:"run_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Wells      []WellSummary `json:"wells"`
	Errors     []WellError   `json:"errors,omitempty"`
	Tally      Tally         `json:"tally"`
}

// WellHook dipanggil dari goroutine worker setelah satu sumur selesai.
// Mengembalikan jumlah warning (mis. baris template yang hilang).
type WellHook func(ctx context.Context, ws WellSummary) int

type PopulationDriver struct {
	Processor *WellProcessor
	Workers   int
	OnWell    WellHook
	Clock     util.Clock
	Log       *zap.Logger
}

func NewPopulationDriver(p *WellProcessor, workers int, log *zap.Logger) *PopulationDriver {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PopulationDriver{Processor: p, Workers: workers, Clock: util.RealClock{}, Log: log}
}

// Run memproses semua sumur dari src. Kegagalan satu sumur tidak menghentikan run;
// hanya pembatalan context yang menghentikan dispatch.
func (d *PopulationDriver) Run(ctx context.Context, src RecordSource) (*PopulationResult, error) {
	ids, err := src.WellIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list wells: %w", err)
	}
	return d.RunWells(ctx, src, ids)
}

func (d *PopulationDriver) RunWells(ctx context.Context, src RecordSource, ids []string) (*PopulationResult, error) {
	out := &PopulationResult{RunID: util.NewID(), StartedAt: d.Clock.Now()}
	log := d.Log.With(zap.String("run_id", out.RunID))
	log.Info("population run started", zap.Int("wells", len(ids)), zap.Int("workers", d.Workers))

	summaries := make([]*WellSummary, len(ids))
	warnings := make([]int, len(ids))
	var (
		mu      sync.Mutex
		wellErr []WellError
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.Workers)
	for i, id := range ids {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			recs, err := src.Records(gctx, id)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Warn("read well records failed", zap.String("well_id", id), zap.Error(err))
				mu.Lock()
				wellErr = append(wellErr, WellError{WellID: id, Error: err.Error()})
				mu.Unlock()
				return nil
			}
			if len(recs) == 0 {
				log.Info("well has no records", zap.String("well_id", id))
			}
			ws := d.Processor.Process(id, recs)
			summaries[i] = &ws
			if d.OnWell != nil {
				warnings[i] = d.OnWell(gctx, ws)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("population run %s: %w", out.RunID, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("population run %s: %w", out.RunID, err)
	}

	for i, ws := range summaries {
		out.Tally.Warnings += warnings[i]
		if ws == nil {
			continue
		}
		out.Wells = append(out.Wells, *ws)
	}
	sort.Slice(out.Wells, func(i, j int) bool { return out.Wells[i].WellID < out.Wells[j].WellID })
	sort.Slice(wellErr, func(i, j int) bool { return wellErr[i].WellID < wellErr[j].WellID })
	out.Errors = wellErr
	out.Tally = tally(out.Wells, len(wellErr), out.Tally.Warnings)
	out.FinishedAt = d.Clock.Now()

	log.Info("population run finished",
		zap.Int("wells", out.Tally.Wells),
		zap.Int("fitted_streams", out.Tally.FittedStreams),
		zap.Int("sentinel_wells", out.Tally.SentinelWells),
		zap.Int("failed_wells", out.Tally.FailedWells),
		zap.Int("warnings", out.Tally.Warnings))
	return out, nil
}

func tally(wells []WellSummary, readFailures, warnings int) Tally {
	t := Tally{Wells: len(wells) + readFailures, FailedWells: readFailures, Warnings: warnings}
	for _, w := range wells {
		for _, f := range w.Fits() {
			if f.Status == FitStatusFitted {
				t.FittedStreams++
			}
		}
		if w.HasSentinel() {
			t.SentinelWells++
		}
		if w.HasFailure() {
			t.FailedWells++
		}
	}
	return t
}
