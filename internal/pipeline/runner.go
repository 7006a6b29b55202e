// internal/pipeline/runner.go
// Satu population run lengkap: fit semua sumur -> update model ekonomi -> simpan hasil
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"dca-oilgas/internal/economic"
	"dca-oilgas/internal/metrics"
	"dca-oilgas/internal/services"
	"dca-oilgas/internal/util"
)

const (
	TriggerAPI    = "api"
	TriggerWorker = "worker"
	TriggerCLI    = "cli"
)

type EconomicStore interface {
	Load(ctx context.Context, wellIDs ...string) ([]economic.Row, error)
	UpdateExpressions(ctx context.Context, rows []economic.Row) error
}

type ResultStore interface {
	SaveRun(ctx context.Context, trigger string, res *services.PopulationResult) error
}

type Options struct {
	Trigger       string
	Wells         []string // kosong = semua sumur dari source
	Workers       int      // 0 = default Runner
	WriteEconomic bool
	Persist       bool
	// OnWell dipanggil paralel dari worker; implementasi wajib aman konkuren.
	OnWell func(ctx context.Context, ws services.WellSummary, warns []economic.Warning)
}

type Outcome struct {
	*services.PopulationResult
	Warnings        []economic.Warning `json:"warnings,omitempty"`
	EconomicUpdated int                `json:"economic_rows_updated"`
}

type Runner struct {
	Processor *services.WellProcessor
	Source    services.RecordSource
	Economic  EconomicStore // opsional
	Results   ResultStore   // opsional
	Workers   int
	Log       *zap.Logger
}

var ErrNoEconomicStore = errors.New("economic store not configured")

// Run menjalankan population atas Source. Economic dan Results dipakai sesuai opsi.
func (r *Runner) Run(ctx context.Context, opt Options) (*Outcome, error) {
	var table *economic.Table
	if opt.WriteEconomic {
		if r.Economic == nil {
			return nil, ErrNoEconomicStore
		}
		rows, err := r.Economic.Load(ctx, opt.Wells...)
		if err != nil {
			return nil, fmt.Errorf("load economic rows: %w", err)
		}
		table = economic.NewTable(rows)
	}

	out, err := r.Execute(ctx, r.Source, table, opt)
	if err != nil {
		return nil, err
	}

	if table != nil {
		changed := table.Changed()
		if err := r.Economic.UpdateExpressions(ctx, changed); err != nil {
			return out, fmt.Errorf("update economic rows: %w", err)
		}
		out.EconomicUpdated = len(changed)
	}
	if opt.Persist && r.Results != nil {
		if err := r.Results.SaveRun(ctx, opt.Trigger, out.PopulationResult); err != nil {
			return out, fmt.Errorf("save run %s: %w", out.RunID, err)
		}
	}
	return out, nil
}

// Execute menjalankan driver atas src; bila table != nil tiap sumur langsung
// ditulis ke barisnya. Tidak menyentuh store.
func (r *Runner) Execute(ctx context.Context, src services.RecordSource, table *economic.Table, opt Options) (*Outcome, error) {
	log := r.logger()
	workers := opt.Workers
	if workers <= 0 {
		workers = r.Workers
	}
	trigger := opt.Trigger
	if trigger == "" {
		trigger = TriggerAPI
	}
	metrics.Runs.WithLabelValues(trigger).Inc()

	var (
		mu    sync.Mutex
		warns []economic.Warning
	)
	d := services.NewPopulationDriver(r.Processor, workers, log)
	d.OnWell = func(ctx context.Context, ws services.WellSummary) int {
		var ww []economic.Warning
		if table != nil {
			ww = table.Apply(ws)
			for _, w := range ww {
				metrics.TemplateWarnings.WithLabelValues(w.Keyword).Inc()
				log.Warn("economic template not updated",
					zap.String("well_id", w.WellID),
					zap.String("keyword", w.Keyword),
					zap.Error(w.Err))
			}
			mu.Lock()
			warns = append(warns, ww...)
			mu.Unlock()
		}
		if opt.OnWell != nil {
			opt.OnWell(ctx, ws, ww)
		}
		return len(ww)
	}

	var (
		res *services.PopulationResult
		err error
	)
	if len(opt.Wells) > 0 {
		res, err = d.RunWells(ctx, src, opt.Wells)
	} else {
		res, err = d.Run(ctx, src)
	}
	if err != nil {
		return nil, err
	}
	return &Outcome{PopulationResult: res, Warnings: warns}, nil
}

// FitWell memproses satu sumur tanpa efek samping (endpoint fit / tool MCP).
func (r *Runner) FitWell(ctx context.Context, wellID string) (services.WellSummary, error) {
	recs, err := r.Source.Records(ctx, wellID)
	if err != nil {
		return services.WellSummary{}, err
	}
	if len(recs) == 0 {
		return services.WellSummary{}, util.NotFound("well " + wellID + " has no production records")
	}
	return r.Processor.Process(wellID, recs), nil
}

func (r *Runner) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}
