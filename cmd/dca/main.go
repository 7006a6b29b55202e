// cmd/dca/main.go
// Batch: workbook produksi -> fit semua sumur -> workbook ekonomi baru + workbook report
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"go.uber.org/zap"

	"dca-oilgas/internal/config"
	"dca-oilgas/internal/economic"
	"dca-oilgas/internal/pipeline"
	"dca-oilgas/internal/report"
	"dca-oilgas/internal/repositories/xlsx"
	"dca-oilgas/internal/services"
	"dca-oilgas/internal/util"
)

type options struct {
	In       string
	Out      string
	Report   string
	Policy   string
	Workers  int
	MaxIter  int
	LogLevel string
}

func main() {
	var o options
	flag.StringVar(&o.In, "in", "Original Access DB.xlsx", "workbook input (sheet Product & Economic)")
	flag.StringVar(&o.Out, "out", "New_Economic.xlsx", "workbook output sheet New_ECONOMIC")
	flag.StringVar(&o.Report, "report", "Auto_Forecast.xlsx", "workbook report (kosong = tanpa report)")
	flag.StringVar(&o.Policy, "policy", "", "file YAML policy fitting (opsional)")
	flag.IntVar(&o.Workers, "workers", runtime.NumCPU(), "jumlah worker paralel")
	flag.IntVar(&o.MaxIter, "max-iter", 5000, "batas iterasi solver per fit")
	flag.StringVar(&o.LogLevel, "log-level", "info", "debug|info|warn|error")
	flag.Parse()

	log, err := util.NewLogger(o.LogLevel, "console")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out, err := run(ctx, o, log)
	if err != nil {
		log.Fatal("dca failed", zap.Error(err))
	}
	fmt.Printf("wells=%d fitted_streams=%d sentinel_wells=%d failed_wells=%d warnings=%d\n",
		out.Tally.Wells, out.Tally.FittedStreams, out.Tally.SentinelWells, out.Tally.FailedWells, out.Tally.Warnings)
}

func run(ctx context.Context, o options, log *zap.Logger) (*pipeline.Outcome, error) {
	start := time.Now()
	policy, err := config.LoadPolicy(o.Policy)
	if err != nil {
		return nil, err
	}

	wb, err := xlsx.Open(o.In)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	recs, err := wb.Production()
	if err != nil {
		return nil, err
	}
	sheet, err := wb.Economic()
	if err != nil {
		return nil, err
	}
	log.Info("workbook loaded", zap.String("file", o.In), zap.Int("records", len(recs)), zap.Int("economic_rows", len(sheet.Rows)))

	r := &pipeline.Runner{
		Processor: services.NewWellProcessor(policy, o.MaxIter, log),
		Workers:   o.Workers,
		Log:       log,
	}
	table := economic.NewTable(sheet.Rows)
	out, err := r.Execute(ctx, services.NewRecordSet(recs), table, pipeline.Options{Trigger: pipeline.TriggerCLI})
	if err != nil {
		return nil, err
	}
	out.EconomicUpdated = len(table.Changed())

	if err := xlsx.WriteEconomic(o.Out, sheet, table.Rows); err != nil {
		return out, err
	}
	if o.Report != "" {
		if err := report.WriteWorkbook(o.Report, report.Build(out.Wells)); err != nil {
			return out, err
		}
	}
	log.Info("dca done",
		zap.String("run_id", out.RunID),
		zap.String("economic_out", o.Out),
		zap.String("report_out", o.Report),
		zap.Int("economic_rows_updated", out.EconomicUpdated),
		zap.Duration("took", time.Since(start)))
	return out, nil
}
