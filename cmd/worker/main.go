// cmd/worker/main.go
// Population run terjadwal (cron dengan detik) atas data di DB
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"dca-oilgas/internal/app"
	"dca-oilgas/internal/config"
	"dca-oilgas/internal/pipeline"
	"dca-oilgas/internal/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := util.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, closeFn, err := app.Bootstrap(ctx, cfg, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer closeFn()

	job := newJob(ctx, deps.Runner, cfg.Worker.WriteEconomic, log)

	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.Recover(cronLogger{log}), cron.SkipIfStillRunning(cronLogger{log})),
		cron.WithLogger(cronLogger{log}),
	)
	if _, err := c.AddFunc(cfg.Worker.Schedule, job); err != nil {
		log.Fatal("invalid schedule", zap.String("schedule", cfg.Worker.Schedule), zap.Error(err))
	}
	log.Info("Worker started...", zap.String("schedule", cfg.Worker.Schedule))

	if cfg.Worker.RunNow {
		job()
	}
	c.Start()
	<-ctx.Done()
	log.Info("worker stopping")
	<-c.Stop().Done()
}

func newJob(ctx context.Context, r *pipeline.Runner, writeEconomic bool, log *zap.Logger) func() {
	return func() {
		out, err := r.Run(ctx, pipeline.Options{
			Trigger:       pipeline.TriggerWorker,
			WriteEconomic: writeEconomic,
			Persist:       true,
		})
		if err != nil {
			log.Error("scheduled run failed", zap.Error(err))
			return
		}
		log.Info("scheduled run done",
			zap.String("run_id", out.RunID),
			zap.Int("wells", out.Tally.Wells),
			zap.Int("fitted_streams", out.Tally.FittedStreams),
			zap.Int("sentinel_wells", out.Tally.SentinelWells),
			zap.Int("failed_wells", out.Tally.FailedWells),
			zap.Int("warnings", out.Tally.Warnings),
			zap.Int("economic_rows_updated", out.EconomicUpdated))
	}
}

// cronLogger menjembatani cron.Logger ke zap.
type cronLogger struct{ log *zap.Logger }

func (l cronLogger) Info(msg string, kv ...any) { l.log.Sugar().Debugw(msg, kv...) }

func (l cronLogger) Error(err error, msg string, kv ...any) {
	l.log.Sugar().Errorw(msg, append(kv, "error", err)...)
}
