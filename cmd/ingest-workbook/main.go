// cmd/ingest-workbook/main.go
// Memuat sheet Product + Economic dari workbook ke DB (prod_monthly, economic)
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"dca-oilgas/internal/app"
	"dca-oilgas/internal/config"
	mysqlrepo "dca-oilgas/internal/repositories/mysql"
	"dca-oilgas/internal/repositories/xlsx"
	"dca-oilgas/internal/util"
)

func main() {
	var (
		in       string
		replace  bool
		skipEcon bool
	)
	flag.StringVar(&in, "in", "", "path workbook .xlsx (sheet Product & Economic)")
	flag.BoolVar(&replace, "replace", false, "kosongkan prod_monthly & economic sebelum load")
	flag.BoolVar(&skipEcon, "skip-economic", false, "hanya muat sheet Product")
	flag.Parse()
	if in == "" {
		fmt.Fprintln(os.Stderr, "usage: ingest-workbook -in workbook.xlsx [-replace] [-skip-economic]")
		os.Exit(2)
	}

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

	if err := run(context.Background(), cfg, log, in, replace, skipEcon); err != nil {
		log.Fatal("ingest failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, in string, replace, skipEcon bool) error {
	start := time.Now()
	wb, err := xlsx.Open(in)
	if err != nil {
		return err
	}
	defer wb.Close()

	recs, err := wb.Production()
	if err != nil {
		return err
	}
	var sheet *xlsx.EconomicSheet
	if !skipEcon {
		if sheet, err = wb.Economic(); err != nil {
			return err
		}
	}

	db, err := app.OpenDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := mysqlrepo.Migrate(ctx, db); err != nil {
		return err
	}

	if replace {
		for _, t := range []string{"prod_monthly", "economic"} {
			if _, err := db.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("clear %s: %w", t, err)
			}
		}
	}

	if err := (&mysqlrepo.ProductionRepo{DB: db}).InsertBatch(ctx, recs); err != nil {
		return err
	}
	econRows := 0
	if sheet != nil {
		if err := (&mysqlrepo.EconomicRepo{DB: db}).Insert(ctx, sheet.Rows); err != nil {
			return err
		}
		econRows = len(sheet.Rows)
	}
	log.Info("workbook ingested",
		zap.String("file", in),
		zap.Int("production_rows", len(recs)),
		zap.Int("economic_rows", econRows),
		zap.Duration("took", time.Since(start)))
	return nil
}
