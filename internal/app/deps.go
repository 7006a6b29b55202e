// internal/app/deps.go
// Merakit dependency bersama (DB, repo, runner, narrator) untuk semua binary
package app

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"dca-oilgas/internal/config"
	mcphandlers "dca-oilgas/internal/handlers/mcp"
	"dca-oilgas/internal/llm"
	"dca-oilgas/internal/pipeline"
	mysqlrepo "dca-oilgas/internal/repositories/mysql"
	"dca-oilgas/internal/services"
	dbpkg "dca-oilgas/pkg/db"
)

// Deps: field nil = fitur terkait membalas 503.
type Deps struct {
	DB         *sql.DB
	Runner     *pipeline.Runner
	Production mcphandlers.ProductionLister
	Results    mcphandlers.ResultReader
	Narrator   llm.Narrator
	Log        *zap.Logger
}

func OpenDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	switch cfg.DB.Driver {
	case "sqlite":
		return dbpkg.NewSQLite(ctx, cfg.DB.SQLitePath)
	default:
		return dbpkg.NewMySQL(ctx, cfg.MySQLDSN(), cfg.DB.MaxOpen, cfg.DB.MaxIdle)
	}
}

// Bootstrap membuka DB, migrasi skema (opsional), lalu merakit runner di atas repo SQL.
// Fungsi close menutup DB.
func Bootstrap(ctx context.Context, cfg *config.Config, log *zap.Logger) (Deps, func(), error) {
	if log == nil {
		log = zap.NewNop()
	}
	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return Deps{}, nil, err
	}

	db, err := OpenDB(ctx, cfg)
	if err != nil {
		return Deps{}, nil, fmt.Errorf("open %s: %w", cfg.DB.Driver, err)
	}
	if cfg.DB.Migrate {
		if err := mysqlrepo.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return Deps{}, nil, err
		}
	}

	prod := &mysqlrepo.ProductionRepo{DB: db}
	results := &mysqlrepo.ResultRepo{DB: db}
	d := Deps{
		DB: db,
		Runner: &pipeline.Runner{
			Processor: services.NewWellProcessor(policy, cfg.Fit.MaxIterations, log),
			Source:    prod,
			Economic:  &mysqlrepo.EconomicRepo{DB: db},
			Results:   results,
			Workers:   cfg.Fit.Workers,
			Log:       log,
		},
		Production: prod,
		Results:    results,
		Log:        log,
	}

	if cfg.LLMEnabled() {
		n, err := llm.NewOpenAI(cfg.LLM.APIKey, cfg.LLM.APIBase, cfg.LLM.Model, cfg.LLM.Timeout)
		if err != nil {
			log.Warn("llm narrator disabled", zap.Error(err))
		} else {
			d.Narrator = n
		}
	}
	log.Info("dependencies ready",
		zap.String("db_driver", cfg.DB.Driver),
		zap.Float64("b", policy.B),
		zap.Int("workers", cfg.Fit.Workers),
		zap.Bool("llm", d.Narrator != nil))
	return d, func() { _ = db.Close() }, nil
}
