// internal/handlers/mcp/ready_flags.go
package mcp

import (
	"context"
	"encoding/json"
	"net/http"

	"dca-oilgas/internal/pipeline"
	mysqlrepo "dca-oilgas/internal/repositories/mysql"
	"dca-oilgas/internal/services"
)

// ProductionLister = subset ProductionRepo yang dipakai tool get_production.
type ProductionLister interface {
	List(ctx context.Context, f mysqlrepo.ProdFilter) ([]services.ProductionRecord, error)
}

// ResultReader = subset ResultRepo untuk dca_run_results.
type ResultReader interface {
	GetRun(ctx context.Context, runID string) (*mysqlrepo.RunRow, error)
	ListResults(ctx context.Context, runID string) ([]mysqlrepo.ResultRow, error)
}

// inject dari app; nil = tool membalas 503
var (
	runner         *pipeline.Runner
	productionRepo ProductionLister
	resultRepo     ResultReader
)

func SetRunner(r *pipeline.Runner)         { runner = r }
func SetProductionRepo(r ProductionLister) { productionRepo = r }
func SetResultRepo(r ResultReader)         { resultRepo = r }

// ReposStatus mengembalikan status siap/tidaknya dependency tiap tool.
func ReposStatus() map[string]bool {
	return map[string]bool{
		"runner":     runner != nil,
		"production": productionRepo != nil,
		"results":    resultRepo != nil,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]any{"error": code, "message": msg})
}

func notConfigured(w http.ResponseWriter, what string) {
	writeErr(w, http.StatusServiceUnavailable, "not_configured", what+" not configured")
}
