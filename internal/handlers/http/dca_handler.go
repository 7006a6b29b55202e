// internal/handlers/http/dca_handler.go
// Endpoint baca-saja untuk hasil DCA per sumur dan per run
package http

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	mcphandlers "dca-oilgas/internal/handlers/mcp"
	"dca-oilgas/internal/llm"
	"dca-oilgas/internal/pipeline"
	"dca-oilgas/internal/services"
	"dca-oilgas/internal/util"
)

type DCADeps struct {
	Runner   *pipeline.Runner
	Results  mcphandlers.ResultReader // opsional
	Narrator llm.Narrator             // opsional
	Log      *zap.Logger
}

func (d DCADeps) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

func notConfigured(w http.ResponseWriter, what string) {
	writeJSON(w, http.StatusServiceUnavailable, map[string]any{
		"error":   codeNotConfigured,
		"message": what + " not configured",
	})
}

func wellIDVar(r *http.Request) (string, error) {
	id := strings.TrimSpace(mux.Vars(r)["well_id"])
	if id == "" {
		return "", util.BadInput("well_id is required")
	}
	return id, nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, util.BadInput(key + " must be a non-negative integer")
	}
	return n, nil
}

// GET /api/wells?prefix=&limit=
func NewListWellsHandler(deps DCADeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Runner == nil {
			notConfigured(w, "dca runner")
			return
		}
		limit, err := queryInt(r, "limit", 0)
		if err != nil {
			writeError(w, err)
			return
		}
		ids, err := deps.Runner.Source.WellIDs(r.Context())
		if err != nil {
			deps.logger().Error("list wells", zap.Error(err))
			writeError(w, err)
			return
		}
		prefix := r.URL.Query().Get("prefix")
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			if prefix == "" || strings.HasPrefix(id, prefix) {
				out = append(out, id)
			}
		}
		sort.Strings(out)
		total := len(out)
		if limit > 0 && len(out) > limit {
			out = out[:limit]
		}
		writeJSON(w, http.StatusOK, map[string]any{"wells": out, "count": len(out), "total": total})
	}
}

// GET /api/wells/{well_id}/fit?series=true
func NewFitWellHandler(deps DCADeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Runner == nil {
			notConfigured(w, "dca runner")
			return
		}
		id, err := wellIDVar(r)
		if err != nil {
			writeError(w, err)
			return
		}
		ws, err := deps.Runner.FitWell(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		if r.URL.Query().Get("series") != "true" {
			ws.Oil.Series.Points, ws.Oil.Fitted, ws.Oil.Variance = nil, nil, nil
			ws.Water.Series.Points, ws.Water.Fitted, ws.Water.Variance = nil, nil, nil
		}
		writeJSON(w, http.StatusOK, ws)
	}
}

type forecastStream struct {
	Stream services.Stream        `json:"stream"`
	Fit    services.FitResult     `json:"fit"`
	Points []services.SeriesPoint `json:"points"`
}

type skippedStream struct {
	Stream services.Stream    `json:"stream"`
	Status services.FitStatus `json:"status"`
}

// checkForecastRange menolak horizon/step yang menghasilkan terlalu banyak titik.
func checkForecastRange(horizon, step int) error {
	if horizon > services.MaxForecastDays {
		return util.BadInput(fmt.Sprintf("horizon_days must be at most %d", services.MaxForecastDays))
	}
	if horizon/step+1 > services.MaxForecastPoints {
		return util.BadInput(fmt.Sprintf("horizon_days/step_days must yield at most %d points", services.MaxForecastPoints))
	}
	return nil
}

// GET /api/wells/{well_id}/forecast?horizon_days=1825&step_days=30
// Proyeksi dimulai dari hari produksi terakhir. Hanya stream berstatus fitted
// yang diproyeksikan; sentinel dan diverged masuk daftar skipped.
func NewForecastHandler(deps DCADeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Runner == nil {
			notConfigured(w, "dca runner")
			return
		}
		id, err := wellIDVar(r)
		if err != nil {
			writeError(w, err)
			return
		}
		horizon, err := queryInt(r, "horizon_days", 5*365)
		if err != nil {
			writeError(w, err)
			return
		}
		step, err := queryInt(r, "step_days", 30)
		if err != nil {
			writeError(w, err)
			return
		}
		if step == 0 {
			step = 30
		}
		if err := checkForecastRange(horizon, step); err != nil {
			writeError(w, err)
			return
		}
		ws, err := deps.Runner.FitWell(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}

		out := []forecastStream{}
		skipped := []skippedStream{}
		for _, sf := range []services.StreamFit{ws.Oil, ws.Water} {
			if sf.Result.Status != services.FitStatusFitted {
				skipped = append(skipped, skippedStream{Stream: sf.Result.Stream, Status: sf.Result.Status})
				continue
			}
			from := 0
			if n := sf.Series.Len(); n > 0 {
				from = sf.Series.Points[n-1].DaysOnline
			}
			out = append(out, forecastStream{
				Stream: sf.Result.Stream,
				Fit:    sf.Result,
				Points: services.Forecast(deps.Runner.Processor.Model, sf.Result, from, horizon, step),
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"well_id":      id,
			"first_online": ws.FirstOnline,
			"horizon_days": horizon,
			"step_days":    step,
			"streams":      out,
			"skipped":      skipped,
		})
	}
}

// GET /api/wells/{well_id}/commentary
func NewCommentaryHandler(deps DCADeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Runner == nil {
			notConfigured(w, "dca runner")
			return
		}
		if deps.Narrator == nil {
			writeError(w, llm.ErrNotConfigured)
			return
		}
		id, err := wellIDVar(r)
		if err != nil {
			writeError(w, err)
			return
		}
		ws, err := deps.Runner.FitWell(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		text, err := deps.Narrator.Commentary(r.Context(), ws)
		if err != nil {
			deps.logger().Warn("commentary failed", zap.String("well_id", id), zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"well_id":    id,
			"model":      deps.Narrator.Model(),
			"commentary": text,
		})
	}
}

// GET /api/dca/runs/{run_id}
func NewRunResultsHandler(deps DCADeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Results == nil {
			notConfigured(w, "result store")
			return
		}
		runID := strings.TrimSpace(mux.Vars(r)["run_id"])
		if runID == "" {
			writeError(w, util.BadInput("run_id is required"))
			return
		}
		run, err := deps.Results.GetRun(r.Context(), runID)
		if err != nil {
			writeError(w, err)
			return
		}
		rows, err := deps.Results.ListResults(r.Context(), runID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"run": run, "results": rows})
	}
}
