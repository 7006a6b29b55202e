// internal/handlers/http/admin_handler.go
// Trigger population run manual (JSON sekali jalan atau SSE per sumur)
package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"dca-oilgas/internal/economic"
	"dca-oilgas/internal/pipeline"
	"dca-oilgas/internal/services"
	"dca-oilgas/internal/util"
	"dca-oilgas/internal/util/sse"
)

var validate = validator.New()

type RunRequest struct {
	Wells         []string `json:"wells" validate:"omitempty,max=10000,dive,required,max=64"`
	Workers       int      `json:"workers" validate:"gte=0,lte=256"`
	WriteEconomic bool     `json:"write_economic"`
	Persist       bool     `json:"persist"`
}

func (in RunRequest) options() pipeline.Options {
	return pipeline.Options{
		Trigger:       pipeline.TriggerAPI,
		Wells:         in.Wells,
		Workers:       in.Workers,
		WriteEconomic: in.WriteEconomic,
		Persist:       in.Persist,
	}
}

type AdminDeps struct {
	Runner *pipeline.Runner
	Log    *zap.Logger
}

func (d AdminDeps) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

type runResp struct {
	RunID           string               `json:"run_id"`
	Tally           services.Tally       `json:"tally"`
	Errors          []services.WellError `json:"errors,omitempty"`
	Warnings        []economic.Warning   `json:"warnings,omitempty"`
	EconomicUpdated int                  `json:"economic_rows_updated"`
}

func summarize(out *pipeline.Outcome) runResp {
	return runResp{
		RunID:           out.RunID,
		Tally:           out.Tally,
		Errors:          out.Errors,
		Warnings:        out.Warnings,
		EconomicUpdated: out.EconomicUpdated,
	}
}

// POST /admin/dca/run  body: RunRequest
func NewAdminRunHandler(deps AdminDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Runner == nil {
			notConfigured(w, "dca runner")
			return
		}
		var in RunRequest
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, util.BadInput("invalid json"))
			return
		}
		if err := validate.Struct(in); err != nil {
			writeError(w, util.BadInput(err.Error()))
			return
		}

		out, err := deps.Runner.Run(r.Context(), in.options())
		if err != nil {
			deps.logger().Error("population run failed", zap.Error(err))
			if out == nil {
				writeError(w, err)
				return
			}
			// run selesai tapi gagal menyimpan: tetap kirim tally
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error":   util.CodeInternal,
				"message": err.Error(),
				"run":     summarize(out),
			})
			return
		}
		deps.logger().Info("population run done",
			zap.String("run_id", out.RunID),
			zap.Int("wells", out.Tally.Wells),
			zap.Int("failed_wells", out.Tally.FailedWells))
		writeJSON(w, http.StatusOK, summarize(out))
	}
}

type wellEvent struct {
	WellID   string             `json:"well_id"`
	Oil      services.FitStatus `json:"oil"`
	Water    services.FitStatus `json:"water"`
	Qi       float64            `json:"qi"`
	Decline  float64            `json:"annualized_decline"`
	Warnings int                `json:"warnings"`
}

// GET /admin/dca/run/stream?wells=A,B&workers=4&write_economic=true&persist=true
// Event "well" per sumur, lalu "done" (atau "error").
func NewAdminRunStreamHandler(deps AdminDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Runner == nil {
			notConfigured(w, "dca runner")
			return
		}
		in, err := runRequestFromQuery(r)
		if err != nil {
			writeError(w, err)
			return
		}

		stream := sse.NewStream(w)
		opt := in.options()
		opt.OnWell = func(_ context.Context, ws services.WellSummary, warns []economic.Warning) {
			_ = stream.Send("well", wellEvent{
				WellID:   ws.WellID,
				Oil:      ws.Oil.Result.Status,
				Water:    ws.Water.Result.Status,
				Qi:       ws.Oil.Result.Qi,
				Decline:  ws.Oil.Result.AnnualizedDecline,
				Warnings: len(warns),
			})
		}

		out, err := deps.Runner.Run(r.Context(), opt)
		if err != nil {
			deps.logger().Error("population run failed", zap.Error(err))
			_ = stream.Send("error", map[string]string{"message": err.Error()})
			return
		}
		_ = stream.Send("done", summarize(out))
	}
}

func runRequestFromQuery(r *http.Request) (RunRequest, error) {
	q := r.URL.Query()
	var in RunRequest
	for _, id := range strings.Split(q.Get("wells"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			in.Wells = append(in.Wells, id)
		}
	}
	if v := q.Get("workers"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return in, util.BadInput("workers must be an integer")
		}
		in.Workers = n
	}
	in.WriteEconomic = q.Get("write_economic") == "true"
	in.Persist = q.Get("persist") == "true"
	if err := validate.Struct(in); err != nil {
		return in, util.BadInput(err.Error())
	}
	return in, nil
}
