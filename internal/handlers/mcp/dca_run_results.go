// internal/handlers/mcp/dca_run_results.go
// MCP Tool: dca_run_results - hasil tersimpan sebuah population run
package mcp

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	mysqlrepo "dca-oilgas/internal/repositories/mysql"
	"dca-oilgas/internal/util"
)

type runResultsReq struct {
	RunID  string `json:"run_id"`
	WellID string `json:"well_id,omitempty"`
	Status string `json:"status,omitempty"` // fitted|sentinel|diverged
}

func DCARunResultsHandler(w http.ResponseWriter, r *http.Request) {
	if resultRepo == nil {
		notConfigured(w, "result repo")
		return
	}
	var in runResultsReq
	if err := decodeBody(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, util.CodeBadInput, "invalid json")
		return
	}
	if in.RunID == "" {
		in.RunID = r.URL.Query().Get("run_id")
	}
	in.RunID = strings.TrimSpace(in.RunID)
	if in.RunID == "" {
		writeErr(w, http.StatusBadRequest, util.CodeBadInput, "run_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 6*time.Second)
	defer cancel()

	run, err := resultRepo.GetRun(ctx, in.RunID)
	if errors.Is(err, mysqlrepo.ErrRunNotFound) {
		writeErr(w, http.StatusNotFound, util.CodeNotFound, err.Error())
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	rows, err := resultRepo.ListResults(ctx, in.RunID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db_error", err.Error())
		return
	}

	filtered := make([]mysqlrepo.ResultRow, 0, len(rows))
	for _, rr := range rows {
		if in.WellID != "" && rr.WellID != in.WellID {
			continue
		}
		if in.Status != "" && !strings.EqualFold(rr.Status, in.Status) {
			continue
		}
		filtered = append(filtered, rr)
	}
	writeJSON(w, http.StatusOK, map[string]any{"run": run, "results": filtered})
}
