// internal/handlers/mcp/dca_fit_anomalies.go
// MCP Tool: dca_fit_anomalies - titik produksi yang menyimpang jauh dari kurva fitted
package mcp

import (
	"context"
	"net/http"
	"strings"
	"time"

	"dca-oilgas/internal/services"
	"dca-oilgas/internal/util"
)

type fitAnomaliesReq struct {
	WellID    string  `json:"well_id"`
	Stream    string  `json:"stream,omitempty"` // OIL|WATER (default: keduanya)
	MinZScore float64 `json:"min_zscore,omitempty"`
}

type streamAnomalies struct {
	Stream      services.Stream    `json:"stream"`
	Status      services.FitStatus `json:"status"`
	Correlation float64            `json:"correlation"`
	Anomalies   []services.Anomaly `json:"anomalies"`
}

func DCAFitAnomaliesHandler(w http.ResponseWriter, r *http.Request) {
	if runner == nil {
		notConfigured(w, "dca runner")
		return
	}
	var in fitAnomaliesReq
	if err := decodeBody(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, util.CodeBadInput, "invalid json")
		return
	}
	in.WellID = strings.TrimSpace(in.WellID)
	if in.WellID == "" {
		writeErr(w, http.StatusBadRequest, util.CodeBadInput, "well_id is required")
		return
	}
	if in.MinZScore <= 0 {
		in.MinZScore = 2.5
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	ws, err := runner.FitWell(ctx, in.WellID)
	if err != nil {
		status := http.StatusInternalServerError
		if util.CodeOf(err) == util.CodeNotFound {
			status = http.StatusNotFound
		}
		writeErr(w, status, util.CodeOf(err), err.Error())
		return
	}

	var out []streamAnomalies
	for _, sf := range []services.StreamFit{ws.Oil, ws.Water} {
		if in.Stream != "" && !strings.EqualFold(in.Stream, string(sf.Result.Stream)) {
			continue
		}
		sa := streamAnomalies{Stream: sf.Result.Stream, Status: sf.Result.Status, Correlation: sf.Result.Correlation}
		if sf.Result.Status == services.FitStatusFitted {
			if an, err := services.ResidualAnomalies(sf, in.MinZScore); err == nil {
				sa.Anomalies = an
			}
		}
		if sa.Anomalies == nil {
			sa.Anomalies = []services.Anomaly{}
		}
		out = append(out, sa)
	}
	writeJSON(w, http.StatusOK, map[string]any{"well_id": ws.WellID, "min_zscore": in.MinZScore, "streams": out})
}
