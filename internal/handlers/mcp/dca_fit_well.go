// internal/handlers/mcp/dca_fit_well.go
// MCP Tool: dca_fit_well - fit decline curve satu sumur (tanpa menulis apa pun)
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"dca-oilgas/internal/services"
	"dca-oilgas/internal/util"
)

type fitWellReq struct {
	WellID string `json:"well_id"`
	// true = sertakan deret & kurva fitted (payload bisa besar)
	IncludeSeries bool `json:"include_series,omitempty"`
}

type fitWellResp struct {
	WellID      string                `json:"well_id"`
	FirstOnline string                `json:"first_online,omitempty"`
	Oil         services.FitResult    `json:"oil"`
	Water       services.FitResult    `json:"water"`
	GOR         services.GORSummary   `json:"gor"`
	Summary     *services.WellSummary `json:"summary,omitempty"`
}

// decodeBody: body kosong bukan error (tool bisa dipanggil via query string).
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func DCAFitWellHandler(w http.ResponseWriter, r *http.Request) {
	if runner == nil {
		notConfigured(w, "dca runner")
		return
	}
	var in fitWellReq
	if err := decodeBody(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, util.CodeBadInput, "invalid json")
		return
	}
	if in.WellID == "" {
		in.WellID = r.URL.Query().Get("well_id")
	}
	in.WellID = strings.TrimSpace(in.WellID)
	if in.WellID == "" {
		writeErr(w, http.StatusBadRequest, util.CodeBadInput, "well_id is required")
		return
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

	out := fitWellResp{
		WellID: ws.WellID,
		Oil:    ws.Oil.Result,
		Water:  ws.Water.Result,
		GOR:    ws.GOR,
	}
	if !ws.FirstOnline.IsZero() {
		out.FirstOnline = ws.FirstOnline.Format("2006-01-02")
	}
	if in.IncludeSeries {
		out.Summary = &ws
	}
	writeJSON(w, http.StatusOK, out)
}
