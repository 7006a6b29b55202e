// internal/handlers/mcp/get_production.go
// MCP Tool: get_production - ambil data produksi bulanan (oil, gas, water)

package mcp

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	mysqlrepo "dca-oilgas/internal/repositories/mysql"
	"dca-oilgas/internal/util"
)

type ProductionRow struct {
	Date   string   `json:"date"` // YYYY-MM-DD
	WellID string   `json:"well_id"`
	Oil    *float64 `json:"oil"`
	Gas    *float64 `json:"gas"`
	Water  *float64 `json:"water"`
}

type prodReq struct {
	WellID string `json:"well_id,omitempty"`
	Start  string `json:"start,omitempty"` // "2020-01-01"
	End    string `json:"end,omitempty"`   // exclusive
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

func GetProductionHandler(w http.ResponseWriter, r *http.Request) {
	if productionRepo == nil {
		notConfigured(w, "production repo")
		return
	}

	q := r.URL.Query()
	in := prodReq{
		WellID: strings.TrimSpace(q.Get("well_id")),
		Start:  strings.TrimSpace(q.Get("start")),
		End:    strings.TrimSpace(q.Get("end")),
	}
	// alias
	if in.WellID == "" {
		in.WellID = strings.TrimSpace(q.Get("well"))
	}
	if v := q.Get("limit"); v != "" {
		if n, _ := strconv.Atoi(v); n > 0 {
			in.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, _ := strconv.Atoi(v); n >= 0 {
			in.Offset = n
		}
	}

	if r.Method == http.MethodPost && in.WellID == "" && in.Start == "" && in.End == "" {
		if err := decodeBody(r, &in); err != nil {
			writeErr(w, http.StatusBadRequest, util.CodeBadInput, "invalid json")
			return
		}
		in.WellID = strings.TrimSpace(in.WellID)
	}

	start, err := parseDay(in.Start)
	if err != nil {
		writeErr(w, http.StatusBadRequest, util.CodeBadInput, "start: "+err.Error())
		return
	}
	end, err := parseDay(in.End)
	if err != nil {
		writeErr(w, http.StatusBadRequest, util.CodeBadInput, "end: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 6*time.Second)
	defer cancel()

	recs, err := productionRepo.List(ctx, mysqlrepo.ProdFilter{
		WellID: in.WellID,
		Start:  start,
		End:    end,
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "db_error",
			"message": err.Error(),
			"input":   in,
		})
		return
	}

	out := make([]ProductionRow, 0, len(recs))
	for _, rec := range recs {
		row := ProductionRow{Date: rec.Date.Format("2006-01-02"), WellID: rec.WellID}
		if rec.Oil.Valid {
			row.Oil = &rec.Oil.Float64
		}
		if rec.Gas.Valid {
			row.Gas = &rec.Gas.Float64
		}
		if rec.Water.Valid {
			row.Water = &rec.Water.Float64
		}
		out = append(out, row)
	}
	writeJSON(w, http.StatusOK, out)
}

func parseDay(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
