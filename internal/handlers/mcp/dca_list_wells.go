// internal/handlers/mcp/dca_list_wells.go
// MCP Tool: dca_list_wells - daftar sumur yang punya data produksi
package mcp

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"dca-oilgas/internal/util"
)

type listWellsReq struct {
	Prefix string `json:"prefix,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

func DCAListWellsHandler(w http.ResponseWriter, r *http.Request) {
	if runner == nil || runner.Source == nil {
		notConfigured(w, "production source")
		return
	}
	var in listWellsReq
	if err := decodeBody(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, util.CodeBadInput, "invalid json")
		return
	}
	if in.Prefix == "" {
		in.Prefix = r.URL.Query().Get("prefix")
	}
	if in.Limit <= 0 || in.Limit > 5000 {
		in.Limit = 500
	}

	ctx, cancel := context.WithTimeout(r.Context(), 6*time.Second)
	defer cancel()

	ids, err := runner.Source.WellIDs(ctx)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	sort.Strings(ids)

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if in.Prefix != "" && !strings.HasPrefix(strings.ToUpper(id), strings.ToUpper(in.Prefix)) {
			continue
		}
		out = append(out, id)
		if len(out) >= in.Limit {
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"wells": out, "count": len(out), "total": len(ids)})
}
