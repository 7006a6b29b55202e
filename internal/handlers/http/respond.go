// internal/handlers/http/respond.go
package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"dca-oilgas/internal/economic"
	"dca-oilgas/internal/llm"
	"dca-oilgas/internal/pipeline"
	mysqlrepo "dca-oilgas/internal/repositories/mysql"
	"dca-oilgas/internal/services"
	"dca-oilgas/internal/util"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

const codeNotConfigured = "not_configured"

// writeError: body {"error": code, "message": ...}; status dari kode error.
func writeError(w http.ResponseWriter, err error) {
	code := codeOf(err)
	writeJSON(w, statusOf(code), map[string]any{"error": code, "message": err.Error()})
}

func codeOf(err error) string {
	switch {
	case errors.Is(err, services.ErrInsufficientData):
		return util.CodeInsufficientData
	case errors.Is(err, services.ErrFitDivergence):
		return util.CodeFitDivergence
	case errors.Is(err, economic.ErrMissingTemplateRow):
		return util.CodeMissingTemplateRow
	case errors.Is(err, mysqlrepo.ErrRunNotFound):
		return util.CodeNotFound
	case errors.Is(err, llm.ErrNotConfigured), errors.Is(err, pipeline.ErrNoEconomicStore):
		return codeNotConfigured
	}
	return util.CodeOf(err)
}

func statusOf(code string) int {
	switch code {
	case util.CodeBadInput:
		return http.StatusBadRequest
	case util.CodeNotFound:
		return http.StatusNotFound
	case util.CodeInsufficientData, util.CodeFitDivergence, util.CodeMissingTemplateRow:
		return http.StatusUnprocessableEntity
	case codeNotConfigured:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// decodeJSON: body kosong dianggap objek kosong.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
