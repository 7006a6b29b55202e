// internal/app/routes_test.go

package app_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apppkg "dca-oilgas/internal/app"
	"dca-oilgas/internal/config"
	"dca-oilgas/internal/middleware"
	"dca-oilgas/internal/pipeline"
	"dca-oilgas/internal/services"
)

func testConfig() *config.Config {
	return &config.Config{
		APIKey: "k1",
		HTTP:   config.HTTPConfig{AllowedOrigins: []string{"*"}},
		Admin:  config.AdminConfig{User: "admin", JWTSecret: "s3cret", TokenTTL: time.Hour},
	}
}

func testApp(t *testing.T) *apppkg.App {
	t.Helper()
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	m := services.NewHyperbolic(services.DefaultB)
	var recs []services.ProductionRecord
	for i := 0; i < 10; i++ {
		q := m.Rate(float64(i*30), 800, 0.01)
		recs = append(recs, services.ProductionRecord{
			WellID: "P-1", Date: base.AddDate(0, i, 0),
			Oil:   sql.NullFloat64{Float64: q, Valid: true},
			Gas:   sql.NullFloat64{Float64: q, Valid: true},
			Water: sql.NullFloat64{Float64: q / 3, Valid: true},
		})
	}
	runner := &pipeline.Runner{
		Processor: services.NewWellProcessor(services.DefaultPolicy(), 2000, nil),
		Source:    services.NewRecordSet(recs),
		Workers:   1,
	}
	return apppkg.New(testConfig(), apppkg.Deps{Runner: runner})
}

func serve(a *apppkg.App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	return rec
}

// Pastikan /admin/* diproteksi (tanpa auth tidak boleh 200)
func TestAdminRoutesProtected(t *testing.T) {
	a := testApp(t)
	rec := serve(a, httptest.NewRequest(http.MethodPost, "/admin/dca/run", bytes.NewBufferString(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, _, err := middleware.GenerateAdminToken("s3cret", "admin", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/admin/dca/run", bytes.NewBufferString(`{"workers":1}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec = serve(a, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(t, out["run_id"])
}

// Sanity check: public endpoints tetap 200
func TestPublicRoutesHealthy(t *testing.T) {
	a := testApp(t)
	for _, p := range []string{"/healthz", "/readyz", "/metrics", "/debug/repos"} {
		rec := serve(a, httptest.NewRequest(http.MethodGet, p, nil))
		assert.Equal(t, http.StatusOK, rec.Code, p)
	}
	assert.NotEmpty(t, serve(a, httptest.NewRequest(http.MethodGet, "/healthz", nil)).Header().Get("X-Request-ID"))
}

func TestAPIRequiresKey(t *testing.T) {
	a := testApp(t)
	rec := serve(a, httptest.NewRequest(http.MethodGet, "/api/wells", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/wells/P-1/fit", nil)
	req.Header.Set("X-API-Key", "k1")
	rec = serve(a, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var ws services.WellSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ws))
	assert.Equal(t, "P-1", ws.WellID)
}

func TestMCPRouteAndDirectTool(t *testing.T) {
	a := testApp(t)
	assert.Contains(t, a.Tools.List(), "dca_fit_well")

	body := `{"tool":"dca_fit_well","payload":{"well_id":"P-1"}}`
	req := httptest.NewRequest(http.MethodPost, "/mcp/route", bytes.NewBufferString(body))
	req.Header.Set("X-API-Key", "k1")
	rec := serve(a, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"well_id":"P-1"`)

	req = httptest.NewRequest(http.MethodGet, "/mcp/dca_list_wells", nil)
	req.Header.Set("X-API-Key", "k1")
	rec = serve(a, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "P-1")
}

func TestPreflight(t *testing.T) {
	a := testApp(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/wells", nil)
	req.Header.Set("Origin", "https://ui.example")
	rec := serve(a, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
