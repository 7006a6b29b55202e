// internal/app/routes.go
package app

import (
	"net/http"

	"github.com/gorilla/mux"

	"dca-oilgas/internal/config"
	hh "dca-oilgas/internal/handlers/http"
	mcphandlers "dca-oilgas/internal/handlers/mcp"
	"dca-oilgas/internal/mcp"
	"dca-oilgas/internal/middleware"
)

// RegisterRoutes menambahkan route HTTP, MCP, dan admin.
func RegisterRoutes(r *mux.Router, cfg *config.Config, d Deps, tools *mcp.Registry) {
	var pinger hh.Pinger
	if d.DB != nil {
		pinger = d.DB
	}
	dca := hh.DCADeps{Runner: d.Runner, Results: d.Results, Narrator: d.Narrator, Log: d.Log}
	admin := hh.AdminDeps{Runner: d.Runner, Log: d.Log}
	// satu bucket bersama untuk LLM + population run
	expensive := middleware.RateLimit(cfg.HTTP.ExpensiveRPS, cfg.HTTP.ExpensiveBurst)
	login := hh.NewLoginHandler(hh.LoginDeps{
		User:      cfg.Admin.User,
		PassHash:  cfg.Admin.PassHash,
		JWTSecret: cfg.Admin.JWTSecret,
		TTL:       cfg.Admin.TokenTTL,
	})

	// --- no prefix ---
	r.HandleFunc("/healthz", hh.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/readyz", hh.NewReadyHandler(pinger)).Methods(http.MethodGet)
	r.Handle("/metrics", hh.MetricsHandler).Methods(http.MethodGet)
	r.HandleFunc("/login", login).Methods(http.MethodPost)
	r.HandleFunc("/debug/repos", hh.ReposStatusHandler).Methods(http.MethodGet)

	// --- /api prefix (API key bila DCA_API_KEY diset) ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.APIKey(cfg.APIKey))
	api.HandleFunc("/wells", hh.NewListWellsHandler(dca)).Methods(http.MethodGet)
	api.HandleFunc("/wells/{well_id}/fit", hh.NewFitWellHandler(dca)).Methods(http.MethodGet)
	api.HandleFunc("/wells/{well_id}/forecast", hh.NewForecastHandler(dca)).Methods(http.MethodGet)
	api.Handle("/wells/{well_id}/commentary", expensive(hh.NewCommentaryHandler(dca))).Methods(http.MethodGet)
	api.HandleFunc("/dca/runs/{run_id}", hh.NewRunResultsHandler(dca)).Methods(http.MethodGet)
	api.HandleFunc("/production", mcphandlers.GetProductionHandler).Methods(http.MethodGet, http.MethodPost)

	// --- MCP ---
	m := r.PathPrefix("/mcp").Subrouter()
	m.Use(middleware.APIKey(cfg.APIKey))
	m.Handle("/route", mcp.NewRouter(tools, d.Log)).Methods(http.MethodPost)
	// Endpoint langsung per tool (memudahkan debug/manual curl)
	for _, name := range tools.List() {
		h, _ := tools.Get(name)
		m.Handle("/"+name, h).Methods(http.MethodGet, http.MethodPost)
	}

	// Admin (JWT protected)
	adm := r.PathPrefix("/admin").Subrouter()
	adm.Use(middleware.AdminJWT(cfg.Admin.JWTSecret), middleware.RequireRole("admin"))
	adm.Handle("/dca/run", expensive(hh.NewAdminRunHandler(admin))).Methods(http.MethodPost)
	adm.Handle("/dca/run/stream", expensive(hh.NewAdminRunStreamHandler(admin))).Methods(http.MethodGet)

	// Preflight catch-all (CORS middleware yang menjawab)
	r.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(hh.PreflightHandler)
}
