// internal/app/app.go
package app

import (
	"context"
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"dca-oilgas/internal/config"
	mcphandlers "dca-oilgas/internal/handlers/mcp"
	"dca-oilgas/internal/mcp"
	"dca-oilgas/internal/middleware"
)

// App menampung router utama
type App struct {
	Router *mux.Router
	Tools  *mcp.Registry
	cfg    *config.Config
	log    *zap.Logger
}

// New membuat instance App + registrasi semua routes (HTTP & MCP)
func New(cfg *config.Config, d Deps) *App {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	r := mux.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.AccessLog(d.Log),
		middleware.CORS(cfg.HTTP.AllowedOrigins),
	)

	// === Inject repos ke handler MCP ===
	if d.Runner != nil {
		mcphandlers.SetRunner(d.Runner)
	}
	if d.Production != nil {
		mcphandlers.SetProductionRepo(d.Production)
	}
	if d.Results != nil {
		mcphandlers.SetResultRepo(d.Results)
	}

	// ---- MCP (Model Context Protocol) ----
	tools := mcp.NewRegistry()
	RegisterMCPTools(tools)

	RegisterRoutes(r, cfg, d, tools)
	return &App{Router: r, Tools: tools, cfg: cfg, log: d.Log}
}

// Run menjalankan server HTTP sampai ctx selesai, lalu graceful shutdown.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         a.cfg.HTTP.Addr,
		Handler:      a.Router,
		ReadTimeout:  a.cfg.HTTP.ReadTimeout,
		WriteTimeout: a.cfg.HTTP.WriteTimeout,
		IdleTimeout:  a.cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("api listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down server")
	sctx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}

// ----------------- MCP Wiring -----------------

// RegisterMCPTools mendaftarkan semua tool MCP ke registry.
func RegisterMCPTools(g *mcp.Registry) {
	// DCA
	g.Register("dca_fit_well", http.HandlerFunc(mcphandlers.DCAFitWellHandler))
	g.Register("dca_list_wells", http.HandlerFunc(mcphandlers.DCAListWellsHandler))
	g.Register("dca_run_results", http.HandlerFunc(mcphandlers.DCARunResultsHandler))
	g.Register("dca_fit_anomalies", http.HandlerFunc(mcphandlers.DCAFitAnomaliesHandler))

	// data mentah
	g.Register("get_production", http.HandlerFunc(mcphandlers.GetProductionHandler))
}
