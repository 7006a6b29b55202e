// internal/server/router.go
// Router chi untuk binary mcp-router (MCP saja, tanpa REST/admin)
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"dca-oilgas/internal/mcp"
	"dca-oilgas/internal/middleware"
)

func NewMCPRouter(g *mcp.Registry, apiKey string, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer, middleware.AccessLog(log))

	// Healthcheck (biar gampang cek port/path)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKey(apiKey))
		r.Get("/tools", func(w http.ResponseWriter, r *http.Request) {
			defs, err := mcp.LoadToolDefs()
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			render.JSON(w, r, render.M{"tools": defs, "registered": g.List()})
		})
		r.Method(http.MethodPost, "/route", mcp.NewRouter(g, log))
		r.HandleFunc("/tools/{name}", func(w http.ResponseWriter, r *http.Request) {
			h, ok := g.Get(chi.URLParam(r, "name"))
			if !ok {
				http.Error(w, "tool not found", http.StatusNotFound)
				return
			}
			h.ServeHTTP(w, r)
		})
	})
	return r
}
