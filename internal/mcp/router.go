// internal/mcp/router.go
// Router MCP: menerima request lalu memilih & mengeksekusi tool.

package mcp

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// maksimal route per request multi-route
const maxRoutes = 8

// Router memilih tool (explicit "tool", atau keyword dari "question") lalu
// meneruskan payload sebagai body ke handler tool.
type Router struct {
	Registry *Registry
	Log      *zap.Logger
}

func NewRouter(g *Registry, log *zap.Logger) *Router {
	if g == nil {
		g = reg
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{Registry: g, Log: log}
}

// simple recorder untuk menangkap output handler per-route
type respRecorder struct {
	status int
	hdr    http.Header
	buf    []byte
}

func (r *respRecorder) Header() http.Header {
	if r.hdr == nil {
		r.hdr = http.Header{}
	}
	return r.hdr
}
func (r *respRecorder) WriteHeader(code int) { r.status = code }
func (r *respRecorder) Write(b []byte) (int, error) {
	r.buf = append(r.buf, b...)
	return len(b), nil
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := rt.Log.With(zap.String("event", "mcp.route"), zap.String("request_id", r.Header.Get("X-Request-ID")))

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("read body", zap.Error(err))
		http.Error(w, "read body error", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var req ToolRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		log.Warn("invalid json", zap.Error(err))
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	// ===== multi-route =====
	if len(req.Routes) > 0 {
		rt.serveRoutes(w, r, req.Routes, log)
		log.Info("routes executed", zap.Int("routes", len(req.Routes)), zap.Duration("took", time.Since(start)))
		return
	}

	tool, decision := strings.TrimSpace(req.Tool), "explicit"
	if tool == "" {
		tool, decision = ChooseTool(req.Question), "keyword"
	}
	log = log.With(zap.String("chosen_tool", tool), zap.String("decision_by", decision))
	if tool == "" {
		log.Warn("no tool matched", zap.String("question", req.Question))
		writeToolError(w, http.StatusBadRequest, "tool is required")
		return
	}

	h, ok := rt.Registry.Get(tool)
	if !ok {
		log.Warn("tool not found")
		writeToolError(w, http.StatusNotFound, "tool not found: "+tool)
		return
	}

	// handler menerima hanya payload JSON (tanpa envelope)
	body := req.body()
	if len(body) == 0 {
		body = json.RawMessage("{}")
	}
	r2 := r.Clone(r.Context())
	r2.Body = io.NopCloser(bytes.NewReader(body))
	r2.ContentLength = int64(len(body))
	r2.Header.Set("Content-Type", "application/json")

	h.ServeHTTP(w, r2)
	log.Info("tool executed", zap.Duration("took", time.Since(start)))
}

func (rt *Router) serveRoutes(w http.ResponseWriter, r *http.Request, routes []Route, log *zap.Logger) {
	if len(routes) > maxRoutes {
		routes = routes[:maxRoutes]
	}
	results := make([]map[string]any, 0, len(routes))
	for _, route := range routes {
		h, ok := rt.Registry.Get(route.Tool)
		if !ok {
			results = append(results, map[string]any{"tool": route.Tool, "status": http.StatusNotFound, "error": "tool not found"})
			continue
		}
		body := route.Payload
		if len(body) == 0 {
			body = json.RawMessage("{}")
		}
		r2 := r.Clone(r.Context())
		r2.Body = io.NopCloser(bytes.NewReader(body))
		r2.ContentLength = int64(len(body))
		r2.Header.Set("Content-Type", "application/json")

		rec := &respRecorder{}
		h.ServeHTTP(rec, r2)
		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}

		item := map[string]any{"tool": route.Tool, "status": status}
		if status >= 400 {
			item["error"] = strings.TrimSpace(string(rec.buf))
			log.Warn("route failed", zap.String("tool", route.Tool), zap.Int("status", status))
		} else {
			var out any
			if err := json.Unmarshal(rec.buf, &out); err != nil {
				out = string(rec.buf) // fallback non-JSON
			}
			item["result"] = out
		}
		results = append(results, item)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(ToolResponse{Success: true, Data: results})
}

func writeToolError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ToolResponse{Success: false, Error: msg})
}

// ChooseTool memilih tool dari katalog berdasarkan keyword terbanyak di pertanyaan.
// Seri -> urutan katalog. Tidak ada yang cocok -> "".
func ChooseTool(question string) string {
	q := strings.ToLower(question)
	if strings.TrimSpace(q) == "" {
		return ""
	}
	defs, err := LoadToolDefs()
	if err != nil {
		return ""
	}
	best, bestScore := "", 0
	for _, d := range defs {
		score := 0
		for _, k := range d.Keywords {
			if strings.Contains(q, k) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = d.Name, score
		}
	}
	return best
}
