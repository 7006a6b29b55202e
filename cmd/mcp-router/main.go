// cmd/mcp-router/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"dca-oilgas/internal/app"
	"dca-oilgas/internal/config"
	mcphandlers "dca-oilgas/internal/handlers/mcp"
	"dca-oilgas/internal/mcp"
	"dca-oilgas/internal/server"
	"dca-oilgas/internal/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := util.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, closeFn, err := app.Bootstrap(ctx, cfg, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer closeFn()

	mcphandlers.SetRunner(deps.Runner)
	mcphandlers.SetProductionRepo(deps.Production)
	mcphandlers.SetResultRepo(deps.Results)
	app.RegisterMCPTools(mcp.Default())

	srv := &http.Server{
		Addr:         cfg.HTTP.MCPAddr,
		Handler:      server.NewMCPRouter(mcp.Default(), cfg.APIKey, log),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	log.Info("MCP router listening", zap.String("addr", srv.Addr), zap.Strings("tools", mcp.List()))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("listen", zap.Error(err))
	}
}
