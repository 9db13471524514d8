// @title           Chaos Demo Todo API
// @version         1.0
// @description     In-memory todo API with five-minute auto-expiration, built to be paired with chaos-injection tooling.
// @host            localhost:8080
// @BasePath        /api
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shovanmaity/chaos-demo-app/internal/app"
	"github.com/shovanmaity/chaos-demo-app/internal/config"

	_ "github.com/shovanmaity/chaos-demo-app/docs"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	slog.Info("config loaded",
		"app", cfg.App.Name,
		"env", cfg.App.Env,
		"todo_ttl", cfg.Store.TTL.Duration(),
		"sweep_interval", cfg.Store.SweepInterval.Duration(),
		"emissary_url", cfg.Emissary.URL,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	application := app.New(cfg)

	// Background loops: store janitor and websocket hub.
	go application.Run(ctx)

	// Hot-reloadable emissary settings, when a settings file is configured.
	if path := cfg.Emissary.SettingsPath; path != "" {
		if s, err := config.LoadSettings(path); err == nil {
			application.Emissary().Apply(s.Emissary.URL, s.Emissary.Enabled)
		} else {
			slog.Warn("emissary settings not loaded, using env config", "path", path, "err", err)
		}
		go func() {
			if err := config.WatchSettings(ctx, path, func(s *config.Settings) {
				application.Emissary().Apply(s.Emissary.URL, s.Emissary.Enabled)
			}); err != nil {
				slog.Error("settings watcher stopped", "err", err)
			}
		}()
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTP.Port,
		Handler:      application.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
		IdleTimeout:  cfg.HTTP.IdleTimeout.Duration(),
	}

	go func() {
		slog.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
		os.Exit(1)
	}
}
