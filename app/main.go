package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"campusEvents/internal/config"
	"campusEvents/internal/graceful"
	"campusEvents/internal/mapbox"
	"campusEvents/internal/metrics"
	"campusEvents/internal/orchestrator"
	"campusEvents/internal/repositories"
	"campusEvents/internal/transport/httpServer"
	"campusEvents/internal/transport/httpServer/handlers"
	"campusEvents/internal/transport/httpServer/routers"
	"campusEvents/internal/utils/logger/handlers/slogpretty"
	"campusEvents/internal/utils/logger/sl"
	"campusEvents/internal/web"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

var Version = "0.1"

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info(
		"starting campus events",
		slog.String("env", cfg.Env),
		slog.String("version", Version),
		slog.String("config", cfg.Path()),
	)

	repositoryService, err := repositories.New(log, cfg)
	if err != nil {
		log.Error("failed to load catalog", sl.Err(err))
		os.Exit(1)
	}

	metricsService := metrics.New()
	directionsClient := mapbox.NewClient(log, cfg, metricsService)
	orchestratorService := orchestrator.New(log, cfg, repositoryService, directionsClient, metricsService)

	renderer, err := web.NewRenderer(log)
	if err != nil {
		log.Error("failed to parse templates", sl.Err(err))
		os.Exit(1)
	}

	// HTTP Server
	eventHandler := handlers.NewEventHandler(log, repositoryService)
	mapHandler := handlers.NewMapHandler(log, orchestratorService)
	pageHandler := handlers.NewPageHandler(log, cfg, repositoryService, repositoryService, orchestratorService, renderer)

	var exposed *metrics.Metrics
	if cfg.Metrics.Enabled {
		exposed = metricsService
	}
	router := routers.NewRouter(log, eventHandler, mapHandler, pageHandler, exposed)
	httpSrv := httpServer.NewHttpServer(log, router, cfg)

	maxSecond := 15 * time.Second
	waitShutdown := graceful.GracefulShutdown(
		context.Background(),
		maxSecond,
		map[string]graceful.Operation{
			"HTTP server": func(ctx context.Context) error {
				return httpSrv.Shutdown(ctx)
			},
			"Map sessions": func(ctx context.Context) error {
				return orchestratorService.Shutdown(ctx)
			},
			"Repository service": func(ctx context.Context) error {
				return repositoryService.Shutdown(ctx)
			},
		},
		log,
	)

	go httpSrv.Listen()

	<-waitShutdown
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog(slog.LevelDebug)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = setupPrettySlog(slog.LevelInfo)
	default: // If env config is invalid, set prod settings by default due to security
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog(level slog.Level) *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: level,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
