package httpServer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"campusEvents/internal/config"
	"campusEvents/internal/transport/httpServer/routers"
	"campusEvents/internal/utils/logger/sl"

	"github.com/go-chi/chi/v5"
)

type HttpServer struct {
	log    *slog.Logger
	cfg    *config.Config
	server *http.Server
}

func NewHttpServer(log *slog.Logger, router *routers.Router, cfg *config.Config) *HttpServer {
	mux := chi.NewRouter()
	router.Mount(mux)

	return &HttpServer{
		log: log,
		cfg: cfg,
		server: &http.Server{
			Addr:         cfg.ListenAddr(),
			Handler:      mux,
			ReadTimeout:  cfg.HttpServer.Timeout,
			WriteTimeout: writeTimeout(cfg),
			IdleTimeout:  cfg.HttpServer.IdleTimeout,
		},
	}
}

// writeTimeout покрывает самый долгий запрос маршрута: ожидание первой
// позиции плюс вызов Directions API.
func writeTimeout(cfg *config.Config) time.Duration {
	return cfg.HttpServer.Timeout + cfg.Geolocation.Timeout + cfg.Mapbox.Timeout
}

// Listen блокируется до остановки сервера.
func (s *HttpServer) Listen() error {
	op := "httpServer.Listen()"
	log := s.log.With(slog.String("op", op))

	log.Info("http server started", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("http server failed", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *HttpServer) Shutdown(ctx context.Context) error {
	op := "httpServer.Shutdown()"

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
