package routers

import (
	"log/slog"
	"net/http"

	"campusEvents/internal/metrics"
	"campusEvents/internal/transport/httpServer/handlers"
	myMiddleware "campusEvents/internal/transport/httpServer/middleware"
	"campusEvents/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Router struct {
	log          *slog.Logger
	eventHandler *handlers.EventHandler
	mapHandler   *handlers.MapHandler
	pageHandler  *handlers.PageHandler
	metrics      *metrics.Metrics
}

// NewRouter. metrics может быть nil — тогда /metrics не публикуется.
func NewRouter(log *slog.Logger, eventHandler *handlers.EventHandler, mapHandler *handlers.MapHandler, pageHandler *handlers.PageHandler, m *metrics.Metrics) *Router {
	return &Router{
		log:          log,
		eventHandler: eventHandler,
		mapHandler:   mapHandler,
		pageHandler:  pageHandler,
		metrics:      m,
	}
}

func (r *Router) Mount(mux *chi.Mux) {

	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)
	mux.Use(cors.AllowAll().Handler)
	mux.Use(myMiddleware.Logger(r.log))
	if r.metrics != nil {
		mux.Use(myMiddleware.Metrics(r.metrics))
	}
	mux.Use(middleware.Heartbeat("/ping"))

	mux.Get("/", r.pageHandler.Home)
	mux.Get("/events", r.pageHandler.Events)
	mux.Get("/events/{eventId}", r.pageHandler.EventDetail)
	mux.Get("/map", r.pageHandler.Map)
	mux.Get("/profile", r.pageHandler.Profile)

	mux.Handle("/static/*", http.StripPrefix("/static", web.Static()))

	mux.Route("/api", func(mux chi.Router) {
		mux.Route("/v1", func(mux chi.Router) {
			mux.Route("/events", func(mux chi.Router) {
				mux.Get("/", r.eventHandler.GetEvents)
				mux.Get("/{eventId}", r.eventHandler.GetEvent)
			})
			mux.Route("/map/sessions", func(mux chi.Router) {
				mux.Post("/", r.mapHandler.OpenSession)
				mux.Route("/{sessionId}", func(mux chi.Router) {
					mux.Get("/", r.mapHandler.GetSession)
					mux.Delete("/", r.mapHandler.CloseSession)
					mux.Put("/location", r.mapHandler.UpdateLocation)
					mux.Post("/directions", r.mapHandler.GetDirections)
				})
			})
		})
	})

	if r.metrics != nil {
		mux.Handle("/metrics", r.metrics.Handler())
	}

	mux.NotFound(r.pageHandler.NotFound)
}
