package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"campusEvents/internal/config"
	"campusEvents/internal/models/domain"
	"campusEvents/internal/repositories"
	"campusEvents/internal/transport/httpServer/handlers/dto"
	"campusEvents/internal/utils/logger/sl"
	"campusEvents/internal/web"

	"github.com/go-chi/chi/v5"
)

const (
	featuredCount   = 3
	detailMapZoom   = 16
	sessionsAPIPath = "/api/v1/map/sessions"
)

// PageHandler отдаёт HTML-страницы приложения.
type PageHandler struct {
	log          *slog.Logger
	cfg          *config.Config
	events       EventRepository
	profiles     ProfileRepository
	orchestrator MapOrchestrator
	renderer     Renderer
}

func NewPageHandler(log *slog.Logger, cfg *config.Config, events EventRepository, profiles ProfileRepository, o MapOrchestrator, renderer Renderer) *PageHandler {
	return &PageHandler{
		log:          log,
		cfg:          cfg,
		events:       events,
		profiles:     profiles,
		orchestrator: o,
		renderer:     renderer,
	}
}

// Home — GET /
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.PageHandler.Home()"
	log := h.log.With(slog.String("op", op))

	upcoming, err := h.events.UpcomingEvents(r.Context(), featuredCount)
	if err != nil {
		h.serverError(log, w, r, err)
		return
	}

	h.render(log, w, http.StatusOK, "home", web.NewPage("Home", r.URL.Path, web.HomeContent{Upcoming: upcoming}))
}

// Events — GET /events?q=...&category=...
func (h *PageHandler) Events(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.PageHandler.Events()"
	log := h.log.With(slog.String("op", op))

	query := r.URL.Query().Get("q")
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	events, err := h.events.SearchEvents(r.Context(), query, domain.Category(category))
	if err != nil {
		h.serverError(log, w, r, err)
		return
	}

	content := web.EventsContent{
		Query:      query,
		Category:   category,
		Categories: domain.Categories(),
		Events:     events,
		Empty:      web.MsgNoEvents,
	}

	h.render(log, w, http.StatusOK, "events", web.NewPage("Events", r.URL.Path, content))
}

// EventDetail — GET /events/{eventId}. Неизвестный или нечисловой id даёт 404-страницу.
func (h *PageHandler) EventDetail(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.PageHandler.EventDetail()"
	log := h.log.With(slog.String("op", op))

	id, ok := parseEventID(chi.URLParam(r, "eventId"))
	if !ok {
		h.eventNotFound(log, w, r)
		return
	}

	event, err := h.events.FindEventByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			h.eventNotFound(log, w, r)
			return
		}
		h.serverError(log, w, r, err)
		return
	}

	content := web.EventDetailContent{
		Event: event,
		Map: web.DetailMapConfig{
			AccessToken: h.cfg.Mapbox.AccessToken,
			Style:       h.cfg.Mapbox.StyleURL,
			Center:      event.Coordinates.LngLat(),
			Zoom:        detailMapZoom,
			Marker:      markerConfig(event),
		},
	}

	page := web.NewPage(event.Title, r.URL.Path, content).WithMap("/static/js/detail-map.js")
	h.render(log, w, http.StatusOK, "event_detail", page)
}

// Map — GET /map. Сессию открывает скрипт страницы через API.
func (h *PageHandler) Map(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.PageHandler.Map()"
	log := h.log.With(slog.String("op", op))

	view, err := h.orchestrator.View(r.Context())
	if err != nil {
		h.serverError(log, w, r, err)
		return
	}

	featured := view.Markers
	if len(featured) > featuredCount {
		featured = featured[:featuredCount]
	}

	markers := make([]web.MarkerConfig, len(view.Markers))
	for i, e := range view.Markers {
		markers[i] = markerConfig(e)
	}

	geo := h.cfg.Geolocation
	content := web.MapContent{
		CampusName: view.CampusName,
		Featured:   featured,
		Tips:       web.MapTips,
		Config: web.MapPageConfig{
			AccessToken: h.cfg.Mapbox.AccessToken,
			Style:       h.cfg.Mapbox.StyleURL,
			Bounds:      dto.MapBoundsToPair(view.Bounds),
			Center:      view.Center,
			Zoom:        view.Zoom,
			MinZoom:     view.MinZoom,
			MaxZoom:     view.MaxZoom,
			Outline:     view.Bounds.Polygon(),
			Markers:     markers,
			Geolocation: web.GeolocationOptions{
				EnableHighAccuracy: geo.EnableHighAccuracy,
				Timeout:            geo.Timeout.Milliseconds(),
				MaximumAge:         geo.MaximumAge.Milliseconds(),
			},
			SessionsURL: sessionsAPIPath,
			Messages:    web.DefaultMapMessages(),
		},
	}

	page := web.NewPage("Campus Map", r.URL.Path, content).WithMap("/static/js/campus-map.js")
	h.render(log, w, http.StatusOK, "map", page)
}

// Profile — GET /profile?tab=upcoming|past|settings
func (h *PageHandler) Profile(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.PageHandler.Profile()"
	log := h.log.With(slog.String("op", op))

	profile, err := h.profiles.ReadProfile(r.Context())
	if err != nil {
		h.serverError(log, w, r, err)
		return
	}

	tab := domain.ParseProfileTab(r.URL.Query().Get("tab"))

	tabs := []web.ProfileTabLink{
		{Tab: domain.ProfileTabUpcoming, Label: "Upcoming Events"},
		{Tab: domain.ProfileTabPast, Label: "Past Events"},
		{Tab: domain.ProfileTabSettings, Label: "Settings"},
	}
	for i := range tabs {
		tabs[i].Href = "/profile?tab=" + string(tabs[i].Tab)
		tabs[i].Active = tabs[i].Tab == tab
	}

	content := web.ProfileContent{
		Profile: profile,
		Tab:     tab,
		Tabs:    tabs,
		Groups:  profile.SettingsByGroup(),
	}

	h.render(log, w, http.StatusOK, "profile", web.NewPage("Profile", r.URL.Path, content))
}

// NotFound — любой неизвестный путь.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.PageHandler.NotFound()"
	log := h.log.With(slog.String("op", op))

	content := web.NotFoundContent{
		Heading:  "Page not found",
		Message:  "The page you're looking for doesn't exist.",
		BackHref: "/",
		BackText: "← Back to Home",
	}
	h.render(log, w, http.StatusNotFound, "not_found", web.NewPage("Not found", r.URL.Path, content))
}

func (h *PageHandler) eventNotFound(log *slog.Logger, w http.ResponseWriter, r *http.Request) {
	log.Debug("event not found", slog.String("id", chi.URLParam(r, "eventId")))

	content := web.NotFoundContent{
		Heading:  "Event not found",
		Message:  "The event you're looking for doesn't exist or has been removed.",
		BackHref: "/events",
		BackText: "← Back to Events",
	}
	h.render(log, w, http.StatusNotFound, "not_found", web.NewPage("Event not found", r.URL.Path, content))
}

func (h *PageHandler) serverError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	log.Error("page failed", sl.Err(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *PageHandler) render(log *slog.Logger, w http.ResponseWriter, status int, name string, page web.Page) {
	if err := h.renderer.Render(w, status, name, page); err != nil {
		log.Error("error rendering page", slog.String("page", name), sl.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func markerConfig(e domain.Event) web.MarkerConfig {
	return web.MarkerConfig{
		ID:         e.ID,
		LngLat:     e.Coordinates.LngLat(),
		Title:      e.Title,
		Date:       e.Date,
		Time:       e.Time,
		Location:   e.Location,
		DetailsURL: dto.EventURL(e.ID),
	}
}
