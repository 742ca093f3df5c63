package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"campusEvents/internal/models/domain"
	"campusEvents/internal/repositories"
	"campusEvents/internal/transport/httpServer/handlers/dto"
	"campusEvents/internal/utils"
	"campusEvents/internal/utils/logger/sl"

	"github.com/go-chi/chi/v5"
)

type EventHandler struct {
	repository EventRepository
	log        *slog.Logger
}

func NewEventHandler(log *slog.Logger, repo EventRepository) *EventHandler {
	return &EventHandler{
		repository: repo,
		log:        log,
	}
}

// GetEvents обрабатывает GET /api/v1/events?q=...&category=...
// Без параметров возвращается весь каталог. Неизвестная категория — пустой список.
func (h *EventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.EventHandler.GetEvents()"
	log := h.log.With(slog.String("op", op))

	query := r.URL.Query().Get("q")
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	events, err := h.repository.SearchEvents(r.Context(), query, domain.Category(category))
	if err != nil {
		respondError(log, fmt.Errorf("failed to search events: %w", err), w, http.StatusInternalServerError)
		return
	}

	response := dto.EventListResponse{
		Query:    query,
		Category: category,
		Total:    len(events),
		Events:   dto.MapDomainToEventResponseList(events),
	}

	if err := utils.Json(w, http.StatusOK, response); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// GetEvent обрабатывает GET /api/v1/events/{eventId}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.EventHandler.GetEvent()"
	log := h.log.With(slog.String("op", op))

	id, ok := parseEventID(chi.URLParam(r, "eventId"))
	if !ok {
		respondError(log, fmt.Errorf("%w: %q", repositories.ErrEventNotFound, chi.URLParam(r, "eventId")), w, http.StatusNotFound)
		return
	}

	event, err := h.repository.FindEventByID(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrEventNotFound) {
			status = http.StatusNotFound
		}
		respondError(log, err, w, status)
		return
	}

	if err := utils.Json(w, http.StatusOK, dto.MapDomainToEventResponse(event)); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// parseEventID: нечисловой id ведёт себя как несуществующий.
func parseEventID(raw string) (int, bool) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}

func respondError(log *slog.Logger, err error, w http.ResponseWriter, status int) {
	if status >= http.StatusInternalServerError {
		log.Error("handler error", sl.Err(err))
	} else {
		log.Debug("handler error", sl.Err(err))
	}
	if httpErr := utils.Err(w, status, err); httpErr != nil {
		log.Error("error sending http response", sl.Err(httpErr))
	}
}
