package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"campusEvents/internal/geolocation"
	"campusEvents/internal/models/domain"
	"campusEvents/internal/orchestrator"
	"campusEvents/internal/repositories"
	"campusEvents/internal/transport/httpServer/handlers/dto"
	"campusEvents/internal/utils"
	"campusEvents/internal/utils/logger/sl"
	"campusEvents/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// MapHandler — API сессий страницы карты.
type MapHandler struct {
	orchestrator MapOrchestrator
	log          *slog.Logger
}

func NewMapHandler(log *slog.Logger, o MapOrchestrator) *MapHandler {
	return &MapHandler{
		orchestrator: o,
		log:          log,
	}
}

// OpenSession обрабатывает POST /api/v1/map/sessions
func (h *MapHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.MapHandler.OpenSession()"
	log := h.log.With(slog.String("op", op))

	snap, view, err := h.orchestrator.Open(r.Context())
	if err != nil {
		h.respondMapError(log, w, err)
		return
	}

	response := dto.MapSnapshotToResponse(snap)
	v := dto.MapViewToResponse(view)
	response.View = &v

	if err := utils.Json(w, http.StatusCreated, response); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// GetSession обрабатывает GET /api/v1/map/sessions/{sessionId}
func (h *MapHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.MapHandler.GetSession()"
	log := h.log.With(slog.String("op", op))

	id, ok := h.sessionID(log, w, r)
	if !ok {
		return
	}

	snap, err := h.orchestrator.Get(r.Context(), id)
	if err != nil {
		h.respondMapError(log, w, err)
		return
	}

	if err := utils.Json(w, http.StatusOK, dto.MapSnapshotToResponse(snap)); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// CloseSession обрабатывает DELETE /api/v1/map/sessions/{sessionId}
func (h *MapHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.MapHandler.CloseSession()"
	log := h.log.With(slog.String("op", op))

	id, ok := h.sessionID(log, w, r)
	if !ok {
		return
	}

	if err := h.orchestrator.Close(r.Context(), id); err != nil {
		h.respondMapError(log, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateLocation обрабатывает PUT /api/v1/map/sessions/{sessionId}/location
// Тело — либо {lng, lat, accuracy}, либо {errorCode, message}.
func (h *MapHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.MapHandler.UpdateLocation()"
	log := h.log.With(slog.String("op", op))

	id, ok := h.sessionID(log, w, r)
	if !ok {
		return
	}

	var req dto.LocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondBadRequest(log, w, fmt.Errorf("cannot decode json: %w", err))
		return
	}

	var err error
	switch {
	case req.ErrorCode != 0:
		err = h.orchestrator.ReportLocationError(r.Context(), id, geolocation.ErrorCode(req.ErrorCode), req.Message)
	case req.Lng == nil || req.Lat == nil:
		h.respondBadRequest(log, w, errors.New("lng and lat are required"))
		return
	default:
		err = h.orchestrator.UpdateLocation(r.Context(), id, domain.LngLat{*req.Lng, *req.Lat}, req.Accuracy)
	}

	if err != nil {
		h.respondMapError(log, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetDirections обрабатывает POST /api/v1/map/sessions/{sessionId}/directions
func (h *MapHandler) GetDirections(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.MapHandler.GetDirections()"
	log := h.log.With(slog.String("op", op))

	id, ok := h.sessionID(log, w, r)
	if !ok {
		return
	}

	var req dto.DirectionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondBadRequest(log, w, fmt.Errorf("cannot decode json: %w", err))
		return
	}

	overlay, err := h.orchestrator.GetDirections(r.Context(), id, req.EventID)
	if err != nil {
		h.respondMapError(log, w, err)
		return
	}

	if err := utils.Json(w, http.StatusOK, dto.MapOverlayToResponse(overlay)); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

func (h *MapHandler) sessionID(log *slog.Logger, w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "sessionId")
	id, err := uuid.Parse(raw)
	if err != nil {
		h.respond(log, w, http.StatusNotFound, dto.ErrorResponse{
			Error: fmt.Sprintf("map session %q not found", raw),
			Code:  dto.CodeSessionNotFound,
		})
		return uuid.Nil, false
	}
	return id, true
}

func (h *MapHandler) respondBadRequest(log *slog.Logger, w http.ResponseWriter, err error) {
	log.Debug("bad request", sl.Err(err))
	h.respond(log, w, http.StatusBadRequest, dto.ErrorResponse{Error: err.Error(), Code: dto.CodeBadRequest})
}

// respondMapError переводит ошибку оркестратора в статус и текст для пользователя.
func (h *MapHandler) respondMapError(log *slog.Logger, w http.ResponseWriter, err error) {
	var (
		status int
		resp   dto.ErrorResponse
	)

	switch {
	case errors.Is(err, orchestrator.ErrLocationUnknown):
		status, resp = http.StatusConflict, dto.ErrorResponse{Error: web.MsgLocationRequired, Code: dto.CodeLocationRequired}
	case errors.Is(err, orchestrator.ErrSuperseded):
		status, resp = http.StatusConflict, dto.ErrorResponse{Error: "directions request superseded", Code: dto.CodeSuperseded}
	case errors.Is(err, orchestrator.ErrSessionNotFound):
		status, resp = http.StatusNotFound, dto.ErrorResponse{Error: "map session not found", Code: dto.CodeSessionNotFound}
	case errors.Is(err, orchestrator.ErrSessionClosed):
		status, resp = http.StatusGone, dto.ErrorResponse{Error: "map session closed", Code: dto.CodeSessionClosed}
	case errors.Is(err, repositories.ErrEventNotFound):
		status, resp = http.StatusNotFound, dto.ErrorResponse{Error: "Event not found", Code: dto.CodeEventNotFound}
	case errors.Is(err, geolocation.ErrInvalidPosition):
		status, resp = http.StatusBadRequest, dto.ErrorResponse{Error: err.Error(), Code: dto.CodeBadRequest}
	default:
		status, resp = http.StatusBadGateway, dto.ErrorResponse{Error: web.MsgDirectionsFailed, Code: dto.CodeDirectionsFailed, Retryable: orchestrator.IsRetryable(err)}
	}

	if status >= http.StatusInternalServerError {
		log.Error("map request failed", sl.Err(err))
	} else {
		log.Debug("map request rejected", sl.Err(err), slog.Int("status", status))
	}

	h.respond(log, w, status, resp)
}

func (h *MapHandler) respond(log *slog.Logger, w http.ResponseWriter, status int, resp dto.ErrorResponse) {
	if err := utils.Json(w, status, resp); err != nil {
		log.Error("error sending http response", sl.Err(err))
	}
}
