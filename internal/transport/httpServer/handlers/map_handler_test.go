package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"campusEvents/internal/geolocation"
	"campusEvents/internal/mapbox"
	"campusEvents/internal/models/domain"
	"campusEvents/internal/orchestrator"
	"campusEvents/internal/repositories"
	"campusEvents/internal/transport/httpServer/handlers/dto"
	"campusEvents/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockOrchestrator struct {
	mock.Mock
}

func (m *mockOrchestrator) View(ctx context.Context) (orchestrator.View, error) {
	args := m.Called(ctx)
	return args.Get(0).(orchestrator.View), args.Error(1)
}

func (m *mockOrchestrator) Open(ctx context.Context) (orchestrator.Snapshot, orchestrator.View, error) {
	args := m.Called(ctx)
	return args.Get(0).(orchestrator.Snapshot), args.Get(1).(orchestrator.View), args.Error(2)
}

func (m *mockOrchestrator) Get(ctx context.Context, id uuid.UUID) (orchestrator.Snapshot, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(orchestrator.Snapshot), args.Error(1)
}

func (m *mockOrchestrator) Close(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockOrchestrator) UpdateLocation(ctx context.Context, id uuid.UUID, p domain.LngLat, accuracy float64) error {
	return m.Called(ctx, id, p, accuracy).Error(0)
}

func (m *mockOrchestrator) ReportLocationError(ctx context.Context, id uuid.UUID, code geolocation.ErrorCode, message string) error {
	return m.Called(ctx, id, code, message).Error(0)
}

func (m *mockOrchestrator) GetDirections(ctx context.Context, id uuid.UUID, eventID int) (orchestrator.Overlay, error) {
	args := m.Called(ctx, id, eventID)
	return args.Get(0).(orchestrator.Overlay), args.Error(1)
}

func newMapMux(o MapOrchestrator) *chi.Mux {
	h := NewMapHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), o)
	mux := chi.NewRouter()
	mux.Post("/sessions", h.OpenSession)
	mux.Get("/sessions/{sessionId}", h.GetSession)
	mux.Delete("/sessions/{sessionId}", h.CloseSession)
	mux.Put("/sessions/{sessionId}/location", h.UpdateLocation)
	mux.Post("/sessions/{sessionId}/directions", h.GetDirections)
	return mux
}

func serve(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestGetDirections_ErrorMapping(t *testing.T) {
	id := uuid.New()
	wrap := func(err error) error { return fmt.Errorf("Orchestrator.GetDirections(): %w", err) }

	tests := []struct {
		name      string
		err       error
		status    int
		code      string
		message   string
		retryable bool
	}{
		{
			name:    "location unknown",
			err:     wrap(fmt.Errorf("%w: %w", orchestrator.ErrLocationUnknown, geolocation.ErrTimeout)),
			status:  http.StatusConflict,
			code:    dto.CodeLocationRequired,
			message: web.MsgLocationRequired,
		},
		{
			name:   "superseded by a newer request",
			err:    wrap(orchestrator.ErrSuperseded),
			status: http.StatusConflict,
			code:   dto.CodeSuperseded,
		},
		{
			name:   "session closed mid-request",
			err:    wrap(orchestrator.ErrSessionClosed),
			status: http.StatusGone,
			code:   dto.CodeSessionClosed,
		},
		{
			name:   "session expired",
			err:    wrap(orchestrator.ErrSessionNotFound),
			status: http.StatusNotFound,
			code:   dto.CodeSessionNotFound,
		},
		{
			name:    "unknown event",
			err:     wrap(fmt.Errorf("repository: %w", repositories.ErrEventNotFound)),
			status:  http.StatusNotFound,
			code:    dto.CodeEventNotFound,
			message: "Event not found",
		},
		{
			name:      "upstream 5xx",
			err:       wrap(fmt.Errorf("%w: 503", mapbox.ErrUnexpectedStatus)),
			status:    http.StatusBadGateway,
			code:      dto.CodeDirectionsFailed,
			message:   web.MsgDirectionsFailed,
			retryable: true,
		},
		{
			name:      "no route",
			err:       wrap(fmt.Errorf("%w: NoRoute", mapbox.ErrNoRoute)),
			status:    http.StatusBadGateway,
			code:      dto.CodeDirectionsFailed,
			message:   web.MsgDirectionsFailed,
			retryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &mockOrchestrator{}
			o.On("GetDirections", mock.Anything, id, 3).Return(orchestrator.Overlay{}, tt.err)

			rec := serve(newMapMux(o), http.MethodPost, "/sessions/"+id.String()+"/directions", `{"eventId":3}`)

			require.Equal(t, tt.status, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tt.code, resp.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, resp.Error)
			}
			assert.Equal(t, tt.retryable, resp.Retryable)
			o.AssertExpectations(t)
		})
	}
}

func TestGetDirections_Success(t *testing.T) {
	id := uuid.New()
	routeID := uuid.New()
	fit := domain.Bounds{West: -80.103, South: 26.371, East: -80.101, North: 26.373}

	o := &mockOrchestrator{}
	o.On("GetDirections", mock.Anything, id, 1).Return(orchestrator.Overlay{
		Route: domain.Route{
			ID:      routeID,
			EventID: 1,
			Result: domain.DirectionsResult{
				DurationMinutes: 6,
				DistanceMiles:   0.3,
				Steps:           []domain.DirectionsStep{{Instruction: "Walk east", DistanceFeet: 1584}},
			},
			Geometry: []domain.LngLat{{-80.103, 26.371}, {-80.101, 26.373}},
		},
		FitBounds: fit,
	}, nil)

	rec := serve(newMapMux(o), http.MethodPost, "/sessions/"+id.String()+"/directions", `{"eventId":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.RouteResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, routeID, resp.ID)
	assert.Equal(t, float64(6), resp.DurationMinutes)
	assert.Equal(t, [2]domain.LngLat{{-80.103, 26.371}, {-80.101, 26.373}}, resp.FitBounds)
	require.Len(t, resp.Steps, 1)
	assert.Equal(t, "Walk east", resp.Steps[0].Instruction)
}

func TestUpdateLocation(t *testing.T) {
	id := uuid.New()
	target := "/sessions/" + id.String() + "/location"

	t.Run("position", func(t *testing.T) {
		o := &mockOrchestrator{}
		o.On("UpdateLocation", mock.Anything, id, domain.LngLat{-80.1, 26.37}, 8.5).Return(nil)

		rec := serve(newMapMux(o), http.MethodPut, target, `{"lng":-80.1,"lat":26.37,"accuracy":8.5}`)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		o.AssertExpectations(t)
	})

	t.Run("device error", func(t *testing.T) {
		o := &mockOrchestrator{}
		o.On("ReportLocationError", mock.Anything, id, geolocation.CodePermissionDenied, "denied").Return(nil)

		rec := serve(newMapMux(o), http.MethodPut, target, `{"errorCode":1,"message":"denied"}`)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		o.AssertExpectations(t)
	})

	t.Run("missing coordinates", func(t *testing.T) {
		o := &mockOrchestrator{}

		rec := serve(newMapMux(o), http.MethodPut, target, `{"lng":-80.1}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.CodeBadRequest, decodeError(t, rec).Code)
		o.AssertNotCalled(t, "UpdateLocation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("closed session", func(t *testing.T) {
		o := &mockOrchestrator{}
		o.On("UpdateLocation", mock.Anything, id, mock.Anything, mock.Anything).
			Return(fmt.Errorf("Orchestrator.UpdateLocation(): %w", orchestrator.ErrSessionClosed))

		rec := serve(newMapMux(o), http.MethodPut, target, `{"lng":-80.1,"lat":26.37}`)
		assert.Equal(t, http.StatusGone, rec.Code)
	})
}

func TestSessionID_Malformed(t *testing.T) {
	o := &mockOrchestrator{}

	rec := serve(newMapMux(o), http.MethodGet, "/sessions/123", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, dto.CodeSessionNotFound, decodeError(t, rec).Code)
	o.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestOpenAndCloseSession(t *testing.T) {
	id := uuid.New()
	view := orchestrator.View{
		CampusName: "FAU Boca Raton",
		Bounds:     domain.Bounds{West: -80.107, South: 26.3671, East: -80.097, North: 26.3771},
		Zoom:       15.5,
	}

	o := &mockOrchestrator{}
	o.On("Open", mock.Anything).Return(orchestrator.Snapshot{ID: id}, view, nil)
	o.On("Close", mock.Anything, id).Return(nil).Once()
	o.On("Close", mock.Anything, id).Return(fmt.Errorf("Orchestrator.Close(): %w", orchestrator.ErrSessionNotFound))

	mux := newMapMux(o)

	rec := serve(mux, http.MethodPost, "/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp dto.SessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, id, resp.ID)
	require.NotNil(t, resp.View)
	assert.Len(t, resp.View.Outline, 5)

	assert.Equal(t, http.StatusNoContent, serve(mux, http.MethodDelete, "/sessions/"+id.String(), "").Code)
	assert.Equal(t, http.StatusNotFound, serve(mux, http.MethodDelete, "/sessions/"+id.String(), "").Code)
}
