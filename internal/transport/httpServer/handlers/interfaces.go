package handlers

import (
	"context"
	"net/http"

	"campusEvents/internal/geolocation"
	"campusEvents/internal/models/domain"
	"campusEvents/internal/orchestrator"
	"campusEvents/internal/web"

	"github.com/google/uuid"
)

// EventRepository — интерфейс для чтения каталога из хэндлеров.
type EventRepository interface {
	ReadAllEvents(ctx context.Context) ([]domain.Event, error)
	FindEventByID(ctx context.Context, id int) (domain.Event, error)
	SearchEvents(ctx context.Context, query string, category domain.Category) ([]domain.Event, error)
	UpcomingEvents(ctx context.Context, n int) ([]domain.Event, error)
}

type ProfileRepository interface {
	ReadProfile(ctx context.Context) (domain.Profile, error)
}

// MapOrchestrator управляет сессиями страницы карты.
type MapOrchestrator interface {
	View(ctx context.Context) (orchestrator.View, error)
	Open(ctx context.Context) (orchestrator.Snapshot, orchestrator.View, error)
	Get(ctx context.Context, id uuid.UUID) (orchestrator.Snapshot, error)
	Close(ctx context.Context, id uuid.UUID) error
	UpdateLocation(ctx context.Context, id uuid.UUID, p domain.LngLat, accuracy float64) error
	ReportLocationError(ctx context.Context, id uuid.UUID, code geolocation.ErrorCode, message string) error
	GetDirections(ctx context.Context, id uuid.UUID, eventID int) (orchestrator.Overlay, error)
}

type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, page web.Page) error
}
