package dto

import (
	"strconv"
	"time"

	"campusEvents/internal/geolocation"
	"campusEvents/internal/models/domain"
	"campusEvents/internal/orchestrator"

	"github.com/google/uuid"
)

// Коды ошибок API карты, по ним страница выбирает реакцию.
const (
	CodeLocationRequired = "location_required"
	CodeSuperseded       = "superseded"
	CodeEventNotFound    = "event_not_found"
	CodeSessionNotFound  = "session_not_found"
	CodeSessionClosed    = "session_closed"
	CodeDirectionsFailed = "directions_failed"
	CodeBadRequest       = "bad_request"
)

// ErrorResponse — ошибка API карты.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Retryable bool   `json:"retryable"`
}

// LocationRequest — показание устройства или ошибка геолокации.
// При ErrorCode != 0 координаты игнорируются.
type LocationRequest struct {
	Lng       *float64 `json:"lng,omitempty"`
	Lat       *float64 `json:"lat,omitempty"`
	Accuracy  float64  `json:"accuracy,omitempty"`
	ErrorCode int      `json:"errorCode,omitempty"`
	Message   string   `json:"message,omitempty"`
}

type DirectionsRequest struct {
	EventID int `json:"eventId"`
}

type MarkerResponse struct {
	ID         int           `json:"id"`
	LngLat     domain.LngLat `json:"lngLat"`
	Title      string        `json:"title"`
	Date       string        `json:"date"`
	Time       string        `json:"time"`
	Location   string        `json:"location"`
	DetailsURL string        `json:"detailsUrl"`
}

// ViewResponse — рамка кампуса, масштаб и маркеры.
// Bounds в формате maxBounds: [[запад, юг], [восток, север]].
type ViewResponse struct {
	Bounds  [2]domain.LngLat `json:"bounds"`
	Center  domain.LngLat    `json:"center"`
	Zoom    float64          `json:"zoom"`
	MinZoom float64          `json:"minZoom"`
	MaxZoom float64          `json:"maxZoom"`
	Outline []domain.LngLat  `json:"outline"`
	Markers []MarkerResponse `json:"markers"`
}

type LocationResponse struct {
	LngLat    domain.LngLat `json:"lngLat"`
	Accuracy  float64       `json:"accuracy"`
	Timestamp time.Time     `json:"timestamp"`
}

type StepResponse struct {
	Instruction  string  `json:"instruction"`
	DistanceFeet float64 `json:"distanceFeet"`
}

// LineString — GeoJSON-геометрия маршрута для слоя карты.
type LineString struct {
	Type        string          `json:"type"`
	Coordinates []domain.LngLat `json:"coordinates"`
}

type RouteResponse struct {
	ID              uuid.UUID        `json:"id"`
	EventID         int              `json:"eventId"`
	DurationMinutes float64          `json:"durationMinutes"`
	DistanceMiles   float64          `json:"distanceMiles"`
	Steps           []StepResponse   `json:"steps"`
	Geometry        LineString       `json:"geometry"`
	FitBounds       [2]domain.LngLat `json:"fitBounds"`
}

type SessionResponse struct {
	ID            uuid.UUID         `json:"id"`
	OpenedAt      time.Time         `json:"openedAt"`
	Location      *LocationResponse `json:"location"`
	LocationError string            `json:"locationError,omitempty"`
	Route         *RouteResponse    `json:"route"`
	View          *ViewResponse     `json:"view,omitempty"`
}

func MapBoundsToPair(b domain.Bounds) [2]domain.LngLat {
	return [2]domain.LngLat{{b.West, b.South}, {b.East, b.North}}
}

func MapEventToMarker(e domain.Event) MarkerResponse {
	return MarkerResponse{
		ID:         e.ID,
		LngLat:     e.Coordinates.LngLat(),
		Title:      e.Title,
		Date:       e.Date,
		Time:       e.Time,
		Location:   e.Location,
		DetailsURL: EventURL(e.ID),
	}
}

func EventURL(id int) string {
	return "/events/" + strconv.Itoa(id)
}

func MapViewToResponse(v orchestrator.View) ViewResponse {
	markers := make([]MarkerResponse, len(v.Markers))
	for i, e := range v.Markers {
		markers[i] = MapEventToMarker(e)
	}
	return ViewResponse{
		Bounds:  MapBoundsToPair(v.Bounds),
		Center:  v.Center,
		Zoom:    v.Zoom,
		MinZoom: v.MinZoom,
		MaxZoom: v.MaxZoom,
		Outline: v.Bounds.Polygon(),
		Markers: markers,
	}
}

// MapRouteToResponse переводит маршрут в DTO; fit — рамка, в которую
// страница вписывает маршрут.
func MapRouteToResponse(r domain.Route, fit domain.Bounds) RouteResponse {
	steps := make([]StepResponse, len(r.Result.Steps))
	for i, s := range r.Result.Steps {
		steps[i] = StepResponse{Instruction: s.Instruction, DistanceFeet: s.DistanceFeet}
	}
	geometry := r.Geometry
	if geometry == nil {
		geometry = []domain.LngLat{}
	}
	return RouteResponse{
		ID:              r.ID,
		EventID:         r.EventID,
		DurationMinutes: r.Result.DurationMinutes,
		DistanceMiles:   r.Result.DistanceMiles,
		Steps:           steps,
		Geometry:        LineString{Type: "LineString", Coordinates: geometry},
		FitBounds:       MapBoundsToPair(fit),
	}
}

func MapOverlayToResponse(o orchestrator.Overlay) RouteResponse {
	return MapRouteToResponse(o.Route, o.FitBounds)
}

func MapSnapshotToResponse(s orchestrator.Snapshot) SessionResponse {
	resp := SessionResponse{
		ID:       s.ID,
		OpenedAt: s.OpenedAt,
	}
	if s.Location != nil {
		resp.Location = mapPosition(*s.Location)
	}
	if s.LocationError != nil {
		resp.LocationError = s.LocationError.Error()
	}
	if s.Route != nil {
		r := MapRouteToResponse(*s.Route, s.FitBounds)
		resp.Route = &r
	}
	return resp
}

func mapPosition(p geolocation.Position) *LocationResponse {
	return &LocationResponse{
		LngLat:    p.Coords,
		Accuracy:  p.Accuracy,
		Timestamp: p.Timestamp,
	}
}
