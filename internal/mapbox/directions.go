package mapbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"campusEvents/internal/config"
	"campusEvents/internal/models/domain"
	"campusEvents/internal/models/dto"
	"campusEvents/internal/utils/logger/sl"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const codeOk = "Ok"

var (
	// ErrNoRoute — сервис ответил кодом, отличным от "Ok", или без маршрутов.
	ErrNoRoute = errors.New("no route")
	// ErrUnexpectedStatus — HTTP-статус не 2xx.
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// Observer получает исход каждого запроса маршрута (для метрик).
type Observer interface {
	ObserveDirections(outcome string, took time.Duration)
}

// Client — клиент пешеходных маршрутов Mapbox Directions API.
type Client struct {
	log      *slog.Logger
	baseURL  string
	token    string
	profile  string
	http     *http.Client
	limiter  *rate.Limiter
	tracer   trace.Tracer
	observer Observer
}

// NewClient создаёт клиент. Токен берётся из конфига и передаётся явно.
func NewClient(log *slog.Logger, cfg *config.Config, observer Observer) *Client {
	op := "mapbox.NewClient()"
	log.With(slog.String("op", op)).Info("creating mapbox directions client",
		slog.String("baseURL", cfg.Mapbox.DirectionsURL),
		slog.String("profile", cfg.Mapbox.Profile),
	)

	limit := rate.Inf
	if cfg.Mapbox.RatePerSecond > 0 {
		limit = rate.Limit(cfg.Mapbox.RatePerSecond)
	}
	burst := cfg.Mapbox.Burst
	if burst <= 0 {
		burst = 1
	}

	profile := cfg.Mapbox.Profile
	if profile == "" {
		profile = "mapbox/walking"
	}

	return &Client{
		log:      log,
		baseURL:  strings.TrimRight(cfg.Mapbox.DirectionsURL, "/"),
		token:    cfg.Mapbox.AccessToken,
		profile:  profile,
		http:     newHTTPClient(cfg.Mapbox.Timeout),
		limiter:  rate.NewLimiter(limit, burst),
		tracer:   otel.Tracer("campusEvents/mapbox"),
		observer: observer,
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}

// WalkingDirections запрашивает маршрут от origin до destination и переводит
// его в имперские единицы: секунды в минуты, метры в мили и футы.
func (c *Client) WalkingDirections(ctx context.Context, origin, destination domain.LngLat) (domain.Route, error) {
	op := "mapbox.Client.WalkingDirections()"
	log := c.log.With(
		slog.String("op", op),
		slog.String("origin", origin.String()),
		slog.String("destination", destination.String()),
	)

	ctx, span := c.tracer.Start(ctx, "WalkingDirections", trace.WithAttributes(
		attribute.String("directions.profile", c.profile),
		attribute.String("directions.origin", origin.String()),
		attribute.String("directions.destination", destination.String()),
	))
	defer span.End()

	start := time.Now()
	route, err := c.fetch(ctx, origin, destination)
	took := time.Since(start)

	if err != nil {
		c.observe(outcomeOf(err), took)
		span.RecordError(err)
		span.SetStatus(codes.Error, "directions request failed")
		log.Error("directions request failed", sl.Err(err), slog.Duration("took", took))
		return domain.Route{}, fmt.Errorf("%s: %w", op, err)
	}

	c.observe("ok", took)
	span.SetAttributes(attribute.Int("directions.steps", len(route.Result.Steps)))
	span.SetStatus(codes.Ok, "")
	log.Debug("directions received",
		slog.Float64("minutes", route.Result.DurationMinutes),
		slog.Float64("miles", route.Result.DistanceMiles),
		slog.Int("steps", len(route.Result.Steps)),
	)

	return route, nil
}

func (c *Client) fetch(ctx context.Context, origin, destination domain.LngLat) (domain.Route, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.Route{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(origin, destination), nil)
	if err != nil {
		return domain.Route{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Route{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return domain.Route{}, err
	}

	var data dto.DirectionsResponse
	decodeErr := json.Unmarshal(body, &data)

	if resp.StatusCode/100 != 2 {
		if decodeErr == nil && data.Code != "" && data.Code != codeOk {
			return domain.Route{}, fmt.Errorf("%w: http %d: %s: %s", ErrNoRoute, resp.StatusCode, data.Code, data.Message)
		}
		return domain.Route{}, fmt.Errorf("%w: http %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	if decodeErr != nil {
		return domain.Route{}, fmt.Errorf("cannot decode directions: %w", decodeErr)
	}

	return ToRoute(data, origin, destination)
}

func (c *Client) requestURL(origin, destination domain.LngLat) string {
	q := url.Values{}
	q.Set("steps", "true")
	q.Set("geometries", "geojson")
	q.Set("overview", "full")
	q.Set("access_token", c.token)

	return fmt.Sprintf("%s/directions/v5/%s/%s;%s?%s",
		c.baseURL, c.profile, origin.String(), destination.String(), q.Encode())
}

func (c *Client) observe(outcome string, took time.Duration) {
	if c.observer != nil {
		c.observer.ObserveDirections(outcome, took)
	}
}

// ToRoute превращает первый маршрут ответа в доменный Route.
// Рамка маршрута охватывает геометрию и обе конечные точки.
func ToRoute(data dto.DirectionsResponse, origin, destination domain.LngLat) (domain.Route, error) {
	if data.Code != codeOk {
		return domain.Route{}, fmt.Errorf("%w: %s: %s", ErrNoRoute, data.Code, data.Message)
	}
	if len(data.Routes) == 0 {
		return domain.Route{}, fmt.Errorf("%w: empty routes", ErrNoRoute)
	}

	r := data.Routes[0]

	result := domain.DirectionsResult{
		DurationMinutes: SecondsToMinutes(r.Duration),
		DistanceMiles:   MetersToMiles(r.Distance),
		Steps:           make([]domain.DirectionsStep, 0),
	}
	for _, leg := range r.Legs {
		for _, step := range leg.Steps {
			result.Steps = append(result.Steps, domain.DirectionsStep{
				Instruction:  step.Maneuver.Instruction,
				DistanceFeet: MetersToFeet(step.Distance),
			})
		}
	}

	geometry := make([]domain.LngLat, 0, len(r.Geometry.Coordinates))
	for _, p := range r.Geometry.Coordinates {
		geometry = append(geometry, domain.LngLat(p))
	}

	bounds, _ := domain.BoundsFromPoints(append([]domain.LngLat{origin, destination}, geometry...)...)

	return domain.Route{
		ID:       uuid.New(),
		Result:   result,
		Geometry: geometry,
		Bounds:   bounds,
	}, nil
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrNoRoute):
		return "no_route"
	case errors.Is(err, ErrUnexpectedStatus):
		return "bad_status"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "transport_error"
	}
}
