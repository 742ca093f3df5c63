package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"campusEvents/internal/config"
	"campusEvents/internal/geolocation"
	"campusEvents/internal/models/domain"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrSessionNotFound = errors.New("map session not found")
	ErrSessionClosed   = errors.New("map session closed")
	// ErrLocationUnknown — позиции пользователя нет, маршрут строить не от чего.
	ErrLocationUnknown = errors.New("user location unknown")
	// ErrSuperseded — пришёл более новый запрос маршрута, результат этого отброшен.
	ErrSuperseded = errors.New("directions request superseded")
)

// Events — доступ к каталогу мероприятий.
type Events interface {
	ReadAllEvents(ctx context.Context) ([]domain.Event, error)
	FindEventByID(ctx context.Context, id int) (domain.Event, error)
}

// Directions — внешний сервис пешеходных маршрутов.
type Directions interface {
	WalkingDirections(ctx context.Context, origin, destination domain.LngLat) (domain.Route, error)
}

// Observer получает число открытых сессий (для метрик).
type Observer interface {
	SessionOpened()
	SessionClosed()
}

// View — неизменяемая часть страницы карты: рамка кампуса, масштаб и маркеры.
type View struct {
	CampusName string
	Bounds     domain.Bounds
	Center     domain.LngLat
	Zoom       float64
	MinZoom    float64
	MaxZoom    float64
	Markers    []domain.Event
}

// Orchestrator управляет сессиями страницы карты: позиция пользователя,
// запросы маршрутов и их отображение.
type Orchestrator struct {
	logger     *slog.Logger
	cfg        *config.Config
	events     Events
	directions Directions
	observer   Observer
	sessions   *cache.Cache
	campus     domain.Bounds
	geoOpts    geolocation.PositionOptions
	tracer     trace.Tracer
	now        func() time.Time
}

// New создаёт оркестратор. Сессии без обращений дольше cfg.MapSessions.TTL
// закрываются автоматически.
func New(logger *slog.Logger, cfg *config.Config, events Events, directions Directions, observer Observer) *Orchestrator {
	op := "Orchestrator.New()"
	log := logger.With(slog.String("op", op))
	log.Info("creating map session orchestrator",
		slog.Duration("ttl", cfg.MapSessions.TTL),
		slog.Duration("cleanupInterval", cfg.MapSessions.CleanupInterval),
	)

	o := &Orchestrator{
		logger:     logger,
		cfg:        cfg,
		events:     events,
		directions: directions,
		observer:   observer,
		sessions:   cache.New(cfg.MapSessions.TTL, cfg.MapSessions.CleanupInterval),
		campus:     CampusBounds(cfg.Campus),
		geoOpts:    geolocation.OptionsFromConfig(cfg.Geolocation),
		tracer:     otel.Tracer("campusEvents/orchestrator"),
		now:        time.Now,
	}

	// Сюда попадают и истёкшие по TTL, и удалённые через Close сессии.
	o.sessions.OnEvicted(func(key string, v interface{}) {
		s, ok := v.(*Session)
		if !ok {
			return
		}
		if s.release() {
			if o.observer != nil {
				o.observer.SessionClosed()
			}
			logger.Debug("map session released",
				slog.String("op", "Orchestrator.OnEvicted()"),
				slog.String("session", key),
			)
		}
	})

	return o
}

// CampusBounds переводит рамку кампуса из конфига в доменный тип.
func CampusBounds(c config.CampusConfig) domain.Bounds {
	return domain.Bounds{
		West:  c.Bounds.West,
		South: c.Bounds.South,
		East:  c.Bounds.East,
		North: c.Bounds.North,
	}
}

// View возвращает рамку, масштаб и маркеры страницы карты.
func (o *Orchestrator) View(ctx context.Context) (View, error) {
	op := "Orchestrator.View()"

	events, err := o.events.ReadAllEvents(ctx)
	if err != nil {
		return View{}, fmt.Errorf("%s: %w", op, err)
	}

	c := o.cfg.Campus
	return View{
		CampusName: c.Name,
		Bounds:     o.campus,
		Center:     o.campus.Clamp(domain.LngLat{c.CenterLng, c.CenterLat}),
		Zoom:       clampZoom(c.Zoom, c.MinZoom, c.MaxZoom),
		MinZoom:    c.MinZoom,
		MaxZoom:    c.MaxZoom,
		Markers:    events,
	}, nil
}

// Open открывает сессию страницы карты.
func (o *Orchestrator) Open(ctx context.Context) (Snapshot, View, error) {
	op := "Orchestrator.Open()"
	log := o.logger.With(slog.String("op", op))

	view, err := o.View(ctx)
	if err != nil {
		return Snapshot{}, View{}, fmt.Errorf("%s: %w", op, err)
	}

	s := newSession(o.now())
	o.sessions.SetDefault(s.ID.String(), s)

	if o.observer != nil {
		o.observer.SessionOpened()
	}

	log.Info("map session opened", slog.String("session", s.ID.String()))

	return s.snapshot(), view, nil
}

// Get возвращает снимок сессии и продлевает её TTL.
func (o *Orchestrator) Get(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	op := "Orchestrator.Get()"

	s, err := o.session(id)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.snapshot(), nil
}

// Close закрывает сессию: подписка на позицию снимается, незавершённый
// запрос маршрута отменяется, его результат будет отброшен.
func (o *Orchestrator) Close(ctx context.Context, id uuid.UUID) error {
	op := "Orchestrator.Close()"
	log := o.logger.With(slog.String("op", op), slog.String("session", id.String()))

	if _, ok := o.sessions.Get(id.String()); !ok {
		return fmt.Errorf("%s: %w", op, ErrSessionNotFound)
	}

	o.sessions.Delete(id.String())
	log.Info("map session closed")

	return nil
}

// Active — число открытых сессий. Истёкшие, но ещё не вычищенные не считаются.
func (o *Orchestrator) Active() int {
	return len(o.sessions.Items())
}

// Shutdown закрывает все сессии.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	op := "Orchestrator.Shutdown()"
	log := o.logger.With(slog.String("op", op))

	done := make(chan struct{})
	go func() {
		defer close(done)
		o.sessions.DeleteExpired()
		for key := range o.sessions.Items() {
			o.sessions.Delete(key)
		}
	}()

	select {
	case <-done:
		log.Info("all map sessions closed")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	}
}

// session находит открытую сессию и продлевает её TTL.
func (o *Orchestrator) session(id uuid.UUID) (*Session, error) {
	key := id.String()

	v, ok := o.sessions.Get(key)
	if !ok {
		return nil, ErrSessionNotFound
	}
	s := v.(*Session)
	if s.isClosed() {
		return nil, ErrSessionNotFound
	}

	o.sessions.SetDefault(key, s)
	return s, nil
}

func clampZoom(z, minZoom, maxZoom float64) float64 {
	if z < minZoom {
		return minZoom
	}
	if z > maxZoom {
		return maxZoom
	}
	return z
}
