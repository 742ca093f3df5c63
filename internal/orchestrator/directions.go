package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"campusEvents/internal/models/domain"
	"campusEvents/internal/utils/logger/sl"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Overlay — маршрут на карте и рамка, в которую карта его вписывает.
type Overlay struct {
	Route     domain.Route
	FitBounds domain.Bounds
}

// GetDirections строит пеший маршрут от пользователя до мероприятия eventID.
//
// Применяется только результат последнего запроса: более ранний отменяется
// и возвращает ErrSuperseded. Новый маршрут заменяет прежний. При ошибке
// сервиса прежний маршрут остаётся на карте. Результат, пришедший после
// закрытия сессии, отбрасывается (ErrSessionClosed).
func (o *Orchestrator) GetDirections(ctx context.Context, id uuid.UUID, eventID int) (Overlay, error) {
	op := "Orchestrator.GetDirections()"
	log := o.logger.With(
		slog.String("op", op),
		slog.String("session", id.String()),
		slog.Int("eventID", eventID),
	)

	ctx, span := o.tracer.Start(ctx, "GetDirections", trace.WithAttributes(
		attribute.String("session.id", id.String()),
		attribute.Int("event.id", eventID),
	))
	defer span.End()

	fail := func(err error) (Overlay, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Overlay{}, fmt.Errorf("%s: %w", op, err)
	}

	s, err := o.session(id)
	if err != nil {
		return fail(err)
	}

	event, err := o.events.FindEventByID(ctx, eventID)
	if err != nil {
		return fail(err)
	}

	from, err := o.origin(ctx, s)
	if err != nil {
		log.Info("directions requested without location", sl.Err(err))
		return fail(err)
	}

	seq, reqCtx, cancel, err := s.begin(ctx)
	if err != nil {
		return fail(err)
	}
	defer cancel()

	span.SetAttributes(attribute.Int64("directions.seq", int64(seq)))

	route, err := o.directions.WalkingDirections(reqCtx, from, event.Coordinates.LngLat())
	if err != nil {
		// отмену из-за нового запроса или закрытия сессии не считаем ошибкой сервиса
		if stale := s.settle(seq); stale != nil {
			log.Debug("directions result discarded", sl.Err(stale))
			return fail(stale)
		}
		log.Error("error getting directions", sl.Err(err))
		return fail(err)
	}

	route.EventID = event.ID
	fit := route.Bounds.Intersect(o.campus)

	if err := s.apply(seq, route, fit); err != nil {
		log.Debug("directions result discarded", sl.Err(err))
		return fail(err)
	}

	span.SetStatus(codes.Ok, "")
	log.Info("route applied",
		slog.String("route", route.ID.String()),
		slog.Uint64("seq", seq),
		slog.Float64("minutes", route.Result.DurationMinutes),
		slog.Float64("miles", route.Result.DistanceMiles),
	)

	return Overlay{Route: route, FitBounds: fit}, nil
}

// IsRetryable сообщает, стоит ли пользователю повторить запрос маршрута.
func IsRetryable(err error) bool {
	return err != nil &&
		!errors.Is(err, ErrLocationUnknown) &&
		!errors.Is(err, ErrSessionNotFound) &&
		!errors.Is(err, ErrSessionClosed) &&
		!errors.Is(err, ErrSuperseded)
}
