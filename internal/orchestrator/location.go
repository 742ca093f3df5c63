package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"campusEvents/internal/geolocation"
	"campusEvents/internal/models/domain"
	"campusEvents/internal/utils/logger/sl"

	"github.com/google/uuid"
)

// UpdateLocation принимает показание устройства. Маркер пользователя
// переезжает в новую точку, прежняя ошибка позиции сбрасывается.
func (o *Orchestrator) UpdateLocation(ctx context.Context, id uuid.UUID, p domain.LngLat, accuracy float64) error {
	op := "Orchestrator.UpdateLocation()"

	s, err := o.session(id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.tracker.Report(geolocation.Position{Coords: p, Accuracy: accuracy, Timestamp: o.now()}); err != nil {
		if errors.Is(err, geolocation.ErrClosed) {
			err = ErrSessionClosed
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	// подписка доставит показание асинхронно; снимок сразу видит новую точку
	s.mu.Lock()
	if !s.closed {
		s.location = &geolocation.Position{Coords: p, Accuracy: accuracy, Timestamp: o.now()}
		s.locationErr = nil
	}
	s.mu.Unlock()

	o.logger.Debug("location updated",
		slog.String("op", op),
		slog.String("session", id.String()),
		slog.String("location", p.String()),
		slog.Float64("accuracy", accuracy),
		slog.Bool("onCampus", o.campus.Contains(p)),
	)

	return nil
}

// ReportLocationError сохраняет ошибку устройства. Сессия продолжает работу
// без маркера пользователя, если позиции ещё не было.
func (o *Orchestrator) ReportLocationError(ctx context.Context, id uuid.UUID, code geolocation.ErrorCode, message string) error {
	op := "Orchestrator.ReportLocationError()"

	s, err := o.session(id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	perr := &geolocation.PositionError{Code: code, Message: message}
	if err := s.tracker.ReportError(perr); err != nil {
		return fmt.Errorf("%s: %w", op, ErrSessionClosed)
	}

	s.mu.Lock()
	if !s.closed {
		s.locationErr = perr
	}
	s.mu.Unlock()

	o.logger.Warn("error getting location",
		slog.String("op", op),
		slog.String("session", id.String()),
		sl.Err(perr),
	)

	return nil
}

// origin — точка старта маршрута. Если устройство уже сообщило ошибку,
// ждать нечего. Если позиции ещё нет, ждём первое показание не дольше
// таймаута геолокации.
func (o *Orchestrator) origin(ctx context.Context, s *Session) (domain.LngLat, error) {
	if p, ok := s.tracker.Last(); ok {
		return p.Coords, nil
	}
	if err := s.tracker.LastError(); err != nil {
		return domain.LngLat{}, fmt.Errorf("%w: %w", ErrLocationUnknown, err)
	}

	opts := o.geoOpts
	opts.MaximumAge = time.Duration(math.MaxInt64)

	p, err := s.tracker.CurrentPosition(ctx, opts)
	if err != nil {
		switch {
		case errors.Is(err, geolocation.ErrClosed):
			return domain.LngLat{}, ErrSessionClosed
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return domain.LngLat{}, err
		default:
			return domain.LngLat{}, fmt.Errorf("%w: %w", ErrLocationUnknown, err)
		}
	}

	return p.Coords, nil
}
