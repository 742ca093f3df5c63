package repositories

import (
	"context"
	"fmt"
	"log/slog"

	"campusEvents/internal/models/domain"
	"campusEvents/internal/models/repositories"
)

// ReadAllEvents возвращает весь каталог в порядке файла.
func (r *Repository) ReadAllEvents(ctx context.Context) ([]domain.Event, error) {
	result := make([]domain.Event, len(r.events))
	copy(result, r.events)
	return result, nil
}

func (r *Repository) FindEventByID(ctx context.Context, id int) (domain.Event, error) {
	i, ok := r.byID[id]
	if !ok {
		return domain.Event{}, fmt.Errorf("%w: id %d", ErrEventNotFound, id)
	}
	return r.events[i], nil
}

// SearchEvents фильтрует каталог по тексту и категории.
// Пустые query и category возвращают весь каталог, порядок сохраняется.
func (r *Repository) SearchEvents(ctx context.Context, query string, category domain.Category) ([]domain.Event, error) {
	op := "repository.SearchEvents()"

	result := make([]domain.Event, 0, len(r.events))
	for _, e := range r.events {
		if e.Matches(query, category) {
			result = append(result, e)
		}
	}

	r.log.Debug("events searched",
		slog.String("op", op),
		slog.String("query", query),
		slog.String("category", category.String()),
		slog.Int("found", len(result)),
	)

	return result, nil
}

// UpcomingEvents — первые n мероприятий каталога (главная и карта).
func (r *Repository) UpcomingEvents(ctx context.Context, n int) ([]domain.Event, error) {
	if n > len(r.events) {
		n = len(r.events)
	}
	if n < 0 {
		n = 0
	}
	result := make([]domain.Event, n)
	copy(result, r.events[:n])
	return result, nil
}

func mapToDomain(e repositories.Event) domain.Event {
	return domain.Event{
		ID:          e.ID,
		Title:       e.Title,
		Date:        e.Date,
		Time:        e.Time,
		Location:    e.Location,
		Coordinates: domain.Coordinates{Lat: e.Coordinates[0], Lng: e.Coordinates[1]},
		Category:    domain.Category(e.Category),
		Organizer:   e.Organizer,
		Description: e.Description,
		Image:       e.Image,
	}
}
