package repositories

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"campusEvents/internal/config"
	"campusEvents/internal/models/domain"
	"campusEvents/internal/models/repositories"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrDuplicateEventID = errors.New("duplicate event id")
	ErrInvalidEvent     = errors.New("invalid event")
)

// Repository — неизменяемый каталог мероприятий и демонстрационный профиль.
// Загружается один раз при старте, дальше читается без блокировок.
type Repository struct {
	log     *slog.Logger
	events  []domain.Event
	byID    map[int]int
	profile domain.Profile
}

// New загружает каталог (встроенный или из cfg.Catalog.FilePath) и профиль.
func New(log *slog.Logger, cfg *config.Config) (*Repository, error) {
	op := "repository.New()"

	catalogData, err := readCatalog(cfg.Catalog.FilePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	profileData, err := dataFS.ReadFile("data/profile.yaml")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r, err := NewFromYAML(log, catalogData, profileData)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("catalog loaded",
		slog.String("op", op),
		slog.Int("events", len(r.events)),
		slog.String("source", catalogSource(cfg.Catalog.FilePath)),
	)

	return r, nil
}

// NewFromYAML строит репозиторий из готовых YAML-документов.
func NewFromYAML(log *slog.Logger, catalogData, profileData []byte) (*Repository, error) {
	var catalog repositories.Catalog
	if err := yaml.Unmarshal(catalogData, &catalog); err != nil {
		return nil, fmt.Errorf("cannot decode catalog: %w", err)
	}

	var profile repositories.Profile
	if err := yaml.Unmarshal(profileData, &profile); err != nil {
		return nil, fmt.Errorf("cannot decode profile: %w", err)
	}

	r := &Repository{
		log:     log,
		events:  make([]domain.Event, 0, len(catalog.Events)),
		byID:    make(map[int]int, len(catalog.Events)),
		profile: mapProfileToDomain(profile),
	}

	for _, e := range catalog.Events {
		event := mapToDomain(e)
		if err := validateEvent(event); err != nil {
			return nil, err
		}
		if _, ok := r.byID[event.ID]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateEventID, event.ID)
		}
		r.byID[event.ID] = len(r.events)
		r.events = append(r.events, event)
	}

	return r, nil
}

// Shutdown ничего не освобождает: данные в памяти. Нужен для graceful.
func (r *Repository) Shutdown(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("force exit repository: %w", ctx.Err())
	default:
		return nil
	}
}

func readCatalog(path string) ([]byte, error) {
	if path == "" {
		return dataFS.ReadFile("data/catalog.yaml")
	}
	return os.ReadFile(path)
}

func catalogSource(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}

func validateEvent(e domain.Event) error {
	if e.ID <= 0 {
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidEvent, e.ID)
	}
	if e.Title == "" {
		return fmt.Errorf("%w: event %d has no title", ErrInvalidEvent, e.ID)
	}
	if !e.Coordinates.LngLat().Valid() {
		return fmt.Errorf("%w: event %d has invalid coordinates", ErrInvalidEvent, e.ID)
	}
	if !isValidCategory(e.Category) {
		return fmt.Errorf("%w: event %d has unknown category %q", ErrInvalidEvent, e.ID, e.Category)
	}
	return nil
}

func isValidCategory(c domain.Category) bool {
	for _, known := range domain.Categories() {
		if c == known {
			return true
		}
	}
	return false
}
