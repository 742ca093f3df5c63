package orchestrator

import (
	"context"
	"sync"
	"time"

	"campusEvents/internal/geolocation"
	"campusEvents/internal/models/domain"

	"github.com/google/uuid"
)

// Session — состояние одной открытой страницы карты.
// Живёт от Open до Close или до истечения TTL.
type Session struct {
	ID       uuid.UUID
	OpenedAt time.Time

	tracker   *geolocation.Tracker
	stopWatch func()
	watchDone chan struct{}

	mu          sync.Mutex
	location    *geolocation.Position
	locationErr error
	route       *domain.Route
	fitBounds   domain.Bounds
	seq         uint64
	inflight    context.CancelFunc
	closed      bool
}

// Snapshot — копия состояния сессии для чтения.
type Snapshot struct {
	ID            uuid.UUID
	OpenedAt      time.Time
	Location      *geolocation.Position
	LocationError error
	Route         *domain.Route
	FitBounds     domain.Bounds
	Closed        bool
}

func newSession(now time.Time) *Session {
	s := &Session{
		ID:        uuid.New(),
		OpenedAt:  now,
		tracker:   geolocation.NewTracker(),
		watchDone: make(chan struct{}),
	}

	updates, stop := s.tracker.Watch()
	s.stopWatch = stop

	go s.follow(updates)

	return s
}

// follow переносит показания подписки в маркер пользователя.
func (s *Session) follow(updates <-chan geolocation.Position) {
	defer close(s.watchDone)

	for p := range updates {
		s.mu.Lock()
		if !s.closed {
			pos := p
			s.location = &pos
			s.locationErr = nil
		}
		s.mu.Unlock()
	}
}

func (s *Session) snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:            s.ID,
		OpenedAt:      s.OpenedAt,
		LocationError: s.locationErr,
		FitBounds:     s.fitBounds,
		Closed:        s.closed,
	}
	if s.location != nil {
		loc := *s.location
		snap.Location = &loc
	}
	if s.route != nil {
		r := *s.route
		snap.Route = &r
	}
	return snap
}

// begin регистрирует новый запрос маршрута. Предыдущий незавершённый
// запрос отменяется: применится только результат последнего.
func (s *Session) begin(ctx context.Context) (uint64, context.Context, context.CancelFunc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, nil, nil, ErrSessionClosed
	}

	if s.inflight != nil {
		s.inflight()
	}

	s.seq++
	reqCtx, cancel := context.WithCancel(ctx)
	s.inflight = cancel

	return s.seq, reqCtx, cancel, nil
}

// apply ставит маршрут на карту, если запрос seq всё ещё последний.
// Прежний маршрут при этом снимается.
func (s *Session) apply(seq uint64, route domain.Route, fit domain.Bounds) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.currentLocked(seq); err != nil {
		return err
	}

	s.route = &route
	s.fitBounds = fit
	s.inflight = nil
	return nil
}

// settle закрывает неудачный запрос. Прежний маршрут остаётся.
func (s *Session) settle(seq uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.currentLocked(seq); err != nil {
		return err
	}

	s.inflight = nil
	return nil
}

func (s *Session) currentLocked(seq uint64) error {
	if s.closed {
		return ErrSessionClosed
	}
	if seq != s.seq {
		return ErrSuperseded
	}
	return nil
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// release освобождает ресурсы сессии: отменяет запрос маршрута,
// снимает подписку на позицию и убирает маршрут. Повторный вызов безопасен.
func (s *Session) release() bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.closed = true
	if s.inflight != nil {
		s.inflight()
		s.inflight = nil
	}
	s.route = nil
	s.mu.Unlock()

	s.stopWatch()
	s.tracker.Close()
	<-s.watchDone

	return true
}
