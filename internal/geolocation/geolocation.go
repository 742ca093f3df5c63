package geolocation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"campusEvents/internal/config"
	"campusEvents/internal/models/domain"
)

// ErrorCode повторяет коды GeolocationPositionError браузера.
type ErrorCode int

const (
	CodePermissionDenied    ErrorCode = 1
	CodePositionUnavailable ErrorCode = 2
	CodeTimeout             ErrorCode = 3
)

var (
	ErrPermissionDenied    = errors.New("geolocation permission denied")
	ErrPositionUnavailable = errors.New("position unavailable")
	ErrTimeout             = errors.New("geolocation timeout")
	ErrClosed              = errors.New("tracker closed")
	ErrInvalidPosition     = errors.New("invalid position")
)

// PositionError — ошибка, которую сообщило устройство.
type PositionError struct {
	Code    ErrorCode
	Message string
}

func (e *PositionError) Error() string {
	if e.Message == "" {
		return e.Unwrap().Error()
	}
	return fmt.Sprintf("%s: %s", e.Unwrap(), e.Message)
}

func (e *PositionError) Unwrap() error {
	switch e.Code {
	case CodePermissionDenied:
		return ErrPermissionDenied
	case CodeTimeout:
		return ErrTimeout
	default:
		return ErrPositionUnavailable
	}
}

// PositionOptions — политика чтения позиции.
// MaximumAge 0 означает, что кэшированная позиция не годится.
type PositionOptions struct {
	EnableHighAccuracy bool
	Timeout            time.Duration
	MaximumAge         time.Duration
}

func OptionsFromConfig(cfg config.GeolocationConfig) PositionOptions {
	return PositionOptions{
		EnableHighAccuracy: cfg.EnableHighAccuracy,
		Timeout:            cfg.Timeout,
		MaximumAge:         cfg.MaximumAge,
	}
}

// Position — одно показание устройства.
type Position struct {
	Coords    domain.LngLat
	Accuracy  float64 // метры
	Timestamp time.Time
}

// Tracker хранит последнее показание устройства одной страницы карты.
// Показания приходят снаружи (Report), читатели получают их через
// CurrentPosition (однократно) или Watch (подписка).
type Tracker struct {
	mu       sync.Mutex
	now      func() time.Time
	last     *Position
	lastErr  error
	notify   chan struct{}
	watchers map[int]chan Position
	nextID   int
	closed   bool
}

func NewTracker() *Tracker {
	return &Tracker{
		now:      time.Now,
		notify:   make(chan struct{}),
		watchers: make(map[int]chan Position),
	}
}

// Report принимает новое показание и рассылает его подписчикам.
func (t *Tracker) Report(p Position) error {
	if !p.Coords.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidPosition, p.Coords)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}
	if p.Timestamp.IsZero() {
		p.Timestamp = t.now()
	}

	t.last = &p
	t.lastErr = nil

	for _, ch := range t.watchers {
		// буфер 1: старое непрочитанное показание заменяется новым
		select {
		case <-ch:
		default:
		}
		ch <- p
	}

	t.broadcastLocked()
	return nil
}

// ReportError сохраняет ошибку устройства. Последняя позиция остаётся.
func (t *Tracker) ReportError(perr *PositionError) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}

	t.lastErr = perr
	t.broadcastLocked()
	return nil
}

// Last возвращает последнее показание, если оно было.
func (t *Tracker) Last() (Position, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.last == nil {
		return Position{}, false
	}
	return *t.last, true
}

// LastError — ошибка, пришедшая после последнего успешного показания.
func (t *Tracker) LastError() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}

// CurrentPosition возвращает показание не старше opts.MaximumAge, иначе ждёт
// следующего не дольше opts.Timeout. Ошибка устройства во время ожидания
// возвращается как есть.
func (t *Tracker) CurrentPosition(ctx context.Context, opts PositionOptions) (Position, error) {
	requested := t.now()

	var timeout <-chan time.Time
	if opts.Timeout > 0 {
		timer := time.NewTimer(opts.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	for {
		t.mu.Lock()
		if t.closed {
			t.mu.Unlock()
			return Position{}, ErrClosed
		}
		if t.last != nil {
			fresh := t.last.Timestamp.After(requested)
			if fresh || (opts.MaximumAge > 0 && requested.Sub(t.last.Timestamp) <= opts.MaximumAge) {
				p := *t.last
				t.mu.Unlock()
				return p, nil
			}
		}
		notify := t.notify
		t.mu.Unlock()

		select {
		case <-notify:
			t.mu.Lock()
			err := t.lastErr
			t.mu.Unlock()
			if err != nil {
				return Position{}, err
			}
		case <-timeout:
			return Position{}, &PositionError{Code: CodeTimeout, Message: "no position within timeout"}
		case <-ctx.Done():
			return Position{}, ctx.Err()
		}
	}
}

// Watch подписывает на новые показания. cancel снимает подписку и закрывает канал.
func (t *Tracker) Watch() (<-chan Position, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := make(chan Position, 1)
	if t.closed {
		close(ch)
		return ch, func() {}
	}

	id := t.nextID
	t.nextID++
	t.watchers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			if c, ok := t.watchers[id]; ok {
				delete(t.watchers, id)
				close(c)
			}
		})
	}

	return ch, cancel
}

// Watchers — число активных подписок.
func (t *Tracker) Watchers() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.watchers)
}

// Close снимает все подписки и будит ожидающих. Повторный вызов безопасен.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.closed = true

	for id, ch := range t.watchers {
		delete(t.watchers, id)
		close(ch)
	}

	t.broadcastLocked()
}

func (t *Tracker) broadcastLocked() {
	close(t.notify)
	t.notify = make(chan struct{})
}
