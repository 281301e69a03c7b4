package location

import (
	"context"
	"sync"
	"time"

	"github.com/mobil-koeln/navi-cli/internal/models"
)

// StaticSource reports a fixed position, e.g. from `--at lat,lng`. Move
// changes it and notifies every open subscription.
type StaticSource struct {
	mu       sync.Mutex
	coord    *models.Coordinate
	now      func() time.Time
	watchers map[int]chan Fix
	next     int
}

// NewStaticSource creates a source at coord; nil means position unavailable
func NewStaticSource(coord *models.Coordinate) *StaticSource {
	s := &StaticSource{
		now:      time.Now,
		watchers: make(map[int]chan Fix),
	}
	if coord != nil {
		c := *coord
		s.coord = &c
	}
	return s
}

// CurrentPosition returns the configured position
func (s *StaticSource) CurrentPosition(ctx context.Context, _ Options) (Fix, error) {
	if err := ctx.Err(); err != nil {
		return Fix{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.coord == nil {
		return Fix{}, ErrPositionUnavailable
	}
	return Fix{Coord: *s.coord, Time: s.now()}, nil
}

// Watch emits the current position right away and again on every Move
func (s *StaticSource) Watch(ctx context.Context, _ Options) (*Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := make(chan Fix, 1)

	s.mu.Lock()
	id := s.next
	s.next++
	s.watchers[id] = ch
	if s.coord != nil {
		offer(ch, Fix{Coord: *s.coord, Time: s.now()})
	}
	s.mu.Unlock()

	sub := NewSubscription(ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.watchers, id)
		close(ch)
	})
	context.AfterFunc(ctx, sub.Close)

	return sub, nil
}

// Move sets a new position and pushes it to all subscriptions
func (s *StaticSource) Move(coord models.Coordinate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.coord = &coord
	fix := Fix{Coord: coord, Time: s.now()}
	for _, ch := range s.watchers {
		offer(ch, fix)
	}
}

// Watchers returns the number of open subscriptions
func (s *StaticSource) Watchers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watchers)
}
