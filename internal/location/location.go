package location

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mobil-koeln/navi-cli/internal/models"
)

var (
	// ErrPositionUnavailable indicates the source has no usable fix
	ErrPositionUnavailable = errors.New("position unavailable")

	// ErrTimeout indicates no fix arrived within Options.Timeout
	ErrTimeout = errors.New("position timeout")

	// ErrPermissionDenied indicates the device could not be opened
	ErrPermissionDenied = errors.New("location permission denied")
)

// Options tunes a position request
type Options struct {
	// HighAccuracy drops fixes with a poor dilution of precision
	HighAccuracy bool
	// MaximumAge is how old a cached fix may be; zero always waits for a fresh one
	MaximumAge time.Duration
	// Timeout bounds the wait for a fix; zero waits indefinitely
	Timeout time.Duration
}

// WatchOptions are the parameters used for continuous tracking
func WatchOptions() Options {
	return Options{
		HighAccuracy: true,
		MaximumAge:   0,
		Timeout:      5 * time.Second,
	}
}

// Fix is one position report. Err is set when the source reported a failure
// instead of a position.
type Fix struct {
	Coord models.Coordinate
	Time  time.Time
	Err   error
}

// Source provides device positions
type Source interface {
	// CurrentPosition returns a single fix
	CurrentPosition(ctx context.Context, opts Options) (Fix, error)
	// Watch starts a continuous subscription that lasts until it is closed
	// or ctx is done
	Watch(ctx context.Context, opts Options) (*Subscription, error)
}

// Subscription is a live stream of fixes. Only the latest undelivered fix is
// buffered; C is closed once the subscription ends.
type Subscription struct {
	C <-chan Fix

	once sync.Once
	stop func()
}

// NewSubscription wraps a fix channel; stop is called exactly once on Close
func NewSubscription(c <-chan Fix, stop func()) *Subscription {
	return &Subscription{C: c, stop: stop}
}

// Close ends the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.stop != nil {
			s.stop()
		}
	})
}

// offer delivers f, replacing a fix the reader has not picked up yet.
// Callers must be the only sender on ch.
func offer(ch chan Fix, f Fix) {
	for {
		select {
		case ch <- f:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}
