package location

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/adrianmo/go-nmea"
	"github.com/mobil-koeln/navi-cli/internal/models"
	"go.uber.org/zap"
)

// maxHDOP is the worst horizontal dilution accepted in high accuracy mode
const maxHDOP = 5.0

// NMEASource reads $GPRMC and $GPGGA sentences from a GPS receiver or a
// recorded log
type NMEASource struct {
	open     func() (io.ReadCloser, error)
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu     sync.Mutex
	last   *Fix
	lastAt time.Time
}

// NMEAOption configures an NMEASource
type NMEAOption func(*NMEASource)

// WithReplayInterval paces fixes when replaying a recorded file
func WithReplayInterval(d time.Duration) NMEAOption {
	return func(s *NMEASource) {
		s.interval = d
	}
}

// WithNMEALogger sets the logger for skipped sentences
func WithNMEALogger(l *zap.Logger) NMEAOption {
	return func(s *NMEASource) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewNMEASource reads from a serial device or file path
func NewNMEASource(device string, opts ...NMEAOption) *NMEASource {
	return NewNMEAReaderSource(func() (io.ReadCloser, error) {
		// #nosec G304 -- the device path comes from the user's own config
		return os.Open(device)
	}, opts...)
}

// NewNMEAReaderSource reads from a stream returned by open; every Watch
// opens a new stream
func NewNMEAReaderSource(open func() (io.ReadCloser, error), opts ...NMEAOption) *NMEASource {
	s := &NMEASource{
		open:   open,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CurrentPosition returns a cached fix younger than opts.MaximumAge, or
// waits for the next one
func (s *NMEASource) CurrentPosition(ctx context.Context, opts Options) (Fix, error) {
	if opts.MaximumAge > 0 {
		if f, ok := s.cached(opts.MaximumAge); ok {
			return f, nil
		}
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	sub, err := s.Watch(ctx, Options{HighAccuracy: opts.HighAccuracy})
	if err != nil {
		return Fix{}, err
	}
	defer sub.Close()

	select {
	case f, ok := <-sub.C:
		if !ok {
			return Fix{}, contextError(ctx)
		}
		if f.Err != nil {
			return Fix{}, f.Err
		}
		return f, nil
	case <-ctx.Done():
		return Fix{}, contextError(ctx)
	}
}

// Watch opens the stream and emits every accepted fix. When opts.Timeout
// passes without a fix, a fix carrying ErrTimeout is emitted and watching
// continues. End of stream emits ErrPositionUnavailable and closes C.
func (s *NMEASource) Watch(ctx context.Context, opts Options) (*Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rc, err := s.open()
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %w", ErrPermissionDenied, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrPositionUnavailable, err)
	}

	out := make(chan Fix, 1)
	fixes := make(chan Fix)
	done := make(chan struct{})

	sub := NewSubscription(out, func() {
		close(done)
		_ = rc.Close()
	})
	context.AfterFunc(ctx, sub.Close)

	go s.scan(rc, opts, fixes, done)
	go s.forward(fixes, out, opts.Timeout, done)

	return sub, nil
}

// scan parses sentences and hands accepted fixes to forward
func (s *NMEASource) scan(r io.Reader, opts Options, fixes chan<- Fix, done <-chan struct{}) {
	defer close(fixes)

	scanner := bufio.NewScanner(r)
	sent := false
	for scanner.Scan() {
		fix, ok := s.parse(scanner.Text(), opts)
		if !ok {
			continue
		}

		if sent && s.interval > 0 {
			select {
			case <-time.After(s.interval):
			case <-done:
				return
			}
		}

		select {
		case fixes <- fix:
			sent = true
		case <-done:
			return
		}
	}

	if err := scanner.Err(); err != nil {
		s.logger.Debug("nmea stream ended", zap.Error(err))
	}
}

// forward owns out; it remembers each fix and reports silence as timeouts
func (s *NMEASource) forward(fixes <-chan Fix, out chan Fix, timeout time.Duration, done <-chan struct{}) {
	defer close(out)

	var timer *time.Timer
	var expired <-chan time.Time
	if timeout > 0 {
		timer = time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	for {
		select {
		case <-done:
			return
		case f, ok := <-fixes:
			if !ok {
				// the last fix is delivered before the end of stream
				select {
				case out <- Fix{Err: ErrPositionUnavailable}:
				case <-done:
				}
				return
			}
			s.remember(f)
			offer(out, f)
			if timer != nil {
				timer.Reset(timeout)
			}
		case <-expired:
			offer(out, Fix{Err: ErrTimeout})
			timer.Reset(timeout)
		}
	}
}

func (s *NMEASource) parse(line string, opts Options) (Fix, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "$") {
		return Fix{}, false
	}

	sentence, err := nmea.Parse(line)
	if err != nil {
		s.logger.Debug("skip nmea sentence", zap.String("sentence", line), zap.Error(err))
		return Fix{}, false
	}

	switch m := sentence.(type) {
	case nmea.RMC:
		if m.Validity != nmea.ValidRMC {
			return Fix{}, false
		}
		return Fix{
			Coord: models.Coordinate{Lat: m.Latitude, Lng: m.Longitude},
			Time:  s.fixTime(m.Date, m.Time),
		}, true
	case nmea.GGA:
		if m.FixQuality == nmea.Invalid {
			return Fix{}, false
		}
		if opts.HighAccuracy && m.HDOP > maxHDOP {
			return Fix{}, false
		}
		return Fix{
			Coord: models.Coordinate{Lat: m.Latitude, Lng: m.Longitude},
			Time:  s.fixTime(nmea.Date{}, m.Time),
		}, true
	}

	return Fix{}, false
}

// fixTime combines the sentence time with its date, or today's date for
// sentences that carry none
func (s *NMEASource) fixTime(d nmea.Date, t nmea.Time) time.Time {
	now := s.now().UTC()
	if !t.Valid {
		return now
	}

	year, month, day := now.Date()
	if d.Valid {
		year = 2000 + d.YY
		if year > now.Year()+1 {
			year -= 100
		}
		month = time.Month(d.MM)
		day = d.DD
	}

	return time.Date(year, month, day, t.Hour, t.Minute, t.Second, t.Millisecond*int(time.Millisecond), time.UTC)
}

func (s *NMEASource) remember(f Fix) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = &f
	s.lastAt = s.now()
}

func (s *NMEASource) cached(maxAge time.Duration) (Fix, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil || s.now().Sub(s.lastAt) > maxAge {
		return Fix{}, false
	}
	return *s.last, true
}

func contextError(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return ErrPositionUnavailable
}
