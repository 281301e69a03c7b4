package location

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	rmcGandhiMaidan = "$GPRMC,101500.00,A,2535.6460,N,08508.2560,E,12.0,90.0,191026,,,A*5D"
	rmcEast         = "$GPRMC,101510.00,A,2536.0000,N,08508.5000,E,12.0,90.0,191026,,,A*5F"
	rmcVoid         = "$GPRMC,101520.00,V,,,,,,,191026,,,N*77"
	ggaGood         = "$GPGGA,101530.00,2536.1000,N,08508.6000,E,1,08,0.9,50.0,M,0.0,M,,*6E"
	ggaPoorHDOP     = "$GPGGA,101540.00,2536.2000,N,08508.7000,E,1,03,9.7,50.0,M,0.0,M,,*67"
	ggaNoFix        = "$GPGGA,101550.00,,,,,0,00,99.9,,M,,M,,*5F"
	rmcBadChecksum  = "$GPRMC,101500.00,A,2535.6460,N,08508.2560,E,12.0,90.0,191026,,,A*00"
)

func readerSource(lines ...string) *NMEASource {
	return NewNMEAReaderSource(func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(strings.Join(lines, "\r\n") + "\r\n")), nil
	})
}

func TestNMEASource_Parse(t *testing.T) {
	src := readerSource()
	src.now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }

	tests := []struct {
		name         string
		line         string
		highAccuracy bool
		wantOK       bool
		wantLat      float64
		wantLng      float64
	}{
		{name: "rmc", line: rmcGandhiMaidan, wantOK: true, wantLat: 25.5941, wantLng: 85.1376},
		{name: "rmc void", line: rmcVoid},
		{name: "gga", line: ggaGood, highAccuracy: true, wantOK: true, wantLat: 25.601666, wantLng: 85.143333},
		{name: "gga poor hdop low accuracy", line: ggaPoorHDOP, wantOK: true, wantLat: 25.603333, wantLng: 85.145},
		{name: "gga poor hdop high accuracy", line: ggaPoorHDOP, highAccuracy: true},
		{name: "gga no fix", line: ggaNoFix},
		{name: "bad checksum", line: rmcBadChecksum},
		{name: "noise", line: "garbage"},
		{name: "empty", line: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fix, ok := src.parse(tt.line, Options{HighAccuracy: tt.highAccuracy})
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.InDelta(t, tt.wantLat, fix.Coord.Lat, 1e-5)
			assert.InDelta(t, tt.wantLng, fix.Coord.Lng, 1e-5)
		})
	}
}

func TestNMEASource_FixTime(t *testing.T) {
	src := readerSource()
	src.now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }

	fix, ok := src.parse(rmcGandhiMaidan, Options{})
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 10, 19, 10, 15, 0, 0, time.UTC), fix.Time)

	// GGA carries no date, today's is used
	fix, ok = src.parse(ggaGood, Options{})
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 10, 19, 10, 15, 30, 0, time.UTC), fix.Time)
}

func TestNMEASource_CurrentPosition(t *testing.T) {
	src := readerSource("garbage", rmcVoid, rmcGandhiMaidan)

	fix, err := src.CurrentPosition(context.Background(), WatchOptions())
	require.NoError(t, err)
	assert.InDelta(t, 25.5941, fix.Coord.Lat, 1e-6)
	assert.InDelta(t, 85.1376, fix.Coord.Lng, 1e-6)
}

func TestNMEASource_CurrentPositionNoFix(t *testing.T) {
	src := readerSource(rmcVoid, ggaNoFix)

	_, err := src.CurrentPosition(context.Background(), WatchOptions())
	assert.ErrorIs(t, err, ErrPositionUnavailable)
}

func TestNMEASource_CurrentPositionTimeout(t *testing.T) {
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()
	src := NewNMEAReaderSource(func() (io.ReadCloser, error) { return pr, nil })

	_, err := src.CurrentPosition(context.Background(), Options{Timeout: 30 * time.Millisecond})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestNMEASource_MaximumAge(t *testing.T) {
	opens := 0
	src := NewNMEAReaderSource(func() (io.ReadCloser, error) {
		opens++
		if opens > 1 {
			return nil, errors.New("device gone")
		}
		return io.NopCloser(strings.NewReader(rmcGandhiMaidan + "\n")), nil
	})
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	src.now = func() time.Time { return now }

	_, err := src.CurrentPosition(context.Background(), Options{})
	require.NoError(t, err)

	now = now.Add(20 * time.Second)
	fix, err := src.CurrentPosition(context.Background(), Options{MaximumAge: time.Minute})
	require.NoError(t, err)
	assert.InDelta(t, 25.5941, fix.Coord.Lat, 1e-6)
	assert.Equal(t, 1, opens)

	// too old, so the device is read again
	_, err = src.CurrentPosition(context.Background(), Options{MaximumAge: 10 * time.Second})
	assert.ErrorIs(t, err, ErrPositionUnavailable)
	assert.Equal(t, 2, opens)
}

func TestNMEASource_Watch(t *testing.T) {
	pr, pw := io.Pipe()
	src := NewNMEAReaderSource(func() (io.ReadCloser, error) { return pr, nil })

	sub, err := src.Watch(context.Background(), Options{HighAccuracy: true})
	require.NoError(t, err)
	defer sub.Close()

	write := func(lines ...string) {
		_, err := io.WriteString(pw, strings.Join(lines, "\n")+"\n")
		require.NoError(t, err)
	}

	write(rmcGandhiMaidan)
	fix := <-sub.C
	require.NoError(t, fix.Err)
	assert.InDelta(t, 25.5941, fix.Coord.Lat, 1e-6)

	write(rmcVoid, ggaGood)
	fix = <-sub.C
	assert.InDelta(t, 25.601666, fix.Coord.Lat, 1e-5)

	write(ggaPoorHDOP, rmcEast)
	fix = <-sub.C
	assert.InDelta(t, 25.6, fix.Coord.Lat, 1e-6)

	require.NoError(t, pw.Close())
	fix = <-sub.C
	assert.ErrorIs(t, fix.Err, ErrPositionUnavailable)

	_, open := <-sub.C
	assert.False(t, open)
}

func TestNMEASource_WatchTimeout(t *testing.T) {
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()
	src := NewNMEAReaderSource(func() (io.ReadCloser, error) { return pr, nil })

	sub, err := src.Watch(context.Background(), Options{Timeout: 20 * time.Millisecond})
	require.NoError(t, err)
	defer sub.Close()

	fix := <-sub.C
	assert.ErrorIs(t, fix.Err, ErrTimeout)

	// watching continues after a timeout
	_, err = io.WriteString(pw, rmcEast+"\n")
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		select {
		case f := <-sub.C:
			return f.Err == nil && f.Coord.Lat > 25
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestNMEASource_CloseStopsReading(t *testing.T) {
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()
	src := NewNMEAReaderSource(func() (io.ReadCloser, error) { return pr, nil })

	sub, err := src.Watch(context.Background(), Options{})
	require.NoError(t, err)

	sub.Close()
	sub.Close()

	assert.Eventually(t, func() bool {
		select {
		case _, open := <-sub.C:
			return !open
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	_, err = io.WriteString(pw, rmcEast+"\n")
	assert.Error(t, err)
}

func TestNMEASource_ReplayFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drive.nmea")
	require.NoError(t, os.WriteFile(path, []byte(rmcGandhiMaidan+"\n"+rmcEast+"\n"), 0600))

	src := NewNMEASource(path, WithReplayInterval(10*time.Millisecond))
	sub, err := src.Watch(context.Background(), Options{})
	require.NoError(t, err)
	defer sub.Close()

	first := <-sub.C
	assert.InDelta(t, 25.5941, first.Coord.Lat, 1e-6)
	second := <-sub.C
	assert.InDelta(t, 25.6, second.Coord.Lat, 1e-6)
}

func TestNMEASource_OpenErrors(t *testing.T) {
	src := NewNMEASource(filepath.Join(t.TempDir(), "missing"))
	_, err := src.Watch(context.Background(), Options{})
	assert.ErrorIs(t, err, ErrPositionUnavailable)

	denied := NewNMEAReaderSource(func() (io.ReadCloser, error) {
		return nil, &os.PathError{Op: "open", Path: "/dev/ttyUSB0", Err: os.ErrPermission}
	})
	_, err = denied.Watch(context.Background(), Options{})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
