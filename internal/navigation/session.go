package navigation

import (
	"time"

	"github.com/google/uuid"
	"github.com/mobil-koeln/navi-cli/internal/models"
)

// State is the navigation state
type State int

const (
	Idle State = iota
	Navigating
)

func (s State) String() string {
	if s == Navigating {
		return "navigating"
	}
	return "idle"
}

// RefreshHandle identifies one armed refresh timer. Ticks carry the ID; a
// tick whose ID is not the current handle's is stale.
type RefreshHandle struct {
	ID       uuid.UUID
	Interval time.Duration
}

// session exists only while navigating, so the handle is present exactly
// when navigation is active
type session struct {
	handle    RefreshHandle
	planned   models.RouteQuery
	lastKnown *models.Coordinate
	startedAt time.Time
}

// SessionInfo is a read-only view of the tracking session
type SessionInfo struct {
	Active    bool
	Handle    *RefreshHandle
	LastKnown *models.Coordinate
	Planned   models.RouteQuery
	StartedAt time.Time
}

func newSession(interval time.Duration, planned models.RouteQuery, now time.Time) *session {
	return &session{
		handle: RefreshHandle{
			ID:       uuid.New(),
			Interval: interval,
		},
		planned:   planned,
		startedAt: now,
	}
}

func (s *session) current(id uuid.UUID) bool {
	return s != nil && s.handle.ID == id
}

func (s *session) info() SessionInfo {
	if s == nil {
		return SessionInfo{}
	}
	h := s.handle
	info := SessionInfo{
		Active:    true,
		Handle:    &h,
		Planned:   s.planned,
		StartedAt: s.startedAt,
	}
	if s.lastKnown != nil {
		c := *s.lastKnown
		info.LastKnown = &c
	}
	return info
}
