package navigation

import (
	"github.com/mobil-koeln/navi-cli/internal/location"
	"github.com/mobil-koeln/navi-cli/internal/models"
	"go.uber.org/zap"
)

// Tracker holds the single live location subscription of the map view and
// the latest position it reported
type Tracker struct {
	sub       *location.Subscription
	latest    *models.Coordinate
	updates   int
	following bool
	logger    *zap.Logger
}

// NewTracker creates a tracker without a subscription
func NewTracker(logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{logger: logger}
}

// Attach makes sub the active subscription. A previous one is released
// first, so at most one is ever open.
func (t *Tracker) Attach(sub *location.Subscription) {
	if sub == nil || sub == t.sub {
		return
	}
	if t.sub != nil {
		t.logger.Debug("replacing location subscription")
		t.Release()
	}
	t.sub = sub
}

// Active reports whether a subscription is open
func (t *Tracker) Active() bool {
	return t.sub != nil
}

// Subscription returns the open subscription, nil when none
func (t *Tracker) Subscription() *location.Subscription {
	return t.sub
}

// Follow turns follow mode on or off. The view follows the position while
// a route is displayed.
func (t *Tracker) Follow(on bool) {
	if on != t.following {
		t.logger.Debug("follow mode", zap.Bool("on", on))
	}
	t.following = on
}

// Following reports whether follow mode is on
func (t *Tracker) Following() bool {
	return t.following
}

// Observe stores a position update and reports whether the camera should
// recenter on it, which it does in follow mode
func (t *Tracker) Observe(coord models.Coordinate) bool {
	if t.latest != nil {
		t.logger.Debug("position update",
			zap.Stringer("position", coord),
			zap.Float64("moved_m", t.latest.DistanceTo(coord)),
		)
	}
	t.latest = &coord
	t.updates++
	return t.following
}

// Latest returns the most recent position
func (t *Tracker) Latest() (models.Coordinate, bool) {
	if t.latest == nil {
		return models.Coordinate{}, false
	}
	return *t.latest, true
}

// Updates returns how many positions were observed
func (t *Tracker) Updates() int {
	return t.updates
}

// Release closes the subscription. Calling it again is a no-op.
func (t *Tracker) Release() {
	if t.sub == nil {
		return
	}
	t.sub.Close()
	t.sub = nil
}
