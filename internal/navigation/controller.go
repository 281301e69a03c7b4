package navigation

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/mobil-koeln/navi-cli/internal/models"
	"go.uber.org/zap"
)

// DefaultRefreshInterval is the period of route recalculation while navigating
const DefaultRefreshInterval = 10 * time.Second

// Router computes driving routes; *api.Client implements it
type Router interface {
	Directions(ctx context.Context, q models.RouteQuery) (*models.Route, error)
}

// RouteRequest is a query the caller must send to the Router. The result is
// handed back with ApplyRoute under the same Seq.
type RouteRequest struct {
	Seq   uint64
	Query models.RouteQuery
}

// pending is an issued request awaiting its response. handle is set for
// refreshes and names the session that issued them.
type pending struct {
	query   models.RouteQuery
	refresh bool
	handle  uuid.UUID
}

type routeInput struct {
	Origin      string `validate:"required"`
	Destination string `validate:"required"`
}

// Controller owns the origin/destination inputs, the current route and the
// navigation session. It performs no I/O: every method is a state transition
// and the caller runs the requests it returns.
type Controller struct {
	origin      string
	destination string

	route        *models.Route
	distanceText string
	durationText string

	// planned is the last user query that produced the displayed route
	planned models.RouteQuery
	session *session

	seq       uint64
	applied   uint64
	clearedAt uint64
	inflight  map[uint64]pending

	interval time.Duration
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures a Controller
type Option func(*Controller)

// WithRefreshInterval sets the navigation refresh period
func WithRefreshInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithLogger sets the logger for state transitions
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewController creates an idle controller with no route
func NewController(opts ...Option) *Controller {
	c := &Controller{
		inflight: make(map[uint64]pending),
		interval: DefaultRefreshInterval,
		validate: validator.New(),
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetInputs stores the text of the origin and destination fields
func (c *Controller) SetInputs(origin, destination string) {
	c.origin = origin
	c.destination = destination
}

// Inputs returns the origin and destination field text
func (c *Controller) Inputs() (string, string) {
	return c.origin, c.destination
}

// RequestFromInputs is RequestRoute with the current field text
func (c *Controller) RequestFromInputs() (RouteRequest, error) {
	return c.RequestRoute(models.TextOrigin(c.origin), c.destination)
}

// RequestRoute validates the input and issues a numbered request. It does
// not change the navigation state.
func (c *Controller) RequestRoute(origin models.Origin, destination string) (RouteRequest, error) {
	return c.request(origin, destination, uuid.Nil)
}

// request issues a numbered query; a non-nil handle marks a refresh
func (c *Controller) request(origin models.Origin, destination string, handle uuid.UUID) (RouteRequest, error) {
	refresh := handle != uuid.Nil
	in := routeInput{
		Origin:      origin.String(),
		Destination: strings.TrimSpace(destination),
	}
	if err := c.validate.Struct(in); err != nil {
		verr := &ValidationError{}
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				verr.Missing = append(verr.Missing, strings.ToLower(fe.Field()))
			}
		}
		return RouteRequest{}, verr
	}

	c.seq++
	q := models.NewRouteQuery(origin, in.Destination)
	c.inflight[c.seq] = pending{query: q, refresh: refresh, handle: handle}

	c.logger.Debug("route requested",
		zap.Uint64("seq", c.seq),
		zap.String("origin", in.Origin),
		zap.String("destination", in.Destination),
		zap.Bool("refresh", refresh),
		zap.Stringer("state", c.State()),
	)

	return RouteRequest{Seq: c.seq, Query: q}, nil
}

// ApplyRoute records the outcome of request seq. Responses older than the
// last applied one, or issued before the last ClearRoute, are dropped with
// ErrStaleResponse. A failure keeps the previous route and returns a
// ProviderError.
func (c *Controller) ApplyRoute(seq uint64, route *models.Route, err error) error {
	p, ok := c.inflight[seq]
	delete(c.inflight, seq)
	q := p.query

	if !ok || seq <= c.applied || seq <= c.clearedAt {
		c.logger.Debug("stale route response dropped", zap.Uint64("seq", seq), zap.Uint64("applied", c.applied))
		return ErrStaleResponse
	}

	if err != nil {
		c.logger.Error("route request failed", zap.Uint64("seq", seq), zap.Error(err))
		return &ProviderError{
			Origin:      q.Origin.String(),
			Destination: q.Destination,
			Err:         err,
		}
	}
	if route == nil {
		return &ProviderError{Origin: q.Origin.String(), Destination: q.Destination, Err: errNoRoute}
	}

	c.applied = seq
	c.route = route
	c.distanceText = route.DistanceText()
	c.durationText = route.DurationText()

	if !p.refresh {
		c.planned = q
	} else if c.session.current(p.handle) {
		coord := *q.Origin.Coord
		c.session.lastKnown = &coord
	}

	c.logger.Info("route updated",
		zap.Uint64("seq", seq),
		zap.String("distance", c.distanceText),
		zap.String("duration", c.durationText),
	)
	return nil
}

// StartNavigation enters the navigating state and returns the refresh
// handle to arm. Calling it while navigating returns the existing handle
// and armed=false so no second timer is started.
func (c *Controller) StartNavigation() (handle RefreshHandle, armed bool, err error) {
	if c.route == nil {
		return RefreshHandle{}, false, &PreconditionError{Action: "start navigation", Reason: "no route"}
	}
	if c.session != nil {
		return c.session.handle, false, nil
	}

	c.session = newSession(c.interval, c.planned, c.now())
	c.logger.Info("navigation started",
		zap.Stringer("handle", c.session.handle.ID),
		zap.Duration("interval", c.interval),
	)
	return c.session.handle, true, nil
}

// RefreshDue reports whether a tick for handle id should run and re-arm.
// Ticks of a retired handle return false.
func (c *Controller) RefreshDue(id uuid.UUID) bool {
	return c.session.current(id)
}

// RefreshQuery issues the recalculation from the current position for the
// tick of handle id. It returns false when navigation stopped meanwhile.
func (c *Controller) RefreshQuery(id uuid.UUID, coord models.Coordinate) (RouteRequest, bool) {
	if !c.session.current(id) {
		return RouteRequest{}, false
	}

	c.session.lastKnown = &coord
	req, err := c.request(models.CoordOrigin(coord), c.session.planned.Destination, id)
	if err != nil {
		return RouteRequest{}, false
	}
	return req, true
}

// PositionFailed records a tick that got no position. The session stays
// active; the returned LocationError is for logging, nil for a stale tick.
func (c *Controller) PositionFailed(id uuid.UUID, err error) error {
	if !c.session.current(id) {
		return nil
	}
	lerr := &LocationError{Err: err}
	c.logger.Warn("refresh skipped", zap.Stringer("handle", id), zap.Error(err))
	return lerr
}

// StopNavigation retires the refresh handle and returns one final request
// from the planned origin. ok is false when not navigating.
func (c *Controller) StopNavigation() (RouteRequest, bool) {
	if c.session == nil {
		return RouteRequest{}, false
	}

	planned := c.session.planned
	c.logger.Info("navigation stopped", zap.Stringer("handle", c.session.handle.ID))
	c.session = nil

	req, err := c.RequestRoute(planned.Origin, planned.Destination)
	if err != nil {
		return RouteRequest{}, false
	}
	return req, true
}

// ClearRoute ends navigation, drops the route and empties the inputs.
// Responses to requests issued before this call are ignored.
func (c *Controller) ClearRoute() {
	if c.session != nil {
		c.logger.Info("navigation stopped", zap.Stringer("handle", c.session.handle.ID))
	}
	c.session = nil
	c.route = nil
	c.distanceText = ""
	c.durationText = ""
	c.planned = models.RouteQuery{}
	c.origin = ""
	c.destination = ""
	c.clearedAt = c.seq
	clear(c.inflight)

	c.logger.Debug("route cleared", zap.Uint64("seq", c.seq))
}

// Route returns the displayed route, nil when there is none
func (c *Controller) Route() *models.Route {
	return c.route
}

// DistanceText returns the first leg's distance text
func (c *Controller) DistanceText() string {
	return c.distanceText
}

// DurationText returns the first leg's duration text
func (c *Controller) DurationText() string {
	return c.durationText
}

// Navigating reports whether a tracking session is active
func (c *Controller) Navigating() bool {
	return c.session != nil
}

// State returns Idle or Navigating
func (c *Controller) State() State {
	if c.session != nil {
		return Navigating
	}
	return Idle
}

// Session returns a snapshot of the tracking session
func (c *Controller) Session() SessionInfo {
	return c.session.info()
}

// Pending returns the number of requests awaiting a response
func (c *Controller) Pending() int {
	return len(c.inflight)
}
