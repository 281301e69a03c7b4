package tui

import (
	"github.com/google/uuid"
	"github.com/mobil-koeln/navi-cli/internal/location"
	"github.com/mobil-koeln/navi-cli/internal/models"
)

// routeResultMsg carries a directions result back to the model.
// seq is used for stale-result detection.
type routeResultMsg struct {
	seq   uint64
	route *models.Route
	err   error
}

// refreshTickMsg fires for the refresh handle id while navigating.
type refreshTickMsg struct {
	id uuid.UUID
}

// positionMsg carries the one-shot position read for a refresh tick.
type positionMsg struct {
	id  uuid.UUID
	fix location.Fix
	err error
}

// watchStartedMsg carries a new position subscription.
type watchStartedMsg struct {
	sub *location.Subscription
	err error
}

// watchFixMsg carries one fix from sub. ok is false once the stream ended.
type watchFixMsg struct {
	sub *location.Subscription
	fix location.Fix
	ok  bool
}
