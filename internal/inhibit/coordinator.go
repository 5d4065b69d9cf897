// Package inhibit keeps a desktop from sleeping, idling or blanking its
// screen while keep-awake is active, and restores the prior display power
// settings when it is turned off.
package inhibit

import (
	"context"

	"github.com/bnema/pep/internal/logging"
)

const (
	// appName identifies this program to systemd and the screensaver service.
	appName = "pep"

	// inhibitReason is reported alongside every held reservation.
	inhibitReason = "User requested keep-awake"
)

// Coordinator composes the process lock and the screen guard behind a single
// enable/disable contract. The process lock is authoritative: Enable fails
// only when the lock cannot start.
type Coordinator struct {
	lock  *ProcessLock
	guard *ScreenBlankGuard
}

// NewCoordinator creates a coordinator driving the given lock and guard.
func NewCoordinator(lock *ProcessLock, guard *ScreenBlankGuard) *Coordinator {
	return &Coordinator{lock: lock, guard: guard}
}

// Enable starts the sleep/idle lock and then engages screen-blanking
// prevention best-effort. It returns true whenever the lock started, even if
// the guard could not engage.
func (c *Coordinator) Enable(ctx context.Context) bool {
	log := logging.FromContext(ctx)

	if c.lock.IsActive() {
		log.Warn().Msg("inhibitor already running")
		return false
	}
	if !c.lock.Start(ctx) {
		return false
	}

	c.guard.Engage(ctx)
	return true
}

// Disable disengages the screen guard and stops the lock. It returns false
// if the inhibitor is not active.
func (c *Coordinator) Disable(ctx context.Context) bool {
	log := logging.FromContext(ctx)

	if !c.lock.IsActive() {
		log.Warn().Msg("inhibitor not running")
		return false
	}

	c.guard.Disengage(ctx)
	c.lock.Stop(ctx)
	return true
}

// IsActive reports whether the sleep/idle lock is held.
func (c *Coordinator) IsActive() bool {
	return c.lock.IsActive()
}

// Cleanup releases everything held. Safe to call unconditionally on shutdown.
func (c *Coordinator) Cleanup(ctx context.Context) {
	// The screen inhibit may still be held even if the lock process died.
	c.guard.Disengage(ctx)

	if c.lock.IsActive() {
		c.Disable(ctx)
	}
}
