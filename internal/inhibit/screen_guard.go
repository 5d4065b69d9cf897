package inhibit

import (
	"context"
	"errors"
	"os/exec"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/bnema/pep/internal/logging"
)

const (
	xsetCommand = "xset"

	// dbusTimeout bounds each call to the screensaver service.
	dbusTimeout = 5 * time.Second
	// xsetTimeout bounds each xset invocation.
	xsetTimeout = 5 * time.Second
)

var (
	dpmsTimeoutsRe = regexp.MustCompile(`Standby:\s+(\d+)\s+Suspend:\s+(\d+)\s+Off:\s+(\d+)`)
	saverTimeoutRe = regexp.MustCompile(`timeout:\s+(\d+)\s+cycle:`)
)

// DpmsBaseline is the display power state captured before the xset fallback
// overrides it: the DPMS standby, suspend and off timeouts plus the X
// screensaver timeout, all in seconds.
type DpmsBaseline struct {
	Standby     int
	Suspend     int
	Off         int
	ScreenSaver int
}

// guardState identifies which strategy currently holds the screen-blanking
// inhibition.
type guardState int

const (
	guardInactive guardState = iota
	guardDBus
	guardFallback
)

// ScreenBlankGuard prevents screen blanking while engaged, preferring the
// session screensaver service and falling back to xset. Exactly one strategy
// holds at a time; cookie is valid only in the D-Bus state and baseline only
// in the fallback state.
type ScreenBlankGuard struct {
	mu       sync.Mutex
	state    guardState
	cookie   uint32
	baseline *DpmsBaseline

	saver  screenSaverClient
	runner commandRunner
}

// NewScreenBlankGuard creates a guard backed by the session bus and xset.
func NewScreenBlankGuard() *ScreenBlankGuard {
	return &ScreenBlankGuard{
		saver:  dbusScreenSaver{},
		runner: execRunner{},
	}
}

// Engage attempts to prevent screen blanking. The screensaver service is
// tried first; any failure there falls through to the xset fallback. An
// attempt that cannot engage leaves the guard inactive without raising.
func (g *ScreenBlankGuard) Engage(ctx context.Context) {
	log := logging.FromContext(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != guardInactive {
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, dbusTimeout)
	cookie, err := g.saver.Inhibit(callCtx, appName, inhibitReason)
	cancel()
	if err == nil {
		g.state = guardDBus
		g.cookie = cookie
		log.Info().Uint32("cookie", cookie).Msg("screen blanking inhibited via D-Bus")
		return
	}
	log.Debug().Err(err).Msg("D-Bus screensaver inhibit failed")

	g.engageFallback(ctx)
}

// engageFallback captures the current display power settings and disables
// screensaver and DPMS via xset. Callers must hold g.mu.
func (g *ScreenBlankGuard) engageFallback(ctx context.Context) {
	log := logging.FromContext(ctx)

	queryCtx, cancel := context.WithTimeout(ctx, xsetTimeout)
	out, err := g.runner.output(queryCtx, xsetCommand, "q")
	// A timed-out query is killed and surfaces as an exit error, so the
	// context has to be consulted to tell the two apart.
	timedOut := queryCtx.Err() != nil
	cancel()

	var baseline *DpmsBaseline
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		baseline = parseDpmsBaseline(out)
		if baseline != nil {
			log.Debug().
				Int("standby", baseline.Standby).
				Int("suspend", baseline.Suspend).
				Int("off", baseline.Off).
				Int("screensaver", baseline.ScreenSaver).
				Msg("saved original DPMS settings")
		}
	case errors.Is(err, exec.ErrNotFound):
		log.Warn().Msg("xset not found, screen blanking prevention unavailable")
		return
	case errors.As(err, &exitErr) && !timedOut:
		// The query ran but exited nonzero; same as unparsable output.
	default:
		log.Warn().Err(err).Msg("xset fallback failed")
		return
	}

	if err := g.runXset(ctx, "s", "off", "-dpms"); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			log.Warn().Msg("xset not found, screen blanking prevention unavailable")
		} else {
			log.Warn().Err(err).Msg("xset fallback failed")
		}
		return
	}

	g.state = guardFallback
	g.baseline = baseline
	log.Info().Msg("screen blanking inhibited via xset fallback")
}

// Disengage releases whichever strategy holds and returns the guard to
// inactive. Release failures are logged, never propagated; the guard counts
// as released regardless.
func (g *ScreenBlankGuard) Disengage(ctx context.Context) {
	log := logging.FromContext(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case guardInactive:
		return

	case guardDBus:
		callCtx, cancel := context.WithTimeout(ctx, dbusTimeout)
		err := g.saver.UnInhibit(callCtx, g.cookie)
		cancel()
		if err != nil {
			log.Warn().Err(err).Uint32("cookie", g.cookie).Msg("failed to release D-Bus inhibit")
		} else {
			log.Info().Uint32("cookie", g.cookie).Msg("screen blanking D-Bus inhibit released")
		}
		g.cookie = 0

	case guardFallback:
		g.restoreFallback(ctx)
		g.baseline = nil
	}

	g.state = guardInactive
}

// restoreFallback reissues the captured baseline, or re-enables screensaver
// and DPMS with tool defaults when none was captured. Callers must hold g.mu.
func (g *ScreenBlankGuard) restoreFallback(ctx context.Context) {
	log := logging.FromContext(ctx)

	if b := g.baseline; b != nil {
		err := g.runXset(ctx, "dpms", strconv.Itoa(b.Standby), strconv.Itoa(b.Suspend), strconv.Itoa(b.Off))
		if err == nil {
			err = g.runXset(ctx, "s", strconv.Itoa(b.ScreenSaver))
		}
		if err != nil {
			log.Warn().Err(err).Msg("failed to restore xset settings")
			return
		}
		log.Info().
			Int("standby", b.Standby).
			Int("suspend", b.Suspend).
			Int("off", b.Off).
			Int("screensaver", b.ScreenSaver).
			Msg("restored original DPMS settings")
		return
	}

	if err := g.runXset(ctx, "+dpms", "s", "on"); err != nil {
		log.Warn().Err(err).Msg("failed to restore xset settings")
		return
	}
	log.Info().Msg("re-enabled DPMS with defaults")
}

// IsEngaged reports whether either strategy currently holds.
func (g *ScreenBlankGuard) IsEngaged() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state != guardInactive
}

func (g *ScreenBlankGuard) runXset(ctx context.Context, args ...string) error {
	runCtx, cancel := context.WithTimeout(ctx, xsetTimeout)
	defer cancel()
	return g.runner.run(runCtx, xsetCommand, args...)
}

// parseDpmsBaseline extracts DPMS and screensaver timeouts from xset q
// output. Fields whose pattern is absent default to zero; it returns nil
// when neither pattern matches.
func parseDpmsBaseline(output string) *DpmsBaseline {
	var b DpmsBaseline

	dpms := dpmsTimeoutsRe.FindStringSubmatch(output)
	if dpms != nil {
		b.Standby, _ = strconv.Atoi(dpms[1])
		b.Suspend, _ = strconv.Atoi(dpms[2])
		b.Off, _ = strconv.Atoi(dpms[3])
	}

	saver := saverTimeoutRe.FindStringSubmatch(output)
	if saver != nil {
		b.ScreenSaver, _ = strconv.Atoi(saver[1])
	}

	if dpms == nil && saver == nil {
		return nil
	}
	return &b
}
