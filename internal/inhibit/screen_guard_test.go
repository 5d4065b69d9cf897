package inhibit

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// xsetQueryOutput mirrors real xset q output on a desktop with 10 minute
// blanking timeouts.
const xsetQueryOutput = `Keyboard Control:
  auto repeat:  on    key click percent:  0    LED mask:  00000000
Screen Saver:
  prefer blanking:  yes    allow exposures:  yes
  timeout:  600    cycle:  600
Colors:
  default colormap:  0x20    BlackPixel:  0x0    WhitePixel:  0xffffff
DPMS (Energy Star):
  Standby: 600    Suspend: 600    Off: 600
  DPMS is Enabled
  Monitor is On
`

type fakeScreenSaver struct {
	cookie       uint32
	inhibitErr   error
	unInhibitErr error

	inhibitCalls int
	application  string
	reason       string
	unInhibited  []uint32
}

func (f *fakeScreenSaver) Inhibit(_ context.Context, application, reason string) (uint32, error) {
	f.inhibitCalls++
	f.application = application
	f.reason = reason
	if f.inhibitErr != nil {
		return 0, f.inhibitErr
	}
	return f.cookie, nil
}

func (f *fakeScreenSaver) UnInhibit(_ context.Context, cookie uint32) error {
	f.unInhibited = append(f.unInhibited, cookie)
	return f.unInhibitErr
}

// fakeRunner records every external command line and serves canned results.
type fakeRunner struct {
	queryOutput string
	queryErr    error
	runErrs     map[string]error

	queries []string
	runs    []string
}

func (f *fakeRunner) run(_ context.Context, name string, args ...string) error {
	line := strings.Join(append([]string{name}, args...), " ")
	f.runs = append(f.runs, line)
	return f.runErrs[line]
}

func (f *fakeRunner) output(_ context.Context, name string, args ...string) (string, error) {
	f.queries = append(f.queries, strings.Join(append([]string{name}, args...), " "))
	return f.queryOutput, f.queryErr
}

func newTestGuard(saver *fakeScreenSaver, runner *fakeRunner) *ScreenBlankGuard {
	return &ScreenBlankGuard{saver: saver, runner: runner}
}

func TestScreenBlankGuard_PrimaryEngageDisengage(t *testing.T) {
	saver := &fakeScreenSaver{cookie: 7}
	runner := &fakeRunner{}
	guard := newTestGuard(saver, runner)
	ctx := context.Background()

	guard.Engage(ctx)

	assert.True(t, guard.IsEngaged())
	assert.Equal(t, guardDBus, guard.state)
	assert.Equal(t, uint32(7), guard.cookie)
	assert.Equal(t, "pep", saver.application)
	assert.Equal(t, "User requested keep-awake", saver.reason)

	// The fallback is never attempted once the primary succeeded.
	assert.Empty(t, runner.queries)
	assert.Empty(t, runner.runs)

	guard.Disengage(ctx)

	assert.False(t, guard.IsEngaged())
	assert.Equal(t, []uint32{7}, saver.unInhibited)
	assert.Empty(t, runner.runs)
}

func TestScreenBlankGuard_EngageWhileEngaged(t *testing.T) {
	saver := &fakeScreenSaver{cookie: 4}
	guard := newTestGuard(saver, &fakeRunner{})
	ctx := context.Background()

	guard.Engage(ctx)
	guard.Engage(ctx)

	assert.Equal(t, 1, saver.inhibitCalls)
	assert.Equal(t, uint32(4), guard.cookie)
}

func TestScreenBlankGuard_ReleaseFailureStillReleases(t *testing.T) {
	saver := &fakeScreenSaver{cookie: 9, unInhibitErr: errors.New("service gone")}
	guard := newTestGuard(saver, &fakeRunner{})
	ctx := context.Background()

	guard.Engage(ctx)
	guard.Disengage(ctx)

	// A failed UnInhibit still counts as released.
	assert.False(t, guard.IsEngaged())
	assert.Equal(t, []uint32{9}, saver.unInhibited)
}

func TestScreenBlankGuard_FallbackRestoresBaseline(t *testing.T) {
	saver := &fakeScreenSaver{inhibitErr: errors.New("no session bus")}
	runner := &fakeRunner{queryOutput: xsetQueryOutput}
	guard := newTestGuard(saver, runner)
	ctx := context.Background()

	guard.Engage(ctx)

	require.Equal(t, guardFallback, guard.state)
	require.NotNil(t, guard.baseline)
	assert.Equal(t, &DpmsBaseline{Standby: 600, Suspend: 600, Off: 600, ScreenSaver: 600}, guard.baseline)
	assert.Equal(t, []string{"xset q"}, runner.queries)
	assert.Equal(t, []string{"xset s off -dpms"}, runner.runs)

	guard.Disengage(ctx)

	// The captured values are reissued exactly.
	assert.Equal(t, []string{
		"xset s off -dpms",
		"xset dpms 600 600 600",
		"xset s 600",
	}, runner.runs)
	assert.False(t, guard.IsEngaged())
	assert.Nil(t, guard.baseline)
}

func TestScreenBlankGuard_FallbackUnparsableOutput(t *testing.T) {
	saver := &fakeScreenSaver{inhibitErr: errors.New("no session bus")}
	runner := &fakeRunner{queryOutput: "no dpms information here"}
	guard := newTestGuard(saver, runner)
	ctx := context.Background()

	guard.Engage(ctx)

	// Unparsable output is not an error: the guard engages without a
	// baseline to restore.
	require.Equal(t, guardFallback, guard.state)
	assert.Nil(t, guard.baseline)
	assert.Equal(t, []string{"xset s off -dpms"}, runner.runs)

	guard.Disengage(ctx)

	// Without a baseline the defaults are re-enabled instead of a restore.
	assert.Equal(t, []string{
		"xset s off -dpms",
		"xset +dpms s on",
	}, runner.runs)
	assert.False(t, guard.IsEngaged())
}

func TestScreenBlankGuard_XsetMissing(t *testing.T) {
	saver := &fakeScreenSaver{inhibitErr: errors.New("no session bus")}
	runner := &fakeRunner{queryErr: &exec.Error{Name: "xset", Err: exec.ErrNotFound}}
	guard := newTestGuard(saver, runner)

	guard.Engage(context.Background())

	// Screen blanking prevention is silently unavailable.
	assert.False(t, guard.IsEngaged())
	assert.Empty(t, runner.runs)
}

func TestScreenBlankGuard_QueryExitErrorStillEngages(t *testing.T) {
	saver := &fakeScreenSaver{inhibitErr: errors.New("no session bus")}
	runner := &fakeRunner{queryErr: &exec.ExitError{}}
	guard := newTestGuard(saver, runner)

	guard.Engage(context.Background())

	// A query that ran but exited nonzero behaves like unparsable output.
	assert.Equal(t, guardFallback, guard.state)
	assert.Nil(t, guard.baseline)
	assert.Equal(t, []string{"xset s off -dpms"}, runner.runs)
}

func TestScreenBlankGuard_QueryTimeoutAborts(t *testing.T) {
	saver := &fakeScreenSaver{inhibitErr: errors.New("no session bus")}
	runner := &fakeRunner{queryErr: &exec.ExitError{}}
	guard := newTestGuard(saver, runner)

	// An expired context marks the exit error as a kill after timeout
	// rather than a genuine nonzero exit.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	guard.Engage(ctx)

	assert.False(t, guard.IsEngaged())
	assert.Empty(t, runner.runs)
}

func TestScreenBlankGuard_QueryTransientFailure(t *testing.T) {
	saver := &fakeScreenSaver{inhibitErr: errors.New("no session bus")}
	runner := &fakeRunner{queryErr: errors.New("display connection lost")}
	guard := newTestGuard(saver, runner)

	guard.Engage(context.Background())

	assert.False(t, guard.IsEngaged())
	assert.Empty(t, runner.runs)
}

func TestScreenBlankGuard_DisableCommandFails(t *testing.T) {
	saver := &fakeScreenSaver{inhibitErr: errors.New("no session bus")}
	runner := &fakeRunner{
		queryOutput: xsetQueryOutput,
		runErrs:     map[string]error{"xset s off -dpms": errors.New("exit status 1")},
	}
	guard := newTestGuard(saver, runner)

	guard.Engage(context.Background())

	assert.False(t, guard.IsEngaged())
	assert.Nil(t, guard.baseline)
}

func TestScreenBlankGuard_RestoreFailureStillReleases(t *testing.T) {
	saver := &fakeScreenSaver{inhibitErr: errors.New("no session bus")}
	runner := &fakeRunner{
		queryOutput: xsetQueryOutput,
		runErrs:     map[string]error{"xset dpms 600 600 600": errors.New("exit status 1")},
	}
	guard := newTestGuard(saver, runner)
	ctx := context.Background()

	guard.Engage(ctx)
	guard.Disengage(ctx)

	// The screensaver restore is skipped once the DPMS restore failed, but
	// the guard still counts as released.
	assert.Equal(t, []string{
		"xset s off -dpms",
		"xset dpms 600 600 600",
	}, runner.runs)
	assert.False(t, guard.IsEngaged())
}

func TestScreenBlankGuard_DisengageInactive(t *testing.T) {
	saver := &fakeScreenSaver{}
	runner := &fakeRunner{}
	guard := newTestGuard(saver, runner)

	guard.Disengage(context.Background())

	assert.Empty(t, saver.unInhibited)
	assert.Empty(t, runner.runs)
}

func TestParseDpmsBaseline(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   *DpmsBaseline
	}{
		{
			name:   "full output",
			output: xsetQueryOutput,
			want:   &DpmsBaseline{Standby: 600, Suspend: 600, Off: 600, ScreenSaver: 600},
		},
		{
			name:   "dpms only",
			output: "DPMS (Energy Star):\n  Standby: 450    Suspend: 500    Off: 550\n",
			want:   &DpmsBaseline{Standby: 450, Suspend: 500, Off: 550},
		},
		{
			name:   "screensaver only",
			output: "Screen Saver:\n  timeout:  300    cycle:  300\n",
			want:   &DpmsBaseline{ScreenSaver: 300},
		},
		{
			name:   "no matches",
			output: "Keyboard Control:\n  auto repeat:  on\n",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDpmsBaseline(tt.output))
		})
	}
}
