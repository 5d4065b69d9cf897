package inhibit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestLock builds a lock around an arbitrary command so tests do not
// depend on systemd-inhibit being installed.
func newTestLock(command string, args ...string) *ProcessLock {
	return &ProcessLock{command: command, args: args}
}

func TestNewProcessLock_CommandLine(t *testing.T) {
	lock := NewProcessLock()

	assert.Equal(t, "systemd-inhibit", lock.command)
	assert.Equal(t, []string{
		"--what=idle:sleep",
		"--who=pep",
		"--why=User requested keep-awake",
		"--mode=block",
		"sleep", "infinity",
	}, lock.args)
}

func TestProcessLock_StartStop(t *testing.T) {
	lock := newTestLock("sleep", "60")
	ctx := context.Background()

	require.True(t, lock.Start(ctx))
	assert.True(t, lock.IsActive())

	// A second start while the lock is held is refused.
	assert.False(t, lock.Start(ctx))
	assert.True(t, lock.IsActive())

	require.True(t, lock.Stop(ctx))
	assert.False(t, lock.IsActive())

	// Stop without a handle is refused.
	assert.False(t, lock.Stop(ctx))
}

func TestProcessLock_StartMissingExecutable(t *testing.T) {
	lock := newTestLock("pep-missing-inhibit-tool")

	assert.False(t, lock.Start(context.Background()))
	assert.False(t, lock.IsActive())
}

func TestProcessLock_DetectsExternalExit(t *testing.T) {
	lock := newTestLock("true")
	require.True(t, lock.Start(context.Background()))

	// The process exits on its own; the handle must report inactive once
	// the exit is reaped.
	require.Eventually(t, func() bool { return !lock.IsActive() }, 2*time.Second, 10*time.Millisecond)
}

func TestProcessLock_StopEscalatesToKill(t *testing.T) {
	lock := newTestLock("sh", "-c", `trap "" TERM; while true; do sleep 1; done`)
	ctx := context.Background()
	require.True(t, lock.Start(ctx))

	// Give the shell a moment to install its trap, otherwise the SIGTERM
	// can land first and terminate it gracefully.
	time.Sleep(100 * time.Millisecond)

	start := time.Now()
	require.True(t, lock.Stop(ctx))
	assert.GreaterOrEqual(t, time.Since(start), terminateWait)
	assert.False(t, lock.IsActive())
}

func TestProcessLock_Cleanup(t *testing.T) {
	lock := newTestLock("sleep", "60")
	ctx := context.Background()

	require.True(t, lock.Start(ctx))
	lock.Cleanup(ctx)
	assert.False(t, lock.IsActive())

	// Cleanup with nothing running is a no-op.
	lock.Cleanup(ctx)
	assert.False(t, lock.IsActive())
}
