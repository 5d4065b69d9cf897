package inhibit

import (
	"context"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/bnema/pep/internal/logging"
)

const (
	inhibitCommand = "systemd-inhibit"

	// terminateWait is how long Stop waits after SIGTERM before escalating
	// to SIGKILL.
	terminateWait = 2 * time.Second
)

// ProcessLock owns the long-running systemd-inhibit process that holds the
// sleep/idle reservation. The handle is present exactly while a spawn has
// succeeded and no Stop has completed since.
type ProcessLock struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	exited chan struct{}

	command string
	args    []string
}

// NewProcessLock creates a lock that spawns systemd-inhibit with a blocking
// idle and sleep reservation held by an indefinitely sleeping payload.
func NewProcessLock() *ProcessLock {
	return &ProcessLock{
		command: inhibitCommand,
		args: []string{
			"--what=idle:sleep",
			"--who=" + appName,
			"--why=" + inhibitReason,
			"--mode=block",
			"sleep", "infinity",
		},
	}
}

// Start spawns the inhibitor process with output discarded. It returns false
// if the lock is already held, the executable is missing or the spawn fails.
func (l *ProcessLock) Start(ctx context.Context) bool {
	log := logging.FromContext(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cmd != nil {
		log.Warn().Msg("inhibitor already running")
		return false
	}

	path, err := exec.LookPath(l.command)
	if err != nil {
		log.Error().Str("command", l.command).Msg("inhibitor command not found, is systemd installed?")
		return false
	}

	cmd := exec.Command(path, l.args...)
	// Kill the child if this process dies.
	cmd.SysProcAttr = &syscall.SysProcAttr{Pdeathsig: syscall.SIGTERM}

	if err := cmd.Start(); err != nil {
		log.Error().Err(err).Msg("failed to start inhibitor")
		return false
	}

	exited := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	l.cmd = cmd
	l.exited = exited
	log.Info().Int("pid", cmd.Process.Pid).Msg("inhibitor enabled")
	return true
}

// Stop terminates the inhibitor process, escalating from SIGTERM to SIGKILL
// after terminateWait. It returns false if the lock is not held, true once
// the handle is cleared regardless of how the process went down.
func (l *ProcessLock) Stop(ctx context.Context) bool {
	log := logging.FromContext(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cmd == nil {
		return false
	}

	_ = l.cmd.Process.Signal(syscall.SIGTERM)

	select {
	case <-l.exited:
	case <-time.After(terminateWait):
		log.Warn().Msg("inhibitor did not respond to SIGTERM, forcing kill")
		_ = l.cmd.Process.Kill()
		<-l.exited
	}

	l.cmd = nil
	l.exited = nil
	log.Info().Msg("inhibitor disabled")
	return true
}

// IsActive reports whether the inhibitor process is running.
func (l *ProcessLock) IsActive() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cmd == nil {
		return false
	}
	select {
	case <-l.exited:
		return false
	default:
		return true
	}
}

// Cleanup stops the lock if it is still active. Safe to call unconditionally
// on shutdown.
func (l *ProcessLock) Cleanup(ctx context.Context) {
	if l.IsActive() {
		l.Stop(ctx)
	}
}
