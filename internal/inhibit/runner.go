package inhibit

import (
	"context"
	"os/exec"
)

// commandRunner abstracts execution of the external display tools.
type commandRunner interface {
	// run executes the command and waits for it, discarding output.
	run(ctx context.Context, name string, args ...string) error
	// output executes the command and returns its stdout.
	output(ctx context.Context, name string, args ...string) (string, error)
}

// Compile-time interface check.
var _ commandRunner = execRunner{}

type execRunner struct{}

func (execRunner) run(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (execRunner) output(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	return string(out), err
}
