package invoke

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
)

// Spawner is the process-spawning capability: run a program to completion
// with the given argv, resolved environment, and working directory, and
// report its exit status.
type Spawner interface {
	Spawn(ctx context.Context, program string, args []string, env map[string]string, cwd string) (int, error)
}

// ExecSpawner is the os/exec backed Spawner used in production. Child output
// streams default to the parent's stdio.
type ExecSpawner struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
}

// Spawn starts the program and blocks until it exits. A non-zero exit status
// is returned as the exit code with a nil error; the error is reserved for
// processes that could not be started or were cut short by the context.
func (s *ExecSpawner) Spawn(ctx context.Context, program string, args []string, env map[string]string, cwd string) (int, error) {
	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Dir = cwd
	cmd.Env = FlattenEnv(env)
	cmd.Stdout = s.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = s.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	cmd.Stdin = s.Stdin

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	if ctx.Err() != nil {
		// Killed by cancellation or timeout; 124 follows the exit code
		// convention of timeout(1).
		return 124, fmt.Errorf("%s interrupted: %w", program, ctx.Err())
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 127, fmt.Errorf("spawning %s: %w", program, err)
}

// FlattenEnv converts an environment mapping into the sorted KEY=VALUE list
// expected by os/exec. Sorting keeps spawned environments deterministic.
func FlattenEnv(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
