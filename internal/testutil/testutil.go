// Package testutil provides shared helpers for tests: fake effectful
// capabilities (process spawner, script runner) and an end-to-end harness
// that runs a descriptor text through the loader, planner, and scheduler.
package testutil

import (
	"bytes"
	"context"
	"sync"
	"time"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Call records one spawned process.
type Call struct {
	Program string
	Args    []string
	Env     map[string]string
	Dir     string
}

// FakeSpawner is a Spawner that records every invocation instead of starting
// processes. Exit codes and blocking durations can be scripted per program
// name.
type FakeSpawner struct {
	mu        sync.Mutex
	calls     []Call
	ExitCodes map[string]int
	Delays    map[string]time.Duration
}

// Spawn records the call and returns the scripted exit code for the program,
// or zero. A scripted delay blocks like a real child process; cancellation
// during the delay maps to exit code 124, following ExecSpawner.
func (s *FakeSpawner) Spawn(ctx context.Context, program string, args []string, env map[string]string, cwd string) (int, error) {
	s.mu.Lock()
	s.calls = append(s.calls, Call{Program: program, Args: args, Env: env, Dir: cwd})
	code := s.ExitCodes[program]
	delay := s.Delays[program]
	s.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return 124, ctx.Err()
		case <-timer.C:
		}
	}
	return code, nil
}

// Calls returns the recorded invocations in order.
func (s *FakeSpawner) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallsFor returns the recorded invocations of one program.
func (s *FakeSpawner) CallsFor(program string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Program == program {
			out = append(out, c)
		}
	}
	return out
}

// ScriptCall records one script body handed to the fake runner.
type ScriptCall struct {
	Body string
	Env  map[string]string
	Dir  string
}

// FakeScriptRunner is a ScriptRunner that records bodies and returns a fixed
// exit code.
type FakeScriptRunner struct {
	mu       sync.Mutex
	calls    []ScriptCall
	ExitCode int
}

// Run records the call and returns the configured exit code.
func (r *FakeScriptRunner) Run(ctx context.Context, body string, env map[string]string, cwd string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, ScriptCall{Body: body, Env: env, Dir: cwd})
	return r.ExitCode, nil
}

// Calls returns the recorded script invocations in order.
func (r *FakeScriptRunner) Calls() []ScriptCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ScriptCall, len(r.calls))
	copy(out, r.calls)
	return out
}
