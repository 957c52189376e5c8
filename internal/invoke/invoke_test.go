package invoke

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/taskmill/internal/config"
	"github.com/vk/taskmill/internal/plan"
)

type recordingSpawner struct {
	program string
	args    []string
	env     map[string]string
	dir     string
	code    int
}

func (s *recordingSpawner) Spawn(ctx context.Context, program string, args []string, env map[string]string, cwd string) (int, error) {
	s.program, s.args, s.env, s.dir = program, args, env, cwd
	return s.code, nil
}

type recordingRunner struct {
	body string
	code int
}

func (r *recordingRunner) Run(ctx context.Context, body string, env map[string]string, cwd string) (int, error) {
	r.body = body
	return r.code, nil
}

type recordingDelegator struct {
	target *plan.Node
	fork   bool
	err    error
}

func (d *recordingDelegator) RunSubgraph(ctx context.Context, target *plan.Node, fork bool) error {
	d.target, d.fork = target, fork
	return d.err
}

func TestDispatcherRoutesCommand(t *testing.T) {
	spawner := &recordingSpawner{code: 3}
	d := &Dispatcher{Spawner: spawner, Runners: NewRegistry()}

	code, err := d.Invoke(context.Background(), Invocation{
		Task:    "build",
		Program: "go",
		Args:    []string{"build", "./..."},
		Env:     map[string]string{"MODE": "ci"},
		Dir:     "/work",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.Equal(t, "go", spawner.program)
	assert.Equal(t, []string{"build", "./..."}, spawner.args)
	assert.Equal(t, map[string]string{"MODE": "ci"}, spawner.env)
	assert.Equal(t, "/work", spawner.dir)
}

func TestDispatcherRoutesScript(t *testing.T) {
	runner := &recordingRunner{code: 1}
	registry := NewRegistry()
	registry.Register("shell", runner)
	d := &Dispatcher{Runners: registry}

	code, err := d.Invoke(context.Background(), Invocation{
		Task:   "lint",
		Runner: "shell",
		Body:   "echo linting",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, code)
	assert.Equal(t, "echo linting", runner.body)
}

func TestDispatcherUnregisteredRunner(t *testing.T) {
	d := &Dispatcher{Runners: NewRegistry()}

	code, err := d.Invoke(context.Background(), Invocation{Task: "lint", Runner: "python"})
	require.Error(t, err)
	assert.Equal(t, 1, code)
	assert.Contains(t, err.Error(), `"python"`)
}

func TestDispatcherRoutesDelegation(t *testing.T) {
	target := &plan.Node{Task: &config.Task{Name: "inner"}}
	deleg := &recordingDelegator{}
	d := &Dispatcher{Runners: NewRegistry()}

	code, err := d.Invoke(context.Background(), Invocation{
		Task:      "wrapper",
		Delegate:  target,
		Fork:      true,
		Delegator: deleg,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Same(t, target, deleg.target)
	assert.True(t, deleg.fork)
}

func TestDispatcherDelegationFailure(t *testing.T) {
	deleg := &recordingDelegator{err: &ActionError{Task: "inner", ExitCode: 7}}
	d := &Dispatcher{Runners: NewRegistry()}

	code, err := d.Invoke(context.Background(), Invocation{
		Task:      "wrapper",
		Delegate:  &plan.Node{Task: &config.Task{Name: "inner"}},
		Delegator: deleg,
	})
	require.Error(t, err)
	assert.Equal(t, 7, code)
}

func TestDispatcherNoAction(t *testing.T) {
	d := &Dispatcher{Runners: NewRegistry()}

	code, err := d.Invoke(context.Background(), Invocation{Task: "flow"})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestShellRunner(t *testing.T) {
	spawner := &recordingSpawner{}
	r := &ShellRunner{Spawner: spawner}

	_, err := r.Run(context.Background(), "echo hello", nil, "/work")
	require.NoError(t, err)
	assert.Equal(t, "sh", spawner.program)
	assert.Equal(t, []string{"-c", "echo hello"}, spawner.args)
	assert.Equal(t, "/work", spawner.dir)

	custom := &ShellRunner{Shell: "bash", Spawner: spawner}
	_, err = custom.Run(context.Background(), "true", nil, "")
	require.NoError(t, err)
	assert.Equal(t, "bash", spawner.program)
}

func TestFlattenEnv(t *testing.T) {
	got := FlattenEnv(map[string]string{"B": "2", "A": "1", "PATH": "/bin"})
	assert.Equal(t, []string{"A=1", "B=2", "PATH=/bin"}, got)
}

func TestExitCodeOf(t *testing.T) {
	assert.Equal(t, 0, ExitCodeOf(nil))
	assert.Equal(t, 1, ExitCodeOf(errors.New("plain")))
	assert.Equal(t, 5, ExitCodeOf(&ActionError{Task: "t", ExitCode: 5}))
	assert.Equal(t, 5, ExitCodeOf(fmt.Errorf("wrapped: %w", &ActionError{Task: "t", ExitCode: 5})))
	assert.Equal(t, 1, ExitCodeOf(&ActionError{Task: "t"}))
}

func TestActionErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &ActionError{Task: "t", ExitCode: 2, Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), `task "t" failed with exit code 2`)
}
