package invoke

import "context"

// ScriptRunner is the capability contract for an embedded scripting
// facility: execute a script body against a resolved environment and report
// an exit status. The engine core never interprets the body itself.
type ScriptRunner interface {
	Run(ctx context.Context, body string, env map[string]string, cwd string) (int, error)
}

// Registry maps runner identifiers to installed ScriptRunner capabilities.
type Registry struct {
	runners map[string]ScriptRunner
}

// NewRegistry creates a registry with no runners installed.
func NewRegistry() *Registry {
	return &Registry{runners: make(map[string]ScriptRunner)}
}

// Register installs a runner under the given identifier, replacing any
// previous runner with the same identifier.
func (r *Registry) Register(id string, runner ScriptRunner) {
	r.runners[id] = runner
}

// Lookup returns the runner registered under the identifier.
func (r *Registry) Lookup(id string) (ScriptRunner, bool) {
	runner, ok := r.runners[id]
	return runner, ok
}

// ShellRunner executes script bodies through a POSIX shell. It is the
// default runner registered under the "shell" identifier.
type ShellRunner struct {
	// Shell is the interpreter program, "sh" when empty.
	Shell   string
	Spawner Spawner
}

// Run hands the body to the shell via -c.
func (r *ShellRunner) Run(ctx context.Context, body string, env map[string]string, cwd string) (int, error) {
	shell := r.Shell
	if shell == "" {
		shell = "sh"
	}
	return r.Spawner.Spawn(ctx, shell, []string{"-c", body}, env, cwd)
}
