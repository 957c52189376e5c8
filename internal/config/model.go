package config

import "time"

// Model is the unified, format-agnostic representation of an entire pipeline
// descriptor: the global environment defaults, the workspace layout, and all
// named task blocks.
type Model struct {
	Env       map[string]string
	Workspace *Workspace
	Tasks     []*Task
}

// Workspace describes the multi-member layout of the project and the members
// excluded from fan-out.
type Workspace struct {
	Members []*Member
	Skip    []string
}

// Member is one sub-project of the workspace.
type Member struct {
	Name string
	Root string
}

// Task is the format-agnostic representation of a `task` block. A task
// carries at most one action; a task with no action at all is a flow task
// that exists purely to sequence its dependencies.
type Task struct {
	Name      string
	DependsOn []string
	Condition *Condition

	// Env is the task's environment patch, layered onto the stack for the
	// duration of the task's own scope.
	Env map[string]string

	Command *CommandAction
	Script  *ScriptAction
	RunTask *RunTaskAction

	// Workspace controls fan-out across workspace members. Unset means true.
	Workspace    *bool
	IgnoreErrors bool

	// Timeout bounds the action's execution. Zero means no limit.
	Timeout time.Duration
}

// WorkspaceScoped reports whether the task fans out across workspace members.
func (t *Task) WorkspaceScoped() bool {
	return t.Workspace == nil || *t.Workspace
}

// ActionCount returns how many action variants are set on the task.
func (t *Task) ActionCount() int {
	n := 0
	if t.Command != nil {
		n++
	}
	if t.Script != nil {
		n++
	}
	if t.RunTask != nil {
		n++
	}
	return n
}

// CommandAction spawns an external program.
type CommandAction struct {
	Program string
	Args    []string
}

// ScriptAction hands a script body to a named runner capability.
type ScriptAction struct {
	Runner string
	Body   string
}

// RunTaskAction delegates to another task's subgraph. With Fork set, the
// delegated subgraph executes against a copy of the environment stack and
// its failure is captured instead of propagated.
type RunTaskAction struct {
	Task string
	Fork bool
}

// Condition is a pure predicate over the resolved environment snapshot.
// Every populated clause must hold for the condition to pass.
type Condition struct {
	// Env requires each listed variable to be present and equal to the
	// expected value (case-sensitive).
	Env map[string]string

	// EnvSet requires each listed variable to be present.
	EnvSet []string

	// EnvNotSet requires each listed variable to be absent.
	EnvNotSet []string

	// EnvFalse requires each listed variable to be absent or falsy.
	EnvFalse []string

	// Platforms requires the running platform to be one of the listed names.
	Platforms []string
}
