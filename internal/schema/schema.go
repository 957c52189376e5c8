// Package schema declares the HCL block structures of a pipeline descriptor
// file. These are the raw decode targets; the hcl package translates them
// into the format-agnostic config model.
package schema

import "github.com/hashicorp/hcl/v2"

// EnvBlock holds the raw body of an `env` block; its attributes become
// variable assignments during translation.
type EnvBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// Condition represents a `condition` block inside a task.
type Condition struct {
	Env       map[string]string `hcl:"env,optional"`
	EnvSet    []string          `hcl:"env_set,optional"`
	EnvNotSet []string          `hcl:"env_not_set,optional"`
	EnvFalse  []string          `hcl:"env_false,optional"`
	Platforms []string          `hcl:"platforms,optional"`
}

// Script represents a `script` block: an embedded script body handed to a
// named runner.
type Script struct {
	Runner string `hcl:"runner"`
	Body   string `hcl:"body"`
}

// RunTask represents a `run_task` block delegating to another task.
type RunTask struct {
	Task string `hcl:"task"`
	Fork bool   `hcl:"fork,optional"`
}

// Task represents a `task` block from a descriptor file.
type Task struct {
	Name         string     `hcl:"name,label"`
	DependsOn    []string   `hcl:"depends_on,optional"`
	Env          *EnvBlock  `hcl:"env,block"`
	Condition    *Condition `hcl:"condition,block"`
	Command      *string    `hcl:"command,optional"`
	Args         []string   `hcl:"args,optional"`
	Script       *Script    `hcl:"script,block"`
	RunTask      *RunTask   `hcl:"run_task,block"`
	Workspace    *bool      `hcl:"workspace,optional"`
	IgnoreErrors bool       `hcl:"ignore_errors,optional"`
	Timeout      string     `hcl:"timeout,optional"`
}

// Member represents a `member` block inside the workspace block.
type Member struct {
	Name string `hcl:"name,label"`
	Root string `hcl:"root"`
}

// Workspace represents the `workspace` block: the member list plus the
// skip-list excluded from fan-out.
type Workspace struct {
	Members []*Member `hcl:"member,block"`
	Skip    []string  `hcl:"skip,optional"`
}

// Root represents the top-level structure of a descriptor file.
type Root struct {
	Env       *EnvBlock  `hcl:"env,block"`
	Workspace *Workspace `hcl:"workspace,block"`
	Tasks     []*Task    `hcl:"task,block"`
	Remain    hcl.Body   `hcl:",remain"`
}
