// Package yaml provides the YAML implementation of the descriptor loading
// interface defined in the config package, for projects that prefer a YAML
// pipeline file over HCL.
package yaml

import (
	"context"
	"fmt"
	"os"
	"time"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/vk/taskmill/internal/config"
	"github.com/vk/taskmill/internal/ctxlog"
)

// descriptorYAML mirrors the YAML structure of a pipeline descriptor.
type descriptorYAML struct {
	Env       map[string]string `yaml:"env,omitempty"`
	Workspace *workspaceYAML    `yaml:"workspace,omitempty"`
	Tasks     []*taskYAML       `yaml:"tasks"`
}

type workspaceYAML struct {
	Members []*memberYAML `yaml:"members,omitempty"`
	Skip    []string      `yaml:"skip,omitempty"`
}

type memberYAML struct {
	Name string `yaml:"name"`
	Root string `yaml:"root"`
}

type taskYAML struct {
	Name         string            `yaml:"name"`
	DependsOn    []string          `yaml:"depends_on,omitempty"`
	Env          map[string]string `yaml:"env,omitempty"`
	Condition    *conditionYAML    `yaml:"condition,omitempty"`
	Command      string            `yaml:"command,omitempty"`
	Args         []string          `yaml:"args,omitempty"`
	Script       *scriptYAML       `yaml:"script,omitempty"`
	RunTask      *runTaskYAML      `yaml:"run_task,omitempty"`
	Workspace    *bool             `yaml:"workspace,omitempty"`
	IgnoreErrors bool              `yaml:"ignore_errors,omitempty"`
	Timeout      string            `yaml:"timeout,omitempty"`
}

type conditionYAML struct {
	Env       map[string]string `yaml:"env,omitempty"`
	EnvSet    []string          `yaml:"env_set,omitempty"`
	EnvNotSet []string          `yaml:"env_not_set,omitempty"`
	EnvFalse  []string          `yaml:"env_false,omitempty"`
	Platforms []string          `yaml:"platforms,omitempty"`
}

type scriptYAML struct {
	Runner string `yaml:"runner"`
	Body   string `yaml:"body"`
}

type runTaskYAML struct {
	Task string `yaml:"task"`
	Fork bool   `yaml:"fork,omitempty"`
}

// Loader is the YAML-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML descriptor loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses a single YAML descriptor file and translates it into the
// unified model.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor %s: %w", path, err)
	}

	var doc descriptorYAML
	if err := yamlv3.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	model := &config.Model{Env: doc.Env}
	if model.Env == nil {
		model.Env = make(map[string]string)
	}

	if doc.Workspace != nil {
		ws := &config.Workspace{Skip: doc.Workspace.Skip}
		for _, m := range doc.Workspace.Members {
			ws.Members = append(ws.Members, &config.Member{Name: m.Name, Root: m.Root})
		}
		model.Workspace = ws
	}

	for _, t := range doc.Tasks {
		task, err := translateTask(t)
		if err != nil {
			return nil, fmt.Errorf("translating %s: %w", path, err)
		}
		model.Tasks = append(model.Tasks, task)
	}

	logger.Debug("YAML loading complete.", "tasks", len(model.Tasks), "env_vars", len(model.Env))
	return model, nil
}

func translateTask(t *taskYAML) (*config.Task, error) {
	task := &config.Task{
		Name:         t.Name,
		DependsOn:    t.DependsOn,
		Env:          t.Env,
		Workspace:    t.Workspace,
		IgnoreErrors: t.IgnoreErrors,
	}

	if t.Condition != nil {
		task.Condition = &config.Condition{
			Env:       t.Condition.Env,
			EnvSet:    t.Condition.EnvSet,
			EnvNotSet: t.Condition.EnvNotSet,
			EnvFalse:  t.Condition.EnvFalse,
			Platforms: t.Condition.Platforms,
		}
	}

	if t.Command != "" {
		task.Command = &config.CommandAction{Program: t.Command, Args: t.Args}
	} else if len(t.Args) > 0 {
		return nil, fmt.Errorf("task %q: args without a command", t.Name)
	}
	if t.Script != nil {
		task.Script = &config.ScriptAction{Runner: t.Script.Runner, Body: t.Script.Body}
	}
	if t.RunTask != nil {
		task.RunTask = &config.RunTaskAction{Task: t.RunTask.Task, Fork: t.RunTask.Fork}
	}

	if t.Timeout != "" {
		d, err := time.ParseDuration(t.Timeout)
		if err != nil {
			return nil, fmt.Errorf("task %q: invalid timeout: %w", t.Name, err)
		}
		task.Timeout = d
	}

	return task, nil
}
