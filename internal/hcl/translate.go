package hcl

import (
	"fmt"
	"time"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/taskmill/internal/config"
	"github.com/vk/taskmill/internal/schema"
)

// translateTask converts the HCL-specific task schema into the agnostic
// model.
func (l *Loader) translateTask(t *schema.Task) (*config.Task, error) {
	env, err := envFromBlock(t.Env)
	if err != nil {
		return nil, fmt.Errorf("task %q: %w", t.Name, err)
	}

	task := &config.Task{
		Name:         t.Name,
		DependsOn:    t.DependsOn,
		Env:          env,
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

	if t.Command != nil {
		task.Command = &config.CommandAction{Program: *t.Command, Args: t.Args}
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

// envFromBlock evaluates the attributes of an env block into a plain string
// mapping. Values may be written as strings, numbers, or booleans; all are
// converted to their string form.
func envFromBlock(block *schema.EnvBlock) (map[string]string, error) {
	if block == nil || block.Body == nil {
		return nil, nil
	}
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	if len(attrs) == 0 {
		return nil, nil
	}

	out := make(map[string]string, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		strVal, err := convert.Convert(val, cty.String)
		if err != nil {
			return nil, fmt.Errorf("env variable %s: %w", name, err)
		}
		if strVal.IsNull() {
			return nil, fmt.Errorf("env variable %s: null value", name)
		}
		out[name] = strVal.AsString()
	}
	return out, nil
}
