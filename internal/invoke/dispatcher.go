package invoke

import (
	"context"
	"fmt"

	"github.com/vk/taskmill/internal/ctxlog"
	"github.com/vk/taskmill/internal/plan"
)

// Delegator re-enters the scheduler on a delegation target's subgraph. The
// scheduler implements it; the indirection keeps this package free of
// scheduling logic.
type Delegator interface {
	RunSubgraph(ctx context.Context, target *plan.Node, fork bool) error
}

// Invocation is one fully resolved action, ready to dispatch: the argument
// expansion and environment flattening have already happened.
type Invocation struct {
	Task string

	// Command fields.
	Program string
	Args    []string

	// Script fields.
	Runner string
	Body   string

	// Delegation fields.
	Delegate  *plan.Node
	Fork      bool
	Delegator Delegator

	Env map[string]string
	Dir string
}

// Dispatcher routes resolved invocations to the installed capabilities.
type Dispatcher struct {
	Spawner Spawner
	Runners *Registry
}

// Invoke executes one invocation and blocks until it completes, returning
// the action's exit status. Exactly one action kind is expected per
// invocation; the plan builder guarantees this upstream.
func (d *Dispatcher) Invoke(ctx context.Context, inv Invocation) (int, error) {
	logger := ctxlog.FromContext(ctx)
	switch {
	case inv.Delegate != nil:
		logger.Debug("Dispatching delegation.", "task", inv.Task, "target", inv.Delegate.Task.Name, "fork", inv.Fork)
		if err := inv.Delegator.RunSubgraph(ctx, inv.Delegate, inv.Fork); err != nil {
			return ExitCodeOf(err), err
		}
		return 0, nil

	case inv.Runner != "":
		logger.Debug("Dispatching script.", "task", inv.Task, "runner", inv.Runner)
		runner, ok := d.Runners.Lookup(inv.Runner)
		if !ok {
			return 1, fmt.Errorf("script runner %q is not registered", inv.Runner)
		}
		return runner.Run(ctx, inv.Body, inv.Env, inv.Dir)

	case inv.Program != "":
		logger.Debug("Dispatching command.", "task", inv.Task, "program", inv.Program, "args", inv.Args, "cwd", inv.Dir)
		return d.Spawner.Spawn(ctx, inv.Program, inv.Args, inv.Env, inv.Dir)

	default:
		return 0, nil
	}
}
