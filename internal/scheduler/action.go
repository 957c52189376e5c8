package scheduler

import (
	"context"
	"errors"

	"github.com/vk/taskmill/internal/ctxlog"
	"github.com/vk/taskmill/internal/envstack"
	"github.com/vk/taskmill/internal/invoke"
	"github.com/vk/taskmill/internal/plan"
	"github.com/vk/taskmill/internal/workspace"
)

// runAction dispatches the node's action, fanning out across workspace
// members when the task is workspace-scoped and members are available.
// Flow tasks (no action) succeed immediately.
func (s *Scheduler) runAction(ctx context.Context, n *plan.Node) (int, error) {
	t := n.Task
	if t.ActionCount() == 0 {
		return 0, nil
	}

	if t.WorkspaceScoped() && len(s.members.Eligible()) > 0 {
		return s.fanOut(ctx, n)
	}
	return s.invokeOnce(ctx, n, s.opts.RootDir, nil)
}

// fanOut repeats the action once per eligible member with the member's root
// as working directory and an extra layer carrying the member's identity.
// Every member is attempted; the joined failures surface at the end.
func (s *Scheduler) fanOut(ctx context.Context, n *plan.Node) (int, error) {
	logger := ctxlog.FromContext(ctx).With("task", n.Task.Name)
	logger.Debug("Fanning task out across workspace members.", "members", len(s.members.Eligible()))

	err := s.members.FanOut(ctx, func(ctx context.Context, m workspace.Member) error {
		layer := envstack.Layer{
			"WORKSPACE_MEMBER":      m.Name,
			"WORKSPACE_MEMBER_ROOT": m.Root,
		}
		code, err := s.invokeOnce(ctx, n, m.Root, layer)
		if err != nil || code != 0 {
			return &invoke.ActionError{Task: n.Task.Name + "[" + m.Name + "]", ExitCode: code, Err: err}
		}
		return nil
	})
	if err != nil {
		return invoke.ExitCodeOf(err), err
	}
	return 0, nil
}

// invokeOnce resolves the action against the current snapshot and hands it
// to the dispatcher. extraLayer, when non-nil, scopes a member identity
// around this single invocation.
func (s *Scheduler) invokeOnce(ctx context.Context, n *plan.Node, cwd string, extraLayer envstack.Layer) (int, error) {
	if extraLayer != nil {
		s.stack.Push(extraLayer)
		defer s.stack.Pop()
	}

	t := n.Task
	inv := invoke.Invocation{
		Task: t.Name,
		Env:  s.stack.Flatten(),
		Dir:  cwd,
	}
	switch {
	case t.Command != nil:
		inv.Program = s.stack.Interpolate(t.Command.Program)
		inv.Args = s.stack.ExpandArgs(t.Command.Args, s.opts.TrailingArgs)
	case t.Script != nil:
		inv.Runner = t.Script.Runner
		inv.Body = s.stack.Interpolate(t.Script.Body)
	case t.RunTask != nil:
		inv.Delegate = n.Delegate
		inv.Fork = t.RunTask.Fork
		inv.Delegator = s
	}
	return s.dispatcher.Invoke(ctx, inv)
}

// RunSubgraph implements invoke.Delegator. Delegation re-enters the
// scheduler on the target's subgraph with fresh run state, so the target
// re-executes even if it already ran as a dependency. A forked subgraph
// executes against an independent copy of the stack and its task failures
// are captured for the report instead of aborting the caller; errors that
// are not task failures (an unevaluable condition) still propagate.
func (s *Scheduler) RunSubgraph(ctx context.Context, target *plan.Node, fork bool) error {
	child := &Scheduler{
		plan:       s.plan,
		dispatcher: s.dispatcher,
		members:    s.members,
		report:     s.report,
		opts:       s.opts,
		states:     make(map[*plan.Node]*nodeState),
	}

	if !fork {
		child.stack = s.stack
		return child.execNode(ctx, target)
	}

	child.stack = s.stack.Clone()
	if err := child.execNode(ctx, target); err != nil {
		var actionErr *invoke.ActionError
		if errors.As(err, &actionErr) {
			ctxlog.FromContext(ctx).Error("Forked task failed; failure captured.", "task", target.Task.Name, "error", err)
			return nil
		}
		return err
	}
	return nil
}
