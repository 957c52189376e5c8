// Package workspace enumerates the members of a multi-project workspace and
// repeats a task's action once per eligible member. Members come from an
// external enumerator capability; a skip-list removes members from fan-out.
package workspace

import (
	"context"
	"errors"

	"github.com/vk/taskmill/internal/config"
	"github.com/vk/taskmill/internal/ctxlog"
)

// Member is one sub-project over which a workspace-scoped task is repeated.
type Member struct {
	Name string
	Root string
}

// Enumerator is the capability that supplies the workspace member list. It
// is consulted once, at controller construction.
type Enumerator interface {
	Members(ctx context.Context) ([]Member, error)
}

// ConfigEnumerator reads members from the descriptor's workspace block.
type ConfigEnumerator struct {
	Workspace *config.Workspace
}

// Members returns the declared members in declaration order.
func (e *ConfigEnumerator) Members(ctx context.Context) ([]Member, error) {
	if e.Workspace == nil {
		return nil, nil
	}
	out := make([]Member, 0, len(e.Workspace.Members))
	for _, m := range e.Workspace.Members {
		out = append(out, Member{Name: m.Name, Root: m.Root})
	}
	return out, nil
}

// Controller holds the resolved member list minus the skip-list and drives
// per-member fan-out. The member list is read-only after construction.
type Controller struct {
	eligible []Member
}

// NewController enumerates members once and applies the skip-list, keeping
// the enumerator's declared order.
func NewController(ctx context.Context, enum Enumerator, skip []string) (*Controller, error) {
	logger := ctxlog.FromContext(ctx)

	members, err := enum.Members(ctx)
	if err != nil {
		return nil, err
	}

	skipped := make(map[string]struct{}, len(skip))
	for _, name := range skip {
		skipped[name] = struct{}{}
	}

	c := &Controller{}
	for _, m := range members {
		if _, ok := skipped[m.Name]; ok {
			logger.Debug("Workspace member excluded by skip-list.", "member", m.Name)
			continue
		}
		c.eligible = append(c.eligible, m)
	}
	logger.Debug("Workspace members resolved.", "eligible", len(c.eligible), "skipped", len(members)-len(c.eligible))
	return c, nil
}

// Eligible returns the members that participate in fan-out, in declared
// order.
func (c *Controller) Eligible() []Member {
	return c.eligible
}

// FanOut invokes fn once per eligible member, in declared order. A member
// failure does not prevent remaining members from being attempted; all
// failures are collected and surfaced together at the end.
func (c *Controller) FanOut(ctx context.Context, fn func(ctx context.Context, m Member) error) error {
	logger := ctxlog.FromContext(ctx)
	var failures []error
	for _, m := range c.eligible {
		if err := fn(ctx, m); err != nil {
			logger.Error("Workspace member failed.", "member", m.Name, "error", err)
			failures = append(failures, err)
		}
	}
	return errors.Join(failures...)
}
