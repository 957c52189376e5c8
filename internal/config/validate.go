package config

import "fmt"

// Validate checks the structural invariants of the model: unique task names,
// at most one action variant per task, and well-formed action payloads.
// Reference resolution (dependencies, run_task targets) is the plan builder's
// job, not the model's.
func (m *Model) Validate() error {
	seen := make(map[string]struct{}, len(m.Tasks))
	for _, t := range m.Tasks {
		if t.Name == "" {
			return fmt.Errorf("task with empty name")
		}
		if _, dup := seen[t.Name]; dup {
			return fmt.Errorf("duplicate task name %q", t.Name)
		}
		seen[t.Name] = struct{}{}

		if n := t.ActionCount(); n > 1 {
			return fmt.Errorf("task %q declares %d actions, at most one is allowed", t.Name, n)
		}
		if t.Command != nil && t.Command.Program == "" {
			return fmt.Errorf("task %q: command action has no program", t.Name)
		}
		if t.Script != nil && t.Script.Runner == "" {
			return fmt.Errorf("task %q: script action has no runner", t.Name)
		}
		if t.RunTask != nil && t.RunTask.Task == "" {
			return fmt.Errorf("task %q: run_task action has no target", t.Name)
		}
		if t.Timeout < 0 {
			return fmt.Errorf("task %q: negative timeout", t.Name)
		}
	}

	if m.Workspace != nil {
		memberSeen := make(map[string]struct{}, len(m.Workspace.Members))
		for _, member := range m.Workspace.Members {
			if member.Name == "" {
				return fmt.Errorf("workspace member with empty name")
			}
			if _, dup := memberSeen[member.Name]; dup {
				return fmt.Errorf("duplicate workspace member %q", member.Name)
			}
			memberSeen[member.Name] = struct{}{}
		}
	}

	return nil
}
