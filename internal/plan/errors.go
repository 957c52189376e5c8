package plan

import (
	"fmt"
	"strings"
)

// UnknownTaskError reports a dependency list entry or run_task target that
// does not name any task in the descriptor.
type UnknownTaskError struct {
	Name         string
	ReferencedBy string
}

func (e *UnknownTaskError) Error() string {
	if e.ReferencedBy == "" {
		return fmt.Sprintf("unknown task %q", e.Name)
	}
	return fmt.Sprintf("unknown task %q referenced by %q", e.Name, e.ReferencedBy)
}

// CycleError reports a dependency cycle, carrying the chain of task names
// from the traversal root to the repeated node.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle: %s", strings.Join(e.Path, " -> "))
}
