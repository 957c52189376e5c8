// Package report accumulates the terminal status of every task reached
// during a run and renders the structured run report printed to diagnostic
// output at the end.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Status is a task's terminal state.
type Status int

const (
	StatusSucceeded Status = iota
	StatusSkipped
	StatusFailed
	StatusAborted
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	case StatusAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Entry is one task's terminal record.
type Entry struct {
	Task     string
	Status   Status
	Reason   string
	ExitCode int
}

// Report is an ordered collection of task outcomes. A task re-executed
// through delegation updates its entry in place, keeping its first position.
type Report struct {
	order   []string
	entries map[string]*Entry
}

// New creates an empty report.
func New() *Report {
	return &Report{entries: make(map[string]*Entry)}
}

func (r *Report) record(task string, e Entry) {
	if existing, ok := r.entries[task]; ok {
		*existing = e
		return
	}
	r.order = append(r.order, task)
	r.entries[task] = &e
}

// Succeeded records a successful task.
func (r *Report) Succeeded(task string) {
	r.record(task, Entry{Task: task, Status: StatusSucceeded})
}

// Skipped records a task whose condition gated its action off.
func (r *Report) Skipped(task, reason string) {
	r.record(task, Entry{Task: task, Status: StatusSkipped, Reason: reason})
}

// Failed records a failed task and the exit code of its action.
func (r *Report) Failed(task string, exitCode int) {
	r.record(task, Entry{Task: task, Status: StatusFailed, ExitCode: exitCode})
}

// Aborted records a task that never ran because something it depends on
// failed first.
func (r *Report) Aborted(task, reason string) {
	r.record(task, Entry{Task: task, Status: StatusAborted, Reason: reason})
}

// Entries returns every recorded outcome in first-recorded order.
func (r *Report) Entries() []Entry {
	out := make([]Entry, 0, len(r.order))
	for _, task := range r.order {
		out = append(out, *r.entries[task])
	}
	return out
}

// FirstFailure returns the earliest recorded failure, or nil.
func (r *Report) FirstFailure() *Entry {
	for _, task := range r.order {
		if e := r.entries[task]; e.Status == StatusFailed {
			copied := *e
			return &copied
		}
	}
	return nil
}

// Print renders the report as an aligned table.
func (r *Report) Print(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK\tSTATUS\tDETAIL")
	for _, e := range r.Entries() {
		detail := ""
		switch e.Status {
		case StatusSkipped, StatusAborted:
			detail = e.Reason
		case StatusFailed:
			detail = fmt.Sprintf("exit code %d", e.ExitCode)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Task, e.Status, detail)
	}
	tw.Flush()
}
