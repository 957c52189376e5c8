// Package scheduler drives the depth-first execution of a plan. A single
// control thread walks each task's dependencies in declared order, consults
// the condition evaluator, pushes and pops environment layers around each
// task's scope, and hands the action to the invocation dispatcher (directly,
// per workspace member, or by re-entering itself for delegation).
//
// Failure policy is fail-fast: the first failed task aborts the remaining
// plan unless the task tolerates errors, in which case the failure is
// recorded in the report and execution proceeds.
package scheduler
