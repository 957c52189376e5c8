// Package cli parses the command-line surface of the engine: flags, the
// target task name, and the trailing arguments forwarded to tasks.
package cli
