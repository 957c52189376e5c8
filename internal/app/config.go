package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// DescriptorPath points at the pipeline descriptor file, or a directory
	// of .hcl descriptor files.
	DescriptorPath string

	// TaskName is the target task; TaskArgs are the trailing arguments
	// forwarded to tasks.
	TaskName string
	TaskArgs []string

	LogFormat string
	LogLevel  string

	// SkipMembers removes workspace members from fan-out.
	SkipMembers []string

	// EnvOverrides are CLI-supplied variables layered into the global
	// environment on top of the descriptor's env block.
	EnvOverrides map[string]string

	// ListTasks prints the task registry instead of executing.
	ListTasks bool

	// RootDir is the working directory for non-workspace tasks. Empty means
	// the current directory.
	RootDir string

	// BaseEnv is the initial process environment as KEY=VALUE entries. Nil
	// means os.Environ(); tests supply their own for determinism.
	BaseEnv []string
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.DescriptorPath == "" {
		return nil, errors.New("DescriptorPath is a required configuration field and cannot be empty")
	}
	if cfg.TaskName == "" && !cfg.ListTasks {
		return nil, errors.New("TaskName is required unless listing tasks")
	}
	return &cfg, nil
}
