package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/taskmill/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// envFlag collects repeatable --env KEY=VALUE overrides.
type envFlag map[string]string

func (f envFlag) String() string {
	return fmt.Sprintf("%d override(s)", len(f))
}

func (f envFlag) Set(value string) error {
	k, v, ok := strings.Cut(value, "=")
	if !ok || k == "" {
		return fmt.Errorf("expected KEY=VALUE, got %q", value)
	}
	f[k] = v
	return nil
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("taskmill", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
taskmill - A declarative task-pipeline runner for multi-member workspaces.

Usage:
  taskmill [options] TASK [ARGS...]

Arguments:
  TASK
    Name of the task to run.
  ARGS
    Trailing arguments forwarded to tasks via ${@}.

Options:
`)
		flagSet.PrintDefaults()
	}

	fileFlag := flagSet.String("file", "pipeline.hcl", "Path to the pipeline descriptor file or directory.")
	fFlag := flagSet.String("f", "", "Path to the pipeline descriptor (shorthand).")
	rootFlag := flagSet.String("root", "", "Working directory for non-workspace tasks. Defaults to the current directory.")
	skipFlag := flagSet.String("skip-members", "", "Comma-separated workspace members to exclude from fan-out.")
	listFlag := flagSet.Bool("list", false, "List the tasks defined by the descriptor and exit.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	envOverrides := envFlag{}
	flagSet.Var(envOverrides, "env", "Set a global environment variable as KEY=VALUE. Repeatable.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := *fileFlag
	if *fFlag != "" {
		path = *fFlag
	}

	taskName := ""
	var taskArgs []string
	if flagSet.NArg() > 0 {
		taskName = flagSet.Arg(0)
		taskArgs = flagSet.Args()[1:]
	}

	if taskName == "" && !*listFlag {
		slog.Debug("No task name provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	var skipMembers []string
	for _, m := range strings.Split(*skipFlag, ",") {
		if m = strings.TrimSpace(m); m != "" {
			skipMembers = append(skipMembers, m)
		}
	}

	config, err := app.NewConfig(app.Config{
		DescriptorPath: path,
		TaskName:       taskName,
		TaskArgs:       taskArgs,
		LogFormat:      logFormat,
		LogLevel:       logLevel,
		SkipMembers:    skipMembers,
		EnvOverrides:   envOverrides,
		ListTasks:      *listFlag,
		RootDir:        *rootFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "task", taskName, "descriptor", path)
	return config, false, nil
}
