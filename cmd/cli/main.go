package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vk/taskmill/internal/app"
	"github.com/vk/taskmill/internal/cli"
	"github.com/vk/taskmill/internal/invoke"
)

// main is the entrypoint for the taskmill application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stderr, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		// The exit code of the first fatal task failure becomes the
		// process exit code.
		var actionErr *invoke.ActionError
		if errors.As(err, &actionErr) && actionErr.ExitCode != 0 {
			os.Exit(actionErr.ExitCode)
		}
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// An interrupt terminates the running child process and halts the
	// scheduler.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The app panics on critical startup errors, so we recover here to
	// provide a clean exit message to the user.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(outW, "A critical startup error occurred: %v\n", r)
			os.Exit(1)
		}
	}()

	loader, err := app.LoaderFor(appConfig.DescriptorPath)
	if err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}

	taskmillApp := app.NewApp(outW, appConfig, loader)
	return taskmillApp.Run(ctx, appConfig)
}
