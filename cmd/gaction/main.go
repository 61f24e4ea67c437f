package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gactlab/gaction/internal/app"
	"github.com/gactlab/gaction/internal/cli"
	"github.com/gactlab/gaction/internal/settings"
)

// main is the entrypoint for the gaction binary.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		exitErr := cli.FromError(err)
		fmt.Fprintln(os.Stderr, exitErr.Message)
		os.Exit(exitErr.Code)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling.
func run(outW io.Writer, args []string) error {
	set, err := settings.Load(os.Getenv(settings.EnvSettings))
	if err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}

	a := app.New(outW, set)
	return a.Run(context.Background(), args)
}
