// Command timeline runs the journey derivation offline against an exported
// JSON file: either a backup document or a bare array of entries.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	app := newApp(NewRunner(RunnerOpts{Logger: logger}))
	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "timeline:", err)
		os.Exit(1)
	}
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "timeline",
		Usage:    "Group travel entries into journeys",
		Version:  "1.0.0",
		Commands: r.register(),
	}
}
