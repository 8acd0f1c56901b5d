package main

import "github.com/urfave/cli/v3"

func fileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "file",
		Aliases:  []string{"f"},
		Usage:    "Exported JSON file (backup document or entry array)",
		Required: true,
	}
}

func todayFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "today",
		Usage: "Date (YYYY-MM-DD) used as today for the latest open entry",
	}
}

// journeysCommand prints the derived journeys.
func journeysCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "journeys",
		Usage: "List journeys with per-entry dates and durations",
		Flags: []cli.Flag{
			fileFlag(),
			todayFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Journeys,
	}
}

// exitDateCommand resolves one entry's effective exit date.
func exitDateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "exit-date",
		Usage: "Print the effective exit date of one entry",
		Flags: []cli.Flag{
			fileFlag(),
			todayFlag(),
			&cli.StringFlag{
				Name:     "id",
				Usage:    "Entry ID",
				Required: true,
			},
		},
		Action: r.ExitDate,
	}
}

// exportCommand writes the flat row export.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export one row per entry as CSV or JSON",
		Flags: []cli.Flag{
			fileFlag(),
			todayFlag(),
			&cli.StringFlag{
				Name:  "format",
				Usage: "csv or json",
				Value: "csv",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default stdout)",
			},
		},
		Action: r.Export,
	}
}
