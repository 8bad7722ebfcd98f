package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"example.com/fc2csv/internal/common"
)

const title = "Atom Flight Log to Telemetry Overlay Converter."

var configFlag = &cli.StringFlag{
	Name:  "config",
	Usage: "YAML configuration file",
}

var layoutFlag = &cli.StringFlag{
	Name:  "layout",
	Usage: "YAML field table replacing the built-in Atom2 layout",
}

var timezoneFlag = &cli.StringFlag{
	Name:  "timezone",
	Usage: "time zone of the time stamp in log file names (local, UTC or an IANA name)",
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	app := newApp(os.Stdout, os.Stderr, common.Default())
	err := app.RunContext(ctx, os.Args)
	stop()
	common.Default().Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer, logger *common.Logger) *cli.App {
	return &cli.App{
		Name:      "fc2csv",
		Usage:     "Convert Potensic flight log files to Telemetry Overlay format",
		UsageText: "fc2csv [options] FILE...",
		Version:   "0.3.0",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "log",
				Aliases: []string{"l"},
				Value:   2,
				Usage:   "log level: 0=error, 1=warning, 2=info, higher values enable debug",
			},
			configFlag,
			layoutFlag,
			timezoneFlag,
			&cli.StringFlag{
				Name:  "out-dir",
				Usage: "directory receiving the CSV files",
			},
			&cli.StringFlag{
				Name:  "rejects",
				Usage: "append skipped records to this JSONL file",
			},
			&cli.StringFlag{
				Name:  "summary",
				Usage: "write a JSON conversion summary",
			},
			&cli.StringFlag{
				Name:  "pdf",
				Usage: "write a PDF conversion summary",
			},
			&cli.StringFlag{
				Name:  "manifest",
				Usage: "write a sha256 manifest of inputs and outputs",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "print conversion progress to stderr",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable coloured log levels",
			},
		},
		Commands: []*cli.Command{
			layoutCommand(),
			inspectCommand(),
		},
		Action: func(c *cli.Context) error {
			return convertAction(c, logger)
		},
	}
}
