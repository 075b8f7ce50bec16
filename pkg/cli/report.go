package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/mirror-status/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func cmdReport() *cli.Command {
	var cfg mirrorStatusConfig

	return &cli.Command{
		Name:    "report",
		Aliases: []string{"r"},
		Usage:   "Compare revisions once and publish the status to the mirror repository",
		Flags:   cfg.flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			uc, file, err := cfg.build(ctx)
			if err != nil {
				return err
			}

			logger.Info("Starting mirror status report",
				slog.String("official", file.Official.String()),
				slog.String("mirror", file.Mirror.String()),
				slog.Bool("ci", file.CI.Enabled),
				slog.Bool("dry_run", cfg.report.DryRun),
			)

			report, err := uc.Report(ctx)
			if err != nil {
				return err
			}

			printReport(os.Stdout, report)
			return nil
		},
	}
}

// printReport writes the message to w. Colors are disabled automatically when w is not a terminal.
func printReport(w io.Writer, report *model.StatusReport) {
	paint := color.New(color.FgGreen)
	if report.NeedsAttention() {
		paint = color.New(color.FgYellow)
	}
	if report.Build != nil && report.Health == model.BuildUnhealthy {
		paint = color.New(color.FgRed)
	}

	_, _ = paint.Fprintln(w, report.Message())
	if report.BuildURL != "" {
		_, _ = fmt.Fprintln(w, report.BuildURL)
	}
}
