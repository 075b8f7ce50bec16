package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/mirror-status/pkg/cli/config"
	"github.com/m-mizutani/mirror-status/pkg/infra/travis"
	"github.com/m-mizutani/mirror-status/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// mirrorStatusConfig gathers every source of settings for a MirrorStatus
type mirrorStatusConfig struct {
	report config.Report
	github config.GitHub
	slack  config.Slack
}

func (c *mirrorStatusConfig) flags() []cli.Flag {
	flags := c.report.Flags()
	flags = append(flags, c.github.Flags()...)
	flags = append(flags, c.slack.Flags()...)
	return flags
}

// build loads the config file and wires the use case. The file is returned for the repository identities.
func (c *mirrorStatusConfig) build(ctx context.Context) (*usecase.MirrorStatus, *config.File, error) {
	file, err := config.LoadFile(c.report.ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	githubClient, err := c.github.NewClient(file.GitHub)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create GitHub client")
	}

	opts := []usecase.MirrorStatusOption{
		usecase.WithRevisionMarker(file.Message.RevisionMarker),
		usecase.WithUpstreamLabel(file.UpstreamLabel()),
		usecase.WithTimestamp(file.Message.Timestamp || c.report.Timestamp),
		usecase.WithDryRun(c.report.DryRun),
	}

	if file.CI.Enabled {
		flaky, err := file.CI.FlakyPattern()
		if err != nil {
			return nil, nil, err
		}
		ci := travis.NewClient(
			travis.WithAPIURL(file.CI.APIURL),
			travis.WithWebURL(file.CI.WebURL),
			travis.WithToken(file.CI.Token),
		)
		opts = append(opts,
			usecase.WithCI(ci),
			usecase.WithFlakyEnvPattern(flaky),
			usecase.WithReconcile(file.CI.Reconcile),
		)
	}

	if notifier := c.slack.Notifier(); notifier != nil {
		opts = append(opts, usecase.WithNotifier(notifier))
	}

	ctxlog.From(ctx).Debug("Loaded configuration",
		slog.String("path", c.report.ConfigPath),
		slog.Any("file", file),
		slog.Any("github", c.github),
	)

	return usecase.NewMirrorStatus(githubClient, file.Official, file.Mirror, opts...), file, nil
}
