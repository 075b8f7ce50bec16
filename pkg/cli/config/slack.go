package config

import (
	"github.com/m-mizutani/mirror-status/pkg/domain/interfaces"
	"github.com/m-mizutani/mirror-status/pkg/infra/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds Slack notification configuration
type Slack struct {
	WebhookURL string `masq:"secret"`
}

// Flags returns CLI flags for Slack configuration
func (c *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL, notified when the mirror needs attention",
			Destination: &c.WebhookURL,
			Sources:     cli.EnvVars("MIRROR_STATUS_SLACK_WEBHOOK_URL"),
		},
	}
}

// Notifier returns nil when no webhook URL is set
func (c *Slack) Notifier() interfaces.Notifier {
	if c.WebhookURL == "" {
		return nil
	}
	return slack.NewNotifier(c.WebhookURL)
}
