package slack

import (
	"context"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/mirror-status/pkg/domain/model"
	"github.com/slack-go/slack"
)

// Notifier posts status reports to a Slack incoming webhook
type Notifier struct {
	webhookURL string
	httpClient *http.Client
}

// NewNotifier creates a Notifier for the incoming webhook URL
func NewNotifier(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify posts the report message as an attachment colored by its state
func (n *Notifier) Notify(ctx context.Context, repo model.Repository, report *model.StatusReport) error {
	msg := &slack.WebhookMessage{
		Text: "Mirror status of " + repo.String(),
		Attachments: []slack.Attachment{
			{
				Color:     attachmentColor(report),
				Fallback:  report.Message(),
				Title:     repo.String(),
				TitleLink: repo.URL(),
				Text:      report.Message(),
			},
		},
	}
	if report.BuildURL != "" {
		msg.Attachments[0].TitleLink = report.BuildURL
	}

	if err := slack.PostWebhookCustomHTTPContext(ctx, n.webhookURL, n.httpClient, msg); err != nil {
		return goerr.Wrap(err, "failed to post slack webhook", goerr.V("repo", repo.String()))
	}

	return nil
}

func attachmentColor(report *model.StatusReport) string {
	switch {
	case report.Health == model.BuildUnhealthy:
		return "danger"
	case report.NeedsAttention():
		return "warning"
	default:
		return "good"
	}
}
