package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/mirror-status/pkg/domain/interfaces"
	"github.com/m-mizutani/mirror-status/pkg/domain/model"
	"github.com/m-mizutani/mirror-status/pkg/utils/async"
)

type webhookUseCase struct {
	official model.Repository
	mirror   model.Repository
	run      async.Handler
}

// NewWebhook creates a WebhookUseCase that re-runs the mirror status report on relevant events.
// Runs are dispatched in the background and never overlap.
func NewWebhook(reporter interfaces.MirrorStatusUseCase, official, mirror model.Repository) *webhookUseCase {
	return &webhookUseCase{
		official: official,
		mirror:   mirror,
		run: async.Serialize(func(ctx context.Context) error {
			_, err := reporter.Report(ctx)
			return err
		}),
	}
}

// ProcessEvent processes a webhook event
func (uc *webhookUseCase) ProcessEvent(ctx context.Context, event *model.WebhookEvent) error {
	logger := ctxlog.From(ctx)

	logger.Info("Processing webhook event",
		"id", event.ID,
		"type", event.Type,
		"repository", event.Repository,
		"ref", event.Ref,
		"sender", event.Sender,
		"supported", event.IsSupportedEvent(),
	)

	if !event.IsSupportedEvent() {
		logger.Warn("Unsupported event received",
			"type", event.Type,
			"state", event.State,
		)
		return nil
	}

	if !uc.isRelevant(event) {
		logger.Info("Ignoring event of unrelated repository", "repository", event.Repository)
		return nil
	}

	async.Dispatch(ctx, uc.run)
	return nil
}

// isRelevant accepts pushes to either repository and statuses of the mirror
func (uc *webhookUseCase) isRelevant(event *model.WebhookEvent) bool {
	switch event.Type {
	case model.EventTypePush:
		return sameRepo(event.Repository, uc.official) || sameRepo(event.Repository, uc.mirror)
	case model.EventTypeStatus:
		return sameRepo(event.Repository, uc.mirror)
	default:
		return false
	}
}

func sameRepo(fullName string, repo model.Repository) bool {
	return strings.EqualFold(fullName, repo.String())
}
