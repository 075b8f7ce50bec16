package interfaces

import (
	"context"

	"github.com/m-mizutani/mirror-status/pkg/domain/model"
)

// WebhookUseCase defines the interface for webhook event processing
type WebhookUseCase interface {
	// ProcessEvent processes a webhook event
	ProcessEvent(ctx context.Context, event *model.WebhookEvent) error
}

// MirrorStatusUseCase compares the mirror with upstream and publishes the result
type MirrorStatusUseCase interface {
	Report(ctx context.Context) (*model.StatusReport, error)
}
