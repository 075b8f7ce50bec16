package interfaces

import (
	"context"

	"github.com/m-mizutani/mirror-status/pkg/domain/model"
)

// CIClient defines read operations of the continuous integration service
type CIClient interface {
	// ListBuilds returns builds of the repository, most recent first. Jobs are not populated.
	ListBuilds(ctx context.Context, repo model.Repository) ([]*model.Build, error)

	// GetBuild returns a build with its jobs
	GetBuild(ctx context.Context, id int64) (*model.Build, error)

	// BuildURL returns the web page of a build
	BuildURL(repo model.Repository, id int64) string
}

// Notifier delivers a report to humans
type Notifier interface {
	Notify(ctx context.Context, repo model.Repository, report *model.StatusReport) error
}
