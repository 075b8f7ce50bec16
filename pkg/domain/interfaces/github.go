package interfaces

import (
	"context"

	"github.com/m-mizutani/mirror-status/pkg/domain/model"
)

// GitHubClient defines operations for interacting with GitHub API
type GitHubClient interface {
	// LatestCommit returns the most recent commit of the default branch, or nil if there is none
	LatestCommit(ctx context.Context, repo model.Repository) (*model.Commit, error)

	// UpdateRepository overwrites the description (and homepage, if set) of a repository
	UpdateRepository(ctx context.Context, repo model.Repository, meta *model.RepositoryMetadata) error

	// LatestCommitStatus returns the most recent status of ref, or nil if there is none
	LatestCommitStatus(ctx context.Context, repo model.Repository, ref string) (*model.CommitStatus, error)

	// CreateCommitStatus records a new status on ref
	CreateCommitStatus(ctx context.Context, repo model.Repository, ref string, status *model.CommitStatus) error
}
