package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/mirror-status/pkg/domain/interfaces"
	"github.com/m-mizutani/mirror-status/pkg/domain/model"
)

type client struct {
	githubClient *github.Client
}

type config struct {
	baseURL   string
	transport http.RoundTripper
}

// Option is a functional option for the GitHub client
type Option func(*config)

// WithBaseURL points the client at another API root, e.g. GitHub Enterprise or a test server
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithTransport replaces the underlying HTTP transport
func WithTransport(tr http.RoundTripper) Option {
	return func(c *config) {
		c.transport = tr
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// NewClient creates a new GitHub client authenticated with a personal access token
func NewClient(token string, opts ...Option) (interfaces.GitHubClient, error) {
	if token == "" {
		return nil, goerr.New("GitHub token is empty")
	}

	cfg := newConfig(opts)
	githubClient := github.NewClient(&http.Client{Transport: cfg.transport}).WithAuthToken(token)

	c, err := newClient(githubClient, cfg)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// NewAppClient creates a new GitHub client with App authentication
func NewAppClient(appID, installationID int64, privateKey []byte, opts ...Option) (interfaces.GitHubClient, error) {
	cfg := newConfig(opts)

	itr, err := ghinstallation.New(cfg.transport, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport",
			goerr.V("app_id", appID),
			goerr.V("installation_id", installationID),
		)
	}
	if cfg.baseURL != "" {
		itr.BaseURL = strings.TrimSuffix(cfg.baseURL, "/")
	}

	c, err := newClient(github.NewClient(&http.Client{Transport: itr}), cfg)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newClient(githubClient *github.Client, cfg *config) (*client, error) {
	if cfg.baseURL != "" {
		baseURL, err := url.Parse(cfg.baseURL)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid GitHub API base URL", goerr.V("base_url", cfg.baseURL))
		}
		if !strings.HasSuffix(baseURL.Path, "/") {
			baseURL.Path += "/"
		}
		githubClient.BaseURL = baseURL
	}

	return &client{
		githubClient: githubClient,
	}, nil
}

// LatestCommit returns the head commit of the default branch
func (c *client) LatestCommit(ctx context.Context, repo model.Repository) (*model.Commit, error) {
	commits, _, err := c.githubClient.Repositories.ListCommits(ctx, repo.Owner, repo.Name, &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list commits", goerr.V("repo", repo.String()))
	}

	if len(commits) == 0 {
		return nil, nil
	}

	return &model.Commit{
		SHA:     commits[0].GetSHA(),
		Message: commits[0].GetCommit().GetMessage(),
	}, nil
}

// UpdateRepository writes description and homepage of the repository
func (c *client) UpdateRepository(ctx context.Context, repo model.Repository, meta *model.RepositoryMetadata) error {
	patch := &github.Repository{
		Description: github.Ptr(meta.Description),
	}
	if meta.Homepage != "" {
		patch.Homepage = github.Ptr(meta.Homepage)
	}

	if _, _, err := c.githubClient.Repositories.Edit(ctx, repo.Owner, repo.Name, patch); err != nil {
		return goerr.Wrap(err, "failed to update repository", goerr.V("repo", repo.String()))
	}

	return nil
}

// LatestCommitStatus returns the most recently created status of ref
func (c *client) LatestCommitStatus(ctx context.Context, repo model.Repository, ref string) (*model.CommitStatus, error) {
	statuses, _, err := c.githubClient.Repositories.ListStatuses(ctx, repo.Owner, repo.Name, ref, &github.ListOptions{PerPage: 1})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list commit statuses",
			goerr.V("repo", repo.String()),
			goerr.V("ref", ref),
		)
	}

	if len(statuses) == 0 {
		return nil, nil
	}

	return &model.CommitStatus{
		State:       statuses[0].GetState(),
		Context:     statuses[0].GetContext(),
		Description: statuses[0].GetDescription(),
		TargetURL:   statuses[0].GetTargetURL(),
	}, nil
}

// CreateCommitStatus records a status on ref
func (c *client) CreateCommitStatus(ctx context.Context, repo model.Repository, ref string, status *model.CommitStatus) error {
	repoStatus := &github.RepoStatus{
		State:       github.Ptr(status.State),
		Description: github.Ptr(status.Description),
	}
	if status.Context != "" {
		repoStatus.Context = github.Ptr(status.Context)
	}
	if status.TargetURL != "" {
		repoStatus.TargetURL = github.Ptr(status.TargetURL)
	}

	if _, _, err := c.githubClient.Repositories.CreateStatus(ctx, repo.Owner, repo.Name, ref, repoStatus); err != nil {
		return goerr.Wrap(err, "failed to create commit status",
			goerr.V("repo", repo.String()),
			goerr.V("ref", ref),
			goerr.V("state", status.State),
		)
	}

	return nil
}
