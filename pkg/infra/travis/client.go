// Package travis provides a client for the Travis CI v2 API.
package travis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/mirror-status/pkg/domain/model"
)

const (
	// DefaultAPIURL is the base URL of the Travis CI API
	DefaultAPIURL = "https://api.travis-ci.org"
	// DefaultWebURL is the base URL of Travis CI build pages
	DefaultWebURL = "https://travis-ci.org"

	acceptHeader = "application/vnd.travis-ci.2.1+json"
)

// Client is a Travis CI API client
type Client struct {
	apiURL     string
	webURL     string
	token      string
	httpClient *http.Client
}

// Option is a functional option for Client
type Option func(*Client)

// WithAPIURL sets the API base URL
func WithAPIURL(url string) Option {
	return func(c *Client) {
		c.apiURL = strings.TrimSuffix(url, "/")
	}
}

// WithWebURL sets the base URL used for build page links
func WithWebURL(url string) Option {
	return func(c *Client) {
		c.webURL = strings.TrimSuffix(url, "/")
	}
}

// WithToken sets the API token. Public repositories do not need one.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new Travis CI API client
func NewClient(opts ...Option) *Client {
	c := &Client{
		apiURL: DefaultAPIURL,
		webURL: DefaultWebURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type buildRecord struct {
	ID       int64  `json:"id"`
	Number   string `json:"number"`
	State    string `json:"state"`
	Result   *int   `json:"result"`
	CommitID int64  `json:"commit_id"`
}

type commitRecord struct {
	ID  int64  `json:"id"`
	SHA string `json:"sha"`
}

type jobRecord struct {
	ID           int64     `json:"id"`
	State        string    `json:"state"`
	Result       *int      `json:"result"`
	AllowFailure bool      `json:"allow_failure"`
	Config       jobConfig `json:"config"`
}

type jobConfig struct {
	Env envValue `json:"env"`
}

// envValue accepts both `"env": "A=1 B=2"` and `"env": ["A=1", "B=2"]`
type envValue string

func (v *envValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = envValue(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return goerr.Wrap(err, "env is neither string nor list", goerr.V("env", string(data)))
	}
	*v = envValue(strings.Join(list, " "))
	return nil
}

type listBuildsResponse struct {
	Builds  []buildRecord  `json:"builds"`
	Commits []commitRecord `json:"commits"`
}

type getBuildResponse struct {
	Build  buildRecord  `json:"build"`
	Commit commitRecord `json:"commit"`
	Jobs   []jobRecord  `json:"jobs"`
}

// ListBuilds fetches recent builds of a repository, most recent first
func (c *Client) ListBuilds(ctx context.Context, repo model.Repository) ([]*model.Build, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/builds", c.apiURL, repo.Owner, repo.Name)

	var resp listBuildsResponse
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to list builds", goerr.V("repo", repo.String()))
	}

	commits := make(map[int64]string, len(resp.Commits))
	for _, commit := range resp.Commits {
		commits[commit.ID] = commit.SHA
	}

	builds := make([]*model.Build, 0, len(resp.Builds))
	for _, b := range resp.Builds {
		builds = append(builds, b.toModel(commits[b.CommitID]))
	}

	return builds, nil
}

// GetBuild fetches a build together with its jobs
func (c *Client) GetBuild(ctx context.Context, id int64) (*model.Build, error) {
	url := fmt.Sprintf("%s/builds/%d", c.apiURL, id)

	var resp getBuildResponse
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to get build", goerr.V("build_id", id))
	}

	build := resp.Build.toModel(resp.Commit.SHA)
	for _, j := range resp.Jobs {
		build.Jobs = append(build.Jobs, &model.Job{
			ID:           j.ID,
			State:        j.State,
			Result:       j.Result,
			AllowFailure: j.AllowFailure,
			Env:          string(j.Config.Env),
		})
	}

	return build, nil
}

// BuildURL returns the web page of a build
func (c *Client) BuildURL(repo model.Repository, id int64) string {
	return fmt.Sprintf("%s/%s/%s/builds/%d", c.webURL, repo.Owner, repo.Name, id)
}

func (b buildRecord) toModel(sha string) *model.Build {
	return &model.Build{
		ID:        b.ID,
		Number:    b.Number,
		State:     b.State,
		Result:    b.Result,
		CommitSHA: sha,
	}
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to create request", goerr.V("url", url))
	}

	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", "mirror-status")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to execute request", goerr.V("url", url))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return goerr.Wrap(err, "failed to read response body", goerr.V("url", url))
	}

	if resp.StatusCode != http.StatusOK {
		return goerr.New("API request failed",
			goerr.V("url", url),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(body)),
		)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return goerr.Wrap(err, "failed to decode response", goerr.V("url", url))
	}

	return nil
}
