package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/mirror-status/pkg/domain/interfaces"
	"github.com/m-mizutani/mirror-status/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub credentials given on the command line. They override the config file.
type GitHub struct {
	Token          string `masq:"secret"`
	AppID          int64
	InstallationID int64
	PrivateKey     string `masq:"secret"`
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub API token",
			Destination: &c.Token,
			Sources:     cli.EnvVars("MIRROR_STATUS_GITHUB_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("MIRROR_STATUS_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("MIRROR_STATUS_GITHUB_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-private-key",
			Usage:       "GitHub App private key (PEM)",
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("MIRROR_STATUS_GITHUB_PRIVATE_KEY"),
		},
	}
}

// Merge returns file credentials overridden by non-empty flags
func (c *GitHub) Merge(file FileGitHub) FileGitHub {
	merged := file
	if c.Token != "" {
		merged.Token = c.Token
	}
	if c.AppID != 0 {
		merged.AppID = c.AppID
	}
	if c.InstallationID != 0 {
		merged.InstallationID = c.InstallationID
	}
	if c.PrivateKey != "" {
		merged.PrivateKey = c.PrivateKey
	}
	return merged
}

// NewClient creates a GitHub client. A token wins over App credentials.
func (c *GitHub) NewClient(file FileGitHub) (interfaces.GitHubClient, error) {
	cred := c.Merge(file)

	var opts []github.Option
	if cred.BaseURL != "" {
		opts = append(opts, github.WithBaseURL(cred.BaseURL))
	}

	switch {
	case cred.Token != "":
		return github.NewClient(cred.Token, opts...)
	case cred.AppID != 0 && cred.InstallationID != 0 && cred.PrivateKey != "":
		return github.NewAppClient(cred.AppID, cred.InstallationID, []byte(cred.PrivateKey), opts...)
	default:
		return nil, goerr.New("GitHub token or App credentials are required")
	}
}
