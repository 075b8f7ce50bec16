package config_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/mirror-status/pkg/cli/config"
)

func TestGitHub_Merge(t *testing.T) {
	file := config.FileGitHub{
		Token:   "file-token",
		BaseURL: "https://ghe.example.com/api/v3/",
		AppID:   1,
	}

	t.Run("flags override file", func(t *testing.T) {
		cfg := &config.GitHub{Token: "flag-token", AppID: 2}
		merged := cfg.Merge(file)
		gt.String(t, merged.Token).Equal("flag-token")
		gt.Number(t, merged.AppID).Equal(2)
		gt.String(t, merged.BaseURL).Equal("https://ghe.example.com/api/v3/")
	})

	t.Run("empty flags keep file values", func(t *testing.T) {
		cfg := &config.GitHub{}
		merged := cfg.Merge(file)
		gt.Value(t, merged).Equal(file)
	})
}

func TestGitHub_NewClient(t *testing.T) {
	t.Run("token", func(t *testing.T) {
		cfg := &config.GitHub{Token: "ghp_xxx"}
		client, err := cfg.NewClient(config.FileGitHub{})
		gt.NoError(t, err)
		gt.NotNil(t, client)
	})

	t.Run("token from file", func(t *testing.T) {
		cfg := &config.GitHub{}
		client, err := cfg.NewClient(config.FileGitHub{Token: "ghp_xxx"})
		gt.NoError(t, err)
		gt.NotNil(t, client)
	})

	t.Run("no credentials", func(t *testing.T) {
		cfg := &config.GitHub{}
		_, err := cfg.NewClient(config.FileGitHub{})
		gt.Error(t, err)
	})

	t.Run("incomplete App credentials", func(t *testing.T) {
		cfg := &config.GitHub{AppID: 1, InstallationID: 2}
		_, err := cfg.NewClient(config.FileGitHub{})
		gt.Error(t, err)
	})

	t.Run("invalid App private key", func(t *testing.T) {
		cfg := &config.GitHub{AppID: 1, InstallationID: 2, PrivateKey: "not a key"}
		_, err := cfg.NewClient(config.FileGitHub{})
		gt.Error(t, err)
	})
}
