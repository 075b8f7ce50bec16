package config

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"regexp"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/mirror-status/pkg/domain/model"
	"github.com/m-mizutani/mirror-status/pkg/infra/travis"
	"github.com/pelletier/go-toml/v2"
)

// DefaultFilePath is read when --config is not given. It may be absent.
const DefaultFilePath = "mirror-status.toml"

// File is the local configuration file
type File struct {
	GitHub   FileGitHub       `toml:"github"`
	Official model.Repository `toml:"official"`
	Mirror   model.Repository `toml:"mirror"`
	Message  FileMessage      `toml:"message"`
	CI       FileCI           `toml:"ci"`
}

// FileGitHub holds GitHub credentials and endpoint
type FileGitHub struct {
	Token          string `toml:"token" masq:"secret"`
	BaseURL        string `toml:"base_url"`
	AppID          int64  `toml:"app_id"`
	InstallationID int64  `toml:"installation_id"`
	PrivateKey     string `toml:"private_key" masq:"secret"`
}

// FileMessage controls the published description
type FileMessage struct {
	RevisionMarker string `toml:"revision_marker"`
	UpstreamLabel  string `toml:"upstream_label"`
	Timestamp      bool   `toml:"timestamp"`
}

// FileCI controls build status folding
type FileCI struct {
	Enabled         bool   `toml:"enabled"`
	APIURL          string `toml:"api_url"`
	WebURL          string `toml:"web_url"`
	Token           string `toml:"token" masq:"secret"`
	FlakyEnvPattern string `toml:"flaky_env_pattern"`
	Reconcile       bool   `toml:"reconcile"`
}

// DefaultFile returns the configuration used for the WordPress develop mirror
func DefaultFile() *File {
	return &File{
		Official: model.Repository{Owner: "WordPress", Name: "wordpress-develop"},
		Mirror:   model.Repository{Owner: "nylen", Name: "wordpress-develop-svn"},
		Message: FileMessage{
			RevisionMarker: model.DefaultRevisionMarker,
		},
		CI: FileCI{
			APIURL: travis.DefaultAPIURL,
			WebURL: travis.DefaultWebURL,
		},
	}
}

// LoadFile reads path over DefaultFile. A missing DefaultFilePath yields the defaults; any other
// missing path is an error.
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && path == DefaultFilePath {
			return DefaultFile(), nil
		}
		return nil, goerr.Wrap(err, "failed to open config file", goerr.V("path", path))
	}
	defer func() {
		_ = f.Close() // read only
	}()

	file, err := ParseFile(f)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load config file", goerr.V("path", path))
	}
	return file, nil
}

// ParseFile decodes TOML from r over DefaultFile and validates it. Unknown keys are rejected.
func ParseFile(r io.Reader) (*File, error) {
	file := DefaultFile()
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(file); err != nil {
		return nil, goerr.Wrap(err, "failed to decode TOML")
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return file, nil
}

// Validate checks repository identities and the flaky pattern
func (f *File) Validate() error {
	for _, repo := range []struct {
		key  string
		repo model.Repository
	}{
		{"official", f.Official},
		{"mirror", f.Mirror},
	} {
		if repo.repo.Owner == "" || repo.repo.Name == "" {
			return goerr.New("repository owner and name are required", goerr.V("key", repo.key))
		}
	}

	if f.Message.RevisionMarker == "" {
		return goerr.New("revision marker must not be empty")
	}

	if _, err := f.CI.FlakyPattern(); err != nil {
		return err
	}
	return nil
}

// FlakyPattern compiles the flaky env pattern, nil if unset
func (c FileCI) FlakyPattern() (*regexp.Regexp, error) {
	if c.FlakyEnvPattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(c.FlakyEnvPattern)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid flaky env pattern", goerr.V("pattern", c.FlakyEnvPattern))
	}
	return re, nil
}

// UpstreamLabel returns the configured label or the official repository URL
func (f *File) UpstreamLabel() string {
	if f.Message.UpstreamLabel != "" {
		return f.Message.UpstreamLabel
	}
	return f.Official.URL()
}
