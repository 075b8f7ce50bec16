package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
)

// DefaultRevisionMarker is the git-svn trailer written by the WordPress develop mirror
const DefaultRevisionMarker = "git-svn-id: https://develop.svn.wordpress.org/trunk"

// ErrMissingCommit is returned when a repository has no commit to read a revision from
var ErrMissingCommit = errors.New("missing commit")

// Repository identifies a GitHub repository
type Repository struct {
	Owner string `toml:"owner"`
	Name  string `toml:"name"`
}

// String returns "owner/name"
func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// URL returns the web URL of the repository on github.com
func (r Repository) URL() string {
	return "https://github.com/" + r.String()
}

// Commit is the latest commit of a repository
type Commit struct {
	SHA     string
	Message string
}

// RevisionExtractor finds "<marker>@<revision>" in commit messages
type RevisionExtractor struct {
	pattern *regexp.Regexp
}

// NewRevisionExtractor builds an extractor for the given marker. The marker is matched literally.
func NewRevisionExtractor(marker string) *RevisionExtractor {
	return &RevisionExtractor{
		pattern: regexp.MustCompile(regexp.QuoteMeta(marker) + `@(\d+)`),
	}
}

// Extract returns the revision embedded in the commit message, or 0 if there is none.
// A nil commit is an error, not a zero revision.
func (x *RevisionExtractor) Extract(commit *Commit) (int, error) {
	if commit == nil {
		return 0, goerr.Wrap(ErrMissingCommit, "no commit to extract revision from")
	}

	match := x.pattern.FindStringSubmatch(commit.Message)
	if match == nil {
		return 0, nil
	}

	revision, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, goerr.Wrap(err, "revision number out of range",
			goerr.V("sha", commit.SHA),
			goerr.V("revision", match[1]),
		)
	}

	return revision, nil
}

// RevisionPair holds the revisions of the official and mirror repositories
type RevisionPair struct {
	Official int
	Mirror   int
}

// UpToDate reports whether both sides are at the same revision
func (p RevisionPair) UpToDate() bool {
	return p.Official == p.Mirror
}

// Describe renders the comparison sentence. upstream is how the official repository is referred to.
func (p RevisionPair) Describe(upstream string) string {
	switch {
	case p.Official > p.Mirror:
		return fmt.Sprintf("This repository is behind %s by %s 😞", upstream, revisions(p.Official-p.Mirror))
	case p.Mirror > p.Official:
		return fmt.Sprintf("%s is behind this repository by %s 😞", upstream, revisions(p.Mirror-p.Official))
	default:
		return fmt.Sprintf("This repository is up to date with %s ✨", upstream)
	}
}

func revisions(n int) string {
	if n == 1 {
		return "1 revision"
	}
	return fmt.Sprintf("%d revisions", n)
}
