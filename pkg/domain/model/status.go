package model

import (
	"strings"
	"time"
)

// TimestampFormat is the layout of the optional message prefix
const TimestampFormat = "2006-01-02 15:04 UTC"

// Commit status states used by the GitHub statuses API
const (
	CommitStateSuccess = "success"
	CommitStateError   = "error"
)

// ReconciledStatusDescription is written when an errored status is overridden
const ReconciledStatusDescription = "Build passed ignoring allowed and known flaky failures"

// CommitStatus is a status recorded on a commit
type CommitStatus struct {
	State       string
	Context     string
	Description string
	TargetURL   string
}

// RepositoryMetadata is the set of fields written to the mirror repository
type RepositoryMetadata struct {
	Description string
	Homepage    string // left untouched when empty
}

// StatusReport is the outcome of one run
type StatusReport struct {
	Revisions   RevisionPair
	Upstream    string
	Health      BuildHealth // empty when CI is not checked
	Build       *Build
	BuildURL    string
	GeneratedAt time.Time // zero omits the timestamp prefix
	Published   bool
	Reconciled  bool
}

// Message composes the text published as the repository description
func (r *StatusReport) Message() string {
	var parts []string
	if !r.GeneratedAt.IsZero() {
		parts = append(parts, "["+r.GeneratedAt.UTC().Format(TimestampFormat)+"]")
	}
	parts = append(parts, r.Revisions.Describe(r.Upstream))
	if r.Health != "" {
		parts = append(parts, r.Health.Glyph())
	}
	return strings.Join(parts, " ")
}

// Metadata returns the repository fields to publish
func (r *StatusReport) Metadata() *RepositoryMetadata {
	return &RepositoryMetadata{
		Description: r.Message(),
		Homepage:    r.BuildURL,
	}
}

// NeedsAttention is true when the mirror drifted or the build is not known to be healthy
func (r *StatusReport) NeedsAttention() bool {
	if !r.Revisions.UpToDate() {
		return true
	}
	return r.Health != "" && r.Health != BuildHealthy
}
