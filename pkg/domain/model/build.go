package model

import "regexp"

// BuildStateFinished is the lifecycle state of a build that is no longer queued or running
const BuildStateFinished = "finished"

// Build is a CI build of the mirror repository
type Build struct {
	ID        int64
	Number    string
	State     string
	Result    *int // 0 means passed; nil while running or when the build errored
	CommitSHA string
	Jobs      []*Job
}

// Finished reports whether the build reached a terminal state
func (b *Build) Finished() bool {
	return b.State == BuildStateFinished
}

// Passed reports the raw aggregate result as recorded by the CI service
func (b *Build) Passed() bool {
	return b.Result != nil && *b.Result == 0
}

// Job is a single job of a build matrix
type Job struct {
	ID           int64
	State        string
	Result       *int
	AllowFailure bool
	Env          string
}

// Passed reports whether the job succeeded
func (j *Job) Passed() bool {
	return j.Result != nil && *j.Result == 0
}

// BuildHealth is the folded health of the latest finished build
type BuildHealth string

const (
	BuildHealthy   BuildHealth = "healthy"
	BuildUnhealthy BuildHealth = "unhealthy"
	BuildUnknown   BuildHealth = "unknown"
)

// Glyph returns the short token appended to the status message
func (h BuildHealth) Glyph() string {
	switch h {
	case BuildHealthy:
		return "✔ build passing"
	case BuildUnhealthy:
		return "✘ build failing"
	default:
		return "? no finished build"
	}
}

// FirstFinished returns the first finished build of a most-recent-first list, or nil
func FirstFinished(builds []*Build) *Build {
	for _, b := range builds {
		if b != nil && b.Finished() {
			return b
		}
	}
	return nil
}

// EvaluateHealth folds the job outcomes of a build. A job counts as fine when it passed, is allowed
// to fail, or its env matches flaky. flaky may be nil. A nil build is BuildUnknown.
func EvaluateHealth(build *Build, flaky *regexp.Regexp) BuildHealth {
	if build == nil {
		return BuildUnknown
	}

	for _, job := range build.Jobs {
		if job.Passed() || job.AllowFailure {
			continue
		}
		if flaky != nil && flaky.MatchString(job.Env) {
			continue
		}
		return BuildUnhealthy
	}

	return BuildHealthy
}
