package usecase

import (
	"context"
	"regexp"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/mirror-status/pkg/domain/interfaces"
	"github.com/m-mizutani/mirror-status/pkg/domain/model"
)

// MirrorStatus compares the latest revisions of the official and mirror repositories and writes
// the result into the mirror's description
type MirrorStatus struct {
	github   interfaces.GitHubClient
	ci       interfaces.CIClient
	notifier interfaces.Notifier

	official  model.Repository
	mirror    model.Repository
	upstream  string
	extractor *model.RevisionExtractor
	flakyEnv  *regexp.Regexp
	timestamp bool
	dryRun    bool
	reconcile bool
	now       func() time.Time
}

// MirrorStatusOption is a functional option for MirrorStatus
type MirrorStatusOption func(*MirrorStatus)

// WithCI enables build status folding
func WithCI(ci interfaces.CIClient) MirrorStatusOption {
	return func(uc *MirrorStatus) {
		uc.ci = ci
	}
}

// WithNotifier sends reports that need attention
func WithNotifier(notifier interfaces.Notifier) MirrorStatusOption {
	return func(uc *MirrorStatus) {
		uc.notifier = notifier
	}
}

// WithRevisionMarker sets the text preceding "@<revision>" in commit messages
func WithRevisionMarker(marker string) MirrorStatusOption {
	return func(uc *MirrorStatus) {
		uc.extractor = model.NewRevisionExtractor(marker)
	}
}

// WithUpstreamLabel sets how the official repository is referred to in the message
func WithUpstreamLabel(label string) MirrorStatusOption {
	return func(uc *MirrorStatus) {
		uc.upstream = label
	}
}

// WithFlakyEnvPattern exempts failed jobs whose env matches pattern
func WithFlakyEnvPattern(pattern *regexp.Regexp) MirrorStatusOption {
	return func(uc *MirrorStatus) {
		uc.flakyEnv = pattern
	}
}

// WithTimestamp prefixes the message with the generation time
func WithTimestamp(enabled bool) MirrorStatusOption {
	return func(uc *MirrorStatus) {
		uc.timestamp = enabled
	}
}

// WithDryRun skips every write
func WithDryRun(enabled bool) MirrorStatusOption {
	return func(uc *MirrorStatus) {
		uc.dryRun = enabled
	}
}

// WithReconcile overrides errored commit statuses of builds that are healthy after folding
func WithReconcile(enabled bool) MirrorStatusOption {
	return func(uc *MirrorStatus) {
		uc.reconcile = enabled
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) MirrorStatusOption {
	return func(uc *MirrorStatus) {
		uc.now = now
	}
}

// NewMirrorStatus creates a new MirrorStatus use case
func NewMirrorStatus(githubClient interfaces.GitHubClient, official, mirror model.Repository, opts ...MirrorStatusOption) *MirrorStatus {
	uc := &MirrorStatus{
		github:    githubClient,
		official:  official,
		mirror:    mirror,
		upstream:  official.URL(),
		extractor: model.NewRevisionExtractor(model.DefaultRevisionMarker),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Report runs one comparison and publishes it. Any failure aborts before the description is written.
func (uc *MirrorStatus) Report(ctx context.Context) (*model.StatusReport, error) {
	logger := ctxlog.From(ctx)

	officialCommit, err := uc.github.LatestCommit(ctx, uc.official)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get latest commit of official repository")
	}
	mirrorCommit, err := uc.github.LatestCommit(ctx, uc.mirror)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get latest commit of mirror repository")
	}

	officialRev, err := uc.extractor.Extract(officialCommit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read official revision", goerr.V("repo", uc.official.String()))
	}
	mirrorRev, err := uc.extractor.Extract(mirrorCommit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read mirror revision", goerr.V("repo", uc.mirror.String()))
	}

	report := &model.StatusReport{
		Revisions: model.RevisionPair{Official: officialRev, Mirror: mirrorRev},
		Upstream:  uc.upstream,
	}
	if uc.timestamp {
		report.GeneratedAt = uc.now()
	}

	logger.Info("Compared revisions",
		"official", uc.official.String(),
		"official_revision", officialRev,
		"mirror", uc.mirror.String(),
		"mirror_revision", mirrorRev,
	)

	if uc.ci != nil {
		if err := uc.foldBuild(ctx, report); err != nil {
			return nil, err
		}
	}

	message := report.Message()
	if uc.dryRun {
		logger.Info("Dry run, skipping repository update", "message", message)
		return report, nil
	}

	if err := uc.github.UpdateRepository(ctx, uc.mirror, report.Metadata()); err != nil {
		return nil, goerr.Wrap(err, "failed to publish status", goerr.V("message", message))
	}
	report.Published = true

	logger.Info("Published mirror status",
		"repo", uc.mirror.String(),
		"message", message,
		"homepage", report.BuildURL,
	)

	if uc.reconcile {
		if err := uc.reconcileStatus(ctx, report); err != nil {
			return nil, err
		}
	}

	if uc.notifier != nil && report.NeedsAttention() {
		if err := uc.notifier.Notify(ctx, uc.mirror, report); err != nil {
			return nil, goerr.Wrap(err, "failed to notify status")
		}
	}

	return report, nil
}

// foldBuild sets build health and homepage from the latest finished build
func (uc *MirrorStatus) foldBuild(ctx context.Context, report *model.StatusReport) error {
	logger := ctxlog.From(ctx)

	builds, err := uc.ci.ListBuilds(ctx, uc.mirror)
	if err != nil {
		return goerr.Wrap(err, "failed to list builds of mirror repository")
	}

	finished := model.FirstFinished(builds)
	if finished == nil {
		logger.Warn("No finished build found", "repo", uc.mirror.String(), "build_count", len(builds))
		report.Health = model.BuildUnknown
		return nil
	}

	build, err := uc.ci.GetBuild(ctx, finished.ID)
	if err != nil {
		return goerr.Wrap(err, "failed to get build detail", goerr.V("build_id", finished.ID))
	}
	if build.CommitSHA == "" {
		build.CommitSHA = finished.CommitSHA
	}

	report.Build = build
	report.Health = model.EvaluateHealth(build, uc.flakyEnv)
	report.BuildURL = uc.ci.BuildURL(uc.mirror, build.ID)

	logger.Info("Evaluated latest finished build",
		"build_id", build.ID,
		"build_number", build.Number,
		"job_count", len(build.Jobs),
		"raw_passed", build.Passed(),
		"health", report.Health,
	)

	return nil
}

// reconcileStatus replaces an "error" commit status when folding judged the build healthy but
// the raw result did not
func (uc *MirrorStatus) reconcileStatus(ctx context.Context, report *model.StatusReport) error {
	logger := ctxlog.From(ctx)

	build := report.Build
	if build == nil || report.Health != model.BuildHealthy || build.Passed() || build.CommitSHA == "" {
		return nil
	}

	current, err := uc.github.LatestCommitStatus(ctx, uc.mirror, build.CommitSHA)
	if err != nil {
		return goerr.Wrap(err, "failed to get commit status", goerr.V("sha", build.CommitSHA))
	}
	if current == nil || current.State != model.CommitStateError {
		logger.Debug("Commit status needs no reconciliation", "sha", build.CommitSHA)
		return nil
	}

	corrected := &model.CommitStatus{
		State:       model.CommitStateSuccess,
		Context:     current.Context,
		Description: model.ReconciledStatusDescription,
		TargetURL:   report.BuildURL,
	}
	if err := uc.github.CreateCommitStatus(ctx, uc.mirror, build.CommitSHA, corrected); err != nil {
		return goerr.Wrap(err, "failed to correct commit status", goerr.V("sha", build.CommitSHA))
	}
	report.Reconciled = true

	logger.Info("Corrected errored commit status",
		"sha", build.CommitSHA,
		"context", current.Context,
		"build_id", build.ID,
	)

	return nil
}
