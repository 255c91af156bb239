package build

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/doxybuilder/internal/browser"
	"git.home.luguber.info/inful/doxybuilder/internal/config"
	derrors "git.home.luguber.info/inful/doxybuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/doxybuilder/internal/history"
	"git.home.luguber.info/inful/doxybuilder/internal/logfields"
	"git.home.luguber.info/inful/doxybuilder/internal/metrics"
	"git.home.luguber.info/inful/doxybuilder/internal/notify"
	"git.home.luguber.info/inful/doxybuilder/internal/observability"
	"git.home.luguber.info/inful/doxybuilder/internal/toolchain"
)

// Stage names used in logs, metrics and Report.Stages.
const (
	StageDetect   = "detect"
	StageDiscover = "discover"
	StagePatch    = "patch"
	StagePrepare  = "prepare"
	StageProbe    = "probe"
	StageGenerate = "generate"
	StageVerify   = "verify"
	StageOpen     = "open"
)

// Builder executes documentation builds for one configuration.
type Builder struct {
	cfg      *config.Config
	runner   toolchain.Runner
	opener   browser.Opener
	clip     browser.Clipboard
	recorder metrics.Recorder
	history  history.Store
	notifier notify.Notifier
}

// Option customizes a Builder.
type Option func(*Builder)

// WithRunner replaces the process runner used for doxygen and dot.
func WithRunner(r toolchain.Runner) Option { return func(b *Builder) { b.runner = r } }

// WithOpener replaces the browser launcher.
func WithOpener(o browser.Opener) Option { return func(b *Builder) { b.opener = o } }

// WithClipboard replaces the clipboard used when copy_path is enabled.
func WithClipboard(c browser.Clipboard) Option { return func(b *Builder) { b.clip = c } }

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(b *Builder) { b.recorder = r } }

// WithHistory sets the run history store.
func WithHistory(s history.Store) Option { return func(b *Builder) { b.history = s } }

// WithNotifier sets the build event notifier.
func WithNotifier(n notify.Notifier) Option { return func(b *Builder) { b.notifier = n } }

// New creates a Builder. Unset collaborators default to the real system
// implementations and no-op metrics, history and notifications.
func New(cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{
		cfg:      cfg,
		runner:   toolchain.ExecRunner{},
		clip:     browser.SystemClipboard,
		recorder: metrics.NoopRecorder{},
		history:  history.NoopStore{},
		notifier: notify.NoopNotifier{},
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.opener == nil {
		b.opener = &browser.SystemOpener{Runner: b.runner}
	}
	return b
}

// RunOptions modify a single build.
type RunOptions struct {
	// SkipUnchanged skips generation when the fingerprint of the previous
	// build in the output directory matches this one.
	SkipUnchanged bool
	// NoBrowser suppresses opening and copying the index for this run.
	NoBrowser bool
}

// Run executes the pipeline once. The returned report is never nil; on
// failure it carries whatever was learned before the failing stage.
func (b *Builder) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	report := &Report{BuildID: uuid.NewString(), StartTime: time.Now()}
	ctx = observability.WithBuildID(ctx, report.BuildID)

	r := &run{Builder: b, report: report, opts: opts}
	err := r.execute(ctx)
	b.finish(ctx, report, err)

	if err == nil && !opts.NoBrowser {
		r.present(ctx)
	}
	return report, err
}

func (b *Builder) finish(ctx context.Context, report *Report, err error) {
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)

	var outcome metrics.BuildOutcomeLabel
	switch {
	case err == nil && report.Skipped:
		report.Status, outcome = StatusSkipped, metrics.BuildOutcomeSkipped
	case err == nil:
		report.Status, outcome = StatusSuccess, metrics.BuildOutcomeSuccess
	case isCancellation(err):
		report.Status, outcome = StatusCancelled, metrics.BuildOutcomeCanceled
	default:
		report.Status, outcome = StatusFailed, metrics.BuildOutcomeFailed
	}
	b.recorder.IncBuildOutcome(outcome)
	b.recorder.ObserveBuildDuration(report.Duration)

	observability.InfoContext(ctx, "Build finished",
		slog.String("status", string(report.Status)),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))

	// Bookkeeping outlives a cancelled build context.
	bg := context.WithoutCancel(ctx)

	errText := ""
	if err != nil {
		errText = err.Error()
	}
	rec := history.Run{
		BuildID:        report.BuildID,
		StartedAt:      report.StartTime,
		Duration:       report.Duration,
		Project:        report.Project,
		Version:        report.Version,
		Outcome:        string(report.Status),
		Sources:        len(report.Sources),
		DoxygenVersion: report.DoxygenVersion,
		IndexPath:      report.IndexPath,
		Unmatched:      report.Unmatched,
		Error:          errText,
	}
	if herr := b.history.Record(bg, rec); herr != nil {
		observability.WarnContext(ctx, "Failed to record build history", logfields.Error(herr))
	}

	event := notify.Event{
		BuildID:    report.BuildID,
		Project:    report.Project,
		Version:    report.Version,
		Outcome:    string(report.Status),
		Sources:    len(report.Sources),
		DurationMS: report.Duration.Milliseconds(),
		IndexPath:  report.IndexPath,
		Error:      errText,
	}
	if nerr := b.notifier.Notify(bg, event); nerr != nil {
		observability.WarnContext(ctx, "Failed to publish build event", logfields.Error(nerr))
	}

	if path := b.cfg.Metrics.Textfile; path != "" {
		if w, ok := b.recorder.(interface{ WriteTextfile(string) error }); ok {
			if werr := w.WriteTextfile(path); werr != nil {
				observability.WarnContext(ctx, "Failed to write metrics textfile", logfields.Path(path), logfields.Error(werr))
			}
		}
	}
}

// present opens the index in a browser and copies its path, as configured.
// Failures are recorded on the report as a browser warning.
func (r *run) present(ctx context.Context) {
	openBrowser := r.cfg.ShouldOpenBrowser()
	if !openBrowser && !r.cfg.CopyPath {
		return
	}
	_ = r.stage(ctx, StageOpen, func(ctx context.Context) error {
		if r.cfg.CopyPath {
			if err := browser.CopyPath(r.clip, r.report.IndexPath); err != nil {
				r.report.BrowserErr = derrors.WrapError(err, derrors.CategoryBrowser, "could not copy documentation path").
					Warning().
					Build()
				observability.WarnContext(ctx, "Could not copy documentation path", logfields.Error(err))
			}
		}
		if !openBrowser {
			return nil
		}
		if err := r.opener.Open(ctx, r.report.IndexPath); err != nil {
			r.report.BrowserErr = derrors.WrapError(err, derrors.CategoryBrowser, "could not open browser").
				WithContext("index", r.report.IndexPath).
				Warning().
				Build()
			observability.WarnContext(ctx, "Could not open browser", logfields.Error(err))
			return nil
		}
		r.report.BrowserOpened = true
		return nil
	})
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
