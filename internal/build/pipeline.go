package build

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/doxybuilder/internal/discovery"
	"git.home.luguber.info/inful/doxybuilder/internal/doxyfile"
	derrors "git.home.luguber.info/inful/doxybuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/doxybuilder/internal/logfields"
	"git.home.luguber.info/inful/doxybuilder/internal/metrics"
	"git.home.luguber.info/inful/doxybuilder/internal/observability"
	"git.home.luguber.info/inful/doxybuilder/internal/project"
	"git.home.luguber.info/inful/doxybuilder/internal/toolchain"
)

// run holds the state of one Builder.Run invocation.
type run struct {
	*Builder
	report  *Report
	opts    RunOptions
	patched []string
	doxygen *toolchain.Doxygen
}

type step struct {
	name string
	fn   func(context.Context) error
}

func (r *run) execute(ctx context.Context) error {
	if err := r.runSteps(ctx, []step{
		{StageDetect, r.detect},
		{StageDiscover, r.discover},
		{StagePatch, r.patch},
	}); err != nil {
		return err
	}

	steps := []step{{StagePrepare, r.prepare}, {StageProbe, r.probe}}
	if r.opts.SkipUnchanged {
		// A missing Doxygen fails the run even when nothing changed.
		if err := r.stage(ctx, StageProbe, r.probe); err != nil {
			return err
		}
		unchanged, err := r.unchanged()
		if err != nil {
			return err
		}
		if unchanged {
			r.report.Skipped = true
			r.report.SkipReason = "unchanged"
			observability.InfoContext(ctx, "Documentation is up to date, skipping generation",
				logfields.Path(r.report.IndexPath))
			return nil
		}
		steps = steps[:1]
	}

	return r.runSteps(ctx, append(steps,
		step{StageGenerate, r.generate},
		step{StageVerify, r.verify},
	))
}

func (r *run) runSteps(ctx context.Context, steps []step) error {
	for _, s := range steps {
		if err := r.stage(ctx, s.name, s.fn); err != nil {
			return err
		}
	}
	return nil
}

// stage runs fn with the stage name in the log context and records its
// duration and result.
func (r *run) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		r.recorder.IncStageResult(name, metrics.ResultCanceled)
		return err
	}
	start := time.Now()
	err := fn(observability.WithStage(ctx, name))
	d := time.Since(start)

	r.report.Stages = append(r.report.Stages, StageTiming{Name: name, Duration: d})
	r.recorder.ObserveStageDuration(name, d)
	switch {
	case err == nil:
		r.recorder.IncStageResult(name, metrics.ResultSuccess)
	case isCancellation(err):
		r.recorder.IncStageResult(name, metrics.ResultCanceled)
	default:
		r.recorder.IncStageResult(name, metrics.ResultFatal)
	}
	return err
}

func (r *run) detect(ctx context.Context) error {
	root, err := r.cfg.RootDir()
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "cannot resolve project root").
			WithContext("root", r.cfg.Project.Root).
			Build()
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return derrors.DiscoveryError("project root not found").
			WithContext("root", root).
			Build()
	}

	rep := r.report
	rep.Root = root
	rep.OutputDir = r.cfg.OutputDir(root)
	rep.Doxyfile = filepath.Join(rep.OutputDir, "Doxyfile")
	rep.IndexPath = IndexPath(rep.OutputDir)
	if contains(rep.OutputDir, root) {
		return derrors.ConfigError("output directory must not contain the project root").
			WithContext("output", rep.OutputDir).
			WithContext("root", root).
			Build()
	}

	rep.Project, rep.ProjectSource = project.DetectName(root, r.cfg.Project.Name)
	rep.Version, _ = project.Version(root)
	rep.HaveDot = toolchain.GraphvizAvailable(ctx, r.runner, r.cfg.Graphviz.Binary)

	observability.InfoContext(ctx, "Detected project name",
		logfields.Project(rep.Project),
		slog.String("source", rep.ProjectSource),
		logfields.Version(rep.Version))
	observability.InfoContext(ctx, "Graphviz available", slog.String("have_dot", doxyfile.YesNo(rep.HaveDot)))
	return nil
}

func (r *run) discover(ctx context.Context) error {
	opts := r.cfg.DiscoveryOptions()
	sources, err := discovery.Discover(r.report.Root, opts)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "source discovery failed").
			WithContext("root", r.report.Root).
			Build()
	}
	if len(sources) == 0 {
		return derrors.DiscoveryError("no source files found for documentation").
			WithContext("root", r.report.Root).
			WithContext("inputs", strings.Join(opts.Inputs, ", ")).
			Build()
	}

	r.report.Sources = sources
	r.recorder.SetSourceFiles(len(sources))
	observability.InfoContext(ctx, "Found source files for documentation", logfields.Count(len(sources)))
	return nil
}

func (r *run) patch(ctx context.Context) error {
	rep := r.report
	tmplPath := r.cfg.TemplatePath(rep.Root)
	lines, err := doxyfile.ReadTemplate(tmplPath, r.cfg.Template.Encoding)
	if err != nil {
		return TemplateError(err, tmplPath, r.cfg.Template.Encoding)
	}

	mainpage := ""
	if mp := r.cfg.Project.Mainpage; mp != "" {
		mainpage = mp
		if !filepath.IsAbs(mainpage) {
			mainpage = filepath.Join(rep.Root, mainpage)
		}
		if _, err := os.Stat(mainpage); err != nil {
			return derrors.WrapError(err, derrors.CategoryConfig, "mainpage not found").
				WithContext("mainpage", mainpage).
				Build()
		}
	}

	settings := doxyfile.BaseSettings(doxyfile.Options{
		ProjectName: rep.Project,
		Version:     rep.Version,
		Sources:     rep.Sources,
		OutputDir:   rep.OutputDir,
		HaveDot:     rep.HaveDot,
		Mainpage:    mainpage,
	}).Merge(r.cfg.Settings)
	if err := settings.Validate(); err != nil {
		return derrors.WrapError(err, derrors.CategoryValidation, "invalid Doxyfile settings").Build()
	}

	r.patched = doxyfile.Patch(lines, settings)

	rep.Unmatched = doxyfile.Unmatched(lines, settings)
	r.recorder.SetUnmatchedKeys(len(rep.Unmatched))
	if len(rep.Unmatched) > 0 {
		keys := doxyfile.Keys(lines)
		for _, key := range rep.Unmatched {
			attrs := []slog.Attr{logfields.Key(key), logfields.File(tmplPath)}
			if s, ok := doxyfile.Suggest(key, keys); ok {
				attrs = append(attrs, slog.String("did_you_mean", s))
			}
			observability.WarnContext(ctx, "Setting has no line in template; not applied", attrs...)
		}
	}
	return nil
}

func (r *run) fingerprint() error {
	rep := r.report
	fp, err := Fingerprint(doxyfile.Render(r.patched), rep.DoxygenVersion, rep.Sources)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to fingerprint sources").Build()
	}
	rep.Fingerprint = fp
	return nil
}

// TemplateError classifies a failure to read a Doxyfile template.
func TemplateError(err error, path, encoding string) error {
	switch {
	case errors.Is(err, doxyfile.ErrUnknownEncoding):
		return derrors.WrapError(err, derrors.CategoryConfig, "invalid template encoding").
			WithContext("encoding", encoding).
			Build()
	case errors.Is(err, fs.ErrNotExist):
		return derrors.WrapError(err, derrors.CategoryFileSystem, "template not found (run `doxybuilder init` to create one)").
			WithContext("template", path).
			Build()
	default:
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to read template").
			WithContext("template", path).
			Build()
	}
}

// unchanged reports whether the previous build in the output directory had
// the same fingerprint and left an index page behind.
func (r *run) unchanged() (bool, error) {
	if err := r.fingerprint(); err != nil {
		return false, err
	}
	if readFingerprint(r.report.OutputDir) != r.report.Fingerprint {
		return false, nil
	}
	_, err := os.Stat(r.report.IndexPath)
	return err == nil, nil
}

func (r *run) prepare(ctx context.Context) error {
	out := r.report.OutputDir
	if err := os.RemoveAll(out); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to clean output directory").
			WithContext("output", out).
			Build()
	}
	if err := os.MkdirAll(out, 0o750); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to create output directory").
			WithContext("output", out).
			Build()
	}
	if err := doxyfile.WriteConfig(r.report.Doxyfile, r.patched); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to write Doxyfile").
			WithContext("doxyfile", r.report.Doxyfile).
			Build()
	}
	observability.DebugContext(ctx, "Wrote Doxyfile", logfields.Path(r.report.Doxyfile))
	return nil
}

func (r *run) probe(ctx context.Context) error {
	r.doxygen = &toolchain.Doxygen{
		Binary:     r.cfg.Doxygen.Binary,
		MinVersion: r.cfg.Doxygen.MinVersion,
		Runner:     r.runner,
	}
	version, err := r.doxygen.Probe(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msg := "doxygen is not available"
		if errors.Is(err, toolchain.ErrDoxygenTooOld) {
			msg = "doxygen is too old"
		}
		return derrors.WrapError(err, derrors.CategoryToolchain, msg).
			WithContext("binary", r.cfg.Doxygen.Binary).
			Build()
	}
	r.report.DoxygenVersion = version
	observability.InfoContext(ctx, "Using Doxygen", logfields.Version(version))
	return nil
}

func (r *run) generate(ctx context.Context) error {
	observability.InfoContext(ctx, "Generating documentation", logfields.Path(r.report.OutputDir))
	if err := r.doxygen.Generate(ctx, r.report.Doxyfile, r.report.Root); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return derrors.WrapError(err, derrors.CategoryGeneration, "documentation generation failed").
			WithContext("doxyfile", r.report.Doxyfile).
			Build()
	}
	return nil
}

func (r *run) verify(ctx context.Context) error {
	title, err := VerifyIndex(r.report.IndexPath)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryVerification, "documentation was not generated").
			WithContext("index", r.report.IndexPath).
			Fatal().
			Build()
	}
	r.report.Title = title
	if err := r.saveFingerprint(); err != nil {
		observability.WarnContext(ctx, "Failed to write build fingerprint", logfields.Error(err))
	}
	observability.InfoContext(ctx, "Documentation generated", logfields.Path(r.report.IndexPath))
	return nil
}

func (r *run) saveFingerprint() error {
	if r.report.Fingerprint == "" {
		if err := r.fingerprint(); err != nil {
			return err
		}
	}
	return writeFingerprint(r.report.OutputDir, r.report.Fingerprint)
}

// contains reports whether dir is path or one of its ancestors.
func contains(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
