// Package watch rebuilds the documentation whenever sources or the Doxyfile
// template change, and optionally on a fixed interval.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/doxybuilder/internal/build"
	"git.home.luguber.info/inful/doxybuilder/internal/config"
	"git.home.luguber.info/inful/doxybuilder/internal/discovery"
	"git.home.luguber.info/inful/doxybuilder/internal/logfields"
)

// Builder runs a single build.
type Builder interface {
	Run(ctx context.Context, opts build.RunOptions) (*build.Report, error)
}

// ReportFunc receives the outcome of every build the watcher runs.
type ReportFunc func(report *build.Report, err error)

// Watcher drives a Builder from filesystem events and a schedule.
type Watcher struct {
	cfg      *config.Config
	builder  Builder
	opts     build.RunOptions
	onReport ReportFunc

	root     string
	template string
	output   string
	mainpage string
	inputs   []string

	requests chan struct{}
}

// Option customizes a Watcher.
type Option func(*Watcher)

// WithRunOptions sets the options of the initial build. Later builds never
// open the browser.
func WithRunOptions(opts build.RunOptions) Option {
	return func(w *Watcher) { w.opts = opts }
}

// WithReportFunc registers a callback invoked after every build.
func WithReportFunc(fn ReportFunc) Option {
	return func(w *Watcher) { w.onReport = fn }
}

// New creates a Watcher for cfg.
func New(cfg *config.Config, builder Builder, opts ...Option) *Watcher {
	w := &Watcher{
		cfg:      cfg,
		builder:  builder,
		onReport: func(*build.Report, error) {},
		requests: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run performs an initial build and then rebuilds on change until ctx is
// cancelled. Build failures are reported and logged; only setup errors are
// returned.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.resolve(); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	w.refresh(fsw)
	if err := fsw.Add(filepath.Dir(w.template)); err != nil {
		slog.Warn("Cannot watch template directory", logfields.Path(w.template), logfields.Error(err))
	}
	if w.mainpage != "" {
		if err := fsw.Add(filepath.Dir(w.mainpage)); err != nil {
			slog.Warn("Cannot watch mainpage directory", logfields.Path(w.mainpage), logfields.Error(err))
		}
	}

	w.build(ctx, w.opts)

	deb := newDebouncer(w.cfg.DebounceDuration(), w.request)
	defer deb.stop()

	if interval := w.cfg.IntervalDuration(); interval > 0 {
		sched, err := w.schedule(interval)
		if err != nil {
			return err
		}
		defer func() { _ = sched.Shutdown() }()
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go w.worker(ctx, done)
	defer func() {
		cancel()
		<-done
	}()

	slog.Info("Watching for changes",
		logfields.Count(len(w.inputs)),
		slog.Duration("debounce", w.cfg.DebounceDuration()))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watcher")
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, ev, deb.trigger)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) resolve() error {
	root, err := w.cfg.RootDir()
	if err != nil {
		return fmt.Errorf("resolve project root: %w", err)
	}
	if _, err := discovery.InputDirs(root, w.cfg.DiscoveryOptions()); err != nil {
		return err
	}
	w.root = root
	w.template = w.cfg.TemplatePath(root)
	w.output = w.cfg.OutputDir(root)
	if mp := w.cfg.Project.Mainpage; mp != "" {
		w.mainpage = mp
		if !filepath.IsAbs(mp) {
			w.mainpage = filepath.Join(root, mp)
		}
	}
	return nil
}

// refresh re-expands the input patterns. The directories new input
// directories can appear in are watched non-recursively; input directories
// not seen before are watched recursively.
func (w *Watcher) refresh(fsw *fsnotify.Watcher) {
	opts := w.cfg.DiscoveryOptions()
	parents, err := discovery.ParentDirs(w.root, opts)
	if err != nil {
		slog.Warn("Cannot expand input patterns", logfields.Error(err))
		return
	}
	for _, dir := range parents {
		if within(w.output, dir) {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			slog.Warn("Watch add failed", logfields.Path(dir), logfields.Error(err))
		}
	}

	inputs, err := discovery.InputDirs(w.root, opts)
	if err != nil {
		slog.Warn("Cannot expand input patterns", logfields.Error(err))
		return
	}
	known := make(map[string]struct{}, len(w.inputs))
	for _, dir := range w.inputs {
		known[dir] = struct{}{}
	}
	for _, dir := range inputs {
		if _, ok := known[dir]; ok {
			continue
		}
		slog.Debug("Watching input directory", logfields.Path(dir))
		w.addDirsRecursive(fsw, dir)
	}
	w.inputs = inputs
}

func (w *Watcher) schedule(interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	if _, err := sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(w.request),
		gocron.WithName("periodic-rebuild"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to schedule periodic rebuild: %w", err)
	}
	sched.Start()
	slog.Info("Scheduled periodic rebuild", slog.Duration("interval", interval))
	return sched, nil
}

// request queues a rebuild. While one is already pending further requests
// are folded into it.
func (w *Watcher) request() {
	select {
	case w.requests <- struct{}{}:
	default:
	}
}

// worker serializes rebuilds.
func (w *Watcher) worker(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	opts := w.opts
	opts.NoBrowser = true
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.requests:
			slog.Info("Change detected; rebuilding documentation")
			w.build(ctx, opts)
		}
	}
}

func (w *Watcher) build(ctx context.Context, opts build.RunOptions) {
	report, err := w.builder.Run(ctx, opts)
	if err != nil && ctx.Err() == nil {
		slog.Warn("Rebuild failed", logfields.Error(err))
	}
	w.onReport(report, err)
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnore(ev.Name) || within(w.output, ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.refresh(fsw)
			if w.relevant(ev.Name) {
				w.addDirsRecursive(fsw, ev.Name)
			}
		}
	}
	if !w.relevant(ev.Name) {
		return
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

// relevant reports whether a change to path can affect the documentation.
func (w *Watcher) relevant(path string) bool {
	if shouldIgnore(path) || within(w.output, path) {
		return false
	}
	if path == w.template || path == w.mainpage {
		return true
	}
	for _, dir := range w.inputs {
		if within(dir, path) {
			return true
		}
	}
	return false
}

func (w *Watcher) addDirsRecursive(fsw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if (path != root && shouldIgnore(path)) || within(w.output, path) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnore reports hidden, editor temp and OS metadata files.
func shouldIgnore(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasSuffix(base, ".tmp"),
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db", base == "4913":
		return true
	}
	return false
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
