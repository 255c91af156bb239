package watch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doxybuilder/internal/build"
	"git.home.luguber.info/inful/doxybuilder/internal/config"
	dbtest "git.home.luguber.info/inful/doxybuilder/internal/testing"
)

func TestShouldIgnore(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/p/src/widget.cpp", false},
		{"/p/docs/Doxyfile.in", false},
		{"/p/src/.widget.cpp.swp", true},
		{"/p/src/widget.cpp~", true},
		{"/p/src/widget.swx", true},
		{"/p/src/#widget.cpp#", true},
		{"/p/src/.hidden", true},
		{"/p/src/4913", true},
		{"/p/src/build.tmp", true},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, shouldIgnore(tt.path), tt.path)
	}
}

func TestRelevant(t *testing.T) {
	w := &Watcher{
		template: "/p/docs/Doxyfile.in",
		output:   "/p/docs/doxygen_output",
		mainpage: "/p/README.md",
		inputs:   []string{"/p/include", "/p/src"},
	}
	require.True(t, w.relevant("/p/src/a.cpp"))
	require.True(t, w.relevant("/p/include/sub/a.h"))
	require.True(t, w.relevant("/p/docs/Doxyfile.in"))
	require.True(t, w.relevant("/p/README.md"))
	require.False(t, w.relevant("/p/docs/notes.md"))
	require.False(t, w.relevant("/p/docs/doxygen_output/html/index.html"))
	require.False(t, w.relevant("/p/src/.a.cpp.swp"))
	require.False(t, w.relevant("/p/srcs/a.cpp"))
}

func TestDebouncerCoalescesBursts(t *testing.T) {
	var fired atomic.Int32
	d := newDebouncer(30*time.Millisecond, func() { fired.Add(1) })
	for range 5 {
		d.trigger()
		time.Sleep(5 * time.Millisecond)
	}
	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, int32(1), fired.Load())

	d.trigger()
	d.stop()
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, int32(1), fired.Load())
}

func TestRequestCoalescesPending(t *testing.T) {
	w := New(config.Default(), nil)
	w.request()
	w.request()
	w.request()
	require.Len(t, w.requests, 1)
}

type fakeBuilder struct {
	mu   sync.Mutex
	runs []build.RunOptions
}

func (f *fakeBuilder) Run(_ context.Context, opts build.RunOptions) (*build.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, opts)
	return &build.Report{Status: build.StatusSuccess}, nil
}

func (f *fakeBuilder) calls() []build.RunOptions {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]build.RunOptions(nil), f.runs...)
}

func TestWatcherRebuildsOnSourceChange(t *testing.T) {
	project := dbtest.NewProject(t).
		WithDir("src").
		WithFile(config.DefaultTemplatePath, "INPUT =\n")
	root := project.Root()

	cfg := config.Default()
	cfg.Project.Root = root
	cfg.Watch.Debounce = "20ms"

	fb := &fakeBuilder{}
	var reports atomic.Int32
	w := New(cfg, fb,
		WithRunOptions(build.RunOptions{SkipUnchanged: true}),
		WithReportFunc(func(*build.Report, error) { reports.Add(1) }))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return len(fb.calls()) == 1 }, 2*time.Second, 10*time.Millisecond)
	first := fb.calls()[0]
	require.True(t, first.SkipUnchanged)
	require.False(t, first.NoBrowser)

	// Give the event loop time to start reading events.
	time.Sleep(50 * time.Millisecond)
	project.WithFile("src/a.cpp", "int a;\n")

	require.Eventually(t, func() bool { return len(fb.calls()) >= 2 }, 3*time.Second, 10*time.Millisecond)
	second := fb.calls()[1]
	require.True(t, second.NoBrowser)
	require.True(t, second.SkipUnchanged)

	// Output written by a build must not trigger another one.
	n := len(fb.calls())
	project.WithDir("docs/doxygen_output/html")
	time.Sleep(150 * time.Millisecond)
	require.Len(t, fb.calls(), n)

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
	require.Equal(t, int32(len(fb.calls())), reports.Load())
}

func TestWatcherPicksUpInputDirsCreatedLater(t *testing.T) {
	project := dbtest.NewProject(t).
		WithDir("src").
		WithFile(config.DefaultTemplatePath, "INPUT =\n")
	root := project.Root()

	cfg := config.Default()
	cfg.Project.Root = root
	cfg.Watch.Debounce = "20ms"

	fb := &fakeBuilder{}
	w := New(cfg, fb)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	defer func() {
		cancel()
		require.NoError(t, <-errCh)
	}()

	require.Eventually(t, func() bool { return len(fb.calls()) == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	// settled waits until no build has started for a while and returns the count.
	settled := func() int {
		n := len(fb.calls())
		for {
			time.Sleep(100 * time.Millisecond)
			m := len(fb.calls())
			if m == n {
				return n
			}
			n = m
		}
	}

	project.WithDir("include")
	require.Eventually(t, func() bool { return len(fb.calls()) >= 2 }, 3*time.Second, 10*time.Millisecond)
	n := settled()
	project.WithFile("include/widget.h", "struct widget;\n")
	require.Eventually(t, func() bool { return len(fb.calls()) > n }, 3*time.Second, 10*time.Millisecond)

	project.WithDir("lib/core/include")
	n = settled()
	project.WithFile("lib/core/include/core.h", "int core(void);\n")
	require.Eventually(t, func() bool { return len(fb.calls()) > n }, 3*time.Second, 10*time.Millisecond)

	// Unrelated directories are watched for new inputs but do not rebuild.
	n = settled()
	project.WithFile("lib/core/notes.txt", "todo\n")
	time.Sleep(150 * time.Millisecond)
	require.Len(t, fb.calls(), n)
}
