package toolchain

import (
	"context"
	"fmt"
	"sync"
)

// FakeRunner is an in-memory Runner for tests. Handlers are looked up by
// command name; commands without a handler fail with ErrBinaryNotFound.
type FakeRunner struct {
	mu       sync.Mutex
	handlers map[string]func(Command) (Result, error)
	calls    []Command
}

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{handlers: make(map[string]func(Command) (Result, error))}
}

// Handle registers the behavior for a command name.
func (f *FakeRunner) Handle(name string, fn func(Command) (Result, error)) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[name] = fn
	return f
}

// Respond registers a handler that always returns stdout and err.
func (f *FakeRunner) Respond(name, stdout string, err error) *FakeRunner {
	return f.Handle(name, func(Command) (Result, error) {
		res := Result{Stdout: stdout}
		if err != nil {
			res.ExitCode = 1
		}
		return res, err
	})
}

func (f *FakeRunner) Run(_ context.Context, c Command) (Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	fn, ok := f.handlers[c.Name]
	f.mu.Unlock()
	if !ok {
		return Result{ExitCode: -1}, fmt.Errorf("%w: %s", ErrBinaryNotFound, c.Name)
	}
	return fn(c)
}

// Calls returns a copy of the recorded invocations.
func (f *FakeRunner) Calls() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Command, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsTo returns the recorded invocations of one command name.
func (f *FakeRunner) CallsTo(name string) []Command {
	var out []Command
	for _, c := range f.Calls() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}
