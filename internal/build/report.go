package build

import "time"

// Status represents the outcome of a build execution.
type Status string

const (
	// StatusSuccess indicates the build completed successfully.
	StatusSuccess Status = "success"

	// StatusFailed indicates the build encountered an error.
	StatusFailed Status = "failed"

	// StatusSkipped indicates nothing changed since the last successful build.
	StatusSkipped Status = "skipped"

	// StatusCancelled indicates the build was cancelled.
	StatusCancelled Status = "cancelled"
)

// IsSuccess returns true if the build left valid documentation behind.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess || s == StatusSkipped
}

// StageTiming is the wall time spent in one pipeline stage.
type StageTiming struct {
	Name     string
	Duration time.Duration
}

// Report describes a finished build.
type Report struct {
	BuildID       string
	Status        Status
	Project       string
	ProjectSource string
	Version       string

	Root      string
	OutputDir string
	Doxyfile  string
	IndexPath string
	// Title is the <title> of the generated index page.
	Title string

	Sources        []string
	HaveDot        bool
	DoxygenVersion string
	// Unmatched lists settings keys that no template line assigns.
	Unmatched   []string
	Fingerprint string

	Skipped    bool
	SkipReason string

	BrowserOpened bool
	// BrowserErr is the non-fatal failure to open or copy the index.
	BrowserErr error

	Stages    []StageTiming
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// StageDuration returns the recorded duration of stage, zero if it did not run.
func (r *Report) StageDuration(stage string) time.Duration {
	for _, s := range r.Stages {
		if s.Name == stage {
			return s.Duration
		}
	}
	return 0
}
