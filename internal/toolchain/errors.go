package toolchain

import "errors"

var (
	// ErrBinaryNotFound indicates the executable was not found on PATH.
	ErrBinaryNotFound = errors.New("binary not found")
	// ErrDoxygenUnavailable indicates the doxygen version probe failed.
	ErrDoxygenUnavailable = errors.New("doxygen unavailable")
	// ErrDoxygenTooOld indicates the installed doxygen is older than required.
	ErrDoxygenTooOld = errors.New("doxygen version too old")
	// ErrGenerationFailed indicates doxygen returned a non-zero exit status.
	ErrGenerationFailed = errors.New("doxygen generation failed")
)
