// Package errors provides the classified error type used across doxybuilder.
//
// Every failure a run can end with belongs to one ErrorCategory. The CLI maps
// categories to process exit codes, so callers construct errors through the
// fluent builder instead of bare fmt.Errorf when the error leaves a package:
//
//	err := errors.WrapError(cause, errors.CategoryToolchain, "doxygen not available").
//		WithContext("binary", bin).
//		Build()
//
// ClassifiedError implements Unwrap, so errors.Is and errors.As keep working
// against sentinel causes.
package errors
