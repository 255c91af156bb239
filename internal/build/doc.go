// Package build runs one documentation build: discover sources, patch the
// Doxyfile template, run doxygen, verify the HTML index and open it.
//
// All execution paths (the generate command, watch mode, tests) go through
// Builder.Run. Failures are returned as classified errors whose category
// maps to the CLI exit code; a browser failure is reported on the Report and
// never fails the run.
package build
