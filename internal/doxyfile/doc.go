// Package doxyfile reads, patches and writes Doxygen configuration files.
//
// A Doxyfile is a sequence of lines, most of them of the form KEY = VALUE.
// Patch rewrites the lines whose key appears in a Settings mapping and passes
// every other line through untouched, so comments, ordering and unknown keys
// of the template survive. Keys missing from the template are not injected;
// Unmatched reports them so callers can warn.
package doxyfile
