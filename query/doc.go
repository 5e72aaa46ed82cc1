// Package query implements the symbolic search list language: parsing the
// operator syntax ("+", "|", "-", ">", "<", "~", "*", quoting) into
// structured search lists, and compiling those lists into ordered filter
// sets executed by the engine package.
//
// Compilation resolves semantic expansion ("~term") through the
// ai.SemanticExpander collaborator, merging the returned variants into the
// same OR-joined regex as the original term. Items that compile to an empty
// regex are dropped; a list with no usable inclusion filters is reported as
// ErrNoUsableFilters rather than executed.
package query
