// Package commit turns raw version-control commits into typed conventional commits.
//
// This package implements:
//   - The commit data model (RawCommit, ParsedCommit, Identity)
//   - A hand-written scanner for the conventional-commit header grammar
//   - Body extraction: breaking-change notes, Co-authored-by trailers and
//     inline "::: changelog" overrides
//
// Everything here is pure: no I/O, no shared state. Commits that do not match
// the grammar are rejected with a false return, never an error.
package commit
