// Package changelog groups parsed conventional commits into an ordered,
// deduplicated changelog structure ready for rendering.
//
// This package implements:
//   - The ordered type mapping (TypeOrder) that drives section order
//   - Aggregation: contributor policy, co-author cleanup, grouping by type
//   - Bounded fan-out identity resolution through a pluggable Resolver
//   - The contributor roster
//
// Aggregation performs no I/O of its own; the only outbound calls are the
// ones the configured Resolver makes.
package changelog
