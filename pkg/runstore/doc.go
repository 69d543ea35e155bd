// Package runstore implements the Run Store: per-run records of status,
// accumulated logs, and final result, mutated only under a per-run
// exclusion so that operations on distinct runs stay fully parallel.
//
// The mutex set grows lazily: Create allocates a run's mutex the first
// time its id is seen, guarded by a single meta-lock over the map itself
// (never over an individual record's mutation). update never regresses a
// terminal status — once a run reaches completed, failed, or cancelled,
// the first terminal write wins and later status writes are ignored.
package runstore
