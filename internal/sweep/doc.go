// Package sweep runs the design-space sweep: for each grid point, in
// nested-loop order, it builds the solver script, runs the solver, extracts
// the polar, reduces it and appends the row, finishing one point before
// starting the next.
//
// Failures are split in two. A missing solver executable, a cancelled
// context or an unwritable output file stop the sweep. Anything that only
// concerns the current point (solver crash or timeout, missing artifact,
// empty polar) is recorded in the configuration log and the sweep moves on.
package sweep
