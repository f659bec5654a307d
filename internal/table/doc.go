// Package table owns the flat files a sweep produces: the run table (one CSV
// row per successful configuration, appended as soon as it is reduced), the
// human-readable configuration log, and the per-column range scan that runs
// over the finished run table.
package table
