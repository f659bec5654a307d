// Package polar turns raw solver output into a Validated Polar.
//
// Lines are scanned pairwise. A line contributes a sample only when it and
// its successor are both complete 7-field numeric records; the successor's
// lift coefficient drives a three-state machine:
//
//	PRE_STALL  --(cl >= next cl)-->  POST_STALL  --(cl < next cl)-->  TERMINATED
//
// Every sample seen in PRE_STALL or POST_STALL is kept. TERMINATED stops the
// scan, dropping the non-physical lift recovery solvers report past stall.
// Lines that cannot contribute are counted by SkipReason in the Report.
package polar
