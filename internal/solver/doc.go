// Package solver drives the external aerodynamic solver.
//
// The solver is a black box that reads a line-oriented command script on
// standard input and writes a polar table to a file named inside that script.
// BuildScript turns a grid point and the simulation controls into that script;
// Adapter runs one solver process per call and reports how it ended. Whether
// the polar file actually exists is left to the polar package.
package solver
