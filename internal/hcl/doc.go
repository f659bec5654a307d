// Package hcl provides the HCL implementation of config.Loader.
//
// A sweep file is a set of optional top-level blocks (grid, solver, weights,
// ideal, output). Expressions are evaluated with a single variable, env,
// holding the process environment, so a file can say
//
//	solver {
//	  executable = env.XFOIL_BIN
//	}
package hcl
