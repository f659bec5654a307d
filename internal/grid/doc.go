// Package grid enumerates the airfoil design space. A Point is one
// four-digit geometry (camber, camber location, thickness); Points are
// produced in nested-loop order with camber outermost and thickness innermost,
// which is the order every sweep visits them in.
package grid
