// Package config defines the format-agnostic sweep model for the
// application, along with the Loader interface that format-specific packages
// (HCL, YAML) implement.
//
// A config.Sweep is built once at startup from the built-in defaults, overlaid
// with a sweep file, validated, and then passed by value to every component.
// Nothing in the pipeline reads simulation controls from package state.
package config
