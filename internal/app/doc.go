// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the sweep lifecycle: loading the sweep file,
// running every configuration through the solver, scanning population ranges
// and writing the normalized table. It is decoupled from any specific
// entrypoint like a CLI or server.
package app
