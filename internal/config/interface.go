package config

import "context"

// Loader is the interface for a format-specific sweep-file loader.
type Loader interface {
	// Load reads the file at path, overlays it on Defaults and returns the
	// validated result.
	Load(ctx context.Context, path string) (*Sweep, error)
}
