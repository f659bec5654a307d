package app

import (
	"errors"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SweepPath string // .hcl or .yaml file, or a directory holding exactly one

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	// Overrides applied on top of the sweep file. An empty executable or a nil
	// timeout keeps the file's setting; a zero timeout disables the limit.
	SolverExecutable string
	SolverTimeout    *time.Duration
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.SweepPath == "" {
		return nil, errors.New("SweepPath is a required configuration field and cannot be empty")
	}
	if cfg.SolverTimeout != nil && *cfg.SolverTimeout < 0 {
		return nil, errors.New("solver timeout must not be negative")
	}
	return &cfg, nil
}
