// Package yamlconfig provides the YAML implementation of config.Loader. It
// accepts the same blocks as the HCL loader, as top-level mapping keys.
package yamlconfig

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/foilsweep/internal/config"
	"github.com/specialistvlad/foilsweep/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// Loader decodes YAML sweep files.
type Loader struct{}

// NewLoader creates a new YAML sweep-file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and decodes the sweep file at path. Unknown keys are rejected.
func (l *Loader) Load(ctx context.Context, path string) (*config.Sweep, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sweep file %s: %w", path, err)
	}

	var doc config.Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", path, err)
	}

	sweep, err := doc.Apply(config.Defaults())
	if err != nil {
		return nil, fmt.Errorf("sweep file %s: %w", path, err)
	}

	logger.Debug("YAML loading complete.", "grid_points", sweep.Grid.Size(), "executable", sweep.Solver.Executable)
	return sweep, nil
}
