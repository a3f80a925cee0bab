// Package hellonear provides embedded runtime resources.
package hellonear

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed config.example.yaml
var exampleConfig []byte

// ErrConfigExists is returned by WriteExampleConfig when the target exists.
var ErrConfigExists = errors.New("hellonear: config file already exists")

// ExampleConfig returns a copy of the embedded example configuration.
func ExampleConfig() []byte {
	return append([]byte(nil), exampleConfig...)
}

// WriteExampleConfig writes the example configuration to path, creating
// parent directories. An existing file is only replaced when force is set.
func WriteExampleConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("hellonear: creating directory: %w", err)
	}
	if err := os.WriteFile(path, exampleConfig, 0o644); err != nil {
		return fmt.Errorf("hellonear: writing %s: %w", path, err)
	}
	return nil
}
