package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the settings file looked up in the workspace root.
const FileName = ".work-dep.yaml"

// File represents .work-dep.yaml.
type File struct {
	// Output is the default report format, "text" or "json".
	Output string `yaml:"output,omitempty"`
	// Strict rejects dependency tables with conflicting version fields.
	Strict bool `yaml:"strict,omitempty"`
	// Ignore lists dependencies that are never reported as candidates.
	Ignore []string `yaml:"ignore,omitempty"`
}

// Load reads a settings file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is the workspace settings file
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// LoadOptional reads root/.work-dep.yaml, returning an empty File when it
// does not exist.
func LoadOptional(root string) (*File, error) {
	f, err := Load(filepath.Join(root, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return &File{}, nil
	}
	return f, err
}

// Parse parses settings content.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	return &f, nil
}
