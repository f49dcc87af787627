package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"quakenav/internal/app/ports"

	"gopkg.in/yaml.v3"
)

// document accepts either a single baseline at the top level or a list under
// "baselines". JSON input parses as YAML.
type document struct {
	ports.Baseline `yaml:",inline"`
	Baselines      []ports.Baseline `yaml:"baselines"`
}

// Read parses every baseline in path.
func Read(path string) ([]ports.Baseline, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

func Parse(raw []byte) ([]ports.Baseline, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if len(doc.Baselines) > 0 {
		return doc.Baselines, nil
	}
	if len(doc.Grid) == 0 {
		return nil, errors.New("no baseline in document")
	}
	return []ports.Baseline{doc.Baseline}, nil
}

// Source serves a baseline from a file on every load, so edits apply on the
// next reset.
type Source struct {
	Path string
	// Name selects a baseline from a multi-baseline file; empty takes the first.
	Name string
}

func (s Source) LoadBaseline(_ context.Context) (ports.Baseline, error) {
	all, err := Read(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ports.Baseline{}, ports.ErrNotFound
		}
		return ports.Baseline{}, err
	}
	for _, b := range all {
		if s.Name == "" || b.Name == s.Name {
			if err := b.Grid.Validate(); err != nil {
				return ports.Baseline{}, fmt.Errorf("%s: %w", s.Path, err)
			}
			return b, nil
		}
	}
	return ports.Baseline{}, ports.ErrNotFound
}

var _ ports.BaselineLoader = Source{}
