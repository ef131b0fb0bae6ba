package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// SourceSpec defines one file source in the sources file.
type SourceSpec struct {
	Name string `yaml:"name"`
	// Type selects the realization: "local" or "virtual".
	Type string `yaml:"type"`
	// Root is the directory for local sources.
	Root string `yaml:"root"`
	// Archives seed a virtual source; each entry is an archive path.
	Archives []string `yaml:"archives"`
	// Encoding overrides the default charset for this source.
	Encoding string `yaml:"encoding"`
	// FailOnMissing overrides the default missing-path policy.
	FailOnMissing *bool `yaml:"fail_on_missing"`
}

// SourcesFile is the parsed source definitions document.
type SourcesFile struct {
	Sources []SourceSpec `yaml:"sources"`
}

// LoadSources parses and validates a source definitions file.
func LoadSources(path string) (*SourcesFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sources file: %w", err)
	}

	var sf SourcesFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing sources file: %w", err)
	}

	seen := make(map[string]bool)
	for i, s := range sf.Sources {
		if s.Name == "" {
			return nil, fmt.Errorf("source %d: name is required", i)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("source %q: duplicate name", s.Name)
		}
		seen[s.Name] = true
		switch s.Type {
		case "local":
			if s.Root == "" {
				return nil, fmt.Errorf("source %q: local sources require a root", s.Name)
			}
		case "virtual":
		default:
			return nil, fmt.Errorf("source %q: unknown type %q", s.Name, s.Type)
		}
	}
	return &sf, nil
}
