// Package registry loads descriptions of SDMX web services (data sources)
// from YAML, so clients can be pointed at a provider by id instead of by
// hand-assembled URL.
package registry

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Source describes one SDMX REST provider.
type Source struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name,omitempty"`
	URL  string `yaml:"url" json:"url"`

	// SupportsStructureSpecific reports whether the provider can answer
	// with structure-specific data.
	SupportsStructureSpecific bool `yaml:"supports_structure_specific" json:"supports_structure_specific,omitempty"`

	// Headers are added to every request to this provider.
	Headers map[string]string `yaml:"headers" json:"headers,omitempty"`
}

func (s Source) validate() error {
	if s.ID == "" {
		return fmt.Errorf("registry: source without id")
	}
	if s.URL == "" {
		return fmt.Errorf("registry: source %q without url", s.ID)
	}
	return nil
}

// Registry is a set of sources keyed by id.
type Registry struct {
	sources map[string]Source
}

// Load reads a YAML document holding a list of sources.
func Load(r io.Reader) (*Registry, error) {
	var sources []Source
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&sources); err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	reg := &Registry{sources: make(map[string]Source, len(sources))}
	for _, s := range sources {
		if err := s.validate(); err != nil {
			return nil, err
		}
		if _, ok := reg.sources[s.ID]; ok {
			return nil, fmt.Errorf("registry: duplicate source id %q", s.ID)
		}
		reg.sources[s.ID] = s
	}
	return reg, nil
}

// LoadFile reads a YAML source file from disk.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Get returns the source with the given id.
func (r *Registry) Get(id string) (Source, bool) {
	s, ok := r.sources[id]
	return s, ok
}

// IDs returns the known source ids, sorted.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.sources))
	for id := range r.sources {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of sources.
func (r *Registry) Len() int { return len(r.sources) }
