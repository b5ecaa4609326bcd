// Package scenario loads saved input states from YAML or JSON files.
//
// A scenario file looks like:
//
//	version: 1
//	provider: GCP
//	region: europe-west1
//	gpu_model: T4
//	quantities:
//	  vcpu_count: 8
//	  vcpu_utilization: 40
//	  ssd_storage: 2
package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/rshade/cloudconso/internal/carbon"
	"github.com/rshade/cloudconso/internal/session"
)

// CurrentVersion is the scenario format version written and accepted.
const CurrentVersion = 1

var (
	// ErrUnsupportedFormat is returned for files that are neither YAML nor JSON.
	ErrUnsupportedFormat = errors.New("unsupported scenario format")

	// ErrUnsupportedVersion is returned for scenario files from a newer format.
	ErrUnsupportedVersion = errors.New("unsupported scenario version")
)

// Format is a scenario file encoding.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Scenario is a saved set of inputs. Empty fields leave the corresponding
// input unchanged when applied.
type Scenario struct {
	Version    int                `yaml:"version" json:"version"`
	Provider   string             `yaml:"provider" json:"provider"`
	Region     string             `yaml:"region" json:"region"`
	GPUModel   string             `yaml:"gpu_model" json:"gpu_model"`
	Quantities map[string]float64 `yaml:"quantities" json:"quantities"`
}

// Load reads a scenario file. The format is chosen from the extension.
func Load(path string) (*Scenario, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %q: %w", path, err)
	}

	s, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", path, err)
	}
	return s, nil
}

// Parse decodes a scenario. A missing version is read as CurrentVersion.
func Parse(data []byte, format Format) (*Scenario, error) {
	var s Scenario
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if s.Version == 0 {
		s.Version = CurrentVersion
	}
	if s.Version != CurrentVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, s.Version)
	}
	if s.Quantities == nil {
		s.Quantities = make(map[string]float64)
	}
	return &s, nil
}

// Validate checks that every quantity names a known resource.
func (s *Scenario) Validate() error {
	var unknown []string
	for name := range s.Quantities {
		if !carbon.IsKnownResource(carbon.Resource(name)) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: %s", session.ErrUnknownResource, strings.Join(unknown, ", "))
	}
	return nil
}

// Apply returns snap updated with the scenario's inputs. The provider is
// applied first, so a region must belong to the scenario's provider (or to the
// snapshot's provider when the scenario names none). Quantities are clamped.
func (s *Scenario) Apply(snap session.Snapshot) (session.Snapshot, error) {
	if err := s.Validate(); err != nil {
		return snap, err
	}

	next := snap
	var err error

	if s.Provider != "" {
		p, perr := snap.Catalog().ParseProvider(s.Provider)
		if perr != nil {
			return snap, perr
		}
		if next, err = next.WithProvider(p); err != nil {
			return snap, err
		}
	}

	if s.Region != "" {
		if next, err = next.WithRegion(s.Region); err != nil {
			return snap, err
		}
	}

	if s.GPUModel != "" {
		next = next.WithGPUModel(s.GPUModel)
	}

	for _, r := range carbon.Resources {
		v, ok := s.Quantities[string(r)]
		if !ok {
			continue
		}
		if next, err = next.WithQuantity(r, v); err != nil {
			return snap, err
		}
	}

	return next, nil
}

// FromSnapshot captures the inputs of snap as a scenario.
func FromSnapshot(snap session.Snapshot) *Scenario {
	s := &Scenario{
		Version:    CurrentVersion,
		Provider:   string(snap.Provider()),
		Region:     snap.Region(),
		GPUModel:   snap.GPUModel(),
		Quantities: make(map[string]float64, len(carbon.Resources)),
	}
	for _, r := range carbon.Resources {
		s.Quantities[string(r)] = snap.Quantity(r)
	}
	return s
}

// Save writes the scenario to path in the format given by its extension.
func (s *Scenario) Save(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(s, "", "  ")
	default:
		data, err = yaml.Marshal(s)
	}
	if err != nil {
		return fmt.Errorf("marshal scenario: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write scenario %q: %w", path, err)
	}
	return nil
}
