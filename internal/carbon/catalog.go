package carbon

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var catalogYAML []byte

var (
	// ErrUnknownProvider is returned when a provider is not in the catalog.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrUnknownRegion is returned when a region does not belong to the provider.
	ErrUnknownRegion = errors.New("unknown region")

	// ErrEmptyGPUCatalog is returned when a GPU baseline is requested from an empty catalog.
	ErrEmptyGPUCatalog = errors.New("GPU catalog is empty")

	// ErrInvalidCatalog is returned when reference data fails validation.
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// Catalog is the read-only reference data used by the calculator: providers
// with their PUE, CPU power range and regions, and the GPU model catalog.
// A Catalog is immutable once built and safe for concurrent use.
type Catalog struct {
	providers []ProviderSpec
	byName    map[Provider]int
	regions   map[Provider]map[string]Region

	gpus      []GPUModel
	gpuByName map[string]GPUModel
}

type catalogFile struct {
	Providers []ProviderSpec `yaml:"providers"`
}

var (
	defaultCatalog     *Catalog
	defaultCatalogErr  error
	defaultCatalogOnce sync.Once
)

// LoadCatalog returns the catalog built from the embedded reference data.
// The data is parsed once per process.
func LoadCatalog() (*Catalog, error) {
	defaultCatalogOnce.Do(func() {
		defaultCatalog, defaultCatalogErr = ParseCatalog(catalogYAML, gpuModelsCSV)
	})
	return defaultCatalog, defaultCatalogErr
}

// ParseCatalog builds a Catalog from provider YAML and GPU model CSV data.
func ParseCatalog(providersYAML []byte, gpuCSV string) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(providersYAML, &file); err != nil {
		return nil, fmt.Errorf("failed to parse provider data: %w", err)
	}

	gpus := parseGPUModels(gpuCSV)

	return NewCatalog(file.Providers, gpus)
}

// NewCatalog validates the given reference data and builds a Catalog.
// Provider and region order is preserved; the first region of each provider
// is its default region.
func NewCatalog(providers []ProviderSpec, gpus []GPUModel) (*Catalog, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("%w: no providers", ErrInvalidCatalog)
	}

	c := &Catalog{
		byName:    make(map[Provider]int, len(providers)),
		regions:   make(map[Provider]map[string]Region, len(providers)),
		gpuByName: make(map[string]GPUModel, len(gpus)),
	}

	for _, p := range providers {
		if p.Name == "" {
			return nil, fmt.Errorf("%w: provider without name", ErrInvalidCatalog)
		}
		if _, dup := c.byName[p.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate provider %s", ErrInvalidCatalog, p.Name)
		}
		if p.PUE < 1 {
			return nil, fmt.Errorf("%w: provider %s has PUE %v < 1", ErrInvalidCatalog, p.Name, p.PUE)
		}
		if p.CPUPower.Min < 0 || p.CPUPower.Max < p.CPUPower.Min {
			return nil, fmt.Errorf("%w: provider %s has invalid CPU power range", ErrInvalidCatalog, p.Name)
		}
		if len(p.Regions) == 0 {
			return nil, fmt.Errorf("%w: provider %s has no regions", ErrInvalidCatalog, p.Name)
		}

		regions := make(map[string]Region, len(p.Regions))
		for _, r := range p.Regions {
			if r.ID == "" {
				return nil, fmt.Errorf("%w: provider %s has a region without id", ErrInvalidCatalog, p.Name)
			}
			if _, dup := regions[r.ID]; dup {
				return nil, fmt.Errorf("%w: provider %s has duplicate region %s", ErrInvalidCatalog, p.Name, r.ID)
			}
			if r.Intensity < 0 {
				return nil, fmt.Errorf("%w: region %s has negative intensity", ErrInvalidCatalog, r.ID)
			}
			regions[r.ID] = r
		}

		spec := p
		spec.Regions = append([]Region(nil), p.Regions...)
		c.byName[p.Name] = len(c.providers)
		c.providers = append(c.providers, spec)
		c.regions[p.Name] = regions
	}

	for _, g := range gpus {
		if _, dup := c.gpuByName[g.Name]; dup {
			log().Warn().Str("gpu_model", g.Name).Msg("duplicate GPU model, keeping first entry")
			continue
		}
		c.gpuByName[g.Name] = g
		c.gpus = append(c.gpus, g)
	}

	log().Debug().
		Int("providers", len(c.providers)).
		Int("gpu_models", len(c.gpus)).
		Msg("catalog loaded")

	return c, nil
}

// Providers returns the provider identifiers in catalog order.
func (c *Catalog) Providers() []Provider {
	out := make([]Provider, 0, len(c.providers))
	for _, p := range c.providers {
		out = append(out, p.Name)
	}
	return out
}

// Provider returns the reference data of a provider.
func (c *Catalog) Provider(p Provider) (ProviderSpec, bool) {
	i, ok := c.byName[p]
	if !ok {
		return ProviderSpec{}, false
	}
	spec := c.providers[i]
	spec.Regions = append([]Region(nil), spec.Regions...)
	return spec, true
}

// Regions returns the regions of a provider in display order, or nil when
// the provider is unknown.
func (c *Catalog) Regions(p Provider) []Region {
	spec, ok := c.Provider(p)
	if !ok {
		return nil
	}
	return spec.Regions
}

// Region looks up a region of a provider.
func (c *Catalog) Region(p Provider, id string) (Region, bool) {
	r, ok := c.regions[p][id]
	return r, ok
}

// DefaultRegion returns the first region of a provider.
func (c *Catalog) DefaultRegion(p Provider) (string, bool) {
	spec, ok := c.Provider(p)
	if !ok {
		return "", false
	}
	return spec.Regions[0].ID, true
}

// ParseProvider resolves a provider name case-insensitively.
func (c *Catalog) ParseProvider(name string) (Provider, error) {
	for _, p := range c.providers {
		if strings.EqualFold(string(p.Name), strings.TrimSpace(name)) {
			return p.Name, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProvider, name)
}

// lookup resolves a provider and region pair.
func (c *Catalog) lookup(p Provider, region string) (ProviderSpec, Region, error) {
	spec, ok := c.Provider(p)
	if !ok {
		return ProviderSpec{}, Region{}, fmt.Errorf("%w: %q", ErrUnknownProvider, p)
	}
	r, ok := c.Region(p, region)
	if !ok {
		return ProviderSpec{}, Region{}, fmt.Errorf("%w: %q for provider %s", ErrUnknownRegion, region, p)
	}
	return spec, r, nil
}
