// Package session holds the user's current inputs as immutable snapshots and
// evaluates them into reports.
package session

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rshade/cloudconso/internal/carbon"
	"github.com/rshade/cloudconso/internal/report"
)

// ErrUnknownResource is returned when a quantity is set for a resource
// without declared bounds.
var ErrUnknownResource = errors.New("unknown resource")

// Snapshot is an immutable input state. Every With* method returns a new
// snapshot with a fresh revision and leaves the receiver untouched.
//
// A snapshot's region always belongs to its provider.
type Snapshot struct {
	catalog    *carbon.Catalog
	revision   string
	provider   carbon.Provider
	region     string
	gpuModel   string
	quantities carbon.Quantities
}

// New returns the initial snapshot: the catalog's first provider, its first
// region, no GPU model and every resource at zero.
func New(catalog *carbon.Catalog) (Snapshot, error) {
	providers := catalog.Providers()
	if len(providers) == 0 {
		return Snapshot{}, fmt.Errorf("%w: no providers", carbon.ErrInvalidCatalog)
	}
	region, _ := catalog.DefaultRegion(providers[0])

	quantities := make(carbon.Quantities, len(carbon.Resources))
	for _, r := range carbon.Resources {
		quantities[r] = 0
	}

	return Snapshot{
		catalog:    catalog,
		revision:   uuid.New().String(),
		provider:   providers[0],
		region:     region,
		quantities: quantities,
	}, nil
}

// Revision identifies this input state.
func (s Snapshot) Revision() string { return s.revision }

// Catalog returns the reference data the snapshot is validated against.
func (s Snapshot) Catalog() *carbon.Catalog { return s.catalog }

// Provider returns the selected provider.
func (s Snapshot) Provider() carbon.Provider { return s.provider }

// Region returns the selected region id.
func (s Snapshot) Region() string { return s.region }

// GPUModel returns the selected GPU model, or "" when none is selected.
func (s Snapshot) GPUModel() string { return s.gpuModel }

// Quantity returns the value of one resource.
func (s Snapshot) Quantity(r carbon.Resource) float64 { return s.quantities.Get(r) }

// Quantities returns a copy of every resource value.
func (s Snapshot) Quantities() carbon.Quantities { return s.quantities.Clone() }

// WithProvider selects a provider and resets the region to the provider's
// first region.
func (s Snapshot) WithProvider(p carbon.Provider) (Snapshot, error) {
	region, ok := s.catalog.DefaultRegion(p)
	if !ok {
		return s, fmt.Errorf("%w: %q", carbon.ErrUnknownProvider, p)
	}
	next := s.next()
	next.provider = p
	next.region = region
	return next, nil
}

// WithRegion selects a region of the current provider.
func (s Snapshot) WithRegion(id string) (Snapshot, error) {
	if _, ok := s.catalog.Region(s.provider, id); !ok {
		return s, fmt.Errorf("%w: %q for provider %s", carbon.ErrUnknownRegion, id, s.provider)
	}
	next := s.next()
	next.region = id
	return next, nil
}

// WithGPUModel selects a GPU model. Names missing from the catalog are kept
// and contribute no GPU impact.
func (s Snapshot) WithGPUModel(name string) Snapshot {
	next := s.next()
	next.gpuModel = name
	return next
}

// WithQuantity sets a resource value, clamped to the resource's bounds.
func (s Snapshot) WithQuantity(r carbon.Resource, v float64) (Snapshot, error) {
	bounds, ok := carbon.ResourceBounds[r]
	if !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownResource, r)
	}
	next := s.next()
	next.quantities[r] = bounds.Clamp(v)
	return next, nil
}

// Input returns the report input for this snapshot.
func (s Snapshot) Input() report.Input {
	return report.Input{
		ID:         s.revision,
		Provider:   s.provider,
		Region:     s.region,
		GPUModel:   s.gpuModel,
		Quantities: s.quantities.Clone(),
	}
}

// next copies s under a new revision.
func (s Snapshot) next() Snapshot {
	next := s
	next.revision = uuid.New().String()
	next.quantities = s.quantities.Clone()
	return next
}
