// Package report assembles calculator output into display-ready reports and
// renders them as text tables or JSON.
package report

import (
	"fmt"

	"github.com/rshade/cloudconso/internal/carbon"
	"github.com/rshade/cloudconso/internal/equivalents"
	"github.com/rshade/cloudconso/internal/units"
)

// Display units.
const (
	ElectricUnit = "Wh/an"
	CO2Unit      = "CO2e"
)

// componentLabels are the display names of the impact components.
var componentLabels = map[carbon.Component]string{
	carbon.ComponentCompute: "Compute",
	carbon.ComponentHDD:     "HDD storage",
	carbon.ComponentSSD:     "SSD storage",
	carbon.ComponentNetwork: "Network",
	carbon.ComponentMemory:  "Memory",
	carbon.ComponentGPU:     "GPU",
}

// ComponentLabel returns the display name of a component.
func ComponentLabel(c carbon.Component) string {
	if label, ok := componentLabels[c]; ok {
		return label
	}
	return string(c)
}

// Input is everything a report is computed from.
type Input struct {
	// ID identifies the input state the report was built for.
	ID         string
	Provider   carbon.Provider
	Region     string
	GPUModel   string
	Quantities carbon.Quantities
}

// ComponentLine is the impact of one component.
type ComponentLine struct {
	Component carbon.Component `json:"component"`
	Label     string           `json:"label"`
	Impact    float64          `json:"impact_wh"`
	Display   string           `json:"display"`
	Detail    string           `json:"detail"`
}

// Totals holds the aggregate impacts and their display strings.
type Totals struct {
	Electric        float64 `json:"electric_wh"`
	CO2             float64 `json:"co2_g"`
	ElectricDisplay string  `json:"electric_display"`
	CO2Display      string  `json:"co2_display"`
}

// Report is the complete, display-ready result of one computation.
type Report struct {
	ID                string                      `json:"id,omitempty"`
	Provider          carbon.Provider             `json:"provider"`
	PUE               float64                     `json:"pue"`
	Region            string                      `json:"region"`
	RegionName        string                      `json:"region_name"`
	IntensityKgPerKWh float64                     `json:"intensity_kg_per_kwh"`
	GPUModel          string                      `json:"gpu_model,omitempty"`
	Quantities        carbon.Quantities           `json:"quantities"`
	Components        []ComponentLine             `json:"components"`
	Totals            Totals                      `json:"totals"`
	Comparisons       []carbon.ProviderComparison `json:"comparisons,omitempty"`
	Equivalents       []equivalents.Result        `json:"equivalents,omitempty"`
}

// Clone returns a deep copy of r.
func (r *Report) Clone() *Report {
	out := *r
	if r.Quantities != nil {
		out.Quantities = r.Quantities.Clone()
	}
	out.Components = cloneSlice(r.Components)
	out.Comparisons = cloneSlice(r.Comparisons)
	out.Equivalents = cloneSlice(r.Equivalents)
	return &out
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

// Builder turns inputs into reports.
type Builder struct {
	calc        *carbon.Calculator
	equivalents *equivalents.Calculator
	decimals    int
	compare     bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithEquivalents adds everyday equivalents of the CO2 total to reports.
func WithEquivalents(calc *equivalents.Calculator) Option {
	return func(b *Builder) {
		b.equivalents = calc
	}
}

// WithDecimals sets the number of decimals of per-component display values.
// Negative values are ignored.
func WithDecimals(decimals int) Option {
	return func(b *Builder) {
		if decimals >= 0 {
			b.decimals = decimals
		}
	}
}

// WithComparison adds the cross-provider comparison to reports.
func WithComparison(enabled bool) Option {
	return func(b *Builder) {
		b.compare = enabled
	}
}

// NewBuilder creates a report builder on top of calc.
func NewBuilder(calc *carbon.Calculator, opts ...Option) *Builder {
	b := &Builder{
		calc:     calc,
		decimals: units.DefaultDecimals,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Calculator returns the calculator reports are computed with.
func (b *Builder) Calculator() *carbon.Calculator {
	return b.calc
}

// Build computes the impacts of in and assembles the report.
func (b *Builder) Build(in Input) (*Report, error) {
	impacts, err := b.calc.ComputeImpacts(in.Quantities, in.Provider, in.Region, in.GPUModel)
	if err != nil {
		return nil, fmt.Errorf("failed to compute impacts: %w", err)
	}

	region, _ := b.calc.Catalog().Region(impacts.Provider, impacts.Region)

	r := &Report{
		ID:                in.ID,
		Provider:          impacts.Provider,
		PUE:               impacts.PUE,
		Region:            region.ID,
		RegionName:        region.Name,
		IntensityKgPerKWh: impacts.Intensity * 1000,
		GPUModel:          in.GPUModel,
		Quantities:        in.Quantities.Clone(),
		Components:        make([]ComponentLine, 0, len(impacts.Components)),
		Totals: Totals{
			Electric:        impacts.TotalElectric,
			CO2:             impacts.TotalCO2,
			ElectricDisplay: units.FormatUnit(impacts.TotalElectric, ElectricUnit, carbon.TotalDecimals),
			CO2Display:      units.FormatUnit(impacts.TotalCO2, CO2Unit, carbon.TotalDecimals),
		},
	}

	for _, comp := range impacts.Components {
		impact := impacts.PerComponent[comp]
		r.Components = append(r.Components, ComponentLine{
			Component: comp,
			Label:     ComponentLabel(comp),
			Impact:    impact,
			Display:   units.FormatUnit(impact, ElectricUnit, b.decimals),
			Detail:    b.calc.Detail(comp, in.Quantities, in.Provider, in.GPUModel),
		})
	}

	if b.compare {
		r.Comparisons = b.calc.CompareProviders(in.Quantities, in.GPUModel)
	}

	if b.equivalents != nil {
		r.Equivalents = []equivalents.Result{}
		for _, cat := range equivalents.Categories {
			r.Equivalents = append(r.Equivalents, b.equivalents.CalculateCategory(impacts.TotalCO2, cat)...)
		}
	}

	return r, nil
}
