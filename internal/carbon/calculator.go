package carbon

import "fmt"

// ImpactCalculator computes energy and carbon impacts for resource quantities.
type ImpactCalculator interface {
	// ComputeImpacts calculates per-component impacts in Wh/year and the
	// aggregate electric (Wh/year) and CO2 (gCO2e/year) totals.
	// Returns an error if the provider is unknown or the region does not
	// belong to the provider.
	ComputeImpacts(q Quantities, provider Provider, region, gpuModel string) (Impacts, error)
}

// sumOrder is the order in which component impacts are added up. It is kept
// stable so that totals are reproducible to the last bit.
var sumOrder = []Component{
	ComponentHDD,
	ComponentSSD,
	ComponentCompute,
	ComponentNetwork,
	ComponentMemory,
	ComponentGPU,
}

// Calculator implements ImpactCalculator on top of a Catalog.
type Calculator struct {
	catalog *Catalog
	enabled map[Component]bool
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithComponents restricts the calculator to the given components. Unknown
// components are ignored.
func WithComponents(components ...Component) Option {
	return func(c *Calculator) {
		c.enabled = make(map[Component]bool, len(components))
		for _, comp := range components {
			c.enabled[comp] = true
		}
	}
}

// NewCalculator creates a calculator backed by the given catalog. All
// components are enabled unless WithComponents is passed.
func NewCalculator(catalog *Catalog, opts ...Option) *Calculator {
	c := &Calculator{catalog: catalog}
	WithComponents(AllComponents...)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Catalog returns the reference data the calculator uses.
func (c *Calculator) Catalog() *Catalog {
	return c.catalog
}

// Components returns the enabled components in display order.
func (c *Calculator) Components() []Component {
	out := make([]Component, 0, len(c.enabled))
	for _, comp := range AllComponents {
		if c.enabled[comp] {
			out = append(out, comp)
		}
	}
	return out
}

// ComputeImpacts calculates the impacts of q for a provider and region.
//
// The calculation follows the CCF methodology:
//  1. Per-component energy (Wh/year) from quantities and fixed coefficients
//  2. Total electric = Σ enabled components × provider PUE, rounded up to 1 decimal
//  3. Total CO2 (gCO2e/year) = total electric × region intensity × 1000, rounded up to 1 decimal
//
// Negative quantities are not rejected; callers clamp inputs to ResourceBounds.
// An unresolved GPU model yields a zero GPU impact.
func (c *Calculator) ComputeImpacts(q Quantities, provider Provider, region, gpuModel string) (Impacts, error) {
	spec, r, err := c.catalog.lookup(provider, region)
	if err != nil {
		return Impacts{}, err
	}

	perComponent, sum := c.componentImpacts(q, spec, gpuModel)
	totalElectric := CalculateTotalElectric(sum, spec.PUE)

	return Impacts{
		Provider:      provider,
		Region:        r.ID,
		PUE:           spec.PUE,
		Intensity:     r.Intensity,
		PerComponent:  perComponent,
		Components:    c.Components(),
		TotalElectric: totalElectric,
		TotalCO2:      CalculateTotalCO2(totalElectric, r.Intensity),
	}, nil
}

// componentImpacts returns the impact of every enabled component and their sum.
func (c *Calculator) componentImpacts(q Quantities, spec ProviderSpec, gpuModel string) (map[Component]float64, float64) {
	perComponent := make(map[Component]float64, len(c.enabled))
	var sum float64
	for _, comp := range sumOrder {
		if !c.enabled[comp] {
			continue
		}
		impact := c.componentImpact(comp, q, spec, gpuModel)
		perComponent[comp] = impact
		sum += impact
	}
	return perComponent, sum
}

func (c *Calculator) componentImpact(comp Component, q Quantities, spec ProviderSpec, gpuModel string) float64 {
	switch comp {
	case ComponentCompute:
		return CalculateCPUImpact(q.Get(ResourceVCPUCount), q.Get(ResourceVCPUUtilization), spec.CPUPower)
	case ComponentHDD:
		return CalculateStorageImpact(q.Get(ResourceHDDStorage), "HDD")
	case ComponentSSD:
		return CalculateStorageImpact(q.Get(ResourceSSDStorage), "SSD")
	case ComponentNetwork:
		return CalculateNetworkImpact(q.Get(ResourceNetworkTransfer))
	case ComponentMemory:
		return CalculateMemoryImpact(q.Get(ResourceMemory))
	case ComponentGPU:
		model, ok := c.catalog.GPUModel(gpuModel)
		if !ok {
			if gpuModel != "" {
				log().Debug().Str("gpu_model", gpuModel).Msg("GPU model not in catalog, GPU impact is zero")
			}
			return 0
		}
		return CalculateGPUImpact(q.Get(ResourceGPUCount), q.Get(ResourceGPUUtilization), model)
	default:
		return 0
	}
}

// CalculateCPUImpact returns the yearly compute energy in Wh:
// vCPUs × (min + (max − min) × utilization/100) × 8760.
func CalculateCPUImpact(vCPUCount, utilizationPercent float64, power PowerRange) float64 {
	return vCPUCount * power.At(utilizationPercent) * HoursPerYear
}

// CalculateStorageImpact returns the yearly energy in Wh of sizeTB terabytes
// of the given storage technology.
func CalculateStorageImpact(sizeTB float64, technology string) float64 {
	return CalculateStorageEnergyWh(sizeTB, HoursPerYear, technology)
}

// CalculateMemoryImpact returns the yearly memory energy in Wh.
func CalculateMemoryImpact(memoryGB float64) float64 {
	return memoryGB * MemoryPowerCoefficient * HoursPerYear
}

// CalculateNetworkImpact returns the yearly network energy in Wh for a
// monthly transfer volume in TB.
func CalculateNetworkImpact(transferTBPerMonth float64) float64 {
	return transferTBPerMonth * NetworkWhPerTB * MonthsPerYear
}

// CalculateGPUImpact returns the yearly GPU energy in Wh:
// units × (idle + (max − idle) × utilization/100) × 8760.
func CalculateGPUImpact(units, utilizationPercent float64, model GPUModel) float64 {
	return units * model.PowerWatts(utilizationPercent) * HoursPerYear
}

// CalculateTotalElectric applies the PUE to the component sum and rounds the
// result up to TotalDecimals.
func CalculateTotalElectric(componentSumWh, pue float64) float64 {
	return RoundUp(componentSumWh*pue, TotalDecimals)
}

// CalculateTotalCO2 converts a total electric impact (Wh/year) into grams of
// CO2e per year for an intensity in metric tons CO2e per kWh, rounded up to
// TotalDecimals.
func CalculateTotalCO2(totalElectricWh, intensity float64) float64 {
	return RoundUp(totalElectricWh*intensity*gramsPerMetricTonPerKWh, TotalDecimals)
}

// Detail returns a human-readable description of a component's calculation.
func (c *Calculator) Detail(comp Component, q Quantities, provider Provider, gpuModel string) string {
	spec, ok := c.catalog.Provider(provider)
	if !ok {
		return "Unknown provider"
	}

	switch comp {
	case ComponentCompute:
		util := q.Get(ResourceVCPUUtilization)
		return fmt.Sprintf("%s vCPUs × %s kW at %s%% utilization × %s h",
			formatFloat(q.Get(ResourceVCPUCount)),
			formatFloat(spec.CPUPower.At(util)),
			formatFloat(util),
			formatFloat(HoursPerYear))
	case ComponentHDD, ComponentSSD:
		tech := "HDD"
		if comp == ComponentSSD {
			tech = "SSD"
		}
		storage, _ := GetStorageSpec(tech)
		return fmt.Sprintf("%s TB %s × %s W/TB × %s h",
			formatFloat(q.Get(storage.Resource)), tech,
			formatFloat(storage.PowerCoefficient),
			formatFloat(HoursPerYear))
	case ComponentNetwork:
		return fmt.Sprintf("%s TB/month × %s Wh/TB × %s months",
			formatFloat(q.Get(ResourceNetworkTransfer)),
			formatFloat(NetworkWhPerTB),
			formatFloat(MonthsPerYear))
	case ComponentMemory:
		return fmt.Sprintf("%s GB × %s W/GB × %s h",
			formatFloat(q.Get(ResourceMemory)),
			formatFloat(MemoryPowerCoefficient),
			formatFloat(HoursPerYear))
	case ComponentGPU:
		model, ok := c.catalog.GPUModel(gpuModel)
		if !ok {
			return "No GPU model selected"
		}
		util := q.Get(ResourceGPUUtilization)
		return fmt.Sprintf("%s × %s at %s W (%s%% utilization) × %s h",
			formatFloat(q.Get(ResourceGPUCount)), model.Name,
			formatFloat(model.PowerWatts(util)),
			formatFloat(util),
			formatFloat(HoursPerYear))
	default:
		return "Unknown component"
	}
}
