package carbon

// Provider identifies a cloud provider.
type Provider string

// Supported providers.
const (
	ProviderAWS   Provider = "AWS"
	ProviderGCP   Provider = "GCP"
	ProviderAzure Provider = "Azure"
)

// PowerRange is a power draw range from idle (Min) to full load (Max).
type PowerRange struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// At interpolates linearly between Min and Max for a utilization percentage.
func (r PowerRange) At(utilizationPercent float64) float64 {
	return r.Min + (r.Max-r.Min)*(utilizationPercent/100)
}

// Region is a provider region with its grid carbon intensity.
type Region struct {
	// ID is the provider's region code (e.g., "us-east-1").
	ID string `yaml:"id" json:"id"`

	// Name is the human-readable region name.
	Name string `yaml:"name" json:"name"`

	// Intensity is the grid carbon intensity in metric tons CO2e per kWh.
	Intensity float64 `yaml:"intensity" json:"intensity"`
}

// ProviderSpec holds the static characteristics of a provider.
type ProviderSpec struct {
	// Name is the provider identifier.
	Name Provider `yaml:"name" json:"name"`

	// PUE is the Power Usage Effectiveness of the provider's datacenters.
	PUE float64 `yaml:"pue" json:"pue"`

	// CPUPower is the per-vCPU power draw range in kW.
	CPUPower PowerRange `yaml:"cpu_power_kw" json:"cpu_power_kw"`

	// Regions lists the provider's regions in display order.
	Regions []Region `yaml:"regions" json:"regions"`
}

// Resource names a user-adjustable quantity.
type Resource string

// Resources consumed by the calculator.
const (
	ResourceVCPUCount       Resource = "vcpu_count"
	ResourceVCPUUtilization Resource = "vcpu_utilization"
	ResourceHDDStorage      Resource = "hdd_storage"
	ResourceSSDStorage      Resource = "ssd_storage"
	ResourceNetworkTransfer Resource = "network_transfer"
	ResourceMemory          Resource = "memory"
	ResourceGPUCount        Resource = "gpu_count"
	ResourceGPUUtilization  Resource = "gpu_utilization"
)

// Quantities maps each resource to its current value. Missing resources are zero.
type Quantities map[Resource]float64

// Get returns the value for r, or zero when it is not set.
func (q Quantities) Get(r Resource) float64 {
	return q[r]
}

// Clone returns an independent copy of q.
func (q Quantities) Clone() Quantities {
	out := make(Quantities, len(q))
	for k, v := range q {
		out[k] = v
	}
	return out
}

// Component is a resource category with its own energy impact.
type Component string

// Impact components.
const (
	ComponentCompute Component = "compute"
	ComponentHDD     Component = "hdd"
	ComponentSSD     Component = "ssd"
	ComponentNetwork Component = "network"
	ComponentMemory  Component = "memory"
	ComponentGPU     Component = "gpu"
)

// AllComponents lists every component in display order.
var AllComponents = []Component{
	ComponentCompute,
	ComponentHDD,
	ComponentSSD,
	ComponentNetwork,
	ComponentMemory,
	ComponentGPU,
}

// BaseComponents is the four-component variant without memory and GPU.
var BaseComponents = []Component{
	ComponentCompute,
	ComponentHDD,
	ComponentSSD,
	ComponentNetwork,
}

// Impacts is the result of an impact computation. It is derived from the
// current inputs and never stored.
type Impacts struct {
	// Provider and Region are the inputs the impacts were computed for.
	Provider Provider
	Region   string

	// PUE and Intensity are the multipliers applied to the totals.
	PUE       float64
	Intensity float64

	// PerComponent holds the impact of each enabled component in Wh/year
	// before PUE.
	PerComponent map[Component]float64

	// Components lists the enabled components in display order.
	Components []Component

	// TotalElectric is (Σ PerComponent) × PUE in Wh/year, rounded up to 1 decimal.
	TotalElectric float64

	// TotalCO2 is TotalElectric × Intensity × 1000 in gCO2e/year, rounded up to 1 decimal.
	TotalCO2 float64
}
