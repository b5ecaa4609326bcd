package carbon

// Bounds declares the accepted range and display unit of a resource.
type Bounds struct {
	Min   float64
	Max   float64
	Unit  string
	Label string
}

// Clamp restricts v to the bounds.
func (b Bounds) Clamp(v float64) float64 {
	return Clamp(v, b.Min, b.Max)
}

// ResourceBounds are the input ranges for each resource.
var ResourceBounds = map[Resource]Bounds{
	ResourceVCPUCount:       {Min: 0, Max: 20, Unit: "vCPUs", Label: "vCPU count"},
	ResourceVCPUUtilization: {Min: 0, Max: 100, Unit: "%", Label: "vCPU average utilization"},
	ResourceHDDStorage:      {Min: 0, Max: 100, Unit: "TB", Label: "HDD storage"},
	ResourceSSDStorage:      {Min: 0, Max: 100, Unit: "TB", Label: "SSD storage"},
	ResourceNetworkTransfer: {Min: 0, Max: 100, Unit: "TB/month", Label: "Network transfer"},
	ResourceMemory:          {Min: 0, Max: 512, Unit: "GB", Label: "Memory"},
	ResourceGPUCount:        {Min: 0, Max: 16, Unit: "GPUs", Label: "GPU count"},
	ResourceGPUUtilization:  {Min: 0, Max: 100, Unit: "%", Label: "GPU average utilization"},
}

// Resources lists the known resources in display order.
var Resources = []Resource{
	ResourceVCPUCount,
	ResourceVCPUUtilization,
	ResourceHDDStorage,
	ResourceSSDStorage,
	ResourceNetworkTransfer,
	ResourceMemory,
	ResourceGPUCount,
	ResourceGPUUtilization,
}

// IsKnownResource reports whether r has declared bounds.
func IsKnownResource(r Resource) bool {
	_, ok := ResourceBounds[r]
	return ok
}

// ClampQuantities returns a copy of q with every known resource clamped to
// its bounds. Unknown resources are copied unchanged.
func ClampQuantities(q Quantities) Quantities {
	out := q.Clone()
	for r, v := range out {
		if b, ok := ResourceBounds[r]; ok {
			out[r] = b.Clamp(v)
		}
	}
	return out
}

// Clamp restricts a value to the range [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
