package carbon

// ProviderComparison summarizes the impact of the same quantities on one provider.
type ProviderComparison struct {
	Provider Provider `json:"provider"`
	PUE      float64  `json:"pue"`

	// TotalElectric is the total electric impact in Wh/year.
	TotalElectric float64 `json:"total_electric_wh"`

	// LowestRegion is the provider's region with the lowest intensity and
	// LowestCO2 the total CO2 (gCO2e/year) there.
	LowestRegion string  `json:"lowest_region"`
	LowestCO2    float64 `json:"lowest_co2_g"`

	// AverageIntensity is the mean intensity over the provider's regions and
	// AverageCO2 the total CO2 (gCO2e/year) at that intensity.
	AverageIntensity float64 `json:"average_intensity"`
	AverageCO2       float64 `json:"average_co2_g"`
}

// CompareProviders computes the impact of q on every provider of the catalog,
// in catalog order.
func (c *Calculator) CompareProviders(q Quantities, gpuModel string) []ProviderComparison {
	out := make([]ProviderComparison, 0, len(c.catalog.providers))
	for _, spec := range c.catalog.providers {
		_, sum := c.componentImpacts(q, spec, gpuModel)
		totalElectric := CalculateTotalElectric(sum, spec.PUE)

		lowest := spec.Regions[0]
		var intensitySum float64
		for _, r := range spec.Regions {
			if r.Intensity < lowest.Intensity {
				lowest = r
			}
			intensitySum += r.Intensity
		}
		average := intensitySum / float64(len(spec.Regions))

		out = append(out, ProviderComparison{
			Provider:         spec.Name,
			PUE:              spec.PUE,
			TotalElectric:    totalElectric,
			LowestRegion:     lowest.ID,
			LowestCO2:        CalculateTotalCO2(totalElectric, lowest.Intensity),
			AverageIntensity: average,
			AverageCO2:       CalculateTotalCO2(totalElectric, average),
		})
	}
	return out
}
