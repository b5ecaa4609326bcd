// Package carbon estimates the yearly electricity consumption and carbon
// footprint of cloud resources using Cloud Carbon Footprint (CCF) coefficients.
package carbon

const (
	// HoursPerYear is the number of operating hours in a (non-leap) year.
	HoursPerYear = 8760.0

	// MonthsPerYear converts monthly network transfer into a yearly figure.
	MonthsPerYear = 12.0

	// HDDPowerCoefficient is the power coefficient for HDD storage in Wh/TB-hour.
	// Source: Cloud Carbon Footprint methodology.
	HDDPowerCoefficient = 0.65

	// SSDPowerCoefficient is the power coefficient for SSD storage in Wh/TB-hour.
	// Source: Cloud Carbon Footprint methodology.
	SSDPowerCoefficient = 1.20

	// MemoryPowerCoefficient is the power coefficient for memory in Wh/GB-hour.
	// Source: Cloud Carbon Footprint methodology.
	MemoryPowerCoefficient = 0.392

	// NetworkWhPerTB is the energy attributed to one terabyte of network transfer.
	// This is a linear approximation of energy per data volume.
	NetworkWhPerTB = 1000.0

	// TotalDecimals is the precision of the aggregate electric and CO2 totals.
	TotalDecimals = 1

	// gramsPerMetricTonPerKWh converts Wh × (t/kWh) into grams:
	// Wh / 1000 → kWh, t → g is × 1,000,000.
	gramsPerMetricTonPerKWh = 1000.0
)
