package carbon

import "strings"

// StorageSpec contains the power characteristics of a storage technology.
type StorageSpec struct {
	// Technology is the storage technology (SSD or HDD).
	Technology string

	// Resource is the quantity holding the provisioned size in TB.
	Resource Resource

	// Component is the impact component the storage contributes to.
	Component Component

	// PowerCoefficient is the power coefficient in Watt-Hours per TB-Hour.
	PowerCoefficient float64
}

var storageSpecs = map[string]StorageSpec{
	"HDD": {
		Technology:       "HDD",
		Resource:         ResourceHDDStorage,
		Component:        ComponentHDD,
		PowerCoefficient: HDDPowerCoefficient,
	},
	"SSD": {
		Technology:       "SSD",
		Resource:         ResourceSSDStorage,
		Component:        ComponentSSD,
		PowerCoefficient: SSDPowerCoefficient,
	},
}

// GetStorageSpec retrieves the StorageSpec for a technology ("HDD" or "SSD",
// case-insensitive). Returns the StorageSpec and true if found.
func GetStorageSpec(technology string) (StorageSpec, bool) {
	spec, ok := storageSpecs[strings.ToUpper(strings.TrimSpace(technology))]
	return spec, ok
}

// CalculateStorageEnergyWh calculates the energy consumption for storage.
// Parameters:
//   - sizeTB: Storage size in terabytes
//   - hours: Duration in hours
//   - technology: Storage technology (HDD, SSD)
//
// Returns the energy consumption in Wh, or 0 if the technology is unknown.
func CalculateStorageEnergyWh(sizeTB, hours float64, technology string) float64 {
	spec, ok := GetStorageSpec(technology)
	if !ok {
		return 0
	}

	// Energy (Wh) = Size in TB × Power Coefficient × Hours
	return sizeTB * spec.PowerCoefficient * hours
}
