package carbon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCalculator(t *testing.T, opts ...Option) *Calculator {
	t.Helper()
	catalog, err := LoadCatalog()
	require.NoError(t, err)
	return NewCalculator(catalog, opts...)
}

func TestCalculateCPUImpact(t *testing.T) {
	aws := PowerRange{Min: 0.74, Max: 3.50}

	tests := []struct {
		name        string
		vCPUs       float64
		utilization float64
		want        float64
	}{
		{"two vCPUs at 50% on AWS", 2, 50, 37142.4},
		{"one vCPU idle", 1, 0, 0.74 * HoursPerYear},
		{"one vCPU at full load", 1, 100, 3.50 * HoursPerYear},
		{"no vCPUs", 0, 80, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateCPUImpact(tt.vCPUs, tt.utilization, aws)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestCalculateStorageImpact(t *testing.T) {
	assert.Equal(t, 56940.0, CalculateStorageImpact(10, "HDD"))
	assert.InDelta(t, 105120.0, CalculateStorageImpact(10, "SSD"), 1e-6)
	assert.Equal(t, 0.0, CalculateStorageImpact(10, "tape"))
}

func TestCalculateNetworkAndMemoryImpact(t *testing.T) {
	assert.Equal(t, 60000.0, CalculateNetworkImpact(5))
	assert.InDelta(t, 16*0.392*8760, CalculateMemoryImpact(16), 1e-6)
}

func TestCalculateGPUImpact(t *testing.T) {
	model := GPUModel{Name: "T4", IdleWatts: 10, MaxWatts: 70}

	assert.InDelta(t, 2*40*HoursPerYear, CalculateGPUImpact(2, 50, model), 1e-6)
	assert.InDelta(t, 10*HoursPerYear, CalculateGPUImpact(1, 0, model), 1e-6)
	assert.Equal(t, 0.0, CalculateGPUImpact(0, 100, model))
}

func TestCalculator_ComputeImpacts_HDDOnlyAWS(t *testing.T) {
	calc := newTestCalculator(t)

	impacts, err := calc.ComputeImpacts(Quantities{ResourceHDDStorage: 10}, ProviderAWS, "us-east-1", "")
	require.NoError(t, err)

	assert.Equal(t, 56940.0, impacts.PerComponent[ComponentHDD])
	assert.Equal(t, 64626.9, impacts.TotalElectric)
	assert.Equal(t, 1.135, impacts.PUE)
	assert.Equal(t, 0.000379069, impacts.Intensity)
	// 64626.9 × 0.000379069 × 1000 = 24498.054..., rounded up
	assert.Equal(t, 24498.1, impacts.TotalCO2)
}

func TestCalculator_ComputeImpacts_HDDOnlyGCPKeepsFloatProduct(t *testing.T) {
	calc := newTestCalculator(t)

	impacts, err := calc.ComputeImpacts(Quantities{ResourceHDDStorage: 10}, ProviderGCP, "us-central1", "")
	require.NoError(t, err)

	// 56940 × 1.1 evaluates to 62634.00000000001 in float64, which rounds up.
	assert.Equal(t, 56940.0, impacts.PerComponent[ComponentHDD])
	assert.Equal(t, 62634.1, impacts.TotalElectric)
	assert.Equal(t, 62634.1, CalculateTotalElectric(impacts.PerComponent[ComponentHDD], impacts.PUE))
}

func TestCalculator_ComputeImpacts_CPU(t *testing.T) {
	calc := newTestCalculator(t)

	q := Quantities{ResourceVCPUCount: 2, ResourceVCPUUtilization: 50}
	impacts, err := calc.ComputeImpacts(q, ProviderAWS, "us-east-1", "")
	require.NoError(t, err)

	assert.InDelta(t, 37142.4, impacts.PerComponent[ComponentCompute], 1e-6)
	assert.InDelta(t, 42156.7, impacts.TotalElectric, 1e-6)
}

func TestCalculator_ComputeImpacts_AllComponents(t *testing.T) {
	calc := newTestCalculator(t)

	q := Quantities{
		ResourceVCPUCount:       4,
		ResourceVCPUUtilization: 30,
		ResourceHDDStorage:      2,
		ResourceSSDStorage:      1,
		ResourceNetworkTransfer: 3,
		ResourceMemory:          32,
		ResourceGPUCount:        1,
		ResourceGPUUtilization:  50,
	}

	impacts, err := calc.ComputeImpacts(q, ProviderGCP, "europe-west1", "T4")
	require.NoError(t, err)

	assert.Equal(t, AllComponents, impacts.Components)
	require.Len(t, impacts.PerComponent, len(AllComponents))

	var sum float64
	for _, comp := range sumOrder {
		assert.Greater(t, impacts.PerComponent[comp], 0.0, "component %s", comp)
		sum += impacts.PerComponent[comp]
	}
	assert.Equal(t, RoundUp(sum*1.1, 1), impacts.TotalElectric)
	assert.Equal(t, RoundUp(impacts.TotalElectric*0.000212*1000, 1), impacts.TotalCO2)
}

func TestCalculator_ComputeImpacts_BaseComponentsIgnoreMemoryAndGPU(t *testing.T) {
	calc := newTestCalculator(t, WithComponents(BaseComponents...))

	q := Quantities{
		ResourceHDDStorage:     10,
		ResourceMemory:         64,
		ResourceGPUCount:       4,
		ResourceGPUUtilization: 100,
	}

	impacts, err := calc.ComputeImpacts(q, ProviderAWS, "us-east-1", "A100")
	require.NoError(t, err)

	_, hasMemory := impacts.PerComponent[ComponentMemory]
	_, hasGPU := impacts.PerComponent[ComponentGPU]
	assert.False(t, hasMemory)
	assert.False(t, hasGPU)
	assert.Equal(t, BaseComponents, impacts.Components)
	assert.Equal(t, 64626.9, impacts.TotalElectric)
}

func TestCalculator_ComputeImpacts_UnknownGPUModelIsZero(t *testing.T) {
	calc := newTestCalculator(t)

	q := Quantities{ResourceGPUCount: 4, ResourceGPUUtilization: 100}
	impacts, err := calc.ComputeImpacts(q, ProviderAWS, "us-east-1", "nonexistent-gpu")

	require.NoError(t, err)
	assert.Equal(t, 0.0, impacts.PerComponent[ComponentGPU])
	assert.Equal(t, 0.0, impacts.TotalElectric)
	assert.Equal(t, 0.0, impacts.TotalCO2)
}

func TestCalculator_ComputeImpacts_Errors(t *testing.T) {
	calc := newTestCalculator(t)

	_, err := calc.ComputeImpacts(Quantities{}, Provider("OVH"), "gra", "")
	assert.ErrorIs(t, err, ErrUnknownProvider)

	// Region from another provider's list
	_, err = calc.ComputeImpacts(Quantities{}, ProviderAWS, "europe-west1", "")
	assert.ErrorIs(t, err, ErrUnknownRegion)
}

func TestCalculator_ComputeImpacts_RegionAffectsCO2Only(t *testing.T) {
	calc := newTestCalculator(t)
	q := Quantities{ResourceVCPUCount: 4, ResourceVCPUUtilization: 50}

	virginia, err := calc.ComputeImpacts(q, ProviderAWS, "us-east-1", "")
	require.NoError(t, err)
	stockholm, err := calc.ComputeImpacts(q, ProviderAWS, "eu-north-1", "")
	require.NoError(t, err)

	assert.Equal(t, virginia.TotalElectric, stockholm.TotalElectric)
	// eu-north-1 is 0.0000088 t/kWh versus 0.000379 for us-east-1
	assert.Greater(t, virginia.TotalCO2, stockholm.TotalCO2*10)
}

func TestCalculator_ComponentImpactsMonotonic(t *testing.T) {
	calc := newTestCalculator(t)

	tests := []struct {
		resource  Resource
		component Component
	}{
		{ResourceVCPUCount, ComponentCompute},
		{ResourceVCPUUtilization, ComponentCompute},
		{ResourceHDDStorage, ComponentHDD},
		{ResourceSSDStorage, ComponentSSD},
		{ResourceNetworkTransfer, ComponentNetwork},
		{ResourceMemory, ComponentMemory},
		{ResourceGPUCount, ComponentGPU},
		{ResourceGPUUtilization, ComponentGPU},
	}

	for _, tt := range tests {
		t.Run(string(tt.resource), func(t *testing.T) {
			base := Quantities{
				ResourceVCPUCount:       1,
				ResourceVCPUUtilization: 10,
				ResourceGPUCount:        1,
				ResourceGPUUtilization:  10,
			}
			bounds := ResourceBounds[tt.resource]

			prev := -1.0
			for step := 0; step <= 10; step++ {
				q := base.Clone()
				q[tt.resource] = bounds.Min + (bounds.Max-bounds.Min)*float64(step)/10

				impacts, err := calc.ComputeImpacts(q, ProviderAzure, "france-central", "V100")
				require.NoError(t, err)

				got := impacts.PerComponent[tt.component]
				assert.GreaterOrEqual(t, got, prev)
				prev = got
			}
		})
	}
}

func TestCalculator_Components(t *testing.T) {
	calc := newTestCalculator(t, WithComponents(ComponentGPU, ComponentCompute, Component("unknown")))
	assert.Equal(t, []Component{ComponentCompute, ComponentGPU}, calc.Components())
}

func TestCalculator_Detail(t *testing.T) {
	calc := newTestCalculator(t)
	q := Quantities{
		ResourceVCPUCount:       2,
		ResourceVCPUUtilization: 50,
		ResourceHDDStorage:      10,
		ResourceGPUCount:        1,
	}

	assert.Equal(t, "2 vCPUs × 2.12 kW at 50% utilization × 8760 h",
		calc.Detail(ComponentCompute, q, ProviderAWS, ""))
	assert.Equal(t, "10 TB HDD × 0.65 W/TB × 8760 h",
		calc.Detail(ComponentHDD, q, ProviderAWS, ""))
	assert.Equal(t, "0 TB/month × 1000 Wh/TB × 12 months",
		calc.Detail(ComponentNetwork, q, ProviderAWS, ""))
	assert.Equal(t, "No GPU model selected",
		calc.Detail(ComponentGPU, q, ProviderAWS, "nope"))
	assert.Equal(t, "Unknown provider",
		calc.Detail(ComponentCompute, q, Provider("OVH"), ""))
}
