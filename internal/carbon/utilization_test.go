package carbon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		min  float64
		max  float64
		want float64
	}{
		{"value within range", 50, 0, 100, 50},
		{"value below min", -5, 0, 100, 0},
		{"value above max", 150, 0, 100, 100},
		{"value at min boundary", 0, 0, 100, 0},
		{"value at max boundary", 100, 0, 100, 100},
		{"negative min range", -0.5, -1.0, 0.0, -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.v, tt.min, tt.max)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResourceBounds(t *testing.T) {
	tests := []struct {
		resource Resource
		max      float64
		unit     string
	}{
		{ResourceVCPUCount, 20, "vCPUs"},
		{ResourceVCPUUtilization, 100, "%"},
		{ResourceHDDStorage, 100, "TB"},
		{ResourceSSDStorage, 100, "TB"},
		{ResourceNetworkTransfer, 100, "TB/month"},
		{ResourceMemory, 512, "GB"},
		{ResourceGPUCount, 16, "GPUs"},
		{ResourceGPUUtilization, 100, "%"},
	}

	assert.Len(t, Resources, len(ResourceBounds))
	for _, tt := range tests {
		t.Run(string(tt.resource), func(t *testing.T) {
			b, ok := ResourceBounds[tt.resource]
			assert.True(t, ok)
			assert.Equal(t, 0.0, b.Min)
			assert.Equal(t, tt.max, b.Max)
			assert.Equal(t, tt.unit, b.Unit)
			assert.NotEmpty(t, b.Label)
			assert.True(t, IsKnownResource(tt.resource))
		})
	}

	assert.False(t, IsKnownResource("bandwidth"))
}

func TestClampQuantities(t *testing.T) {
	in := Quantities{
		ResourceVCPUCount:       25,
		ResourceVCPUUtilization: -10,
		ResourceHDDStorage:      42,
		Resource("custom"):      1e6,
	}

	got := ClampQuantities(in)

	assert.Equal(t, 20.0, got[ResourceVCPUCount])
	assert.Equal(t, 0.0, got[ResourceVCPUUtilization])
	assert.Equal(t, 42.0, got[ResourceHDDStorage])
	assert.Equal(t, 1e6, got[Resource("custom")])

	// input is not modified
	assert.Equal(t, 25.0, in[ResourceVCPUCount])
}

func TestPowerRange_At(t *testing.T) {
	r := PowerRange{Min: 0.71, Max: 4.26}

	assert.InDelta(t, 0.71, r.At(0), 1e-12)
	assert.InDelta(t, 4.26, r.At(100), 1e-12)
	assert.InDelta(t, 2.485, r.At(50), 1e-12)
}
