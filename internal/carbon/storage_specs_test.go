package carbon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetStorageSpec(t *testing.T) {
	tests := []struct {
		technology    string
		wantOK        bool
		wantComponent Component
		wantCoef      float64
	}{
		{"HDD", true, ComponentHDD, 0.65},
		{"ssd", true, ComponentSSD, 1.20},
		{" Hdd ", true, ComponentHDD, 0.65},
		{"tape", false, "", 0},
		{"", false, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.technology, func(t *testing.T) {
			spec, ok := GetStorageSpec(tt.technology)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantComponent, spec.Component)
			assert.Equal(t, tt.wantCoef, spec.PowerCoefficient)
		})
	}
}

func TestCalculateStorageEnergyWh(t *testing.T) {
	tests := []struct {
		name       string
		sizeTB     float64
		hours      float64
		technology string
		want       float64
	}{
		{"10 TB HDD for a year", 10, HoursPerYear, "HDD", 56940},
		{"1 TB SSD for one hour", 1, 1, "SSD", 1.2},
		{"zero size", 0, HoursPerYear, "SSD", 0},
		{"unknown technology", 10, HoursPerYear, "NVMe", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CalculateStorageEnergyWh(tt.sizeTB, tt.hours, tt.technology), 1e-9)
		})
	}
}
