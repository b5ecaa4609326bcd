package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cloudconso/internal/carbon"
)

const testCatalog = `# reference data
providers:
  - name: AWS
    pue: 1.135
    cpu_power_kw:
      min: 0.74
      max: 3.50
    regions:
      - id: us-east-1
        name: "US East (N. Virginia)"
        intensity: 0.000379069
      - id: eu-north-1
        name: "Europe (Stockholm)"
        intensity: 0.0000088
  - name: GCP
    pue: 1.1
    cpu_power_kw:
      min: 0.71
      max: 4.26
    regions:
      - id: us-east-1
        name: "Not really GCP"
        intensity: 0.0001
`

func TestParseFactors(t *testing.T) {
	factors, err := parseFactors([]byte(`[
		{"region": "us-east-1", "mtCO2ePerKwh": 0.0004},
		{"region": "", "mtCO2ePerKwh": 1},
		{"region": "eu-north-1", "mtCO2ePerKwh": 0.00001}
	]`))
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"us-east-1": 0.0004, "eu-north-1": 0.00001}, factors)

	_, err = parseFactors([]byte(`{"region": "us-east-1"}`))
	assert.Error(t, err)
}

func TestValidateFactors(t *testing.T) {
	assert.NoError(t, validateFactors(map[string]float64{"a": 0, "b": 0.0009}))

	err := validateFactors(map[string]float64{"a": 0.0004, "bad": 0.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")

	assert.Error(t, validateFactors(map[string]float64{"neg": -0.1}))
}

func TestUpdateIntensities(t *testing.T) {
	out, changes, err := updateIntensities([]byte(testCatalog), carbon.ProviderAWS, map[string]float64{
		"us-east-1":  0.0004,
		"eu-north-1": 0.0000088,
		"mars-1":     0.0001,
	})
	require.NoError(t, err)

	require.Len(t, changes, 1)
	assert.Equal(t, change{Region: "us-east-1", Old: 0.000379069, New: 0.0004}, changes[0])

	catalog, err := carbon.ParseCatalog(out, "")
	require.NoError(t, err)

	r, ok := catalog.Region(carbon.ProviderAWS, "us-east-1")
	require.True(t, ok)
	assert.Equal(t, 0.0004, r.Intensity)

	// Another provider's region with the same id is untouched.
	r, ok = catalog.Region(carbon.ProviderGCP, "us-east-1")
	require.True(t, ok)
	assert.Equal(t, 0.0001, r.Intensity)

	assert.Contains(t, string(out), "# reference data")
}

func TestUpdateIntensities_UnknownProvider(t *testing.T) {
	_, _, err := updateIntensities([]byte(testCatalog), carbon.Provider("OVH"), nil)
	assert.ErrorIs(t, err, carbon.ErrUnknownProvider)
}

func TestRun_LocalSource(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.yaml")
	sourcePath := filepath.Join(dir, "factors.json")
	require.NoError(t, os.WriteFile(catalogPath, []byte(testCatalog), 0o644))
	require.NoError(t, os.WriteFile(sourcePath, []byte(`[{"region": "eu-north-1", "mtCO2ePerKwh": 0.000009}]`), 0o644))

	err := run(context.Background(), zerolog.Nop(), catalogPath, "aws", sourcePath, false, true)
	require.NoError(t, err)

	data, err := os.ReadFile(catalogPath)
	require.NoError(t, err)
	catalog, err := carbon.ParseCatalog(data, "")
	require.NoError(t, err)

	r, ok := catalog.Region(carbon.ProviderAWS, "eu-north-1")
	require.True(t, ok)
	assert.Equal(t, 0.000009, r.Intensity)
}

func TestRun_ValidationFailureLeavesCatalog(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.yaml")
	sourcePath := filepath.Join(dir, "factors.json")
	require.NoError(t, os.WriteFile(catalogPath, []byte(testCatalog), 0o644))
	require.NoError(t, os.WriteFile(sourcePath, []byte(`[{"region": "us-east-1", "mtCO2ePerKwh": 3}]`), 0o644))

	err := run(context.Background(), zerolog.Nop(), catalogPath, "AWS", sourcePath, false, true)
	require.Error(t, err)

	data, err := os.ReadFile(catalogPath)
	require.NoError(t, err)
	assert.Equal(t, testCatalog, string(data))
}
