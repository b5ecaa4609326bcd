package carbon

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CSV column indices for GPU models.
const (
	colGPUModel     = 0 // gpu_model
	colGPUVendor    = 1 // vendor
	colGPUIdleWatts = 2 // idle_watts
	colGPUMaxWatts  = 3 // max_watts
)

//go:embed data/gpu_models.csv
var gpuModelsCSV string

// GPUModel is a GPU catalog entry.
type GPUModel struct {
	// Name is the GPU model name (e.g., "A100").
	Name string `json:"name"`

	// Vendor is the GPU manufacturer.
	Vendor string `json:"vendor"`

	// IdleWatts is the power draw at idle in watts.
	IdleWatts float64 `json:"idle_watts"`

	// MaxWatts is the power draw at 100% utilization in watts.
	MaxWatts float64 `json:"max_watts"`
}

// PowerWatts returns the power draw for a utilization percentage.
func (g GPUModel) PowerWatts(utilizationPercent float64) float64 {
	return PowerRange{Min: g.IdleWatts, Max: g.MaxWatts}.At(utilizationPercent)
}

// parseGPUModels parses the GPU model CSV. Malformed rows are skipped with a
// warning; rows with negative or inverted power values are dropped.
func parseGPUModels(data string) []GPUModel {
	reader := csv.NewReader(strings.NewReader(data))

	// Skip header row
	_, err := reader.Read()
	if err != nil {
		if err != io.EOF {
			log().Error().Err(err).Msg("failed to read GPU models CSV header")
		}
		return nil
	}

	var models []GPUModel
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log().Warn().Err(err).Msg("skipping malformed GPU models CSV row")
			continue
		}

		// Ensure we have enough columns
		if len(record) <= colGPUMaxWatts {
			continue
		}

		name := strings.TrimSpace(record[colGPUModel])
		if name == "" {
			continue
		}

		idleWatts, err := strconv.ParseFloat(strings.TrimSpace(record[colGPUIdleWatts]), 64)
		if err != nil || idleWatts < 0 {
			log().Warn().Str("gpu_model", name).Msg("skipping GPU model with invalid idle watts")
			continue
		}

		maxWatts, err := strconv.ParseFloat(strings.TrimSpace(record[colGPUMaxWatts]), 64)
		if err != nil || maxWatts < idleWatts {
			log().Warn().Str("gpu_model", name).Msg("skipping GPU model with invalid max watts")
			continue
		}

		models = append(models, GPUModel{
			Name:      name,
			Vendor:    strings.TrimSpace(record[colGPUVendor]),
			IdleWatts: idleWatts,
			MaxWatts:  maxWatts,
		})
	}

	return models
}

// GPUModels returns the GPU catalog in file order.
func (c *Catalog) GPUModels() []GPUModel {
	return append([]GPUModel(nil), c.gpus...)
}

// GPUModel retrieves a GPU model by name.
// Returns the GPUModel and true if found, or an empty GPUModel and false otherwise.
func (c *Catalog) GPUModel(name string) (GPUModel, bool) {
	g, ok := c.gpuByName[name]
	return g, ok
}

// GPUModelCount reports the number of loaded GPU models.
func (c *Catalog) GPUModelCount() int {
	return len(c.gpus)
}

// GPUBaselineWatts returns the mean max power draw over the GPU catalog,
// used to normalize a model's draw against the catalog.
// Returns ErrEmptyGPUCatalog when the catalog has no models.
func (c *Catalog) GPUBaselineWatts() (float64, error) {
	if len(c.gpus) == 0 {
		return 0, ErrEmptyGPUCatalog
	}
	var sum float64
	for _, g := range c.gpus {
		sum += g.MaxWatts
	}
	return sum / float64(len(c.gpus)), nil
}

// GPURelativePower returns a model's max draw relative to the catalog baseline
// (1.0 means average).
func (c *Catalog) GPURelativePower(name string) (float64, error) {
	g, ok := c.GPUModel(name)
	if !ok {
		return 0, fmt.Errorf("unknown GPU model %q", name)
	}
	baseline, err := c.GPUBaselineWatts()
	if err != nil {
		return 0, err
	}
	if baseline == 0 {
		return 0, nil
	}
	return g.MaxWatts / baseline, nil
}
