// Package main provides a tool to update the regional grid carbon intensities
// of the embedded provider catalog from the Cloud Carbon Footprint (CCF)
// cloud-carbon-coefficients repository.
//
// The tool fetches a JSON list of grid emission factors, matches them to the
// regions of one provider in internal/carbon/data/catalog.yaml and rewrites the
// intensity values in place, keeping comments and ordering.
//
// Usage:
//
//	go run ./tools/update-intensities [--provider AWS] [--source URL|FILE] [--dry-run]
//
// Flags:
//
//	--catalog   Path to catalog.yaml (default: ./internal/carbon/data/catalog.yaml)
//	--provider  Provider whose regions are updated (default: AWS)
//	--source    URL or local JSON file with the factors (default: CCF AWS factors)
//	--dry-run   Print changes without writing to file
//	--validate  Validate the fetched values are within expected range
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/rshade/cloudconso/internal/carbon"
)

const (
	ccfGridFactorsURL = "https://raw.githubusercontent.com/cloud-carbon-footprint/cloud-carbon-coefficients/main/data/grid-emissions-factors-aws.json"

	// Valid range for grid factors (metric tons CO2e per kWh).
	minValidFactor = 0.0
	maxValidFactor = 0.002

	fetchTimeout = 30 * time.Second
)

// ccfGridData is one entry of the CCF grid emission factors JSON.
type ccfGridData struct {
	Region       string  `json:"region"`
	MtCO2ePerKwh float64 `json:"mtCO2ePerKwh"`
}

// change records one updated region.
type change struct {
	Region string
	Old    float64
	New    float64
}

func main() {
	catalogPath := flag.String("catalog", "./internal/carbon/data/catalog.yaml", "Path to catalog.yaml")
	provider := flag.String("provider", string(carbon.ProviderAWS), "Provider whose regions are updated")
	source := flag.String("source", ccfGridFactorsURL, "URL or local JSON file with the grid factors")
	dryRun := flag.Bool("dry-run", false, "Print changes without writing to file")
	validate := flag.Bool("validate", true, "Validate fetched values are within expected range")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).With().Timestamp().Logger()

	if err := run(context.Background(), logger, *catalogPath, *provider, *source, *dryRun, *validate); err != nil {
		logger.Error().Err(err).Msg("update failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, logger zerolog.Logger, catalogPath, provider, source string, dryRun, validate bool) error {
	logger.Info().Str("source", source).Msg("fetching grid emission factors")

	raw, err := readSource(ctx, source)
	if err != nil {
		return err
	}
	factors, err := parseFactors(raw)
	if err != nil {
		return err
	}
	if validate {
		if err := validateFactors(factors); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(catalogPath)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}

	out, changes, err := updateIntensities(data, carbon.Provider(provider), factors)
	if err != nil {
		return err
	}

	// The rewritten file must still load.
	if _, err := carbon.ParseCatalog(out, ""); err != nil {
		return fmt.Errorf("updated catalog is invalid: %w", err)
	}

	for _, c := range changes {
		logger.Info().Str("region", c.Region).Float64("old", c.Old).Float64("new", c.New).Msg("intensity changed")
	}

	if dryRun {
		fmt.Print(string(out))
		return nil
	}
	if len(changes) == 0 {
		logger.Info().Msg("catalog already up to date")
		return nil
	}

	if err := os.WriteFile(catalogPath, out, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	logger.Info().Str("path", catalogPath).Int("regions", len(changes)).Msg("catalog updated")
	return nil
}

// readSource reads the factors from a URL or a local file.
func readSource(ctx context.Context, source string) ([]byte, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read factors: %w", err)
		}
		return data, nil
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch grid factors: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// parseFactors decodes the CCF JSON into region → intensity (t CO2e/kWh).
func parseFactors(data []byte) (map[string]float64, error) {
	var entries []ccfGridData
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	factors := make(map[string]float64, len(entries))
	for _, e := range entries {
		if e.Region == "" {
			continue
		}
		factors[e.Region] = e.MtCO2ePerKwh
	}
	return factors, nil
}

// validateFactors checks that all factors are within the expected range.
func validateFactors(factors map[string]float64) error {
	var problems []string
	for region, f := range factors {
		if f < minValidFactor || f > maxValidFactor {
			problems = append(problems, fmt.Sprintf(
				"%s: factor %.8f is outside valid range [%.4f, %.4f]",
				region, f, minValidFactor, maxValidFactor))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("validation failed:\n%s", strings.Join(problems, "\n"))
	}
	return nil
}

// updateIntensities rewrites the intensity of every region of provider that has
// a factor. Regions without a factor keep their value.
func updateIntensities(data []byte, provider carbon.Provider, factors map[string]float64) ([]byte, []change, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil, fmt.Errorf("catalog is empty")
	}

	regions := findRegions(doc.Content[0], provider)
	if regions == nil {
		return nil, nil, fmt.Errorf("%w: %q", carbon.ErrUnknownProvider, provider)
	}

	var changes []change
	for _, region := range regions.Content {
		id := mappingValue(region, "id")
		intensity := mappingValue(region, "intensity")
		if id == nil || intensity == nil {
			continue
		}
		factor, ok := factors[id.Value]
		if !ok {
			continue
		}
		old, err := strconv.ParseFloat(intensity.Value, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("region %s: invalid intensity %q", id.Value, intensity.Value)
		}
		if old == factor {
			continue
		}
		intensity.Value = strconv.FormatFloat(factor, 'f', -1, 64)
		changes = append(changes, change{Region: id.Value, Old: old, New: factor})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, nil, fmt.Errorf("encode catalog: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, nil, fmt.Errorf("encode catalog: %w", err)
	}
	return buf.Bytes(), changes, nil
}

// findRegions returns the regions sequence of provider, or nil.
func findRegions(root *yaml.Node, provider carbon.Provider) *yaml.Node {
	providers := mappingValue(root, "providers")
	if providers == nil || providers.Kind != yaml.SequenceNode {
		return nil
	}
	for _, p := range providers.Content {
		name := mappingValue(p, "name")
		if name == nil || !strings.EqualFold(name.Value, string(provider)) {
			continue
		}
		if regions := mappingValue(p, "regions"); regions != nil && regions.Kind == yaml.SequenceNode {
			return regions
		}
	}
	return nil
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}
