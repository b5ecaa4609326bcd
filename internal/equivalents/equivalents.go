// Package equivalents expresses a CO2e quantity in everyday terms: distance
// travelled, meals eaten, days of a country's per-capita footprint.
package equivalents

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/factors.yaml
var factorsYAML []byte

// daysPerYear converts yearly per-capita footprints into daily ones.
const daysPerYear = 365.0

// gramsPerMetricTon converts tons into grams.
const gramsPerMetricTon = 1e6

// ErrInvalidFactor is returned when a factor fails validation.
var ErrInvalidFactor = errors.New("invalid equivalence factor")

// Category groups equivalents for display.
type Category string

// Equivalent categories.
const (
	CategoryTransport Category = "transport"
	CategoryFood      Category = "food"
	CategoryNational  Category = "national"
)

// Categories lists the categories in display order.
var Categories = []Category{CategoryTransport, CategoryFood, CategoryNational}

var categoryTitles = map[Category]string{
	CategoryTransport: "Transport",
	CategoryFood:      "Food",
	CategoryNational:  "National footprint",
}

// Title returns the display name of the category.
func (c Category) Title() string {
	if t, ok := categoryTitles[c]; ok {
		return t
	}
	return string(c)
}

// Factor converts grams of CO2e into a count of some everyday unit.
type Factor struct {
	ID       string   `yaml:"id" json:"id"`
	Category Category `yaml:"category" json:"category"`
	Label    string   `yaml:"label" json:"label"`
	Unit     string   `yaml:"unit" json:"unit"`

	// GramsPerUnit is the emission of one unit in grams CO2e.
	GramsPerUnit float64 `yaml:"grams_per_unit" json:"grams_per_unit"`

	// TonsPerCapitaYear is set for national factors instead of GramsPerUnit.
	TonsPerCapitaYear float64 `yaml:"tons_per_capita_year,omitempty" json:"tons_per_capita_year,omitempty"`
}

// Result is one equivalent of an emission.
type Result struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Unit     string   `json:"unit"`
	Value    float64  `json:"value"`
}

// Calculator turns emissions into equivalents. It is immutable and safe for
// concurrent use.
type Calculator struct {
	factors []Factor
}

type factorsFile struct {
	Equivalents []Factor `yaml:"equivalents"`
}

var (
	defaultCalc     *Calculator
	defaultCalcErr  error
	defaultCalcOnce sync.Once
)

// Load returns the calculator built from the embedded factors table.
func Load() (*Calculator, error) {
	defaultCalcOnce.Do(func() {
		defaultCalc, defaultCalcErr = Parse(factorsYAML)
	})
	return defaultCalc, defaultCalcErr
}

// Parse builds a calculator from a YAML factors table.
func Parse(data []byte) (*Calculator, error) {
	var file factorsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse equivalence factors: %w", err)
	}
	return NewCalculator(file.Equivalents)
}

// NewCalculator validates factors and builds a calculator. National factors
// are normalized from tons per capita per year to grams per day.
func NewCalculator(factors []Factor) (*Calculator, error) {
	seen := make(map[string]bool, len(factors))
	out := make([]Factor, 0, len(factors))

	for _, f := range factors {
		if f.ID == "" {
			return nil, fmt.Errorf("%w: factor without id", ErrInvalidFactor)
		}
		if seen[f.ID] {
			return nil, fmt.Errorf("%w: duplicate factor %s", ErrInvalidFactor, f.ID)
		}
		seen[f.ID] = true

		if f.TonsPerCapitaYear > 0 {
			f.GramsPerUnit = f.TonsPerCapitaYear * gramsPerMetricTon / daysPerYear
		}
		if f.GramsPerUnit <= 0 {
			return nil, fmt.Errorf("%w: %s has no positive emission per unit", ErrInvalidFactor, f.ID)
		}
		if _, ok := categoryTitles[f.Category]; !ok {
			return nil, fmt.Errorf("%w: %s has unknown category %q", ErrInvalidFactor, f.ID, f.Category)
		}
		out = append(out, f)
	}

	log().Debug().Int("factors", len(out)).Msg("equivalence factors loaded")

	return &Calculator{factors: out}, nil
}

// Factors returns the normalized factors in table order.
func (c *Calculator) Factors() []Factor {
	return append([]Factor(nil), c.factors...)
}

// Calculate returns every equivalent of gramsCO2e in table order.
// Negative emissions have no meaningful equivalent and yield no results.
func (c *Calculator) Calculate(gramsCO2e float64) []Result {
	if gramsCO2e < 0 {
		return []Result{}
	}

	results := make([]Result, 0, len(c.factors))
	for _, f := range c.factors {
		results = append(results, Result{
			ID:       f.ID,
			Category: f.Category,
			Label:    f.Label,
			Unit:     f.Unit,
			Value:    gramsCO2e / f.GramsPerUnit,
		})
	}
	return results
}

// CalculateCategory is Calculate restricted to one category, in table order.
func (c *Calculator) CalculateCategory(gramsCO2e float64, category Category) []Result {
	all := c.Calculate(gramsCO2e)
	out := all[:0]
	for _, r := range all {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}
