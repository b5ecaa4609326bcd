package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rshade/cloudconso/internal/carbon"
	"github.com/rshade/cloudconso/internal/equivalents"
	"github.com/rshade/cloudconso/internal/units"
)

// TableOptions controls which sections RenderTable renders.
type TableOptions struct {
	// ShowDetails adds a DETAIL column describing each component's calculation.
	ShowDetails bool

	// ShowComparison renders the provider comparison when the report has one.
	ShowComparison bool

	// ShowEquivalents renders the everyday equivalents when the report has them.
	ShowEquivalents bool
}

// equivalentDecimals is the precision of equivalent counts.
const equivalentDecimals = 1

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// RenderTable writes a human-readable report to w.
//
// Layout:
//
//	header (provider, region, GPU model)
//	COMPONENT  CONSUMPTION  [DETAIL]
//	totals
//	[provider comparison]
//	[equivalents]
func RenderTable(w io.Writer, r *Report, opts TableOptions) error {
	fmt.Fprintf(w, "Provider:   %s (PUE %s)\n", r.Provider, units.FormatNumber(r.PUE))
	fmt.Fprintf(w, "Region:     %s, %s (%.2f kgCO2e/kWh)\n", r.Region, r.RegionName, r.IntensityKgPerKWh)
	if r.GPUModel != "" {
		fmt.Fprintf(w, "GPU model:  %s\n", r.GPUModel)
	}
	fmt.Fprintln(w)

	tw := newTabWriter(w)
	if opts.ShowDetails {
		fmt.Fprintln(tw, "COMPONENT\tCONSUMPTION\tDETAIL")
	} else {
		fmt.Fprintln(tw, "COMPONENT\tCONSUMPTION")
	}
	for _, line := range r.Components {
		if opts.ShowDetails {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", line.Label, line.Display, line.Detail)
		} else {
			fmt.Fprintf(tw, "%s\t%s\n", line.Label, line.Display)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("render components: %w", err)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total consumption:  %s\n", r.Totals.ElectricDisplay)
	fmt.Fprintf(w, "CO2 emissions:      %s per year\n", r.Totals.CO2Display)

	if opts.ShowComparison && len(r.Comparisons) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Provider comparison")
		if err := RenderComparisonTable(w, r.Comparisons); err != nil {
			return err
		}
	}

	if opts.ShowEquivalents && len(r.Equivalents) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Equivalent to")
		tw := newTabWriter(w)
		var category equivalents.Category
		for _, eq := range r.Equivalents {
			if eq.Category != category {
				category = eq.Category
				fmt.Fprintf(tw, "  %s\n", category.Title())
			}
			fmt.Fprintf(tw, "    ~%s %s\t%s\n",
				units.FormatNumber(carbon.RoundUp(eq.Value, equivalentDecimals)), eq.Unit, eq.Label)
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("render equivalents: %w", err)
		}
	}

	return nil
}

// RenderComparisonTable writes one row per provider with its consumption and
// the CO2 emissions in its cleanest and average region.
func RenderComparisonTable(w io.Writer, comparisons []carbon.ProviderComparison) error {
	if len(comparisons) == 0 {
		fmt.Fprintln(w, "No providers.")
		return nil
	}

	tw := newTabWriter(w)
	fmt.Fprintln(tw, "PROVIDER\tPUE\tCONSUMPTION\tLOWEST REGION\tLOWEST CO2\tAVERAGE CO2")
	for _, c := range comparisons {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.Provider,
			units.FormatNumber(c.PUE),
			units.FormatUnit(c.TotalElectric, ElectricUnit, carbon.TotalDecimals),
			c.LowestRegion,
			units.FormatUnit(c.LowestCO2, CO2Unit, carbon.TotalDecimals),
			units.FormatUnit(c.AverageCO2, CO2Unit, carbon.TotalDecimals),
		)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("render comparison: %w", err)
	}
	return nil
}
