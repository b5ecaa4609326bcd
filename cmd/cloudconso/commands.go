package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/cloudconso/internal/carbon"
	"github.com/rshade/cloudconso/internal/equivalents"
	"github.com/rshade/cloudconso/internal/report"
	"github.com/rshade/cloudconso/internal/scenario"
	"github.com/rshade/cloudconso/internal/session"
	"github.com/rshade/cloudconso/internal/units"
	"github.com/rshade/cloudconso/internal/version"
)

// app carries what every command needs once the root command has run.
type app struct {
	config  cliConfig
	logger  zerolog.Logger
	catalog *carbon.Catalog
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}
	var logLevel string

	root := &cobra.Command{
		Use:          "cloudconso",
		Short:        "Estimate the yearly energy and carbon footprint of cloud resources",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides "+envLogLevel+")")

	root.AddCommand(
		newEstimateCmd(a),
		newCompareCmd(a),
		newProvidersCmd(a),
		newRegionsCmd(a),
		newGPUsCmd(a),
		newEquivalentsCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command, logLevel string) error {
	config, err := parseEnvConfig(newLogger(cmd.ErrOrStderr(), zerolog.WarnLevel))
	if err != nil {
		return err
	}
	if logLevel != "" {
		level, err := zerolog.ParseLevel(strings.ToLower(logLevel))
		if err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
		}
		config.LogLevel = level
	}

	a.config = config
	a.logger = newLogger(cmd.ErrOrStderr(), config.LogLevel)
	carbon.SetLogger(a.logger)
	equivalents.SetLogger(a.logger)

	a.catalog, err = carbon.LoadCatalog()
	if err != nil {
		return fmt.Errorf("load reference data: %w", err)
	}
	return nil
}

// outputFormat returns the --output flag when set, else the configured format.
func (a *app) outputFormat(cmd *cobra.Command, flag string) (outputFormat, error) {
	if !cmd.Flags().Changed("output") {
		return a.config.Output, nil
	}
	return parseOutputFormat(flag)
}

// resourceFlags maps command-line flags to resources.
var resourceFlags = []struct {
	name     string
	resource carbon.Resource
}{
	{"vcpus", carbon.ResourceVCPUCount},
	{"vcpu-utilization", carbon.ResourceVCPUUtilization},
	{"hdd", carbon.ResourceHDDStorage},
	{"ssd", carbon.ResourceSSDStorage},
	{"network", carbon.ResourceNetworkTransfer},
	{"memory", carbon.ResourceMemory},
	{"gpus", carbon.ResourceGPUCount},
	{"gpu-utilization", carbon.ResourceGPUUtilization},
}

// inputFlags are the flags that build a snapshot.
type inputFlags struct {
	provider string
	region   string
	gpuModel string
	scenario string
	values   map[carbon.Resource]*float64
}

func (f *inputFlags) register(cmd *cobra.Command, withLocation bool) {
	if withLocation {
		cmd.Flags().StringVar(&f.provider, "provider", "", "Cloud provider: AWS, GCP or Azure (default: first provider)")
		cmd.Flags().StringVar(&f.region, "region", "", "Region id of the provider (default: provider's first region)")
	}
	cmd.Flags().StringVar(&f.gpuModel, "gpu-model", "", "GPU model (see 'cloudconso gpus')")
	cmd.Flags().StringVar(&f.scenario, "scenario", "", "Load inputs from a YAML or JSON scenario file; flags override it")

	f.values = make(map[carbon.Resource]*float64, len(resourceFlags))
	for _, rf := range resourceFlags {
		b := carbon.ResourceBounds[rf.resource]
		v := new(float64)
		f.values[rf.resource] = v
		cmd.Flags().Float64Var(v, rf.name, 0,
			fmt.Sprintf("%s in %s (%s-%s)", b.Label, b.Unit, units.FormatNumber(b.Min), units.FormatNumber(b.Max)))
	}
}

// snapshot builds the input snapshot: scenario file first, then flags.
func (f *inputFlags) snapshot(cmd *cobra.Command, a *app) (session.Snapshot, error) {
	snap, err := session.New(a.catalog)
	if err != nil {
		return snap, err
	}

	if f.scenario != "" {
		sc, err := scenario.Load(f.scenario)
		if err != nil {
			return snap, err
		}
		if snap, err = sc.Apply(snap); err != nil {
			return snap, fmt.Errorf("apply scenario: %w", err)
		}
		a.logger.Debug().Str("path", f.scenario).Msg("scenario loaded")
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		p, err := a.catalog.ParseProvider(f.provider)
		if err != nil {
			return snap, err
		}
		if snap, err = snap.WithProvider(p); err != nil {
			return snap, err
		}
	}
	if flags.Changed("region") {
		if snap, err = snap.WithRegion(f.region); err != nil {
			return snap, err
		}
	}
	if flags.Changed("gpu-model") {
		snap = snap.WithGPUModel(f.gpuModel)
		if _, ok := a.catalog.GPUModel(f.gpuModel); !ok && f.gpuModel != "" {
			a.logger.Warn().Str("gpu_model", f.gpuModel).Msg("unknown GPU model, GPU consumption will be zero")
		}
	}

	for _, rf := range resourceFlags {
		if !flags.Changed(rf.name) {
			continue
		}
		v := *f.values[rf.resource]
		if b := carbon.ResourceBounds[rf.resource]; b.Clamp(v) != v {
			a.logger.Warn().
				Str("flag", rf.name).
				Float64("value", v).
				Float64("clamped", b.Clamp(v)).
				Msg("value out of range, clamping")
		}
		if snap, err = snap.WithQuantity(rf.resource, v); err != nil {
			return snap, err
		}
	}

	return snap, nil
}

func newEstimateCmd(a *app) *cobra.Command {
	var (
		inputs          inputFlags
		output          string
		components      []string
		decimals        int
		details         bool
		showEquivalents bool
		compare         bool
		save            string
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the yearly consumption and emissions of a set of resources",
		Example: `  cloudconso estimate --vcpus 2 --vcpu-utilization 50 --hdd 10
  cloudconso estimate --provider gcp --region europe-west1 --gpus 1 --gpu-model T4 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.outputFormat(cmd, output)
			if err != nil {
				return err
			}

			comps := a.config.Components
			if cmd.Flags().Changed("components") {
				if comps, err = parseComponents(components); err != nil {
					return err
				}
			}

			if !cmd.Flags().Changed("decimals") {
				decimals = a.config.Decimals
			} else if decimals < 0 {
				return fmt.Errorf("--decimals must be >= 0, got %d", decimals)
			}

			snap, err := inputs.snapshot(cmd, a)
			if err != nil {
				return err
			}

			opts := []report.Option{
				report.WithDecimals(decimals),
				report.WithComparison(compare),
			}
			if showEquivalents {
				eq, err := equivalents.Load()
				if err != nil {
					return fmt.Errorf("load equivalents: %w", err)
				}
				opts = append(opts, report.WithEquivalents(eq))
			}

			calc := carbon.NewCalculator(a.catalog, carbon.WithComponents(comps...))
			evaluator := session.NewEvaluator(report.NewBuilder(calc, opts...), a.logger)

			r, err := evaluator.Evaluate(snap)
			if err != nil {
				return err
			}

			if save != "" {
				if err := scenario.FromSnapshot(snap).Save(save); err != nil {
					return err
				}
				a.logger.Info().Str("path", save).Msg("scenario saved")
			}

			out := cmd.OutOrStdout()
			if format == outputJSON {
				return report.RenderJSON(out, r)
			}
			return report.RenderTable(out, r, report.TableOptions{
				ShowDetails:     details,
				ShowComparison:  compare,
				ShowEquivalents: showEquivalents,
			})
		},
	}

	inputs.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format: table or json (overrides "+envOutput+")")
	cmd.Flags().StringSliceVar(&components, "components", nil, "Components to include: all, base, or a list of compute,hdd,ssd,network,memory,gpu (overrides "+envComponents+")")
	cmd.Flags().IntVar(&decimals, "decimals", units.DefaultDecimals, "Decimals of per-component values (overrides "+envDecimals+")")
	cmd.Flags().BoolVar(&details, "details", false, "Show how each component is calculated")
	cmd.Flags().BoolVar(&showEquivalents, "equivalents", false, "Show everyday equivalents of the emissions")
	cmd.Flags().BoolVar(&compare, "compare", false, "Also compare the same resources across providers")
	cmd.Flags().StringVar(&save, "save", "", "Save the inputs as a scenario file (.yaml, .yml or .json)")

	return cmd
}

func newCompareCmd(a *app) *cobra.Command {
	var (
		inputs inputFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the same resources across providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.outputFormat(cmd, output)
			if err != nil {
				return err
			}

			snap, err := inputs.snapshot(cmd, a)
			if err != nil {
				return err
			}

			calc := carbon.NewCalculator(a.catalog, carbon.WithComponents(a.config.Components...))
			comparisons := calc.CompareProviders(snap.Quantities(), snap.GPUModel())

			if format == outputJSON {
				return report.RenderComparisonJSON(cmd.OutOrStdout(), comparisons)
			}
			return report.RenderComparisonTable(cmd.OutOrStdout(), comparisons)
		},
	}

	inputs.register(cmd, false)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format: table or json")
	return cmd
}

// providerInfo is the listing entry of a provider.
type providerInfo struct {
	Name          carbon.Provider   `json:"name"`
	PUE           float64           `json:"pue"`
	CPUPower      carbon.PowerRange `json:"cpu_power_kw"`
	Regions       int               `json:"regions"`
	DefaultRegion string            `json:"default_region"`
}

func newProvidersCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List cloud providers with their PUE and CPU power range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.outputFormat(cmd, output)
			if err != nil {
				return err
			}

			var infos []providerInfo
			for _, p := range a.catalog.Providers() {
				spec, _ := a.catalog.Provider(p)
				def, _ := a.catalog.DefaultRegion(p)
				infos = append(infos, providerInfo{
					Name:          p,
					PUE:           spec.PUE,
					CPUPower:      spec.CPUPower,
					Regions:       len(spec.Regions),
					DefaultRegion: def,
				})
			}

			if format == outputJSON {
				return report.WriteJSON(cmd.OutOrStdout(), infos)
			}
			return printProviders(cmd.OutOrStdout(), infos)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format: table or json")
	return cmd
}

func printProviders(w io.Writer, infos []providerInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROVIDER\tPUE\tCPU MIN (kW)\tCPU MAX (kW)\tREGIONS\tDEFAULT REGION")
	for _, p := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%d\t%s\n",
			p.Name, units.FormatNumber(p.PUE), p.CPUPower.Min, p.CPUPower.Max, p.Regions, p.DefaultRegion)
	}
	return tw.Flush()
}

// regionInfo is the listing entry of a region.
type regionInfo struct {
	Provider carbon.Provider `json:"provider"`
	ID       string          `json:"id"`
	Name     string          `json:"name"`

	// IntensityKgPerKWh is the grid intensity in kgCO2e/kWh.
	IntensityKgPerKWh float64 `json:"intensity_kg_per_kwh"`
}

func newRegionsCmd(a *app) *cobra.Command {
	var (
		provider string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List regions with their grid carbon intensity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.outputFormat(cmd, output)
			if err != nil {
				return err
			}

			providers := a.catalog.Providers()
			if provider != "" {
				p, err := a.catalog.ParseProvider(provider)
				if err != nil {
					return err
				}
				providers = []carbon.Provider{p}
			}

			var infos []regionInfo
			for _, p := range providers {
				for _, r := range a.catalog.Regions(p) {
					infos = append(infos, regionInfo{
						Provider:          p,
						ID:                r.ID,
						Name:              r.Name,
						IntensityKgPerKWh: r.Intensity * 1000,
					})
				}
			}

			if format == outputJSON {
				return report.WriteJSON(cmd.OutOrStdout(), infos)
			}
			return printRegions(cmd.OutOrStdout(), infos)
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Only list the regions of this provider")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format: table or json")
	return cmd
}

func printRegions(w io.Writer, infos []regionInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROVIDER\tREGION\tNAME\tINTENSITY (kgCO2e/kWh)")
	for _, r := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.3f\n", r.Provider, r.ID, r.Name, r.IntensityKgPerKWh)
	}
	return tw.Flush()
}

func newGPUsCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "gpus",
		Short: "List GPU models with their power draw",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.outputFormat(cmd, output)
			if err != nil {
				return err
			}

			if format == outputJSON {
				return report.WriteJSON(cmd.OutOrStdout(), a.catalog.GPUModels())
			}
			return printGPUs(cmd.OutOrStdout(), a.catalog)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format: table or json")
	return cmd
}

func printGPUs(w io.Writer, catalog *carbon.Catalog) error {
	if catalog.GPUModelCount() == 0 {
		fmt.Fprintln(w, "No GPU models.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tVENDOR\tIDLE (W)\tMAX (W)\tRELATIVE POWER")
	for _, g := range catalog.GPUModels() {
		rel, err := catalog.GPURelativePower(g.Name)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2fx\n",
			g.Name, g.Vendor, units.FormatNumber(g.IdleWatts), units.FormatNumber(g.MaxWatts), rel)
	}
	return tw.Flush()
}

func newEquivalentsCmd(a *app) *cobra.Command {
	var (
		output   string
		category string
	)

	cmd := &cobra.Command{
		Use:   "equivalents",
		Short: "List the factors used to express emissions in everyday terms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.outputFormat(cmd, output)
			if err != nil {
				return err
			}

			calc, err := equivalents.Load()
			if err != nil {
				return fmt.Errorf("load equivalents: %w", err)
			}

			var factors []equivalents.Factor
			for _, f := range calc.Factors() {
				if category == "" || strings.EqualFold(string(f.Category), category) {
					factors = append(factors, f)
				}
			}
			if len(factors) == 0 {
				return fmt.Errorf("no equivalents in category %q", category)
			}

			if format == outputJSON {
				return report.WriteJSON(cmd.OutOrStdout(), factors)
			}
			return printFactors(cmd.OutOrStdout(), factors)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only list this category: transport, food or national")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format: table or json")
	return cmd
}

func printFactors(w io.Writer, factors []equivalents.Factor) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tUNIT\tLABEL\tgCO2e PER UNIT")
	for _, f := range factors {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			f.ID, f.Category.Title(), f.Unit, f.Label, units.FormatNumber(carbon.RoundUp(f.GramsPerUnit, 1)))
	}
	return tw.Flush()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.Info())
		},
	}
}
