package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/san-kum/cosmosim/internal/config"
	"github.com/san-kum/cosmosim/internal/logger"
	"github.com/san-kum/cosmosim/internal/random"
	"github.com/san-kum/cosmosim/internal/sim"
	"github.com/spf13/cobra"
)

var (
	cfg *config.Config

	configFile string
	dataPath   string
	seed       int64
	logLevel   string
	logJSON    bool
	preset     string
	depth      int
	treeDepth  int
	maxChild   int
	jsonOut    bool

	// orbit and verify
	samples    int
	periods    float64
	span       float64
	format     string
	outPath    string
	integrator string
	steps      int

	// show
	at float64

	// stats
	runs int
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cosmosim",
		Short:         "procedural cosmos generator and Kepler orbit engine",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			cfg = c
			logger.Init(cfg.Log)
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&dataPath, "db", config.DefaultDataPath, "sqlite database path")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 draws a fresh one)")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.BoolVar(&logJSON, "log-json", false, "log as JSON")

	generateCmd := &cobra.Command{
		Use:   "generate [kind]",
		Short: "generate and store a hierarchy",
		Args:  cobra.MaximumNArgs(1),
		RunE:  generate,
	}
	generateCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	generateCmd.Flags().IntVar(&depth, "depth", config.DefaultDepth, "levels below the root")
	generateCmd.Flags().IntVar(&maxChild, "max-children", config.DefaultMaxChildren, "new children per node")
	generateCmd.Flags().BoolVar(&jsonOut, "json", false, "print the hierarchy as JSON")

	expandCmd := &cobra.Command{
		Use:   "expand [id]",
		Short: "generate more children under a stored node",
		Args:  cobra.ExactArgs(1),
		RunE:  expand,
	}
	expandCmd.Flags().IntVar(&treeDepth, "depth", 1, "levels below the node")
	expandCmd.Flags().IntVar(&maxChild, "max-children", config.DefaultMaxChildren, "new children per node")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list generation runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "show a stored node and its descendants",
		Args:  cobra.ExactArgs(1),
		RunE:  show,
	}
	showCmd.Flags().IntVar(&treeDepth, "depth", 1, "levels of descendants to print")
	showCmd.Flags().Float64Var(&at, "at", 0, "seconds after generation for the absolute position")

	deleteCmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "delete a stored node and its descendants",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteTree,
	}

	orbitCmd := &cobra.Command{
		Use:   "orbit [id]",
		Short: "sample a node's orbit",
		Args:  cobra.ExactArgs(1),
		RunE:  plotOrbit,
	}
	orbitCmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "number of samples")
	orbitCmd.Flags().Float64Var(&periods, "periods", config.DefaultPeriods, "orbital periods to cover")
	orbitCmd.Flags().Float64Var(&span, "duration", 0, "seconds to cover (overrides periods)")
	orbitCmd.Flags().StringVar(&format, "format", "plot", "output format (plot, csv, json, svg)")
	orbitCmd.Flags().StringVar(&outPath, "out", "", "write csv/json/svg output to a file")

	verifyCmd := &cobra.Command{
		Use:   "verify [id]",
		Short: "compare Kepler propagation with numeric integration",
		Args:  cobra.ExactArgs(1),
		RunE:  verify,
	}
	verifyCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator name or 'all'")
	verifyCmd.Flags().IntVar(&steps, "steps", sim.DefaultStepsPerPeriod, "integration steps per period")
	verifyCmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "comparison points")
	verifyCmd.Flags().Float64Var(&periods, "periods", config.DefaultPeriods, "orbital periods to cover")

	regenCmd := &cobra.Command{
		Use:   "regen [id]",
		Short: "rebuild a stored structure from its seed",
		Args:  cobra.ExactArgs(1),
		RunE:  regen,
	}
	regenCmd.Flags().IntVar(&treeDepth, "depth", 1, "levels below the structure")
	regenCmd.Flags().IntVar(&maxChild, "max-children", config.DefaultMaxChildren, "new children per node")

	browseCmd := &cobra.Command{
		Use:   "browse [id]",
		Short: "browse stored hierarchies interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  browse,
	}

	statsCmd := &cobra.Command{
		Use:   "stats [kind]",
		Short: "generate many hierarchies and summarize counts per kind",
		Args:  cobra.MaximumNArgs(1),
		RunE:  stats,
	}
	statsCmd.Flags().IntVar(&runs, "runs", 20, "number of seeded runs")
	statsCmd.Flags().IntVar(&depth, "depth", config.DefaultDepth, "levels below the root")
	statsCmd.Flags().IntVar(&maxChild, "max-children", config.DefaultMaxChildren, "new children per node")

	presetsCmd := &cobra.Command{
		Use:   "presets [kind]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	rootCmd.AddCommand(generateCmd, expandCmd, listCmd, showCmd, deleteCmd, regenCmd, orbitCmd, verifyCmd, browseCmd, statsCmd, presetsCmd)
	return rootCmd
}

// resolveConfig layers defaults, the config file, COSMOSIM_* variables and
// explicitly set flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	c := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		c = loaded
	}
	if err := c.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		c.DataPath = dataPath
	}
	if flags.Changed("seed") {
		c.Seed = seed
	}
	if flags.Changed("log-level") {
		c.Log.Level = logLevel
	}
	if flags.Changed("log-json") {
		c.Log.JSON = logJSON
	}
	if flags.Changed("depth") {
		c.Depth = depth
	}
	if flags.Changed("max-children") {
		c.MaxChildren = maxChild
	}
	if flags.Changed("samples") {
		c.Track.Samples = samples
	}
	if flags.Changed("periods") {
		c.Track.Periods = periods
	}
	return c, c.Validate()
}

func resolveSeed() (int64, error) {
	if cfg.Seed != 0 {
		return cfg.Seed, nil
	}
	return random.NewSeed()
}
