package cmd

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	dynstr "github.com/ahrav/go-dynstr"
)

var runFlags struct {
	iterations  int
	size        int
	allocator   string
	scenarios   []string
	profile     bool
	profileAddr string
	trace       bool
	tracePath   string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run benchmark scenarios",
	Long: `Run every scenario (or the ones named with --scenario) and print a
timing table. Flags override values read from --config.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cfgFile)
		if err != nil {
			return err
		}
		overrideFromFlags(cmd, &cfg)
		cfg.applyDefaults()
		if err := cfg.validate(); err != nil {
			return err
		}
		return runBenchmarks(cmd, cfg)
	},
}

func init() {
	f := runCmd.Flags()
	f.IntVarP(&runFlags.iterations, "iterations", "n", defaultIterations, "iterations per scenario and side")
	f.IntVarP(&runFlags.size, "size", "s", defaultSize, "payload size in bytes")
	f.StringVar(&runFlags.allocator, "allocator", defaultAllocator, "heap source: default, recycling or tracking")
	f.StringSliceVar(&runFlags.scenarios, "scenario", nil, "scenarios to run (default all)")
	f.BoolVar(&runFlags.profile, "profile", false, "serve pprof endpoints while running")
	f.StringVar(&runFlags.profileAddr, "profile-addr", defaultProfileAddr, "pprof listen address")
	f.BoolVar(&runFlags.trace, "trace", false, "record an execution trace")
	f.StringVar(&runFlags.tracePath, "trace-path", defaultTracePath, "execution trace output file")

	rootCmd.AddCommand(runCmd)
}

// overrideFromFlags copies explicitly set flags over cfg.
func overrideFromFlags(cmd *cobra.Command, cfg *Config) {
	f := cmd.Flags()
	if f.Changed("iterations") {
		cfg.Iterations = runFlags.iterations
	}
	if f.Changed("size") {
		cfg.Size = runFlags.size
	}
	if f.Changed("allocator") {
		cfg.Allocator = runFlags.allocator
	}
	if f.Changed("scenario") {
		cfg.Scenarios = runFlags.scenarios
	}
	if f.Changed("profile") {
		cfg.Profiling.EnableProfiling = runFlags.profile
	}
	if f.Changed("profile-addr") {
		cfg.Profiling.ProfileAddr = runFlags.profileAddr
	}
	if f.Changed("trace") {
		cfg.Profiling.Trace = runFlags.trace
	}
	if f.Changed("trace-path") {
		cfg.Profiling.TraceOutputPath = runFlags.tracePath
	}
}

func runBenchmarks(cmd *cobra.Command, cfg Config) error {
	selected, err := selectScenarios(cfg.Scenarios)
	if err != nil {
		return err
	}
	alloc, report, err := buildAllocator(cfg.Allocator)
	if err != nil {
		return err
	}
	opts := []dynstr.Option{dynstr.WithAllocator(alloc)}

	prof := newProfiler(cfg.Profiling, logger)
	if err := prof.start(); err != nil {
		return err
	}
	defer prof.stop()

	logger.Info().
		Int("iterations", cfg.Iterations).
		Int("size", cfg.Size).
		Str("allocator", cfg.Allocator).
		Int("scenarios", len(selected)).
		Msg("starting run")

	p := newPayload(cfg.Size)
	results := make([]result, 0, len(selected))
	for _, sc := range selected {
		r, err := runScenario(cmd.Context(), sc, p, cfg.Iterations, opts, logger)
		if err != nil {
			return err
		}
		results = append(results, r)
	}

	printResults(cmd.OutOrStdout(), results)
	return report(logger)
}

// allocReport logs allocator statistics after a run and reports problems
// they reveal.
type allocReport func(log zerolog.Logger) error

func buildAllocator(name string) (dynstr.Allocator, allocReport, error) {
	switch name {
	case "recycling":
		r, err := dynstr.NewRecyclingAllocator(0)
		if err != nil {
			return nil, nil, err
		}
		return r, func(log zerolog.Logger) error {
			st := r.Stats()
			log.Info().
				Uint64("hits", st.Hits).
				Uint64("misses", st.Misses).
				Int("retained", st.Retained).
				Int("classes", st.Classes).
				Msg("recycling allocator")
			r.Purge()
			return nil
		}, nil
	case "tracking":
		t := dynstr.NewTrackingAllocator(nil, 0)
		return t, func(log zerolog.Logger) error {
			st := t.Stats()
			log.Info().
				Uint64("allocs", st.Allocs).
				Uint64("frees", st.Frees).
				Int("peak_bytes", st.PeakBytes).
				Msg("tracking allocator")
			if n := st.Outstanding(); n != 0 {
				return fmt.Errorf("%d allocations (%d bytes) never freed", n, st.LiveBytes)
			}
			return nil
		}, nil
	default:
		return nil, func(zerolog.Logger) error { return nil }, nil
	}
}

func printResults(w io.Writer, results []result) {
	fmt.Fprintf(w, "%-12s %14s %14s %8s\n", "SCENARIO", "DYNSTR ns/op", "STD ns/op", "RATIO")
	for _, r := range results {
		fmt.Fprintf(w, "%-12s %14.1f %14.1f %8.2f\n", r.Name, r.DynNsOp, r.StdNsOp, r.Ratio())
	}
}
