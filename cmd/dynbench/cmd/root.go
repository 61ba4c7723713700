package cmd

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool

	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "dynbench",
	Short: "Benchmark harness for DynString",
	Long: `dynbench times DynString workloads against their bytes/strings
equivalents and reports ns/op for each side.

Scenarios:
  append      - build a value from 16-byte chunks
  set-clear   - repeatedly overwrite and clear one value
  find        - locate a needle near the end of the payload
  replace     - growing substitution of every separator
  split-join  - split on a separator and join with another
  case        - upper- then lower-case the payload
  trim        - strip surrounding whitespace`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger = newLogger(cmd.ErrOrStderr(), verbose)
	},
}

// Execute runs the root command under ctx.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		log := newLogger(os.Stderr, verbose)
		log.Error().Err(err).Msg("dynbench failed")
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "run config file (.toml, .yaml or .yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// newLogger returns a human-readable console logger; verbose enables debug
// events.
func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(cw).Level(level).With().Timestamp().Logger()
}
