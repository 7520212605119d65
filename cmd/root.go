// =============================================================================
// Prisme Transactions - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (prisme)
//   ├── processCmd  (prisme process)
//   ├── exportCmd   (prisme export)
//   ├── validateCmd (prisme validate)
//   └── versionCmd  (prisme version)
//
// The root command owns the global flags and builds the logger before any
// subcommand runs.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/prisme-transactions/internal/config"
	"github.com/ginjaninja78/prisme-transactions/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// logger is built in PersistentPreRun and shared by every subcommand.
var logger = zerolog.Nop()

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "prisme",
	Short: "Prisme Transactions - Build G68, G69 and 10Q files for the Prisme ERP",
	Long: `Prisme Transactions converts batch exports (.csv or .xlsx) into the
fixed-format transaction files accepted by the Prisme ERP system:

  G68  payment lines (udbetalinger)
  G69  general-ledger postings (posteringer)
  10Q  debt-collection records (opkrævninger)

Each input file is matched to a profile in the configs directory. The profile
selects the output format, renames and cleans the input columns, and holds the
writer settings.

Example Usage:
  prisme process                        # Convert every file in the input directory
  prisme process --config ./prisme.toml # Use a custom configuration file
  prisme export batch.10q batch.xlsx    # Inspect a 10Q file in a spreadsheet
  prisme validate                       # Check the configuration without converting`,

	SilenceUsage: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (.yaml or .toml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// newLogger builds the logger from the configured log level. The main
// configuration is read a second time by the commands that need it; a
// missing or broken file leaves the level at info here and is reported by
// the command itself.
func newLogger() zerolog.Logger {
	level := "info"
	if mainConfig, err := config.LoadMainConfig(cfgFile); err == nil {
		level = mainConfig.LogLevel
	}
	if verbose {
		level = "debug"
	}
	return logging.New(level, os.Stderr)
}
