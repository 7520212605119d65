// =============================================================================
// Prisme Transactions - Validate Command
// =============================================================================
//
// COMMAND USAGE:
//   prisme validate
//
// Loads the main configuration and every profile, applying defaults and
// validation exactly as 'process' does, and checks that each profile can
// build its encoder. Nothing is read from the input directory.
//
// =============================================================================

package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/prisme-transactions/internal/config"
	"github.com/ginjaninja78/prisme-transactions/internal/converter"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration files without processing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	mainConfig, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load main config: %w", err)
	}
	fmt.Fprintf(out, "Main configuration %s is valid\n", cfgFile)

	profiles, err := config.LoadProfileConfigs(mainConfig.ConfigsDir)
	if err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}
	if len(profiles) == 0 {
		return fmt.Errorf("no profiles found in %s", mainConfig.ConfigsDir)
	}

	codes := make([]string, 0, len(profiles))
	for code := range profiles {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	failed := 0
	now := time.Now()
	for _, code := range codes {
		profile := profiles[code]
		if _, err := converter.NewEncoder(profile, now); err != nil {
			failed++
			fmt.Fprintf(out, "  ✗ %s: %v\n", code, err)
			continue
		}
		fmt.Fprintf(out, "  ✓ %s (%s) %v\n", code, profile.Format, profile.FileMatchingPatterns)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d profile(s) are invalid", failed, len(profiles))
	}
	logger.Debug().Int("profiles", len(profiles)).Msg("Configuration is valid")
	return nil
}
