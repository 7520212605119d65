// =============================================================================
// Prisme Transactions - Export Command
// =============================================================================
//
// COMMAND USAGE:
//   prisme export <10q-file> <xlsx-file> [--display-amounts]
//
// Reads a 10Q file, groups its lines into one row per debtor transaction and
// writes the rows to an .xlsx workbook for inspection. Lines with an unknown
// transaction type are logged and left out.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/prisme-transactions/internal/tenq"
	"github.com/ginjaninja78/prisme-transactions/internal/xlsxwriter"
)

var displayAmounts bool

var exportCmd = &cobra.Command{
	Use:   "export <10q-file> <xlsx-file>",
	Short: "Export a 10Q file to an .xlsx workbook",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().BoolVar(&displayAmounts, "display-amounts", false,
		"Write amounts as formatted kroner instead of raw øre fields")
}

func runExport(cmd *cobra.Command, inputPath, outputPath string) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open 10Q file: %w", err)
	}
	defer f.Close()

	unknown := 0
	groups, err := tenq.ReadGroups(f, func(lineNo int, transType string) {
		unknown++
		logger.Warn().Int("line", lineNo).Str("trans_type", transType).Msg("Skipping unknown 10Q line")
	})
	if err != nil {
		return err
	}

	if err := xlsxwriter.SaveGroupsWithOptions(groups, outputPath, xlsxwriter.Options{DisplayAmounts: displayAmounts}); err != nil {
		return err
	}

	logger.Info().
		Str("input", inputPath).
		Str("output", outputPath).
		Int("transactions", len(groups)).
		Int("skipped_lines", unknown).
		Msg("Exported 10Q file")
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transaction(s) to %s\n", len(groups), outputPath)
	return nil
}
