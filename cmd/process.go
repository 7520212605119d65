// =============================================================================
// Prisme Transactions - Process Command
// =============================================================================
//
// This file defines the 'process' command, the main command of the tool. It
// runs the batch pipeline over every input file.
//
// COMMAND USAGE:
//   prisme process [flags]
//
// FLAGS:
//   --dry-run  : Read, validate and encode without writing or archiving
//   --file     : Process this file instead of scanning the input directory
//   --profile  : Process only files matched to this profile code
//
// PROCESSING PIPELINE:
//   1. Load the main configuration and the profiles
//   2. Discover .csv and .xlsx files in the input directory
//   3. Match each file to a profile
//   4. Convert the files concurrently (see converter.ProcessFiles)
//   5. Write the error log and the processing summary
//   6. Remove expired archives
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/prisme-transactions/internal/config"
	"github.com/ginjaninja78/prisme-transactions/internal/converter"
	"github.com/ginjaninja78/prisme-transactions/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	dryRun      bool
	filePath    string
	profileCode string
)

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Convert input files to Prisme transaction files",
	Long: `The process command scans the input directory for .csv and .xlsx files,
matches each to a profile, and writes one G68, G69 or 10Q file per input.

Files are converted concurrently, up to max_concurrency at a time. Every
file gets its own writer, so line numbers start at 1 in each output file.

On success:
  - The output file is placed in the output directory and copied to the
    output archive
  - The input file is moved to the input archive

On error:
  - An error log is written to the output directory
  - The input file stays in the input directory
  - Other files are still processed`,

	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runProcess(ctx, cmd)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"Read, validate and encode without writing output files")
	processCmd.Flags().StringVar(&filePath, "file", "",
		"Process only this file")
	processCmd.Flags().StringVar(&profileCode, "profile", "",
		"Process only files matched to this profile code")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runProcess(ctx context.Context, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	summary := utils.ProcessingSummary{StartTime: time.Now()}

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	mainConfig, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load main config: %w", err)
	}
	profiles, err := config.LoadProfileConfigs(mainConfig.ConfigsDir)
	if err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}
	if profileCode != "" {
		if _, ok := profiles[profileCode]; !ok {
			return fmt.Errorf("unknown profile %q", profileCode)
		}
	}
	logger.Info().Int("profiles", len(profiles)).Str("config", cfgFile).Msg("Loaded configuration")

	// =========================================================================
	// STEP 2: DISCOVER INPUT FILES
	// =========================================================================

	files := utils.NewFileManager(mainConfig.InputDir, mainConfig.OutputDir,
		mainConfig.InputArchiveDir, mainConfig.OutputArchiveDir)
	if err := files.EnsureDirectories(); err != nil {
		return err
	}

	var inputFiles []string
	if filePath != "" {
		if !utils.FileExists(filePath) {
			return fmt.Errorf("input file %s does not exist", filePath)
		}
		inputFiles = []string{filePath}
	} else if inputFiles, err = files.DiscoverInputFiles(utils.DefaultInputPatterns...); err != nil {
		return fmt.Errorf("failed to discover input files: %w", err)
	}

	jobs := converter.PlanJobs(inputFiles, profiles, profileCode)
	if len(jobs) == 0 {
		logger.Info().Str("dir", mainConfig.InputDir).Msg("No input files to process")
		return nil
	}
	logger.Info().Int("files", len(jobs)).Bool("dry_run", dryRun).Msg("Processing files")

	// =========================================================================
	// STEP 3: CONVERT
	// =========================================================================

	results := converter.ProcessFiles(ctx, jobs, mainConfig,
		converter.WithLogger(logger),
		converter.WithDryRun(dryRun),
		converter.WithFileManager(files),
	)

	// =========================================================================
	// STEP 4: COLLECT RESULTS
	// =========================================================================

	var problems []utils.ErrorLogEntry
	summary.TotalFiles = len(results)
	for _, result := range results {
		name := filepath.Base(result.FilePath)
		summary.TotalRows += result.Stats.RowsRead
		summary.ValidationErrors += result.Stats.ValidationErrors
		problems = append(problems, result.Problems...)

		if !result.Success {
			summary.FailedFiles++
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    name,
				ErrorMessage: result.Error.Error(),
			})
			if len(result.Problems) == 0 {
				problems = append(problems, utils.ErrorLogEntry{
					Timestamp:    time.Now(),
					FileName:     name,
					ErrorType:    utils.ErrorTypeRead,
					ErrorMessage: result.Error.Error(),
				})
			}
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, result.Error)
			continue
		}

		summary.SuccessfulFiles++
		summary.TotalRecords += result.Stats.RowsEncoded
		summary.TotalLines += result.Stats.Lines
		info := utils.ProcessedFileInfo{
			InputFile:   name,
			OutputFile:  filepath.Base(result.OutputFile),
			Profile:     result.Profile,
			Format:      result.Format,
			Rows:        result.Stats.RowsRead,
			Records:     result.Stats.RowsEncoded,
			Lines:       result.Stats.Lines,
			Skipped:     result.Stats.RowsSkipped,
			ProcessTime: result.Stats.ProcessingTime,
		}
		if result.Stats.Total != nil {
			info.Total = result.Stats.Total.Display()
		}
		summary.ProcessedFiles = append(summary.ProcessedFiles, info)

		if dryRun {
			fmt.Fprintf(out, "  ✓ %s (%d records, dry run)\n", name, result.Stats.RowsEncoded)
		} else {
			fmt.Fprintf(out, "  ✓ %s -> %s\n", name, info.OutputFile)
		}
	}
	summary.EndTime = time.Now()

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total files:     %d\n", summary.TotalFiles)
	fmt.Fprintf(out, "Successful:      %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(out, "Errors:          %d\n", summary.FailedFiles)
	fmt.Fprintf(out, "Time elapsed:    %s\n", summary.EndTime.Sub(summary.StartTime).Round(time.Millisecond))

	// =========================================================================
	// STEP 5: WRITE RUN LOGS
	// =========================================================================

	if !dryRun {
		if err := writeRunLogs(summary, problems, mainConfig.OutputDir); err != nil {
			logger.Error().Err(err).Msg("Failed to write run logs")
		}
	}

	// =========================================================================
	// STEP 6: CLEAN ARCHIVES
	// =========================================================================

	if mainConfig.ArchiveRetentionDays > 0 && !dryRun {
		maxAge := time.Duration(mainConfig.ArchiveRetentionDays) * 24 * time.Hour
		for _, dir := range []string{mainConfig.InputArchiveDir, mainConfig.OutputArchiveDir} {
			removed, err := utils.CleanOldArchives(dir, maxAge)
			if err != nil {
				logger.Warn().Err(err).Str("dir", dir).Msg("Failed to clean archive")
				continue
			}
			if removed > 0 {
				logger.Info().Int("removed", removed).Str("dir", dir).Msg("Removed expired archives")
			}
		}
	}

	if summary.FailedFiles > 0 {
		return fmt.Errorf("%d of %d file(s) failed", summary.FailedFiles, summary.TotalFiles)
	}
	return nil
}

// writeRunLogs writes the error log, when there are problems, and the
// processing summary.
func writeRunLogs(summary utils.ProcessingSummary, problems []utils.ErrorLogEntry, dir string) error {
	errorLog, err := utils.WriteErrorLog(problems, dir)
	if err != nil {
		return err
	}
	if errorLog != "" {
		logger.Warn().Str("path", errorLog).Int("errors", len(problems)).Msg("Wrote error log")
	}

	summaryLog, err := utils.WriteSummaryLog(summary, dir)
	if err != nil {
		return err
	}
	logger.Info().Str("path", summaryLog).Msg("Wrote processing summary")
	return nil
}
