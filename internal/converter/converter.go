// =============================================================================
// Prisme Transactions - Converter Module
// =============================================================================
//
// This module contains the core batch logic. It orchestrates the pipeline for
// a single input file, from reading rows to writing the Prisme upload file.
//
// CONVERSION PIPELINE:
//   1. Read the input file (.csv or .xlsx) into rows
//   2. Rename columns and add the profile's static fields
//   3. Apply transformation rules to each row
//   4. Validate every row against the encoder schema
//   5. Encode each row with a writer owned by this file
//   6. Join the records with CRLF and write the output file
//   7. Archive the input and output files
//
// CONCURRENCY:
//   A Converter handles one file. Every Run builds its own Encoder, so
//   converters for different files can run in parallel (see ProcessFiles).
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ginjaninja78/prisme-transactions/internal/config"
	"github.com/ginjaninja78/prisme-transactions/internal/csvparser"
	"github.com/ginjaninja78/prisme-transactions/internal/types"
	"github.com/ginjaninja78/prisme-transactions/internal/validation"
	"github.com/ginjaninja78/prisme-transactions/internal/xlsxparser"
	"github.com/ginjaninja78/prisme-transactions/pkg/utils"
)

// RecordSeparator joins the records of an output file.
const RecordSeparator = "\r\n"

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// Profile is the code of the profile used, if one was found.
	Profile string

	// Format is the output format.
	Format string

	// OutputFile is the path to the generated file. It is empty if
	// processing failed or was a dry run.
	OutputFile string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats

	// Problems lists the row-level errors found, for the error log.
	Problems []utils.ErrorLogEntry
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// RowsRead is the number of non-empty data rows in the input.
	RowsRead int

	// RowsEncoded is the number of rows written as records.
	RowsEncoded int

	// RowsSkipped is the number of rows left out because of errors. Only
	// non-zero when ContinueOnError is set.
	RowsSkipped int

	// Lines is the number of lines in the output file.
	Lines int

	ValidationErrors   int
	ValidationWarnings int

	// Total is the sum of the encoded record amounts.
	Total *money.Money

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter converts a single input file.
type Converter struct {
	inputPath  string
	profile    *config.ProfileConfig
	mainConfig *config.MainConfig

	files      *utils.FileManager
	logger     zerolog.Logger
	newEncoder EncoderFactory
	clock      func() time.Time
	dryRun     bool
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger. The default is the global zerolog logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Converter) { c.logger = logger }
}

// WithEncoderFactory replaces NewEncoder.
func WithEncoderFactory(f EncoderFactory) Option {
	return func(c *Converter) { c.newEncoder = f }
}

// WithClock sets the source of the run date and output timestamps.
func WithClock(clock func() time.Time) Option {
	return func(c *Converter) { c.clock = clock }
}

// WithDryRun reads, validates and encodes without writing or archiving.
func WithDryRun(dryRun bool) Option {
	return func(c *Converter) { c.dryRun = dryRun }
}

// WithFileManager sets the file manager used for output and archival. The
// default is built from the main configuration directories.
func WithFileManager(fm *utils.FileManager) Option {
	return func(c *Converter) { c.files = fm }
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a Converter for inputPath using profile.
func New(inputPath string, profile *config.ProfileConfig, mainConfig *config.MainConfig, opts ...Option) *Converter {
	c := &Converter{
		inputPath:  inputPath,
		profile:    profile,
		mainConfig: mainConfig,
		logger:     log.Logger,
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.files == nil {
		c.files = utils.NewFileManager(mainConfig.InputDir, mainConfig.OutputDir,
			mainConfig.InputArchiveDir, mainConfig.OutputArchiveDir)
	}
	if c.newEncoder == nil {
		c.newEncoder = DefaultEncoderFactory(c.clock)
	}
	c.logger = c.logger.With().
		Str("file", filepath.Base(inputPath)).
		Str("profile", profile.Code).
		Logger()
	return c
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline for the file. Cancelling ctx stops encoding
// between rows; nothing is written for a cancelled run.
func (c *Converter) Run(ctx context.Context) Result {
	startTime := c.clock()
	result := Result{
		FilePath: c.inputPath,
		Profile:  c.profile.Code,
		Format:   c.profile.Format,
		Stats:    ProcessingStats{Total: money.New(0, money.DKK)},
	}
	c.run(ctx, &result)
	result.Stats.ProcessingTime = c.clock().Sub(startTime)
	return result
}

func (c *Converter) run(ctx context.Context, result *Result) {
	fail := func(errorType string, err error) {
		result.Error = err
		result.Problems = append(result.Problems, c.problem(errorType, 0, "", "", err.Error()))
		c.logger.Error().Err(err).Msg("Conversion failed")
	}

	c.logger.Info().Str("format", c.profile.Format).Msg("Processing file")

	// =========================================================================
	// STEP 1: READ INPUT
	// =========================================================================

	table, err := ReadTable(c.inputPath, c.profile.CSVSettings)
	if err != nil {
		fail(utils.ErrorTypeRead, fmt.Errorf("failed to read input: %w", err))
		return
	}
	result.Stats.RowsRead = len(table.Rows)
	c.logger.Debug().Int("rows", len(table.Rows)).Strs("headers", table.Headers).Msg("Read input")

	// =========================================================================
	// STEP 2-3: MAP COLUMNS AND TRANSFORM
	// =========================================================================

	rows := MapRows(table, c.profile)
	transformer := NewTransformer(c.profile.TransformationRules)
	for i := range rows {
		if err := transformer.TransformRow(&rows[i]); err != nil {
			fail(utils.ErrorTypeTransform, fmt.Errorf("failed to apply transformations: %w", err))
			return
		}
	}
	c.logger.Debug().Int("rules", len(c.profile.TransformationRules)).Msg("Applied transformation rules")

	// =========================================================================
	// STEP 4: VALIDATE
	// =========================================================================

	encoder, err := c.newEncoder(c.profile)
	if err != nil {
		fail(utils.ErrorTypeEncoding, fmt.Errorf("failed to create %s encoder: %w", c.profile.Format, err))
		return
	}
	result.Format = encoder.Format()

	validated := validation.NewValidator(encoder.Schema()).ValidateAll(rows)
	result.Stats.ValidationErrors = validated.ErrorCount
	result.Stats.ValidationWarnings = validated.WarningCount
	for _, ve := range validated.Errors {
		c.logger.Warn().Int("row", ve.Row).Str("field", ve.Field).Str("severity", ve.Severity).Msg(ve.Message)
		if ve.Severity == validation.SeverityError {
			result.Problems = append(result.Problems,
				c.problem(utils.ErrorTypeValidation, ve.Row, ve.Field, ve.Value, ve.Message))
		}
	}
	if !validated.IsValid && !c.mainConfig.ContinueOnError {
		fail(utils.ErrorTypeValidation, fmt.Errorf("validation failed with %d errors", validated.ErrorCount))
		return
	}
	c.logger.Debug().
		Int("errors", validated.ErrorCount).
		Int("warnings", validated.WarningCount).
		Msg("Validation complete")

	// =========================================================================
	// STEP 5: ENCODE
	// =========================================================================

	invalid := validated.InvalidRows()
	records := make([]string, 0, len(rows))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			result.Error = err
			return
		}
		if invalid[row.Number] {
			result.Stats.RowsSkipped++
			continue
		}

		rec, err := encoder.Encode(row)
		if err != nil {
			result.Problems = append(result.Problems,
				c.problem(utils.ErrorTypeEncoding, row.Number, "", "", err.Error()))
			if !c.mainConfig.ContinueOnError {
				result.Error = fmt.Errorf("row %d: %w", row.Number, err)
				c.logger.Error().Err(result.Error).Msg("Conversion failed")
				return
			}
			c.logger.Warn().Int("row", row.Number).Err(err).Msg("Skipping row")
			result.Stats.RowsSkipped++
			continue
		}

		records = append(records, rec.Text)
		result.Stats.RowsEncoded++
		result.Stats.Lines += rec.Lines
		if total, err := result.Stats.Total.Add(money.New(rec.AmountOre, money.DKK)); err == nil {
			result.Stats.Total = total
		}
	}

	if len(records) == 0 {
		fail(utils.ErrorTypeEncoding, fmt.Errorf("no records to write"))
		return
	}
	c.logger.Debug().
		Int("records", len(records)).
		Int("lines", result.Stats.Lines).
		Str("total", result.Stats.Total.Display()).
		Msg("Encoded rows")

	if c.dryRun {
		result.Success = true
		c.logger.Info().Int("records", len(records)).Msg("Dry run, no output written")
		return
	}

	// =========================================================================
	// STEP 6: WRITE OUTPUT
	// =========================================================================

	outputPath, err := c.writeOutput(strings.Join(records, RecordSeparator), encoder.Format())
	if err != nil {
		fail(utils.ErrorTypeWrite, fmt.Errorf("failed to write output: %w", err))
		return
	}
	result.OutputFile = outputPath
	c.logger.Info().Str("output", outputPath).Int("records", len(records)).Msg("Wrote output")

	// =========================================================================
	// STEP 7: ARCHIVE FILES
	// =========================================================================

	if err := c.archiveFiles(outputPath); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to archive files")
	}

	result.Success = true
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// ReadTable reads a .csv or .xlsx file.
func ReadTable(path string, settings config.CSVSettings) (*types.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return csvparser.Parse(path, settings)
	case ".xlsx", ".xlsm":
		return xlsxparser.Parse(path, settings)
	}
	return nil, fmt.Errorf("unsupported input file type %q", filepath.Ext(path))
}

// MapRows renames each row's headers through the profile column mapping
// and fills the static fields. When two headers map to the same field the
// first non-empty value wins.
func MapRows(table *types.Table, profile *config.ProfileConfig) []types.Row {
	rows := make([]types.Row, len(table.Rows))
	for i, src := range table.Rows {
		fields := make(map[string]string, len(src.Fields)+len(profile.StaticFields))
		for _, header := range table.Headers {
			name := profile.FieldName(header)
			if fields[name] == "" {
				fields[name] = src.Fields[header]
			}
		}
		for _, sf := range profile.StaticFields {
			if fields[sf.Field] == "" {
				fields[sf.Field] = sf.Value
			}
		}
		rows[i] = types.Row{Number: src.Number, Fields: fields}
	}
	return rows
}

func (c *Converter) problem(errorType string, row int, fieldName, value, message string) utils.ErrorLogEntry {
	return utils.ErrorLogEntry{
		Timestamp:    c.clock(),
		FileName:     filepath.Base(c.inputPath),
		ErrorType:    errorType,
		ErrorMessage: message,
		RowNumber:    row,
		FieldName:    fieldName,
		FieldValue:   value,
	}
}

// writeOutput writes the joined records to a new file in the output
// directory.
func (c *Converter) writeOutput(content, format string) (string, error) {
	fileName := utils.GenerateOutputFileName(c.mainConfig.FileNameFormat, c.clock(), map[string]string{
		"profile": c.profile.Code,
		"format":  format,
	})
	outputPath := filepath.Join(c.files.OutputDir, fileName)

	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return outputPath, nil
}

// archiveFiles copies the output and moves the input to their archives.
func (c *Converter) archiveFiles(outputPath string) error {
	if _, err := c.files.ArchiveOutputFile(outputPath); err != nil {
		return err
	}
	archived, err := c.files.ArchiveInputFile(c.inputPath)
	if err != nil {
		return err
	}
	c.logger.Debug().Str("archive", archived).Msg("Archived input")
	return nil
}
