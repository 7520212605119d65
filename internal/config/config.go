// =============================================================================
// Prisme Transactions - Configuration Module
// =============================================================================
//
// This module loads the main application configuration and the per-profile
// configurations that describe how one kind of input file becomes one kind
// of Prisme upload file.
//
// CONFIGURATION FILES:
//   1. Main Config (config.yaml or config.toml): global settings
//   2. Profile Configs (configs/*.yaml, *.yml, *.toml): one per input source
//
// FILE FORMATS:
//   Files ending in ".toml" are decoded with BurntSushi/toml. Every other
//   extension is decoded as YAML. Both formats use the same keys.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// OUTPUT FORMATS
// =============================================================================

// Output formats a profile can produce.
const (
	FormatG68 = "g68"
	FormatG69 = "g69"
	Format10Q = "10q"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for .csv and .xlsx files to convert.
	// Default: "./input"
	InputDir string `yaml:"input_dir" toml:"input_dir"`

	// OutputDir receives the generated Prisme files, error logs and
	// processing summaries.
	// Default: "./output"
	OutputDir string `yaml:"output_dir" toml:"output_dir"`

	// InputArchiveDir receives input files after successful conversion.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir" toml:"input_archive_dir"`

	// OutputArchiveDir receives a copy of every generated file.
	// Default: "./output_archive"
	OutputArchiveDir string `yaml:"output_archive_dir" toml:"output_archive_dir"`

	// ConfigsDir holds the profile configurations.
	// Default: "./configs"
	ConfigsDir string `yaml:"configs_dir" toml:"configs_dir"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel is one of "trace", "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level" toml:"log_level"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// FileNameFormat is the output file name template.
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {profile}   - Profile code
	//   {format}    - Output format (g68, g69, 10q)
	// Default: "{profile}_{format}_{timestamp}_{uuid}.txt"
	FileNameFormat string `yaml:"file_name_format" toml:"file_name_format"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency bounds the number of files converted at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency" toml:"max_concurrency"`

	// ContinueOnError writes the output file even when some rows fail
	// validation or encoding. Failing rows are left out and logged.
	// Default: false
	ContinueOnError bool `yaml:"continue_on_error" toml:"continue_on_error"`

	// ArchiveRetentionDays removes archived files older than this many days
	// at the end of a run. 0 keeps archives forever.
	// Default: 0
	ArchiveRetentionDays int `yaml:"archive_retention_days" toml:"archive_retention_days"`
}

// =============================================================================
// PROFILE CONFIGURATION STRUCTURE
// =============================================================================

// ProfileConfig describes one input source: which files it owns, how to read
// them, how to clean their cells and which Prisme format to write.
type ProfileConfig struct {
	// Name is the human-readable name used in logs.
	Name string `yaml:"name" toml:"name"`

	// Code is a short identifier used in output file names. Defaults to the
	// configuration file name without extension.
	Code string `yaml:"code" toml:"code"`

	// Format selects the output format: "g68", "g69" or "10q".
	Format string `yaml:"format" toml:"format"`

	// FileMatchingPatterns are glob patterns matched against input file
	// names, e.g. "udbetaling_*.csv".
	FileMatchingPatterns []string `yaml:"file_matching_patterns" toml:"file_matching_patterns"`

	// CSVSettings controls how tabular input is read.
	CSVSettings CSVSettings `yaml:"csv_settings" toml:"csv_settings"`

	// ColumnMapping renames input headers to the field names the encoder
	// expects. Unmapped headers are used as is.
	ColumnMapping map[string]string `yaml:"column_mapping" toml:"column_mapping"`

	// TransformationRules clean cell values before validation.
	TransformationRules []TransformationRule `yaml:"transformation_rules" toml:"transformation_rules"`

	// StaticFields are added to every row unless the row already has a
	// non-empty value for the field.
	StaticFields []StaticField `yaml:"static_fields" toml:"static_fields"`

	// Writer settings. Only the block matching Format is used.
	G68  G68Settings  `yaml:"g68" toml:"g68"`
	G69  G69Settings  `yaml:"g69" toml:"g69"`
	TenQ TenQSettings `yaml:"10q" toml:"10q"`

	// Source is the file the profile was loaded from.
	Source string `yaml:"-" toml:"-"`
}

// CSVSettings contains settings for reading tabular input.
type CSVSettings struct {
	// Delimiter separates CSV fields. "tab", "pipe" and "semicolon" are
	// accepted as names.
	// Default: ";"
	Delimiter string `yaml:"delimiter" toml:"delimiter"`

	// HeaderRows is the number of header rows; multi-row headers are joined
	// with a space per column.
	// Default: 1
	HeaderRows int `yaml:"header_rows" toml:"header_rows"`

	// DataStartRow is the 1-based row where data begins.
	// Default: HeaderRows + 1
	DataStartRow int `yaml:"data_start_row" toml:"data_start_row"`

	// Sheet is the worksheet read from .xlsx input. Empty selects the first.
	Sheet string `yaml:"sheet" toml:"sheet"`
}

// TransformationRule lists the actions applied to one field.
type TransformationRule struct {
	// Field is the field name after column mapping.
	Field string `yaml:"field" toml:"field"`

	// Actions are applied in order.
	Actions []TransformationAction `yaml:"actions" toml:"actions"`
}

// TransformationAction is a single transformation. See the converter's
// transformer for the supported types.
type TransformationAction struct {
	Type        string            `yaml:"type" toml:"type"`
	Value       string            `yaml:"value" toml:"value"`
	Find        string            `yaml:"find,omitempty" toml:"find"`
	LookupTable map[string]string `yaml:"lookup_table,omitempty" toml:"lookup_table"`
}

// StaticField is a constant value added to every row.
type StaticField struct {
	Field string `yaml:"field" toml:"field"`
	Value string `yaml:"value" toml:"value"`
}

// =============================================================================
// WRITER SETTINGS
// =============================================================================

// G68Settings configures the G68 payment writer.
type G68Settings struct {
	Registreringssted  int64 `yaml:"registreringssted" toml:"registreringssted"`
	Organisationsenhed int64 `yaml:"organisationsenhed" toml:"organisationsenhed"`
	Maskinnummer       int64 `yaml:"maskinnummer" toml:"maskinnummer"`
}

// G69Settings configures the G69 posting writer.
type G69Settings struct {
	Registreringssted  int64 `yaml:"registreringssted" toml:"registreringssted"`
	Organisationsenhed int64 `yaml:"organisationsenhed" toml:"organisationsenhed"`

	// PostType is NOR, PRI or SUP.
	// Default: "NOR"
	PostType string `yaml:"post_type" toml:"post_type"`

	// WritePairs writes every row as a debit record followed by a credit
	// record.
	WritePairs bool `yaml:"write_pairs" toml:"write_pairs"`
}

// TenQSettings configures the 10Q debt-collection writer. Dates are written
// as YYYY-MM-DD or YYYYMMDD; empty dates use the writer defaults.
type TenQSettings struct {
	LeverandoerIdent string `yaml:"leverandoer_ident" toml:"leverandoer_ident"`

	// Year defaults to the year of the due date.
	Year int `yaml:"year" toml:"year"`

	// DueDate defaults to the first of the month four months after the run
	// date.
	DueDate string `yaml:"due_date" toml:"due_date"`

	BrugerNummer  string `yaml:"bruger_nummer" toml:"bruger_nummer"`
	BetalArt      string `yaml:"betal_art" toml:"betal_art"`
	OmraadeNummer int    `yaml:"omraade_nummer" toml:"omraade_nummer"`
	FakturaNo     string `yaml:"faktura_no" toml:"faktura_no"`

	PeriodeFra          string `yaml:"periode_fra" toml:"periode_fra"`
	PeriodeTil          string `yaml:"periode_til" toml:"periode_til"`
	OprettelsesDato     string `yaml:"oprettelses_dato" toml:"oprettelses_dato"`
	SidsteBetalingsDato string `yaml:"sidste_betalings_dato" toml:"sidste_betalings_dato"`
	OpkraevningsDato    string `yaml:"opkraevnings_dato" toml:"opkraevnings_dato"`
	RentefriDato        string `yaml:"rentefri_dato" toml:"rentefri_dato"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads, defaults and validates the main configuration.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	var config MainConfig
	if err := decodeFile(configPath, &config); err != nil {
		return nil, err
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// decodeFile decodes a YAML or TOML file into out, chosen by extension.
func decodeFile(path string, out any) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.DecodeFile(path, out); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyMainConfigDefaults sets default values for any unset option.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.OutputArchiveDir == "" {
		config.OutputArchiveDir = "./output_archive"
	}
	if config.ConfigsDir == "" {
		config.ConfigsDir = "./configs"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.FileNameFormat == "" {
		config.FileNameFormat = "{profile}_{format}_{timestamp}_{uuid}.txt"
	}
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
}

// validateMainConfig checks option values. Directories are created by the
// file manager, not here.
func validateMainConfig(config *MainConfig) error {
	switch strings.ToLower(config.LogLevel) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", config.LogLevel)
	}
	if !strings.Contains(config.FileNameFormat, "{uuid}") && !strings.Contains(config.FileNameFormat, "{timestamp}") {
		return fmt.Errorf("file_name_format %q must contain {uuid} or {timestamp}", config.FileNameFormat)
	}
	if config.ArchiveRetentionDays < 0 {
		return fmt.Errorf("archive_retention_days must not be negative, got %d", config.ArchiveRetentionDays)
	}
	return nil
}

// LoadProfileConfigs loads every profile in configsDir, keyed by profile
// code. Two profiles with the same code are an error.
func LoadProfileConfigs(configsDir string) (map[string]*ProfileConfig, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml", "*.toml"} {
		matches, err := filepath.Glob(filepath.Join(configsDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to list config files: %w", err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	configs := make(map[string]*ProfileConfig, len(files))
	for _, file := range files {
		profile, err := LoadProfileConfig(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
		if other, exists := configs[profile.Code]; exists {
			return nil, fmt.Errorf("profile code %q is used by both %s and %s", profile.Code, other.Source, file)
		}
		configs[profile.Code] = profile
	}

	return configs, nil
}

// LoadProfileConfig loads, defaults and validates a single profile.
func LoadProfileConfig(filePath string) (*ProfileConfig, error) {
	var profile ProfileConfig
	if err := decodeFile(filePath, &profile); err != nil {
		return nil, err
	}
	profile.Source = filePath

	applyProfileConfigDefaults(&profile)

	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &profile, nil
}

// applyProfileConfigDefaults sets default values for a profile.
func applyProfileConfigDefaults(profile *ProfileConfig) {
	if profile.Code == "" && profile.Source != "" {
		base := filepath.Base(profile.Source)
		profile.Code = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if profile.Name == "" {
		profile.Name = profile.Code
	}
	profile.Format = strings.ToLower(strings.TrimSpace(profile.Format))

	if profile.CSVSettings.Delimiter == "" {
		profile.CSVSettings.Delimiter = ";"
	}
	if profile.CSVSettings.HeaderRows == 0 {
		profile.CSVSettings.HeaderRows = 1
	}
	if profile.CSVSettings.DataStartRow == 0 {
		profile.CSVSettings.DataStartRow = profile.CSVSettings.HeaderRows + 1
	}

	if profile.G69.PostType == "" {
		profile.G69.PostType = "NOR"
	}
}

// Validate reports every problem with the profile at once.
func (p *ProfileConfig) Validate() error {
	var errs []error

	if len(p.FileMatchingPatterns) == 0 {
		errs = append(errs, errors.New("file_matching_patterns is empty"))
	}
	for _, pattern := range p.FileMatchingPatterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			errs = append(errs, fmt.Errorf("bad file pattern %q: %w", pattern, err))
		}
	}
	if p.CSVSettings.DataStartRow <= p.CSVSettings.HeaderRows {
		errs = append(errs, fmt.Errorf("data_start_row %d must come after the %d header row(s)",
			p.CSVSettings.DataStartRow, p.CSVSettings.HeaderRows))
	}

	switch p.Format {
	case FormatG68:
		errs = append(errs, requireNonNegative("g68.registreringssted", p.G68.Registreringssted)...)
		errs = append(errs, requireNonNegative("g68.organisationsenhed", p.G68.Organisationsenhed)...)
	case FormatG69:
		errs = append(errs, requireNonNegative("g69.registreringssted", p.G69.Registreringssted)...)
		errs = append(errs, requireNonNegative("g69.organisationsenhed", p.G69.Organisationsenhed)...)
	case Format10Q:
		if strings.TrimSpace(p.TenQ.LeverandoerIdent) == "" {
			errs = append(errs, errors.New("10q.leverandoer_ident is required"))
		}
		for _, d := range p.TenQ.dates() {
			if _, err := ParseDate(d.value); err != nil {
				errs = append(errs, fmt.Errorf("10q.%s: %w", d.key, err))
			}
		}
	case "":
		errs = append(errs, errors.New("format is required"))
	default:
		errs = append(errs, fmt.Errorf("unknown format %q", p.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("profile %s: %w", p.Code, errors.Join(errs...))
	}
	return nil
}

func requireNonNegative(name string, v int64) []error {
	if v < 0 {
		return []error{fmt.Errorf("%s must not be negative, got %d", name, v)}
	}
	return nil
}

type dateSetting struct {
	key, value string
}

// dates lists the configured date settings in declaration order.
func (s TenQSettings) dates() []dateSetting {
	return []dateSetting{
		{"due_date", s.DueDate},
		{"periode_fra", s.PeriodeFra},
		{"periode_til", s.PeriodeTil},
		{"oprettelses_dato", s.OprettelsesDato},
		{"sidste_betalings_dato", s.SidsteBetalingsDato},
		{"opkraevnings_dato", s.OpkraevningsDato},
		{"rentefri_dato", s.RentefriDato},
	}
}

// ParseDate parses a configured date. The empty string is the zero time.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.DateOnly, "20060102"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", value)
}

// =============================================================================
// PROFILE MATCHING
// =============================================================================

// Matches reports whether the file name matches one of the profile patterns.
func (p *ProfileConfig) Matches(fileName string) bool {
	for _, pattern := range p.FileMatchingPatterns {
		if matched, err := filepath.Match(pattern, fileName); err == nil && matched {
			return true
		}
	}
	return false
}

// FieldName maps an input header to its field name.
func (p *ProfileConfig) FieldName(header string) string {
	if name, ok := p.ColumnMapping[header]; ok {
		return name
	}
	return header
}

// FindProfile returns the first profile, in code order, whose patterns match
// the base name of filePath, or nil.
func FindProfile(profiles map[string]*ProfileConfig, filePath string) *ProfileConfig {
	codes := make([]string, 0, len(profiles))
	for code := range profiles {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	fileName := filepath.Base(filePath)
	for _, code := range codes {
		if profiles[code].Matches(fileName) {
			return profiles[code]
		}
	}
	return nil
}
