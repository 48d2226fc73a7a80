// =============================================================================
// Invoice Ledger - Configuration Module
// =============================================================================
//
// This module loads the application configuration from a YAML file and the
// environment.
//
// PRECEDENCE (lowest to highest):
//   1. Built-in defaults
//   2. config.yaml (every key optional)
//   3. LEDGER_* environment variables (a .env file is loaded by main)
//   4. Command-line flags, applied by the cmd package
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/ginjaninja78/invoice-ledger/internal/ledger"
	"github.com/ginjaninja78/invoice-ledger/internal/logger"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is read when no --config flag is given. A missing file
// at this path is not an error.
const DefaultConfigPath = "config.yaml"

// Environment variable names.
const (
	EnvWorkbook   = "LEDGER_WORKBOOK"
	EnvLogLevel   = "LEDGER_LOG_LEVEL"
	EnvLogFormat  = "LEDGER_LOG_FORMAT"
	EnvLogOutput  = "LEDGER_LOG_OUTPUT"
	EnvServerAddr = "LEDGER_SERVER_ADDR"
)

// Output formats understood by the converter.
var outputFormats = []string{"csv", "xlsx", "xml"}

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// Workbook is the CSV or XLSX file holding the ledger between runs.
	// Default: "./invoice-items.csv"
	Workbook string `yaml:"workbook"`

	// DefaultColor is the background color of new rows.
	// Default: "#ffffff"
	DefaultColor string `yaml:"default_color"`

	CSV     CSVSettings      `yaml:"csv"`
	XLSX    XLSXSettings     `yaml:"xlsx"`
	Server  ServerSettings   `yaml:"server"`
	Convert ConvertSettings  `yaml:"convert"`
	Log     logger.LogConfig `yaml:"log"`
}

// CSVSettings controls the CSV dialect for import and export.
type CSVSettings struct {
	// Delimiter is the field separator. Accepts "tab", "pipe", "semicolon".
	// Default: ","
	Delimiter string `yaml:"delimiter"`
}

// XLSXSettings controls the workbook layout.
type XLSXSettings struct {
	// SheetName is the sheet written on export and preferred on import.
	// Default: "Invoice Items"
	SheetName string `yaml:"sheet_name"`
}

// ServerSettings controls the HTTP API.
type ServerSettings struct {
	// Addr is the listen address.
	// Default: ":8080"
	Addr string `yaml:"addr"`

	// AllowedOrigins are the CORS origins allowed to call the API. An empty
	// list allows any origin.
	// Default: ["http://localhost:3000"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// Autosave writes the workbook after every mutating request.
	// Default: false
	Autosave bool `yaml:"autosave"`
}

// ConvertSettings controls the batch converter.
type ConvertSettings struct {
	// InputDir is scanned for *.csv and *.xlsx files.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir receives converted files and the summary/error logs.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir receives input files after successful conversion.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// OutputFormat is one of csv, xlsx, xml.
	// Default: "csv"
	OutputFormat string `yaml:"output_format"`

	// FileNameFormat builds output names. The extension is added from
	// OutputFormat.
	// Placeholders:
	//   {original}  - Input file name without extension
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	// Default: "{original}_{timestamp}"
	FileNameFormat string `yaml:"file_name_format"`

	// MaxConcurrency is the maximum number of files converted at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// ArchiveInputs moves converted inputs to InputArchiveDir.
	// Default: true (only applied when the key is absent)
	ArchiveInputs *bool `yaml:"archive_inputs"`

	// ArchiveByDate files archived inputs under year/month/day
	// subdirectories of InputArchiveDir.
	// Default: false
	ArchiveByDate bool `yaml:"archive_by_date"`
}

// ShouldArchive reports whether inputs are archived after conversion.
func (c ConvertSettings) ShouldArchive() bool {
	return c.ArchiveInputs == nil || *c.ArchiveInputs
}

// =============================================================================
// LOADING
// =============================================================================

// Default returns the configuration used when no file is present.
func Default() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

// Load reads the configuration file, applies defaults and environment
// overrides, and validates the result.
//
// PARAMETERS:
//   - configPath: The path to the configuration file. Empty means
//     DefaultConfigPath, which may be absent.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be read or parsed, or is invalid.
func Load(configPath string) (*Config, error) {
	config := &Config{}

	optional := configPath == ""
	if optional {
		configPath = DefaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case optional && errors.Is(err, fs.ErrNotExist):
		// Defaults only.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyDefaults(config)
	applyEnv(config, os.LookupEnv)

	if err := validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(config *Config) {
	if config.Workbook == "" {
		config.Workbook = "./invoice-items.csv"
	}
	if config.DefaultColor == "" {
		config.DefaultColor = ledger.DefaultColor
	}
	if config.CSV.Delimiter == "" {
		config.CSV.Delimiter = ","
	}
	if config.XLSX.SheetName == "" {
		config.XLSX.SheetName = "Invoice Items"
	}
	if config.Server.Addr == "" {
		config.Server.Addr = ":8080"
	}
	if config.Server.AllowedOrigins == nil {
		config.Server.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if config.Convert.InputDir == "" {
		config.Convert.InputDir = "./input"
	}
	if config.Convert.OutputDir == "" {
		config.Convert.OutputDir = "./output"
	}
	if config.Convert.InputArchiveDir == "" {
		config.Convert.InputArchiveDir = "./input_archive"
	}
	if config.Convert.OutputFormat == "" {
		config.Convert.OutputFormat = "csv"
	}
	if config.Convert.FileNameFormat == "" {
		config.Convert.FileNameFormat = "{original}_{timestamp}"
	}
	if config.Convert.MaxConcurrency <= 0 {
		config.Convert.MaxConcurrency = 4
	}

	defaults := logger.DefaultConfig()
	if config.Log.Level == "" {
		config.Log.Level = defaults.Level
	}
	if config.Log.Format == "" {
		config.Log.Format = defaults.Format
	}
	if config.Log.TimeFormat == "" {
		config.Log.TimeFormat = defaults.TimeFormat
	}
	if config.Log.Output == "" {
		config.Log.Output = defaults.Output
	}
}

// applyEnv overrides settings from LEDGER_* variables. lookup is
// os.LookupEnv outside tests.
func applyEnv(config *Config, lookup func(string) (string, bool)) {
	set := func(key string, target *string) {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			*target = strings.TrimSpace(value)
		}
	}

	set(EnvWorkbook, &config.Workbook)
	set(EnvLogLevel, &config.Log.Level)
	set(EnvLogFormat, &config.Log.Format)
	set(EnvLogOutput, &config.Log.Output)
	set(EnvServerAddr, &config.Server.Addr)
}

// validate checks values that would otherwise fail late.
func validate(config *Config) error {
	if _, ok := ledger.NormalizeColor(config.DefaultColor); !ok {
		return fmt.Errorf("default_color %q is not a hex color", config.DefaultColor)
	}

	format := strings.ToLower(config.Convert.OutputFormat)
	valid := false
	for _, f := range outputFormats {
		if format == f {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("convert.output_format %q must be one of %s", config.Convert.OutputFormat, strings.Join(outputFormats, ", "))
	}
	config.Convert.OutputFormat = format

	return nil
}
