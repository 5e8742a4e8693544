package contract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/slopscan/slopscan/schema"
)

// Default values for configuration.
const (
	DefaultCommitPageSize = 100
	MaxWidth              = 500
)

// repoArgPattern accepts "owner/repo" with the usual GitHub name characters.
var repoArgPattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])?/[A-Za-z0-9._-]+$`)

// Config holds the runtime configuration for one scan.
// This struct remains the "final, validated" config.
type Config struct {
	Owner string
	Repo  string
	Ref   string // Branch or SHA override (empty = default branch)
	Token string // Please use env var as this is plaintext

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	Provisional bool // Also print the provisional record as it lands

	CacheBackend   schema.CacheBackend
	CacheDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoArg string

	Ref            string `mapstructure:"ref"`
	Token          string `mapstructure:"token"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	Provisional    bool   `mapstructure:"provisional"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := processRepoArg(cfg, input); err != nil {
		return err
	}
	return ProcessAndValidateServer(cfg, input)
}

// ProcessAndValidateServer validates everything except the positional
// repository argument, for long-lived surfaces like the MCP server where
// the repository arrives per tool call.
func ProcessAndValidateServer(cfg *Config, input *ConfigRawInput) error {
	cfg.Ref = strings.TrimSpace(input.Ref)
	cfg.Token = input.Token
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	return validateBackendConfig(cfg, input)
}

// processRepoArg resolves the positional repository argument, accepting
// either "owner/repo" or a full github.com URL.
func processRepoArg(cfg *Config, input *ConfigRawInput) error {
	arg := strings.TrimSpace(input.RepoArg)
	arg = strings.TrimPrefix(arg, "https://")
	arg = strings.TrimPrefix(arg, "http://")
	arg = strings.TrimPrefix(arg, "github.com/")
	arg = strings.TrimSuffix(arg, ".git")
	arg = strings.Trim(arg, "/")

	if !repoArgPattern.MatchString(arg) {
		return fmt.Errorf("invalid repository '%s'. expected owner/repo or a github.com URL", input.RepoArg)
	}
	parts := strings.SplitN(arg, "/", 2)
	cfg.Owner = parts[0]
	cfg.Repo = parts[1]
	cfg.Ref = strings.TrimSpace(input.Ref)
	cfg.Token = input.Token
	return nil
}

// RevalidateRepoArg re-resolves the repository argument for surfaces that
// accept it outside the CLI flow, such as MCP tool calls.
func RevalidateRepoArg(cfg *Config, repoArg string) error {
	input := &ConfigRawInput{RepoArg: repoArg, Ref: cfg.Ref, Token: cfg.Token}
	return processRepoArg(cfg, input)
}

// validateSimpleInputs processes and validates the output-related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Provisional = input.Provisional

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, json, csv, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	if input.Width < 0 || input.Width > MaxWidth {
		return fmt.Errorf("width must be between 0 and %d (received %d)", MaxWidth, input.Width)
	}
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors
	return nil
}

// validateBackendConfig validates the cache backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.CacheBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidCacheBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	return ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect)
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.CacheBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}
