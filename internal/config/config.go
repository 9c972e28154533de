// Package config provides configuration loading and validation for lexcura.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/joshsymonds/lexcura/pkg/pathutil"
)

// Built-in defaults. The spreadsheet id is the master sheet existing
// dashboards read; deployments should set their own.
const (
	DefaultSpreadsheetID = "1oI-XqRbp8r3V8yMjnC5pNvDMljJDv4f6d01vRmrVH1g"
	DefaultWorksheet     = "MASTER SHEET"
	DefaultCredentialEnv = "GCP_SERVICE_ACCOUNT"
	DefaultHandleTTL     = 5 * time.Minute
	DefaultRecordTTL     = 60 * time.Second
	DefaultAddr          = ":8501"
)

// Environment variables that override file values.
const (
	EnvSpreadsheetID = "MASTER_SHEET_ID"
	EnvWorksheet     = "LEXCURA_WORKSHEET"
	EnvCredentials   = "LEXCURA_CREDENTIALS_FILE"
)

// DefaultWorksheetAliases are older tab names probed after the canonical one.
var DefaultWorksheetAliases = []string{"Master Sheet", "MASTER"}

// Config represents the complete lexcura configuration.
type Config struct {
	Credentials CredentialsConfig `yaml:"credentials"`
	Spreadsheet SpreadsheetConfig `yaml:"spreadsheet"`
	Server      ServerConfig      `yaml:"server"`
	Resolver    ResolverConfig    `yaml:"resolver"`
	Cache       CacheConfig       `yaml:"cache"`
}

// SpreadsheetConfig locates the master sheet.
type SpreadsheetConfig struct {
	ID               string   `yaml:"id"`
	Worksheet        string   `yaml:"worksheet"`
	WorksheetAliases []string `yaml:"worksheet_aliases"`
}

// CredentialsConfig says where the service-account JSON lives. The first
// non-empty source in field order wins; Env is consulted last.
type CredentialsConfig struct {
	ServiceAccount map[string]any `yaml:"service_account,omitempty"`
	JSON           string         `yaml:"json,omitempty"`
	File           string         `yaml:"file,omitempty"`
	S3URI          string         `yaml:"s3_uri,omitempty"`
	AWSRegion      string         `yaml:"aws_region,omitempty"`
	Env            string         `yaml:"env,omitempty"`
	// Demo serves the built-in demo workbook instead of calling Google.
	Demo bool `yaml:"demo,omitempty"`
}

// CacheConfig sets the two expiry windows.
type CacheConfig struct {
	HandleTTL time.Duration `yaml:"handle_ttl"`
	RecordTTL time.Duration `yaml:"record_ttl"`
}

// ResolverConfig tunes resolution.
type ResolverConfig struct {
	DefaultClientID string `yaml:"default_client_id"`
	// FetchTimeout bounds one live fetch; zero leaves it to the HTTP client.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

// ServerConfig configures the HTTP entry point.
type ServerConfig struct {
	Addr         string  `yaml:"addr"`
	RefreshRate  float64 `yaml:"refresh_rate"`
	RefreshBurst int     `yaml:"refresh_burst"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Spreadsheet: SpreadsheetConfig{
			ID:               DefaultSpreadsheetID,
			Worksheet:        DefaultWorksheet,
			WorksheetAliases: append([]string(nil), DefaultWorksheetAliases...),
		},
		Credentials: CredentialsConfig{
			Env: DefaultCredentialEnv,
		},
		Cache: CacheConfig{
			HandleTTL: DefaultHandleTTL,
			RecordTTL: DefaultRecordTTL,
		},
		Resolver: ResolverConfig{
			DefaultClientID: "11AA",
		},
		Server: ServerConfig{
			Addr:         DefaultAddr,
			RefreshRate:  1,
			RefreshBurst: 3,
		},
	}
}

// LoadConfig reads and parses a YAML configuration file on top of Default.
func LoadConfig(path string) (*Config, error) {
	validPath, err := pathutil.ValidateConfigPath(path)
	if err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	data, err := os.ReadFile(validPath) //nolint:gosec // Path validated above
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// LoadOrDefault loads path when set, otherwise returns Default with
// environment overrides applied.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		cfg.ApplyEnv(os.LookupEnv)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		return cfg, nil
	}
	return LoadConfig(path)
}

// Parse decodes YAML over the defaults, applies environment overrides and
// validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	cfg.ApplyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides file values with environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvSpreadsheetID); ok && v != "" {
		c.Spreadsheet.ID = v
	}
	if v, ok := lookup(EnvWorksheet); ok && v != "" {
		c.Spreadsheet.Worksheet = v
	}
	if v, ok := lookup(EnvCredentials); ok && v != "" {
		c.Credentials.File = v
	}
}

// Validate ensures the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Spreadsheet.ID) == "" {
		errs = append(errs, fmt.Errorf("spreadsheet.id is required"))
	}
	if strings.TrimSpace(c.Spreadsheet.Worksheet) == "" {
		errs = append(errs, fmt.Errorf("spreadsheet.worksheet is required"))
	}
	for i, alias := range c.Spreadsheet.WorksheetAliases {
		if strings.TrimSpace(alias) == "" {
			errs = append(errs, fmt.Errorf("spreadsheet.worksheet_aliases[%d] is empty", i))
		}
	}

	if c.Cache.HandleTTL < 0 {
		errs = append(errs, fmt.Errorf("cache.handle_ttl must not be negative"))
	}
	if c.Cache.RecordTTL < 0 {
		errs = append(errs, fmt.Errorf("cache.record_ttl must not be negative"))
	}
	if c.Resolver.FetchTimeout < 0 {
		errs = append(errs, fmt.Errorf("resolver.fetch_timeout must not be negative"))
	}

	if c.Credentials.S3URI != "" {
		if _, _, err := ParseS3URI(c.Credentials.S3URI); err != nil {
			errs = append(errs, fmt.Errorf("credentials.s3_uri: %w", err))
		}
	}

	if c.Server.RefreshRate < 0 || c.Server.RefreshBurst < 0 {
		errs = append(errs, fmt.Errorf("server refresh limits must not be negative"))
	}

	return errors.Join(errs...)
}

// Worksheets returns the canonical worksheet name followed by its aliases,
// without duplicates.
func (s SpreadsheetConfig) Worksheets() []string {
	seen := make(map[string]bool, len(s.WorksheetAliases)+1)
	out := make([]string, 0, len(s.WorksheetAliases)+1)
	for _, name := range append([]string{s.Worksheet}, s.WorksheetAliases...) {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// ParseS3URI splits s3://bucket/key.
func ParseS3URI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", fmt.Errorf("%q is not an s3:// URI", uri)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%q must name a bucket and a key", uri)
	}
	return bucket, key, nil
}

// Source describes where credentials will be read from, for display.
func (c CredentialsConfig) Source() string {
	switch {
	case c.Demo:
		return "demo workbook"
	case len(c.ServiceAccount) > 0:
		return "inline service_account mapping"
	case c.JSON != "":
		return "inline JSON"
	case c.File != "":
		return "file " + c.File
	case c.S3URI != "":
		return c.S3URI
	case c.Env != "":
		return "environment variable " + c.Env
	default:
		return "none"
	}
}
