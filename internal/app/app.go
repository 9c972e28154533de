// Package app wires configuration into a ready resolver for the commands.
package app

import (
	"time"

	"github.com/joshsymonds/lexcura/internal/config"
	"github.com/joshsymonds/lexcura/internal/credentials"
	"github.com/joshsymonds/lexcura/internal/resolver"
	"github.com/joshsymonds/lexcura/internal/sheets"
	"github.com/joshsymonds/lexcura/pkg/logger"
)

// Options are the global flags every command shares.
type Options struct {
	ConfigFile string
	LogFormat  string
	Debug      bool
}

// SetupLogging configures the global logger from the flags.
func (o *Options) SetupLogging() {
	logger.SetupLogger(o.Debug, o.LogFormat)
}

// LoadConfig reads --config when given, otherwise the built-in defaults.
func (o *Options) LoadConfig() (*config.Config, error) {
	return config.LoadOrDefault(o.ConfigFile)
}

// NewResolver builds a resolver for cfg. With credentials.demo set it reads
// an in-memory demo workbook instead of Google Sheets.
func NewResolver(cfg *config.Config, log logger.Logger) *resolver.Resolver {
	var (
		connector sheets.Connector
		creds     credentials.Source
	)
	if cfg.Credentials.Demo {
		connector = sheets.NewDemo(cfg.Spreadsheet.ID, cfg.Spreadsheet.Worksheet, time.Now)
		creds = credentials.Static(nil)
	} else {
		connector = sheets.NewGoogleConnector()
		creds = credentials.NewLoader(cfg.Credentials)
	}

	log.Debug("Building resolver",
		"spreadsheet_id", cfg.Spreadsheet.ID,
		"worksheets", cfg.Spreadsheet.Worksheets(),
		"credentials", cfg.Credentials.Source())

	return resolver.New(resolver.ConfigFrom(cfg), connector, creds, resolver.WithLogger(log))
}
