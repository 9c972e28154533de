// Package config implements the config command.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/lexcura/internal/app"
	"github.com/joshsymonds/lexcura/internal/config"
)

// NewConfigCommand creates the config command and its validate subcommand.
func NewConfigCommand(opts *app.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect lexcura configuration",
	}
	cmd.AddCommand(newValidateCommand(opts))
	return cmd
}

func newValidateCommand(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:     "validate",
		Short:   "Validate a configuration file",
		Example: `  lexcura config validate --config lexcura.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.ConfigFile == "" {
				return errors.New("--config flag is required")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "🔍 Validating configuration: %s\n\n", opts.ConfigFile)

			cfg, err := config.LoadConfig(opts.ConfigFile)
			if err != nil {
				return fmt.Errorf("configuration is invalid: %w", err)
			}

			PrintSummary(out, cfg)
			fmt.Fprintln(out, "\n✅ Configuration is valid!")
			return nil
		},
	}
}

// PrintSummary describes the effective configuration.
func PrintSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "📋 Spreadsheet:")
	fmt.Fprintf(w, "   ID: %s\n", cfg.Spreadsheet.ID)
	fmt.Fprintf(w, "   Worksheets: %s\n", strings.Join(cfg.Spreadsheet.Worksheets(), ", "))

	fmt.Fprintln(w, "\n🔑 Credentials:")
	fmt.Fprintf(w, "   Source: %s\n", cfg.Credentials.Source())
	if cfg.Credentials.AWSRegion != "" {
		fmt.Fprintf(w, "   AWS region: %s\n", cfg.Credentials.AWSRegion)
	}

	fmt.Fprintln(w, "\n⏱️  Caching:")
	fmt.Fprintf(w, "   Handle TTL: %s\n", cfg.Cache.HandleTTL)
	fmt.Fprintf(w, "   Record TTL: %s\n", cfg.Cache.RecordTTL)

	fmt.Fprintln(w, "\n🧭 Resolver:")
	fmt.Fprintf(w, "   Default client: %s\n", cfg.Resolver.DefaultClientID)
	if cfg.Resolver.FetchTimeout > 0 {
		fmt.Fprintf(w, "   Fetch timeout: %s\n", cfg.Resolver.FetchTimeout)
	}

	fmt.Fprintln(w, "\n🌐 Server:")
	fmt.Fprintf(w, "   Address: %s\n", cfg.Server.Addr)
	fmt.Fprintf(w, "   Refresh limit: %g/s, burst %d\n", cfg.Server.RefreshRate, cfg.Server.RefreshBurst)
}
