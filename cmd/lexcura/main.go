// Package main is the entry point for the lexcura CLI. lexcura resolves a
// client's compliance record from the master spreadsheet and shows it as
// JSON, text, a terminal card, an interactive dashboard or a web page.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	configcmd "github.com/joshsymonds/lexcura/cmd/config"
	"github.com/joshsymonds/lexcura/cmd/dashboard"
	"github.com/joshsymonds/lexcura/cmd/resolve"
	"github.com/joshsymonds/lexcura/cmd/serve"
	"github.com/joshsymonds/lexcura/internal/app"
	"github.com/joshsymonds/lexcura/pkg/logger"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		logger.Error("command failed", "error", err)
		stop()
		os.Exit(1) //nolint:gocritic // stop already called
	}
}

func newRootCommand() *cobra.Command {
	opts := &app.Options{}

	root := &cobra.Command{
		Use:   "lexcura",
		Short: "Client compliance intelligence from the master sheet",
		Long: `lexcura reads a client's record from row 2 of the master Google Sheet.

When the sheet cannot be reached, every command falls back to a fixed demo
record and says so, so a dashboard always has something to show.`,
		Version:       fmt.Sprintf("%s (built %s)", version, buildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			opts.SetupLogging()
		},
	}

	root.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "text", "Log format (text or json)")
	root.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "Path to config file")

	root.AddCommand(
		resolve.NewResolveCommand(opts),
		serve.NewServeCommand(opts, version),
		dashboard.NewDashboardCommand(opts),
		configcmd.NewConfigCommand(opts),
	)
	return root
}
