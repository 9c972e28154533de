// Package serve implements the serve command.
package serve

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/lexcura/internal/app"
	"github.com/joshsymonds/lexcura/internal/credentials"
	"github.com/joshsymonds/lexcura/internal/server"
	"github.com/joshsymonds/lexcura/pkg/logger"
)

// NewServeCommand creates the serve command.
func NewServeCommand(opts *app.Options, version string) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard page and JSON API",
		Example: `  lexcura serve --addr :8501
  lexcura serve --config lexcura.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			log := logger.GetGlobalLogger()
			r := app.NewResolver(cfg, log)
			r.Start()
			defer r.Close()

			// A rotated key file takes effect without waiting out the cache windows.
			if cfg.Credentials.File != "" && !cfg.Credentials.Demo {
				w, err := credentials.NewWatcher(cfg.Credentials.File, r.Refresh, log)
				if err != nil {
					log.Warn("Not watching credentials file", "path", cfg.Credentials.File, "error", err)
				} else {
					w.Start(cmd.Context())
					defer func() { _ = w.Close() }()
				}
			}

			srv := server.New(cfg.Server, r, server.WithLogger(log), server.WithVersion(version))
			return srv.Run(cmd.Context(), server.Addr(cfg.Server.Addr))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}
