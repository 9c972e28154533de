// Package dashboard implements the dashboard command.
package dashboard

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/lexcura/internal/app"
	"github.com/joshsymonds/lexcura/internal/dashboard"
	"github.com/joshsymonds/lexcura/pkg/logger"
)

// NewDashboardCommand creates the dashboard command.
func NewDashboardCommand(opts *app.Options) *cobra.Command {
	var clientID string
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show a client's record in an interactive terminal view",
		Long: `Show a client's record in an interactive terminal view.

Press r to clear the caches and re-read the sheet, q to quit.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			r := app.NewResolver(cfg, logger.GetGlobalLogger())
			if err := dashboard.Run(cmd.Context(), r, clientID); err != nil {
				return fmt.Errorf("running dashboard: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "Client id (defaults to the configured default)")
	return cmd
}
