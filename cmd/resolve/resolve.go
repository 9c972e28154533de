// Package resolve implements the resolve command.
package resolve

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/lexcura/internal/app"
	"github.com/joshsymonds/lexcura/internal/render"
	"github.com/joshsymonds/lexcura/internal/resolver"
	"github.com/joshsymonds/lexcura/pkg/logger"
	"github.com/joshsymonds/lexcura/pkg/pathutil"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
	FormatCard = "card"
)

type flags struct {
	clientID string
	format   string
	output   string
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(opts *app.Options) *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve one client's record and print it",
		Example: `  # JSON for the default client
  lexcura resolve

  # A terminal card for client 42BC
  lexcura resolve --client-id 42BC --format card

  # Write the text listing to a file
  lexcura resolve --client-id 42BC --format text --output 42bc.txt`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(f.format); err != nil {
				return err
			}

			cfg, err := opts.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			res := app.NewResolver(cfg, logger.GetGlobalLogger()).ResolveDetailed(cmd.Context(), f.clientID)

			if f.output == "" {
				return Write(cmd.OutOrStdout(), res, f.format)
			}
			return writeFile(f.output, res, f.format)
		},
	}

	cmd.Flags().StringVar(&f.clientID, "client-id", "", "Client id (defaults to the configured default)")
	cmd.Flags().StringVarP(&f.format, "format", "f", FormatJSON, "Output format (json, text or card)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func checkFormat(format string) error {
	switch format {
	case FormatJSON, FormatText, FormatCard:
		return nil
	default:
		return fmt.Errorf("unknown format %q (want json, text or card)", format)
	}
}

// writeFile renders res into the file at output, replacing its contents.
func writeFile(output string, res resolver.Resolution, format string) (err error) {
	path, err := pathutil.ValidateOutputPath(output)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	file, err := os.Create(path) //nolint:gosec // Path validated above
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output file: %w", cerr)
		}
	}()
	return Write(file, res, format)
}

// Write renders res to w in format.
func Write(w io.Writer, res resolver.Resolution, format string) error {
	switch format {
	case FormatJSON:
		return render.JSON(w, res)
	case FormatText:
		return render.Text(w, res)
	case FormatCard:
		_, err := fmt.Fprintln(w, render.Card(res, 0))
		return err
	default:
		return checkFormat(format)
	}
}
