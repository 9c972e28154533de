package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/joshsymonds/lexcura/internal/resolver"
)

// Text writes a fallback notice, if any, then one "Label: value" line per
// column.
func Text(w io.Writer, res resolver.Resolution) error {
	if notice := res.Notice(); notice != "" {
		if _, err := fmt.Fprintf(w, "! %s\n\n", notice); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, f := range Fields(res.Record) {
		value := strings.ReplaceAll(f.Value, "\n", " ")
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", f.Label, value); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// JSON writes the resolution as indented JSON.
func JSON(w io.Writer, res resolver.Resolution) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
