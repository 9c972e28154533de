package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/microcosm-cc/bluemonday"

	"github.com/joshsymonds/lexcura/internal/models"
	"github.com/joshsymonds/lexcura/internal/resolver"
)

//go:embed templates/*
var templateFS embed.FS

// Sheet editors format the executive summary with simple markup; anything
// beyond user-generated-content tags is stripped.
var summaryPolicy = bluemonday.UGCPolicy()

var pageTemplate = template.Must(
	template.New("client").Funcs(templateFuncs()).ParseFS(templateFS, "templates/*.html"),
)

// PageData holds everything the client page template reads.
type PageData struct {
	Record   models.ClientRecord
	Summary  template.HTML
	Notice   string
	Preview  string
	Fields   []Field
	Source   resolver.Source
	ClientID string
	// Truncated is set when the preview was cut short.
	Truncated bool
}

// NewPageData prepares res for the client page.
func NewPageData(res resolver.Resolution, clientID string) PageData {
	rec := res.Record
	preview := Preview(rec.MainContent, PreviewLimit)
	return PageData{
		Record:    rec,
		Summary:   template.HTML(summaryPolicy.Sanitize(rec.ExecutiveSummary)), //nolint:gosec // sanitized
		Notice:    res.Notice(),
		Preview:   preview,
		Truncated: preview != rec.MainContent,
		Fields:    Fields(rec),
		Source:    res.Source,
		ClientID:  clientID,
	}
}

// HTML writes the client page for res.
func HTML(w io.Writer, res resolver.Resolution, clientID string) error {
	if err := pageTemplate.ExecuteTemplate(w, "client.html", NewPageData(res, clientID)); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}
	return nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"alertClass": func(level string) string {
			if models.KnownAlertLevel(level) {
				return "alert-" + level
			}
			return "alert-unknown"
		},
		"label": Label,
	}
}
