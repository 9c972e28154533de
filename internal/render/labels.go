// Package render turns a resolution into something a person can read: a
// labelled text listing, a terminal card or an HTML page.
package render

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/joshsymonds/lexcura/internal/models"
)

// PreviewLimit is how much of the main structured content a page shows inline.
const PreviewLimit = 1000

// acronyms keep their capitals after title casing.
var acronyms = map[string]string{"Id": "ID"}

// Field is one labelled record value.
type Field struct {
	Column string
	Label  string
	Value  string
}

// Label turns a sheet column name such as "UNIQUE CLIENT ID" into
// "Unique Client ID".
func Label(column string) string {
	// A Caser keeps state, so each call gets its own.
	words := strings.Fields(cases.Title(language.English).String(strings.ToLower(column)))
	for i, w := range words {
		if a, ok := acronyms[w]; ok {
			words[i] = a
		}
	}
	return strings.Join(words, " ")
}

// Fields lists every record value in column order.
func Fields(rec models.ClientRecord) []Field {
	values := rec.Values()
	cols := models.Columns()
	out := make([]Field, len(cols))
	for i, col := range cols {
		out[i] = Field{Column: col, Label: Label(col), Value: values[col]}
	}
	return out
}

// Preview cuts s to limit runes and marks the cut with "...".
func Preview(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
