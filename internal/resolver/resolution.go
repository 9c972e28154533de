package resolver

import (
	"errors"
	"time"

	"github.com/joshsymonds/lexcura/internal/credentials"
	"github.com/joshsymonds/lexcura/internal/models"
	"github.com/joshsymonds/lexcura/internal/sheets"
)

// Source tells whether a record came from the spreadsheet or the demo data.
type Source string

// Record sources.
const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Reason names why a resolution fell back. Callers only ever see a record;
// the reason exists for logs and operator-facing notices.
type Reason string

// Fallback reasons.
const (
	ReasonNone                   Reason = ""
	ReasonCredentialsUnavailable Reason = "credentials_unavailable"
	ReasonAuthenticationRejected Reason = "authentication_rejected"
	ReasonWorkbookNotFound       Reason = "workbook_not_found"
	ReasonWorksheetNotFound      Reason = "worksheet_not_found"
	ReasonPermissionDenied       Reason = "permission_denied"
	ReasonSourceUnavailable      Reason = "source_unavailable"
	ReasonMalformedData          Reason = "malformed_data"
)

// errMalformed marks sheet content that cannot be mapped.
var errMalformed = errors.New("malformed sheet data")

// Resolution is the tagged result of one resolution: a live record, or the
// demo record plus the reason live data was unavailable.
type Resolution struct {
	ResolvedAt   time.Time           `json:"resolved_at"`
	Err          error               `json:"-"`
	Record       models.ClientRecord `json:"record"`
	ResolutionID string              `json:"resolution_id"`
	Source       Source              `json:"source"`
	Reason       Reason              `json:"reason,omitempty"`
	Message      string              `json:"message,omitempty"`
	Worksheet    string              `json:"worksheet,omitempty"`
	Cached       bool                `json:"cached"`
}

// Live reports whether the record came from the spreadsheet.
func (r Resolution) Live() bool {
	return r.Source == SourceLive
}

// Notice is the operator-visible warning shown alongside a fallback record.
func (r Resolution) Notice() string {
	if r.Live() {
		return ""
	}
	if r.Message == "" {
		return "Live data unavailable; showing demo data"
	}
	return "Live data unavailable: " + r.Message
}

// classify maps an error from the live path onto a Reason.
func classify(err error) Reason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, credentials.ErrCredentialsUnavailable):
		return ReasonCredentialsUnavailable
	case errors.Is(err, sheets.ErrAuthenticationRejected):
		return ReasonAuthenticationRejected
	case errors.Is(err, sheets.ErrWorkbookNotFound):
		return ReasonWorkbookNotFound
	case errors.Is(err, sheets.ErrWorksheetNotFound):
		return ReasonWorksheetNotFound
	case errors.Is(err, sheets.ErrPermissionDenied):
		return ReasonPermissionDenied
	case errors.Is(err, errMalformed):
		return ReasonMalformedData
	default:
		return ReasonSourceUnavailable
	}
}
