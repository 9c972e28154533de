// Package sheets is the spreadsheet collaborator of the resolver: it
// authenticates with service-account credentials, opens a workbook by id and
// reads single rows from a worksheet.
package sheets

import (
	"context"
	"errors"
)

// Scopes requested when authenticating. Drive access is broader than a
// read-only dashboard needs but matches what existing deployments grant.
var Scopes = []string{
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/drive",
}

var (
	// ErrAuthenticationRejected means the service-account key was refused.
	ErrAuthenticationRejected = errors.New("authentication rejected")
	// ErrWorkbookNotFound means no spreadsheet exists with the requested id.
	ErrWorkbookNotFound = errors.New("workbook not found")
	// ErrWorksheetNotFound means the workbook has no tab with the requested name.
	ErrWorksheetNotFound = errors.New("worksheet not found")
	// ErrPermissionDenied means the account may not read the workbook.
	ErrPermissionDenied = errors.New("permission denied")
)

// Connector produces an authenticated Client from service-account JSON.
type Connector interface {
	Connect(ctx context.Context, credentialsJSON []byte) (Client, error)
}

// Client is an authenticated spreadsheet handle.
type Client interface {
	OpenWorkbook(ctx context.Context, spreadsheetID string) (Workbook, error)
}

// Workbook is an opened spreadsheet.
type Workbook interface {
	// Title is the spreadsheet title.
	Title() string
	// Worksheets lists tab names in workbook order.
	Worksheets() []string
	// RowValues returns the cells of a 1-based row. Trailing empty cells may
	// be omitted, so the result can be shorter than the header row.
	RowValues(ctx context.Context, worksheet string, row int) ([]string, error)
}

// HasWorksheet reports whether wb contains a tab named exactly name.
func HasWorksheet(wb Workbook, name string) bool {
	for _, ws := range wb.Worksheets() {
		if ws == name {
			return true
		}
	}
	return false
}
