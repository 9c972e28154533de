package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// GoogleConnector talks to the Google Sheets v4 API.
type GoogleConnector struct {
	// HTTPClient is the transport used for token and API calls. Nil means
	// http.DefaultClient.
	HTTPClient *http.Client
	// Endpoint overrides the Sheets API base URL.
	Endpoint string
}

// NewGoogleConnector creates a connector using default endpoints.
func NewGoogleConnector() *GoogleConnector {
	return &GoogleConnector{}
}

// Connect parses the service-account JSON, exchanges it for an access token
// and returns a Client bound to that token source. A refused key yields
// ErrAuthenticationRejected.
func (g *GoogleConnector) Connect(ctx context.Context, credentialsJSON []byte) (Client, error) {
	conf, err := google.JWTConfigFromJSON(credentialsJSON, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parsing service account: %w", err)
	}

	// The handle outlives the request that created it, so token refreshes
	// must not inherit its cancellation.
	base := context.WithoutCancel(ctx)
	if g.HTTPClient != nil {
		base = context.WithValue(base, oauth2.HTTPClient, g.HTTPClient)
	}

	ts := conf.TokenSource(base)
	tok, err := ts.Token()
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			return nil, fmt.Errorf("%w: %s", ErrAuthenticationRejected, strings.TrimSpace(re.Error()))
		}
		return nil, fmt.Errorf("fetching access token: %w", err)
	}

	opts := []option.ClientOption{
		option.WithHTTPClient(oauth2.NewClient(base, oauth2.ReuseTokenSource(tok, ts))),
	}
	if g.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(g.Endpoint))
	}

	svc, err := sheetsapi.NewService(base, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &googleClient{svc: svc}, nil
}

type googleClient struct {
	svc *sheetsapi.Service
}

func (c *googleClient) OpenWorkbook(ctx context.Context, spreadsheetID string) (Workbook, error) {
	ss, err := c.svc.Spreadsheets.Get(spreadsheetID).
		Fields("spreadsheetId", "properties.title", "sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", spreadsheetID, classify(err, ErrWorkbookNotFound))
	}

	wb := &googleWorkbook{svc: c.svc, id: spreadsheetID}
	if ss.Properties != nil {
		wb.title = ss.Properties.Title
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			wb.worksheets = append(wb.worksheets, sh.Properties.Title)
		}
	}
	return wb, nil
}

type googleWorkbook struct {
	svc        *sheetsapi.Service
	id         string
	title      string
	worksheets []string
}

func (w *googleWorkbook) Title() string { return w.title }

func (w *googleWorkbook) Worksheets() []string {
	out := make([]string, len(w.worksheets))
	copy(out, w.worksheets)
	return out
}

func (w *googleWorkbook) RowValues(ctx context.Context, worksheet string, row int) ([]string, error) {
	if row < 1 {
		return nil, fmt.Errorf("row %d: rows are 1-based", row)
	}
	vr, err := w.svc.Spreadsheets.Values.Get(w.id, RowRange(worksheet, row)).
		MajorDimension("ROWS").
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("reading %s row %d: %w", worksheet, row, classify(err, ErrWorksheetNotFound))
	}
	if len(vr.Values) == 0 {
		return []string{}, nil
	}

	cells := vr.Values[0]
	out := make([]string, len(cells))
	for i, cell := range cells {
		if cell == nil {
			continue
		}
		out[i] = fmt.Sprint(cell)
	}
	return out, nil
}

// RowRange builds the A1 range covering one whole row of a worksheet.
func RowRange(worksheet string, row int) string {
	return fmt.Sprintf("'%s'!%d:%d", strings.ReplaceAll(worksheet, "'", "''"), row, row)
}

// classify maps API status codes onto the package sentinels. notFound is
// the sentinel for 400/404 in the calling context.
func classify(err error, notFound error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}
	switch gerr.Code {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrAuthenticationRejected, gerr.Message)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrPermissionDenied, gerr.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", notFound, gerr.Message)
	case http.StatusBadRequest:
		if errors.Is(notFound, ErrWorksheetNotFound) {
			return fmt.Errorf("%w: %s", notFound, gerr.Message)
		}
	}
	return err
}
