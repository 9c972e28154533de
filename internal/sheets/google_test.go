package sheets

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGoogle serves the token endpoint and the two Sheets API calls the
// connector makes.
type fakeGoogle struct {
	rows        map[string][][]any
	rejectToken bool
	tokenCalls  atomic.Int32
	apiStatus   int
}

func (f *fakeGoogle) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.URL.Path == "/token" {
		f.tokenCalls.Add(1)
		if f.rejectToken {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid JWT Signature."}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer","expires_in":3600}`))
		return
	}

	if r.Header.Get("Authorization") != "Bearer test-token" {
		writeAPIError(w, http.StatusUnauthorized, "missing token")
		return
	}
	if f.apiStatus != 0 {
		writeAPIError(w, f.apiStatus, "forced failure")
		return
	}

	const prefix = "/v4/spreadsheets/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		writeAPIError(w, http.StatusNotFound, "unknown path")
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	id, rng, isValues := strings.Cut(rest, "/values/")
	if id != "sheet-123" {
		writeAPIError(w, http.StatusNotFound, "Requested entity was not found.")
		return
	}

	if !isValues {
		var sheets []map[string]any
		for _, name := range []string{"MASTER SHEET", "Archive"} {
			sheets = append(sheets, map[string]any{"properties": map[string]any{"title": name}})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"spreadsheetId": id,
			"properties":    map[string]any{"title": "Compliance Master"},
			"sheets":        sheets,
		})
		return
	}

	rows, ok := f.rows[rng]
	if !ok {
		writeAPIError(w, http.StatusBadRequest, "Unable to parse range: "+rng)
		return
	}
	body := map[string]any{"range": rng, "majorDimension": "ROWS"}
	if len(rows) > 0 {
		body["values"] = rows
	}
	_ = json.NewEncoder(w).Encode(body)
}

func writeAPIError(w http.ResponseWriter, code int, msg string) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": code, "message": msg},
	})
}

func serviceAccountJSON(t *testing.T, tokenURI string) []byte {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	data, err := json.Marshal(map[string]string{
		"type":           "service_account",
		"project_id":     "lexcura-test",
		"private_key_id": "key-1",
		"private_key":    string(keyPEM),
		"client_email":   "dashboard@lexcura-test.iam.gserviceaccount.com",
		"client_id":      "1234567890",
		"token_uri":      tokenURI,
	})
	require.NoError(t, err)
	return data
}

func newFakeConnector(t *testing.T, f *fakeGoogle) (*GoogleConnector, []byte) {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return &GoogleConnector{HTTPClient: srv.Client(), Endpoint: srv.URL + "/"}, serviceAccountJSON(t, srv.URL+"/token")
}

func TestGoogleConnector_ReadRows(t *testing.T) {
	f := &fakeGoogle{rows: map[string][][]any{
		"'MASTER SHEET'!1:1": {{"UNIQUE CLIENT ID", "CLIENT NAME", "TIER"}},
		"'MASTER SHEET'!2:2": {{"Z9", "Acme Corp"}},
		"'MASTER SHEET'!3:3": {},
	}}
	conn, creds := newFakeConnector(t, f)
	ctx := context.Background()

	client, err := conn.Connect(ctx, creds)
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.tokenCalls.Load())

	wb, err := client.OpenWorkbook(ctx, "sheet-123")
	require.NoError(t, err)
	assert.Equal(t, "Compliance Master", wb.Title())
	assert.Equal(t, []string{"MASTER SHEET", "Archive"}, wb.Worksheets())
	assert.True(t, HasWorksheet(wb, "MASTER SHEET"))
	assert.False(t, HasWorksheet(wb, "MASTER"))

	headers, err := wb.RowValues(ctx, "MASTER SHEET", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"UNIQUE CLIENT ID", "CLIENT NAME", "TIER"}, headers)

	row, err := wb.RowValues(ctx, "MASTER SHEET", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Z9", "Acme Corp"}, row)

	empty, err := wb.RowValues(ctx, "MASTER SHEET", 3)
	require.NoError(t, err)
	assert.Empty(t, empty)

	// The cached token is reused for API calls.
	assert.Equal(t, int32(1), f.tokenCalls.Load())
}

func TestGoogleConnector_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed credentials", func(t *testing.T) {
		conn := &GoogleConnector{}
		_, err := conn.Connect(ctx, []byte(`{"type":`))
		require.Error(t, err)
	})

	t.Run("rejected key", func(t *testing.T) {
		conn, creds := newFakeConnector(t, &fakeGoogle{rejectToken: true})
		_, err := conn.Connect(ctx, creds)
		require.ErrorIs(t, err, ErrAuthenticationRejected)
	})

	t.Run("unknown workbook", func(t *testing.T) {
		conn, creds := newFakeConnector(t, &fakeGoogle{})
		client, err := conn.Connect(ctx, creds)
		require.NoError(t, err)
		_, err = client.OpenWorkbook(ctx, "missing")
		require.ErrorIs(t, err, ErrWorkbookNotFound)
	})

	t.Run("permission denied", func(t *testing.T) {
		conn, creds := newFakeConnector(t, &fakeGoogle{apiStatus: http.StatusForbidden})
		client, err := conn.Connect(ctx, creds)
		require.NoError(t, err)
		_, err = client.OpenWorkbook(ctx, "sheet-123")
		require.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("unknown worksheet range", func(t *testing.T) {
		conn, creds := newFakeConnector(t, &fakeGoogle{rows: map[string][][]any{}})
		client, err := conn.Connect(ctx, creds)
		require.NoError(t, err)
		wb, err := client.OpenWorkbook(ctx, "sheet-123")
		require.NoError(t, err)
		_, err = wb.RowValues(ctx, "MASTER", 1)
		require.ErrorIs(t, err, ErrWorksheetNotFound)
	})
}

func TestRowRange(t *testing.T) {
	assert.Equal(t, "'MASTER SHEET'!1:1", RowRange("MASTER SHEET", 1))
	assert.Equal(t, "'Bob''s Sheet'!2:2", RowRange("Bob's Sheet", 2))
}
