package resolve

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshsymonds/lexcura/internal/app"
	"github.com/joshsymonds/lexcura/internal/config"
	"github.com/joshsymonds/lexcura/internal/models"
	"github.com/joshsymonds/lexcura/internal/resolver"
)

func TestWrite(t *testing.T) {
	res := resolver.Resolution{
		Record: models.DemoRecord(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)),
		Source: resolver.SourceLive,
	}

	tests := []struct {
		format string
		want   string
	}{
		{FormatJSON, `"client_name": "Elite Pharmaceutical Corp"`},
		{FormatText, "Client Name:"},
		{FormatCard, "Elite Pharmaceutical Corp"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, res, tt.format))
			assert.Contains(t, buf.String(), tt.want)
		})
	}

	require.Error(t, Write(&bytes.Buffer{}, res, "xml"))
}

func demoConfig(t *testing.T) string {
	t.Helper()
	for _, env := range []string{config.EnvSpreadsheetID, config.EnvWorksheet, config.EnvCredentials} {
		t.Setenv(env, "")
	}
	path := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("credentials:\n  demo: true\n"), 0o600))
	return path
}

func TestResolveCommand(t *testing.T) {
	cmd := NewResolveCommand(&app.Options{ConfigFile: demoConfig(t)})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--client-id", "42BC"})
	require.NoError(t, cmd.Execute())

	var res resolver.Resolution
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, resolver.SourceLive, res.Source)
	// The demo workbook carries its own id, which wins over the argument.
	assert.Equal(t, models.DefaultClientID, res.Record.ClientID)
}

func TestResolveCommand_Output(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.txt")
	cmd := NewResolveCommand(&app.Options{ConfigFile: demoConfig(t)})
	cmd.SetArgs([]string{"--format", "text", "--output", target})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Elite Pharmaceutical Corp")
}

func TestResolveCommand_BadFormatLeavesNoFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.xml")
	cmd := NewResolveCommand(&app.Options{ConfigFile: demoConfig(t)})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "xml", "--output", target})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "xml"`)
	assert.NoFileExists(t, target)
}
