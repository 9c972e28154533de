package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		errContains string
	}{
		{name: "relative path", path: "secrets/sa.json"},
		{name: "absolute path", path: "/run/secrets/sa.json"},
		{name: "traversal", path: "../../../etc/passwd", errContains: "directory traversal"},
		{name: "embedded traversal", path: "secrets/../../etc/passwd", errContains: "directory traversal"},
		{name: "empty", path: "  ", errContains: "empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidatePath(tt.path)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.True(t, filepath.IsAbs(got))
		})
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		errContains string
	}{
		{name: "yaml", path: "configs/lexcura.yaml"},
		{name: "yml", path: "configs/lexcura.yml"},
		{name: "upper case extension", path: "configs/lexcura.YAML"},
		{name: "json", path: "configs/lexcura.json", errContains: ".yaml or .yml"},
		{name: "no extension", path: "configs/lexcura", errContains: "config file must have"},
		{name: "traversal", path: "../lexcura.yaml", errContains: "directory traversal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateConfigPath(tt.path)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidateCredentialsPath(t *testing.T) {
	got, err := ValidateCredentialsPath("/run/secrets/sa.json")
	require.NoError(t, err)
	assert.Equal(t, "/run/secrets/sa.json", got)

	_, err = ValidateCredentialsPath("/run/secrets/sa.pem")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials file must have .json extension")
}

func TestValidateOutputPath(t *testing.T) {
	dir := t.TempDir()
	notDir := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(notDir, []byte("x"), 0600))

	tests := []struct {
		name        string
		path        string
		errContains string
	}{
		{name: "existing parent", path: filepath.Join(dir, "record.json")},
		{name: "missing parent", path: filepath.Join(dir, "missing", "record.json"), errContains: "does not exist"},
		{name: "parent is a file", path: filepath.Join(notDir, "record.json"), errContains: "not a directory"},
		{name: "traversal", path: dir + "/../record.json", errContains: "directory traversal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateOutputPath(tt.path)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.path, got)
		})
	}
}
