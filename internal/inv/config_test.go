package inv_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dhruv-4604/inventory-cli/internal/inv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), inv.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `# backend
API_URL=http://localhost:8080/api/
API_TOKEN=secret
CURRENCY=eur
PAGE_SIZE=25
TIMEOUT_SECONDS=5
`)

	cfg, err := inv.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.APIURL)
	assert.Equal(t, "secret", cfg.APIToken)
	assert.Equal(t, "EUR", cfg.Currency)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, 5*time.Second, cfg.Timeout())
	assert.Equal(t, "Inventory CLI", cfg.Brand)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, path, cfg.Source)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "API_URL=http://localhost:8080\nPAGE_SIZE=25\n")
	t.Setenv("INV_PAGE_SIZE", "50")
	t.Setenv("INV_BRAND", "Acme Supply")

	cfg, err := inv.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, "Acme Supply", cfg.Brand)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"page size zero", "API_URL=http://x.test\nPAGE_SIZE=0", "PageSize: min=1"},
		{"page size not a number", "API_URL=http://x.test\nPAGE_SIZE=ten", "PAGE_SIZE must be an integer"},
		{"bad url", "API_URL=not-a-url", "APIURL: url"},
		{"missing url", "BRAND=Shop", "APIURL: required"},
		{"currency too long", "API_URL=http://x.test\nCURRENCY=EURO", "Currency: len=3"},
		{"unknown log level", "API_URL=http://x.test\nLOG_LEVEL=loud", "LogLevel: oneof"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := inv.LoadConfig(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := inv.LoadConfig(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot read config")
}

func TestLoadConfig_EnvOnly(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("INV_API_URL", "https://inventory.example.com")

	cfg, err := inv.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "https://inventory.example.com", cfg.APIURL)
	assert.Empty(t, cfg.Source)
}

func TestLoadConfig_NothingConfigured(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("INV_API_URL", "")

	_, err := inv.LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}
