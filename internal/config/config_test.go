package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingDefaultFileUsesDefaults(t *testing.T) {
	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "./invoice-items.csv", config.Workbook)
	assert.Equal(t, "#ffffff", config.DefaultColor)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.Equal(t, "Invoice Items", config.XLSX.SheetName)
	assert.Equal(t, ":8080", config.Server.Addr)
	assert.Equal(t, "csv", config.Convert.OutputFormat)
	assert.Equal(t, 4, config.Convert.MaxConcurrency)
	assert.True(t, config.Convert.ShouldArchive())
	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "stderr", config.Log.Output)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
workbook: ./books/items.xlsx
default_color: "#FFEEAA"
csv:
  delimiter: semicolon
server:
  allowed_origins: ["https://ledger.example.com"]
  autosave: true
convert:
  output_format: XML
  max_concurrency: 2
  archive_inputs: false
  archive_by_date: true
log:
  level: debug
  format: json
`)

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "./books/items.xlsx", config.Workbook)
	assert.Equal(t, "semicolon", config.CSV.Delimiter)
	assert.Equal(t, []string{"https://ledger.example.com"}, config.Server.AllowedOrigins)
	assert.True(t, config.Server.Autosave)
	assert.Equal(t, "xml", config.Convert.OutputFormat)
	assert.Equal(t, 2, config.Convert.MaxConcurrency)
	assert.False(t, config.Convert.ShouldArchive())
	assert.True(t, config.Convert.ArchiveByDate)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "{original}_{timestamp}", config.Convert.FileNameFormat, "unset keys keep defaults")
}

func TestLoad_EmptyOriginsAllowAny(t *testing.T) {
	config, err := Load(writeConfig(t, "server:\n  allowed_origins: []\n"))
	require.NoError(t, err)
	assert.NotNil(t, config.Server.AllowedOrigins)
	assert.Empty(t, config.Server.AllowedOrigins)

	config, err = Load(writeConfig(t, "server:\n  addr: \":9090\"\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:3000"}, config.Server.AllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"yaml":   "workbook: [unterminated",
		"color":  `default_color: "blue"`,
		"format": "convert:\n  output_format: pdf\n",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvWorkbook, "/tmp/env.csv")
	t.Setenv(EnvServerAddr, "127.0.0.1:9999")
	t.Setenv(EnvLogLevel, " warn ")

	config, err := Load(writeConfig(t, "workbook: ./file.csv\n"))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/env.csv", config.Workbook)
	assert.Equal(t, "127.0.0.1:9999", config.Server.Addr)
	assert.Equal(t, "warn", config.Log.Level)
}

func TestApplyEnv_BlankValuesIgnored(t *testing.T) {
	config := Default()
	env := map[string]string{EnvLogFormat: "json", EnvLogOutput: "  "}

	applyEnv(config, func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})

	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "stderr", config.Log.Output)
}
