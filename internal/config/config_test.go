package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
gemini:
  apiKey: from-file
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "gemini-flash-latest", cfg.Gemini.FastModel)
	assert.Equal(t, "gemini-3-pro-preview", cfg.Gemini.PowerfulModel)
	assert.Equal(t, 1.0, cfg.Gemini.Temperature)
	assert.Equal(t, "from-file", cfg.Gemini.APIKey)
	assert.Equal(t, 30, cfg.Uploads.TTLMinutes)
	assert.Equal(t, 256, cfg.Uploads.MaxEntries)
	assert.Equal(t, "media", cfg.Minio.MediaFolder)
}

func TestLoad_ExplicitValues(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  apiKeys:
    - k1
gemini:
  apiKey: key
  fastModel: custom-fast
  temperature: 0.2
  structuredOutput: true
minio:
  endpoint: localhost:9000
  bucketName: media-bucket
uploads:
  ttlMinutes: 5
  maxEntries: 16
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"k1"}, cfg.Server.APIKeys)
	assert.Equal(t, "custom-fast", cfg.Gemini.FastModel)
	assert.Equal(t, 0.2, cfg.Gemini.Temperature)
	assert.True(t, cfg.Gemini.StructuredOutput)
	assert.Equal(t, "localhost:9000", cfg.Minio.Endpoint)
	assert.Equal(t, 5, cfg.Uploads.TTLMinutes)
	assert.Equal(t, 16, cfg.Uploads.MaxEntries)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
gemini:
  apiKey: from-file
minio:
  accessKey: file-access
  secretKey: file-secret
`)

	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("MINIO_ACCESS_KEY", "env-access")
	t.Setenv("MINIO_SECRET_KEY", "env-secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Gemini.APIKey)
	assert.Equal(t, "env-access", cfg.Minio.AccessKey)
	assert.Equal(t, "env-secret", cfg.Minio.SecretKey)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
