package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/psantana5/textwrap/pkg/hyphenation"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 80, cfg.Width)
	assert.Equal(t, "en-us", cfg.Language)
	assert.Equal(t, SplitterHyphen, cfg.Splitter)
	assert.True(t, cfg.BreakWords)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, hyphenation.EnglishUS, cfg.LanguageCode())
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, "textwrap", cfg.Tracing.ServiceName)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
width: 18
splitter: dictionary
features: hyphenation
server:
  addr: "127.0.0.1:9000"
  shutdown_timeout: 2s
`)

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 18, cfg.Width)
	assert.Equal(t, SplitterDictionary, cfg.Splitter)
	assert.Equal(t, "hyphenation", cfg.Features)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 2*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 40, cfg.Server.Burst)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "width: 18\n")
	t.Setenv("TEXTWRAP_WIDTH", "40")
	t.Setenv("TEXTWRAP_SERVER_ADDR", ":9999")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, ":9999", cfg.Server.Addr)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		content string
		desc    string
	}{
		{"width: -1\n", "negative width"},
		{"splitter: fancy\n", "unknown splitter"},
		{"language: english\n", "bad language"},
		{"server:\n  rate_limit: -1\n", "negative rate"},
		{"server:\n  max_width: 0\n", "zero max width"},
		{"server:\n  tls_cert: cert.pem\n", "cert without key"},
		{"server:\n  rate_limit: 5\n  burst: 0\n", "zero burst with rate limit"},
		{"server:\n  trusted_proxies: [\"proxy.local\"]\n", "bad trusted proxy"},
		{"tracing:\n  enabled: true\n  endpoint: \"\"\n", "tracing without endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			_, err := Load(viper.New(), writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestExampleConfigIsValid(t *testing.T) {
	var parsed map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(ExampleConfig), &parsed))

	cfg, err := Load(viper.New(), writeConfig(t, ExampleConfig))
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.Width)
	assert.Equal(t, int64(1048576), cfg.Server.MaxBodyBytes)
	assert.Empty(t, cfg.Server.APIKeyHashes)
}

func TestLoadAPIKeyHashes(t *testing.T) {
	cfg, err := Load(viper.New(), writeConfig(t, "server:\n  api_key_hashes:\n    - $2a$04$abc\n    - $2a$04$def\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"$2a$04$abc", "$2a$04$def"}, cfg.Server.APIKeyHashes)
}

func TestLoadZeroBurstWithoutRateLimit(t *testing.T) {
	cfg, err := Load(viper.New(), writeConfig(t, "server:\n  rate_limit: 0\n  burst: 0\n"))
	require.NoError(t, err)
	assert.Zero(t, cfg.Server.Burst)
}

func TestLoadTrustedProxies(t *testing.T) {
	cfg, err := Load(viper.New(), writeConfig(t, "server:\n  trusted_proxies:\n    - 10.0.0.0/8\n    - 192.0.2.7\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.7"}, cfg.Server.TrustedProxies)
}
