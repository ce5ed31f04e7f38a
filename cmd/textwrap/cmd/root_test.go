package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/psantana5/textwrap/internal/config"
	"github.com/psantana5/textwrap/internal/features"
	"github.com/psantana5/textwrap/internal/tlsutil"
	"github.com/psantana5/textwrap/pkg/hyphenation"
)

const sentence = "textwrap: a small library for wrapping text."

func executeCommand(t *testing.T, ctx context.Context, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(features.EnvVar, "")

	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeCommand(t, context.Background(), "", args...)
	return out, err
}

func skipIfCompiledWithHyphenation(t *testing.T) {
	t.Helper()
	if features.Compiled().Enabled(features.Hyphenation) {
		t.Skip("built with -tags hyphenation")
	}
}

func TestFillArguments(t *testing.T) {
	out, err := run(t, "fill", "--width", "18", sentence)
	require.NoError(t, err)
	assert.Equal(t, "textwrap: a small\nlibrary for\nwrapping text.\n", out)
}

func TestFillDictionarySplitter(t *testing.T) {
	out, err := run(t, "fill", "--width", "18", "--splitter", "dictionary", "--features", "hyphenation", sentence)
	require.NoError(t, err)
	assert.Equal(t, "textwrap: a small\nlibrary for wrap-\nping text.\n", out)
}

func TestFillDictionaryNeedsFeature(t *testing.T) {
	skipIfCompiledWithHyphenation(t)

	_, err := run(t, "fill", "--splitter", "dictionary", sentence)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs the hyphenation feature")
}

func TestFillStdinJSON(t *testing.T) {
	out, _, err := executeCommand(t, context.Background(), "one two three four\n", "fill", "--width", "10", "-o", "json")
	require.NoError(t, err)

	var result fillResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 10, result.Width)
	assert.Equal(t, []string{"one two", "three four"}, result.Lines)
}

func TestFillIndents(t *testing.T) {
	out, err := run(t, "fill", "--width", "12", "--initial-indent", "* ", "--subsequent-indent", "  ", "alpha beta gamma delta")
	require.NoError(t, err)
	assert.Equal(t, "* alpha beta\n  gamma\n  delta\n", out)
}

func TestFillReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("width: 10\nsplitter: none\n"), 0644))

	out, err := run(t, "--config", path, "fill", "one two three four")
	require.NoError(t, err)
	assert.Equal(t, "one two\nthree four\n", out)
}

func TestHyphenateJSON(t *testing.T) {
	out, err := run(t, "hyphenate", "-o", "json", "hyphenation", "table")
	require.NoError(t, err)

	var results []hyphenatedWord
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "hy-phen-ation", results[0].Hyphenated)
	assert.Equal(t, []int{2, 6}, results[0].Breaks)
	assert.Equal(t, "ta-ble", results[1].Hyphenated)
}

func TestHyphenateTable(t *testing.T) {
	out, err := run(t, "hyphenate", "wrapping")
	require.NoError(t, err)
	assert.Contains(t, out, "wrap-ping")
}

func TestHyphenateUnsupportedLanguage(t *testing.T) {
	_, err := run(t, "hyphenate", "--lang", "fr", "bonjour")
	require.Error(t, err)
	assert.True(t, errors.Is(err, hyphenation.ErrUnsupportedLanguage))
}

func TestLanguages(t *testing.T) {
	out, err := run(t, "languages")
	require.NoError(t, err)
	assert.Contains(t, out, "en-us")
	assert.Contains(t, out, "bundled")
}

func TestDemoGuidance(t *testing.T) {
	skipIfCompiledWithHyphenation(t)

	out, err := run(t, "demo")
	require.NoError(t, err)
	assert.Equal(t, "Please run this example as\n\n  go run -tags hyphenation ./examples/hyphenation\n", out)
}

func TestDemoWithRuntimeFeature(t *testing.T) {
	out, err := run(t, "demo", "--features", "hyphenation")
	require.NoError(t, err)
	assert.Equal(t, "textwrap: a small\nlibrary for wrap-\nping text.\n", out)
}

func TestDemoCorpusFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hyph-en-us.pat.txt"), []byte("% nothing\n"), 0644))

	out, err := run(t, "demo", "--features", "hyphenation", "--patterns-dir", dir)
	require.Error(t, err)

	var loadErr *hyphenation.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.True(t, errors.Is(err, hyphenation.ErrEmptyPatterns))
	assert.Empty(t, out)
}

func TestConfigExample(t *testing.T) {
	out, err := run(t, "config", "example")
	require.NoError(t, err)
	assert.Equal(t, config.ExampleConfig, out)
}

func TestConfigShow(t *testing.T) {
	out, err := run(t, "config", "show", "-o", "json", "--width", "42")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, 42, cfg.Width)
	assert.Equal(t, "en-us", cfg.Language)

	out, err = run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "width: 80")
	assert.Contains(t, out, "shutdown_timeout: 10s")
}

func TestInvalidOutputFormat(t *testing.T) {
	_, err := run(t, "languages", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestServeStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, _, err := executeCommand(t, ctx, "", "serve", "--addr", "127.0.0.1:0")
	assert.NoError(t, err)
}

func TestServeListenError(t *testing.T) {
	_, _, err := executeCommand(t, context.Background(), "", "serve", "--addr", "127.0.0.1:-1")
	assert.Error(t, err)
}

func TestKeygen(t *testing.T) {
	out, err := run(t, "keygen", "--cost", "4", "-o", "json")
	require.NoError(t, err)

	var key generatedKey
	require.NoError(t, json.Unmarshal([]byte(out), &key))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(key.Hash), []byte(key.Key)))
}

func TestCert(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "cert.pem")
	keyFile := filepath.Join(dir, "key.pem")

	out, err := run(t, "cert", "--cert-file", certFile, "--key-file", keyFile, "--host", "wrap.internal")
	require.NoError(t, err)
	assert.Contains(t, out, "--tls-cert "+certFile)

	_, err = tlsutil.LoadServerConfig(certFile, keyFile)
	assert.NoError(t, err)
}

func TestServeRejectsBadKeyHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  api_key_hashes: [plaintext]\n"), 0644))

	_, _, err := executeCommand(t, context.Background(), "", "--config", path, "serve", "--addr", "127.0.0.1:0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid API key hash")
}
