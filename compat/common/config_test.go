package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaultsWhenMissing(t *testing.T) {
	config, err := Config(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "rush", *config.Crates.Bin)
	assert.Equal(t, "librush", *config.Crates.Lib)
	assert.Equal(t, "docs/api.md", *config.Api.Target)
	assert.Equal(t, time.Second, *config.Browser.Delay)
	assert.Nil(t, config.Publish)
	assert.Equal(t, filepath.Join("crates", "rush", "Cargo.toml"), config.Manifest("rush"))
}

func TestConfigOverridesAndTemplates(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CRANK_TEST_BUCKET", "docs-bucket")
	content := `
crates:
  bin: tool
api:
  parser: syntax
browser:
  delay: 250ms
publish:
  endpoint: https://s3.example.com
  bucket: {{ env.CRANK_TEST_BUCKET || fallback }}
  access_key: {{ env.CRANK_TEST_MISSING || "key" }}
  secret_key: secret
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0644))

	config, err := Config(dir)
	require.NoError(t, err)

	assert.Equal(t, "tool", *config.Crates.Bin)
	assert.Equal(t, "librush", *config.Crates.Lib)
	assert.Equal(t, "syntax", *config.Api.Parser)
	assert.Equal(t, 250*time.Millisecond, *config.Browser.Delay)
	require.NotNil(t, config.Publish)
	assert.Equal(t, "docs-bucket", *config.Publish.Bucket)
	assert.Equal(t, "key", *config.Publish.AccessKey)
}

func TestConfigRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("api:\n  parser: regex\n"), 0644))

	_, err := Config(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Parser")
	assert.Contains(t, err.Error(), "oneof")
}

func TestTemplate(t *testing.T) {
	t.Setenv("CRANK_TEST_VALUE", "present")
	t.Setenv("CRANK_TEST_EMPTY", "")

	for input, expected := range map[string]string{
		"a: {{ env.CRANK_TEST_VALUE }}":                         "a: present",
		"a: {{ env.CRANK_TEST_UNSET || plain }}":                "a: plain",
		"a: {{ env.CRANK_TEST_EMPTY || env.CRANK_TEST_VALUE }}": "a: present",
		`a: {{ env.CRANK_TEST_UNSET || "" }}`:                   `a: ""`,
		"a: [{{ env.CRANK_TEST_UNSET || 1 }}]":                  "a: [1]",
	} {
		output, err := Template([]byte(input))
		require.NoError(t, err, input)
		assert.Equal(t, expected, string(output), input)
	}
}

func TestTemplateUnresolved(t *testing.T) {
	_, err := Template([]byte("a: {{ env.CRANK_TEST_UNSET }}\nb: {{ env.CRANK_TEST_OTHER || env.CRANK_TEST_UNSET }}\n"))
	require.ErrorIs(t, err, ErrUnresolved)
	assert.Contains(t, err.Error(), "env.CRANK_TEST_UNSET, env.CRANK_TEST_OTHER || env.CRANK_TEST_UNSET")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("release:\n  command: {{ env.CRANK_TEST_UNSET }}\n"), 0644))
	_, err = Config(dir)
	assert.ErrorIs(t, err, ErrUnresolved)
}
