package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	Name    string        `split_words:"true" required:"true"`
	Timeout time.Duration `split_words:"true" default:"5s"`
	Key     string        `envconfig:"SECRET_KEY"`
}

type checkedConfig struct {
	Port int `default:"0"`
}

func (c *checkedConfig) Validate() error {
	if c.Port == 0 {
		return errors.New("port is required")
	}
	return nil
}

func TestNewReadsPrefixedEnv(t *testing.T) {
	SetEnvFile("")
	t.Setenv("SAMPLE_NAME", "assistant")
	t.Setenv("SAMPLE_TIMEOUT", "2s")

	cfg, err := New[sampleConfig]("SAMPLE")
	require.NoError(t, err)
	assert.Equal(t, "assistant", cfg.Name)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
}

func TestNewFallsBackToUnprefixedKey(t *testing.T) {
	SetEnvFile("")
	t.Setenv("SAMPLE_NAME", "x")
	t.Setenv("SECRET_KEY", "bare")

	cfg, err := New[sampleConfig]("SAMPLE")
	require.NoError(t, err)
	assert.Equal(t, "bare", cfg.Key)

	t.Setenv("SAMPLE_SECRET_KEY", "prefixed")
	cfg, err = New[sampleConfig]("SAMPLE")
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.Key)
}

func TestNewMissingRequired(t *testing.T) {
	SetEnvFile("")
	t.Setenv("SAMPLE_NAME", "")
	require.NoError(t, os.Unsetenv("SAMPLE_NAME"))

	_, err := New[sampleConfig]("SAMPLE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sample")
}

func TestNewRunsValidate(t *testing.T) {
	SetEnvFile("")
	t.Setenv("CHECKED_PORT", "0")

	_, err := New[checkedConfig]("CHECKED")
	require.EqualError(t, err, "port is required")

	t.Setenv("CHECKED_PORT", "8080")
	cfg, err := New[checkedConfig]("CHECKED")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}

func TestEnvFileDoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("FILECFG_NAME=from-file\nFILECFG_TIMEOUT=7s\n"), 0o600))

	t.Setenv("FILECFG_TIMEOUT", "1s")
	t.Cleanup(func() {
		_ = os.Unsetenv("FILECFG_NAME")
		SetEnvFile("")
	})
	SetEnvFile(path)

	cfg, err := New[sampleConfig]("FILECFG")
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Name)
	assert.Equal(t, time.Second, cfg.Timeout)
}

func TestMissingEnvFileFails(t *testing.T) {
	t.Cleanup(func() { SetEnvFile("") })
	SetEnvFile(filepath.Join(t.TempDir(), "nope.env"))

	_, err := New[sampleConfig]("SAMPLE")
	require.Error(t, err)
}
