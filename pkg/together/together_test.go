package together

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequiresAPIKey(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Config{APIKey: "  "}.Validate(), ErrMissingAPIKey)
	require.NoError(t, Config{APIKey: "k"}.Validate())
}

func TestModelNameDefaults(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultModel, Config{}.ModelName())
	assert.Equal(t, "custom/model", Config{Model: " custom/model "}.ModelName())
}

func TestNewWithoutKeyFails(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	_, err := cfg.New(context.Background())
	require.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Nil(t, NewClient(Config{}))
}

func TestNewBuildsClients(t *testing.T) {
	t.Parallel()

	cfg := &Config{APIKey: "k", BaseURL: "https://api.together.xyz/v1/"}
	m, err := cfg.New(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, m)
	assert.NotNil(t, NewClient(*cfg))
}
