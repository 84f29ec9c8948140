package logx

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

// Not parallel: these tests swap the global logger.

func TestInitWriterLevels(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	InitWriter(&buf, Config{})
	log.Debug().Msg("hidden")
	log.Info().Str("route", "chat").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"route":"chat"`)
	assert.Contains(t, out, `"message":"shown"`)

	SetDebug(true)
	assert.Equal(t, zerolog.DebugLevel, log.Logger.GetLevel())
	SetDebug(false)
	assert.Equal(t, zerolog.InfoLevel, log.Logger.GetLevel())
}

func TestInitWriterPretty(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	InitWriter(&buf, Config{Debug: true, PrettyFormat: true})
	log.Debug().Msg("console line")

	assert.Contains(t, buf.String(), "console line")
	assert.NotContains(t, buf.String(), `"message"`)
}
