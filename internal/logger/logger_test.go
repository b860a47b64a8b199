package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Str("file", "pl.csv").Msg("parsed")

	assert.Contains(t, buf.String(), `"message":"parsed"`)
	assert.Contains(t, buf.String(), `"file":"pl.csv"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}

func TestNewTo_Level(t *testing.T) {
	assert.Equal(t, zerolog.ErrorLevel, NewTo(&bytes.Buffer{}, "error", FormatJSON).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, NewTo(&bytes.Buffer{}, "loud", FormatConsole).GetLevel())
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	log := FromContext(ctx)
	log.Warn().Msg("fallback")

	assert.Contains(t, buf.String(), "fallback")
}

func TestFromContext_Default(t *testing.T) {
	log := FromContext(context.Background())
	assert.Equal(t, zerolog.Disabled, log.GetLevel())
}

func TestNewTo(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewTo(buf, "warn", FormatJSON)

	log.Info().Msg("hidden")
	log.Warn().Str("provider", "gemini").Msg("categorizer unavailable")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"provider":"gemini"`)

	buf.Reset()
	console := NewTo(buf, "info", FormatConsole)
	console.Info().Msg("plain")
	assert.Contains(t, buf.String(), "plain")
	assert.NotContains(t, buf.String(), "{")
}
