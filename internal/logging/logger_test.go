package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTextLoggerWritesFormattedMessage(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Config{Level: "info", Format: "text", Output: buf})

	logger.Info("hello %s", "world")

	assert.Contains(t, buf.String(), "hello world")
}

func TestLevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Config{Level: "warn", Format: "text", Output: buf})

	logger.Debug("hidden")
	logger.Info("also hidden")
	logger.Warn("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
}

func TestWithComponentPrefixesMessages(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := WithComponent(New(Config{Level: "debug", Format: "text", Output: buf}), "gate")

	logger.Debug("scored %.2f", 0.5)

	assert.Contains(t, buf.String(), "[gate] scored 0.50")
}

func TestOrNopHandlesNil(t *testing.T) {
	var logger Logger
	safe := OrNop(logger)
	assert.False(t, IsNil(safe))
	safe.Info("should not panic")

	var typedNil *slogLogger
	assert.True(t, IsNil(typedNil))
}
