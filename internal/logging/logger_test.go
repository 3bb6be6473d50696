package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithCarriesFields(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	var buf bytes.Buffer
	Init(&buf, "debug")

	With("requestId", "abc123").Info("bundle delivered", "tuples", 3)

	out := buf.String()
	assert.Contains(t, out, "bundle delivered")
	assert.Contains(t, out, "requestId=abc123")
	assert.Contains(t, out, "tuples=3")
}

func TestInitUnknownLevelFallsBackToInfo(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	var buf bytes.Buffer
	Init(&buf, "chatty")

	Debug("hidden")
	Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
