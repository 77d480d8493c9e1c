package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetLogger() {
	Init(Options{})
}

func TestInitLevels(t *testing.T) {
	defer resetLogger()

	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	Info("info line")
	Debug("debug line")
	assert.Contains(t, buf.String(), "info line")
	assert.NotContains(t, buf.String(), "debug line")

	buf.Reset()
	Init(Options{Debug: true, Output: buf})
	Debug("debug line")
	assert.Contains(t, buf.String(), "debug line")

	buf.Reset()
	Init(Options{Quiet: true, Output: buf})
	Warn("warn line")
	Error("error line")
	assert.NotContains(t, buf.String(), "warn line")
	assert.Contains(t, buf.String(), "error line")
}

func TestInitJSON(t *testing.T) {
	defer resetLogger()

	buf := &bytes.Buffer{}
	Init(Options{JSON: true, Output: buf})
	With("page", "About").Info("converted", "tags", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "converted", entry["msg"])
	assert.Equal(t, "About", entry["page"])
	assert.EqualValues(t, 3, entry["tags"])
}
