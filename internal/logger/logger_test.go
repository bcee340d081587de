package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func resetLogger() {
	SetVerbose(false)
	SetOutput(os.Stderr)
}

func TestDebug_SilentByDefault(t *testing.T) {
	defer resetLogger()

	buf := new(bytes.Buffer)
	SetOutput(buf)

	Debug("hidden %d", 1)
	Info("hidden")
	Warn("hidden")

	assert.Empty(t, buf.String())
}

func TestDebug_PrintsWhenVerbose(t *testing.T) {
	defer resetLogger()

	buf := new(bytes.Buffer)
	SetOutput(buf)
	SetVerbose(true)

	Debug("value=%d", 42)

	assert.Equal(t, "[DEBUG] value=42\n", buf.String())
}

func TestInfoAndWarn_Prefixes(t *testing.T) {
	defer resetLogger()

	buf := new(bytes.Buffer)
	SetOutput(buf)
	SetVerbose(true)

	Info("up")
	Warn("careful")

	assert.Contains(t, buf.String(), "[INFO] up\n")
	assert.Contains(t, buf.String(), "[WARN] careful\n")
}

func TestError_PrintsWithoutVerbose(t *testing.T) {
	defer resetLogger()

	buf := new(bytes.Buffer)
	SetOutput(buf)

	Error("boom: %s", "disk")

	assert.Equal(t, "[ERROR] boom: disk\n", buf.String())
}

func TestIsVerbose(t *testing.T) {
	defer resetLogger()

	assert.False(t, IsVerbose())
	SetVerbose(true)
	assert.True(t, IsVerbose())
}
