package gekko

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLogger is a second Logger type, installed next to a DefaultLogger.
type captureLogger struct {
	nopLogger
	lines []string
}

func (l *captureLogger) Infof(format string, args ...any) {
	l.lines = append(l.lines, format)
}

func TestApp_LoggerIsEarliestInstalled(t *testing.T) {
	app := NewApp()
	var out bytes.Buffer
	first := NewLoggerTo(&out, &out, "first", false)
	app.addResources(first, &counter{}, &captureLogger{})

	for i := 0; i < 50; i++ {
		require.Same(t, first, app.Logger())
	}
}

func TestApp_LoggerDefaultsToNop(t *testing.T) {
	var nilApp *App
	assert.NotNil(t, nilApp.Logger())

	app := NewApp()
	_, ok := app.Logger().(*nopLogger)
	assert.True(t, ok)
}

func TestDefaultLogger_Routing(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := NewLoggerTo(&out, &errOut, "demo", false)

	logger.Debugf("hidden %d", 1)
	logger.Infof("shown %d", 2)
	logger.Warnf("careful")
	logger.Errorf("broken")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[demo] INFO: shown 2")
	assert.Contains(t, errOut.String(), "[demo] WARN: careful")
	assert.Contains(t, errOut.String(), "[demo] ERROR: broken")

	logger.SetDebug(true)
	logger.Debugf("visible")
	assert.Contains(t, out.String(), "[demo] DEBUG: visible")
}
