package handlers

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		level     string
		wantDebug bool
	}{
		{name: "default", level: "", wantDebug: false},
		{name: "info", level: "info", wantDebug: false},
		{name: "debug", level: "debug", wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			log, err := NewLogger(tt.level, false, &buf)
			require.NoError(t, err)

			log.Info("manifests staged", "files", 6)
			log.V(1).Info("sleeping", "duration", "1s")

			assert.Contains(t, buf.String(), `"msg":"manifests staged"`)
			assert.Contains(t, buf.String(), `"files":6`)
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("sleeping")))
		})
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	t.Parallel()

	_, err := NewLogger("loud", false, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid log level "loud"`)
}

func TestSetup(t *testing.T) {
	stubFactories(t)
	origOutput := logOutput
	t.Cleanup(func() { logOutput = origOutput })

	var buf bytes.Buffer
	logOutput = &buf
	require.NoError(t, Setup(Options{LogLevel: "info", MetricsFile: "/var/lib/node_exporter/rookctl.prom"}))

	logger.Info("configured")
	assert.Contains(t, buf.String(), "configured")
	assert.Equal(t, "/var/lib/node_exporter/rookctl.prom", metricsFile)

	assert.Error(t, Setup(Options{LogLevel: "loud"}))
}
