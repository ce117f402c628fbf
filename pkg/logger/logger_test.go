package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name          string
		format        string
		level         string
		shouldLogInfo bool
		expectPanic   bool
	}{
		{name: "json debug", format: "json", level: "debug", shouldLogInfo: true},
		{name: "json info", format: "json", level: "info", shouldLogInfo: true},
		{name: "json warn", format: "json", level: "warn", shouldLogInfo: false},
		{name: "text info", format: "text", level: "info", shouldLogInfo: true},
		{name: "text error", format: "text", level: "error", shouldLogInfo: false},
		{name: "unknown level is info", format: "text", level: "chatty", shouldLogInfo: true},
		{name: "invalid format panics", format: "xml", level: "info", expectPanic: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if tc.expectPanic {
				assert.Panics(t, func() { New(tc.level, tc.format, &buf) })
				return
			}

			l := New(tc.level, tc.format, &buf)
			l.Info("hello", "addr", "0x1ac")

			if !tc.shouldLogInfo {
				assert.Empty(t, buf.String())
				return
			}
			require.NotEmpty(t, buf.String())
			if tc.format == "json" {
				var m map[string]any
				require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
				assert.Equal(t, "hello", m["msg"])
				assert.Equal(t, "0x1ac", m["addr"])
			} else {
				assert.Contains(t, buf.String(), "msg=hello")
				assert.Contains(t, buf.String(), "addr=0x1ac")
			}
		})
	}
}

func TestDebugAddsShortSource(t *testing.T) {
	var buf bytes.Buffer
	New("debug", "text", &buf).Debug("rdmsr")

	out := buf.String()
	require.Contains(t, out, "source=")
	assert.Contains(t, out, "logger/logger_test.go")
	assert.False(t, strings.Contains(out, "/root/") || strings.Contains(out, "/home/"), out)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}
