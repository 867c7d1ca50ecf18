package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shady333/gettingHWaccess/pkg/logger"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{name: "debug", input: "debug", want: slog.LevelDebug},
		{name: "info", input: "info", want: slog.LevelInfo},
		{name: "warn", input: "warn", want: slog.LevelWarn},
		{name: "warning alias", input: "warning", want: slog.LevelWarn},
		{name: "upper case", input: "ERROR", want: slog.LevelError},
		{name: "surrounding spaces", input: " debug ", want: slog.LevelDebug},
		{name: "empty defaults to info", input: "", want: slog.LevelInfo},
		{name: "unknown defaults to info", input: "trace", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, logger.ParseLevel(tt.input))
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	require.NotNil(t, logger.New("info", "text"))
	require.NotNil(t, logger.Discard())
}

func TestNewWithWriter_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format string
		want   []string
	}{
		{name: "text", format: "text", want: []string{"level=INFO", "msg=polled", "product_id=p1"}},
		{name: "json", format: "json", want: []string{`"level":"INFO"`, `"msg":"polled"`, `"product_id":"p1"`}},
		{name: "json upper case", format: "JSON", want: []string{`"msg":"polled"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			l := logger.NewWithWriter(&buf, "info", tt.format)
			l.Info("polled", "product_id", "p1")

			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		level      string
		logFunc    func(*slog.Logger)
		wantOutput bool
	}{
		{
			name:       "debug visible at debug level",
			level:      "debug",
			logFunc:    func(l *slog.Logger) { l.Debug("test") },
			wantOutput: true,
		},
		{
			name:       "debug suppressed at info level",
			level:      "info",
			logFunc:    func(l *slog.Logger) { l.Debug("test") },
			wantOutput: false,
		},
		{
			name:       "info suppressed at warn level",
			level:      "warn",
			logFunc:    func(l *slog.Logger) { l.Info("test") },
			wantOutput: false,
		},
		{
			name:       "error visible at warn level",
			level:      "warn",
			logFunc:    func(l *slog.Logger) { l.Error("test") },
			wantOutput: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			l := logger.NewWithWriter(&buf, tt.level, "text")
			tt.logFunc(l)

			if tt.wantOutput {
				assert.NotEmpty(t, buf.String())
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}
