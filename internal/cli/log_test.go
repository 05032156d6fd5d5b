package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info", log.InfoLevel, func(l *log.Logger) { l.Info("x") }, true},
		{"debug at info", log.InfoLevel, func(l *log.Logger) { l.Debug("x") }, false},
		{"debug at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("x") }, true},
		{"warn at error", log.ErrorLevel, func(l *log.Logger) { l.Warn("x") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("logged = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Saved story")

	out := buf.String()
	if !strings.Contains(out, "Saved story (") || !strings.Contains(out, "s)") {
		t.Errorf("progress output = %q", out)
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("want log.Default() without an attached logger")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	got := loggerFromContext(withLogger(context.Background(), custom))
	if got != custom {
		t.Fatal("attached logger not returned")
	}
	got.Info("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Error("attached logger did not write")
	}
}
