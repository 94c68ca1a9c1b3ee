package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/merocrm/mero-crm/internal/config"
)

func TestNewFormats(t *testing.T) {
	var buf bytes.Buffer
	app := &config.AppConfig{Name: "mero-crm", Env: "production"}
	NewWithWriter(&buf, app, &config.LogConfig{Level: "info"}).Info("started", "port", "8080")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("production output is not JSON: %s", buf.String())
	}
	if entry["service"] != "mero-crm" || entry["port"] != "8080" {
		t.Errorf("entry = %v", entry)
	}

	buf.Reset()
	app.Env = "development"
	NewWithWriter(&buf, app, &config.LogConfig{Level: "info"}).Info("started")
	if !strings.Contains(buf.String(), "msg=started") {
		t.Errorf("development output = %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
