package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetupWritesRotatedFile(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	path := filepath.Join(t.TempDir(), "dukkan.log")
	closer := Setup(Options{Level: "info", File: path, MaxSizeMB: 1})

	slog.Debug("hidden")
	slog.Info("cart created", "cart_id", "10192026093000")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	body := string(raw)
	if !strings.Contains(body, `"msg":"cart created"`) || !strings.Contains(body, `"cart_id":"10192026093000"`) {
		t.Fatalf("unexpected log file contents: %s", body)
	}
	if strings.Contains(body, "hidden") {
		t.Fatalf("debug record leaked at info level: %s", body)
	}
}
