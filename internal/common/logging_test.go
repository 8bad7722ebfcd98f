package common

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		v    int
		want Level
	}{
		{-1, LevelError},
		{0, LevelError},
		{1, LevelWarning},
		{2, LevelInfo},
		{3, LevelDebug},
		{9, LevelDebug},
	}
	for _, tc := range tests {
		if got := LevelFromVerbosity(tc.v); got != tc.want {
			t.Fatalf("LevelFromVerbosity(%d) = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestLoggerThreshold(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)
	l.SetColor(false)
	l.SetLevel(LevelWarning)
	l.Infof("hidden %d", 1)
	l.Warningf("Illegal value for %s. Skipping.", "lat (deg)")
	l.Criticalf("boom")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info message leaked past warning threshold: %q", out)
	}
	if !strings.Contains(out, "WARNING  Illegal value for lat (deg). Skipping.\n") {
		t.Fatalf("missing warning line: %q", out)
	}
	if !strings.Contains(out, "CRITICAL boom\n") {
		t.Fatalf("missing critical line: %q", out)
	}
	if !l.Enabled(LevelError) || l.Enabled(LevelDebug) {
		t.Fatalf("Enabled does not follow threshold")
	}
}

func TestLoggerFileSink(t *testing.T) {
	var console bytes.Buffer
	l := NewLogger(&console)
	l.SetColor(false)
	path := filepath.Join(t.TempDir(), "logs", "fc2csv.log")
	if err := l.AttachFile(FileSink{Path: path, MaxSizeMB: 1}); err != nil {
		t.Fatalf("AttachFile: %v", err)
	}
	l.Errorf("cannot open %s", "x.fc2")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "[fc2csv] ") || !strings.Contains(string(data), "ERROR    cannot open x.fc2") {
		t.Fatalf("unexpected log file content: %q", data)
	}
	if err := l.AttachFile(FileSink{}); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestParseLevel(t *testing.T) {
	if lvl, err := ParseLevel("Warning"); err != nil || lvl != LevelWarning {
		t.Fatalf("ParseLevel(Warning) = %v, %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
