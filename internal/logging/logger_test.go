package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitialize_SilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")

	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger should be silent when no level is configured")
	}
}

func TestInitialize_FromEnv(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "warn")

	if err := InitializeFromEnv(); err != nil {
		t.Fatalf("InitializeFromEnv() error = %v", err)
	}
	defer SetLogger(nil)

	core := GetLogger().Core()
	if !core.Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled")
	}
	if core.Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
}

func TestInitializeWithOutput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cuenta.log")

	if err := InitializeWithOutput("debug", path); err != nil {
		t.Fatalf("InitializeWithOutput() error = %v", err)
	}
	defer SetLogger(nil)

	LogSubmission("change_password", "submitted", zap.String("user_id", "u1"))
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "Submission") || !strings.Contains(out, "change_password") {
		t.Errorf("log file missing submission entry: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("file output should not contain color escapes")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestKVFields(t *testing.T) {
	fields := kvFields([]interface{}{"url", "http://x", "attempt", 2, "dangling"})
	if len(fields) != 3 {
		t.Fatalf("kvFields() returned %d fields, want 3", len(fields))
	}
	if fields[0].Key != "url" || fields[1].Key != "attempt" || fields[2].Key != "dangling" {
		t.Errorf("unexpected keys: %v, %v, %v", fields[0].Key, fields[1].Key, fields[2].Key)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abc", 5); got != "abc" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("abcdef", 3); got != "abc..." {
		t.Errorf("truncate long = %q", got)
	}
}
