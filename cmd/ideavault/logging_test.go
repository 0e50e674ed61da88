package main

import (
	"log/slog"
	"strings"
	"testing"
)

func TestSelectedLogLevel(t *testing.T) {
	tests := []struct {
		name        string
		flagLevel   string
		envLevel    string
		configLevel string
		wantLevel   string
		wantSource  string
	}{
		{name: "flag wins", flagLevel: "debug", envLevel: "info", configLevel: "warn", wantLevel: "debug", wantSource: "flag"},
		{name: "env beats config", envLevel: "info", configLevel: "warn", wantLevel: "info", wantSource: "env"},
		{name: "config when alone", configLevel: "warn", wantLevel: "warn", wantSource: "config"},
		{name: "default when empty", wantLevel: "", wantSource: "default"},
		{name: "blank flag skipped", flagLevel: "   ", envLevel: "error", wantLevel: "error", wantSource: "env"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			level, source := selectedLogLevel(tc.flagLevel, tc.envLevel, tc.configLevel)
			if level != tc.wantLevel || source != tc.wantSource {
				t.Fatalf("got (%q, %q), want (%q, %q)", level, source, tc.wantLevel, tc.wantSource)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		raw     string
		want    slog.Level
		wantErr bool
	}{
		{raw: "", want: slog.LevelInfo},
		{raw: "debug", want: slog.LevelDebug},
		{raw: "INFO", want: slog.LevelInfo},
		{raw: "warning", want: slog.LevelWarn},
		{raw: "error", want: slog.LevelError},
		{raw: "8", want: slog.Level(8)},
		{raw: "verbose", wantErr: true},
	}

	for _, tc := range tests {
		level, err := parseLogLevel(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parse %q: %v", tc.raw, err)
		}
		if level != tc.want {
			t.Fatalf("parse %q: got %v, want %v", tc.raw, level, tc.want)
		}
	}
}

func TestConfigureLoggerForCLI(t *testing.T) {
	t.Setenv(logLevelEnvKey, "")

	warning, err := configureLoggerForCLI("debug", "")
	if err != nil || warning != "" {
		t.Fatalf("valid flag level: %v %q", err, warning)
	}

	if _, err := configureLoggerForCLI("bogus", ""); err == nil {
		t.Fatal("expected error for invalid flag level")
	}

	warning, err = configureLoggerForCLI("", "bogus")
	if err != nil {
		t.Fatalf("invalid config level must warn, not fail: %v", err)
	}
	if !strings.Contains(warning, "invalid log_level") {
		t.Fatalf("expected warning, got %q", warning)
	}

	t.Setenv(logLevelEnvKey, "nonsense")
	warning, err = configureLoggerForCLI("", "")
	if err != nil {
		t.Fatalf("invalid env level must warn, not fail: %v", err)
	}
	if !strings.Contains(warning, logLevelEnvKey) {
		t.Fatalf("expected env warning, got %q", warning)
	}
}
