package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "reference_date: \"2011-12-10\"\nrules_file: segments.yaml\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CancellationPrefix != "C" {
		t.Fatalf("CancellationPrefix = %q, want C", cfg.CancellationPrefix)
	}
	if cfg.QuantileBins != 5 {
		t.Fatalf("QuantileBins = %d, want 5", cfg.QuantileBins)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate_MissingReferenceDate(t *testing.T) {
	cfg, err := Load(writeConfig(t, "rules_file: segments.yaml\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing reference_date, got nil")
	}
}

func TestValidate_MissingRulesFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, "reference_date: \"2011-12-10\"\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing rules_file, got nil")
	}
}

func TestValidate_BinsOutOfRange(t *testing.T) {
	for _, bins := range []string{"1", "10"} {
		cfg, err := Load(writeConfig(t,
			"reference_date: \"2011-12-10\"\nrules_file: s.yaml\nquantile_bins: "+bins+"\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected error for quantile_bins=%s, got nil", bins)
		}
	}
}

func TestReference_DateOnly(t *testing.T) {
	cfg := &Config{ReferenceDate: "2011-12-10"}
	ref, err := cfg.Reference()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2011, 12, 10, 0, 0, 0, 0, time.UTC)
	if !ref.Equal(want) {
		t.Fatalf("Reference = %v, want %v", ref, want)
	}
}

func TestReference_RFC3339(t *testing.T) {
	cfg := &Config{ReferenceDate: "2011-12-10T12:00:00+02:00"}
	ref, err := cfg.Reference()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Location() != time.UTC {
		t.Fatalf("Reference not normalized to UTC: %v", ref)
	}
}

func TestReference_Invalid(t *testing.T) {
	cfg := &Config{ReferenceDate: "10/12/2011"}
	if _, err := cfg.Reference(); err == nil {
		t.Fatal("expected error for unsupported date format, got nil")
	}
}

func TestEngine(t *testing.T) {
	cfg := &Config{ReferenceDate: "2011-12-10", CancellationPrefix: "C", QuantileBins: 5}
	engine, err := cfg.Engine(true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !engine.Verbose || engine.QuantileBins != 5 || engine.CancellationPrefix != "C" {
		t.Fatalf("engine config mismatch: %+v", engine)
	}
	if engine.ReferenceDate.IsZero() {
		t.Fatal("ReferenceDate not set")
	}
}
