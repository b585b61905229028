// internal/appconfig/appconfig_test.go
package appconfig

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// TestLoad verifies that a valid configuration file is loaded and defaulted,
// while malformed JSON, schema violations, unknown pair members and missing
// files are rejected with an error.
func TestLoad(t *testing.T) {
	validConfig := `{
        "providers": [
            {"name": "rsa", "algorithm": "RSA", "url": "http://localhost:8080/api", "keySize": 2048},
            {"name": "ecc", "algorithm": "ECC", "url": "http://localhost:8080/api", "keySize": 256}
        ],
        "first": "rsa",
        "second": "ecc",
        "batchCount": 10
    }`

	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load() with valid config failed: %v", err)
	}
	if cfg.BatchCount != 10 {
		t.Errorf("expected batchCount 10, got %d", cfg.BatchCount)
	}
	if cfg.DataSize != defaultDataSize {
		t.Errorf("expected default dataSize %d, got %d", defaultDataSize, cfg.DataSize)
	}
	if cfg.ConfigPath == "" {
		t.Errorf("expected ConfigPath to be recorded")
	}

	cases := map[string]string{
		"invalid json":    `{"providers": [`,
		"unknown field":   `{"hosts": []}`,
		"batch too large": `{"batchCount": 201}`,
		"unknown first":   `{"first": "dsa"}`,
		"same pair":       `{"first": "rsa", "second": "rsa"}`,
		"bad type": `{"providers": [
            {"name": "a", "algorithm": "RSA", "type": "grpc", "keySize": 2048},
            {"name": "b", "algorithm": "ECC", "keySize": 256}]}`,
		"duplicate names": `{"providers": [
            {"name": "a", "algorithm": "RSA", "url": "http://x", "keySize": 2048},
            {"name": "a", "algorithm": "ECC", "url": "http://x", "keySize": 256}]}`,
		"missing url": `{"providers": [
            {"name": "a", "algorithm": "RSA", "keySize": 2048},
            {"name": "b", "algorithm": "ECC", "type": "inprocess", "keySize": 256}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Errorf("expected error for nonexistent file")
	}
}

func TestValidateRejectsNamesDifferingOnlyInCase(t *testing.T) {
	cfg := Config{
		Providers: []Provider{
			{Name: "RSA", Algorithm: "RSA", URL: "http://localhost:8080/api", KeySize: 2048},
			{Name: "rsa", Algorithm: "RSA+AES", URL: "http://localhost:8080/api", KeySize: 2048, Hybrid: true},
			{Name: "ecc", Algorithm: "ECC", URL: "http://localhost:8080/api", KeySize: 256},
		},
		First:  "RSA",
		Second: "ecc",
	}
	cfg.ApplyDefaults()

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "duplicate provider name") {
		t.Fatalf("expected duplicate provider name error, got %v", err)
	}
}

// TestDefaults covers the accessor fallbacks used when fields are unset.
func TestDefaults(t *testing.T) {
	cfg := Default()

	first, second, err := cfg.Pair()
	if err != nil {
		t.Fatalf("Pair() error: %v", err)
	}
	if first.Name != "rsa" || second.Name != "ecc" {
		t.Fatalf("unexpected default pair %s/%s", first.Name, second.Name)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	checks := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"timeout", cfg.RequestTimeout(), 30 * time.Second},
		{"leg delay", cfg.LegDelay(), 500 * time.Millisecond},
		{"iteration delay", cfg.IterationDelay(), 200 * time.Millisecond},
		{"pair delay", cfg.PairDelay(), time.Second},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: expected %s, got %s", c.name, c.want, c.got)
		}
	}
	if cfg.HistoryCapacity() != 5 {
		t.Errorf("expected history capacity 5, got %d", cfg.HistoryCapacity())
	}
	if cfg.ProgressSubject() != DefaultNATSSubject {
		t.Errorf("expected default subject, got %q", cfg.ProgressSubject())
	}
	if cfg.LogFilePath() != "cryptobench.log" {
		t.Errorf("unexpected log path %q", cfg.LogFilePath())
	}
}

func TestExplicitZeroDelays(t *testing.T) {
	zero := 0
	cfg := Default()
	cfg.LegDelayMs = &zero
	cfg.IterationDelayMs = &zero
	if cfg.LegDelay() != 0 || cfg.IterationDelay() != 0 {
		t.Fatalf("explicit zero delays should disable waiting")
	}
	if cfg.PairDelay() != time.Second {
		t.Fatalf("unset pair delay should keep its default")
	}
}

func TestProviderAPIPath(t *testing.T) {
	tests := []struct {
		p    Provider
		want string
	}{
		{Provider{Algorithm: "RSA"}, "rsa"},
		{Provider{Algorithm: "RSA+AES"}, "rsa-aes"},
		{Provider{Algorithm: "ECC", Path: "/ecc/"}, "ecc"},
		{Provider{Algorithm: "X", Path: "custom"}, "custom"},
	}
	for _, tt := range tests {
		if got := tt.p.APIPath(); got != tt.want {
			t.Errorf("APIPath(%+v) = %q, want %q", tt.p, got, tt.want)
		}
	}
	if (Provider{}).TypeOrDefault() != ProviderTypeHTTP {
		t.Errorf("empty type should default to http")
	}
}

func TestShowConfig(t *testing.T) {
	var buf bytes.Buffer
	ShowConfig(&buf, "", Default())
	out := buf.String()
	for _, want := range []string{"using defaults", "First:", "rsa-aes", "hybrid", "Pair Delay:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\n%s", want, out)
		}
	}
}

func TestValidateSchemaFileSkipsNonJSON(t *testing.T) {
	if err := ValidateSchemaFile("config.yaml"); err != nil {
		t.Fatalf("non-json files should be skipped: %v", err)
	}
}
