package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stockwatch.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppConfig(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		expectError bool
		validate    func(*testing.T, *AppConfig)
	}{
		{
			name: "valid config",
			yaml: `board:
  stagger_ms: 150
  idle_ttl_minutes: 90
logo:
  domains:
    ACME: "acme.example"
`,
			validate: func(t *testing.T, cfg *AppConfig) {
				if got := cfg.Stagger(300 * time.Millisecond); got != 150*time.Millisecond {
					t.Errorf("expected 150ms stagger, got %v", got)
				}
				if got := cfg.IdleTTL(2 * time.Hour); got != 90*time.Minute {
					t.Errorf("expected 90m idle ttl, got %v", got)
				}
				if cfg.Logo.Domains["ACME"] != "acme.example" {
					t.Errorf("expected domain override, got %q", cfg.Logo.Domains["ACME"])
				}
			},
		},
		{
			name: "empty config falls back to defaults",
			yaml: "{}\n",
			validate: func(t *testing.T, cfg *AppConfig) {
				if got := cfg.Stagger(300 * time.Millisecond); got != 300*time.Millisecond {
					t.Errorf("expected default stagger, got %v", got)
				}
				if got := cfg.IdleTTL(2 * time.Hour); got != 2*time.Hour {
					t.Errorf("expected default idle ttl, got %v", got)
				}
			},
		},
		{
			name:        "stagger out of range",
			yaml:        "board:\n  stagger_ms: 60000\n",
			expectError: true,
		},
		{
			name:        "negative idle ttl",
			yaml:        "board:\n  idle_ttl_minutes: -5\n",
			expectError: true,
		},
		{
			name:        "empty domain value",
			yaml:        "logo:\n  domains:\n    AAPL: \"\"\n",
			expectError: true,
		},
		{
			name:        "malformed yaml",
			yaml:        "board: [not a map\n",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadAppConfig(writeConfigFile(t, tt.yaml))
			if tt.expectError {
				if err == nil {
					t.Fatal("expected an error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.validate(t, cfg)
		})
	}
}

func TestLoadAppConfig_MissingFile(t *testing.T) {
	if _, err := LoadAppConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestAppConfig_NilReceiverDefaults(t *testing.T) {
	var cfg *AppConfig
	if got := cfg.Stagger(300 * time.Millisecond); got != 300*time.Millisecond {
		t.Errorf("expected default stagger on nil config, got %v", got)
	}
	if got := cfg.IdleTTL(time.Hour); got != time.Hour {
		t.Errorf("expected default idle ttl on nil config, got %v", got)
	}
}
