package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/florisjonkman/Zobioweb/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
[vault]
base_url = "https://vault.example.com/api"
token = "secret"

[operator]
name = "fjonkman"
`

func TestLoadMinimalConfigAppliesDefaults(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "zobioscan")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.LogDir != filepath.Join(wantData, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.Vault.RequestTimeout != 30 {
		t.Fatalf("unexpected vault timeout: %d", cfg.Vault.RequestTimeout)
	}
	if cfg.Printer.Enabled {
		t.Fatal("expected printer disabled by default")
	}
	if !cfg.Notifications.Submission || !cfg.Notifications.Errors {
		t.Fatal("expected submission and error notifications enabled by default")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
	if len(cfg.Containers) != 2 {
		t.Fatalf("expected 2 default container types, got %d", len(cfg.Containers))
	}
	if cfg.Operator.FullName != "fjonkman" {
		t.Fatalf("expected full name to default to name, got %q", cfg.Operator.FullName)
	}
	if cfg.JournalPath() != filepath.Join(wantData, "journal.db") {
		t.Fatalf("unexpected journal path: %q", cfg.JournalPath())
	}
	if cfg.LockPath() != filepath.Join(wantData, "session.lock") {
		t.Fatalf("unexpected lock path: %q", cfg.LockPath())
	}
}

func TestLoadMissingFileReportsAbsent(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ZOBIOWEB_VAULT_TOKEN", "")

	_, _, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected validation error without vault settings")
	}
	if !strings.Contains(err.Error(), "vault.base_url") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVaultTokenFromEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ZOBIOWEB_VAULT_TOKEN", "env-secret")

	cfg, _, _, err := config.Load(writeConfig(t, `
[vault]
base_url = "https://vault.example.com/api/"

[operator]
name = "fjonkman"
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Vault.Token != "env-secret" {
		t.Fatalf("expected token from env, got %q", cfg.Vault.Token)
	}
	if strings.HasSuffix(cfg.Vault.BaseURL, "/") {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Vault.BaseURL)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*config.Config)
		wantSub string
	}{
		{
			name:    "missing token",
			mutate:  func(c *config.Config) { c.Vault.Token = "" },
			wantSub: "vault.token",
		},
		{
			name:    "bad base url",
			mutate:  func(c *config.Config) { c.Vault.BaseURL = "not a url" },
			wantSub: "vault.base_url",
		},
		{
			name:    "missing operator",
			mutate:  func(c *config.Config) { c.Operator.Name = "" },
			wantSub: "operator.name",
		},
		{
			name: "printer enabled without url",
			mutate: func(c *config.Config) {
				c.Printer.Enabled = true
				c.Printer.URL = ""
			},
			wantSub: "printer.url",
		},
		{
			name:    "no containers",
			mutate:  func(c *config.Config) { c.Containers = nil },
			wantSub: "containers",
		},
		{
			name: "duplicate container",
			mutate: func(c *config.Config) {
				c.Containers = append(c.Containers, config.Container{Name: "cryobox 9x9", Rows: 9, Columns: 9})
			},
			wantSub: "declared twice",
		},
		{
			name: "zero rows",
			mutate: func(c *config.Config) {
				c.Containers = []config.Container{{Name: "Box", Rows: 0, Columns: 9}}
			},
			wantSub: "rows and columns",
		},
	}
	for _, tc := range cases {
		cfg := config.Default()
		cfg.Vault.BaseURL = "https://vault.example.com/api"
		cfg.Vault.Token = "secret"
		cfg.Operator.Name = "fjonkman"
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.wantSub) {
			t.Errorf("%s: error %q does not mention %q", tc.name, err, tc.wantSub)
		}
	}
}

func TestLoadParsesContainerCatalog(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, _, _, err := config.Load(writeConfig(t, minimalConfig+`
[[containers]]
name = "  Rack 4x6 "
rows = 4
columns = 6
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(cfg.Containers) != 1 {
		t.Fatalf("expected declared catalog to replace defaults, got %d entries", len(cfg.Containers))
	}
	if cfg.Containers[0].Name != "Rack 4x6" {
		t.Fatalf("expected trimmed name, got %q", cfg.Containers[0].Name)
	}
}

func TestCreateSampleWritesParsableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	for _, section := range []string{"[vault]", "[operator]", "[[containers]]"} {
		if !strings.Contains(string(data), section) {
			t.Fatalf("sample missing %s section", section)
		}
	}
}

func TestLoggingFormatFallsBackToConsole(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, _, _, err := config.Load(writeConfig(t, minimalConfig+`
[logging]
format = "yaml"
level = "DEBUG"
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("expected unknown format to fall back to console, got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected level lowered, got %q", cfg.Logging.Level)
	}
}
