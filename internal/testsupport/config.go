package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/florisjonkman/Zobioweb/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Vault.BaseURL = "http://127.0.0.1:0"
	cfg.Vault.Token = "test-token"
	cfg.Operator.Name = "tester"
	cfg.Operator.FullName = "Test Operator"
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithVaultURL points the test config at the provided vault server.
func WithVaultURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Vault.BaseURL = url
	}
}

// WithPrinter enables the label printer pointed at the provided service.
func WithPrinter(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Printer.Enabled = true
		cfg.Printer.URL = url
	}
}

// WithNtfyTopic enables submission and error notifications on the topic.
func WithNtfyTopic(topic string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.NtfyTopic = topic
		cfg.Notifications.Submission = true
		cfg.Notifications.Errors = true
	}
}
