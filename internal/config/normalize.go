package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeVault()
	c.normalizeOperator()
	c.normalizePrinter()
	c.normalizeNotifications()
	c.normalizeLogging()
	c.normalizeContainers()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeVault() {
	c.Vault.BaseURL = strings.TrimRight(strings.TrimSpace(c.Vault.BaseURL), "/")
	c.Vault.Token = strings.TrimSpace(c.Vault.Token)
	if c.Vault.Token == "" {
		if value, ok := os.LookupEnv("ZOBIOWEB_VAULT_TOKEN"); ok {
			c.Vault.Token = strings.TrimSpace(value)
		}
	}
	if c.Vault.RequestTimeout <= 0 {
		c.Vault.RequestTimeout = defaultVaultTimeout
	}
}

func (c *Config) normalizeOperator() {
	c.Operator.Name = strings.TrimSpace(c.Operator.Name)
	c.Operator.FullName = strings.TrimSpace(c.Operator.FullName)
	if c.Operator.Name == "" {
		if value, ok := os.LookupEnv("USER"); ok {
			c.Operator.Name = strings.TrimSpace(value)
		}
	}
	if c.Operator.FullName == "" {
		c.Operator.FullName = c.Operator.Name
	}
}

func (c *Config) normalizePrinter() {
	c.Printer.URL = strings.TrimRight(strings.TrimSpace(c.Printer.URL), "/")
	if c.Printer.RequestTimeout <= 0 {
		c.Printer.RequestTimeout = defaultPrinterTimeout
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeContainers() {
	if len(c.Containers) == 0 {
		c.Containers = Default().Containers
		return
	}
	for i := range c.Containers {
		c.Containers[i].Name = strings.TrimSpace(c.Containers[i].Name)
	}
}
