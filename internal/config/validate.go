package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateVault(); err != nil {
		return err
	}
	if err := c.validateOperator(); err != nil {
		return err
	}
	if err := c.validatePrinter(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateContainers(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateVault() error {
	if c.Vault.BaseURL == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/zobioscan/config.toml"
		}
		return fmt.Errorf("vault.base_url is required. Edit %s (create with 'zobioscan config init')", defaultPath)
	}
	parsed, err := url.Parse(c.Vault.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("vault.base_url %q is not a valid URL", c.Vault.BaseURL)
	}
	if c.Vault.Token == "" {
		return errors.New("vault.token is required. Set ZOBIOWEB_VAULT_TOKEN env var or add it to the config file")
	}
	if c.Vault.RequestTimeout <= 0 {
		return errors.New("vault.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateOperator() error {
	if c.Operator.Name == "" {
		return errors.New("operator.name must be set")
	}
	return nil
}

func (c *Config) validatePrinter() error {
	if !c.Printer.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Printer.URL) == "" {
		return errors.New("printer.url must be set when printer.enabled is true")
	}
	if c.Printer.RequestTimeout <= 0 {
		return errors.New("printer.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateContainers() error {
	if len(c.Containers) == 0 {
		return errors.New("at least one [[containers]] entry must be declared")
	}
	seen := make(map[string]struct{}, len(c.Containers))
	for _, entry := range c.Containers {
		if entry.Name == "" {
			return errors.New("containers.name must be set")
		}
		if entry.Rows < 1 || entry.Columns < 1 {
			return fmt.Errorf("container %q: rows and columns must be positive", entry.Name)
		}
		key := strings.ToLower(entry.Name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("container %q declared twice", entry.Name)
		}
		seen[key] = struct{}{}
	}
	return nil
}
