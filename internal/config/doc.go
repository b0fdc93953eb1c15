// Package config loads, normalizes, and validates zobioscan configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// ZOBIOWEB_VAULT_TOKEN. The Config type centralizes every knob the CLI needs,
// from vault credentials to the container-type catalog.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
