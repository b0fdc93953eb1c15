// Package vault implements the HTTP client for the Zobioweb backend,
// which proxies CDD Vault. It owns the Operation type (the four scan
// workflows and their status rules), barcode validation, last-location
// lookups, and batch submission.
//
// Every request carries the access token in the Token header and a
// correlation ID in the logs. Failures are tagged with ErrVault.
package vault
