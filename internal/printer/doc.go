// Package printer submits container barcode labels to the configured label
// printer service. When printing is disabled the noop implementation drops
// labels silently so the scan workflow never has to branch on configuration.
package printer
