// Package journal persists an audit trail of submitted scan batches in a
// local SQLite database so operators can review past submissions offline.
package journal
