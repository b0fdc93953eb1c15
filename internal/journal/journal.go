package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/florisjonkman/Zobioweb/internal/config"
)

// Record status values stored in the journal.
const (
	RecordSubmitted = "submitted"
	RecordFailed    = "failed"
)

// Batch summarizes one submitted scan batch.
type Batch struct {
	ID          string
	Operation   string
	ProjectID   int64
	ProjectName string
	Operator    string
	SubmittedAt time.Time
	RecordCount int
	FailedCount int
	Success     bool
}

// Record is one scanned item within a batch.
type Record struct {
	BatchID          string
	Sequence         int
	Barcode          string
	Box              int
	SlotLabel        string
	ContainerBarcode string
	Status           string
	FailureReason    string
}

// Store persists the submission journal backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.JournalPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordSubmission writes a batch and its records in one transaction and
// returns the stored batch with its generated id and timestamp filled in.
func (s *Store) RecordSubmission(ctx context.Context, batch Batch, records []Record) (*Batch, error) {
	if batch.ID == "" {
		batch.ID = uuid.NewString()
	}
	if batch.SubmittedAt.IsZero() {
		batch.SubmittedAt = time.Now().UTC()
	}
	batch.RecordCount = len(records)
	batch.FailedCount = 0
	for _, rec := range records {
		if rec.Status == RecordFailed {
			batch.FailedCount++
		}
	}
	batch.Success = batch.FailedCount == 0

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin submission tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO batches (
            id, operation, project_id, project_name, operator,
            submitted_at, record_count, failed_count, success
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		batch.ID,
		batch.Operation,
		batch.ProjectID,
		batch.ProjectName,
		batch.Operator,
		batch.SubmittedAt.Format(time.RFC3339Nano),
		batch.RecordCount,
		batch.FailedCount,
		boolToInt(batch.Success),
	); err != nil {
		return nil, fmt.Errorf("insert batch: %w", err)
	}

	for i, rec := range records {
		sequence := rec.Sequence
		if sequence == 0 {
			sequence = i + 1
		}
		status := rec.Status
		if status == "" {
			status = RecordSubmitted
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO batch_records (
                batch_id, sequence, barcode, box, slot_label,
                container_barcode, status, failure_reason
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			batch.ID,
			sequence,
			rec.Barcode,
			rec.Box,
			nullableString(rec.SlotLabel),
			nullableString(rec.ContainerBarcode),
			status,
			nullableString(rec.FailureReason),
		); err != nil {
			return nil, fmt.Errorf("insert batch record %s: %w", rec.Barcode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit submission: %w", err)
	}
	return &batch, nil
}

// ListBatches returns the most recent batches, newest first. A limit of zero
// or less returns all batches.
func (s *Store) ListBatches(ctx context.Context, limit int) ([]*Batch, error) {
	query := `SELECT id, operation, project_id, project_name, operator,
        submitted_at, record_count, failed_count, success
        FROM batches ORDER BY submitted_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var batches []*Batch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batches: %w", err)
	}
	return batches, nil
}

// GetBatch returns one batch by id, or nil when it doesn't exist.
func (s *Store) GetBatch(ctx context.Context, id string) (*Batch, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, operation, project_id, project_name, operator,
            submitted_at, record_count, failed_count, success
            FROM batches WHERE id = ?`, id)
	batch, err := scanBatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// BatchRecords returns the records of one batch in scan order.
func (s *Store) BatchRecords(ctx context.Context, batchID string) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT batch_id, sequence, barcode, box, slot_label,
            container_barcode, status, failure_reason
            FROM batch_records WHERE batch_id = ? ORDER BY sequence`, batchID)
	if err != nil {
		return nil, fmt.Errorf("list batch records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var rec Record
		var slotLabel, containerBarcode, failureReason sql.NullString
		if err := rows.Scan(
			&rec.BatchID,
			&rec.Sequence,
			&rec.Barcode,
			&rec.Box,
			&slotLabel,
			&containerBarcode,
			&rec.Status,
			&failureReason,
		); err != nil {
			return nil, fmt.Errorf("scan batch record: %w", err)
		}
		rec.SlotLabel = slotLabel.String
		rec.ContainerBarcode = containerBarcode.String
		rec.FailureReason = failureReason.String
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batch records: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBatch(row rowScanner) (*Batch, error) {
	var batch Batch
	var submittedAt string
	var success int
	if err := row.Scan(
		&batch.ID,
		&batch.Operation,
		&batch.ProjectID,
		&batch.ProjectName,
		&batch.Operator,
		&submittedAt,
		&batch.RecordCount,
		&batch.FailedCount,
		&success,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan batch: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, submittedAt)
	if err != nil {
		return nil, fmt.Errorf("parse submitted_at %q: %w", submittedAt, err)
	}
	batch.SubmittedAt = parsed
	batch.Success = success != 0
	return &batch, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
