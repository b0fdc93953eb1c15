package journal_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/florisjonkman/Zobioweb/internal/journal"
	"github.com/florisjonkman/Zobioweb/internal/testsupport"
)

func TestRecordSubmissionRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	batch, err := store.RecordSubmission(ctx, journal.Batch{
		Operation:   "Add",
		ProjectID:   12,
		ProjectName: "FJM",
		Operator:    "tester",
	}, []journal.Record{
		{Barcode: "VIAL-001", Box: 1, SlotLabel: "A1", ContainerBarcode: "FJM-0001"},
		{Barcode: "VIAL-002", Box: 1, SlotLabel: "A2", ContainerBarcode: "FJM-0001"},
	})
	if err != nil {
		t.Fatalf("RecordSubmission failed: %v", err)
	}
	if batch.ID == "" {
		t.Fatal("expected batch ID to be assigned")
	}
	if batch.SubmittedAt.IsZero() {
		t.Fatal("expected submission timestamp to be assigned")
	}
	if !batch.Success || batch.RecordCount != 2 || batch.FailedCount != 0 {
		t.Fatalf("unexpected batch summary: %#v", batch)
	}

	fetched, err := store.GetBatch(ctx, batch.ID)
	if err != nil {
		t.Fatalf("GetBatch failed: %v", err)
	}
	if fetched == nil || fetched.ProjectName != "FJM" || fetched.Operation != "Add" {
		t.Fatalf("unexpected fetched batch: %#v", fetched)
	}

	records, err := store.BatchRecords(ctx, batch.ID)
	if err != nil {
		t.Fatalf("BatchRecords failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Sequence != 1 || records[0].Barcode != "VIAL-001" || records[0].SlotLabel != "A1" {
		t.Fatalf("unexpected first record: %#v", records[0])
	}
	if records[0].Status != journal.RecordSubmitted {
		t.Fatalf("expected default status %q, got %q", journal.RecordSubmitted, records[0].Status)
	}
	if records[1].Sequence != 2 || records[1].Barcode != "VIAL-002" {
		t.Fatalf("unexpected second record: %#v", records[1])
	}
}

func TestRecordSubmissionCountsFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	batch, err := store.RecordSubmission(ctx, journal.Batch{
		Operation:   "Check-out",
		ProjectID:   3,
		ProjectName: "ABC",
		Operator:    "tester",
	}, []journal.Record{
		{Barcode: "VIAL-010", Status: journal.RecordSubmitted},
		{Barcode: "VIAL-011", Status: journal.RecordFailed, FailureReason: "Did not pass all checks, the second time"},
	})
	if err != nil {
		t.Fatalf("RecordSubmission failed: %v", err)
	}
	if batch.Success {
		t.Fatal("expected batch with failures to report success=false")
	}
	if batch.FailedCount != 1 || batch.RecordCount != 2 {
		t.Fatalf("unexpected counts: %#v", batch)
	}

	records, err := store.BatchRecords(ctx, batch.ID)
	if err != nil {
		t.Fatalf("BatchRecords failed: %v", err)
	}
	if records[1].Status != journal.RecordFailed {
		t.Fatalf("expected failed status, got %q", records[1].Status)
	}
	if records[1].FailureReason == "" {
		t.Fatal("expected failure reason to be stored")
	}
}

func TestListBatchesNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	base := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := store.RecordSubmission(ctx, journal.Batch{
			Operation:   "Check-in",
			ProjectID:   1,
			ProjectName: fmt.Sprintf("P%d", i),
			Operator:    "tester",
			SubmittedAt: base.Add(time.Duration(i) * time.Hour),
		}, []journal.Record{{Barcode: fmt.Sprintf("VIAL-%03d", i)}})
		if err != nil {
			t.Fatalf("RecordSubmission %d failed: %v", i, err)
		}
	}

	batches, err := store.ListBatches(ctx, 0)
	if err != nil {
		t.Fatalf("ListBatches failed: %v", err)
	}
	if len(batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(batches))
	}
	if batches[0].ProjectName != "P2" || batches[2].ProjectName != "P0" {
		t.Fatalf("expected newest first ordering, got %s .. %s", batches[0].ProjectName, batches[2].ProjectName)
	}

	limited, err := store.ListBatches(ctx, 2)
	if err != nil {
		t.Fatalf("ListBatches with limit failed: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 batches with limit, got %d", len(limited))
	}
}

func TestGetBatchMissingReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	batch, err := store.GetBatch(context.Background(), "no-such-batch")
	if err != nil {
		t.Fatalf("GetBatch failed: %v", err)
	}
	if batch != nil {
		t.Fatalf("expected nil batch, got %#v", batch)
	}
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	batch, err := store.RecordSubmission(ctx, journal.Batch{
		Operation:   "Delete",
		ProjectID:   7,
		ProjectName: "XYZ",
		Operator:    "tester",
	}, []journal.Record{{Barcode: "VIAL-100"}})
	if err != nil {
		t.Fatalf("RecordSubmission failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	fetched, err := reopened.GetBatch(ctx, batch.ID)
	if err != nil {
		t.Fatalf("GetBatch after reopen failed: %v", err)
	}
	if fetched == nil || fetched.Operation != "Delete" {
		t.Fatalf("unexpected batch after reopen: %#v", fetched)
	}
}
