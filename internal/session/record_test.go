package session_test

import (
	"errors"
	"testing"

	"github.com/florisjonkman/Zobioweb/internal/session"
)

func TestAppendAssignsSequenceIDs(t *testing.T) {
	var list session.RecordList
	for _, barcode := range []string{"V1", "V2", "V3"} {
		if err := list.Append(session.Record{Barcode: barcode}); err != nil {
			t.Fatalf("Append(%s) failed: %v", barcode, err)
		}
	}
	records := list.Records()
	for i, record := range records {
		if record.SequenceID != i+1 {
			t.Errorf("records[%d].SequenceID = %d, want %d", i, record.SequenceID, i+1)
		}
	}
}

func TestAppendRejectsDuplicateAndLeavesListUnchanged(t *testing.T) {
	var list session.RecordList
	if err := list.Append(session.Record{Barcode: "V1"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	err := list.Append(session.Record{Barcode: "V1"})
	if !errors.Is(err, session.ErrDuplicateBarcode) {
		t.Fatalf("expected ErrDuplicateBarcode, got %v", err)
	}
	if list.Len() != 1 {
		t.Fatalf("list mutated on duplicate: len = %d", list.Len())
	}
}

func TestDuplicateCheckIsCaseSensitive(t *testing.T) {
	var list session.RecordList
	if err := list.Append(session.Record{Barcode: "vial-1"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := list.Append(session.Record{Barcode: "VIAL-1"}); err != nil {
		t.Fatalf("case-differing barcode should be accepted: %v", err)
	}
}

func TestRemoveRenumbers(t *testing.T) {
	var list session.RecordList
	for _, barcode := range []string{"V1", "V2", "V3", "V4"} {
		if err := list.Append(session.Record{Barcode: barcode}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	if err := list.Remove(2); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	records := list.Records()
	if len(records) != 3 {
		t.Fatalf("len = %d, want 3", len(records))
	}
	wantBarcodes := []string{"V1", "V3", "V4"}
	for i, record := range records {
		if record.SequenceID != i+1 {
			t.Errorf("records[%d].SequenceID = %d, want %d", i, record.SequenceID, i+1)
		}
		if record.Barcode != wantBarcodes[i] {
			t.Errorf("records[%d].Barcode = %q, want %q", i, record.Barcode, wantBarcodes[i])
		}
	}
}

func TestRemoveUnknownSequence(t *testing.T) {
	var list session.RecordList
	if err := list.Append(session.Record{Barcode: "V1"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	for _, seq := range []int{0, 2, -1} {
		if err := list.Remove(seq); !errors.Is(err, session.ErrRecordNotFound) {
			t.Errorf("Remove(%d): expected ErrRecordNotFound, got %v", seq, err)
		}
	}
}

func TestLastAndIsEmpty(t *testing.T) {
	var list session.RecordList
	if !list.IsEmpty() {
		t.Fatal("fresh list should be empty")
	}
	if _, ok := list.Last(); ok {
		t.Fatal("Last on empty list should report false")
	}
	list.Append(session.Record{Barcode: "V1"}) //nolint:errcheck
	list.Append(session.Record{Barcode: "V2"}) //nolint:errcheck
	last, ok := list.Last()
	if !ok || last.Barcode != "V2" {
		t.Fatalf("Last = %+v, %v", last, ok)
	}
	list.Clear()
	if !list.IsEmpty() {
		t.Fatal("cleared list should be empty")
	}
}
