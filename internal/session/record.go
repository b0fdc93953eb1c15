package session

import (
	"fmt"
	"time"

	"github.com/florisjonkman/Zobioweb/internal/slotaddr"
)

// Record is one accepted, validated barcode with its assigned location,
// pending submission. SequenceID is the record's 1-based position in the
// scan list and is renumbered on every removal, so it is not a stable
// identity.
type Record struct {
	SequenceID       int
	Barcode          string
	Coordinate       slotaddr.Coordinate
	SlotLabel        string
	Status           string
	ContainerBarcode string
	ContainerType    string
	Timestamp        time.Time
	Operator         string
}

// RecordList is the ordered collection of scanned records. Barcodes are
// unique (case-sensitive) and sequence ids stay contiguous from 1.
type RecordList struct {
	records []Record
}

// Append adds a record, assigning the next sequence id. It fails with
// ErrDuplicateBarcode and leaves the list unchanged when the barcode is
// already present.
func (l *RecordList) Append(record Record) error {
	for _, existing := range l.records {
		if existing.Barcode == record.Barcode {
			return fmt.Errorf("%w: %s (record %d)", ErrDuplicateBarcode, record.Barcode, existing.SequenceID)
		}
	}
	record.SequenceID = len(l.records) + 1
	l.records = append(l.records, record)
	return nil
}

// Remove deletes the record with the given sequence id and renumbers the
// remaining records to stay contiguous starting at 1.
func (l *RecordList) Remove(sequenceID int) error {
	if sequenceID < 1 || sequenceID > len(l.records) {
		return fmt.Errorf("%w: %d", ErrRecordNotFound, sequenceID)
	}
	l.records = append(l.records[:sequenceID-1], l.records[sequenceID:]...)
	for i := range l.records {
		l.records[i].SequenceID = i + 1
	}
	return nil
}

// Contains reports whether a barcode is already in the list. Matching is
// case-sensitive and exact.
func (l *RecordList) Contains(barcode string) bool {
	for _, record := range l.records {
		if record.Barcode == barcode {
			return true
		}
	}
	return false
}

// Len returns the number of records.
func (l *RecordList) Len() int {
	return len(l.records)
}

// IsEmpty reports whether no records have been scanned.
func (l *RecordList) IsEmpty() bool {
	return len(l.records) == 0
}

// Last returns the most recently kept record.
func (l *RecordList) Last() (Record, bool) {
	if len(l.records) == 0 {
		return Record{}, false
	}
	return l.records[len(l.records)-1], true
}

// Records returns a snapshot of the list in scan order.
func (l *RecordList) Records() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Clear discards all records.
func (l *RecordList) Clear() {
	l.records = nil
}
