package session

import "errors"

var (
	// ErrDuplicateBarcode reports a barcode already present in the scan list.
	ErrDuplicateBarcode = errors.New("barcode already scanned")
	// ErrScanRejected reports a barcode the vault refused; the wrapped
	// message names the failing check.
	ErrScanRejected = errors.New("scan rejected")
	// ErrBusy reports a second request while one is already in flight.
	ErrBusy = errors.New("a vault request is already in flight")
	// ErrStaleResponse reports a vault response that arrived after the
	// session was reset and was discarded.
	ErrStaleResponse = errors.New("session changed while request was in flight")
	// ErrInvalidStep reports an operation attempted outside its workflow step.
	ErrInvalidStep = errors.New("not allowed in the current workflow step")
	// ErrNoProject reports a transition attempted before a project is selected.
	ErrNoProject = errors.New("no project selected")
	// ErrNoContainer reports scanning attempted before a container is selected.
	ErrNoContainer = errors.New("no container selected")
	// ErrEmptyBatch reports an advance or submission with nothing scanned.
	ErrEmptyBatch = errors.New("no records scanned")
	// ErrConfirmationRequired reports a destructive back-navigation that
	// needs explicit operator confirmation.
	ErrConfirmationRequired = errors.New("confirmation required: going back discards scanned records")
	// ErrRecordNotFound reports a removal for a sequence id not in the list.
	ErrRecordNotFound = errors.New("no record with that number")
)
