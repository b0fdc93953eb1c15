package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/florisjonkman/Zobioweb/internal/catalog"
	"github.com/florisjonkman/Zobioweb/internal/logging"
	"github.com/florisjonkman/Zobioweb/internal/slotaddr"
	"github.com/florisjonkman/Zobioweb/internal/vault"
)

// Step is one stage of the guided scanning workflow.
type Step int

const (
	StepSelectProject Step = iota
	StepSelectContainer
	StepScanItems
	StepPrintLabels
	StepSubmitted
)

func (s Step) String() string {
	switch s {
	case StepSelectProject:
		return "select-project"
	case StepSelectContainer:
		return "select-container"
	case StepScanItems:
		return "scan-items"
	case StepPrintLabels:
		return "print-labels"
	case StepSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// NoticeLevel classifies operator-facing notices.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeWarning
	NoticeError
)

// Notice is a transient operator-facing message, the terminal analog of
// a snackbar.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// Notifier receives operator-facing notices. A nil notifier discards them.
type Notifier func(Notice)

// Operator identifies the person scanning. Username goes on records,
// FullName onto the vault's "Last touched by" field.
type Operator struct {
	Username string
	FullName string
}

// VaultClient is the subset of the vault API the workflow drives.
type VaultClient interface {
	LastLocation(ctx context.Context, project vault.Project) (vault.LastLocationResult, error)
	ValidateBarcode(ctx context.Context, op vault.Operation, barcode string, project vault.Project) (vault.ValidationResult, error)
	SubmitBatch(ctx context.Context, op vault.Operation, project vault.Project, records []vault.SubmitRecord) (vault.SubmitResult, error)
}

// Session drives one scanning workflow from project selection to batch
// submission. Only the Add operation has the container-selection and
// label-printing steps; the other operations take their coordinates from
// the vault and go straight from scanning to submission.
//
// Exactly one vault request may be in flight at a time, and a response
// that arrives after the session has been reset is discarded.
type Session struct {
	op       vault.Operation
	client   VaultClient
	catalog  *catalog.Catalog
	operator Operator
	logger   *slog.Logger
	notify   Notifier
	now      func() time.Time

	step             Step
	project          vault.Project
	projectSelected  bool
	container        catalog.ContainerType
	containerChosen  bool
	suggested        catalog.ContainerType
	hasSuggestion    bool
	containerBarcode string

	list     RecordList
	pointers Pointers

	busy   bool
	epoch  uint64
	result *vault.SubmitResult
}

// New creates a session for the given operation.
func New(op vault.Operation, client VaultClient, cat *catalog.Catalog, operator Operator, logger *slog.Logger, notify Notifier) *Session {
	if cat == nil {
		cat = catalog.Default()
	}
	if notify == nil {
		notify = func(Notice) {}
	}
	return &Session{
		op:       op,
		client:   client,
		catalog:  cat,
		operator: operator,
		logger:   logging.NewComponentLogger(logger, "session"),
		notify:   notify,
		now:      time.Now,
		step:     StepSelectProject,
	}
}

// Operation returns the workflow's operation.
func (s *Session) Operation() vault.Operation { return s.op }

// Step returns the current workflow step.
func (s *Session) Step() Step { return s.step }

// Project returns the selected project, if any.
func (s *Session) Project() (vault.Project, bool) { return s.project, s.projectSelected }

// Container returns the selected container type, if any.
func (s *Session) Container() (catalog.ContainerType, bool) { return s.container, s.containerChosen }

// SuggestedContainer returns the container type matched from the vault's
// last-location snapshot, if any.
func (s *Session) SuggestedContainer() (catalog.ContainerType, bool) {
	return s.suggested, s.hasSuggestion
}

// ContainerBarcode returns the barcode of the container currently being
// filled.
func (s *Session) ContainerBarcode() string { return s.containerBarcode }

// Records returns a snapshot of the scanned records.
func (s *Session) Records() []Record { return s.list.Records() }

// Pointers returns the current location markers.
func (s *Session) Pointers() Pointers { return s.pointers }

// Result returns the submission outcome once the session reached the
// submitted step.
func (s *Session) Result() (vault.SubmitResult, bool) {
	if s.result == nil {
		return vault.SubmitResult{}, false
	}
	return *s.result, true
}

// SelectProject picks the project to scan into. For registration
// workflows it fetches the project's last occupied slot from the vault
// and seeds the location pointers; a matching container type is
// suggested when the vault recorded one. Selecting a project resets all
// downstream state.
func (s *Session) SelectProject(ctx context.Context, project vault.Project) error {
	if s.step != StepSelectProject {
		return fmt.Errorf("%w: %s", ErrInvalidStep, s.step)
	}
	if s.busy {
		return ErrBusy
	}

	s.resetDownstream()
	s.project = project
	s.projectSelected = true

	if !s.op.AssignsLocation() {
		s.step = StepScanItems
		s.logger.Info("project selected",
			logging.Args(
				logging.String(logging.FieldProject, project.Name),
				logging.String(logging.FieldOperation, s.op.String()),
			)...)
		return nil
	}

	token, err := s.beginRequest()
	if err != nil {
		return err
	}
	last, reqErr := s.client.LastLocation(ctx, project)
	if s.endRequest(token) {
		return ErrStaleResponse
	}
	if reqErr != nil {
		s.projectSelected = false
		s.notify(Notice{NoticeError, fmt.Sprintf("Could not fetch last location for %s: %v", project.Name, reqErr)})
		return reqErr
	}

	if last.HasLocation {
		s.pointers.First = last.Location
		s.pointers.Last = last.Location
		s.containerBarcode = last.ContainerBarcode
		if s.containerBarcode == "" {
			s.containerBarcode = slotaddr.ContainerBarcode(last.Location.Box, project.Name)
		}
		if last.ContainerType != "" {
			if match, err := s.catalog.Lookup(last.ContainerType); err == nil {
				s.suggested = match
				s.hasSuggestion = true
			} else {
				s.logger.Warn("vault container type not in catalog",
					logging.Args(
						logging.String("container_type", last.ContainerType),
						logging.String(logging.FieldProject, project.Name),
					)...)
				s.notify(Notice{NoticeWarning, fmt.Sprintf("Container type %q is not in the local catalog; pick one manually.", last.ContainerType)})
			}
		}
	} else {
		s.containerBarcode = slotaddr.ContainerBarcode(1, project.Name)
	}

	s.step = StepSelectContainer
	s.logger.Info("project selected",
		logging.Args(
			logging.String(logging.FieldProject, project.Name),
			logging.String(logging.FieldOperation, s.op.String()),
			logging.Bool("has_location", last.HasLocation),
			logging.String(logging.FieldSlot, s.pointers.Last.String()),
		)...)
	return nil
}

// UseSuggestedContainer continues filling the container the vault
// reported for this project. The next slot follows the last occupied
// one.
func (s *Session) UseSuggestedContainer() error {
	if s.step != StepSelectContainer {
		return fmt.Errorf("%w: %s", ErrInvalidStep, s.step)
	}
	if !s.hasSuggestion {
		return fmt.Errorf("%w: the vault reported no container for this project", ErrNoContainer)
	}
	s.container = s.suggested
	s.containerChosen = true
	s.pointers.Next = slotaddr.Next(s.pointers.Last, s.container.Rows, s.container.Columns)
	s.step = StepScanItems
	return nil
}

// ChooseContainer starts a fresh container of the named type. A fresh
// container always begins a new box.
func (s *Session) ChooseContainer(name string) error {
	if s.step != StepSelectContainer {
		return fmt.Errorf("%w: %s", ErrInvalidStep, s.step)
	}
	if s.busy {
		return ErrBusy
	}
	typ, err := s.catalog.Lookup(name)
	if err != nil {
		return err
	}
	s.container = typ
	s.containerChosen = true
	s.pointers.StartFreshBox()
	s.containerBarcode = slotaddr.ContainerBarcode(s.pointers.Next.Box, s.project.Name)
	s.step = StepScanItems
	return nil
}

// Scan validates one barcode against the vault and, when every check
// passes, appends a record. The vault checks short-circuit in order:
// unknown barcode, wrong project, wrong status. A rejection is surfaced
// as a notice and an ErrScanRejected; the list is never mutated on
// rejection.
func (s *Session) Scan(ctx context.Context, barcode string) (Record, error) {
	if s.step != StepScanItems {
		return Record{}, fmt.Errorf("%w: %s", ErrInvalidStep, s.step)
	}
	if s.op.AssignsLocation() && !s.containerChosen {
		return Record{}, ErrNoContainer
	}
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return Record{}, fmt.Errorf("%w: empty barcode", ErrScanRejected)
	}
	if s.list.Contains(barcode) {
		s.notify(Notice{NoticeWarning, fmt.Sprintf("Barcode %s is already in the list.", barcode)})
		return Record{}, fmt.Errorf("%w: %s", ErrDuplicateBarcode, barcode)
	}

	token, err := s.beginRequest()
	if err != nil {
		return Record{}, err
	}
	result, reqErr := s.client.ValidateBarcode(ctx, s.op, barcode, s.project)
	if s.endRequest(token) {
		return Record{}, ErrStaleResponse
	}
	if reqErr != nil {
		s.notify(Notice{NoticeError, fmt.Sprintf("Vault check failed for %s: %v", barcode, reqErr)})
		return Record{}, reqErr
	}

	switch {
	case !result.InVault:
		return Record{}, s.reject(barcode, fmt.Sprintf("Barcode %s not found in CDD Vault.", barcode))
	case !result.InProject:
		return Record{}, s.reject(barcode, fmt.Sprintf("Barcode %s found in different project: %s.", barcode, result.OtherProject))
	case !result.StatusOK:
		return Record{}, s.reject(barcode, fmt.Sprintf("Barcode %s has incorrect status: %s (%s).", barcode, result.Status, s.op.StatusHint()))
	}

	record := Record{
		Barcode:   barcode,
		Status:    result.Status,
		Timestamp: s.now(),
		Operator:  s.operator.Username,
	}
	if s.op.AssignsLocation() {
		coord := s.pointers.Next
		prevBox := s.pointers.Last.Box
		s.pointers.Advance(coord, s.container.Rows, s.container.Columns)
		if coord.Box != prevBox {
			s.containerBarcode = slotaddr.ContainerBarcode(coord.Box, s.project.Name)
			if prevBox > 0 && !s.list.IsEmpty() {
				s.notify(Notice{NoticeInfo, fmt.Sprintf("Container full, continuing in %s.", s.containerBarcode)})
			}
		}
		record.Coordinate = coord
		record.SlotLabel = coord.Label()
		record.ContainerBarcode = s.containerBarcode
		record.ContainerType = s.container.Name
	} else {
		record.Coordinate = result.Location
		if !result.Location.IsZero() {
			record.SlotLabel = result.Location.Label()
		}
		record.ContainerBarcode = result.ContainerBarcode
		record.ContainerType = result.ContainerType
	}

	if err := s.list.Append(record); err != nil {
		return Record{}, err
	}
	appended, _ := s.list.Last()
	s.logger.Info("barcode accepted",
		logging.Args(
			logging.String(logging.FieldBarcode, barcode),
			logging.Int("sequence", appended.SequenceID),
			logging.String(logging.FieldSlot, appended.Coordinate.String()),
			logging.String(logging.FieldContainer, appended.ContainerBarcode),
		)...)
	return appended, nil
}

// RemoveRecord drops one record by its current sequence number. The
// remaining records are renumbered and the location pointers rewound.
func (s *Session) RemoveRecord(sequenceID int) error {
	if s.step != StepScanItems && s.step != StepPrintLabels {
		return fmt.Errorf("%w: %s", ErrInvalidStep, s.step)
	}
	if s.busy {
		return ErrBusy
	}
	if err := s.list.Remove(sequenceID); err != nil {
		return err
	}
	if s.op.AssignsLocation() {
		prevBox := s.pointers.Last.Box
		last, ok := s.list.Last()
		s.pointers.Rewind(last.Coordinate, !ok, s.container.Rows, s.container.Columns)
		if s.pointers.Last.Box != prevBox {
			s.containerBarcode = slotaddr.ContainerBarcode(s.pointers.Last.Box, s.project.Name)
		}
	}
	return nil
}

// FinishScanning advances a registration workflow to the label-printing
// step. It fails with ErrEmptyBatch when nothing has been scanned.
func (s *Session) FinishScanning() error {
	if s.step != StepScanItems || !s.op.AssignsLocation() {
		return fmt.Errorf("%w: %s", ErrInvalidStep, s.step)
	}
	if s.list.IsEmpty() {
		return ErrEmptyBatch
	}
	s.step = StepPrintLabels
	return nil
}

// Submit sends the full batch to the vault. The vault re-validates each
// record; per-record failures come back in the result and the session
// still reaches the submitted step (there is no automatic retry).
func (s *Session) Submit(ctx context.Context) (vault.SubmitResult, error) {
	submitFrom := StepScanItems
	if s.op.AssignsLocation() {
		submitFrom = StepPrintLabels
	}
	if s.step != submitFrom {
		return vault.SubmitResult{}, fmt.Errorf("%w: %s", ErrInvalidStep, s.step)
	}
	if s.list.IsEmpty() {
		return vault.SubmitResult{}, ErrEmptyBatch
	}

	records := s.list.Records()
	batch := make([]vault.SubmitRecord, 0, len(records))
	for _, record := range records {
		batch = append(batch, vault.SubmitRecord{
			ID:        record.SequenceID,
			Barcode:   record.Barcode,
			Box:       record.Coordinate.Box,
			SlotLabel: record.SlotLabel,
			Username:  s.operator.Username,
			FullName:  s.operator.FullName,
		})
	}

	token, err := s.beginRequest()
	if err != nil {
		return vault.SubmitResult{}, err
	}
	result, reqErr := s.client.SubmitBatch(ctx, s.op, s.project, batch)
	if s.endRequest(token) {
		return vault.SubmitResult{}, ErrStaleResponse
	}
	if reqErr != nil {
		s.notify(Notice{NoticeError, fmt.Sprintf("Submission failed: %v", reqErr)})
		return vault.SubmitResult{}, reqErr
	}

	s.result = &result
	s.step = StepSubmitted
	if result.Success {
		s.notify(Notice{NoticeInfo, fmt.Sprintf("Submitted %d records to the vault.", len(batch))})
	} else {
		s.notify(Notice{NoticeWarning, fmt.Sprintf("Submitted with failures: %d of %d records rejected.", len(result.Failed), len(batch))})
	}
	s.logger.Info("batch submitted",
		logging.Args(
			logging.String(logging.FieldProject, s.project.Name),
			logging.String(logging.FieldOperation, s.op.String()),
			logging.Int("records", len(batch)),
			logging.Int("failed", len(result.Failed)),
			logging.Bool("success", result.Success),
		)...)
	return result, nil
}

// Back navigates one step backwards. Leaving the scanning step with
// records in the list is destructive and requires confirmed=true; the
// records and derived pointers are cleared before transitioning.
func (s *Session) Back(confirmed bool) error {
	switch s.step {
	case StepPrintLabels:
		s.step = StepScanItems
		return nil
	case StepScanItems:
		if !s.list.IsEmpty() && !confirmed {
			return ErrConfirmationRequired
		}
		s.clearScans()
		if s.op.AssignsLocation() {
			s.containerChosen = false
			s.step = StepSelectContainer
		} else {
			s.projectSelected = false
			s.step = StepSelectProject
		}
		return nil
	case StepSelectContainer:
		s.resetDownstream()
		s.step = StepSelectProject
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidStep, s.step)
	}
}

// End abandons the session and returns it to a neutral state. Any
// response still in flight will be discarded.
func (s *Session) End() {
	s.resetDownstream()
	s.step = StepSelectProject
}

func (s *Session) reject(barcode, message string) error {
	s.notify(Notice{NoticeWarning, message})
	s.logger.Warn("barcode rejected",
		logging.Args(
			logging.String(logging.FieldBarcode, barcode),
			logging.String("reason", message),
		)...)
	return fmt.Errorf("%w: %s", ErrScanRejected, message)
}

// clearScans drops the scan list and rewinds the pointers to their
// seeded state.
func (s *Session) clearScans() {
	s.list.Clear()
	s.pointers.Last = s.pointers.First
	s.pointers.Next = slotaddr.Coordinate{}
	s.epoch++
	s.busy = false
}

// resetDownstream wipes everything derived from the project selection.
func (s *Session) resetDownstream() {
	s.projectSelected = false
	s.project = vault.Project{}
	s.containerChosen = false
	s.container = catalog.ContainerType{}
	s.hasSuggestion = false
	s.suggested = catalog.ContainerType{}
	s.containerBarcode = ""
	s.list.Clear()
	s.pointers = Pointers{}
	s.result = nil
	s.epoch++
	s.busy = false
}

func (s *Session) beginRequest() (uint64, error) {
	if s.busy {
		return 0, ErrBusy
	}
	s.busy = true
	return s.epoch, nil
}

// endRequest clears the busy flag and reports whether the session was
// reset while the request was in flight, in which case the response
// must be discarded.
func (s *Session) endRequest(token uint64) bool {
	s.busy = false
	return token != s.epoch
}
