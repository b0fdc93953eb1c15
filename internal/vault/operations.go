package vault

import (
	"fmt"
	"strings"
)

// Operation identifies one of the four scan workflows. The values match
// the `type` field the backend expects on validation and submission
// requests.
type Operation string

const (
	OpAdd      Operation = "Add"
	OpCheckIn  Operation = "Check-in"
	OpCheckOut Operation = "Check-out"
	OpDelete   Operation = "Delete"
)

// Vial statuses as stored in CDD Vault.
const (
	StatusRegistered = "Registered"
	StatusAdded      = "Added"
	StatusCheckedIn  = "Checked in"
	StatusCheckedOut = "Checked out"
	StatusDeleted    = "Deleted"
)

// Operations lists the supported scan workflows in presentation order.
func Operations() []Operation {
	return []Operation{OpAdd, OpCheckIn, OpCheckOut, OpDelete}
}

// ParseOperation maps user input onto an Operation, tolerating case and
// missing hyphens.
func ParseOperation(value string) (Operation, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.ReplaceAll(normalized, " ", "-")
	switch normalized {
	case "add":
		return OpAdd, nil
	case "check-in", "checkin":
		return OpCheckIn, nil
	case "check-out", "checkout":
		return OpCheckOut, nil
	case "delete":
		return OpDelete, nil
	default:
		return "", fmt.Errorf("unknown operation %q (expected add, check-in, check-out, or delete)", value)
	}
}

func (op Operation) String() string {
	return string(op)
}

// AllowedStatuses returns the vial statuses this operation may act on.
func (op Operation) AllowedStatuses() []string {
	switch op {
	case OpAdd:
		return []string{StatusRegistered}
	case OpCheckIn:
		return []string{StatusCheckedOut}
	case OpCheckOut:
		return []string{StatusAdded, StatusCheckedIn}
	case OpDelete:
		return []string{StatusAdded, StatusCheckedIn, StatusCheckedOut}
	default:
		return nil
	}
}

// TargetStatus returns the status a vial ends in after this operation is
// submitted.
func (op Operation) TargetStatus() string {
	switch op {
	case OpAdd:
		return StatusAdded
	case OpCheckIn:
		return StatusCheckedIn
	case OpCheckOut:
		return StatusCheckedOut
	case OpDelete:
		return StatusDeleted
	default:
		return ""
	}
}

// StatusAllowed reports whether a vial with the given status may be
// scanned under this operation.
func (op Operation) StatusAllowed(status string) bool {
	for _, allowed := range op.AllowedStatuses() {
		if allowed == status {
			return true
		}
	}
	return false
}

// StatusHint renders the allowed statuses for user-facing messages.
func (op Operation) StatusHint() string {
	allowed := op.AllowedStatuses()
	if len(allowed) == 0 {
		return ""
	}
	return fmt.Sprintf("allowed for %s: %s", op, strings.Join(allowed, ", "))
}

// ConfirmPrompt is the question shown before a batch is submitted.
func (op Operation) ConfirmPrompt(count int) string {
	noun := "vials"
	if count == 1 {
		noun = "vial"
	}
	switch op {
	case OpAdd:
		return fmt.Sprintf("Add %d %s to the vault?", count, noun)
	case OpCheckIn:
		return fmt.Sprintf("Check in %d %s?", count, noun)
	case OpCheckOut:
		return fmt.Sprintf("Check out %d %s?", count, noun)
	case OpDelete:
		return fmt.Sprintf("Delete %d %s from the vault? This cannot be undone.", count, noun)
	default:
		return fmt.Sprintf("Submit %d %s?", count, noun)
	}
}

// AssignsLocation reports whether this operation places vials into new
// slots. Only registration does; the other workflows act on vials that
// already have a location in the vault.
func (op Operation) AssignsLocation() bool {
	return op == OpAdd
}
