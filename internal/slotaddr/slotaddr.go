package slotaddr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxRow is the highest encodable row; rows beyond "ZZ" have no label.
const MaxRow = 702

// ErrMalformedLabel reports a slot label that does not follow the
// letter-row/decimal-column convention.
var ErrMalformedLabel = errors.New("malformed slot label")

// Coordinate addresses a single slot inside a project's storage: the
// box number and the row/column within that box. All fields are 1-based;
// the zero value is the "no location yet" sentinel.
type Coordinate struct {
	Box int
	Row int
	Col int
}

// IsZero reports whether the coordinate is the unset sentinel.
func (c Coordinate) IsZero() bool {
	return c.Box == 0 && c.Row == 0 && c.Col == 0
}

// Label renders the row/column part of the coordinate (e.g. "A2").
func (c Coordinate) Label() string {
	return FormatLabel(c.Row, c.Col)
}

// String renders the coordinate as "<box>-<label>".
func (c Coordinate) String() string {
	if c.IsZero() {
		return "unset"
	}
	return strconv.Itoa(c.Box) + "-" + c.Label()
}

// FormatLabel maps a (row, column) pair to its slot label. Rows 1-26 map
// to "A"-"Z"; rows 27-702 map to two-letter codes "AA"-"ZZ". The column
// is appended as a plain decimal.
func FormatLabel(row, col int) string {
	var letters string
	if row <= 26 {
		letters = string(rune('A' + row - 1))
	} else {
		base := (row - 1) / 26
		letters = string(rune('A'+base-1)) + string(rune('A'+row-base*26-1))
	}
	return letters + strconv.Itoa(col)
}

// ParseLabel is the inverse of FormatLabel. It fails with ErrMalformedLabel
// when the row segment is not one or two letters, the row exceeds MaxRow,
// or the column segment is not a positive integer.
func ParseLabel(label string) (row, col int, err error) {
	if len(label) < 2 {
		return 0, 0, fmt.Errorf("%w: %q too short", ErrMalformedLabel, label)
	}
	first := label[0]
	if first < 'A' || first > 'Z' {
		return 0, 0, fmt.Errorf("%w: %q row segment must be letters", ErrMalformedLabel, label)
	}
	row = int(first - 'A' + 1)
	rest := label[1:]
	if rest[0] >= 'A' && rest[0] <= 'Z' {
		row = 26*row + int(rest[0]-'A'+1)
		rest = rest[1:]
	}
	if row > MaxRow {
		return 0, 0, fmt.Errorf("%w: %q row exceeds %d", ErrMalformedLabel, label, MaxRow)
	}
	col, convErr := strconv.Atoi(rest)
	if convErr != nil || col <= 0 {
		return 0, 0, fmt.Errorf("%w: %q column segment must be a positive integer", ErrMalformedLabel, label)
	}
	return row, col, nil
}

// Next returns the slot following c in a container with the given
// geometry. The column is the fastest-varying axis, then the row; filling
// past the last slot of a box starts box+1 at row 1, column 1. The zero
// sentinel yields the very first slot.
func Next(c Coordinate, maxRows, maxCols int) Coordinate {
	if c.IsZero() {
		return Coordinate{Box: 1, Row: 1, Col: 1}
	}
	if c.Col < maxCols {
		return Coordinate{Box: c.Box, Row: c.Row, Col: c.Col + 1}
	}
	if c.Row < maxRows {
		return Coordinate{Box: c.Box, Row: c.Row + 1, Col: 1}
	}
	return Coordinate{Box: c.Box + 1, Row: 1, Col: 1}
}

// Later returns whichever of a and b is the further-along slot in
// box-then-row-then-column order. The zero sentinel is earlier than any
// real coordinate.
func Later(a, b Coordinate) Coordinate {
	if a.Box != b.Box {
		if a.Box > b.Box {
			return a
		}
		return b
	}
	if a.Row != b.Row {
		if a.Row > b.Row {
			return a
		}
		return b
	}
	if a.Col >= b.Col {
		return a
	}
	return b
}

// ContainerBarcode derives the human-readable container identifier for a
// box within a project, e.g. ContainerBarcode(3, "ACME") == "ACME-0003".
// Box 0 (unset) is treated as box 1.
func ContainerBarcode(box int, projectName string) string {
	if box == 0 {
		box = 1
	}
	return fmt.Sprintf("%s-%04d", projectName, box)
}

// ParseLocation splits a vault location string of the form
// "<project>-<box>-<label>" into its parts. Project names may themselves
// contain dashes; the box and label are always the last two segments.
func ParseLocation(location string) (project string, c Coordinate, err error) {
	parts := strings.Split(location, "-")
	if len(parts) < 3 {
		return "", Coordinate{}, fmt.Errorf("%w: location %q needs project, box and label", ErrMalformedLabel, location)
	}
	label := parts[len(parts)-1]
	boxStr := parts[len(parts)-2]
	project = strings.Join(parts[:len(parts)-2], "-")

	box, convErr := strconv.Atoi(boxStr)
	if convErr != nil || box <= 0 {
		return "", Coordinate{}, fmt.Errorf("%w: location %q box segment must be a positive integer", ErrMalformedLabel, location)
	}
	row, col, err := ParseLabel(label)
	if err != nil {
		return "", Coordinate{}, err
	}
	return project, Coordinate{Box: box, Row: row, Col: col}, nil
}
