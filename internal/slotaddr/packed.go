package slotaddr

import "fmt"

// The legacy addressing scheme packs a 9x9 slot into two decimal digits:
// tens digit = row (A=1 .. I=9), units digit = column (1-9). "A1" is 11,
// "I9" is 99. It predates the container-aware three-field scheme and is
// still what older vault location records carry.

const (
	packedFirst = 11
	packedLast  = 99
	packedRows  = 9
	packedCols  = 9
)

// PackPosition packs a row/column pair into the legacy two-digit position.
func PackPosition(row, col int) (int, error) {
	if row < 1 || row > packedRows || col < 1 || col > packedCols {
		return 0, fmt.Errorf("%w: row %d col %d outside 9x9 geometry", ErrMalformedLabel, row, col)
	}
	return row*10 + col, nil
}

// UnpackPosition splits a legacy packed position into row and column.
func UnpackPosition(pos int) (row, col int, err error) {
	row = pos / 10
	col = pos % 10
	if row < 1 || row > packedRows || col < 1 || col > packedCols {
		return 0, 0, fmt.Errorf("%w: packed position %d outside 9x9 geometry", ErrMalformedLabel, pos)
	}
	return row, col, nil
}

// NextPacked advances a legacy (box, position) pair by one slot. The
// column wraps at 9 by skipping positions ending in 0, and position 99
// rolls over into the next box at 11. The (0, 0) sentinel yields the
// first slot of box 1.
func NextPacked(box, pos int) (int, int) {
	if box == 0 && pos == 0 {
		return 1, packedFirst
	}
	if pos%10 < packedCols {
		pos++
	} else {
		pos += 2
	}
	if pos > packedLast {
		return box + 1, packedFirst
	}
	return box, pos
}

// PrevPacked steps a legacy (box, position) pair back by one slot,
// clamping at the global origin (box 1, position 11) instead of
// underflowing.
func PrevPacked(box, pos int) (int, int) {
	if pos <= packedFirst {
		if box <= 1 {
			return 1, packedFirst
		}
		return box - 1, packedLast
	}
	if pos%10 == 1 {
		return box, pos - 2
	}
	return box, pos - 1
}
