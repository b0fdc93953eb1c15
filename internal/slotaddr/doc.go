// Package slotaddr implements the pure addressing rules for vial storage:
// converting between integer row/column coordinates and human slot labels,
// computing the next free slot in a container geometry, deriving container
// barcodes, and parsing vault location strings.
//
// Two schemes coexist. The general scheme addresses slots as
// (box, row, column) with rows labelled "A".."ZZ" and unbounded decimal
// columns. The legacy scheme packs a 9x9 slot into two decimal digits and
// survives in older vault location records; packed.go keeps it decodable.
//
// Everything here is a pure function over integers and strings; no state,
// no collaborators.
package slotaddr
