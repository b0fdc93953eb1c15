package session

import "github.com/florisjonkman/Zobioweb/internal/slotaddr"

// Pointers tracks the three location markers the workflow keeps
// consistent while scanning. First is the vault's last occupied slot
// before this session began and stays fixed; Last follows the most
// recently kept record; Next is the slot offered to the following scan.
type Pointers struct {
	First slotaddr.Coordinate
	Last  slotaddr.Coordinate
	Next  slotaddr.Coordinate
}

// Seed initializes the pointers from the vault's snapshot. A zero first
// coordinate means the project has no located vials yet.
func (p *Pointers) Seed(first slotaddr.Coordinate, maxRows, maxCols int) {
	p.First = first
	p.Last = first
	p.Next = slotaddr.Next(first, maxRows, maxCols)
}

// StartFreshBox moves Next to the first slot of the box after Last.
// Picking a new container always starts a new box.
func (p *Pointers) StartFreshBox() {
	if p.Last.IsZero() {
		p.Next = slotaddr.Coordinate{Box: 1, Row: 1, Col: 1}
		return
	}
	p.Next = slotaddr.Coordinate{Box: p.Last.Box + 1, Row: 1, Col: 1}
}

// Advance records that coordinate c was assigned: Last moves to c and
// Next becomes its successor under the given geometry.
func (p *Pointers) Advance(c slotaddr.Coordinate, maxRows, maxCols int) {
	p.Last = c
	p.Next = slotaddr.Next(c, maxRows, maxCols)
}

// Rewind recomputes Last and Next after a removal. With no records left,
// both fall back to First.
func (p *Pointers) Rewind(last slotaddr.Coordinate, empty bool, maxRows, maxCols int) {
	if empty {
		p.Last = p.First
		p.Next = slotaddr.Next(p.First, maxRows, maxCols)
		return
	}
	p.Last = last
	p.Next = slotaddr.Next(last, maxRows, maxCols)
}
