// Package catalog holds the container types available to a scan session.
// The built-in set covers the standard 9x9 cryobox and the 8x12 microtiter
// plate; additional types come from the [[containers]] config section.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownContainerType reports a lookup for a type name the catalog
// does not carry.
var ErrUnknownContainerType = errors.New("unknown container type")

// ContainerType describes the slot geometry of one kind of storage
// container.
type ContainerType struct {
	Name    string
	Rows    int
	Columns int
}

// Capacity returns the number of slots in one container of this type.
func (t ContainerType) Capacity() int {
	return t.Rows * t.Columns
}

func (t ContainerType) String() string {
	return fmt.Sprintf("%s (%dx%d)", t.Name, t.Rows, t.Columns)
}

// Catalog is an ordered collection of container types. Order is
// presentation order in selection prompts.
type Catalog struct {
	types []ContainerType
}

// New builds a catalog from the given types. Duplicate names
// (case-insensitive) and non-positive geometries are rejected.
func New(types []ContainerType) (*Catalog, error) {
	seen := make(map[string]struct{}, len(types))
	out := make([]ContainerType, 0, len(types))
	for _, t := range types {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return nil, errors.New("container type requires a name")
		}
		if t.Rows < 1 || t.Columns < 1 {
			return nil, fmt.Errorf("container type %q: rows and columns must be positive", name)
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("container type %q declared twice", name)
		}
		seen[key] = struct{}{}
		t.Name = name
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, errors.New("catalog requires at least one container type")
	}
	return &Catalog{types: out}, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New([]ContainerType{
		{Name: "Cryobox 9x9", Rows: 9, Columns: 9},
		{Name: "Plate 8x12", Rows: 8, Columns: 12},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup resolves a type by name, ignoring case and surrounding
// whitespace.
func (c *Catalog) Lookup(name string) (ContainerType, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, t := range c.types {
		if strings.ToLower(t.Name) == want {
			return t, nil
		}
	}
	return ContainerType{}, fmt.Errorf("%w: %q", ErrUnknownContainerType, name)
}

// Types returns the catalog entries in presentation order.
func (c *Catalog) Types() []ContainerType {
	out := make([]ContainerType, len(c.types))
	copy(out, c.types)
	return out
}
