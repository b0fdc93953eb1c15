package slotaddr_test

import (
	"errors"
	"testing"

	"github.com/florisjonkman/Zobioweb/internal/slotaddr"
)

func TestFormatLabelExamples(t *testing.T) {
	cases := []struct {
		row, col int
		want     string
	}{
		{1, 2, "A2"},
		{1, 1, "A1"},
		{8, 12, "H12"},
		{26, 9, "Z9"},
		{27, 3, "AA3"},
		{52, 1, "AZ1"},
		{53, 30, "BA30"},
		{702, 30, "ZZ30"},
	}
	for _, tc := range cases {
		if got := slotaddr.FormatLabel(tc.row, tc.col); got != tc.want {
			t.Errorf("FormatLabel(%d, %d) = %q, want %q", tc.row, tc.col, got, tc.want)
		}
	}
}

func TestLabelRoundTrip(t *testing.T) {
	for row := 1; row <= slotaddr.MaxRow; row++ {
		for _, col := range []int{1, 2, 9, 12, 30, 384} {
			label := slotaddr.FormatLabel(row, col)
			gotRow, gotCol, err := slotaddr.ParseLabel(label)
			if err != nil {
				t.Fatalf("ParseLabel(%q) failed: %v", label, err)
			}
			if gotRow != row || gotCol != col {
				t.Fatalf("round trip (%d,%d) -> %q -> (%d,%d)", row, col, label, gotRow, gotCol)
			}
		}
	}
}

func TestParseLabelRejectsMalformed(t *testing.T) {
	for _, label := range []string{"", "A", "12", "A0", "AA", "A-3", "ZZZ1", "a2"} {
		if _, _, err := slotaddr.ParseLabel(label); !errors.Is(err, slotaddr.ErrMalformedLabel) {
			t.Errorf("ParseLabel(%q): expected ErrMalformedLabel, got %v", label, err)
		}
	}
}

func TestNextAdvancesColumnFirst(t *testing.T) {
	cases := []struct {
		in   slotaddr.Coordinate
		want slotaddr.Coordinate
	}{
		{slotaddr.Coordinate{}, slotaddr.Coordinate{Box: 1, Row: 1, Col: 1}},
		{slotaddr.Coordinate{Box: 1, Row: 1, Col: 1}, slotaddr.Coordinate{Box: 1, Row: 1, Col: 2}},
		{slotaddr.Coordinate{Box: 1, Row: 1, Col: 12}, slotaddr.Coordinate{Box: 1, Row: 2, Col: 1}},
		{slotaddr.Coordinate{Box: 1, Row: 8, Col: 11}, slotaddr.Coordinate{Box: 1, Row: 8, Col: 12}},
		{slotaddr.Coordinate{Box: 1, Row: 8, Col: 12}, slotaddr.Coordinate{Box: 2, Row: 1, Col: 1}},
		{slotaddr.Coordinate{Box: 4, Row: 8, Col: 12}, slotaddr.Coordinate{Box: 5, Row: 1, Col: 1}},
	}
	for _, tc := range cases {
		if got := slotaddr.Next(tc.in, 8, 12); got != tc.want {
			t.Errorf("Next(%v, 8, 12) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNextStaysInsideGeometry(t *testing.T) {
	const maxRows, maxCols = 8, 12
	c := slotaddr.Coordinate{}
	for i := 0; i < maxRows*maxCols*3; i++ {
		c = slotaddr.Next(c, maxRows, maxCols)
		if c.Col < 1 || c.Col > maxCols {
			t.Fatalf("column %d escaped geometry at step %d", c.Col, i)
		}
		if c.Row < 1 || c.Row > maxRows {
			t.Fatalf("row %d escaped geometry at step %d", c.Row, i)
		}
	}
	if c.Box != 3 {
		t.Fatalf("expected three full boxes, ended in box %d", c.Box)
	}
}

func TestLater(t *testing.T) {
	a := slotaddr.Coordinate{Box: 2, Row: 1, Col: 1}
	b := slotaddr.Coordinate{Box: 1, Row: 9, Col: 9}
	if got := slotaddr.Later(a, b); got != a {
		t.Errorf("Later(%v, %v) = %v, want %v", a, b, got, a)
	}
	c := slotaddr.Coordinate{Box: 2, Row: 1, Col: 5}
	if got := slotaddr.Later(a, c); got != c {
		t.Errorf("Later(%v, %v) = %v, want %v", a, c, got, c)
	}
	if got := slotaddr.Later(slotaddr.Coordinate{}, b); got != b {
		t.Errorf("Later(zero, %v) = %v, want %v", b, got, b)
	}
}

func TestContainerBarcode(t *testing.T) {
	if got := slotaddr.ContainerBarcode(1, "ACME"); got != "ACME-0001" {
		t.Errorf("ContainerBarcode(1, ACME) = %q", got)
	}
	if got := slotaddr.ContainerBarcode(0, "ACME"); got != "ACME-0001" {
		t.Errorf("ContainerBarcode(0, ACME) = %q", got)
	}
	if got := slotaddr.ContainerBarcode(217, "FJM"); got != "FJM-0217" {
		t.Errorf("ContainerBarcode(217, FJM) = %q", got)
	}
}

func TestParseLocation(t *testing.T) {
	project, c, err := slotaddr.ParseLocation("FJM-3-B7")
	if err != nil {
		t.Fatalf("ParseLocation failed: %v", err)
	}
	if project != "FJM" {
		t.Errorf("project = %q, want FJM", project)
	}
	if want := (slotaddr.Coordinate{Box: 3, Row: 2, Col: 7}); c != want {
		t.Errorf("coordinate = %v, want %v", c, want)
	}

	project, c, err = slotaddr.ParseLocation("MULTI-PART-NAME-12-AA30")
	if err != nil {
		t.Fatalf("ParseLocation with dashed project failed: %v", err)
	}
	if project != "MULTI-PART-NAME" {
		t.Errorf("project = %q, want MULTI-PART-NAME", project)
	}
	if want := (slotaddr.Coordinate{Box: 12, Row: 27, Col: 30}); c != want {
		t.Errorf("coordinate = %v, want %v", c, want)
	}

	for _, bad := range []string{"", "FJM", "FJM-3", "FJM-x-A1", "FJM-0-A1", "FJM-3-11"} {
		if _, _, err := slotaddr.ParseLocation(bad); !errors.Is(err, slotaddr.ErrMalformedLabel) {
			t.Errorf("ParseLocation(%q): expected ErrMalformedLabel, got %v", bad, err)
		}
	}
}
