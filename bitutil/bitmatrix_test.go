package bitutil

import (
	"image/color"
	"testing"
)

func TestBitMatrixGetSet(t *testing.T) {
	bm := NewBitMatrixWithSize(10, 10)
	bm.Set(3, 5)
	if !bm.Get(3, 5) {
		t.Error("bit (3,5) should be set")
	}
	if bm.Get(5, 3) {
		t.Error("bit (5,3) should not be set")
	}
}

func TestBitMatrixFlip(t *testing.T) {
	bm := NewBitMatrixWithSize(4, 4)
	bm.Flip(1, 2)
	if !bm.Get(1, 2) {
		t.Error("bit should be set after flip")
	}
	bm.Flip(1, 2)
	if bm.Get(1, 2) {
		t.Error("bit should be unset after double flip")
	}
}

func TestBitMatrixUnset(t *testing.T) {
	bm := NewBitMatrixWithSize(4, 4)
	bm.Set(2, 3)
	bm.Unset(2, 3)
	if bm.Get(2, 3) {
		t.Error("bit should be unset")
	}
}

func TestBitMatrixFlipAllKeepsPaddingClear(t *testing.T) {
	bm := NewBitMatrixWithSize(10, 3)
	bm.Set(0, 0)
	bm.FlipAll()
	if bm.Get(0, 0) {
		t.Error("(0,0) should be unset after FlipAll")
	}
	if got, want := bm.Count(), 10*3-1; got != want {
		t.Errorf("Count() = %d, want %d", got, want)
	}
	bm.FlipAll()
	want := NewBitMatrixWithSize(10, 3)
	want.Set(0, 0)
	if !bm.Equals(want) {
		t.Error("double FlipAll should restore the matrix")
	}
}

func TestBitMatrixSetRegion(t *testing.T) {
	bm := NewBitMatrixWithSize(8, 8)
	bm.SetRegion(2, 2, 4, 4)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			expected := x >= 2 && x < 6 && y >= 2 && y < 6
			if bm.Get(x, y) != expected {
				t.Errorf("(%d,%d) = %v, want %v", x, y, bm.Get(x, y), expected)
			}
		}
	}
}

func TestBitMatrixRow(t *testing.T) {
	bm := NewBitMatrixWithSize(40, 4)
	bm.Set(3, 2)
	bm.Set(35, 2)
	row := bm.Row(2, nil)
	if row.Size() != 40 {
		t.Fatalf("row size = %d, want 40", row.Size())
	}
	if !row.Get(3) || !row.Get(35) {
		t.Error("row should have bits 3 and 35 set")
	}
	if row.Get(4) {
		t.Error("row bit 4 should not be set")
	}

	reused := NewBitArray(40)
	reused.Set(0)
	if got := bm.Row(2, reused); got != reused || got.Get(0) {
		t.Error("Row should clear and reuse a large enough buffer")
	}
}

func TestBitMatrixSetRow(t *testing.T) {
	bm := NewBitMatrixWithSize(8, 2)
	row := NewBitArray(8)
	row.SetRange(2, 5)
	bm.SetRow(1, row)
	if got := bm.Row(1, nil); !got.Equals(row) {
		t.Errorf("row 1 = %s, want %s", got, row)
	}
	if bm.Count() != 3 {
		t.Errorf("Count() = %d, want 3", bm.Count())
	}
}

func TestBitMatrixRotate90(t *testing.T) {
	bm := NewBitMatrixWithSize(4, 3)
	bm.Set(3, 0) // top-right
	bm.Rotate90()
	// After 90 CCW: (3,0) -> (0,0) for a 3x4 matrix
	if bm.Width() != 3 || bm.Height() != 4 {
		t.Errorf("dimensions after 90 rotation: %dx%d, want 3x4", bm.Width(), bm.Height())
	}
	if !bm.Get(0, 0) {
		t.Error("(0,0) should be set after 90 rotation")
	}
}

func TestBitMatrixClone(t *testing.T) {
	bm := NewBitMatrixWithSize(8, 8)
	bm.Set(1, 1)
	clone := bm.Clone()
	clone.Set(2, 2)
	if bm.Get(2, 2) {
		t.Error("modifying clone should not affect original")
	}
}

func TestBitMatrixEquals(t *testing.T) {
	a := NewBitMatrixWithSize(4, 4)
	b := NewBitMatrixWithSize(4, 4)
	a.Set(1, 2)
	b.Set(1, 2)
	if !a.Equals(b) {
		t.Error("equal matrices should be equal")
	}
	b.Set(3, 3)
	if a.Equals(b) {
		t.Error("different matrices should not be equal")
	}
	if a.Equals(NewBitMatrixWithSize(4, 5)) {
		t.Error("matrices with different sizes should not be equal")
	}
}

func TestParseStringMatrix(t *testing.T) {
	m := ParseStringMatrix("X.X\n.X.\n", "X", ".")
	if m.Width() != 3 || m.Height() != 2 {
		t.Fatalf("size = %dx%d, want 3x2", m.Width(), m.Height())
	}
	if got, want := m.StringWithChars("X", "."), "X.X\n.X.\n"; got != want {
		t.Errorf("round trip = %q, want %q", got, want)
	}
}

func TestBitMatrixImage(t *testing.T) {
	bm := NewBitMatrixWithSize(2, 1)
	bm.Set(1, 0)
	img := bm.Image()
	if got := img.GrayAt(0, 0); got != (color.Gray{Y: 255}) {
		t.Errorf("(0,0) = %v, want white", got)
	}
	if got := img.GrayAt(1, 0); got != (color.Gray{Y: 0}) {
		t.Errorf("(1,0) = %v, want black", got)
	}
}
