package bitutil

import (
	"image"
	"image/color"
	"math/bits"
	"strings"
)

// BitMatrix represents a 2D matrix of bits.
// x is the column position, y is the row position. The origin is at the top-left.
type BitMatrix struct {
	width   int
	height  int
	rowSize int
	data    []uint32
}

// NewBitMatrix creates a new square BitMatrix with the given dimension.
func NewBitMatrix(dimension int) *BitMatrix {
	return NewBitMatrixWithSize(dimension, dimension)
}

// NewBitMatrixWithSize creates a new BitMatrix with the given width and height.
func NewBitMatrixWithSize(width, height int) *BitMatrix {
	if width < 1 || height < 1 {
		panic("bitmatrix: dimensions must be greater than 0")
	}
	rowSize := (width + 31) / 32
	return &BitMatrix{
		width:   width,
		height:  height,
		rowSize: rowSize,
		data:    make([]uint32, rowSize*height),
	}
}

// ParseStringMatrix creates a BitMatrix from a string representation, one
// line per row.
func ParseStringMatrix(repr, setStr, unsetStr string) *BitMatrix {
	var rows [][]bool
	var current []bool
	endRow := func() {
		if len(current) == 0 {
			return
		}
		if len(rows) > 0 && len(current) != len(rows[0]) {
			panic("bitmatrix: row lengths do not match")
		}
		rows = append(rows, current)
		current = nil
	}
	for pos := 0; pos < len(repr); {
		switch {
		case repr[pos] == '\n' || repr[pos] == '\r':
			endRow()
			pos++
		case strings.HasPrefix(repr[pos:], setStr):
			current = append(current, true)
			pos += len(setStr)
		case strings.HasPrefix(repr[pos:], unsetStr):
			current = append(current, false)
			pos += len(unsetStr)
		default:
			panic("bitmatrix: illegal character encountered")
		}
	}
	endRow()
	if len(rows) == 0 {
		panic("bitmatrix: empty matrix")
	}

	matrix := NewBitMatrixWithSize(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, set := range row {
			if set {
				matrix.Set(x, y)
			}
		}
	}
	return matrix
}

// Get returns true if the bit at (x, y) is set.
func (bm *BitMatrix) Get(x, y int) bool {
	offset := y*bm.rowSize + x/32
	return (bm.data[offset]>>uint(x&0x1f))&1 != 0
}

// Set sets the bit at (x, y).
func (bm *BitMatrix) Set(x, y int) {
	offset := y*bm.rowSize + x/32
	bm.data[offset] |= 1 << uint(x&0x1f)
}

// Unset clears the bit at (x, y).
func (bm *BitMatrix) Unset(x, y int) {
	offset := y*bm.rowSize + x/32
	bm.data[offset] &^= 1 << uint(x&0x1f)
}

// Flip flips the bit at (x, y).
func (bm *BitMatrix) Flip(x, y int) {
	offset := y*bm.rowSize + x/32
	bm.data[offset] ^= 1 << uint(x&0x1f)
}

// FlipAll flips every bit in the matrix. Padding bits past the width stay clear.
func (bm *BitMatrix) FlipAll() {
	last := bm.lastWordMask()
	for y := 0; y < bm.height; y++ {
		offset := y * bm.rowSize
		for x := 0; x < bm.rowSize; x++ {
			bm.data[offset+x] = ^bm.data[offset+x]
		}
		bm.data[offset+bm.rowSize-1] &= last
	}
}

// Clear clears all bits.
func (bm *BitMatrix) Clear() {
	for i := range bm.data {
		bm.data[i] = 0
	}
}

// SetRegion sets a rectangular region of bits.
func (bm *BitMatrix) SetRegion(left, top, width, height int) {
	if top < 0 || left < 0 {
		panic("bitmatrix: left and top must be nonnegative")
	}
	if height < 1 || width < 1 {
		panic("bitmatrix: height and width must be at least 1")
	}
	right := left + width
	bottom := top + height
	if bottom > bm.height || right > bm.width {
		panic("bitmatrix: region must fit inside the matrix")
	}
	for y := top; y < bottom; y++ {
		offset := y * bm.rowSize
		for x := left; x < right; x++ {
			bm.data[offset+x/32] |= 1 << uint(x&0x1f)
		}
	}
}

// Row returns a row as a BitArray. If row is nil or too small, a new one is allocated.
func (bm *BitMatrix) Row(y int, row *BitArray) *BitArray {
	if row == nil || row.Size() < bm.width {
		row = NewBitArray(bm.width)
	} else {
		row.Clear()
	}
	offset := y * bm.rowSize
	for x := 0; x < bm.rowSize; x++ {
		row.SetBulk(x*32, bm.data[offset+x])
	}
	return row
}

// SetRow sets the row at y from the given BitArray.
func (bm *BitMatrix) SetRow(y int, row *BitArray) {
	copy(bm.data[y*bm.rowSize:(y+1)*bm.rowSize], row.BitData())
	bm.data[(y+1)*bm.rowSize-1] &= bm.lastWordMask()
}

// Rotate90 rotates the matrix 90 degrees counterclockwise.
func (bm *BitMatrix) Rotate90() {
	newWidth := bm.height
	newHeight := bm.width
	newRowSize := (newWidth + 31) / 32
	newData := make([]uint32, newRowSize*newHeight)

	for y := 0; y < bm.height; y++ {
		for x := 0; x < bm.width; x++ {
			if bm.Get(x, y) {
				newOffset := (newHeight-1-x)*newRowSize + y/32
				newData[newOffset] |= 1 << uint(y&0x1f)
			}
		}
	}
	bm.width = newWidth
	bm.height = newHeight
	bm.rowSize = newRowSize
	bm.data = newData
}

// Count returns the number of set bits.
func (bm *BitMatrix) Count() int {
	n := 0
	for _, word := range bm.data {
		n += bits.OnesCount32(word)
	}
	return n
}

// Width returns the width.
func (bm *BitMatrix) Width() int { return bm.width }

// Height returns the height.
func (bm *BitMatrix) Height() int { return bm.height }

// Clone returns a deep copy of the BitMatrix.
func (bm *BitMatrix) Clone() *BitMatrix {
	d := make([]uint32, len(bm.data))
	copy(d, bm.data)
	return &BitMatrix{width: bm.width, height: bm.height, rowSize: bm.rowSize, data: d}
}

// Equals returns true if two BitMatrices have the same size and bits.
func (bm *BitMatrix) Equals(other *BitMatrix) bool {
	if other == nil || bm.width != other.width || bm.height != other.height {
		return false
	}
	for i := range bm.data {
		if bm.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// String returns a string representation using "X " for set and "  " for unset.
func (bm *BitMatrix) String() string {
	return bm.StringWithChars("X ", "  ")
}

// StringWithChars returns a string representation using the given set/unset strings.
func (bm *BitMatrix) StringWithChars(setString, unsetString string) string {
	var sb strings.Builder
	sb.Grow(bm.height * (bm.width*len(setString) + 1))
	for y := 0; y < bm.height; y++ {
		for x := 0; x < bm.width; x++ {
			if bm.Get(x, y) {
				sb.WriteString(setString)
			} else {
				sb.WriteString(unsetString)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Image renders the matrix as a greyscale image with set bits black (0) and
// unset bits white (255).
func (bm *BitMatrix) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, bm.width, bm.height))
	for y := 0; y < bm.height; y++ {
		for x := 0; x < bm.width; x++ {
			if bm.Get(x, y) {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

func (bm *BitMatrix) lastWordMask() uint32 {
	if rem := bm.width & 0x1f; rem != 0 {
		return (1 << uint(rem)) - 1
	}
	return ^uint32(0)
}
