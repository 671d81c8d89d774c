// Package binarize turns greyscale luminance data into the black/white
// bitmaps that barcode decoders consume. A BinaryBitmap wraps a pluggable
// Binarizer, memoizes its results and derives cropped or rotated bitmaps
// without recomputing anything on the original.
package binarize

import (
	"errors"
	"fmt"

	"github.com/ericlevine/binarize/bitutil"
)

// BinaryBitmap represents a bitmap of binary (black/white) values.
//
// The row cache holds only the most recently binarized row; the matrix cache
// holds the full matrix. Neither is ever invalidated. A BinaryBitmap is not
// safe for concurrent use; callers sharing one across goroutines must
// serialize BlackRow and BlackMatrix themselves.
type BinaryBitmap struct {
	binarizer Binarizer

	row    *bitutil.BitArray
	rowY   int
	matrix *bitutil.BitMatrix
}

// NewBinaryBitmap creates a new BinaryBitmap from the given Binarizer.
func NewBinaryBitmap(binarizer Binarizer) *BinaryBitmap {
	return &BinaryBitmap{binarizer: binarizer}
}

// Width returns the width of the bitmap.
func (b *BinaryBitmap) Width() int {
	return b.binarizer.Width()
}

// Height returns the height of the bitmap.
func (b *BinaryBitmap) Height() int {
	return b.binarizer.Height()
}

// BlackRow returns row y of black/white values, binarizing it on first use.
// This is intended for 1D decoders and may be sharpened, so don't mix its
// results with rows of BlackMatrix.
//
// row is an optional buffer the result may be written into when its size
// equals Width(); always use the returned BitArray. The caller owns the returned row and may modify it.
func (b *BinaryBitmap) BlackRow(y int, row *bitutil.BitArray) (*bitutil.BitArray, error) {
	if y < 0 || y >= b.Height() {
		return nil, fmt.Errorf("%w: row %d outside [0, %d)", ErrInvalidArgument, y, b.Height())
	}
	if b.row != nil && b.rowY == y {
		if row != nil && row.Size() == b.row.Size() {
			row.CopyFrom(b.row)
			return row, nil
		}
		return b.row.Clone(), nil
	}

	if row != nil && row.Size() != b.Width() {
		row = nil
	}
	Logger().Debug("row cache miss", "y", y)
	result, err := b.binarizer.BlackRow(y, row)
	if err != nil {
		Logger().Debug("row binarization failed", "y", y, "err", err)
		return nil, binarizationError(fmt.Sprintf("row %d", y), err)
	}
	b.row = result.Clone()
	b.rowY = y
	return result, nil
}

// BlackMatrix returns the 2D matrix of black/white values, binarizing it on
// first use. This is intended for 2D decoders.
//
// The returned matrix is the cached instance shared by every caller; Clone it
// before making changes. A failure is not cached and the next call retries.
func (b *BinaryBitmap) BlackMatrix() (*bitutil.BitMatrix, error) {
	if b.matrix != nil {
		return b.matrix, nil
	}
	Logger().Debug("matrix cache miss", "width", b.Width(), "height", b.Height())
	m, err := b.binarizer.BlackMatrix()
	if err != nil {
		Logger().Debug("matrix binarization failed",
			"width", b.Width(), "height", b.Height(), "err", err)
		return nil, binarizationError("matrix", err)
	}
	b.matrix = m
	return m, nil
}

// Invert returns a new bitmap over the inverted luminance of this one, so
// decoders can retry on light symbols printed on a dark background. The
// receiver and any matrix it already returned are left untouched.
func (b *BinaryBitmap) Invert() *BinaryBitmap {
	return b.derive("invert", Invert(b.binarizer.LuminanceSource()))
}

// CanCrop reports whether Cropped is supported.
func (b *BinaryBitmap) CanCrop() bool {
	return b.binarizer.LuminanceSource().CanCrop()
}

// Cropped returns a new bitmap over the given rectangle. The new bitmap has
// its own empty caches and may share pixel data with b.
func (b *BinaryBitmap) Cropped(left, top, width, height int) (*BinaryBitmap, error) {
	if !b.CanCrop() {
		return nil, fmt.Errorf("crop: %w", ErrUnsupportedOperation)
	}
	if left < 0 || left >= b.Width() || top < 0 || top >= b.Height() ||
		width < 1 || height < 1 || left+width > b.Width() || top+height > b.Height() {
		return nil, fmt.Errorf("%w: crop rectangle %dx%d at (%d,%d) does not fit %dx%d",
			ErrInvalidArgument, width, height, left, top, b.Width(), b.Height())
	}
	source, err := b.binarizer.LuminanceSource().Crop(left, top, width, height)
	if err != nil {
		return nil, fmt.Errorf("crop: %w", err)
	}
	return b.derive("crop", source), nil
}

// CanRotate reports whether RotateCounterClockwise and
// RotateCounterClockwise45 are supported.
func (b *BinaryBitmap) CanRotate() bool {
	return b.binarizer.LuminanceSource().CanRotate()
}

// RotateCounterClockwise returns a new bitmap rotated by 90 degrees
// counterclockwise. Width and height are swapped.
func (b *BinaryBitmap) RotateCounterClockwise() (*BinaryBitmap, error) {
	if !b.CanRotate() {
		return nil, fmt.Errorf("rotate: %w", ErrUnsupportedOperation)
	}
	source, err := b.binarizer.LuminanceSource().RotateCounterClockwise()
	if err != nil {
		return nil, fmt.Errorf("rotate: %w", err)
	}
	return b.derive("rotate90", source), nil
}

// RotateCounterClockwise45 returns a new bitmap rotated by 45 degrees
// counterclockwise, for decoders that scan a fixed set of angles.
func (b *BinaryBitmap) RotateCounterClockwise45() (*BinaryBitmap, error) {
	if !b.CanRotate() {
		return nil, fmt.Errorf("rotate: %w", ErrUnsupportedOperation)
	}
	source, err := b.binarizer.LuminanceSource().RotateCounterClockwise45()
	if err != nil {
		return nil, fmt.Errorf("rotate: %w", err)
	}
	return b.derive("rotate45", source), nil
}

// String returns the matrix rendered with "X " for black, or the
// binarization error.
func (b *BinaryBitmap) String() string {
	m, err := b.BlackMatrix()
	if err != nil {
		return err.Error()
	}
	return m.String()
}

func (b *BinaryBitmap) derive(op string, source LuminanceSource) *BinaryBitmap {
	Logger().Debug("derived bitmap", "op", op,
		"from", fmt.Sprintf("%dx%d", b.Width(), b.Height()),
		"to", fmt.Sprintf("%dx%d", source.Width(), source.Height()))
	return NewBinaryBitmap(b.binarizer.CreateBinarizer(source))
}

func binarizationError(what string, err error) error {
	if errors.Is(err, ErrBinarizationFailed) {
		return fmt.Errorf("%s: %w", what, err)
	}
	return fmt.Errorf("%s: %w: %w", what, ErrBinarizationFailed, err)
}
