package binarize

import "github.com/ericlevine/binarize/bitutil"

// LuminanceSource provides access to greyscale luminance values for an image.
// Crop and rotation are optional: callers must check CanCrop or CanRotate
// before asking for a transformed view.
type LuminanceSource interface {
	// Row returns a row of luminance data. If row is non-nil and large enough,
	// it should be reused.
	Row(y int, row []byte) []byte

	// Matrix returns the entire luminance matrix in row-major order.
	Matrix() []byte

	// Width returns the width of the image.
	Width() int

	// Height returns the height of the image.
	Height() int

	// CanCrop reports whether Crop is supported.
	CanCrop() bool

	// Crop returns a view of the given rectangle. Implementations may keep a
	// reference to the original data rather than a copy.
	Crop(left, top, width, height int) (LuminanceSource, error)

	// CanRotate reports whether the rotation methods are supported.
	CanRotate() bool

	// RotateCounterClockwise returns a view rotated by 90 degrees
	// counterclockwise.
	RotateCounterClockwise() (LuminanceSource, error)

	// RotateCounterClockwise45 returns a view rotated by 45 degrees
	// counterclockwise.
	RotateCounterClockwise45() (LuminanceSource, error)
}

// NoTransform can be embedded by a LuminanceSource that supports neither
// cropping nor rotation.
type NoTransform struct{}

// CanCrop returns false.
func (NoTransform) CanCrop() bool { return false }

// Crop returns ErrUnsupportedOperation.
func (NoTransform) Crop(left, top, width, height int) (LuminanceSource, error) {
	return nil, ErrUnsupportedOperation
}

// CanRotate returns false.
func (NoTransform) CanRotate() bool { return false }

// RotateCounterClockwise returns ErrUnsupportedOperation.
func (NoTransform) RotateCounterClockwise() (LuminanceSource, error) {
	return nil, ErrUnsupportedOperation
}

// RotateCounterClockwise45 returns ErrUnsupportedOperation.
func (NoTransform) RotateCounterClockwise45() (LuminanceSource, error) {
	return nil, ErrUnsupportedOperation
}

// Binarizer converts luminance data to 1-bit black/white data. A Binarizer
// is bound to one LuminanceSource for its whole life and is not safe for
// concurrent use.
type Binarizer interface {
	// BlackRow returns a row of black/white values. The row may be
	// sharpened, so it can differ from the same row of BlackMatrix.
	BlackRow(y int, row *bitutil.BitArray) (*bitutil.BitArray, error)

	// BlackMatrix returns the 2D matrix of black/white values.
	BlackMatrix() (*bitutil.BitMatrix, error)

	// LuminanceSource returns the underlying LuminanceSource.
	LuminanceSource() LuminanceSource

	// CreateBinarizer returns a new Binarizer running the same algorithm
	// over source. The receiver is left untouched.
	CreateBinarizer(source LuminanceSource) Binarizer

	// Width returns the width of the image.
	Width() int

	// Height returns the height of the image.
	Height() int
}
