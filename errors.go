package binarize

import "errors"

var (
	// ErrInvalidArgument is returned for an out-of-range row index or a crop
	// rectangle that does not fit the image. It indicates a caller bug.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupportedOperation is returned when a crop or rotation is
	// requested from a source that does not support it.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrBinarizationFailed is returned when a row or matrix has too little
	// contrast to be split into black and white.
	ErrBinarizationFailed = errors.New("binarization failed")
)
