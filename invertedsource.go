package binarize

// InvertedLuminanceSource wraps another source and reports 255 minus each
// of its luminance values, turning light-on-dark symbols into dark-on-light.
type InvertedLuminanceSource struct {
	delegate LuminanceSource
}

// Invert returns an inverted view of source. Inverting an inverted source
// returns the original.
func Invert(source LuminanceSource) LuminanceSource {
	if inv, ok := source.(*InvertedLuminanceSource); ok {
		return inv.delegate
	}
	return &InvertedLuminanceSource{delegate: source}
}

// Row returns an inverted row of luminance data.
func (s *InvertedLuminanceSource) Row(y int, row []byte) []byte {
	row = s.delegate.Row(y, row)
	width := s.Width()
	for i := 0; i < width && i < len(row); i++ {
		row[i] = 255 - row[i]
	}
	return row
}

// Matrix returns the inverted luminance matrix.
func (s *InvertedLuminanceSource) Matrix() []byte {
	matrix := s.delegate.Matrix()
	for i := range matrix {
		matrix[i] = 255 - matrix[i]
	}
	return matrix
}

// Width returns the width of the image.
func (s *InvertedLuminanceSource) Width() int { return s.delegate.Width() }

// Height returns the height of the image.
func (s *InvertedLuminanceSource) Height() int { return s.delegate.Height() }

// CanCrop reports whether the wrapped source can be cropped.
func (s *InvertedLuminanceSource) CanCrop() bool { return s.delegate.CanCrop() }

// Crop returns an inverted view of the cropped wrapped source.
func (s *InvertedLuminanceSource) Crop(left, top, width, height int) (LuminanceSource, error) {
	cropped, err := s.delegate.Crop(left, top, width, height)
	if err != nil {
		return nil, err
	}
	return Invert(cropped), nil
}

// CanRotate reports whether the wrapped source can be rotated.
func (s *InvertedLuminanceSource) CanRotate() bool { return s.delegate.CanRotate() }

// RotateCounterClockwise returns an inverted view of the rotated wrapped source.
func (s *InvertedLuminanceSource) RotateCounterClockwise() (LuminanceSource, error) {
	rotated, err := s.delegate.RotateCounterClockwise()
	if err != nil {
		return nil, err
	}
	return Invert(rotated), nil
}

// RotateCounterClockwise45 returns an inverted view of the rotated wrapped source.
func (s *InvertedLuminanceSource) RotateCounterClockwise45() (LuminanceSource, error) {
	rotated, err := s.delegate.RotateCounterClockwise45()
	if err != nil {
		return nil, err
	}
	return Invert(rotated), nil
}
