package binarize

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// ImageLuminanceSource is a LuminanceSource over an 8-bit greyscale buffer.
// It supports cropping, which shares the buffer, and rotation, which copies.
type ImageLuminanceSource struct {
	luminances []byte
	dataWidth  int
	dataHeight int
	left       int
	top        int
	width      int
	height     int
}

// NewImageLuminanceSource creates a LuminanceSource from a Go image.Image.
// The image is converted to greyscale luminance values upon construction
// using (306*R + 601*G + 117*B + 0x200) >> 10 on 8-bit components.
// Fully transparent pixels become white.
func NewImageLuminanceSource(img image.Image) *ImageLuminanceSource {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	luminances := make([]byte, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			if a == 0 {
				luminances[y*w+x] = 0xFF
				continue
			}
			r8 := r >> 8
			g8 := g >> 8
			b8 := b >> 8
			luminances[y*w+x] = byte((306*r8 + 601*g8 + 117*b8 + 0x200) >> 10)
		}
	}
	return newImageLuminanceSource(luminances, w, h)
}

// NewGrayImageLuminanceSource creates a LuminanceSource from a *image.Gray,
// copying its pixels without conversion.
func NewGrayImageLuminanceSource(img *image.Gray) *ImageLuminanceSource {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	luminances := make([]byte, w*h)
	for y := 0; y < h; y++ {
		srcOff := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		copy(luminances[y*w:], img.Pix[srcOff:srcOff+w])
	}
	return newImageLuminanceSource(luminances, w, h)
}

func newImageLuminanceSource(luminances []byte, width, height int) *ImageLuminanceSource {
	return &ImageLuminanceSource{
		luminances: luminances,
		dataWidth:  width,
		dataHeight: height,
		width:      width,
		height:     height,
	}
}

// Row returns a row of luminance data.
func (s *ImageLuminanceSource) Row(y int, row []byte) []byte {
	if y < 0 || y >= s.height {
		return nil
	}
	if len(row) < s.width {
		row = make([]byte, s.width)
	}
	offset := (y+s.top)*s.dataWidth + s.left
	copy(row, s.luminances[offset:offset+s.width])
	return row
}

// Matrix returns the entire luminance matrix.
func (s *ImageLuminanceSource) Matrix() []byte {
	result := make([]byte, s.width*s.height)
	if s.width == s.dataWidth && s.height == s.dataHeight {
		copy(result, s.luminances)
		return result
	}
	for y := 0; y < s.height; y++ {
		offset := (y+s.top)*s.dataWidth + s.left
		copy(result[y*s.width:], s.luminances[offset:offset+s.width])
	}
	return result
}

// Width returns the width of the image.
func (s *ImageLuminanceSource) Width() int {
	return s.width
}

// Height returns the height of the image.
func (s *ImageLuminanceSource) Height() int {
	return s.height
}

// CanCrop returns true.
func (s *ImageLuminanceSource) CanCrop() bool { return true }

// Crop returns a view of the rectangle that shares this source's buffer.
func (s *ImageLuminanceSource) Crop(left, top, width, height int) (LuminanceSource, error) {
	if left < 0 || top < 0 || width < 1 || height < 1 ||
		left+width > s.width || top+height > s.height {
		return nil, fmt.Errorf("%w: crop rectangle does not fit within image data", ErrInvalidArgument)
	}
	return &ImageLuminanceSource{
		luminances: s.luminances,
		dataWidth:  s.dataWidth,
		dataHeight: s.dataHeight,
		left:       s.left + left,
		top:        s.top + top,
		width:      width,
		height:     height,
	}, nil
}

// CanRotate returns true.
func (s *ImageLuminanceSource) CanRotate() bool { return true }

// RotateCounterClockwise returns a new source holding the visible region
// rotated 90 degrees counterclockwise.
func (s *ImageLuminanceSource) RotateCounterClockwise() (LuminanceSource, error) {
	newWidth := s.height
	newHeight := s.width
	newLum := make([]byte, newWidth*newHeight)
	for y := 0; y < s.height; y++ {
		offset := (y+s.top)*s.dataWidth + s.left
		for x := 0; x < s.width; x++ {
			// (x, y) in old image -> (y, width - 1 - x) in new image
			newLum[(s.width-1-x)*newWidth+y] = s.luminances[offset+x]
		}
	}
	return newImageLuminanceSource(newLum, newWidth, newHeight), nil
}

// RotateCounterClockwise45 rotates the backing data 45 degrees
// counterclockwise about the centre of the visible region onto a white
// square canvas, then returns the window of that canvas centred on the same
// point with side max(width, height), clipped to the canvas.
func (s *ImageLuminanceSource) RotateCounterClockwise45() (LuminanceSource, error) {
	centerX := s.left + s.width/2
	centerY := s.top + s.height/2
	dim := max(s.dataWidth, s.dataHeight)

	src := &image.Gray{
		Pix:    s.luminances,
		Stride: s.dataWidth,
		Rect:   image.Rect(0, 0, s.dataWidth, s.dataHeight),
	}
	dst := image.NewGray(image.Rect(0, 0, dim, dim))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

	// Image y grows downwards, so a visually counterclockwise turn is a
	// rotation by -45 degrees in image coordinates.
	c := math.Cos(-math.Pi / 4)
	sn := math.Sin(-math.Pi / 4)
	cx, cy := float64(centerX), float64(centerY)
	s2d := f64.Aff3{
		c, -sn, cx - c*cx + sn*cy,
		sn, c, cy - sn*cx - c*cy,
	}
	draw.BiLinear.Transform(dst, s2d, src, src.Bounds(), draw.Over, nil)

	half := max(s.width, s.height) / 2
	newLeft := max(0, centerX-half)
	newTop := max(0, centerY-half)
	newRight := min(dim-1, centerX+half)
	newBottom := min(dim-1, centerY+half)

	rotated := newImageLuminanceSource(dst.Pix, dim, dim)
	return rotated.Crop(newLeft, newTop, max(1, newRight-newLeft), max(1, newBottom-newTop))
}
