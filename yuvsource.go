package binarize

import (
	"fmt"
	"image"
)

const thumbnailScaleFactor = 2

// PlanarYUVLuminanceSource reads the Y (luminance) plane of a planar YUV
// camera frame such as NV21 or YV12, optionally restricted to a window.
// The chroma planes are never read. It can be cropped but not rotated.
type PlanarYUVLuminanceSource struct {
	NoTransform

	yuvData    []byte
	dataWidth  int
	dataHeight int
	left       int
	top        int
	width      int
	height     int
}

// NewPlanarYUVLuminanceSource creates a source over the window
// (left, top, width, height) of a frame of dataWidth x dataHeight. When
// reverseHorizontal is set the window is mirrored, in place in yuvData,
// which suits front-facing cameras.
func NewPlanarYUVLuminanceSource(yuvData []byte, dataWidth, dataHeight, left, top, width, height int,
	reverseHorizontal bool) (*PlanarYUVLuminanceSource, error) {
	if left < 0 || top < 0 || width < 1 || height < 1 ||
		left+width > dataWidth || top+height > dataHeight {
		return nil, fmt.Errorf("%w: crop rectangle does not fit within image data", ErrInvalidArgument)
	}
	if len(yuvData) < dataWidth*dataHeight {
		return nil, fmt.Errorf("%w: %d bytes of Y data for a %dx%d frame",
			ErrInvalidArgument, len(yuvData), dataWidth, dataHeight)
	}
	s := &PlanarYUVLuminanceSource{
		yuvData:    yuvData,
		dataWidth:  dataWidth,
		dataHeight: dataHeight,
		left:       left,
		top:        top,
		width:      width,
		height:     height,
	}
	if reverseHorizontal {
		s.reverseHorizontal()
	}
	return s, nil
}

// Row returns a row of luminance data.
func (s *PlanarYUVLuminanceSource) Row(y int, row []byte) []byte {
	if y < 0 || y >= s.height {
		return nil
	}
	if len(row) < s.width {
		row = make([]byte, s.width)
	}
	offset := (y+s.top)*s.dataWidth + s.left
	copy(row, s.yuvData[offset:offset+s.width])
	return row
}

// Matrix returns the luminance of the window.
func (s *PlanarYUVLuminanceSource) Matrix() []byte {
	matrix := make([]byte, s.width*s.height)
	if s.width == s.dataWidth && s.height == s.dataHeight {
		copy(matrix, s.yuvData[:s.width*s.height])
		return matrix
	}
	for y := 0; y < s.height; y++ {
		offset := (y+s.top)*s.dataWidth + s.left
		copy(matrix[y*s.width:], s.yuvData[offset:offset+s.width])
	}
	return matrix
}

// Width returns the width of the window.
func (s *PlanarYUVLuminanceSource) Width() int { return s.width }

// Height returns the height of the window.
func (s *PlanarYUVLuminanceSource) Height() int { return s.height }

// CanCrop returns true.
func (s *PlanarYUVLuminanceSource) CanCrop() bool { return true }

// Crop returns a view of the rectangle that shares the frame buffer.
func (s *PlanarYUVLuminanceSource) Crop(left, top, width, height int) (LuminanceSource, error) {
	if left < 0 || top < 0 || width < 1 || height < 1 ||
		left+width > s.width || top+height > s.height {
		return nil, fmt.Errorf("%w: crop rectangle does not fit within image data", ErrInvalidArgument)
	}
	return &PlanarYUVLuminanceSource{
		yuvData:    s.yuvData,
		dataWidth:  s.dataWidth,
		dataHeight: s.dataHeight,
		left:       s.left + left,
		top:        s.top + top,
		width:      width,
		height:     height,
	}, nil
}

// ThumbnailWidth returns the width of the image RenderThumbnail produces.
func (s *PlanarYUVLuminanceSource) ThumbnailWidth() int {
	return s.width / thumbnailScaleFactor
}

// ThumbnailHeight returns the height of the image RenderThumbnail produces.
func (s *PlanarYUVLuminanceSource) ThumbnailHeight() int {
	return s.height / thumbnailScaleFactor
}

// RenderThumbnail returns the window downsampled by two in each direction,
// for previews.
func (s *PlanarYUVLuminanceSource) RenderThumbnail() *image.Gray {
	width := s.ThumbnailWidth()
	height := s.ThumbnailHeight()
	img := image.NewGray(image.Rect(0, 0, width, height))
	inputOffset := s.top*s.dataWidth + s.left
	for y := 0; y < height; y++ {
		outputOffset := y * img.Stride
		for x := 0; x < width; x++ {
			img.Pix[outputOffset+x] = s.yuvData[inputOffset+x*thumbnailScaleFactor]
		}
		inputOffset += s.dataWidth * thumbnailScaleFactor
	}
	return img
}

func (s *PlanarYUVLuminanceSource) reverseHorizontal() {
	for y, rowStart := 0, s.top*s.dataWidth+s.left; y < s.height; y, rowStart = y+1, rowStart+s.dataWidth {
		middle := rowStart + s.width/2
		for x1, x2 := rowStart, rowStart+s.width-1; x1 < middle; x1, x2 = x1+1, x2-1 {
			s.yuvData[x1], s.yuvData[x2] = s.yuvData[x2], s.yuvData[x1]
		}
	}
}
