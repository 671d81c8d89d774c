package binarize_test

import (
	"image"
	"testing"

	"github.com/ericlevine/binarize"
	"github.com/ericlevine/binarize/binarizer"
)

// checkerImage is a 640x480 frame of 8 pixel squares under a horizontal
// lighting gradient, roughly what a camera sees when pointed at a symbol.
func checkerImage() *image.Gray {
	return grayImage(640, 480, func(x, y int) uint8 {
		base := 40 + x*80/640
		if (x/8+y/8)%2 == 0 {
			return uint8(base)
		}
		return uint8(base + 100)
	})
}

var binarizerFactories = []struct {
	name string
	new  func(binarize.LuminanceSource) binarize.Binarizer
}{
	{"GlobalHistogram", func(s binarize.LuminanceSource) binarize.Binarizer { return binarizer.NewGlobalHistogram(s) }},
	{"Hybrid", func(s binarize.LuminanceSource) binarize.Binarizer { return binarizer.NewHybrid(s) }},
}

func BenchmarkBlackMatrix(b *testing.B) {
	source := binarize.NewGrayImageLuminanceSource(checkerImage())
	for _, tc := range binarizerFactories {
		b.Run(tc.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				// Fresh bitmap each iteration so the matrix cache never hits.
				bitmap := binarize.NewBinaryBitmap(tc.new(source))
				if _, err := bitmap.BlackMatrix(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkBlackRowScan(b *testing.B) {
	source := binarize.NewGrayImageLuminanceSource(checkerImage())
	bitmap := binarize.NewBinaryBitmap(binarizer.NewGlobalHistogram(source))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		row, err := bitmap.BlackRow(i%bitmap.Height(), nil)
		if err != nil {
			b.Fatal(err)
		}
		_ = row
	}
}

func BenchmarkTransforms(b *testing.B) {
	source := binarize.NewGrayImageLuminanceSource(checkerImage())
	bitmap := binarize.NewBinaryBitmap(binarizer.NewHybrid(source))
	transforms := []struct {
		name string
		fn   func() (*binarize.BinaryBitmap, error)
	}{
		{"Crop", func() (*binarize.BinaryBitmap, error) { return bitmap.Cropped(100, 100, 320, 240) }},
		{"Rotate90", bitmap.RotateCounterClockwise},
		{"Rotate45", bitmap.RotateCounterClockwise45},
	}
	for _, tc := range transforms {
		b.Run(tc.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := tc.fn(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
