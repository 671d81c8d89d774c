// Package binarizer provides the thresholding algorithms that turn luminance
// data into black/white bits.
package binarizer

import (
	"fmt"

	"github.com/ericlevine/binarize"
	"github.com/ericlevine/binarize/bitutil"
)

const (
	luminanceBits    = 5
	luminanceShift   = 8 - luminanceBits
	luminanceBuckets = 1 << luminanceBits
)

// GlobalHistogram picks a single black point from a luminance histogram.
// Rows are sharpened before thresholding; the matrix is not. Suitable for
// lower-end devices and clean images; photographs should use Hybrid.
type GlobalHistogram struct {
	source     binarize.LuminanceSource
	luminances []byte
	buckets    [luminanceBuckets]int
}

// NewGlobalHistogram creates a new GlobalHistogram binarizer.
func NewGlobalHistogram(source binarize.LuminanceSource) *GlobalHistogram {
	return &GlobalHistogram{source: source}
}

// LuminanceSource returns the underlying source.
func (g *GlobalHistogram) LuminanceSource() binarize.LuminanceSource {
	return g.source
}

// CreateBinarizer returns a new GlobalHistogram over source.
func (g *GlobalHistogram) CreateBinarizer(source binarize.LuminanceSource) binarize.Binarizer {
	return NewGlobalHistogram(source)
}

// Width returns the image width.
func (g *GlobalHistogram) Width() int { return g.source.Width() }

// Height returns the image height.
func (g *GlobalHistogram) Height() int { return g.source.Height() }

// BlackRow returns a row binarized using the row's own histogram, with a
// [-1 4 -1] sharpening pass. The first and last pixels of rows at least
// three wide are never black.
func (g *GlobalHistogram) BlackRow(y int, row *bitutil.BitArray) (*bitutil.BitArray, error) {
	width := g.source.Width()
	if row == nil || row.Size() != width {
		row = bitutil.NewBitArray(width)
	} else {
		row.Clear()
	}

	g.initArrays(width)
	localLuminances := g.source.Row(y, g.luminances)
	if localLuminances == nil {
		return nil, fmt.Errorf("%w: row %d outside source", binarize.ErrInvalidArgument, y)
	}
	for x := 0; x < width; x++ {
		g.buckets[int(localLuminances[x])>>luminanceShift]++
	}
	blackPoint, err := estimateBlackPoint(g.buckets[:])
	if err != nil {
		return nil, err
	}

	if width < 3 {
		for x := 0; x < width; x++ {
			if int(localLuminances[x]) < blackPoint {
				row.Set(x)
			}
		}
	} else {
		left := int(localLuminances[0])
		center := int(localLuminances[1])
		for x := 1; x < width-1; x++ {
			right := int(localLuminances[x+1])
			if ((center*4)-left-right)/2 < blackPoint {
				row.Set(x)
			}
			left = center
			center = right
		}
	}
	return row, nil
}

// BlackMatrix returns the full matrix thresholded at one black point,
// estimated from four rows across the central three fifths of the image.
func (g *GlobalHistogram) BlackMatrix() (*bitutil.BitMatrix, error) {
	width := g.source.Width()
	height := g.source.Height()

	g.initArrays(width)
	for y := 1; y < 5; y++ {
		localLuminances := g.source.Row(height*y/5, g.luminances)
		right := (width * 4) / 5
		for x := width / 5; x < right; x++ {
			g.buckets[int(localLuminances[x])>>luminanceShift]++
		}
	}
	blackPoint, err := estimateBlackPoint(g.buckets[:])
	if err != nil {
		return nil, err
	}

	matrix := bitutil.NewBitMatrixWithSize(width, height)
	localLuminances := g.source.Matrix()
	for y := 0; y < height; y++ {
		offset := y * width
		for x := 0; x < width; x++ {
			if int(localLuminances[offset+x]) < blackPoint {
				matrix.Set(x, y)
			}
		}
	}
	return matrix, nil
}

func (g *GlobalHistogram) initArrays(luminanceSize int) {
	if len(g.luminances) < luminanceSize {
		g.luminances = make([]byte, luminanceSize)
	}
	g.buckets = [luminanceBuckets]int{}
}

// estimateBlackPoint finds the two tallest, well separated peaks of the
// histogram and returns the luminance of the deepest valley between them.
//
// A histogram with a single occupied bucket has no second peak. Choosing an
// empty bucket as one would threshold the whole image to one colour and hand
// decoders a blank bitmap indistinguishable from a real result, so that case
// fails with ErrBinarizationFailed like peaks that are too close.
func estimateBlackPoint(buckets []int) (int, error) {
	numBuckets := len(buckets)
	maxBucketCount := 0
	firstPeak := 0
	firstPeakSize := 0
	for x := 0; x < numBuckets; x++ {
		if buckets[x] > firstPeakSize {
			firstPeak = x
			firstPeakSize = buckets[x]
		}
		if buckets[x] > maxBucketCount {
			maxBucketCount = buckets[x]
		}
	}

	// Second peak: favour buckets far from the first.
	secondPeak := 0
	secondPeakScore := 0
	for x := 0; x < numBuckets; x++ {
		dist := x - firstPeak
		score := buckets[x] * dist * dist
		if score > secondPeakScore {
			secondPeak = x
			secondPeakScore = score
		}
	}
	if secondPeakScore == 0 {
		return 0, fmt.Errorf("%w: uniform luminance", binarize.ErrBinarizationFailed)
	}

	if firstPeak > secondPeak {
		firstPeak, secondPeak = secondPeak, firstPeak
	}

	if secondPeak-firstPeak <= numBuckets/16 {
		return 0, fmt.Errorf("%w: histogram peaks %d and %d too close",
			binarize.ErrBinarizationFailed, firstPeak, secondPeak)
	}

	bestValley := secondPeak - 1
	bestValleyScore := -1
	for x := secondPeak - 1; x > firstPeak; x-- {
		fromFirst := x - firstPeak
		score := fromFirst * fromFirst * (secondPeak - x) * (maxBucketCount - buckets[x])
		if score > bestValleyScore {
			bestValley = x
			bestValleyScore = score
		}
	}

	return bestValley << luminanceShift, nil
}
