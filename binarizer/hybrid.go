package binarizer

import (
	"fmt"

	"github.com/ericlevine/binarize"
	"github.com/ericlevine/binarize/bitutil"
)

const (
	blockSizePower   = 3
	blockSize        = 1 << blockSizePower
	blockSizeMask    = blockSize - 1
	minimumDimension = blockSize * 5
	minDynamicRange  = 24
)

// Hybrid thresholds each 8x8 block of the matrix against the average black
// point of the surrounding 5x5 blocks, which copes with shadows and
// gradients that defeat a single global threshold. Images smaller than 40
// pixels on either side, and all rows, fall back to GlobalHistogram. An
// image in which no block has contrast fails with ErrBinarizationFailed.
type Hybrid struct {
	GlobalHistogram
}

// NewHybrid creates a new Hybrid binarizer.
func NewHybrid(source binarize.LuminanceSource) *Hybrid {
	return &Hybrid{
		GlobalHistogram: *NewGlobalHistogram(source),
	}
}

// CreateBinarizer returns a new Hybrid over source.
func (h *Hybrid) CreateBinarizer(source binarize.LuminanceSource) binarize.Binarizer {
	return NewHybrid(source)
}

// BlackMatrix returns the binarized matrix using local thresholding.
func (h *Hybrid) BlackMatrix() (*bitutil.BitMatrix, error) {
	source := h.LuminanceSource()
	width := source.Width()
	height := source.Height()

	if width < minimumDimension || height < minimumDimension {
		binarize.Logger().Debug("image too small for local thresholding",
			"width", width, "height", height)
		return h.GlobalHistogram.BlackMatrix()
	}

	luminances := source.Matrix()
	subWidth := width >> blockSizePower
	if (width & blockSizeMask) != 0 {
		subWidth++
	}
	subHeight := height >> blockSizePower
	if (height & blockSizeMask) != 0 {
		subHeight++
	}
	blackPoints, contrast := calculateBlackPoints(luminances, subWidth, subHeight, width, height)
	if !contrast {
		return nil, fmt.Errorf("%w: no %dx%d block exceeds dynamic range %d",
			binarize.ErrBinarizationFailed, blockSize, blockSize, minDynamicRange)
	}

	matrix := bitutil.NewBitMatrixWithSize(width, height)
	calculateThresholdForBlock(luminances, subWidth, subHeight, width, height, blackPoints, matrix)
	return matrix, nil
}

// calculateThresholdForBlock thresholds every block against the mean black
// point of the 5x5 neighbourhood around it, clamped at the image edges.
func calculateThresholdForBlock(luminances []byte, subWidth, subHeight, width, height int,
	blackPoints [][]int, matrix *bitutil.BitMatrix) {
	maxYOffset := height - blockSize
	maxXOffset := width - blockSize
	for y := 0; y < subHeight; y++ {
		yoffset := min(y<<blockSizePower, maxYOffset)
		top := clampNeighbourhood(y, subHeight-3)
		for x := 0; x < subWidth; x++ {
			xoffset := min(x<<blockSizePower, maxXOffset)
			left := clampNeighbourhood(x, subWidth-3)
			sum := 0
			for _, blackRow := range blackPoints[top-2 : top+3] {
				for _, bp := range blackRow[left-2 : left+3] {
					sum += bp
				}
			}
			thresholdBlock(luminances, xoffset, yoffset, sum/25, width, matrix)
		}
	}
}

func clampNeighbourhood(value, hi int) int {
	return max(2, min(value, hi))
}

func thresholdBlock(luminances []byte, xoffset, yoffset, threshold, stride int, matrix *bitutil.BitMatrix) {
	for y, offset := 0, yoffset*stride+xoffset; y < blockSize; y, offset = y+1, offset+stride {
		for x := 0; x < blockSize; x++ {
			if int(luminances[offset+x]) <= threshold {
				matrix.Set(xoffset+x, yoffset+y)
			}
		}
	}
}

// calculateBlackPoints estimates one black point per block. Low contrast
// blocks are assumed to be background: they get half their minimum, or the
// neighbours' estimate when that is brighter than the block's minimum.
// contrast reports whether any block exceeded minDynamicRange; without one
// the image is uniform and every threshold would be a guess.
func calculateBlackPoints(luminances []byte, subWidth, subHeight, width, height int) (blackPoints [][]int, contrast bool) {
	maxYOffset := height - blockSize
	maxXOffset := width - blockSize
	blackPoints = make([][]int, subHeight)
	for i := range blackPoints {
		blackPoints[i] = make([]int, subWidth)
	}

	for y := 0; y < subHeight; y++ {
		yoffset := min(y<<blockSizePower, maxYOffset)
		for x := 0; x < subWidth; x++ {
			xoffset := min(x<<blockSizePower, maxXOffset)
			sum, lo, hi := blockStats(luminances, xoffset, yoffset, width)

			average := sum >> (blockSizePower * 2)
			if hi-lo > minDynamicRange {
				contrast = true
			} else {
				average = lo / 2
				if y > 0 && x > 0 {
					neighbours := (blackPoints[y-1][x] + 2*blackPoints[y][x-1] + blackPoints[y-1][x-1]) / 4
					if lo < neighbours {
						average = neighbours
					}
				}
			}
			blackPoints[y][x] = average
		}
	}
	return blackPoints, contrast
}

// blockStats returns the luminance sum, minimum and maximum of one block.
// Once the block is known to have enough contrast only the sum is needed.
func blockStats(luminances []byte, xoffset, yoffset, stride int) (sum, lo, hi int) {
	lo = 0xFF
	offset := yoffset*stride + xoffset
	for yy := 0; yy < blockSize; yy, offset = yy+1, offset+stride {
		if hi-lo > minDynamicRange {
			for _, pixel := range luminances[offset : offset+blockSize] {
				sum += int(pixel)
			}
			continue
		}
		for _, pixel := range luminances[offset : offset+blockSize] {
			p := int(pixel)
			sum += p
			lo = min(lo, p)
			hi = max(hi, p)
		}
	}
	return sum, lo, hi
}
