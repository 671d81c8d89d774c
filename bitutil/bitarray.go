// Package bitutil provides the packed bit containers produced by binarization.
// A set bit always means a dark (black) sample.
package bitutil

import (
	"math/bits"
	"strings"
)

// BitArray is a simple, fast array of bits represented compactly by an array
// of uint32 values internally. It holds one binarized row.
type BitArray struct {
	bits []uint32
	size int
}

// NewBitArray creates a new BitArray with the given size.
func NewBitArray(size int) *BitArray {
	if size <= 0 {
		return &BitArray{}
	}
	return &BitArray{
		bits: makeArray(size),
		size: size,
	}
}

// Size returns the number of bits in the array.
func (ba *BitArray) Size() int {
	return ba.size
}

// Get returns true if bit i is set.
func (ba *BitArray) Get(i int) bool {
	return (ba.bits[i/32] & (1 << uint(i&0x1F))) != 0
}

// Set sets bit i.
func (ba *BitArray) Set(i int) {
	ba.bits[i/32] |= 1 << uint(i&0x1F)
}

// Flip flips bit i.
func (ba *BitArray) Flip(i int) {
	ba.bits[i/32] ^= 1 << uint(i&0x1F)
}

// SetBulk sets a block of 32 bits starting at bit i, which must be a multiple of 32.
func (ba *BitArray) SetBulk(i int, newBits uint32) {
	ba.bits[i/32] = newBits
}

// SetRange sets a range of bits [start, end).
func (ba *BitArray) SetRange(start, end int) {
	if end < start || start < 0 || end > ba.size {
		panic("bitarray: invalid range")
	}
	if end == start {
		return
	}
	end-- // inclusive from here on
	firstInt := start / 32
	lastInt := end / 32
	for i := firstInt; i <= lastInt; i++ {
		ba.bits[i] |= rangeMask(i, firstInt, lastInt, start, end)
	}
}

// IsRange checks if all bits in [start, end) have the given value.
func (ba *BitArray) IsRange(start, end int, value bool) bool {
	if end < start || start < 0 || end > ba.size {
		panic("bitarray: invalid range")
	}
	if end == start {
		return true
	}
	end--
	firstInt := start / 32
	lastInt := end / 32
	for i := firstInt; i <= lastInt; i++ {
		mask := rangeMask(i, firstInt, lastInt, start, end)
		want := uint32(0)
		if value {
			want = mask
		}
		if ba.bits[i]&mask != want {
			return false
		}
	}
	return true
}

func rangeMask(i, firstInt, lastInt, start, end int) uint32 {
	firstBit := 0
	if i == firstInt {
		firstBit = start & 0x1F
	}
	lastBit := 31
	if i == lastInt {
		lastBit = end & 0x1F
	}
	return uint32((2 << uint(lastBit)) - (1 << uint(firstBit)))
}

// GetNextSet returns the index of the first set bit starting from the given
// index, or size if none are set.
func (ba *BitArray) GetNextSet(from int) int {
	return ba.next(from, 0)
}

// GetNextUnset returns the index of the first unset bit starting from the
// given index, or size if none are unset.
func (ba *BitArray) GetNextUnset(from int) int {
	return ba.next(from, ^uint32(0))
}

func (ba *BitArray) next(from int, invert uint32) int {
	if from >= ba.size {
		return ba.size
	}
	bitsOffset := from / 32
	currentBits := (ba.bits[bitsOffset] ^ invert) & (^uint32(0) << uint(from&0x1F))
	for currentBits == 0 {
		bitsOffset++
		if bitsOffset == len(ba.bits) {
			return ba.size
		}
		currentBits = ba.bits[bitsOffset] ^ invert
	}
	result := bitsOffset*32 + bits.TrailingZeros32(currentBits)
	if result > ba.size {
		return ba.size
	}
	return result
}

// Clear clears all bits.
func (ba *BitArray) Clear() {
	for i := range ba.bits {
		ba.bits[i] = 0
	}
}

// CopyFrom overwrites ba with the contents of src. Both arrays must have the
// same size.
func (ba *BitArray) CopyFrom(src *BitArray) {
	if ba.size != src.size {
		panic("bitarray: sizes don't match")
	}
	copy(ba.bits, src.bits)
}

// Reverse reverses all bits in the array.
func (ba *BitArray) Reverse() {
	if ba.size == 0 {
		return
	}
	newBits := make([]uint32, len(ba.bits))
	ln := (ba.size - 1) / 32
	oldBitsLen := ln + 1
	for i := 0; i < oldBitsLen; i++ {
		newBits[ln-i] = bits.Reverse32(ba.bits[i])
	}
	if ba.size != oldBitsLen*32 {
		leftOffset := uint(oldBitsLen*32 - ba.size)
		currentInt := newBits[0] >> leftOffset
		for i := 1; i < oldBitsLen; i++ {
			nextInt := newBits[i]
			currentInt |= nextInt << (32 - leftOffset)
			newBits[i-1] = currentInt
			currentInt = nextInt >> leftOffset
		}
		newBits[oldBitsLen-1] = currentInt
	}
	ba.bits = newBits
}

// BitData returns the underlying uint32 slice.
func (ba *BitArray) BitData() []uint32 {
	return ba.bits
}

// Clone returns a copy of this BitArray.
func (ba *BitArray) Clone() *BitArray {
	b := make([]uint32, len(ba.bits))
	copy(b, ba.bits)
	return &BitArray{bits: b, size: ba.size}
}

// Equals reports whether both arrays have the same size and the same bits set.
func (ba *BitArray) Equals(other *BitArray) bool {
	if other == nil || ba.size != other.size {
		return false
	}
	for i := 0; i < ba.size; i++ {
		if ba.Get(i) != other.Get(i) {
			return false
		}
	}
	return true
}

// String returns a string representation using 'X' for set and '.' for unset.
func (ba *BitArray) String() string {
	var sb strings.Builder
	sb.Grow(ba.size + ba.size/8 + 1)
	for i := 0; i < ba.size; i++ {
		if i&0x07 == 0 {
			sb.WriteByte(' ')
		}
		if ba.Get(i) {
			sb.WriteByte('X')
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

func makeArray(size int) []uint32 {
	return make([]uint32, (size+31)/32)
}
