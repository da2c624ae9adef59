// Package codec translates typed messages to and from the fixed-layout
// binary frames shared with the automation client. All multi-byte numerics
// are little-endian. String fields are fixed-width, truncated to width and
// right-padded with zero bytes on encode, zero-trimmed on decode.
//
// Encoding is pure: no I/O, no shared state, safe for concurrent use.
package codec

import (
	"encoding/binary"
	"math"
)

func putString(dst []byte, s string, width int) {
	n := copy(dst[:width], s)
	for i := n; i < width; i++ {
		dst[i] = 0
	}
}

func getString(src []byte, width int) string {
	end := width
	for end > 0 && src[end-1] == 0 {
		end--
	}
	return string(src[:end])
}

func putFloat64(dst []byte, v float64) {
	binary.LittleEndian.PutUint64(dst, math.Float64bits(v))
}

func getFloat64(src []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(src))
}

func putInt32(dst []byte, v int32) {
	binary.LittleEndian.PutUint32(dst, uint32(v))
}

func getInt32(src []byte) int32 {
	return int32(binary.LittleEndian.Uint32(src))
}

func putInt64(dst []byte, v int64) {
	binary.LittleEndian.PutUint64(dst, uint64(v))
}

func getInt64(src []byte) int64 {
	return int64(binary.LittleEndian.Uint64(src))
}

func sized(dst []byte, size int) []byte {
	if cap(dst) < size {
		return make([]byte, size)
	}
	return dst[:size]
}
