// Package signal provides an API to manipulate digital signals. It allows to:
//	- operate on interleaved stereo buffers
//	- convert interleaved data to non-interleaved
//	- convert bit depth between float and int signals
package signal

import (
	"math"
	"time"
)

const (
	// BitDepth8 is 8 bit depth.
	BitDepth8 = BitDepth(8)
	// BitDepth16 is 16 bit depth.
	BitDepth16 = BitDepth(16)
	// BitDepth32 is 32 bit depth.
	BitDepth32 = BitDepth(32)
)

// BitDepth contains values required for float-to-int and backward conversion.
type BitDepth int

// devider is used when int to float conversion is done.
func (bitDepth BitDepth) devider() float64 {
	switch bitDepth {
	case BitDepth8:
		return math.MaxInt8
	case BitDepth16:
		return math.MaxInt16
	case BitDepth32:
		return math.MaxInt32
	default:
		return 1
	}
}

// multiplier is used when float to int conversion is done.
func (bitDepth BitDepth) multiplier() float64 {
	switch bitDepth {
	case BitDepth8:
		return math.MaxInt8 - 1
	case BitDepth16:
		return math.MaxInt16 - 1
	case BitDepth32:
		return math.MaxInt32 - 1
	default:
		return 1
	}
}

// DurationOf returns time duration of passed samples for this sample rate.
func DurationOf(sampleRate int, samples int64) time.Duration {
	return time.Duration(float64(samples) / float64(sampleRate) * float64(time.Second))
}

// Zero sets every sample to silence.
func Zero(buf []float32) {
	for i := range buf {
		buf[i] = 0
	}
}

// Mix adds src into dst sample by sample. Slices must have equal length.
func Mix(dst, src []float32) {
	for i := range dst {
		dst[i] += src[i]
	}
}

// Clamp limits every sample to the [-1, 1] range.
func Clamp(buf []float32) {
	for i, v := range buf {
		if v > 1 {
			buf[i] = 1
		} else if v < -1 {
			buf[i] = -1
		}
	}
}

// Peaks returns per-channel peak magnitudes of an interleaved stereo buffer.
func Peaks(buf []float32) (left, right float32) {
	for i := 0; i < len(buf)-1; i += 2 {
		if v := abs(buf[i]); v > left {
			left = v
		}
		if v := abs(buf[i+1]); v > right {
			right = v
		}
	}
	return
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// Interleave merges per-channel float64 slices into an interleaved
// float32 buffer. Number of channels is defined by len(channels).
func Interleave(dst []float32, channels [][]float64) {
	numChannels := len(channels)
	for i := range channels {
		for j, v := range channels[i] {
			dst[j*numChannels+i] = float32(v)
		}
	}
}

// Deinterleave splits an interleaved float32 buffer into per-channel
// float64 slices. Number of channels is defined by len(channels).
func Deinterleave(channels [][]float64, src []float32) {
	numChannels := len(channels)
	for i := range channels {
		for j := range channels[i] {
			channels[i][j] = float64(src[j*numChannels+i])
		}
	}
}

// AsInts converts an interleaved float signal to ints of the provided
// bit depth.
func AsInts(buf []float32, bitDepth BitDepth) []int {
	multiplier := bitDepth.multiplier()
	ints := make([]int, len(buf))
	for i, v := range buf {
		ints[i] = int(float64(v) * multiplier)
	}
	return ints
}

// AsFloats converts an interleaved int signal of the provided bit depth
// to floats.
func AsFloats(data []int, bitDepth BitDepth) []float32 {
	devider := bitDepth.devider()
	floats := make([]float32, len(data))
	for i, v := range data {
		floats[i] = float32(float64(v) / devider)
	}
	return floats
}
