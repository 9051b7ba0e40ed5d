package signal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pipelined/audiograph/signal"
)

func TestZero(t *testing.T) {
	buf := []float32{1, -1, 0.5}
	signal.Zero(buf)
	assert.Equal(t, []float32{0, 0, 0}, buf)
}

func TestMix(t *testing.T) {
	dst := []float32{0.5, 0.25, -0.5, 0}
	signal.Mix(dst, []float32{0.25, 0.5, -0.25, 0})
	assert.Equal(t, []float32{0.75, 0.75, -0.75, 0}, dst)
}

func TestClamp(t *testing.T) {
	buf := []float32{1.5, -2, 0.5, 1, -1}
	signal.Clamp(buf)
	assert.Equal(t, []float32{1, -1, 0.5, 1, -1}, buf)
}

func TestPeaks(t *testing.T) {
	left, right := signal.Peaks([]float32{0.1, -0.9, -0.5, 0.2})
	assert.Equal(t, float32(0.5), left)
	assert.Equal(t, float32(0.9), right)

	left, right = signal.Peaks(nil)
	assert.Equal(t, float32(0), left)
	assert.Equal(t, float32(0), right)
}

func TestInterleave(t *testing.T) {
	dst := make([]float32, 4)
	signal.Interleave(dst, [][]float64{{1, 2}, {3, 4}})
	assert.Equal(t, []float32{1, 3, 2, 4}, dst)

	channels := [][]float64{make([]float64, 2), make([]float64, 2)}
	signal.Deinterleave(channels, dst)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, channels)
}

func TestConversions(t *testing.T) {
	floats := []float32{0, 0.5, -0.5, 1, -1}
	ints := signal.AsInts(floats, signal.BitDepth16)
	assert.Equal(t, []int{0, 16383, -16383, 32766, -32766}, ints)

	back := signal.AsFloats(ints, signal.BitDepth16)
	for i := range back {
		assert.InDelta(t, floats[i], back[i], 1e-4)
	}

	// unknown depth leaves the scale untouched
	assert.Equal(t, []int{1}, signal.AsInts([]float32{1}, signal.BitDepth(24)))
}

func TestDurationOf(t *testing.T) {
	assert.Equal(t, time.Second, signal.DurationOf(44100, 44100))
	assert.Equal(t, 500*time.Millisecond, signal.DurationOf(44100, 22050))
}
