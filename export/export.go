// Package export renders audio graphs offline.
package export

import (
	"fmt"

	"github.com/pipelined/audiograph"
)

// Writer consumes rendered audio, one quantum at a time.
type Writer interface {
	Write(buf []float32) error
}

// Option provides a way to set functional parameters to the export.
type Option func(c *config)

type config struct {
	progress func(completed float64)
}

// WithProgress sets a callback invoked after every written quantum with
// the completed fraction in (0, 1].
func WithProgress(progress func(completed float64)) Option {
	return func(c *config) {
		c.progress = progress
	}
}

// Export renders length frames of the graph into w through the same
// evaluation path live playback uses. The graph is reset first and the
// playhead starts at zero with the metronome off. The graph latency is
// consumed before the first write, so the output starts with the first
// frame of the timeline and holds exactly the requested length.
func Export(g *audiograph.Graph, rt audiograph.RtState, length int, w Writer, options ...Option) error {
	var c config
	for _, option := range options {
		option(&c)
	}
	rt.Playing = true
	rt.Metronome = false
	rt.Sample = 0
	rt.Loop = nil
	rt.Frames = g.Frames()
	g.Reset()

	buf := make([]float32, 2*g.Frames())
	// run the graph through its own latency so the first written frame
	// is the first frame of the timeline
	for delay := g.Delay(); rt.Sample < delay; {
		n := delay - rt.Sample
		if n > g.Frames() {
			n = g.Frames()
		}
		g.Process(&rt, buf[:2*n])
		rt.Sample += n
	}
	for written := 0; written < length; {
		n := length - written
		if n > g.Frames() {
			n = g.Frames()
		}
		g.Process(&rt, buf[:2*n])
		rt.Sample += n
		written += n
		if err := w.Write(buf[:2*n]); err != nil {
			return fmt.Errorf("export write: %w", err)
		}
		if c.progress != nil {
			c.progress(float64(written) / float64(length))
		}
	}
	return nil
}
