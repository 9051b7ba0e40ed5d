// Package master provides the usual root node of an audio graph.
package master

import (
	"math"

	"github.com/pipelined/audiograph"
	"github.com/pipelined/audiograph/mixer"
)

const (
	barFreq     = 1760.0
	beatFreq    = 880.0
	clickMillis = 30
)

// Master is the final mix strip with a metronome. It implements
// audiograph.Node and is meant to be the graph root.
type Master struct {
	*mixer.Strip
	onBar  []float32 // click material, interleaved stereo
	offBar []float32
	click  []float32 // material of the click playing right now
	pos    int       // next material frame to play
}

// Option provides a way to set functional parameters to the master.
type Option func(m *Master)

// WithClicks sets the metronome click material, interleaved stereo, the
// first for bar starts, the second for the remaining beats. If this
// option is not provided, clicks are synthesized on first use.
func WithClicks(onBar, offBar []float32) Option {
	return func(m *Master) {
		m.onBar = onBar
		m.offBar = offBar
	}
}

// New returns new master with an empty chain and no active click.
func New(options ...Option) *Master {
	m := &Master{
		Strip: mixer.New(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Process mixes metronome clicks over the routed input, then runs the
// strip, so the master volume shapes the click as well.
func (m *Master) Process(rt *audiograph.RtState, buf []float32, events []audiograph.Event) []audiograph.Event {
	if rt.Playing && rt.Metronome {
		if m.onBar == nil {
			m.onBar = synthClick(rt.SampleRate, barFreq)
			m.offBar = synthClick(rt.SampleRate, beatFreq)
		}
		m.metronome(rt, buf)
	}
	return m.Strip.Process(rt, buf, events)
}

// Reset returns the strip to its initial state and cuts the click.
func (m *Master) Reset() {
	m.Strip.Reset()
	m.click = nil
	m.pos = 0
}

// metronome starts a click on every beat crossed by the quantum and
// plays click material between the starts. Click playback spans quanta.
func (m *Master) metronome(rt *audiograph.RtState, buf []float32) {
	frames := len(buf) / 2
	fb := rt.FramesPerBeat()
	beat := int(math.Ceil(float64(rt.Sample) / fb))
	from := 0
	for {
		bf := int(fb * float64(beat))
		if bf >= rt.Sample+frames {
			break
		}
		off := bf - rt.Sample
		m.playClick(buf, from, off)
		if beat%rt.Numerator == 0 {
			m.click = m.onBar
		} else {
			m.click = m.offBar
		}
		m.pos = 0
		from = off
		beat++
	}
	m.playClick(buf, from, frames)
}

// playClick mixes the active click into output frames [from, to).
func (m *Master) playClick(buf []float32, from, to int) {
	if m.click == nil {
		return
	}
	for f := from; f < to; f++ {
		if m.pos >= len(m.click)/2 {
			m.click = nil
			return
		}
		buf[2*f] += m.click[2*m.pos]
		buf[2*f+1] += m.click[2*m.pos+1]
		m.pos++
	}
}

// synthClick renders a short decaying tone.
func synthClick(sampleRate int, freq float64) []float32 {
	frames := sampleRate * clickMillis / 1000
	buf := make([]float32, 2*frames)
	for i := 0; i < frames; i++ {
		env := 1 - float64(i)/float64(frames)
		v := float32(math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)) * env * env * 0.5)
		buf[2*i] = v
		buf[2*i+1] = v
	}
	return buf
}
