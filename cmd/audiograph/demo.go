package main

import (
	"math"

	"github.com/pipelined/audiograph"
	"github.com/pipelined/audiograph/master"
	"github.com/pipelined/audiograph/mixer"
	"github.com/pipelined/audiograph/track"
)

// demo is a small built-in arrangement: a bass line and a chord pad,
// the bass driven through a saturation bus.
type demo struct {
	bass *track.Track
	pad  *track.Track
	bus  *mixer.Strip
	out  *master.Master
}

func newDemo(rate int, bpm float64) *demo {
	fpb := int(float64(rate) * 60 / bpm)

	bass := track.New(mixer.WithVolume(0.8))
	bassMat := tone(rate, 110, fpb/2, 0.7)
	for beat := 0; beat < 16; beat++ {
		bass.AddClip(track.NewAudioClip(bassMat, beat*fpb))
	}

	pad := track.New(mixer.WithVolume(0.5), mixer.WithPan(0.3))
	padMat := chord(rate, []float64{220, 277.18, 329.63}, 4*fpb, 0.35)
	for bar := 0; bar < 4; bar++ {
		pad.AddClip(track.NewAudioClip(padMat, bar*4*fpb))
	}

	bus := mixer.New(mixer.WithVolume(0.9), mixer.WithProcessors(drive{gain: 3}))
	bus.SetMix(0, 0.7)

	return &demo{
		bass: bass,
		pad:  pad,
		bus:  bus,
		out:  master.New(),
	}
}

// graph wires the demo into a fresh graph for offline rendering.
func (d *demo) graph(frames int) (*audiograph.Graph, error) {
	g := audiograph.NewGraph(d.out, frames)
	for _, n := range []audiograph.Node{d.bass, d.pad, d.bus} {
		if err := g.Insert(n); err != nil {
			return nil, err
		}
	}
	if err := g.Connect(d.bass.ID(), d.bus.ID()); err != nil {
		return nil, err
	}
	if err := g.ConnectToRoot(d.bus.ID()); err != nil {
		return nil, err
	}
	if err := g.ConnectToRoot(d.pad.ID()); err != nil {
		return nil, err
	}
	return g, nil
}

// wire queues the demo into a live engine.
func (d *demo) wire(e *audiograph.Engine) error {
	for _, n := range []audiograph.Node{d.bass, d.pad, d.bus} {
		if err := e.Insert(n); err != nil {
			return err
		}
	}
	e.Connect(d.bass.ID(), d.bus.ID())
	e.ConnectToRoot(d.bus.ID())
	e.ConnectToRoot(d.pad.ID())
	return nil
}

// drive is a soft saturation processor.
type drive struct {
	gain float32
}

func (d drive) Process(buf []float32, events []audiograph.Event) []audiograph.Event {
	for i := range buf {
		buf[i] = float32(math.Tanh(float64(buf[i] * d.gain)))
	}
	return events
}

func (drive) Delay() int { return 0 }

func (drive) Reset() {}

// tone renders a fading sine tone as interleaved stereo material.
func tone(rate int, freq float64, frames int, gain float32) []float32 {
	buf := make([]float32, 2*frames)
	for i := 0; i < frames; i++ {
		env := 1 - float64(i)/float64(frames)
		v := float32(math.Sin(2*math.Pi*freq*float64(i)/float64(rate))*env) * gain
		buf[2*i] = v
		buf[2*i+1] = v
	}
	return buf
}

// chord sums tones into one material buffer.
func chord(rate int, freqs []float64, frames int, gain float32) []float32 {
	buf := make([]float32, 2*frames)
	for _, freq := range freqs {
		t := tone(rate, freq, frames, gain)
		for i := range buf {
			buf[i] += t[i]
		}
	}
	return buf
}
