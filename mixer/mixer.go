// Package mixer provides a channel strip node for audio graphs.
package mixer

import (
	"errors"
	"math"
	"sync/atomic"

	"github.com/pipelined/audiograph"
	"github.com/pipelined/audiograph/signal"
)

// ErrSlot is returned if a chain operation refers to a missing slot.
var ErrSlot = errors.New("no such slot")

// Processor manipulates one quantum of interleaved stereo signal in
// place. Implementations are mounted into strip slots.
type Processor interface {
	// Process transforms the buffer. Incoming events are passed in
	// events, produced events are appended to it and the resulting
	// slice is returned.
	Process(buf []float32, events []audiograph.Event) []audiograph.Event
	// Delay reports the processor latency in frames.
	Delay() int
	// Reset returns the processor to its initial state.
	Reset()
}

type (
	// Strip is a channel strip: an ordered processor chain followed by
	// constant power panning and volume. It implements audiograph.Node.
	//
	// Volume, pan, enabled state and peak levels are atomic, they can be
	// read and written from any thread. The processor chain belongs to
	// the audio thread: chain edits either happen before the strip is
	// inserted into a live graph or go through engine Apply commands.
	Strip struct {
		id      audiograph.NodeID
		volume  atomicFloat32
		pan     atomicFloat32
		enabled atomic.Bool
		peakL   atomicFloat32
		peakR   atomicFloat32

		slots []slot
		dry   []float32 // scratch for wet/dry blending
		meter func(id audiograph.NodeID, left, right float32)
	}

	// slot is a chain position with its own wet/dry balance.
	slot struct {
		proc    Processor
		mix     float32
		enabled bool
	}
)

// Option provides a way to set functional parameters to the strip.
type Option func(s *Strip)

// WithVolume sets the initial volume.
func WithVolume(volume float32) Option {
	return func(s *Strip) {
		s.volume.Store(volume)
	}
}

// WithPan sets the initial pan position in [-1, 1].
func WithPan(pan float32) Option {
	return func(s *Strip) {
		s.pan.Store(pan)
	}
}

// WithProcessors mounts processors into the chain, fully wet and
// enabled.
func WithProcessors(processors ...Processor) Option {
	return func(s *Strip) {
		for _, p := range processors {
			s.AddProcessor(p)
		}
	}
}

// WithMeter sets the function the strip reports peak levels to.
func WithMeter(meter func(id audiograph.NodeID, left, right float32)) Option {
	return func(s *Strip) {
		s.meter = meter
	}
}

// New returns new strip with unity volume, center pan and an empty
// chain.
func New(options ...Option) *Strip {
	s := &Strip{
		id: audiograph.NewNodeID(),
	}
	s.volume.Store(1)
	s.enabled.Store(true)
	for _, option := range options {
		option(s)
	}
	return s
}

// ID returns the node id.
func (s *Strip) ID() audiograph.NodeID {
	return s.id
}

// Volume returns the current volume.
func (s *Strip) Volume() float32 {
	return s.volume.Load()
}

// SetVolume sets the volume.
func (s *Strip) SetVolume(volume float32) {
	s.volume.Store(volume)
}

// Pan returns the current pan position.
func (s *Strip) Pan() float32 {
	return s.pan.Load()
}

// SetPan sets the pan position in [-1, 1].
func (s *Strip) SetPan(pan float32) {
	s.pan.Store(pan)
}

// Enabled reports whether the strip produces signal.
func (s *Strip) Enabled() bool {
	return s.enabled.Load()
}

// SetEnabled mutes or unmutes the strip.
func (s *Strip) SetEnabled(enabled bool) {
	s.enabled.Store(enabled)
}

// Peaks returns the peak magnitudes observed since the last reset.
func (s *Strip) Peaks() (left, right float32) {
	return s.peakL.Load(), s.peakR.Load()
}

// SetMeter sets the function the strip reports peak levels to. It must
// be called before the strip joins a live graph.
func (s *Strip) SetMeter(meter func(id audiograph.NodeID, left, right float32)) {
	s.meter = meter
}

// AddProcessor appends a processor to the chain, fully wet and enabled.
func (s *Strip) AddProcessor(p Processor) {
	s.slots = append(s.slots, slot{proc: p, mix: 1, enabled: true})
}

// RemoveProcessor removes the chain slot at position i.
func (s *Strip) RemoveProcessor(i int) error {
	if i < 0 || i >= len(s.slots) {
		return ErrSlot
	}
	s.slots = append(s.slots[:i], s.slots[i+1:]...)
	return nil
}

// MoveProcessor moves the chain slot from one position to another.
func (s *Strip) MoveProcessor(from, to int) error {
	if from < 0 || from >= len(s.slots) || to < 0 || to >= len(s.slots) {
		return ErrSlot
	}
	moved := s.slots[from]
	s.slots = append(s.slots[:from], s.slots[from+1:]...)
	s.slots = append(s.slots[:to], append([]slot{moved}, s.slots[to:]...)...)
	return nil
}

// SetMix sets the wet/dry balance of the chain slot at position i,
// 0 is fully dry, 1 is fully wet.
func (s *Strip) SetMix(i int, mix float32) error {
	if i < 0 || i >= len(s.slots) {
		return ErrSlot
	}
	s.slots[i].mix = mix
	return nil
}

// SetSlotEnabled bypasses or engages the chain slot at position i.
func (s *Strip) SetSlotEnabled(i int, enabled bool) error {
	if i < 0 || i >= len(s.slots) {
		return ErrSlot
	}
	s.slots[i].enabled = enabled
	return nil
}

// Slots returns the chain length.
func (s *Strip) Slots() int {
	return len(s.slots)
}

// Process runs the chain over the buffer, then applies pan and volume.
// A muted strip produces silence and consumes all events.
func (s *Strip) Process(rt *audiograph.RtState, buf []float32, events []audiograph.Event) []audiograph.Event {
	if !s.Enabled() {
		signal.Zero(buf)
		return events[:0]
	}
	for i := range s.slots {
		events = s.processSlot(&s.slots[i], buf, events)
	}

	angle := float64(s.Pan()+1) * math.Pi / 4
	volume := s.Volume()
	left := float32(math.Cos(angle)*math.Sqrt2) * volume
	right := float32(math.Sin(angle)*math.Sqrt2) * volume
	for i := 0; i < len(buf)-1; i += 2 {
		buf[i] *= left
		buf[i+1] *= right
	}

	l, r := signal.Peaks(buf)
	if l > s.peakL.Load() {
		s.peakL.Store(l)
	}
	if r > s.peakR.Load() {
		s.peakR.Store(r)
	}
	if s.meter != nil {
		s.meter(s.id, l, r)
	}
	return events
}

func (s *Strip) processSlot(sl *slot, buf []float32, events []audiograph.Event) []audiograph.Event {
	if !sl.enabled {
		return events
	}
	if sl.mix >= 1 {
		return sl.proc.Process(buf, events)
	}
	if cap(s.dry) < len(buf) {
		s.dry = make([]float32, len(buf))
	}
	dry := s.dry[:len(buf)]
	copy(dry, buf)
	events = sl.proc.Process(buf, events)
	wet := sl.mix
	for i := range buf {
		buf[i] = dry[i]*(1-wet) + buf[i]*wet
	}
	return events
}

// Reset returns chain processors to their initial state and clears the
// peak levels.
func (s *Strip) Reset() {
	for i := range s.slots {
		s.slots[i].proc.Reset()
	}
	s.peakL.Store(0)
	s.peakR.Store(0)
}

// Delay reports the accumulated latency of engaged chain slots.
func (s *Strip) Delay() int {
	var delay int
	for i := range s.slots {
		if s.slots[i].enabled {
			delay += s.slots[i].proc.Delay()
		}
	}
	return delay
}

// float32 value with atomic load and store.
type atomicFloat32 struct {
	bits atomic.Uint32
}

func (f *atomicFloat32) Store(v float32) {
	f.bits.Store(math.Float32bits(v))
}

func (f *atomicFloat32) Load() float32 {
	return math.Float32frombits(f.bits.Load())
}
