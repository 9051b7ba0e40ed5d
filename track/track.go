// Package track provides a timeline track node for audio graphs.
package track

import (
	"errors"

	"github.com/pipelined/audiograph"
	"github.com/pipelined/audiograph/mixer"
)

// ErrClip is returned if a clip operation refers to a missing clip.
var ErrClip = errors.New("no such clip")

// Clip renders its slice of the timeline into the buffer. The playhead
// position comes from the transport state, clips outside their active
// range leave the buffer untouched.
type Clip interface {
	Process(rt *audiograph.RtState, buf []float32, events []audiograph.Event) []audiograph.Event
}

// Track places clips on the timeline and runs their sum through a
// channel strip. It implements audiograph.Node. Clip edits belong to
// the audio thread, like the strip chain.
type Track struct {
	*mixer.Strip
	clips []Clip
}

// New returns new track with an empty timeline.
func New(options ...mixer.Option) *Track {
	return &Track{
		Strip: mixer.New(options...),
	}
}

// AddClip puts a clip on the timeline.
func (t *Track) AddClip(c Clip) {
	t.clips = append(t.clips, c)
}

// RemoveClip removes the clip at position i.
func (t *Track) RemoveClip(i int) error {
	if i < 0 || i >= len(t.clips) {
		return ErrClip
	}
	t.clips = append(t.clips[:i], t.clips[i+1:]...)
	return nil
}

// Clips returns the number of placed clips.
func (t *Track) Clips() int {
	return len(t.clips)
}

// Process renders all clips over the routed input and runs the strip
// over the sum.
func (t *Track) Process(rt *audiograph.RtState, buf []float32, events []audiograph.Event) []audiograph.Event {
	for _, c := range t.clips {
		events = c.Process(rt, buf, events)
	}
	return t.Strip.Process(rt, buf, events)
}

// Reset returns the strip and all resettable clips to their initial
// state.
func (t *Track) Reset() {
	t.Strip.Reset()
	for _, c := range t.clips {
		if r, ok := c.(interface{ Reset() }); ok {
			r.Reset()
		}
	}
}

// AudioClip plays prerecorded interleaved stereo material at a fixed
// timeline position.
type AudioClip struct {
	data   []float32
	at     int // timeline frame where playback starts
	offset int // first frame of data to play
	length int // frames to play
}

// AudioClipOption provides a way to set functional parameters to the
// clip.
type AudioClipOption func(c *AudioClip)

// WithOffset skips the first frames of the clip material.
func WithOffset(frames int) AudioClipOption {
	return func(c *AudioClip) {
		c.offset = frames
	}
}

// WithLength limits how many frames of the clip material are played.
func WithLength(frames int) AudioClipOption {
	return func(c *AudioClip) {
		c.length = frames
	}
}

// NewAudioClip places data on the timeline at the provided frame. By
// default the whole material is played.
func NewAudioClip(data []float32, at int, options ...AudioClipOption) *AudioClip {
	c := &AudioClip{
		data: data,
		at:   at,
	}
	for _, option := range options {
		option(c)
	}
	frames := len(data) / 2
	if c.offset > frames {
		c.offset = frames
	}
	if c.length == 0 || c.offset+c.length > frames {
		c.length = frames - c.offset
	}
	return c
}

// End returns the first timeline frame after the clip.
func (c *AudioClip) End() int {
	return c.at + c.length
}

// Process mixes the active slice of the material into the buffer.
func (c *AudioClip) Process(rt *audiograph.RtState, buf []float32, events []audiograph.Event) []audiograph.Event {
	if !rt.Playing {
		return events
	}
	from := rt.Sample
	lo, hi := c.at, c.End()
	if lo < from {
		lo = from
	}
	if to := from + len(buf)/2; hi > to {
		hi = to
	}
	for pos := lo; pos < hi; pos++ {
		src := 2 * (pos - c.at + c.offset)
		dst := 2 * (pos - from)
		buf[dst] += c.data[src]
		buf[dst+1] += c.data[src+1]
	}
	return events
}

// Note is a single note placed on the timeline, position and duration
// in frames.
type Note struct {
	Key      uint8
	Velocity uint8
	Channel  uint8
	At       int
	Length   int
}

// End returns the first timeline frame after the note.
func (n Note) End() int {
	return n.At + n.Length
}

// NoteClip emits note events for notes placed on the timeline. When
// playback stops while notes are sounding, a single AllNotesOff is
// emitted.
type NoteClip struct {
	notes    []Note
	sounding bool
}

// NewNoteClip creates a clip emitting the provided notes.
func NewNoteClip(notes ...Note) *NoteClip {
	return &NoteClip{notes: notes}
}

// Process emits events for notes starting or ending in this quantum.
func (c *NoteClip) Process(rt *audiograph.RtState, buf []float32, events []audiograph.Event) []audiograph.Event {
	if !rt.Playing {
		if c.sounding {
			c.sounding = false
			events = append(events, audiograph.Event{Kind: audiograph.AllNotesOff})
		}
		return events
	}
	from, to := rt.Sample, rt.Sample+len(buf)/2
	for _, n := range c.notes {
		if n.At >= from && n.At < to {
			events = append(events, audiograph.Event{
				Kind:     audiograph.NoteOn,
				Time:     n.At - from,
				Channel:  n.Channel,
				Key:      n.Key,
				Velocity: n.Velocity,
			})
			c.sounding = true
		}
		if end := n.End(); end >= from && end < to {
			events = append(events, audiograph.Event{
				Kind:    audiograph.NoteOff,
				Time:    end - from,
				Channel: n.Channel,
				Key:     n.Key,
			})
		}
	}
	return events
}

// Reset drops the sounding state.
func (c *NoteClip) Reset() {
	c.sounding = false
}
