package track_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pipelined/audiograph"
	"github.com/pipelined/audiograph/mixer"
	"github.com/pipelined/audiograph/mock"
	"github.com/pipelined/audiograph/track"
)

func newRt(sample int, playing bool) *audiograph.RtState {
	return &audiograph.RtState{
		SampleRate: 44100,
		Frames:     4,
		BPM:        120,
		Numerator:  4,
		Playing:    playing,
		Sample:     sample,
	}
}

func TestAudioClip(t *testing.T) {
	material := []float32{1, -1, 2, -2, 3, -3, 4, -4}

	tests := []struct {
		description string
		clip        *track.AudioClip
		sample      int
		playing     bool
		expected    []float32
	}{
		{
			description: "silence before the clip",
			clip:        track.NewAudioClip(material, 10),
			sample:      2,
			playing:     true,
			expected:    []float32{0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			description: "clip starts mid quantum",
			clip:        track.NewAudioClip(material, 10),
			sample:      8,
			playing:     true,
			expected:    []float32{0, 0, 0, 0, 1, -1, 2, -2},
		},
		{
			description: "quantum covers the whole clip",
			clip:        track.NewAudioClip(material, 10),
			sample:      10,
			playing:     true,
			expected:    []float32{1, -1, 2, -2, 3, -3, 4, -4},
		},
		{
			description: "clip ends mid quantum",
			clip:        track.NewAudioClip(material, 10),
			sample:      12,
			playing:     true,
			expected:    []float32{3, -3, 4, -4, 0, 0, 0, 0},
		},
		{
			description: "silence after the clip",
			clip:        track.NewAudioClip(material, 10),
			sample:      14,
			playing:     true,
			expected:    []float32{0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			description: "paused transport leaves the buffer untouched",
			clip:        track.NewAudioClip(material, 10),
			sample:      10,
			playing:     false,
			expected:    []float32{0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			description: "offset skips material frames",
			clip:        track.NewAudioClip(material, 10, track.WithOffset(1)),
			sample:      10,
			playing:     true,
			expected:    []float32{2, -2, 3, -3, 4, -4, 0, 0},
		},
		{
			description: "length limits material frames",
			clip:        track.NewAudioClip(material, 10, track.WithLength(2)),
			sample:      10,
			playing:     true,
			expected:    []float32{1, -1, 2, -2, 0, 0, 0, 0},
		},
		{
			description: "offset beyond the material plays nothing",
			clip:        track.NewAudioClip(material, 10, track.WithOffset(10)),
			sample:      10,
			playing:     true,
			expected:    []float32{0, 0, 0, 0, 0, 0, 0, 0},
		},
	}

	for _, test := range tests {
		t.Log(test.description)
		buf := make([]float32, 8)
		test.clip.Process(newRt(test.sample, test.playing), buf, nil)
		assert.Equal(t, test.expected, buf)
	}
}

func TestAudioClipEnd(t *testing.T) {
	material := make([]float32, 8)
	assert.Equal(t, 14, track.NewAudioClip(material, 10).End())
	assert.Equal(t, 12, track.NewAudioClip(material, 10, track.WithLength(2)).End())
	assert.Equal(t, 13, track.NewAudioClip(material, 10, track.WithOffset(1)).End())
}

func TestNoteClip(t *testing.T) {
	c := track.NewNoteClip(
		track.Note{Key: 60, Velocity: 100, At: 3, Length: 10},
		track.Note{Key: 64, Velocity: 90, Channel: 1, At: 20, Length: 4},
	)
	buf := make([]float32, 16)
	process := func(sample int, playing bool) []audiograph.Event {
		rt := newRt(sample, playing)
		rt.Frames = 8
		return c.Process(rt, buf, nil)
	}

	assert.Equal(t, []audiograph.Event{
		{Kind: audiograph.NoteOn, Time: 3, Key: 60, Velocity: 100},
	}, process(0, true))
	assert.Equal(t, []audiograph.Event{
		{Kind: audiograph.NoteOff, Time: 5, Key: 60},
	}, process(8, true))
	assert.Equal(t, []audiograph.Event{
		{Kind: audiograph.NoteOn, Time: 4, Channel: 1, Key: 64, Velocity: 90},
	}, process(16, true))
	assert.Equal(t, []audiograph.Event{
		{Kind: audiograph.NoteOff, Time: 0, Channel: 1, Key: 64},
	}, process(24, true))

	// stopping while notes sounded emits a single all notes off
	assert.Equal(t, []audiograph.Event{
		{Kind: audiograph.AllNotesOff},
	}, process(32, false))
	assert.Empty(t, process(32, false))

	// reset drops the sounding state
	process(0, true)
	c.Reset()
	assert.Empty(t, process(8, false))
}

func TestTrack(t *testing.T) {
	tr := track.New(mixer.WithVolume(0.5))
	c1 := &mock.Clip{From: 0, To: 100, Value: 0.5}
	c2 := &mock.Clip{From: 0, To: 100, Value: 0.25}
	tr.AddClip(c1)
	tr.AddClip(c2)
	assert.Equal(t, 2, tr.Clips())

	buf := make([]float32, 8)
	out := tr.Process(newRt(0, true), buf, []audiograph.Event{{Kind: audiograph.NoteOn}})
	// clips sum to 0.75, track volume halves it
	for i := range buf {
		assert.Equal(t, float32(0.375), buf[i])
	}
	assert.Equal(t, []audiograph.Event{{Kind: audiograph.NoteOn}}, out)

	// paused transport keeps the timeline silent
	buf = make([]float32, 8)
	tr.Process(newRt(0, false), buf, nil)
	for i := range buf {
		assert.Equal(t, float32(0), buf[i])
	}

	tr.Reset()
	assert.Equal(t, 1, c1.Resets)
	assert.Equal(t, 1, c2.Resets)

	assert.Nil(t, tr.RemoveClip(0))
	assert.Equal(t, 1, tr.Clips())
	assert.ErrorIs(t, tr.RemoveClip(1), track.ErrClip)
	assert.ErrorIs(t, tr.RemoveClip(-1), track.ErrClip)
}

func TestTrackDelay(t *testing.T) {
	tr := track.New(mixer.WithProcessors(&mock.Processor{Gain: 1, Latency: 5}))
	assert.Equal(t, 5, tr.Delay())
}
