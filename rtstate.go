package audiograph

// Region is a half-open section of the timeline, in frames.
type Region struct {
	Start int
	End   int
}

// Len returns the region length in frames.
func (r Region) Len() int {
	return r.End - r.Start
}

// Contains reports whether the frame position lies within the region.
func (r Region) Contains(sample int) bool {
	return sample >= r.Start && sample < r.End
}

// RtState carries the transport state of a single processing quantum.
// It is owned by the engine, nodes must treat it as read-only.
type RtState struct {
	// SampleRate is the stream sample rate in Hz.
	SampleRate int
	// Frames is the maximum number of frames per quantum. A single
	// Process call may cover fewer frames, never more.
	Frames int
	// BPM is the tempo in beats per minute.
	BPM float64
	// Numerator is the number of beats per bar.
	Numerator int
	// Playing reports whether the playhead advances.
	Playing bool
	// Metronome reports whether click playback is requested.
	Metronome bool
	// Sample is the playhead position in frames.
	Sample int
	// Loop is the looped region, nil when looping is off.
	Loop *Region
}

// FramesPerBeat returns the length of one beat in frames.
func (rt *RtState) FramesPerBeat() float64 {
	return float64(rt.SampleRate) * 60.0 / rt.BPM
}

// BeatsToFrames converts a musical length in beats to frames.
func (rt *RtState) BeatsToFrames(beats float64) int {
	return int(beats * rt.FramesPerBeat())
}
