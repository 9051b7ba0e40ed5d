package audiograph

import "sync/atomic"

// NodeID identifies a node for the lifetime of the process. Identifiers
// are never reused and the zero value is never allocated, so it can be
// used as "no node".
type NodeID uint64

// lastNodeID holds the most recently allocated identifier.
var lastNodeID atomic.Uint64

// NewNodeID allocates the next node identifier. Safe for concurrent use.
func NewNodeID() NodeID {
	return NodeID(lastNodeID.Add(1))
}

// Node is a single audio processor within a graph. All methods are
// called by the thread which evaluates the graph.
type Node interface {
	// Process fills buf with the node's output for the current quantum.
	// The buffer arrives with the sum of all connected inputs and must
	// leave with exactly len(buf) samples of interleaved stereo output.
	// Incoming events are passed in events, produced events are appended
	// to it and the resulting slice is returned.
	Process(rt *RtState, buf []float32, events []Event) []Event
	// ID returns the node's identifier.
	ID() NodeID
	// Reset returns the node to its pre-playback state. It is idempotent.
	Reset()
	// Delay reports the node's own latency in frames. It is cheap to
	// call and has no side effects.
	Delay() int
}

// EventKind enumerates note event types.
type EventKind uint8

const (
	// NoteOn starts a note.
	NoteOn EventKind = iota
	// NoteOff releases a note.
	NoteOff
	// AllNotesOff releases all sounding notes.
	AllNotesOff
)

// Event is a timed note message passed between nodes. Time is a frame
// offset within the current quantum.
type Event struct {
	Kind     EventKind
	Time     int
	Channel  uint8
	Key      uint8
	Velocity uint8
}

// WithTime returns a copy of the event re-timed to the provided offset.
func (e Event) WithTime(t int) Event {
	e.Time = t
	return e
}
