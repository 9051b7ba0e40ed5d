// Package mock provides mocks for graph nodes and allows to execute
// integration tests.
package mock

import (
	"github.com/pipelined/audiograph"
)

// Counter counts work done by the mock.
type Counter struct {
	Processed int // Process calls
	Frames    int // frames processed
	Resets    int // Reset calls
}

// advance updates the counter with a processed quantum.
func (c *Counter) advance(frames int) {
	c.Processed++
	c.Frames += frames
}

// Node mocks an audiograph.Node interface. It adds Value to every
// sample and records everything it receives.
type Node struct {
	Counter
	NodeID  audiograph.NodeID // allocated on first use when zero
	Value   float32           // added to every sample
	Latency int
	Relay   bool                 // pass incoming events through
	Emit    []audiograph.Event   // returned from every Process call
	Order   *[]audiograph.NodeID // shared evaluation order recorder

	Inputs   [][]float32          // input sum of every call
	Received [][]audiograph.Event // input events of every call
}

// Process records the received buffer and events, then adds Value to
// every sample.
func (m *Node) Process(rt *audiograph.RtState, buf []float32, events []audiograph.Event) []audiograph.Event {
	m.Inputs = append(m.Inputs, append([]float32(nil), buf...))
	m.Received = append(m.Received, append([]audiograph.Event(nil), events...))
	if m.Order != nil {
		*m.Order = append(*m.Order, m.ID())
	}
	for i := range buf {
		buf[i] += m.Value
	}
	m.advance(len(buf) / 2)
	var out []audiograph.Event
	if m.Relay {
		out = append(out, events...)
	}
	return append(out, m.Emit...)
}

// ID returns the node id, allocating it on first use.
func (m *Node) ID() audiograph.NodeID {
	if m.NodeID == 0 {
		m.NodeID = audiograph.NewNodeID()
	}
	return m.NodeID
}

// Reset counts the call.
func (m *Node) Reset() {
	m.Resets++
}

// Delay reports the configured latency.
func (m *Node) Delay() int {
	return m.Latency
}

// Processor mocks a mixer.Processor interface, scaling and offsetting
// the signal.
type Processor struct {
	Counter
	Gain    float32
	Offset  float32
	Latency int
	Emit    []audiograph.Event
}

// Process transforms every sample to sample*Gain+Offset.
func (m *Processor) Process(buf []float32, events []audiograph.Event) []audiograph.Event {
	for i := range buf {
		buf[i] = buf[i]*m.Gain + m.Offset
	}
	m.advance(len(buf) / 2)
	return append(events, m.Emit...)
}

// Delay reports the configured latency.
func (m *Processor) Delay() int {
	return m.Latency
}

// Reset counts the call.
func (m *Processor) Reset() {
	m.Resets++
}

// Clip mocks a track.Clip interface, filling its timeline range with a
// constant value.
type Clip struct {
	Counter
	From  int
	To    int
	Value float32
}

// Process adds Value to both channels of every frame within the range.
func (m *Clip) Process(rt *audiograph.RtState, buf []float32, events []audiograph.Event) []audiograph.Event {
	m.advance(len(buf) / 2)
	if !rt.Playing {
		return events
	}
	from := rt.Sample
	lo, hi := m.From, m.To
	if lo < from {
		lo = from
	}
	if to := from + len(buf)/2; hi > to {
		hi = to
	}
	for pos := lo; pos < hi; pos++ {
		buf[2*(pos-from)] += m.Value
		buf[2*(pos-from)+1] += m.Value
	}
	return events
}

// Reset counts the call.
func (m *Clip) Reset() {
	m.Resets++
}

// Writer mocks an export.Writer interface, capturing everything written
// to it.
type Writer struct {
	Samples []float32
	Writes  int
	Err     error // returned by every call when set
}

// Write captures the buffer.
func (m *Writer) Write(buf []float32) error {
	if m.Err != nil {
		return m.Err
	}
	m.Samples = append(m.Samples, buf...)
	m.Writes++
	return nil
}
