package audiograph

import (
	"fmt"
	"sort"

	"github.com/pipelined/audiograph/signal"
)

type (
	// Graph owns nodes and their connections and evaluates them in
	// dependency order. It is not safe for concurrent use: all methods
	// must be called by the thread which currently owns the graph,
	// either the engine or the export driver.
	Graph struct {
		frames  int
		root    NodeID
		entries map[NodeID]*entry
		order   []NodeID // valid when not dirty
		dirty   bool
	}

	// entry caches the node output for the current quantum, so a node is
	// evaluated exactly once regardless of how many consumers it has.
	entry struct {
		node    Node
		sources []*source // ordered by producer id
		audio   []float32 // output of the last evaluation
		buf     []float32 // working buffer, swapped with audio
		in      []Event   // events gathered from sources
		events  []Event   // events produced by the last evaluation
		delay   int       // effective delay, valid when not dirty
	}

	// source is an incoming connection. It pads the producer signal so
	// that every path into the consumer carries equal latency.
	source struct {
		from    NodeID
		line    *delayLine // nil when no padding is needed
		buf     []float32  // scratch for the padded signal
		pending []Event    // events pushed past the current quantum
	}
)

// NewGraph creates a graph around the root node. The root is the single
// output of the graph and cannot be removed. frames is the maximum
// quantum length.
func NewGraph(root Node, frames int) *Graph {
	g := &Graph{
		frames:  frames,
		root:    root.ID(),
		entries: make(map[NodeID]*entry),
	}
	g.add(root)
	return g
}

// Frames returns the maximum quantum length in frames.
func (g *Graph) Frames() int {
	return g.frames
}

// Root returns the root node id.
func (g *Graph) Root() NodeID {
	return g.root
}

// Node returns a node by id.
func (g *Graph) Node(id NodeID) (Node, bool) {
	e, ok := g.entries[id]
	if !ok {
		return nil, false
	}
	return e.node, true
}

// Delay returns the total graph latency in frames, which is the
// effective delay of the root.
func (g *Graph) Delay() int {
	if g.dirty {
		g.schedule()
	}
	return g.entries[g.root].delay
}

func (g *Graph) add(n Node) {
	g.entries[n.ID()] = &entry{
		node:  n,
		audio: make([]float32, 2*g.frames),
		buf:   make([]float32, 2*g.frames),
	}
	g.dirty = true
}

// Insert adds a node without connections.
func (g *Graph) Insert(n Node) error {
	if _, ok := g.entries[n.ID()]; ok {
		return fmt.Errorf("insert node %v: %w", n.ID(), ErrNodeExists)
	}
	g.add(n)
	return nil
}

// Remove deletes a node together with all its connections. Consumers of
// the removed node lose its contribution and keep playing.
func (g *Graph) Remove(id NodeID) error {
	if id == g.root {
		return fmt.Errorf("remove node %v: %w", id, ErrRemoveRoot)
	}
	if _, ok := g.entries[id]; !ok {
		return fmt.Errorf("remove node %v: %w", id, ErrNodeNotFound)
	}
	delete(g.entries, id)
	for _, e := range g.entries {
		for i, s := range e.sources {
			if s.from == id {
				e.sources = append(e.sources[:i], e.sources[i+1:]...)
				break
			}
		}
	}
	g.dirty = true
	return nil
}

// Connect routes the output of from into to. The connection is rejected
// if it would make the graph cyclic, leaving the topology untouched.
func (g *Graph) Connect(from, to NodeID) error {
	if _, ok := g.entries[from]; !ok {
		return fmt.Errorf("connect node %v: %w", from, ErrNodeNotFound)
	}
	dst, ok := g.entries[to]
	if !ok {
		return fmt.Errorf("connect node %v: %w", to, ErrNodeNotFound)
	}
	for _, s := range dst.sources {
		if s.from == from {
			return fmt.Errorf("connect %v to %v: %w", from, to, ErrEdgeExists)
		}
	}
	if g.reaches(from, to) {
		return fmt.Errorf("connect %v to %v: %w", from, to, ErrCycle)
	}
	dst.addSource(from)
	g.dirty = true
	return nil
}

// Disconnect removes the connection between from and to.
func (g *Graph) Disconnect(from, to NodeID) error {
	dst, ok := g.entries[to]
	if !ok {
		return fmt.Errorf("disconnect node %v: %w", to, ErrNodeNotFound)
	}
	for i, s := range dst.sources {
		if s.from == from {
			dst.sources = append(dst.sources[:i], dst.sources[i+1:]...)
			g.dirty = true
			return nil
		}
	}
	return fmt.Errorf("disconnect %v from %v: %w", from, to, ErrEdgeNotFound)
}

// ConnectToRoot routes the node output into the graph root.
func (g *Graph) ConnectToRoot(id NodeID) error {
	return g.Connect(id, g.root)
}

// DisconnectFromRoot removes the connection between the node and the
// graph root.
func (g *Graph) DisconnectFromRoot(id NodeID) error {
	return g.Disconnect(id, g.root)
}

// reaches reports whether target can be reached from start by walking
// dependency edges.
func (g *Graph) reaches(start, target NodeID) bool {
	if start == target {
		return true
	}
	seen := map[NodeID]bool{start: true}
	stack := []NodeID{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, s := range g.entries[id].sources {
			if s.from == target {
				return true
			}
			if !seen[s.from] {
				seen[s.from] = true
				stack = append(stack, s.from)
			}
		}
	}
	return false
}

// Reset returns every node to its initial state and drops all buffered
// signal. Nodes are visited in id order.
func (g *Graph) Reset() {
	for _, id := range g.ids() {
		e := g.entries[id]
		e.node.Reset()
		signal.Zero(e.audio)
		signal.Zero(e.buf)
		e.in = e.in[:0]
		e.events = nil
		for _, s := range e.sources {
			if s.line != nil {
				s.line.reset()
			}
			s.pending = s.pending[:0]
		}
	}
}

func (g *Graph) ids() []NodeID {
	ids := make([]NodeID, 0, len(g.entries))
	for id := range g.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Process evaluates one quantum of audio into out. The buffer length
// must be even and at most twice the graph frames, shorter buffers are
// processed as a partial quantum.
func (g *Graph) Process(rt *RtState, out []float32) {
	if g.dirty {
		g.schedule()
	}
	n := len(out)
	for _, id := range g.order {
		e := g.entries[id]
		buf := e.buf[:n]
		signal.Zero(buf)
		e.in = e.in[:0]
		for _, s := range e.sources {
			from := g.entries[s.from]
			e.in = s.gather(buf, from.audio[:n], from.events, e.in)
		}
		e.events = e.node.Process(rt, buf, e.in)
		e.audio, e.buf = e.buf, e.audio
	}
	copy(out, g.entries[g.root].audio[:n])
	signal.Clamp(out)
}

// schedule recomputes the evaluation order, the effective delays and
// the padding of every connection. Ties in the order are broken towards
// the lower node id, which keeps the order stable between recomputes.
func (g *Graph) schedule() {
	indegree := make(map[NodeID]int, len(g.entries))
	for id, e := range g.entries {
		indegree[id] = len(e.sources)
	}
	g.order = g.order[:0]
	for len(g.order) < len(g.entries) {
		next := NodeID(0)
		for id, deps := range indegree {
			if deps != 0 {
				continue
			}
			if next == 0 || id < next {
				next = id
			}
		}
		g.order = append(g.order, next)
		delete(indegree, next)
		for id, e := range g.entries {
			for _, s := range e.sources {
				if s.from == next {
					indegree[id]--
				}
			}
		}
	}
	// longest dependency path defines the effective delay, faster
	// connections are padded up to it
	for _, id := range g.order {
		e := g.entries[id]
		max := 0
		for _, s := range e.sources {
			if d := g.entries[s.from].delay; d > max {
				max = d
			}
		}
		for _, s := range e.sources {
			s.pad(2*(max-g.entries[s.from].delay), 2*g.frames)
		}
		e.delay = max + e.node.Delay()
	}
	g.dirty = false
}

// addSource inserts a connection keeping sources ordered by producer
// id. The order fixes the summation sequence, so repeated evaluations
// of the same graph produce identical output.
func (e *entry) addSource(from NodeID) {
	i := sort.Search(len(e.sources), func(i int) bool { return e.sources[i].from > from })
	e.sources = append(e.sources, nil)
	copy(e.sources[i+1:], e.sources[i:])
	e.sources[i] = &source{from: from}
}

// pad resizes the delay line to the provided number of samples. Signal
// buffered for a different padding is dropped.
func (s *source) pad(samples, scratch int) {
	switch {
	case samples == 0:
		if s.line != nil {
			s.line = nil
			s.pending = s.pending[:0]
		}
	case s.line == nil || s.line.samples() != samples:
		s.line = newDelayLine(samples)
		if s.buf == nil {
			s.buf = make([]float32, scratch)
		}
		s.pending = s.pending[:0]
	}
}

// gather mixes the producer output into dst delayed by the connection
// padding and relays the producer events into in. Events which the
// padding pushes beyond this quantum are kept until their time comes.
func (s *source) gather(dst, audio []float32, events []Event, in []Event) []Event {
	if s.line == nil {
		signal.Mix(dst, audio)
		return append(in, events...)
	}
	buf := s.buf[:len(audio)]
	copy(buf, audio)
	s.line.process(buf)
	signal.Mix(dst, buf)

	pad := s.line.samples() / 2
	for _, e := range events {
		s.pending = append(s.pending, e.WithTime(e.Time+pad))
	}
	frames := len(audio) / 2
	kept := s.pending[:0]
	for _, e := range s.pending {
		if e.Time < frames {
			in = append(in, e)
		} else {
			kept = append(kept, e.WithTime(e.Time-frames))
		}
	}
	s.pending = kept
	return in
}
