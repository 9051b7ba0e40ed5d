package audiograph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pipelined/audiograph"
	"github.com/pipelined/audiograph/mock"
)

const frames = 8

func newRt() *audiograph.RtState {
	return &audiograph.RtState{
		SampleRate: 44100,
		Frames:     frames,
		BPM:        120,
		Numerator:  4,
	}
}

func TestConnect(t *testing.T) {
	root := &mock.Node{}
	g := audiograph.NewGraph(root, frames)
	assert.Equal(t, frames, g.Frames())
	assert.Equal(t, root.ID(), g.Root())

	a := &mock.Node{Value: 0.25}
	b := &mock.Node{Value: 0.25}
	assert.Nil(t, g.Insert(a))
	assert.Nil(t, g.Insert(b))
	assert.ErrorIs(t, g.Insert(a), audiograph.ErrNodeExists)

	assert.Nil(t, g.Connect(a.ID(), b.ID()))
	assert.Nil(t, g.ConnectToRoot(b.ID()))

	// duplicate edge
	assert.ErrorIs(t, g.Connect(a.ID(), b.ID()), audiograph.ErrEdgeExists)
	// cycle back to the producer
	assert.ErrorIs(t, g.Connect(b.ID(), a.ID()), audiograph.ErrCycle)
	// self loop
	assert.ErrorIs(t, g.Connect(a.ID(), a.ID()), audiograph.ErrCycle)
	// unknown nodes
	assert.ErrorIs(t, g.Connect(audiograph.NewNodeID(), b.ID()), audiograph.ErrNodeNotFound)
	assert.ErrorIs(t, g.Connect(a.ID(), audiograph.NewNodeID()), audiograph.ErrNodeNotFound)
	assert.ErrorIs(t, g.Disconnect(b.ID(), a.ID()), audiograph.ErrEdgeNotFound)

	// rejected operations leave the topology working
	out := make([]float32, 2*frames)
	g.Process(newRt(), out)
	for i := range out {
		assert.Equal(t, float32(0.5), out[i])
	}
}

func TestDiamond(t *testing.T) {
	root := &mock.Node{}
	g := audiograph.NewGraph(root, frames)

	src := &mock.Node{Value: 0.5}
	left := &mock.Node{Value: 0.25}
	right := &mock.Node{Value: 0.25}
	for _, n := range []*mock.Node{src, left, right} {
		assert.Nil(t, g.Insert(n))
	}
	assert.Nil(t, g.Connect(src.ID(), left.ID()))
	assert.Nil(t, g.Connect(src.ID(), right.ID()))
	assert.Nil(t, g.ConnectToRoot(left.ID()))
	assert.Nil(t, g.ConnectToRoot(right.ID()))

	out := make([]float32, 2*frames)
	g.Process(newRt(), out)

	// the shared source is evaluated once per quantum
	assert.Equal(t, 1, src.Processed)
	assert.Equal(t, frames, src.Frames)
	// both branches received the same source output
	for i := range left.Inputs[0] {
		assert.Equal(t, float32(0.5), left.Inputs[0][i])
		assert.Equal(t, float32(0.5), right.Inputs[0][i])
	}
	for i := range out {
		assert.Equal(t, float32(1.5), out[i])
	}
}

func TestDelayCompensation(t *testing.T) {
	root := &mock.Node{}
	g := audiograph.NewGraph(root, frames)

	src := &mock.Node{Value: 0.25}
	fx := &mock.Node{Latency: 10}
	assert.Nil(t, g.Insert(src))
	assert.Nil(t, g.Insert(fx))
	assert.Nil(t, g.Connect(src.ID(), fx.ID()))
	assert.Nil(t, g.ConnectToRoot(fx.ID()))
	assert.Nil(t, g.ConnectToRoot(src.ID()))

	assert.Equal(t, 10, g.Delay())

	rt := newRt()
	out := make([]float32, 2*frames)

	// first quantum: the direct connection is padded by ten frames, only
	// the slow branch contributes
	g.Process(rt, out)
	for f := 0; f < frames; f++ {
		assert.Equal(t, float32(0.25), out[2*f], "frame %v", f)
	}

	// second quantum: the padded signal arrives from frame two on
	g.Process(rt, out)
	for f := 0; f < frames; f++ {
		expected := float32(0.5)
		if f < 2 {
			expected = 0.25
		}
		assert.Equal(t, expected, out[2*f], "frame %v", f)
	}
}

func TestPartialQuantum(t *testing.T) {
	root := &mock.Node{}
	g := audiograph.NewGraph(root, frames)

	src := &mock.Node{Value: 0.25}
	fx := &mock.Node{Latency: 4}
	assert.Nil(t, g.Insert(src))
	assert.Nil(t, g.Insert(fx))
	assert.Nil(t, g.Connect(src.ID(), fx.ID()))
	assert.Nil(t, g.ConnectToRoot(fx.ID()))
	assert.Nil(t, g.ConnectToRoot(src.ID()))

	rt := newRt()

	// three frames, then five: padding keeps counting across quanta of
	// uneven length
	out := make([]float32, 2*3)
	g.Process(rt, out)
	for f := 0; f < 3; f++ {
		assert.Equal(t, float32(0.25), out[2*f], "frame %v", f)
	}

	out = make([]float32, 2*5)
	g.Process(rt, out)
	for f := 0; f < 5; f++ {
		expected := float32(0.5)
		if f < 1 {
			expected = 0.25
		}
		assert.Equal(t, expected, out[2*f], "frame %v", f)
	}
}

func TestEventRelay(t *testing.T) {
	root := &mock.Node{}
	g := audiograph.NewGraph(root, frames)

	src := &mock.Node{Emit: []audiograph.Event{{Kind: audiograph.NoteOn, Time: 3, Key: 60, Velocity: 100}}}
	fx := &mock.Node{Latency: 10, Relay: true}
	assert.Nil(t, g.Insert(src))
	assert.Nil(t, g.Insert(fx))
	assert.Nil(t, g.Connect(src.ID(), fx.ID()))
	assert.Nil(t, g.ConnectToRoot(fx.ID()))
	assert.Nil(t, g.ConnectToRoot(src.ID()))

	rt := newRt()
	out := make([]float32, 2*frames)

	// the relayed event arrives immediately, the padded connection holds
	// its copy back
	g.Process(rt, out)
	assert.Equal(t, []audiograph.Event{{Kind: audiograph.NoteOn, Time: 3, Key: 60, Velocity: 100}}, root.Received[0])

	// ten frames of padding re-time the held copy into this quantum
	src.Emit = nil
	g.Process(rt, out)
	assert.Equal(t, []audiograph.Event{{Kind: audiograph.NoteOn, Time: 5, Key: 60, Velocity: 100}}, root.Received[1])
}

func TestOrderDeterminism(t *testing.T) {
	var order []audiograph.NodeID
	root := &mock.Node{Order: &order}
	g := audiograph.NewGraph(root, frames)

	a := &mock.Node{Order: &order}
	b := &mock.Node{Order: &order}
	c := &mock.Node{Order: &order}
	expected := []audiograph.NodeID{a.ID(), b.ID(), c.ID(), root.ID()}

	// insertion order does not matter
	assert.Nil(t, g.Insert(c))
	assert.Nil(t, g.Insert(a))
	assert.Nil(t, g.Insert(b))
	for _, n := range []*mock.Node{a, b, c} {
		assert.Nil(t, g.ConnectToRoot(n.ID()))
	}

	out := make([]float32, 2*frames)
	g.Process(newRt(), out)
	assert.Equal(t, expected, order)

	// reconnecting does not shuffle the order
	order = order[:0]
	assert.Nil(t, g.DisconnectFromRoot(b.ID()))
	assert.Nil(t, g.ConnectToRoot(b.ID()))
	g.Process(newRt(), out)
	assert.Equal(t, expected, order)
}

func TestRemove(t *testing.T) {
	root := &mock.Node{}
	g := audiograph.NewGraph(root, frames)

	a := &mock.Node{Value: 0.25}
	b := &mock.Node{Value: 0.5}
	assert.Nil(t, g.Insert(a))
	assert.Nil(t, g.Insert(b))
	assert.Nil(t, g.ConnectToRoot(a.ID()))
	assert.Nil(t, g.ConnectToRoot(b.ID()))

	out := make([]float32, 2*frames)
	g.Process(newRt(), out)
	assert.Equal(t, float32(0.75), out[0])

	assert.ErrorIs(t, g.Remove(root.ID()), audiograph.ErrRemoveRoot)
	assert.Nil(t, g.Remove(b.ID()))
	assert.ErrorIs(t, g.Remove(b.ID()), audiograph.ErrNodeNotFound)
	_, ok := g.Node(b.ID())
	assert.False(t, ok)
	n, ok := g.Node(a.ID())
	assert.True(t, ok)
	assert.Equal(t, a.ID(), n.ID())

	// the removed contribution is gone, the rest keeps playing
	g.Process(newRt(), out)
	assert.Equal(t, float32(0.25), out[0])
	assert.ErrorIs(t, g.Connect(b.ID(), root.ID()), audiograph.ErrNodeNotFound)
}

func TestGraphReset(t *testing.T) {
	root := &mock.Node{}
	g := audiograph.NewGraph(root, frames)

	src := &mock.Node{Value: 0.25}
	fx := &mock.Node{Latency: 4}
	assert.Nil(t, g.Insert(src))
	assert.Nil(t, g.Insert(fx))
	assert.Nil(t, g.Connect(src.ID(), fx.ID()))
	assert.Nil(t, g.ConnectToRoot(fx.ID()))
	assert.Nil(t, g.ConnectToRoot(src.ID()))

	rt := newRt()
	first := make([]float32, 2*frames)
	g.Process(rt, first)

	g.Reset()
	assert.Equal(t, 1, src.Resets)
	assert.Equal(t, 1, fx.Resets)
	assert.Equal(t, 1, root.Resets)

	// buffered signal is dropped, the first quantum repeats itself
	second := make([]float32, 2*frames)
	g.Process(rt, second)
	assert.Equal(t, first, second)
}
