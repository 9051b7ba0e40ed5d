package audiograph

// command is a mutation crossing from the control thread into the audio
// thread. Commands are queued on a bounded channel and applied in
// submission order before the next quantum is evaluated.
type command interface {
	apply(e *Engine)
}

type insertCommand struct {
	node Node
}

func (c insertCommand) apply(e *Engine) {
	if err := e.graph.Insert(c.node); err != nil {
		e.log.Info(err)
	}
}

type removeCommand struct {
	id NodeID
}

func (c removeCommand) apply(e *Engine) {
	if err := e.graph.Remove(c.id); err != nil {
		e.log.Info(err)
	}
}

// connectCommand carries a single-use buffered reply channel, the
// caller learns asynchronously whether the connection was accepted.
type connectCommand struct {
	from, to NodeID
	reply    chan error
}

func (c connectCommand) apply(e *Engine) {
	c.reply <- e.graph.Connect(c.from, c.to)
}

type disconnectCommand struct {
	from, to NodeID
}

func (c disconnectCommand) apply(e *Engine) {
	if err := e.graph.Disconnect(c.from, c.to); err != nil {
		e.log.Info(err)
	}
}

// connectRootCommand resolves the root on the audio thread, so it keeps
// working across graph exchanges.
type connectRootCommand struct {
	id    NodeID
	reply chan error
}

func (c connectRootCommand) apply(e *Engine) {
	c.reply <- e.graph.ConnectToRoot(c.id)
}

type disconnectRootCommand struct {
	id NodeID
}

func (c disconnectRootCommand) apply(e *Engine) {
	if err := e.graph.DisconnectFromRoot(c.id); err != nil {
		e.log.Info(err)
	}
}

// applyCommand mutates a node on the audio thread. The closure runs
// between quanta, so it can touch state which is not atomic.
type applyCommand struct {
	id NodeID
	fn func(Node)
}

func (c applyCommand) apply(e *Engine) {
	n, ok := e.graph.Node(c.id)
	if !ok {
		e.log.Info("apply: node ", c.id, " not found")
		return
	}
	c.fn(n)
}

// transportCommand mutates the transport state.
type transportCommand struct {
	fn func(rt *RtState)
}

func (c transportCommand) apply(e *Engine) {
	c.fn(&e.rt)
}

type resetCommand struct{}

func (c resetCommand) apply(e *Engine) {
	e.graph.Reset()
}

// snapshotCommand detaches the live graph and hands it to the control
// thread. The engine keeps evaluating a silent placeholder until the
// graph is restored.
type snapshotCommand struct {
	reply chan Snapshot
}

func (c snapshotCommand) apply(e *Engine) {
	if e.detached {
		panic("audiograph: graph already detached")
	}
	e.detached = true
	g := e.graph
	e.graph = NewGraph(newSilence(), g.frames)
	c.reply <- Snapshot{Graph: g, Rt: e.rt}
}

type restoreCommand struct {
	graph *Graph
}

func (c restoreCommand) apply(e *Engine) {
	if !e.detached {
		panic("audiograph: no detached graph to restore")
	}
	e.detached = false
	e.graph = c.graph
}

// Update is a state notification sent from the audio thread to the
// control thread. Updates are best effort: when the consumer falls
// behind, new updates are dropped.
type Update interface {
	update()
}

// Peak reports the peak magnitudes a node observed in a quantum.
type Peak struct {
	Node  NodeID
	Left  float32
	Right float32
}

func (Peak) update() {}

// Position reports playhead movement. Looped is set when the playhead
// wrapped to the loop start.
type Position struct {
	Sample int
	Looped bool
}

func (Position) update() {}

// silence is the placeholder root used while the real graph is
// detached.
type silence struct {
	id NodeID
}

func newSilence() *silence {
	return &silence{id: NewNodeID()}
}

func (s *silence) Process(rt *RtState, buf []float32, events []Event) []Event {
	return events
}

func (s *silence) ID() NodeID {
	return s.id
}

func (s *silence) Reset() {}

func (s *silence) Delay() int {
	return 0
}
