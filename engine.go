package audiograph

import (
	"github.com/pipelined/audiograph/metric"
	"github.com/rs/xid"
)

// Logger is a global interface for audiograph loggers.
type Logger interface {
	Debug(...interface{})
	Info(...interface{})
}

// newUID returns new unique id value.
func newUID() string {
	return xid.New().String()
}

type silentLogger struct{}

func (silentLogger) Debug(args ...interface{}) {}

func (silentLogger) Info(args ...interface{}) {}

var defaultLogger silentLogger

const (
	defaultSampleRate = 44100
	defaultFrames     = 512
	defaultBPM        = 120
	defaultNumerator  = 4
	defaultCommands   = 64
	defaultUpdates    = 1024
)

// Snapshot is the detached state of an engine. It is produced by
// Snapshot and consumed by Restore, in between the control thread owns
// the graph exclusively.
type Snapshot struct {
	Graph *Graph
	Rt    RtState
}

// Engine connects a graph to an audio backend. The backend drives the
// engine by calling Process once per quantum from a single goroutine,
// every other method is safe to call from the control thread. Commands
// and updates cross between the two over bounded queues which never
// block the audio thread.
type Engine struct {
	uid      string
	graph    *Graph
	rt       RtState
	detached bool

	commands chan command
	updates  chan Update

	commandCap int
	updateCap  int

	log     Logger
	metered bool
	measure metric.MeasureFunc
}

// Option provides a way to set functional parameters to the engine.
type Option func(e *Engine)

// WithSampleRate sets the stream sample rate in Hz.
func WithSampleRate(sampleRate int) Option {
	return func(e *Engine) {
		e.rt.SampleRate = sampleRate
	}
}

// WithFrames sets the maximum quantum length in frames.
func WithFrames(frames int) Option {
	return func(e *Engine) {
		e.rt.Frames = frames
	}
}

// WithBPM sets the initial tempo.
func WithBPM(bpm float64) Option {
	return func(e *Engine) {
		e.rt.BPM = bpm
	}
}

// WithNumerator sets the initial number of beats per bar.
func WithNumerator(numerator int) Option {
	return func(e *Engine) {
		e.rt.Numerator = numerator
	}
}

// WithLogger sets logger to the engine. If this option is not provided,
// silent logger is used.
func WithLogger(logger Logger) Option {
	return func(e *Engine) {
		e.log = logger
	}
}

// WithMetric enables expvar counters for the engine.
func WithMetric() Option {
	return func(e *Engine) {
		e.metered = true
	}
}

// WithCommandCapacity sets the command queue capacity.
func WithCommandCapacity(n int) Option {
	return func(e *Engine) {
		e.commandCap = n
	}
}

// WithUpdateCapacity sets the update queue capacity.
func WithUpdateCapacity(n int) Option {
	return func(e *Engine) {
		e.updateCap = n
	}
}

// New creates an engine around the root node and applies provided
// options.
func New(root Node, options ...Option) *Engine {
	e := &Engine{
		uid: newUID(),
		rt: RtState{
			SampleRate: defaultSampleRate,
			Frames:     defaultFrames,
			BPM:        defaultBPM,
			Numerator:  defaultNumerator,
		},
		commandCap: defaultCommands,
		updateCap:  defaultUpdates,
		log:        defaultLogger,
	}
	for _, option := range options {
		option(e)
	}
	e.graph = NewGraph(root, e.rt.Frames)
	e.commands = make(chan command, e.commandCap)
	e.updates = make(chan Update, e.updateCap)
	if e.metered {
		e.measure = metric.Meter(e, e.rt.SampleRate)()
	}
	e.log.Debug("engine ", e.uid, " created: sample rate ", e.rt.SampleRate, ", frames ", e.rt.Frames)
	return e
}

// String returns engine uid.
func (e *Engine) String() string {
	return e.uid
}

// SampleRate returns the stream sample rate in Hz.
func (e *Engine) SampleRate() int {
	return e.rt.SampleRate
}

// Frames returns the maximum quantum length in frames.
func (e *Engine) Frames() int {
	return e.rt.Frames
}

// Updates returns the channel carrying engine notifications.
func (e *Engine) Updates() <-chan Update {
	return e.updates
}

// Meter returns a function nodes use to report peak levels. Reports are
// forwarded to the updates channel without blocking.
func (e *Engine) Meter() func(id NodeID, left, right float32) {
	return func(id NodeID, left, right float32) {
		e.notify(Peak{Node: id, Left: left, Right: right})
	}
}

// push queues a command without blocking.
func (e *Engine) push(c command) error {
	select {
	case e.commands <- c:
		return nil
	default:
		e.log.Info("command dropped: ", ErrCommandQueueFull)
		return ErrCommandQueueFull
	}
}

// notify sends an update without blocking, dropping it when the
// consumer falls behind.
func (e *Engine) notify(u Update) {
	select {
	case e.updates <- u:
	default:
	}
}

// drain applies all queued commands in submission order.
func (e *Engine) drain() {
	for {
		select {
		case c := <-e.commands:
			c.apply(e)
		default:
			return
		}
	}
}

// Insert queues insertion of a node without connections.
func (e *Engine) Insert(n Node) error {
	return e.push(insertCommand{node: n})
}

// Remove queues removal of a node together with its connections.
func (e *Engine) Remove(id NodeID) error {
	return e.push(removeCommand{id: id})
}

// Connect queues a connection routing from into to. The returned
// channel delivers exactly one error value: nil once the connection is
// applied, or the reason it was rejected.
func (e *Engine) Connect(from, to NodeID) <-chan error {
	reply := make(chan error, 1)
	if err := e.push(connectCommand{from: from, to: to, reply: reply}); err != nil {
		reply <- err
	}
	return reply
}

// ConnectToRoot queues a connection routing the node into the graph
// root, see Connect.
func (e *Engine) ConnectToRoot(id NodeID) <-chan error {
	reply := make(chan error, 1)
	if err := e.push(connectRootCommand{id: id, reply: reply}); err != nil {
		reply <- err
	}
	return reply
}

// Disconnect queues removal of the connection between from and to.
func (e *Engine) Disconnect(from, to NodeID) error {
	return e.push(disconnectCommand{from: from, to: to})
}

// DisconnectFromRoot queues removal of the connection between the node
// and the graph root.
func (e *Engine) DisconnectFromRoot(id NodeID) error {
	return e.push(disconnectRootCommand{id: id})
}

// Apply queues a node mutation. The closure runs on the audio thread
// between quanta and must not block.
func (e *Engine) Apply(id NodeID, fn func(Node)) error {
	return e.push(applyCommand{id: id, fn: fn})
}

// SetPlaying starts or pauses playback.
func (e *Engine) SetPlaying(playing bool) error {
	return e.push(transportCommand{fn: func(rt *RtState) { rt.Playing = playing }})
}

// SetMetronome enables or disables click playback.
func (e *Engine) SetMetronome(metronome bool) error {
	return e.push(transportCommand{fn: func(rt *RtState) { rt.Metronome = metronome }})
}

// SetBPM changes the tempo. The tempo must be positive.
func (e *Engine) SetBPM(bpm float64) error {
	if bpm <= 0 {
		return ErrInvalidTempo
	}
	return e.push(transportCommand{fn: func(rt *RtState) { rt.BPM = bpm }})
}

// SetNumerator changes the number of beats per bar.
func (e *Engine) SetNumerator(numerator int) error {
	if numerator < 1 {
		return ErrInvalidMeter
	}
	return e.push(transportCommand{fn: func(rt *RtState) { rt.Numerator = numerator }})
}

// Seek moves the playhead. Positions before the start of the timeline
// are clamped to zero.
func (e *Engine) Seek(sample int) error {
	if sample < 0 {
		sample = 0
	}
	return e.push(transportCommand{fn: func(rt *RtState) { rt.Sample = sample }})
}

// SetLoop sets the looped region.
func (e *Engine) SetLoop(r Region) error {
	if r.Len() <= 0 {
		return ErrEmptyLoop
	}
	return e.push(transportCommand{fn: func(rt *RtState) { rt.Loop = &r }})
}

// ClearLoop disables looping.
func (e *Engine) ClearLoop() error {
	return e.push(transportCommand{fn: func(rt *RtState) { rt.Loop = nil }})
}

// Reset queues a reset returning every node to its initial state.
func (e *Engine) Reset() error {
	return e.push(resetCommand{})
}

// Snapshot queues detachment of the live graph. The engine produces
// silence until the graph is handed back with Restore. The returned
// channel delivers the detached graph and the transport state captured
// at detachment.
func (e *Engine) Snapshot() (<-chan Snapshot, error) {
	reply := make(chan Snapshot, 1)
	if err := e.push(snapshotCommand{reply: reply}); err != nil {
		return nil, err
	}
	return reply, nil
}

// Restore queues reattachment of a detached graph.
func (e *Engine) Restore(s Snapshot) error {
	return e.push(restoreCommand{graph: s.Graph})
}

// Process evaluates one quantum of audio into out. It applies queued
// commands first, then evaluates the graph, advancing the playhead and
// wrapping it at the loop end when playing.
func (e *Engine) Process(out []float32) {
	e.drain()
	quantum := len(out) / 2
	for len(out) > 0 {
		frames := len(out) / 2
		if l := e.rt.Loop; e.rt.Playing && l != nil && e.rt.Sample < l.End && l.End-e.rt.Sample <= frames {
			head := 2 * (l.End - e.rt.Sample)
			e.processSpan(out[:head])
			out = out[head:]
			e.rt.Sample = l.Start
			e.notify(Position{Sample: e.rt.Sample, Looped: true})
			continue
		}
		e.processSpan(out)
		out = nil
	}
	if e.measure != nil {
		e.measure(int64(quantum))
	}
}

func (e *Engine) processSpan(out []float32) {
	if len(out) == 0 {
		return
	}
	e.graph.Process(&e.rt, out)
	if e.rt.Playing {
		e.rt.Sample += len(out) / 2
		e.notify(Position{Sample: e.rt.Sample})
	}
}
