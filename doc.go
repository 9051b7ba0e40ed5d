/*
Package audiograph builds and evaluates real-time audio graphs.

Concept

An audio graph is a directed acyclic graph of nodes. Every node consumes
the mixed output of its dependencies and produces one quantum of
interleaved stereo audio together with timed note events. A designated
root node, usually a master strip, is the single output of the graph.

The package splits the work between two threads. The audio thread owns
the graph: once per quantum the backend calls Engine.Process, which
applies queued commands, evaluates every node exactly once in dependency
order and fills the output buffer. The control thread never touches the
graph directly: it queues commands through engine methods and reads
notifications from the updates channel. Both queues are bounded and
never block the audio thread.

Nodes

A node implements the Node interface. Concrete nodes live in their own
packages: mixer.Strip is a channel strip with a processor chain, volume,
pan and metering; track.Track plays clips through a strip; master.Master
is the usual graph root with a metronome. Compensator is a pass-through
node with a fixed latency.

Delay compensation

Nodes report their latency through Delay. When parallel paths into a
node carry different latency, the scheduler pads the faster connections
with delay lines so that all paths line up, and re-times events crossing
the padded connections. Graph.Delay reports the resulting total latency.

Rendering

The export package renders a graph offline through the same evaluation
path. A live engine hands its graph over with Snapshot, keeps producing
silence, and takes the graph back with Restore once the render is done.
wav.Sink and mp3.Sink are the provided render targets, portaudio.Player
drives an engine live.
*/
package audiograph
