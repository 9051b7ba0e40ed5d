package audiograph

import "errors"

var (
	// ErrCycle is returned if a connection would make the graph cyclic.
	ErrCycle = errors.New("connection creates a cycle")
	// ErrNodeExists is returned if an inserted node is already in the graph.
	ErrNodeExists = errors.New("node already in graph")
	// ErrNodeNotFound is returned if an operation refers to an unknown node.
	ErrNodeNotFound = errors.New("node not found")
	// ErrEdgeExists is returned if a connection is already present.
	ErrEdgeExists = errors.New("connection already exists")
	// ErrEdgeNotFound is returned if a disconnected edge is not present.
	ErrEdgeNotFound = errors.New("connection not found")
	// ErrRemoveRoot is returned on an attempt to remove the graph root.
	ErrRemoveRoot = errors.New("root cannot be removed")
	// ErrCommandQueueFull is returned if the audio thread cannot accept
	// another command before the next quantum.
	ErrCommandQueueFull = errors.New("command queue is full")
	// ErrEmptyLoop is returned if a loop region has no length.
	ErrEmptyLoop = errors.New("loop region is empty")
	// ErrInvalidTempo is returned if a tempo is not positive.
	ErrInvalidTempo = errors.New("tempo must be positive")
	// ErrInvalidMeter is returned if a time signature numerator is not
	// positive.
	ErrInvalidMeter = errors.New("numerator must be positive")
)
