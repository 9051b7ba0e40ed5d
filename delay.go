package audiograph

// delayLine delays a signal by a fixed number of samples. It keeps the
// newest len(buf) samples, oldest first, and trades them for incoming
// samples in place, so the delay costs no extra copies per quantum.
type delayLine struct {
	buf []float32
}

func newDelayLine(samples int) *delayLine {
	return &delayLine{buf: make([]float32, samples)}
}

func (l *delayLine) samples() int {
	return len(l.buf)
}

// process exchanges buf with the line contents: buf leaves with the
// delayed signal, the line keeps what buf brought in.
func (l *delayLine) process(buf []float32) {
	n := len(l.buf)
	if n == 0 {
		return
	}
	if n < len(buf) {
		rotateRight(buf, n)
		swap(buf[:n], l.buf)
	} else {
		swap(buf, l.buf[:len(buf)])
		rotateRight(l.buf, len(buf))
	}
}

func (l *delayLine) reset() {
	clear(l.buf)
}

// rotateRight shifts every sample k positions towards the end, wrapping
// around.
func rotateRight(s []float32, k int) {
	k %= len(s)
	if k == 0 {
		return
	}
	reverse(s)
	reverse(s[:k])
	reverse(s[k:])
}

func reverse(s []float32) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func swap(a, b []float32) {
	for i := range a {
		a[i], b[i] = b[i], a[i]
	}
}

// Compensator is a pass-through node with a fixed latency. It can be
// inserted to line a path up with parallel material the scheduler does
// not know about, such as an external send.
type Compensator struct {
	id   NodeID
	line *delayLine
}

// NewCompensator creates a compensator which delays its input by the
// provided number of frames.
func NewCompensator(frames int) *Compensator {
	return &Compensator{
		id:   NewNodeID(),
		line: newDelayLine(2 * frames),
	}
}

// Process delays the input.
func (c *Compensator) Process(rt *RtState, buf []float32, events []Event) []Event {
	c.line.process(buf)
	return events
}

// ID returns the node id.
func (c *Compensator) ID() NodeID {
	return c.id
}

// Reset drops the buffered samples.
func (c *Compensator) Reset() {
	c.line.reset()
}

// Delay reports the introduced latency in frames.
func (c *Compensator) Delay() int {
	return c.line.samples() / 2
}
