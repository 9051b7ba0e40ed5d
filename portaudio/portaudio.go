// Package portaudio plays an engine through the default output device.
package portaudio

import (
	"context"
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/pipelined/audiograph"
)

// Player drives an engine from the default output device. The goroutine
// which calls Run becomes the audio thread.
type Player struct {
	engine *audiograph.Engine
	buf    []float32
}

// New returns new player around the engine.
func New(e *audiograph.Engine) *Player {
	return &Player{engine: e}
}

// Run opens the default output stream and processes the engine quantum
// by quantum until the context is canceled.
func (p *Player) Run(ctx context.Context) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize portaudio: %w", err)
	}
	defer portaudio.Terminate()

	p.buf = make([]float32, 2*p.engine.Frames())
	stream, err := portaudio.OpenDefaultStream(0, 2, float64(p.engine.SampleRate()), p.engine.Frames(), &p.buf)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	defer stream.Close()
	if err := stream.Start(); err != nil {
		return fmt.Errorf("start stream: %w", err)
	}
	defer stream.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		p.engine.Process(p.buf)
		if err := stream.Write(); err != nil {
			return fmt.Errorf("write stream: %w", err)
		}
	}
}
