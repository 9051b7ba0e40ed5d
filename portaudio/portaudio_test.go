//go:build portaudio
// +build portaudio

package portaudio_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pipelined/audiograph"
	"github.com/pipelined/audiograph/mock"
	"github.com/pipelined/audiograph/portaudio"
)

func TestPlayer(t *testing.T) {
	e := audiograph.New(
		&mock.Node{Value: 0.1},
		audiograph.WithSampleRate(44100),
		audiograph.WithFrames(512),
	)
	e.SetPlaying(true)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	err := portaudio.New(e).Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
