package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/pipelined/audiograph"
	"github.com/pipelined/audiograph/log"
	"github.com/pipelined/audiograph/portaudio"
)

type playCommand struct {
	rate      int
	frames    int
	bpm       float64
	metronome bool
}

func (cmd *playCommand) Name() string {
	return "play"
}

func (cmd *playCommand) Help() string {
	return "Play the demo arrangement through the default output device"
}

func (cmd *playCommand) Register(fs *flag.FlagSet) {
	fs.IntVar(&cmd.rate, "rate", 44100, "sample rate in Hz")
	fs.IntVar(&cmd.frames, "frames", 512, "quantum length in frames")
	fs.Float64Var(&cmd.bpm, "bpm", 120, "tempo in beats per minute")
	fs.BoolVar(&cmd.metronome, "metronome", false, "play the metronome")
}

func (cmd *playCommand) Run() error {
	d := newDemo(cmd.rate, cmd.bpm)
	e := audiograph.New(d.out,
		audiograph.WithSampleRate(cmd.rate),
		audiograph.WithFrames(cmd.frames),
		audiograph.WithBPM(cmd.bpm),
		audiograph.WithLogger(log.GetLogger()),
		audiograph.WithMetric(),
	)
	if err := d.wire(e); err != nil {
		return err
	}
	if err := e.SetMetronome(cmd.metronome); err != nil {
		return err
	}
	if err := e.SetPlaying(true); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	fmt.Println("Playing, interrupt to stop")
	if err := portaudio.New(e).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
