package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/pipelined/audiograph"
	"github.com/pipelined/audiograph/export"
	"github.com/pipelined/audiograph/mp3"
	"github.com/pipelined/audiograph/signal"
	"github.com/pipelined/audiograph/vst2"
	"github.com/pipelined/audiograph/wav"
)

type renderCommand struct {
	out     string
	seconds float64
	rate    int
	frames  int
	bpm     float64
	vst     string
}

func (cmd *renderCommand) Name() string {
	return "render"
}

func (cmd *renderCommand) Help() string {
	return "Render the demo arrangement to a wav or mp3 file"
}

func (cmd *renderCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.out, "out", "", "output file, .wav or .mp3 (required)")
	fs.Float64Var(&cmd.seconds, "length", 10, "rendered length in seconds")
	fs.IntVar(&cmd.rate, "rate", 44100, "sample rate in Hz")
	fs.IntVar(&cmd.frames, "frames", 512, "quantum length in frames")
	fs.Float64Var(&cmd.bpm, "bpm", 120, "tempo in beats per minute")
	fs.StringVar(&cmd.vst, "vst", "", "vst2 plugin mounted into the bus chain")
}

func (cmd *renderCommand) Run() error {
	if cmd.out == "" {
		return fmt.Errorf("missing -out required flag")
	}
	d := newDemo(cmd.rate, cmd.bpm)
	if cmd.vst != "" {
		proc, unload, err := vst2.Open(cmd.vst, cmd.frames, cmd.rate)
		if err != nil {
			return fmt.Errorf("mount plugin: %w", err)
		}
		defer unload()
		d.bus.AddProcessor(proc)
	}
	g, err := d.graph(cmd.frames)
	if err != nil {
		return err
	}
	rt := audiograph.RtState{
		SampleRate: cmd.rate,
		Frames:     cmd.frames,
		BPM:        cmd.bpm,
		Numerator:  4,
	}

	var sink interface {
		export.Writer
		Close() error
	}
	switch filepath.Ext(cmd.out) {
	case ".wav":
		sink, err = wav.NewSink(cmd.out, cmd.rate, signal.BitDepth16)
	case ".mp3":
		sink, err = mp3.NewSink(cmd.out, cmd.rate, 192, 2)
	default:
		return fmt.Errorf("unsupported output format: %v", cmd.out)
	}
	if err != nil {
		return err
	}

	length := int(cmd.seconds * float64(cmd.rate))
	err = export.Export(g, rt, length, sink, export.WithProgress(func(completed float64) {
		fmt.Printf("\rRendering: %3.0f%%", completed*100)
	}))
	fmt.Println()
	if err != nil {
		sink.Close()
		return err
	}
	return sink.Close()
}
