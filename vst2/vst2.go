// Package vst2 mounts vst2 plugins into strip chains.
package vst2

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dudk/vst2"

	"github.com/pipelined/audiograph"
	"github.com/pipelined/audiograph/signal"
)

// Ext is the plugin library extension of the current platform.
var Ext = ext()

func ext() string {
	switch runtime.GOOS {
	case "darwin":
		return ".vst"
	case "windows":
		return ".dll"
	default:
		return ".so"
	}
}

// ScanPaths returns the standard plugin directories of the current
// platform together with the VST_PATH environment variable.
func ScanPaths() []string {
	var paths []string
	switch runtime.GOOS {
	case "darwin":
		paths = []string{
			"~/Library/Audio/Plug-Ins/VST",
			"/Library/Audio/Plug-Ins/VST",
		}
	case "windows":
		paths = []string{
			"C:\\Program Files (x86)\\Steinberg\\VSTPlugins",
			"C:\\Program Files\\Steinberg\\VSTPlugins",
		}
	}
	if vstPath := os.Getenv("VST_PATH"); vstPath != "" {
		paths = append(paths, vstPath)
	}
	return paths
}

// Scan walks the provided directories recursively and returns the paths
// of all plugin libraries found. Directories which cannot be read are
// skipped.
func Scan(dirs ...string) []string {
	var found []string
	for _, dir := range dirs {
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			// darwin plugins are bundle directories, match by name only
			if strings.HasSuffix(d.Name(), Ext) {
				found = append(found, path)
			}
			return nil
		})
	}
	return found
}

// Processor runs a vst2 plugin over the signal. It implements
// mixer.Processor.
type Processor struct {
	plugin  *vst2.Plugin
	latency int
	doubles [][]float64 // deinterleaved scratch handed to the plugin
}

// Option provides a way to set functional parameters to the processor.
type Option func(p *Processor)

// WithLatency declares the plugin latency in frames. Plugins do not
// expose their latency through this sdk, declaring it here lets the
// graph compensate for it.
func WithLatency(frames int) Option {
	return func(p *Processor) {
		p.latency = frames
	}
}

// NewProcessor wraps an open plugin. The plugin is configured for the
// provided quantum length and sample rate and resumed.
func NewProcessor(plugin *vst2.Plugin, frames int, sampleRate int, options ...Option) *Processor {
	p := &Processor{
		plugin: plugin,
		doubles: [][]float64{
			make([]float64, frames),
			make([]float64, frames),
		},
	}
	for _, option := range options {
		option(p)
	}
	plugin.BufferSize(frames)
	plugin.SampleRate(sampleRate)
	plugin.Resume()
	return p
}

// Process runs the plugin over the buffer.
func (p *Processor) Process(buf []float32, events []audiograph.Event) []audiograph.Event {
	frames := len(buf) / 2
	doubles := [][]float64{p.doubles[0][:frames], p.doubles[1][:frames]}
	signal.Deinterleave(doubles, buf)
	p.plugin.Process(doubles)
	signal.Interleave(buf, doubles)
	return events
}

// Delay reports the declared plugin latency.
func (p *Processor) Delay() int {
	return p.latency
}

// Reset restarts the plugin.
func (p *Processor) Reset() {
	p.plugin.Suspend()
	p.plugin.Resume()
}

// CloseFunc releases the plugin and unloads its library.
type CloseFunc func()

// Open loads the plugin library at path and mounts its plugin. The
// returned close function must be called once the processor left the
// chain.
func Open(path string, frames int, sampleRate int, options ...Option) (*Processor, CloseFunc, error) {
	lib, err := vst2.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open library %v: %w", path, err)
	}
	plugin, err := lib.Open()
	if err != nil {
		lib.Close()
		return nil, nil, fmt.Errorf("open plugin %v: %w", path, err)
	}
	unload := func() {
		plugin.Close()
		lib.Close()
	}
	return NewProcessor(plugin, frames, sampleRate, options...), unload, nil
}
