// Package wav provides a wav render target and clip material loading.
package wav

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/pipelined/audiograph/signal"
)

const (
	numChannels = 2
	// PCM format chunk value.
	wavFormat = 1
)

var (
	// ErrUnsupportedBitDepth is returned when unsupported bit depth is used.
	ErrUnsupportedBitDepth = errors.New("only 16 and 32 bit depth is supported")
	// ErrUnsupportedChannels is returned when a file is neither mono nor
	// stereo.
	ErrUnsupportedChannels = errors.New("only mono and stereo files are supported")
	// ErrInvalidFile is returned when a file is not a readable wav.
	ErrInvalidFile = errors.New("not a valid wav file")
)

// Sink writes rendered audio to a wav file. It implements
// export.Writer.
type Sink struct {
	bitDepth signal.BitDepth
	file     *os.File
	encoder  *wav.Encoder
	ib       *audio.IntBuffer
}

// NewSink creates the destination file and a sink writing to it.
func NewSink(path string, sampleRate int, bitDepth signal.BitDepth) (*Sink, error) {
	if bitDepth != signal.BitDepth16 && bitDepth != signal.BitDepth32 {
		return nil, ErrUnsupportedBitDepth
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %v: %w", path, err)
	}
	return &Sink{
		bitDepth: bitDepth,
		file:     f,
		encoder:  wav.NewEncoder(f, sampleRate, int(bitDepth), numChannels, wavFormat),
		ib: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: numChannels,
				SampleRate:  sampleRate,
			},
			SourceBitDepth: int(bitDepth),
		},
	}, nil
}

// Write encodes one quantum.
func (s *Sink) Write(buf []float32) error {
	s.ib.Data = signal.AsInts(buf, s.bitDepth)
	return s.encoder.Write(s.ib)
}

// Close flushes the encoder and closes the file.
func (s *Sink) Close() error {
	if err := s.encoder.Close(); err != nil {
		return err
	}
	return s.file.Close()
}

// Load reads a whole wav file as interleaved stereo clip material and
// returns it with the file sample rate. Mono files are duplicated to
// both channels. The material is not resampled.
func Load(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open %v: %w", path, err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, 0, fmt.Errorf("load %v: %w", path, ErrInvalidFile)
	}
	bitDepth := signal.BitDepth(d.BitDepth)
	switch bitDepth {
	case signal.BitDepth8, signal.BitDepth16, signal.BitDepth32:
	default:
		return nil, 0, fmt.Errorf("load %v: %w", path, ErrUnsupportedBitDepth)
	}
	ib, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("load %v: %w", path, err)
	}

	floats := signal.AsFloats(ib.Data, bitDepth)
	rate := int(d.SampleRate)
	switch ib.Format.NumChannels {
	case 2:
		return floats, rate, nil
	case 1:
		stereo := make([]float32, 2*len(floats))
		for i, v := range floats {
			stereo[2*i] = v
			stereo[2*i+1] = v
		}
		return stereo, rate, nil
	default:
		return nil, 0, fmt.Errorf("load %v: %w", path, ErrUnsupportedChannels)
	}
}
