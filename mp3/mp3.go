// Package mp3 provides an mp3 render target encoded with lame.
package mp3

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/viert/lame"

	"github.com/pipelined/audiograph/signal"
)

// Sink writes rendered audio to an mp3 file. It implements
// export.Writer.
type Sink struct {
	f   *os.File
	wr  *lame.LameWriter
	buf bytes.Buffer
}

// NewSink creates the destination file and a sink encoding to it.
func NewSink(path string, sampleRate int, bitRate int, quality int) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %v: %w", path, err)
	}
	s := Sink{
		f:  f,
		wr: lame.NewWriter(f),
	}
	s.wr.Encoder.SetBitrate(bitRate)
	s.wr.Encoder.SetQuality(quality)
	s.wr.Encoder.SetNumChannels(2)
	s.wr.Encoder.SetInSamplerate(sampleRate)
	s.wr.Encoder.SetMode(lame.JOINT_STEREO)
	s.wr.Encoder.SetVBR(lame.VBR_RH)
	s.wr.Encoder.InitParams()
	return &s, nil
}

// Write encodes one quantum.
func (s *Sink) Write(buf []float32) error {
	s.buf.Reset()
	ints := signal.AsInts(buf, signal.BitDepth16)
	for i := range ints {
		if err := binary.Write(&s.buf, binary.LittleEndian, int16(ints[i])); err != nil {
			return err
		}
	}
	if _, err := s.wr.Write(s.buf.Bytes()); err != nil {
		return err
	}
	return nil
}

// Close flushes the encoder and closes the file.
func (s *Sink) Close() error {
	if err := s.wr.Close(); err != nil {
		return err
	}
	return s.f.Close()
}
