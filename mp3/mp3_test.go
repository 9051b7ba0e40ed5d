package mp3_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pipelined/audiograph"
	"github.com/pipelined/audiograph/export"
	"github.com/pipelined/audiograph/mock"
	"github.com/pipelined/audiograph/mp3"
)

func TestSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.mp3")
	sink, err := mp3.NewSink(path, 44100, 192, 2)
	assert.Nil(t, err)

	g := audiograph.NewGraph(&mock.Node{Value: 0.25}, 512)
	rt := audiograph.RtState{SampleRate: 44100, BPM: 120, Numerator: 4}
	assert.Nil(t, export.Export(g, rt, 4410, sink))
	assert.Nil(t, sink.Close())

	info, err := os.Stat(path)
	assert.Nil(t, err)
	assert.True(t, info.Size() > 0)
}
