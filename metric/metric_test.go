package metric_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pipelined/audiograph/metric"
)

// local types keep the expvar keys of this test isolated
type (
	meteredEngine struct{}
	meteredGraph  struct{}
)

func TestMeter(t *testing.T) {
	sampleRate := 44100
	// test cases
	var tests = []struct {
		component          interface{}
		routines           int
		quanta             int
		frames             int64
		expectedQuanta     string
		expectedSamples    string
		expectedComponents string
	}{
		{
			component:          meteredEngine{},
			routines:           2,
			quanta:             10,
			frames:             100,
			expectedQuanta:     "20",
			expectedSamples:    "2000",
			expectedComponents: "2",
		},
		{
			component:          &meteredEngine{},
			routines:           2,
			quanta:             10,
			frames:             100,
			expectedQuanta:     "40",
			expectedSamples:    "4000",
			expectedComponents: "4",
		},
	}
	// function to test meter.
	testFn := func(reset metric.ResetFunc, wg *sync.WaitGroup, quanta int, frames int64) {
		measure := reset()
		for i := 0; i < quanta; i++ {
			measure(frames)
		}
		wg.Done()
	}

	for _, test := range tests {
		wg := &sync.WaitGroup{}
		wg.Add(test.routines)
		for i := 0; i < test.routines; i++ {
			go testFn(metric.Meter(test.component, sampleRate), wg, test.quanta, test.frames)
		}
		// check if no data race.
		wg.Wait()
		values := metric.Get(test.component)
		assert.Equal(t, test.expectedQuanta, values[metric.QuantumCounter])
		assert.Equal(t, test.expectedSamples, values[metric.SampleCounter])
		assert.Equal(t, test.expectedComponents, values[metric.ComponentCounter])
	}
}

func TestGetAll(t *testing.T) {
	measure := metric.Meter(meteredGraph{}, 44100)()
	measure(64)

	all := metric.GetAll()
	values, ok := all["metric_test.meteredGraph"]
	assert.True(t, ok)
	assert.Equal(t, "1", values[metric.QuantumCounter])
	assert.Equal(t, "64", values[metric.SampleCounter])
}
