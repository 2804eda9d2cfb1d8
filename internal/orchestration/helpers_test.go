package orchestration

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/agbru/sigvalid/internal/recording"
)

const testRate = 250.0

// sineMatrix builds channels of a sine wave, each channel shifted in phase
// and offset by bias.
func sineMatrix(channels, samples int, bias float64) recording.Matrix {
	data := make([][]float64, channels)
	names := make([]string, channels)
	for c := range data {
		data[c] = make([]float64, samples)
		for i := range data[c] {
			data[c][i] = 50*math.Sin(2*math.Pi*float64(i)/32+float64(c)) + bias
		}
		names[c] = "EEG" + string(rune('A'+c))
	}
	return recording.Matrix{Channels: data, SampleRate: testRate, Names: names}
}

// collect drains events, failing the test if anything arrives after the
// terminal event or the run does not finish in time.
func collect(t *testing.T, events <-chan Event) ([]int, Outcome) {
	t.Helper()
	var (
		percents []int
		outcome  Outcome
	)
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return percents, outcome
			}
			if outcome != nil {
				t.Fatalf("event after terminal outcome: %+v", ev)
			}
			if ev.Terminal() {
				outcome = ev.Outcome
				continue
			}
			percents = append(percents, ev.Progress.Percent)
		case <-timeout:
			t.Fatal("run did not finish")
		}
	}
}

type stageRecord struct {
	stage   string
	elapsed time.Duration
}

type fakeRecorder struct {
	mu        sync.Mutex
	stages    []stageRecord
	runs      int
	succeeded bool
	verdict   string
	channels  int
}

func (f *fakeRecorder) ObserveStage(stage string, elapsed time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stages = append(f.stages, stageRecord{stage, elapsed})
}

func (f *fakeRecorder) ObserveRun(succeeded bool, verdict string, channels int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs++
	f.succeeded, f.verdict, f.channels = succeeded, verdict, channels
}
