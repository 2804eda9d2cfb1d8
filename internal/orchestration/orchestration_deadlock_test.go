package orchestration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/agbru/sigvalid/internal/recording"
	"github.com/agbru/sigvalid/internal/reference"
)

// TestRunnerNoDeadlock_AbandonedConsumer verifies that a run reaches its
// terminal state even when nobody reads the event channel.
func TestRunnerNoDeadlock_AbandonedConsumer(t *testing.T) {
	t.Parallel()
	candidate := sineMatrix(2, 64, 0)
	runner := NewRunner(fixedProvider(candidate))
	if _, err := runner.Start(context.Background(), Input{Candidate: candidate, SampleRate: testRate}); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for runner.State() == Running {
		if time.Now().After(deadline) {
			t.Fatal("DEADLOCK: run blocked on an unread event channel")
		}
		time.Sleep(time.Millisecond)
	}
	if runner.State() != Completed {
		t.Errorf("state = %v, want completed", runner.State())
	}
}

// TestRunnerNoDeadlock_ConcurrentRuns verifies that independent runs do not
// interfere with each other.
func TestRunnerNoDeadlock_ConcurrentRuns(t *testing.T) {
	t.Parallel()
	const runs = 16

	slow := reference.ProviderFunc(func(ctx context.Context, req reference.Request) (recording.Matrix, error) {
		select {
		case <-time.After(5 * time.Millisecond):
		case <-ctx.Done():
			return recording.Matrix{}, ctx.Err()
		}
		return req.Signal, nil
	})

	var wg sync.WaitGroup
	outcomes := make([]Outcome, runs)
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			candidate := sineMatrix(1+i%4, 128, float64(i))
			outcome, err := Validate(context.Background(), slow, Input{Candidate: candidate, SampleRate: testRate})
			if err != nil {
				t.Errorf("run %d: %v", i, err)
				return
			}
			outcomes[i] = outcome
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("DEADLOCK: concurrent runs did not finish")
	}

	for i, outcome := range outcomes {
		s, ok := outcome.(Success)
		if !ok {
			t.Errorf("run %d: outcome %#v, want Success", i, outcome)
			continue
		}
		if got, want := len(s.Result.Channels), 1+i%4; got != want {
			t.Errorf("run %d: %d channels, want %d", i, got, want)
		}
	}
}
