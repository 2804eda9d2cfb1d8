package orchestration

import (
	"errors"
	"testing"
)

func TestStages(t *testing.T) {
	t.Parallel()
	tests := []struct {
		stage   Stage
		name    string
		percent int
		label   string
	}{
		{StageReference, "reference", 20, "Processing data with the reference provider..."},
		{StageMetrics, "metrics", 50, "Comparing results..."},
		{StageAggregate, "aggregate", 80, "Generating report..."},
		{StageReport, "report", 100, "Validation complete!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.stage.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if got := tt.stage.Percent(); got != tt.percent {
				t.Errorf("Percent() = %d, want %d", got, tt.percent)
			}
			if got := tt.stage.Label(); got != tt.label {
				t.Errorf("Label() = %q, want %q", got, tt.label)
			}
		})
	}

	last := 0
	for _, s := range Stages {
		if s.Percent() <= last {
			t.Errorf("stage %v percent %d is not above %d", s, s.Percent(), last)
		}
		last = s.Percent()
	}

	if got := Stage(7).String(); got != "Stage(7)" {
		t.Errorf("unknown stage String() = %q", got)
	}
	if Stage(-1).Percent() != 0 || Stage(9).Label() != "" {
		t.Error("unknown stages should have no percent or label")
	}
}

func feed(events ...Event) <-chan Event {
	ch := make(chan Event, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	return ch
}

func progressEvent(s Stage) Event {
	return Event{Progress: ProgressEvent{Percent: s.Percent(), Stage: s}}
}

func TestDispatchCallbacks(t *testing.T) {
	t.Parallel()
	var (
		percents []int
		labels   []string
		result   *Success
		reasons  []string
	)
	consumer := Callbacks{
		Progress: func(p int, label string) {
			percents = append(percents, p)
			labels = append(labels, label)
		},
		Result: func(s Success) { result = &s },
		Error:  func(reason string) { reasons = append(reasons, reason) },
	}

	outcome := Dispatch(feed(
		progressEvent(StageReference),
		progressEvent(StageMetrics),
		Event{Outcome: Success{RunID: "r1", Report: "text"}},
	), consumer)

	if len(percents) != 2 || percents[0] != 20 || percents[1] != 50 {
		t.Errorf("percents = %v, want [20 50]", percents)
	}
	if labels[1] != "Comparing results..." {
		t.Errorf("label = %q", labels[1])
	}
	if result == nil || result.Report != "text" {
		t.Fatalf("result callback not called with the success: %+v", result)
	}
	if len(reasons) != 0 {
		t.Errorf("error callback called: %v", reasons)
	}
	if s, ok := outcome.(Success); !ok || s.RunID != "r1" {
		t.Errorf("Dispatch returned %#v", outcome)
	}
}

func TestDispatchFailure(t *testing.T) {
	t.Parallel()
	var reason string
	outcome := Dispatch(feed(
		progressEvent(StageReference),
		Event{Outcome: Failure{Reason: "MNE-Python is not installed"}},
	), Callbacks{Error: func(r string) { reason = r }})

	if reason != "MNE-Python is not installed" {
		t.Errorf("reason = %q", reason)
	}
	if _, ok := outcome.(Failure); !ok {
		t.Errorf("Dispatch returned %#v, want Failure", outcome)
	}
}

func TestCallbacksNilFunctions(t *testing.T) {
	t.Parallel()
	c := Callbacks{}
	c.OnProgress(ProgressEvent{Percent: 20, Stage: StageReference})
	c.OnOutcome(Success{})
	c.OnOutcome(Failure{})
}

func TestWaitWithoutOutcome(t *testing.T) {
	t.Parallel()
	outcome := Wait(feed(progressEvent(StageReference)))
	f, ok := outcome.(Failure)
	if !ok {
		t.Fatalf("Wait returned %#v, want Failure", outcome)
	}
	if f.Reason != "validation error: run ended without an outcome" {
		t.Errorf("reason = %q", f.Reason)
	}
}

func TestFailureIsError(t *testing.T) {
	t.Parallel()
	cause := errors.New("cause")
	var err error = Failure{Reason: "validation error: cause", Err: cause}
	if err.Error() != "validation error: cause" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()
	for s, want := range map[State]string{Idle: "idle", Running: "running", Completed: "completed", Failed: "failed", State(9): "State(9)"} {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}
