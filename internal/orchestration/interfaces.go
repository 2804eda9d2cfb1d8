package orchestration

import "time"

// Consumer reacts to the events of one run. Calls are made sequentially from
// the goroutine running Dispatch: every OnProgress call precedes the single
// OnOutcome call.
type Consumer interface {
	OnProgress(ev ProgressEvent)
	OnOutcome(outcome Outcome)
}

// Callbacks adapts three plain functions to Consumer. Nil functions are
// skipped.
type Callbacks struct {
	Progress func(percent int, label string)
	Result   func(s Success)
	Error    func(reason string)
}

// OnProgress calls c.Progress.
func (c Callbacks) OnProgress(ev ProgressEvent) {
	if c.Progress != nil {
		c.Progress(ev.Percent, ev.Label())
	}
}

// OnOutcome calls c.Result or c.Error depending on the outcome.
func (c Callbacks) OnOutcome(outcome Outcome) {
	switch o := outcome.(type) {
	case Success:
		if c.Result != nil {
			c.Result(o)
		}
	case Failure:
		if c.Error != nil {
			c.Error(o.Reason)
		}
	}
}

// NullConsumer ignores every event. Useful for quiet mode or testing.
type NullConsumer struct{}

// OnProgress does nothing.
func (NullConsumer) OnProgress(ProgressEvent) {}

// OnOutcome does nothing.
func (NullConsumer) OnOutcome(Outcome) {}

// Recorder receives run telemetry. telemetry.Metrics implements it.
type Recorder interface {
	ObserveStage(stage string, elapsed time.Duration)
	ObserveRun(succeeded bool, verdict string, channels int, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveStage(string, time.Duration)          {}
func (nopRecorder) ObserveRun(bool, string, int, time.Duration) {}
