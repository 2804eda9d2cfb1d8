package orchestration

import (
	"fmt"

	"github.com/agbru/sigvalid/internal/comparison"
)

// Stage identifies a completed step of the validation pipeline.
type Stage int

const (
	// StageReference is reached when the reference provider has answered.
	StageReference Stage = iota
	// StageMetrics is reached when every channel pair has been compared.
	StageMetrics
	// StageAggregate is reached when the verdict is known and the report
	// is being built.
	StageAggregate
	// StageReport is reached when the report is ready.
	StageReport
)

// Stages lists every stage in emission order.
var Stages = []Stage{StageReference, StageMetrics, StageAggregate, StageReport}

var stageInfo = [...]struct {
	name    string
	percent int
	label   string
}{
	StageReference: {"reference", 20, "Processing data with the reference provider..."},
	StageMetrics:   {"metrics", 50, "Comparing results..."},
	StageAggregate: {"aggregate", 80, "Generating report..."},
	StageReport:    {"report", 100, "Validation complete!"},
}

func (s Stage) valid() bool { return s >= 0 && int(s) < len(stageInfo) }

// String returns the short stage name used in logs, spans and metrics.
func (s Stage) String() string {
	if !s.valid() {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageInfo[s].name
}

// Percent returns the progress value reported when the stage completes.
func (s Stage) Percent() int {
	if !s.valid() {
		return 0
	}
	return stageInfo[s].percent
}

// Label returns the human-readable progress text of the stage.
func (s Stage) Label() string {
	if !s.valid() {
		return ""
	}
	return stageInfo[s].label
}

// ProgressEvent reports that a stage completed.
type ProgressEvent struct {
	Percent int
	Stage   Stage
}

// Label returns the stage's progress text.
func (p ProgressEvent) Label() string { return p.Stage.Label() }

// Outcome is the terminal result of a run: either Success or Failure.
type Outcome interface {
	outcome()
}

// Success carries the comparison result and the rendered report.
type Success struct {
	RunID  string
	Result comparison.Result
	Report string
}

// Failure carries the message to show in place of a report. Err keeps the
// underlying error for exit codes and logging.
type Failure struct {
	RunID  string
	Reason string
	Err    error
}

func (Success) outcome() {}
func (Failure) outcome() {}

// Error implements error so a Failure can be returned directly.
func (f Failure) Error() string { return f.Reason }

// Unwrap returns the underlying error.
func (f Failure) Unwrap() error { return f.Err }

// Event is one message on a run's event channel. Exactly one of Progress
// and Outcome is meaningful: Outcome is non-nil only on the last event.
type Event struct {
	Progress ProgressEvent
	Outcome  Outcome
}

// Terminal reports whether the event carries the outcome.
func (e Event) Terminal() bool { return e.Outcome != nil }

// Dispatch feeds every event to consumer until the channel is closed and
// returns the terminal outcome.
func Dispatch(events <-chan Event, consumer Consumer) Outcome {
	var outcome Outcome
	for ev := range events {
		if ev.Terminal() {
			outcome = ev.Outcome
			consumer.OnOutcome(outcome)
			continue
		}
		consumer.OnProgress(ev.Progress)
	}
	if outcome == nil {
		outcome = Failure{Reason: "validation error: run ended without an outcome"}
	}
	return outcome
}

// Wait drains events and returns the terminal outcome.
func Wait(events <-chan Event) Outcome {
	return Dispatch(events, NullConsumer{})
}
