package orchestration

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/sigvalid/internal/comparison"
	apperrors "github.com/agbru/sigvalid/internal/errors"
	"github.com/agbru/sigvalid/internal/logging"
	"github.com/agbru/sigvalid/internal/metrics"
	"github.com/agbru/sigvalid/internal/recording"
	"github.com/agbru/sigvalid/internal/reference"
	"github.com/agbru/sigvalid/internal/report"
	"github.com/agbru/sigvalid/internal/telemetry"
)

// State is the lifecycle state of a Runner.
type State int32

const (
	Idle State = iota
	Running
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ErrAlreadyStarted is returned when Start is called more than once on the
// same Runner.
var ErrAlreadyStarted = errors.New("runner already started")

// eventBuffer holds every event a run can emit, so the worker never blocks
// on a slow or absent consumer.
const eventBuffer = 5

// Input is the data of one validation run. Source is the signal handed to
// the reference provider; when it is empty the candidate is used. Channel
// names default to the candidate's names.
type Input struct {
	Source       recording.Matrix
	Candidate    recording.Matrix
	SampleRate   float64
	ChannelNames []string
}

func (in Input) names() []string {
	if in.ChannelNames != nil {
		return in.ChannelNames
	}
	return in.Candidate.Names
}

// Runner executes one validation run. It is single-use: a fresh Runner is
// required per run.
type Runner struct {
	provider reference.Provider
	logger   logging.Logger
	recorder Recorder
	tracer   telemetry.Tracer
	workers  int
	runID    string
	state    atomic.Int32
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithRecorder sets the telemetry recorder.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// WithTracerProvider sets the OpenTelemetry provider used for run spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Runner) { r.tracer = telemetry.NewTracer(tp) }
}

// WithWorkers bounds the number of channels compared concurrently. Zero or
// less means unbounded.
func WithWorkers(n int) Option {
	return func(r *Runner) { r.workers = n }
}

// WithRunID sets the run identifier. By default a random UUID is used.
func WithRunID(id string) Option {
	return func(r *Runner) { r.runID = id }
}

// NewRunner creates an idle Runner bound to provider.
func NewRunner(provider reference.Provider, opts ...Option) *Runner {
	r := &Runner{
		provider: provider,
		logger:   logging.NopLogger{},
		recorder: nopRecorder{},
		tracer:   telemetry.NewTracer(nil),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}
	return r
}

// RunID returns the identifier attached to logs, spans and outcomes.
func (r *Runner) RunID() string { return r.runID }

// State returns the current lifecycle state.
func (r *Runner) State() State { return State(r.state.Load()) }

// Start launches the run in a new goroutine and returns its event channel.
// The channel receives the progress events in increasing order, then exactly
// one terminal event, and is then closed.
//
// Canceling ctx ends the run with a Failure; a provider that ignores ctx is
// abandoned rather than awaited.
func (r *Runner) Start(ctx context.Context, in Input) (<-chan Event, error) {
	if r.provider == nil {
		return nil, apperrors.NewConfigError("no reference provider configured")
	}
	if !r.state.CompareAndSwap(int32(Idle), int32(Running)) {
		return nil, ErrAlreadyStarted
	}

	events := make(chan Event, eventBuffer)
	go r.run(ctx, in, events)
	return events, nil
}

func (r *Runner) run(ctx context.Context, in Input, events chan<- Event) {
	defer close(events)
	start := time.Now()

	ctx, span := r.tracer.StartRun(ctx, r.runID)
	r.logger.Info("validation started",
		logging.String("run_id", r.runID),
		logging.Int("channels", in.Candidate.NumChannels()),
		logging.Float64("sample_rate", in.SampleRate),
	)

	emit := func(s Stage) {
		events <- Event{Progress: ProgressEvent{Percent: s.Percent(), Stage: s}}
	}
	outcome := r.execute(ctx, in, emit)
	elapsed := time.Since(start)

	switch o := outcome.(type) {
	case Success:
		r.state.Store(int32(Completed))
		r.recorder.ObserveRun(true, o.Result.Verdict.String(), len(o.Result.Channels), elapsed)
		r.logger.Info("validation completed",
			logging.String("run_id", r.runID),
			logging.String("verdict", o.Result.Verdict.String()),
			logging.Duration("elapsed", elapsed),
		)
		telemetry.EndSpan(span, nil)
	case Failure:
		r.state.Store(int32(Failed))
		r.recorder.ObserveRun(false, "", 0, elapsed)
		r.logger.Error("validation failed", o.Err,
			logging.String("run_id", r.runID),
			logging.Duration("elapsed", elapsed),
		)
		telemetry.EndSpan(span, o.Err)
	}
	events <- Event{Outcome: outcome}
}

// execute performs the pipeline. Any error or panic becomes a Failure and
// no partial result escapes.
func (r *Runner) execute(ctx context.Context, in Input, emit func(Stage)) (outcome Outcome) {
	defer func() {
		if p := recover(); p != nil {
			outcome = r.fail(apperrors.ComputationError{Stage: "runner", Cause: fmt.Errorf("panic: %v", p)})
		}
	}()

	candidate := recording.Matrix{Channels: in.Candidate.Channels, SampleRate: in.SampleRate, Names: in.names()}
	if err := candidate.Validate(); err != nil {
		return r.fail(err)
	}

	var ref recording.Matrix
	err := r.stage(ctx, StageReference, func(ctx context.Context) error {
		var err error
		ref, err = r.computeReference(ctx, in)
		return err
	})
	if err != nil && !apperrors.IsContextError(err) {
		// The provider answered, even if only to refuse.
		emit(StageReference)
	}
	var refErr *apperrors.ReferenceUnavailableError
	switch {
	case errors.As(err, &refErr):
		return Failure{RunID: r.runID, Reason: refErr.Reason, Err: err}
	case err != nil:
		return r.fail(err)
	}
	emit(StageReference)

	var channels []metrics.ChannelMetrics
	if err := r.stage(ctx, StageMetrics, func(ctx context.Context) error {
		var err error
		channels, err = metrics.CompareMatrices(ctx, ref, candidate, r.workers)
		return err
	}); err != nil {
		return r.fail(err)
	}
	emit(StageMetrics)

	var result comparison.Result
	if err := r.stage(ctx, StageAggregate, func(context.Context) error {
		result = comparison.Aggregate(channels, in.SampleRate)
		return nil
	}); err != nil {
		return r.fail(err)
	}
	emit(StageAggregate)

	var text string
	if err := r.stage(ctx, StageReport, func(context.Context) error {
		var err error
		text, err = report.Build(result, candidate.Names)
		return err
	}); err != nil {
		return r.fail(err)
	}
	emit(StageReport)

	return Success{RunID: r.runID, Result: result, Report: text}
}

// stage runs fn inside a span and records its duration. A done ctx fails the
// stage before fn runs.
func (r *Runner) stage(ctx context.Context, s Stage, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	sctx, span := r.tracer.StartStage(ctx, s.String())
	err := fn(sctx)
	telemetry.EndSpan(span, err)

	elapsed := time.Since(start)
	r.recorder.ObserveStage(s.String(), elapsed)
	r.logger.Debug("stage finished",
		logging.String("run_id", r.runID),
		logging.String("stage", s.String()),
		logging.Duration("elapsed", elapsed),
	)
	return err
}

type referenceAnswer struct {
	matrix recording.Matrix
	err    error
}

// computeReference calls the provider on its own goroutine so a provider that
// ignores ctx cannot hold the run past cancellation.
func (r *Runner) computeReference(ctx context.Context, in Input) (recording.Matrix, error) {
	source := in.Source
	if source.IsEmpty() {
		source = in.Candidate
	}
	req := reference.Request{
		Signal:       recording.Matrix{Channels: source.Channels, SampleRate: in.SampleRate, Names: in.names()},
		SampleRate:   in.SampleRate,
		ChannelNames: in.names(),
	}

	answer := make(chan referenceAnswer, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				answer <- referenceAnswer{err: apperrors.ComputationError{Stage: "reference", Cause: fmt.Errorf("provider panic: %v", p)}}
			}
		}()
		m, err := r.provider.ComputeReference(ctx, req)
		answer <- referenceAnswer{matrix: m, err: err}
	}()

	select {
	case a := <-answer:
		if a.err != nil {
			return recording.Matrix{}, a.err
		}
		ref := a.matrix
		if ref.SampleRate == 0 {
			ref.SampleRate = in.SampleRate
		}
		if err := ref.Validate(); err != nil {
			return recording.Matrix{}, apperrors.WrapError(err, "reference")
		}
		return ref, nil
	case <-ctx.Done():
		return recording.Matrix{}, ctx.Err()
	}
}

// fail converts err into a Failure. Context errors become a TimeoutError for
// deadlines.
func (r *Runner) fail(err error) Failure {
	if errors.Is(err, context.DeadlineExceeded) {
		err = apperrors.TimeoutError{Operation: "validation"}
	}
	return Failure{RunID: r.runID, Reason: "validation error: " + err.Error(), Err: err}
}

// Validate runs one validation to completion and returns its outcome. The
// error is non-nil only when the run could not be started.
func Validate(ctx context.Context, provider reference.Provider, in Input, opts ...Option) (Outcome, error) {
	events, err := NewRunner(provider, opts...).Start(ctx, in)
	if err != nil {
		return nil, err
	}
	return Wait(events), nil
}
