package telemetry

import (
	"context"
	"errors"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/sigvalid/internal/errors"
)

// TracerName is the instrumentation name of validator spans.
const TracerName = "sigvalid.orchestration"

// Tracer opens the spans of validation runs.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer returns a Tracer backed by tp, or by the global provider when tp
// is nil.
func NewTracer(tp trace.TracerProvider) Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return Tracer{tracer: tp.Tracer(TracerName)}
}

// FileProvider is a TracerProvider exporting every span as JSON to a file.
type FileProvider struct {
	*sdktrace.TracerProvider
	file *os.File
}

// NewFileProvider creates path and returns a provider writing spans to it.
// Spans are batched until Shutdown.
func NewFileProvider(path string) (*FileProvider, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, apperrors.IOError{Op: "create trace file", Path: path, Cause: err}
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(f))
	if err != nil {
		f.Close()
		return nil, apperrors.IOError{Op: "create trace exporter", Path: path, Cause: err}
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	return &FileProvider{TracerProvider: tp, file: f}, nil
}

// Shutdown flushes pending spans and closes the file.
func (p *FileProvider) Shutdown(ctx context.Context) error {
	err := errors.Join(p.TracerProvider.Shutdown(ctx), p.file.Close())
	if err != nil {
		return apperrors.IOError{Op: "write trace file", Path: p.file.Name(), Cause: err}
	}
	return nil
}

// StartRun opens the span covering one validation run.
func (t Tracer) StartRun(ctx context.Context, runID string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "validation.Run",
		trace.WithAttributes(attribute.String("run.id", runID)),
	)
}

// StartStage opens a child span for one pipeline stage.
func (t Tracer) StartStage(ctx context.Context, stage string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "validation."+stage,
		trace.WithAttributes(attribute.String("stage", stage)),
	)
}

// EndSpan marks span as failed when err is non-nil and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
