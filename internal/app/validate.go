package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agbru/sigvalid/internal/cli"
	"github.com/agbru/sigvalid/internal/config"
	apperrors "github.com/agbru/sigvalid/internal/errors"
	"github.com/agbru/sigvalid/internal/history"
	"github.com/agbru/sigvalid/internal/logging"
	"github.com/agbru/sigvalid/internal/orchestration"
	"github.com/agbru/sigvalid/internal/recording"
	"github.com/agbru/sigvalid/internal/reference"
	"github.com/agbru/sigvalid/internal/telemetry"
	"github.com/agbru/sigvalid/internal/tui"
	"github.com/agbru/sigvalid/internal/ui"
)

func (a *Application) newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Compare a candidate signal with a reference computation",
		Long: `Compare a candidate signal with a reference computation.

The reference is either a precomputed CSV file (--reference) or the output of
a command that reads the source signal as CSV on stdin and writes the
reference as CSV on stdout (--reference-cmd).

Exit codes: 0 success, 1 error, 2 timeout, 3 verdict below --min-verdict,
4 configuration error, 5 reference unavailable, 6 I/O error, 130 canceled.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Resolve(&a.cfg, cmd.Flags(), a.configPath); err != nil {
				return err
			}
			return a.runValidate(cmd.Context())
		},
	}
	config.BindFlags(cmd.Flags(), &a.cfg)
	return cmd
}

// runValidate performs one validation with the resolved configuration.
func (a *Application) runValidate(ctx context.Context) (err error) {
	cfg := a.cfg
	ui.InitTheme(cfg.NoColor)

	in, err := loadInput(cfg)
	if err != nil {
		return err
	}
	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}

	if cfg.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, cfg.Timeout)
		defer cancelTimeout()
	}
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	metrics := telemetry.NewMetrics()
	opts := []orchestration.Option{
		orchestration.WithLogger(a.newLogger(cfg)),
		orchestration.WithRecorder(metrics),
		orchestration.WithWorkers(cfg.EffectiveWorkers()),
	}
	if cfg.TraceFile != "" {
		tp, tpErr := telemetry.NewFileProvider(cfg.TraceFile)
		if tpErr != nil {
			return tpErr
		}
		defer func() {
			if shutdownErr := tp.Shutdown(context.WithoutCancel(ctx)); err == nil {
				err = shutdownErr
			}
		}()
		opts = append(opts, orchestration.WithTracerProvider(tp))
	}
	runner := orchestration.NewRunner(provider, opts...)

	started := time.Now()
	outcome, err := a.present(ctx, runner, in)
	if err != nil {
		return err
	}
	elapsed := time.Since(started)

	// Persistence runs even when the run was canceled.
	persistCtx := context.WithoutCancel(ctx)
	if err := a.persist(persistCtx, cfg, runner.RunID(), started, elapsed, outcome, metrics); err != nil {
		return err
	}
	return verdictGate(cfg, outcome)
}

// present runs the validation through the CLI or TUI consumer.
func (a *Application) present(ctx context.Context, runner *orchestration.Runner, in orchestration.Input) (orchestration.Outcome, error) {
	if a.cfg.TUI {
		outcome, err := tui.Run(ctx, runner, in, Version)
		if err != nil {
			return nil, err
		}
		// The alternate screen is gone once the TUI exits; leave the report
		// in the terminal.
		cli.Presenter{Out: a.Out, Err: a.ErrOut}.OnOutcome(outcome)
		return outcome, nil
	}

	events, err := runner.Start(ctx, in)
	if err != nil {
		return nil, err
	}
	return orchestration.Dispatch(events, cli.NewConsumer(a.Out, a.ErrOut, a.cfg.Quiet)), nil
}

// persist saves the report, records the run and writes the metrics
// textfile, as configured.
func (a *Application) persist(ctx context.Context, cfg config.AppConfig, runID string, started time.Time, elapsed time.Duration,
	outcome orchestration.Outcome, metrics *telemetry.Metrics) error {
	if s, ok := outcome.(orchestration.Success); ok {
		if err := cli.SaveReport(a.ErrOut, cfg.Output, s.Report, cfg.Quiet); err != nil {
			return err
		}
	}
	if cfg.History != "" {
		if err := recordHistory(ctx, cfg, historyRun(cfg, runID, started, elapsed, outcome)); err != nil {
			return err
		}
	}
	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			return err
		}
	}
	return nil
}

// verdictGate turns the outcome into the command's error: the Failure
// itself, a VerdictError below the configured minimum, or nil.
func verdictGate(cfg config.AppConfig, outcome orchestration.Outcome) error {
	switch o := outcome.(type) {
	case orchestration.Failure:
		return o
	case orchestration.Success:
		if minimum, ok := cfg.MinimumVerdict(); ok && !o.Result.Verdict.AtLeast(minimum) {
			return apperrors.VerdictError{Verdict: o.Result.Verdict.String(), Minimum: minimum.String()}
		}
	}
	return nil
}

func loadInput(cfg config.AppConfig) (orchestration.Input, error) {
	candidate, err := recording.LoadCSV(cfg.Candidate, cfg.SampleRate)
	if err != nil {
		return orchestration.Input{}, err
	}
	in := orchestration.Input{
		Candidate:    candidate,
		SampleRate:   cfg.SampleRate,
		ChannelNames: cfg.Channels,
	}
	if cfg.Source != "" {
		if in.Source, err = recording.LoadCSV(cfg.Source, cfg.SampleRate); err != nil {
			return orchestration.Input{}, err
		}
	}
	return in, nil
}

func newProvider(cfg config.AppConfig) (reference.Provider, error) {
	if cfg.ReferenceCmd != "" {
		return reference.ParseCommand(cfg.ReferenceCmd)
	}
	return reference.FileProvider{Path: cfg.Reference}, nil
}

// newLogger returns a console logger on ErrOut. The TUI owns the terminal,
// so its runs log nothing.
func (a *Application) newLogger(cfg config.AppConfig) logging.Logger {
	if cfg.TUI {
		return logging.NopLogger{}
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	console := zerolog.ConsoleWriter{
		Out:        a.ErrOut,
		NoColor:    cfg.NoColor || ui.GetCurrentTheme().Name == ui.NoColorTheme.Name,
		TimeFormat: time.RFC3339,
	}
	return logging.NewLogger(console, "validate").WithLevel(level)
}

func historyRun(cfg config.AppConfig, runID string, started time.Time, elapsed time.Duration, outcome orchestration.Outcome) history.Run {
	run := history.Run{
		ID:        runID,
		StartedAt: started,
		Candidate: cfg.Candidate,
		Reference: cfg.Reference,
		Elapsed:   elapsed,
	}
	if run.Reference == "" {
		run.Reference = cfg.ReferenceCmd
	}
	switch o := outcome.(type) {
	case orchestration.Success:
		run.Succeeded = true
		run.Channels = len(o.Result.Channels)
		run.Verdict = o.Result.Verdict.String()
		run.Correlation = o.Result.Summary.Correlation
		run.NRMSEPercent = o.Result.Summary.NRMSEPercent
	case orchestration.Failure:
		run.Reason = o.Reason
	}
	return run
}

func recordHistory(ctx context.Context, cfg config.AppConfig, run history.Run) error {
	store, err := history.Open(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(ctx, run)
}
