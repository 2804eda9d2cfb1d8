package cli

import (
	"fmt"
	"io"

	"github.com/briandowns/spinner"

	"github.com/agbru/sigvalid/internal/orchestration"
)

// ProgressDisplay shows a spinner with a progress bar while a run is in
// flight, then hands the outcome to its Presenter.
type ProgressDisplay struct {
	out       io.Writer
	presenter Presenter
	spinner   Spinner
}

var _ orchestration.Consumer = (*ProgressDisplay)(nil)

// NewProgressDisplay returns a display writing the spinner to out.
func NewProgressDisplay(out io.Writer, presenter Presenter) *ProgressDisplay {
	return &ProgressDisplay{out: out, presenter: presenter}
}

// OnProgress starts the spinner on the first event and updates its text.
func (d *ProgressDisplay) OnProgress(ev orchestration.ProgressEvent) {
	if d.spinner == nil {
		d.spinner = newSpinner(spinner.WithWriter(d.out))
		d.spinner.Start()
	}
	d.spinner.UpdateSuffix(FormatProgress(ev))
}

// OnOutcome stops the spinner before presenting the outcome.
func (d *ProgressDisplay) OnOutcome(outcome orchestration.Outcome) {
	if d.spinner != nil {
		d.spinner.Stop()
		d.spinner = nil
	}
	d.presenter.OnOutcome(outcome)
}

// FormatProgress renders a progress event as the spinner suffix.
func FormatProgress(ev orchestration.ProgressEvent) string {
	return fmt.Sprintf(" %s %3d%% %s", progressBar(float64(ev.Percent)/100, ProgressBarWidth), ev.Percent, ev.Label())
}

// NewConsumer picks the consumer for a CLI run: the bare presenter in quiet
// mode, the spinner display otherwise.
func NewConsumer(out, errOut io.Writer, quiet bool) orchestration.Consumer {
	p := Presenter{Out: out, Err: errOut, Quiet: quiet}
	if quiet {
		return p
	}
	return NewProgressDisplay(errOut, p)
}
