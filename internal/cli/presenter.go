package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/sigvalid/internal/comparison"
	"github.com/agbru/sigvalid/internal/orchestration"
	"github.com/agbru/sigvalid/internal/ui"
)

// FailureHeader introduces the reason of a failed run in place of a report.
const FailureHeader = "VALIDATION ERROR:"

// Presenter writes the outcome of a run to the terminal. It implements
// orchestration.Consumer and ignores progress events.
type Presenter struct {
	// Out receives reports. Err receives failures; it defaults to Out.
	Out io.Writer
	Err io.Writer
	// Quiet prints only the verdict token on success.
	Quiet bool
}

var _ orchestration.Consumer = Presenter{}

// OnProgress does nothing.
func (Presenter) OnProgress(orchestration.ProgressEvent) {}

// OnOutcome presents a Success or a Failure.
func (p Presenter) OnOutcome(outcome orchestration.Outcome) {
	switch o := outcome.(type) {
	case orchestration.Success:
		p.PresentSuccess(o)
	case orchestration.Failure:
		p.PresentFailure(o)
	}
}

// PresentSuccess prints the report with its verdict line highlighted, or just
// the verdict token in quiet mode.
func (p Presenter) PresentSuccess(s orchestration.Success) {
	if p.Quiet {
		fmt.Fprintln(p.Out, s.Result.Verdict)
		return
	}
	line := s.Result.Verdict.Line()
	text := strings.Replace(s.Report, line, ui.Colorize(VerdictColor(s.Result.Verdict), line), 1)
	fmt.Fprintln(p.Out, text)
	if s.RunID != "" {
		fmt.Fprintf(p.Out, "\n%sRun %s%s\n", ui.ColorGrey(), s.RunID, ui.ColorReset())
	}
}

// PresentFailure prints the failure reason under FailureHeader.
func (p Presenter) PresentFailure(f orchestration.Failure) {
	w := p.Err
	if w == nil {
		w = p.Out
	}
	fmt.Fprintf(w, "%s\n\n%s\n", ui.Colorize(ui.ColorRed()+ui.ColorBold(), FailureHeader), f.Reason)
}

// VerdictColor returns the theme color for a verdict.
func VerdictColor(v comparison.Verdict) string {
	switch v {
	case comparison.Excellent, comparison.Good:
		return ui.ColorGreen()
	case comparison.Moderate:
		return ui.ColorYellow()
	}
	return ui.ColorRed()
}
