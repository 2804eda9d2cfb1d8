package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agbru/sigvalid/internal/comparison"
	"github.com/agbru/sigvalid/internal/orchestration"
	"github.com/agbru/sigvalid/internal/ui"
)

const sampleReport = "VALIDATION REPORT\n\nVERDICT\nGOOD: differences are small, the result is valid.\n"

// Presenter tests switch the global theme and do not run in parallel.

func TestPresenter_Success(t *testing.T) {
	defer ui.SetCurrentTheme(ui.GetCurrentTheme())
	ui.SetCurrentTheme(ui.NoColorTheme)

	var out bytes.Buffer
	p := Presenter{Out: &out}
	p.OnOutcome(orchestration.Success{
		RunID:  "run-1",
		Result: comparison.Result{Verdict: comparison.Good},
		Report: sampleReport,
	})

	assert.Equal(t, sampleReport+"\n\nRun run-1\n", out.String())
}

func TestPresenter_SuccessHighlightsVerdict(t *testing.T) {
	defer ui.SetCurrentTheme(ui.GetCurrentTheme())
	ui.SetCurrentTheme(ui.DarkTheme)

	var out bytes.Buffer
	Presenter{Out: &out}.PresentSuccess(orchestration.Success{
		Result: comparison.Result{Verdict: comparison.Good},
		Report: sampleReport,
	})

	line := comparison.Good.Line()
	assert.Contains(t, out.String(), ui.DarkTheme.Success+line+ui.DarkTheme.Reset)
}

func TestPresenter_Quiet(t *testing.T) {
	defer ui.SetCurrentTheme(ui.GetCurrentTheme())
	ui.SetCurrentTheme(ui.NoColorTheme)

	var out bytes.Buffer
	Presenter{Out: &out, Quiet: true}.OnOutcome(orchestration.Success{
		Result: comparison.Result{Verdict: comparison.Moderate},
		Report: sampleReport,
	})
	assert.Equal(t, "MODERATE\n", out.String())
}

func TestPresenter_FailureGoesToErr(t *testing.T) {
	defer ui.SetCurrentTheme(ui.GetCurrentTheme())
	ui.SetCurrentTheme(ui.NoColorTheme)

	var out, errOut bytes.Buffer
	Presenter{Out: &out, Err: &errOut}.OnOutcome(orchestration.Failure{Reason: "reference file ref.csv not found"})

	assert.Empty(t, out.String())
	assert.Equal(t, "VALIDATION ERROR:\n\nreference file ref.csv not found\n", errOut.String())
}

func TestVerdictColor(t *testing.T) {
	defer ui.SetCurrentTheme(ui.GetCurrentTheme())
	ui.SetCurrentTheme(ui.DarkTheme)

	assert.Equal(t, ui.DarkTheme.Success, VerdictColor(comparison.Excellent))
	assert.Equal(t, ui.DarkTheme.Success, VerdictColor(comparison.Good))
	assert.Equal(t, ui.DarkTheme.Warning, VerdictColor(comparison.Moderate))
	assert.Equal(t, ui.DarkTheme.Error, VerdictColor(comparison.Poor))
}
