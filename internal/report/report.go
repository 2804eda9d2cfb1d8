// Package report renders a comparison result as a deterministic fixed-width
// text report and persists it verbatim.
package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/agbru/sigvalid/internal/comparison"
	apperrors "github.com/agbru/sigvalid/internal/errors"
	"github.com/agbru/sigvalid/internal/recording"
)

const (
	// Title is the first line of every report.
	Title = "VALIDATION REPORT"
	// Disclaimer is the last line of every report.
	Disclaimer = "Note: this comparison with the reference is not a medical conclusion."
	// EmptyReport is rendered for a result without compared channels.
	EmptyReport = "No comparison data."

	ruleWidth     = 34
	minLabelWidth = 12
	labelHeader   = "Channel"
)

var recommendations = []string{
	"If correlation is low, check HPF/LPF settings, the order of operations and the notch filter.",
	"If RMSE/NRMSE are high, check scaling (uV), DC offset and detrending.",
	"If the traces diverge in phase, check zero-phase (filtfilt) versus causal (lfilter) filtering.",
}

// Build renders result. Channel labels come from names when the channel
// index is in bounds and fall back to "Channel {index}".
//
// The output depends only on its inputs: identical arguments yield
// byte-identical text. Non-finite values are reported as a ComputationError.
func Build(result comparison.Result, names []string) (string, error) {
	if len(result.Channels) == 0 {
		return EmptyReport, nil
	}
	if err := checkFinite(result); err != nil {
		return "", err
	}

	labels := make([]string, len(result.Channels))
	width := minLabelWidth
	for i, c := range result.Channels {
		labels[i] = recording.ChannelLabel(names, c.Channel)
		width = max(width, runewidth.StringWidth(labels[i])+2)
	}

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}
	section := func(name string) {
		line("")
		line("%s", name)
		line("%s", strings.Repeat("-", ruleWidth))
	}

	s := result.Summary
	line("%s", Title)
	line("%s", strings.Repeat("=", ruleWidth))
	line("Channels compared: %d", len(result.Channels))
	line("Fs: %s Hz", strconv.FormatFloat(result.SampleRate, 'f', -1, 64))

	section("SUMMARY")
	line("Mean correlation: %.4f", s.Correlation)
	line("Mean R²:          %.4f", s.RSquared)
	line("Mean RMSE:        %.6f", s.RMSE)
	line("Mean MAE:         %.6f", s.MAE)
	line("Mean NRMSE:       %.2f %%", s.NRMSEPercent)

	section("VERDICT")
	line("%s", result.Verdict.Line())

	section("PER-CHANNEL DETAILS")
	header := runewidth.FillRight(labelHeader, width) +
		fmt.Sprintf("%10s%10s%12s%12s%10s", "Corr", "R2", "RMSE", "MAE", "NRMSE%")
	line("%s", header)
	line("%s", strings.Repeat("-", runewidth.StringWidth(header)))
	for i, c := range result.Channels {
		line("%s%10.4f%10.4f%12.6f%12.6f%10.2f",
			runewidth.FillRight(labels[i], width),
			c.Correlation, c.RSquared, c.RMSE, c.MAE, c.NRMSEPercent)
	}

	section("RECOMMENDATIONS")
	for _, r := range recommendations {
		line("* %s", r)
	}
	line("")
	b.WriteString(Disclaimer)

	return b.String(), nil
}

func checkFinite(result comparison.Result) error {
	s := result.Summary
	values := []float64{s.Correlation, s.RSquared, s.RMSE, s.MAE, s.NRMSEPercent, result.SampleRate}
	for _, c := range result.Channels {
		values = append(values, c.Correlation, c.RSquared, c.RMSE, c.MAE, c.NRMSEPercent)
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return apperrors.ComputationError{
				Stage: "report",
				Cause: fmt.Errorf("non-finite value %v in comparison result", v),
			}
		}
	}
	return nil
}

// WriteFile persists text to path exactly as given, creating missing parent
// directories. Failures are returned as an IOError.
func WriteFile(path, text string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.IOError{Op: "create report directory", Path: dir, Cause: err}
		}
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return apperrors.IOError{Op: "write report", Path: path, Cause: err}
	}
	return nil
}
