package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/agbru/sigvalid/internal/comparison"
	"github.com/agbru/sigvalid/internal/format"
	"github.com/agbru/sigvalid/internal/history"
	"github.com/agbru/sigvalid/internal/ui"
)

const shortIDLen = 8

var historyHeaders = []string{"Started", "Run", "Verdict", "Corr", "NRMSE %", "Channels", "Elapsed", "Reason"}

// PresentHistory prints recorded runs as an aligned table, newest first.
// Padding is computed on the plain text so color codes do not skew columns.
func PresentHistory(out io.Writer, runs []history.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(out, "No recorded runs.")
		return
	}

	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = historyRow(r)
	}
	widths := make([]int, len(historyHeaders))
	for i, h := range historyHeaders {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	cells := make([]string, len(historyHeaders))
	for i, h := range historyHeaders {
		cells[i] = ui.Colorize(ui.ColorUnderline(), h) + padRight("", widths[i]-runewidth.StringWidth(h))
	}
	fmt.Fprintln(out, strings.TrimRight(strings.Join(cells, "  "), " "))

	for n, row := range rows {
		for i, cell := range row {
			colored := cell
			if i == 2 {
				colored = ui.Colorize(historyVerdictColor(runs[n]), cell)
			}
			cells[i] = colored + padRight("", widths[i]-runewidth.StringWidth(cell))
		}
		fmt.Fprintln(out, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}

func historyRow(r history.Run) []string {
	id := r.ID
	if len(id) > shortIDLen {
		id = id[:shortIDLen]
	}
	row := []string{format.Timestamp(r.StartedAt), id, "FAILED", "-", "-", strconv.Itoa(r.Channels), format.Elapsed(r.Elapsed), r.Reason}
	if r.Succeeded {
		row[2] = r.Verdict
		row[3] = strconv.FormatFloat(r.Correlation, 'f', 4, 64)
		row[4] = strconv.FormatFloat(r.NRMSEPercent, 'f', 2, 64)
	}
	return row
}

func historyVerdictColor(r history.Run) string {
	if !r.Succeeded {
		return ui.ColorRed()
	}
	v, err := comparison.ParseVerdict(r.Verdict)
	if err != nil {
		return ""
	}
	return VerdictColor(v)
}

// padRight appends length spaces to s.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + strings.Repeat(" ", length)
}
