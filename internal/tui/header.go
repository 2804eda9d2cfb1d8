package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/sigvalid/internal/format"
)

// HeaderModel renders the top bar: title, version, run ID and elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	runID     string
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version, runID string) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		runID:     runID,
	}
}

// SetDone freezes the elapsed timer at the current time.
func (h *HeaderModel) SetDone() {
	if h.endTime.IsZero() {
		h.endTime = time.Now()
	}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the time since the run started, frozen once done.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "Signal Validator"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := versionStyle.Render(" | ")

	parts := []string{titleStyle.Render(titleText)}
	if h.runID != "" {
		parts = append(parts, versionStyle.Render("run "+h.runID))
	}
	parts = append(parts, elapsedStyle.Render(fmt.Sprintf("Elapsed: %s", format.Elapsed(h.Elapsed()))))
	row := strings.Join(parts, pipe)

	if gap := h.width - 2 - lipgloss.Width(row); gap > 0 {
		row += strings.Repeat(" ", gap)
	}
	return headerStyle.Render(row)
}
