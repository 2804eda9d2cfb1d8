package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/sigvalid/internal/comparison"
	"github.com/agbru/sigvalid/internal/ui"
)

// Style variables for the TUI.
// Initialized from the ui theme system via initTUIStyles().
var (
	panelStyle       lipgloss.Style
	headerStyle      lipgloss.Style
	titleStyle       lipgloss.Style
	versionStyle     lipgloss.Style
	elapsedStyle     lipgloss.Style
	barStyle         lipgloss.Style
	barEmptyStyle    lipgloss.Style
	stageDoneStyle   lipgloss.Style
	stagePendStyle   lipgloss.Style
	errorStyle       lipgloss.Style
	footerKeyStyle   lipgloss.Style
	footerDescStyle  lipgloss.Style
	verdictGoodStyle lipgloss.Style
	verdictModStyle  lipgloss.Style
	verdictPoorStyle lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all TUI styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has been invoked.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text).
		Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	versionStyle = lipgloss.NewStyle().Foreground(t.Dim)
	elapsedStyle = lipgloss.NewStyle().Foreground(t.Accent)
	barStyle = lipgloss.NewStyle().Foreground(t.Accent)
	barEmptyStyle = lipgloss.NewStyle().Foreground(t.Dim)
	stageDoneStyle = lipgloss.NewStyle().Foreground(t.Success)
	stagePendStyle = lipgloss.NewStyle().Foreground(t.Dim)

	errorStyle = lipgloss.NewStyle().
		Foreground(t.Error).
		Bold(true)

	footerKeyStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)
	footerDescStyle = lipgloss.NewStyle().Foreground(t.Dim)

	verdictGoodStyle = lipgloss.NewStyle().Foreground(t.Success).Bold(true)
	verdictModStyle = lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
	verdictPoorStyle = lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func verdictStyle(v comparison.Verdict) lipgloss.Style {
	switch v {
	case comparison.Excellent, comparison.Good:
		return verdictGoodStyle
	case comparison.Moderate:
		return verdictModStyle
	}
	return verdictPoorStyle
}
