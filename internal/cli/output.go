package cli

import (
	"fmt"
	"io"

	"github.com/agbru/sigvalid/internal/report"
	"github.com/agbru/sigvalid/internal/ui"
)

// SaveReport writes the report text to path and confirms on out unless
// quiet. An empty path writes nothing.
func SaveReport(out io.Writer, path, text string, quiet bool) error {
	if path == "" {
		return nil
	}
	if err := report.WriteFile(path, text); err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(out, "\n%s✓ Report saved to: %s%s%s\n",
			ui.ColorGreen(), ui.ColorCyan(), path, ui.ColorReset())
	}
	return nil
}
