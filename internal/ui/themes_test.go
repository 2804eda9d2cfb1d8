package ui

import (
	"testing"
)

// Theme tests mutate the package-level theme and do not run in parallel.

func TestInitTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	t.Run("no-color flag", func(t *testing.T) {
		InitTheme(true)
		if got := GetCurrentTheme().Name; got != "none" {
			t.Errorf("theme = %q, want none", got)
		}
		if ColorRed() != "" || ColorReset() != "" {
			t.Error("colors should be empty when disabled")
		}
		if GetCurrentTUITheme() != NoColorTUITheme {
			t.Error("TUI theme should be NoColorTUITheme")
		}
	})

	t.Run("NO_COLOR environment", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		InitTheme(false)
		if got := GetCurrentTheme().Name; got != "none" {
			t.Errorf("theme = %q, want none", got)
		}
	})

	t.Run("default dark", func(t *testing.T) {
		InitTheme(false)
		if got := GetCurrentTheme().Name; got != "dark" {
			t.Skipf("NO_COLOR is set in the test environment (theme %q)", got)
		}
		if ColorGreen() != DarkTheme.Success {
			t.Error("ColorGreen should follow the dark theme")
		}
		if GetCurrentTUITheme() != DarkTUITheme {
			t.Error("TUI theme should be DarkTUITheme")
		}
	})
}

func TestColorize(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	SetCurrentTheme(DarkTheme)
	if got := Colorize(ColorRed(), "POOR"); got != DarkTheme.Error+"POOR"+DarkTheme.Reset {
		t.Errorf("Colorize = %q", got)
	}

	SetCurrentTheme(NoColorTheme)
	if got := Colorize(ColorRed(), "POOR"); got != "POOR" {
		t.Errorf("Colorize without colors = %q, want POOR", got)
	}
}
