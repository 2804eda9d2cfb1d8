// Package format holds small display helpers shared by the CLI and TUI.
package format

import (
	"fmt"
	"strconv"
	"time"
)

// Elapsed formats a run duration for display. Sub-millisecond durations are
// shown in microseconds, sub-second ones in milliseconds, and longer ones are
// rounded to the millisecond.
func Elapsed(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(time.Millisecond).String()
}

// SampleRate formats a sampling frequency in hertz without trailing zeros.
func SampleRate(hz float64) string {
	return strconv.FormatFloat(hz, 'f', -1, 64) + " Hz"
}

// Timestamp formats a history timestamp in the local time zone.
func Timestamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}
