// Package ui provides theme and color support for the validator's terminal
// output. It defines color schemes and ANSI escape helpers shared by the CLI
// and TUI presentation layers, and honors NO_COLOR.
package ui
