// Package tui implements the interactive terminal front end of the
// validator with bubbletea. It shows the run's progress, then the report or
// the failure reason in a scrollable view.
package tui
