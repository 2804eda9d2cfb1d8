package tui

import (
	"time"

	"github.com/agbru/sigvalid/internal/orchestration"
)

// ProgressMsg carries a progress event of the running validation.
type ProgressMsg struct {
	Event orchestration.ProgressEvent
}

// OutcomeMsg carries the terminal outcome of the run.
type OutcomeMsg struct {
	Outcome orchestration.Outcome
}

// StartErrorMsg reports that the run could not be started.
type StartErrorMsg struct {
	Err error
}

// TickMsg refreshes the elapsed time.
type TickMsg time.Time
