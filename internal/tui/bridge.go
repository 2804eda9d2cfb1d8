package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/sigvalid/internal/orchestration"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the bridge can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe). It is a no-op
// until a program is set.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// Bridge forwards progress events to the TUI as ProgressMsg. The outcome is
// delivered as the result of the command that ran the validation, after
// every progress message.
type Bridge struct {
	ref *programRef
}

var _ orchestration.Consumer = (*Bridge)(nil)

// OnProgress sends a ProgressMsg.
func (b *Bridge) OnProgress(ev orchestration.ProgressEvent) {
	b.ref.Send(ProgressMsg{Event: ev})
}

// OnOutcome does nothing.
func (b *Bridge) OnOutcome(orchestration.Outcome) {}
