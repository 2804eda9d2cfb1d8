package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/sigvalid/internal/cli"
	"github.com/agbru/sigvalid/internal/orchestration"
)

// Layout constants for the TUI.
const (
	headerHeight   = 1
	progressHeight = 2
	footerHeight   = 1
	minBodyHeight  = 4
	barWidth       = 40
	tickInterval   = 500 * time.Millisecond
)

// Model is the root bubbletea model of the TUI.
type Model struct {
	header   HeaderModel
	keymap   KeyMap
	viewport viewport.Model

	ctx    context.Context
	cancel context.CancelFunc
	runner *orchestration.Runner
	input  orchestration.Input
	ref    *programRef

	percent  int
	reached  int
	outcome  orchestration.Outcome
	startErr error
	done     bool

	width  int
	height int
}

// NewModel creates a model that runs in on runner once started.
func NewModel(parentCtx context.Context, runner *orchestration.Runner, in orchestration.Input, version string) Model {
	ctx, cancel := context.WithCancel(parentCtx)
	km := DefaultKeyMap()

	vp := viewport.New(0, 0)
	vp.KeyMap.Up = km.Up
	vp.KeyMap.Down = km.Down
	vp.KeyMap.PageUp = km.PageUp
	vp.KeyMap.PageDown = km.PageDown

	return Model{
		header:   NewHeaderModel(version, runner.RunID()),
		keymap:   km,
		viewport: vp,
		ctx:      ctx,
		cancel:   cancel,
		runner:   runner,
		input:    in,
		ref:      &programRef{},
	}
}

// Init starts the run and the elapsed-time ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), startRunCmd(m.ref, m.ctx, m.runner, m.input))
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case ProgressMsg:
		m.percent = msg.Event.Percent
		m.reached = int(msg.Event.Stage) + 1
		return m, nil

	case OutcomeMsg:
		m.outcome = msg.Outcome
		m.done = true
		m.header.SetDone()
		m.viewport.SetContent(renderOutcome(msg.Outcome))
		m.viewport.GotoTop()
		return m, nil

	case StartErrorMsg:
		m.startErr = msg.Err
		m.done = true
		return m, tea.Quit

	case TickMsg:
		if m.done {
			return m, nil
		}
		return m, tickCmd()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Cancel):
		if !m.done {
			m.cancel()
		}
		return m, nil
	}

	if m.done {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) layout() {
	m.header.SetWidth(m.width)
	body := m.height - headerHeight - progressHeight - footerHeight - 2
	if body < minBodyHeight {
		body = minBodyHeight
	}
	m.viewport.Width = max(m.width-4, 0)
	m.viewport.Height = body
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	var body string
	if m.done {
		body = m.viewport.View()
	} else {
		body = m.stagesView()
	}
	panel := panelStyle.Width(max(m.width-2, 0)).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), m.progressView(), panel, m.footerView())
}

func (m Model) progressView() string {
	filled := m.percent * barWidth / 100
	bar := barStyle.Render(strings.Repeat("█", filled)) + barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
	label := ""
	if m.reached > 0 {
		label = orchestration.Stages[m.reached-1].Label()
	}
	return fmt.Sprintf(" %s %3d%% %s\n", bar, m.percent, label)
}

func (m Model) stagesView() string {
	lines := make([]string, len(orchestration.Stages))
	for i, st := range orchestration.Stages {
		if i < m.reached {
			lines[i] = stageDoneStyle.Render("✓ " + st.Label())
		} else {
			lines[i] = stagePendStyle.Render("· " + st.Label())
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) footerView() string {
	bindings := []key.Binding{m.keymap.Quit}
	if m.done {
		bindings = append(bindings, m.keymap.Up, m.keymap.Down, m.keymap.PageDown)
	} else {
		bindings = append(bindings, m.keymap.Cancel)
	}
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		h := b.Help()
		parts[i] = footerKeyStyle.Render(h.Key) + " " + footerDescStyle.Render(h.Desc)
	}
	return " " + strings.Join(parts, "  ")
}

// renderOutcome returns the report with its verdict line highlighted, or
// the failure reason under the error header.
func renderOutcome(outcome orchestration.Outcome) string {
	switch o := outcome.(type) {
	case orchestration.Success:
		line := o.Result.Verdict.Line()
		return strings.Replace(o.Report, line, verdictStyle(o.Result.Verdict).Render(line), 1)
	case orchestration.Failure:
		return errorStyle.Render(cli.FailureHeader) + "\n\n" + o.Reason
	}
	return ""
}

// Outcome returns the outcome received so far, or nil.
func (m Model) Outcome() orchestration.Outcome { return m.outcome }

// Run is the public entry point for the TUI mode. It runs in on runner and
// returns its outcome once the user quits. Quitting before the outcome
// arrives cancels the run.
func Run(ctx context.Context, runner *orchestration.Runner, in orchestration.Input, version string) (orchestration.Outcome, error) {
	// Rebuild styles from the current ui theme (set by the app via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, runner, in, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	// Inject the program reference before running so the bridge can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(Model)
	if !ok {
		return nil, fmt.Errorf("unexpected final model %T", finalModel)
	}
	if m.startErr != nil {
		return nil, m.startErr
	}
	if m.outcome == nil {
		return orchestration.Failure{
			RunID:  runner.RunID(),
			Reason: "validation error: " + context.Canceled.Error(),
			Err:    context.Canceled,
		}, nil
	}
	return m.outcome, nil
}

// startRunCmd starts the run and dispatches its events through the bridge.
// The command's result is the run's outcome.
func startRunCmd(ref *programRef, ctx context.Context, runner *orchestration.Runner, in orchestration.Input) tea.Cmd {
	return func() tea.Msg {
		events, err := runner.Start(ctx, in)
		if err != nil {
			return StartErrorMsg{Err: err}
		}
		return OutcomeMsg{Outcome: orchestration.Dispatch(events, &Bridge{ref: ref})}
	}
}

// tickCmd returns a command that sends a TickMsg after tickInterval.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
