package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// spinnerModel shows a spinner until the work it waits on reports back
type spinnerModel struct {
	spinner  spinner.Model
	message  string
	cancel   context.CancelFunc
	quitting bool
}

// doneMsg signals that the wrapped work returned
type doneMsg struct{}

func newSpinnerModel(message string, cancel context.CancelFunc) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle
	return spinnerModel{
		spinner: s,
		message: message,
		cancel:  cancel,
	}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// The terminal is in raw mode, so Ctrl-C arrives as a key
		if msg.String() == "ctrl+c" {
			m.cancel()
			m.quitting = true
			return m, tea.Quit
		}
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.quitting {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.message)
}

// WithSpinner runs fn while a spinner shows message. Unless w is a terminal
// (and stdin is one for Ctrl-C) the message is printed to w once instead.
// Ctrl-C cancels the context passed to fn.
func WithSpinner[T any](ctx context.Context, w io.Writer, message string, fn func(context.Context) (T, error)) (T, error) {
	if !canSpin(w) {
		fmt.Fprintln(w, message)
		return fn(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var result T
	var execErr error
	done := make(chan struct{})

	p := tea.NewProgram(newSpinnerModel(message, cancel), tea.WithOutput(w))

	go func() {
		defer close(done)
		result, execErr = fn(ctx)
		p.Send(doneMsg{})
	}()

	if _, err := p.Run(); err != nil {
		// A spinner failure does not abandon the work
		fmt.Fprintln(w, message)
	}
	<-done

	return result, execErr
}

// canSpin reports whether w is a terminal that can be redrawn in place
func canSpin(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && IsTerminal(f) && IsTerminal(os.Stdin)
}
