package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type doneMsg struct{}

type waitModel struct {
	spinner spinner.Model
	label   string
	start   time.Time
	cancel  context.CancelFunc
	done    bool
}

func newWaitModel(label string, cancel context.CancelFunc) waitModel {
	return waitModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(SpinnerStyle)),
		label:   label,
		start:   time.Now(),
		cancel:  cancel,
	}
}

func (m waitModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m waitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancel()
			m.done = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m waitModel) View() string {
	if m.done {
		return ""
	}
	elapsed := time.Since(m.start).Round(time.Second)
	return fmt.Sprintf("%s %s %s\n", m.spinner.View(), m.label, HelpStyle.Render(fmt.Sprintf("(%s, esc to cancel)", elapsed)))
}

// Wait runs fn while showing a spinner with label on stderr. Esc or ctrl+c
// cancels fn's context. Without a terminal on stdin fn simply runs.
func Wait[T any](ctx context.Context, label string, fn func(context.Context) (T, error)) (T, error) {
	if !IsTerminal(os.Stdin) || !IsTerminal(os.Stderr) {
		return fn(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)

	p := tea.NewProgram(newWaitModel(label, cancel), tea.WithOutput(os.Stderr))
	go func() {
		v, err := fn(ctx)
		ch <- result{v, err}
		p.Send(doneMsg{})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
	}
	r := <-ch
	return r.v, r.err
}
