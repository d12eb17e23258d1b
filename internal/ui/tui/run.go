package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/eksforge/eksforge/internal/orchestration"
)

// IsTTY reports whether stdout is an interactive terminal. Plain log
// output is used otherwise.
func IsTTY() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Run wraps a reconcile flow with the dashboard. workFn receives a
// reporter that feeds the display and runs in a background goroutine; Run
// returns workFn's error, or the display error if the UI itself failed.
func Run(m Model, workFn func(report orchestration.Reporter) error) error {
	p := tea.NewProgram(m, tea.WithAltScreen())

	done := make(chan error, 1)
	go func() {
		err := workFn(func(ev orchestration.Event) {
			p.Send(PhaseMsg{Phase: ev.Phase, Status: ev.Status, Message: ev.Message, Err: ev.Err})
		})
		if err != nil {
			p.Send(ErrMsg{Err: err})
		} else {
			p.Send(DoneMsg{})
		}
		done <- err
	}()

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("display error: %w", err)
	}

	if workErr := <-done; workErr != nil {
		return workErr
	}
	if fm, ok := finalModel.(Model); ok && fm.Err != nil {
		return fm.Err
	}
	return nil
}
