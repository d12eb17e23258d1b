// Package tui provides a Bubble Tea-based terminal UI for cluster
// provisioning progress.
package tui

import "github.com/eksforge/eksforge/internal/orchestration"

// PhaseMsg reports progress of a reconcile phase.
type PhaseMsg struct {
	Phase   string
	Status  orchestration.Status
	Message string
	Err     error
}

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// ErrMsg carries a terminal error.
type ErrMsg struct{ Err error }

// DoneMsg signals that the operation is complete.
type DoneMsg struct{}
