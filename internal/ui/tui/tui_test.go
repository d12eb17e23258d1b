package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/eksforge/eksforge/internal/orchestration"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{30 * time.Second, "30s"},
		{90 * time.Second, "1m30s"},
		{3600 * time.Second, "1h0m"},
		{3661 * time.Second, "1h1m"},
	}
	for _, tt := range tests {
		got := formatDuration(tt.d)
		if got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestCalculateProgress_Done(t *testing.T) {
	m := Model{Done: true}
	if p := calculateProgress(m); p != 1.0 {
		t.Errorf("expected 1.0, got %v", p)
	}
}

func TestCalculateProgress_PartiallyDone(t *testing.T) {
	m := NewApplyModel("demo", "eu-central-1")
	m.Phases[0].State = stateDone
	m.Phases[1].State = stateSkipped

	p := calculateProgress(m)
	expected := 2.0 / float64(len(m.Phases))
	if p < expected-0.01 || p > expected+0.01 {
		t.Errorf("expected ~%v, got %v", expected, p)
	}
}

func TestUpdatePhase(t *testing.T) {
	m := NewApplyModel("demo", "eu-central-1")

	m.updatePhase(PhaseMsg{Phase: orchestration.PhaseCluster, Status: orchestration.StatusStarted})
	if m.Phases[2].State != stateActive {
		t.Error("expected cluster phase to be active")
	}
	// Earlier phases are implied complete.
	if m.Phases[0].State != stateDone || m.Phases[1].State != stateDone {
		t.Error("expected earlier phases to be done")
	}

	m.updatePhase(PhaseMsg{Phase: orchestration.PhaseCluster, Status: orchestration.StatusDone})
	if m.Phases[2].State != stateDone {
		t.Error("expected cluster phase to be done")
	}

	m.updatePhase(PhaseMsg{Phase: orchestration.PhaseIdentity, Status: orchestration.StatusSkipped, Message: "iam.with_oidc is disabled"})
	row := m.Phases[4]
	if row.State != stateSkipped || row.Message == "" {
		t.Errorf("expected identity phase skipped with message, got %+v", row)
	}

	// A done event after a skip keeps the skip annotation.
	m.updatePhase(PhaseMsg{Phase: orchestration.PhaseIdentity, Status: orchestration.StatusDone})
	if m.Phases[4].State != stateSkipped {
		t.Error("expected identity phase to stay skipped")
	}
}

func TestUpdatePhase_UnknownPhaseIgnored(t *testing.T) {
	m := NewApplyModel("demo", "eu-central-1")
	m.updatePhase(PhaseMsg{Phase: "bogus", Status: orchestration.StatusStarted})
	for _, row := range m.Phases {
		if row.State != statePending {
			t.Errorf("expected all phases pending, %s is %v", row.Key, row.State)
		}
	}
}

func TestView_RendersPhases(t *testing.T) {
	m := NewApplyModel("demo", "eu-central-1")
	m.Phases[0].State = stateDone
	m.Phases[1].State = stateActive

	out := m.View()
	if !strings.Contains(out, "eksforge: demo (eu-central-1)") {
		t.Errorf("missing header in view:\n%s", out)
	}
	if !strings.Contains(out, "IAM Roles") || !strings.Contains(out, "Node Groups") {
		t.Errorf("missing phase rows in view:\n%s", out)
	}
}

func TestView_Error(t *testing.T) {
	m := NewApplyModel("demo", "eu-central-1")
	m.Err = errors.New("limit exceeded")

	if out := m.View(); !strings.Contains(out, "limit exceeded") {
		t.Errorf("missing error in view:\n%s", out)
	}
}

func TestDestroyModel_ReversedPhases(t *testing.T) {
	m := NewDestroyModel("demo", "eu-central-1")
	if m.Phases[0].Key != orchestration.PhaseAddons {
		t.Errorf("expected teardown to start with addons, got %s", m.Phases[0].Key)
	}
	if m.Phases[len(m.Phases)-1].Key != orchestration.PhaseIAMRoles {
		t.Errorf("expected teardown to end with IAM roles, got %s", m.Phases[len(m.Phases)-1].Key)
	}
}
