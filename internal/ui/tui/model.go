package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/eksforge/eksforge/internal/orchestration"
)

// phaseState is the display state of a single phase row.
type phaseState int

const (
	statePending phaseState = iota
	stateActive
	stateDone
	stateSkipped
	stateFailed
)

// phaseRow is a reconcile phase for display.
type phaseRow struct {
	Key     string
	Name    string
	State   phaseState
	Message string
	Err     error
}

// phaseNames maps phase keys to display names.
var phaseNames = map[string]string{
	orchestration.PhaseIAMRoles:   "IAM Roles",
	orchestration.PhaseNetwork:    "Network",
	orchestration.PhaseCluster:    "Control Plane",
	orchestration.PhaseLogging:    "Control-Plane Logging",
	orchestration.PhaseIdentity:   "OIDC & IRSA",
	orchestration.PhaseSSHKeys:    "SSH Keys",
	orchestration.PhaseNodeGroups: "Node Groups",
	orchestration.PhaseKubeconfig: "Kubeconfig",
	orchestration.PhaseAddons:     "Addons",
	orchestration.PhaseSnapshot:   "Snapshot",
}

// Model is the Bubble Tea model for the provisioning dashboard.
type Model struct {
	ClusterName string
	Region      string

	// Mode is "apply" or "destroy".
	Mode string

	Phases []phaseRow

	SpinnerFrame int
	StartTime    time.Time

	Width  int
	Height int
	Err    error
	Done   bool
}

func phaseRows(keys []string) []phaseRow {
	rows := make([]phaseRow, len(keys))
	for i, key := range keys {
		name := phaseNames[key]
		if name == "" {
			name = key
		}
		rows[i] = phaseRow{Key: key, Name: name}
	}
	return rows
}

// NewApplyModel creates a model for the apply command.
func NewApplyModel(clusterName, region string) Model {
	return Model{
		ClusterName: clusterName,
		Region:      region,
		Mode:        "apply",
		StartTime:   time.Now(),
		Phases:      phaseRows(orchestration.ApplyPhases()),
	}
}

// NewDestroyModel creates a model for the destroy command.
func NewDestroyModel(clusterName, region string) Model {
	return Model{
		ClusterName: clusterName,
		Region:      region,
		Mode:        "destroy",
		StartTime:   time.Now(),
		Phases:      phaseRows(orchestration.DestroyPhases()),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case PhaseMsg:
		m.updatePhase(msg)
		if msg.Err != nil {
			m.Err = msg.Err
			return m, tea.Quit
		}

	case TickMsg:
		m.SpinnerFrame++
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) updatePhase(msg PhaseMsg) {
	idx := -1
	for i, row := range m.Phases {
		if row.Key == msg.Phase {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	// Everything before the reported phase has finished.
	for i := 0; i < idx; i++ {
		if m.Phases[i].State == stateActive || m.Phases[i].State == statePending {
			m.Phases[i].State = stateDone
		}
	}

	row := &m.Phases[idx]
	switch msg.Status {
	case orchestration.StatusStarted:
		row.State = stateActive
	case orchestration.StatusDone:
		// A skip note sticks; done just confirms the phase finished.
		if row.State != stateSkipped {
			row.State = stateDone
		}
	case orchestration.StatusSkipped:
		row.State = stateSkipped
		row.Message = msg.Message
	case orchestration.StatusFailed:
		row.State = stateFailed
		row.Err = msg.Err
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
