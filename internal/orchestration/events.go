package orchestration

// Phase names, in apply order.
const (
	PhaseIAMRoles   = "iam-roles"
	PhaseNetwork    = "network"
	PhaseCluster    = "cluster"
	PhaseLogging    = "logging"
	PhaseIdentity   = "identity"
	PhaseSSHKeys    = "ssh-keys"
	PhaseNodeGroups = "node-groups"
	PhaseKubeconfig = "kubeconfig"
	PhaseAddons     = "addons"
	PhaseSnapshot   = "snapshot"
)

// ApplyPhases lists the apply phases in execution order.
func ApplyPhases() []string {
	return []string{
		PhaseIAMRoles,
		PhaseNetwork,
		PhaseCluster,
		PhaseLogging,
		PhaseIdentity,
		PhaseSSHKeys,
		PhaseNodeGroups,
		PhaseKubeconfig,
		PhaseAddons,
		PhaseSnapshot,
	}
}

// DestroyPhases lists the destroy phases in execution order.
func DestroyPhases() []string {
	return []string{
		PhaseAddons,
		PhaseNodeGroups,
		PhaseSSHKeys,
		PhaseCluster,
		PhaseIdentity,
		PhaseIAMRoles,
	}
}

// Status is the lifecycle state of a phase.
type Status string

const (
	StatusStarted Status = "started"
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Event reports phase progress.
type Event struct {
	Phase  string
	Status Status
	// Message carries detail for skipped phases.
	Message string
	Err     error
}

// Reporter consumes phase events. Implementations must not block.
type Reporter func(Event)
