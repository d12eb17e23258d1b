package addons

import (
	"context"
	"time"

	"github.com/eksforge/eksforge/internal/addons/k8sclient"
)

// Addon is one cluster add-on under management.
type Addon interface {
	// Name returns the unique name of the add-on.
	Name() string

	// Enabled returns whether this add-on is enabled in the configuration.
	Enabled() bool

	// Dependencies returns add-on names that must be installed before this one.
	Dependencies() []string
}

// Native is an add-on installed through the EKS add-on API.
type Native interface {
	Addon

	// Spec returns the EKS add-on parameters.
	Spec() NativeSpec
}

// Renderable is an add-on delivered as Kubernetes manifests.
type Renderable interface {
	Addon

	// Manifests returns the multi-document YAML to apply.
	Manifests(ctx context.Context) ([]byte, error)
}

// Verifiable is an add-on that can confirm its workload is serving after
// installation.
type Verifiable interface {
	Addon

	// Verify blocks until the add-on serves traffic or ctx expires.
	Verify(ctx context.Context, k8s k8sclient.Client) error
}

// NativeSpec carries the parameters for one EKS add-on.
type NativeSpec struct {
	// AddonName is the EKS add-on name, e.g. "aws-ebs-csi-driver".
	AddonName string

	// Version pins the add-on version; empty selects the default version
	// for the cluster's Kubernetes version.
	Version string

	// ServiceAccountRoleARN is the IRSA role the add-on's pods assume.
	ServiceAccountRoleARN string

	// ResolveConflicts is NONE, OVERWRITE or PRESERVE.
	ResolveConflicts string
}

// InstallOptions controls add-on installation.
type InstallOptions struct {
	// Timeout bounds the whole installation pass.
	Timeout time.Duration

	// ContinueOnError installs remaining add-ons when one fails and
	// reports the collected failures at the end.
	ContinueOnError bool

	// VerifyInstallation waits for each installed add-on's workload to
	// serve before moving on. Render-only flows have no cluster to ask.
	VerifyInstallation bool

	// FieldManager identifies this tool to Server-Side Apply.
	FieldManager string
}

// DefaultInstallOptions returns the defaults used by apply.
func DefaultInstallOptions() InstallOptions {
	return InstallOptions{
		Timeout:            15 * time.Minute,
		ContinueOnError:    false,
		VerifyInstallation: true,
		FieldManager:       "eksforge",
	}
}
