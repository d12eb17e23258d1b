// Package orchestration coordinates the cluster provisioning workflow.
//
// It defines the execution order and coordinates state flow between
// phases, delegating the actual work to the platform and addon layers.
//
// # Workflow
//
// Apply executes the following phases in order:
//  1. IAM roles - cluster service role and node instance role
//  2. Network - default VPC subnet discovery
//  3. Cluster - control plane creation and activation
//  4. Logging - control-plane log type reconciliation
//  5. Identity - OIDC provider and IAM roles for service accounts
//  6. SSH keys - EC2 key pair import for node remote access
//  7. Node groups - managed node group provisioning
//  8. Kubeconfig - exec-plugin kubeconfig generation
//  9. Addons - native EKS add-ons and rendered manifests
//  10. Snapshot - descriptor upload to S3
//
// Destroy runs the teardown in reverse. Both are idempotent: they can be
// run repeatedly and only make the changes needed to reach the desired
// state.
package orchestration
