// Package aws wraps the AWS APIs behind idempotent Ensure operations on
// EKS clusters, managed node groups, native add-ons, and the IAM plumbing
// (cluster and node roles, the OIDC provider, IRSA roles) they need.
//
// Every operation is safe to repeat: Ensure creates what is missing, adopts
// what exists, and waits for the resource to settle before returning.
package aws
