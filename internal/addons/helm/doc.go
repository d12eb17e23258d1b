// Package helm renders Helm charts into plain Kubernetes manifests.
//
// It includes a chart registry mapping addon names to chart specifications,
// a downloader that fetches charts from their official repositories, and
// shared value builder functions for common EKS constructs like IRSA
// service-account annotations and cluster-autoscaler auto-discovery.
//
// Charts are rendered offline with the Helm engine; nothing in this package
// talks to a cluster. Applying the rendered manifests is the caller's job.
package helm
