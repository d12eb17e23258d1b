// Package addons manages cluster add-ons: the native EKS add-ons installed
// through the EKS API (vpc-cni, coredns, kube-proxy, the EBS CSI driver) and
// the Helm-delivered extras rendered to manifests and applied with
// Server-Side Apply (metrics-server, cluster-autoscaler, the AWS Load
// Balancer Controller), plus the storage-class catalog.
//
// The Manager resolves add-on dependency order and installs everything that
// is enabled, skipping what is not.
package addons
