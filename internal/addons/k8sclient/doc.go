// Package k8sclient wraps k8s.io/client-go for addon installation: it
// applies multi-document YAML manifests with Server-Side Apply and answers
// simple readiness queries, working directly from kubeconfig bytes so no
// file ever has to touch disk.
package k8sclient
