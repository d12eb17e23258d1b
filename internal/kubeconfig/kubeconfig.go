// Package kubeconfig builds kubeconfig files for provisioned clusters.
// Credentials come from an exec plugin calling `aws eks get-token`, so the
// kubeconfig itself never holds secrets.
package kubeconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	"github.com/eksforge/eksforge/internal/platform/aws"
)

// Build returns kubeconfig bytes for the cluster, authenticating through
// `aws eks get-token`.
func Build(cluster *aws.Cluster, region string) ([]byte, error) {
	if cluster.Endpoint == "" {
		return nil, fmt.Errorf("cluster %s has no endpoint yet", cluster.Name)
	}
	if len(cluster.CAData) == 0 {
		return nil, fmt.Errorf("cluster %s has no certificate authority yet", cluster.Name)
	}

	contextName := fmt.Sprintf("eksforge@%s.%s", cluster.Name, region)

	cfg := clientcmdapi.NewConfig()
	cfg.Clusters[cluster.ARN] = &clientcmdapi.Cluster{
		Server:                   cluster.Endpoint,
		CertificateAuthorityData: cluster.CAData,
	}
	cfg.AuthInfos[cluster.ARN] = &clientcmdapi.AuthInfo{
		Exec: &clientcmdapi.ExecConfig{
			APIVersion: "client.authentication.k8s.io/v1beta1",
			Command:    "aws",
			Args: []string{
				"eks", "get-token",
				"--cluster-name", cluster.Name,
				"--region", region,
				"--output", "json",
			},
			InteractiveMode: clientcmdapi.NeverExecInteractiveMode,
		},
	}
	cfg.Contexts[contextName] = &clientcmdapi.Context{
		Cluster:  cluster.ARN,
		AuthInfo: cluster.ARN,
	}
	cfg.CurrentContext = contextName

	out, err := clientcmd.Write(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize kubeconfig: %w", err)
	}
	return out, nil
}

// WriteFile writes the kubeconfig to path, creating parent directories.
// Mode 0600: the file selects credentials even if it holds none.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write kubeconfig %s: %w", path, err)
	}
	return nil
}

// DefaultPath returns the conventional output path for a cluster's
// kubeconfig.
func DefaultPath(clusterName string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return clusterName + ".kubeconfig"
	}
	return filepath.Join(home, ".kube", "eksforge", clusterName+".yaml")
}
