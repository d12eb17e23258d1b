// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/eksforge/eksforge/internal/config"
	"github.com/eksforge/eksforge/internal/kubeconfig"
	"github.com/eksforge/eksforge/internal/orchestration"
	"github.com/eksforge/eksforge/internal/platform/aws"
	"github.com/eksforge/eksforge/internal/platform/s3"
	"github.com/eksforge/eksforge/internal/ui/tui"
)

// Reconciler interface for testing - matches orchestration.Reconciler.
type Reconciler interface {
	Apply(ctx context.Context) (*orchestration.Result, error)
	Destroy(ctx context.Context) error
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newClusterManager creates the AWS infrastructure client.
	newClusterManager = func(ctx context.Context, region string) (aws.ClusterManager, error) {
		return aws.NewRealClient(ctx, region)
	}

	// newSnapshotStore creates the S3-backed descriptor snapshot store.
	newSnapshotStore = func(ctx context.Context, cfg *config.Config) (orchestration.SnapshotWriter, error) {
		client, err := s3.NewClient(ctx, cfg.Region)
		if err != nil {
			return nil, err
		}
		return s3.NewSnapshotStore(client, cfg.Snapshots.Bucket, cfg.Snapshots.Prefix), nil
	}

	// newReconciler creates the provisioning reconciler.
	newReconciler = func(infra aws.ClusterManager, cfg *config.Config, opts ...orchestration.Option) Reconciler {
		return orchestration.NewReconciler(infra, cfg, opts...)
	}

	// loadConfigFile loads the full descriptor format (for testing injection).
	loadConfigFile = config.LoadFile

	// loadSpecFile loads the simplified spec format (for testing injection).
	loadSpecFile = config.LoadSpec

	// findConfigFile locates the default descriptor (for testing injection).
	findConfigFile = config.FindConfigFile

	// writeFile writes data to a file (for testing injection).
	writeFile = os.WriteFile

	// kubeconfigPathFor returns the kubeconfig output path (for testing injection).
	kubeconfigPathFor = kubeconfig.DefaultPath

	// writeKubeconfig persists the kubeconfig (for testing injection).
	writeKubeconfig = kubeconfig.WriteFile

	// isTTY reports whether the dashboard can run (for testing injection).
	isTTY = tui.IsTTY
)

// Apply provisions a Kubernetes cluster on Amazon EKS.
//
// This function orchestrates the complete cluster provisioning workflow:
//  1. Loads and validates the cluster descriptor (auto-detects simplified
//     spec vs full format)
//  2. Initializes the AWS client from the default credential chain
//  3. Reconciles cluster infrastructure (IAM roles, control plane, node
//     groups, OIDC, addons)
//  4. Writes the kubeconfig and any generated SSH private key to disk
//
// Progress is shown on an interactive dashboard when stdout is a terminal;
// plain log output is used otherwise or when noTUI is set.
//
// Node group selectors resolve against the built-in instance type catalog
// unless refreshInstances swaps in a live one from the EC2 API.
func Apply(ctx context.Context, configPath string, noTUI, refreshInstances bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	log.Printf("Applying configuration for cluster: %s", cfg.ClusterName)

	infra, err := newClusterManager(ctx, cfg.Region)
	if err != nil {
		return fmt.Errorf("failed to initialize AWS client: %w", err)
	}

	opts, err := reconcilerOptions(ctx, cfg, refreshInstances)
	if err != nil {
		return err
	}

	var result *orchestration.Result
	if useTUI(noTUI) {
		err = tui.Run(tui.NewApplyModel(cfg.ClusterName, cfg.Region), func(report orchestration.Reporter) error {
			rec := newReconciler(infra, cfg, append(opts, orchestration.WithReporter(report))...)
			var applyErr error
			result, applyErr = rec.Apply(ctx)
			return applyErr
		})
	} else {
		rec := newReconciler(infra, cfg, opts...)
		result, err = rec.Apply(ctx)
	}
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	kubeconfigPath, keyPath, err := writeOutputs(cfg, result)
	if err != nil {
		return err
	}

	printApplySuccess(cfg, result, kubeconfigPath, keyPath)
	return nil
}

// loadConfig loads and validates the cluster descriptor.
// It auto-detects the simplified spec format (5-field init output) vs the
// full descriptor format. If configPath is empty, it looks for
// eksforge.yaml in the current directory and its parents.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		path, err := findConfigFile()
		if err != nil {
			return nil, fmt.Errorf("no config file found: %w\nRun 'eksforge init' to create one", err)
		}
		configPath = path
	}

	// Try the simplified spec format first.
	spec, err := loadSpecFile(configPath)
	if err == nil {
		log.Printf("Using simplified spec: %s", configPath)
		return spec.Expand()
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log.Printf("Using config: %s", configPath)
	return cfg, nil
}

// reconcilerOptions assembles the reconciler options for an apply.
func reconcilerOptions(ctx context.Context, cfg *config.Config, refreshInstances bool) ([]orchestration.Option, error) {
	catalog, err := newCatalog(ctx, cfg.Region, refreshInstances)
	if err != nil {
		return nil, fmt.Errorf("failed to build instance catalog: %w", err)
	}

	opts := []orchestration.Option{orchestration.WithCatalog(catalog)}
	if cfg.Snapshots.Enabled {
		store, err := newSnapshotStore(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize snapshot store: %w", err)
		}
		opts = append(opts, orchestration.WithSnapshotWriter(store))
	}
	return opts, nil
}

// useTUI decides between the dashboard and plain log output.
func useTUI(noTUI bool) bool {
	return !noTUI && isTTY()
}

// writeOutputs persists the kubeconfig and, when one was generated during
// this apply, the SSH private key next to it.
func writeOutputs(cfg *config.Config, result *orchestration.Result) (kubeconfigPath, keyPath string, err error) {
	kubeconfigPath = kubeconfigPathFor(cfg.ClusterName)
	if err := writeKubeconfig(kubeconfigPath, result.Kubeconfig); err != nil {
		return "", "", err
	}

	if len(result.GeneratedPrivateKey) > 0 {
		keyPath = privateKeyPath(kubeconfigPath, cfg.ClusterName)
		if err := writeFile(keyPath, result.GeneratedPrivateKey, 0600); err != nil {
			return "", "", fmt.Errorf("failed to write SSH private key: %w", err)
		}
	}
	return kubeconfigPath, keyPath, nil
}

// privateKeyPath places the generated key next to the kubeconfig.
func privateKeyPath(kubeconfigPath, clusterName string) string {
	return filepath.Join(filepath.Dir(kubeconfigPath), clusterName+"-ssh.pem")
}

// printApplySuccess outputs completion message and next steps for the user.
func printApplySuccess(cfg *config.Config, result *orchestration.Result, kubeconfigPath, keyPath string) {
	fmt.Printf("\nCluster %s is ready!\n", cfg.ClusterName)
	fmt.Printf("Kubeconfig saved to: %s\n", kubeconfigPath)

	if keyPath != "" {
		fmt.Printf("Generated SSH private key saved to: %s\n", keyPath)
	}
	if result.SnapshotKey != "" {
		fmt.Printf("Descriptor snapshot: s3://%s/%s\n", cfg.Snapshots.Bucket, result.SnapshotKey)
	}

	fmt.Printf("\nYou can now access your cluster with:\n")
	fmt.Printf("  export KUBECONFIG=%s\n", kubeconfigPath)
	fmt.Printf("  kubectl get nodes\n")

	if result.Cluster != nil && result.Cluster.Endpoint != "" {
		fmt.Printf("\nControl plane endpoint: %s\n", result.Cluster.Endpoint)
	}
}
