package handlers

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/eksforge/eksforge/internal/config"
	"github.com/eksforge/eksforge/internal/instances"
)

// newCatalog builds the instance-type catalog. Replaceable in tests.
var newCatalog = func(ctx context.Context, region string, refresh bool) (*instances.Catalog, error) {
	if !refresh {
		return instances.Default(), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return instances.Fetch(ctx, ec2.NewFromConfig(awsCfg))
}

// Validate loads the descriptor and checks it without provisioning
// anything: schema and constraint validation happens at load time, and
// every node group selector is resolved against the instance type catalog
// so an unsatisfiable selector fails here instead of mid-apply.
//
// The built-in catalog is used by default; refresh swaps in a live one
// from the EC2 API.
func Validate(ctx context.Context, configPath string, refresh bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	catalog, err := newCatalog(ctx, cfg.Region, refresh)
	if err != nil {
		return fmt.Errorf("failed to build instance catalog: %w", err)
	}

	resolved := map[string][]string{}
	for _, ng := range cfg.NodeGroups {
		types, err := catalog.Resolve(ng)
		if err != nil {
			return fmt.Errorf("node group %s: %w", ng.Name, err)
		}
		resolved[ng.Name] = types
	}

	printValidateSummary(cfg, resolved)
	return nil
}

func printValidateSummary(cfg *config.Config, resolved map[string][]string) {
	fmt.Printf("Configuration is valid.\n\n")
	fmt.Printf("Cluster:    %s (%s, Kubernetes %s)\n", cfg.ClusterName, cfg.Region, cfg.Version)

	if cfg.Logging.Enabled {
		fmt.Printf("Logging:    %s\n", strings.Join(cfg.Logging.Types(), ", "))
	} else {
		fmt.Printf("Logging:    disabled\n")
	}

	if cfg.IAM.WithOIDC {
		fmt.Printf("IAM:        OIDC provider enabled\n")
	} else {
		fmt.Printf("IAM:        OIDC provider disabled\n")
	}

	for _, ng := range cfg.NodeGroups {
		fmt.Printf("Node group: %s (%d-%d nodes, %s) -> %s\n",
			ng.Name, ng.MinSize, ng.MaxSize, ng.Arch, strings.Join(resolved[ng.Name], ", "))
	}
}
