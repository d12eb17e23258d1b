package handlers

import (
	"context"
	"fmt"

	"github.com/eksforge/eksforge/internal/config"
	"github.com/eksforge/eksforge/internal/config/wizard"
)

// Wizard function variables - replaceable in tests.
var (
	runWizard        = wizard.RunWizard
	writeConfig      = wizard.WriteConfig
	fileExists       = wizard.FileExists
	confirmOverwrite = wizard.ConfirmOverwrite
)

// Init creates a new cluster descriptor, either interactively through the
// wizard or from defaults when useDefaults is set. fullOutput writes every
// field instead of the minimal wizard-visible subset.
func Init(ctx context.Context, outputPath string, useDefaults, fullOutput bool) error {
	if outputPath == "" {
		outputPath = config.DefaultConfigFilename
	}

	if fileExists(outputPath) {
		ok, err := confirmOverwrite(outputPath)
		if err != nil {
			return fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	var result *wizard.WizardResult
	if useDefaults {
		result = wizard.DefaultResult()
	} else {
		var err error
		result, err = runWizard(ctx)
		if err != nil {
			return fmt.Errorf("wizard failed: %w", err)
		}
	}

	cfg := wizard.BuildConfig(result)
	if err := writeConfig(cfg, outputPath, fullOutput); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(cfg, outputPath)
	return nil
}

// printInitSuccess outputs the generated configuration summary and next steps.
func printInitSuccess(cfg *config.Config, outputPath string) {
	fmt.Printf("\nConfiguration written to: %s\n", outputPath)
	fmt.Printf("\nCluster summary:\n")
	fmt.Printf("  Name:       %s\n", cfg.ClusterName)
	fmt.Printf("  Region:     %s\n", cfg.Region)
	fmt.Printf("  Kubernetes: %s\n", cfg.Version)
	for _, ng := range cfg.NodeGroups {
		fmt.Printf("  Node group: %s (%d-%d nodes, desired %d)\n", ng.Name, ng.MinSize, ng.MaxSize, ng.Desired)
	}

	fmt.Printf("\nNext steps:\n")
	fmt.Printf("  1. Review the configuration: %s\n", outputPath)
	fmt.Printf("  2. Validate it:              eksforge validate -c %s\n", outputPath)
	fmt.Printf("  3. Provision the cluster:    eksforge apply -c %s\n", outputPath)
}
