package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/eksforge/eksforge/internal/orchestration"
	"github.com/eksforge/eksforge/internal/ui/tui"
)

// confirmDestroy prompts before teardown. Replaceable in tests.
var confirmDestroy = defaultConfirmDestroy

// Destroy tears down a cluster and every resource provisioned for it:
// addons, node groups, imported SSH keys, the control plane, the OIDC
// provider and the IAM roles. The descriptor names what to remove; no
// state file is consulted.
//
// Destruction is irreversible, so the user is prompted for confirmation
// unless yes is set.
func Destroy(ctx context.Context, configPath string, noTUI, yes bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if !yes {
		ok, err := confirmDestroy(cfg.ClusterName)
		if err != nil {
			return fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	log.Printf("Destroying cluster: %s", cfg.ClusterName)

	infra, err := newClusterManager(ctx, cfg.Region)
	if err != nil {
		return fmt.Errorf("failed to initialize AWS client: %w", err)
	}

	if useTUI(noTUI) {
		err = tui.Run(tui.NewDestroyModel(cfg.ClusterName, cfg.Region), func(report orchestration.Reporter) error {
			rec := newReconciler(infra, cfg, orchestration.WithReporter(report))
			return rec.Destroy(ctx)
		})
	} else {
		rec := newReconciler(infra, cfg)
		err = rec.Destroy(ctx)
	}
	if err != nil {
		return fmt.Errorf("teardown failed: %w", err)
	}

	fmt.Printf("\nCluster %s has been destroyed.\n", cfg.ClusterName)
	return nil
}

func defaultConfirmDestroy(clusterName string) (bool, error) {
	fmt.Printf("This will permanently delete cluster %q and all of its resources.\n", clusterName)
	fmt.Print("Continue? (y/n): ")

	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false, err
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
