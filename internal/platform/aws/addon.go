package aws

import (
	"context"
	"fmt"
	"log"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	ekstypes "github.com/aws/aws-sdk-go-v2/service/eks/types"
)

// EnsureAddon installs or updates an EKS-native add-on and waits until it
// reports active.
func (c *RealClient) EnsureAddon(ctx context.Context, spec AddonSpec) error {
	out, err := c.eks.DescribeAddon(ctx, &eks.DescribeAddonInput{
		ClusterName: awssdk.String(spec.ClusterName),
		AddonName:   awssdk.String(spec.AddonName),
	})
	switch {
	case err == nil:
		return c.updateAddon(ctx, spec, out.Addon)
	case IsNotFound(err):
		return c.createAddon(ctx, spec)
	default:
		return fmt.Errorf("failed to describe addon %s: %w", spec.AddonName, err)
	}
}

func (c *RealClient) createAddon(ctx context.Context, spec AddonSpec) error {
	log.Printf("addon %s/%s: creating", spec.ClusterName, spec.AddonName)

	input := &eks.CreateAddonInput{
		ClusterName:      awssdk.String(spec.ClusterName),
		AddonName:        awssdk.String(spec.AddonName),
		ResolveConflicts: resolveConflicts(spec.ResolveConflicts),
	}
	if spec.Version != "" {
		input.AddonVersion = awssdk.String(spec.Version)
	}
	if spec.ServiceAccountRoleARN != "" {
		input.ServiceAccountRoleArn = awssdk.String(spec.ServiceAccountRoleARN)
	}

	if _, err := c.eks.CreateAddon(ctx, input); err != nil {
		if !IsAlreadyExists(err) {
			return fmt.Errorf("failed to create addon %s: %w", spec.AddonName, err)
		}
	}
	return c.waitAddonActive(ctx, spec.ClusterName, spec.AddonName)
}

func (c *RealClient) updateAddon(ctx context.Context, spec AddonSpec, current *ekstypes.Addon) error {
	sameVersion := spec.Version == "" || awssdk.ToString(current.AddonVersion) == spec.Version
	sameRole := awssdk.ToString(current.ServiceAccountRoleArn) == spec.ServiceAccountRoleARN
	if sameVersion && sameRole {
		if current.Status == ekstypes.AddonStatusActive {
			return nil
		}
		return c.waitAddonActive(ctx, spec.ClusterName, spec.AddonName)
	}

	log.Printf("addon %s/%s: updating", spec.ClusterName, spec.AddonName)
	input := &eks.UpdateAddonInput{
		ClusterName:      awssdk.String(spec.ClusterName),
		AddonName:        awssdk.String(spec.AddonName),
		ResolveConflicts: resolveConflicts(spec.ResolveConflicts),
	}
	if spec.Version != "" {
		input.AddonVersion = awssdk.String(spec.Version)
	}
	if spec.ServiceAccountRoleARN != "" {
		input.ServiceAccountRoleArn = awssdk.String(spec.ServiceAccountRoleARN)
	}

	if _, err := c.eks.UpdateAddon(ctx, input); err != nil {
		return fmt.Errorf("failed to update addon %s: %w", spec.AddonName, err)
	}
	return c.waitAddonActive(ctx, spec.ClusterName, spec.AddonName)
}

// DeleteAddon removes the add-on; a missing add-on is not an error.
func (c *RealClient) DeleteAddon(ctx context.Context, clusterName, addonName string) error {
	_, err := c.eks.DeleteAddon(ctx, &eks.DeleteAddonInput{
		ClusterName: awssdk.String(clusterName),
		AddonName:   awssdk.String(addonName),
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete addon %s: %w", addonName, err)
	}
	return nil
}

func (c *RealClient) waitAddonActive(ctx context.Context, clusterName, addonName string) error {
	waiter := eks.NewAddonActiveWaiter(c.eks)
	input := &eks.DescribeAddonInput{
		ClusterName: awssdk.String(clusterName),
		AddonName:   awssdk.String(addonName),
	}
	if err := waiter.Wait(ctx, input, c.addonWait); err != nil {
		return fmt.Errorf("addon %s did not become active: %w", addonName, err)
	}
	return nil
}

func resolveConflicts(mode string) ekstypes.ResolveConflicts {
	switch mode {
	case "", "OVERWRITE":
		return ekstypes.ResolveConflictsOverwrite
	case "NONE":
		return ekstypes.ResolveConflictsNone
	case "PRESERVE":
		return ekstypes.ResolveConflictsPreserve
	default:
		return ekstypes.ResolveConflicts(mode)
	}
}
