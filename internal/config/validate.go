package config

import (
	"fmt"
	"strings"
)

// Validate checks the descriptor for common errors and returns a detailed
// error if validation fails. Call ApplyDefaults first.
func (c *Config) Validate() error {
	if c.ClusterName == "" {
		return fmt.Errorf("cluster_name is required")
	}
	if !isValidDNSName(c.ClusterName) {
		return fmt.Errorf("cluster_name %q must be DNS-safe (lowercase alphanumeric and hyphens, must start with a letter)", c.ClusterName)
	}
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	if !ValidRegions[c.Region] {
		return fmt.Errorf("invalid region %q: not an EKS region eksforge knows", c.Region)
	}

	if err := c.validateVersion(); err != nil {
		return err
	}
	if err := c.validateNodeGroups(); err != nil {
		return fmt.Errorf("node group validation failed: %w", err)
	}
	if err := c.validateAddons(); err != nil {
		return fmt.Errorf("addon validation failed: %w", err)
	}
	if err := c.validateStorage(); err != nil {
		return fmt.Errorf("storage validation failed: %w", err)
	}

	return nil
}

func (c *Config) validateVersion() error {
	for _, v := range SupportedVersions {
		if c.Version == v {
			return nil
		}
	}
	return fmt.Errorf("unsupported version %q: must be one of %v", c.Version, SupportedVersions)
}

func (c *Config) validateNodeGroups() error {
	if len(c.NodeGroups) == 0 {
		return fmt.Errorf("at least one node group is required")
	}

	seen := make(map[string]bool, len(c.NodeGroups))
	for i, ng := range c.NodeGroups {
		if ng.Name == "" {
			return fmt.Errorf("node group %d: name is required", i)
		}
		if seen[ng.Name] {
			return fmt.Errorf("node group %q: duplicate name", ng.Name)
		}
		seen[ng.Name] = true

		if !ng.Arch.IsValid() {
			return fmt.Errorf("node group %q: invalid arch %q: must be one of %v", ng.Name, ng.Arch, ValidArchs())
		}
		if ng.MinSize < 0 {
			return fmt.Errorf("node group %q: min_size cannot be negative, got %d", ng.Name, ng.MinSize)
		}
		if ng.MaxSize < 1 {
			return fmt.Errorf("node group %q: max_size must be at least 1, got %d", ng.Name, ng.MaxSize)
		}
		if ng.Desired < ng.MinSize || ng.Desired > ng.MaxSize {
			return fmt.Errorf("node group %q: desired %d outside [min_size %d, max_size %d]", ng.Name, ng.Desired, ng.MinSize, ng.MaxSize)
		}

		if len(ng.InstanceTypes) > 0 && ng.Selector != nil {
			return fmt.Errorf("node group %q: instance_types and selector are mutually exclusive", ng.Name)
		}
		if sel := ng.Selector; sel != nil {
			if sel.MemoryGiB <= 0 || sel.VCPUs <= 0 {
				return fmt.Errorf("node group %q: selector requires positive memory_gib and vcpus", ng.Name)
			}
		}

		for _, taint := range ng.Taints {
			switch taint.Effect {
			case "NoSchedule", "PreferNoSchedule", "NoExecute":
			default:
				return fmt.Errorf("node group %q: invalid taint effect %q", ng.Name, taint.Effect)
			}
		}
	}
	return nil
}

func (c *Config) validateAddons() error {
	native := map[string]NativeAddon{
		"vpc_cni":    c.Addons.VPCCNI,
		"coredns":    c.Addons.CoreDNS,
		"kube_proxy": c.Addons.KubeProxy,
		"ebs_csi":    c.Addons.EBSCSI,
	}

	for name, n := range native {
		for _, arn := range n.PolicyARNs {
			if !strings.HasPrefix(arn, "arn:") {
				return fmt.Errorf("%s: policy ARN %q must start with arn:", name, arn)
			}
		}
		if n.ServiceAccountRoleARN != "" && !strings.HasPrefix(n.ServiceAccountRoleARN, "arn:") {
			return fmt.Errorf("%s: service_account_role_arn %q must start with arn:", name, n.ServiceAccountRoleARN)
		}
		switch n.ResolveConflicts {
		case "NONE", "OVERWRITE", "PRESERVE":
		default:
			return fmt.Errorf("%s: invalid resolve_conflicts %q", name, n.ResolveConflicts)
		}

		// IRSA grants require the OIDC provider.
		if len(n.PolicyARNs) > 0 && !c.IAM.WithOIDC {
			return fmt.Errorf("%s: policy_arns require iam.with_oidc", name)
		}
	}
	return nil
}

func (c *Config) validateStorage() error {
	defaults := 0
	seen := make(map[string]bool, len(c.Storage.Classes))
	for i, sc := range c.Storage.Classes {
		if sc.Name == "" {
			return fmt.Errorf("class %d: name is required", i)
		}
		if seen[sc.Name] {
			return fmt.Errorf("class %q: duplicate name", sc.Name)
		}
		seen[sc.Name] = true

		if sc.Default {
			defaults++
		}
		switch sc.ReclaimPolicy {
		case "Delete", "Retain":
		default:
			return fmt.Errorf("class %q: invalid reclaim_policy %q", sc.Name, sc.ReclaimPolicy)
		}
		switch sc.BindingMode {
		case "WaitForFirstConsumer", "Immediate":
		default:
			return fmt.Errorf("class %q: invalid binding_mode %q", sc.Name, sc.BindingMode)
		}
	}
	if len(c.Storage.Classes) > 0 && defaults != 1 {
		return fmt.Errorf("exactly one class must be the default, got %d", defaults)
	}
	return nil
}

// isValidDNSName checks if a string is a valid DNS label.
// Must be lowercase, alphanumeric with hyphens, start with a letter, max 63 chars.
func isValidDNSName(name string) bool {
	if len(name) == 0 || len(name) > 63 {
		return false
	}
	if name[0] < 'a' || name[0] > 'z' {
		return false
	}
	last := name[len(name)-1]
	if (last < 'a' || last > 'z') && (last < '0' || last > '9') {
		return false
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return !strings.Contains(name, "--")
}
