package addons

import (
	"github.com/eksforge/eksforge/internal/config"
)

// EKS add-on names.
const (
	NameVPCCNI    = "vpc-cni"
	NameCoreDNS   = "coredns"
	NameKubeProxy = "kube-proxy"
	NameEBSCSI    = "aws-ebs-csi-driver"
)

// nativeAddon adapts a config.NativeAddon to the Addon interface.
type nativeAddon struct {
	name       string
	cfg        config.NativeAddon
	enabledDef bool
	deps       []string

	// roleARN overrides the configured service-account role, set when the
	// reconciler generates an IRSA role for the add-on.
	roleARN string
}

func (n *nativeAddon) Name() string { return n.name }

func (n *nativeAddon) Enabled() bool { return n.cfg.On(n.enabledDef) }

func (n *nativeAddon) Dependencies() []string { return n.deps }

func (n *nativeAddon) Spec() NativeSpec {
	roleARN := n.cfg.ServiceAccountRoleARN
	if roleARN == "" {
		roleARN = n.roleARN
	}
	return NativeSpec{
		AddonName:             n.name,
		Version:               n.cfg.Version,
		ServiceAccountRoleARN: roleARN,
		ResolveConflicts:      n.cfg.ResolveConflicts,
	}
}

// nativeAddons builds the four EKS-native add-ons from config. roleARNs maps
// add-on name to a generated IRSA role ARN, if the reconciler created one.
func nativeAddons(cfg *config.Config, roleARNs map[string]string) []*nativeAddon {
	// The EBS CSI driver is only on by default when the storage catalog
	// provisions EBS volumes.
	csiDefault := cfg.Storage.Provider == "aws"

	list := []*nativeAddon{
		{name: NameVPCCNI, cfg: cfg.Addons.VPCCNI, enabledDef: true},
		{name: NameKubeProxy, cfg: cfg.Addons.KubeProxy, enabledDef: true},
		{name: NameCoreDNS, cfg: cfg.Addons.CoreDNS, enabledDef: true, deps: []string{NameVPCCNI}},
		{name: NameEBSCSI, cfg: cfg.Addons.EBSCSI, enabledDef: csiDefault, deps: []string{NameVPCCNI}},
	}

	for _, a := range list {
		if arn, ok := roleARNs[a.name]; ok {
			a.roleARN = arn
		}
	}
	return list
}
