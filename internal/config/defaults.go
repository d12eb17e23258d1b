package config

// ApplyDefaults fills unset fields with sensible defaults. It is called by
// LoadFromBytes before validation, so validation can assume defaulted input.
func (c *Config) ApplyDefaults() {
	if c.Version == "" {
		c.Version = DefaultVersion
	}

	// A cluster with no node groups gets one general-purpose pool sized
	// from the selector rather than a hardcoded instance type.
	if len(c.NodeGroups) == 0 {
		c.NodeGroups = []NodeGroup{{
			Name:     "workers",
			MinSize:  1,
			MaxSize:  3,
			Desired:  2,
			Selector: &InstanceSelector{MemoryGiB: 8, VCPUs: 2},
		}}
	}

	for i := range c.NodeGroups {
		ng := &c.NodeGroups[i]
		if ng.Arch == "" {
			ng.Arch = ArchAMD64
		}
		if ng.Desired == 0 {
			ng.Desired = ng.MinSize
		}
		if ng.MaxSize == 0 {
			ng.MaxSize = ng.Desired
		}
		if ng.VolumeSizeGiB == 0 {
			ng.VolumeSizeGiB = DefaultVolumeSizeGiB
		}
	}

	c.applyAddonDefaults()
	c.applyStorageDefaults()

	if c.Snapshots.Enabled && c.Snapshots.Bucket == "" {
		c.Snapshots.Bucket = c.DefaultSnapshotBucket()
	}
}

func (c *Config) applyAddonDefaults() {
	for _, n := range []*NativeAddon{
		&c.Addons.VPCCNI,
		&c.Addons.CoreDNS,
		&c.Addons.KubeProxy,
		&c.Addons.EBSCSI,
	} {
		if n.ResolveConflicts == "" {
			n.ResolveConflicts = DefaultResolveConflicts
		}
	}

	// The EBS CSI driver needs volume permissions; default the managed
	// policy unless the user brought a role or their own policy set.
	// IRSA grants only work with the OIDC provider, so without it the
	// driver falls back to the node instance role.
	ebs := &c.Addons.EBSCSI
	if c.IAM.WithOIDC && ebs.On(true) && ebs.ServiceAccountRoleARN == "" && len(ebs.PolicyARNs) == 0 {
		ebs.PolicyARNs = []string{"arn:aws:iam::aws:policy/service-role/AmazonEBSCSIDriverPolicy"}
	}
}

func (c *Config) applyStorageDefaults() {
	if c.Storage.Provider == "" {
		c.Storage.Provider = "aws"
	}

	if len(c.Storage.Classes) == 0 {
		c.Storage.Classes = []StorageClassConfig{{
			Name:      "gp3",
			Default:   true,
			Encrypted: true,
		}}
	}

	hasDefault := false
	for i := range c.Storage.Classes {
		sc := &c.Storage.Classes[i]
		if sc.VolumeType == "" && c.Storage.Provider == "aws" {
			sc.VolumeType = "gp3"
		}
		if sc.FSType == "" && c.Storage.Provider == "aws" {
			sc.FSType = "ext4"
		}
		if sc.ReclaimPolicy == "" {
			sc.ReclaimPolicy = "Delete"
		}
		if sc.BindingMode == "" {
			sc.BindingMode = "WaitForFirstConsumer"
		}
		if sc.Default {
			hasDefault = true
		}
	}

	// The catalog always carries exactly one default class; an explicit
	// catalog that marks none promotes its first entry.
	if !hasDefault {
		c.Storage.Classes[0].Default = true
	}
}
