package addons

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNativeAddons_Defaults(t *testing.T) {
	cfg := testConfig()
	list := nativeAddons(cfg, nil)
	require.Len(t, list, 4)

	for _, a := range list {
		assert.True(t, a.Enabled(), a.Name())
	}
}

func TestNativeAddons_CSIDefaultFollowsProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Provider = "local"

	for _, a := range nativeAddons(cfg, nil) {
		if a.Name() == NameEBSCSI {
			assert.False(t, a.Enabled())
		}
	}
}

func TestNativeAddons_ExplicitEnableWins(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Provider = "local"
	on := true
	cfg.Addons.EBSCSI.Enabled = &on

	for _, a := range nativeAddons(cfg, nil) {
		if a.Name() == NameEBSCSI {
			assert.True(t, a.Enabled())
		}
	}
}

func TestNativeSpec_RolePrecedence(t *testing.T) {
	cfg := testConfig()
	cfg.Addons.EBSCSI.Version = "v1.38.0-eksbuild.1"
	cfg.Addons.EBSCSI.ResolveConflicts = "OVERWRITE"

	roleARNs := map[string]string{NameEBSCSI: "arn:aws:iam::123456789012:role/generated"}

	var csi *nativeAddon
	for _, a := range nativeAddons(cfg, roleARNs) {
		if a.Name() == NameEBSCSI {
			csi = a
		}
	}
	require.NotNil(t, csi)

	spec := csi.Spec()
	assert.Equal(t, "v1.38.0-eksbuild.1", spec.Version)
	assert.Equal(t, "OVERWRITE", spec.ResolveConflicts)
	assert.Equal(t, "arn:aws:iam::123456789012:role/generated", spec.ServiceAccountRoleARN)

	// An explicitly configured role beats the generated one.
	cfg.Addons.EBSCSI.ServiceAccountRoleARN = "arn:aws:iam::123456789012:role/explicit"
	for _, a := range nativeAddons(cfg, roleARNs) {
		if a.Name() == NameEBSCSI {
			assert.Equal(t, "arn:aws:iam::123456789012:role/explicit", a.Spec().ServiceAccountRoleARN)
		}
	}
}
