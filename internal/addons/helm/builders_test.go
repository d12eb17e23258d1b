package helm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceAccountValues(t *testing.T) {
	v := ServiceAccountValues("aws-load-balancer-controller", "arn:aws:iam::123456789012:role/alb")

	sa, ok := asValues(v["serviceAccount"])
	require.True(t, ok)
	assert.Equal(t, true, sa["create"])
	assert.Equal(t, "aws-load-balancer-controller", sa["name"])

	ann, ok := asValues(sa["annotations"])
	require.True(t, ok)
	assert.Equal(t, "arn:aws:iam::123456789012:role/alb", ann["eks.amazonaws.com/role-arn"])
}

func TestServiceAccountValues_NoRole(t *testing.T) {
	v := ServiceAccountValues("metrics-server", "")

	sa, ok := asValues(v["serviceAccount"])
	require.True(t, ok)
	assert.NotContains(t, sa, "annotations")
}

func TestAutoDiscoveryValues(t *testing.T) {
	v := AutoDiscoveryValues("prod", "eu-central-1")

	ad, ok := asValues(v["autoDiscovery"])
	require.True(t, ok)
	assert.Equal(t, "prod", ad["clusterName"])
	assert.Equal(t, "eu-central-1", v["awsRegion"])
	assert.Equal(t, "aws", v["cloudProvider"])
}

func TestTopologySpread(t *testing.T) {
	spread := TopologySpread("metrics-server", "metrics-server", "DoNotSchedule")
	require.Len(t, spread, 2)
	assert.Equal(t, "kubernetes.io/hostname", spread[0]["topologyKey"])
	assert.Equal(t, "DoNotSchedule", spread[0]["whenUnsatisfiable"])
	assert.Equal(t, "topology.kubernetes.io/zone", spread[1]["topologyKey"])
}
