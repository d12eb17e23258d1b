package aws

import (
	"context"
	"fmt"
	"log"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	ekstypes "github.com/aws/aws-sdk-go-v2/service/eks/types"
)

// EnsureNodeGroup creates or reconciles a managed node group and waits for
// it to become active.
func (c *RealClient) EnsureNodeGroup(ctx context.Context, spec NodeGroupSpec) error {
	out, err := c.eks.DescribeNodegroup(ctx, &eks.DescribeNodegroupInput{
		ClusterName:   awssdk.String(spec.ClusterName),
		NodegroupName: awssdk.String(spec.Name),
	})
	switch {
	case err == nil:
		return c.reconcileNodeGroup(ctx, spec, out.Nodegroup)
	case IsNotFound(err):
		return c.createNodeGroup(ctx, spec)
	default:
		return fmt.Errorf("failed to describe node group %s: %w", spec.Name, err)
	}
}

func (c *RealClient) createNodeGroup(ctx context.Context, spec NodeGroupSpec) error {
	log.Printf("node group %s/%s: creating (%v)", spec.ClusterName, spec.Name, spec.InstanceTypes)

	capacity := ekstypes.CapacityTypesOnDemand
	if spec.CapacitySpot {
		capacity = ekstypes.CapacityTypesSpot
	}

	input := &eks.CreateNodegroupInput{
		ClusterName:   awssdk.String(spec.ClusterName),
		NodegroupName: awssdk.String(spec.Name),
		NodeRole:      awssdk.String(spec.NodeRoleARN),
		Subnets:       spec.SubnetIDs,
		InstanceTypes: spec.InstanceTypes,
		AmiType:       ekstypes.AMITypes(spec.AMIType),
		CapacityType:  capacity,
		DiskSize:      awssdk.Int32(int32(spec.DiskSizeGiB)),
		ScalingConfig: &ekstypes.NodegroupScalingConfig{
			MinSize:     awssdk.Int32(int32(spec.MinSize)),
			MaxSize:     awssdk.Int32(int32(spec.MaxSize)),
			DesiredSize: awssdk.Int32(int32(spec.DesiredSize)),
		},
		Labels: spec.Labels,
		Taints: taintsFor(spec.Taints),
		Tags:   spec.Tags,
	}
	if spec.SSHKeyName != "" {
		input.RemoteAccess = &ekstypes.RemoteAccessConfig{
			Ec2SshKey: awssdk.String(spec.SSHKeyName),
		}
	}

	if _, err := c.eks.CreateNodegroup(ctx, input); err != nil {
		if !IsAlreadyExists(err) {
			return fmt.Errorf("failed to create node group %s: %w", spec.Name, err)
		}
	}
	return c.waitNodeGroupActive(ctx, spec.ClusterName, spec.Name)
}

// reconcileNodeGroup updates the scaling config when it drifted. Instance
// types and AMI type are immutable on managed node groups; drift there is
// reported, not fixed.
func (c *RealClient) reconcileNodeGroup(ctx context.Context, spec NodeGroupSpec, current *ekstypes.Nodegroup) error {
	if current.ScalingConfig != nil &&
		int(awssdk.ToInt32(current.ScalingConfig.MinSize)) == spec.MinSize &&
		int(awssdk.ToInt32(current.ScalingConfig.MaxSize)) == spec.MaxSize {
		if current.Status == ekstypes.NodegroupStatusActive {
			return nil
		}
		return c.waitNodeGroupActive(ctx, spec.ClusterName, spec.Name)
	}

	log.Printf("node group %s/%s: updating scaling config (min %d, max %d)",
		spec.ClusterName, spec.Name, spec.MinSize, spec.MaxSize)

	// Desired size is left alone on update so the autoscaler's decisions
	// survive an apply.
	_, err := c.eks.UpdateNodegroupConfig(ctx, &eks.UpdateNodegroupConfigInput{
		ClusterName:   awssdk.String(spec.ClusterName),
		NodegroupName: awssdk.String(spec.Name),
		ScalingConfig: &ekstypes.NodegroupScalingConfig{
			MinSize: awssdk.Int32(int32(spec.MinSize)),
			MaxSize: awssdk.Int32(int32(spec.MaxSize)),
		},
		Labels: &ekstypes.UpdateLabelsPayload{AddOrUpdateLabels: spec.Labels},
	})
	if err != nil {
		return fmt.Errorf("failed to update node group %s: %w", spec.Name, err)
	}
	return c.waitNodeGroupActive(ctx, spec.ClusterName, spec.Name)
}

// DeleteNodeGroup deletes the node group and waits for it to disappear.
func (c *RealClient) DeleteNodeGroup(ctx context.Context, clusterName, name string) error {
	_, err := c.eks.DeleteNodegroup(ctx, &eks.DeleteNodegroupInput{
		ClusterName:   awssdk.String(clusterName),
		NodegroupName: awssdk.String(name),
	})
	if err != nil {
		if IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to delete node group %s: %w", name, err)
	}

	log.Printf("node group %s/%s: deleting", clusterName, name)
	waiter := eks.NewNodegroupDeletedWaiter(c.eks)
	input := &eks.DescribeNodegroupInput{
		ClusterName:   awssdk.String(clusterName),
		NodegroupName: awssdk.String(name),
	}
	if err := waiter.Wait(ctx, input, c.nodeWait); err != nil {
		return fmt.Errorf("node group %s did not finish deleting: %w", name, err)
	}
	return nil
}

// ListNodeGroups returns node group names for the cluster.
func (c *RealClient) ListNodeGroups(ctx context.Context, clusterName string) ([]string, error) {
	var names []string
	input := &eks.ListNodegroupsInput{ClusterName: awssdk.String(clusterName)}
	for {
		out, err := c.eks.ListNodegroups(ctx, input)
		if err != nil {
			if IsNotFound(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to list node groups for %s: %w", clusterName, err)
		}
		names = append(names, out.Nodegroups...)
		if out.NextToken == nil {
			break
		}
		input.NextToken = out.NextToken
	}
	return names, nil
}

func (c *RealClient) waitNodeGroupActive(ctx context.Context, clusterName, name string) error {
	waiter := eks.NewNodegroupActiveWaiter(c.eks)
	input := &eks.DescribeNodegroupInput{
		ClusterName:   awssdk.String(clusterName),
		NodegroupName: awssdk.String(name),
	}
	if err := waiter.Wait(ctx, input, c.nodeWait); err != nil {
		return fmt.Errorf("node group %s did not become active: %w", name, err)
	}
	return nil
}

func taintsFor(taints []NodeTaint) []ekstypes.Taint {
	if len(taints) == 0 {
		return nil
	}
	out := make([]ekstypes.Taint, 0, len(taints))
	for _, t := range taints {
		taint := ekstypes.Taint{
			Key:    awssdk.String(t.Key),
			Effect: taintEffect(t.Effect),
		}
		if t.Value != "" {
			taint.Value = awssdk.String(t.Value)
		}
		out = append(out, taint)
	}
	return out
}

// taintEffect maps the Kubernetes effect names to the EKS API's enum.
func taintEffect(effect string) ekstypes.TaintEffect {
	switch effect {
	case "NoSchedule":
		return ekstypes.TaintEffectNoSchedule
	case "PreferNoSchedule":
		return ekstypes.TaintEffectPreferNoSchedule
	case "NoExecute":
		return ekstypes.TaintEffectNoExecute
	default:
		return ekstypes.TaintEffect(effect)
	}
}
