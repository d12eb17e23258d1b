package aws

import (
	"context"
	"fmt"
	"sort"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// DefaultSubnets returns the default VPC's subnets, one per availability
// zone, sorted by zone for stable cluster placement.
func (c *RealClient) DefaultSubnets(ctx context.Context) ([]string, error) {
	vpcs, err := c.ec2.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{
		Filters: []ec2types.Filter{
			{Name: awssdk.String("is-default"), Values: []string{"true"}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe VPCs: %w", err)
	}
	if len(vpcs.Vpcs) == 0 {
		return nil, fmt.Errorf("no default VPC in region %s; specify subnets explicitly", c.region)
	}
	vpcID := awssdk.ToString(vpcs.Vpcs[0].VpcId)

	subnets, err := c.ec2.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{
		Filters: []ec2types.Filter{
			{Name: awssdk.String("vpc-id"), Values: []string{vpcID}},
			{Name: awssdk.String("default-for-az"), Values: []string{"true"}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe subnets: %w", err)
	}

	byZone := make(map[string]string)
	for _, subnet := range subnets.Subnets {
		zone := awssdk.ToString(subnet.AvailabilityZone)
		if _, ok := byZone[zone]; !ok {
			byZone[zone] = awssdk.ToString(subnet.SubnetId)
		}
	}
	if len(byZone) < 2 {
		return nil, fmt.Errorf("EKS needs subnets in at least two availability zones; default VPC %s has %d", vpcID, len(byZone))
	}

	zones := make([]string, 0, len(byZone))
	for zone := range byZone {
		zones = append(zones, zone)
	}
	sort.Strings(zones)

	ids := make([]string, 0, len(zones))
	for _, zone := range zones {
		ids = append(ids, byZone[zone])
	}
	return ids, nil
}
