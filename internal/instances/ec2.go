package instances

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/eksforge/eksforge/internal/config"
)

// DescribeClient is the slice of the EC2 API catalog refresh needs.
type DescribeClient interface {
	DescribeInstanceTypes(ctx context.Context, params *ec2.DescribeInstanceTypesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstanceTypesOutput, error)
}

// Fetch builds a catalog from the live EC2 API, replacing the built-in one.
// Only current-generation types are included.
func Fetch(ctx context.Context, client DescribeClient) (*Catalog, error) {
	input := &ec2.DescribeInstanceTypesInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("current-generation"), Values: []string{"true"}},
			{Name: aws.String("supported-virtualization-type"), Values: []string{"hvm"}},
		},
	}

	var types []Type
	for {
		out, err := client.DescribeInstanceTypes(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to describe instance types: %w", err)
		}

		for _, info := range out.InstanceTypes {
			t, ok := fromInfo(info)
			if !ok {
				continue
			}
			types = append(types, t)
		}

		if out.NextToken == nil {
			break
		}
		input.NextToken = out.NextToken
	}

	if len(types) == 0 {
		return nil, fmt.Errorf("EC2 returned no current-generation instance types")
	}
	return NewCatalog(types), nil
}

// fromInfo converts an EC2 instance-type record, skipping bare-metal types
// and those without a supported architecture.
func fromInfo(info ec2types.InstanceTypeInfo) (Type, bool) {
	name := string(info.InstanceType)
	if name == "" || strings.Contains(name, "metal") {
		return Type{}, false
	}

	arch, ok := archOf(info)
	if !ok {
		return Type{}, false
	}
	if info.VCpuInfo == nil || info.VCpuInfo.DefaultVCpus == nil {
		return Type{}, false
	}
	if info.MemoryInfo == nil || info.MemoryInfo.SizeInMiB == nil {
		return Type{}, false
	}

	family, _, found := strings.Cut(name, ".")
	if !found {
		return Type{}, false
	}

	return Type{
		Name:      name,
		Family:    family,
		Arch:      arch,
		VCPUs:     int(*info.VCpuInfo.DefaultVCpus),
		MemoryGiB: int(*info.MemoryInfo.SizeInMiB / 1024),
	}, true
}

func archOf(info ec2types.InstanceTypeInfo) (config.Arch, bool) {
	if info.ProcessorInfo == nil {
		return "", false
	}
	for _, a := range info.ProcessorInfo.SupportedArchitectures {
		switch a {
		case ec2types.ArchitectureTypeX8664:
			return config.ArchAMD64, true
		case ec2types.ArchitectureTypeArm64:
			return config.ArchARM64, true
		}
	}
	return "", false
}
