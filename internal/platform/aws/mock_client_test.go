package aws

import (
	"context"
	"fmt"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	ekstypes "github.com/aws/aws-sdk-go-v2/service/eks/types"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
)

// fakeEKS keeps clusters, node groups and add-ons in maps and answers the
// API the way EKS would once resources settle.
type fakeEKS struct {
	clusters   map[string]*ekstypes.Cluster
	nodegroups map[string]*ekstypes.Nodegroup
	addons     map[string]*ekstypes.Addon

	createdClusters   []string
	updatedLogging    int
	createdNodegroups []string
	updatedNodegroups []string
	createdAddons     []string
	updatedAddons     []string
	deleted           []string
}

func newFakeEKS() *fakeEKS {
	return &fakeEKS{
		clusters:   map[string]*ekstypes.Cluster{},
		nodegroups: map[string]*ekstypes.Nodegroup{},
		addons:     map[string]*ekstypes.Addon{},
	}
}

func ngKey(cluster, name string) string { return cluster + "/" + name }

func (f *fakeEKS) CreateCluster(_ context.Context, params *eks.CreateClusterInput, _ ...func(*eks.Options)) (*eks.CreateClusterOutput, error) {
	name := awssdk.ToString(params.Name)
	f.createdClusters = append(f.createdClusters, name)
	f.clusters[name] = &ekstypes.Cluster{
		Name:     params.Name,
		Arn:      awssdk.String("arn:aws:eks:eu-central-1:123456789012:cluster/" + name),
		Version:  params.Version,
		Status:   ekstypes.ClusterStatusActive,
		Endpoint: awssdk.String("https://example.eks.amazonaws.com"),
		Logging:  params.Logging,
		Identity: &ekstypes.Identity{Oidc: &ekstypes.OIDC{
			Issuer: awssdk.String("https://oidc.eks.eu-central-1.amazonaws.com/id/EXAMPLE"),
		}},
		CertificateAuthority: &ekstypes.Certificate{Data: awssdk.String("Y2EtZGF0YQ==")},
	}
	return &eks.CreateClusterOutput{Cluster: f.clusters[name]}, nil
}

func (f *fakeEKS) DescribeCluster(_ context.Context, params *eks.DescribeClusterInput, _ ...func(*eks.Options)) (*eks.DescribeClusterOutput, error) {
	cl, ok := f.clusters[awssdk.ToString(params.Name)]
	if !ok {
		return nil, &ekstypes.ResourceNotFoundException{Message: awssdk.String("no such cluster")}
	}
	return &eks.DescribeClusterOutput{Cluster: cl}, nil
}

func (f *fakeEKS) DeleteCluster(_ context.Context, params *eks.DeleteClusterInput, _ ...func(*eks.Options)) (*eks.DeleteClusterOutput, error) {
	name := awssdk.ToString(params.Name)
	cl, ok := f.clusters[name]
	if !ok {
		return nil, &ekstypes.ResourceNotFoundException{Message: awssdk.String("no such cluster")}
	}
	delete(f.clusters, name)
	f.deleted = append(f.deleted, "cluster/"+name)
	return &eks.DeleteClusterOutput{Cluster: cl}, nil
}

func (f *fakeEKS) UpdateClusterConfig(_ context.Context, params *eks.UpdateClusterConfigInput, _ ...func(*eks.Options)) (*eks.UpdateClusterConfigOutput, error) {
	cl, ok := f.clusters[awssdk.ToString(params.Name)]
	if !ok {
		return nil, &ekstypes.ResourceNotFoundException{Message: awssdk.String("no such cluster")}
	}
	cl.Logging = params.Logging
	f.updatedLogging++
	return &eks.UpdateClusterConfigOutput{}, nil
}

func (f *fakeEKS) CreateNodegroup(_ context.Context, params *eks.CreateNodegroupInput, _ ...func(*eks.Options)) (*eks.CreateNodegroupOutput, error) {
	key := ngKey(awssdk.ToString(params.ClusterName), awssdk.ToString(params.NodegroupName))
	f.createdNodegroups = append(f.createdNodegroups, key)
	f.nodegroups[key] = &ekstypes.Nodegroup{
		NodegroupName: params.NodegroupName,
		ClusterName:   params.ClusterName,
		Status:        ekstypes.NodegroupStatusActive,
		ScalingConfig: params.ScalingConfig,
		InstanceTypes: params.InstanceTypes,
		CapacityType:  params.CapacityType,
	}
	return &eks.CreateNodegroupOutput{Nodegroup: f.nodegroups[key]}, nil
}

func (f *fakeEKS) DescribeNodegroup(_ context.Context, params *eks.DescribeNodegroupInput, _ ...func(*eks.Options)) (*eks.DescribeNodegroupOutput, error) {
	ng, ok := f.nodegroups[ngKey(awssdk.ToString(params.ClusterName), awssdk.ToString(params.NodegroupName))]
	if !ok {
		return nil, &ekstypes.ResourceNotFoundException{Message: awssdk.String("no such nodegroup")}
	}
	return &eks.DescribeNodegroupOutput{Nodegroup: ng}, nil
}

func (f *fakeEKS) DeleteNodegroup(_ context.Context, params *eks.DeleteNodegroupInput, _ ...func(*eks.Options)) (*eks.DeleteNodegroupOutput, error) {
	key := ngKey(awssdk.ToString(params.ClusterName), awssdk.ToString(params.NodegroupName))
	ng, ok := f.nodegroups[key]
	if !ok {
		return nil, &ekstypes.ResourceNotFoundException{Message: awssdk.String("no such nodegroup")}
	}
	delete(f.nodegroups, key)
	f.deleted = append(f.deleted, "nodegroup/"+key)
	return &eks.DeleteNodegroupOutput{Nodegroup: ng}, nil
}

func (f *fakeEKS) UpdateNodegroupConfig(_ context.Context, params *eks.UpdateNodegroupConfigInput, _ ...func(*eks.Options)) (*eks.UpdateNodegroupConfigOutput, error) {
	key := ngKey(awssdk.ToString(params.ClusterName), awssdk.ToString(params.NodegroupName))
	ng, ok := f.nodegroups[key]
	if !ok {
		return nil, &ekstypes.ResourceNotFoundException{Message: awssdk.String("no such nodegroup")}
	}
	if params.ScalingConfig != nil {
		if ng.ScalingConfig == nil {
			ng.ScalingConfig = &ekstypes.NodegroupScalingConfig{}
		}
		ng.ScalingConfig.MinSize = params.ScalingConfig.MinSize
		ng.ScalingConfig.MaxSize = params.ScalingConfig.MaxSize
	}
	f.updatedNodegroups = append(f.updatedNodegroups, key)
	return &eks.UpdateNodegroupConfigOutput{}, nil
}

func (f *fakeEKS) ListNodegroups(_ context.Context, params *eks.ListNodegroupsInput, _ ...func(*eks.Options)) (*eks.ListNodegroupsOutput, error) {
	cluster := awssdk.ToString(params.ClusterName)
	var names []string
	for key, ng := range f.nodegroups {
		if strings.HasPrefix(key, cluster+"/") {
			names = append(names, awssdk.ToString(ng.NodegroupName))
		}
	}
	return &eks.ListNodegroupsOutput{Nodegroups: names}, nil
}

func (f *fakeEKS) CreateAddon(_ context.Context, params *eks.CreateAddonInput, _ ...func(*eks.Options)) (*eks.CreateAddonOutput, error) {
	key := ngKey(awssdk.ToString(params.ClusterName), awssdk.ToString(params.AddonName))
	f.createdAddons = append(f.createdAddons, key)
	f.addons[key] = &ekstypes.Addon{
		AddonName:             params.AddonName,
		ClusterName:           params.ClusterName,
		AddonVersion:          params.AddonVersion,
		ServiceAccountRoleArn: params.ServiceAccountRoleArn,
		Status:                ekstypes.AddonStatusActive,
	}
	return &eks.CreateAddonOutput{Addon: f.addons[key]}, nil
}

func (f *fakeEKS) DescribeAddon(_ context.Context, params *eks.DescribeAddonInput, _ ...func(*eks.Options)) (*eks.DescribeAddonOutput, error) {
	addon, ok := f.addons[ngKey(awssdk.ToString(params.ClusterName), awssdk.ToString(params.AddonName))]
	if !ok {
		return nil, &ekstypes.ResourceNotFoundException{Message: awssdk.String("no such addon")}
	}
	return &eks.DescribeAddonOutput{Addon: addon}, nil
}

func (f *fakeEKS) UpdateAddon(_ context.Context, params *eks.UpdateAddonInput, _ ...func(*eks.Options)) (*eks.UpdateAddonOutput, error) {
	key := ngKey(awssdk.ToString(params.ClusterName), awssdk.ToString(params.AddonName))
	addon, ok := f.addons[key]
	if !ok {
		return nil, &ekstypes.ResourceNotFoundException{Message: awssdk.String("no such addon")}
	}
	if params.AddonVersion != nil {
		addon.AddonVersion = params.AddonVersion
	}
	if params.ServiceAccountRoleArn != nil {
		addon.ServiceAccountRoleArn = params.ServiceAccountRoleArn
	}
	f.updatedAddons = append(f.updatedAddons, key)
	return &eks.UpdateAddonOutput{}, nil
}

func (f *fakeEKS) DeleteAddon(_ context.Context, params *eks.DeleteAddonInput, _ ...func(*eks.Options)) (*eks.DeleteAddonOutput, error) {
	key := ngKey(awssdk.ToString(params.ClusterName), awssdk.ToString(params.AddonName))
	if _, ok := f.addons[key]; !ok {
		return nil, &ekstypes.ResourceNotFoundException{Message: awssdk.String("no such addon")}
	}
	delete(f.addons, key)
	f.deleted = append(f.deleted, "addon/"+key)
	return &eks.DeleteAddonOutput{}, nil
}

// fakeIAM keeps roles and OIDC providers in maps.
type fakeIAM struct {
	roles     map[string]string   // name -> trust policy
	attached  map[string][]string // name -> policy ARNs
	providers map[string]string   // arn -> url

	createdRoles []string
	trustUpdates []string
}

func newFakeIAM() *fakeIAM {
	return &fakeIAM{
		roles:     map[string]string{},
		attached:  map[string][]string{},
		providers: map[string]string{},
	}
}

func roleARN(name string) string {
	return "arn:aws:iam::123456789012:role/" + name
}

func (f *fakeIAM) CreateRole(_ context.Context, params *iam.CreateRoleInput, _ ...func(*iam.Options)) (*iam.CreateRoleOutput, error) {
	name := awssdk.ToString(params.RoleName)
	if _, ok := f.roles[name]; ok {
		return nil, &iamtypes.EntityAlreadyExistsException{Message: awssdk.String("role exists")}
	}
	f.roles[name] = awssdk.ToString(params.AssumeRolePolicyDocument)
	f.createdRoles = append(f.createdRoles, name)
	return &iam.CreateRoleOutput{Role: &iamtypes.Role{
		RoleName: params.RoleName,
		Arn:      awssdk.String(roleARN(name)),
	}}, nil
}

func (f *fakeIAM) GetRole(_ context.Context, params *iam.GetRoleInput, _ ...func(*iam.Options)) (*iam.GetRoleOutput, error) {
	name := awssdk.ToString(params.RoleName)
	if _, ok := f.roles[name]; !ok {
		return nil, &iamtypes.NoSuchEntityException{Message: awssdk.String("no such role")}
	}
	return &iam.GetRoleOutput{Role: &iamtypes.Role{
		RoleName: params.RoleName,
		Arn:      awssdk.String(roleARN(name)),
	}}, nil
}

func (f *fakeIAM) DeleteRole(_ context.Context, params *iam.DeleteRoleInput, _ ...func(*iam.Options)) (*iam.DeleteRoleOutput, error) {
	name := awssdk.ToString(params.RoleName)
	if _, ok := f.roles[name]; !ok {
		return nil, &iamtypes.NoSuchEntityException{Message: awssdk.String("no such role")}
	}
	delete(f.roles, name)
	delete(f.attached, name)
	return &iam.DeleteRoleOutput{}, nil
}

func (f *fakeIAM) AttachRolePolicy(_ context.Context, params *iam.AttachRolePolicyInput, _ ...func(*iam.Options)) (*iam.AttachRolePolicyOutput, error) {
	name := awssdk.ToString(params.RoleName)
	f.attached[name] = append(f.attached[name], awssdk.ToString(params.PolicyArn))
	return &iam.AttachRolePolicyOutput{}, nil
}

func (f *fakeIAM) DetachRolePolicy(_ context.Context, params *iam.DetachRolePolicyInput, _ ...func(*iam.Options)) (*iam.DetachRolePolicyOutput, error) {
	name := awssdk.ToString(params.RoleName)
	arn := awssdk.ToString(params.PolicyArn)
	kept := f.attached[name][:0]
	for _, a := range f.attached[name] {
		if a != arn {
			kept = append(kept, a)
		}
	}
	f.attached[name] = kept
	return &iam.DetachRolePolicyOutput{}, nil
}

func (f *fakeIAM) ListAttachedRolePolicies(_ context.Context, params *iam.ListAttachedRolePoliciesInput, _ ...func(*iam.Options)) (*iam.ListAttachedRolePoliciesOutput, error) {
	name := awssdk.ToString(params.RoleName)
	if _, ok := f.roles[name]; !ok {
		return nil, &iamtypes.NoSuchEntityException{Message: awssdk.String("no such role")}
	}
	var policies []iamtypes.AttachedPolicy
	for _, arn := range f.attached[name] {
		policies = append(policies, iamtypes.AttachedPolicy{PolicyArn: awssdk.String(arn)})
	}
	return &iam.ListAttachedRolePoliciesOutput{AttachedPolicies: policies}, nil
}

func (f *fakeIAM) UpdateAssumeRolePolicy(_ context.Context, params *iam.UpdateAssumeRolePolicyInput, _ ...func(*iam.Options)) (*iam.UpdateAssumeRolePolicyOutput, error) {
	name := awssdk.ToString(params.RoleName)
	if _, ok := f.roles[name]; !ok {
		return nil, &iamtypes.NoSuchEntityException{Message: awssdk.String("no such role")}
	}
	f.roles[name] = awssdk.ToString(params.PolicyDocument)
	f.trustUpdates = append(f.trustUpdates, name)
	return &iam.UpdateAssumeRolePolicyOutput{}, nil
}

func (f *fakeIAM) CreateOpenIDConnectProvider(_ context.Context, params *iam.CreateOpenIDConnectProviderInput, _ ...func(*iam.Options)) (*iam.CreateOpenIDConnectProviderOutput, error) {
	url := awssdk.ToString(params.Url)
	arn := fmt.Sprintf("arn:aws:iam::123456789012:oidc-provider/%s", url[len("https://"):])
	f.providers[arn] = url
	return &iam.CreateOpenIDConnectProviderOutput{OpenIDConnectProviderArn: awssdk.String(arn)}, nil
}

func (f *fakeIAM) ListOpenIDConnectProviders(_ context.Context, _ *iam.ListOpenIDConnectProvidersInput, _ ...func(*iam.Options)) (*iam.ListOpenIDConnectProvidersOutput, error) {
	var list []iamtypes.OpenIDConnectProviderListEntry
	for arn := range f.providers {
		list = append(list, iamtypes.OpenIDConnectProviderListEntry{Arn: awssdk.String(arn)})
	}
	return &iam.ListOpenIDConnectProvidersOutput{OpenIDConnectProviderList: list}, nil
}

func (f *fakeIAM) GetOpenIDConnectProvider(_ context.Context, params *iam.GetOpenIDConnectProviderInput, _ ...func(*iam.Options)) (*iam.GetOpenIDConnectProviderOutput, error) {
	url, ok := f.providers[awssdk.ToString(params.OpenIDConnectProviderArn)]
	if !ok {
		return nil, &iamtypes.NoSuchEntityException{Message: awssdk.String("no such provider")}
	}
	return &iam.GetOpenIDConnectProviderOutput{Url: awssdk.String(url)}, nil
}

func (f *fakeIAM) DeleteOpenIDConnectProvider(_ context.Context, params *iam.DeleteOpenIDConnectProviderInput, _ ...func(*iam.Options)) (*iam.DeleteOpenIDConnectProviderOutput, error) {
	arn := awssdk.ToString(params.OpenIDConnectProviderArn)
	if _, ok := f.providers[arn]; !ok {
		return nil, &iamtypes.NoSuchEntityException{Message: awssdk.String("no such provider")}
	}
	delete(f.providers, arn)
	return &iam.DeleteOpenIDConnectProviderOutput{}, nil
}

// fakeSTS answers with a fixed account.
type fakeSTS struct{}

func (fakeSTS) GetCallerIdentity(_ context.Context, _ *sts.GetCallerIdentityInput, _ ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	return &sts.GetCallerIdentityOutput{Account: awssdk.String("123456789012")}, nil
}

// fakeEC2 holds key pairs and a default VPC layout.
type fakeEC2 struct {
	keys    map[string][]byte
	subnets []struct{ id, zone string }
}

func newFakeEC2() *fakeEC2 {
	return &fakeEC2{keys: map[string][]byte{}}
}

func (f *fakeEC2) ImportKeyPair(_ context.Context, params *ec2.ImportKeyPairInput, _ ...func(*ec2.Options)) (*ec2.ImportKeyPairOutput, error) {
	name := awssdk.ToString(params.KeyName)
	if _, ok := f.keys[name]; ok {
		return nil, &smithy.GenericAPIError{Code: "InvalidKeyPair.Duplicate", Message: "key exists"}
	}
	f.keys[name] = params.PublicKeyMaterial
	return &ec2.ImportKeyPairOutput{KeyName: params.KeyName}, nil
}

func (f *fakeEC2) DescribeKeyPairs(_ context.Context, _ *ec2.DescribeKeyPairsInput, _ ...func(*ec2.Options)) (*ec2.DescribeKeyPairsOutput, error) {
	return &ec2.DescribeKeyPairsOutput{}, nil
}

func (f *fakeEC2) DeleteKeyPair(_ context.Context, params *ec2.DeleteKeyPairInput, _ ...func(*ec2.Options)) (*ec2.DeleteKeyPairOutput, error) {
	delete(f.keys, awssdk.ToString(params.KeyName))
	return &ec2.DeleteKeyPairOutput{}, nil
}

func (f *fakeEC2) DescribeVpcs(_ context.Context, _ *ec2.DescribeVpcsInput, _ ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error) {
	return &ec2.DescribeVpcsOutput{Vpcs: []ec2types.Vpc{{VpcId: awssdk.String("vpc-0default")}}}, nil
}

func (f *fakeEC2) DescribeSubnets(_ context.Context, _ *ec2.DescribeSubnetsInput, _ ...func(*ec2.Options)) (*ec2.DescribeSubnetsOutput, error) {
	var subnets []ec2types.Subnet
	for _, s := range f.subnets {
		subnets = append(subnets, ec2types.Subnet{
			SubnetId:         awssdk.String(s.id),
			AvailabilityZone: awssdk.String(s.zone),
		})
	}
	return &ec2.DescribeSubnetsOutput{Subnets: subnets}, nil
}
