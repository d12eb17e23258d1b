package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
)

// Managed policies attached to the roles eksforge creates.
var (
	clusterRolePolicies = []string{
		"arn:aws:iam::aws:policy/AmazonEKSClusterPolicy",
	}
	nodeRolePolicies = []string{
		"arn:aws:iam::aws:policy/AmazonEKSWorkerNodePolicy",
		"arn:aws:iam::aws:policy/AmazonEKS_CNI_Policy",
		"arn:aws:iam::aws:policy/AmazonEC2ContainerRegistryReadOnly",
	}
)

// ClusterRoleName returns the name of the EKS service role eksforge
// creates for a cluster.
func ClusterRoleName(clusterName string) string {
	return fmt.Sprintf("%s-eks-cluster-role", clusterName)
}

// NodeRoleName returns the name of the node instance role eksforge
// creates for a cluster.
func NodeRoleName(clusterName string) string {
	return fmt.Sprintf("%s-eks-node-role", clusterName)
}

// EnsureClusterRole ensures the EKS service role and returns its ARN.
func (c *RealClient) EnsureClusterRole(ctx context.Context, clusterName string, tags map[string]string) (string, error) {
	name := ClusterRoleName(clusterName)
	trust, err := servicePrincipalTrust("eks.amazonaws.com")
	if err != nil {
		return "", err
	}
	return c.ensureRole(ctx, name, trust, clusterRolePolicies, tags)
}

// EnsureNodeRole ensures the node instance role and returns its ARN.
func (c *RealClient) EnsureNodeRole(ctx context.Context, clusterName string, tags map[string]string) (string, error) {
	name := NodeRoleName(clusterName)
	trust, err := servicePrincipalTrust("ec2.amazonaws.com")
	if err != nil {
		return "", err
	}
	return c.ensureRole(ctx, name, trust, nodeRolePolicies, tags)
}

// EnsureOIDCProvider registers the cluster's OIDC issuer with IAM.
func (c *RealClient) EnsureOIDCProvider(ctx context.Context, issuerURL string, tags map[string]string) (string, error) {
	issuerHost := strings.TrimPrefix(issuerURL, "https://")

	existing, err := c.findOIDCProvider(ctx, issuerHost)
	if err != nil {
		return "", err
	}
	if existing != "" {
		return existing, nil
	}

	thumbprint, err := c.thumbprinter(ctx, issuerURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch OIDC thumbprint: %w", err)
	}

	log.Printf("oidc provider: registering %s", issuerHost)
	out, err := c.iam.CreateOpenIDConnectProvider(ctx, &iam.CreateOpenIDConnectProviderInput{
		Url:            awssdk.String(issuerURL),
		ClientIDList:   []string{"sts.amazonaws.com"},
		ThumbprintList: []string{thumbprint},
		Tags:           iamTags(tags),
	})
	if err != nil {
		if IsAlreadyExists(err) {
			return c.findOIDCProvider(ctx, issuerHost)
		}
		return "", fmt.Errorf("failed to create OIDC provider: %w", err)
	}
	return awssdk.ToString(out.OpenIDConnectProviderArn), nil
}

// EnsureServiceAccountRole ensures an IRSA role scoped to one service
// account and returns its ARN.
func (c *RealClient) EnsureServiceAccountRole(ctx context.Context, spec ServiceAccountRoleSpec) (string, error) {
	trust, err := irsaTrust(spec)
	if err != nil {
		return "", err
	}

	got, err := c.iam.GetRole(ctx, &iam.GetRoleInput{RoleName: awssdk.String(spec.RoleName)})
	if err == nil {
		// Keep the trust policy current; the issuer changes when the
		// cluster is recreated.
		_, err = c.iam.UpdateAssumeRolePolicy(ctx, &iam.UpdateAssumeRolePolicyInput{
			RoleName:       awssdk.String(spec.RoleName),
			PolicyDocument: awssdk.String(trust),
		})
		if err != nil {
			return "", fmt.Errorf("failed to update trust policy for role %s: %w", spec.RoleName, err)
		}
		if err := c.attachPolicies(ctx, spec.RoleName, spec.PolicyARNs); err != nil {
			return "", err
		}
		return awssdk.ToString(got.Role.Arn), nil
	}
	if !IsNotFound(err) {
		return "", fmt.Errorf("failed to get role %s: %w", spec.RoleName, err)
	}

	return c.ensureRole(ctx, spec.RoleName, trust, spec.PolicyARNs, spec.Tags)
}

// DeleteRole detaches all managed policies and deletes the role.
func (c *RealClient) DeleteRole(ctx context.Context, roleName string) error {
	attached, err := c.iam.ListAttachedRolePolicies(ctx, &iam.ListAttachedRolePoliciesInput{
		RoleName: awssdk.String(roleName),
	})
	if err != nil {
		if IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to list policies for role %s: %w", roleName, err)
	}

	for _, policy := range attached.AttachedPolicies {
		_, err := c.iam.DetachRolePolicy(ctx, &iam.DetachRolePolicyInput{
			RoleName:  awssdk.String(roleName),
			PolicyArn: policy.PolicyArn,
		})
		if err != nil && !IsNotFound(err) {
			return fmt.Errorf("failed to detach policy from role %s: %w", roleName, err)
		}
	}

	_, err = c.iam.DeleteRole(ctx, &iam.DeleteRoleInput{RoleName: awssdk.String(roleName)})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete role %s: %w", roleName, err)
	}
	return nil
}

// DeleteOIDCProvider removes the provider registration for the issuer.
func (c *RealClient) DeleteOIDCProvider(ctx context.Context, issuerURL string) error {
	issuerHost := strings.TrimPrefix(issuerURL, "https://")
	arn, err := c.findOIDCProvider(ctx, issuerHost)
	if err != nil || arn == "" {
		return err
	}
	_, err = c.iam.DeleteOpenIDConnectProvider(ctx, &iam.DeleteOpenIDConnectProviderInput{
		OpenIDConnectProviderArn: awssdk.String(arn),
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete OIDC provider: %w", err)
	}
	return nil
}

// ensureRole creates a role if missing and attaches the given policies.
func (c *RealClient) ensureRole(ctx context.Context, name, trustPolicy string, policyARNs []string, tags map[string]string) (string, error) {
	var arn string
	got, err := c.iam.GetRole(ctx, &iam.GetRoleInput{RoleName: awssdk.String(name)})
	switch {
	case err == nil:
		arn = awssdk.ToString(got.Role.Arn)
	case IsNotFound(err):
		log.Printf("iam role %s: creating", name)
		created, err := c.iam.CreateRole(ctx, &iam.CreateRoleInput{
			RoleName:                 awssdk.String(name),
			AssumeRolePolicyDocument: awssdk.String(trustPolicy),
			Tags:                     iamTags(tags),
		})
		if err != nil {
			return "", fmt.Errorf("failed to create role %s: %w", name, err)
		}
		arn = awssdk.ToString(created.Role.Arn)
	default:
		return "", fmt.Errorf("failed to get role %s: %w", name, err)
	}

	if err := c.attachPolicies(ctx, name, policyARNs); err != nil {
		return "", err
	}
	return arn, nil
}

// attachPolicies attaches each policy; attaching twice is a no-op on AWS.
func (c *RealClient) attachPolicies(ctx context.Context, roleName string, policyARNs []string) error {
	for _, arn := range policyARNs {
		_, err := c.iam.AttachRolePolicy(ctx, &iam.AttachRolePolicyInput{
			RoleName:  awssdk.String(roleName),
			PolicyArn: awssdk.String(arn),
		})
		if err != nil && !IsAlreadyExists(err) {
			return fmt.Errorf("failed to attach policy %s to role %s: %w", arn, roleName, err)
		}
	}
	return nil
}

// findOIDCProvider returns the ARN of the provider whose URL matches the
// issuer host, or "" when none is registered.
func (c *RealClient) findOIDCProvider(ctx context.Context, issuerHost string) (string, error) {
	list, err := c.iam.ListOpenIDConnectProviders(ctx, &iam.ListOpenIDConnectProvidersInput{})
	if err != nil {
		return "", fmt.Errorf("failed to list OIDC providers: %w", err)
	}

	for _, provider := range list.OpenIDConnectProviderList {
		arn := awssdk.ToString(provider.Arn)
		// Provider ARNs end with the issuer host and path.
		if strings.HasSuffix(arn, issuerHost) {
			return arn, nil
		}
	}
	return "", nil
}

// trustPolicy is an IAM assume-role policy document.
type trustPolicy struct {
	Version   string           `json:"Version"`
	Statement []trustStatement `json:"Statement"`
}

type trustStatement struct {
	Effect    string         `json:"Effect"`
	Principal map[string]any `json:"Principal"`
	Action    string         `json:"Action"`
	Condition map[string]any `json:"Condition,omitempty"`
}

func servicePrincipalTrust(service string) (string, error) {
	doc := trustPolicy{
		Version: "2012-10-17",
		Statement: []trustStatement{{
			Effect:    "Allow",
			Principal: map[string]any{"Service": service},
			Action:    "sts:AssumeRole",
		}},
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal trust policy: %w", err)
	}
	return string(out), nil
}

// irsaTrust builds the web-identity trust policy binding one Kubernetes
// service account to the role through the cluster's OIDC provider.
func irsaTrust(spec ServiceAccountRoleSpec) (string, error) {
	issuerHost := strings.TrimPrefix(spec.OIDCIssuer, "https://")

	doc := trustPolicy{
		Version: "2012-10-17",
		Statement: []trustStatement{{
			Effect:    "Allow",
			Principal: map[string]any{"Federated": spec.OIDCProviderARN},
			Action:    "sts:AssumeRoleWithWebIdentity",
			Condition: map[string]any{
				"StringEquals": map[string]string{
					issuerHost + ":sub": fmt.Sprintf("system:serviceaccount:%s:%s", spec.Namespace, spec.ServiceAccount),
					issuerHost + ":aud": "sts.amazonaws.com",
				},
			},
		}},
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal IRSA trust policy: %w", err)
	}
	return string(out), nil
}

func iamTags(tags map[string]string) []iamtypes.Tag {
	if len(tags) == 0 {
		return nil
	}
	out := make([]iamtypes.Tag, 0, len(tags))
	for k, v := range tags {
		out = append(out, iamtypes.Tag{Key: awssdk.String(k), Value: awssdk.String(v)})
	}
	return out
}
