package aws

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"sort"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	ekstypes "github.com/aws/aws-sdk-go-v2/service/eks/types"
)

// allLogTypes is every control-plane log type EKS knows.
var allLogTypes = []ekstypes.LogType{
	ekstypes.LogTypeApi,
	ekstypes.LogTypeAudit,
	ekstypes.LogTypeAuthenticator,
	ekstypes.LogTypeControllerManager,
	ekstypes.LogTypeScheduler,
}

// EnsureCluster creates the cluster if missing and waits until active.
func (c *RealClient) EnsureCluster(ctx context.Context, spec ClusterSpec) (*Cluster, error) {
	existing, err := c.GetCluster(ctx, spec.Name)
	if err == nil {
		log.Printf("cluster %s: exists (status %s)", spec.Name, existing.Status)
		if existing.Status == string(ekstypes.ClusterStatusActive) {
			return existing, nil
		}
		return c.waitClusterActive(ctx, spec.Name)
	}
	if !IsNotFound(err) {
		return nil, err
	}

	log.Printf("cluster %s: creating (version %s)", spec.Name, spec.Version)
	input := &eks.CreateClusterInput{
		Name:    awssdk.String(spec.Name),
		Version: awssdk.String(spec.Version),
		RoleArn: awssdk.String(spec.RoleARN),
		ResourcesVpcConfig: &ekstypes.VpcConfigRequest{
			SubnetIds: spec.SubnetIDs,
		},
		Logging: loggingFor(spec.LogTypes),
		Tags:    spec.Tags,
	}
	if _, err := c.eks.CreateCluster(ctx, input); err != nil {
		if !IsAlreadyExists(err) {
			return nil, fmt.Errorf("failed to create cluster %s: %w", spec.Name, err)
		}
	}

	return c.waitClusterActive(ctx, spec.Name)
}

// EnsureLogging reconciles control-plane log shipping with the wanted types.
func (c *RealClient) EnsureLogging(ctx context.Context, clusterName string, logTypes []string) error {
	out, err := c.eks.DescribeCluster(ctx, &eks.DescribeClusterInput{Name: awssdk.String(clusterName)})
	if err != nil {
		return fmt.Errorf("failed to describe cluster %s: %w", clusterName, err)
	}

	current := enabledLogTypes(out.Cluster.Logging)
	wanted := make([]string, len(logTypes))
	copy(wanted, logTypes)
	sort.Strings(current)
	sort.Strings(wanted)
	if equalStrings(current, wanted) {
		return nil
	}

	log.Printf("cluster %s: updating log types %v -> %v", clusterName, current, wanted)
	_, err = c.eks.UpdateClusterConfig(ctx, &eks.UpdateClusterConfigInput{
		Name:    awssdk.String(clusterName),
		Logging: loggingFor(logTypes),
	})
	if err != nil {
		return fmt.Errorf("failed to update logging for cluster %s: %w", clusterName, err)
	}

	_, err = c.waitClusterActive(ctx, clusterName)
	return err
}

// GetCluster returns the cluster, or an error wrapping ErrNotFound.
func (c *RealClient) GetCluster(ctx context.Context, name string) (*Cluster, error) {
	out, err := c.eks.DescribeCluster(ctx, &eks.DescribeClusterInput{Name: awssdk.String(name)})
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("cluster %s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to describe cluster %s: %w", name, err)
	}
	return clusterFrom(out.Cluster)
}

// DeleteCluster deletes the cluster and waits for it to disappear.
func (c *RealClient) DeleteCluster(ctx context.Context, name string) error {
	_, err := c.eks.DeleteCluster(ctx, &eks.DeleteClusterInput{Name: awssdk.String(name)})
	if err != nil {
		if IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to delete cluster %s: %w", name, err)
	}

	log.Printf("cluster %s: deleting", name)
	waiter := eks.NewClusterDeletedWaiter(c.eks)
	if err := waiter.Wait(ctx, &eks.DescribeClusterInput{Name: awssdk.String(name)}, c.clusterWait); err != nil {
		return fmt.Errorf("cluster %s did not finish deleting: %w", name, err)
	}
	return nil
}

func (c *RealClient) waitClusterActive(ctx context.Context, name string) (*Cluster, error) {
	waiter := eks.NewClusterActiveWaiter(c.eks)
	if err := waiter.Wait(ctx, &eks.DescribeClusterInput{Name: awssdk.String(name)}, c.clusterWait); err != nil {
		return nil, fmt.Errorf("cluster %s did not become active: %w", name, err)
	}
	return c.GetCluster(ctx, name)
}

func clusterFrom(cl *ekstypes.Cluster) (*Cluster, error) {
	if cl == nil {
		return nil, fmt.Errorf("empty cluster in API response")
	}

	var caData []byte
	if cl.CertificateAuthority != nil && cl.CertificateAuthority.Data != nil {
		decoded, err := base64.StdEncoding.DecodeString(*cl.CertificateAuthority.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode cluster CA: %w", err)
		}
		caData = decoded
	}

	var issuer string
	if cl.Identity != nil && cl.Identity.Oidc != nil {
		issuer = awssdk.ToString(cl.Identity.Oidc.Issuer)
	}

	return &Cluster{
		Name:       awssdk.ToString(cl.Name),
		ARN:        awssdk.ToString(cl.Arn),
		Endpoint:   awssdk.ToString(cl.Endpoint),
		CAData:     caData,
		OIDCIssuer: issuer,
		Version:    awssdk.ToString(cl.Version),
		Status:     string(cl.Status),
	}, nil
}

// loggingFor builds the EKS logging config: wanted types enabled, the rest
// explicitly disabled so removals reconcile too.
func loggingFor(logTypes []string) *ekstypes.Logging {
	wanted := make(map[ekstypes.LogType]bool, len(logTypes))
	for _, t := range logTypes {
		wanted[ekstypes.LogType(t)] = true
	}

	var enabled, disabled []ekstypes.LogType
	for _, t := range allLogTypes {
		if wanted[t] {
			enabled = append(enabled, t)
		} else {
			disabled = append(disabled, t)
		}
	}

	logging := &ekstypes.Logging{}
	if len(enabled) > 0 {
		logging.ClusterLogging = append(logging.ClusterLogging, ekstypes.LogSetup{
			Enabled: awssdk.Bool(true),
			Types:   enabled,
		})
	}
	if len(disabled) > 0 {
		logging.ClusterLogging = append(logging.ClusterLogging, ekstypes.LogSetup{
			Enabled: awssdk.Bool(false),
			Types:   disabled,
		})
	}
	return logging
}

func enabledLogTypes(logging *ekstypes.Logging) []string {
	if logging == nil {
		return nil
	}
	var out []string
	for _, setup := range logging.ClusterLogging {
		if setup.Enabled == nil || !*setup.Enabled {
			continue
		}
		for _, t := range setup.Types {
			out = append(out, string(t))
		}
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
