package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Spec is the simplified, opinionated descriptor written by `eksforge init`.
// Five fields are enough for a production-ready cluster; Expand fills in the
// rest with the same defaults ApplyDefaults uses.
type Spec struct {
	// Name is the cluster name, used for resource naming and tagging.
	Name string `yaml:"name"`

	// Region is the AWS region.
	Region string `yaml:"region"`

	// Workers defines the worker pool.
	Workers WorkerSpec `yaml:"workers"`

	// OIDC associates an IAM OIDC provider for IRSA. Default: true.
	OIDC *bool `yaml:"oidc,omitempty"`

	// Logging ships all five control-plane log types to CloudWatch.
	Logging bool `yaml:"logging,omitempty"`
}

// WorkerSpec defines the simplified worker pool.
type WorkerSpec struct {
	// Count is the desired number of worker nodes (1-10).
	Count int `yaml:"count"`

	// Size is the node sizing tier.
	Size NodeSize `yaml:"size"`

	// Arch selects the CPU architecture. Default: amd64.
	Arch Arch `yaml:"arch,omitempty"`

	// Spot requests spot capacity.
	Spot bool `yaml:"spot,omitempty"`
}

// NodeSize is a named sizing tier resolved to instance types at apply time.
type NodeSize string

const (
	// SizeSmall is 2 vCPU, 4GiB RAM.
	SizeSmall NodeSize = "small"
	// SizeMedium is 2 vCPU, 8GiB RAM.
	SizeMedium NodeSize = "medium"
	// SizeLarge is 4 vCPU, 16GiB RAM.
	SizeLarge NodeSize = "large"
	// SizeXLarge is 8 vCPU, 32GiB RAM.
	SizeXLarge NodeSize = "xlarge"
)

// ValidNodeSizes returns all valid sizing tiers.
func ValidNodeSizes() []NodeSize {
	return []NodeSize{SizeSmall, SizeMedium, SizeLarge, SizeXLarge}
}

// IsValid returns true if the size is a known tier.
func (s NodeSize) IsValid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge, SizeXLarge:
		return true
	default:
		return false
	}
}

// Selector returns the sizing constraints for this tier.
func (s NodeSize) Selector() InstanceSelector {
	switch s {
	case SizeSmall:
		return InstanceSelector{MemoryGiB: 4, VCPUs: 2}
	case SizeMedium:
		return InstanceSelector{MemoryGiB: 8, VCPUs: 2}
	case SizeLarge:
		return InstanceSelector{MemoryGiB: 16, VCPUs: 4}
	case SizeXLarge:
		return InstanceSelector{MemoryGiB: 32, VCPUs: 8}
	default:
		return InstanceSelector{}
	}
}

// String returns a human-readable description of the tier.
func (s NodeSize) String() string {
	sel := s.Selector()
	if sel.VCPUs == 0 {
		return string(s)
	}
	return fmt.Sprintf("%s (%d vCPU, %dGiB RAM)", string(s), sel.VCPUs, sel.MemoryGiB)
}

// Validate validates the simplified spec.
func (s *Spec) Validate() error {
	var errs []error

	if s.Name == "" {
		errs = append(errs, errors.New("name is required"))
	} else if !isValidDNSName(s.Name) {
		errs = append(errs, errors.New("name must be DNS-safe (lowercase alphanumeric and hyphens, must start with letter)"))
	}

	if !ValidRegions[s.Region] {
		errs = append(errs, fmt.Errorf("region %q is not an EKS region eksforge knows", s.Region))
	}

	if s.Workers.Count < 1 || s.Workers.Count > 10 {
		errs = append(errs, errors.New("workers.count must be 1-10"))
	}
	if !s.Workers.Size.IsValid() {
		errs = append(errs, fmt.Errorf("workers.size must be one of: %v", ValidNodeSizes()))
	}
	if s.Workers.Arch != "" && !s.Workers.Arch.IsValid() {
		errs = append(errs, fmt.Errorf("workers.arch must be one of: %v", ValidArchs()))
	}

	return errors.Join(errs...)
}

// Expand turns the simplified spec into a full, validated descriptor.
func (s *Spec) Expand() (*Config, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("spec validation failed: %w", err)
	}

	arch := s.Workers.Arch
	if arch == "" {
		arch = ArchAMD64
	}

	sel := s.Workers.Size.Selector()
	maxSize := s.Workers.Count + 2

	cfg := &Config{
		ClusterName: s.Name,
		Region:      s.Region,
		Logging:     LoggingConfig{Enabled: s.Logging},
		IAM:         IAMConfig{WithOIDC: s.OIDC == nil || *s.OIDC},
		NodeGroups: []NodeGroup{{
			Name:     "workers",
			Arch:     arch,
			MinSize:  1,
			MaxSize:  maxSize,
			Desired:  s.Workers.Count,
			Selector: &sel,
			Spot:     s.Workers.Spot,
		}},
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("expanded config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadSpec reads and validates a simplified spec from a file.
func LoadSpec(path string) (*Spec, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file: %w", err)
	}

	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("spec validation failed: %w", err)
	}
	return &spec, nil
}
